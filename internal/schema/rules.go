package schema

// Status values per kind. The gate package owns the transition machines;
// the schema only constrains the field to its legal value set.
var (
	SpecStatuses   = []string{"draft", "active", "deprecated"}
	ChangeStatuses = []string{"draft", "review", "approved", "in_progress", "done", "rejected", "canceled"}
	PlanStatuses   = []string{"planned", "in_progress", "done", "blocked", "canceled"}
	RunStatuses    = []string{"success", "partial", "failure"}

	// RiskLevels classify a change and drive evidence requirements.
	RiskLevels = []string{"low", "medium", "high", "critical"}
)

// DatePattern matches YYYY-MM-DD created dates.
const DatePattern = `^\d{4}-\d{2}-\d{2}$`

// SpecRefPattern matches domain/capability references (lowercase kebab
// segments separated by a single slash).
const SpecRefPattern = `^[a-z0-9]+(?:-[a-z0-9]+)*/[a-z0-9]+(?:-[a-z0-9]+)*$`

// commonFields are required on every document kind at version 1.
func commonFields(statuses []string) []Field {
	return []Field{
		{Name: "schema_version", Type: FieldTypeInt, Required: true, Min: 1},
		{Name: "status", Type: FieldTypeString, Required: true, Enum: statuses},
		{Name: "title", Type: FieldTypeString, Required: true},
		{Name: "created", Type: FieldTypeString, Required: true, Pattern: DatePattern},
	}
}

// rules holds the per-version requirement increments for each kind, indexed
// by version-1. Lookup merges them additively.
var rules = map[Kind][]RuleSet{
	KindSpec: {
		{
			Kind:    KindSpec,
			Version: 1,
			Fields:  commonFields(SpecStatuses),
			Sections: []string{
				"Overview",
				"Functional Requirements",
				"Non-Functional Requirements",
				"Acceptance Criteria",
			},
			Numbering: []Numbering{
				{Prefix: "FR", Section: "Functional Requirements"},
				{Prefix: "NFR", Section: "Non-Functional Requirements"},
				{Prefix: "AC", Section: "Acceptance Criteria"},
			},
		},
		{
			Kind:    KindSpec,
			Version: 2,
			Fields: []Field{
				{Name: "owner", Type: FieldTypeString, Required: true},
			},
		},
	},
	KindChange: {
		{
			Kind:    KindChange,
			Version: 1,
			Fields: append(commonFields(ChangeStatuses),
				Field{Name: "risk_level", Type: FieldTypeString, Required: true, Enum: RiskLevels},
				Field{Name: "clarity_score", Type: FieldTypeInt, Required: true, Min: 0, Max: 10},
				Field{Name: "spec_refs", Type: FieldTypeList, Required: true},
			),
			Sections: []string{"Why", "Impact", "Rollback"},
		},
		{
			Kind:         KindChange,
			Version:      2,
			RiskSections: []string{"Release", "Migration"},
		},
	},
	KindPlan: {
		{
			Kind:    KindPlan,
			Version: 1,
			Fields: append(commonFields(PlanStatuses),
				Field{Name: "readiness_score", Type: FieldTypeInt, Required: true, Min: 0, Max: 10},
				Field{Name: "spec_refs", Type: FieldTypeList, Required: true},
			),
			Sections: []string{"Steps", "Verification"},
		},
	},
	KindRun: {
		{
			Kind:    KindRun,
			Version: 1,
			Fields: append(commonFields(RunStatuses),
				Field{Name: "risk_level", Type: FieldTypeString, Required: true, Enum: RiskLevels},
				Field{Name: "revision", Type: FieldTypeString, Required: false},
				Field{Name: "code_refs", Type: FieldTypeList, Required: false},
			),
			Sections: []string{"Evidence"},
		},
	},
}
