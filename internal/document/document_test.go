package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTaskDirName(t *testing.T) {
	tests := map[string]struct {
		name     string
		wantOK   bool
		wantSeq  int
		wantType string
		wantSlug string
	}{
		"valid feature":   {name: "000042_feature_dark-mode", wantOK: true, wantSeq: 42, wantType: "feature", wantSlug: "dark-mode"},
		"valid fix":       {name: "000001_fix_refund-rounding", wantOK: true, wantSeq: 1, wantType: "fix", wantSlug: "refund-rounding"},
		"short sequence":  {name: "42_feature_dark-mode", wantOK: false},
		"unknown type":    {name: "000042_epic_dark-mode", wantOK: false},
		"uppercase slug":  {name: "000042_feature_DarkMode", wantOK: false},
		"missing slug":    {name: "000042_feature_", wantOK: false},
		"trailing hyphen": {name: "000042_feature_dark-", wantOK: false},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			seq, typ, slug, ok := ParseTaskDirName(test.name)
			assert.Equal(t, test.wantOK, ok)
			if test.wantOK {
				assert.Equal(t, test.wantSeq, seq)
				assert.Equal(t, test.wantType, typ)
				assert.Equal(t, test.wantSlug, slug)
			}
		})
	}
}

func TestSplitSections(t *testing.T) {
	body := `Intro text before any section.

## Why

Because reasons.

## Impact

Some impact.
Spanning two lines.

## Rollback
`
	sections := SplitSections(body)

	assert.Equal(t, "Because reasons.", sections["Why"])
	assert.Equal(t, "Some impact.\nSpanning two lines.", sections["Impact"])

	// Present but empty sections map to the empty string.
	content, ok := sections["Rollback"]
	assert.True(t, ok)
	assert.Equal(t, "", content)

	_, ok = sections["Release"]
	assert.False(t, ok)
}

func TestSplitSectionsIgnoresOtherHeadings(t *testing.T) {
	body := "# Title\n\n## Why\n\n### Sub-detail\n\ntext under sub\n"
	sections := SplitSections(body)

	assert.Len(t, sections, 1)
	assert.Contains(t, sections["Why"], "### Sub-detail")
}

func TestRiskLevelRequiresEvidence(t *testing.T) {
	assert.False(t, RiskLow.RequiresEvidence())
	assert.False(t, RiskMedium.RequiresEvidence())
	assert.True(t, RiskHigh.RequiresEvidence())
	assert.True(t, RiskCritical.RequiresEvidence())
}
