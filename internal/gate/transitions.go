package gate

import "github.com/specgate/specgate/internal/schema"

// allowedTransition reports whether a status transition is legal for the
// kind, before any gate requirements are considered.
func allowedTransition(kind schema.Kind, from, to string) bool {
	switch kind {
	case schema.KindSpec:
		switch from {
		case "draft":
			return to == "active"
		case "active":
			return to == "deprecated"
		default:
			return false
		}
	case schema.KindChange:
		switch from {
		case "draft":
			return to == "review" || to == "rejected"
		case "review":
			return to == "approved"
		case "approved":
			return to == "in_progress" || to == "canceled"
		case "in_progress":
			return to == "done" || to == "canceled"
		default:
			return false
		}
	case schema.KindPlan:
		switch from {
		case "planned":
			return to == "in_progress" || to == "blocked" || to == "canceled"
		case "in_progress":
			return to == "done" || to == "blocked" || to == "canceled"
		case "blocked":
			return to == "in_progress" || to == "canceled"
		default:
			return false
		}
	case schema.KindRun:
		// Run statuses are terminal results; a record may be corrected
		// between them, subject to the target's requirements.
		return isRunStatus(from) && isRunStatus(to) && from != to
	default:
		return false
	}
}

func isRunStatus(s string) bool {
	return s == "success" || s == "partial" || s == "failure"
}
