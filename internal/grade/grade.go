// Package grade provides deterministic local logic for grade mapping and the
// pass verdict. No LLM calls are made here.
package grade

import (
	"github.com/stackgrade/stackgrade/internal/schema"
)

// DefaultPassCutoff is the minimum overall score for a passing verdict.
// It corresponds to "B grade or better" and is independent of the letter
// thresholds below; callers may override it per analyzer.
const DefaultPassCutoff = 80

// Letter maps a 0-100 score to a letter grade. Thresholds are evaluated
// top-down, first match wins; boundaries are inclusive on the lower edge.
func Letter(score int) schema.Grade {
	switch {
	case score >= 98:
		return schema.GradeS
	case score >= 90:
		return schema.GradeA
	case score >= 80:
		return schema.GradeB
	case score >= 70:
		return schema.GradeC
	case score >= 60:
		return schema.GradeD
	default:
		return schema.GradeF
	}
}

// Pass reports whether score meets the cutoff.
func Pass(score, cutoff int) bool {
	return score >= cutoff
}

// Ordinal returns the numeric ordinal for a grade, used to compare grade
// order. S=0 down to F=5; unknown grades return -1.
func Ordinal(g schema.Grade) int {
	switch g {
	case schema.GradeS:
		return 0
	case schema.GradeA:
		return 1
	case schema.GradeB:
		return 2
	case schema.GradeC:
		return 3
	case schema.GradeD:
		return 4
	case schema.GradeF:
		return 5
	default:
		return -1
	}
}
