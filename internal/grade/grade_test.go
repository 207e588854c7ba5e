package grade

import (
	"testing"

	"github.com/stackgrade/stackgrade/internal/schema"
)

func TestLetter_Boundaries(t *testing.T) {
	cases := []struct {
		score int
		want  schema.Grade
	}{
		{100, schema.GradeS},
		{98, schema.GradeS},
		{97, schema.GradeA},
		{90, schema.GradeA},
		{89, schema.GradeB},
		{80, schema.GradeB},
		{79, schema.GradeC},
		{70, schema.GradeC},
		{69, schema.GradeD},
		{60, schema.GradeD},
		{59, schema.GradeF},
		{1, schema.GradeF},
		{0, schema.GradeF},
	}
	for _, c := range cases {
		if got := Letter(c.score); got != c.want {
			t.Errorf("Letter(%d) = %q, want %q", c.score, got, c.want)
		}
	}
}

func TestLetter_ExhaustiveAndMonotonic(t *testing.T) {
	valid := map[schema.Grade]bool{
		schema.GradeS: true, schema.GradeA: true, schema.GradeB: true,
		schema.GradeC: true, schema.GradeD: true, schema.GradeF: true,
	}
	prev := Letter(0)
	for score := 0; score <= 100; score++ {
		g := Letter(score)
		if !valid[g] {
			t.Fatalf("Letter(%d) = %q, not one of the six grades", score, g)
		}
		// Higher score never yields a worse grade.
		if Ordinal(g) > Ordinal(prev) {
			t.Errorf("Letter(%d) = %q is worse than Letter(%d) = %q", score, g, score-1, prev)
		}
		prev = g
	}
}

func TestPass_Cutoff(t *testing.T) {
	if !Pass(DefaultPassCutoff, DefaultPassCutoff) {
		t.Errorf("Pass(%d, %d) = false, want true at the cutoff", DefaultPassCutoff, DefaultPassCutoff)
	}
	if Pass(DefaultPassCutoff-1, DefaultPassCutoff) {
		t.Errorf("Pass(%d, %d) = true, want false one below the cutoff", DefaultPassCutoff-1, DefaultPassCutoff)
	}
	if !Pass(100, 50) {
		t.Error("Pass(100, 50) = false, want true")
	}
}

func TestOrdinal_Ordering(t *testing.T) {
	grades := []schema.Grade{
		schema.GradeS, schema.GradeA, schema.GradeB,
		schema.GradeC, schema.GradeD, schema.GradeF,
	}
	for i := 1; i < len(grades); i++ {
		if Ordinal(grades[i-1]) >= Ordinal(grades[i]) {
			t.Errorf("Ordinal(%q) >= Ordinal(%q): not strictly ascending", grades[i-1], grades[i])
		}
	}
	if got := Ordinal(schema.Grade("X")); got != -1 {
		t.Errorf("Ordinal(X) = %d, want -1", got)
	}
}
