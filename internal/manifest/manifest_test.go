package manifest

import (
	"testing"
)

func TestParse(t *testing.T) {
	m, err := Parse([]byte(`{
		"name": "demo",
		"dependencies": {"react": "18.0.0"},
		"devDependencies": {"jest": "^29.0.0"}
	}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.Name != "demo" {
		t.Errorf("Name = %q, want demo", m.Name)
	}
	if m.Dependencies["react"] != "18.0.0" {
		t.Errorf("Dependencies[react] = %q, want 18.0.0", m.Dependencies["react"])
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte(`{not json`)); err == nil {
		t.Fatal("Parse with invalid JSON: expected error")
	}
}

func TestParse_NoDependencyMaps(t *testing.T) {
	m, err := Parse([]byte(`{"name": "bare"}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.Has("react") {
		t.Error("Has(react) = true on a manifest with no dependency maps")
	}
}

func TestHas_Union(t *testing.T) {
	m := &Manifest{
		Dependencies:    map[string]string{"react": "18.0.0", "shared": "1.0.0"},
		DevDependencies: map[string]string{"jest": "^29.0.0", "shared": "2.0.0"},
	}
	cases := []struct {
		pkg  string
		want bool
	}{
		{"react", true},   // regular only
		{"jest", true},    // dev only
		{"shared", true},  // both, still a single boolean
		{"express", false},
	}
	for _, c := range cases {
		if got := m.Has(c.pkg); got != c.want {
			t.Errorf("Has(%q) = %t, want %t", c.pkg, got, c.want)
		}
	}
}

func TestDependencyFlags(t *testing.T) {
	m := &Manifest{Dependencies: map[string]string{"react": "18.0.0"}}
	flags := m.DependencyFlags([]string{"react", "express"})
	if !flags["react"] {
		t.Error("flags[react] = false, want true")
	}
	if flags["express"] {
		t.Error("flags[express] = true, want false")
	}
	if len(flags) != 2 {
		t.Errorf("len(flags) = %d, want 2", len(flags))
	}
}
