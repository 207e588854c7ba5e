package profile

import "testing"

func TestLoad_Builtins(t *testing.T) {
	for _, name := range []string{"general", "frontend", "backend", "library"} {
		p, err := Load(name)
		if err != nil {
			t.Errorf("Load(%q): %v", name, err)
			continue
		}
		if p.Name != name {
			t.Errorf("Load(%q).Name = %q", name, p.Name)
		}
		if p.SystemPromptAddendum == "" {
			t.Errorf("Load(%q): empty addendum", name)
		}
	}
}

func TestLoad_Unknown(t *testing.T) {
	if _, err := Load("embedded"); err == nil {
		t.Fatal("Load(embedded): expected error")
	}
}

func TestNames(t *testing.T) {
	names := Names()
	if len(names) != 4 {
		t.Errorf("Names() returned %d entries, want 4", len(names))
	}
}
