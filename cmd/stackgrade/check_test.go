package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stackgrade/stackgrade"
)

func TestSplitRepoArg(t *testing.T) {
	cases := []struct {
		in          string
		owner, repo string
		wantErr     bool
	}{
		{"acme/web", "acme", "web", false},
		{"acme", "", "", true},
		{"acme/web/extra", "", "", true},
		{"/web", "", "", true},
		{"acme/", "", "", true},
	}
	for _, c := range cases {
		owner, repo, err := splitRepoArg(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("splitRepoArg(%q): expected error", c.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("splitRepoArg(%q): %v", c.in, err)
			continue
		}
		if owner != c.owner || repo != c.repo {
			t.Errorf("splitRepoArg(%q) = %q/%q, want %q/%q", c.in, owner, repo, c.owner, c.repo)
		}
	}
}

func TestLoadPatterns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.yaml")
	content := `
myframework:
  filePatterns: [".mf"]
  codePatterns: ["useFramework("]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	overlay, err := loadPatterns(path)
	if err != nil {
		t.Fatalf("loadPatterns: %v", err)
	}
	rule, ok := overlay["myframework"]
	if !ok {
		t.Fatal("myframework rule not loaded")
	}
	if len(rule.FilePatterns) != 1 || rule.FilePatterns[0] != ".mf" {
		t.Errorf("FilePatterns = %v", rule.FilePatterns)
	}
	if len(rule.CodePatterns) != 1 || rule.CodePatterns[0] != "useFramework(" {
		t.Errorf("CodePatterns = %v", rule.CodePatterns)
	}
}

func TestLoadPatterns_Empty(t *testing.T) {
	overlay, err := loadPatterns("")
	if err != nil {
		t.Fatalf("loadPatterns(\"\"): %v", err)
	}
	if overlay != nil {
		t.Errorf("overlay = %v, want nil", overlay)
	}
}

func TestFormatReport(t *testing.T) {
	report := &stackgrade.FinalReport{
		Pass:   true,
		Score:  90,
		Grade:  "A",
		Report: "# Narrative",
	}

	md, err := formatReport(report, "markdown")
	if err != nil {
		t.Fatalf("formatReport markdown: %v", err)
	}
	if !strings.Contains(string(md), "# Narrative") {
		t.Error("markdown output missing narrative prose")
	}

	js, err := formatReport(report, "json")
	if err != nil {
		t.Fatalf("formatReport json: %v", err)
	}
	if !strings.Contains(string(js), `"score": 90`) {
		t.Errorf("json output = %s", js)
	}

	if _, err := formatReport(report, "xml"); err == nil {
		t.Error("formatReport(xml): expected error")
	}
}
