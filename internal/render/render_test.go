package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stackgrade/stackgrade/internal/schema"
)

func sampleReport() *schema.FinalReport {
	return &schema.FinalReport{
		Pass:   true,
		Score:  84,
		Grade:  "B",
		Report: "# Quality Report\n\nLooks fine.",
		Packages: []schema.PackageReport{
			{
				Package:  "react",
				Declared: true,
				Implementation: schema.ImplementationResult{
					Implemented: true,
					File:        "src/app.jsx",
					Content:     `from "react"`,
				},
			},
			{
				Package:  "express",
				Declared: false,
				Implementation: schema.ImplementationResult{
					Implemented: false,
					Reason:      "No implementation found",
				},
			},
		},
	}
}

func TestRenderJSON_RoundTrip(t *testing.T) {
	report := sampleReport()
	b, err := RenderJSON(report)
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	var back schema.FinalReport
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal rendered JSON: %v", err)
	}
	if back.Score != report.Score || back.Grade != report.Grade || back.Pass != report.Pass {
		t.Errorf("round trip changed the report: %+v", back)
	}
}

func TestRenderJSON_Nil(t *testing.T) {
	if _, err := RenderJSON(nil); err == nil {
		t.Fatal("RenderJSON(nil): expected error")
	}
}

func TestFailureReport_Fixed(t *testing.T) {
	a := FailureReport("acme", "web")
	b := FailureReport("acme", "web")
	if a != b {
		t.Error("FailureReport is not deterministic for identical input")
	}
	for _, want := range []string{"acme/web", "FAIL", "0/100", "Grade:** F", "package.json"} {
		if !strings.Contains(a, want) {
			t.Errorf("FailureReport missing %q", want)
		}
	}
}

func TestSummaryMarkdown(t *testing.T) {
	out := SummaryMarkdown(sampleReport())
	for _, want := range []string{
		"**Verdict:** PASS",
		"**Score:** 84/100",
		"| react | yes | yes | src/app.jsx |",
		"| express | no | no | No implementation found |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("SummaryMarkdown missing %q in:\n%s", want, out)
		}
	}
}

func TestSummaryMarkdown_Nil(t *testing.T) {
	if got := SummaryMarkdown(nil); got != "" {
		t.Errorf("SummaryMarkdown(nil) = %q, want empty", got)
	}
}
