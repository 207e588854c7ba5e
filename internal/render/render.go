// Package render produces output from a fully assembled report.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stackgrade/stackgrade/internal/schema"
)

// RenderJSON produces a pretty-printed JSON representation of the report.
// The output round-trips through json.Unmarshal back to an equal FinalReport.
func RenderJSON(report *schema.FinalReport) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("render: nil report")
	}
	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render: json marshal: %w", err)
	}
	return b, nil
}

// FailureReport is the fixed markdown emitted when a repository has no
// manifest at its root. The analysis short-circuits before any oracle call,
// so the same input always produces this exact shape.
func FailureReport(owner, repo string) string {
	var sb strings.Builder
	sb.WriteString("## stackgrade Report\n\n")
	fmt.Fprintf(&sb, "**Repository:** %s/%s  \n", owner, repo)
	sb.WriteString("**Verdict:** FAIL  \n")
	sb.WriteString("**Score:** 0/100  \n")
	sb.WriteString("**Grade:** F\n\n")
	sb.WriteString("No `package.json` was found at the repository root. ")
	sb.WriteString("Without a manifest, declared dependencies cannot be verified and no further analysis was performed.\n")
	return sb.String()
}

// SummaryMarkdown produces a deterministic local summary of the final report,
// suitable for terminal output alongside the oracle's narrative prose. Every
// required package appears in the table.
func SummaryMarkdown(report *schema.FinalReport) string {
	if report == nil {
		return ""
	}
	var sb strings.Builder

	sb.WriteString("## stackgrade Summary\n\n")
	verdict := "FAIL"
	if report.Pass {
		verdict = "PASS"
	}
	fmt.Fprintf(&sb, "**Verdict:** %s  \n", verdict)
	fmt.Fprintf(&sb, "**Score:** %d/100  \n", report.Score)
	fmt.Fprintf(&sb, "**Grade:** %s\n\n", report.Grade)

	if len(report.Packages) > 0 {
		sb.WriteString("| Package | Declared | Implemented | Evidence |\n")
		sb.WriteString("|---|---|---|---|\n")
		for _, p := range report.Packages {
			evidence := p.Implementation.File
			if !p.Implementation.Implemented {
				evidence = mdEscape(p.Implementation.Reason)
			}
			fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n",
				p.Package, yesNo(p.Declared), yesNo(p.Implementation.Implemented), evidence)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// mdEscape replaces characters that would break Markdown table cells.
func mdEscape(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", "")
	return s
}
