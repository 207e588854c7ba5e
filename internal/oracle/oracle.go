// Package oracle handles communication with the generative text service that
// produces all subjective scoring and narrative content: prompt construction,
// provider dispatch, and response validation.
package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/stackgrade/stackgrade/internal/profile"
	"github.com/stackgrade/stackgrade/internal/schema"
)

// ErrInvalidScore is returned when the oracle reports a score outside 0-100.
// Scoring fails closed rather than propagating an invalid grade.
var ErrInvalidScore = errors.New("oracle: score out of range")

// Provider is the interface for generative text backends.
type Provider interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float64) (string, error)
}

// NewProvider is the factory for creating providers. It is a package-level
// variable so tests can replace it with a mock without modifying the call site.
// Tests must restore the original value; use t.Cleanup to do so safely.
var NewProvider func(providerName, model string) (Provider, error) = defaultNewProvider

// Options configures an Oracle.
type Options struct {
	Provider    string
	Model       string
	MaxTokens   int
	Temperature float64
	Profile     profile.Profile
}

// Oracle issues structured assessment requests against a single provider.
type Oracle struct {
	provider    Provider
	prof        profile.Profile
	maxTokens   int
	temperature float64
}

// New creates an Oracle for the configured provider.
func New(opts Options) (*Oracle, error) {
	provider, err := NewProvider(opts.Provider, opts.Model)
	if err != nil {
		return nil, fmt.Errorf("oracle: create provider: %w", err)
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 2048
	}
	return &Oracle{
		provider:    provider,
		prof:        opts.Profile,
		maxTokens:   maxTokens,
		temperature: opts.Temperature,
	}, nil
}

// maxEvidenceBytes bounds how much file content is embedded in a prompt.
const maxEvidenceBytes = 8_000

// AssessCodeQuality asks for a code-quality assessment of the evidence file
// where pkg was detected.
func (o *Oracle) AssessCodeQuality(ctx context.Context, pkg, file, content string) (*schema.QualityAssessment, error) {
	user := buildEvidencePrompt(pkg, file, content,
		"Assess the overall code quality of this file: readability, structure, naming, and error handling.")
	return o.completeAssessment(ctx, user)
}

// AssessImplementation asks for an assessment of how well pkg specifically is
// used in the evidence file.
func (o *Oracle) AssessImplementation(ctx context.Context, pkg, file, content string) (*schema.QualityAssessment, error) {
	user := buildEvidencePrompt(pkg, file, content,
		fmt.Sprintf("Assess how well the package %q is used in this file: idiomatic usage, correct API calls, and appropriate patterns for this package.", pkg))
	return o.completeAssessment(ctx, user)
}

// SuggestImprovements asks for an improvement-suggestion list for the
// evidence file.
func (o *Oracle) SuggestImprovements(ctx context.Context, pkg, file, content string) (*schema.SuggestionSet, error) {
	user := buildEvidencePrompt(pkg, file, content,
		fmt.Sprintf("List concrete improvements for how the package %q is used in this file.", pkg))

	raw, err := o.provider.Complete(ctx, o.systemPrompt(suggestionSchema), user, o.maxTokens, o.temperature)
	if err != nil {
		return nil, fmt.Errorf("oracle: complete: %w", err)
	}
	var set schema.SuggestionSet
	if err := unmarshalResponse(raw, &set); err != nil {
		return nil, err
	}
	return &set, nil
}

// OverallScore is the aggregate numeric verdict returned by ScoreOverall.
type OverallScore struct {
	Score     int    `json:"score"`
	Reasoning string `json:"reasoning"`
}

// ScoreOverall asks for a single 0-100 score across all per-package reports.
func (o *Oracle) ScoreOverall(ctx context.Context, reports []schema.PackageReport) (*OverallScore, error) {
	user := buildAggregatePrompt(reports,
		"Produce a single overall quality score (0-100) for this repository's use of its required packages. Packages that were required but not implemented should pull the score down sharply.")

	raw, err := o.provider.Complete(ctx, o.systemPrompt(overallSchema), user, o.maxTokens, o.temperature)
	if err != nil {
		return nil, fmt.Errorf("oracle: complete: %w", err)
	}
	var overall OverallScore
	if err := unmarshalResponse(raw, &overall); err != nil {
		return nil, err
	}
	if overall.Score < 0 || overall.Score > 100 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidScore, overall.Score)
	}
	return &overall, nil
}

// RenderReport asks for the narrative markdown report. This is the one call
// whose response is prose, not JSON; it is returned as-is apart from fence
// stripping.
func (o *Oracle) RenderReport(ctx context.Context, reports []schema.PackageReport, result schema.GradeResult) (string, error) {
	var sb strings.Builder
	sb.WriteString(buildAggregatePrompt(reports,
		"Write a markdown quality report for this repository. Open with a summary, then one section per required package covering whether it is declared, whether it is used, and the assessments above. Close with prioritized recommendations."))
	fmt.Fprintf(&sb, "\nOverall score: %d\nGrade: %s\nReasoning: %s\n", result.Score, result.Grade, result.Reasoning)

	raw, err := o.provider.Complete(ctx, o.reportSystemPrompt(), sb.String(), o.maxTokens, o.temperature)
	if err != nil {
		return "", fmt.Errorf("oracle: complete: %w", err)
	}
	report := stripMarkdownFences(raw)
	if report == "" {
		return "", fmt.Errorf("oracle: empty report response")
	}
	return report, nil
}

// completeAssessment runs one assessment request and validates the result.
func (o *Oracle) completeAssessment(ctx context.Context, userPrompt string) (*schema.QualityAssessment, error) {
	raw, err := o.provider.Complete(ctx, o.systemPrompt(assessmentSchema), userPrompt, o.maxTokens, o.temperature)
	if err != nil {
		return nil, fmt.Errorf("oracle: complete: %w", err)
	}
	var qa schema.QualityAssessment
	if err := unmarshalResponse(raw, &qa); err != nil {
		return nil, err
	}
	if qa.Score < 0 || qa.Score > 100 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidScore, qa.Score)
	}
	return &qa, nil
}

// ── Prompt construction ───────────────────────────────────────────────────────

// systemPrompt assembles the system prompt for a JSON-shaped request.
func (o *Oracle) systemPrompt(outputSchema string) string {
	var sb strings.Builder

	sb.WriteString("You are stackgrade, a code quality assessor.\n\n")
	sb.WriteString("Output ONLY valid JSON conforming to the schema below. " +
		"No prose, no markdown, no explanation outside the JSON.\n\n")
	sb.WriteString("Scores are integers from 0 to 100. Base every finding on the " +
		"code shown; never invent code that is not present.\n\n")

	if o.prof.SystemPromptAddendum != "" {
		sb.WriteString(o.prof.SystemPromptAddendum)
		sb.WriteString("\n\n")
	}

	sb.WriteString(outputSchema)
	return sb.String()
}

// reportSystemPrompt assembles the system prompt for the narrative report.
func (o *Oracle) reportSystemPrompt() string {
	var sb strings.Builder
	sb.WriteString("You are stackgrade, a code quality assessor.\n\n")
	sb.WriteString("Output a well-structured markdown report. Do not wrap the report in a code fence.\n\n")
	if o.prof.SystemPromptAddendum != "" {
		sb.WriteString(o.prof.SystemPromptAddendum)
		sb.WriteString("\n")
	}
	return sb.String()
}

const assessmentSchema = `Output schema (JSON only):
{
  "score": 0,
  "reasoning": "...",
  "keyFindings": ["...", "..."]
}
`

const suggestionSchema = `Output schema (JSON only):
{
  "suggestions": ["...", "..."],
  "priority": ["high", "medium"]
}
`

const overallSchema = `Output schema (JSON only):
{
  "score": 0,
  "reasoning": "..."
}
`

// buildEvidencePrompt assembles a user prompt around one evidence file.
func buildEvidencePrompt(pkg, file, content, instruction string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Package: %s\nFile: %s\n\n", pkg, file)
	sb.WriteString("File content:\n")
	sb.WriteString(truncate(content, maxEvidenceBytes))
	sb.WriteString("\n\n")
	sb.WriteString(instruction)
	return sb.String()
}

// buildAggregatePrompt assembles a user prompt summarizing every package
// report. Evidence content is omitted here; only the structured findings are
// included.
func buildAggregatePrompt(reports []schema.PackageReport, instruction string) string {
	var sb strings.Builder
	sb.WriteString("Per-package analysis:\n")
	for _, r := range reports {
		fmt.Fprintf(&sb, "\n== %s ==\n", r.Package)
		fmt.Fprintf(&sb, "declared: %t\n", r.Declared)
		if r.Implementation.Implemented {
			fmt.Fprintf(&sb, "implemented in: %s\n", r.Implementation.File)
		} else {
			fmt.Fprintf(&sb, "not implemented: %s\n", r.Implementation.Reason)
		}
		if r.CodeQuality != nil {
			fmt.Fprintf(&sb, "code quality: %d (%s)\n", r.CodeQuality.Score, r.CodeQuality.Reasoning)
			for _, f := range r.CodeQuality.KeyFindings {
				fmt.Fprintf(&sb, "  - %s\n", f)
			}
		}
		if r.ImplQuality != nil {
			fmt.Fprintf(&sb, "implementation quality: %d (%s)\n", r.ImplQuality.Score, r.ImplQuality.Reasoning)
		}
		if r.Suggestions != nil {
			for i, s := range r.Suggestions.Suggestions {
				prio := ""
				if i < len(r.Suggestions.Priority) {
					prio = " [" + r.Suggestions.Priority[i] + "]"
				}
				fmt.Fprintf(&sb, "suggestion%s: %s\n", prio, s)
			}
		}
		if r.Skipped != "" {
			fmt.Fprintf(&sb, "assessment skipped: %s\n", r.Skipped)
		}
		if r.Error != "" {
			fmt.Fprintf(&sb, "assessment error: %s\n", r.Error)
		}
	}
	sb.WriteString("\n")
	sb.WriteString(instruction)
	return sb.String()
}

// truncate bounds s to n bytes, appending a notice when content was cut.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "\n[TRUNCATED]"
}

// ── Response handling ─────────────────────────────────────────────────────────

// fenceRe matches a markdown code fence block (``` or ~~~) with an optional
// language tag and captures the content between the fences.
var fenceRe = regexp.MustCompile("(?s)^(?:`{3}|~{3})[^\\n]*\\n(.*?)(?:`{3}|~{3})\\s*$")

// openFenceRe matches only an opening fence line (no closing fence required).
// Used to strip orphaned opening fences from truncated responses.
var openFenceRe = regexp.MustCompile("^(?:`{3}|~{3})[^\\n]*\\n")

// stripMarkdownFences removes leading/trailing markdown code fences that
// models sometimes wrap around their output.
func stripMarkdownFences(s string) string {
	s = strings.TrimSpace(s)
	if m := fenceRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	if loc := openFenceRe.FindStringIndex(s); loc != nil {
		return strings.TrimSpace(s[loc[1]:])
	}
	return s
}

// invalidJSONEscapeRe matches a backslash followed by any character that is
// not a valid JSON string escape character. Models sometimes emit regex
// patterns (e.g. \d+) unescaped inside JSON strings; the sanitizer converts
// them to properly double-escaped sequences so the parser accepts them.
var invalidJSONEscapeRe = regexp.MustCompile(`\\([^"\\/bfnrtu])`)

// unmarshalResponse strips fences and parses raw into v, attempting a one-shot
// escape sanitization when the first parse fails.
func unmarshalResponse(raw string, v any) error {
	raw = stripMarkdownFences(raw)
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		fixed := invalidJSONEscapeRe.ReplaceAllString(raw, `\\$1`)
		if err2 := json.Unmarshal([]byte(fixed), v); err2 != nil {
			return fmt.Errorf("oracle: parse response: %w", err)
		}
	}
	return nil
}

// defaultNewProvider dispatches to the appropriate provider implementation.
func defaultNewProvider(providerName, model string) (Provider, error) {
	switch strings.ToLower(providerName) {
	case "anthropic", "":
		return newAnthropicProvider(model)
	case "openai":
		return newOpenAIProvider(model)
	case "google":
		return newGoogleProvider(model)
	default:
		return nil, fmt.Errorf("oracle: unknown provider %q", providerName)
	}
}
