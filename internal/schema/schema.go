// Package schema defines all canonical data types for the stackgrade output format.
package schema

// Grade is one of the six ordered letter grades.
type Grade string

const (
	GradeS Grade = "S"
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// RepoFile is a single file fetched during repository traversal.
// Immutable once fetched; never persisted.
type RepoFile struct {
	Path    string `json:"path"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

// ImplementationResult records whether one required package is actually used
// in code. Implemented implies File and Content are set and Content matched a
// detection pattern; otherwise Reason explains the miss.
type ImplementationResult struct {
	Implemented bool   `json:"implemented"`
	File        string `json:"file,omitempty"`
	Content     string `json:"content,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// AnalysisResult aggregates declaration and usage findings per required package.
type AnalysisResult struct {
	Dependencies   map[string]bool                 `json:"dependencies"`
	Implementation map[string]ImplementationResult `json:"implementation"`
}

// QualityAssessment is the fixed JSON shape returned by the oracle for a
// single code-quality or implementation-quality request.
type QualityAssessment struct {
	Score       int      `json:"score"`
	Reasoning   string   `json:"reasoning"`
	KeyFindings []string `json:"keyFindings"`
}

// SuggestionSet is the fixed JSON shape returned by the oracle for an
// improvement-suggestion request.
type SuggestionSet struct {
	Suggestions []string `json:"suggestions"`
	Priority    []string `json:"priority"`
}

// PackageReport bundles everything known about one required package after the
// oracle pass. An undetected package records Skipped and carries no
// assessments; a failed oracle call records Error instead.
type PackageReport struct {
	Package        string               `json:"package"`
	Declared       bool                 `json:"declared"`
	Implementation ImplementationResult `json:"implementation"`
	CodeQuality    *QualityAssessment   `json:"codeQuality,omitempty"`
	ImplQuality    *QualityAssessment   `json:"implementationQuality,omitempty"`
	Suggestions    *SuggestionSet       `json:"suggestions,omitempty"`
	Skipped        string               `json:"skipped,omitempty"`
	Error          string               `json:"error,omitempty"`
}

// GradeResult is the overall numeric score mapped to a letter grade.
// Grade is derived purely from Score through the fixed threshold table.
type GradeResult struct {
	Score     int    `json:"score"`
	Grade     Grade  `json:"grade"`
	Reasoning string `json:"reasoning"`
}

// FinalReport is the public output of an analysis run.
type FinalReport struct {
	Pass   bool   `json:"pass"`
	Score  int    `json:"score"`
	Grade  string `json:"grade"`
	Report string `json:"report"`

	// Packages carries the per-package detail the narrative report was
	// rendered from, for callers that want structured access.
	Packages []PackageReport `json:"packages,omitempty"`
}
