// Package stackgrade inspects a remote source-code repository, determines
// whether a set of required packages are declared and actually used, and
// produces a pass/fail verdict, a 0-100 score, a letter grade, and a
// narrative report. All subjective scoring is delegated to a generative
// oracle; declaration and usage detection are deterministic and local.
package stackgrade

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/stackgrade/stackgrade/internal/contentstore"
	"github.com/stackgrade/stackgrade/internal/detect"
	"github.com/stackgrade/stackgrade/internal/grade"
	"github.com/stackgrade/stackgrade/internal/manifest"
	"github.com/stackgrade/stackgrade/internal/oracle"
	"github.com/stackgrade/stackgrade/internal/profile"
	"github.com/stackgrade/stackgrade/internal/render"
	"github.com/stackgrade/stackgrade/internal/schema"
	"github.com/stackgrade/stackgrade/internal/walker"
)

// Public aliases for the canonical types, so callers never import internal
// packages directly.
type (
	Rule                 = detect.Rule
	RepoFile             = schema.RepoFile
	ImplementationResult = schema.ImplementationResult
	AnalysisResult       = schema.AnalysisResult
	PackageReport        = schema.PackageReport
	FinalReport          = schema.FinalReport

	// ContentStore is the remote repository contract. The default
	// implementation speaks the GitHub Contents API; tests substitute fakes.
	ContentStore = contentstore.Store
	Entry        = contentstore.Entry
)

// DefaultPassCutoff is the default minimum score for a passing verdict.
const DefaultPassCutoff = grade.DefaultPassCutoff

// Config configures an Analyzer. The zero value is usable for public
// repositories with the default provider, model, and cutoff.
type Config struct {
	// Token authenticates against the content store; empty for public repos.
	Token string

	// Provider selects the oracle backend: "anthropic" (default), "openai",
	// or "google". Model names the provider's model.
	Provider string
	Model    string

	// Profile names an assessment profile; defaults to "general".
	Profile string

	// PassCutoff overrides DefaultPassCutoff when positive.
	PassCutoff int

	MaxTokens   int
	Temperature float64

	// Patterns is an overlay of detection rules merged over the built-ins;
	// entries win on package-name collision.
	Patterns map[string]Rule

	// Store overrides the content store; primarily for tests.
	Store ContentStore

	// MaxDepth, MaxFiles, and MaxFileSize bound the repository walk when
	// positive; otherwise the walker defaults apply.
	MaxDepth    int
	MaxFiles    int
	MaxFileSize int64
}

// Analyzer runs analyses against a fixed configuration. Safe for concurrent
// use: the pattern registry is read-only after construction and each Analyze
// call owns its own intermediate state.
type Analyzer struct {
	store    ContentStore
	walker   *walker.Walker
	registry *detect.Registry
	oracle   *oracle.Oracle
	cutoff   int
}

// New creates an Analyzer.
func New(cfg Config) (*Analyzer, error) {
	profName := cfg.Profile
	if profName == "" {
		profName = "general"
	}
	prof, err := profile.Load(profName)
	if err != nil {
		return nil, err
	}

	orc, err := oracle.New(oracle.Options{
		Provider:    cfg.Provider,
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		Profile:     prof,
	})
	if err != nil {
		return nil, err
	}

	store := cfg.Store
	if store == nil {
		store = contentstore.NewGitHub(cfg.Token)
	}

	w := walker.New(store)
	if cfg.MaxDepth > 0 {
		w.MaxDepth = cfg.MaxDepth
	}
	if cfg.MaxFiles > 0 {
		w.MaxFiles = cfg.MaxFiles
	}
	if cfg.MaxFileSize > 0 {
		w.MaxFileSize = cfg.MaxFileSize
	}

	cutoff := cfg.PassCutoff
	if cutoff <= 0 {
		cutoff = DefaultPassCutoff
	}

	return &Analyzer{
		store:    store,
		walker:   w,
		registry: detect.NewRegistry(cfg.Patterns),
		oracle:   orc,
		cutoff:   cutoff,
	}, nil
}

// oracleConcurrency bounds concurrent per-package oracle calls. Results are
// keyed by package, so ordering between them carries no meaning.
const oracleConcurrency = 4

// skippedMarker is recorded for packages the oracle was never queried about.
const skippedMarker = "no implementation found"

// Analyze runs the full pipeline for one repository. A repository without a
// manifest at its root yields the fixed failure report rather than an error;
// any other failure outside per-package assessment propagates to the caller.
func (a *Analyzer) Analyze(ctx context.Context, owner, repo string, required []string) (*FinalReport, error) {
	man, missing, err := a.fetchManifest(ctx, owner, repo)
	if err != nil {
		return nil, err
	}
	if missing {
		return &FinalReport{
			Pass:   false,
			Score:  0,
			Grade:  string(schema.GradeF),
			Report: render.FailureReport(owner, repo),
		}, nil
	}

	files, err := a.walker.ListFiles(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("stackgrade: walk %s/%s: %w", owner, repo, err)
	}

	reports := make([]PackageReport, len(required))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(oracleConcurrency)
	for i, pkg := range required {
		impl := a.registry.Detect(pkg, files)
		declared := man.Has(pkg)
		g.Go(func() error {
			reports[i] = a.assessPackage(gctx, pkg, declared, impl)
			return nil
		})
	}
	// Per-package failures are recorded in the reports, never returned.
	_ = g.Wait()

	overall, err := a.oracle.ScoreOverall(ctx, reports)
	if err != nil {
		return nil, fmt.Errorf("stackgrade: overall score: %w", err)
	}

	result := schema.GradeResult{
		Score:     overall.Score,
		Grade:     grade.Letter(overall.Score),
		Reasoning: overall.Reasoning,
	}

	prose, err := a.oracle.RenderReport(ctx, reports, result)
	if err != nil {
		return nil, fmt.Errorf("stackgrade: render report: %w", err)
	}

	return &FinalReport{
		Pass:     grade.Pass(result.Score, a.cutoff),
		Score:    result.Score,
		Grade:    string(result.Grade),
		Report:   prose,
		Packages: reports,
	}, nil
}

// Inspect runs only the deterministic half of the pipeline: manifest
// declaration flags plus implementation detection. No oracle calls are made.
// A missing manifest is an error here, not a canned result.
func (a *Analyzer) Inspect(ctx context.Context, owner, repo string, required []string) (*AnalysisResult, error) {
	man, missing, err := a.fetchManifest(ctx, owner, repo)
	if err != nil {
		return nil, err
	}
	if missing {
		return nil, fmt.Errorf("stackgrade: %s/%s: %w", owner, repo, ErrManifestMissing)
	}

	files, err := a.walker.ListFiles(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("stackgrade: walk %s/%s: %w", owner, repo, err)
	}

	result := &AnalysisResult{
		Dependencies:   man.DependencyFlags(required),
		Implementation: make(map[string]ImplementationResult, len(required)),
	}
	for _, pkg := range required {
		result.Implementation[pkg] = a.registry.Detect(pkg, files)
	}
	return result, nil
}

// ErrManifestMissing reports a repository without a manifest at its root.
// Analyze converts it to the fixed failure result; Inspect returns it.
var ErrManifestMissing = errors.New("stackgrade: no manifest at repository root")

// fetchManifest retrieves and parses the root manifest. missing is true when
// the manifest (or the whole repository) is absent.
func (a *Analyzer) fetchManifest(ctx context.Context, owner, repo string) (man *manifest.Manifest, missing bool, err error) {
	data, err := a.store.GetFile(ctx, owner, repo, manifest.Filename)
	if err != nil {
		if errors.Is(err, contentstore.ErrNotFound) {
			return nil, true, nil
		}
		return nil, false, fmt.Errorf("stackgrade: fetch manifest: %w", err)
	}
	man, err = manifest.Parse([]byte(data))
	if err != nil {
		return nil, false, err
	}
	return man, false, nil
}

// assessPackage runs the oracle triplet for one package, or records the
// skip marker when the package was not detected in code. A failing oracle
// call is logged and recorded in the report; it never aborts sibling
// packages.
func (a *Analyzer) assessPackage(ctx context.Context, pkg string, declared bool, impl ImplementationResult) PackageReport {
	report := PackageReport{
		Package:        pkg,
		Declared:       declared,
		Implementation: impl,
	}

	if !impl.Implemented {
		report.Skipped = skippedMarker
		return report
	}

	record := func(err error) {
		logrus.WithError(err).WithField("package", pkg).Warn("stackgrade: oracle assessment failed")
		if report.Error == "" {
			report.Error = fmt.Sprintf("Failed to analyze %s: %v", pkg, err)
		}
	}

	if qa, err := a.oracle.AssessCodeQuality(ctx, pkg, impl.File, impl.Content); err != nil {
		record(err)
	} else {
		report.CodeQuality = qa
	}
	if qa, err := a.oracle.AssessImplementation(ctx, pkg, impl.File, impl.Content); err != nil {
		record(err)
	} else {
		report.ImplQuality = qa
	}
	if sg, err := a.oracle.SuggestImprovements(ctx, pkg, impl.File, impl.Content); err != nil {
		record(err)
	} else {
		report.Suggestions = sg
	}

	return report
}
