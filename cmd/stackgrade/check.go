package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/stackgrade/stackgrade"
	"github.com/stackgrade/stackgrade/internal/render"
)

// exit codes: 0 pass, 1 error, 2 fail verdict.
const exitFail = 2

type checkFlags struct {
	packages    []string
	provider    string
	model       string
	profileName string
	cutoff      int
	patterns    string
	format      string
	out         string
	maxTokens   int
	temperature float64
}

func newCheckCmd() *cobra.Command {
	var flags checkFlags

	cmd := &cobra.Command{
		Use:   "check owner/repo",
		Short: "Analyze a remote repository against its required packages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, repo, err := splitRepoArg(args[0])
			if err != nil {
				return err
			}
			if len(flags.packages) == 0 {
				return fmt.Errorf("at least one --packages entry is required")
			}

			overlay, err := loadPatterns(flags.patterns)
			if err != nil {
				return err
			}

			analyzer, err := stackgrade.New(stackgrade.Config{
				Token:       os.Getenv("GITHUB_TOKEN"),
				Provider:    flags.provider,
				Model:       flags.model,
				Profile:     flags.profileName,
				PassCutoff:  flags.cutoff,
				MaxTokens:   flags.maxTokens,
				Temperature: flags.temperature,
				Patterns:    overlay,
			})
			if err != nil {
				return err
			}

			report, err := analyzer.Analyze(cmd.Context(), owner, repo, flags.packages)
			if err != nil {
				return err
			}

			output, err := formatReport(report, flags.format)
			if err != nil {
				return err
			}
			if err := writeOutput(output, flags.out); err != nil {
				return err
			}

			if !report.Pass {
				// Silence usage output; a failing grade is not a CLI mistake.
				cmd.SilenceUsage = true
				cmd.SilenceErrors = true
				os.Exit(exitFail)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&flags.packages, "packages", "p", nil, "required package names (repeatable or comma-separated)")
	cmd.Flags().StringVar(&flags.provider, "provider", "anthropic", "oracle provider (anthropic, openai, google)")
	cmd.Flags().StringVar(&flags.model, "model", "claude-sonnet-4-20250514", "oracle model name")
	cmd.Flags().StringVar(&flags.profileName, "profile", "general", "assessment profile (general, frontend, backend, library)")
	cmd.Flags().IntVar(&flags.cutoff, "cutoff", stackgrade.DefaultPassCutoff, "minimum score for a passing verdict")
	cmd.Flags().StringVar(&flags.patterns, "patterns", "", "YAML file with detection-rule overrides")
	cmd.Flags().StringVar(&flags.format, "format", "markdown", "output format (markdown, json)")
	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "write output to file instead of stdout")
	cmd.Flags().IntVar(&flags.maxTokens, "max-tokens", 2048, "max tokens per oracle call")
	cmd.Flags().Float64Var(&flags.temperature, "temperature", 0.2, "oracle sampling temperature")

	return cmd
}

// splitRepoArg parses "owner/repo".
func splitRepoArg(arg string) (owner, repo string, err error) {
	parts := strings.Split(arg, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("expected owner/repo, got %q", arg)
	}
	return parts[0], parts[1], nil
}

// loadPatterns reads a YAML file mapping package names to detection rules.
func loadPatterns(path string) (map[string]stackgrade.Rule, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read patterns file: %w", err)
	}
	var overlay map[string]stackgrade.Rule
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("parse patterns file %s: %w", path, err)
	}
	return overlay, nil
}

// formatReport renders the report in the requested format. Markdown output is
// the local summary table followed by the oracle's narrative prose.
func formatReport(report *stackgrade.FinalReport, format string) ([]byte, error) {
	switch format {
	case "json":
		return render.RenderJSON(report)
	case "markdown":
		var sb strings.Builder
		sb.WriteString(render.SummaryMarkdown(report))
		sb.WriteString(report.Report)
		sb.WriteString("\n")
		return []byte(sb.String()), nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// writeOutput writes to the given path, or stdout when path is empty.
func writeOutput(output []byte, path string) error {
	if path == "" {
		_, err := os.Stdout.Write(output)
		return err
	}
	if err := os.WriteFile(path, output, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
