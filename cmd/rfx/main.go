package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/refactorlab/rfx/internal/config"
	"github.com/refactorlab/rfx/internal/langadapter"
	"github.com/refactorlab/rfx/internal/orchestrator"
	"github.com/refactorlab/rfx/internal/rfxlog"
	"github.com/refactorlab/rfx/internal/version"
	"github.com/refactorlab/rfx/pkg/pathutil"
)

func main() {
	app := &cli.App{
		Name:                   "rfx",
		Usage:                  "Multi-language static analysis and refactoring-priority engine",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Project root to analyze",
				Value:   ".",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug-level logging to stderr",
			},
		},
		Commands: []*cli.Command{
			{
				Name:    "analyze",
				Aliases: []string{"a"},
				Usage:   "Run the full analysis pipeline over a project",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "json",
						Aliases: []string{"j"},
						Usage:   "Output the full analysis summary as JSON",
					},
				},
				Action: analyzeCommand,
			},
			{
				Name:  "config",
				Usage: "Configuration management commands",
				Subcommands: []*cli.Command{
					{
						Name:    "init",
						Aliases: []string{"i"},
						Usage:   "Write a default .rfx.kdl into the project root",
						Flags: []cli.Flag{
							&cli.BoolFlag{
								Name:  "force",
								Usage: "Overwrite an existing .rfx.kdl",
							},
						},
						Action: configInitCommand,
					},
					{
						Name:    "show",
						Aliases: []string{"s"},
						Usage:   "Show the effective configuration as YAML",
						Action:  configShowCommand,
					},
					{
						Name:   "export",
						Usage:  "Print the built-in default configuration as YAML",
						Action: configExportCommand,
					},
				},
			},
		},
		Action: func(c *cli.Context) error {
			return cli.ShowAppHelp(c)
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "rfx: %v\n", err)
		os.Exit(1)
	}
}

func loggerFor(c *cli.Context) *rfxlog.Logger {
	if c.Bool("verbose") {
		return rfxlog.New(os.Stderr, rfxlog.LevelDebug)
	}
	return rfxlog.New(os.Stderr, rfxlog.LevelWarn)
}

func analyzeCommand(c *cli.Context) error {
	root, err := filepath.Abs(c.String("root"))
	if err != nil {
		return fmt.Errorf("resolving project root: %w", err)
	}

	cfg, err := config.LoadAnalysisKDL(root)
	if err != nil {
		return fmt.Errorf("loading .rfx.kdl: %w", err)
	}

	registry := langadapter.NewDefaultRegistry()
	log := loggerFor(c)

	orch := orchestrator.New(root, cfg, registry, log)
	summary, err := orch.Run(context.Background())
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if c.Bool("json") {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(summary)
	}
	return renderSummaryText(summary, root)
}

func renderSummaryText(summary *orchestrator.AnalysisSummary, root string) error {
	for _, p := range summary.SplitPlans {
		p.File = pathutil.ToRelative(p.File, root)
	}
	pathutil.ToRelativeEach(summary.Directories, root,
		func(d orchestrator.DirectoryReport) string { return d.Path },
		func(d *orchestrator.DirectoryReport, v string) { d.Path = v },
	)

	fmt.Printf("Analyzed %d of %d discovered files", summary.FilesAnalyzed, summary.FilesDiscovered)
	if summary.Truncated {
		fmt.Printf(" (truncated)")
	}
	fmt.Println()

	h := summary.Health
	fmt.Printf("\nHealth: %.1f/100\n", h.OverallHealth)
	fmt.Printf("  maintainability   %6.1f\n", h.Maintainability)
	fmt.Printf("  structure quality %6.1f\n", h.StructureQuality)
	fmt.Printf("  complexity        %6.1f\n", h.Complexity)
	fmt.Printf("  technical debt    %6.1f\n", h.TechnicalDebt)

	if n := len(summary.ScoringResults); n > 0 {
		var high int
		for _, r := range summary.ScoringResults {
			if r.IsHighPriority() {
				high++
			}
		}
		fmt.Printf("\nScored %d entities, %d high priority or above\n", n, high)
	}

	if n := len(summary.SplitPlans); n > 0 {
		fmt.Printf("\n%d file(s) flagged for splitting:\n", n)
		for _, p := range summary.SplitPlans {
			fmt.Printf("  %s: %s\n", p.File, joinReasons(p.Reasons))
		}
	}

	if n := len(summary.Directories); n > 0 {
		var flagged int
		for _, d := range summary.Directories {
			if d.Reorg != nil {
				flagged++
			}
		}
		fmt.Printf("\n%d director(y/ies) analyzed, %d flagged for reorganization\n", n, flagged)
	}

	if summary.Partitions != nil {
		fmt.Printf("\nImport graph: %d slice(s) across %d files, %d cross-slice import(s)\n",
			summary.Partitions.Stats.SliceCount, summary.Partitions.Stats.TotalFiles, summary.Partitions.Stats.CrossSliceImports)
	}

	if len(summary.Warnings) > 0 {
		fmt.Printf("\nWarnings:\n")
		for _, w := range summary.Warnings {
			fmt.Printf("  - %s\n", w)
		}
	}

	return nil
}

func joinReasons(reasons []string) string {
	if len(reasons) == 0 {
		return "flagged"
	}
	out := reasons[0]
	for _, r := range reasons[1:] {
		out += ", " + r
	}
	return out
}

func configInitCommand(c *cli.Context) error {
	root, err := filepath.Abs(c.String("root"))
	if err != nil {
		return fmt.Errorf("resolving project root: %w", err)
	}
	path := filepath.Join(root, ".rfx.kdl")

	if !c.Bool("force") {
		if _, statErr := os.Stat(path); statErr == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}

	if err := os.WriteFile(path, []byte(defaultKDLTemplate), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Printf("Configuration file created: %s\n", path)
	return nil
}

func configShowCommand(c *cli.Context) error {
	root, err := filepath.Abs(c.String("root"))
	if err != nil {
		return fmt.Errorf("resolving project root: %w", err)
	}

	cfg, err := config.LoadAnalysisKDL(root)
	if err != nil {
		return fmt.Errorf("loading .rfx.kdl: %w", err)
	}

	content, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.New("rendering configuration: " + err.Error())
	}
	_, err = os.Stdout.Write(content)
	return err
}

func configExportCommand(c *cli.Context) error {
	content, err := config.ExportDefaults()
	if err != nil {
		return errors.New("exporting configuration: " + err.Error())
	}
	_, err = os.Stdout.Write(content)
	return err
}

const defaultKDLTemplate = `// rfx analysis configuration

normalization {
    scheme "z_score_bayesian"
}

partitioning {
    slice_token_budget 6000
    allow_overlap true
    overlap_fraction 0.15
}

directory {
    max_files_per_dir 25
    max_dir_loc 3000
}

pipeline {
    max_files 50000
    exclude_directories {
        "node_modules"
        "vendor"
        ".git"
        "dist"
        "build"
    }
}
`
