package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/depscout/depscout/internal/analysis"
	"github.com/depscout/depscout/internal/render"
	"github.com/depscout/depscout/internal/schema"
	"github.com/depscout/depscout/pkg/config"
	"github.com/depscout/depscout/pkg/exitcode"
	"github.com/depscout/depscout/pkg/logger"
	"github.com/depscout/depscout/pkg/resolve"
)

func newAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [target]",
		Short: "Analyze a Python project for dependency mismatches",
		Long: `Analyze extracts the imports referenced by a project's Python sources,
parses its dependency manifests, and reports undeclared and unused
dependencies. The target defaults to the current directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().String("code", "", "Directory to scan for Python sources (default: target)")
	cmd.Flags().String("deps", "", "Directory to scan for manifests (default: target)")
	cmd.Flags().Bool("json", false, "Emit the full JSON report instead of the summary")
	cmd.Flags().Bool("detail", false, "Include per-import and per-declaration provenance (JSON only)")
	cmd.Flags().String("output", "", "Output file (default: stdout)")
	cmd.Flags().String("mapping", "", "YAML file with extra declared-name to import-name entries")
	cmd.Flags().StringSlice("ignore-undeclared", nil, "Import names never reported as undeclared")
	cmd.Flags().StringSlice("ignore-unused", nil, "Declared names never reported as unused")
	cmd.Flags().Int("concurrency", 0, "Extraction worker count (0 = derive from CPU cores)")
	cmd.Flags().Bool("fail", false, "Exit non-zero when any undeclared or unused dependency is found")
	cmd.Flags().Bool("validate-output", false, "Validate the JSON report against the embedded schema before emitting")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) > 0 {
		target = args[0]
	}

	codeRoot, _ := cmd.Flags().GetString("code")
	if codeRoot == "" {
		codeRoot = target
	}
	depsRoot, _ := cmd.Flags().GetString("deps")
	if depsRoot == "" {
		depsRoot = target
	}

	// Config lives at the project being analyzed, not wherever --code
	// points.
	cfg, err := config.LoadConfig(target)
	if err != nil {
		return err
	}

	opts := analysis.Options{
		CodeRoot:           codeRoot,
		DepsRoot:           depsRoot,
		Include:            cfg.Analysis.Include,
		IgnoreUndeclared:   cfg.Analysis.IgnoreUndeclared,
		IgnoreUnused:       cfg.Analysis.IgnoreUnused,
		Concurrency:        cfg.Analysis.Concurrency,
		ConcurrencyPercent: cfg.Analysis.ConcurrencyPercent,
	}

	if names, _ := cmd.Flags().GetStringSlice("ignore-undeclared"); len(names) > 0 {
		opts.IgnoreUndeclared = names
	}
	if names, _ := cmd.Flags().GetStringSlice("ignore-unused"); len(names) > 0 {
		opts.IgnoreUnused = names
	}
	if workers, _ := cmd.Flags().GetInt("concurrency"); workers > 0 {
		opts.Concurrency = workers
	}
	opts.Detail, _ = cmd.Flags().GetBool("detail")

	table := resolve.NewTable()
	mappingPath, _ := cmd.Flags().GetString("mapping")
	if mappingPath == "" {
		mappingPath = cfg.Analysis.Mapping
	}
	if mappingPath != "" {
		extra, err := loadMapping(mappingPath)
		if err != nil {
			return err
		}
		table.Merge(extra)
	}
	opts.Table = table

	report, err := analysis.NewEngine().Run(cmd.Context(), opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputPath, _ := cmd.Flags().GetString("output"); outputPath != "" {
		f, err := os.Create(outputPath) // #nosec G304 -- user-chosen output destination
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		if err := emitJSON(cmd, out, report); err != nil {
			return err
		}
	} else if err := render.Markdown(out, report); err != nil {
		return err
	}

	if fail, _ := cmd.Flags().GetBool("fail"); fail {
		if len(report.UndeclaredDeps) > 0 || len(report.UnusedDeps) > 0 {
			logger.Info("dependency mismatches found",
				logger.Int("undeclared", len(report.UndeclaredDeps)),
				logger.Int("unused", len(report.UnusedDeps)))
			os.Exit(exitcode.AnalysisError)
		}
	}
	return nil
}

func emitJSON(cmd *cobra.Command, out io.Writer, report *analysis.Report) error {
	validate, _ := cmd.Flags().GetBool("validate-output")
	if !validate {
		return render.JSON(out, report)
	}

	var buf bytes.Buffer
	if err := render.JSON(&buf, report); err != nil {
		return err
	}
	if err := schema.ValidateReport(buf.Bytes()); err != nil {
		return err
	}
	_, err := out.Write(buf.Bytes())
	return err
}

func loadMapping(path string) (*resolve.Table, error) {
	f, err := os.Open(path) // #nosec G304 -- user-chosen mapping file
	if err != nil {
		return nil, fmt.Errorf("failed to open mapping file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return resolve.LoadYAML(f)
}
