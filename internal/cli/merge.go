package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pkeene/cohort/internal/clean"
	"github.com/pkeene/cohort/internal/loader"
	"github.com/pkeene/cohort/internal/table"
)

// MergeOptions holds flags for the merge command.
type MergeOptions struct {
	*RootOptions
	Config     string
	Modalities []string
	Out        string
}

// NewMergeCommand creates the merge command.
func NewMergeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MergeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "merge <data-dir>",
		Short: "Merge study extracts into one visit-level CSV",
		Long: `Merge discovers the configured modalities under the data directory,
consolidates each one, and folds them into a single table with one row
per patient and visit. The result is written as CSV, sorted by key.

Example:
  cohort merge ./ppmi-data --out study.csv
  cohort merge ./ppmi-data --modality motor_assessments --verbose`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(opts, args[0], cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "", "modality configuration YAML (default: built-in)")
	cmd.Flags().StringSliceVar(&opts.Modalities, "modality", nil, "modalities to merge (default: all configured)")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "output CSV path (default: stdout)")

	return cmd
}

func runMerge(opts *MergeOptions, dataDir string, stdout io.Writer) error {
	merged, _, err := mergeStudy(opts.Config, dataDir, opts.Modalities)
	if err != nil {
		return err
	}

	w := stdout
	if opts.Out != "" {
		f, err := os.Create(opts.Out)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to create output file", err)
		}
		defer f.Close()
		w = f
	}

	if err := merged.WriteCSV(w); err != nil {
		return WrapExitError(ExitFailure, "failed to write CSV", err)
	}
	slog.Info("merge complete", "rows", merged.NumRows(), "columns", merged.NumCols())
	return nil
}

// mergeStudy runs the full pipeline shared by merge and export: load
// the configured modalities, fold them into one table, derive the
// visit-months column, and sort by key.
func mergeStudy(configPath, dataDir string, modalities []string) (*table.Table, table.Keys, error) {
	cfg, err := studyConfig(configPath)
	if err != nil {
		return nil, table.Keys{}, err
	}
	keys := cfg.Keys()

	if _, err := os.Stat(dataDir); err != nil {
		return nil, keys, WrapExitError(ExitCommandError,
			fmt.Sprintf("data directory %s not accessible", dataDir), err)
	}

	results, err := loader.LoadStudy(dataDir, cfg, modalities)
	if err != nil {
		return nil, keys, WrapExitError(ExitFailure, "failed to load study", err)
	}

	merged, err := finalizeStudy(results, keys)
	if err != nil {
		return nil, keys, err
	}
	return merged, keys, nil
}

// finalizeStudy folds loaded modalities into the study table, derives
// the visit-months column, and sorts by key.
func finalizeStudy(results []*loader.Result, keys table.Keys) (*table.Table, error) {
	merged, err := loader.MergeStudy(results, keys)
	if err != nil {
		return nil, WrapExitError(ExitFailure, "failed to merge study", err)
	}

	if keys.Secondary != "" && merged.HasColumn(keys.Secondary) {
		if merged, err = clean.AddVisitMonths(merged, keys); err != nil {
			return nil, WrapExitError(ExitFailure, "failed to derive visit months", err)
		}
	}

	return merged.SortByKeys(keys), nil
}

// studyConfig loads the modality configuration, falling back to the
// built-in study layout.
func studyConfig(path string) (*loader.Config, error) {
	if path == "" {
		cfg, err := loader.DefaultConfig()
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "built-in configuration invalid", err)
		}
		return cfg, nil
	}
	cfg, err := loader.LoadConfig(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError,
			fmt.Sprintf("failed to load configuration %s", path), err)
	}
	return cfg, nil
}
