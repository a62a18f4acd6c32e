package cli

import (
	"context"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/pkeene/cohort/internal/loader"
	"github.com/pkeene/cohort/internal/store"
	"github.com/pkeene/cohort/internal/table"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Config     string
	Modalities []string
	Database   string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export <data-dir>",
		Short: "Export consolidated tables to a SQLite database",
		Long: `Export runs the same pipeline as merge, then writes each modality
table and the combined study table into a SQLite database. Repeated
exports replace the tables and append to the runs audit log.

Example:
  cohort export --db ./cohort.db ./ppmi-data
  cohort export --db ./cohort.db ./ppmi-data --modality biospecimen`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runExport(ctx, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "", "modality configuration YAML (default: built-in)")
	cmd.Flags().StringSliceVar(&opts.Modalities, "modality", nil, "modalities to export (default: all configured)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

// StudyTableName is the database table holding the combined merge.
const StudyTableName = "study"

func runExport(ctx context.Context, opts *ExportOptions, dataDir string) error {
	cfg, err := studyConfig(opts.Config)
	if err != nil {
		return err
	}
	keys := cfg.Keys()

	results, err := loader.LoadStudy(dataDir, cfg, opts.Modalities)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to load study", err)
	}

	slog.Info("opening database", "path", opts.Database)
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	save := func(name string, t *table.Table) error {
		runID, err := st.SaveTable(ctx, name, t.SortByKeys(keys))
		if err != nil {
			return WrapExitError(ExitFailure, "failed to export table", err)
		}
		slog.Info("table exported", "table", name, "run", runID,
			"rows", t.NumRows(), "columns", t.NumCols())
		return nil
	}

	for _, res := range results {
		if res.Merged != nil && !res.Merged.Empty() {
			if err := save(res.Modality, res.Merged); err != nil {
				return err
			}
		}
		names := make([]string, 0, len(res.Separate))
		for name := range res.Separate {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			if err := save(name, res.Separate[name]); err != nil {
				return err
			}
		}
	}

	merged, err := finalizeStudy(results, keys)
	if err != nil {
		return err
	}
	return save(StudyTableName, merged)
}
