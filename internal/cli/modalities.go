package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// ModalitiesOptions holds flags for the modalities command.
type ModalitiesOptions struct {
	*RootOptions
	Config string
}

// ModalityInfo is the JSON payload describing one configured modality.
type ModalityInfo struct {
	Name         string `json:"name"`
	Folder       string `json:"folder"`
	Prefixes     int    `json:"prefixes"`
	KeepSeparate bool   `json:"keep_separate,omitempty"`
	IndexJoin    bool   `json:"index_join,omitempty"`
}

// ModalityListing is the full modalities payload.
type ModalityListing struct {
	PrimaryKey   string         `json:"primary_key"`
	SecondaryKey string         `json:"secondary_key,omitempty"`
	Modalities   []ModalityInfo `json:"modalities"`
}

// String renders the listing for text output.
func (l ModalityListing) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "keys: %s", l.PrimaryKey)
	if l.SecondaryKey != "" {
		fmt.Fprintf(&b, ", %s", l.SecondaryKey)
	}
	b.WriteByte('\n')
	for _, m := range l.Modalities {
		mode := "consolidate"
		switch {
		case m.KeepSeparate:
			mode = "keep separate"
		case m.IndexJoin:
			mode = "index join"
		}
		fmt.Fprintf(&b, "%-28s %-24s %2d prefixes  (%s)\n", m.Name, m.Folder, m.Prefixes, mode)
	}
	return strings.TrimRight(b.String(), "\n")
}

// NewModalitiesCommand creates the modalities command.
func NewModalitiesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ModalitiesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "modalities",
		Short: "List the configured modalities",
		Long: `Modalities prints the study layout the pipeline will use: the key
columns and, per modality, its folder, prefix count, and load mode.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := studyConfig(opts.Config)
			if err != nil {
				return err
			}
			listing := ModalityListing{
				PrimaryKey:   cfg.PrimaryKey,
				SecondaryKey: cfg.SecondaryKey,
			}
			for _, m := range cfg.Modalities {
				listing.Modalities = append(listing.Modalities, ModalityInfo{
					Name:         m.Name,
					Folder:       m.Folder,
					Prefixes:     len(m.Prefixes),
					KeepSeparate: m.KeepSeparate,
					IndexJoin:    m.IndexJoin,
				})
			}
			f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			return f.Success(listing)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "", "modality configuration YAML (default: built-in)")

	return cmd
}
