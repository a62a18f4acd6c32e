package loader

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/pkeene/cohort/internal/engine"
	"github.com/pkeene/cohort/internal/table"
)

// LoadStudy loads the named modalities from the study root. Unknown
// names are logged and skipped; an empty names slice loads everything
// in the configuration.
func LoadStudy(root string, cfg *Config, names []string) ([]*Result, error) {
	if len(names) == 0 {
		for _, m := range cfg.Modalities {
			names = append(names, m.Name)
		}
	}
	keys := cfg.Keys()
	var out []*Result
	for _, name := range names {
		m, ok := cfg.Modality(name)
		if !ok {
			slog.Warn("unknown modality; skipping", "modality", name)
			continue
		}
		slog.Info("loading modality", "modality", name, "folder", m.Folder)
		res, err := Load(filepath.Join(root, m.Folder), m, keys)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

// MergeStudy folds every loaded modality into one table, unique per
// (primary, secondary) key pair.
//
// The accumulator is seeded with the union key-pair index across all
// tables, then each table is left-joined onto it. Before each join,
// non-key columns already present in the accumulator are renamed with
// the source's name so independent modalities never produce spurious
// collisions (within-modality collisions were already resolved during
// modality loading). Tables without both key columns cannot align to
// the visit grid and are skipped with a log line.
func MergeStudy(results []*Result, keys table.Keys) (*table.Table, error) {
	type source struct {
		name string
		t    *table.Table
	}
	var sources []source
	for _, res := range results {
		if res.Merged != nil && !res.Merged.Empty() {
			sources = append(sources, source{name: res.Modality, t: res.Merged})
		}
		// Separate tables come out of a map; sort the names so token
		// ordering in the merged output is deterministic.
		names := make([]string, 0, len(res.Separate))
		for name := range res.Separate {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			sources = append(sources, source{name: name, t: res.Separate[name]})
		}
	}

	var indexable []*table.Table
	for _, s := range sources {
		indexable = append(indexable, s.t)
	}
	acc, err := engine.PairIndex(indexable, keys)
	if err != nil {
		return nil, fmt.Errorf("build pair index: %w", err)
	}

	for _, s := range sources {
		if len(s.t.KeyColumns(keys)) < 2 {
			slog.Warn("table lacks visit-level keys; excluded from study merge",
				"source", s.name)
			continue
		}
		t := s.t
		var clashes map[string]string
		for _, name := range t.Columns() {
			if name == keys.Primary || name == keys.Secondary {
				continue
			}
			if acc.HasColumn(name) {
				if clashes == nil {
					clashes = make(map[string]string)
				}
				clashes[name] = s.name + "_" + name
			}
		}
		if len(clashes) > 0 {
			slog.Debug("renaming duplicate columns before study merge",
				"source", s.name, "columns", len(clashes))
			if t, err = t.Renamed(clashes); err != nil {
				return nil, fmt.Errorf("rename %s columns: %w", s.name, err)
			}
		}
		if acc, err = engine.Merge(acc, t, engine.Options{Keys: keys, Join: engine.JoinLeft}); err != nil {
			return nil, fmt.Errorf("merge %s: %w", s.name, err)
		}
		slog.Info("merged source", "source", s.name,
			"rows", acc.NumRows(), "columns", acc.NumCols())
	}

	// Event-log sources repeat key pairs; collapse to one row per pair.
	return engine.Aggregate(acc, keys)
}
