// Package loader turns a study's on-disk CSV extracts into engine
// tables: it discovers files by modality prefix, parses and classifies
// cells, and drives the consolidation engine per modality.
package loader

import (
	"fmt"
	"log/slog"

	"github.com/pkeene/cohort/internal/clean"
	"github.com/pkeene/cohort/internal/engine"
	"github.com/pkeene/cohort/internal/table"
)

// Result is one loaded modality. Merged holds the unique-per-key
// consolidated table for joinable modalities; Separate holds the
// per-prefix tables of a keep_separate modality.
type Result struct {
	Modality string
	Merged   *table.Table
	Separate map[string]*table.Table
}

// Load reads and consolidates one modality from dir.
//
// Files missing the primary key are logged and skipped - the engine
// refuses them, so they never reach it. Modalities with no usable files
// yield an empty Merged table, not an error.
func Load(dir string, m Modality, keys table.Keys) (*Result, error) {
	paths, err := discoverCSV(dir)
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", m.Name, err)
	}

	switch {
	case m.KeepSeparate:
		return loadSeparate(paths, m, keys)
	case m.IndexJoin:
		return loadOntoIndex(paths, m, keys)
	default:
		return loadConsolidated(paths, m, keys)
	}
}

// loadConsolidated is the common path: outer-join every matching file
// in prefix order, then aggregate to unique key tuples.
func loadConsolidated(paths []string, m Modality, keys table.Keys) (*Result, error) {
	tables := readByPrefixes(paths, m, keys)
	merged, err := engine.Consolidate(tables, engine.Options{Keys: keys})
	if err != nil {
		return nil, fmt.Errorf("consolidate %s: %w", m.Name, err)
	}
	merged, err = engine.Aggregate(merged, keys)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", m.Name, err)
	}
	slog.Info("modality loaded", "modality", m.Name,
		"rows", merged.NumRows(), "columns", merged.NumCols())
	return &Result{Modality: m.Name, Merged: merged}, nil
}

// loadOntoIndex treats each prefix as an independent source: aggregate
// it alone, prefix its non-key columns with the source name so nothing
// collides, then left-join every source onto the union key-pair index.
func loadOntoIndex(paths []string, m Modality, keys table.Keys) (*Result, error) {
	var sources []*table.Table
	for _, prefix := range m.Prefixes {
		files := readFiles(matchPrefix(paths, prefix), m.Name, keys)
		if len(files) == 0 {
			slog.Debug("no files for source", "modality", m.Name, "prefix", prefix)
			continue
		}
		src, err := engine.Consolidate(files, engine.Options{Keys: keys})
		if err != nil {
			return nil, fmt.Errorf("consolidate source %s/%s: %w", m.Name, prefix, err)
		}
		src, err = engine.Aggregate(src, keys)
		if err != nil {
			return nil, fmt.Errorf("aggregate source %s/%s: %w", m.Name, prefix, err)
		}
		src, err = PrefixColumns(src, prefix, keys)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}

	index, err := engine.PairIndex(sources, keys)
	if err != nil {
		return nil, fmt.Errorf("index %s: %w", m.Name, err)
	}
	merged, err := engine.ConsolidateOntoIndex(index, sources, engine.Options{Keys: keys})
	if err != nil {
		return nil, fmt.Errorf("consolidate %s onto index: %w", m.Name, err)
	}
	// Safeguard: the left joins keep index cardinality, but re-check.
	merged, err = engine.Aggregate(merged, keys)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", m.Name, err)
	}
	slog.Info("modality loaded onto index", "modality", m.Name,
		"sources", len(sources), "rows", merged.NumRows(), "columns", merged.NumCols())
	return &Result{Modality: m.Name, Merged: merged}, nil
}

// loadSeparate returns one table per prefix, unconsolidated. Event-log
// tables legitimately repeat key tuples, so no aggregation happens.
func loadSeparate(paths []string, m Modality, keys table.Keys) (*Result, error) {
	out := make(map[string]*table.Table, len(m.Prefixes))
	for _, prefix := range m.Prefixes {
		files := readFiles(matchPrefix(paths, prefix), m.Name, keys)
		if len(files) == 0 {
			continue
		}
		if len(files) > 1 {
			slog.Warn("multiple files share prefix; using the first",
				"modality", m.Name, "prefix", prefix, "count", len(files))
		}
		out[prefix] = files[0]
	}
	slog.Info("modality loaded as separate tables", "modality", m.Name, "tables", len(out))
	return &Result{Modality: m.Name, Separate: out}, nil
}

// readByPrefixes reads every file matching any prefix, in prefix order.
func readByPrefixes(paths []string, m Modality, keys table.Keys) []*table.Table {
	var out []*table.Table
	for _, prefix := range m.Prefixes {
		matches := matchPrefix(paths, prefix)
		if len(matches) == 0 {
			slog.Debug("no files for prefix", "modality", m.Name, "prefix", prefix)
			continue
		}
		out = append(out, readFiles(matches, m.Name, keys)...)
	}
	return out
}

// readFiles parses files, dropping (with a log line) any that cannot be
// read or that lack the primary key. Each surviving table runs through
// the cleaning pipeline before it reaches the engine, so recodes and
// derived columns happen while rows still map one-to-one to the source
// extract.
func readFiles(paths []string, modality string, keys table.Keys) []*table.Table {
	var out []*table.Table
	for _, path := range paths {
		t, err := ReadTableFile(path, keys)
		if err != nil {
			slog.Error("could not read file", "modality", modality, "path", path, "error", err)
			continue
		}
		if !t.HasColumn(keys.Primary) {
			slog.Warn("file missing primary key column; skipping",
				"modality", modality, "path", path, "key", keys.Primary)
			continue
		}
		if t.Empty() {
			continue
		}
		if t, err = clean.Apply(t); err != nil {
			slog.Error("cleaning failed; skipping file",
				"modality", modality, "path", path, "error", err)
			continue
		}
		out = append(out, t)
	}
	return out
}

// PrefixColumns renames every non-key column to prefix + "_" + name.
// The engine treats prefixed columns as ordinary distinct columns, so
// unrelated same-named columns from independent sources never collide.
func PrefixColumns(t *table.Table, prefix string, keys table.Keys) (*table.Table, error) {
	mapping := make(map[string]string, t.NumCols())
	for _, name := range t.Columns() {
		if name == keys.Primary || name == keys.Secondary {
			continue
		}
		mapping[name] = prefix + "_" + name
	}
	return t.Renamed(mapping)
}
