// Package harness runs declarative consolidation scenarios. A scenario
// is a YAML file naming input tables as inline CSV plus the engine
// operation to run; the expected output lives in a golden CSV next to
// the scenarios. Together they pin down the merge semantics end to end
// without hand-building tables in test code.
package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pkeene/cohort/internal/engine"
	"github.com/pkeene/cohort/internal/loader"
	"github.com/pkeene/cohort/internal/table"
)

// Operations a scenario can exercise.
const (
	OpConsolidate = "consolidate" // fold all tables with outer joins, then aggregate
	OpIndexJoin   = "index_join"  // left-join all tables onto the union key index
	OpAggregate   = "aggregate"   // collapse duplicate key tuples of a single table
)

// Scenario defines one consolidation test case.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Operation selects the engine entry point.
	Operation string `yaml:"operation"`

	// Keys overrides the key columns. Empty means PATNO / EVENT_ID.
	Keys KeyConfig `yaml:"keys,omitempty"`

	// Tables are the inputs, applied in order. Order matters: it fixes
	// token order in combined cells and row order in the key index.
	Tables []TableSource `yaml:"tables"`
}

// KeyConfig mirrors table.Keys for YAML.
type KeyConfig struct {
	Primary   string `yaml:"primary"`
	Secondary string `yaml:"secondary"`
}

// TableSource is one input table as inline CSV.
type TableSource struct {
	Name string `yaml:"name"`
	CSV  string `yaml:"csv"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &s, nil
}

// LoadScenarios reads every .yaml file in dir, sorted by filename.
func LoadScenarios(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read scenario dir: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".yaml") {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("missing name")
	}
	switch s.Operation {
	case OpConsolidate, OpIndexJoin:
		if len(s.Tables) == 0 {
			return fmt.Errorf("%s needs at least one table", s.Operation)
		}
	case OpAggregate:
		if len(s.Tables) != 1 {
			return fmt.Errorf("aggregate takes exactly one table, got %d", len(s.Tables))
		}
	default:
		return fmt.Errorf("unknown operation %q", s.Operation)
	}
	for i, src := range s.Tables {
		if strings.TrimSpace(src.CSV) == "" {
			return fmt.Errorf("table %d (%s) has no csv", i, src.Name)
		}
	}
	return nil
}

// keys resolves the scenario's key configuration.
func (s *Scenario) keys() table.Keys {
	if s.Keys.Primary == "" {
		return table.PPMIKeys
	}
	return table.Keys{Primary: s.Keys.Primary, Secondary: s.Keys.Secondary}
}

// Run parses the scenario's tables and executes its operation.
func (s *Scenario) Run() (*table.Table, error) {
	keys := s.keys()
	tables := make([]*table.Table, len(s.Tables))
	for i, src := range s.Tables {
		t, err := loader.ReadTable(strings.NewReader(src.CSV), keys)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", src.Name, err)
		}
		tables[i] = t
	}
	opts := engine.Options{Keys: keys}

	switch s.Operation {
	case OpConsolidate:
		merged, err := engine.Consolidate(tables, opts)
		if err != nil {
			return nil, err
		}
		return engine.Aggregate(merged, keys)
	case OpIndexJoin:
		index, err := engine.PairIndex(tables, keys)
		if err != nil {
			return nil, err
		}
		return engine.ConsolidateOntoIndex(index, tables, opts)
	case OpAggregate:
		return engine.Aggregate(tables[0], keys)
	default:
		return nil, fmt.Errorf("unknown operation %q", s.Operation)
	}
}
