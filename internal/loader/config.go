package loader

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pkeene/cohort/internal/table"
)

//go:embed modalities.yaml
var defaultConfigYAML []byte

// Modality describes one data modality: where its extracts live and
// which filename prefixes identify them. Prefix lists are configuration
// data, not code - studies revise them every data issue.
type Modality struct {
	Name     string   `yaml:"name" json:"name"`
	Folder   string   `yaml:"folder" json:"folder"`
	Prefixes []string `yaml:"prefixes" json:"prefixes"`

	// KeepSeparate skips consolidation: each prefix's table is returned
	// on its own. Used for event-log modalities (adverse events,
	// concomitant medications) whose rows are not visit-aligned.
	KeepSeparate bool `yaml:"keep_separate,omitempty" json:"keep_separate,omitempty"`

	// IndexJoin loads each prefix as an independent source: aggregate
	// it, prefix its non-key columns with the source name, and
	// left-join everything onto the union key-pair index. Used for
	// large heterogeneous biospecimen sources where an outer join
	// would explode.
	IndexJoin bool `yaml:"index_join,omitempty" json:"index_join,omitempty"`
}

// Config is the full loading configuration for a study layout.
type Config struct {
	PrimaryKey   string     `yaml:"primary_key" json:"primary_key"`
	SecondaryKey string     `yaml:"secondary_key" json:"secondary_key"`
	Modalities   []Modality `yaml:"modalities" json:"modalities"`
}

// Keys returns the key configuration the engine should use.
func (c *Config) Keys() table.Keys {
	return table.Keys{Primary: c.PrimaryKey, Secondary: c.SecondaryKey}
}

// Modality finds a modality by name.
func (c *Config) Modality(name string) (Modality, bool) {
	for _, m := range c.Modalities {
		if m.Name == name {
			return m, true
		}
	}
	return Modality{}, false
}

// DefaultConfig returns the embedded PPMI configuration.
func DefaultConfig() (*Config, error) {
	return parseConfig(defaultConfigYAML)
}

// LoadConfig reads and validates a configuration file.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return parseConfig(raw)
}

func parseConfig(raw []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
