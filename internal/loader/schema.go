package loader

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
)

//go:embed config_schema.cue
var configSchemaCUE string

// validateConfig checks a decoded configuration against the embedded
// CUE schema: non-empty keys, at least one prefix per modality, unique
// modality names.
func validateConfig(cfg *Config) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(configSchemaCUE, cue.Filename("config_schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	unified := schema.Unify(ctx.Encode(cfg))
	if err := unified.Validate(); err != nil {
		return fmt.Errorf("invalid config: %s", errors.Details(err, nil))
	}

	// Cross-field rules are awkward to express over CUE lists; enforce here.
	seen := make(map[string]bool, len(cfg.Modalities))
	for _, m := range cfg.Modalities {
		if seen[m.Name] {
			return fmt.Errorf("invalid config: duplicate modality %q", m.Name)
		}
		seen[m.Name] = true
		if m.KeepSeparate && m.IndexJoin {
			return fmt.Errorf("invalid config: modality %q is both keep_separate and index_join", m.Name)
		}
	}
	return nil
}
