package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg, err := DefaultConfig()
	require.NoError(t, err)

	assert.Equal(t, "PATNO", cfg.PrimaryKey)
	assert.Equal(t, "EVENT_ID", cfg.SecondaryKey)
	require.Len(t, cfg.Modalities, 5)

	med, ok := cfg.Modality("medical_history")
	require.True(t, ok)
	assert.True(t, med.KeepSeparate)

	bio, ok := cfg.Modality("biospecimen")
	require.True(t, ok)
	assert.True(t, bio.IndexJoin)

	_, ok = cfg.Modality("wearables")
	assert.False(t, ok)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "study.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
primary_key: SUBJECT
secondary_key: VISIT
modalities:
  - name: labs
    folder: Labs
    prefixes: [Chemistry]
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "SUBJECT", cfg.Keys().Primary)
	assert.Equal(t, "VISIT", cfg.Keys().Secondary)
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing primary key", `
secondary_key: VISIT
modalities:
  - {name: labs, folder: Labs, prefixes: [Chemistry]}
`},
		{"empty modality name", `
primary_key: SUBJECT
secondary_key: VISIT
modalities:
  - {name: "", folder: Labs, prefixes: [Chemistry]}
`},
		{"no prefixes", `
primary_key: SUBJECT
secondary_key: VISIT
modalities:
  - {name: labs, folder: Labs, prefixes: []}
`},
		{"no modalities", `
primary_key: SUBJECT
secondary_key: VISIT
modalities: []
`},
		{"duplicate modality", `
primary_key: SUBJECT
secondary_key: VISIT
modalities:
  - {name: labs, folder: Labs, prefixes: [Chemistry]}
  - {name: labs, folder: Labs2, prefixes: [Hematology]}
`},
		{"keep_separate and index_join", `
primary_key: SUBJECT
secondary_key: VISIT
modalities:
  - {name: labs, folder: Labs, prefixes: [Chemistry], keep_separate: true, index_join: true}
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseConfig([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}
