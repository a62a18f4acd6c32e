package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkeene/cohort/internal/store"
	"github.com/pkeene/cohort/internal/table"
	"github.com/pkeene/cohort/internal/testutil"
)

func TestExportWritesDatabase(t *testing.T) {
	root, config := writeStudy(t)
	dbPath := filepath.Join(t.TempDir(), "cohort.db")

	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"export", "--config", config, "--db", dbPath, root})

	require.NoError(t, cmd.Execute())

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	keys := table.PPMIKeys

	study, err := st.ReadTable(ctx, StudyTableName, keys)
	require.NoError(t, err)
	assert.Equal(t, 2, study.NumRows())
	assert.Equal(t, []string{"10", "20"}, testutil.Cells(t, study, "SCORE"))

	demo, err := st.ReadTable(ctx, "demo", keys)
	require.NoError(t, err)
	assert.Equal(t, 2, demo.NumRows())

	// One audit row per exported table.
	runs, err := st.Runs(ctx)
	require.NoError(t, err)
	names := make([]string, len(runs))
	for i, r := range runs {
		names[i] = r.TableName
	}
	assert.Equal(t, []string{"demo", StudyTableName}, names)
}
