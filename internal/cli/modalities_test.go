package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModalitiesTextOutput(t *testing.T) {
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"modalities"})

	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "keys: PATNO, EVENT_ID")
	assert.Contains(t, out.String(), "motor_assessments")
	assert.Contains(t, out.String(), "index join")
	assert.Contains(t, out.String(), "keep separate")
}

func TestModalitiesJSONOutput(t *testing.T) {
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"modalities", "--format", "json"})

	require.NoError(t, cmd.Execute())

	var resp struct {
		Status string          `json:"status"`
		Data   ModalityListing `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "PATNO", resp.Data.PrimaryKey)
	assert.Len(t, resp.Data.Modalities, 5)
}
