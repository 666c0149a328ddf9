package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanText(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewPlanCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{blogFixture})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "batch 1: Author\nbatch 2: Post\nbatch 3: Comment\nleaves: Comment\n", buf.String())
}

func TestPlanJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewPlanCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"../fixturefile/testdata/taxonomy.cue"})

	require.NoError(t, cmd.Execute())

	var resp struct {
		Status string     `json:"status"`
		Data   PlanResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, [][]string{{"Kingdom"}, {"Phylum"}, {"Class"}}, resp.Data.Batches)
	assert.Equal(t, []string{"Class"}, resp.Data.Leaves)
}

func TestPlanIndependentEntities(t *testing.T) {
	path := writeFixture(t, "fixtures.yaml", `
entities:
  - name: Tag
    fields:
      label: {value: go}
  - name: Setting
    fields:
      key: {value: theme}
`)

	buf := &bytes.Buffer{}
	cmd := NewPlanCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "batch 1: Tag, Setting\nleaves: Tag, Setting\n", buf.String())
}

func TestPlanNonExistentFile(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewPlanCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"/nonexistent/fixtures.yaml"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeNotFound)
}

func TestPlanExpressionFailure(t *testing.T) {
	path := writeFixture(t, "fixtures.yaml", brokenProjectionFixture)

	buf := &bytes.Buffer{}
	cmd := NewPlanCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeManifest)
}

func TestGuard(t *testing.T) {
	err := guard(func() error { panic("projection blew up") })
	require.ErrorIs(t, err, errExpression)
	assert.Contains(t, err.Error(), "projection blew up")

	plain := errors.New("plain")
	assert.Equal(t, plain, guard(func() error { return plain }))
	assert.NoError(t, guard(func() error { return nil }))
}
