package stage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleStages = `stages:
  - key: intake
    label: Intake
    order: 1
    color: "39"
    statuses: [new, needs-info]
  - key: review
    label: Review
    order: 2
    requires: [deadline]
  - key: archived
    label: Archived
    order: 3
    terminal: true
`

func writeStages(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stages.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileSourceLoadStages(t *testing.T) {
	src := &FileSource{Path: writeStages(t, sampleStages)}

	stages, err := src.LoadStages(context.Background())
	require.NoError(t, err)
	require.Len(t, stages, 3)

	assert.Equal(t, "intake", stages[0].Key)
	assert.Equal(t, []string{"new", "needs-info"}, stages[0].Statuses)
	assert.Equal(t, []string{"deadline"}, stages[1].Requires)
	assert.True(t, stages[2].Terminal)
}

func TestFileSourceLoadStatuses(t *testing.T) {
	src := &FileSource{Path: writeStages(t, sampleStages)}

	statuses, err := src.LoadStatuses(context.Background(), "intake")
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "needs-info"}, statuses)

	statuses, err = src.LoadStatuses(context.Background(), "archived")
	require.NoError(t, err)
	assert.Empty(t, statuses)
}

func TestFileSourceMissingFile(t *testing.T) {
	src := &FileSource{Path: filepath.Join(t.TempDir(), "absent.yaml")}
	_, err := src.LoadStages(context.Background())
	assert.Error(t, err)
}

func TestFileSourceMalformedYAML(t *testing.T) {
	src := &FileSource{Path: writeStages(t, "stages: [what")}
	_, err := src.LoadStages(context.Background())
	assert.Error(t, err)
}

func TestWatchSourceSignalsOnWrite(t *testing.T) {
	path := writeStages(t, sampleStages)
	ws, err := NewWatchSource(path)
	require.NoError(t, err)
	defer ws.Close()

	require.NoError(t, os.WriteFile(path, []byte(sampleStages+"  # touched\n"), 0o644))

	select {
	case <-ws.Changes():
	case <-time.After(3 * time.Second):
		t.Fatal("no change signal after writing the stages file")
	}
}
