package stagehand

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedEvaluation(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Load(context.Background()))

	due := time.Now().Add(48 * time.Hour)
	v := Evaluate("intake", "review", Snapshot{ID: "x", Deadline: &due}, reg)
	require.NotNil(t, v)
	assert.Equal(t, TierFree, v.Tier)
}

func TestEmbeddedFileGateway(t *testing.T) {
	gw := NewFileGateway(filepath.Join(t.TempDir(), "items.jsonl"))

	items, err := gw.LoadItems(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}
