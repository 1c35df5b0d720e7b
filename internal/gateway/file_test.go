package gateway

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagehand-io/stagehand/internal/item"
)

func tempGateway(t *testing.T) *FileGateway {
	t.Helper()
	return NewFileGateway(filepath.Join(t.TempDir(), "items.jsonl"))
}

func sample(id, stage string) *item.Item {
	it := &item.Item{ID: id, Title: "Item " + id, Stage: stage, Priority: 2}
	it.SetDefaults()
	return it
}

func TestFileGatewayMissingFileIsEmptyBoard(t *testing.T) {
	g := tempGateway(t)
	items, err := g.LoadItems(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestFileGatewaySaveAndLoad(t *testing.T) {
	g := tempGateway(t)
	ctx := context.Background()

	require.NoError(t, g.SaveItem(ctx, sample("it-1", "intake")))
	require.NoError(t, g.SaveItem(ctx, sample("it-2", "review")))

	items, err := g.LoadItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
}

func TestFileGatewaySetStage(t *testing.T) {
	g := tempGateway(t)
	ctx := context.Background()
	require.NoError(t, g.SaveItem(ctx, sample("it-1", "intake")))

	require.NoError(t, g.SetStage(ctx, "it-1", "review"))

	items, err := g.LoadItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "review", items[0].Stage)
	assert.False(t, items[0].UpdatedAt.IsZero())
}

func TestFileGatewaySetStageUnknownItem(t *testing.T) {
	g := tempGateway(t)
	err := g.SetStage(context.Background(), "nope", "review")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileGatewaySaveReplacesExisting(t *testing.T) {
	g := tempGateway(t)
	ctx := context.Background()

	require.NoError(t, g.SaveItem(ctx, sample("it-1", "intake")))
	updated := sample("it-1", "intake")
	updated.Title = "Renamed"
	require.NoError(t, g.SaveItem(ctx, updated))

	items, err := g.LoadItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Renamed", items[0].Title)
}

func TestFileGatewayUpdateItem(t *testing.T) {
	g := tempGateway(t)
	ctx := context.Background()
	require.NoError(t, g.SaveItem(ctx, sample("it-1", "intake")))

	d := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, g.UpdateItem(ctx, "it-1", func(it *item.Item) {
		it.Deadline = &d
		it.ChecklistDone = true
	}))

	items, err := g.LoadItems(ctx)
	require.NoError(t, err)
	require.NotNil(t, items[0].Deadline)
	assert.True(t, items[0].ChecklistDone)

	err = g.UpdateItem(ctx, "ghost", func(*item.Item) {})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileGatewaySkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.jsonl")
	content := `{"id":"it-1","title":"One","stage":"intake","priority":2,"created_at":"2026-01-01T00:00:00Z","updated_at":"2026-01-01T00:00:00Z"}

{"id":"it-2","title":"Two","stage":"review","priority":2,"created_at":"2026-01-01T00:00:00Z","updated_at":"2026-01-01T00:00:00Z"}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	g := NewFileGateway(path)
	items, err := g.LoadItems(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestFileGatewayMalformedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{not json}\n"), 0o644))

	g := NewFileGateway(path)
	_, err := g.LoadItems(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}
