package gateway

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/stagehand-io/stagehand/internal/item"
)

// FileGateway stores items in a JSONL file, one item per line. Writes
// rewrite the whole file through a temp file + rename so readers never see
// a partial state.
type FileGateway struct {
	path string
	mu   sync.Mutex
}

// NewFileGateway creates a JSONL-backed gateway at path. The file is
// created on first write.
func NewFileGateway(path string) *FileGateway {
	return &FileGateway{path: path}
}

// Path returns the backing file path.
func (g *FileGateway) Path() string { return g.path }

// LoadItems reads every item from the file. A missing file is an empty
// board, not an error.
func (g *FileGateway) LoadItems(ctx context.Context) ([]*item.Item, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.readAll()
}

// SetStage rewrites the file with the item's stage updated.
func (g *FileGateway) SetStage(ctx context.Context, itemID, toStage string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	items, err := g.readAll()
	if err != nil {
		return err
	}
	found := false
	for _, it := range items {
		if it.ID == itemID {
			it.Stage = toStage
			it.UpdatedAt = time.Now().UTC()
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("setting stage for %s: %w", itemID, ErrNotFound)
	}
	return g.writeAll(items)
}

// SaveItem inserts or replaces an item.
func (g *FileGateway) SaveItem(ctx context.Context, it *item.Item) error {
	if err := it.Validate(); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	items, err := g.readAll()
	if err != nil {
		return err
	}
	replaced := false
	for i, existing := range items {
		if existing.ID == it.ID {
			items[i] = it
			replaced = true
			break
		}
	}
	if !replaced {
		items = append(items, it)
	}
	return g.writeAll(items)
}

// UpdateItem applies fn to the stored item with the given ID and persists
// the result.
func (g *FileGateway) UpdateItem(ctx context.Context, itemID string, fn func(*item.Item)) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	items, err := g.readAll()
	if err != nil {
		return err
	}
	for _, it := range items {
		if it.ID == itemID {
			fn(it)
			it.UpdatedAt = time.Now().UTC()
			return g.writeAll(items)
		}
	}
	return fmt.Errorf("updating %s: %w", itemID, ErrNotFound)
}

func (g *FileGateway) readAll() ([]*item.Item, error) {
	f, err := os.Open(g.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening %s: %w", g.path, err)
	}
	defer f.Close()

	var items []*item.Item
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var it item.Item
		if err := json.Unmarshal(raw, &it); err != nil {
			return nil, fmt.Errorf("parsing %s line %d: %w", g.path, line, err)
		}
		items = append(items, &it)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", g.path, err)
	}
	return items, nil
}

func (g *FileGateway) writeAll(items []*item.Item) error {
	dir := filepath.Dir(g.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".items-*.jsonl")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	enc := json.NewEncoder(w)
	for _, it := range items {
		if err := enc.Encode(it); err != nil {
			tmp.Close()
			return fmt.Errorf("encoding item %s: %w", it.ID, err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), g.path); err != nil {
		return fmt.Errorf("replacing %s: %w", g.path, err)
	}
	return nil
}
