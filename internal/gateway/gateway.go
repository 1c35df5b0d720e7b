// Package gateway persists stage changes. The drag controller only sees
// the Gateway interface; transport, payload encoding, and retry policy are
// implementation concerns and never leak into the engine.
package gateway

import (
	"context"
	"errors"

	"github.com/stagehand-io/stagehand/internal/item"
)

// ErrNotFound is returned when the referenced item does not exist.
var ErrNotFound = errors.New("item not found")

// Gateway accepts stage-change requests for items and hydrates the board.
type Gateway interface {
	// LoadItems returns all items for board hydration.
	LoadItems(ctx context.Context) ([]*item.Item, error)

	// SetStage commits a stage change for one item. The engine never
	// retries: if retry/backoff is wanted it lives behind this call.
	SetStage(ctx context.Context, itemID, toStage string) error
}
