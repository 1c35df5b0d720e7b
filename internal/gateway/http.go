package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/stagehand-io/stagehand/internal/item"
)

// HTTPGateway talks to a remote board service. Transient failures (5xx,
// network errors) are retried with exponential backoff here, inside the
// gateway — the drag controller never retries on its own.
type HTTPGateway struct {
	base   string
	client *http.Client

	// MaxRetries bounds transient-error retries per call.
	MaxRetries uint64
}

// NewHTTPGateway creates a gateway for the service at base (e.g.
// "https://boards.example.com/api").
func NewHTTPGateway(base string) *HTTPGateway {
	return &HTTPGateway{
		base:       base,
		client:     &http.Client{Timeout: 30 * time.Second},
		MaxRetries: 4,
	}
}

// LoadItems fetches all items from GET {base}/items.
func (g *HTTPGateway) LoadItems(ctx context.Context) ([]*item.Item, error) {
	var items []*item.Item
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.base+"/items", nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := g.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if err := checkStatus(resp); err != nil {
			return err
		}
		return json.NewDecoder(resp.Body).Decode(&items)
	}
	if err := backoff.Retry(op, g.policy(ctx)); err != nil {
		return nil, fmt.Errorf("loading items: %w", err)
	}
	return items, nil
}

// SetStage commits a stage change via POST {base}/items/{id}/stage.
func (g *HTTPGateway) SetStage(ctx context.Context, itemID, toStage string) error {
	body, err := json.Marshal(map[string]string{"to_stage": toStage})
	if err != nil {
		return err
	}
	endpoint := fmt.Sprintf("%s/items/%s/stage", g.base, url.PathEscape(itemID))

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := g.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		io.Copy(io.Discard, resp.Body)
		return checkStatus(resp)
	}
	if err := backoff.Retry(op, g.policy(ctx)); err != nil {
		return fmt.Errorf("setting stage for %s: %w", itemID, err)
	}
	return nil
}

func (g *HTTPGateway) policy(ctx context.Context) backoff.BackOffContext {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 250 * time.Millisecond
	b.MaxElapsedTime = 20 * time.Second
	return backoff.WithContext(backoff.WithMaxRetries(b, g.MaxRetries), ctx)
}

// checkStatus classifies HTTP responses: 2xx succeed, 404 is ErrNotFound,
// other 4xx are permanent, 5xx are transient and retried.
func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return backoff.Permanent(ErrNotFound)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return backoff.Permanent(fmt.Errorf("server rejected request: %s", resp.Status))
	default:
		return fmt.Errorf("server error: %s", resp.Status)
	}
}
