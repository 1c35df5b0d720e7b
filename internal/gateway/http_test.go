package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagehand-io/stagehand/internal/item"
)

func TestHTTPGatewayLoadItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/items", r.URL.Path)
		json.NewEncoder(w).Encode([]*item.Item{ //nolint:errcheck
			{ID: "it-1", Title: "One", Stage: "intake"},
		})
	}))
	defer srv.Close()

	g := NewHTTPGateway(srv.URL)
	items, err := g.LoadItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "it-1", items[0].ID)
}

func TestHTTPGatewaySetStage(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/items/it-1/stage", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	g := NewHTTPGateway(srv.URL)
	require.NoError(t, g.SetStage(context.Background(), "it-1", "review"))
	assert.Equal(t, map[string]string{"to_stage": "review"}, got)
}

func TestHTTPGatewayRetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	g := NewHTTPGateway(srv.URL)
	require.NoError(t, g.SetStage(context.Background(), "it-1", "review"))
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPGatewayDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	g := NewHTTPGateway(srv.URL)
	err := g.SetStage(context.Background(), "it-1", "review")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPGatewayNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	g := NewHTTPGateway(srv.URL)
	err := g.SetStage(context.Background(), "ghost", "review")
	assert.ErrorIs(t, err, ErrNotFound)
}
