// Package stagehand provides a minimal public API for embedding the stage
// transition engine in other Go programs.
//
// Most integrations only need three pieces: a gateway for item persistence,
// a registry describing the stage vocabulary, and the policy evaluator that
// classifies proposed moves. The interactive board and its drag controller
// live under internal/ and are reached through the stagehand binary.
package stagehand

import (
	"github.com/stagehand-io/stagehand/internal/gateway"
	"github.com/stagehand-io/stagehand/internal/item"
	"github.com/stagehand-io/stagehand/internal/policy"
	"github.com/stagehand-io/stagehand/internal/stage"
)

// Core types for working with items and moves
type (
	Item     = item.Item
	Snapshot = item.Snapshot
	Stage    = stage.Stage
	Registry = stage.Registry
	Verdict  = policy.Verdict
	Tier     = policy.Tier
)

// Tier constants
const (
	TierFree    = policy.TierFree
	TierConfirm = policy.TierConfirm
	TierWarn    = policy.TierWarn
)

// Gateway is the persistence boundary for board items.
type Gateway = gateway.Gateway

// NewFileGateway opens a JSONL-backed item store for programmatic access.
func NewFileGateway(path string) Gateway {
	return gateway.NewFileGateway(path)
}

// NewRegistry builds a stage registry over the built-in lifecycle. Call
// Load before using it.
func NewRegistry() *Registry {
	return stage.NewRegistry(stage.DefaultSource())
}

// Evaluate classifies a proposed move. See policy.Evaluate.
func Evaluate(from, to string, snap Snapshot, reg *Registry) *Verdict {
	return policy.Evaluate(from, to, snap, reg)
}
