package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/stagehand-io/stagehand/internal/config"
	"github.com/stagehand-io/stagehand/internal/eventbus"
)

// auditRecord is one line of the event log under .stagehand/events.jsonl.
type auditRecord struct {
	*eventbus.Event
	Actor string `json:"actor"`
}

// registerAuditHandler appends every stage change and abort to the project
// event log. Log failures never block a move; the handler error is logged
// by the bus and the command proceeds.
func registerAuditHandler() {
	path := filepath.Join(workDir, config.Dir, "events.jsonl")
	bus.Register(&eventbus.HandlerFunc{
		Name: "audit-log",
		Types: []eventbus.EventType{
			eventbus.EventStageChanged,
			eventbus.EventStageChangeAborted,
		},
		Pri: 100,
		Fn: func(ctx context.Context, ev *eventbus.Event) error {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}
			f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return err
			}
			defer f.Close()
			return json.NewEncoder(f).Encode(auditRecord{Event: ev, Actor: cfg.Actor})
		},
	})
}
