package item

import (
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		item    Item
		wantErr bool
	}{
		{"valid", Item{ID: "it-1", Title: "Fix login", Priority: 2}, false},
		{"missing id", Item{Title: "Fix login"}, true},
		{"missing title", Item{ID: "it-1"}, true},
		{"whitespace title", Item{ID: "it-1", Title: "   "}, true},
		{"priority too high", Item{ID: "it-1", Title: "x", Priority: 9}, true},
		{"priority zero is valid", Item{ID: "it-1", Title: "x", Priority: 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSetDefaults(t *testing.T) {
	it := Item{ID: "it-1", Title: "x"}
	it.SetDefaults()

	if it.Stage != "intake" {
		t.Errorf("default stage = %q, want intake", it.Stage)
	}
	if it.CreatedAt.IsZero() || it.UpdatedAt.IsZero() {
		t.Error("timestamps should default to now")
	}
}

func TestSetDefaultsKeepsExistingStage(t *testing.T) {
	it := Item{ID: "it-1", Title: "x", Stage: "review"}
	it.SetDefaults()
	if it.Stage != "review" {
		t.Errorf("stage = %q, want review", it.Stage)
	}
}

func TestSnapshot(t *testing.T) {
	d := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	it := Item{
		ID:            "it-1",
		Title:         "x",
		Stage:         "review",
		Deadline:      &d,
		ChecklistDone: true,
		Fields:        map[string]bool{"approved": true},
	}

	snap := it.Snapshot()
	if snap.ID != "it-1" || snap.Stage != "review" {
		t.Errorf("snapshot identity mismatch: %+v", snap)
	}
	if snap.Deadline == nil || !snap.Deadline.Equal(d) {
		t.Error("snapshot should carry the deadline")
	}
	if !snap.ChecklistDone || !snap.Fields["approved"] {
		t.Error("snapshot should carry gating fields")
	}
}
