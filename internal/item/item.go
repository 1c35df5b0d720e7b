// Package item defines the work item data structures for stagehand.
package item

import (
	"fmt"
	"strings"
	"time"
)

// Item represents a trackable work item on the board.
type Item struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Stage         string     `json:"stage,omitempty"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	ChecklistDone bool       `json:"checklist_done,omitempty"`
	Assignee      string     `json:"assignee,omitempty"`
	Priority      int        `json:"priority"` // No omitempty: 0 is valid (P0/critical)
	Labels        []string   `json:"labels,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Fields holds additional stage-gating flags referenced by stage
	// entry preconditions (e.g. "approved", "estimate"). Kept generic so
	// stage vocabularies can gate on fields this package does not know
	// about.
	Fields map[string]bool `json:"fields,omitempty"`
}

// Snapshot is the read-only subset of an item that the transition policy
// evaluator sees. It is captured at drop time and never cached.
type Snapshot struct {
	ID            string
	Stage         string
	Deadline      *time.Time
	ChecklistDone bool
	Fields        map[string]bool
}

// Snapshot captures the policy-relevant fields of the item.
func (i *Item) Snapshot() Snapshot {
	return Snapshot{
		ID:            i.ID,
		Stage:         i.Stage,
		Deadline:      i.Deadline,
		ChecklistDone: i.ChecklistDone,
		Fields:        i.Fields,
	}
}

// Validate checks that the item has usable field values.
func (i *Item) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return fmt.Errorf("item ID is required")
	}
	if strings.TrimSpace(i.Title) == "" {
		return fmt.Errorf("item title is required")
	}
	if i.Priority < 0 || i.Priority > 4 {
		return fmt.Errorf("invalid priority: %d (must be 0-4)", i.Priority)
	}
	return nil
}

// SetDefaults fills in default values for unset fields:
//   - Stage: defaults to "intake" if empty
//   - Priority is left alone (0 is a valid priority)
//   - CreatedAt/UpdatedAt: default to now if zero
func (i *Item) SetDefaults() {
	if i.Stage == "" {
		i.Stage = "intake"
	}
	now := time.Now().UTC()
	if i.CreatedAt.IsZero() {
		i.CreatedAt = now
	}
	if i.UpdatedAt.IsZero() {
		i.UpdatedAt = now
	}
}
