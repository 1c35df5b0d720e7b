// Package policy classifies proposed stage moves. Evaluate is a pure
// function of the move, the item snapshot, and the stage registry: no I/O,
// no mutation, no suspension. The classification itself is encoded in an
// explicit rule table (rules.go) so the policy can be audited and tested
// without reading control flow.
package policy

import (
	"fmt"
	"strings"

	"github.com/stagehand-io/stagehand/internal/item"
	"github.com/stagehand-io/stagehand/internal/stage"
)

// Tier is the risk classification of a proposed stage move.
type Tier int

const (
	// TierFree moves proceed silently: forward one step with all entry
	// preconditions satisfied.
	TierFree Tier = iota
	// TierConfirm moves require explicit acknowledgement: backward moves,
	// forward skips, moves into terminal stages, unknown targets. No data
	// is missing; the move is merely unusual or destructive-adjacent.
	TierConfirm
	// TierWarn moves are permitted but flag unmet entry preconditions.
	TierWarn
)

func (t Tier) String() string {
	switch t {
	case TierFree:
		return "free"
	case TierConfirm:
		return "confirm"
	case TierWarn:
		return "warn"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Verdict is the immutable output of one evaluation. Warnings is empty
// unless Tier is TierWarn.
type Verdict struct {
	Tier      Tier
	From      string
	To        string
	FromLabel string
	ToLabel   string
	Title     string
	Message   string
	Warnings  []string
}

// Evaluate classifies moving the item from one stage to another. It
// returns nil when from == to (a no-op reorder, not a stage change).
//
// Configuration drift never produces an error: an unknown target stage
// classifies as TierConfirm with an "unrecognized stage" message, and an
// unknown source stage is treated the same way.
func Evaluate(from, to string, snap item.Snapshot, reg *stage.Registry) *Verdict {
	if from == to {
		return nil
	}

	fromLabel := reg.LabelOf(from)
	toLabel := reg.LabelOf(to)

	fromOrder, fromKnown := reg.OrderOf(from)
	toOrder, toKnown := reg.OrderOf(to)
	if !fromKnown || !toKnown {
		unknown := to
		if !fromKnown {
			unknown = from
		}
		return &Verdict{
			Tier:      TierConfirm,
			From:      from,
			To:        to,
			FromLabel: fromLabel,
			ToLabel:   toLabel,
			Title:     fmt.Sprintf("Move to %s?", toLabel),
			Message: fmt.Sprintf("%q is not a recognized stage. Move from %s to %s anyway?",
				unknown, fromLabel, toLabel),
		}
	}

	target, _ := reg.Get(to)
	missing := unmetPreconditions(target, snap)

	key := ruleKey{
		dir:      directionOf(fromOrder, toOrder),
		adjacent: toOrder == fromOrder+1,
		met:      len(missing) == 0,
		terminal: target.Terminal,
	}
	tier := ruleTable[key]

	v := &Verdict{
		Tier:      tier,
		From:      from,
		To:        to,
		FromLabel: fromLabel,
		ToLabel:   toLabel,
		Title:     fmt.Sprintf("Move to %s?", toLabel),
	}

	switch tier {
	case TierFree:
		v.Title = ""
	case TierConfirm:
		switch {
		case key.dir == backward:
			v.Message = fmt.Sprintf("This moves the item backward from %s to %s.", fromLabel, toLabel)
		case key.terminal:
			v.Message = fmt.Sprintf("%s is a terminal stage. Move from %s to %s?", toLabel, fromLabel, toLabel)
		default:
			v.Message = fmt.Sprintf("This skips ahead from %s to %s, passing intermediate stages.", fromLabel, toLabel)
		}
	case TierWarn:
		v.Warnings = missing
		v.Message = fmt.Sprintf("Moving from %s to %s despite %s.",
			fromLabel, toLabel, countNoun(len(missing), "gap"))
	}
	return v
}

func countNoun(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// unmetPreconditions returns a human-readable entry for each entry
// precondition of the target stage the snapshot does not satisfy, in the
// stage's declaration order. The order is stable: the same input always
// yields the same list.
func unmetPreconditions(target stage.Stage, snap item.Snapshot) []string {
	var missing []string
	for _, req := range target.Requires {
		if satisfied(req, snap) {
			continue
		}
		missing = append(missing, describeGap(req, target.Label))
	}
	return missing
}

// satisfied checks a single named precondition against the snapshot.
// "deadline" and "checklist" are built in; any other name is looked up in
// the snapshot's generic gating fields.
func satisfied(name string, snap item.Snapshot) bool {
	switch name {
	case "deadline":
		return snap.Deadline != nil
	case "checklist":
		return snap.ChecklistDone
	default:
		return snap.Fields[name]
	}
}

func describeGap(name, stageLabel string) string {
	label := stageLabel
	if label == "" {
		label = "this stage"
	}
	switch name {
	case "deadline":
		return fmt.Sprintf("no deadline is set (required for %s)", label)
	case "checklist":
		return fmt.Sprintf("the checklist is not complete (required for %s)", label)
	default:
		return fmt.Sprintf("%q is not satisfied (required for %s)", name, label)
	}
}

// FormatWarnings renders the warnings list as a bulleted block.
func FormatWarnings(warnings []string) string {
	if len(warnings) == 0 {
		return ""
	}
	var b strings.Builder
	for i, w := range warnings {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("  • ")
		b.WriteString(w)
	}
	return b.String()
}
