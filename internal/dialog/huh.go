package dialog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/stagehand-io/stagehand/internal/policy"
)

var warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

// Huh presents verdicts as an interactive terminal confirm form. Used by
// the non-TUI CLI path (`stagehand move`). Decline is the default-focused
// choice; aborting the form (Esc, Ctrl+C) is equivalent to declining.
type Huh struct {
	// Accessible disables fancy rendering for screen readers / dumb
	// terminals.
	Accessible bool
}

// Present runs a confirm form for the verdict and returns the decision.
func (h *Huh) Present(ctx context.Context, v *policy.Verdict) (Decision, error) {
	accepted := false

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(v.Title).
				Description(describe(v)).
				Affirmative("Move").
				Negative("Keep in place").
				Value(&accepted),
		),
	).WithAccessible(h.Accessible)

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) || errors.Is(err, context.Canceled) {
			return Declined, nil
		}
		return Declined, fmt.Errorf("confirm form: %w", err)
	}
	if accepted {
		return Accepted, nil
	}
	return Declined, nil
}

// describe renders the verdict body: from/to labels, the message, and for
// WARN verdicts the bulleted warnings list.
func describe(v *policy.Verdict) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s → %s\n\n%s", v.FromLabel, v.ToLabel, v.Message)
	if len(v.Warnings) > 0 {
		b.WriteString("\n\n")
		b.WriteString(warnStyle.Render(policy.FormatWarnings(v.Warnings)))
	}
	return b.String()
}
