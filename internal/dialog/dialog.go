// Package dialog turns a policy verdict into a user decision. The decision
// provider is injectable: the board TUI presents verdicts as an in-board
// modal, the CLI uses a huh confirm form, and tests use a scripted
// provider.
package dialog

import (
	"context"

	"github.com/stagehand-io/stagehand/internal/policy"
)

// Decision is the outcome of presenting a verdict.
type Decision int

const (
	// Declined is the zero value: dismissing the prompt, cancelling, or an
	// escape gesture all resolve to Declined.
	Declined Decision = iota
	Accepted
)

func (d Decision) String() string {
	if d == Accepted {
		return "accepted"
	}
	return "declined"
}

// Decider presents a CONFIRM or WARN verdict and resolves to a decision.
// FREE verdicts never reach a Decider; the drag controller short-circuits
// them. Present blocks until the user responds — there is no timeout, an
// open prompt waits indefinitely for human input. On error the returned
// decision is Declined.
type Decider interface {
	Present(ctx context.Context, v *policy.Verdict) (Decision, error)
}

// DeciderFunc adapts a function to the Decider interface.
type DeciderFunc func(ctx context.Context, v *policy.Verdict) (Decision, error)

func (f DeciderFunc) Present(ctx context.Context, v *policy.Verdict) (Decision, error) {
	return f(ctx, v)
}
