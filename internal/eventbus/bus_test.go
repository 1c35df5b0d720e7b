package eventbus

import (
	"context"
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	bus := New()
	if bus == nil {
		t.Fatal("New() returned nil")
	}
}

func TestDispatchNilEvent(t *testing.T) {
	bus := New()
	if err := bus.Dispatch(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil event")
	}
}

func TestDispatchNoHandlers(t *testing.T) {
	bus := New()
	err := bus.Dispatch(context.Background(), &Event{
		Type:   EventStageChanged,
		ItemID: "it-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDispatchMatchingHandlers(t *testing.T) {
	bus := New()
	var called []string

	bus.Register(&HandlerFunc{
		Name:  "stage-handler",
		Types: []EventType{EventStageChanged, EventStageChangeAborted},
		Pri:   10,
		Fn: func(ctx context.Context, event *Event) error {
			called = append(called, "stage-handler")
			return nil
		},
	})
	bus.Register(&HandlerFunc{
		Name:  "registry-handler",
		Types: []EventType{EventRegistryRefreshed},
		Pri:   10,
		Fn: func(ctx context.Context, event *Event) error {
			called = append(called, "registry-handler")
			return nil
		},
	})

	err := bus.Dispatch(context.Background(), &Event{Type: EventStageChanged, ItemID: "it-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(called) != 1 || called[0] != "stage-handler" {
		t.Errorf("expected only stage-handler, got %v", called)
	}
}

func TestDispatchPriorityOrder(t *testing.T) {
	bus := New()
	var called []string

	add := func(name string, pri int) {
		bus.Register(&HandlerFunc{
			Name:  name,
			Types: []EventType{EventStageChanged},
			Pri:   pri,
			Fn: func(ctx context.Context, event *Event) error {
				called = append(called, name)
				return nil
			},
		})
	}
	add("late", 100)
	add("early", 1)
	add("middle", 50)

	if err := bus.Dispatch(context.Background(), &Event{Type: EventStageChanged}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"early", "middle", "late"}
	for i := range want {
		if called[i] != want[i] {
			t.Errorf("position %d: got %s, want %s", i, called[i], want[i])
		}
	}
}

func TestDispatchHandlerErrorDoesNotStopChain(t *testing.T) {
	bus := New()
	var called []string

	bus.Register(&HandlerFunc{
		Name:  "failing",
		Types: []EventType{EventStageChanged},
		Pri:   1,
		Fn: func(ctx context.Context, event *Event) error {
			called = append(called, "failing")
			return errors.New("boom")
		},
	})
	bus.Register(&HandlerFunc{
		Name:  "after",
		Types: []EventType{EventStageChanged},
		Pri:   2,
		Fn: func(ctx context.Context, event *Event) error {
			called = append(called, "after")
			return nil
		},
	})

	if err := bus.Dispatch(context.Background(), &Event{Type: EventStageChanged}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(called) != 2 {
		t.Errorf("expected both handlers called, got %v", called)
	}
}

func TestDispatchSetsEventTime(t *testing.T) {
	bus := New()
	ev := &Event{Type: EventStageChanged}
	if err := bus.Dispatch(context.Background(), ev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Time.IsZero() {
		t.Error("Dispatch should stamp the event time")
	}
}

func TestDispatchCancelledContext(t *testing.T) {
	bus := New()
	bus.Register(&HandlerFunc{
		Name:  "handler",
		Types: []EventType{EventStageChanged},
		Fn:    func(ctx context.Context, event *Event) error { return nil },
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := bus.Dispatch(ctx, &Event{Type: EventStageChanged}); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
