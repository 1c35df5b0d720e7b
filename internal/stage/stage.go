// Package stage holds the ordered stage vocabulary for a board and the
// registry that caches it. Stages are loaded once at board initialization
// and refreshed only on explicit request; lookups are synchronous against
// the cache so the transition engine is never blocked on configuration I/O.
package stage

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
)

// Stage is one named, ordered step in an item's lifecycle.
type Stage struct {
	Key      string   `yaml:"key" json:"key"`
	Label    string   `yaml:"label" json:"label"`
	Order    int      `yaml:"order" json:"order"`
	Color    string   `yaml:"color,omitempty" json:"color,omitempty"`
	Icon     string   `yaml:"icon,omitempty" json:"icon,omitempty"`
	Terminal bool     `yaml:"terminal,omitempty" json:"terminal,omitempty"`
	Statuses []string `yaml:"statuses,omitempty" json:"statuses,omitempty"`

	// Requires names the entry preconditions an item must satisfy to
	// cleanly enter this stage (e.g. "deadline", "checklist"). Order is
	// significant: warnings are reported in declaration order.
	Requires []string `yaml:"requires,omitempty" json:"requires,omitempty"`
}

// NeutralColor is used for synthesized stages when the config source is
// unreachable.
const NeutralColor = "245"

// ConfigSource provides the stage vocabulary. Implementations may read a
// YAML file, a remote endpoint, or return built-in defaults.
type ConfigSource interface {
	LoadStages(ctx context.Context) ([]Stage, error)
	LoadStatuses(ctx context.Context, stageKey string) ([]string, error)
}

// Registry caches the ordered stage list. It is safe for concurrent use;
// the only mutators are Load and Refresh.
type Registry struct {
	src ConfigSource

	mu       sync.RWMutex
	stages   []Stage // sorted by Order
	byKey    map[string]Stage
	degraded bool
}

// NewRegistry creates a registry backed by the given source. Call Load
// before using lookups.
func NewRegistry(src ConfigSource) *Registry {
	return &Registry{src: src, byKey: map[string]Stage{}}
}

// Load fetches and caches the stage list. If the source is unreachable the
// registry degrades to a minimal synthesized list built from fallbackKeys
// (identity labels, neutral color) rather than failing: cosmetic metadata
// being unavailable must never block move evaluation.
func (r *Registry) Load(ctx context.Context, fallbackKeys ...string) error {
	stages, err := r.src.LoadStages(ctx)
	if err != nil {
		log.Printf("stage: config source unreachable, degrading: %v", err)
		r.install(Synthesize(fallbackKeys), true)
		return nil
	}
	if err := validate(stages); err != nil {
		return err
	}
	r.install(stages, false)
	return nil
}

// Refresh forces a reload from the source. Unlike Load it reports source
// errors to the caller and leaves the current cache intact on failure.
func (r *Registry) Refresh(ctx context.Context) error {
	stages, err := r.src.LoadStages(ctx)
	if err != nil {
		return fmt.Errorf("refreshing stages: %w", err)
	}
	if err := validate(stages); err != nil {
		return err
	}
	r.install(stages, false)
	return nil
}

func (r *Registry) install(stages []Stage, degraded bool) {
	sorted := make([]Stage, len(stages))
	copy(sorted, stages)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })

	byKey := make(map[string]Stage, len(sorted))
	for _, s := range sorted {
		byKey[s.Key] = s
	}

	r.mu.Lock()
	r.stages = sorted
	r.byKey = byKey
	r.degraded = degraded
	r.mu.Unlock()
}

// Stages returns the cached stages in order.
func (r *Registry) Stages() []Stage {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Stage, len(r.stages))
	copy(out, r.stages)
	return out
}

// Get returns the stage for key and whether it is known.
func (r *Registry) Get(key string) (Stage, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byKey[key]
	return s, ok
}

// LabelOf returns the display label for key, falling back to the key
// itself when the stage is unknown.
func (r *Registry) LabelOf(key string) string {
	if s, ok := r.Get(key); ok && s.Label != "" {
		return s.Label
	}
	return key
}

// ColorOf returns the display color for key, or the neutral color when
// the stage is unknown.
func (r *Registry) ColorOf(key string) string {
	if s, ok := r.Get(key); ok && s.Color != "" {
		return s.Color
	}
	return NeutralColor
}

// OrderOf returns the position of key in the lifecycle and whether the
// stage is known.
func (r *Registry) OrderOf(key string) (int, bool) {
	s, ok := r.Get(key)
	return s.Order, ok
}

// StatusesOf returns the valid sub-statuses for a stage.
func (r *Registry) StatusesOf(ctx context.Context, key string) ([]string, error) {
	if s, ok := r.Get(key); ok && len(s.Statuses) > 0 {
		return s.Statuses, nil
	}
	return r.src.LoadStatuses(ctx, key)
}

// Degraded reports whether the registry is serving a synthesized fallback
// list because the config source was unreachable.
func (r *Registry) Degraded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.degraded
}

// Synthesize builds a minimal stage list from bare keys: identity labels,
// neutral color, order following the given key order. Used when the config
// source is unreachable.
func Synthesize(keys []string) []Stage {
	stages := make([]Stage, 0, len(keys))
	for i, k := range keys {
		stages = append(stages, Stage{Key: k, Label: k, Order: i + 1, Color: NeutralColor})
	}
	return stages
}

func validate(stages []Stage) error {
	if len(stages) == 0 {
		return fmt.Errorf("stage config contains no stages")
	}
	seen := make(map[string]bool, len(stages))
	for _, s := range stages {
		if s.Key == "" {
			return fmt.Errorf("stage with empty key")
		}
		if seen[s.Key] {
			return fmt.Errorf("duplicate stage key: %s", s.Key)
		}
		seen[s.Key] = true
	}
	return nil
}
