package stage

import (
	"context"
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// FileSource reads the stage vocabulary from a YAML file:
//
//	stages:
//	  - key: intake
//	    label: Intake
//	    order: 1
//	    color: "39"
//	    statuses: [new, needs-info]
//	  - key: review
//	    label: Review
//	    order: 2
//	    requires: [deadline]
type FileSource struct {
	Path string
}

type stagesFile struct {
	Stages []Stage `yaml:"stages"`
}

// LoadStages parses the YAML file and returns its stages.
func (f *FileSource) LoadStages(ctx context.Context) ([]Stage, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("reading stages file: %w", err)
	}
	var parsed stagesFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parsing stages file %s: %w", f.Path, err)
	}
	return parsed.Stages, nil
}

// LoadStatuses returns the sub-statuses declared for a stage in the file.
func (f *FileSource) LoadStatuses(ctx context.Context, stageKey string) ([]string, error) {
	stages, err := f.LoadStages(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range stages {
		if s.Key == stageKey {
			return s.Statuses, nil
		}
	}
	return nil, nil
}

// StaticSource serves a fixed stage list. Used for the built-in default
// vocabulary and in tests.
type StaticSource struct {
	StageList []Stage
	Err       error // if set, LoadStages fails (simulates an unreachable source)
}

func (s *StaticSource) LoadStages(ctx context.Context) ([]Stage, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.StageList, nil
}

func (s *StaticSource) LoadStatuses(ctx context.Context, stageKey string) ([]string, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	for _, st := range s.StageList {
		if st.Key == stageKey {
			return st.Statuses, nil
		}
	}
	return nil, nil
}

// DefaultStages is the built-in lifecycle used when no stages file is
// configured: intake → review → submitted → done, with archived as the
// terminal parking stage.
func DefaultStages() []Stage {
	return []Stage{
		{Key: "intake", Label: "Intake", Order: 1, Color: "39", Statuses: []string{"new", "needs-info"}},
		{Key: "review", Label: "Review", Order: 2, Color: "214", Statuses: []string{"in-review", "changes-requested"}, Requires: []string{"deadline"}},
		{Key: "submitted", Label: "Submitted", Order: 3, Color: "170", Statuses: []string{"pending", "acknowledged"}, Requires: []string{"deadline", "checklist"}},
		{Key: "done", Label: "Done", Order: 4, Color: "76", Requires: []string{"checklist"}},
		{Key: "archived", Label: "Archived", Order: 5, Color: "242", Terminal: true},
	}
}

// DefaultSource returns a source serving the built-in stage list.
func DefaultSource() *StaticSource {
	return &StaticSource{StageList: DefaultStages()}
}

// WatchSource wraps a FileSource and surfaces change notifications for the
// backing file. The registry never refreshes itself: the caller turns a
// notification into an explicit Refresh.
type WatchSource struct {
	*FileSource

	watcher *fsnotify.Watcher
	changes chan struct{}
}

// NewWatchSource creates a watching source for path. Close it to release
// the watcher.
func NewWatchSource(path string) (*WatchSource, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating stages watcher: %w", err)
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching stages file: %w", err)
	}
	ws := &WatchSource{
		FileSource: &FileSource{Path: path},
		watcher:    w,
		changes:    make(chan struct{}, 1),
	}
	go ws.pump()
	return ws, nil
}

// Changes delivers a signal whenever the stages file is written. The
// channel is never closed while the source is open; signals are coalesced.
func (w *WatchSource) Changes() <-chan struct{} {
	return w.changes
}

// Close releases the underlying watcher.
func (w *WatchSource) Close() error {
	return w.watcher.Close()
}

func (w *WatchSource) pump() {
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) {
				select {
				case w.changes <- struct{}{}:
				default: // a signal is already pending
				}
			}
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}
