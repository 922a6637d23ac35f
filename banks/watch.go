package banks

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeKind says which kind of source a change touched, so a consumer can
// decide what to rebuild.
type ChangeKind int

const (
	KindSource ChangeKind = iota // a YAML source without a recognized suffix
	KindBank                     // *.bank.yaml
	KindGraph                    // *.graph.yaml
)

// String returns a label for logs.
func (k ChangeKind) String() string {
	switch k {
	case KindBank:
		return "bank"
	case KindGraph:
		return "graph"
	}
	return "source"
}

// Change describes one edited source file.
type Change struct {
	Path string
	Kind ChangeKind
}

// Watcher reports edits to bank and graph sources so a running consumer
// can rebuild and swap them.
type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan Change
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
}

// NewWatcher watches the given directories for YAML source changes.
func NewWatcher(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher: w,
		Events:  make(chan Change, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watcher. Events and Errors close once the delivery
// goroutine drains out.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.Errors)
	defer close(w.Events)

	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			kind, ok := classify(event.Name)
			if !ok {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < 100*time.Millisecond {
				continue
			}
			last[event.Name] = now
			select {
			case w.Events <- Change{Path: event.Name, Kind: kind}:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			case <-w.closeCh:
				return
			}
		case <-w.closeCh:
			return
		}
	}
}

// classify maps a path to a change kind; non-YAML files report not-ok.
func classify(path string) (ChangeKind, bool) {
	name := strings.ToLower(filepath.Base(path))
	ext := filepath.Ext(name)
	if ext != ".yaml" && ext != ".yml" {
		return KindSource, false
	}
	switch {
	case strings.HasSuffix(strings.TrimSuffix(name, ext), ".bank"):
		return KindBank, true
	case strings.HasSuffix(strings.TrimSuffix(name, ext), ".graph"):
		return KindGraph, true
	}
	return KindSource, true
}
