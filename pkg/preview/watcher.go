package preview

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
)

// Watcher watches asset directories and raises an alert when a bundle file
// changes, so the preview server can tell connected apps to reload.
type Watcher struct {
	includes []glob.Glob
	excludes []glob.Glob

	fsn        *fsnotify.Watcher
	alertCh    chan struct{}
	shutdownCh chan struct{}
	doneCh     chan struct{}
}

// WatchAssets watches dirs recursively. patterns restricts alerts to
// matching paths; with no patterns every change alerts. Dotfiles never
// alert.
func WatchAssets(dirs []string, patterns []string) (*Watcher, error) {
	w := &Watcher{
		excludes: []glob.Glob{glob.MustCompile(`.*`, filepath.Separator)},
	}
	for _, pattern := range patterns {
		rx, err := glob.Compile(pattern, filepath.Separator)
		if err != nil {
			return nil, fmt.Errorf("%w in %q", err, pattern)
		}
		w.includes = append(w.includes, rx)
	}
	if err := w.start(dirs); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Watcher) start(dirs []string) (err error) {
	w.fsn, err = fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if len(dirs) == 0 {
		dirs = []string{`.`}
	}
	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, info fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return w.fsn.Add(path)
			}
			return nil
		})
		if err != nil {
			w.fsn.Close()
			return err
		}
	}
	w.alertCh = make(chan struct{})
	w.shutdownCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	go w.process()
	return nil
}

// Alert returns the channel signalled when a watched file changes.
func (w *Watcher) Alert() <-chan struct{} {
	return w.alertCh
}

// Shutdown stops the watcher.
func (w *Watcher) Shutdown() {
	select {
	case w.shutdownCh <- struct{}{}:
	case <-w.doneCh:
	}
}

func (w *Watcher) process() {
	for {
		select {
		case <-w.shutdownCh:
			w.fsn.Close()
			close(w.doneCh)
			return
		case event := <-w.fsn.Events:
			w.processNotification(event)
		}
	}
}

func (w *Watcher) processNotification(event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		info, err := os.Stat(event.Name)
		if err != nil {
			return
		}
		if info.IsDir() {
			// watch new directories without alerting
			_ = w.fsn.Add(event.Name)
			return
		}
	}

	switch {
	case event.Has(fsnotify.Write), event.Has(fsnotify.Create), event.Has(fsnotify.Rename):
		w.issueAlert(event.Name)
	case event.Has(fsnotify.Remove):
		_ = w.fsn.Remove(event.Name)
		w.issueAlert(event.Name)
	}
}

func (w *Watcher) issueAlert(name string) {
	if !w.shouldInclude(name) {
		return
	}
	select {
	case <-w.shutdownCh:
	case w.alertCh <- struct{}{}:
	default:
	}
}

func (w *Watcher) shouldInclude(name string) bool {
	included := len(w.includes) == 0
	for _, rx := range w.includes {
		if rx.Match(name) {
			included = true
			break
		}
	}
	if !included {
		return false
	}
	for _, rx := range w.excludes {
		if rx.Match(name) {
			return false
		}
	}
	return true
}
