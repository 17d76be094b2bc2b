package tui

import (
	"errors"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/trikdhar/mymake/internal/engine"
	"github.com/trikdhar/mymake/internal/parser"
	"github.com/trikdhar/mymake/internal/procexec"
	"github.com/trikdhar/mymake/internal/safety"
)

var errWatchClosed = errors.New("tui: spec-file watch closed")

// WatchSpec starts an fsnotify watch on the spec file's directory and
// returns a tea.Cmd that blocks until the file is rewritten, then
// reparses it and reports a fresh Model through specReloadedMsg. Only
// wired when browse is invoked with --watch, per the spec file being
// the one thing a running browse session can't otherwise detect
// changing out from under it.
func WatchSpec(specPath string, orch *procexec.Orchestrator, checker *safety.Checker, watch bool) tea.Cmd {
	if !watch {
		return nil
	}
	return func() tea.Msg {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return specReloadedMsg{err: err}
		}
		defer watcher.Close()

		if err := watcher.Add(filepath.Dir(specPath)); err != nil {
			return specReloadedMsg{err: err}
		}

		target := filepath.Base(specPath)
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return specReloadedMsg{err: errWatchClosed}
				}
				if filepath.Base(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				db, err := parser.Parse(specPath)
				if err != nil {
					return specReloadedMsg{err: err}
				}
				eng := engine.New(db, orch, engine.Options{})
				return specReloadedMsg{model: NewModel(specPath, db, eng, orch, checker, true)}

			case err, ok := <-watcher.Errors:
				if !ok {
					return specReloadedMsg{err: errWatchClosed}
				}
				return specReloadedMsg{err: err}
			}
		}
	}
}
