// Package views loads the HTML templates and optionally reparses them when
// files in the template directory change.
package views

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

var Funcs = template.FuncMap{
	// excerpt обрезает текст до n символов
	"excerpt": func(s string, n int) string {
		runes := []rune(s)
		if n <= 0 || len(runes) <= n {
			return s
		}
		return strings.TrimSpace(string(runes[:n])) + "…"
	},
}

// Parse parses every *.html file in dir into one template set.
func Parse(dir string) (*template.Template, error) {
	tmpl, err := template.New("").Funcs(Funcs).ParseGlob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("parse templates in %s: %w", dir, err)
	}
	return tmpl, nil
}

// Set is a template set that can be swapped out while serving.
type Set struct {
	dir string
	log *zap.Logger

	mu   sync.RWMutex
	tmpl *template.Template

	debounce time.Duration
}

func Load(dir string, log *zap.Logger) (*Set, error) {
	if log == nil {
		log = zap.NewNop()
	}
	tmpl, err := Parse(dir)
	if err != nil {
		return nil, err
	}
	for _, t := range tmpl.Templates() {
		log.Debug("template loaded", zap.String("name", t.Name()))
	}
	return &Set{dir: dir, log: log, tmpl: tmpl, debounce: 200 * time.Millisecond}, nil
}

func (s *Set) ExecuteTemplate(w io.Writer, name string, data any) error {
	s.mu.RLock()
	tmpl := s.tmpl
	s.mu.RUnlock()
	return tmpl.ExecuteTemplate(w, name, data)
}

// Reload reparses the directory. On error the current set stays in use.
func (s *Set) Reload() error {
	tmpl, err := Parse(s.dir)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.tmpl = tmpl
	s.mu.Unlock()
	return nil
}

// Watch reloads the set whenever an .html file in the directory changes.
// It blocks until ctx is cancelled.
func (s *Set) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.dir); err != nil {
		return fmt.Errorf("watch %s: %w", s.dir, err)
	}
	s.log.Info("watching templates", zap.String("dir", s.dir))

	// редакторы сохраняют файл несколькими событиями подряд
	timer := time.NewTimer(s.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, ".html") {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(s.debounce)

		case <-timer.C:
			if err := s.Reload(); err != nil {
				s.log.Error("template reload failed, keeping previous set", zap.Error(err))
				continue
			}
			s.log.Info("templates reloaded", zap.String("dir", s.dir))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("template watcher error", zap.Error(err))
		}
	}
}
