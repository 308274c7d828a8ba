// Package config persists macros and application settings as JSON files
// under the per-OS config directory. Macros round-trip losslessly: every
// action field, including integral millisecond delays, survives
// save/load.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/YatoVoid/Macro-Tool/internal/model"
	"github.com/YatoVoid/Macro-Tool/pkg/utils"
)

// MacroStore reads and writes macro files in a single directory. Files
// are named by macro ID.
type MacroStore struct {
	dir string
	log *slog.Logger
}

// NewMacroStore opens (creating if needed) the macro directory.
func NewMacroStore(dir string) (*MacroStore, error) {
	if dir == "" {
		dir = filepath.Join(utils.GetConfigDir(), "macros")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create macro dir: %w", err)
	}
	return &MacroStore{
		dir: dir,
		log: slog.Default().With("component", "store"),
	}, nil
}

// Dir returns the backing directory.
func (s *MacroStore) Dir() string { return s.dir }

// Save writes the macro, assigning an ID if it has none, and returns
// the stored copy.
func (s *MacroStore) Save(m model.Macro) (model.Macro, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return model.Macro{}, fmt.Errorf("encode macro: %w", err)
	}
	path := s.path(m.ID)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return model.Macro{}, fmt.Errorf("write macro: %w", err)
	}
	s.log.Info("macro saved", "id", m.ID, "name", m.Name, "actions", len(m.Actions))
	return m, nil
}

// Load reads one macro by ID.
func (s *MacroStore) Load(id string) (model.Macro, error) {
	return ReadMacroFile(s.path(id))
}

// Delete removes a stored macro.
func (s *MacroStore) Delete(id string) error {
	return os.Remove(s.path(id))
}

// List returns all stored macros sorted by name.
func (s *MacroStore) List() ([]model.Macro, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read macro dir: %w", err)
	}
	var out []model.Macro
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		m, err := ReadMacroFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			s.log.Warn("skipping unreadable macro file", "file", entry.Name(), "error", err)
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Watch notifies the returned channel whenever the macro directory
// changes on disk, so the GUI list can refresh. Close the stop channel
// to release the watcher.
func (s *MacroStore) Watch(stop <-chan struct{}) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch macro dir: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch macro dir: %w", err)
	}

	changed := make(chan struct{}, 1)
	go func() {
		defer watcher.Close()
		defer close(changed)
		for {
			select {
			case <-stop:
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				select {
				case changed <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.log.Warn("macro watcher error", "error", err)
			}
		}
	}()
	return changed, nil
}

func (s *MacroStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// ReadMacroFile loads a macro from an arbitrary path, used by the
// headless -config entry point.
func ReadMacroFile(path string) (model.Macro, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Macro{}, fmt.Errorf("read macro: %w", err)
	}
	var m model.Macro
	if err := json.Unmarshal(data, &m); err != nil {
		return model.Macro{}, fmt.Errorf("parse macro: %w", err)
	}
	for i := range m.Actions {
		if m.Actions[i].DelayMS < 0 {
			m.Actions[i].DelayMS = 0
		}
	}
	return m, nil
}
