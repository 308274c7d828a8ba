package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/YatoVoid/Macro-Tool/internal/model"
)

func testStore(t *testing.T) *MacroStore {
	t.Helper()
	store, err := NewMacroStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewMacroStore() failed: %v", err)
	}
	return store
}

func sampleMacro(name string) model.Macro {
	return model.Macro{
		Name:   name,
		Mode:   model.ModeRecorded,
		Repeat: model.RepeatOnce,
		Actions: []model.Action{
			{Kind: model.MouseMove, X: 100, Y: 200, DelayMS: 15},
			{Kind: model.MouseClick, X: 100, Y: 200, Button: "left", DelayMS: 250},
			{Kind: model.KeyPress, Key: "a", DelayMS: 30},
			{Kind: model.KeyRelease, Key: "a", DelayMS: 45},
		},
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store := testStore(t)

	saved, err := store.Save(sampleMacro("demo"))
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("Save() did not assign an ID")
	}

	loaded, err := store.Load(saved.ID)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !reflect.DeepEqual(saved, loaded) {
		t.Fatalf("round trip mismatch:\nsaved:  %+v\nloaded: %+v", saved, loaded)
	}
}

func TestStore_SaveKeepsExistingID(t *testing.T) {
	store := testStore(t)

	m := sampleMacro("demo")
	m.ID = "fixed-id"
	saved, err := store.Save(m)
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if saved.ID != "fixed-id" {
		t.Fatalf("Save() replaced ID: %q", saved.ID)
	}
}

func TestStore_ListSortedByName(t *testing.T) {
	store := testStore(t)

	for _, name := range []string{"zeta", "alpha", "mid"} {
		if _, err := store.Save(sampleMacro(name)); err != nil {
			t.Fatalf("Save(%q) failed: %v", name, err)
		}
	}

	// Junk files in the directory must not break listing.
	if err := os.WriteFile(filepath.Join(store.Dir(), "broken.json"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(store.Dir(), "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	macros, err := store.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	var names []string
	for _, m := range macros {
		names = append(names, m.Name)
	}
	want := []string{"alpha", "mid", "zeta"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("List() names = %v, want %v", names, want)
	}
}

func TestStore_Delete(t *testing.T) {
	store := testStore(t)

	saved, err := store.Save(sampleMacro("demo"))
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if err := store.Delete(saved.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := store.Load(saved.ID); err == nil {
		t.Fatal("Load() succeeded after Delete()")
	}
}

func TestStore_WatchNotifiesOnSave(t *testing.T) {
	store := testStore(t)

	stop := make(chan struct{})
	defer close(stop)
	changed, err := store.Watch(stop)
	if err != nil {
		t.Fatalf("Watch() failed: %v", err)
	}

	if _, err := store.Save(sampleMacro("demo")); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("no change notification after save")
	}
}

func TestReadMacroFile_ClampsNegativeDelays(t *testing.T) {
	path := filepath.Join(t.TempDir(), "macro.json")
	body := `{"mode":"single","repeat":"once","actions":[{"kind":"click","x":1,"y":2,"button":"left","delay_ms":-40}]}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := ReadMacroFile(path)
	if err != nil {
		t.Fatalf("ReadMacroFile() failed: %v", err)
	}
	if got := m.Actions[0].DelayMS; got != 0 {
		t.Fatalf("DelayMS = %d, want clamped to 0", got)
	}
}

func TestLoadSettings_MissingFileYieldsDefaults(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("LoadSettings() failed: %v", err)
	}
	if !reflect.DeepEqual(s, DefaultSettings()) {
		t.Fatalf("settings = %+v, want defaults", s)
	}
}

func TestSettings_RoundTripAndSpeedGuard(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	in := Settings{
		Hotkeys:  model.HotkeyBinding{Start: "f2", Stop: "f3", ToggleRecord: "f4"},
		Speed:    2.5,
		Language: "zh",
	}
	if err := SaveSettings(path, in); err != nil {
		t.Fatalf("SaveSettings() failed: %v", err)
	}
	out, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings() failed: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch: %+v != %+v", in, out)
	}

	// A corrupted speed falls back rather than propagating zero into the
	// player.
	in.Speed = -1
	if err := SaveSettings(path, in); err != nil {
		t.Fatalf("SaveSettings() failed: %v", err)
	}
	out, err = LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings() failed: %v", err)
	}
	if out.Speed != 1.0 {
		t.Fatalf("Speed = %v, want reset to 1.0", out.Speed)
	}
}
