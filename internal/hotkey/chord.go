package hotkey

import (
	"fmt"
	"sort"
	"strings"
)

// Modifier key names after normalization.
var modifierNames = map[string]bool{
	"control": true,
	"shift":   true,
	"alt":     true,
	"command": true,
}

// Chord is a parsed key combination: zero or more modifiers plus one
// final key, e.g. "ctrl+shift+f9".
type Chord struct {
	Mods map[string]bool
	Key  string
}

// ParseChord parses a "mod+mod+key" string. Modifier aliases are folded
// the same way the injection layer folds them, so "cmd+c" and
// "command+c" are the same chord.
func ParseChord(s string) (Chord, error) {
	parts := strings.Split(s, "+")
	if len(parts) == 0 || strings.TrimSpace(s) == "" {
		return Chord{}, fmt.Errorf("%w: empty chord", ErrInvalidBinding)
	}

	c := Chord{Mods: make(map[string]bool)}
	for i, part := range parts {
		name := normalizeKey(part)
		if name == "" {
			return Chord{}, fmt.Errorf("%w: %q", ErrInvalidBinding, s)
		}
		if i == len(parts)-1 {
			if modifierNames[name] {
				return Chord{}, fmt.Errorf("%w: %q ends in a modifier", ErrInvalidBinding, s)
			}
			c.Key = name
		} else {
			if !modifierNames[name] {
				return Chord{}, fmt.Errorf("%w: %q is not a modifier", ErrInvalidBinding, part)
			}
			c.Mods[name] = true
		}
	}
	return c, nil
}

// String renders the chord in canonical form, used for duplicate
// detection.
func (c Chord) String() string {
	mods := make([]string, 0, len(c.Mods))
	for m := range c.Mods {
		mods = append(mods, m)
	}
	sort.Strings(mods)
	return strings.Join(append(mods, c.Key), "+")
}

// matches reports whether the chord fires for a press of key while
// exactly the given modifiers are held.
func (c Chord) matches(key string, modsDown map[string]bool) bool {
	if key != c.Key {
		return false
	}
	if len(modsDown) != len(c.Mods) {
		return false
	}
	for m := range c.Mods {
		if !modsDown[m] {
			return false
		}
	}
	return true
}

// normalizeKey lowercases a key or modifier name and folds common
// aliases.
func normalizeKey(s string) string {
	switch name := strings.ToLower(strings.TrimSpace(s)); name {
	case "command", "cmd", "super", "win", "meta":
		return "command"
	case "control", "ctrl":
		return "control"
	case "alt", "option":
		return "alt"
	case "return":
		return "enter"
	case "esc":
		return "escape"
	default:
		return name
	}
}
