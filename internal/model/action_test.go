package model

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestSetDelay_ClampsNegative(t *testing.T) {
	var a Action
	a.SetDelay(-5 * time.Second)
	if a.DelayMS != 0 {
		t.Errorf("expected negative delay clamped to 0, got %d", a.DelayMS)
	}

	a.SetDelay(1500 * time.Millisecond)
	if a.DelayMS != 1500 {
		t.Errorf("expected 1500ms, got %d", a.DelayMS)
	}
	if a.Delay() != 1500*time.Millisecond {
		t.Errorf("Delay() = %v, want 1.5s", a.Delay())
	}
}

func TestAction_HasPosition(t *testing.T) {
	tests := []struct {
		kind ActionKind
		want bool
	}{
		{MouseMove, true},
		{MouseClick, true},
		{MouseScroll, true},
		{KeyPress, false},
		{KeyRelease, false},
	}
	for _, tt := range tests {
		if got := (Action{Kind: tt.kind}).HasPosition(); got != tt.want {
			t.Errorf("HasPosition(%s) = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestMacro_JSONRoundTrip(t *testing.T) {
	m := Macro{
		ID:     "abc",
		Name:   "login sequence",
		Mode:   ModeRecorded,
		Repeat: RepeatLoop,
		Actions: []Action{
			{Kind: MouseMove, X: 10, Y: 20, DelayMS: 0},
			{Kind: MouseClick, X: 10, Y: 20, Button: "left", DelayMS: 120},
			{Kind: KeyPress, Key: "a", DelayMS: 300},
			{Kind: KeyRelease, Key: "a", DelayMS: 40},
			{Kind: MouseScroll, X: 5, Y: 6, ScrollY: -3, DelayMS: 10},
		},
	}

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}

	var got Macro
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}
	if !reflect.DeepEqual(m, got) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, m)
	}
}

func TestMacro_CloneIsIndependent(t *testing.T) {
	m := Macro{Actions: []Action{{Kind: MouseClick, X: 1}}}
	c := m.Clone()
	c.Actions[0].X = 99
	if m.Actions[0].X != 1 {
		t.Error("Clone() shares the actions slice with the original")
	}
}
