package utils

import (
	"runtime"
	"testing"
)

func TestGetCurrentOS(t *testing.T) {
	got := GetCurrentOS()
	want := map[string]string{
		"darwin":  "macos",
		"windows": "windows",
		"linux":   "linux",
	}[runtime.GOOS]
	if want == "" {
		want = "unknown"
	}
	if got != want {
		t.Fatalf("GetCurrentOS() = %q, want %q on %s", got, want, runtime.GOOS)
	}
}
