package i18n

import "testing"

// seedDefaults loads the built-in tables directly, independent of the
// config-dir files.
func seedDefaults() {
	mutex.Lock()
	translations[LangEN] = getDefaultENTranslations()
	translations[LangZH] = getDefaultZHTranslations()
	mutex.Unlock()
}

// Strings shown to the user must be looked up when they are produced,
// not captured once at startup; a language switch has to take effect on
// the next lookup.
func TestLookupFollowsActiveLanguage(t *testing.T) {
	seedDefaults()
	t.Cleanup(func() { SetLanguage(LangEN) })

	SetLanguage(LangEN)
	en := T("capture_unavailable")
	SetLanguage(LangZH)
	zh := T("capture_unavailable")

	if en == "capture_unavailable" || zh == "capture_unavailable" {
		t.Fatal("lookup fell through to the raw key")
	}
	if en == zh {
		t.Fatalf("lookup ignored the language switch: %q", en)
	}
}

func TestSetLanguageRejectsUnknown(t *testing.T) {
	seedDefaults()
	t.Cleanup(func() { SetLanguage(LangEN) })

	SetLanguage(LangEN)
	SetLanguage("fr")
	if got := GetCurrentLanguage(); got != LangEN {
		t.Fatalf("GetCurrentLanguage() = %q, want unchanged %q", got, LangEN)
	}
}
