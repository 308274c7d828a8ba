// Package ui is the fyne front end. It only ever talks to the engine
// through signals and event subscriptions; it never touches the
// recorder or player directly.
package ui

import (
	"fmt"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/YatoVoid/Macro-Tool/internal/config"
	"github.com/YatoVoid/Macro-Tool/internal/engine"
	"github.com/YatoVoid/Macro-Tool/internal/i18n"
	"github.com/YatoVoid/Macro-Tool/internal/input"
	"github.com/YatoVoid/Macro-Tool/internal/model"
	"github.com/YatoVoid/Macro-Tool/internal/player"
)

// GUI holds the window state and its engine collaborators.
type GUI struct {
	window   fyne.Window
	eng      *engine.Engine
	store    *config.MacroStore
	settings config.Settings
	source   input.Source
	sink     input.Sink

	tabs        *container.AppTabs
	statusLabel *widget.Label
	mouseLabel  *widget.Label

	// single page state
	singlePos    *model.Action
	singleType   *widget.Select
	singleKey    *widget.Entry
	singleDelay  *widget.Entry
	singleStatus *widget.Label

	// multi page state
	rows    []*actionRow
	rowList *fyne.Container

	// record page state
	recordBtn   *widget.Button
	recordCount *widget.Label
	recorded    *model.Macro

	// stored macros mirrored from disk
	macroMu     sync.Mutex
	macros      []model.Macro
	macroSelect *widget.Select

	stop chan struct{}
}

// RunGUI builds the window and blocks until it is closed.
func RunGUI(eng *engine.Engine, store *config.MacroStore, settings config.Settings, source input.Source, sink input.Sink) {
	a := app.New()
	a.Settings().SetTheme(theme.DefaultTheme())
	w := a.NewWindow(i18n.T("app_title"))
	w.Resize(fyne.NewSize(700, 520))

	g := &GUI{
		window:   w,
		eng:      eng,
		store:    store,
		settings: settings,
		source:   source,
		sink:     sink,
		stop:     make(chan struct{}),
	}

	g.statusLabel = widget.NewLabel(i18n.T("status_idle"))
	g.mouseLabel = widget.NewLabel(i18n.Tf("mouse_position", 0, 0))

	g.tabs = container.NewAppTabs(
		container.NewTabItem(i18n.T("mode_single"), g.buildSinglePage()),
		container.NewTabItem(i18n.T("mode_multi"), g.buildMultiPage()),
		container.NewTabItem(i18n.T("mode_recorded"), g.buildRecordPage()),
	)

	w.SetContent(container.NewBorder(
		g.mouseLabel,
		container.NewVBox(g.statusLabel, g.buildButtonBar()),
		nil,
		nil,
		g.tabs,
	))

	go g.pollMouse()
	go g.watchEngine()
	go g.watchStore()

	w.SetOnClosed(func() { close(g.stop) })
	w.ShowAndRun()
}

// buildButtonBar creates the start/stop/settings/save/load row.
func (g *GUI) buildButtonBar() fyne.CanvasObject {
	startBtn := widget.NewButtonWithIcon(i18n.T("start"), theme.MediaPlayIcon(), func() {
		g.startPlayback()
	})
	stopBtn := widget.NewButtonWithIcon(i18n.T("stop"), theme.MediaStopIcon(), func() {
		g.eng.Send(engine.SignalStop)
	})
	settingsBtn := widget.NewButtonWithIcon(i18n.T("settings"), theme.SettingsIcon(), func() {
		g.showSettings()
	})
	saveBtn := widget.NewButtonWithIcon(i18n.T("save_macro"), theme.DocumentSaveIcon(), func() {
		g.saveCurrentMacro()
	})

	g.macroSelect = widget.NewSelect(nil, func(string) {
		g.loadSelectedMacro()
	})
	g.macroSelect.PlaceHolder = i18n.T("load_macro")
	g.refreshMacroList()

	return container.NewHBox(startBtn, stopBtn, settingsBtn, saveBtn, g.macroSelect)
}

// startPlayback assembles a macro from the active tab and hands it to
// the engine.
func (g *GUI) startPlayback() {
	macro, ok := g.currentMacro()
	if !ok {
		return
	}
	g.eng.SetActiveMacro(macro, g.settings.Speed, macro.Repeat)
	g.eng.Send(engine.SignalStart)
}

// currentMacro builds the macro described by the selected tab.
func (g *GUI) currentMacro() (model.Macro, bool) {
	switch g.tabs.SelectedIndex() {
	case 0:
		return g.singleMacro()
	case 1:
		return g.multiMacro()
	default:
		if g.recorded == nil || len(g.recorded.Actions) == 0 {
			dialog.ShowInformation(i18n.T("app_title"), i18n.T("no_recording"), g.window)
			return model.Macro{}, false
		}
		m := g.recorded.Clone()
		m.Repeat = model.RepeatLoop
		return m, true
	}
}

// pollMouse keeps the live cursor readout fresh.
func (g *GUI) pollMouse() {
	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-g.stop:
			return
		case <-ticker.C:
			x, y := g.sink.Location()
			g.mouseLabel.SetText(i18n.Tf("mouse_position", x, y))
		}
	}
}

// watchEngine mirrors engine events into the status line and record
// page.
func (g *GUI) watchEngine() {
	events, cancel := g.eng.Subscribe()
	defer cancel()
	for {
		select {
		case <-g.stop:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			g.applyEvent(ev)
		}
	}
}

func (g *GUI) applyEvent(ev engine.Event) {
	switch ev.Kind {
	case engine.EventStateChanged:
		switch ev.State {
		case engine.StateRunning:
			g.statusLabel.SetText(i18n.T("status_running"))
		case engine.StateRecording:
			g.statusLabel.SetText(i18n.T("status_record"))
			g.recordBtn.SetText(i18n.T("record_stop"))
		default:
			g.statusLabel.SetText(i18n.T("status_idle"))
			g.recordBtn.SetText(i18n.T("record_start"))
		}

	case engine.EventRunFinished:
		switch {
		case ev.Err == nil:
			g.statusLabel.SetText(i18n.T("playback_finished"))
		case ev.Err == player.ErrCanceled:
			g.statusLabel.SetText(i18n.T("playback_stopped"))
		default:
			g.statusLabel.SetText(i18n.Tf("playback_failed", ev.Err))
		}

	case engine.EventRecordingDone:
		g.recorded = ev.Macro
		if ev.Err != nil {
			g.statusLabel.SetText(i18n.Tf("record_partial", len(ev.Macro.Actions)))
		} else {
			g.statusLabel.SetText(i18n.Tf("record_done", len(ev.Macro.Actions)))
		}
		g.recordCount.SetText(i18n.Tf("record_done", len(ev.Macro.Actions)))

	case engine.EventError:
		g.statusLabel.SetText(ev.Err.Error())
	}
}

// watchStore keeps the macro dropdown in sync with files appearing,
// changing or vanishing on disk.
func (g *GUI) watchStore() {
	changed, err := g.store.Watch(g.stop)
	if err != nil {
		return
	}
	for range changed {
		g.refreshMacroList()
	}
}

func (g *GUI) refreshMacroList() {
	macros, err := g.store.List()
	if err != nil {
		return
	}
	names := make([]string, len(macros))
	for i, m := range macros {
		names[i] = fmt.Sprintf("%s (%s)", m.Name, m.Mode)
	}

	g.macroMu.Lock()
	g.macros = macros
	g.macroMu.Unlock()
	g.macroSelect.Options = names
	g.macroSelect.Refresh()
}

// loadSelectedMacro routes the dropdown choice into the matching tab.
func (g *GUI) loadSelectedMacro() {
	idx := g.macroSelect.SelectedIndex()
	g.macroMu.Lock()
	if idx < 0 || idx >= len(g.macros) {
		g.macroMu.Unlock()
		return
	}
	macro := g.macros[idx].Clone()
	g.macroMu.Unlock()
	g.loadMacro(macro)
}
