package ui

import (
	"errors"
	"strconv"

	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/YatoVoid/Macro-Tool/internal/config"
	"github.com/YatoVoid/Macro-Tool/internal/engine"
	"github.com/YatoVoid/Macro-Tool/internal/i18n"
	"github.com/YatoVoid/Macro-Tool/internal/model"
	"github.com/YatoVoid/Macro-Tool/pkg/utils"
)

// showSettings displays the hotkey and replay settings dialog.
func (g *GUI) showSettings() {
	if g.eng.State() != engine.StateIdle {
		dialog.ShowInformation(i18n.T("settings"), i18n.T("settings_busy"), g.window)
		return
	}

	startEntry := widget.NewEntry()
	startEntry.SetText(g.settings.Hotkeys.Start)
	stopEntry := widget.NewEntry()
	stopEntry.SetText(g.settings.Hotkeys.Stop)
	recordEntry := widget.NewEntry()
	recordEntry.SetText(g.settings.Hotkeys.ToggleRecord)

	speedEntry := widget.NewEntry()
	speedEntry.SetText(strconv.FormatFloat(g.settings.Speed, 'f', -1, 64))

	langSelect := widget.NewSelect([]string{i18n.LangEN, i18n.LangZH}, nil)
	langSelect.SetSelected(i18n.GetCurrentLanguage())

	// Modifier key names differ per platform ("command" vs "control"),
	// so show which one the chords will be parsed for.
	form := widget.NewForm(
		widget.NewFormItem(i18n.T("platform"), widget.NewLabel(utils.GetCurrentOS())),
		widget.NewFormItem(i18n.T("start_hotkey"), startEntry),
		widget.NewFormItem(i18n.T("stop_hotkey"), stopEntry),
		widget.NewFormItem(i18n.T("record_hotkey"), recordEntry),
		widget.NewFormItem(i18n.T("speed"), speedEntry),
		widget.NewFormItem(i18n.T("language"), langSelect),
	)

	dialog.ShowCustomConfirm(
		i18n.T("hotkey_settings"), i18n.T("save"), i18n.T("cancel"),
		form,
		func(save bool) {
			if !save {
				return
			}
			g.applySettings(startEntry.Text, stopEntry.Text, recordEntry.Text, speedEntry.Text, langSelect.Selected)
		},
		g.window,
	)
}

func (g *GUI) applySettings(start, stop, record, speed, lang string) {
	bindings := model.HotkeyBinding{
		Start:        start,
		Stop:         stop,
		ToggleRecord: record,
	}

	// Rebind validates chords and duplicate detection; the engine rejects
	// the change entirely if anything is wrong.
	if err := g.eng.Rebind(bindings); err != nil {
		dialog.ShowError(errors.New(i18n.Tf("hotkeys_invalid", err)), g.window)
		return
	}

	g.settings.Hotkeys = bindings
	if v, err := strconv.ParseFloat(speed, 64); err == nil && v > 0 {
		g.settings.Speed = v
	}
	if lang != "" {
		g.settings.Language = lang
		i18n.SetLanguage(lang)
	}

	if err := config.SaveSettings("", g.settings); err != nil {
		dialog.ShowError(err, g.window)
		return
	}
	g.statusLabel.SetText(i18n.Tf("hotkeys_saved", bindings.Start, bindings.Stop, bindings.ToggleRecord))
}

// saveCurrentMacro persists the macro described by the active tab.
func (g *GUI) saveCurrentMacro() {
	macro, ok := g.currentMacro()
	if !ok {
		return
	}

	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder(i18n.T("macro_name"))

	dialog.ShowCustomConfirm(
		i18n.T("save_macro"), i18n.T("save"), i18n.T("cancel"),
		container.NewVBox(widget.NewLabel(i18n.T("macro_name")), nameEntry),
		func(save bool) {
			if !save {
				return
			}
			macro.Name = nameEntry.Text
			saved, err := g.store.Save(macro)
			if err != nil {
				dialog.ShowError(errors.New(i18n.Tf("macro_save_failed", err)), g.window)
				return
			}
			g.statusLabel.SetText(i18n.Tf("macro_saved", saved.Name))
		},
		g.window,
	)
}

// loadMacro routes a stored macro to the tab that edits its mode.
func (g *GUI) loadMacro(m model.Macro) {
	switch m.Mode {
	case model.ModeSingle:
		if len(m.Actions) > 0 {
			act := m.Actions[0]
			g.singlePos = &model.Action{Kind: model.MouseClick, X: act.X, Y: act.Y}
			g.singleDelay.SetText(strconv.FormatInt(act.DelayMS, 10))
			if act.Kind == model.KeyPress {
				g.singleType.SetSelected("key")
				g.singleKey.SetText(act.Key)
			} else {
				g.singleType.SetSelected(firstNonEmpty(act.Button, "left"))
				g.singleStatus.SetText(i18n.Tf("position_set", act.X, act.Y))
			}
		}
		g.tabs.SelectIndex(0)

	case model.ModeMulti:
		for _, row := range append([]*actionRow(nil), g.rows...) {
			g.removeRow(row)
		}
		for i := 0; i < len(m.Actions); i++ {
			act := m.Actions[i]
			// Skip the synthetic key releases saved alongside key taps.
			if act.Kind == model.KeyRelease {
				continue
			}
			g.addRow(act)
		}
		g.tabs.SelectIndex(1)

	default:
		loaded := m.Clone()
		g.recorded = &loaded
		g.recordCount.SetText(i18n.Tf("record_done", len(loaded.Actions)))
		g.tabs.SelectIndex(2)
	}
	g.statusLabel.SetText(i18n.Tf("macro_loaded", m.Name))
}
