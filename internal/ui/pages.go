package ui

import (
	"errors"
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/YatoVoid/Macro-Tool/internal/engine"
	"github.com/YatoVoid/Macro-Tool/internal/i18n"
	"github.com/YatoVoid/Macro-Tool/internal/input"
	"github.com/YatoVoid/Macro-Tool/internal/model"
)

// captureAborted reports that position capture ended before an Enter
// press arrived (window closed or capture feed gone). Built at the
// failure site so the message follows the currently active language
// rather than the one loaded at startup.
func captureAborted() error {
	return errors.New(i18n.T("capture_unavailable"))
}

// Click types offered by the authoring pages. "key" taps a key instead
// of clicking.
var clickTypes = []string{"left", "right", "center", "key"}

// buildSinglePage is the fixed-position repeated click editor.
func (g *GUI) buildSinglePage() fyne.CanvasObject {
	g.singleStatus = widget.NewLabel(i18n.T("no_position"))

	setPosBtn := widget.NewButton(i18n.T("set_position"), func() {
		go g.captureSinglePosition()
	})

	g.singleType = widget.NewSelect(clickTypes, nil)
	g.singleType.SetSelected("left")

	g.singleKey = widget.NewEntry()
	g.singleKey.SetPlaceHolder(i18n.T("key_placeholder"))

	g.singleDelay = widget.NewEntry()
	g.singleDelay.SetText("500")

	form := container.NewHBox(
		setPosBtn,
		widget.NewLabel(i18n.T("click_type")),
		g.singleType,
		g.singleKey,
		widget.NewLabel(i18n.T("delay_ms")),
		g.singleDelay,
	)

	return container.NewVBox(g.singleStatus, form)
}

// captureSinglePosition waits for Enter and samples the cursor.
func (g *GUI) captureSinglePosition() {
	x, y, err := g.capturePosition()
	if err != nil {
		dialog.ShowError(err, g.window)
		return
	}
	g.singlePos = &model.Action{Kind: model.MouseClick, X: x, Y: y}
	g.singleStatus.SetText(i18n.Tf("position_set", x, y))
}

// capturePosition blocks until the next Enter key-down and returns the
// cursor location at that instant.
func (g *GUI) capturePosition() (int, int, error) {
	events, cancel, err := g.source.Subscribe()
	if err != nil {
		return 0, 0, err
	}
	defer cancel()

	for {
		select {
		case <-g.stop:
			return 0, 0, captureAborted()
		case ev, ok := <-events:
			if !ok {
				return 0, 0, captureAborted()
			}
			if ev.Kind == input.KindKeyDown && (ev.Key == "enter" || ev.Key == "return") {
				x, y := g.sink.Location()
				return x, y, nil
			}
		}
	}
}

// singleMacro builds a one-action loop macro from the single page.
func (g *GUI) singleMacro() (model.Macro, bool) {
	delay, err := strconv.ParseInt(g.singleDelay.Text, 10, 64)
	if err != nil || delay < 0 {
		delay = 500
	}

	if g.singleType.Selected == "key" {
		key := g.singleKey.Text
		if key == "" {
			dialog.ShowInformation(i18n.T("app_title"), i18n.T("no_actions"), g.window)
			return model.Macro{}, false
		}
		// A key tap is a press/release pair; the configured delay sits on
		// the press so the loop cadence matches a click macro.
		return model.Macro{
			Mode:   model.ModeSingle,
			Repeat: model.RepeatLoop,
			Actions: []model.Action{
				{Kind: model.KeyPress, Key: key, DelayMS: delay},
				{Kind: model.KeyRelease, Key: key},
			},
		}, true
	}

	if g.singlePos == nil {
		dialog.ShowInformation(i18n.T("app_title"), i18n.T("no_position"), g.window)
		return model.Macro{}, false
	}
	return model.Macro{
		Mode:   model.ModeSingle,
		Repeat: model.RepeatLoop,
		Actions: []model.Action{{
			Kind:    model.MouseClick,
			X:       g.singlePos.X,
			Y:       g.singlePos.Y,
			Button:  g.singleType.Selected,
			DelayMS: delay,
		}},
	}, true
}

// actionRow is one editable entry on the multi-click page.
type actionRow struct {
	action model.Action
	box    *fyne.Container
	pos    *widget.Entry
}

// buildMultiPage is the ordered multi-action editor.
func (g *GUI) buildMultiPage() fyne.CanvasObject {
	g.rowList = container.NewVBox()

	addBtn := widget.NewButton(i18n.T("add_action"), func() {
		x, y := g.sink.Location()
		g.addRow(model.Action{Kind: model.MouseClick, X: x, Y: y, Button: "left", DelayMS: 500})
	})

	return container.NewBorder(addBtn, nil, nil, nil, container.NewVScroll(g.rowList))
}

func (g *GUI) addRow(act model.Action) {
	row := &actionRow{action: act}

	row.pos = widget.NewEntry()
	row.pos.SetText(fmt.Sprintf("%d, %d", act.X, act.Y))
	row.pos.Disable()

	delayEntry := widget.NewEntry()
	delayEntry.SetText(strconv.FormatInt(act.DelayMS, 10))
	delayEntry.OnChanged = func(text string) {
		if v, err := strconv.ParseInt(text, 10, 64); err == nil && v >= 0 {
			row.action.DelayMS = v
		}
	}

	keyEntry := widget.NewEntry()
	keyEntry.SetPlaceHolder(i18n.T("key_placeholder"))
	keyEntry.OnChanged = func(text string) { row.action.Key = text }
	keyEntry.Hide()

	typeSelect := widget.NewSelect(clickTypes, func(selected string) {
		if selected == "key" {
			row.action.Kind = model.KeyPress
			row.action.Button = ""
			keyEntry.Show()
		} else {
			row.action.Kind = model.MouseClick
			row.action.Button = selected
			row.action.Key = ""
			keyEntry.Hide()
		}
	})
	if act.Kind == model.KeyPress {
		typeSelect.SetSelected("key")
		keyEntry.SetText(act.Key)
	} else {
		typeSelect.SetSelected(firstNonEmpty(act.Button, "left"))
	}

	setPosBtn := widget.NewButton(i18n.T("set_position"), func() {
		go func() {
			x, y, err := g.capturePosition()
			if err != nil {
				dialog.ShowError(err, g.window)
				return
			}
			row.action.X = x
			row.action.Y = y
			row.pos.SetText(fmt.Sprintf("%d, %d", x, y))
		}()
	})

	removeBtn := widget.NewButton(i18n.T("remove"), func() {
		g.removeRow(row)
	})

	row.box = container.NewHBox(
		row.pos,
		widget.NewLabel(i18n.T("delay_ms")),
		delayEntry,
		typeSelect,
		keyEntry,
		setPosBtn,
		removeBtn,
	)

	g.rows = append(g.rows, row)
	g.rowList.Add(row.box)
}

func (g *GUI) removeRow(row *actionRow) {
	for i, r := range g.rows {
		if r == row {
			g.rows = append(g.rows[:i], g.rows[i+1:]...)
			break
		}
	}
	g.rowList.Remove(row.box)
}

// multiMacro collects the row actions in display order. Key rows expand
// to press/release pairs on playback assembly.
func (g *GUI) multiMacro() (model.Macro, bool) {
	if len(g.rows) == 0 {
		dialog.ShowInformation(i18n.T("app_title"), i18n.T("no_actions"), g.window)
		return model.Macro{}, false
	}

	var actions []model.Action
	for _, row := range g.rows {
		act := row.action
		if act.Kind == model.KeyPress {
			release := model.Action{Kind: model.KeyRelease, Key: act.Key}
			actions = append(actions, act, release)
			continue
		}
		actions = append(actions, act)
	}

	return model.Macro{
		Mode:    model.ModeMulti,
		Repeat:  model.RepeatLoop,
		Actions: actions,
	}, true
}

// buildRecordPage is the record/replay tab.
func (g *GUI) buildRecordPage() fyne.CanvasObject {
	hint := widget.NewLabel(i18n.T("record_hint"))
	hint.Wrapping = fyne.TextWrapWord

	g.recordCount = widget.NewLabel("")

	g.recordBtn = widget.NewButton(i18n.T("record_start"), func() {
		if g.eng.State() == engine.StateRecording {
			g.eng.Send(engine.SignalStop)
		} else {
			g.eng.Send(engine.SignalToggleRecord)
		}
	})

	return container.NewVBox(hint, g.recordBtn, g.recordCount)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
