package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/YatoVoid/Macro-Tool/internal/config"
	"github.com/YatoVoid/Macro-Tool/internal/engine"
	"github.com/YatoVoid/Macro-Tool/internal/i18n"
	"github.com/YatoVoid/Macro-Tool/internal/input"
	"github.com/YatoVoid/Macro-Tool/internal/model"
	"github.com/YatoVoid/Macro-Tool/internal/player"
	"github.com/YatoVoid/Macro-Tool/internal/ui"
)

func main() {
	// Define command line arguments
	macroFile := flag.String("config", "", "Path to a saved macro file to execute")
	speed := flag.Float64("speed", 1.0, "Replay speed factor")
	loop := flag.Bool("loop", false, "Loop until the stop hotkey is pressed")

	flag.Parse()

	settings, err := config.LoadSettings("")
	if err != nil {
		fmt.Printf("Failed to load settings: %v\n", err)
	}
	if settings.Language != "" {
		i18n.SetLanguage(settings.Language)
	}

	sink := input.NewRobotSink()
	source := input.NewHookSource()

	// If no macro file is specified, start GUI mode by default
	if *macroFile == "" {
		runGUI(sink, source, settings)
		return
	}

	if err := runFile(*macroFile, *speed, *loop, sink, source, settings); err != nil {
		fmt.Printf(i18n.T("playback_failed")+"\n", err)
		os.Exit(1)
	}
}

func runGUI(sink input.Sink, source input.Source, settings config.Settings) {
	store, err := config.NewMacroStore("")
	if err != nil {
		fmt.Printf("Failed to open macro store: %v\n", err)
		os.Exit(1)
	}

	eng := engine.New(sink, source, settings.Hotkeys)
	if err := eng.Start(); err != nil {
		fmt.Printf(i18n.T("engine_start_failed")+"\n", err)
		os.Exit(1)
	}
	defer eng.Close()

	ui.RunGUI(eng, store, settings, source, sink)
}

// runFile executes a saved macro without the GUI. The stop hotkey still
// works because the engine installs its listener either way.
func runFile(path string, speed float64, loop bool, sink input.Sink, source input.Source, settings config.Settings) error {
	macro, err := config.ReadMacroFile(path)
	if err != nil {
		return err
	}

	fmt.Printf(i18n.T("executing_macro")+"\n", macro.Name)
	fmt.Printf(i18n.T("macro_actions")+"\n", len(macro.Actions))

	repeat := macro.Repeat
	if loop {
		repeat = model.RepeatLoop
	}

	eng := engine.New(sink, source, settings.Hotkeys)
	if err := eng.Start(); err != nil {
		// No hotkeys available; run the macro anyway.
		fmt.Printf(i18n.T("engine_start_failed")+"\n", err)
	} else {
		defer eng.Close()
	}

	eng.SetActiveMacro(macro, speed, repeat)

	events, cancel := eng.Subscribe()
	defer cancel()

	if err := eng.Send(engine.SignalStart); err != nil {
		// Engine never started; fall back to a direct one-shot run.
		return runDirect(macro, speed, repeat, sink)
	}

	for ev := range events {
		switch ev.Kind {
		case engine.EventRunFinished:
			// A stop-hotkey cancel is a normal exit.
			if errors.Is(ev.Err, player.ErrCanceled) {
				return nil
			}
			return ev.Err
		case engine.EventError:
			return ev.Err
		}
	}
	return nil
}

// runDirect plays a macro without engine coordination, used when input
// capture (and therefore hotkeys) is unavailable.
func runDirect(macro model.Macro, speed float64, repeat model.RepeatPolicy, sink input.Sink) error {
	h, err := player.New().Play(macro, speed, repeat, sink)
	if err != nil {
		return err
	}
	<-h.Done()
	return h.Err()
}
