package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"midirig/config"
	"midirig/debug"
	"midirig/midi"
	"midirig/router"
	"midirig/theme"
	"midirig/tui"
)

// initLogger configures the shared slog logger and calls slog.SetDefault so
// the stdlib log package also routes through the same handler.
func initLogger(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: verbose,
	})
	slog.SetDefault(slog.New(h))
}

func main() {
	verbose := flag.Bool("debug", false, "enable trace logging to ~/.config/midirig/debug.log")
	configPath := flag.String("config", "", "config file path (default ~/.config/midirig/config.json)")
	flag.Parse()

	initLogger(*verbose)
	if *verbose {
		if err := debug.Enable(); err != nil {
			slog.Warn("trace log unavailable", "err", err)
		}
		defer debug.Disable()
	}

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	rtr := router.New()
	cfg.Apply(rtr)

	// Session orchestration: a matched trigger releases everything the old
	// configuration sounded before the preset switch takes effect. Engine
	// listeners run on the dispatch path, so the release runs on its own
	// goroutine rather than re-entering the router from the callback.
	presetCh := make(chan router.PresetSelected, 8)
	go func() {
		for p := range presetCh {
			rtr.ReleaseAllActiveNotes()
			slog.Info("preset selected", "index", p.Index)
		}
	}()
	selectPreset := func(p router.PresetSelected) {
		select {
		case presetCh <- p:
		default:
		}
	}

	// UI projections: engine facts go to the monitor, which owns all
	// presentation concerns.
	mon := tui.NewMonitor()
	rtr.SetOnChannelEvent(func(e router.ChannelEvent) {
		mon.Push(tui.EngineEvent{Channel: &e})
	})
	rtr.SetOnPresetSelected(func(p router.PresetSelected) {
		selectPreset(p)
		mon.Push(tui.EngineEvent{Preset: &p})
	})
	rtr.SetOnParameterChanged(func(p router.ParameterChanged) {
		mon.Push(tui.EngineEvent{Param: &p})
	})
	rtr.SetOnLearnCaptured(func(l router.LearnCaptured) {
		mon.Push(tui.EngineEvent{Learn: &l})
	})

	// Transport: every open input feeds the router, tagged by port name
	deviceMgr := midi.NewDeviceManager(rtr.HandleRaw)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go deviceMgr.Run(ctx)

	if cfg.SyncPort != "" && cfg.Tempo > 0 {
		go runSyncClock(ctx, deviceMgr, cfg.SyncPort, cfg.Tempo)
	}

	fmt.Println("midirig")
	fmt.Println("Connect MIDI devices any time - they'll be detected automatically")
	fmt.Println("")

	m := tui.NewModel(rtr, deviceMgr, mon, theme.New())
	m.SaveFunc = func() error {
		snap := config.Snapshot(rtr)
		snap.SyncPort = cfg.SyncPort
		snap.Tempo = cfg.Tempo
		if *configPath != "" {
			return snap.SaveTo(*configPath)
		}
		return snap.Save()
	}
	m.PresetFunc = func(index int) {
		p := router.PresetSelected{Index: index}
		selectPreset(p)
		mon.Push(tui.EngineEvent{Preset: &p})
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// runSyncClock broadcasts MIDI timing clock (24 PPQN) to the sync port
// until the context ends. Sends are best-effort; a missing port is not an
// error.
func runSyncClock(ctx context.Context, dm *midi.DeviceManager, port string, bpm float64) {
	interval := midi.ClockInterval(bpm)
	if interval <= 0 {
		return
	}
	slog.Info("sync clock", "port", port, "bpm", bpm)
	if err := dm.Send(port, midi.Start()); err != nil {
		slog.Warn("sync start", "err", err)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			if err := dm.Send(port, midi.Stop()); err != nil {
				slog.Warn("sync stop", "err", err)
			}
			return
		case <-ticker.C:
			if err := dm.Send(port, midi.Clock()); err != nil {
				slog.Warn("sync tick", "err", err)
			}
		}
	}
}
