package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"repotoggle/internal/app"
	"repotoggle/internal/eventbus"
	"repotoggle/internal/importer"
	"repotoggle/internal/repolist"
	"repotoggle/internal/ui"
)

// EnvE2E makes the program announce readiness for the end-to-end suite
const EnvE2E = "REPOTOGGLE_E2E_TEST"

func main() {
	var flags app.Flags
	fs := pflag.NewFlagSet("repotoggle", pflag.ExitOnError)
	flags.Register(fs)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: repotoggle [flags]\n\nToggle which repositories the backup backend keeps active.\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	setup, bus, err := app.NewTUI(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log := setup.Log
	defer func() { _ = log.Sync() }()
	defer bus.Close()
	log.Infow("starting", "base_url", setup.Client.BaseURL(), "config", setup.ConfigService.Path())

	cfg := setup.Config
	configSvc := setup.ConfigService

	// Remember choices made in the UI
	bus.Subscribe(eventbus.EventConfigChanged, func(e eventbus.DomainEvent) {
		event, ok := e.(eventbus.ConfigChangedEvent)
		if !ok {
			return
		}
		// flag and env overrides stay out of the file
		saved, err := configSvc.Load()
		if err != nil {
			log.Errorw("failed to reload config", "path", configSvc.Path(), "error", err)
			return
		}
		saved.Import.Sources = event.ImportSources
		if err := configSvc.Save(saved); err != nil {
			log.Errorw("failed to save config", "path", configSvc.Path(), "error", err)
			return
		}
		log.Infow("config saved", "path", configSvc.Path())
	})
	eventLog := log.Named("events")
	for _, t := range []eventbus.EventType{
		eventbus.EventToggleStarted,
		eventbus.EventToggleCompleted,
		eventbus.EventToggleFailed,
		eventbus.EventFilterChanged,
		eventbus.EventImportRequested,
		eventbus.EventConfigSaved,
	} {
		bus.Subscribe(t, func(e eventbus.DomainEvent) {
			eventLog.Debugw(string(e.Type()), "event", e)
		})
	}

	list := repolist.NewList()
	loader := repolist.NewLoader(setup.Client, bus, log)
	toggler := repolist.NewToggler(setup.Client, list, bus, log)
	imp := importer.New(setup.Client, importer.WithBus(bus), importer.WithLogger(log))

	model := ui.NewModel(ui.Deps{
		Ctx:      ctx,
		Config:   cfg,
		List:     list,
		Loader:   loader,
		Toggler:  toggler,
		Importer: imp,
		Bus:      bus,
		Log:      log,
		Title:    "repotoggle · " + setup.Client.BaseURL(),
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.SetProgram(p)

	// Load progress reaches the UI as events
	forward := func(e eventbus.DomainEvent) { p.Send(ui.EventMsg{Event: e}) }
	bus.Subscribe(eventbus.EventListLoaded, forward)
	bus.Subscribe(eventbus.EventLoadFailed, forward)

	if os.Getenv(EnvE2E) == "1" {
		fmt.Println("__READY__")
	}

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		log.Errorw("program failed", "error", err)
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
	log.Infow("exited normally")
}
