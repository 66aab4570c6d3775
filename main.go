package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"chatterm/config"
	"chatterm/model"
	"chatterm/provider"
	"chatterm/storage"
	"chatterm/ui"
)

const (
	Version = "v0.01.00"
	License = "Apache-2.0"
)

func main() {
	ephemeral := false
	for _, arg := range os.Args[1:] {
		switch arg {
		case "--version", "-v":
			fmt.Printf("chatterm %s (%s)\n", Version, License)
			return
		case "--ephemeral":
			// Keep settings in memory for this run only
			ephemeral = true
		default:
			fmt.Printf("Unknown argument: %s\n", arg)
			os.Exit(2)
		}
	}

	// run returns only after its deferred cleanup has finished
	if err := run(ephemeral); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run(ephemeral bool) error {
	// Load writes commented config templates on first run
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("Failed to load config: %w", err)
	}

	// Initialize debug logging after config is loaded
	config.InitDebugLog(cfg.DataDir())

	if ephemeral {
		cfg.SettingsBackend = config.BackendMemory
	}

	store, closer, err := storage.NewSettingsStore(cfg.SettingsBackend, cfg.DataDir())
	if err != nil {
		return fmt.Errorf("Failed to initialize settings storage: %w", err)
	}
	defer func() {
		if err := closer.Close(); err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("Warning: failed to close settings storage: %v", err)
		}
	}()

	p := provider.FromConfig(cfg)
	if c, ok := p.(io.Closer); ok {
		defer func() {
			if err := c.Close(); err != nil && config.DebugLog != nil {
				config.DebugLog.Printf("Warning: failed to close provider: %v", err)
			}
		}()
	}
	ctrl := model.NewController(p, store)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := ctrl.Run(ctx); err != nil && err != context.Canceled && config.DebugLog != nil {
			config.DebugLog.Printf("Controller stopped: %v", err)
		}
	}()

	program := tea.NewProgram(
		ui.NewAppView(ctrl, ui.ProviderInfo{Name: p.Name(), Model: p.Model()}),
		tea.WithAltScreen(),
	)

	_, runErr := program.Run()

	// Stop the controller: abandons any in-flight request
	cancel()
	<-done

	if runErr != nil {
		return fmt.Errorf("Error running chatterm: %w", runErr)
	}
	return nil
}
