package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iksnae/chathub/internal"
)

// app bundles the wired-up core for a command invocation
type app struct {
	cfg   internal.Config
	kv    *internal.KV
	store *internal.SessionStore
}

func (a *app) Close() {
	if err := a.kv.Close(); err != nil {
		internal.LogWarn("Failed to close database: %v", err)
	}
}

// resolveHomeDir returns the config/data directory, honoring the --home flag
func resolveHomeDir() (string, error) {
	if homeDir != "" {
		return homeDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".chathub"), nil
}

// openApp loads configuration and opens the session store. This is the one
// failure that blocks a command outright: with no store there is no session
// to run against.
func openApp() (*app, error) {
	dir, err := resolveHomeDir()
	if err != nil {
		return nil, err
	}

	cfg, err := internal.LoadConfig(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	kv, err := internal.OpenKV(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open chat database: %w", err)
	}

	return &app{
		cfg:   cfg,
		kv:    kv,
		store: internal.NewSessionStore(kv),
	}, nil
}

// newController wires a message flow controller with the real gateway client.
// Commands that talk to the assistant require an API key.
func (a *app) newController() (*internal.Controller, error) {
	if a.cfg.Gateway.APIKey == "" {
		return nil, fmt.Errorf("no API key configured: set CHATHUB_API_KEY or add it to %s", filepath.Join(a.cfg.DataDir, ".env"))
	}

	ctrl := internal.NewController(a.store, internal.NewClient(a.cfg.Gateway))
	if _, err := ctrl.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize chat: %w", err)
	}
	return ctrl, nil
}
