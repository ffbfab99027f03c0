package main

import (
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/1broseidon/termosd/internal/config"
	"github.com/1broseidon/termosd/internal/hotkeys"
	"github.com/1broseidon/termosd/internal/ipc"
	"github.com/1broseidon/termosd/internal/logger"
)

func runDaemon(args []string) int {
	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stdout, "Usage: termosd daemon")
		fmt.Fprintln(os.Stdout, "")
		fmt.Fprintln(os.Stdout, "Own one display session and serve IPC requests on the runtime socket.")
		fmt.Fprintln(os.Stdout, "SIGHUP reloads the config.")
		return 0
	}
	if len(args) > 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage: termosd daemon")
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", "err", err)
	}
	applyLogLevel(cfg)
	if !slices.Contains(availableBackends(), cfg.Backend) {
		logger.Warn("Configured backend is not compiled in", "backend", cfg.Backend, "available", formatBackends(availableBackends()))
	}
	logger.Info("Configuration loaded", "backend", cfg.Backend, "lines", cfg.Lines, "timeout", cfg.Timeout)

	reloaded := make(chan *config.Config, 1)
	server, err := ipc.NewServer(cfg, ipc.ServerOptions{
		Open:     openSession,
		Reloaded: reloaded,
	})
	if err != nil {
		logger.Fatal("Failed to create IPC server", "err", err)
	}
	if err := server.Start(); err != nil {
		logger.Fatal("Failed to start IPC server", "err", err)
	}
	defer server.Stop()
	logger.Info("termosd daemon started", "socket", server.SocketPath())

	hk := startHotkeys(cfg, server)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	for {
		select {
		case sig := <-sigCh:
			if sig == syscall.SIGHUP {
				logger.Info("Received SIGHUP, reloading config...")
				if err := server.Reload(); err != nil {
					logger.Error("Config reload failed", "err", err)
				}
				continue
			}
			logger.Info("Shutting down termosd daemon...")
			if hk != nil {
				hk.Close()
			}
			return 0

		case newCfg := <-reloaded:
			applyLogLevel(newCfg)
			if hk != nil {
				hk.Close()
			}
			hk = startHotkeys(newCfg, server)
		}
	}
}

func applyLogLevel(cfg *config.Config) {
	if logger.EnvOverride() {
		return
	}
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		logger.Warn("Invalid log level", "level", cfg.LogLevel, "err", err)
	}
}

// startHotkeys grabs the hide hotkey when one is configured. Failures are
// logged and leave the daemon running without it.
func startHotkeys(cfg *config.Config, server *ipc.Server) *hotkeys.Handler {
	if cfg.HideHotkey == "" {
		return nil
	}

	h, err := hotkeys.NewHandler(cfg.Display)
	if err != nil {
		logger.Warn("Hotkeys unavailable", "err", err)
		return nil
	}
	if err := h.RegisterFunc(cfg.HideHotkey, func() {
		if err := server.Hide(); err != nil {
			logger.Warn("Hide hotkey failed", "err", err)
		}
	}); err != nil {
		logger.Warn("Failed to register hide hotkey", "err", err)
		h.Close()
		return nil
	}
	h.Start()
	logger.Info("Hide hotkey registered", "keys", cfg.HideHotkey)
	return h
}
