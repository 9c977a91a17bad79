package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/zarlcorp/core/pkg/zapp"
	"github.com/zarlcorp/zmail/internal/browser"
	"github.com/zarlcorp/zmail/internal/cli"
	"github.com/zarlcorp/zmail/internal/clipboard"
	"github.com/zarlcorp/zmail/internal/config"
	"github.com/zarlcorp/zmail/internal/gate"
	"github.com/zarlcorp/zmail/internal/mailgen"
	"github.com/zarlcorp/zmail/internal/session"
	"github.com/zarlcorp/zmail/internal/tui"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	app := zapp.New(zapp.WithName("zmail"))

	ctx, cancel := zapp.SignalContext(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "zmail: %v\n", err)
		_ = app.Close()
		os.Exit(1)
	}

	logFile, err := setupLogging(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "zmail: %v\n", err)
		_ = app.Close()
		os.Exit(1)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	a := &cli.App{
		Version:   version,
		Config:    cfg,
		Out:       os.Stdout,
		Err:       os.Stderr,
		OpenFlags: openFlags(cfg),
		Prompt:    cli.TerminalPrompt(os.Stdin, os.Stderr),
		RunTUI: func(ctx context.Context) error {
			return runTUI(ctx, cfg)
		},
	}

	if err := a.Command().ExecuteContext(ctx); err != nil {
		slog.Error("zmail", "err", err)
		fmt.Fprintf(os.Stderr, "zmail: %v\n", err)
		_ = app.Close()
		os.Exit(1)
	}

	if err := app.Close(); err != nil {
		slog.Error("shutdown", "err", err)
		os.Exit(1)
	}
}

// setupLogging routes slog to path, or discards it when path is empty
// since the TUI owns the terminal.
func setupLogging(path string) (*os.File, error) {
	if path == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return nil, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return f, nil
}

func openFlags(cfg config.Config) func() (cli.Flags, error) {
	return func() (cli.Flags, error) {
		s, err := session.OpenDir(cfg.SessionDir, session.Scope())
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

func runTUI(ctx context.Context, cfg config.Config) error {
	if !cli.IsTerminal() {
		return errors.New("stdin is not a terminal; use `zmail email`")
	}

	var flags tui.FlagStore
	restored := false
	if s, err := session.OpenDir(cfg.SessionDir, session.Scope()); err != nil {
		slog.Warn("session unavailable", "err", err)
	} else {
		defer s.Close()
		flags = s
		restored = s.Load()
	}

	g := gate.New(gate.Default(), restored)
	gen := mailgen.New(cfg.Domain, cfg.Length)
	copier := clipboard.New(os.Stdout)

	m := tui.New(version, g, gen, tui.Services{
		Flags:     flags,
		Copy:      copier.Copy,
		Open:      browser.Open,
		VerifyURL: cfg.VerifyURL,
	})

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
