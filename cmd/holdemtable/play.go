package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/coder/quartz"

	"github.com/lox/holdemtable/cmd/holdemtable/shared"
	"github.com/lox/holdemtable/internal/api"
	"github.com/lox/holdemtable/internal/config"
	"github.com/lox/holdemtable/internal/orchestrator"
	"github.com/lox/holdemtable/internal/table"
	"github.com/lox/holdemtable/internal/tui"
)

type PlayCmd struct {
	Config   string `short:"c" default:"holdemtable.hcl" help:"Path to HCL configuration file"`
	Server   string `short:"s" help:"Game server URL (overrides config)"`
	Name     string `short:"n" help:"Player name (overrides config)"`
	Token    string `help:"Auth token attached to requests (overrides config)"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
}

func (c *PlayCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	if c.Server != "" {
		cfg.Server.URL = c.Server
	}
	if c.Name != "" {
		cfg.Player.Name = c.Name
	}
	if c.Token != "" {
		cfg.Server.AuthToken = c.Token
	}
	if c.LogLevel != "" {
		cfg.UI.LogLevel = c.LogLevel
	}

	if cfg.Player.Name == "" {
		fmt.Print("Enter your player name: ")
		var input string
		_, _ = fmt.Scanln(&input)
		cfg.Player.Name = strings.TrimSpace(input)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logFile, err := os.OpenFile(cfg.UI.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()

	logger := shared.SetupFileLogger(logFile, cfg.UI.LogLevel)
	logger.Info("starting holdemtable",
		"server", cfg.Server.URL,
		"player", cfg.Player.Name,
		"config", c.Config)

	client := api.NewClient(
		cfg.Server.URL,
		cfg.Server.AuthToken,
		time.Duration(cfg.Server.RequestTimeout)*time.Second,
		logger,
	)

	sink := tui.NewSink()
	orch := orchestrator.New(client, buildRoster(cfg), sink, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var snapshots <-chan *table.Snapshot
	if cfg.Server.Push {
		push, err := api.DialPush(ctx, cfg.Server.URL, logger)
		if err != nil {
			// Push is an alternative transport; polling still works.
			logger.Warn("push channel unavailable, falling back to polling", "error", err)
		} else {
			defer func() { _ = push.Close() }()
			snapshots = push.Snapshots()
		}
	}

	go func() {
		interval := time.Duration(cfg.Server.PollInterval) * time.Second
		_ = orch.Run(ctx, quartz.NewReal(), interval, snapshots)
	}()

	model := tui.NewModel(orch, sink, logger)
	program := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
