package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lox/holdemtable/cmd/holdemtable/shared"
	"github.com/lox/holdemtable/internal/api"
	"github.com/lox/holdemtable/internal/config"
	"github.com/lox/holdemtable/internal/orchestrator"
	"github.com/lox/holdemtable/internal/table"
)

// AutoCmd runs the table headless: the human seat is played by a trivial
// check-or-call policy. Useful for soak-testing the orchestration against a
// live server without a terminal attached.
type AutoCmd struct {
	Config     string `short:"c" default:"holdemtable.hcl" help:"Path to HCL configuration file"`
	Server     string `short:"s" help:"Game server URL (overrides config)"`
	Name       string `short:"n" default:"Autopilot" help:"Player name"`
	Hands      int    `default:"10" help:"Number of hands to play (0 = until interrupted)"`
	Debug      bool   `short:"d" help:"Enable debug logging"`
	Structured bool   `help:"Emit structured JSON logs"`
}

// logSink surfaces orchestrator events and diagnostics as log lines.
type logSink struct {
	logger zerolog.Logger
}

func (s *logSink) Event(msg string) {
	s.logger.Info().Msg(msg)
}

func (s *logSink) Diagnostic(msg string) {
	s.logger.Warn().Msg(msg)
}

func (c *AutoCmd) Run() error {
	var logger zerolog.Logger
	if c.Structured {
		logger = shared.SetupStructuredLogger(c.Debug)
	} else {
		logger = shared.SetupLogger(c.Debug)
	}

	cfg, err := config.Load(c.Config)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if c.Server != "" {
		cfg.Server.URL = c.Server
	}
	cfg.Player.Name = c.Name

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Info().
		Str("server", cfg.Server.URL).
		Int("hands", c.Hands).
		Msg("starting autopilot")

	// The API layer logs through charmbracelet in interactive mode; the
	// headless path only needs the zerolog sink.
	apiLogger := shared.SetupFileLogger(io.Discard, "error")

	client := api.NewClient(
		cfg.Server.URL,
		cfg.Server.AuthToken,
		time.Duration(cfg.Server.RequestTimeout)*time.Second,
		apiLogger,
	)

	sink := &logSink{logger: logger.With().Str("component", "table").Logger()}
	orch := orchestrator.New(client, buildRoster(cfg), sink, apiLogger)

	ctx, cancel := context.WithCancel(shared.ShutdownContext(logger))
	defer cancel()

	interval := time.Duration(cfg.Server.PollInterval) * time.Second
	clock := quartz.NewReal()

	var snapshots <-chan *table.Snapshot
	if cfg.Server.Push {
		push, err := api.DialPush(ctx, cfg.Server.URL, apiLogger)
		if err != nil {
			logger.Warn().Err(err).Msg("push channel unavailable, falling back to polling")
		} else {
			defer func() { _ = push.Close() }()
			snapshots = push.Snapshots()
		}
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := orch.Run(ctx, clock, interval, snapshots)
		if err != nil && ctx.Err() != nil {
			return nil
		}
		return err
	})

	g.Go(func() error {
		defer cancel()
		return c.pilot(ctx, orch, logger)
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	logger.Info().Msg("autopilot finished")
	return nil
}

// pilot plays the human seat: check when legal, call when affordable, fold
// otherwise. Starts the next match when a hand completes.
func (c *AutoCmd) pilot(ctx context.Context, orch *orchestrator.Orchestrator, logger zerolog.Logger) error {
	played := 0
	inHand := true

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		view := orch.View()
		if !view.Active {
			continue
		}

		if view.HandOver {
			if inHand {
				inHand = false
				played++
				logger.Info().
					Int("played", played).
					Str("winner", view.Winner).
					Msg("hand complete")
			}
			if c.Hands > 0 && played >= c.Hands {
				return nil
			}
			orch.NewMatch(ctx)
			inHand = true
			continue
		}
		inHand = true

		if !view.YourTurn || view.Human == nil {
			continue
		}

		seat := *view.Human
		switch {
		case seat.BetAmount == view.CurrentBet || seat.Chips == 0:
			_ = orch.Check(ctx)
		case seat.Chips >= view.CurrentBet-seat.BetAmount:
			_ = orch.Bet(ctx, view.CurrentBet-seat.BetAmount)
		default:
			_ = orch.Fold(ctx)
		}
	}
}
