// Command tickfsm-demo drives the sample state machine on a ticker until it settles in its end state.
//
// Configuration is read from the environment (and an optional .env file):
//
//	TICKFSM_MAX_TICKS      updates before giving up (default 100)
//	TICKFSM_TICK_INTERVAL  update cadence, 0 for back-to-back updates (default 10ms)
//	TICKFSM_LOG_LEVEL      debug, info, warn or error (default info)
//	TICKFSM_LOG_FORMAT     text or json (default text)
//	TICKFSM_MAX_CHAIN      transitions allowed per update, 0 for unbounded (default 0)
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tobbstr/tickfsm"
	"github.com/tobbstr/tickfsm/internal/config"
	"github.com/tobbstr/tickfsm/internal/sample"
)

// ErrNotSettled is returned when the sample machine does not reach its end state within the configured ticks.
var ErrNotSettled = errors.New("machine did not reach its end state")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	if err := run(ctx, cfg, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "tickfsm-demo: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == config.FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func run(ctx context.Context, cfg config.Config, w io.Writer) error {
	logger := newLogger(cfg, w)

	opts := []tickfsm.Option{tickfsm.WithLogger(logger)}
	if cfg.MaxChain > 0 {
		opts = append(opts, tickfsm.WithMaxChain(cfg.MaxChain))
	}
	s := sample.New(opts...)
	logger.DebugContext(ctx, "sample machine", slog.String("mermaid", sample.Diagram()))

	var tick <-chan time.Time
	if cfg.TickInterval > 0 {
		ticker := time.NewTicker(cfg.TickInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	ticks := 0
	for !s.IsEnd() {
		if ticks >= cfg.MaxTicks {
			return fmt.Errorf("%w after %d ticks", ErrNotSettled, ticks)
		}
		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		if err := s.Update(ctx); err != nil {
			return fmt.Errorf("updating sample machine: %w", err)
		}
		ticks++
	}

	logger.InfoContext(ctx, "sample machine reached its end state", slog.Int("ticks", ticks))
	fmt.Fprintf(w, "trace: %s\n", s.Trace().Join(" -> "))
	return nil
}
