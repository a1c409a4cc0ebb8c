package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/papapumpkin/qadash/internal/config"
	"github.com/papapumpkin/qadash/internal/logging"
	"github.com/papapumpkin/qadash/internal/metrics"
	"github.com/papapumpkin/qadash/internal/session"
	"github.com/papapumpkin/qadash/internal/telemetry"
	"github.com/papapumpkin/qadash/internal/ui"
)

var errNoRepository = errors.New("no repository given: pass a path or set repository in .qadash.yaml")

// env bundles the ambient services a command hands to its session.
type env struct {
	cfg     config.Config
	log     *slog.Logger
	tel     *telemetry.Emitter
	met     *metrics.Collector
	closers []io.Closer
}

// logSink says where a command's log records go.
type logSink int

const (
	logStderr logSink = iota
	logFile
)

// newEnv loads config and opens the logger and telemetry stream. Commands
// that own the terminal log to the configured file instead of stderr.
func newEnv(cmd *cobra.Command, sink logSink) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		cfg.LogLevel = "debug"
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, met: metrics.New()}
	switch sink {
	case logFile:
		logger, f, err := logging.OpenFile(cfg.LogFile, level)
		if err != nil {
			return nil, err
		}
		e.log = logger
		e.closers = append(e.closers, f)
	default:
		e.log = logging.New(cmd.ErrOrStderr(), level)
	}

	if cfg.TelemetryPath != "" {
		tel, err := telemetry.NewEmitter(cfg.TelemetryPath)
		if err != nil {
			e.Close()
			return nil, err
		}
		e.tel = tel
		e.closers = append(e.closers, tel)
	}
	return e, nil
}

// session builds a dashboard session over the env's services.
func (e *env) session() *session.Session {
	return session.New(session.Options{
		Logger:         e.log,
		Telemetry:      e.tel,
		Metrics:        e.met,
		InitialMode:    e.cfg.ViewMode(),
		StatusDuration: e.cfg.StatusDuration(),
	})
}

// Close releases the log file and telemetry stream, newest first.
func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		_ = e.closers[i].Close()
	}
	e.closers = nil
}

// resolveRepository picks the repository from the first argument, falling
// back to config.
func resolveRepository(cfg config.Config, args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if cfg.Repository != "" {
		return cfg.Repository, nil
	}
	return "", errNoRepository
}

// newPrinter writes to the command's error stream, detecting color only
// when that stream is the real stderr.
func newPrinter(cmd *cobra.Command) *ui.Printer {
	if w := cmd.ErrOrStderr(); w != os.Stderr {
		return ui.NewWriter(w)
	}
	return ui.New()
}

// isStderrTTY reports whether stderr is attached to a terminal.
func isStderrTTY() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// setupSignalContext returns a context that is canceled on SIGINT or SIGTERM.
func setupSignalContext(printer *ui.Printer) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			printer.Info("\nshutting down...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}
