package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/qadash/internal/control"
	"github.com/papapumpkin/qadash/internal/session"
)

const shutdownTimeout = 5 * time.Second

// serveCmd runs a headless session behind the MCP control server.
var serveCmd = &cobra.Command{
	Use:   "serve [repository]",
	Short: "Serve a headless dashboard session over MCP",
	Long: `Serve a dashboard session to MCP clients over SSE. Every tool call is an
intent (load, filter, select, switch view, render) applied to one shared
session in arrival order. Prometheus metrics are exposed on /metrics.

A repository is optional; clients can load one with the load_repository tool.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default: serve.addr from config)")
	serveCmd.Flags().Bool("watch", false, "reload when the repository changes on disk")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd, logStderr)
	if err != nil {
		return err
	}
	defer e.Close()

	printer := newPrinter(cmd)
	ctx, cancel := setupSignalContext(printer)
	defer cancel()

	sess := e.session()
	path, _ := resolveRepository(e.cfg, args)
	if path != "" {
		if err := sess.LoadRepository(ctx, path); err != nil {
			e.log.Warn("initial load failed", "path", path, "err", err)
		}
	}

	disp := control.NewDispatcher(sess)
	go disp.Run(ctx)

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = e.cfg.Serve.Addr
	}
	srv := control.NewServer(disp, e.met, e.log)
	if err := srv.Start(addr); err != nil {
		return err
	}
	printer.Info(fmt.Sprintf("serving on http://%s (metrics at /metrics)", srv.Addr()))

	watchFlag, _ := cmd.Flags().GetBool("watch")
	if path != "" && (watchFlag || e.cfg.Watch) {
		w, err := newRepositoryWatcher(path)
		if err != nil {
			return err
		}
		defer w.Stop()
		go func() {
			for range w.Changes {
				err := disp.Do(ctx, func(s *session.Session) error {
					return s.LoadRepository(ctx, path)
				})
				if err != nil {
					e.log.Warn("reload failed", "path", path, "err", err)
				}
			}
		}()
	}

	<-ctx.Done()
	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	return srv.Stop(shutdownCtx)
}
