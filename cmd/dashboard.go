package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/qadash/internal/catalog"
	"github.com/papapumpkin/qadash/internal/tui"
	"github.com/papapumpkin/qadash/internal/watch"
)

// dashboardCmd opens the interactive terminal dashboard on a repository.
var dashboardCmd = &cobra.Command{
	Use:     "dashboard [repository]",
	Aliases: []string{"tui"},
	Short:   "Open the interactive dashboard on a data repository",
	Long: `Open the terminal dashboard on a data repository. The repository is
loaded before the first frame; a load failure is shown as a notification and
the dashboard stays open. With --watch, edits to the manifest or catalog
database reload the repository in place.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDashboard,
}

func init() {
	dashboardCmd.Flags().Bool("watch", false, "reload when the repository changes on disk")
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	if !isStderrTTY() {
		return fmt.Errorf("qadash dashboard requires a TTY (terminal)")
	}

	e, err := newEnv(cmd, logFile)
	if err != nil {
		return err
	}
	defer e.Close()

	path, err := resolveRepository(e.cfg, args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sess := e.session()
	if err := sess.LoadRepository(ctx, path); err != nil {
		e.log.Warn("initial load failed; dashboard stays open", "path", path, "err", err)
	}
	program := tui.NewProgram(ctx, sess)

	watchFlag, _ := cmd.Flags().GetBool("watch")
	if watchFlag || e.cfg.Watch {
		w, err := newRepositoryWatcher(path)
		if err != nil {
			return err
		}
		defer w.Stop()
		go func() {
			for change := range w.Changes {
				e.log.Debug("repository changed", "files", change.Files)
				program.Send(tui.MsgReload{Path: path, Files: change.Files})
			}
		}()
	}

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// newRepositoryWatcher starts watching the manifest and catalog database of
// the repository at path. A missing manifest falls back to the default
// database name so a repository written later is still picked up.
func newRepositoryWatcher(path string) (*watch.Watcher, error) {
	db := catalog.DefaultDatabase
	if m, err := catalog.ReadManifest(path); err == nil {
		db = m.Database
	}
	w, err := watch.New(path, catalog.ManifestFile, db)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if err := w.Start(); err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	return w, nil
}
