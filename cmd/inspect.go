package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/qadash/internal/catalog"
	"github.com/papapumpkin/qadash/internal/query"
	"github.com/papapumpkin/qadash/internal/render"
	"github.com/papapumpkin/qadash/internal/session"
	"github.com/papapumpkin/qadash/internal/ui"
	"github.com/papapumpkin/qadash/internal/viewmode"
)

// inspectCmd drives one session headlessly and prints the resulting frame.
var inspectCmd = &cobra.Command{
	Use:   "inspect [repository]",
	Short: "Apply filters and a metric selection, then print the resulting frame",
	Long: `Load a repository, apply flag filters, a query and a metric selection the
way the dashboard would, and print the layout, active filters and
notifications. With --plots the plot region is drawn to stdout.

Flags are given as name, name=true or name=false and apply to every band.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringArray("flag", nil, "flag filter as name[=bool] (repeatable)")
	inspectCmd.Flags().String("query", "", "free-text query applied to every band")
	inspectCmd.Flags().StringSlice("metric", nil, "metric to plot (repeatable)")
	inspectCmd.Flags().StringSlice("category", nil, "bands the metrics apply to (default: all)")
	inspectCmd.Flags().String("mode", "", "view mode: aggregated or skygrid (default: config)")
	inspectCmd.Flags().Bool("list-metrics", false, "print the selectable metrics of each band")
	inspectCmd.Flags().Bool("plots", false, "draw the plot region to stdout")
	inspectCmd.Flags().Int("width", 120, "plot region width in cells")
	inspectCmd.Flags().Int("height", 36, "plot region height in cells")
	inspectCmd.Flags().Int("tab", 0, "sky-grid tab to draw")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd, logStderr)
	if err != nil {
		return err
	}
	defer e.Close()

	path, err := resolveRepository(e.cfg, args)
	if err != nil {
		return err
	}
	printer := newPrinter(cmd)
	sess := e.session()

	if err := sess.LoadRepository(context.Background(), path); err != nil {
		printer.Frame(sess.Render())
		return err
	}
	printer.Repository(path, sess.Catalog())

	if list, _ := cmd.Flags().GetBool("list-metrics"); list {
		for _, cat := range sess.Categories() {
			fmt.Fprintln(cmd.ErrOrStderr())
			printer.Metrics(cat, sess.AvailableMetrics(cat))
		}
	}

	intentErr := applyInspectIntents(cmd, sess)

	frame := sess.Render()
	printer.Frame(frame)
	printRowCounts(printer, sess)

	if plots, _ := cmd.Flags().GetBool("plots"); plots {
		width, _ := cmd.Flags().GetInt("width")
		height, _ := cmd.Flags().GetInt("height")
		tab, _ := cmd.Flags().GetInt("tab")
		fmt.Fprintln(cmd.OutOrStdout(), render.Region(frame.Layout, width, height, tab))
	}
	return intentErr
}

// printRowCounts reports the active and raw row count of every band.
func printRowCounts(printer *ui.Printer, sess *session.Session) {
	view := sess.View()
	for _, cat := range sess.Categories() {
		raw := view.Raw(cat)
		if raw == nil {
			continue
		}
		printer.Info(fmt.Sprintf("  %-8s %d / %d rows", cat, view.ActiveView(cat).Len(), raw.Len()))
	}
}

// applyInspectIntents replays the command-line intents on sess in dashboard
// order: flags, query, selection, view mode. Every intent runs; the errors
// are joined.
func applyInspectIntents(cmd *cobra.Command, sess *session.Session) error {
	var errs []error

	flags, _ := cmd.Flags().GetStringArray("flag")
	for _, raw := range flags {
		clause, err := query.ParseFlagClause(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("--flag %q: %w", raw, err))
			continue
		}
		if err := sess.AddFlag(clause.Name, clause.Value); err != nil {
			errs = append(errs, err)
		}
	}

	if q, _ := cmd.Flags().GetString("query"); q != "" {
		if err := sess.SetQuery(q); err != nil {
			errs = append(errs, err)
		}
	}

	metrics, _ := cmd.Flags().GetStringSlice("metric")
	if len(metrics) > 0 {
		names, _ := cmd.Flags().GetStringSlice("category")
		cats := sess.Categories()
		if len(names) > 0 {
			cats = make([]catalog.Category, len(names))
			for i, n := range names {
				cats[i] = catalog.Category(n)
			}
		}
		for _, cat := range cats {
			if err := sess.SelectMetrics(cat, metrics); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if name, _ := cmd.Flags().GetString("mode"); name != "" {
		mode, err := viewmode.ParseMode(name)
		if err != nil {
			errs = append(errs, err)
		} else {
			sess.SetViewMode(mode)
		}
	}
	return errors.Join(errs...)
}
