package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/qadash/internal/catalog"
	"github.com/papapumpkin/qadash/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate [repository]",
	Short: "Check that a repository has the tables and columns the dashboard needs",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		path, err := resolveRepository(cfg, args)
		if err != nil {
			return err
		}

		printer := newPrinter(cmd)
		c, err := catalog.Load(context.Background(), path)
		if err != nil {
			printer.ValidateResult(path, 0, []error{err})
			return fmt.Errorf("repository %s is not loadable", path)
		}

		printer.Repository(path, c)
		fmt.Fprintln(cmd.ErrOrStderr())
		errs := catalog.Validate(c)
		printer.ValidateResult(path, len(c.Categories), errs)
		if len(errs) > 0 {
			return fmt.Errorf("repository %s has %d validation error(s)", path, len(errs))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
