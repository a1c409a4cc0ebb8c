package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/qadash/internal/catalog"
)

// sampleCmd writes a synthetic repository for demos and tests.
var sampleCmd = &cobra.Command{
	Use:   "sample <dir>",
	Short: "Write a synthetic data repository",
	Long: `Write a deterministic synthetic repository with the default bands of object
catalogs and visit tables. The same seed always produces the same values.`,
	Args: cobra.ExactArgs(1),
	RunE: runSample,
}

func init() {
	sampleCmd.Flags().Int("rows", 500, "objects per band")
	sampleCmd.Flags().Uint64("seed", 1, "random seed")
	rootCmd.AddCommand(sampleCmd)
}

func runSample(cmd *cobra.Command, args []string) error {
	rows, _ := cmd.Flags().GetInt("rows")
	seed, _ := cmd.Flags().GetUint64("seed")
	if rows <= 0 {
		return fmt.Errorf("--rows must be positive, got %d", rows)
	}

	c := catalog.Sample(seed, rows)
	if err := catalog.Write(context.Background(), args[0], c); err != nil {
		return fmt.Errorf("writing sample: %w", err)
	}
	newPrinter(cmd).SampleWritten(args[0], c, rows)
	return nil
}
