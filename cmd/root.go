package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "qadash",
	Short: "Interactive QA dashboard for coadd source catalogs",
	Long: `qadash loads a data repository of per-band object catalogs and visit
tables, lets you filter rows by flags and free-text queries, pick metrics per
band, and browses the resulting plots in an aggregated or sky-grid view.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runRootDefault,
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .qadash.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log at debug level")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("telemetry", "", "append JSONL session events to this file")

	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("telemetry_path", rootCmd.PersistentFlags().Lookup("telemetry"))
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".qadash")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("QADASH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// No config file is fine; defaults apply.
	_ = viper.ReadInConfig()
}

// runRootDefault opens the dashboard when a repository is named on the
// command line or in config, and shows help otherwise.
func runRootDefault(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && viper.GetString("repository") == "" {
		return cmd.Help()
	}
	return runDashboard(dashboardCmd, args)
}
