package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile     string
	outputFmt   string
	levelFilter string
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "logsift",
	Short: "logsift — log file ingestion and analysis",
	Long: `logsift parses bracket-delimited log files ("<timestamp> [<level>] <message>")
into structured entries and analyzes them: per-level counts, recent errors
within a time window, and filtered re-export. It can also follow live files
and serve a small stats dashboard.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: $HOME/.logsift.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "output format: text, json")
	rootCmd.PersistentFlags().StringVarP(&levelFilter, "level", "l", "", "filter by severity (comma-separated: INFO,WARN,ERROR)")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".logsift")
		viper.SetConfigType("yaml")
	}

	viper.SetDefault("checkpoint_file", ".logsift-state.json")

	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
}
