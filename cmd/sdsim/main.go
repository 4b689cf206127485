package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sdcanvas/simulation-core/pkg/logger"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "sdsim",
	Short: "Simulate how an SDCanvas architecture sketch behaves under load",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetDefault(logger.NewText(logLevel, os.Stderr))
	},
}

func main() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
