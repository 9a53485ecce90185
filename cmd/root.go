/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tristendillon/exvite/core/logger"
)

var rootCmd = &cobra.Command{
	Use:   "exvite",
	Short: "Type generation for exvite browser extension projects.",
	Long: `exvite builds browser extensions on top of a bundler.
The CLI discovers entrypoints, scans auto-imports and writes the
generated declaration files and tsconfig.json into .exvite/.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.SetVerbose(verbose)
		logger.SetErrorWriter()
		if logfile == "" {
			return nil
		}
		f, err := logger.OpenLogFile(logfile)
		if err != nil {
			return err
		}
		logCloser = f
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			logCloser.Close()
		}
	},
}

var logfile string
var verbose bool
var rootDir string
var logCloser io.Closer

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logfile, "logfile", "", "File to write logs to")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "Project root (defaults to the working directory)")
}
