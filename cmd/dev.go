package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tristendillon/exvite/core/config"
	"github.com/tristendillon/exvite/core/logger"
	"github.com/tristendillon/exvite/core/watcher"
)

// devCmd represents the dev command
var devCmd = &cobra.Command{
	Use:   "dev",
	Short: "Regenerate types whenever project files change",
	Long:  "Runs prepare once, then watches the source directory and regenerates .exvite/ on every change.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(config.CommandServe)
		if err != nil {
			return err
		}

		gen, scanner, err := newGenerator()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fw, err := watcher.NewFileWatcher(cfg.SrcDir, []string{cfg.ExviteDir, cfg.OutBaseDir})
		if err != nil {
			return err
		}
		defer fw.Close()

		regenerate := func() error {
			if err := gen.Prepare(ctx, cfg); err != nil {
				return err
			}
			scanner.LogStats()
			return nil
		}
		fw.FileWatcher.AddOnStartFunc(func() error {
			logger.Info("Watching %s for changes", cfg.SrcDir)
			return regenerate()
		})
		fw.FileWatcher.AddOnChangeFunc(regenerate)
		fw.FileWatcher.AddOnInvalidateFunc(scanner.Invalidate)
		fw.FileWatcher.AddOnCloseFunc(func() error {
			logger.Info("Stopped watching")
			return nil
		})

		if err := fw.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("watcher stopped: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(devCmd)
}
