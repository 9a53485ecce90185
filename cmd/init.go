/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tristendillon/exvite/core/config"
	"github.com/tristendillon/exvite/core/logger"
	"github.com/tristendillon/exvite/core/template_engine"
)

var (
	force bool
)

var initCmd = &cobra.Command{
	Use:   "init <dir>",
	Short: "Initialize a new exvite project",
	Long:  `Creates the boilerplate for a new exvite extension and generates its types.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Debug("init called")
		dir := args[0]
		if _, err := os.Stat(dir); err == nil {
			if !force {
				return fmt.Errorf("directory %s already exists, use --force to overwrite", dir)
			}
			logger.Debug("Directory %s already exists. Overwriting.", dir)
			if err := os.RemoveAll(dir); err != nil {
				return fmt.Errorf("failed to remove %s: %w", dir, err)
			}
		}

		initData := map[string]string{
			"Name": filepath.Base(dir),
		}
		engine := template_engine.NewTemplateEngine()
		if err := engine.GenerateFolder(template_engine.TEMPLATES.INIT, dir, initData); err != nil {
			return fmt.Errorf("failed to generate project: %w", err)
		}
		logger.Success("Created project in %s", dir)

		cfg, err := config.LoadInternal(dir, config.CommandBuild)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		gen, _, err := newGenerator()
		if err != nil {
			return err
		}
		if err := gen.Prepare(cmd.Context(), cfg); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Next Steps:\n")
		fmt.Fprintf(out, "  - cd %s\n", dir)
		fmt.Fprintf(out, "  - exvite dev\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&force, "force", false, "Force overwrite existing files")
}
