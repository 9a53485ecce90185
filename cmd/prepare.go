/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tristendillon/exvite/core/config"
	"github.com/tristendillon/exvite/core/generator"
	"github.com/tristendillon/exvite/core/logger"
	"github.com/tristendillon/exvite/core/scan"
)

var prepareCmd = &cobra.Command{
	Use:     "prepare",
	Aliases: []string{"generate"},
	Short:   "Generates the .exvite types directory for the project",
	Long:    `Discovers entrypoints, scans auto-imports and writes .exvite/ so editors can type check the project.`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Debug("prepare called")
		cfg, err := loadConfig(config.CommandBuild)
		if err != nil {
			return err
		}

		gen, scanner, err := newGenerator()
		if err != nil {
			return err
		}
		if err := gen.Prepare(cmd.Context(), cfg); err != nil {
			return err
		}
		scanner.LogStats()
		return nil
	},
}

func projectRoot() (string, error) {
	if rootDir != "" {
		return rootDir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return wd, nil
}

func loadConfig(command string) (*config.InternalConfig, error) {
	root, err := projectRoot()
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadInternal(root, command)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func newGenerator() (*generator.TypesGenerator, *scan.Scanner, error) {
	scanner, err := scan.NewScanner(scan.DefaultCacheSize)
	if err != nil {
		return nil, nil, err
	}
	return generator.NewTypesGenerator(scanner), scanner, nil
}

func init() {
	rootCmd.AddCommand(prepareCmd)
}
