// Copyright (C) 2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/toneswiper/toneswiper/internal/config"
	"github.com/toneswiper/toneswiper/internal/store"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, appVersion)
			return err
		},
	}
}

func newConfigCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.NewConfig(*configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the annotation database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			cfg, err := config.NewConfig(*configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			db, err := store.NewGormDB(&cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			fmt.Fprintf(out, "Migrating %s database %s\n", cfg.Database.Driver, cfg.Database.Database)
			if err := db.AutoMigrate(); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			if err := db.ValidateSchema(); err != nil {
				return fmt.Errorf("schema validation failed after migration: %w", err)
			}

			fmt.Fprintln(out, "Schema is up to date")
			return nil
		},
	}
}
