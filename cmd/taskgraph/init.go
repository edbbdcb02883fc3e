package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/yukikurage/taskgraph/internal/config"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config file and create the database",
		Long: `Write taskgraph.yaml (to --config, or ~/.config/taskgraph/taskgraph.yaml)
unless it already exists, then create and migrate the configured database.`,
		Args:        requireArgs(0),
		Annotations: map[string]string{annotationSkipStore: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.configFile
			if path == "" {
				home, err := os.UserHomeDir()
				if err != nil {
					return fmt.Errorf("failed to locate home directory: %w", err)
				}
				path = filepath.Join(home, ".config", "taskgraph", "taskgraph.yaml")
			}

			created := false
			if _, err := os.Stat(path); os.IsNotExist(err) {
				if err := config.WriteDefault(path); err != nil {
					return err
				}
				created = true
			}

			a.configFile = path
			if err := a.open(); err != nil {
				return err
			}

			message := fmt.Sprintf("Using config %s and database %s", path, a.cfg.DBPath)
			if created {
				message = fmt.Sprintf("Wrote config %s and created database %s", path, a.cfg.DBPath)
			}
			return a.printResult(cmd, map[string]interface{}{
				"config":         path,
				"config_created": created,
				"driver":         a.cfg.DBDriver,
				"database":       a.cfg.DBPath,
			}, message)
		},
	}
}
