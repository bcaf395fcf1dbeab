package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mateconpizza/llyfrau/internal/config"
	"github.com/mateconpizza/llyfrau/internal/db"
	"github.com/mateconpizza/llyfrau/internal/sys/files"
)

func init() {
	Root.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new links database",
	Args:  cobra.NoArgs,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		cfg := config.App
		if files.Exists(cfg.DBPath) && !cfg.Flags.Force {
			return fmt.Errorf("%q %w", cfg.DBName, db.ErrDBExists)
		}

		return nil
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		r, err := OpenDB(cmd.Context(), db.WithCreate())
		if err != nil {
			return fmt.Errorf("initializing database: %w", err)
		}
		defer r.Close()

		fmt.Printf("initialized database %q in %s\n", config.App.DBName, config.App.Path.Data)

		return nil
	},
}
