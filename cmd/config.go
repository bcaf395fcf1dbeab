package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v3"

	"github.com/mateconpizza/llyfrau/internal/config"
)

func init() {
	configCmd.Flags().BoolVarP(&config.App.Flags.Dump, "dump", "d", false, "write the default config file")
	Root.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:     "config",
	Aliases: []string{"conf"},
	Short:   "Print the current configuration or dump the defaults",
	Args:    cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg := config.App

		if cfg.Flags.Dump {
			if err := config.Dump(cfg.Path.ConfigFile, config.Defaults(), cfg.Flags.Force); err != nil {
				return fmt.Errorf("%w. use '--force' to overwrite", err)
			}

			fmt.Printf("configfile path: %q\n", cfg.Path.ConfigFile)

			return nil
		}

		data, err := yaml.Marshal(cfg.File)
		if err != nil {
			return fmt.Errorf("marshalling YAML: %w", err)
		}

		fmt.Printf("# %s\n%s", cfg.Path.ConfigFile, data)

		return nil
	},
}
