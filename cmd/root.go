// Package cmd holds the llyfrau command line.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mateconpizza/llyfrau/internal/config"
)

// Root is the main command.
var Root = &cobra.Command{
	Use:           config.App.Cmd,
	Short:         config.App.Info.Desc,
	Long:          config.App.Info.Title,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

func init() {
	initRootFlags(Root)
	Root.CompletionOptions.HiddenDefaultCmd = true
	cobra.OnInitialize(initConfig)
}

func initRootFlags(c *cobra.Command) {
	f := config.App.Flags
	c.PersistentFlags().StringVarP(&f.Name, "name", "n", config.MainDBName, "database name")
	c.PersistentFlags().CountVarP(&f.Verbose, "verbose", "v", "verbose mode, repeat for more detail")
	c.PersistentFlags().BoolVar(&f.Force, "force", false, "force action")
}

// Execute runs the root command.
func Execute(ctx context.Context) {
	if err := Root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", config.App.Name, err)
		os.Exit(1)
	}
}
