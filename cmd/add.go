package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mateconpizza/llyfrau/internal/config"
	"github.com/mateconpizza/llyfrau/internal/handler"
	"github.com/mateconpizza/llyfrau/internal/link"
	"github.com/mateconpizza/llyfrau/internal/printer"
	"github.com/mateconpizza/llyfrau/internal/scraper"
	"github.com/mateconpizza/llyfrau/internal/sys/terminal"
)

var addTags []string

func init() {
	f := config.App.Flags
	addCmd.Flags().StringSliceVarP(&addTags, "tags", "t", nil, "comma separated tags")
	addCmd.Flags().Int64VarP(&f.Source, "source", "s", 0, "source id, the url is relative to its prefix")
	addCmd.Flags().BoolVarP(&f.JSON, "json", "j", false, "print the new link in JSON format")
	Root.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:     "add <url> [name]",
	Aliases: []string{"a", "new"},
	Short:   "Add a new link, named after the page title when no name is given",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		f := config.App.Flags

		r, err := OpenDB(ctx)
		if err != nil {
			return err
		}
		defer r.Close()

		l := &link.Link{
			URL:      args[0],
			Name:     strings.TrimSpace(strings.Join(args[1:], " ")),
			SourceID: f.Source,
			Tags:     link.ParseTags(strings.Join(addTags, ",")),
		}

		opts := []scraper.OptFn{scraper.WithUserAgent(config.App.File.Import.UserAgent)}
		if terminal.IsTerminal(os.Stderr) {
			opts = append(opts, scraper.WithSpinner())
		}

		id, err := handler.Add(ctx, r, l, handler.ScrapeTitle(opts...))
		if err != nil {
			return err
		}

		added, err := r.LinkByID(ctx, id)
		if err != nil {
			return fmt.Errorf("reading new link: %w", err)
		}

		return printer.Stdout(f.JSON).Links([]*link.Link{added})
	},
}
