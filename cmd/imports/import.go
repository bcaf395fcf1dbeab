// Package imports holds the commands that bulk-load links.
package imports

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mateconpizza/llyfrau/cmd"
	"github.com/mateconpizza/llyfrau/internal/config"
	"github.com/mateconpizza/llyfrau/internal/importer"
	"github.com/mateconpizza/llyfrau/internal/inventory"
	"github.com/mateconpizza/llyfrau/internal/link"
	"github.com/mateconpizza/llyfrau/internal/printer"
	"github.com/mateconpizza/llyfrau/internal/sys/terminal"
)

func init() {
	importFromCmd.AddCommand(importSphinxCmd)
	cmd.Root.AddCommand(importFromCmd)
}

var (
	importFromCmd = &cobra.Command{
		Use:     "import",
		Aliases: []string{"imp", "i"},
		Short:   "Import links from external catalogs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	importSphinxCmd = &cobra.Command{
		Use:   "sphinx <url>...",
		Short: "Import the objects.inv inventory of Sphinx documentation sites",
		Long: `Import the objects.inv inventory of Sphinx documentation sites.

Each url becomes a source whose prefix is the url itself, e.g.

  llyfrau import sphinx https://docs.python.org/3/`,
		Args: cobra.MinimumNArgs(1),
		RunE: fromSphinxFunc,
	}
)

func fromSphinxFunc(c *cobra.Command, args []string) error {
	ctx := c.Context()
	ic := config.App.File.Import

	r, err := cmd.OpenDB(ctx)
	if err != nil {
		return err
	}
	defer r.Close()

	opts := []importer.OptFn{
		importer.WithConcurrency(ic.Concurrency),
		importer.WithFetcher(inventory.NewHTTPFetcher(
			inventory.WithTimeout(ic.Timeout),
			inventory.WithUserAgent(ic.UserAgent),
		)),
	}

	if terminal.IsTerminal(os.Stderr) {
		opts = append(opts, importer.WithSpinner())
	}

	// on a store error, results holds the inventories already committed.
	results, err := importer.SphinxMany(ctx, r, args, opts...)
	if len(results) > 0 {
		if perr := printer.Stdout(false).Sources(resultSources(results)); perr != nil {
			return errors.Join(err, perr)
		}
	}

	if err != nil {
		return fmt.Errorf("imported %d of %d inventories: %w", len(results), len(args), err)
	}

	return nil
}

func resultSources(results []*importer.Result) []*link.Source {
	ss := make([]*link.Source, 0, len(results))
	for _, res := range results {
		ss = append(ss, res.Source)
	}

	return ss
}
