package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/mateconpizza/llyfrau/internal/config"
	"github.com/mateconpizza/llyfrau/internal/db"
	"github.com/mateconpizza/llyfrau/internal/printer"
)

func init() {
	f := config.App.Flags

	for _, c := range []*cobra.Command{linksCmd, sourcesCmd, tagsCmd} {
		c.Flags().IntVar(&f.Top, "top", db.DefaultTop, "maximum number of results")
		c.Flags().BoolVarP(&f.JSON, "json", "j", false, "print data in JSON format")
	}

	linksCmd.Flags().StringSliceVarP(&f.Tags, "tag", "t", nil, "only links carrying every tag")
	linksCmd.Flags().Int64VarP(&f.Source, "source", "s", 0, "only links of the source id")
	linksCmd.Flags().StringVar(&f.Sort, "sort", "", "sort order [visits]")
	tagsCmd.Flags().BoolVarP(&f.Count, "count", "c", false, "print the number of links per tag")

	Root.AddCommand(linksCmd, sourcesCmd, tagsCmd)
}

func nameQuery(args []string) db.Query {
	return db.Query{Name: strings.Join(args, " "), Top: config.App.Flags.Top}
}

var linksCmd = &cobra.Command{
	Use:     "links [query]",
	Aliases: []string{"l", "ls"},
	Short:   "Search links by name",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := config.App.Flags

		r, err := OpenDB(cmd.Context())
		if err != nil {
			return err
		}
		defer r.Close()

		ls, err := r.SearchLinks(cmd.Context(), db.LinkQuery{
			Query:    nameQuery(args),
			Tags:     f.Tags,
			SourceID: f.Source,
			Sort:     f.Sort,
		})
		if err != nil {
			return err
		}

		return printer.Stdout(f.JSON).Links(ls)
	},
}

var sourcesCmd = &cobra.Command{
	Use:     "sources [query]",
	Aliases: []string{"src"},
	Short:   "Search sources by name",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := OpenDB(cmd.Context())
		if err != nil {
			return err
		}
		defer r.Close()

		ss, err := r.SearchSources(cmd.Context(), nameQuery(args))
		if err != nil {
			return err
		}

		return printer.Stdout(config.App.Flags.JSON).Sources(ss)
	},
}

var tagsCmd = &cobra.Command{
	Use:     "tags [query]",
	Aliases: []string{"t"},
	Short:   "Search tags by name",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := config.App.Flags

		r, err := OpenDB(cmd.Context())
		if err != nil {
			return err
		}
		defer r.Close()

		p := printer.Stdout(f.JSON)

		if f.Count {
			counts, err := r.TagsCounter(cmd.Context())
			if err != nil {
				return err
			}

			return p.TagCounts(counts)
		}

		ts, err := r.SearchTags(cmd.Context(), nameQuery(args))
		if err != nil {
			return err
		}

		return p.Tags(ts)
	},
}
