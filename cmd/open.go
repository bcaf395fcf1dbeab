package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mateconpizza/llyfrau/internal/config"
	"github.com/mateconpizza/llyfrau/internal/handler"
	"github.com/mateconpizza/llyfrau/internal/qr"
	"github.com/mateconpizza/llyfrau/internal/sys"
)

func init() {
	openCmd.Flags().BoolVarP(&config.App.Flags.Copy, "copy", "c", false, "copy the url into the clipboard")
	Root.AddCommand(openCmd, qrCmd)
}

var openCmd = &cobra.Command{
	Use:     "open <id>",
	Aliases: []string{"o"},
	Short:   "Open a link in the default browser and record the visit",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		r, err := OpenDB(cmd.Context())
		if err != nil {
			return err
		}
		defer r.Close()

		var o sys.Opener = sys.Browser{}
		if config.App.Flags.Copy {
			o = sys.Clipboard{}
		}

		u, err := handler.Open(cmd.Context(), r, id, o)
		if err != nil {
			return err
		}

		fmt.Println(u)

		return nil
	},
}

var qrCmd = &cobra.Command{
	Use:   "qr <id>",
	Short: "Print the link url as a QR-Code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		r, err := OpenDB(ctx)
		if err != nil {
			return err
		}
		defer r.Close()

		l, err := r.LinkByID(ctx, id)
		if err != nil {
			return err
		}

		u, err := r.ResolveURL(ctx, l)
		if err != nil {
			return err
		}

		q, err := qr.New(u)
		if err != nil {
			return err
		}

		return q.Render(os.Stdout, false)
	},
}
