// Package printer renders catalog records as tables or JSON.
package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/mateconpizza/llyfrau/internal/link"
	"github.com/mateconpizza/llyfrau/internal/sys/terminal"
)

type OptFn func(*Options)

type Options struct {
	json     bool
	style    table.Style
	maxWidth int
}

// Printer writes records to its writer.
type Printer struct {
	Options
	w io.Writer
}

// WithJSON prints JSON arrays instead of tables.
func WithJSON(b bool) OptFn {
	return func(o *Options) {
		o.json = b
	}
}

// WithStyle sets the table style.
func WithStyle(s table.Style) OptFn {
	return func(o *Options) {
		o.style = s
	}
}

// WithMaxWidth caps the width of the text columns, 0 disables the cap.
func WithMaxWidth(n int) OptFn {
	return func(o *Options) {
		o.maxWidth = n
	}
}

func defaults() *Options {
	return &Options{style: table.StyleDefault}
}

// New returns a printer writing to w.
func New(w io.Writer, opts ...OptFn) *Printer {
	o := defaults()
	for _, fn := range opts {
		fn(o)
	}

	return &Printer{Options: *o, w: w}
}

// Stdout returns a printer for the standard output. Tables use the light
// style on a terminal and the plain one when piped.
func Stdout(asJSON bool) *Printer {
	opts := []OptFn{WithJSON(asJSON)}
	if terminal.IsTerminal(os.Stdout) && !terminal.NoColorEnv() {
		opts = append(opts, WithStyle(table.StyleLight))
	}

	if w, err := terminal.Width(); err == nil {
		opts = append(opts, WithMaxWidth(w/2))
	}

	return New(os.Stdout, opts...)
}

// Links prints the links.
func (p *Printer) Links(ls []*link.Link) error {
	slog.Debug("printing links", "count", len(ls), "json", p.json)
	if p.json {
		return p.toJSON(ls)
	}

	t := p.newTable(table.Row{"ID", "Name", "URL", "Visits", "Source", "Tags"}, 2, 3)
	for _, l := range ls {
		src := ""
		if l.HasSource() {
			src = fmt.Sprint(l.SourceID)
		}

		t.AppendRow(table.Row{l.ID, l.Name, l.URL, l.Visits, src, strings.Join(l.Tags, ",")})
	}

	t.Render()

	return nil
}

// Sources prints the sources.
func (p *Printer) Sources(ss []*link.Source) error {
	slog.Debug("printing sources", "count", len(ss), "json", p.json)
	if p.json {
		return p.toJSON(ss)
	}

	t := p.newTable(table.Row{"ID", "Name", "Prefix", "URI"}, 2, 3, 4)
	for _, s := range ss {
		t.AppendRow(table.Row{s.ID, s.Name, s.Prefix, s.URI})
	}

	t.Render()

	return nil
}

// Tags prints the tags.
func (p *Printer) Tags(ts []*link.Tag) error {
	slog.Debug("printing tags", "count", len(ts), "json", p.json)
	if p.json {
		return p.toJSON(ts)
	}

	t := p.newTable(table.Row{"ID", "Name"}, 2)
	for _, tag := range ts {
		t.AppendRow(table.Row{tag.ID, tag.Name})
	}

	t.Render()

	return nil
}

// TagCounts prints each tag with its number of links, sorted by name.
func (p *Printer) TagCounts(counts map[string]int) error {
	if p.json {
		return p.toJSON(counts)
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}

	slices.Sort(names)

	t := p.newTable(table.Row{"Tag", "Links"}, 1)
	for _, name := range names {
		t.AppendRow(table.Row{name, counts[name]})
	}

	t.Render()

	return nil
}

// newTable creates a table writer, capping the given text columns.
func (p *Printer) newTable(header table.Row, textColumns ...int) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(p.w)
	t.SetStyle(p.style)
	t.AppendHeader(header)

	if p.maxWidth > 0 {
		cfgs := make([]table.ColumnConfig, 0, len(textColumns))
		for _, n := range textColumns {
			cfgs = append(cfgs, table.ColumnConfig{Number: n, WidthMax: p.maxWidth})
		}

		t.SetColumnConfigs(cfgs)
	}

	return t
}

func (p *Printer) toJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}

	if _, err := fmt.Fprintln(p.w, string(b)); err != nil {
		return fmt.Errorf("writing json: %w", err)
	}

	return nil
}
