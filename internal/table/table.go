package table

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

type Color = text.Color

const (
	Red     = text.FgRed
	Green   = text.FgGreen
	Yellow  = text.FgYellow
	Blue    = text.FgBlue
	Magenta = text.FgMagenta
	Cyan    = text.FgCyan
)

type Style int

const (
	Rounded Style = iota
	Sharp
	Markdown
)

func StyleByName(name string) (Style, error) {
	switch strings.ToLower(name) {
	case "rounded", "":
		return Rounded, nil
	case "sharp":
		return Sharp, nil
	case "markdown":
		return Markdown, nil
	}
	return Rounded, fmt.Errorf("unknown table style %q", name)
}

type Options struct {
	Style Style
	// Colored enables ANSI escapes using HeaderColor and LineColor.
	Colored     bool
	HeaderColor Color
	LineColor   Color
}

// IsTerminal reports whether w is a terminal, so colors make sense on it.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Render draws headers and rows as a table. Missing cells are rendered empty.
// The result has no trailing newline.
func Render(headers []string, rows [][]string, opts Options) string {
	w := table.NewWriter()
	w.SetStyle(style(opts))
	w.AppendHeader(toRow(headers))
	for _, row := range rows {
		w.AppendRow(toRow(row))
	}
	if opts.Style == Markdown {
		return w.RenderMarkdown()
	}
	return w.Render()
}

func style(opts Options) table.Style {
	s := table.StyleRounded
	if opts.Style == Sharp {
		s = table.StyleLight
	}
	s.Format.Header = text.FormatDefault
	s.Format.Footer = text.FormatDefault
	if opts.Colored {
		s.Color.Header = text.Colors{opts.HeaderColor}
		s.Color.Border = text.Colors{opts.LineColor}
		s.Color.Separator = text.Colors{opts.LineColor}
	}
	return s
}

func toRow(values []string) table.Row {
	row := make(table.Row, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}
