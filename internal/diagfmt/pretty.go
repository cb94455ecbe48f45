package diagfmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"ctfmeta/internal/diag"
	"ctfmeta/internal/source"
)

type palette struct {
	err, warn, info, code, path, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:  color.New(color.FgRed, color.Bold),
		warn: color.New(color.FgYellow, color.Bold),
		info: color.New(color.FgCyan),
		code: color.New(color.Faint),
		path: color.New(color.Bold),
		note: color.New(color.FgBlue),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.path, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch {
	case s >= diag.SevError:
		return p.err
	case s == diag.SevWarning:
		return p.warn
	}
	return p.info
}

func location(path string, span source.Span) string {
	if span.IsZero() {
		return path
	}
	return fmt.Sprintf("%s:%d:%d", path, span.Line, span.Col)
}

// Pretty печатает диагностики одного файла, по строке на каждую:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// Notes follow indented when ShowNotes is set. Items are printed in Bag
// order; call bag.Sort first for positional order.
func Pretty(w io.Writer, path string, bag *diag.Bag, opts PrettyOpts) {
	if bag == nil {
		return
	}
	p := newPalette(opts.Color)
	shown := formatPath(path, opts.PathMode)
	for _, d := range bag.Items() {
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			p.path.Sprint(location(shown, d.Primary)),
			p.severity(d.Severity).Sprint(d.Severity),
			p.code.Sprint(d.Code.ID()),
			d.Message)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"), location(shown, n.Span), n.Msg)
		}
	}
	if n := bag.Dropped(); n > 0 {
		fmt.Fprintf(w, "%s: %s\n", p.path.Sprint(shown), p.warn.Sprintf("%d more diagnostics not shown", n))
	}
}
