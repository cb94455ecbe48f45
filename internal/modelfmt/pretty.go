package modelfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"ctfmeta/internal/ctf"
	"ctfmeta/internal/source"
	"ctfmeta/internal/types"
)

// PrettyOpts configures the tree rendering.
type PrettyOpts struct {
	Color bool
}

type printer struct {
	w      io.Writer
	header *color.Color
	typ    *color.Color
	faint  *color.Color
}

func newPrinter(w io.Writer, opts PrettyOpts) *printer {
	p := &printer{
		w:      w,
		header: color.New(color.FgCyan, color.Bold),
		typ:    color.New(color.FgGreen),
		faint:  color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.header, p.typ, p.faint} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Pretty prints tr as an indented tree: trace attributes, then every
// stream with its headers and events, struct members in aligned columns
// of name, type and size in bits.
func Pretty(w io.Writer, tr *ctf.Trace, names *source.Interner, opts PrettyOpts) {
	p := newPrinter(w, opts)
	fmt.Fprintf(w, "%s %d.%d uuid %s word_size %d byte_order %s\n",
		p.header.Sprint("trace"), tr.Major, tr.Minor, tr.UUID, tr.WordSize, tr.ByteOrder)
	p.decl(1, "packet.header", tr.PacketHeader)
	tr.Streams.Each(func(_ int, s *ctf.Stream) bool {
		fmt.Fprintf(w, "%s %d\n", p.header.Sprint("stream"), s.ID)
		p.decl(1, "event.header", s.EventHeader)
		p.decl(1, "event.context", s.EventContext)
		p.decl(1, "packet.context", s.PacketContext)
		s.Events.Each(func(_ int, e *ctf.Event) bool {
			name, _ := names.Lookup(e.Name)
			fmt.Fprintf(w, "  %s %d %s\n", p.header.Sprint("event"), e.ID, name)
			p.decl(2, "context", e.Context)
			p.decl(2, "fields", e.Fields)
			return true
		})
		return true
	})
}

func indent(depth int) string { return strings.Repeat("  ", depth) }

func (p *printer) decl(depth int, label string, d *types.Declaration) {
	if d == nil {
		return
	}
	fmt.Fprintf(p.w, "%s%s %s\n", indent(depth), label, p.faint.Sprint(sizeText(d.Type)))
	p.members(depth+1, d.Type)
}

// members prints the fields of an aggregate, recursing into nested ones.
func (p *printer) members(depth int, t *types.Type) {
	u := t.Underlying()
	if u.Kind != types.KindStruct && u.Kind != types.KindVariant {
		return
	}
	nameW, typeW := 0, 0
	for _, f := range u.Aggregate.Fields {
		nameW = max(nameW, runewidth.StringWidth(f.Name))
		typeW = max(typeW, runewidth.StringWidth(TypeName(f.Type)))
	}
	for _, f := range u.Aggregate.Fields {
		fmt.Fprintf(p.w, "%s%s  %s  %s\n",
			indent(depth),
			runewidth.FillRight(f.Name, nameW),
			p.typ.Sprint(runewidth.FillRight(TypeName(f.Type), typeW)),
			p.faint.Sprint(sizeText(f.Type)))
		p.members(depth+1, f.Type)
	}
}

// TypeName is the short display name of t: the registered name when there
// is one, otherwise a compact description.
func TypeName(t *types.Type) string {
	if t.Name != "" {
		return t.Name
	}
	switch t.Kind {
	case types.KindStruct:
		return "struct"
	case types.KindVariant:
		return "variant <" + t.Aggregate.Tag + ">"
	case types.KindArray:
		return TypeName(t.Elem) + "[" + strconv.FormatUint(t.Length, 10) + "]"
	case types.KindSequence:
		return TypeName(t.Elem) + "[" + t.LengthRef + "]"
	case types.KindEnum:
		return "enum : " + TypeName(t.Enum.Container)
	}
	return t.String()
}

func sizeText(t *types.Type) string {
	l := t.Layout
	if l.Variable {
		return "var"
	}
	return strconv.FormatUint(l.Size, 10)
}
