// Package modelfmt renders a resolved trace model as a pretty tree or JSON.
package modelfmt

import (
	"encoding/json"
	"io"

	"ctfmeta/internal/ctf"
	"ctfmeta/internal/source"
	"ctfmeta/internal/types"
)

type TraceJSON struct {
	Major        uint64       `json:"major"`
	Minor        uint64       `json:"minor"`
	UUID         string       `json:"uuid"`
	WordSize     uint64       `json:"word_size"`
	ByteOrder    string       `json:"byte_order"`
	PacketHeader *TypeJSON    `json:"packet_header,omitempty"`
	Streams      []StreamJSON `json:"streams"`
}

type StreamJSON struct {
	ID            uint64      `json:"id"`
	EventHeader   *TypeJSON   `json:"event_header,omitempty"`
	EventContext  *TypeJSON   `json:"event_context,omitempty"`
	PacketContext *TypeJSON   `json:"packet_context,omitempty"`
	Events        []EventJSON `json:"events"`
}

type EventJSON struct {
	ID      uint64    `json:"id"`
	Name    string    `json:"name"`
	Context *TypeJSON `json:"context,omitempty"`
	Fields  *TypeJSON `json:"fields,omitempty"`
}

// TypeJSON flattens a type; aliases are rendered as their target with the
// alias name.
type TypeJSON struct {
	Kind     string `json:"kind"`
	Name     string `json:"name,omitempty"`
	Size     uint64 `json:"size,omitempty"`
	Align    uint64 `json:"align"`
	Variable bool   `json:"variable,omitempty"`

	Signed    bool   `json:"signed,omitempty"`
	ByteOrder string `json:"byte_order,omitempty"`
	Base      int    `json:"base,omitempty"`
	Encoding  string `json:"encoding,omitempty"`
	Pointer   int    `json:"pointer,omitempty"`
	ExpDig    uint64 `json:"exp_dig,omitempty"`
	MantDig   uint64 `json:"mant_dig,omitempty"`

	Container   *TypeJSON   `json:"container,omitempty"`
	Enumerators []EnumJSON  `json:"enumerators,omitempty"`
	Tag         string      `json:"tag,omitempty"`
	Fields      []FieldJSON `json:"fields,omitempty"`
	Elem        *TypeJSON   `json:"elem,omitempty"`
	Length      uint64      `json:"length,omitempty"`
	LengthRef   string      `json:"length_ref,omitempty"`
}

type EnumJSON struct {
	Label string `json:"label"`
	Start int64  `json:"start"`
	End   int64  `json:"end"`
}

type FieldJSON struct {
	Name string    `json:"name"`
	Type *TypeJSON `json:"type"`
	Tag  *TagJSON  `json:"tag,omitempty"`
}

// TagJSON locates a variant selector: Depth scopes up from the field.
type TagJSON struct {
	Name  string `json:"name"`
	Depth int    `json:"depth"`
}

// BuildTrace converts tr. Event names are resolved through names.
func BuildTrace(tr *ctf.Trace, names *source.Interner) TraceJSON {
	out := TraceJSON{
		Major:     tr.Major,
		Minor:     tr.Minor,
		UUID:      tr.UUID.String(),
		WordSize:  tr.WordSize,
		ByteOrder: tr.ByteOrder.String(),
		Streams:   []StreamJSON{},
	}
	out.PacketHeader = declType(tr.PacketHeader)
	tr.Streams.Each(func(_ int, s *ctf.Stream) bool {
		sj := StreamJSON{
			ID:            s.ID,
			EventHeader:   declType(s.EventHeader),
			EventContext:  declType(s.EventContext),
			PacketContext: declType(s.PacketContext),
			Events:        []EventJSON{},
		}
		s.Events.Each(func(_ int, e *ctf.Event) bool {
			name, _ := names.Lookup(e.Name)
			sj.Events = append(sj.Events, EventJSON{
				ID:      e.ID,
				Name:    name,
				Context: declType(e.Context),
				Fields:  declType(e.Fields),
			})
			return true
		})
		out.Streams = append(out.Streams, sj)
		return true
	})
	return out
}

func declType(d *types.Declaration) *TypeJSON {
	if d == nil {
		return nil
	}
	return BuildType(d.Type)
}

// BuildType converts t and its members.
func BuildType(t *types.Type) *TypeJSON {
	if t == nil {
		return nil
	}
	name := t.Name
	u := t.Underlying()
	j := &TypeJSON{
		Kind:     u.Kind.String(),
		Name:     name,
		Size:     u.Layout.Size,
		Align:    u.Layout.Align,
		Variable: u.Layout.Variable,
	}
	switch u.Kind {
	case types.KindInteger:
		j.Signed = u.Int.Signed
		j.ByteOrder = u.Int.ByteOrder.String()
		j.Base = u.Int.Base
		if u.Int.Encoding != types.EncodingNone {
			j.Encoding = u.Int.Encoding.String()
		}
		j.Pointer = u.Int.Pointer
	case types.KindFloat:
		j.ByteOrder = u.Float.ByteOrder.String()
		j.ExpDig = u.Float.ExpDig
		j.MantDig = u.Float.MantDig
	case types.KindString:
		j.Encoding = u.Str.Encoding.String()
	case types.KindEnum:
		j.Container = BuildType(u.Enum.Container)
		for _, e := range u.Enum.Entries {
			j.Enumerators = append(j.Enumerators, EnumJSON{Label: e.Label, Start: e.Start, End: e.End})
		}
	case types.KindStruct, types.KindVariant:
		j.Tag = u.Aggregate.Tag
		j.Fields = []FieldJSON{}
		for _, f := range u.Aggregate.Fields {
			fj := FieldJSON{Name: f.Name, Type: BuildType(f.Type)}
			if f.Tag != nil {
				fj.Tag = &TagJSON{Name: f.Tag.Name, Depth: f.Tag.Depth}
			}
			j.Fields = append(j.Fields, fj)
		}
	case types.KindArray, types.KindSequence:
		j.Elem = BuildType(u.Elem)
		j.Length = u.Length
		j.LengthRef = u.LengthRef
	}
	return j
}

// JSON writes the model of tr as indented JSON.
func JSON(w io.Writer, path string, tr *ctf.Trace, names *source.Interner) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		File  string    `json:"file"`
		Trace TraceJSON `json:"trace"`
	}{File: path, Trace: BuildTrace(tr, names)})
}
