package ctf

import (
	"strings"

	"ctfmeta/internal/diag"
	"ctfmeta/internal/source"
)

// Field names one assignable attribute of a trace, stream or event block.
type Field uint16

const (
	FieldMajor Field = 1 << iota
	FieldMinor
	FieldUUID
	FieldWordSize
	FieldByteOrder
	FieldPacketHeader
	FieldStreamID
	FieldEventHeader
	FieldEventContext
	FieldPacketContext
	FieldName
	FieldID
	FieldContext
	FieldFields

	fieldEnd
)

var fieldNames = map[Field]string{
	FieldMajor:         "major",
	FieldMinor:         "minor",
	FieldUUID:          "uuid",
	FieldWordSize:      "word_size",
	FieldByteOrder:     "byte_order",
	FieldPacketHeader:  "packet_header",
	FieldStreamID:      "stream_id",
	FieldEventHeader:   "event_header",
	FieldEventContext:  "event_context",
	FieldPacketContext: "packet_context",
	FieldName:          "name",
	FieldID:            "id",
	FieldContext:       "context",
	FieldFields:        "fields",
}

func (f Field) String() string {
	if n, ok := fieldNames[f]; ok {
		return n
	}
	return "unknown"
}

// Presence is the set of attributes assigned so far in one block.
type Presence Field

// Has reports whether f was assigned.
func (p Presence) Has(f Field) bool {
	return Field(p)&f != 0
}

// Set marks f assigned; a second assignment is a DuplicateName error.
func (p *Presence) Set(f Field, span source.Span) error {
	if p.Has(f) {
		return diag.Errorf(diag.SemaDuplicateName, span, "%s is already set", f)
	}
	*p = Presence(Field(*p) | f)
	return nil
}

// Require fails with MissingRequiredField naming every field of required
// that has not been assigned.
func (p Presence) Require(required Field, block string, span source.Span) error {
	missing := required &^ Field(p)
	if missing == 0 {
		return nil
	}
	var names []string
	for f := Field(1); f < fieldEnd; f <<= 1 {
		if missing&f != 0 {
			names = append(names, f.String())
		}
	}
	return diag.Errorf(diag.SemaMissingRequiredField, span, "%s is missing %s", block, strings.Join(names, ", "))
}

// Mandatory attributes per block.
const (
	TraceRequired  = FieldMajor | FieldMinor | FieldUUID | FieldWordSize
	StreamRequired = FieldStreamID
	EventRequired  = FieldName | FieldID | FieldStreamID
)
