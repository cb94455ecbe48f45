package sema

import (
	"strings"

	"ctfmeta/internal/ast"
	"ctfmeta/internal/ctf"
	"ctfmeta/internal/diag"
	"ctfmeta/internal/source"
)

// keySet is the closed set of attribute keys one block kind accepts.
type keySet struct {
	block string
	keys  map[string]ctf.Field
}

var (
	traceKeys = keySet{"trace", map[string]ctf.Field{
		"major":         ctf.FieldMajor,
		"minor":         ctf.FieldMinor,
		"uuid":          ctf.FieldUUID,
		"word_size":     ctf.FieldWordSize,
		"byte_order":    ctf.FieldByteOrder,
		"packet_header": ctf.FieldPacketHeader,
	}}
	streamKeys = keySet{"stream", map[string]ctf.Field{
		"stream_id":      ctf.FieldStreamID,
		"id":             ctf.FieldStreamID,
		"event_header":   ctf.FieldEventHeader,
		"event_context":  ctf.FieldEventContext,
		"packet_context": ctf.FieldPacketContext,
	}}
	eventKeys = keySet{"event", map[string]ctf.Field{
		"name":      ctf.FieldName,
		"id":        ctf.FieldID,
		"stream_id": ctf.FieldStreamID,
		"context":   ctf.FieldContext,
		"fields":    ctf.FieldFields,
	}}
)

// keyName joins the left-hand side and folds `.` and `->` links into `_`,
// so `packet.context` and `packet_context` are the same key.
func keyName(left []*ast.Node) (string, error) {
	s, err := concatStrings(left)
	if err != nil {
		return "", err
	}
	return strings.NewReplacer("->", "_", ".", "_").Replace(s), nil
}

func (k keySet) field(left []*ast.Node) (ctf.Field, error) {
	name, err := keyName(left)
	if err != nil {
		return 0, err
	}
	f, ok := k.keys[name]
	if !ok {
		return 0, diag.Errorf(diag.SemaUnknownAttribute, source.Span{}, "%s blocks have no %q attribute", k.block, name)
	}
	return f, nil
}
