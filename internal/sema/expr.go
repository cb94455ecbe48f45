package sema

import (
	"math"
	"strings"

	"github.com/google/uuid"

	"ctfmeta/internal/ast"
	"ctfmeta/internal/diag"
	"ctfmeta/internal/source"
	"ctfmeta/internal/types"
)

func malformed(format string, args ...any) error {
	return diag.Errorf(diag.SemaMalformedExpression, source.Span{}, format, args...)
}

// concatStrings joins a chain of unary strings with their link text:
// `packet . context` becomes "packet.context".
func concatStrings(nodes []*ast.Node) (string, error) {
	if len(nodes) == 0 {
		return "", malformed("empty expression")
	}
	var sb strings.Builder
	for i, n := range nodes {
		if n == nil || n.Kind != ast.NodeUnaryExpression || n.Unary == nil || n.Unary.Kind != ast.UnaryString {
			return "", malformed("expected a string or identifier")
		}
		if i > 0 {
			sb.WriteString(n.Unary.Link.String())
		}
		sb.WriteString(n.Unary.Str)
	}
	return sb.String(), nil
}

func single(nodes []*ast.Node) (*ast.Unary, error) {
	if len(nodes) != 1 || nodes[0] == nil || nodes[0].Kind != ast.NodeUnaryExpression || nodes[0].Unary == nil {
		return nil, malformed("expected a single constant")
	}
	return nodes[0].Unary, nil
}

// unsignedOf reads a non-negative integer constant.
func unsignedOf(nodes []*ast.Node) (uint64, error) {
	u, err := single(nodes)
	if err != nil {
		return 0, err
	}
	switch u.Kind {
	case ast.UnaryUnsignedConstant:
		return u.Unsigned, nil
	case ast.UnarySignedConstant:
		if u.Signed < 0 {
			return 0, malformed("expected an unsigned constant, got %d", u.Signed)
		}
		return uint64(u.Signed), nil
	}
	return 0, malformed("expected an unsigned constant")
}

// signedOf reads one integer constant as int64.
func signedOf(n *ast.Node) (int64, error) {
	u, err := single([]*ast.Node{n})
	if err != nil {
		return 0, err
	}
	switch u.Kind {
	case ast.UnarySignedConstant:
		return u.Signed, nil
	case ast.UnaryUnsignedConstant:
		if u.Unsigned > math.MaxInt64 {
			return 0, malformed("constant %d overflows int64", u.Unsigned)
		}
		return int64(u.Unsigned), nil
	}
	return 0, malformed("expected an integer constant")
}

func uuidOf(nodes []*ast.Node) (uuid.UUID, error) {
	s, err := concatStrings(nodes)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, malformed("invalid uuid %q: %v", s, err)
	}
	return id, nil
}

// boolOf accepts true/false identifiers and 0/1 constants.
func boolOf(nodes []*ast.Node) (bool, error) {
	if s, err := concatStrings(nodes); err == nil {
		switch strings.ToLower(s) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return false, malformed("expected true or false, got %q", s)
	}
	v, err := unsignedOf(nodes)
	if err != nil || v > 1 {
		return false, malformed("expected a boolean")
	}
	return v == 1, nil
}

func byteOrderOf(nodes []*ast.Node) (types.ByteOrder, error) {
	s, err := concatStrings(nodes)
	if err != nil {
		return types.Native, err
	}
	bo, ok := types.ParseByteOrder(s)
	if !ok {
		return types.Native, malformed("unknown byte order %q", s)
	}
	return bo, nil
}

func encodingOf(nodes []*ast.Node) (types.Encoding, error) {
	s, err := concatStrings(nodes)
	if err != nil {
		return types.EncodingNone, err
	}
	enc, ok := types.ParseEncoding(s)
	if !ok {
		return types.EncodingNone, malformed("unknown encoding %q", s)
	}
	return enc, nil
}

var baseNames = map[string]int{
	"decimal": 10, "dec": 10, "d": 10, "i": 10, "u": 10,
	"hexadecimal": 16, "hex": 16, "x": 16, "X": 16, "p": 16,
	"octal": 8, "oct": 8, "o": 8,
	"binary": 2, "b": 2,
}

func baseOf(nodes []*ast.Node) (int, error) {
	if s, err := concatStrings(nodes); err == nil {
		if b, ok := baseNames[s]; ok {
			return b, nil
		}
		return 0, malformed("unknown base %q", s)
	}
	v, err := unsignedOf(nodes)
	if err != nil {
		return 0, err
	}
	switch v {
	case 2, 8, 10, 16:
		return int(v), nil
	}
	return 0, malformed("unsupported base %d", v)
}

// isSpecifier tells a type on the right-hand side from a constant list.
func isSpecifier(nodes []*ast.Node) bool {
	return len(nodes) > 0 && nodes[0] != nil && nodes[0].Kind != ast.NodeUnaryExpression
}
