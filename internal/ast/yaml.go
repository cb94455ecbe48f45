package ast

import (
	"gopkg.in/yaml.v3"

	"ctfmeta/internal/source"
)

type plainNode Node

// UnmarshalYAML decodes a node and, when the document gives no explicit
// span, takes the position of the YAML mapping it came from so
// diagnostics on hand-written fixtures point somewhere useful.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	var p plainNode
	if err := value.Decode(&p); err != nil {
		return err
	}
	*n = Node(p)
	if n.Span.IsZero() && value.Line > 0 {
		n.Span = source.Span{Line: uint32(value.Line), Col: uint32(value.Column)}
	}
	return nil
}
