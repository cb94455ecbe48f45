package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Семантические: разрешение метаданных (visitor)
	SemaInfo                 Code = 3000
	SemaDuplicateName        Code = 3001 // name registered twice in one scope, attribute assigned twice
	SemaUnknownType          Code = 3002 // type name not reachable from the type scope
	SemaUnknownStream        Code = 3003 // event stream_id does not name a registered stream
	SemaNotFound             Code = 3004 // generic lookup miss
	SemaMissingRequiredField Code = 3005 // mandatory attribute absent at block end
	SemaTypeMismatch         Code = 3006 // attribute expected another kind of type
	SemaInvalidTag           Code = 3007 // variant discriminant not resolvable
	SemaMalformedExpression  Code = 3008 // right-hand side not interpretable as the expected scalar
	SemaUnsupportedNode      Code = 3009 // node kind the grammar should not have produced here
	SemaUnknownAttribute     Code = 3010 // key outside the closed set of a block kind
	SemaCanceled             Code = 3011 // build stopped by context cancellation

	// Ввод-вывод
	IOInfo         Code = 4000
	IOLoadFailed   Code = 4001
	IODecodeFailed Code = 4002
	IOEncodeFailed Code = 4003

	// Проект / конфигурация
	PrjInfo          Code = 5000
	PrjConfigInvalid Code = 5001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:              "Unknown error",
		SemaInfo:                 "Semantic information",
		SemaDuplicateName:        "Duplicate name",
		SemaUnknownType:          "Unknown type",
		SemaUnknownStream:        "Unknown stream",
		SemaNotFound:             "Name not found",
		SemaMissingRequiredField: "Missing required field",
		SemaTypeMismatch:         "Type mismatch",
		SemaInvalidTag:           "Invalid variant tag",
		SemaMalformedExpression:  "Malformed expression",
		SemaUnsupportedNode:      "Unsupported node",
		SemaUnknownAttribute:     "Unknown attribute",
		SemaCanceled:             "Canceled",
		IOInfo:                   "I/O information",
		IOLoadFailed:             "Failed to load input",
		IODecodeFailed:           "Failed to decode input",
		IOEncodeFailed:           "Failed to encode output",
		PrjInfo:                  "Project information",
		PrjConfigInvalid:         "Invalid configuration",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
