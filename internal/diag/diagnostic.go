package diag

import (
	"ctfmeta/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

// FromError converts any error into a diagnostic. Errors that carry a
// *Error keep their code and span; everything else becomes UnknownCode.
func FromError(err error, sev Severity) Diagnostic {
	if e, ok := AsError(err); ok {
		msg := e.Msg
		if error(e) != err {
			msg = err.Error()
		}
		return Diagnostic{Severity: sev, Code: e.Code, Message: msg, Primary: e.Span}
	}
	return Diagnostic{Severity: sev, Code: UnknownCode, Message: err.Error()}
}
