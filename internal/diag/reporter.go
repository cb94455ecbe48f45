package diag

import "ctfmeta/internal/source"

// Reporter : минимальный контракт получения диагностик от фаз.
// Реализации: BagReporter (кладёт в Bag), NopReporter.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string, notes []Note)
}

// ReportErr emits err as an error diagnostic, keeping its code and span when
// it is a *Error.
func ReportErr(r Reporter, err error) {
	if r == nil || err == nil {
		return
	}
	d := FromError(err, SevError)
	r.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes)
}

// BagReporter : адаптер, который пишет в *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(Diagnostic{
		Severity: sev, Code: code, Message: msg,
		Primary: primary, Notes: notes,
	})
}

// NopReporter drops everything.
type NopReporter struct{}

func (NopReporter) Report(Code, Severity, source.Span, string, []Note) {}
