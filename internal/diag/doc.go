// Package diag defines the diagnostic model shared by the loading and
// resolution phases.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with a stable string
//     form (SEM3001, IO4002, ...).
//   - Message – human oriented text identifying the offending construct.
//   - Primary span – line/column of the AST node that caused the finding.
//   - Notes – optional secondary spans/messages.
//
// # Errors
//
// The resolver returns Go errors, not diagnostics. Error carries a Code and a
// span; sentinels such as ErrDuplicateName let callers classify any wrapped
// error with errors.Is. ReportErr turns an error back into a Diagnostic for a
// Reporter.
//
// # Emitting diagnostics
//
// Phases write through a Reporter. BagReporter aggregates into a Bag which
// supports sorting and deduplication. Rendering lives in internal/diagfmt.
package diag
