package diagfmt

import (
	"encoding/json"
	"io"

	"ctfmeta/internal/diag"
	"ctfmeta/internal/source"
)

// LocationJSON представляет местоположение в файле для JSON
type LocationJSON struct {
	File string `json:"file"`
	Line uint32 `json:"line,omitempty"`
	Col  uint32 `json:"col,omitempty"`
}

type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Title    string       `json:"title"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// FileInput is one file's diagnostics handed to BuildOutput.
type FileInput struct {
	Path string
	Bag  *diag.Bag
}

type FileJSON struct {
	File        string           `json:"file"`
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Dropped     int              `json:"dropped,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Files []FileJSON `json:"files"`
	Count int        `json:"count"`
}

func makeLocation(path string, span source.Span) LocationJSON {
	return LocationJSON{File: path, Line: span.Line, Col: span.Col}
}

// BuildOutput формирует структуру JSON-вывода без сериализации.
func BuildOutput(files []FileInput, opts JSONOpts) DiagnosticsOutput {
	out := DiagnosticsOutput{Files: make([]FileJSON, 0, len(files))}
	for _, f := range files {
		path := formatPath(f.Path, opts.PathMode)
		fj := FileJSON{File: path, Diagnostics: []DiagnosticJSON{}}
		if f.Bag != nil {
			items := f.Bag.Items()
			n := len(items)
			if opts.Max > 0 && opts.Max < n {
				n = opts.Max
			}
			for _, d := range items[:n] {
				dj := DiagnosticJSON{
					Severity: d.Severity.String(),
					Code:     d.Code.ID(),
					Title:    d.Code.Title(),
					Message:  d.Message,
					Location: makeLocation(path, d.Primary),
				}
				if opts.IncludeNotes {
					for _, note := range d.Notes {
						dj.Notes = append(dj.Notes, NoteJSON{Message: note.Msg, Location: makeLocation(path, note.Span)})
					}
				}
				fj.Diagnostics = append(fj.Diagnostics, dj)
			}
			fj.Dropped = f.Bag.Dropped() + len(items) - n
		}
		out.Count += len(fj.Diagnostics)
		out.Files = append(out.Files, fj)
	}
	return out
}

// JSON writes BuildOutput as indented JSON.
func JSON(w io.Writer, files []FileInput, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildOutput(files, opts))
}
