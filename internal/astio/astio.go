// Package astio reads and writes metadata AST dumps: YAML for hand-written
// fixtures and MessagePack (.ctfast) for compact machine dumps.
package astio

import (
	"bufio"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"ctfmeta/internal/ast"
	"ctfmeta/internal/diag"
	"ctfmeta/internal/source"
)

// SchemaVersion is bumped whenever the .ctfast layout changes.
const SchemaVersion uint16 = 1

type Format uint8

const (
	FormatUnknown Format = iota
	FormatYAML
	FormatMsgpack
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatMsgpack:
		return "ctfast"
	default:
		return "unknown"
	}
}

// DetectFormat picks the format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".ctfast":
		return FormatMsgpack, nil
	}
	return FormatUnknown, diag.Errorf(diag.IOLoadFailed, source.Span{}, "%s: unsupported extension, want .yaml, .yml or .ctfast", path)
}

// dump is the .ctfast envelope.
type dump struct {
	Schema uint16    `msgpack:"schema"`
	Root   *ast.Root `msgpack:"root"`
}

// Decode reads one AST in format f.
func Decode(r io.Reader, f Format) (*ast.Root, error) {
	switch f {
	case FormatYAML:
		var root ast.Root
		dec := yaml.NewDecoder(r)
		if err := dec.Decode(&root); err != nil {
			if errors.Is(err, io.EOF) {
				return &root, nil
			}
			return nil, decodeErr(err)
		}
		return &root, nil
	case FormatMsgpack:
		var d dump
		if err := msgpack.NewDecoder(r).Decode(&d); err != nil {
			return nil, decodeErr(err)
		}
		if d.Schema != SchemaVersion {
			return nil, diag.Errorf(diag.IODecodeFailed, source.Span{}, "ctfast schema %d, want %d", d.Schema, SchemaVersion)
		}
		if d.Root == nil {
			d.Root = &ast.Root{}
		}
		return d.Root, nil
	}
	return nil, diag.Errorf(diag.IODecodeFailed, source.Span{}, "cannot decode %s", f)
}

// Encode writes root in format f.
func Encode(w io.Writer, root *ast.Root, f Format) error {
	var err error
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(root); err == nil {
			err = enc.Close()
		}
	case FormatMsgpack:
		err = msgpack.NewEncoder(w).Encode(dump{Schema: SchemaVersion, Root: root})
	default:
		return diag.Errorf(diag.IOEncodeFailed, source.Span{}, "cannot encode %s", f)
	}
	if err != nil {
		return diag.Errorf(diag.IOEncodeFailed, source.Span{}, "%v", err)
	}
	return nil
}

// Load reads the AST stored at path.
func Load(path string) (*ast.Root, error) {
	f, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, diag.Errorf(diag.IOLoadFailed, source.Span{}, "%v", err)
	}
	defer file.Close()
	root, err := Decode(bufio.NewReader(file), f)
	if e, ok := diag.AsError(err); ok {
		return nil, diag.Errorf(e.Code, e.Span, "%s: %s", path, e.Msg)
	}
	return root, err
}

// Save writes root to path through a temporary file renamed into place.
func Save(path string, root *ast.Root) (err error) {
	f, err := DetectFormat(path)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".ctfmeta-*")
	if err != nil {
		return diag.Errorf(diag.IOEncodeFailed, source.Span{}, "%v", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()
	w := bufio.NewWriter(tmp)
	if err = Encode(w, root, f); err != nil {
		return err
	}
	if err = w.Flush(); err != nil {
		return diag.Errorf(diag.IOEncodeFailed, source.Span{}, "%v", err)
	}
	if err = tmp.Close(); err != nil {
		return diag.Errorf(diag.IOEncodeFailed, source.Span{}, "%v", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return diag.Errorf(diag.IOEncodeFailed, source.Span{}, "%v", err)
	}
	return nil
}

func decodeErr(err error) error {
	return diag.Errorf(diag.IODecodeFailed, source.Span{}, "%v", err)
}
