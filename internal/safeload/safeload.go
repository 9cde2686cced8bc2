// Package safeload reads JSON documents from disk and classifies the ways
// loading can fail: a missing file, an empty file, or malformed content.
//
// Empty content is a soft condition. Callers at the reporting boundary treat
// it as "no document" and keep going, see IsSoft.
package safeload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"unicode/utf8"
)

var (
	// ErrNotFound is returned when the path does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrEmptyContent is returned when the file exists but holds only whitespace.
	ErrEmptyContent = errors.New("file is empty")

	// ErrMalformedContent is matched by every *MalformedError.
	ErrMalformedContent = errors.New("malformed JSON")
)

// Document is a parsed JSON tree: map[string]any, []any, string,
// json.Number, bool or nil.
type Document = any

// MalformedError describes content that is present but does not parse.
// Line and Column are 0 when the decoder gives no reliable position.
type MalformedError struct {
	Path   string
	Line   int   // 1-based line of the offending byte
	Column int   // 1-based column of the offending byte
	Offset int64 // byte offset reported by the decoder
	Msg    string
	Err    error
}

func (e *MalformedError) Error() string {
	if !e.HasPosition() {
		return fmt.Sprintf("invalid JSON in %s: %s", e.Path, e.Msg)
	}
	return fmt.Sprintf("invalid JSON in %s: %s (line %d, column %d)", e.Path, e.Msg, e.Line, e.Column)
}

// HasPosition reports whether Line and Column point into the file.
func (e *MalformedError) HasPosition() bool {
	return e.Line > 0
}

// Unwrap exposes both the sentinel and the decoder error.
func (e *MalformedError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedContent}
	}
	return []error{ErrMalformedContent, e.Err}
}

// IsSoft reports whether err should be treated as an absent document
// rather than a failure.
func IsSoft(err error) bool {
	return errors.Is(err, ErrEmptyContent)
}

// Load reads and parses the JSON document at path. Numbers are kept as
// json.Number so integer ids survive untouched.
func Load(path string) (Document, error) {
	var doc Document
	if err := LoadInto(path, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadInto reads the JSON document at path and decodes it into v.
func LoadInto(path string, v any) error {
	data, err := read(path)
	if err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return malformed(path, data, err, decodesCustom(reflect.TypeOf(v)))
	}

	// Anything after the first value is an error, same as json.Unmarshal.
	var extra json.RawMessage
	switch err := dec.Decode(&extra); {
	case errors.Is(err, io.EOF):
		return nil
	case err != nil:
		return malformed(path, data, err, false)
	default:
		start := dec.InputOffset() - int64(len(extra))
		return &MalformedError{
			Path:   path,
			Offset: start,
			Line:   lineOf(data, start+1),
			Column: columnOf(data, start+1),
			Msg:    "extra data after document",
		}
	}
}

func read(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("read %s: is a directory", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyContent, path)
	}
	if !utf8.Valid(data) {
		bad := invalidUTF8Offset(data)
		return nil, &MalformedError{
			Path:   path,
			Offset: bad,
			Line:   lineOf(data, bad+1),
			Column: columnOf(data, bad+1),
			Msg:    "content is not valid UTF-8",
		}
	}
	return data, nil
}

// malformed wraps a decoder error. Syntax errors always come from the outer
// decoder. Type errors carry a file offset only when no UnmarshalJSON method
// ran, since those decode sub-documents with offsets of their own. Any other
// error has no position.
func malformed(path string, data []byte, err error, custom bool) *MalformedError {
	e := &MalformedError{Path: path, Msg: err.Error(), Err: err}

	offset := int64(-1)
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.ErrUnexpectedEOF):
		e.Msg = "unexpected end of JSON input"
		offset = int64(len(data))
	case errors.As(err, &syntaxErr):
		offset = syntaxErr.Offset
	case errors.As(err, &typeErr) && !custom:
		offset = typeErr.Offset
	}

	if offset >= 0 {
		e.Offset = offset
		e.Line = lineOf(data, offset)
		e.Column = columnOf(data, offset)
	}
	return e
}

var unmarshalerType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()

// decodesCustom reports whether decoding into t runs an UnmarshalJSON method
// anywhere below it.
func decodesCustom(t reflect.Type) bool {
	return walkCustom(t, make(map[reflect.Type]bool))
}

func walkCustom(t reflect.Type, seen map[reflect.Type]bool) bool {
	if t == nil || seen[t] {
		return false
	}
	seen[t] = true

	if t.Implements(unmarshalerType) || reflect.PointerTo(t).Implements(unmarshalerType) {
		return true
	}
	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Array:
		return walkCustom(t.Elem(), seen)
	case reflect.Map:
		return walkCustom(t.Elem(), seen)
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if walkCustom(t.Field(i).Type, seen) {
				return true
			}
		}
	}
	return false
}

// lineOf returns the line holding the byte just before offset. The decoder
// reports offsets past the offending byte.
func lineOf(data []byte, offset int64) int {
	return bytes.Count(data[:clamp(offset, data)], []byte("\n")) + 1
}

func columnOf(data []byte, offset int64) int {
	prefix := data[:clamp(offset, data)]
	col := len(prefix) - (bytes.LastIndexByte(prefix, '\n') + 1)
	if col < 1 {
		col = 1
	}
	return col
}

func clamp(offset int64, data []byte) int64 {
	if offset < 0 {
		return 0
	}
	if offset > int64(len(data)) {
		return int64(len(data))
	}
	return offset
}

func invalidUTF8Offset(data []byte) int64 {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return int64(i)
		}
		i += size
	}
	return int64(len(data))
}

// Write serializes v with two-space indentation and replaces path with the
// result. The document goes to a temporary file in the same directory first
// and is renamed into place, so readers never see a half-written file.
func Write(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	perm := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
