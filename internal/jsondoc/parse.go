package jsondoc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Parse decodes a single JSON value from data. description names the
// document in diagnostics (for example "'dns' key in project metadata").
// Syntax errors are returned as *ParseError.
func Parse(data []byte, description string) (interface{}, error) {
	// encoding/json reports the byte offset of a syntax error only from
	// Unmarshal, so validate first and decode tokens afterwards.
	var discard interface{}
	if err := json.Unmarshal(data, &discard); err != nil {
		return nil, newParseError(data, description, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, newParseError(data, description, err)
	}
	return v, nil
}

// ParseObject is Parse for documents that must be a JSON object.
func ParseObject(data []byte, description string) (*Object, error) {
	v, err := Parse(data, description)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(*Object)
	if !ok {
		return nil, &ParseError{
			Description: description,
			Line:        1,
			Column:      1,
			Source:      data,
			Cause:       fmt.Errorf("expected a JSON object, got %s", TypeName(v)),
		}
	}
	return obj, nil
}

func decodeValue(dec *json.Decoder) (interface{}, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		obj := NewObject()
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := kt.(string)
			if !ok {
				return nil, fmt.Errorf("object key is %T, not a string", kt)
			}
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			obj.Set(key, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		arr := []interface{}{}
		for dec.More() {
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", rune(delim))
	}
}

// TypeName returns the JSON type name of a decoded value.
func TypeName(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case json.Number:
		return "number"
	case []interface{}:
		return "array"
	case *Object:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// ParseError reports malformed JSON together with the position of the
// problem. Line is derived from the decoder's byte offset; for some errors
// (unterminated strings, missing closing brackets) the decoder only notices
// the problem later in the input, so the reported line may be a few lines
// past the actual mistake.
type ParseError struct {
	// Description names the document that failed to parse.
	Description string
	// Line is the 1-based line of the error.
	Line int
	// Column is the 1-based column of the error.
	Column int
	// Offset is the byte offset reported by the decoder.
	Offset int64
	// Source is the full document text.
	Source []byte
	// Cause is the decoder error.
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("invalid JSON in %s at line %d column %d: %v",
			e.Description, e.Line, e.Column, e.Cause)
	}
	return fmt.Sprintf("invalid JSON at line %d column %d: %v", e.Line, e.Column, e.Cause)
}

// Unwrap returns the underlying decoder error.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

func newParseError(data []byte, description string, cause error) *ParseError {
	var offset int64
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(cause, &syntaxErr):
		offset = syntaxErr.Offset
	case errors.As(cause, &typeErr):
		offset = typeErr.Offset
	case errors.Is(cause, io.ErrUnexpectedEOF), errors.Is(cause, io.EOF):
		offset = int64(len(data))
	}
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}

	line, col := position(data, offset)
	return &ParseError{
		Description: description,
		Line:        line,
		Column:      col,
		Offset:      offset,
		Source:      data,
		Cause:       cause,
	}
}

// position converts a byte offset into a 1-based line and column. The
// decoder's offset points just past the offending byte.
func position(data []byte, offset int64) (int, int) {
	if offset > 0 {
		offset--
	}
	line, col := 1, 1
	for i := int64(0); i < offset && i < int64(len(data)); i++ {
		if data[i] == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}

// ANSI codes used by Render.
const (
	colorRed   = "\033[1;31m"
	colorReset = "\033[0;0m"
)

// Render writes an operator-facing diagnostic: a header naming the
// document, the decoder error, and the whole document with the error line
// highlighted (in red when color is true, marked with ">>" otherwise).
func (e *ParseError) Render(w io.Writer, color bool) {
	fmt.Fprintf(w, "failed to parse the JSON block described as: %s.\n\n", e.Description)
	fmt.Fprint(w, "The highlighted line is close to the error, though it may be a few lines off.\n\n")
	fmt.Fprintf(w, ">>> Error: %v (line %d column %d)\n", e.Cause, e.Line, e.Column)

	lines := bytes.Split(e.Source, []byte("\n"))
	for i, l := range lines {
		if i+1 != e.Line {
			fmt.Fprintf(w, "   %s\n", l)
			continue
		}
		if color {
			fmt.Fprintf(w, "%s>> %s%s\n", colorRed, l, colorReset)
		} else {
			fmt.Fprintf(w, ">> %s\n", l)
		}
	}
}
