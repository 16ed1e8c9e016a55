package event

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

// MaxBodyBytes is the largest accepted request body (after base64 decoding).
const MaxBodyBytes = 1 << 20

// Typed body-parse failures. These are data for the router's error mapping,
// never propagated past the transport boundary.
var (
	// ErrBadBase64 indicates the body was declared base64-encoded but did not decode.
	ErrBadBase64 = errors.New("failed to decode base64 body")
	// ErrBodyTooLarge indicates the body exceeds MaxBodyBytes.
	ErrBodyTooLarge = errors.New("request body too large, maximum size is 1MB")
	// ErrBodyNotObject indicates the body parsed to a bare string rather than a structured value.
	ErrBodyNotObject = errors.New("request body should be a JSON object, not a string")
)

// SyntaxError reports a JSON decode failure with positional detail.
type SyntaxError struct {
	Line   int
	Column int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid JSON at line %d, column %d: %s", e.Line, e.Column, e.Msg)
}

// ParseBody decodes the event body according to the envelope rules:
// optional base64 decoding, a 1 MiB size cap, JSON parsing, and rejection of
// bare-string bodies. An empty body yields (nil, nil); the caller decides how
// to respond to a missing body.
func (e Event) ParseBody() (any, error) {
	body := e.Body
	if body == "" {
		return nil, nil
	}

	if e.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadBase64, err)
		}
		body = string(decoded)
	}

	if len(body) > MaxBodyBytes {
		return nil, ErrBodyTooLarge
	}

	var parsed any
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		var syn *json.SyntaxError
		if errors.As(err, &syn) {
			line, col := positionAt(body, syn.Offset)
			return nil, &SyntaxError{Line: line, Column: col, Msg: syn.Error()}
		}
		return nil, &SyntaxError{Line: 1, Column: 1, Msg: err.Error()}
	}

	if _, isString := parsed.(string); isString {
		return nil, ErrBodyNotObject
	}

	return parsed, nil
}

// positionAt converts a byte offset into 1-based line and column numbers.
func positionAt(body string, offset int64) (line, col int) {
	if offset > int64(len(body)) {
		offset = int64(len(body))
	}
	line, col = 1, 1
	for _, b := range []byte(body[:offset]) {
		if b == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
