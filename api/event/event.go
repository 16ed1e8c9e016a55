// Package event defines the inbound request envelope and the HTTP-shaped
// response model shared by the router and the middleware chain.
//
// The envelope mirrors an API-Gateway style proxy event: an HTTP-shaped
// record with method/path/headers/body, or a bare JSON-RPC object at the top
// level. Callers are not required to pre-normalize either shape.
package event

import "strings"

// Event is the normalized inbound request envelope.
type Event struct {
	HTTPMethod      string            `json:"httpMethod,omitempty"`
	Path            string            `json:"path,omitempty"`
	Headers         map[string]string `json:"headers,omitempty"`
	Body            string            `json:"body,omitempty"`
	IsBase64Encoded bool              `json:"isBase64Encoded,omitempty"`
}

// Header returns the named header, matching case-insensitively.
func (e Event) Header(name string) string {
	for k, v := range e.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// IsRPCShaped reports whether a parsed body is a JSON-RPC style object,
// i.e. a map carrying both "jsonrpc" and "method" keys.
func IsRPCShaped(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	_, hasVersion := m["jsonrpc"]
	_, hasMethod := m["method"]
	return hasVersion && hasMethod
}
