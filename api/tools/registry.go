// Package tools provides the named tool catalog reachable through the
// JSON-RPC "tools/call" method.
package tools

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound indicates the requested tool name is not registered.
var ErrNotFound = errors.New("tool not found")

// ValidationError marks a tool-input failure. The dispatcher maps it to
// JSON-RPC -32602 rather than -32603, so handlers must return it (or wrap it)
// for any expected-invalid-input condition.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string { return e.Detail }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{Detail: fmt.Sprintf(format, args...)}
}

// Handler executes a tool with already-decoded arguments.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// Tool is one registry entry.
type Tool struct {
	Name        string
	Description string
	InputSchema map[string]any
	Handler     Handler
}

// Descriptor is the catalog view of a tool, without its handler.
type Descriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema,omitempty"`
}

// Registry is an immutable, ordered tool table. It is built once at startup
// and is safe for unsynchronized concurrent reads; there is no runtime
// registration.
type Registry struct {
	order  []string
	byName map[string]Tool
}

// NewRegistry builds a registry from an explicit, ordered tool list.
// Registration order is preserved for List.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{byName: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		if t.Name == "" {
			return nil, errors.New("tool with empty name")
		}
		if t.Handler == nil {
			return nil, fmt.Errorf("tool %q has no handler", t.Name)
		}
		if _, dup := r.byName[t.Name]; dup {
			return nil, fmt.Errorf("duplicate tool name %q", t.Name)
		}
		r.byName[t.Name] = t
		r.order = append(r.order, t.Name)
	}
	return r, nil
}

// List returns descriptors in registration order.
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		t := r.byName[name]
		out = append(out, Descriptor{Name: t.Name, Description: t.Description, InputSchema: t.InputSchema})
	}
	return out
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Invoke runs the named tool. Unknown names return ErrNotFound; handler
// failures pass through unchanged so the caller can classify them.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) (any, error) {
	t, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if args == nil {
		args = map[string]any{}
	}
	return t.Handler(ctx, args)
}
