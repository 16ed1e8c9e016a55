package rpc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tbeaudouin05/mcp-gateway/api/tools"
)

// Mode selects the tool-result shape. The HTTP POST path historically wraps
// tool results in a status envelope while the direct-RPC path returns the raw
// handler value; the difference is kept deliberate and explicit here instead
// of being unified.
type Mode int

const (
	// ModeDirect returns the raw tool handler value as the JSON-RPC result.
	ModeDirect Mode = iota
	// ModeHTTP wraps tool results as {"status":"success","tool":...,"result":...}.
	ModeHTTP
)

// Dispatcher validates JSON-RPC envelopes and executes methods against the
// tool registry. It is stateless per request and safe for concurrent use.
type Dispatcher struct {
	registry *tools.Registry
}

// NewDispatcher builds a dispatcher over an immutable registry.
func NewDispatcher(registry *tools.Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Dispatch runs one request to completion: envelope validation, method
// resolution, invocation, and error mapping. It never returns an error; all
// failures become JSON-RPC error objects.
func (d *Dispatcher) Dispatch(ctx context.Context, body map[string]any, mode Mode) Response {
	id := body["id"]

	if version, _ := body["jsonrpc"].(string); version != ProtocolVersion {
		return errorResponse(id, CodeInvalidRequest, "Invalid Request", map[string]any{
			"details":  "Missing or invalid 'jsonrpc' field. Must be '2.0'.",
			"received": body["jsonrpc"],
			"expected": ProtocolVersion,
		})
	}

	method, _ := body["method"].(string)
	if method == "" {
		return errorResponse(id, CodeInvalidRequest, "Invalid Request", map[string]any{
			"details":         "Missing 'method' field in request.",
			"required_fields": []string{"jsonrpc", "method", "id"},
			"received_fields": fieldNames(body),
		})
	}

	// Notifications are not supported: a request without an id is an error,
	// and there is no id to echo back.
	if id == nil {
		return errorResponse(nil, CodeInvalidRequest, "Invalid Request", map[string]any{
			"details": "Missing 'id' field in request.",
			"note":    "The 'id' field is required for request/response correlation.",
		})
	}

	params, _ := body["params"].(map[string]any)

	switch method {
	case "ping":
		return resultResponse(id, map[string]any{
			"status":    "pong",
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		})
	case "tools/list":
		return resultResponse(id, map[string]any{"tools": d.registry.List()})
	case "tools/call":
		return d.callTool(ctx, id, params, mode)
	default:
		return errorResponse(id, CodeMethodNotFound, "Method not found", map[string]any{
			"method":            method,
			"available_methods": topLevelMethods,
			"details":           fmt.Sprintf("Method '%s' is not implemented by this server.", method),
		})
	}
}

func (d *Dispatcher) callTool(ctx context.Context, id any, params map[string]any, mode Mode) (resp Response) {
	name, _ := params["name"].(string)
	if name == "" {
		return errorResponse(id, CodeInvalidParams, "Invalid params", map[string]any{
			"details":         "Missing 'name' parameter for tool call.",
			"required_params": []string{"name"},
			"received_params": fieldNames(params),
		})
	}

	args, _ := params["arguments"].(map[string]any)
	if args == nil {
		args = map[string]any{}
	}

	// The tool handler is untrusted code as far as the envelope is
	// concerned; a panic must surface as -32603, not a transport fault.
	defer func() {
		if r := recover(); r != nil {
			slog.Error("tool handler panicked", "tool", name, "panic", r)
			resp = errorResponse(id, CodeInternalError, "Internal error", map[string]any{
				"details":    fmt.Sprintf("tool '%s' failed unexpectedly", name),
				"tool":       name,
				"suggestion": "Please check your request format and try again.",
			})
		}
	}()

	out, err := d.registry.Invoke(ctx, name, args)
	if err != nil {
		return d.toolError(id, name, err)
	}

	if mode == ModeHTTP {
		return resultResponse(id, map[string]any{
			"status": "success",
			"tool":   name,
			"result": out,
		})
	}
	return resultResponse(id, out)
}

// toolError classifies a handler failure: unknown tool, invalid input, or
// internal fault. Tool-not-found is scoped to the tool namespace so clients
// can tell it apart from an unknown top-level method.
func (d *Dispatcher) toolError(id any, name string, err error) Response {
	if errors.Is(err, tools.ErrNotFound) {
		return errorResponse(id, CodeMethodNotFound, "Tool not found", map[string]any{
			"tool":            name,
			"available_tools": d.registry.Names(),
			"details":         fmt.Sprintf("Tool '%s' is not registered.", name),
		})
	}

	var verr *tools.ValidationError
	if errors.As(err, &verr) {
		return errorResponse(id, CodeInvalidParams, "Invalid params", map[string]any{
			"details": verr.Detail,
			"tool":    name,
		})
	}

	slog.Error("tool invocation failed", "tool", name, "err", err)
	return errorResponse(id, CodeInternalError, "Internal error", map[string]any{
		"details":    fmt.Sprintf("An unexpected error occurred: %v", err),
		"tool":       name,
		"suggestion": "Please check your request format and try again.",
	})
}

func fieldNames(m map[string]any) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	return names
}
