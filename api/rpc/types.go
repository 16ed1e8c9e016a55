// Package rpc implements the JSON-RPC 2.0 request dispatcher for the tool
// service.
package rpc

// ProtocolVersion is the only accepted value of the "jsonrpc" field.
const ProtocolVersion = "2.0"

// Reserved JSON-RPC 2.0 error codes. The dispatcher never invents codes
// outside this range.
const (
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// ErrorObject is the JSON-RPC error member. Data is always a structured
// object, never a bare string, to keep client-side handling uniform.
type ErrorObject struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

// Response is the JSON-RPC response envelope: exactly one of Result or Error
// is populated, and ID echoes the request (null when the request id could
// not be determined).
type Response struct {
	JSONRPC string       `json:"jsonrpc"`
	Result  any          `json:"result,omitempty"`
	Error   *ErrorObject `json:"error,omitempty"`
	ID      any          `json:"id"`
}

// Methods fixed at the top level; tool names are reachable only through
// "tools/call".
var topLevelMethods = []string{"tools/list", "tools/call", "ping"}

func resultResponse(id, result any) Response {
	return Response{JSONRPC: ProtocolVersion, Result: result, ID: id}
}

func errorResponse(id any, code int, message string, data map[string]any) Response {
	if data == nil {
		data = map[string]any{}
	}
	return Response{
		JSONRPC: ProtocolVersion,
		Error:   &ErrorObject{Code: code, Message: message, Data: data},
		ID:      id,
	}
}
