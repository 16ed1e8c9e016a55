package tools

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

const (
	maxNameLen    = 100
	maxMessageLen = 1000
	maxRepeat     = 10
	maxNumbers    = 100
)

// Builtin returns the standard tool set in its fixed registration order.
// version and environment feed get_server_info.
func Builtin(version, environment string) []Tool {
	return []Tool{
		{
			Name:        "hello_world",
			Description: "Greet someone",
			InputSchema: objectSchema(map[string]any{
				"name": map[string]any{"type": "string", "description": "The name to greet", "default": "World"},
			}),
			Handler: helloWorld,
		},
		{
			Name:        "get_current_time",
			Description: "Get current timestamp",
			InputSchema: objectSchema(map[string]any{}),
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return time.Now().UTC().Format(time.RFC3339Nano), nil
			},
		},
		{
			Name:        "echo_message",
			Description: "Echo a message",
			InputSchema: objectSchema(map[string]any{
				"message": map[string]any{"type": "string", "description": "The message to echo"},
				"repeat":  map[string]any{"type": "integer", "description": "Number of times to repeat (1-10)", "default": 1},
			}, "message"),
			Handler: echoMessage,
		},
		{
			Name:        "get_server_info",
			Description: "Get server information",
			InputSchema: objectSchema(map[string]any{}),
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return map[string]any{
					"service":     "mcp-gateway",
					"version":     version,
					"status":      "healthy",
					"environment": environment,
					"timestamp":   time.Now().UTC().Format(time.RFC3339Nano),
				}, nil
			},
		},
		{
			Name:        "calculate_sum",
			Description: "Calculate sum of numbers",
			InputSchema: objectSchema(map[string]any{
				"numbers": map[string]any{
					"type":        "array",
					"description": "List of numbers to sum",
					"items":       map[string]any{"type": "number"},
				},
			}, "numbers"),
			Handler: calculateSum,
		},
	}
}

func objectSchema(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{"type": "object", "properties": properties}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func helloWorld(ctx context.Context, args map[string]any) (any, error) {
	name := "World"
	if raw, ok := args["name"]; ok && raw != nil {
		name = fmt.Sprint(raw)
	}
	// Limit length for safety
	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}
	slog.Info("generated greeting", "name", name)
	return fmt.Sprintf("Hello, %s! Welcome to the MCP Gateway.", name), nil
}

func echoMessage(ctx context.Context, args map[string]any) (any, error) {
	raw, ok := args["message"]
	if !ok {
		return nil, Validationf("missing required parameter: message")
	}
	message := fmt.Sprint(raw)

	repeat := 1
	if rawRepeat, ok := args["repeat"]; ok {
		f, isNumber := rawRepeat.(float64)
		if !isNumber || f != float64(int(f)) || int(f) < 1 || int(f) > maxRepeat {
			return nil, Validationf("repeat count must be between 1 and %d", maxRepeat)
		}
		repeat = int(f)
	}

	if len(message) > maxMessageLen {
		message = message[:maxMessageLen]
	}

	parts := make([]string, repeat)
	for i := range parts {
		parts[i] = message
	}
	slog.Info("echoed message", "repeat", repeat)
	return strings.Join(parts, " "), nil
}

func calculateSum(ctx context.Context, args map[string]any) (any, error) {
	raw, ok := args["numbers"]
	if !ok {
		return nil, Validationf("missing required parameter: numbers")
	}
	list, isList := raw.([]any)
	if !isList {
		return nil, Validationf("numbers must be a list, got %T", raw)
	}
	if len(list) == 0 {
		return 0.0, nil
	}
	if len(list) > maxNumbers {
		return nil, Validationf("maximum %d numbers allowed", maxNumbers)
	}

	sum := 0.0
	for i, item := range list {
		n, ok := toNumber(item)
		if !ok {
			return nil, Validationf("invalid number at index %d: %v", i, item)
		}
		sum += n
	}
	slog.Info("calculated sum", "count", len(list))
	return sum, nil
}

// toNumber coerces JSON numbers, numeric strings and booleans to float64.
func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}
