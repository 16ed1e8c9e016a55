// Package router normalizes inbound event envelopes and routes them to
// infrastructure endpoints, the subscription admin surface, or JSON-RPC
// dispatch behind the middleware chain.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	config "github.com/tbeaudouin05/mcp-gateway/api/config"
	event "github.com/tbeaudouin05/mcp-gateway/api/event"
	"github.com/tbeaudouin05/mcp-gateway/api/middleware"
	ratelimit "github.com/tbeaudouin05/mcp-gateway/api/ratelimit"
	rpc "github.com/tbeaudouin05/mcp-gateway/api/rpc"
	app "github.com/tbeaudouin05/mcp-gateway/api/services/billing/app"
)

// Handler routes normalized events. The JSON-RPC POST path runs behind
// mandatory auth with usage tracking and rate limiting; the subscription
// surface composes its own chains per endpoint.
type Handler struct {
	svc        app.Service
	dispatcher *rpc.Dispatcher
	spec       *specSource

	post   middleware.Handler
	info   middleware.Handler
	usage  middleware.Handler
	cancel middleware.Handler
}

// New wires a Handler from its collaborators. svc may be nil, in which case
// the subscription surface answers 503 and the POST path runs without auth.
func New(svc app.Service, dispatcher *rpc.Dispatcher, limiter *ratelimit.Limiter, openAPIPath string) *Handler {
	h := &Handler{
		svc:        svc,
		dispatcher: dispatcher,
		spec:       newSpecSource(openAPIPath),
	}

	if svc != nil {
		h.post = middleware.Chain(h.handlePOST,
			middleware.RequireAPIKey(svc, true),
			middleware.WithRateLimiting(limiter))
		h.info = middleware.Chain(h.handleSubscriptionInfo, middleware.OptionalAPIKey(svc))
		h.usage = middleware.Chain(h.handleUsageUpdate, middleware.RequireAPIKey(svc, false))
		h.cancel = middleware.Chain(h.handleCancel, middleware.RequireAPIKey(svc, false))
	} else {
		h.post = h.handlePOST
	}

	return h
}

// Handle processes one raw event envelope. It never panics: unexpected
// failures surface as a 500 with a stable error code.
func (h *Handler) Handle(ctx context.Context, raw []byte) (resp event.Response) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("unhandled panic in gateway handler", "panic", r)
			resp = event.Error(500, "GATEWAY_HANDLER_ERROR", "The gateway encountered an unexpected error", nil)
		}
	}()

	var probe map[string]any
	if err := json.Unmarshal(raw, &probe); err != nil {
		return event.Error(400, "INVALID_JSON", "Event envelope contains invalid JSON", nil)
	}

	if _, ok := probe["httpMethod"]; ok {
		var evt event.Event
		if err := json.Unmarshal(raw, &evt); err != nil {
			return event.Error(400, "INVALID_JSON", "Event envelope contains invalid JSON", nil)
		}
		slog.Info("gateway invoked", "method", evt.HTTPMethod, "path", evt.Path)
		return h.handleHTTP(ctx, evt)
	}

	// A bare JSON-RPC object at the top level skips the HTTP surface and is
	// dispatched directly; results come back unwrapped.
	if _, ok := probe["method"]; ok {
		return event.JSON(200, h.dispatcher.Dispatch(ctx, probe, rpc.ModeDirect))
	}

	return event.JSON(200, map[string]any{
		"message":   config.ServiceName,
		"version":   config.CurrentVersion(),
		"timestamp": event.Timestamp(),
	})
}

func (h *Handler) handleHTTP(ctx context.Context, evt event.Event) event.Response {
	method := evt.HTTPMethod
	if method == "" {
		method = "GET"
	}
	path := evt.Path
	if path == "" {
		path = "/"
	}
	evt.HTTPMethod, evt.Path = method, path

	switch {
	case strings.HasPrefix(path, "/subscription/"):
		return h.handleSubscription(ctx, evt)

	case path == "/health" && method == "GET":
		return event.JSON(200, map[string]any{
			"status":    "healthy",
			"service":   config.ServiceName,
			"version":   config.CurrentVersion(),
			"timestamp": event.Timestamp(),
		})

	case (path == "/openapi.yaml" || path == "/openapi.yml") && method == "GET":
		doc, err := h.spec.YAML()
		if err != nil {
			slog.Error("failed to serve OpenAPI spec", "error", err)
			return event.Error(500, "OPENAPI_LOAD_ERROR", "Failed to load OpenAPI specification", nil)
		}
		return event.Response{
			StatusCode: 200,
			Headers:    map[string]string{"Content-Type": "application/x-yaml"},
			Body:       doc,
		}

	case path == "/openapi.json" && method == "GET":
		doc, err := h.spec.JSONDoc()
		if err != nil {
			slog.Error("failed to serve OpenAPI spec as JSON", "error", err)
			return event.Error(500, "OPENAPI_JSON_ERROR", "Failed to convert OpenAPI specification to JSON", nil)
		}
		return event.JSON(200, doc)

	case method == "POST":
		return h.post(ctx, evt)

	case method != "GET" && method != "OPTIONS":
		resp := event.Error(405, "UNSUPPORTED_METHOD",
			"HTTP method '"+method+"' is not supported",
			map[string]any{"details": "Use GET for health checks and server info, POST for JSON-RPC requests and data submission."})
		resp.Headers["Allow"] = "GET, POST, OPTIONS"
		return resp

	case method == "GET" && path != "/":
		return event.Error(404, "INVALID_ENDPOINT",
			"Endpoint '"+path+"' not found",
			map[string]any{"available_endpoints": map[string]string{
				"GET /":             "Server information",
				"GET /health":       "Health check",
				"GET /openapi.yaml": "OpenAPI specification (YAML)",
				"GET /openapi.json": "OpenAPI specification (JSON)",
				"POST /":            "JSON-RPC requests and data submission",
			}})

	default:
		return event.JSON(200, map[string]any{
			"message":   config.ServiceName,
			"version":   config.CurrentVersion(),
			"timestamp": event.Timestamp(),
			"method":    method,
			"path":      path,
			"endpoints": map[string]string{
				"health":       "/health",
				"rpc":          "POST / with JSON-RPC payload",
				"openapi_yaml": "/openapi.yaml",
				"openapi_json": "/openapi.json",
			},
		})
	}
}

// handlePOST runs after auth and rate limiting.
func (h *Handler) handlePOST(ctx context.Context, evt event.Event) event.Response {
	body, err := evt.ParseBody()
	if err != nil {
		return bodyErrorResponse(err)
	}

	if isEmptyBody(body) {
		return event.Error(400, "MISSING_BODY", "POST request requires a JSON body", map[string]any{
			"details": "Send a JSON payload in the request body. For JSON-RPC requests, include 'jsonrpc', 'method', and 'id' fields.",
		})
	}

	if event.IsRPCShaped(body) {
		return event.JSON(200, h.dispatcher.Dispatch(ctx, body.(map[string]any), rpc.ModeHTTP))
	}

	return event.JSON(200, map[string]any{
		"message":       "POST request received",
		"service":       config.ServiceName,
		"version":       config.CurrentVersion(),
		"timestamp":     event.Timestamp(),
		"received_data": body,
		"path":          evt.Path,
		"method":        evt.HTTPMethod,
	})
}

func bodyErrorResponse(err error) event.Response {
	var syn *event.SyntaxError
	if errors.As(err, &syn) {
		return event.Error(400, "INVALID_JSON", "Request body contains invalid JSON", map[string]any{
			"details":    syn.Error(),
			"line":       syn.Line,
			"column":     syn.Column,
			"suggestion": "Validate your JSON syntax. Common issues: trailing commas, unquoted keys, invalid escape sequences.",
		})
	}
	if errors.Is(err, event.ErrBadBase64) || errors.Is(err, event.ErrBodyTooLarge) || errors.Is(err, event.ErrBodyNotObject) {
		return event.Error(422, "VALIDATION_ERROR", "Request validation failed", map[string]any{
			"details": err.Error(),
		})
	}
	return event.Error(500, "PROCESSING_ERROR", "Failed to process POST request", map[string]any{
		"details": "An unexpected error occurred while processing your request. Please try again.",
	})
}

// isEmptyBody mirrors the falsiness rule applied to parsed bodies: empty
// containers and zero scalars count as no payload.
func isEmptyBody(body any) bool {
	switch v := body.(type) {
	case nil:
		return true
	case map[string]any:
		return len(v) == 0
	case []any:
		return len(v) == 0
	case float64:
		return v == 0
	case bool:
		return !v
	default:
		return false
	}
}
