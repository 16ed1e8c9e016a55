package router

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	event "github.com/tbeaudouin05/mcp-gateway/api/event"
	"github.com/tbeaudouin05/mcp-gateway/api/logging"
)

// HTTPAdapter exposes a Handler as a net/http handler by converting each
// request into an event envelope.
type HTTPAdapter struct {
	handler *Handler
}

// NewHTTPAdapter wraps h for serving over net/http.
func NewHTTPAdapter(h *Handler) *HTTPAdapter {
	return &HTTPAdapter{handler: h}
}

func (a *HTTPAdapter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, requestID := logging.WithRequestID(r.Context())
	slog.Info("request received", "request_id", requestID, "method", r.Method, "path", r.URL.Path)

	body, err := io.ReadAll(io.LimitReader(r.Body, event.MaxBodyBytes+1))
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	headers := make(map[string]string, len(r.Header))
	for name := range r.Header {
		headers[name] = r.Header.Get(name)
	}

	evt := event.Event{
		HTTPMethod: r.Method,
		Path:       r.URL.Path,
		Headers:    headers,
		Body:       string(body),
	}
	raw, err := json.Marshal(evt)
	if err != nil {
		http.Error(w, "failed to encode event", http.StatusInternalServerError)
		return
	}

	resp := a.handler.Handle(ctx, raw)

	for name, value := range resp.Headers {
		w.Header().Set(name, value)
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.WriteString(w, resp.Body); err != nil {
		slog.Error("failed to write response", "request_id", logging.RequestID(ctx), "error", err)
	}
}
