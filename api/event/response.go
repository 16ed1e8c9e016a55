package event

import (
	"encoding/json"
	"fmt"
	"time"

	config "github.com/tbeaudouin05/mcp-gateway/api/config"
)

// Response is the HTTP-shaped transport response.
type Response struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`
}

// Timestamp returns a freshly computed UTC timestamp for response bodies.
// Responses never reuse a cached timestamp.
func Timestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// JSON builds a 200-style response with a JSON-encoded payload.
func JSON(status int, payload any) Response {
	b, err := json.Marshal(payload)
	if err != nil {
		// Marshal of map/struct payloads cannot realistically fail; keep the
		// transport contract intact regardless.
		b = []byte(fmt.Sprintf(`{"error":"Internal Server Error","error_code":"ENCODING_ERROR","message":%q}`, err.Error()))
		status = 500
	}
	return Response{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(b),
	}
}

var errorTitles = map[int]string{
	400: "Bad Request",
	401: "Unauthorized",
	403: "Forbidden",
	404: "Not Found",
	405: "Method Not Allowed",
	422: "Unprocessable Entity",
	429: "Too Many Requests",
	500: "Internal Server Error",
	502: "Bad Gateway",
	503: "Service Unavailable",
	504: "Gateway Timeout",
}

// Error builds a structured error response carrying the stable machine code
// both in the body and in the X-Error-Code header. extra fields are merged
// into the body.
func Error(status int, code, message string, extra map[string]any) Response {
	title, ok := errorTitles[status]
	if !ok {
		title = "Error"
	}

	body := map[string]any{
		"error":      title,
		"error_code": code,
		"message":    message,
		"timestamp":  Timestamp(),
		"service":    config.ServiceName,
		"version":    config.CurrentVersion(),
	}
	for k, v := range extra {
		body[k] = v
	}

	// Helpful hints per status class
	switch {
	case status == 400:
		body["suggestions"] = []string{
			"Check request format and content type",
			"Ensure JSON is properly formatted",
			"Verify all required fields are present",
		}
	case status == 404:
		body["suggestions"] = []string{
			"Check the URL path",
			"Use GET /health for health checks",
			"Use POST / for JSON-RPC requests",
		}
	case status == 405:
		body["allowed_methods"] = []string{"GET", "POST", "OPTIONS"}
	case status >= 500:
		body["suggestions"] = []string{
			"Try your request again in a few moments",
			"Check server status at /health endpoint",
			"Contact support if the issue persists",
		}
	}

	b, _ := json.Marshal(body)
	return Response{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":                 "application/json",
			"X-Error-Code":                 code,
			"Access-Control-Allow-Origin":  "*",
			"Access-Control-Allow-Headers": "Content-Type,Authorization,X-Api-Key",
			"Access-Control-Allow-Methods": "GET,POST,OPTIONS",
		},
		Body: string(b),
	}
}
