package router

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	config "github.com/tbeaudouin05/mcp-gateway/api/config"
)

// specSource loads the OpenAPI document once and serves it in both YAML and
// JSON form. A missing document falls back to a generated minimal spec so the
// endpoint never 404s.
type specSource struct {
	explicitPath string

	once sync.Once
	yaml string
	err  error
}

func newSpecSource(explicitPath string) *specSource {
	return &specSource{explicitPath: explicitPath}
}

func (s *specSource) candidatePaths() []string {
	var paths []string
	if s.explicitPath != "" {
		paths = append(paths, s.explicitPath)
	}
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, "openapi.yaml"))
	}
	paths = append(paths, "/opt/openapi.yaml", "/var/task/openapi.yaml")
	return paths
}

func (s *specSource) load() {
	for _, path := range s.candidatePaths() {
		raw, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		slog.Info("loaded OpenAPI spec", "path", path)
		s.yaml = string(raw)
		return
	}

	slog.Warn("OpenAPI specification file not found, generating minimal spec")
	minimal := map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":       "MCP Gateway API",
			"version":     config.CurrentVersion(),
			"description": "JSON-RPC tool-invocation gateway",
		},
		"paths": map[string]any{
			"/health": map[string]any{
				"get": map[string]any{
					"summary": "Health Check",
					"responses": map[string]any{
						"200": map[string]any{"description": "Server is healthy"},
					},
				},
			},
		},
	}
	out, err := yaml.Marshal(minimal)
	if err != nil {
		s.err = fmt.Errorf("generating fallback OpenAPI spec: %w", err)
		return
	}
	s.yaml = string(out)
}

// YAML returns the spec document as a YAML string.
func (s *specSource) YAML() (string, error) {
	s.once.Do(s.load)
	return s.yaml, s.err
}

// JSONDoc returns the spec document as a structured object suitable for JSON
// encoding.
func (s *specSource) JSONDoc() (map[string]any, error) {
	raw, err := s.YAML()
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("parsing OpenAPI YAML: %w", err)
	}
	return doc, nil
}
