package config

import (
	"log"
	"strings"
)

const (
	// ServiceName identifies this service in response bodies and logs
	ServiceName = "mcp-gateway"

	// DefaultVersion is used when VERSION is not set in the environment
	DefaultVersion = "1.0.0"

	// DefaultPlanID is the plan assumed when a subscription carries an unknown plan
	DefaultPlanID = "basic"

	// ProdDbID is the identifier for the production database
	ProdDbID = "prod-cluster"
)

// CheckNotProdDB aborts immediately if the configured database URL contains ProdDbID.
// This should be called at the start of any test that interacts with the database.
func CheckNotProdDB() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DatabaseURL is not configured")
	}
	if strings.Contains(cfg.DatabaseURL, ProdDbID) {
		log.Fatalf("Tests aborted: DatabaseURL contains production identifier %s", ProdDbID)
	}
}
