package bootstrap

import (
	"context"
	"fmt"
	"sync"

	"github.com/tbeaudouin05/mcp-gateway/api/config"
	"github.com/tbeaudouin05/mcp-gateway/api/database"
	"github.com/tbeaudouin05/mcp-gateway/api/ratelimit"
	"github.com/tbeaudouin05/mcp-gateway/api/router"
	"github.com/tbeaudouin05/mcp-gateway/api/rpc"
	app "github.com/tbeaudouin05/mcp-gateway/api/services/billing/app"
	billingdb "github.com/tbeaudouin05/mcp-gateway/api/services/billing/db"
	stripegw "github.com/tbeaudouin05/mcp-gateway/api/services/billing/gateway/stripe"
	"github.com/tbeaudouin05/mcp-gateway/api/tools"
)

var billingService app.Service
var gatewayHandler *router.Handler
var initOnce sync.Once
var initErr error

// Init initializes config, database, and third-party clients, and wires the
// gateway handler.
func Init() error {
	var err error
	if config.AppConfig == nil {
		config.AppConfig, err = config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}

	// If a service has already been injected (e.g., tests), skip heavy deps.
	if billingService == nil {
		if err := database.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}

		stripegw.SetKey(config.AppConfig.StripeSecretKey)

		store := billingdb.New()
		if err := store.EnsureSchema(context.Background()); err != nil {
			return fmt.Errorf("failed to ensure billing schema: %w", err)
		}
		billingService = app.NewService(stripegw.New(), store)
	}

	registry, err := tools.NewRegistry(tools.Builtin(config.AppConfig.Version, config.AppConfig.Environment)...)
	if err != nil {
		return fmt.Errorf("failed to build tool registry: %w", err)
	}

	gatewayHandler = router.New(
		billingService,
		rpc.NewDispatcher(registry),
		ratelimit.NewMemory(),
		config.AppConfig.OpenAPIPath,
	)
	return nil
}

func GetBillingService() app.Service { return billingService }

// SetBillingService allows tests to inject a stub implementation.
func SetBillingService(s app.Service) { billingService = s }

func GetHandler() *router.Handler { return gatewayHandler }

// Ensure runs Init() once per process and returns any initialization error.
func Ensure() error {
	initOnce.Do(func() {
		initErr = Init()
	})
	return initErr
}
