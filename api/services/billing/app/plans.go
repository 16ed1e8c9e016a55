package app

import config "github.com/tbeaudouin05/mcp-gateway/api/config"

// PlanLimits are the per-plan ceilings applied by the middleware chain.
// MonthlyRequests of -1 means unlimited.
type PlanLimits struct {
	MonthlyRequests int64 `json:"monthly_requests"`
	// RateLimit is requests per minute.
	RateLimit  int `json:"rate_limit"`
	BurstLimit int `json:"burst_limit"`
}

// Plan is one named pricing tier.
type Plan struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Limits      PlanLimits `json:"limits"`
}

// SubscriptionPlans is the static plan catalog, keyed by plan ID.
var SubscriptionPlans = map[string]Plan{
	"basic": {
		ID:          "basic",
		Name:        "Basic Plan",
		Description: "Essential AI infrastructure tools",
		Limits:      PlanLimits{MonthlyRequests: 10000, RateLimit: 100, BurstLimit: 500},
	},
	"professional": {
		ID:          "professional",
		Name:        "Professional Plan",
		Description: "Advanced AI orchestration for growing teams",
		Limits:      PlanLimits{MonthlyRequests: 100000, RateLimit: 500, BurstLimit: 2000},
	},
	"enterprise": {
		ID:          "enterprise",
		Name:        "Enterprise Plan",
		Description: "Custom enterprise AI infrastructure",
		Limits:      PlanLimits{MonthlyRequests: -1, RateLimit: 2000, BurstLimit: 10000},
	},
}

// LimitsFor resolves a plan ID to its limits, falling back to the basic plan
// when the ID is unrecognized.
func LimitsFor(planID string) PlanLimits {
	if plan, ok := SubscriptionPlans[planID]; ok {
		return plan.Limits
	}
	return SubscriptionPlans[config.DefaultPlanID].Limits
}
