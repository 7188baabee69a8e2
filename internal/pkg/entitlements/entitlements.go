package entitlements

type Plan string

const (
	PlanFree    Plan = "free"
	PlanPremium Plan = "premium"
)

// FreeTierSubscriptionLimit caps active subscriptions for free accounts.
const FreeTierSubscriptionLimit = 5

// PlanFor maps the stored premium flag to a plan.
func PlanFor(isPremium bool) Plan {
	if isPremium {
		return PlanPremium
	}
	return PlanFree
}

// MaxActiveSubscriptions returns the active-subscription cap for a plan,
// or 0 for unlimited.
func MaxActiveSubscriptions(plan Plan) int {
	if plan == PlanPremium {
		return 0
	}
	return FreeTierSubscriptionLimit
}

// CanAddSubscription reports whether an account with the given plan and
// current active count may create another subscription.
func CanAddSubscription(plan Plan, activeCount int64) bool {
	limit := MaxActiveSubscriptions(plan)
	return limit == 0 || activeCount < int64(limit)
}

// CanExport reports whether CSV export is available on a plan.
func CanExport(plan Plan) bool {
	return plan == PlanPremium
}
