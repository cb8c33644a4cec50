package model

import "github.com/shopspring/decimal"

// MembershipPlan is static reference data. The catalog is defined in
// code and never persisted; memberships reference plans by ID.
type MembershipPlan struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	MonthlyPrice    decimal.Decimal `json:"monthly_price"`
	YearlyPrice     decimal.Decimal `json:"yearly_price"`
	DiscountPercent int             `json:"discount_percent"` // off order totals while active
	Features        []string        `json:"features"`
}

// Price returns the charge for one billing cycle.
func (p MembershipPlan) Price(cycle BillingCycle) decimal.Decimal {
	if cycle == BillingYearly {
		return p.YearlyPrice
	}
	return p.MonthlyPrice
}

var planCatalog = []MembershipPlan{
	{
		ID:              "plan-basic",
		Name:            "Basic",
		MonthlyPrice:    decimal.NewFromInt(199),
		YearlyPrice:     decimal.NewFromInt(1999),
		DiscountPercent: 5,
		Features:        []string{"5% off all orders", "priority pickup slots"},
	},
	{
		ID:              "plan-plus",
		Name:            "Plus",
		MonthlyPrice:    decimal.NewFromInt(399),
		YearlyPrice:     decimal.NewFromInt(3999),
		DiscountPercent: 10,
		Features:        []string{"10% off all orders", "priority pickup slots", "free delivery"},
	},
	{
		ID:              "plan-premium",
		Name:            "Premium",
		MonthlyPrice:    decimal.NewFromInt(699),
		YearlyPrice:     decimal.NewFromInt(6999),
		DiscountPercent: 15,
		Features:        []string{"15% off all orders", "same-day turnaround", "free delivery", "dedicated support"},
	},
}

// Plans returns the full plan catalog.
func Plans() []MembershipPlan {
	out := make([]MembershipPlan, len(planCatalog))
	copy(out, planCatalog)
	return out
}

// PlanByID looks up a plan in the catalog.
func PlanByID(id string) (MembershipPlan, bool) {
	for _, p := range planCatalog {
		if p.ID == id {
			return p, true
		}
	}
	return MembershipPlan{}, false
}
