package model

import (
	"fmt"
	"time"
)

type Subscription struct {
	ID                     string     `db:"id"`
	UserID                 string     `db:"user_id"`
	PlanID                 string     `db:"plan_id"`
	Status                 string     `db:"status"`
	Provider               string     `db:"provider"`
	ProviderCustomerID     *string    `db:"provider_customer_id"`
	ProviderSubscriptionID *string    `db:"provider_subscription_id"`
	CurrentPeriodEnd       *time.Time `db:"current_period_end"`
	Amount                 *int       `db:"amount"`
	Currency               string     `db:"currency"`
	Interval               *string    `db:"interval"`
	CreatedAt              time.Time  `db:"created_at"`
	UpdatedAt              time.Time  `db:"updated_at"`
}

const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusCancelled = "cancelled"
)

const (
	ProviderPolar  = "polar"
	ProviderStripe = "stripe"
)

const (
	SubscriptionPlanFree    = "free"
	SubscriptionPlanPremium = "premium"
)

const (
	SubscriptionIntervalMonthly = "monthly"
	SubscriptionIntervalYearly  = "yearly"
)

func (s *Subscription) IsActive() bool {
	return s.Status == SubscriptionStatusActive
}

// IsPremium reports whether the user has a paid, active plan. Premium gates
// the extended chat screen and premium guides; the daily drip is free.
func (s *Subscription) IsPremium() bool {
	return s.PlanID == SubscriptionPlanPremium && s.IsActive()
}

func (s *Subscription) FormatPrice() string {
	if s.Amount == nil || *s.Amount == 0 {
		return ""
	}

	currencySymbols := map[string]string{
		"usd": "$",
		"eur": "€",
		"brl": "R$",
	}

	amount := float64(*s.Amount) / 100.0
	symbol := currencySymbols[s.Currency]
	if symbol == "" {
		symbol = "$"
	}

	interval := "month"
	if s.Interval != nil && *s.Interval == SubscriptionIntervalYearly {
		interval = "year"
	}

	return fmt.Sprintf("%s%.0f/%s", symbol, amount, interval)
}

// Entitlement keys for one-off paid programs, granted independently of the
// recurring subscription plan.
const (
	EntitlementDetox21      = "detox21"
	EntitlementCodigoMental = "codigo_mental"
)

type Entitlement struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Key       string    `db:"key"`
	GrantedAt time.Time `db:"granted_at"`
}
