package models

import "time"

type SubscriptionType string

const (
	SubscriptionMonthly    SubscriptionType = "monthly"
	SubscriptionThreeMonth SubscriptionType = "three_month"
	SubscriptionSixMonth   SubscriptionType = "six_month"
	SubscriptionPopular    SubscriptionType = "popular"
	SubscriptionOnetime    SubscriptionType = "onetime"
	SubscriptionAnnual     SubscriptionType = "annual"
)

// PlanOrderType returns the order type paired with a subscription of
// this type (e.g. monthly -> monthly_plan).
func (t SubscriptionType) PlanOrderType() OrderType {
	return OrderType(string(t) + "_plan")
}

type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	SubscriptionExpired   SubscriptionStatus = "expired"
	SubscriptionPending   SubscriptionStatus = "pending"
)

// Subscription is a recurring-plan enrollment. Every subscription row
// created from a test has a paired Order of type <type>_plan; the two
// are never split across inconsistent states.
type Subscription struct {
	ID               int64              `json:"id" db:"id"`
	UserID           int64              `json:"user_id" db:"user_id"`
	SubscriptionType SubscriptionType   `json:"subscription_type" db:"subscription_type"`
	Status           SubscriptionStatus `json:"status" db:"status"`
	StartDate        time.Time          `json:"start_date" db:"start_date"`
	EndDate          time.Time          `json:"end_date" db:"end_date"`
	Amount           float64            `json:"amount" db:"amount"`
	AutoRenew        bool               `json:"auto_renew" db:"auto_renew"`
	PaymentMethod    string             `json:"payment_method" db:"payment_method"`
	CreatedAt        time.Time          `json:"created_at" db:"created_at"`
}
