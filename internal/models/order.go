package models

import "time"

type OrderType string

const (
	OrderTypeBookPurchase   OrderType = "book_purchase"
	OrderTypeMonthlyPlan    OrderType = "monthly_plan"
	OrderTypeThreeMonthPlan OrderType = "three_month_plan"
	OrderTypeSixMonthPlan   OrderType = "six_month_plan"
	OrderTypePopularPlan    OrderType = "popular_plan"
	OrderTypeOnetimePlan    OrderType = "onetime_plan"
)

type PaymentStatus string

const (
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

type OrderStatus string

const (
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// Order is the financial record created for a categorized test. BookID
// is set only for book_purchase orders; CompletedDate only when the
// originating test passed.
type Order struct {
	ID            int64         `json:"id" db:"id"`
	OrderNumber   string        `json:"order_number" db:"order_number"`
	UserID        int64         `json:"user_id" db:"user_id"`
	BookID        *int64        `json:"book_id,omitempty" db:"book_id"`
	OrderType     OrderType     `json:"order_type" db:"order_type"`
	Amount        float64       `json:"amount" db:"amount"`
	PaymentMethod string        `json:"payment_method" db:"payment_method"`
	PaymentStatus PaymentStatus `json:"payment_status" db:"payment_status"`
	OrderStatus   OrderStatus   `json:"order_status" db:"order_status"`
	OrderDate     time.Time     `json:"order_date" db:"order_date"`
	CompletedDate *time.Time    `json:"completed_date,omitempty" db:"completed_date"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
}
