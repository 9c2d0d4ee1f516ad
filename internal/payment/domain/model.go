package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	StatusCreated = "created"
	StatusPaid    = "paid"
	StatusFailed  = "failed"
)

// CreditPackages is the fixed price table: credits to amount in paise.
var CreditPackages = map[int]int64{
	5:  5000,
	15: 12000,
	35: 25000,
}

// PaymentRecord tracks one checkout attempt from order creation through
// verification. Rows are append-only per user; only Status, Method and
// RazorpayPaymentID change after insert.
type PaymentRecord struct {
	ID                snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID            snowflake.ID `gorm:"not null;index" json:"user_id"`
	Credits           int          `gorm:"not null" json:"credits"`
	AmountPaise       int64        `gorm:"not null" json:"amount_paise"`
	Currency          string       `gorm:"not null;default:'INR'" json:"currency"`
	Receipt           string       `gorm:"not null" json:"receipt"`
	RazorpayOrderID   string       `gorm:"not null;uniqueIndex" json:"razorpay_order_id"`
	RazorpayPaymentID string       `json:"razorpay_payment_id,omitempty"`
	Method            string       `json:"method,omitempty"`
	Status            string       `gorm:"not null;default:'created'" json:"status"`
	CreatedAt         time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (PaymentRecord) TableName() string {
	return "payments"
}
