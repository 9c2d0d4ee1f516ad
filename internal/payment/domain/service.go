package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/namora-app/namora/pkg/db/pagination"
)

var (
	ErrInvalidPackage   = errors.New("invalid_package")
	ErrInvalidSignature = errors.New("invalid_signature")
	ErrAlreadyProcessed = errors.New("already_processed")
	ErrOrderMismatch    = errors.New("order_mismatch")
	ErrInvalidPageToken = errors.New("invalid_page_token")
	ErrNotFound         = errors.New("not_found")
)

type CreateOrderRequest struct {
	Credits int `json:"credits"`
}

// CreateOrderResult is handed to the browser checkout SDK. KeyID is the
// public half of the gateway credentials.
type CreateOrderResult struct {
	PaymentID   snowflake.ID `json:"payment_id"`
	OrderID     string       `json:"order_id"`
	AmountPaise int64        `json:"amount_paise"`
	Currency    string       `json:"currency"`
	Credits     int          `json:"credits"`
	KeyID       string       `json:"key_id"`
}

// VerifyRequest carries the checkout callback fields. PaymentID is our own
// record id returned by CreateOrder, the razorpay_* fields come from the
// gateway.
type VerifyRequest struct {
	PaymentID         snowflake.ID `json:"payment_id"`
	RazorpayOrderID   string       `json:"razorpay_order_id"`
	RazorpayPaymentID string       `json:"razorpay_payment_id"`
	RazorpaySignature string       `json:"razorpay_signature"`
}

type VerifyResult struct {
	CreditsAdded int `json:"credits_added"`
	Balance      int `json:"balance"`
}

type ListResult struct {
	Payments []PaymentRecord     `json:"payments"`
	PageInfo pagination.PageInfo `json:"page_info"`
}

type Service interface {
	// CreateOrder validates the requested package against the price table,
	// creates a gateway order and persists a PaymentRecord in status
	// "created".
	CreateOrder(ctx context.Context, userID snowflake.ID, req CreateOrderRequest) (CreateOrderResult, error)

	// Verify checks the checkout signature and, in one transaction, marks
	// the record paid and credits the balance. A record can be credited
	// at most once.
	Verify(ctx context.Context, userID snowflake.ID, req VerifyRequest) (VerifyResult, error)

	// List returns a page of the caller's payment history, newest first.
	List(ctx context.Context, userID snowflake.ID, page pagination.Pagination) (ListResult, error)
}
