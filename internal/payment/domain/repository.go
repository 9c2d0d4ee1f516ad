package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/namora-app/namora/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, record *PaymentRecord) error

	// FindByID is user-scoped so one user can never touch another user's
	// checkout attempt.
	FindByID(ctx context.Context, db *gorm.DB, id, userID snowflake.ID) (*PaymentRecord, error)

	// List fetches up to limit+1 rows after the cursor so the caller can
	// detect whether more pages exist.
	List(ctx context.Context, db *gorm.DB, userID snowflake.ID, cursor *pagination.Cursor, limit int) ([]PaymentRecord, error)

	// MarkPaid flips status from "created" to "paid", guarded so a record
	// transitions at most once. Returns false when the guard did not match.
	MarkPaid(ctx context.Context, db *gorm.DB, id, userID snowflake.ID, razorpayPaymentID, method string) (bool, error)

	// MarkFailed flips status from "created" to "failed".
	MarkFailed(ctx context.Context, db *gorm.DB, id, userID snowflake.ID, razorpayPaymentID string) error
}
