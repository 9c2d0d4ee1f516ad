package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, profile *Profile) error
	FindByUserID(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*Profile, error)
	InsertTransaction(ctx context.Context, db *gorm.DB, txn *CreditTransaction) error

	// ConsumeCredit decrements the balance by one, guarded by credits >= 1.
	// Returns nil when the guard did not match.
	ConsumeCredit(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*Profile, error)

	// AddCredits increments the balance unconditionally.
	AddCredits(ctx context.Context, db *gorm.DB, userID snowflake.ID, delta int) (*Profile, error)
}
