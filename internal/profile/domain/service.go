package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Get(ctx context.Context, userID snowflake.ID) (Profile, error)

	// ConsumeCredit atomically spends one credit and records a usage
	// transaction with the given metadata.
	ConsumeCredit(ctx context.Context, userID snowflake.ID, metadata map[string]any) (Profile, error)
}

var (
	ErrNotFound            = errors.New("not_found")
	ErrInsufficientCredits = errors.New("insufficient_credits")
)
