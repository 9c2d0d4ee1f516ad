package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Profile struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID      snowflake.ID `gorm:"not null;uniqueIndex" json:"user_id"`
	Credits     int          `gorm:"not null;default:0" json:"credits"`
	DisplayName string       `json:"display_name,omitempty"`
	Phone       string       `json:"phone,omitempty"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

const (
	TransactionTypeSignupBonus = "signup_bonus"
	TransactionTypeUsage       = "usage"
	TransactionTypePurchase    = "purchase"
)

// CreditTransaction is the append-only record of every balance change.
type CreditTransaction struct {
	ID           snowflake.ID      `gorm:"primaryKey" json:"id"`
	UserID       snowflake.ID      `gorm:"not null;index" json:"user_id"`
	Type         string            `gorm:"not null" json:"type"`
	Delta        int               `gorm:"not null" json:"delta"`
	BalanceAfter int               `gorm:"not null" json:"balance_after"`
	Metadata     datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}
