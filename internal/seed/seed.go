package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/namora-app/namora/internal/auth/domain"
	"github.com/namora-app/namora/internal/auth/password"
	profiledomain "github.com/namora-app/namora/internal/profile/domain"
	"gorm.io/gorm"
)

const (
	demoEmail    = "demo@namora.app"
	demoPassword = "namora-demo"
	demoDisplay  = "Namora Demo"
	demoCredits  = 5
)

// EnsureDemoAccount creates the demo login used in non-production
// environments. Existing accounts are left untouched.
func EnsureDemoAccount(db *gorm.DB, node *snowflake.Node) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing authdomain.User
		err := tx.Raw(`SELECT id, email FROM users WHERE email = ?`, demoEmail).Scan(&existing).Error
		if err != nil {
			return err
		}
		if existing.ID != 0 {
			return nil
		}

		hash, err := password.Hash(demoPassword)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		user := authdomain.User{
			ID:           node.Generate(),
			Email:        demoEmail,
			PasswordHash: hash,
			DisplayName:  demoDisplay,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		profile := profiledomain.Profile{
			ID:          node.Generate(),
			UserID:      user.ID,
			Credits:     demoCredits,
			DisplayName: demoDisplay,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}

		txn := profiledomain.CreditTransaction{
			ID:           node.Generate(),
			UserID:       user.ID,
			Type:         profiledomain.TransactionTypeSignupBonus,
			Delta:        demoCredits,
			BalanceAfter: demoCredits,
			CreatedAt:    now,
		}
		return tx.Create(&txn).Error
	})
}
