package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/namora-app/namora/internal/profile/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, profile *domain.Profile) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO profiles (id, user_id, credits, display_name, phone, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		profile.ID,
		profile.UserID,
		profile.Credits,
		profile.DisplayName,
		profile.Phone,
		profile.CreatedAt,
		profile.UpdatedAt,
	).Error
}

func (r *repo) FindByUserID(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*domain.Profile, error) {
	var profile domain.Profile
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, credits, display_name, phone, created_at, updated_at
		 FROM profiles WHERE user_id = ?`,
		userID,
	).Scan(&profile).Error
	if err != nil {
		return nil, err
	}
	if profile.ID == 0 {
		return nil, nil
	}
	return &profile, nil
}

func (r *repo) InsertTransaction(ctx context.Context, db *gorm.DB, txn *domain.CreditTransaction) error {
	return db.WithContext(ctx).Create(txn).Error
}

func (r *repo) ConsumeCredit(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*domain.Profile, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE profiles SET credits = credits - 1, updated_at = ?
		 WHERE user_id = ? AND credits >= 1`,
		time.Now().UTC(),
		userID,
	)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return r.FindByUserID(ctx, db, userID)
}

func (r *repo) AddCredits(ctx context.Context, db *gorm.DB, userID snowflake.ID, delta int) (*domain.Profile, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE profiles SET credits = credits + ?, updated_at = ?
		 WHERE user_id = ?`,
		delta,
		time.Now().UTC(),
		userID,
	)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return r.FindByUserID(ctx, db, userID)
}
