package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/namora-app/namora/internal/profile/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("profile.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Get(ctx context.Context, userID snowflake.ID) (domain.Profile, error) {
	profile, err := s.repo.FindByUserID(ctx, s.db, userID)
	if err != nil {
		return domain.Profile{}, err
	}
	if profile == nil {
		return domain.Profile{}, domain.ErrNotFound
	}
	return *profile, nil
}

func (s *Service) ConsumeCredit(ctx context.Context, userID snowflake.ID, metadata map[string]any) (domain.Profile, error) {
	var out domain.Profile

	err := s.db.Transaction(func(tx *gorm.DB) error {
		profile, err := s.repo.ConsumeCredit(ctx, tx, userID)
		if err != nil {
			return err
		}
		if profile == nil {
			return domain.ErrInsufficientCredits
		}

		txn := domain.CreditTransaction{
			ID:           s.genID.Generate(),
			UserID:       userID,
			Type:         domain.TransactionTypeUsage,
			Delta:        -1,
			BalanceAfter: profile.Credits,
			Metadata:     datatypes.JSONMap(metadata),
			CreatedAt:    time.Now().UTC(),
		}
		if err := s.repo.InsertTransaction(ctx, tx, &txn); err != nil {
			return err
		}

		out = *profile
		return nil
	})
	if err != nil {
		return domain.Profile{}, err
	}

	return out, nil
}
