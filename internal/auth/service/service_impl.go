package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/namora-app/namora/internal/auth/domain"
	"github.com/namora-app/namora/internal/auth/password"
	"github.com/namora-app/namora/internal/auth/token"
	"github.com/namora-app/namora/internal/config"
	profiledomain "github.com/namora-app/namora/internal/profile/domain"
	"github.com/namora-app/namora/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Cfg         config.Config
	Issuer      *token.Issuer
	Repo        domain.Repository
	ProfileRepo profiledomain.Repository
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	bonus       int
	issuer      *token.Issuer
	repo        domain.Repository
	profileRepo profiledomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("auth.service"),
		genID:       p.GenID,
		bonus:       p.Cfg.SignupBonusCredits,
		issuer:      p.Issuer,
		repo:        p.Repo,
		profileRepo: p.ProfileRepo,
	}
}

// Register creates the user together with its profile. New profiles start
// with the signup bonus credits so the form can be tried before paying.
func (s *Service) Register(ctx context.Context, req domain.RegisterRequest) (domain.AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.AuthResult{}, domain.ErrInvalidEmail
	}
	if len(req.Password) < 8 {
		return domain.AuthResult{}, domain.ErrInvalidPassword
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return domain.AuthResult{}, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           s.genID.Generate(),
		Email:        email,
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(req.DisplayName),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, &user); err != nil {
			return err
		}

		profile := profiledomain.Profile{
			ID:          s.genID.Generate(),
			UserID:      user.ID,
			Credits:     s.bonus,
			DisplayName: user.DisplayName,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.profileRepo.Insert(ctx, tx, &profile); err != nil {
			return err
		}

		if s.bonus > 0 {
			txn := profiledomain.CreditTransaction{
				ID:           s.genID.Generate(),
				UserID:       user.ID,
				Type:         profiledomain.TransactionTypeSignupBonus,
				Delta:        s.bonus,
				BalanceAfter: s.bonus,
				CreatedAt:    now,
			}
			return s.profileRepo.InsertTransaction(ctx, tx, &txn)
		}
		return nil
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.AuthResult{}, domain.ErrUserExists
		}
		return domain.AuthResult{}, err
	}

	s.log.Info("user registered", zap.String("user_id", user.ID.String()))

	return s.issue(user)
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (domain.AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return domain.AuthResult{}, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, s.db, email)
	if err != nil {
		return domain.AuthResult{}, err
	}
	if user == nil || !password.Verify(req.Password, user.PasswordHash) {
		return domain.AuthResult{}, domain.ErrInvalidCredentials
	}

	return s.issue(*user)
}

func (s *Service) Authenticate(ctx context.Context, tokenString string) (snowflake.ID, error) {
	userID, err := s.issuer.Verify(tokenString)
	if err != nil {
		return 0, domain.ErrInvalidToken
	}

	user, err := s.repo.FindByID(ctx, s.db, userID)
	if err != nil {
		return 0, err
	}
	if user == nil {
		return 0, domain.ErrInvalidToken
	}
	return user.ID, nil
}

func (s *Service) issue(user domain.User) (domain.AuthResult, error) {
	signed, err := s.issuer.Generate(user.ID)
	if err != nil {
		return domain.AuthResult{}, err
	}
	return domain.AuthResult{
		Token:     signed,
		ExpiresIn: int64(s.issuer.TTL().Seconds()),
		User:      user,
	}, nil
}
