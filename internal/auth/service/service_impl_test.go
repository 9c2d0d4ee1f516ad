package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/namora-app/namora/internal/auth/domain"
	authrepo "github.com/namora-app/namora/internal/auth/repository"
	"github.com/namora-app/namora/internal/auth/token"
	"github.com/namora-app/namora/internal/config"
	profiledomain "github.com/namora-app/namora/internal/profile/domain"
	profilerepo "github.com/namora-app/namora/internal/profile/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&profiledomain.Profile{},
		&profiledomain.CreditTransaction{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	issuer, err := token.NewIssuer("test-secret-test-secret", time.Hour)
	require.NoError(t, err)

	svc := New(Params{
		DB:          db,
		Log:         zap.NewNop(),
		GenID:       node,
		Cfg:         config.Config{SignupBonusCredits: 3},
		Issuer:      issuer,
		Repo:        authrepo.Provide(),
		ProfileRepo: profilerepo.Provide(),
	})
	return svc, db
}

func TestRegisterGrantsSignupBonus(t *testing.T) {
	svc, db := newService(t)

	result, err := svc.Register(context.Background(), domain.RegisterRequest{
		Email:    "Parent@Example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "parent@example.com", result.User.Email)

	var credits int
	require.NoError(t, db.Raw(
		`SELECT credits FROM profiles WHERE user_id = ?`, result.User.ID,
	).Scan(&credits).Error)
	assert.Equal(t, 3, credits)

	var txnType string
	require.NoError(t, db.Raw(
		`SELECT type FROM credit_transactions WHERE user_id = ?`, result.User.ID,
	).Scan(&txnType).Error)
	assert.Equal(t, profiledomain.TransactionTypeSignupBonus, txnType)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Register(context.Background(), domain.RegisterRequest{Email: "not-an-email", Password: "correct-horse"})
	assert.True(t, errors.Is(err, domain.ErrInvalidEmail))

	_, err = svc.Register(context.Background(), domain.RegisterRequest{Email: "a@b.com", Password: "short"})
	assert.True(t, errors.Is(err, domain.ErrInvalidPassword))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newService(t)

	req := domain.RegisterRequest{Email: "parent@example.com", Password: "correct-horse"}
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	assert.True(t, errors.Is(err, domain.ErrUserExists))
}

func TestLoginAndAuthenticate(t *testing.T) {
	svc, _ := newService(t)

	registered, err := svc.Register(context.Background(), domain.RegisterRequest{
		Email:    "parent@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "PARENT@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	userID, err := svc.Authenticate(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, userID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Register(context.Background(), domain.RegisterRequest{
		Email:    "parent@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), domain.LoginRequest{
		Email:    "parent@example.com",
		Password: "wrong-horse",
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidCredentials))
}

func TestAuthenticateRejectsGarbageToken(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Authenticate(context.Background(), "not-a-jwt")
	assert.True(t, errors.Is(err, domain.ErrInvalidToken))
}
