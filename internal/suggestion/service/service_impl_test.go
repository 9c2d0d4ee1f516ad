package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/namora-app/namora/internal/config"
	"github.com/namora-app/namora/internal/namegen"
	profiledomain "github.com/namora-app/namora/internal/profile/domain"
	profilerepo "github.com/namora-app/namora/internal/profile/repository"
	profileservice "github.com/namora-app/namora/internal/profile/service"
	"github.com/namora-app/namora/internal/suggestion/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	node     *snowflake.Node
	profiles profiledomain.Service
	userID   snowflake.ID
}

func newFixture(t *testing.T, credits int) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&profiledomain.Profile{}, &profiledomain.CreditTransaction{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	userID := node.Generate()
	now := time.Now().UTC()
	require.NoError(t, db.Exec(
		`INSERT INTO profiles (id, user_id, credits, display_name, phone, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		node.Generate(), userID, credits, "", "", now, now,
	).Error)

	profiles := profileservice.New(profileservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  profilerepo.Provide(),
	})

	return &fixture{db: db, node: node, profiles: profiles, userID: userID}
}

func (f *fixture) service(t *testing.T, webhookURL string) domain.Service {
	t.Helper()
	webhook := namegen.NewWebhookClient(config.Config{
		WebhookURL:     webhookURL,
		WebhookTimeout: 5 * time.Second,
	}, zap.NewNop())
	return New(Params{
		Log:      zap.NewNop(),
		Webhook:  webhook,
		Profiles: f.profiles,
	})
}

func (f *fixture) balance(t *testing.T) int {
	t.Helper()
	var credits int
	require.NoError(t, f.db.Raw(`SELECT credits FROM profiles WHERE user_id = ?`, f.userID).Scan(&credits).Error)
	return credits
}

func TestGenerateSpendsOneCreditOnSuccess(t *testing.T) {
	f := newFixture(t, 3)

	var gotBody []byte
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`[{"name":"Arjun","meaning":"bright"}]`))
	}))
	defer ts.Close()

	svc := f.service(t, ts.URL)
	result, err := svc.Generate(context.Background(), f.userID, domain.NameQuery{
		Gender:   "Boy",
		Language: "Sanskrit",
	})
	require.NoError(t, err)

	assert.Equal(t, []namegen.Suggestion{{Name: "Arjun", Meaning: "bright"}}, result.Suggestions)
	assert.Empty(t, result.Raw)
	assert.Equal(t, 2, result.CreditsRemaining)
	assert.Equal(t, 2, f.balance(t))
	assert.JSONEq(t, `{"gender":"Boy","language":"Sanskrit"}`, string(gotBody))

	var txnCount int
	require.NoError(t, f.db.Raw(
		`SELECT COUNT(*) FROM credit_transactions WHERE user_id = ? AND type = ?`,
		f.userID, profiledomain.TransactionTypeUsage,
	).Scan(&txnCount).Error)
	assert.Equal(t, 1, txnCount)
}

func TestGenerateUpstreamFailureLeavesBalance(t *testing.T) {
	f := newFixture(t, 3)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "workflow exploded", http.StatusBadGateway)
	}))
	defer ts.Close()

	svc := f.service(t, ts.URL)
	_, err := svc.Generate(context.Background(), f.userID, domain.NameQuery{})

	var upstream *namegen.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusBadGateway, upstream.StatusCode)
	assert.Equal(t, 3, f.balance(t))
}

func TestGenerateInsufficientCreditsSkipsWebhook(t *testing.T) {
	f := newFixture(t, 0)

	hits := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer ts.Close()

	svc := f.service(t, ts.URL)
	_, err := svc.Generate(context.Background(), f.userID, domain.NameQuery{})

	assert.True(t, errors.Is(err, profiledomain.ErrInsufficientCredits))
	assert.Equal(t, 0, hits)
	assert.Equal(t, 0, f.balance(t))
}

func TestGenerateEchoesRawWhenUnusable(t *testing.T) {
	f := newFixture(t, 1)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("%%% nothing name-shaped here ###"))
	}))
	defer ts.Close()

	svc := f.service(t, ts.URL)
	result, err := svc.Generate(context.Background(), f.userID, domain.NameQuery{})
	require.NoError(t, err)

	assert.Empty(t, result.Suggestions)
	assert.Equal(t, "%%% nothing name-shaped here ###", result.Raw)
	assert.Equal(t, 0, result.CreditsRemaining)
	assert.Equal(t, 0, f.balance(t))
}

func TestGenerateWebhookNotConfigured(t *testing.T) {
	f := newFixture(t, 1)

	svc := f.service(t, "")
	_, err := svc.Generate(context.Background(), f.userID, domain.NameQuery{})

	assert.True(t, errors.Is(err, namegen.ErrWebhookNotConfigured))
	assert.Equal(t, 1, f.balance(t))
}
