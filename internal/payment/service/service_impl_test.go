package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/namora-app/namora/internal/payment/domain"
	"github.com/namora-app/namora/internal/payment/razorpay"
	paymentrepo "github.com/namora-app/namora/internal/payment/repository"
	profiledomain "github.com/namora-app/namora/internal/profile/domain"
	profilerepo "github.com/namora-app/namora/internal/profile/repository"
	"github.com/namora-app/namora/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	testKeyID  = "rzp_test_key"
	testSecret = "rzp_test_secret"
)

type fixture struct {
	db     *gorm.DB
	svc    domain.Service
	userID snowflake.ID
}

// fakeGateway serves just enough of the Razorpay REST API for the service:
// order creation and payment lookup.
func fakeGateway(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != testKeyID || pass != testSecret {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/orders":
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			json.NewEncoder(w).Encode(map[string]any{
				"id":       "order_test123",
				"amount":   body["amount"],
				"currency": body["currency"],
				"receipt":  body["receipt"],
				"status":   "created",
			})
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/v1/payments/"):
			json.NewEncoder(w).Encode(map[string]any{
				"id":     strings.TrimPrefix(r.URL.Path, "/v1/payments/"),
				"method": "upi",
				"status": "captured",
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func newFixture(t *testing.T, gatewayURL string) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&profiledomain.Profile{},
		&profiledomain.CreditTransaction{},
		&domain.PaymentRecord{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	userID := node.Generate()
	now := time.Now().UTC()
	require.NoError(t, db.Exec(
		`INSERT INTO profiles (id, user_id, credits, display_name, phone, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		node.Generate(), userID, 0, "", "", now, now,
	).Error)

	svc := New(Params{
		DB:          db,
		Log:         zap.NewNop(),
		GenID:       node,
		Repo:        paymentrepo.Provide(),
		ProfileRepo: profilerepo.Provide(),
		Gateway:     razorpay.NewClient(testKeyID, testSecret, gatewayURL),
	})

	return &fixture{db: db, svc: svc, userID: userID}
}

func (f *fixture) balance(t *testing.T) int {
	t.Helper()
	var credits int
	require.NoError(t, f.db.Raw(`SELECT credits FROM profiles WHERE user_id = ?`, f.userID).Scan(&credits).Error)
	return credits
}

func (f *fixture) recordStatus(t *testing.T, id snowflake.ID) string {
	t.Helper()
	var status string
	require.NoError(t, f.db.Raw(`SELECT status FROM payments WHERE id = ?`, id).Scan(&status).Error)
	return status
}

func signCallback(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestCreateOrderRejectsUnknownPackage(t *testing.T) {
	ts := fakeGateway(t)
	defer ts.Close()
	f := newFixture(t, ts.URL)

	_, err := f.svc.CreateOrder(context.Background(), f.userID, domain.CreateOrderRequest{Credits: 7})

	assert.True(t, errors.Is(err, domain.ErrInvalidPackage))

	var count int
	require.NoError(t, f.db.Raw(`SELECT COUNT(*) FROM payments`).Scan(&count).Error)
	assert.Equal(t, 0, count)
}

func TestCreateOrderPersistsRecord(t *testing.T) {
	ts := fakeGateway(t)
	defer ts.Close()
	f := newFixture(t, ts.URL)

	result, err := f.svc.CreateOrder(context.Background(), f.userID, domain.CreateOrderRequest{Credits: 15})
	require.NoError(t, err)

	assert.Equal(t, "order_test123", result.OrderID)
	assert.Equal(t, int64(12000), result.AmountPaise)
	assert.Equal(t, "INR", result.Currency)
	assert.Equal(t, testKeyID, result.KeyID)
	assert.Equal(t, domain.StatusCreated, f.recordStatus(t, result.PaymentID))
}

func TestVerifyGrantsCreditsOnce(t *testing.T) {
	ts := fakeGateway(t)
	defer ts.Close()
	f := newFixture(t, ts.URL)

	order, err := f.svc.CreateOrder(context.Background(), f.userID, domain.CreateOrderRequest{Credits: 5})
	require.NoError(t, err)

	req := domain.VerifyRequest{
		PaymentID:         order.PaymentID,
		RazorpayOrderID:   order.OrderID,
		RazorpayPaymentID: "pay_abc",
		RazorpaySignature: signCallback(order.OrderID, "pay_abc"),
	}

	result, err := f.svc.Verify(context.Background(), f.userID, req)
	require.NoError(t, err)
	assert.Equal(t, 5, result.CreditsAdded)
	assert.Equal(t, 5, result.Balance)
	assert.Equal(t, 5, f.balance(t))
	assert.Equal(t, domain.StatusPaid, f.recordStatus(t, order.PaymentID))

	var method string
	require.NoError(t, f.db.Raw(`SELECT method FROM payments WHERE id = ?`, order.PaymentID).Scan(&method).Error)
	assert.Equal(t, "upi", method)

	var txnCount int
	require.NoError(t, f.db.Raw(
		`SELECT COUNT(*) FROM credit_transactions WHERE user_id = ? AND type = ?`,
		f.userID, profiledomain.TransactionTypePurchase,
	).Scan(&txnCount).Error)
	assert.Equal(t, 1, txnCount)

	// Replaying the same callback must not credit the balance twice.
	_, err = f.svc.Verify(context.Background(), f.userID, req)
	assert.True(t, errors.Is(err, domain.ErrAlreadyProcessed))
	assert.Equal(t, 5, f.balance(t))
}

func TestVerifyTamperedSignature(t *testing.T) {
	ts := fakeGateway(t)
	defer ts.Close()
	f := newFixture(t, ts.URL)

	order, err := f.svc.CreateOrder(context.Background(), f.userID, domain.CreateOrderRequest{Credits: 35})
	require.NoError(t, err)

	_, err = f.svc.Verify(context.Background(), f.userID, domain.VerifyRequest{
		PaymentID:         order.PaymentID,
		RazorpayOrderID:   order.OrderID,
		RazorpayPaymentID: "pay_abc",
		RazorpaySignature: "deadbeef",
	})

	assert.True(t, errors.Is(err, domain.ErrInvalidSignature))
	assert.Equal(t, 0, f.balance(t))
	assert.Equal(t, domain.StatusFailed, f.recordStatus(t, order.PaymentID))
}

func TestVerifyOrderMismatch(t *testing.T) {
	ts := fakeGateway(t)
	defer ts.Close()
	f := newFixture(t, ts.URL)

	order, err := f.svc.CreateOrder(context.Background(), f.userID, domain.CreateOrderRequest{Credits: 5})
	require.NoError(t, err)

	// Signature is valid for a different order id than the record holds.
	_, err = f.svc.Verify(context.Background(), f.userID, domain.VerifyRequest{
		PaymentID:         order.PaymentID,
		RazorpayOrderID:   "order_other",
		RazorpayPaymentID: "pay_abc",
		RazorpaySignature: signCallback("order_other", "pay_abc"),
	})

	assert.True(t, errors.Is(err, domain.ErrOrderMismatch))
	assert.Equal(t, 0, f.balance(t))
	assert.Equal(t, domain.StatusCreated, f.recordStatus(t, order.PaymentID))
}

func TestListPaginatesNewestFirst(t *testing.T) {
	ts := fakeGateway(t)
	defer ts.Close()
	f := newFixture(t, ts.URL)

	node, err := snowflake.NewNode(3)
	require.NoError(t, err)

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		at := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, f.db.Exec(
			`INSERT INTO payments (id, user_id, credits, amount_paise, currency, receipt,
			   razorpay_order_id, razorpay_payment_id, method, status, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			node.Generate(), f.userID, 5, 5000, "INR", fmt.Sprintf("receipt_%d", i),
			fmt.Sprintf("order_%d", i), "", "", domain.StatusCreated, at, at,
		).Error)
	}

	first, err := f.svc.List(context.Background(), f.userID, pagination.Pagination{PageSize: 2})
	require.NoError(t, err)
	require.Len(t, first.Payments, 2)
	assert.Equal(t, "order_2", first.Payments[0].RazorpayOrderID)
	assert.Equal(t, "order_1", first.Payments[1].RazorpayOrderID)
	require.True(t, first.PageInfo.HasMore)

	second, err := f.svc.List(context.Background(), f.userID, pagination.Pagination{
		PageSize:  2,
		PageToken: first.PageInfo.NextPageToken,
	})
	require.NoError(t, err)
	require.Len(t, second.Payments, 1)
	assert.Equal(t, "order_0", second.Payments[0].RazorpayOrderID)
	assert.False(t, second.PageInfo.HasMore)

	_, err = f.svc.List(context.Background(), f.userID, pagination.Pagination{PageToken: "not base64!"})
	assert.True(t, errors.Is(err, domain.ErrInvalidPageToken))
}

func TestVerifyUnknownRecord(t *testing.T) {
	ts := fakeGateway(t)
	defer ts.Close()
	f := newFixture(t, ts.URL)

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	_, err = f.svc.Verify(context.Background(), f.userID, domain.VerifyRequest{
		PaymentID:         node.Generate(),
		RazorpayOrderID:   "order_test123",
		RazorpayPaymentID: "pay_abc",
		RazorpaySignature: signCallback("order_test123", "pay_abc"),
	})

	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
