package razorpay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

var ErrNotConfigured = errors.New("razorpay credentials not configured")

// APIError is a non-2xx response from the gateway.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("razorpay: %s (%d)", e.Description, e.StatusCode)
}

type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type Payment struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
	Method string `json:"method"`
	Status string `json:"status"`
	Email  string `json:"email"`
}

type errorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// Client is a minimal Razorpay REST client covering order creation and
// payment lookup. Auth is HTTP Basic with the key id/secret pair.
type Client struct {
	keyID     string
	keySecret string
	baseURL   string
	client    *http.Client
}

func NewClient(keyID, keySecret, baseURL string) *Client {
	return &Client{
		keyID:     strings.TrimSpace(keyID),
		keySecret: strings.TrimSpace(keySecret),
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    &http.Client{Timeout: 12 * time.Second},
	}
}

func (c *Client) KeyID() string {
	return c.keyID
}

func (c *Client) CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string, notes map[string]string) (Order, error) {
	body := map[string]any{
		"amount":   amountPaise,
		"currency": currency,
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		body["notes"] = notes
	}

	var order Order
	if err := c.doRequest(ctx, http.MethodPost, "/v1/orders", body, &order); err != nil {
		return Order{}, err
	}
	return order, nil
}

func (c *Client) FetchPayment(ctx context.Context, paymentID string) (Payment, error) {
	var payment Payment
	if err := c.doRequest(ctx, http.MethodGet, "/v1/payments/"+paymentID, nil, &payment); err != nil {
		return Payment{}, err
	}
	return payment, nil
}

// VerifySignature recomputes HMAC-SHA256 over "order_id|payment_id" with the
// key secret and compares it to the checkout callback signature.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	fmt.Fprintf(mac, "%s|%s", orderID, paymentID)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	if c.keyID == "" || c.keySecret == "" {
		return ErrNotConfigured
	}

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("call razorpay: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        apiErr.Error.Code,
			Description: apiErr.Error.Description,
		}
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
