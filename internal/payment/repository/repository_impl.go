package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/namora-app/namora/internal/payment/domain"
	"github.com/namora-app/namora/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, record *domain.PaymentRecord) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO payments (id, user_id, credits, amount_paise, currency, receipt,
		   razorpay_order_id, razorpay_payment_id, method, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.UserID,
		record.Credits,
		record.AmountPaise,
		record.Currency,
		record.Receipt,
		record.RazorpayOrderID,
		record.RazorpayPaymentID,
		record.Method,
		record.Status,
		record.CreatedAt,
		record.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id, userID snowflake.ID) (*domain.PaymentRecord, error) {
	var record domain.PaymentRecord
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, credits, amount_paise, currency, receipt,
		   razorpay_order_id, razorpay_payment_id, method, status, created_at, updated_at
		 FROM payments WHERE id = ? AND user_id = ?`,
		id, userID,
	).Scan(&record).Error
	if err != nil {
		return nil, err
	}
	if record.ID == 0 {
		return nil, nil
	}
	return &record, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, userID snowflake.ID, cursor *pagination.Cursor, limit int) ([]domain.PaymentRecord, error) {
	query := `SELECT id, user_id, credits, amount_paise, currency, receipt,
	   razorpay_order_id, razorpay_payment_id, method, status, created_at, updated_at
	 FROM payments WHERE user_id = ?`
	args := []any{userID}

	if cursor != nil && cursor.CreatedAt != "" && cursor.ID != "" {
		at, err := time.Parse(time.RFC3339Nano, cursor.CreatedAt)
		if err != nil {
			return nil, domain.ErrInvalidPageToken
		}
		id, err := strconv.ParseInt(cursor.ID, 10, 64)
		if err != nil {
			return nil, domain.ErrInvalidPageToken
		}
		query += ` AND (created_at < ? OR (created_at = ? AND id < ?))`
		args = append(args, at, at, id)
	}

	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit+1)

	records := make([]domain.PaymentRecord, 0)
	err := db.WithContext(ctx).Raw(query, args...).Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repo) MarkPaid(ctx context.Context, db *gorm.DB, id, userID snowflake.ID, razorpayPaymentID, method string) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE payments SET status = ?, razorpay_payment_id = ?, method = ?, updated_at = ?
		 WHERE id = ? AND user_id = ? AND status = ?`,
		domain.StatusPaid,
		razorpayPaymentID,
		method,
		time.Now().UTC(),
		id,
		userID,
		domain.StatusCreated,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) MarkFailed(ctx context.Context, db *gorm.DB, id, userID snowflake.ID, razorpayPaymentID string) error {
	return db.WithContext(ctx).Exec(
		`UPDATE payments SET status = ?, razorpay_payment_id = ?, updated_at = ?
		 WHERE id = ? AND user_id = ? AND status = ?`,
		domain.StatusFailed,
		razorpayPaymentID,
		time.Now().UTC(),
		id,
		userID,
		domain.StatusCreated,
	).Error
}
