package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/namora-app/namora/internal/payment/domain"
	"github.com/namora-app/namora/internal/payment/razorpay"
	profiledomain "github.com/namora-app/namora/internal/profile/domain"
	"github.com/namora-app/namora/pkg/db/pagination"
	"github.com/oklog/ulid/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Repo        domain.Repository
	ProfileRepo profiledomain.Repository
	Gateway     *razorpay.Client
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	repo        domain.Repository
	profileRepo profiledomain.Repository
	gateway     *razorpay.Client
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("payment.service"),
		genID:       p.GenID,
		repo:        p.Repo,
		profileRepo: p.ProfileRepo,
		gateway:     p.Gateway,
	}
}

func (s *Service) CreateOrder(ctx context.Context, userID snowflake.ID, req domain.CreateOrderRequest) (domain.CreateOrderResult, error) {
	amount, ok := domain.CreditPackages[req.Credits]
	if !ok {
		return domain.CreateOrderResult{}, domain.ErrInvalidPackage
	}

	receipt := "receipt_" + ulid.Make().String()
	order, err := s.gateway.CreateOrder(ctx, amount, "INR", receipt, map[string]string{
		"user_id": userID.String(),
	})
	if err != nil {
		return domain.CreateOrderResult{}, err
	}

	now := time.Now().UTC()
	record := domain.PaymentRecord{
		ID:              s.genID.Generate(),
		UserID:          userID,
		Credits:         req.Credits,
		AmountPaise:     amount,
		Currency:        "INR",
		Receipt:         receipt,
		RazorpayOrderID: order.ID,
		Status:          domain.StatusCreated,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Insert(ctx, s.db, &record); err != nil {
		return domain.CreateOrderResult{}, err
	}

	s.log.Info("order created",
		zap.Int64("payment_id", int64(record.ID)),
		zap.String("razorpay_order_id", order.ID),
		zap.Int("credits", req.Credits),
		zap.Int64("amount_paise", amount),
	)

	return domain.CreateOrderResult{
		PaymentID:   record.ID,
		OrderID:     order.ID,
		AmountPaise: amount,
		Currency:    "INR",
		Credits:     req.Credits,
		KeyID:       s.gateway.KeyID(),
	}, nil
}

func (s *Service) Verify(ctx context.Context, userID snowflake.ID, req domain.VerifyRequest) (domain.VerifyResult, error) {
	record, err := s.repo.FindByID(ctx, s.db, req.PaymentID, userID)
	if err != nil {
		return domain.VerifyResult{}, err
	}
	if record == nil {
		return domain.VerifyResult{}, domain.ErrNotFound
	}
	if record.Status != domain.StatusCreated {
		return domain.VerifyResult{}, domain.ErrAlreadyProcessed
	}

	// The callback must reference the order this record was created for,
	// otherwise a signature valid for a cheap order could redeem an
	// expensive one.
	if strings.TrimSpace(req.RazorpayOrderID) != record.RazorpayOrderID {
		return domain.VerifyResult{}, domain.ErrOrderMismatch
	}

	if !s.gateway.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		if err := s.repo.MarkFailed(ctx, s.db, record.ID, userID, req.RazorpayPaymentID); err != nil {
			s.log.Error("mark payment failed", zap.Error(err), zap.Int64("payment_id", int64(record.ID)))
		}
		return domain.VerifyResult{}, domain.ErrInvalidSignature
	}

	// Best effort; the gateway lookup only enriches the record with the
	// payment method actually used.
	method := ""
	if payment, err := s.gateway.FetchPayment(ctx, req.RazorpayPaymentID); err != nil {
		s.log.Warn("fetch payment method", zap.Error(err), zap.String("razorpay_payment_id", req.RazorpayPaymentID))
	} else {
		method = payment.Method
	}

	var balance int
	err = s.db.Transaction(func(tx *gorm.DB) error {
		paid, err := s.repo.MarkPaid(ctx, tx, record.ID, userID, req.RazorpayPaymentID, method)
		if err != nil {
			return err
		}
		if !paid {
			return domain.ErrAlreadyProcessed
		}

		profile, err := s.profileRepo.AddCredits(ctx, tx, userID, record.Credits)
		if err != nil {
			return err
		}
		if profile == nil {
			return profiledomain.ErrNotFound
		}
		balance = profile.Credits

		txn := profiledomain.CreditTransaction{
			ID:           s.genID.Generate(),
			UserID:       userID,
			Type:         profiledomain.TransactionTypePurchase,
			Delta:        record.Credits,
			BalanceAfter: profile.Credits,
			Metadata: datatypes.JSONMap{
				"payment_id":          record.ID.String(),
				"razorpay_order_id":   record.RazorpayOrderID,
				"razorpay_payment_id": req.RazorpayPaymentID,
			},
			CreatedAt: time.Now().UTC(),
		}
		return s.profileRepo.InsertTransaction(ctx, tx, &txn)
	})
	if err != nil {
		return domain.VerifyResult{}, err
	}

	s.log.Info("payment verified",
		zap.Int64("payment_id", int64(record.ID)),
		zap.Int("credits_added", record.Credits),
		zap.Int("balance", balance),
	)

	return domain.VerifyResult{CreditsAdded: record.Credits, Balance: balance}, nil
}

func (s *Service) List(ctx context.Context, userID snowflake.ID, page pagination.Pagination) (domain.ListResult, error) {
	limit := page.PageSize
	if limit < 1 {
		limit = 10
	}
	if limit > 250 {
		limit = 250
	}

	var cursor *pagination.Cursor
	if page.PageToken != "" {
		decoded, err := pagination.DecodeCursor(page.PageToken)
		if err != nil {
			return domain.ListResult{}, domain.ErrInvalidPageToken
		}
		cursor = decoded
	}

	records, err := s.repo.List(ctx, s.db, userID, cursor, limit)
	if err != nil {
		return domain.ListResult{}, err
	}

	result := domain.ListResult{Payments: records}
	if len(records) > limit {
		result.Payments = records[:limit]
		last := result.Payments[limit-1]
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        last.ID.String(),
			CreatedAt: last.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
		if err != nil {
			return domain.ListResult{}, err
		}
		result.PageInfo = pagination.PageInfo{HasMore: true, NextPageToken: token}
	}
	return result, nil
}
