package payment

import (
	"github.com/namora-app/namora/internal/config"
	"github.com/namora-app/namora/internal/payment/razorpay"
	"github.com/namora-app/namora/internal/payment/repository"
	"github.com/namora-app/namora/internal/payment/service"
	"go.uber.org/fx"
)

func newGateway(cfg config.Config) *razorpay.Client {
	return razorpay.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.RazorpayBaseURL)
}

var Module = fx.Module("payment.service",
	fx.Provide(newGateway),
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
