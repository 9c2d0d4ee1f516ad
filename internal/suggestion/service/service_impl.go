package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/namora-app/namora/internal/namegen"
	profiledomain "github.com/namora-app/namora/internal/profile/domain"
	"github.com/namora-app/namora/internal/suggestion/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Webhook  *namegen.WebhookClient
	Profiles profiledomain.Service
}

type Service struct {
	log      *zap.Logger
	webhook  *namegen.WebhookClient
	profiles profiledomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		log:      p.Log.Named("suggestion.service"),
		webhook:  p.Webhook,
		profiles: p.Profiles,
	}
}

func (s *Service) Generate(ctx context.Context, userID snowflake.ID, query domain.NameQuery) (domain.GenerateResult, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return domain.GenerateResult{}, err
	}
	if profile.Credits < 1 {
		return domain.GenerateResult{}, profiledomain.ErrInsufficientCredits
	}

	payload, err := json.Marshal(query)
	if err != nil {
		return domain.GenerateResult{}, fmt.Errorf("encode query: %w", err)
	}

	body, err := s.webhook.Generate(ctx, payload)
	if err != nil {
		return domain.GenerateResult{}, err
	}

	// The credit is spent only after the webhook succeeded. A concurrent
	// request may have drained the balance in between; the user already
	// got their upstream call, so log it and return the results anyway.
	remaining := profile.Credits - 1
	updated, err := s.profiles.ConsumeCredit(ctx, userID, map[string]any{
		"reason": "name_generation",
	})
	switch {
	case errors.Is(err, profiledomain.ErrInsufficientCredits):
		s.log.Warn("credit balance drained after webhook call",
			zap.Int64("user_id", int64(userID)),
		)
		remaining = 0
	case err != nil:
		return domain.GenerateResult{}, err
	default:
		remaining = updated.Credits
	}

	result := domain.GenerateResult{
		Suggestions:      namegen.Normalize(body),
		CreditsRemaining: remaining,
	}
	if len(result.Suggestions) == 0 {
		result.Raw = string(body)
	}
	return result, nil
}
