package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/namora-app/namora/internal/namegen"
)

// NameQuery carries the preferences forwarded verbatim to the generation
// webhook. Every field is optional; the upstream workflow decides how much
// of it to honor. Field names mirror the intake form.
type NameQuery struct {
	Gender          string `json:"gender,omitempty"`
	Language        string `json:"language,omitempty"`
	Religion        string `json:"religion,omitempty"`
	StartingLetters string `json:"startingLetters,omitempty"`
	ZodiacSign      string `json:"zodiacSign,omitempty"`
	Meaning         string `json:"meaning,omitempty"`
	Emotions        string `json:"emotions,omitempty"`
	BirthDate       string `json:"birthDate,omitempty"`
}

// GenerateResult is what a successful generation returns. Raw is populated
// only when the webhook body could not be normalized into suggestions, so
// the caller can still show something to the user.
type GenerateResult struct {
	Suggestions      []namegen.Suggestion `json:"suggestions"`
	Raw              string               `json:"raw,omitempty"`
	CreditsRemaining int                  `json:"credits_remaining"`
}

type Service interface {
	// Generate checks the caller's credit balance, forwards the query to
	// the webhook, and spends one credit only after a successful upstream
	// response.
	Generate(ctx context.Context, userID snowflake.ID, query NameQuery) (GenerateResult, error)
}
