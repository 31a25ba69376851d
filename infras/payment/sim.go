package payment

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// simClient synthesizes locally generated intents for non-production use.
// Responses are flagged Simulated so callers can never mistake them for a
// real charge, and events are accepted without verification.
type simClient struct{}

func newSimClient() *simClient {
	return &simClient{}
}

func (c *simClient) CreateIntent(_ context.Context, req CreateIntentRequest) (Intent, error) {
	ref := strings.ReplaceAll(uuid.NewString(), "-", "")

	log.Info().
		Str("reservation_id", req.ReservationID).
		Int64("amount_minor", req.AmountMinor).
		Msg("Simulated payment intent created")

	return Intent{
		ID:           "pi_sim_" + ref,
		ClientSecret: "pi_sim_" + ref + "_secret_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		AmountMinor:  req.AmountMinor,
		Currency:     req.Currency,
		Status:       IntentStatusRequiresConfirmation,
		Simulated:    true,
	}, nil
}

func (c *simClient) VerifyEvent(payload []byte, _ string) (Event, error) {
	log.Warn().Msg("SIMULATED processor accepting payment event without signature verification")

	return decodeEvent(payload)
}
