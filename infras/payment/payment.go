package payment

//go:generate go run go.uber.org/mock/mockgen -source=./payment.go -destination=./mocks/payment_mock.go -package=mocks

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"croisiere/config"
	"croisiere/shared/constant"
)

const (
	EventTypePaymentSucceeded = "payment_intent.succeeded"
	EventTypePaymentFailed    = "payment_intent.payment_failed"

	IntentStatusRequiresConfirmation = "requires_confirmation"
	IntentStatusSucceeded            = "succeeded"
	IntentStatusFailed               = "failed"

	MetadataKeyReservationID = "reservation_id"
)

var (
	ErrInvalidSignature = errors.New("invalid event signature")
	ErrInvalidPayload   = errors.New("invalid event payload")
)

// Intent is one authorization attempt issued by the processor. ClientSecret is a
// bearer credential scoped to this intent, it is returned to the caller once and
// must never be logged or persisted.
type Intent struct {
	ID           string
	ClientSecret string
	AmountMinor  int64
	Currency     string
	Status       string
	Simulated    bool
}

type CreateIntentRequest struct {
	AmountMinor    int64
	Currency       string
	ReservationID  string
	CustomerEmail  string
	CustomerName   string
	Description    string
	IdempotencyKey string
}

// Event is an asynchronous payment-status notification, already authenticated
// when returned by VerifyEvent.
type Event struct {
	ID        string
	Type      string
	PaymentID string
	Metadata  map[string]string
}

type Client interface {
	CreateIntent(ctx context.Context, req CreateIntentRequest) (Intent, error)
	VerifyEvent(payload []byte, signatureHeader string) (Event, error)
}

// New selects the processor strategy once at startup. Production requires real
// credentials, development without them gets the simulated client. The choice is
// logged so an operator can always tell which variant is serving.
func New(cfg *config.Config) Client {
	if cfg.Server.Env == constant.ServerEnvProduction {
		if cfg.Payment.SecretKey == "" || cfg.Payment.WebhookSecret == "" {
			log.Fatal().Msg("Payment credentials are required in production, refusing to start")
		}
	}

	if cfg.Payment.SecretKey == "" {
		log.Warn().Msg("No payment secret key configured, using SIMULATED payment processor. No real charge will ever be made")

		return newSimClient()
	}

	if cfg.Payment.WebhookSecret == "" {
		log.Warn().Msg("No webhook secret configured, event signature verification is BYPASSED")
	}

	log.Info().Str("api", cfg.Payment.APIURL).Msg("Payment processor client initialized")

	return newHTTPClient(cfg)
}
