package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"croisiere/config"
)

const (
	defaultAPIURL           = "https://api.payment.example.com"
	defaultTimeoutSeconds   = 10
	defaultToleranceSeconds = 300

	headerIdempotencyKey = "Idempotency-Key"
)

type httpClient struct {
	apiURL        string
	secretKey     string
	webhookSecret string
	tolerance     time.Duration
	client        *http.Client
}

func newHTTPClient(cfg *config.Config) *httpClient {
	apiURL := cfg.Payment.APIURL
	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	timeout := cfg.Payment.TimeoutSeconds
	if timeout <= 0 {
		timeout = defaultTimeoutSeconds
	}

	tolerance := cfg.Payment.ToleranceSeconds
	if tolerance <= 0 {
		tolerance = defaultToleranceSeconds
	}

	return &httpClient{
		apiURL:        strings.TrimSuffix(apiURL, "/"),
		secretKey:     cfg.Payment.SecretKey,
		webhookSecret: cfg.Payment.WebhookSecret,
		tolerance:     time.Duration(tolerance) * time.Second,
		client:        &http.Client{Timeout: time.Duration(timeout) * time.Second},
	}
}

type intentPayload struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

type errorPayload struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *httpClient) CreateIntent(ctx context.Context, req CreateIntentRequest) (Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(req.AmountMinor, 10))
	form.Set("currency", req.Currency)
	form.Set("description", req.Description)
	form.Set("receipt_email", req.CustomerEmail)
	form.Set("metadata["+MetadataKeyReservationID+"]", req.ReservationID)

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.apiURL+"/v1/payment_intents",
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return Intent{}, fmt.Errorf("failed to build intent request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)

	if req.IdempotencyKey != "" {
		httpReq.Header.Set(headerIdempotencyKey, req.IdempotencyKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return Intent{}, fmt.Errorf("payment processor unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Intent{}, fmt.Errorf("failed to read processor response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var failed errorPayload
		if err := json.Unmarshal(body, &failed); err == nil && failed.Error.Message != "" {
			return Intent{}, fmt.Errorf("processor rejected intent: %s", failed.Error.Message)
		}

		return Intent{}, fmt.Errorf("processor rejected intent with status %d", resp.StatusCode)
	}

	var payload intentPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return Intent{}, fmt.Errorf("failed to decode processor response: %w", err)
	}

	return Intent{
		ID:           payload.ID,
		ClientSecret: payload.ClientSecret,
		AmountMinor:  payload.Amount,
		Currency:     payload.Currency,
		Status:       payload.Status,
	}, nil
}

type eventPayload struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID       string            `json:"id"`
			Metadata map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

func decodeEvent(payload []byte) (Event, error) {
	var raw eventPayload
	if err := json.Unmarshal(payload, &raw); err != nil {
		return Event{}, fmt.Errorf("%w: %s", ErrInvalidPayload, err)
	}

	return Event{
		ID:        raw.ID,
		Type:      raw.Type,
		PaymentID: raw.Data.Object.ID,
		Metadata:  raw.Data.Object.Metadata,
	}, nil
}

func (c *httpClient) VerifyEvent(payload []byte, signatureHeader string) (Event, error) {
	if c.webhookSecret == "" {
		log.Warn().Msg("Accepting payment event WITHOUT signature verification, no webhook secret configured")

		return decodeEvent(payload)
	}

	if err := verifySignature(c.webhookSecret, payload, signatureHeader, c.tolerance); err != nil {
		return Event{}, ErrInvalidSignature
	}

	return decodeEvent(payload)
}
