package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/rs/zerolog/log"

	"croisiere/config"
	"croisiere/infras/kafka"
	"croisiere/infras/otel"
	"croisiere/infras/payment"
	"croisiere/internal/domains/payment/model/dto"
	reservationModel "croisiere/internal/domains/reservation/model"
	reservationRepo "croisiere/internal/domains/reservation/repository"
	"croisiere/shared"
	"croisiere/shared/cache"
	"croisiere/shared/constant"
	"croisiere/shared/failure"
	"croisiere/shared/timezone"
	"croisiere/shared/validator"
)

const (
	cacheGetReservation    = "reservation:get"
	cacheGetAllReservation = "reservation:gets"

	defaultCurrency = "eur"

	genericIssueFailure = "payment could not be initialized, please retry"
)

// operatorAlert is the escalation payload for reconciliation failures that are
// acknowledged to the processor but still need a human.
type operatorAlert struct {
	Reason        string `json:"reason"`
	ReservationID string `json:"reservation_id"`
	EventID       string `json:"event_id"`
	PaymentID     string `json:"payment_id"`
	At            string `json:"at"`
}

type Payment interface {
	CreateIntent(ctx context.Context, req dto.CreateIntentRequest) (dto.CreateIntentResponse, error)
	HandleEvent(ctx context.Context, payload []byte, signatureHeader string) (dto.WebhookAck, error)
}

type serviceImpl struct {
	processor payment.Client
	repo      reservationRepo.Reservation
	alerts    kafka.Client
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
}

func New(
	processor payment.Client,
	repo reservationRepo.Reservation,
	alerts kafka.Client,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Payment {
	return &serviceImpl{
		processor: processor,
		repo:      repo,
		alerts:    alerts,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
	}
}

// CreateIntent issues a fresh authorization for one reservation. A retry after
// a failure abandons the previous intent and creates a new one; the idempotency
// key derived from reservation and amount keeps an accidental double submission
// of the same booking from opening two live intents.
func (s *serviceImpl) CreateIntent(ctx context.Context, req dto.CreateIntentRequest) (res dto.CreateIntentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateIntent")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err := validator.ValidateStruct(&req); err != nil {
		return res, err //nolint:wrapcheck
	}

	amountMinor, err := toMinorUnits(req.Amount.String())
	if err != nil {
		return res, failure.BadRequestFromString("amount must be a positive decimal") //nolint:wrapcheck
	}

	currency := s.cfg.Payment.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	reservationID := req.ReservationID.String()

	intent, err := s.processor.CreateIntent(ctx, payment.CreateIntentRequest{
		AmountMinor:   amountMinor,
		Currency:      currency,
		ReservationID: reservationID,
		CustomerEmail: req.CustomerEmail,
		CustomerName:  req.CustomerName,
		// Observational only, shows the reservation on the processor dashboard.
		Description:    fmt.Sprintf("Cruise reservation %s", reservationID),
		IdempotencyKey: idempotencyKey(reservationID, amountMinor),
	})
	if err != nil {
		// Full detail stays server-side, the client only ever sees the generic message.
		log.Error().Err(err).Str("reservation_id", reservationID).Msg("failed to create payment intent")

		return res, failure.InternalError(fmt.Errorf("%s", genericIssueFailure)) //nolint:wrapcheck
	}

	res.PaymentIntentID = intent.ID
	res.ClientSecret = intent.ClientSecret

	if intent.Simulated {
		res.Mode = constant.PaymentModeDevelopment
	}

	scope.AddEvent("Payment intent issued for reservation " + reservationID)

	return res, nil
}

// HandleEvent runs the reconciliation state machine: verify, classify, extract,
// apply, acknowledge. Once the signature checks out the processor always gets
// an acknowledgment, downstream store failures go to the operator channel
// instead of triggering a redelivery storm.
func (s *serviceImpl) HandleEvent(ctx context.Context, payload []byte, signatureHeader string) (res dto.WebhookAck, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".HandleEvent")
	defer scope.End()
	defer scope.TraceIfError(err)

	event, err := s.processor.VerifyEvent(payload, signatureHeader)
	if err != nil {
		log.Error().Err(err).Msg("rejected payment event, signature verification failed")

		return res, failure.BadRequestFromString("invalid event signature") //nolint:wrapcheck
	}

	res.Received = true

	if event.Type != payment.EventTypePaymentSucceeded {
		log.Info().Str("type", event.Type).Msg("ignoring payment event type")

		return res, nil
	}

	reservationID := event.Metadata[payment.MetadataKeyReservationID]
	if reservationID == "" {
		log.Warn().Str("event_id", event.ID).Msg("payment event carries no reservation id, acknowledging without reconciliation")

		return res, nil
	}

	s.apply(ctx, event, reservationID)

	return res, nil
}

// apply performs the idempotent reservation update. Setting the same three
// fields to the same values makes duplicate delivery safe without locking.
func (s *serviceImpl) apply(ctx context.Context, event payment.Event, reservationID string) {
	filter := shared.FilterByID(reservationID, reservationModel.FieldID, reservationModel.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Str("reservation_id", reservationID).Msg("failed to look up reservation for reconciliation")
		s.alert(ctx, event, reservationID, "reservation lookup failed")

		return
	}

	if !exist {
		log.Warn().Str("reservation_id", reservationID).Msg("reservation missing for confirmed payment, acknowledging anyway")
		s.alert(ctx, event, reservationID, "reservation row not found")

		return
	}

	fields := map[string]any{
		reservationModel.FieldPaymentConfirmed:   true,
		reservationModel.FieldStatus:             constant.ReservationStatusConfirmed,
		reservationModel.FieldProcessorPaymentID: event.PaymentID,
		constant.FieldModifiedAt:                 timezone.Now(),
		constant.FieldModifiedBy:                 "payment-reconciliation",
	}

	if err := s.repo.Update(ctx, fields, filter); err != nil {
		log.Error().Err(err).Str("reservation_id", reservationID).Msg("failed to apply payment confirmation")
		s.alert(ctx, event, reservationID, "reservation update failed")

		return
	}

	log.Info().
		Str("reservation_id", reservationID).
		Str("payment_id", event.PaymentID).
		Msg("payment confirmed on reservation")

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetReservation, reservationID)); err != nil {
			log.Error().Err(err).Msg("failed to delete reservation from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllReservation)
	}()
}

func (s *serviceImpl) alert(ctx context.Context, event payment.Event, reservationID, reason string) {
	message := kafka.Message{
		Key: reservationID,
		Value: operatorAlert{
			Reason:        reason,
			ReservationID: reservationID,
			EventID:       event.ID,
			PaymentID:     event.PaymentID,
			At:            timezone.Now().Format(constant.DateFormat),
		},
	}

	if err := s.alerts.SendMessages(ctx, s.cfg.Kafka.AlertTopic, message); err != nil {
		log.Error().Err(err).Str("reservation_id", reservationID).Msg("failed to publish operator alert")
	}
}

func idempotencyKey(reservationID string, amountMinor int64) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s:%d", reservationID, amountMinor))

	return hex.EncodeToString(sum[:])
}
