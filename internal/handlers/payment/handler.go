package payment

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"croisiere/infras/otel"
	"croisiere/internal/domains/payment/model/dto"
	"croisiere/internal/domains/payment/service"
	"croisiere/shared/constant"
	"croisiere/shared/failure"
	"croisiere/shared/validator"
	"croisiere/transport/http/response"
)

// Webhook bodies are small JSON documents, anything bigger is abuse.
const maxEventBodySize = 1 << 20

type Handler struct {
	service service.Payment
	otel    otel.Otel
}

func New(service service.Payment, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Post("/payment-intents", handler.CreatePaymentIntent)
	router.Post("/webhooks/payment", handler.HandlePaymentEvent)
}

// CreatePaymentIntent and HandlePaymentEvent answer with the raw payload shape
// the booking UI and the processor expect, without the data envelope used by
// the rest of the API.

func (handler *Handler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreatePaymentIntent")
	defer scope.End()

	req := dto.CreateIntentRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate payment intent request")

		handler.withRawError(w, err)

		return
	}

	res, err := handler.service.CreateIntent(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create payment intent")

		handler.withRawError(w, err)

		return
	}

	response.WithRawJSON(w, http.StatusOK, res)
}

func (handler *Handler) HandlePaymentEvent(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".HandlePaymentEvent")
	defer scope.End()

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxEventBodySize))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to read payment event body")

		handler.withRawError(w, failure.BadRequestFromString("unreadable event body"))

		return
	}

	ack, err := handler.service.HandleEvent(ctx, payload, r.Header.Get(constant.RequestHeaderSignature))
	if err != nil {
		scope.TraceError(err)

		handler.withRawError(w, err)

		return
	}

	response.WithRawJSON(w, http.StatusOK, ack)
}

func (handler *Handler) withRawError(w http.ResponseWriter, err error) {
	response.WithRawJSON(w, failure.GetCode(err), map[string]string{"error": err.Error()})
}
