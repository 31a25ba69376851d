package availability

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"croisiere/infras/otel"
	"croisiere/internal/domains/availability/model/dto"
	"croisiere/internal/domains/availability/service"
	"croisiere/shared/constant"
	"croisiere/transport/http/response"
)

type Handler struct {
	service service.Availability
	otel    otel.Otel
}

func New(service service.Availability, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/availability", handler.CheckAvailability)
}

// CheckAvailability answers whether a sailing can be booked for the given date,
// cabin type and plan. A failed lookup is a 503, not a "no".
func (handler *Handler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CheckAvailability")
	defer scope.End()

	query := dto.AvailabilityQuery{
		Date:      r.URL.Query().Get(constant.RequestParamDate),
		CabinType: r.URL.Query().Get(constant.RequestParamCabinType),
		Plan:      r.URL.Query().Get(constant.RequestParamPlan),
	}

	answer, err := handler.service.Check(ctx, query)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to check availability")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, answer)
}
