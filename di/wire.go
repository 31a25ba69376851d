//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"croisiere/config"
	"croisiere/infras/kafka"
	"croisiere/infras/otel"
	"croisiere/infras/payment"
	"croisiere/infras/postgres"
	"croisiere/infras/redis"
	"croisiere/shared/cache"
	"croisiere/transport/http"
	"croisiere/transport/http/middleware"
	"croisiere/transport/http/router"

	availabilityService "croisiere/internal/domains/availability/service"
	paymentService "croisiere/internal/domains/payment/service"
	reservationRepository "croisiere/internal/domains/reservation/repository"
	reservationService "croisiere/internal/domains/reservation/service"

	availabilityHandler "croisiere/internal/handlers/availability"
	paymentHandler "croisiere/internal/handlers/payment"
	reservationHandler "croisiere/internal/handlers/reservation"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	kafka.New,
	payment.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var availabilityDomain = wire.NewSet(
	availabilityService.NewCalendarSource,
	availabilityService.New,
)

var reservationDomain = wire.NewSet(
	reservationRepository.New,
	reservationService.New,
)

var paymentDomain = wire.NewSet(
	paymentService.New,
)

var domains = wire.NewSet(
	availabilityDomain,
	reservationDomain,
	paymentDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	reservationHandler.New,
	availabilityHandler.New,
	paymentHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
