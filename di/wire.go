//go:build wireinject
// +build wireinject

package di

import (
	"gatepass/config"
	"gatepass/infras/jwt"
	"gatepass/infras/kafka"
	"gatepass/infras/otel"
	"gatepass/infras/postgres"
	"gatepass/infras/qr"
	"gatepass/infras/redis"
	"gatepass/permissions"
	"gatepass/shared/cache"
	"gatepass/transport/http"
	"gatepass/transport/http/middleware"
	"gatepass/transport/http/router"

	bookingRepository "gatepass/internal/domains/booking/repository"
	bookingService "gatepass/internal/domains/booking/service"
	checkinRepository "gatepass/internal/domains/checkin/repository"
	checkinService "gatepass/internal/domains/checkin/service"
	guestRequestRepository "gatepass/internal/domains/guestrequest/repository"
	guestRequestService "gatepass/internal/domains/guestrequest/service"
	pricingRepository "gatepass/internal/domains/pricing/repository"
	pricingService "gatepass/internal/domains/pricing/service"

	bookingHandler "gatepass/internal/handlers/booking"
	checkinHandler "gatepass/internal/handlers/checkin"
	guestRequestHandler "gatepass/internal/handlers/guestrequest"
	healthHandler "gatepass/internal/handlers/health"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	qr.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	permissions.Get,
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var pricingDomain = wire.NewSet(
	pricingRepository.New,
	pricingService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var guestRequestDomain = wire.NewSet(
	guestRequestRepository.New,
	guestRequestService.New,
)

var checkinDomain = wire.NewSet(
	checkinRepository.New,
	checkinService.New,
)

var domains = wire.NewSet(
	pricingDomain,
	bookingDomain,
	guestRequestDomain,
	checkinDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	healthHandler.New,
	bookingHandler.New,
	checkinHandler.New,
	guestRequestHandler.New,
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
