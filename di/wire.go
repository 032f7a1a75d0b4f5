//go:build wireinject
// +build wireinject

package di

import (
	"hostel/config"
	"hostel/infras/backend"
	"hostel/infras/jwt"
	"hostel/infras/otel"
	"hostel/infras/postgres"
	"hostel/infras/redis"
	"hostel/internal/domains/desk"
	"hostel/permissions"
	"hostel/shared/cache"
	"hostel/transport/http"
	"hostel/transport/http/middleware"
	"hostel/transport/http/router"

	activityRepository "hostel/internal/domains/activity/repository"
	activityService "hostel/internal/domains/activity/service"
	bookingService "hostel/internal/domains/booking/service"
	referenceService "hostel/internal/domains/reference/service"

	activityHandler "hostel/internal/handlers/activity"
	deskHandler "hostel/internal/handlers/desk"
	referenceHandler "hostel/internal/handlers/reference"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	backend.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var activityDomain = wire.NewSet(
	activityRepository.New,
	activityService.New,
)

var bookingDomain = wire.NewSet(
	bookingService.New,
	referenceService.New,
	desk.NewRegistry,
)

var domains = wire.NewSet(
	activityDomain,
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	deskHandler.New,
	referenceHandler.New,
	activityHandler.New,
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
