//go:build wireinject
// +build wireinject

package di

import (
	"homefix/config"
	"homefix/infras/jwt"
	"homefix/infras/kafka"
	"homefix/infras/otel"
	"homefix/permissions"
	"homefix/transport/http"
	"homefix/transport/http/middleware"
	"homefix/transport/http/router"

	bookingService "homefix/internal/domains/booking/service"
	discountService "homefix/internal/domains/discount/service"
	notificationService "homefix/internal/domains/notification/service"

	bookingHandler "homefix/internal/handlers/booking"
	discountHandler "homefix/internal/handlers/discount"
	paymentHandler "homefix/internal/handlers/payment"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	otel.New,
	jwt.New,
	kafka.New,
	ProvideStores,
	wire.FieldsOf(new(Stores), "Booking", "Discount"),
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	ProvideCache,
)

var notificationDomain = wire.NewSet(
	ProvideNotifier,
	notificationService.New,
)

var discountDomain = wire.NewSet(
	discountService.New,
	ProvidePriceResolver,
)

var bookingDomain = wire.NewSet(
	bookingService.New,
)

var domains = wire.NewSet(
	notificationDomain,
	discountDomain,
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	bookingHandler.New,
	discountHandler.New,
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
