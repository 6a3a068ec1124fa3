package di

import (
	"homefix/config"
	"homefix/helper"
	"homefix/infras/dynamodb"
	"homefix/infras/kafka"
	"homefix/infras/memstore"
	"homefix/infras/otel"
	"homefix/infras/postgres"
	"homefix/infras/rabbitmq"
	"homefix/infras/redis"
	"homefix/shared/cache"

	bookingRepository "homefix/internal/domains/booking/repository"
	bookingService "homefix/internal/domains/booking/service"
	discountRepository "homefix/internal/domains/discount/repository"
	discountService "homefix/internal/domains/discount/service"
	"homefix/internal/domains/notification/notifier"

	"github.com/rs/zerolog/log"
)

// Stores holds both repositories on the same backend. Bookings redeem discounts inside their own
// write, so the two must never be split across drivers.
type Stores struct {
	Booking  bookingRepository.Booking
	Discount discountRepository.Discount
}

func ProvideStores(cfg *config.Config, otel otel.Otel) Stores {
	switch cfg.DB.Driver {
	case config.DriverDynamoDB:
		client := dynamodb.New(cfg)

		return Stores{
			Booking:  bookingRepository.NewDynamoDB(client, cfg, otel),
			Discount: discountRepository.NewDynamoDB(client, cfg, otel),
		}
	case config.DriverMemory:
		store := memstore.New()

		return Stores{
			Booking:  bookingRepository.NewMemory(store),
			Discount: discountRepository.NewMemory(store),
		}
	default:
		if cfg.DB.Postgres.AutoMigrate {
			if err := helper.Up(cfg); err != nil {
				log.Fatal().Err(err).Msg("Failed to apply database migrations")
			}
		}

		db := postgres.New(cfg)

		return Stores{
			Booking:  bookingRepository.NewPostgres(db, otel),
			Discount: discountRepository.NewPostgres(db, otel),
		}
	}
}

func ProvideCache(cfg *config.Config, otel otel.Otel) cache.RedisCache {
	if !cfg.Cache.Enable {
		return cache.NewNoopCache()
	}

	return cache.NewRedisCache(redis.New(cfg), otel)
}

func ProvideNotifier(cfg *config.Config, client kafka.Client) notifier.Notifier {
	switch cfg.Notification.Transport {
	case config.TransportKafka:
		return notifier.NewKafka(client, cfg)
	case config.TransportRabbitMQ:
		publisher, err := rabbitmq.New(cfg)
		if err != nil {
			log.Error().Err(err).Msg("RabbitMQ unavailable, booking events will only be logged")

			return notifier.NewLog()
		}

		return notifier.NewRabbitMQ(publisher)
	default:
		return notifier.NewLog()
	}
}

func ProvidePriceResolver(discounts discountService.Discount) bookingService.PriceResolver {
	return discounts
}
