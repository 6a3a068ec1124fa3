package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"homefix/config"
	"homefix/infras/otel"
	"homefix/internal/domains/booking/model"
	"homefix/internal/domains/booking/model/dto"
	"homefix/internal/domains/booking/repository"
	discountModel "homefix/internal/domains/discount/model"
	notificationModel "homefix/internal/domains/notification/model"
	notification "homefix/internal/domains/notification/service"
	"homefix/shared"
	"homefix/shared/cache"
	"homefix/shared/constant"
	gDto "homefix/shared/dto"
	"homefix/shared/failure"
	"homefix/shared/timezone"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

const (
	// maxRedemptionAttempts bounds how often create re-prices after losing a discount race.
	maxRedemptionAttempts = 3
	// maxSwapAttempts bounds how often a conditional write is re-evaluated after the booking
	// changed underneath it.
	maxSwapAttempts = 3

	defaultHorizonDays  = 60
	defaultStoreTimeout = 5 * time.Second
	defaultCodePrefix   = "HF"
)

// PriceResolver freezes the price of a new booking.
type PriceResolver interface {
	ResolvePrice(ctx context.Context, req discountModel.PriceRequest) (discountModel.PriceResolution, error)
}

type Booking interface {
	Create(ctx context.Context, actor model.Actor, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	Transition(ctx context.Context, actor model.Actor, id, action, reason string) (dto.BookingResponse, error)
	Reschedule(ctx context.Context, actor model.Actor, id string, req dto.RescheduleRequest) (dto.BookingResponse, error)
	AssignTechnician(ctx context.Context, actor model.Actor, id string, req dto.AssignTechnicianRequest) (dto.BookingResponse, error)
	RecordPayment(ctx context.Context, actor model.Actor, id string, req dto.PaymentRequest) (dto.BookingResponse, error)
	Get(ctx context.Context, actor model.Actor, id string) (dto.BookingResponse, error)
	GetAll(ctx context.Context, actor model.Actor, params gDto.QueryParams, filter model.Filter) (dto.GetBookingsResponse, error)
	Reschedules(ctx context.Context, actor model.Actor, id string) ([]dto.RescheduleResponse, error)
}

type serviceImpl struct {
	repo       repository.Booking
	pricing    PriceResolver
	dispatcher notification.Dispatcher
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
}

func New(repo repository.Booking, pricing PriceResolver, dispatcher notification.Dispatcher, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Booking {
	return &serviceImpl{
		repo:       repo,
		pricing:    pricing,
		dispatcher: dispatcher,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
	}
}

// ActorFromContext reads the identity the auth middleware stored on ctx.
func ActorFromContext(ctx context.Context) model.Actor {
	id, _ := ctx.Value(constant.ContextKeyUserID).(string)
	name, _ := ctx.Value(constant.ContextKeyUserName).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	return model.Actor{ID: id, Name: name, Role: role}
}

func (s *serviceImpl) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := defaultStoreTimeout
	if s.cfg.Booking.StoreTimeoutSeconds > 0 {
		timeout = time.Duration(s.cfg.Booking.StoreTimeoutSeconds) * time.Second
	}

	return context.WithTimeout(ctx, timeout)
}

func (s *serviceImpl) horizonDays() int {
	if s.cfg.Booking.HorizonDays > 0 {
		return s.cfg.Booking.HorizonDays
	}

	return defaultHorizonDays
}

// checkSchedule accepts dates from today up to the booking horizon, in the application
// timezone.
func (s *serviceImpl) checkSchedule(date string) error {
	scheduled, err := timezone.ParseDate(date)
	if err != nil {
		return failure.BadRequestFromString("scheduled_date must use the YYYY-MM-DD format") // nolint:wrapcheck
	}

	today := timezone.Today()

	if scheduled.Before(today) {
		return failure.BadRequestFromString("scheduled_date must not be in the past") // nolint:wrapcheck
	}

	if scheduled.After(today.AddDate(0, 0, s.horizonDays())) {
		return failure.BadRequestFromString(fmt.Sprintf("scheduled_date must be within %d days", s.horizonDays())) // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) newCode(now time.Time) string {
	prefix := s.cfg.Booking.CodePrefix
	if prefix == constant.Empty {
		prefix = defaultCodePrefix
	}

	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]

	return fmt.Sprintf("%s-%s-%s", prefix, now.Format("20060102"), suffix)
}

func (s *serviceImpl) Create(ctx context.Context, actor model.Actor, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	customerID := actor.ID
	if actor.Is(constant.RoleAdmin) {
		customerID = req.CustomerID
	}

	if customerID == constant.Empty {
		return res, failure.BadRequestFromString("customer_id is required") // nolint:wrapcheck
	}

	if err = authorize(actor, customerID, constant.Empty, CapabilityCreate); err != nil {
		return res, err
	}

	if err = s.checkSchedule(req.ScheduledDate); err != nil {
		return res, err
	}

	for attempt := 1; attempt <= maxRedemptionAttempts; attempt++ {
		price, err := s.pricing.ResolvePrice(ctx, req.PriceRequest(customerID))
		if err != nil {
			log.Error().Err(err).Msg("failed to resolve booking price")

			return res, err // nolint:wrapcheck
		}

		now := timezone.Now()
		booking := req.ToModel(uuid.NewString(), s.newCode(now), customerID, actor.ID, price, now)

		err = s.insert(ctx, booking, claimFor(booking, price, now))
		if errors.Is(err, repository.ErrRedemptionUnavailable) {
			log.Warn().Str("discount", booking.DiscountID).Int("attempt", attempt).Msg("discount no longer redeemable, re-pricing booking")

			continue
		}

		if err != nil {
			log.Error().Err(err).Msg("failed to create booking")

			return res, failure.Transient(err) // nolint:wrapcheck
		}

		s.invalidate(ctx, constant.Empty)
		s.notify(ctx, booking, notificationModel.TypeBookingCreated, constant.Empty, actor)

		res.FromModel(booking)

		return res, nil
	}

	return res, failure.Conflict("discount is no longer available, please retry") // nolint:wrapcheck
}

func (s *serviceImpl) insert(ctx context.Context, booking model.Booking, claim *discountModel.Claim) error {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	return s.repo.Insert(ctx, booking, claim) //nolint:wrapcheck
}

func claimFor(booking model.Booking, price discountModel.PriceResolution, now time.Time) *discountModel.Claim {
	if price.Discount == nil {
		return nil
	}

	return &discountModel.Claim{
		Redemption: discountModel.Redemption{
			ID:             uuid.NewString(),
			DiscountID:     price.Discount.DiscountID,
			UserID:         booking.CustomerID,
			BookingID:      booking.ID,
			DiscountAmount: price.Discount.Amount,
			RedeemedAt:     now,
		},
		PerUserLimit: price.Discount.PerUserLimit,
	}
}

func (s *serviceImpl) Get(ctx context.Context, actor model.Actor, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, authorize(actor, res.CustomerID, res.TechnicianID, CapabilityView)
	}

	booking, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	if err = authorizeBooking(actor, booking, CapabilityView); err != nil {
		return dto.BookingResponse{}, err
	}

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, actor model.Actor, params gDto.QueryParams, filter model.Filter) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAllBookings")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter, err = scopeFilter(actor, filter)
	if err != nil {
		return res, err
	}

	params = dto.NormalizeParams(params)
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, params, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.count(ctx, filter)
	if err != nil {
		return res, err
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	bookings, err := s.repo.GetAll(storeCtx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, failure.Transient(err) // nolint:wrapcheck
	}

	res.FromModels(bookings, total, params.Limit)

	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, filter model.Filter) (res int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, gDto.QueryParams{}, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	res, err = s.repo.Count(storeCtx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, failure.Transient(err) // nolint:wrapcheck
	}

	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Reschedules(ctx context.Context, actor model.Actor, id string) (res []dto.RescheduleResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reschedules")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	if err = authorizeBooking(actor, booking, CapabilityView); err != nil {
		return res, err
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	entries, err := s.repo.Reschedules(storeCtx, id)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to get reschedules")

		return res, failure.Transient(err) // nolint:wrapcheck
	}

	res = make([]dto.RescheduleResponse, len(entries))
	for i, entry := range entries {
		res[i].FromModel(entry)
	}

	return res, nil
}

// load reads the stored booking, bypassing the cache.
func (s *serviceImpl) load(ctx context.Context, id string) (model.Booking, error) {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	booking, err := s.repo.Get(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to get booking")

		return booking, failure.Transient(err) // nolint:wrapcheck
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return booking, nil
}

// swap runs a conditional write. A missing booking is NotFound; a guard that no longer
// holds returns the stored booking with swapped false.
func (s *serviceImpl) swap(ctx context.Context, id string, guard model.Guard, changes map[string]any, entry *model.RescheduleEntry) (model.Booking, bool, error) {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	booking, swapped, err := s.repo.CompareAndSwap(ctx, id, guard, changes, entry)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to update booking")

		return booking, false, failure.Transient(err) // nolint:wrapcheck
	}

	if booking.ID == constant.Empty {
		return booking, false, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return booking, swapped, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete booking from cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()
}

// notify runs after the change is stored. The dispatcher never fails the caller.
func (s *serviceImpl) notify(ctx context.Context, booking model.Booking, eventType, from string, actor model.Actor) {
	s.dispatcher.Dispatch(ctx, notificationModel.Event{
		Type:        eventType,
		BookingID:   booking.ID,
		BookingCode: booking.Code,
		FromStatus:  from,
		ToStatus:    booking.Status,
		Actor:       notificationModel.Actor{ID: actor.ID, Role: actor.Role},
	})
}
