package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"homefix/config"
	"homefix/infras/otel"
	"homefix/internal/domains/discount/model"
	"homefix/internal/domains/discount/model/dto"
	"homefix/internal/domains/discount/repository"
	"homefix/shared"
	"homefix/shared/cache"
	"homefix/shared/constant"
	gDto "homefix/shared/dto"
	"homefix/shared/failure"
	"homefix/shared/timezone"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetDiscount    = "discount:get"
	cacheGetAllDiscount = "discount:gets"
)

type Discount interface {
	ResolvePrice(ctx context.Context, req model.PriceRequest) (model.PriceResolution, error)
	Create(ctx context.Context, req dto.CreateDiscountRequest) (dto.DiscountResponse, error)
	Get(ctx context.Context, id string) (dto.DiscountResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter model.Filter) (dto.GetDiscountsResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateDiscountRequest) (dto.DiscountResponse, error)
	Deactivate(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo  repository.Discount
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Discount, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Discount {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	seconds := s.cfg.Booking.StoreTimeoutSeconds
	if seconds <= 0 {
		seconds = 5
	}

	return context.WithTimeout(ctx, time.Duration(seconds)*time.Second)
}

// ResolvePrice computes the price a booking would be frozen at. A code that does not
// resolve to a usable offer is not an error: the listed price applies.
func (s *serviceImpl) ResolvePrice(ctx context.Context, req model.PriceRequest) (res model.PriceResolution, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ResolvePrice")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.ListedPrice <= 0 {
		return res, failure.BadRequestFromString("listed price must be greater than zero") // nolint:wrapcheck
	}

	if req.ServiceID == constant.Empty || req.CategoryID == constant.Empty {
		return res, failure.BadRequestFromString("service_id and category_id are required") // nolint:wrapcheck
	}

	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	now := timezone.Now()

	if req.OfferCode != constant.Empty {
		return s.resolveCode(ctx, req, now)
	}

	candidates, err := s.repo.ListAutoApplied(ctx, req.CategoryID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list automatic discounts")

		return res, failure.Transient(err) // nolint:wrapcheck
	}

	eligible := make([]model.Discount, 0, len(candidates))

	for _, candidate := range candidates {
		if !candidate.Applicable(now, req.CategoryID, req.ServiceID) {
			continue
		}

		ok, err := s.withinUserLimit(ctx, candidate, req.UserID)
		if err != nil {
			return res, err
		}

		if ok {
			eligible = append(eligible, candidate)
		}
	}

	best, ok := model.Best(req.ListedPrice, eligible)
	if !ok {
		return model.ListedPrice(req), nil
	}

	return model.Apply(req, best), nil
}

func (s *serviceImpl) resolveCode(ctx context.Context, req model.PriceRequest, now time.Time) (model.PriceResolution, error) {
	code := strings.ToUpper(strings.TrimSpace(req.OfferCode))

	discount, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		log.Error().Err(err).Str("code", code).Msg("failed to get discount by code")

		return model.PriceResolution{}, failure.Transient(err) // nolint:wrapcheck
	}

	if discount.ID == constant.Empty || !discount.Applicable(now, req.CategoryID, req.ServiceID) {
		log.Debug().Str("code", code).Msg("offer code not applicable, using listed price")

		return model.ListedPrice(req), nil
	}

	ok, err := s.withinUserLimit(ctx, discount, req.UserID)
	if err != nil {
		return model.PriceResolution{}, err
	}

	if !ok {
		log.Debug().Str("code", code).Str("user", req.UserID).Msg("per user limit reached, using listed price")

		return model.ListedPrice(req), nil
	}

	return model.Apply(req, discount), nil
}

func (s *serviceImpl) withinUserLimit(ctx context.Context, discount model.Discount, userID string) (bool, error) {
	if discount.PerUserLimit == 0 || userID == constant.Empty {
		return true, nil
	}

	used, err := s.repo.CountRedemptions(ctx, discount.ID, userID)
	if err != nil {
		log.Error().Err(err).Str("discount", discount.ID).Msg("failed to count redemptions")

		return false, failure.Transient(err) // nolint:wrapcheck
	}

	return used < discount.PerUserLimit, nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateDiscountRequest) (res dto.DiscountResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateDiscount")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	discount, err := req.ToModel(user)
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	if err = s.repo.Insert(ctx, discount); err != nil {
		if errors.Is(err, repository.ErrDuplicateCode) {
			return res, failure.Conflict("discount code already exists") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create discount")

		return res, failure.Transient(err) // nolint:wrapcheck
	}

	go func() {
		shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, cacheGetAllDiscount)
	}()

	res.FromModel(discount)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.DiscountResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetDiscount")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetDiscount, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for discount")

		return res, nil
	}

	discount, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(discount)

	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save discount to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter model.Filter) (res dto.GetDiscountsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAllDiscounts")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllDiscount, params, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for discounts")

		return res, nil
	}

	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count discounts")

		return res, failure.Transient(err) // nolint:wrapcheck
	}

	discounts, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get discounts")

		return res, failure.Transient(err) // nolint:wrapcheck
	}

	res.FromModels(discounts, total, params.Limit)

	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save discounts to cache")
		}
	}()

	return res, nil
}

// Update edits the offer only. Bookings keep the amounts they were frozen with.
func (s *serviceImpl) Update(ctx context.Context, id string, req dto.UpdateDiscountRequest) (res dto.DiscountResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateDiscount")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	current, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	changes, merged, err := req.Changes(current, user)
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	if err = s.save(ctx, id, changes); err != nil {
		return res, err
	}

	res.FromModel(merged)

	return res, nil
}

// Deactivate switches the offer off. Discounts are never deleted so bookings can keep
// referencing them.
func (s *serviceImpl) Deactivate(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeactivateDiscount")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	current, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if !current.IsActive {
		return nil
	}

	return s.save(ctx, id, map[string]any{
		model.FieldIsActive:      false,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	})
}

func (s *serviceImpl) load(ctx context.Context, id string) (model.Discount, error) {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	discount, err := s.repo.Get(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to get discount")

		return discount, failure.Transient(err) // nolint:wrapcheck
	}

	if discount.ID == constant.Empty {
		return discount, failure.NotFound("discount not found") // nolint:wrapcheck
	}

	return discount, nil
}

func (s *serviceImpl) save(ctx context.Context, id string, changes map[string]any) error {
	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	if err := s.repo.Update(storeCtx, id, changes); err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to update discount")

		return fmt.Errorf("failed to update discount: %w", failure.Transient(err))
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetDiscount, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete discount from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllDiscount)
	}()

	return nil
}
