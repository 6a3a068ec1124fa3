package discount

import (
	"homefix/infras/otel"
	"homefix/internal/domains/discount/model/dto"
	"homefix/internal/domains/discount/service"
	"homefix/shared/constant"
	gDto "homefix/shared/dto"
	"homefix/shared/validator"
	"homefix/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Discount
	otel    otel.Otel
}

func New(service service.Discount, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Post("/prices/resolve", handler.ResolvePrice)

	router.Route("/discounts", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateDiscount)
		routerGroup.Get("/", handler.GetDiscounts)
		routerGroup.Get("/{id}", handler.GetDiscountByID)
		routerGroup.Patch("/{id}", handler.UpdateDiscount)
		routerGroup.Post("/{id}/deactivate", handler.DeactivateDiscount)
	})
}

// ResolvePrice quotes the price a booking would be created with.
// @Summary Resolve a price
// @Description Applies the offer code when it is valid, otherwise the best automatic discount.
// @Description The quote is not a reservation: the discount is only redeemed when the booking is created.
// @Tags Pricing
// @Accept json
// @Produce json
// @Param request body dto.ResolvePriceRequest true "Price request"
// @Success 200 {object} response.Data[dto.PriceResolutionResponse] "Resolved price"
// @Failure 400 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/prices/resolve [post]
// @Security BearerAuth
func (handler *Handler) ResolvePrice(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ResolvePrice")
	defer scope.End()

	req := dto.ResolvePriceRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	price, err := handler.service.ResolvePrice(ctx, req.ToModel(userID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to resolve price")

		response.WithError(w, err)

		return
	}

	res := dto.PriceResolutionResponse{}
	res.FromModel(price)

	response.WithJSON(w, http.StatusOK, res)
}

// CreateDiscount handles the creation of a new discount.
// @Summary Create a discount
// @Description Offers without a code are applied automatically to their category.
// @Tags Discount
// @Accept json
// @Produce json
// @Param request body dto.CreateDiscountRequest true "Create Discount Request"
// @Success 201 {object} response.Data[dto.DiscountResponse] "Discount created"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/discounts [post]
// @Security BearerAuth
func (handler *Handler) CreateDiscount(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateDiscount")
	defer scope.End()

	req := dto.CreateDiscountRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	discount, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create discount")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Discount created successfully by user " + user)

	response.WithJSON(w, http.StatusCreated, discount)
}

// GetDiscounts lists discounts.
// @Summary Get all discounts
// @Tags Discount
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param code query string false "Filter by code"
// @Param category_id query string false "Filter by category"
// @Param is_active query bool false "Filter by active flag"
// @Success 200 {object} response.Data[dto.GetDiscountsResponse] "List of discounts"
// @Failure 503 {object} response.Error
// @Router /v1/discounts [get]
// @Security BearerAuth
func (handler *Handler) GetDiscounts(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetDiscounts")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	discounts, err := handler.service.GetAll(ctx, queryParams, dto.FilterFromRequest(r))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get discounts")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, discounts)
}

// GetDiscountByID retrieves a discount by its ID.
// @Summary Get a discount by ID
// @Tags Discount
// @Produce json
// @Param id path string true "Discount ID"
// @Success 200 {object} response.Data[dto.DiscountResponse] "Discount details"
// @Failure 404 {object} response.Error
// @Router /v1/discounts/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetDiscountByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetDiscountByID")
	defer scope.End()

	discount, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get discount by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, discount)
}

// UpdateDiscount edits a discount. Existing bookings keep the price they were created with.
// @Summary Update a discount
// @Tags Discount
// @Accept json
// @Produce json
// @Param id path string true "Discount ID"
// @Param request body dto.UpdateDiscountRequest true "Update Discount Request"
// @Success 200 {object} response.Data[dto.DiscountResponse] "Updated discount"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/discounts/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateDiscount(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateDiscount")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateDiscountRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	discount, err := handler.service.Update(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update discount")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Discount updated successfully by user " + user)

	response.WithJSON(w, http.StatusOK, discount)
}

// DeactivateDiscount stops a discount from being applied to new bookings.
// @Summary Deactivate a discount
// @Tags Discount
// @Produce json
// @Param id path string true "Discount ID"
// @Success 200 {object} response.Message "Discount deactivated successfully"
// @Failure 404 {object} response.Error
// @Router /v1/discounts/{id}/deactivate [post]
// @Security BearerAuth
func (handler *Handler) DeactivateDiscount(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeactivateDiscount")
	defer scope.End()

	if err := handler.service.Deactivate(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to deactivate discount")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Discount deactivated successfully")
}
