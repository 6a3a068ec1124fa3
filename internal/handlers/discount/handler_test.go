package discount_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"homefix/infras/otel/mocks"
	"homefix/internal/domains/discount/model"
	"homefix/internal/domains/discount/model/dto"
	serviceMocks "homefix/internal/domains/discount/service/mocks"
	"homefix/internal/handlers/discount"
	"homefix/shared/constant"
	"homefix/shared/failure"
)

func newRouter(t *testing.T) (http.Handler, *serviceMocks.MockDiscount) {
	t.Helper()

	mockService := serviceMocks.NewMockDiscount(gomock.NewController(t))
	handler := discount.New(mockService, mocks.NewOtel())

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), constant.ContextKeyUserID, "customer-1")

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	handler.Router(router)

	return router, mockService
}

func TestHandler_ResolvePrice(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		setupMock func(svc *serviceMocks.MockDiscount)
		wantCode  int
		wantBody  string
	}{
		{
			name: "quoted with discount",
			body: `{"service_id":"ac-gas-refill","category_id":"ac-repair","listed_price":599}`,
			setupMock: func(svc *serviceMocks.MockDiscount) {
				svc.EXPECT().
					ResolvePrice(gomock.Any(), model.PriceRequest{
						ServiceID:   "ac-gas-refill",
						CategoryID:  "ac-repair",
						ListedPrice: 599,
						UserID:      "customer-1",
					}).
					Return(model.PriceResolution{
						ListedPrice: 599,
						FinalPrice:  539,
						Discount:    &model.AppliedDiscount{DiscountID: "d-10", Amount: 60},
					}, nil)
			},
			wantCode: http.StatusOK,
			wantBody: `"final_price":539`,
		},
		{
			name:     "missing price",
			body:     `{"service_id":"ac-gas-refill","category_id":"ac-repair"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "store unavailable",
			body: `{"service_id":"ac-gas-refill","category_id":"ac-repair","listed_price":599}`,
			setupMock: func(svc *serviceMocks.MockDiscount) {
				svc.EXPECT().
					ResolvePrice(gomock.Any(), gomock.Any()).
					Return(model.PriceResolution{}, failure.Transient(context.DeadlineExceeded))
			},
			wantCode: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, mockService := newRouter(t)

			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			res := httptest.NewRecorder()
			router.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/prices/resolve", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantCode, res.Code)
			assert.Contains(t, res.Body.String(), tt.wantBody)
		})
	}
}

func TestHandler_CreateDiscount(t *testing.T) {
	router, mockService := newRouter(t)

	mockService.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(dto.DiscountResponse{}, failure.Conflict("discount code already exists"))

	body := `{"code":"AC50","name":"AC fifty","category_id":"ac-repair","type":"fixed","value":50,"start_date":"2026-10-01","end_date":"2026-10-31"}`

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/discounts", strings.NewReader(body)))

	assert.Equal(t, http.StatusConflict, res.Code)
}

func TestHandler_DeactivateDiscount(t *testing.T) {
	router, mockService := newRouter(t)

	mockService.EXPECT().Deactivate(gomock.Any(), "d-10").Return(nil)

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/discounts/d-10/deactivate", nil))

	assert.Equal(t, http.StatusOK, res.Code)
}
