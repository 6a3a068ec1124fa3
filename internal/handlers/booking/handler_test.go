package booking_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"homefix/infras/otel/mocks"
	"homefix/internal/domains/booking/model"
	"homefix/internal/domains/booking/model/dto"
	serviceMocks "homefix/internal/domains/booking/service/mocks"
	"homefix/internal/handlers/booking"
	"homefix/shared/constant"
	"homefix/shared/failure"
)

var customer = model.Actor{ID: "customer-1", Name: "Asha", Role: constant.RoleCustomer}

func newRouter(t *testing.T) (http.Handler, *serviceMocks.MockBooking) {
	t.Helper()

	mockService := serviceMocks.NewMockBooking(gomock.NewController(t))
	handler := booking.New(mockService, mocks.NewOtel())

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), constant.ContextKeyUserID, customer.ID)
			ctx = context.WithValue(ctx, constant.ContextKeyUserName, customer.Name)
			ctx = context.WithValue(ctx, constant.ContextKeyUserRole, customer.Role)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	handler.Router(router)

	return router, mockService
}

func serve(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var request *http.Request
	if body == "" {
		request = httptest.NewRequest(method, path, nil)
	} else {
		request = httptest.NewRequest(method, path, strings.NewReader(body))
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	return recorder
}

func TestHandler_CreateBooking(t *testing.T) {
	body := `{
		"customer_name": "Asha",
		"customer_phone": "9800000000",
		"customer_address": "12 Lake Road",
		"service_id": "ac-gas-refill",
		"service_name": "AC gas refill",
		"category_id": "ac-repair",
		"listed_price": 599,
		"scheduled_date": "2026-10-20",
		"time_slot": "10:00-12:00"
	}`

	t.Run("created", func(t *testing.T) {
		router, mockService := newRouter(t)

		mockService.EXPECT().
			Create(gomock.Any(), customer, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ model.Actor, req dto.CreateBookingRequest) (dto.BookingResponse, error) {
				assert.Equal(t, int64(599), req.ListedPrice)

				return dto.BookingResponse{ID: "b-1", Code: "HF-20261017-ABCDEF12", Amount: 539, Status: model.StatusPending}, nil
			})

		res := serve(router, http.MethodPost, "/bookings", body)
		require.Equal(t, http.StatusCreated, res.Code)

		var payload struct {
			Data dto.BookingResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &payload))
		assert.Equal(t, int64(539), payload.Data.Amount)
	})

	t.Run("invalid body never reaches the service", func(t *testing.T) {
		router, _ := newRouter(t)

		res := serve(router, http.MethodPost, "/bookings", `{"listed_price": 599}`)
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})
}

func TestHandler_Transition(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		body     string
		action   string
		reason   string
		err      error
		wantCode int
	}{
		{
			name:     "cancel with reason",
			path:     "/bookings/b-1/cancel",
			body:     `{"reason":"plans changed"}`,
			action:   model.ActionCancel,
			reason:   "plans changed",
			wantCode: http.StatusOK,
		},
		{
			name:     "accept without body",
			path:     "/bookings/b-1/accept",
			action:   model.ActionAccept,
			err:      failure.Forbidden("customer may not accept bookings"),
			wantCode: http.StatusForbidden,
		},
		{
			name:     "conflict surfaces as 409",
			path:     "/bookings/b-1/complete",
			action:   model.ActionComplete,
			err:      failure.Conflict("cannot complete a pending booking"),
			wantCode: http.StatusConflict,
		},
		{
			name:     "store outage surfaces as 503",
			path:     "/bookings/b-1/reactivate",
			action:   model.ActionReactivate,
			err:      failure.Transient(context.DeadlineExceeded),
			wantCode: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, mockService := newRouter(t)

			mockService.EXPECT().
				Transition(gomock.Any(), customer, "b-1", tt.action, tt.reason).
				Return(dto.BookingResponse{ID: "b-1"}, tt.err)

			res := serve(router, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.wantCode, res.Code)
		})
	}
}

func TestHandler_RescheduleBooking(t *testing.T) {
	router, mockService := newRouter(t)

	mockService.EXPECT().
		Reschedule(gomock.Any(), customer, "b-1", dto.RescheduleRequest{ScheduledDate: "2026-10-25", TimeSlot: "14:00-16:00"}).
		Return(dto.BookingResponse{ID: "b-1", ScheduledDate: "2026-10-25"}, nil)

	res := serve(router, http.MethodPost, "/bookings/b-1/reschedule", `{"scheduled_date":"2026-10-25","time_slot":"14:00-16:00"}`)
	assert.Equal(t, http.StatusOK, res.Code)

	res = serve(router, http.MethodPost, "/bookings/b-1/reschedule", `{"scheduled_date":"25-10-2026","time_slot":"14:00-16:00"}`)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestHandler_RecordPayment(t *testing.T) {
	router, _ := newRouter(t)

	res := serve(router, http.MethodPost, "/bookings/b-1/payment", `{"status":"authorized"}`)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestHandler_GetBookings(t *testing.T) {
	router, mockService := newRouter(t)

	mockService.EXPECT().
		GetAll(gomock.Any(), customer, gomock.Any(), model.Filter{Status: model.StatusPending}).
		Return(dto.GetBookingsResponse{TotalData: 1, TotalPage: 1, Bookings: []dto.BookingResponse{{ID: "b-1"}}}, nil)

	res := serve(router, http.MethodGet, "/bookings?status=pending", "")
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestHandler_GetBookings_InvalidDate(t *testing.T) {
	router, _ := newRouter(t)

	res := serve(router, http.MethodGet, "/bookings?scheduled_date=tomorrow", "")
	assert.Equal(t, http.StatusBadRequest, res.Code)
}
