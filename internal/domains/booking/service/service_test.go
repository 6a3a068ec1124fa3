package service_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"homefix/config"
	"homefix/infras/memstore"
	"homefix/infras/otel/mocks"
	bookingMocks "homefix/internal/domains/booking/mocks"
	"homefix/internal/domains/booking/model"
	"homefix/internal/domains/booking/model/dto"
	"homefix/internal/domains/booking/repository"
	"homefix/internal/domains/booking/service"
	discountModel "homefix/internal/domains/discount/model"
	discountRepo "homefix/internal/domains/discount/repository"
	discountService "homefix/internal/domains/discount/service"
	notificationMocks "homefix/internal/domains/notification/mocks"
	notificationModel "homefix/internal/domains/notification/model"
	notification "homefix/internal/domains/notification/service"
	"homefix/shared/cache"
	"homefix/shared/constant"
	gDto "homefix/shared/dto"
	"homefix/shared/failure"
	"homefix/shared/timezone"
)

var (
	admin      = model.Actor{ID: "admin-1", Name: "Ops", Role: constant.RoleAdmin}
	customer   = model.Actor{ID: "customer-1", Name: "Asha", Role: constant.RoleCustomer}
	stranger   = model.Actor{ID: "customer-2", Name: "Ravi", Role: constant.RoleCustomer}
	technician = model.Actor{ID: "tech-1", Name: "Imran", Role: constant.RoleTechnician}
	relay      = model.Actor{ID: "payments", Role: constant.RoleSystem}
)

type fixture struct {
	svc    service.Booking
	store  *memstore.Store
	events *recorder
}

// recorder is a notifier that remembers every event it was handed.
type recorder struct {
	mu     sync.Mutex
	events []notificationModel.Event
	err    error
}

func (r *recorder) Notify(_ context.Context, event notificationModel.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)

	return r.err
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := make([]string, len(r.events))
	for i, event := range r.events {
		res[i] = event.Type
	}

	return res
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Cache.TTL = 60
	cfg.Booking.HorizonDays = 60
	cfg.Booking.StoreTimeoutSeconds = 1
	cfg.Booking.CodePrefix = "HF"

	return cfg
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	return newFixtureWith(t, func(repo repository.Booking) repository.Booking { return repo })
}

// newFixtureWith lets a test wrap the booking store, e.g. to interleave a concurrent write.
func newFixtureWith(t *testing.T, wrap func(repository.Booking) repository.Booking) fixture {
	t.Helper()

	cfg := testConfig()
	store := memstore.New()
	events := &recorder{}

	pricing := discountService.New(discountRepo.NewMemory(store), cfg, cache.NewNoopCache(), mocks.NewOtel())
	dispatcher := notification.New(events, mocks.NewOtel())

	return fixture{
		svc:    service.New(wrap(repository.NewMemory(store)), pricing, dispatcher, cfg, cache.NewNoopCache(), mocks.NewOtel()),
		store:  store,
		events: events,
	}
}

func (f fixture) putDiscount(t *testing.T, discount discountModel.Discount) {
	t.Helper()

	require.NoError(t, f.store.Update(context.Background(), func(tx *memstore.Tx) error {
		tx.Put(discountModel.TableName, discount.ID, discount)

		return nil
	}))
}

func (f fixture) discount(id string) discountModel.Discount {
	discount, _ := memstore.GetAs[discountModel.Discount](f.store, discountModel.TableName, id)

	return discount
}

func tenPercentOff() discountModel.Discount {
	now := timezone.Now()

	return discountModel.Discount{
		ID:         "d-10",
		Name:       "Monsoon AC offer",
		CategoryID: "ac-repair",
		Type:       discountModel.TypePercentage,
		Value:      10,
		StartDate:  now.Add(-24 * time.Hour),
		EndDate:    now.Add(24 * time.Hour),
		IsActive:   true,
	}
}

func dateIn(days int) string {
	return timezone.Now().AddDate(0, 0, days).Format(constant.DateOnlyFormat)
}

func createRequest() dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		CustomerName:    "Asha",
		CustomerPhone:   "9800000000",
		CustomerAddress: "12 Lake Road",
		ServiceID:       "ac-gas-refill",
		ServiceName:     "AC gas refill",
		CategoryID:      "ac-repair",
		ListedPrice:     599,
		ScheduledDate:   dateIn(2),
		TimeSlot:        "10:00-12:00",
	}
}

func (f fixture) create(t *testing.T) dto.BookingResponse {
	t.Helper()

	res, err := f.svc.Create(context.Background(), customer, createRequest())
	require.NoError(t, err)

	return res
}

func (f fixture) assign(t *testing.T, id string) {
	t.Helper()

	_, err := f.svc.AssignTechnician(context.Background(), admin, id, dto.AssignTechnicianRequest{
		TechnicianID:   technician.ID,
		TechnicianName: technician.Name,
	})
	require.NoError(t, err)
}

func dtoParams() gDto.QueryParams {
	return gDto.QueryParams{Page: 1, Limit: 10}
}

func assertCode(t *testing.T, err error, code int) {
	t.Helper()

	require.Error(t, err)
	assert.Equal(t, code, failure.GetCode(err), err.Error())
}

func TestBookingService_Create(t *testing.T) {
	t.Run("freezes the discounted price and redeems the offer", func(t *testing.T) {
		f := newFixture(t)
		f.putDiscount(t, tenPercentOff())

		res := f.create(t)

		assert.Equal(t, model.StatusPending, res.Status)
		assert.Equal(t, model.PaymentPending, res.PaymentStatus)
		assert.Equal(t, int64(599), res.ListedPrice)
		assert.Equal(t, int64(539), res.Amount)
		require.NotNil(t, res.Discount)
		assert.Equal(t, "d-10", res.Discount.DiscountID)
		assert.Regexp(t, `^HF-\d{8}-[0-9A-F]{8}$`, res.Code)
		assert.Equal(t, 1, f.discount("d-10").UsageCount)
		assert.Equal(t, []string{notificationModel.TypeBookingCreated}, f.events.types())
	})

	t.Run("later discount edits do not touch the frozen amount", func(t *testing.T) {
		f := newFixture(t)
		f.putDiscount(t, tenPercentOff())

		res := f.create(t)

		changed := f.discount("d-10")
		changed.Value = 50
		f.putDiscount(t, changed)

		got, err := f.svc.Get(context.Background(), customer, res.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(539), got.Amount)
	})

	t.Run("admin books on behalf of a customer", func(t *testing.T) {
		f := newFixture(t)

		req := createRequest()
		req.CustomerID = customer.ID

		res, err := f.svc.Create(context.Background(), admin, req)
		require.NoError(t, err)
		assert.Equal(t, customer.ID, res.CustomerID)
		assert.Equal(t, int64(599), res.Amount)
		assert.Nil(t, res.Discount)
	})

	t.Run("customer_id in the body is ignored for customers", func(t *testing.T) {
		f := newFixture(t)

		req := createRequest()
		req.CustomerID = stranger.ID

		res, err := f.svc.Create(context.Background(), customer, req)
		require.NoError(t, err)
		assert.Equal(t, customer.ID, res.CustomerID)
	})

	tests := []struct {
		name  string
		actor model.Actor
		req   func() dto.CreateBookingRequest
		code  int
	}{
		{
			name:  "technician may not book",
			actor: technician,
			req:   createRequest,
			code:  http.StatusForbidden,
		},
		{
			name:  "anonymous caller",
			actor: model.Actor{},
			req:   createRequest,
			code:  http.StatusUnauthorized,
		},
		{
			name:  "admin without customer",
			actor: admin,
			req:   createRequest,
			code:  http.StatusBadRequest,
		},
		{
			name:  "date in the past",
			actor: customer,
			req: func() dto.CreateBookingRequest {
				req := createRequest()
				req.ScheduledDate = dateIn(-1)

				return req
			},
			code: http.StatusBadRequest,
		},
		{
			name:  "date beyond the horizon",
			actor: customer,
			req: func() dto.CreateBookingRequest {
				req := createRequest()
				req.ScheduledDate = dateIn(61)

				return req
			},
			code: http.StatusBadRequest,
		},
		{
			name:  "listed price not positive",
			actor: customer,
			req: func() dto.CreateBookingRequest {
				req := createRequest()
				req.ListedPrice = 0

				return req
			},
			code: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.svc.Create(context.Background(), tt.actor, tt.req())
			assertCode(t, err, tt.code)
			assert.Empty(t, f.events.types())
		})
	}
}

func TestBookingService_Create_RedemptionLimit(t *testing.T) {
	f := newFixture(t)

	limited := tenPercentOff()
	limited.UsageLimit = 3
	f.putDiscount(t, limited)

	const callers = 12

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		discounted int
	)

	for i := range callers {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			actor := model.Actor{ID: "customer-" + string(rune('a'+i)), Role: constant.RoleCustomer}

			res, err := f.svc.Create(context.Background(), actor, createRequest())
			if !assert.NoError(t, err) {
				return
			}

			if res.Discount != nil {
				mu.Lock()
				discounted++
				mu.Unlock()
			}
		}(i)
	}

	wg.Wait()

	assert.Equal(t, 3, discounted)
	assert.Equal(t, 3, f.discount("d-10").UsageCount)
}

func TestBookingService_Transition(t *testing.T) {
	t.Run("accept then complete then cancel conflicts", func(t *testing.T) {
		f := newFixture(t)
		booking := f.create(t)
		f.assign(t, booking.ID)

		accepted, err := f.svc.Transition(context.Background(), admin, booking.ID, model.ActionAccept, "")
		require.NoError(t, err)
		assert.Equal(t, model.StatusConfirmed, accepted.Status)
		assert.NotEmpty(t, accepted.ConfirmedAt)
		assert.Equal(t, admin.ID, accepted.ConfirmedBy)

		completed, err := f.svc.Transition(context.Background(), technician, booking.ID, model.ActionComplete, "")
		require.NoError(t, err)
		assert.Equal(t, model.StatusCompleted, completed.Status)
		assert.Equal(t, technician.ID, completed.CompletedBy)
		assert.Equal(t, model.EarningClaimable, completed.TechnicianEarningStatus)

		_, err = f.svc.Transition(context.Background(), admin, booking.ID, model.ActionCancel, "")
		assertCode(t, err, http.StatusConflict)

		assert.Equal(t, []string{
			notificationModel.TypeBookingCreated,
			notificationModel.TypeBookingConfirmed,
			notificationModel.TypeBookingCompleted,
		}, f.events.types())
	})

	t.Run("repeated cancel is a no-op success", func(t *testing.T) {
		f := newFixture(t)
		booking := f.create(t)

		first, err := f.svc.Transition(context.Background(), customer, booking.ID, model.ActionCancel, "plans changed")
		require.NoError(t, err)
		assert.Equal(t, model.StatusCancelled, first.Status)
		assert.Equal(t, "plans changed", first.CancellationReason)

		second, err := f.svc.Transition(context.Background(), customer, booking.ID, model.ActionCancel, "again")
		require.NoError(t, err)
		assert.Equal(t, first.CancelledAt, second.CancelledAt)
		assert.Equal(t, "plans changed", second.CancellationReason)

		assert.Equal(t, []string{
			notificationModel.TypeBookingCreated,
			notificationModel.TypeBookingCancelled,
		}, f.events.types())
	})

	t.Run("cancelling a paid booking owes a refund", func(t *testing.T) {
		f := newFixture(t)
		booking := f.create(t)

		_, err := f.svc.RecordPayment(context.Background(), relay, booking.ID, dto.PaymentRequest{PaymentID: "pay-1", Status: model.PaymentPaid})
		require.NoError(t, err)

		res, err := f.svc.Transition(context.Background(), admin, booking.ID, model.ActionReject, "")
		require.NoError(t, err)
		assert.Equal(t, model.StatusCancelled, res.Status)
		assert.Equal(t, model.PaymentRefundPending, res.PaymentStatus)
		assert.Equal(t, "rejected by admin", res.CancellationReason)
	})

	t.Run("reactivate starts a new pending cycle", func(t *testing.T) {
		f := newFixture(t)
		booking := f.create(t)

		_, err := f.svc.Transition(context.Background(), admin, booking.ID, model.ActionAccept, "")
		require.NoError(t, err)

		_, err = f.svc.Transition(context.Background(), customer, booking.ID, model.ActionCancel, "")
		require.NoError(t, err)

		_, err = f.svc.Transition(context.Background(), customer, booking.ID, model.ActionReactivate, "")
		assertCode(t, err, http.StatusForbidden)

		res, err := f.svc.Transition(context.Background(), admin, booking.ID, model.ActionReactivate, "")
		require.NoError(t, err)
		assert.Equal(t, model.StatusPending, res.Status)
		assert.Empty(t, res.CancelledAt)
		assert.Empty(t, res.CancellationReason)
		assert.Empty(t, res.ConfirmedAt)
	})

	t.Run("notification failure does not fail the transition", func(t *testing.T) {
		f := newFixture(t)
		booking := f.create(t)

		f.events.err = errors.New("broker unavailable")

		res, err := f.svc.Transition(context.Background(), admin, booking.ID, model.ActionAccept, "")
		require.NoError(t, err)
		assert.Equal(t, model.StatusConfirmed, res.Status)
	})

	tests := []struct {
		name   string
		actor  model.Actor
		action string
		code   int
	}{
		{name: "customer cannot accept", actor: customer, action: model.ActionAccept, code: http.StatusForbidden},
		{name: "other customer cannot cancel", actor: stranger, action: model.ActionCancel, code: http.StatusForbidden},
		{name: "unassigned technician cannot complete", actor: technician, action: model.ActionComplete, code: http.StatusForbidden},
		{name: "complete needs a confirmed booking", actor: admin, action: model.ActionComplete, code: http.StatusConflict},
		{name: "unknown action", actor: admin, action: "reopen", code: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			booking := f.create(t)

			_, err := f.svc.Transition(context.Background(), tt.actor, booking.ID, tt.action, "")
			assertCode(t, err, tt.code)

			got, err := f.svc.Get(context.Background(), admin, booking.ID)
			require.NoError(t, err)
			assert.Equal(t, model.StatusPending, got.Status)
		})
	}

	t.Run("missing booking", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Transition(context.Background(), admin, "nope", model.ActionAccept, "")
		assertCode(t, err, http.StatusNotFound)
	})
}

func TestBookingService_Transition_ConcurrentAcceptReject(t *testing.T) {
	for range 20 {
		f := newFixture(t)
		booking := f.create(t)

		var (
			wg      sync.WaitGroup
			results = make([]dto.BookingResponse, 2)
			errs    = make([]error, 2)
		)

		for i, action := range []string{model.ActionAccept, model.ActionReject} {
			wg.Add(1)

			go func(i int, action string) {
				defer wg.Done()

				results[i], errs[i] = f.svc.Transition(context.Background(), admin, booking.ID, action, "")
			}(i, action)
		}

		wg.Wait()

		succeeded := 0

		for _, err := range errs {
			if err == nil {
				succeeded++

				continue
			}

			assert.Equal(t, http.StatusConflict, failure.GetCode(err))
		}

		require.Equal(t, 1, succeeded)

		got, err := f.svc.Get(context.Background(), admin, booking.ID)
		require.NoError(t, err)
		assert.Contains(t, []string{model.StatusConfirmed, model.StatusCancelled}, got.Status)
		assert.Len(t, f.events.types(), 2)
	}
}

// paidMeanwhile records a paid result right before the first cancelling swap lands, as the
// payment relay would when it races a customer cancel.
type paidMeanwhile struct {
	repository.Booking
	once sync.Once
}

func (r *paidMeanwhile) CompareAndSwap(ctx context.Context, id string, guard model.Guard, changes map[string]any, entry *model.RescheduleEntry) (model.Booking, bool, error) {
	if changes[model.FieldStatus] == model.StatusCancelled {
		var err error

		r.once.Do(func() {
			_, _, err = r.Booking.CompareAndSwap(ctx, id, model.Guard{}, map[string]any{model.FieldPaymentStatus: model.PaymentPaid}, nil)
		})

		if err != nil {
			return model.Booking{}, false, err
		}
	}

	return r.Booking.CompareAndSwap(ctx, id, guard, changes, entry)
}

func TestBookingService_Transition_PaymentDuringCancel(t *testing.T) {
	for _, action := range []string{model.ActionCancel, model.ActionReject} {
		t.Run(action, func(t *testing.T) {
			f := newFixtureWith(t, func(repo repository.Booking) repository.Booking {
				return &paidMeanwhile{Booking: repo}
			})
			booking := f.create(t)

			res, err := f.svc.Transition(context.Background(), admin, booking.ID, action, "")
			require.NoError(t, err)
			assert.Equal(t, model.StatusCancelled, res.Status)
			assert.Equal(t, model.PaymentRefundPending, res.PaymentStatus)

			got, err := f.svc.Get(context.Background(), admin, booking.ID)
			require.NoError(t, err)
			assert.Equal(t, model.PaymentRefundPending, got.PaymentStatus)
		})
	}
}

func TestBookingService_Reschedule(t *testing.T) {
	t.Run("moves the date and keeps the status", func(t *testing.T) {
		f := newFixture(t)
		booking := f.create(t)

		_, err := f.svc.Transition(context.Background(), admin, booking.ID, model.ActionAccept, "")
		require.NoError(t, err)

		newDate := dateIn(5)

		res, err := f.svc.Reschedule(context.Background(), customer, booking.ID, dto.RescheduleRequest{
			ScheduledDate: newDate,
			TimeSlot:      "14:00-16:00",
			Reason:        "travelling",
		})
		require.NoError(t, err)
		assert.Equal(t, model.StatusConfirmed, res.Status)
		assert.Equal(t, newDate, res.ScheduledDate)
		assert.True(t, res.Rescheduled)
		assert.Equal(t, 1, res.RescheduleCount)

		entries, err := f.svc.Reschedules(context.Background(), customer, booking.ID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, booking.ScheduledDate, entries[0].FromDate)
		assert.Equal(t, newDate, entries[0].ToDate)
		assert.Equal(t, "travelling", entries[0].Reason)

		again, err := f.svc.Reschedule(context.Background(), customer, booking.ID, dto.RescheduleRequest{
			ScheduledDate: newDate,
			TimeSlot:      "14:00-16:00",
		})
		require.NoError(t, err)
		assert.Equal(t, 1, again.RescheduleCount)

		assert.Equal(t, notificationModel.TypeBookingRescheduled, f.events.types()[2])
		assert.Len(t, f.events.types(), 3)
	})

	t.Run("past date is rejected and the booking is unchanged", func(t *testing.T) {
		f := newFixture(t)
		booking := f.create(t)

		_, err := f.svc.Reschedule(context.Background(), customer, booking.ID, dto.RescheduleRequest{
			ScheduledDate: dateIn(-1),
			TimeSlot:      "10:00-12:00",
		})
		assertCode(t, err, http.StatusBadRequest)

		got, err := f.svc.Get(context.Background(), customer, booking.ID)
		require.NoError(t, err)
		assert.Equal(t, booking.ScheduledDate, got.ScheduledDate)
		assert.False(t, got.Rescheduled)
	})

	t.Run("terminal booking conflicts", func(t *testing.T) {
		f := newFixture(t)
		booking := f.create(t)

		_, err := f.svc.Transition(context.Background(), customer, booking.ID, model.ActionCancel, "")
		require.NoError(t, err)

		_, err = f.svc.Reschedule(context.Background(), customer, booking.ID, dto.RescheduleRequest{
			ScheduledDate: dateIn(3),
			TimeSlot:      "10:00-12:00",
		})
		assertCode(t, err, http.StatusConflict)
	})

	t.Run("technician cannot reschedule", func(t *testing.T) {
		f := newFixture(t)
		booking := f.create(t)
		f.assign(t, booking.ID)

		_, err := f.svc.Reschedule(context.Background(), technician, booking.ID, dto.RescheduleRequest{
			ScheduledDate: dateIn(3),
			TimeSlot:      "10:00-12:00",
		})
		assertCode(t, err, http.StatusForbidden)
	})
}

func TestBookingService_RecordPayment(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(t *testing.T, f fixture, id string)
		results []string
		want    string
		code    int
	}{
		{
			name:    "paid then refunded",
			results: []string{model.PaymentPaid, model.PaymentRefunded},
			want:    model.PaymentRefunded,
		},
		{
			name:    "repeated paid is a no-op",
			results: []string{model.PaymentPaid, model.PaymentPaid},
			want:    model.PaymentPaid,
		},
		{
			name:    "failed then paid on retry",
			results: []string{model.PaymentFailed, model.PaymentPaid},
			want:    model.PaymentPaid,
		},
		{
			name: "paid after cancellation owes a refund",
			prepare: func(t *testing.T, f fixture, id string) {
				_, err := f.svc.Transition(context.Background(), customer, id, model.ActionCancel, "")
				require.NoError(t, err)
			},
			results: []string{model.PaymentPaid},
			want:    model.PaymentRefundPending,
		},
		{
			name:    "refund without payment conflicts",
			results: []string{model.PaymentRefunded},
			code:    http.StatusConflict,
		},
		{
			name:    "failed after paid conflicts",
			results: []string{model.PaymentPaid, model.PaymentFailed},
			code:    http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			booking := f.create(t)

			if tt.prepare != nil {
				tt.prepare(t, f, booking.ID)
			}

			var (
				res dto.BookingResponse
				err error
			)

			for _, result := range tt.results {
				res, err = f.svc.RecordPayment(context.Background(), relay, booking.ID, dto.PaymentRequest{
					PaymentID: "pay-1",
					OrderID:   "order-1",
					Status:    result,
				})
				if err != nil {
					break
				}
			}

			if tt.code != 0 {
				assertCode(t, err, tt.code)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, res.PaymentStatus)
			assert.Equal(t, "pay-1", res.PaymentID)
		})
	}

	t.Run("customer cannot record payments", func(t *testing.T) {
		f := newFixture(t)
		booking := f.create(t)

		_, err := f.svc.RecordPayment(context.Background(), customer, booking.ID, dto.PaymentRequest{Status: model.PaymentPaid})
		assertCode(t, err, http.StatusForbidden)
	})
}

func TestBookingService_AssignTechnician(t *testing.T) {
	f := newFixture(t)
	booking := f.create(t)

	_, err := f.svc.AssignTechnician(context.Background(), customer, booking.ID, dto.AssignTechnicianRequest{TechnicianID: technician.ID})
	assertCode(t, err, http.StatusForbidden)

	f.assign(t, booking.ID)

	got, err := f.svc.Get(context.Background(), technician, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, technician.ID, got.TechnicianID)

	_, err = f.svc.Transition(context.Background(), admin, booking.ID, model.ActionCancel, "")
	require.NoError(t, err)

	_, err = f.svc.AssignTechnician(context.Background(), admin, booking.ID, dto.AssignTechnicianRequest{TechnicianID: "tech-2", TechnicianName: "Lee"})
	assertCode(t, err, http.StatusConflict)
}

func TestBookingService_GetAll(t *testing.T) {
	f := newFixture(t)

	mine := f.create(t)

	req := createRequest()
	req.CustomerID = stranger.ID
	_, err := f.svc.Create(context.Background(), admin, req)
	require.NoError(t, err)

	res, err := f.svc.GetAll(context.Background(), customer, dtoParams(), model.Filter{CustomerID: stranger.ID})
	require.NoError(t, err)
	require.Len(t, res.Bookings, 1)
	assert.Equal(t, mine.ID, res.Bookings[0].ID)
	assert.Equal(t, 1, res.TotalData)

	res, err = f.svc.GetAll(context.Background(), admin, dtoParams(), model.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalData)

	res, err = f.svc.GetAll(context.Background(), technician, dtoParams(), model.Filter{})
	require.NoError(t, err)
	assert.Empty(t, res.Bookings)

	_, err = f.svc.Get(context.Background(), stranger, mine.ID)
	assertCode(t, err, http.StatusForbidden)
}

func TestBookingService_StoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockDispatcher := notificationMocks.NewMockDispatcher(ctrl)

	svc := service.New(mockRepo, nil, mockDispatcher, testConfig(), cache.NewNoopCache(), mocks.NewOtel())

	mockRepo.EXPECT().Get(gomock.Any(), "b-1").Return(model.Booking{}, context.DeadlineExceeded)

	_, err := svc.Transition(context.Background(), admin, "b-1", model.ActionAccept, "")
	assertCode(t, err, http.StatusServiceUnavailable)
	assert.Equal(t, "request timed out, please retry", err.Error())

	mockRepo.EXPECT().Get(gomock.Any(), "b-2").Return(model.Booking{ID: "b-2", Status: model.StatusPending}, nil)
	mockRepo.EXPECT().
		CompareAndSwap(gomock.Any(), "b-2", gomock.Any(), gomock.Any(), gomock.Nil()).
		Return(model.Booking{}, false, errors.New("connection reset"))

	_, err = svc.Transition(context.Background(), admin, "b-2", model.ActionAccept, "")
	assertCode(t, err, http.StatusServiceUnavailable)
}
