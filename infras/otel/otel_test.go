package otel_test

import (
	"context"
	"errors"
	"homefix/config"
	"homefix/infras/otel"
	"homefix/shared/failure"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNew_Disabled(t *testing.T) {
	cfg := &config.Config{}

	o := otel.New(cfg)

	ctx, scope := o.NewScope(context.Background(), "service", "service.Transition")
	assert.NotNil(t, ctx)

	scope.SetAttribute("booking.id", "bk-1")
	scope.SetAttributes(map[string]any{"attempt": 1, "idempotent": true, "roles": []string{"admin"}})
	scope.AddEvent("transition.applied")
	scope.TraceIfError(nil)
	scope.TraceIfError(errors.New("boom"))
	scope.End()

	assert.NoError(t, o.Shutdown(context.Background()))
}

func TestScope_TraceError(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		expectedCode  codes.Code
		expectedEvent string
	}{
		{
			name:          "conflict is an event",
			err:           failure.Conflict("cannot accept a cancelled booking"),
			expectedCode:  codes.Unset,
			expectedEvent: "rejected",
		},
		{
			name:          "store failure marks the span",
			err:           failure.Transient(errors.New("connection reset")),
			expectedCode:  codes.Error,
			expectedEvent: "exception",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := tracetest.NewSpanRecorder()
			provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

			_, span := provider.Tracer("test").Start(context.Background(), "service.Transition")

			scope := otel.NewScope(span)
			scope.SetAttribute("booking.amount", int64(539))
			scope.TraceError(tt.err)
			scope.End()

			ended := recorder.Ended()
			require.Len(t, ended, 1)

			assert.Equal(t, tt.expectedCode, ended[0].Status().Code)
			require.NotEmpty(t, ended[0].Events())
			assert.Equal(t, tt.expectedEvent, ended[0].Events()[0].Name)
		})
	}
}
