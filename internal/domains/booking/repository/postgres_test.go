package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homefix/infras/otel/mocks"
	"homefix/infras/postgres"
	"homefix/internal/domains/booking/model"
	"homefix/internal/domains/booking/repository"
)

// A malformed id never reaches the database, so these run without a connection.
func TestPostgres_MalformedID(t *testing.T) {
	repo := repository.NewPostgres(&postgres.Connection{}, mocks.NewOtel())

	tests := []string{"abc", "", "HF-20260101-0001", "123e4567-e89b-12d3-a456"}

	for _, id := range tests {
		t.Run(id, func(t *testing.T) {
			booking, err := repo.Get(context.Background(), id)
			require.NoError(t, err)
			assert.Empty(t, booking.ID)

			booking, swapped, err := repo.CompareAndSwap(context.Background(), id, model.Guard{Statuses: []string{model.StatusPending}}, map[string]any{model.FieldStatus: model.StatusConfirmed}, nil)
			require.NoError(t, err)
			assert.False(t, swapped)
			assert.Empty(t, booking.ID)

			entries, err := repo.Reschedules(context.Background(), id)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}
