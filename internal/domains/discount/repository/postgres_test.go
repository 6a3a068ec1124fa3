package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homefix/infras/otel/mocks"
	"homefix/infras/postgres"
	"homefix/internal/domains/discount/model"
	"homefix/internal/domains/discount/repository"
)

func TestPostgres_MalformedID(t *testing.T) {
	repo := repository.NewPostgres(&postgres.Connection{}, mocks.NewOtel())

	discount, err := repo.Get(context.Background(), "monsoon")
	require.NoError(t, err)
	assert.Empty(t, discount.ID)

	err = repo.Update(context.Background(), "monsoon", map[string]any{model.FieldIsActive: false})
	assert.NoError(t, err)
}
