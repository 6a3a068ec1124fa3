package repository_test

import (
	"homefix/shared/repository"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetClause(t *testing.T) {
	args := map[string]any{"status_0": "pending", "status": "pending"}

	clause := repository.SetClause(map[string]any{
		"status":       "confirmed",
		"confirmed_by": "admin-1",
	}, args)

	assert.Equal(t, "confirmed_by = :set_confirmed_by, status = :set_status", clause)
	assert.Equal(t, "confirmed", args["set_status"])
	assert.Equal(t, "admin-1", args["set_confirmed_by"])
	assert.Equal(t, "pending", args["status"], "guard arguments keep their value")
}
