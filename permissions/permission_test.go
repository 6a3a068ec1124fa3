package permissions_test

import (
	"homefix/permissions"
	"homefix/shared/constant"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)
	require.NotEmpty(t, data.Endpoints)

	for _, endpoint := range data.Endpoints {
		if endpoint.Skip {
			continue
		}

		assert.True(t, endpoint.Allows(constant.RoleAdmin), "%s %s", endpoint.Method, endpoint.Path)
	}
}

func TestFindPermissions(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	tests := []struct {
		name    string
		path    string
		method  string
		role    string
		allowed bool
	}{
		{name: "customer creates a booking", path: "/v1/bookings/", method: http.MethodPost, role: constant.RoleCustomer, allowed: true},
		{name: "technician cannot create a booking", path: "/v1/bookings/", method: http.MethodPost, role: constant.RoleTechnician},
		{name: "technician completes", path: "/v1/bookings/{id}/complete", method: http.MethodPost, role: constant.RoleTechnician, allowed: true},
		{name: "customer cannot reject", path: "/v1/bookings/{id}/reject", method: http.MethodPost, role: constant.RoleCustomer},
		{name: "system records payment", path: "/v1/bookings/{id}/payment", method: http.MethodPost, role: constant.RoleSystem, allowed: true},
		{name: "customer cannot manage discounts", path: "/v1/discounts/", method: http.MethodPost, role: constant.RoleCustomer},
		{name: "customer resolves a price", path: "/v1/prices/resolve", method: http.MethodPost, role: constant.RoleCustomer, allowed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			permission := data.FindPermissions(tt.path, tt.method)

			assert.Equal(t, tt.path, permission.Path)
			assert.Equal(t, tt.allowed, permission.Allows(tt.role))
		})
	}

	assert.Empty(t, data.FindPermissions("/v1/unknown", http.MethodGet).Path)
}

func TestParse(t *testing.T) {
	assert.Nil(t, permissions.Parse([]byte("{")))

	data := permissions.Parse([]byte(`{"endpoints":[{"path":"/v1/bookings/","method":"GET"}]}`))
	require.NotNil(t, data)

	assert.True(t, data.Endpoints[0].Allows(constant.RoleTechnician))
}
