package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homefix/config"
	"homefix/infras/jwt"
	"homefix/infras/otel/mocks"
	"homefix/permissions"
	"homefix/shared/constant"
	"homefix/transport/http/middleware"
)

const testAPIKey = "internal-key"

func newAuthRouter(t *testing.T) (http.Handler, jwt.JWT) {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.APIKey = testAPIKey
	cfg.JWT.AccessSecret = "secret"
	cfg.JWT.AccessExpireMin = 15

	tokens := jwt.New(cfg)
	perms := permissions.Get()
	require.NotNil(t, perms)

	authRole := middleware.NewAuthRoleMiddleware(tokens, mocks.NewOtel(), perms, cfg)

	echoRole := func(w http.ResponseWriter, r *http.Request) {
		role, _ := r.Context().Value(constant.ContextKeyUserRole).(string)
		w.Header().Set("X-Role", role)
		w.WriteHeader(http.StatusOK)
	}

	router := chi.NewRouter()
	router.Group(func(r chi.Router) {
		r.Use(authRole.APIKey)
		r.Use(authRole.Auth)
		r.Use(authRole.RBAC)

		r.Route("/v1", func(v1 chi.Router) {
			v1.Route("/bookings", func(bookings chi.Router) {
				bookings.Get("/{id}", echoRole)
				bookings.Post("/{id}/accept", echoRole)
				bookings.Post("/{id}/payment", echoRole)
			})
		})
	})

	return router, tokens
}

func bearer(t *testing.T, tokens jwt.JWT, role string) string {
	t.Helper()

	token, err := tokens.GenerateAccessToken("user-1", "User", role)
	require.NoError(t, err)

	return "Bearer " + token
}

func TestAuthRole(t *testing.T) {
	router, tokens := newAuthRouter(t)

	tests := []struct {
		name         string
		method       string
		path         string
		authorize    string
		apiKey       string
		expectedCode int
		expectedRole string
	}{
		{
			name:         "customer views a booking",
			method:       http.MethodGet,
			path:         "/v1/bookings/b-1",
			authorize:    constant.RoleCustomer,
			expectedCode: http.StatusOK,
			expectedRole: constant.RoleCustomer,
		},
		{
			name:         "missing token",
			method:       http.MethodGet,
			path:         "/v1/bookings/b-1",
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "technician may not accept",
			method:       http.MethodPost,
			path:         "/v1/bookings/b-1/accept",
			authorize:    constant.RoleTechnician,
			expectedCode: http.StatusForbidden,
		},
		{
			name:         "admin accepts",
			method:       http.MethodPost,
			path:         "/v1/bookings/b-1/accept",
			authorize:    constant.RoleAdmin,
			expectedCode: http.StatusOK,
			expectedRole: constant.RoleAdmin,
		},
		{
			name:         "api key acts as system",
			method:       http.MethodPost,
			path:         "/v1/bookings/b-1/payment",
			apiKey:       testAPIKey,
			expectedCode: http.StatusOK,
			expectedRole: constant.RoleSystem,
		},
		{
			name:         "wrong api key",
			method:       http.MethodPost,
			path:         "/v1/bookings/b-1/payment",
			apiKey:       "guess",
			expectedCode: http.StatusForbidden,
		},
		{
			name:         "api key cannot accept",
			method:       http.MethodPost,
			path:         "/v1/bookings/b-1/accept",
			apiKey:       testAPIKey,
			expectedCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)

			if tt.authorize != "" {
				req.Header.Set(constant.RequestHeaderAuthorization, bearer(t, tokens, tt.authorize))
			}

			if tt.apiKey != "" {
				req.Header.Set(constant.RequestHeaderAPIKey, tt.apiKey)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedCode, rec.Code)
			assert.Equal(t, tt.expectedRole, rec.Header().Get("X-Role"))
		})
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	router, _ := newAuthRouter(t)

	cfg := &config.Config{}
	cfg.JWT.AccessSecret = "secret"
	cfg.JWT.AccessExpireMin = -5

	token, err := jwt.New(cfg).GenerateAccessToken("user-1", "User", constant.RoleCustomer)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/bookings/b-1", nil)
	req.Header.Set(constant.RequestHeaderAuthorization, "Bearer "+token)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Token has expired")
}
