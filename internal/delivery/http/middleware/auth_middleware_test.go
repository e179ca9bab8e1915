package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marketplace-booking/config"
	"marketplace-booking/internal/domain/entity"
	"marketplace-booking/pkg/jwt"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-secret"

func newTestAuth() (*AuthMiddleware, *jwt.JWTService) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	svc := jwt.NewJWTService(config.JWTConfig{Secret: testSecret, AccessExpiry: time.Minute})
	return NewAuthMiddleware(svc, nil, log), svc
}

func serve(h http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticatePutsActorInContext(t *testing.T) {
	auth, svc := newTestAuth()
	userID := uuid.New()
	token, _, err := svc.GenerateAccessToken(userID, "luis@example.com", string(entity.RoleProvider))
	require.NoError(t, err)

	var got entity.Actor
	h := auth.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		require.True(t, ok)
		got = actor
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := serve(h, "Bearer "+token)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, entity.Actor{UserID: userID, Role: entity.RoleProvider}, got)
}

func TestAuthenticateRejects(t *testing.T) {
	auth, svc := newTestAuth()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})

	badRole, _, err := svc.GenerateAccessToken(uuid.New(), "x@example.com", "SUPERUSER")
	require.NoError(t, err)

	refresh, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwt.Claims{
		UserID:    uuid.New(),
		Role:      string(entity.RoleClient),
		TokenType: jwt.RefreshToken,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	cases := map[string]string{
		"missing header": "",
		"wrong scheme":   "Token abc",
		"garbage token":  "Bearer abc.def.ghi",
		"unknown role":   "Bearer " + badRole,
		"refresh token":  "Bearer " + refresh,
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			rec := serve(auth.Authenticate(next), header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	auth, svc := newTestAuth()
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tokenFor := func(role entity.UserRole) string {
		token, _, err := svc.GenerateAccessToken(uuid.New(), "x@example.com", string(role))
		require.NoError(t, err)
		return "Bearer " + token
	}

	providerOnly := auth.Authenticate(RequireProvider(ok))
	adminOnly := auth.Authenticate(RequireAdmin(ok))

	assert.Equal(t, http.StatusOK, serve(providerOnly, tokenFor(entity.RoleProvider)).Code)
	assert.Equal(t, http.StatusForbidden, serve(providerOnly, tokenFor(entity.RoleClient)).Code)
	assert.Equal(t, http.StatusOK, serve(adminOnly, tokenFor(entity.RoleAdmin)).Code)
	assert.Equal(t, http.StatusForbidden, serve(adminOnly, tokenFor(entity.RoleProvider)).Code)

	// Without Authenticate there is no role in context.
	assert.Equal(t, http.StatusUnauthorized, serve(RequireAdmin(ok), "").Code)
}
