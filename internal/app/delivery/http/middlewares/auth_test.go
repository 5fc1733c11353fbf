package middlewares

import (
	"mediconnect-service/internal/app/config"
	"mediconnect-service/internal/pkg/constvars"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testJWTSecret = "test-jwt-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newTestMiddlewares(sharedSecret string) *Middlewares {
	return NewMiddlewares(zap.NewNop(), &config.InternalConfig{
		JWT:     config.AppJWT{Secret: testJWTSecret},
		Sweeper: config.Sweeper{SharedSecret: sharedSecret},
	})
}

func TestAuthenticate(t *testing.T) {
	middlewares := newTestMiddlewares("")

	var seenPatientID string
	handler := middlewares.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenPatientID, _ = r.Context().Value(constvars.CONTEXT_PATIENT_ID_KEY).(string)
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("Valid token", func(t *testing.T) {
		seenPatientID = ""
		token := signToken(t, testJWTSecret, jwt.MapClaims{
			"sub": "P1",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		req := httptest.NewRequest("POST", "/appointments", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer "+token)

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "P1", seenPatientID)
	})

	t.Run("Missing header", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/appointments", nil)

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Wrong signing secret", func(t *testing.T) {
		token := signToken(t, "another-secret", jwt.MapClaims{"sub": "P1"})
		req := httptest.NewRequest("POST", "/appointments", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer "+token)

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Expired token", func(t *testing.T) {
		token := signToken(t, testJWTSecret, jwt.MapClaims{
			"sub": "P1",
			"exp": time.Now().Add(-time.Hour).Unix(),
		})
		req := httptest.NewRequest("POST", "/appointments", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer "+token)

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Token without subject", func(t *testing.T) {
		token := signToken(t, testJWTSecret, jwt.MapClaims{"role": "patient"})
		req := httptest.NewRequest("POST", "/appointments", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer "+token)

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestRequireSweeperSecret(t *testing.T) {
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("success"))
	})

	t.Run("Valid secret", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/internal/lifecycle/sweep", nil)
		req.Header.Set(constvars.HeaderSweeperSecret, "s3cret")

		rr := httptest.NewRecorder()
		newTestMiddlewares("s3cret").RequireSweeperSecret(testHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "success", rr.Body.String())
	})

	t.Run("Missing secret", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/internal/lifecycle/sweep", nil)

		rr := httptest.NewRecorder()
		newTestMiddlewares("s3cret").RequireSweeperSecret(testHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/internal/lifecycle/sweep", nil)
		req.Header.Set(constvars.HeaderSweeperSecret, "guess")

		rr := httptest.NewRecorder()
		newTestMiddlewares("s3cret").RequireSweeperSecret(testHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("Unconfigured secret rejects everything", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/internal/lifecycle/sweep", nil)
		req.Header.Set(constvars.HeaderSweeperSecret, "")

		rr := httptest.NewRecorder()
		newTestMiddlewares("").RequireSweeperSecret(testHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	middlewares := newTestMiddlewares("")

	var seen string
	handler := middlewares.RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	}))

	t.Run("Keeps the client request id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(constvars.HeaderXRequestID, "client-id")

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, "client-id", seen)
		assert.Equal(t, "client-id", rr.Header().Get(constvars.HeaderXRequestID))
	})

	t.Run("Generates one when absent", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Contains(t, seen, constvars.REQUEST_ID_PREFIX)
		assert.Equal(t, seen, rr.Header().Get(constvars.HeaderXRequestID))
	})
}
