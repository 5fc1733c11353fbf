package middlewares

import (
	"mediconnect-service/internal/app/config"
	"mediconnect-service/internal/pkg/constvars"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestErrorHandler(t *testing.T) {
	middlewares := newTestMiddlewares("")

	t.Run("Recovers a panic into a 500 envelope", func(t *testing.T) {
		handler := middlewares.RequestIDMiddleware(middlewares.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		})))

		req := httptest.NewRequest("GET", "/appointments/A1", nil)
		req.Header.Set(constvars.HeaderXRequestID, "req-panic")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "req-panic", body["request_id"])
	})

	t.Run("Passes through without a panic", func(t *testing.T) {
		handler := middlewares.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

		assert.Equal(t, http.StatusNoContent, rr.Code)
	})
}

func TestBodyLimit(t *testing.T) {
	middlewares := NewMiddlewares(zap.NewNop(), &config.InternalConfig{
		App: config.App{RequestBodyLimitInMegabyte: 1},
	})

	var readErr error
	handler := middlewares.BodyLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 2<<20)
		for readErr == nil {
			_, readErr = r.Body.Read(buf)
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("POST", "/appointments", strings.NewReader(strings.Repeat("a", 2<<20)))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.Error(t, readErr)
	assert.Contains(t, readErr.Error(), "request body too large")
}

func TestLogging(t *testing.T) {
	middlewares := newTestMiddlewares("")
	handler := middlewares.Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("POST", "/internal/lifecycle/sweep", nil))

	assert.Equal(t, http.StatusAccepted, rr.Code)
}
