package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestNew_Builds(t *testing.T) {
	log, err := New(Config{ServiceName: "taxcal", Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}

func newObservedRouter(t *testing.T, status int) (*gin.Engine, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)

	router := gin.New()
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/api/taxes/rules/:countryCode", func(c *gin.Context) {
		c.Status(status)
	})
	return router, logs
}

func TestGinMiddleware_LogsRequest(t *testing.T) {
	router, logs := newObservedRouter(t, http.StatusOK)

	req := httptest.NewRequest(http.MethodGet, "/api/taxes/rules/DE", nil)
	req.Header.Set(HeaderRequestID, "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get(HeaderRequestID))
	entries := logs.FilterMessage("http_request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)

	fields := entries[0].ContextMap()
	assert.Equal(t, "req-123", fields["request_id"])
	assert.Equal(t, "/api/taxes/rules/:countryCode", fields["route"])
	assert.Equal(t, "/api/taxes/rules/DE", fields["path"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
}

func TestGinMiddleware_GeneratesRequestIDAndErrorLevel(t *testing.T) {
	router, logs := newObservedRouter(t, http.StatusInternalServerError)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/taxes/rules/DE", nil))

	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
	entries := logs.FilterMessage("http_request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
}
