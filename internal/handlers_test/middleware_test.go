package handlers_test

import (
	"blog/internal/handlers"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = handlers.RequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})

	w := httptest.NewRecorder()
	handlers.RequestLogger(zap.New(core))(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	id := w.Header().Get(handlers.RequestIDHeader)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, seen)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, int64(http.StatusTeapot), fields["status"])
	assert.Equal(t, "/x", fields["path"])
	assert.Equal(t, id, fields["request_id"])
}

func TestRequestLogger_KeepsIncomingID(t *testing.T) {
	incoming := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(handlers.RequestIDHeader, incoming)

	w := httptest.NewRecorder()
	handlers.RequestLogger(zap.NewNop())(http.NotFoundHandler()).ServeHTTP(w, req)
	assert.Equal(t, incoming, w.Header().Get(handlers.RequestIDHeader))

	req.Header.Set(handlers.RequestIDHeader, "not-a-uuid")
	w = httptest.NewRecorder()
	handlers.RequestLogger(zap.NewNop())(http.NotFoundHandler()).ServeHTTP(w, req)
	assert.NotEqual(t, "not-a-uuid", w.Header().Get(handlers.RequestIDHeader))
}

func TestRecoveryMiddleware(t *testing.T) {
	tmpl := setupTestTemplates(t)
	eh := &handlers.ErrorHandler{Templates: tmpl}

	panicky := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	eh.RecoveryMiddleware(panicky).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")
}

func TestErrorHandler_WithoutTemplates(t *testing.T) {
	var eh *handlers.ErrorHandler

	w := httptest.NewRecorder()
	eh.Render(w, http.StatusBadRequest, "bad form")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "bad form\n", w.Body.String())
}

func TestHealthz(t *testing.T) {
	_, router := setupHandler(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}
