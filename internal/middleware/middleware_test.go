package middleware_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	"github.com/SscSPs/expense_approval_app/internal/middleware"
	"github.com/SscSPs/expense_approval_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret"
	testIssuer = "test-issuer"
)

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	r.GET("/whoami", func(c *gin.Context) {
		p, ok := middleware.GetPrincipalFromContext(c)
		if !ok {
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(http.StatusOK, gin.H{"userID": p.UserID, "companyID": p.CompanyID, "role": p.Role})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter(middleware.AuthMiddleware(testSecret, testIssuer))

	valid, err := utils.GenerateJWT(domain.Principal{UserID: "u1", CompanyID: "c1", Role: domain.RoleAdmin}, testSecret, time.Minute, testIssuer)
	require.NoError(t, err)
	expired, err := utils.GenerateJWT(domain.Principal{UserID: "u1", CompanyID: "c1", Role: domain.RoleAdmin}, testSecret, -time.Minute, testIssuer)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized, wantBody: "Authorization header required"},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized, wantBody: "Bearer"},
		{name: "garbage token", header: "Bearer abc", wantStatus: http.StatusUnauthorized, wantBody: "Invalid token"},
		{name: "expired token", header: "Bearer " + expired, wantStatus: http.StatusUnauthorized, wantBody: "Token has expired"},
		{name: "valid token", header: "Bearer " + valid, wantStatus: http.StatusOK, wantBody: `"companyID":"c1"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestStructuredLoggingMiddleware_RequestID(t *testing.T) {
	r := newRouter(middleware.StructuredLoggingMiddleware(slog.Default()))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRateLimit(t *testing.T) {
	lim, err := middleware.NewLimiter("2-M")
	require.NoError(t, err)
	r := newRouter(middleware.RateLimit(lim))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
}

func TestNewLimiter_InvalidRate(t *testing.T) {
	_, err := middleware.NewLimiter("lots")
	assert.Error(t, err)
}

type recordedEvent struct {
	distinctID string
	event      string
	props      map[string]any
}

type fakeTracker struct {
	events []recordedEvent
}

func (f *fakeTracker) Track(distinctID, event string, properties map[string]any) {
	f.events = append(f.events, recordedEvent{distinctID: distinctID, event: event, props: properties})
}

func (f *fakeTracker) Close() {}

func TestAnalyticsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tracker := &fakeTracker{}
	r := gin.New()
	r.Use(middleware.AnalyticsMiddleware(tracker))
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(testSecret, testIssuer))
	v1.POST("/expenses/:expense_id/submit", func(c *gin.Context) { c.Status(http.StatusOK) })
	v1.POST("/expenses/:expense_id/decisions", func(c *gin.Context) { c.Status(http.StatusForbidden) })
	v1.GET("/expenses/:expense_id", func(c *gin.Context) { c.Status(http.StatusOK) })

	token, err := utils.GenerateJWT(domain.Principal{UserID: "u1", CompanyID: "c1", Role: domain.RoleEmployee}, testSecret, time.Minute, testIssuer)
	require.NoError(t, err)

	for _, call := range []struct{ method, path string }{
		{http.MethodPost, "/api/v1/expenses/e-1/submit"},
		{http.MethodPost, "/api/v1/expenses/e-1/decisions"},
		{http.MethodGet, "/api/v1/expenses/e-1"},
	} {
		req := httptest.NewRequest(call.method, call.path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}
	// Unauthenticated writes are not attributed to anyone.
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/expenses/e-1/submit", nil))

	require.Len(t, tracker.events, 1, "failed and read-only requests are not tracked")
	assert.Equal(t, "u1", tracker.events[0].distinctID)
	assert.Equal(t, "expense_submitted", tracker.events[0].event)
	assert.Equal(t, "e-1", tracker.events[0].props["expense_id"])
	assert.Equal(t, "c1", tracker.events[0].props["company_id"])
}
