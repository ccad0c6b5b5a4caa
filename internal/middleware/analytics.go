package middleware

import (
	"net/http"

	"github.com/SscSPs/expense_approval_app/internal/platform/analytics"
	"github.com/gin-gonic/gin"
)

// trackedRoutes maps "METHOD route-template" to the product event it represents.
// Reads and health checks are never tracked.
var trackedRoutes = map[string]string{
	"POST /api/v1/expenses":                       "expense_created",
	"POST /api/v1/expenses/:expense_id/submit":    "expense_submitted",
	"POST /api/v1/expenses/:expense_id/decisions": "expense_decision_recorded",
	"POST /api/v1/workflows":                      "workflow_created",
}

// AnalyticsMiddleware emits a product event for every successful state-changing request
// made by an authenticated user.
func AnalyticsMiddleware(tracker analytics.Tracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if tracker == nil {
			return
		}
		event, ok := trackedRoutes[c.Request.Method+" "+c.FullPath()]
		if !ok {
			return
		}
		// Skip if there was an error processing the request
		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		p, ok := GetPrincipalFromContext(c)
		if !ok {
			return
		}

		props := map[string]any{
			"company_id":  p.CompanyID,
			"status_code": c.Writer.Status(),
		}
		for _, param := range c.Params {
			props[param.Key] = param.Value
		}
		tracker.Track(p.UserID, event, props)
	}
}
