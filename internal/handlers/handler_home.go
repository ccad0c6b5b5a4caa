package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// getHome godoc
// @Summary Describe the expense approval API.
// @Description Returns the service name and where the authenticated v1 routes live.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func getHome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "expense-approval",
		"api":     "/api/v1",
	})
}

// getHealth godoc
// @Summary Liveness check for load balancers.
// @Tags meta
// @Produce plain
// @Success 200 {string} string "OK"
// @Router /health [get]
func getHealth(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
