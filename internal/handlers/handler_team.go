package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/expense_approval_app/internal/core/ports/services"
	"github.com/SscSPs/expense_approval_app/internal/dto"
	"github.com/SscSPs/expense_approval_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// teamHandler exposes the caller's position in the manager hierarchy.
type teamHandler struct {
	hierarchyService portssvc.HierarchySvc
}

func registerTeamRoutes(rg *gin.RouterGroup, hierarchyService portssvc.HierarchySvc) {
	h := &teamHandler{hierarchyService: hierarchyService}

	rg.GET("/users/me", h.getMe)
	rg.GET("/team", h.getTeam)
}

// getMe godoc
// @Summary Get the caller and their manager
// @Tags team
// @Produce  json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /users/me [get]
func (h *teamHandler) getMe(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	me, err := h.hierarchyService.GetUser(c.Request.Context(), actor.UserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve user")
		return
	}
	manager, err := h.hierarchyService.ManagerOf(c.Request.Context(), actor.UserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve manager")
		return
	}

	res := gin.H{"user": dto.ToUserResponse(*me)}
	if manager != nil {
		res["manager"] = dto.ToUserResponse(*manager)
	}
	c.JSON(http.StatusOK, res)
}

// getTeam godoc
// @Summary List my direct reports
// @Tags team
// @Produce  json
// @Success 200 {object} dto.TeamResponse
// @Security BearerAuth
// @Router /team [get]
func (h *teamHandler) getTeam(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	me, err := h.hierarchyService.GetUser(c.Request.Context(), actor.UserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve user")
		return
	}
	reports, err := h.hierarchyService.DirectReportsOf(c.Request.Context(), actor.UserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list direct reports")
		return
	}
	c.JSON(http.StatusOK, dto.ToTeamResponse(*me, reports))
}
