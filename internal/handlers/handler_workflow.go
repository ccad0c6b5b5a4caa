package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/expense_approval_app/internal/core/ports/services"
	"github.com/SscSPs/expense_approval_app/internal/dto"
	"github.com/SscSPs/expense_approval_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// workflowHandler handles HTTP requests related to approval workflows.
type workflowHandler struct {
	workflowService portssvc.WorkflowSvcFacade
}

func newWorkflowHandler(ws portssvc.WorkflowSvcFacade) *workflowHandler {
	return &workflowHandler{workflowService: ws}
}

func registerWorkflowRoutes(rg *gin.RouterGroup, workflowService portssvc.WorkflowSvcFacade) {
	h := newWorkflowHandler(workflowService)

	workflows := rg.Group("/workflows")
	{
		workflows.POST("", h.createWorkflow)
		workflows.GET("", h.listWorkflows)
		workflows.GET("/:workflow_id", h.getWorkflow)
	}
}

// createWorkflow godoc
// @Summary Create an approval workflow
// @Description Creates an approval workflow for the caller's company (admin only).
// @Tags workflows
// @Accept  json
// @Produce  json
// @Param   workflow body dto.CreateWorkflowRequest true "Workflow rules"
// @Success 201 {object} dto.WorkflowResponse
// @Failure 400 {object} map[string]string "Invalid or misconfigured workflow"
// @Failure 403 {object} map[string]string "Admin only"
// @Security BearerAuth
// @Router /workflows [post]
func (h *workflowHandler) createWorkflow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateWorkflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateWorkflow", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	wf, err := h.workflowService.CreateWorkflow(c.Request.Context(), req, actor)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create workflow")
		return
	}

	logger.Info("Workflow created successfully", slog.String("workflow_id", wf.WorkflowID))
	c.JSON(http.StatusCreated, dto.ToWorkflowResponse(wf))
}

// listWorkflows godoc
// @Summary List workflows
// @Tags workflows
// @Produce  json
// @Success 200 {object} dto.ListWorkflowsResponse
// @Security BearerAuth
// @Router /workflows [get]
func (h *workflowHandler) listWorkflows(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	workflows, err := h.workflowService.ListWorkflows(c.Request.Context(), actor)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list workflows")
		return
	}
	c.JSON(http.StatusOK, dto.ToListWorkflowsResponse(workflows))
}

// getWorkflow godoc
// @Summary Get a workflow
// @Tags workflows
// @Produce  json
// @Param   workflow_id path string true "Workflow ID"
// @Success 200 {object} dto.WorkflowResponse
// @Failure 404 {object} map[string]string "Workflow not found"
// @Security BearerAuth
// @Router /workflows/{workflow_id} [get]
func (h *workflowHandler) getWorkflow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workflowID := c.Param("workflow_id")
	actor, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	wf, err := h.workflowService.GetWorkflow(c.Request.Context(), workflowID, actor)
	if err != nil {
		respondWithError(c, logger.With(slog.String("workflow_id", workflowID)), err, "Failed to retrieve workflow")
		return
	}
	c.JSON(http.StatusOK, dto.ToWorkflowResponse(wf))
}
