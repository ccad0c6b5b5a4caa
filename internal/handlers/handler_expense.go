package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/expense_approval_app/internal/core/ports/services"
	"github.com/SscSPs/expense_approval_app/internal/dto"
	"github.com/SscSPs/expense_approval_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// expenseHandler handles HTTP requests related to expenses and their approval.
type expenseHandler struct {
	expenseService portssvc.ExpenseSvcFacade
}

// newExpenseHandler creates a new expenseHandler.
func newExpenseHandler(es portssvc.ExpenseSvcFacade) *expenseHandler {
	return &expenseHandler{
		expenseService: es,
	}
}

// registerExpenseRoutes registers expense routes. decisionLimit guards the write paths that
// touch the approval ledger.
func registerExpenseRoutes(rg *gin.RouterGroup, expenseService portssvc.ExpenseSvcFacade, decisionLimit gin.HandlerFunc) {
	h := newExpenseHandler(expenseService)

	expenses := rg.Group("/expenses")
	{
		expenses.POST("", h.createExpense)
		expenses.GET("", h.listMyExpenses)
		expenses.GET("/:expense_id", h.getExpense)
		expenses.POST("/:expense_id/submit", decisionLimit, h.submitExpense)
		expenses.POST("/:expense_id/decisions", decisionLimit, h.decideExpense)
		expenses.GET("/:expense_id/resolution", h.getResolution)
		expenses.GET("/:expense_id/approvals", h.listApprovals)
	}

	rg.GET("/approvals/pending", h.listPendingApprovals)
}

// createExpense godoc
// @Summary Create a draft expense
// @Description Creates a draft expense owned by the caller, bound to one of the company's workflows.
// @Tags expenses
// @Accept  json
// @Produce  json
// @Param   expense body dto.CreateExpenseRequest true "Expense details"
// @Success 201 {object} dto.ExpenseResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create expense"
// @Security BearerAuth
// @Router /expenses [post]
func (h *expenseHandler) createExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateExpense", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		logger.Error("Principal not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), req, actor)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create expense")
		return
	}

	logger.Info("Expense created successfully", slog.String("expense_id", expense.ExpenseID))
	c.JSON(http.StatusCreated, dto.ToExpenseResponse(expense))
}

// listMyExpenses godoc
// @Summary List my expenses
// @Description Retrieves the caller's expenses, newest first, with token pagination.
// @Tags expenses
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListExpensesResponse
// @Failure 400 {object} map[string]string "Invalid query"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list expenses"
// @Security BearerAuth
// @Router /expenses [get]
func (h *expenseHandler) listMyExpenses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListExpensesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListMyExpenses", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	actor, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	expenses, next, err := h.expenseService.ListMyExpenses(c.Request.Context(), actor, params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list expenses")
		return
	}

	c.JSON(http.StatusOK, dto.ListExpensesResponse{
		Expenses:  dto.ToListExpenseResponse(expenses),
		NextToken: next,
	})
}

// getExpense godoc
// @Summary Get an expense
// @Description Retrieves an expense visible to the caller.
// @Tags expenses
// @Produce  json
// @Param   expense_id path string true "Expense ID"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Expense not found"
// @Security BearerAuth
// @Router /expenses/{expense_id} [get]
func (h *expenseHandler) getExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	expenseID := c.Param("expense_id")

	actor, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	expense, err := h.expenseService.GetExpense(c.Request.Context(), expenseID, actor)
	if err != nil {
		respondWithError(c, logger.With(slog.String("expense_id", expenseID)), err, "Failed to retrieve expense")
		return
	}
	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

// submitExpense godoc
// @Summary Submit a draft expense
// @Description Moves a draft into pending approval and returns its first resolution.
// @Tags expenses
// @Produce  json
// @Param   expense_id path string true "Expense ID"
// @Success 200 {object} dto.DecisionResponse
// @Failure 403 {object} map[string]string "Only the owner can submit"
// @Failure 404 {object} map[string]string "Expense not found"
// @Failure 409 {object} map[string]string "Expense is not a draft"
// @Failure 422 {object} map[string]string "Workflow or hierarchy unusable"
// @Failure 503 {object} map[string]string "Concurrent update, retry"
// @Security BearerAuth
// @Router /expenses/{expense_id}/submit [post]
func (h *expenseHandler) submitExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	expenseID := c.Param("expense_id")

	actor, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("expense_id", expenseID))
	res, err := h.expenseService.Submit(c.Request.Context(), expenseID, actor)
	if err != nil {
		respondWithError(c, logger, err, "Failed to submit expense")
		return
	}

	logger.Info("Expense submitted", slog.String("outcome", string(res.Kind())))
	c.JSON(http.StatusOK, dto.DecisionResponse{ExpenseID: expenseID, Resolution: dto.ToResolutionResponse(res)})
}

// decideExpense godoc
// @Summary Approve or reject an expense
// @Description Records the caller's decision. A later decision by the same approver replaces the earlier one.
// @Tags approvals
// @Accept  json
// @Produce  json
// @Param   expense_id path string true "Expense ID"
// @Param   decision body dto.DecisionRequest true "Decision"
// @Success 200 {object} dto.DecisionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Approver not eligible"
// @Failure 404 {object} map[string]string "Expense not found"
// @Failure 409 {object} map[string]string "Expense not pending"
// @Failure 422 {object} map[string]string "Workflow misconfigured"
// @Failure 429 {object} map[string]string "Too many requests"
// @Failure 503 {object} map[string]string "Concurrent update, retry"
// @Security BearerAuth
// @Router /expenses/{expense_id}/decisions [post]
func (h *expenseHandler) decideExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	expenseID := c.Param("expense_id")

	var req dto.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Decide", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("expense_id", expenseID), slog.String("decision", string(req.Decision)))
	res, err := h.expenseService.Decide(c.Request.Context(), expenseID, actor, req.Decision, req.Comment)
	if err != nil {
		respondWithError(c, logger, err, "Failed to record decision")
		return
	}

	logger.Info("Decision recorded", slog.String("outcome", string(res.Kind())))
	c.JSON(http.StatusOK, dto.DecisionResponse{ExpenseID: expenseID, Resolution: dto.ToResolutionResponse(res)})
}

// getResolution godoc
// @Summary Get the current resolution of an expense
// @Description Recomputes who may act next, or returns the terminal outcome.
// @Tags approvals
// @Produce  json
// @Param   expense_id path string true "Expense ID"
// @Success 200 {object} dto.DecisionResponse
// @Failure 404 {object} map[string]string "Expense not found"
// @Failure 409 {object} map[string]string "Expense is still a draft"
// @Security BearerAuth
// @Router /expenses/{expense_id}/resolution [get]
func (h *expenseHandler) getResolution(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	expenseID := c.Param("expense_id")

	actor, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	res, err := h.expenseService.CurrentResolution(c.Request.Context(), expenseID, actor)
	if err != nil {
		respondWithError(c, logger.With(slog.String("expense_id", expenseID)), err, "Failed to resolve expense")
		return
	}
	c.JSON(http.StatusOK, dto.DecisionResponse{ExpenseID: expenseID, Resolution: dto.ToResolutionResponse(res)})
}

// listApprovals godoc
// @Summary List the decisions recorded on an expense
// @Tags approvals
// @Produce  json
// @Param   expense_id path string true "Expense ID"
// @Success 200 {object} dto.ListApprovalsResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Expense not found"
// @Security BearerAuth
// @Router /expenses/{expense_id}/approvals [get]
func (h *expenseHandler) listApprovals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	expenseID := c.Param("expense_id")

	actor, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	ledger, err := h.expenseService.ListApprovals(c.Request.Context(), expenseID, actor)
	if err != nil {
		respondWithError(c, logger.With(slog.String("expense_id", expenseID)), err, "Failed to list approvals")
		return
	}
	c.JSON(http.StatusOK, dto.ListApprovalsResponse{Approvals: dto.ToListApprovalResponse(ledger)})
}

// listPendingApprovals godoc
// @Summary List expenses awaiting my decision
// @Description Pending expenses of the caller's company on which the caller may act right now.
// @Tags approvals
// @Produce  json
// @Success 200 {object} dto.ListPendingExpensesResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list pending approvals"
// @Security BearerAuth
// @Router /approvals/pending [get]
func (h *expenseHandler) listPendingApprovals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	inbox, err := h.expenseService.ListPendingForApprover(c.Request.Context(), actor)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list pending approvals")
		return
	}

	res := dto.ListPendingExpensesResponse{Expenses: make([]dto.PendingExpenseResponse, len(inbox))}
	for i := range inbox {
		res.Expenses[i] = dto.PendingExpenseResponse{
			Expense:    dto.ToExpenseResponse(&inbox[i].Expense),
			Resolution: dto.ToResolutionResponse(inbox[i].Resolution),
		}
	}
	logger.Info("Pending approvals listed", slog.Int("count", len(inbox)))
	c.JSON(http.StatusOK, res)
}
