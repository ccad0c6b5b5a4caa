package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	"github.com/SscSPs/expense_approval_app/internal/core/services"
	"github.com/SscSPs/expense_approval_app/internal/dto"
	"github.com/SscSPs/expense_approval_app/internal/handlers"
	"github.com/SscSPs/expense_approval_app/internal/middleware"
	"github.com/SscSPs/expense_approval_app/internal/platform/config"
	"github.com/SscSPs/expense_approval_app/internal/repositories/memory"
	"github.com/SscSPs/expense_approval_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
)

const (
	companyID = "6f1c2a52-0a51-4c55-9a7e-1d9f4b1c0001"
	adminID   = "6f1c2a52-0a51-4c55-9a7e-1d9f4b1c0010"
	managerID = "6f1c2a52-0a51-4c55-9a7e-1d9f4b1c0011"
	aliceID   = "6f1c2a52-0a51-4c55-9a7e-1d9f4b1c0012"
	financeID = "6f1c2a52-0a51-4c55-9a7e-1d9f4b1c0013"
)

type ExpenseHandlerTestSuite struct {
	suite.Suite
	router *gin.Engine
	cfg    *config.Config
	store  *memory.Store
	tokens map[string]string
}

func TestExpenseHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ExpenseHandlerTestSuite))
}

func (s *ExpenseHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.Require().NoError(handlers.RegisterValidators())

	s.cfg = &config.Config{
		IsProduction:       true,
		JWTSecret:          "handler-test-secret",
		JWTIssuer:          "handler-test",
		MaxHierarchyDepth:  10,
		DecisionRetryLimit: 3,
	}

	ctx := context.Background()
	s.store = memory.NewStore()
	users := []domain.User{
		{UserID: adminID, Name: "Admin", Role: domain.RoleAdmin},
		{UserID: managerID, Name: "Manager", Role: domain.RoleEmployee, ManagerID: strPtr(adminID)},
		{UserID: aliceID, Name: "Alice", Role: domain.RoleEmployee, ManagerID: strPtr(managerID)},
		{UserID: financeID, Name: "Finance", Role: domain.RoleEmployee, ManagerID: strPtr(adminID)},
	}
	s.tokens = make(map[string]string, len(users))
	for _, u := range users {
		u.CompanyID = companyID
		s.Require().NoError(s.store.SaveUser(ctx, u))
		token, err := utils.GenerateJWT(domain.Principal{UserID: u.UserID, CompanyID: companyID, Role: u.Role, ManagerID: u.ManagerID},
			s.cfg.JWTSecret, time.Minute, s.cfg.JWTIssuer)
		s.Require().NoError(err)
		s.tokens[u.UserID] = token
	}

	limiter, err := middleware.NewLimiter("1000-M")
	s.Require().NoError(err)

	container := services.NewServiceContainer(s.cfg, memory.NewRepositoryProvider(s.store))
	s.router = gin.New()
	s.router.Use(middleware.StructuredLoggingMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))))
	handlers.RegisterRoutes(s.router, s.cfg, container, limiter)
}

func strPtr(v string) *string { return &v }

func (s *ExpenseHandlerTestSuite) do(method, path, userID string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+s.tokens[userID])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *ExpenseHandlerTestSuite) decode(w *httptest.ResponseRecorder, into any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), into), w.Body.String())
}

func (s *ExpenseHandlerTestSuite) createWorkflow() string {
	w := s.do(http.MethodPost, "/api/v1/workflows", adminID, map[string]any{
		"name":  "Standard",
		"steps": []map[string]any{{"stepNumber": 1, "approverID": financeID, "isRequired": true}},
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var wf dto.WorkflowResponse
	s.decode(w, &wf)
	s.True(wf.IsManagerFirstApprover)
	return wf.WorkflowID
}

func (s *ExpenseHandlerTestSuite) createExpense(workflowID string) string {
	w := s.do(http.MethodPost, "/api/v1/expenses", aliceID, map[string]any{
		"workflowID":   workflowID,
		"description":  "Conference ticket",
		"amount":       "249.00",
		"currencyCode": "USD",
		"category":     "Training",
		"expenseDate":  "2025-02-14",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var e dto.ExpenseResponse
	s.decode(w, &e)
	s.Equal(domain.StatusDraft, e.Status)
	s.Equal("2025-02-14", e.ExpenseDate)
	return e.ExpenseID
}

func (s *ExpenseHandlerTestSuite) TestHealth() {
	w := s.do(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("OK", w.Body.String())

	w = s.do(http.MethodGet, "/", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"service":"expense-approval","api":"/api/v1"}`, w.Body.String())
}

func (s *ExpenseHandlerTestSuite) TestUnauthenticated() {
	w := s.do(http.MethodGet, "/api/v1/expenses", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *ExpenseHandlerTestSuite) TestFullApprovalFlow() {
	wfID := s.createWorkflow()
	expenseID := s.createExpense(wfID)
	base := "/api/v1/expenses/" + expenseID

	w := s.do(http.MethodPost, base+"/submit", aliceID, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var res dto.DecisionResponse
	s.decode(w, &res)
	s.Equal(domain.ResolutionPending, res.Resolution.Outcome)
	s.Equal([]string{managerID}, res.Resolution.NextApprovers)

	w = s.do(http.MethodGet, "/api/v1/approvals/pending", managerID, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var inbox dto.ListPendingExpensesResponse
	s.decode(w, &inbox)
	s.Require().Len(inbox.Expenses, 1)
	s.Equal(expenseID, inbox.Expenses[0].Expense.ExpenseID)

	w = s.do(http.MethodPost, base+"/decisions", financeID, map[string]any{"decision": "approved"})
	s.Equal(http.StatusForbidden, w.Code, "finance must wait for the manager")

	w = s.do(http.MethodPost, base+"/decisions", managerID, map[string]any{"decision": "approved", "comment": "fine"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.decode(w, &res)
	s.Equal([]string{financeID}, res.Resolution.NextApprovers)

	w = s.do(http.MethodPost, base+"/decisions", financeID, map[string]any{"decision": "approved"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.decode(w, &res)
	s.Equal(domain.ResolutionApproved, res.Resolution.Outcome)

	w = s.do(http.MethodPost, base+"/decisions", managerID, map[string]any{"decision": "rejected"})
	s.Equal(http.StatusConflict, w.Code, "terminal expenses never change")

	w = s.do(http.MethodGet, base, aliceID, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var e dto.ExpenseResponse
	s.decode(w, &e)
	s.Equal(domain.StatusApproved, e.Status)
	s.NotNil(e.ResolvedAt)

	w = s.do(http.MethodGet, base+"/approvals", aliceID, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var ledger dto.ListApprovalsResponse
	s.decode(w, &ledger)
	s.Len(ledger.Approvals, 2)

	w = s.do(http.MethodGet, base+"/resolution", aliceID, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &res)
	s.Equal(domain.ResolutionApproved, res.Resolution.Outcome)
}

func (s *ExpenseHandlerTestSuite) TestManagerRejection() {
	expenseID := s.createExpense(s.createWorkflow())
	base := "/api/v1/expenses/" + expenseID
	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, base+"/submit", aliceID, nil).Code)

	w := s.do(http.MethodPost, base+"/decisions", managerID, map[string]any{"decision": "rejected", "comment": "duplicate"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var res dto.DecisionResponse
	s.decode(w, &res)
	s.Equal(domain.ResolutionRejected, res.Resolution.Outcome)
	s.Equal(managerID, res.Resolution.RejectedBy)
}

func (s *ExpenseHandlerTestSuite) TestValidation() {
	wfID := s.createWorkflow()
	expenseID := s.createExpense(wfID)

	tests := []struct {
		name   string
		method string
		path   string
		user   string
		body   any
		want   int
	}{
		{"unknown decision", http.MethodPost, "/api/v1/expenses/" + expenseID + "/decisions", managerID, map[string]any{"decision": "maybe"}, http.StatusBadRequest},
		{"bad currency", http.MethodPost, "/api/v1/expenses", aliceID, map[string]any{
			"workflowID": wfID, "description": "x", "amount": "1", "currencyCode": "XXQ", "category": "c", "expenseDate": "2025-01-01",
		}, http.StatusBadRequest},
		{"bad date", http.MethodPost, "/api/v1/expenses", aliceID, map[string]any{
			"workflowID": wfID, "description": "x", "amount": "1", "currencyCode": "EUR", "category": "c", "expenseDate": "01/01/2025",
		}, http.StatusBadRequest},
		{"negative amount", http.MethodPost, "/api/v1/expenses", aliceID, map[string]any{
			"workflowID": wfID, "description": "x", "amount": "-5", "currencyCode": "EUR", "category": "c", "expenseDate": "2025-01-01",
		}, http.StatusBadRequest},
		{"draft has no resolution", http.MethodGet, "/api/v1/expenses/" + expenseID + "/resolution", aliceID, nil, http.StatusConflict},
		{"only owner submits", http.MethodPost, "/api/v1/expenses/" + expenseID + "/submit", managerID, nil, http.StatusForbidden},
		{"non-admin workflow", http.MethodPost, "/api/v1/workflows", aliceID, map[string]any{"name": "Mine"}, http.StatusForbidden},
		{"missing expense", http.MethodGet, "/api/v1/expenses/6f1c2a52-0a51-4c55-9a7e-1d9f4b1c9999", aliceID, nil, http.StatusNotFound},
		{"bad page size", http.MethodGet, "/api/v1/expenses?limit=1000", aliceID, nil, http.StatusBadRequest},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			w := s.do(tt.method, tt.path, tt.user, tt.body)
			s.Equal(tt.want, w.Code, w.Body.String())
		})
	}
}

func (s *ExpenseHandlerTestSuite) TestListMyExpensesAndTeam() {
	wfID := s.createWorkflow()
	s.createExpense(wfID)
	s.createExpense(wfID)

	w := s.do(http.MethodGet, "/api/v1/expenses?limit=1", aliceID, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var page dto.ListExpensesResponse
	s.decode(w, &page)
	s.Len(page.Expenses, 1)
	s.Require().NotNil(page.NextToken)

	w = s.do(http.MethodGet, "/api/v1/team", managerID, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var team dto.TeamResponse
	s.decode(w, &team)
	s.Equal(managerID, team.Manager.UserID)
	s.Require().Len(team.Reports, 1)
	s.Equal(aliceID, team.Reports[0].UserID)

	w = s.do(http.MethodGet, "/api/v1/users/me", aliceID, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), managerID)
}
