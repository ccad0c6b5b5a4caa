package dto

import (
	"time"

	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ExpenseDateLayout is the calendar date format accepted for expense dates.
const ExpenseDateLayout = "2006-01-02"

// CreateExpenseRequest defines the data needed to create a draft expense.
type CreateExpenseRequest struct {
	WorkflowID   string          `json:"workflowID" binding:"required,uuid"`
	Description  string          `json:"description" binding:"required,max=500"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	CurrencyCode string          `json:"currencyCode" binding:"required,iso4217"`
	Category     string          `json:"category" binding:"required,max=100"`
	ExpenseDate  string          `json:"expenseDate" binding:"required,datetime=2006-01-02"`
}

// ExpenseResponse defines the data returned for an expense.
type ExpenseResponse struct {
	ExpenseID     string               `json:"expenseID"`
	EmployeeID    string               `json:"employeeID"`
	CompanyID     string               `json:"companyID"`
	WorkflowID    string               `json:"workflowID"`
	Description   string               `json:"description"`
	Amount        decimal.Decimal      `json:"amount"`
	CurrencyCode  string               `json:"currencyCode"`
	Category      string               `json:"category"`
	ExpenseDate   string               `json:"expenseDate"`
	Status        domain.ExpenseStatus `json:"status"`
	Version       int64                `json:"version"`
	SubmittedAt   *time.Time           `json:"submittedAt,omitempty"`
	ResolvedAt    *time.Time           `json:"resolvedAt,omitempty"`
	ResolvedBy    *string              `json:"resolvedBy,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
	LastUpdatedAt time.Time            `json:"lastUpdatedAt"`
}

// ToExpenseResponse converts a domain.Expense to ExpenseResponse DTO
func ToExpenseResponse(e *domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ExpenseID:     e.ExpenseID,
		EmployeeID:    e.EmployeeID,
		CompanyID:     e.CompanyID,
		WorkflowID:    e.WorkflowID,
		Description:   e.Description,
		Amount:        e.Amount,
		CurrencyCode:  e.CurrencyCode,
		Category:      e.Category,
		ExpenseDate:   e.ExpenseDate.Format(ExpenseDateLayout),
		Status:        e.Status,
		Version:       e.Version,
		SubmittedAt:   e.SubmittedAt,
		ResolvedAt:    e.ResolvedAt,
		ResolvedBy:    e.ResolvedBy,
		CreatedAt:     e.CreatedAt,
		LastUpdatedAt: e.LastUpdatedAt,
	}
}

// ToListExpenseResponse converts a slice of domain.Expense to a slice of ExpenseResponse DTOs
func ToListExpenseResponse(expenses []domain.Expense) []ExpenseResponse {
	res := make([]ExpenseResponse, len(expenses))
	for i := range expenses {
		res[i] = ToExpenseResponse(&expenses[i])
	}
	return res
}

// ListExpensesParams defines query parameters for listing the caller's expenses.
type ListExpensesParams struct {
	Limit     int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListExpensesResponse wraps a page of expenses.
type ListExpensesResponse struct {
	Expenses  []ExpenseResponse `json:"expenses"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// PendingExpenseResponse is an inbox row: the expense plus who may act on it now.
type PendingExpenseResponse struct {
	Expense    ExpenseResponse    `json:"expense"`
	Resolution ResolutionResponse `json:"resolution"`
}

// ListPendingExpensesResponse wraps the approver inbox.
type ListPendingExpensesResponse struct {
	Expenses []PendingExpenseResponse `json:"expenses"`
}
