// Package memory is an in-process implementation of every repository port, used for
// local runs (STORAGE_BACKEND=memory) and service tests. All state sits behind one lock,
// which gives the same all-or-nothing semantics as the postgres transactions.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/expense_approval_app/internal/apperrors"
	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_approval_app/internal/core/ports/repositories"
	"github.com/SscSPs/expense_approval_app/internal/utils/pagination"
)

type ledgerKey struct {
	expenseID  string
	approverID string
}

// Store keeps all aggregates in maps guarded by a single RWMutex.
type Store struct {
	mu        sync.RWMutex
	companies map[string]domain.Company
	users     map[string]domain.User
	workflows map[string]domain.ApprovalWorkflow
	expenses  map[string]domain.Expense
	approvals map[ledgerKey]domain.ExpenseApproval
	attempts  []domain.DecisionAttempt
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		companies: make(map[string]domain.Company),
		users:     make(map[string]domain.User),
		workflows: make(map[string]domain.ApprovalWorkflow),
		expenses:  make(map[string]domain.Expense),
		approvals: make(map[ledgerKey]domain.ExpenseApproval),
	}
}

// NewRepositoryProvider exposes the store through every repository port.
func NewRepositoryProvider(s *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CompanyRepo:  s,
		UserRepo:     s,
		WorkflowRepo: s,
		ExpenseRepo:  s,
		ApprovalRepo: s,
	}
}

var (
	_ portsrepo.CompanyRepositoryFacade  = (*Store)(nil)
	_ portsrepo.UserRepositoryFacade     = (*Store)(nil)
	_ portsrepo.WorkflowRepositoryFacade = (*Store)(nil)
	_ portsrepo.ExpenseRepositoryFacade  = (*Store)(nil)
	_ portsrepo.ApprovalRepositoryFacade = (*Store)(nil)
)

// --- companies ---

func (s *Store) FindCompanyByID(_ context.Context, companyID string) (*domain.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.companies[companyID]
	if !ok {
		return nil, apperrors.NewNotFoundError("company " + companyID)
	}
	return &c, nil
}

func (s *Store) SaveCompany(_ context.Context, company domain.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies[company.CompanyID] = company
	return nil
}

// --- users ---

func (s *Store) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, apperrors.NewNotFoundError("user " + userID)
	}
	return copyUser(u), nil
}

func (s *Store) FindDirectReports(_ context.Context, managerID string) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reports := []domain.User{}
	for _, u := range s.users {
		if u.HasManager() && *u.ManagerID == managerID {
			reports = append(reports, *copyUser(u))
		}
	}
	sort.Slice(reports, func(i, j int) bool {
		if reports[i].Name != reports[j].Name {
			return reports[i].Name < reports[j].Name
		}
		return reports[i].UserID < reports[j].UserID
	})
	return reports, nil
}

func (s *Store) SaveUser(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.UserID] = *copyUser(user)
	return nil
}

// --- workflows ---

func (s *Store) FindWorkflowByID(ctx context.Context, workflowID string) (*domain.ApprovalWorkflow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	wf, ok := s.workflows[workflowID]
	if !ok {
		return nil, apperrors.NewNotFoundError("workflow " + workflowID)
	}
	return copyWorkflow(wf), nil
}

func (s *Store) ListWorkflowsByCompany(_ context.Context, companyID string) ([]domain.ApprovalWorkflow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.ApprovalWorkflow{}
	for _, wf := range s.workflows {
		if wf.CompanyID == companyID {
			out = append(out, *copyWorkflow(wf))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].WorkflowID < out[j].WorkflowID
	})
	return out, nil
}

func (s *Store) SaveWorkflow(_ context.Context, workflow domain.ApprovalWorkflow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.workflows[workflow.WorkflowID]; exists {
		return apperrors.NewConflictError("workflow " + workflow.WorkflowID)
	}
	s.workflows[workflow.WorkflowID] = *copyWorkflow(workflow)
	return nil
}

// --- expenses ---

func (s *Store) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.expenses[expenseID]
	if !ok {
		return nil, apperrors.NewNotFoundError("expense " + expenseID)
	}
	return copyExpense(e), nil
}

func (s *Store) ListExpensesByEmployee(_ context.Context, employeeID string, limit int, nextToken *string) ([]domain.Expense, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	var (
		cursorAt time.Time
		cursorID string
		err      error
	)
	if nextToken != nil && *nextToken != "" {
		cursorAt, cursorID, err = pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
		}
	}

	s.mu.RLock()
	all := []domain.Expense{}
	for _, e := range s.expenses {
		if e.EmployeeID == employeeID {
			all = append(all, *copyExpense(e))
		}
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return pagination.After(all[j].CreatedAt, all[j].ExpenseID, all[i].CreatedAt, all[i].ExpenseID)
	})

	page := make([]domain.Expense, 0, limit)
	for _, e := range all {
		if cursorID != "" && !pagination.After(e.CreatedAt, e.ExpenseID, cursorAt, cursorID) {
			continue
		}
		if len(page) == limit {
			last := page[len(page)-1]
			token := pagination.EncodeToken(last.CreatedAt, last.ExpenseID)
			return page, &token, nil
		}
		page = append(page, e)
	}
	return page, nil, nil
}

func (s *Store) ListExpensesByStatus(_ context.Context, companyID string, status domain.ExpenseStatus, limit int) ([]domain.Expense, error) {
	s.mu.RLock()
	out := []domain.Expense{}
	for _, e := range s.expenses {
		if e.CompanyID == companyID && e.Status == status {
			out = append(out, *copyExpense(e))
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		ti, tj := submittedOrCreated(out[i]), submittedOrCreated(out[j])
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return out[i].ExpenseID < out[j].ExpenseID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) SaveExpense(_ context.Context, expense domain.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.expenses[expense.ExpenseID]; exists {
		return apperrors.NewConflictError("expense " + expense.ExpenseID)
	}
	s.expenses[expense.ExpenseID] = *copyExpense(expense)
	return nil
}

func (s *Store) CompareAndSetExpenseStatus(ctx context.Context, t domain.StatusTransition) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.expenses[t.ExpenseID]
	if !ok {
		return false, apperrors.NewNotFoundError("expense " + t.ExpenseID)
	}
	if e.Status != t.From || e.Version != t.ExpectedVersion {
		return false, nil
	}
	at := t.At
	e.Status = t.To
	e.Version++
	e.LastUpdatedAt = at
	e.LastUpdatedBy = t.ActorID
	switch {
	case t.To == domain.StatusPendingApproval:
		e.SubmittedAt = &at
	case t.To.IsTerminal():
		e.ResolvedAt = &at
		e.ResolvedBy = copyString(t.ResolvedBy)
	}
	s.expenses[t.ExpenseID] = e
	return true, nil
}

// --- ledger ---

func (s *Store) FindApprovalsByExpenseID(ctx context.Context, expenseID string) ([]domain.ExpenseApproval, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := []domain.ExpenseApproval{}
	for k, a := range s.approvals {
		if k.expenseID == expenseID {
			a.Comment = copyString(a.Comment)
			out = append(out, a)
		}
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DecidedAt.Equal(out[j].DecidedAt) {
			return out[i].DecidedAt.Before(out[j].DecidedAt)
		}
		return out[i].ApproverID < out[j].ApproverID
	})
	return out, nil
}

func (s *Store) UpsertApproval(ctx context.Context, entry domain.ExpenseApproval) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.expenses[entry.ExpenseID]
	if !ok {
		return 0, apperrors.NewNotFoundError("expense " + entry.ExpenseID)
	}
	if e.Status != domain.StatusPendingApproval {
		return 0, fmt.Errorf("%w: expense %s is %s", apperrors.ErrExpenseNotPending, e.ExpenseID, e.Status)
	}
	key := ledgerKey{expenseID: entry.ExpenseID, approverID: entry.ApproverID}
	if prev, exists := s.approvals[key]; exists {
		entry.ApprovalID = prev.ApprovalID
	}
	entry.Comment = copyString(entry.Comment)
	s.approvals[key] = entry

	e.Version++
	e.LastUpdatedAt = entry.DecidedAt
	e.LastUpdatedBy = entry.ApproverID
	s.expenses[e.ExpenseID] = e
	return e.Version, nil
}

func (s *Store) SaveDecisionAttempt(_ context.Context, attempt domain.DecisionAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	attempt.Comment = copyString(attempt.Comment)
	s.attempts = append(s.attempts, attempt)
	return nil
}

func (s *Store) FindDecisionAttemptsByExpenseID(_ context.Context, expenseID string) ([]domain.DecisionAttempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.DecisionAttempt{}
	for _, a := range s.attempts {
		if a.ExpenseID == expenseID {
			out = append(out, a)
		}
	}
	return out, nil
}

// --- copies, so callers never alias stored state ---

func copyString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyUser(u domain.User) *domain.User {
	u.ManagerID = copyString(u.ManagerID)
	return &u
}

func copyWorkflow(wf domain.ApprovalWorkflow) *domain.ApprovalWorkflow {
	wf.SpecialApproverID = copyString(wf.SpecialApproverID)
	if wf.MinApprovalPercentage != nil {
		pct := *wf.MinApprovalPercentage
		wf.MinApprovalPercentage = &pct
	}
	steps := make([]domain.WorkflowStep, len(wf.Steps))
	copy(steps, wf.Steps)
	wf.Steps = steps
	return &wf
}

func copyExpense(e domain.Expense) *domain.Expense {
	e.ResolvedBy = copyString(e.ResolvedBy)
	if e.SubmittedAt != nil {
		at := *e.SubmittedAt
		e.SubmittedAt = &at
	}
	if e.ResolvedAt != nil {
		at := *e.ResolvedAt
		e.ResolvedAt = &at
	}
	return &e
}

func submittedOrCreated(e domain.Expense) time.Time {
	if e.SubmittedAt != nil {
		return *e.SubmittedAt
	}
	return e.CreatedAt
}
