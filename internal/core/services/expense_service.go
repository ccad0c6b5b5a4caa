package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/expense_approval_app/internal/apperrors"
	"github.com/SscSPs/expense_approval_app/internal/core/approval"
	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	"github.com/SscSPs/expense_approval_app/internal/core/hierarchy"
	portsrepo "github.com/SscSPs/expense_approval_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/expense_approval_app/internal/core/ports/services"
	"github.com/SscSPs/expense_approval_app/internal/dto"
	"github.com/SscSPs/expense_approval_app/internal/platform/tracing"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

const (
	defaultRetryLimit       = 3
	defaultInboxConcurrency = 8
	defaultInboxScanLimit   = 500
)

// expenseService implements portssvc.ExpenseSvcFacade. It is the only writer of expense status.
type expenseService struct {
	BaseService
	expenseRepo  portsrepo.ExpenseRepositoryFacade
	workflowRepo portsrepo.WorkflowReader
	approvalRepo portsrepo.ApprovalRepositoryFacade
	userRepo     portsrepo.UserReader

	locks            *keyedMutex
	retryLimit       int
	maxDepth         int
	inboxConcurrency int
	now              func() time.Time
}

// ExpenseServiceOption is a functional option for configuring the expense service
type ExpenseServiceOption func(*expenseService)

// WithDecisionRetryLimit bounds how often a lost compare-and-set is retried.
func WithDecisionRetryLimit(n int) ExpenseServiceOption {
	return func(s *expenseService) {
		if n > 0 {
			s.retryLimit = n
		}
	}
}

// WithMaxHierarchyDepth bounds manager-chain walks.
func WithMaxHierarchyDepth(n int) ExpenseServiceOption {
	return func(s *expenseService) {
		if n > 0 {
			s.maxDepth = n
		}
	}
}

// WithInboxConcurrency bounds how many expenses the inbox evaluates in parallel.
func WithInboxConcurrency(n int) ExpenseServiceOption {
	return func(s *expenseService) {
		if n > 0 {
			s.inboxConcurrency = n
		}
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) ExpenseServiceOption {
	return func(s *expenseService) {
		s.now = now
	}
}

// NewExpenseService creates a new expense service with the provided options
func NewExpenseService(repos portsrepo.RepositoryProvider, options ...ExpenseServiceOption) portssvc.ExpenseSvcFacade {
	svc := &expenseService{
		expenseRepo:      repos.ExpenseRepo,
		workflowRepo:     repos.WorkflowRepo,
		approvalRepo:     repos.ApprovalRepo,
		userRepo:         repos.UserRepo,
		locks:            newKeyedMutex(),
		retryLimit:       defaultRetryLimit,
		maxDepth:         hierarchy.DefaultMaxDepth,
		inboxConcurrency: defaultInboxConcurrency,
		now:              time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

// snapshot is everything the engine needs about one expense, read at one point in time.
type snapshot struct {
	expense  domain.Expense
	workflow domain.ApprovalWorkflow
	ledger   []domain.ExpenseApproval
	org      *hierarchy.Snapshot
}

func (s snapshot) input() approval.Input {
	return approval.Input{
		Expense:   s.expense,
		Workflow:  s.workflow,
		Ledger:    s.ledger,
		Hierarchy: s.org,
	}
}

// decisionOf returns the most recent ledger entry of approverID.
func (s snapshot) decisionOf(approverID string) (domain.ExpenseApproval, bool) {
	var (
		latest domain.ExpenseApproval
		found  bool
	)
	for _, entry := range s.ledger {
		if entry.ApproverID != approverID {
			continue
		}
		if !found || !entry.DecidedAt.Before(latest.DecidedAt) {
			latest, found = entry, true
		}
	}
	return latest, found
}

// loadSnapshot reads the expense, then its workflow, ledger and owner hierarchy concurrently.
func (s *expenseService) loadSnapshot(ctx context.Context, expenseID string) (*snapshot, error) {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load expense %s: %w", expenseID, err)
	}
	return s.loadSnapshotFor(ctx, *expense)
}

func (s *expenseService) loadSnapshotFor(ctx context.Context, expense domain.Expense) (*snapshot, error) {
	snap := &snapshot{expense: expense}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		wf, err := s.workflowRepo.FindWorkflowByID(gctx, expense.WorkflowID)
		if err != nil {
			return fmt.Errorf("failed to load workflow %s: %w", expense.WorkflowID, err)
		}
		snap.workflow = *wf
		return nil
	})
	g.Go(func() error {
		ledger, err := s.approvalRepo.FindApprovalsByExpenseID(gctx, expense.ExpenseID)
		if err != nil {
			return fmt.Errorf("failed to load approvals of expense %s: %w", expense.ExpenseID, err)
		}
		snap.ledger = ledger
		return nil
	})
	g.Go(func() error {
		org, err := s.loadOwnerHierarchy(gctx, expense.EmployeeID)
		if err != nil {
			return err
		}
		snap.org = org
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

// loadOwnerHierarchy loads the employee and their direct manager, which is all the
// manager gate looks at.
func (s *expenseService) loadOwnerHierarchy(ctx context.Context, employeeID string) (*hierarchy.Snapshot, error) {
	employee, err := s.userRepo.FindUserByID(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load employee %s: %w", employeeID, err)
	}
	users := []domain.User{*employee}
	if employee.HasManager() {
		manager, err := s.userRepo.FindUserByID(ctx, *employee.ManagerID)
		if err != nil {
			return nil, fmt.Errorf("failed to load manager %s of employee %s: %w", *employee.ManagerID, employeeID, err)
		}
		users = append(users, *manager)
	}
	return hierarchy.NewSnapshot(users...), nil
}

func (s *expenseService) edgeSource() hierarchy.EdgeSource {
	return hierarchy.EdgeSourceFunc(s.userRepo.FindUserByID)
}

// authorizeView allows the owner, admins, anyone the workflow names and anyone above the owner.
func (s *expenseService) authorizeView(ctx context.Context, snap *snapshot, actor domain.Principal) error {
	if err := s.AuthorizeCompany(actor, snap.expense.CompanyID, "expense "+snap.expense.ExpenseID); err != nil {
		return err
	}
	if actor.UserID == snap.expense.EmployeeID || actor.IsAdmin() {
		return nil
	}
	for _, id := range snap.workflow.ApproverIDs() {
		if id == actor.UserID {
			return nil
		}
	}
	above, err := hierarchy.IsManagerOf(ctx, s.edgeSource(), actor.UserID, snap.expense.EmployeeID, s.maxDepth)
	if err != nil {
		return err
	}
	if !above {
		return fmt.Errorf("%w: user %s cannot view expense %s", apperrors.ErrForbidden, actor.UserID, snap.expense.ExpenseID)
	}
	return nil
}

func (s *expenseService) CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, actor domain.Principal) (*domain.Expense, error) {
	wf, err := s.workflowRepo.FindWorkflowByID(ctx, req.WorkflowID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: workflow %s does not exist", apperrors.ErrValidation, req.WorkflowID)
		}
		s.LogError(ctx, err, "Failed to load workflow for new expense", slog.String("workflow_id", req.WorkflowID))
		return nil, err
	}
	if wf.CompanyID != actor.CompanyID {
		return nil, fmt.Errorf("%w: workflow %s does not exist", apperrors.ErrValidation, req.WorkflowID)
	}

	expenseDate, err := time.Parse(dto.ExpenseDateLayout, req.ExpenseDate)
	if err != nil {
		return nil, fmt.Errorf("%w: expense date %q must be YYYY-MM-DD", apperrors.ErrValidation, req.ExpenseDate)
	}

	now := s.now()
	expense := domain.Expense{
		ExpenseID:    uuid.NewString(),
		EmployeeID:   actor.UserID,
		CompanyID:    actor.CompanyID,
		WorkflowID:   wf.WorkflowID,
		Description:  strings.TrimSpace(req.Description),
		Amount:       req.Amount,
		CurrencyCode: strings.ToUpper(req.CurrencyCode),
		Category:     strings.TrimSpace(req.Category),
		ExpenseDate:  expenseDate,
		Status:       domain.StatusDraft,
		Version:      1,
		AuditFields:  domain.NewAuditFields(actor.UserID, now),
	}
	if err := expense.Validate(); err != nil {
		return nil, err
	}

	if err := s.expenseRepo.SaveExpense(ctx, expense); err != nil {
		s.LogError(ctx, err, "Failed to save expense", slog.String("expense_id", expense.ExpenseID))
		return nil, fmt.Errorf("failed to save expense: %w", err)
	}

	s.LogInfo(ctx, "Expense created",
		slog.String("expense_id", expense.ExpenseID),
		slog.String("workflow_id", expense.WorkflowID),
		slog.String("amount", expense.Amount.String()),
		slog.String("currency", expense.CurrencyCode))
	return &expense, nil
}

func (s *expenseService) GetExpense(ctx context.Context, expenseID string, actor domain.Principal) (*domain.Expense, error) {
	snap, err := s.loadSnapshot(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeView(ctx, snap, actor); err != nil {
		return nil, err
	}
	return &snap.expense, nil
}

func (s *expenseService) ListMyExpenses(ctx context.Context, actor domain.Principal, params dto.ListExpensesParams) ([]domain.Expense, *string, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	expenses, next, err := s.expenseRepo.ListExpensesByEmployee(ctx, actor.UserID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list expenses", slog.String("employee_id", actor.UserID))
		return nil, nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expenses, next, nil
}

func (s *expenseService) Submit(ctx context.Context, expenseID string, actor domain.Principal) (res domain.Resolution, err error) {
	ctx, span := tracing.StartSpan(ctx, "expense.Submit",
		attribute.String("expense.id", expenseID),
		attribute.String("actor.id", actor.UserID))
	defer func() { tracing.EndSpan(span, err) }()

	unlock := s.locks.Lock(expenseID)
	defer unlock()

	snap, err := s.loadSnapshot(ctx, expenseID)
	if err != nil {
		return domain.Resolution{}, err
	}
	expense := snap.expense
	if err := s.AuthorizeCompany(actor, expense.CompanyID, "expense "+expenseID); err != nil {
		return domain.Resolution{}, err
	}
	if expense.EmployeeID != actor.UserID {
		return domain.Resolution{}, fmt.Errorf("%w: only the owner can submit expense %s", apperrors.ErrForbidden, expenseID)
	}
	if !expense.Status.CanTransitionTo(domain.StatusPendingApproval) {
		return domain.Resolution{}, fmt.Errorf("%w: cannot submit expense %s in status %s", apperrors.ErrInvalidTransition, expenseID, expense.Status)
	}
	if err := snap.workflow.Validate(); err != nil {
		s.LogError(ctx, err, "Refusing to submit against a misconfigured workflow", slog.String("workflow_id", snap.workflow.WorkflowID))
		return domain.Resolution{}, err
	}
	// Walk the whole chain once so a cyclic hierarchy fails here instead of mid-approval.
	if _, err := hierarchy.IsManagerOf(ctx, s.edgeSource(), "", expense.EmployeeID, s.maxDepth); err != nil {
		s.LogError(ctx, err, "Manager chain of expense owner is unusable", slog.String("employee_id", expense.EmployeeID))
		return domain.Resolution{}, err
	}

	ok, err := s.expenseRepo.CompareAndSetExpenseStatus(ctx, domain.StatusTransition{
		ExpenseID:       expenseID,
		From:            domain.StatusDraft,
		To:              domain.StatusPendingApproval,
		ExpectedVersion: expense.Version,
		ActorID:         actor.UserID,
		At:              s.now(),
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to submit expense", slog.String("expense_id", expenseID))
		return domain.Resolution{}, fmt.Errorf("failed to submit expense %s: %w", expenseID, err)
	}
	if !ok {
		return domain.Resolution{}, fmt.Errorf("%w: expense %s changed while submitting", apperrors.ErrConcurrentUpdate, expenseID)
	}
	s.LogInfo(ctx, "Expense submitted", slog.String("expense_id", expenseID))

	return s.applyResolution(ctx, expenseID, actor.UserID)
}

func (s *expenseService) Decide(ctx context.Context, expenseID string, actor domain.Principal, decision domain.Decision, comment *string) (res domain.Resolution, err error) {
	if !decision.IsValid() {
		return domain.Resolution{}, fmt.Errorf("%w: decision must be approved or rejected, got %q", apperrors.ErrValidation, decision)
	}

	ctx, span := tracing.StartSpan(ctx, "expense.Decide",
		attribute.String("expense.id", expenseID),
		attribute.String("actor.id", actor.UserID),
		attribute.String("decision", string(decision)))
	defer func() { tracing.EndSpan(span, err) }()

	unlock := s.locks.Lock(expenseID)
	defer unlock()

	snap, err := s.loadSnapshot(ctx, expenseID)
	if err != nil {
		return domain.Resolution{}, err
	}
	if err := s.AuthorizeCompany(actor, snap.expense.CompanyID, "expense "+expenseID); err != nil {
		return domain.Resolution{}, err
	}

	if snap.expense.Status != domain.StatusPendingApproval {
		s.recordAttempt(ctx, snap.expense, actor.UserID, decision, comment, domain.AttemptNotPending)
		return domain.Resolution{}, fmt.Errorf("%w: expense %s is %s", apperrors.ErrExpenseNotPending, expenseID, snap.expense.Status)
	}

	ev, err := approval.Evaluate(snap.input())
	if err != nil {
		s.LogError(ctx, err, "Failed to evaluate expense", slog.String("expense_id", expenseID))
		return domain.Resolution{}, err
	}
	if ev.IsTerminal() {
		// The ledger already decides the expense; finish the transition a previous call left behind.
		applied, err := s.applyResolution(ctx, expenseID, actor.UserID)
		if err != nil {
			return domain.Resolution{}, err
		}
		if prev, ok := snap.decisionOf(actor.UserID); ok && prev.Decision == decision {
			// Retry of the decision that settled the ledger.
			s.LogInfo(ctx, "Repeated decision completed pending transition",
				slog.String("expense_id", expenseID),
				slog.String("outcome", string(applied.Kind())))
			return applied, nil
		}
		s.recordAttempt(ctx, snap.expense, actor.UserID, decision, comment, domain.AttemptNotPending)
		return domain.Resolution{}, fmt.Errorf("%w: expense %s was already resolved", apperrors.ErrExpenseNotPending, expenseID)
	}
	if !ev.CanAct(actor.UserID) {
		s.recordAttempt(ctx, snap.expense, actor.UserID, decision, comment, domain.AttemptNotEligible)
		return domain.Resolution{}, fmt.Errorf("%w: user %s on expense %s", apperrors.ErrApproverNotEligible, actor.UserID, expenseID)
	}

	entry := domain.ExpenseApproval{
		ApprovalID: uuid.NewString(),
		ExpenseID:  expenseID,
		ApproverID: actor.UserID,
		Decision:   decision,
		Comment:    comment,
		DecidedAt:  s.now(),
	}
	if _, err := s.approvalRepo.UpsertApproval(ctx, entry); err != nil {
		if errors.Is(err, apperrors.ErrExpenseNotPending) {
			// Another instance resolved the expense between our read and write.
			s.recordAttempt(ctx, snap.expense, actor.UserID, decision, comment, domain.AttemptNotPending)
			return domain.Resolution{}, err
		}
		s.LogError(ctx, err, "Failed to record decision", slog.String("expense_id", expenseID))
		return domain.Resolution{}, fmt.Errorf("failed to record decision on expense %s: %w", expenseID, err)
	}
	s.LogInfo(ctx, "Decision recorded",
		slog.String("expense_id", expenseID),
		slog.String("decision", string(decision)))

	return s.applyResolution(ctx, expenseID, actor.UserID)
}

// applyResolution recomputes the resolution from fresh state and writes a terminal outcome
// through compare-and-set, retrying from a fresh read when another writer got there first.
func (s *expenseService) applyResolution(ctx context.Context, expenseID, actorID string) (domain.Resolution, error) {
	for attempt := 1; attempt <= s.retryLimit; attempt++ {
		snap, err := s.loadSnapshot(ctx, expenseID)
		if err != nil {
			return domain.Resolution{}, err
		}
		if stored, ok := snap.expense.StoredResolution(); ok {
			return stored, nil
		}
		if snap.expense.Status != domain.StatusPendingApproval {
			return domain.Resolution{}, fmt.Errorf("%w: expense %s is %s", apperrors.ErrExpenseNotPending, expenseID, snap.expense.Status)
		}

		res, err := approval.Resolve(snap.input())
		if err != nil {
			return domain.Resolution{}, err
		}
		if !res.IsTerminal() {
			return res, nil
		}

		transition := domain.StatusTransition{
			ExpenseID:       expenseID,
			From:            domain.StatusPendingApproval,
			To:              res.ExpenseStatus(),
			ExpectedVersion: snap.expense.Version,
			ActorID:         actorID,
			At:              s.now(),
		}
		if res.Kind() == domain.ResolutionRejected {
			by := res.RejectedBy()
			transition.ResolvedBy = &by
		}

		ok, err := s.expenseRepo.CompareAndSetExpenseStatus(ctx, transition)
		if err != nil {
			s.LogError(ctx, err, "Failed to apply resolution", slog.String("expense_id", expenseID))
			return domain.Resolution{}, fmt.Errorf("failed to apply resolution to expense %s: %w", expenseID, err)
		}
		if ok {
			s.LogInfo(ctx, "Expense resolved",
				slog.String("expense_id", expenseID),
				slog.String("status", string(transition.To)),
				slog.String("rejected_by", res.RejectedBy()))
			return res, nil
		}
		s.LogWarn(ctx, "Lost compare-and-set on expense status, retrying",
			slog.String("expense_id", expenseID),
			slog.Int("attempt", attempt),
			slog.Int64("expected_version", snap.expense.Version))
	}
	return domain.Resolution{}, fmt.Errorf("%w: expense %s after %d attempts", apperrors.ErrConcurrentUpdate, expenseID, s.retryLimit)
}

// recordAttempt writes a refused decision to the audit trail. Failures are logged, not returned:
// the caller already has a more relevant error to report.
func (s *expenseService) recordAttempt(ctx context.Context, expense domain.Expense, approverID string, decision domain.Decision, comment *string, reason domain.AttemptReason) {
	attempt := domain.DecisionAttempt{
		AttemptID:     uuid.NewString(),
		ExpenseID:     expense.ExpenseID,
		ApproverID:    approverID,
		Decision:      decision,
		Comment:       comment,
		Reason:        reason,
		ExpenseStatus: expense.Status,
		AttemptedAt:   s.now(),
	}
	if err := s.approvalRepo.SaveDecisionAttempt(ctx, attempt); err != nil {
		s.LogError(ctx, err, "Failed to record refused decision attempt",
			slog.String("expense_id", expense.ExpenseID),
			slog.String("reason", string(reason)))
		return
	}
	s.LogWarn(ctx, "Decision attempt refused",
		slog.String("expense_id", expense.ExpenseID),
		slog.String("approver_id", approverID),
		slog.String("reason", string(reason)))
}

func (s *expenseService) CurrentResolution(ctx context.Context, expenseID string, actor domain.Principal) (domain.Resolution, error) {
	snap, err := s.loadSnapshot(ctx, expenseID)
	if err != nil {
		return domain.Resolution{}, err
	}
	if err := s.authorizeView(ctx, snap, actor); err != nil {
		return domain.Resolution{}, err
	}
	if stored, ok := snap.expense.StoredResolution(); ok {
		return stored, nil
	}
	if snap.expense.Status == domain.StatusDraft {
		return domain.Resolution{}, fmt.Errorf("%w: expense %s has not been submitted", apperrors.ErrExpenseNotPending, expenseID)
	}
	res, err := approval.Resolve(snap.input())
	if err != nil || !res.IsTerminal() {
		return res, err
	}
	return s.settle(ctx, expenseID, actor.UserID, res), nil
}

// settle writes a terminal outcome that the ledger reached but the status never caught up with.
// Failing to write is logged only; computed is still the correct answer for the caller.
func (s *expenseService) settle(ctx context.Context, expenseID, actorID string, computed domain.Resolution) domain.Resolution {
	unlock := s.locks.Lock(expenseID)
	defer unlock()

	applied, err := s.applyResolution(ctx, expenseID, actorID)
	if err != nil {
		s.LogWarn(ctx, "Could not settle resolved expense",
			slog.String("expense_id", expenseID),
			slog.String("error", err.Error()))
		return computed
	}
	s.LogInfo(ctx, "Settled expense whose status lagged its ledger",
		slog.String("expense_id", expenseID),
		slog.String("outcome", string(applied.Kind())))
	return applied
}

func (s *expenseService) ListApprovals(ctx context.Context, expenseID string, actor domain.Principal) ([]domain.ExpenseApproval, error) {
	snap, err := s.loadSnapshot(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeView(ctx, snap, actor); err != nil {
		return nil, err
	}
	return snap.ledger, nil
}

func (s *expenseService) ListPendingForApprover(ctx context.Context, actor domain.Principal) ([]portssvc.PendingExpense, error) {
	expenses, err := s.expenseRepo.ListExpensesByStatus(ctx, actor.CompanyID, domain.StatusPendingApproval, defaultInboxScanLimit)
	if err != nil {
		s.LogError(ctx, err, "Failed to list pending expenses", slog.String("company_id", actor.CompanyID))
		return nil, fmt.Errorf("failed to list pending expenses: %w", err)
	}

	found := make([]*portssvc.PendingExpense, len(expenses))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.inboxConcurrency)
	for i, expense := range expenses {
		g.Go(func() error {
			snap, err := s.loadSnapshotFor(gctx, expense)
			if err != nil {
				return err
			}
			ev, err := approval.Evaluate(snap.input())
			if err != nil {
				if errors.Is(err, apperrors.ErrWorkflowMisconfigured) {
					s.LogWarn(gctx, "Skipping expense with misconfigured workflow", slog.String("expense_id", expense.ExpenseID))
					return nil
				}
				return err
			}
			if ev.IsTerminal() {
				s.settle(gctx, expense.ExpenseID, actor.UserID, ev.Resolution)
				return nil
			}
			if ev.CanAct(actor.UserID) {
				found[i] = &portssvc.PendingExpense{Expense: expense, Resolution: ev.Resolution}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Failed to evaluate approver inbox", slog.String("approver_id", actor.UserID))
		return nil, err
	}

	inbox := make([]portssvc.PendingExpense, 0, len(found))
	for _, p := range found {
		if p != nil {
			inbox = append(inbox, *p)
		}
	}
	return inbox, nil
}
