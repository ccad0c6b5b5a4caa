// Package approval computes the resolution of an expense from its workflow rules,
// the employee's place in the hierarchy and the decisions recorded so far.
//
// Everything here is a pure function of its input; persistence and locking live in the services.
package approval

import (
	"fmt"

	"github.com/SscSPs/expense_approval_app/internal/apperrors"
	"github.com/SscSPs/expense_approval_app/internal/core/domain"
)

// Hierarchy is the one-hop manager lookup the engine needs.
type Hierarchy interface {
	ManagerOf(userID string) (*domain.User, bool)
}

// Input is everything a resolution depends on.
type Input struct {
	Expense   domain.Expense
	Workflow  domain.ApprovalWorkflow
	Ledger    []domain.ExpenseApproval
	Hierarchy Hierarchy
}

// Evaluation is a resolution plus the users allowed to record a decision right now.
// Actors is a superset of the pending approvers: it also holds the special approver and
// members of the open stage or threshold pool who may correct an earlier decision.
type Evaluation struct {
	domain.Resolution
	Actors []string
}

// CanAct reports whether userID may record a decision in the evaluated state.
func (e Evaluation) CanAct(userID string) bool {
	for _, id := range e.Actors {
		if id == userID {
			return true
		}
	}
	return false
}

type gateMode int

const (
	gateInactive gateMode = iota
	// gateOptional: the manager is a root outside the configured steps. Does not block, rejection still counts.
	gateOptional
	gateRequired
)

// Resolve returns just the resolution of Evaluate.
func Resolve(in Input) (domain.Resolution, error) {
	ev, err := Evaluate(in)
	if err != nil {
		return domain.Resolution{}, err
	}
	return ev.Resolution, nil
}

// Evaluate applies, in order: manager gate rejection, special approver override,
// manager gate, required stages and finally the approval threshold.
func Evaluate(in Input) (Evaluation, error) {
	wf := in.Workflow
	if err := wf.Validate(); err != nil {
		return Evaluation{}, err
	}
	if in.Expense.WorkflowID != "" && wf.WorkflowID != "" && in.Expense.WorkflowID != wf.WorkflowID {
		return Evaluation{}, fmt.Errorf("%w: expense %s is bound to workflow %s, got %s",
			apperrors.ErrWorkflowMisconfigured, in.Expense.ExpenseID, in.Expense.WorkflowID, wf.WorkflowID)
	}

	decisions := latestDecisions(in.Ledger)

	var special string
	if wf.HasSpecialApprover() {
		special = *wf.SpecialApproverID
	}

	mode, manager := managerGate(in)

	// Manager rejection dominates everything, including the special approver.
	if mode != gateInactive {
		if d, ok := decisions[manager.UserID]; ok && d.Decision == domain.DecisionRejected {
			return Evaluation{Resolution: domain.Rejected(manager.UserID)}, nil
		}
	}

	if special != "" {
		if d, ok := decisions[special]; ok {
			if d.Decision == domain.DecisionApproved {
				return Evaluation{Resolution: domain.Approved()}, nil
			}
			return Evaluation{Resolution: domain.Rejected(special)}, nil
		}
	}

	actors := newActorSet()
	if mode == gateOptional {
		actors.add(manager.UserID)
	}

	if mode == gateRequired {
		if _, decided := decisions[manager.UserID]; !decided {
			actors.add(manager.UserID)
			actors.add(special)
			return Evaluation{Resolution: domain.Pending(manager.UserID), Actors: actors.list()}, nil
		}
	}

	for _, stage := range wf.Stages() {
		var waiting []string
		for _, step := range stage {
			if !step.IsRequired {
				continue
			}
			d, ok := decisions[step.ApproverID]
			if !ok {
				waiting = append(waiting, step.ApproverID)
				continue
			}
			if d.Decision == domain.DecisionRejected {
				return Evaluation{Resolution: domain.Rejected(step.ApproverID)}, nil
			}
		}
		if len(waiting) > 0 {
			for _, step := range stage {
				actors.add(step.ApproverID)
			}
			actors.add(special)
			return Evaluation{Resolution: domain.Pending(waiting...), Actors: actors.list()}, nil
		}
	}

	if !wf.HasThreshold() {
		return Evaluation{Resolution: domain.Approved()}, nil
	}

	return evaluateThreshold(wf, decisions, actors, special), nil
}

func evaluateThreshold(wf domain.ApprovalWorkflow, decisions map[string]domain.ExpenseApproval, actors *actorSet, special string) Evaluation {
	var pool []domain.WorkflowStep
	for _, step := range wf.SortedSteps() {
		if !step.IsRequired {
			pool = append(pool, step)
		}
	}
	if len(pool) == 0 {
		return Evaluation{Resolution: domain.Approved()}
	}

	var (
		approvals    int
		undecided    []string
		lastRejector *domain.ExpenseApproval
	)
	for _, step := range pool {
		d, ok := decisions[step.ApproverID]
		switch {
		case !ok:
			undecided = append(undecided, step.ApproverID)
		case d.Decision == domain.DecisionApproved:
			approvals++
		default:
			if lastRejector == nil || !d.DecidedAt.Before(lastRejector.DecidedAt) {
				rejector := d
				lastRejector = &rejector
			}
		}
	}

	// Integer comparison of approvals/len(pool) >= pct/100.
	if approvals*100 >= *wf.MinApprovalPercentage*len(pool) {
		return Evaluation{Resolution: domain.Approved()}
	}
	if len(undecided) == 0 {
		return Evaluation{Resolution: domain.Rejected(lastRejector.ApproverID)}
	}

	for _, step := range pool {
		actors.add(step.ApproverID)
	}
	actors.add(special)
	return Evaluation{Resolution: domain.Pending(undecided...), Actors: actors.list()}
}

func managerGate(in Input) (gateMode, *domain.User) {
	if !in.Workflow.IsManagerFirstApprover || in.Hierarchy == nil {
		return gateInactive, nil
	}
	manager, ok := in.Hierarchy.ManagerOf(in.Expense.EmployeeID)
	if !ok || manager == nil {
		return gateInactive, nil
	}
	if !manager.HasManager() && !in.Workflow.HasStepApprover(manager.UserID) {
		return gateOptional, manager
	}
	return gateRequired, manager
}

// latestDecisions keeps the most recent entry per approver. Storage already enforces
// one entry per (expense, approver); this only matters for hand-built ledgers.
func latestDecisions(ledger []domain.ExpenseApproval) map[string]domain.ExpenseApproval {
	latest := make(map[string]domain.ExpenseApproval, len(ledger))
	for _, entry := range ledger {
		if !entry.Decision.IsValid() {
			continue
		}
		if prev, ok := latest[entry.ApproverID]; ok && entry.DecidedAt.Before(prev.DecidedAt) {
			continue
		}
		latest[entry.ApproverID] = entry
	}
	return latest
}

type actorSet struct {
	seen  map[string]bool
	order []string
}

func newActorSet() *actorSet {
	return &actorSet{seen: make(map[string]bool)}
}

func (s *actorSet) add(id string) {
	if id == "" || s.seen[id] {
		return
	}
	s.seen[id] = true
	s.order = append(s.order, id)
}

func (s *actorSet) list() []string {
	return s.order
}
