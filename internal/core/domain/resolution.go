package domain

// ResolutionKind tags the three possible outcomes of evaluating an expense.
type ResolutionKind string

const (
	ResolutionPending  ResolutionKind = "pending"
	ResolutionApproved ResolutionKind = "approved"
	ResolutionRejected ResolutionKind = "rejected"
)

// Resolution is the computed outcome of applying workflow rules to the ledger.
// Build it with Pending, Approved or Rejected and switch on Kind.
type Resolution struct {
	kind          ResolutionKind
	nextApprovers []string
	rejectedBy    string
}

// Pending names the approvers that may act next, in order.
func Pending(nextApprovers ...string) Resolution {
	next := make([]string, len(nextApprovers))
	copy(next, nextApprovers)
	return Resolution{kind: ResolutionPending, nextApprovers: next}
}

// Approved is the terminal approval outcome.
func Approved() Resolution {
	return Resolution{kind: ResolutionApproved}
}

// Rejected is the terminal rejection outcome caused by approverID.
func Rejected(approverID string) Resolution {
	return Resolution{kind: ResolutionRejected, rejectedBy: approverID}
}

// Kind returns the outcome tag. The zero Resolution has an empty kind.
func (r Resolution) Kind() ResolutionKind {
	return r.kind
}

// NextApprovers returns the approvers eligible to act next. Empty unless pending.
func (r Resolution) NextApprovers() []string {
	next := make([]string, len(r.nextApprovers))
	copy(next, r.nextApprovers)
	return next
}

// RejectedBy returns the approver whose decision rejected the expense. Empty unless rejected.
func (r Resolution) RejectedBy() string {
	return r.rejectedBy
}

// IsTerminal reports whether the outcome is approved or rejected.
func (r Resolution) IsTerminal() bool {
	return r.kind == ResolutionApproved || r.kind == ResolutionRejected
}

// ExpenseStatus maps the outcome onto the expense status it implies.
func (r Resolution) ExpenseStatus() ExpenseStatus {
	switch r.kind {
	case ResolutionApproved:
		return StatusApproved
	case ResolutionRejected:
		return StatusRejected
	default:
		return StatusPendingApproval
	}
}
