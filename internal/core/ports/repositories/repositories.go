package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// Both the postgres and the in-memory backends build one.
type RepositoryProvider struct {
	CompanyRepo  CompanyRepositoryFacade
	UserRepo     UserRepositoryFacade
	WorkflowRepo WorkflowRepositoryFacade
	ExpenseRepo  ExpenseRepositoryFacade
	ApprovalRepo ApprovalRepositoryFacade
}
