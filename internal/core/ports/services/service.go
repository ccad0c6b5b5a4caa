package services

// ServiceContainer holds instances of all the application services.
// Handlers only ever see this container.
type ServiceContainer struct {
	Expense   ExpenseSvcFacade
	Workflow  WorkflowSvcFacade
	Hierarchy HierarchySvc
}
