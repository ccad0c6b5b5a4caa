package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/expense_approval_app/internal/apperrors"
	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	portssvc "github.com/SscSPs/expense_approval_app/internal/core/ports/services"
	"github.com/SscSPs/expense_approval_app/internal/core/services"
	"github.com/SscSPs/expense_approval_app/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// --- Mock repositories (based on workflow and hierarchy service usage) ---

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindDirectReports(ctx context.Context, managerID string) ([]domain.User, error) {
	args := m.Called(ctx, managerID)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type MockWorkflowRepository struct {
	mock.Mock
}

func (m *MockWorkflowRepository) FindWorkflowByID(ctx context.Context, workflowID string) (*domain.ApprovalWorkflow, error) {
	args := m.Called(ctx, workflowID)
	var wf *domain.ApprovalWorkflow
	if args.Get(0) != nil {
		wf = args.Get(0).(*domain.ApprovalWorkflow)
	}
	return wf, args.Error(1)
}

func (m *MockWorkflowRepository) ListWorkflowsByCompany(ctx context.Context, companyID string) ([]domain.ApprovalWorkflow, error) {
	args := m.Called(ctx, companyID)
	var wfs []domain.ApprovalWorkflow
	if args.Get(0) != nil {
		wfs = args.Get(0).([]domain.ApprovalWorkflow)
	}
	return wfs, args.Error(1)
}

func (m *MockWorkflowRepository) SaveWorkflow(ctx context.Context, wf domain.ApprovalWorkflow) error {
	args := m.Called(ctx, wf)
	return args.Error(0)
}

// --- Test Suite Setup ---

type WorkflowServiceTestSuite struct {
	suite.Suite
	mockWorkflowRepo *MockWorkflowRepository
	mockUserRepo     *MockUserRepository
	service          portssvc.WorkflowSvcFacade
	ctx              context.Context
	admin            domain.Principal
}

func (s *WorkflowServiceTestSuite) SetupTest() {
	s.mockWorkflowRepo = new(MockWorkflowRepository)
	s.mockUserRepo = new(MockUserRepository)
	s.service = services.NewWorkflowService(s.mockWorkflowRepo, s.mockUserRepo)
	s.ctx = context.Background()
	s.admin = domain.Principal{UserID: "admin-1", CompanyID: "company-1", Role: domain.RoleAdmin}
}

func TestWorkflowServiceTestSuite(t *testing.T) {
	suite.Run(t, new(WorkflowServiceTestSuite))
}

func (s *WorkflowServiceTestSuite) member(id, companyID string) {
	s.mockUserRepo.On("FindUserByID", s.ctx, id).Return(&domain.User{UserID: id, CompanyID: companyID}, nil)
}

func (s *WorkflowServiceTestSuite) TestCreateWorkflow_Success() {
	pct := 60
	req := dto.CreateWorkflowRequest{
		Name: " Travel ",
		Steps: []dto.WorkflowStepRequest{
			{StepNumber: 2, ApproverID: "cfo", IsRequired: true},
			{StepNumber: 1, ApproverID: "finance"},
			{StepNumber: 1, ApproverID: "ops"},
		},
		MinApprovalPercentage: &pct,
	}
	s.member("cfo", "company-1")
	s.member("finance", "company-1")
	s.member("ops", "company-1")
	s.mockWorkflowRepo.On("SaveWorkflow", s.ctx, mock.MatchedBy(func(wf domain.ApprovalWorkflow) bool {
		return wf.Name == "Travel" && wf.CompanyID == "company-1" && len(wf.Steps) == 3
	})).Return(nil).Once()

	wf, err := s.service.CreateWorkflow(s.ctx, req, s.admin)
	s.Require().NoError(err)
	s.True(wf.IsManagerFirstApprover, "manager-first defaults to true")
	s.Equal(1, wf.Steps[0].StepNumber)
	s.Equal(2, wf.Steps[2].StepNumber)
	for _, step := range wf.Steps {
		s.Equal(wf.WorkflowID, step.WorkflowID)
		s.NotEmpty(step.StepID)
	}
	s.Equal("admin-1", wf.CreatedBy)
	s.mockWorkflowRepo.AssertExpectations(s.T())
}

func (s *WorkflowServiceTestSuite) TestCreateWorkflow_ExplicitlyWithoutManager() {
	off := false
	s.mockWorkflowRepo.On("SaveWorkflow", s.ctx, mock.AnythingOfType("domain.ApprovalWorkflow")).Return(nil).Once()

	wf, err := s.service.CreateWorkflow(s.ctx, dto.CreateWorkflowRequest{Name: "Auto", IsManagerFirstApprover: &off}, s.admin)
	s.Require().NoError(err)
	s.False(wf.IsManagerFirstApprover)
	s.Empty(wf.Steps)
}

func (s *WorkflowServiceTestSuite) TestCreateWorkflow_NonAdmin() {
	employee := domain.Principal{UserID: "e-1", CompanyID: "company-1", Role: domain.RoleEmployee}

	_, err := s.service.CreateWorkflow(s.ctx, dto.CreateWorkflowRequest{Name: "X"}, employee)
	s.ErrorIs(err, apperrors.ErrForbidden)
	s.mockWorkflowRepo.AssertNotCalled(s.T(), "SaveWorkflow", mock.Anything, mock.Anything)
}

func (s *WorkflowServiceTestSuite) TestCreateWorkflow_Misconfigured() {
	pct := 101
	tests := []struct {
		name string
		req  dto.CreateWorkflowRequest
	}{
		{name: "percentage out of range", req: dto.CreateWorkflowRequest{Name: "P", MinApprovalPercentage: &pct}},
		{name: "duplicate approver", req: dto.CreateWorkflowRequest{Name: "D", Steps: []dto.WorkflowStepRequest{
			{StepNumber: 1, ApproverID: "finance"}, {StepNumber: 2, ApproverID: "finance"},
		}}},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.service.CreateWorkflow(s.ctx, tt.req, s.admin)
			s.ErrorIs(err, apperrors.ErrValidation)
			s.ErrorIs(err, apperrors.ErrWorkflowMisconfigured)
		})
	}
	s.mockWorkflowRepo.AssertNotCalled(s.T(), "SaveWorkflow", mock.Anything, mock.Anything)
}

func (s *WorkflowServiceTestSuite) TestCreateWorkflow_ApproverFromAnotherCompany() {
	s.member("stranger", "company-2")

	_, err := s.service.CreateWorkflow(s.ctx, dto.CreateWorkflowRequest{
		Name:  "X",
		Steps: []dto.WorkflowStepRequest{{StepNumber: 1, ApproverID: "stranger", IsRequired: true}},
	}, s.admin)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockWorkflowRepo.AssertNotCalled(s.T(), "SaveWorkflow", mock.Anything, mock.Anything)
}

func (s *WorkflowServiceTestSuite) TestGetWorkflow_OtherCompanyIsNotFound() {
	s.mockWorkflowRepo.On("FindWorkflowByID", s.ctx, "wf-1").
		Return(&domain.ApprovalWorkflow{WorkflowID: "wf-1", CompanyID: "company-2"}, nil).Once()

	_, err := s.service.GetWorkflow(s.ctx, "wf-1", s.admin)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *WorkflowServiceTestSuite) TestListWorkflows() {
	s.mockWorkflowRepo.On("ListWorkflowsByCompany", s.ctx, "company-1").
		Return([]domain.ApprovalWorkflow{{WorkflowID: "wf-1"}, {WorkflowID: "wf-2"}}, nil).Once()

	wfs, err := s.service.ListWorkflows(s.ctx, s.admin)
	s.Require().NoError(err)
	s.Len(wfs, 2)
}

func TestHierarchyService(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	boss := "boss"
	repo.On("FindUserByID", ctx, "emp").Return(&domain.User{UserID: "emp", ManagerID: &boss}, nil)
	repo.On("FindUserByID", ctx, "boss").Return(&domain.User{UserID: "boss"}, nil)
	repo.On("FindDirectReports", ctx, "boss").Return([]domain.User{{UserID: "emp"}}, nil)

	svc := services.NewHierarchyService(repo, 0)

	manager, err := svc.ManagerOf(ctx, "emp")
	require.NoError(t, err)
	require.NotNil(t, manager)
	assert.Equal(t, "boss", manager.UserID)

	root, err := svc.ManagerOf(ctx, "boss")
	require.NoError(t, err)
	assert.Nil(t, root)

	reports, err := svc.DirectReportsOf(ctx, "boss")
	require.NoError(t, err)
	assert.Len(t, reports, 1)

	above, err := svc.IsManagerOf(ctx, "boss", "emp")
	require.NoError(t, err)
	assert.True(t, above)

	above, err = svc.IsManagerOf(ctx, "emp", "boss")
	require.NoError(t, err)
	assert.False(t, above)
}
