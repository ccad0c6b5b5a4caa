package dto

import "github.com/SscSPs/expense_approval_app/internal/core/domain"

// UserResponse is the public view of a company member.
type UserResponse struct {
	UserID    string          `json:"userID"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Role      domain.UserRole `json:"role"`
	ManagerID *string         `json:"managerID,omitempty"`
}

// ToUserResponse converts a domain.User to UserResponse DTO
func ToUserResponse(u domain.User) UserResponse {
	return UserResponse{
		UserID:    u.UserID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		ManagerID: u.ManagerID,
	}
}

// TeamResponse lists the caller's direct reports.
type TeamResponse struct {
	Manager UserResponse   `json:"manager"`
	Reports []UserResponse `json:"reports"`
}

// ToTeamResponse builds the team view.
func ToTeamResponse(manager domain.User, reports []domain.User) TeamResponse {
	res := TeamResponse{Manager: ToUserResponse(manager), Reports: make([]UserResponse, len(reports))}
	for i, r := range reports {
		res.Reports[i] = ToUserResponse(r)
	}
	return res
}
