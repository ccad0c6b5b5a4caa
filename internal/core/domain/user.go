package domain

// UserRole is the coarse role a user holds in their company.
// "Manager" is not a role: any user referenced as another user's manager acts as one.
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleEmployee UserRole = "employee"
)

// IsValid reports whether the role is one of the known roles.
func (r UserRole) IsValid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// User represents a member of a company in the domain.
type User struct {
	UserID    string   `json:"userID"`    // Primary Key (UUID)
	CompanyID string   `json:"companyID"` // FK -> companies.company_id
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Role      UserRole `json:"role"`
	ManagerID *string  `json:"managerID,omitempty"` // Nullable self reference; nil marks a hierarchy root
	AuditFields
}

// HasManager reports whether the user has a manager assigned.
func (u User) HasManager() bool {
	return u.ManagerID != nil && *u.ManagerID != ""
}

// Principal is the already-authenticated caller handed to the services.
type Principal struct {
	UserID    string
	CompanyID string
	Role      UserRole
	ManagerID *string
}

// IsAdmin reports whether the principal holds the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
