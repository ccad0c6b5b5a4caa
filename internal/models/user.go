package models

// Company is a row of the companies table.
type Company struct {
	CompanyID    string `db:"company_id"`
	Name         string `db:"name"`
	BaseCurrency string `db:"base_currency"`
	AuditFields
}

// User is a row of the users table. ManagerID is the nullable self reference of the hierarchy.
type User struct {
	UserID    string  `db:"user_id"`
	CompanyID string  `db:"company_id"`
	Name      string  `db:"name"`
	Email     string  `db:"email"`
	Role      string  `db:"role"`
	ManagerID *string `db:"manager_id"`
	AuditFields
}
