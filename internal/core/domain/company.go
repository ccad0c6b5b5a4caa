package domain

// Company is the tenant boundary. Users, workflows and expenses never cross companies.
type Company struct {
	CompanyID    string `json:"companyID"`
	Name         string `json:"name"`
	BaseCurrency string `json:"baseCurrency"` // ISO 4217
	AuditFields
}
