package dto

// EnrichRequest is the body accepted by POST /enrich. CompanyID is informational only.
type EnrichRequest struct {
	CompanyID string `json:"companyId,omitempty"`
	Website   string `json:"website"`
}
