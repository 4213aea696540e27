package domain

// Partner is a capital contributor. Partner CRUD lives outside the ledger
// core; the period close only needs the ledger links carried here.
type Partner struct {
	PartnerID        string `json:"partnerID"` // Primary Key (UUID)
	Name             string `json:"name"`
	PayableAccountID string `json:"payableAccountID"` // FK -> accounts (PARTNER_PAYABLE)
	EquityAccountID  string `json:"equityAccountID"`  // FK -> accounts (PARTNER_EQUITY)
	AuditFields
}
