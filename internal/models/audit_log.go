package models

// Audit actions recorded against budget data.
const (
	AuditRegister           = "REGISTER"
	AuditLogin              = "LOGIN"
	AuditCreateBudgetEntry  = "CREATE_BUDGET_ENTRY"
	AuditUpdateBudgetEntry  = "UPDATE_BUDGET_ENTRY"
	AuditDeleteBudgetEntry  = "DELETE_BUDGET_ENTRY"
	AuditMarkEntryPaid      = "MARK_BUDGET_ENTRY_PAID"
	AuditCreatePayPeriod    = "CREATE_PAY_PERIOD"
	AuditUpdatePayPeriod    = "UPDATE_PAY_PERIOD"
	AuditAddNextPayPeriod   = "ADD_NEXT_PAY_PERIOD"
	AuditCascadePayPeriods  = "CASCADE_PAY_PERIODS"
	AuditScheduledCascade   = "SCHEDULED_CASCADE"
	AuditUpdateAdhocSetting = "UPDATE_ADHOC_SETTINGS"
	AuditUpsertDailyBalance = "UPSERT_DAILY_BALANCE"
)

// AuditLog records one mutation of a user's budget data. Changes holds a
// JSON object of the fields involved; ResourceID is empty for actions that
// touch several rows, such as a cascade.
type AuditLog struct {
	Base
	UserID       string `gorm:"type:uuid;not null;index" json:"user_id"`
	Action       string `gorm:"not null" json:"action"`
	ResourceType string `gorm:"not null" json:"resource_type"`
	ResourceID   string `json:"resource_id"`
	IPAddress    string `json:"ip_address"`
	Changes      string `json:"changes,omitempty"`
}
