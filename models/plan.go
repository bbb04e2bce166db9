package models

// Plan is one entry of the subscription catalog
type Plan struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Analyses    int     `json:"analyses,omitempty"`
	Description string  `json:"description"`
}

// PlanCatalog maps plan keys to their catalog entries
type PlanCatalog map[PlanKey]Plan

// PaymentRecord is one entry of a user's payment history
type PaymentRecord struct {
	ID            int64      `json:"id"`
	Plan          PlanKey    `json:"plan"`
	Amount        float64    `json:"amount"`
	Currency      string     `json:"currency"`
	Status        string     `json:"status"`
	PaymentMethod *string    `json:"payment_method,omitempty"`
	CreatedAt     *Timestamp `json:"created_at,omitempty"`
}

// PaymentRequest asks the payment service for a checkout redirect
type PaymentRequest struct {
	UserID  int64   `json:"user_id"`
	Plan    PlanKey `json:"plan"`
	BaseURL string  `json:"base_url"`
}

// PlatformStats are the public usage figures shown on the home page
type PlatformStats struct {
	TotalAnalyses    int     `json:"total_analyses"`
	ActiveUsers      int     `json:"active_users"`
	SatisfactionRate float64 `json:"satisfaction_rate"`
	TimeSavedHours   int     `json:"time_saved_hours"`
}
