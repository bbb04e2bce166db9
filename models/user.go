package models

// UnlimitedAnalyses is the analyses_limit value the backend uses for plans without a quota
const UnlimitedAnalyses = 999999

// PlanKey identifies a subscription plan
type PlanKey string

const (
	PlanFree         PlanKey = "free"
	PlanStarter      PlanKey = "starter"
	PlanProfessional PlanKey = "professional"
	PlanEnterprise   PlanKey = "enterprise"
)

// Identity represents the logged-in user as returned by the account service
type Identity struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	Company           string     `json:"company"`
	Plan              PlanKey    `json:"plan"`
	AnalysesUsed      int        `json:"analyses_used"`
	AnalysesLimit     int        `json:"analyses_limit"`
	RemainingAnalyses *int       `json:"remaining_analyses,omitempty"`
	CreatedAt         *Timestamp `json:"created_at,omitempty"`
	LastLogin         *Timestamp `json:"last_login,omitempty"`
	IsActive          *bool      `json:"is_active,omitempty"`
}

// Unlimited reports whether the identity's plan has no analysis quota
func (u *Identity) Unlimited() bool {
	return u.AnalysesLimit == UnlimitedAnalyses
}

// QuotaExhausted reports whether the identity has used every analysis its plan allows
func (u *Identity) QuotaExhausted() bool {
	if u.Unlimited() {
		return false
	}
	return u.AnalysesUsed >= u.AnalysesLimit
}

// Remaining returns the analyses left on the plan, or -1 when unlimited
func (u *Identity) Remaining() int {
	if u.Unlimited() {
		return -1
	}
	if left := u.AnalysesLimit - u.AnalysesUsed; left > 0 {
		return left
	}
	return 0
}

// RecordAnalysis counts one more analysis against the plan
func (u *Identity) RecordAnalysis() {
	u.AnalysesUsed++
	if u.RemainingAnalyses != nil && *u.RemainingAnalyses > 0 {
		left := *u.RemainingAnalyses - 1
		u.RemainingAnalyses = &left
	}
}

// Clone returns a deep copy so callers cannot mutate controller state
func (u *Identity) Clone() *Identity {
	if u == nil {
		return nil
	}
	c := *u
	if u.RemainingAnalyses != nil {
		v := *u.RemainingAnalyses
		c.RemainingAnalyses = &v
	}
	if u.CreatedAt != nil {
		v := *u.CreatedAt
		c.CreatedAt = &v
	}
	if u.LastLogin != nil {
		v := *u.LastLogin
		c.LastLogin = &v
	}
	if u.IsActive != nil {
		v := *u.IsActive
		c.IsActive = &v
	}
	return &c
}

// Credentials holds the login form fields
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration holds the register form fields
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Company  string `json:"company"`
}
