package service

import (
	"strconv"

	"selecionei-client/models"
)

// UnlimitedLabel is shown in place of a quota number on unlimited plans
const UnlimitedLabel = "∞"

// View is the render model of the current page. Exactly one page field is
// set when Visible is true.
type View struct {
	Page      models.Page    `json:"page"`
	Visible   bool           `json:"visible"`
	Error     string         `json:"error,omitempty"`
	Notice    string         `json:"notice,omitempty"`
	Home      *HomeView      `json:"home,omitempty"`
	Login     *FormView      `json:"login,omitempty"`
	Register  *FormView      `json:"register,omitempty"`
	Analyze   *AnalyzeView   `json:"analyze,omitempty"`
	Dashboard *DashboardView `json:"dashboard,omitempty"`
}

type PlanOption struct {
	Key         models.PlanKey `json:"key"`
	Name        string         `json:"name"`
	Price       float64        `json:"price"`
	Analyses    string         `json:"analyses"`
	Description string         `json:"description"`
}

type HomeView struct {
	AnalysisCount int          `json:"analysis_count"`
	Plans         []PlanOption `json:"plans"`
	ShowPopup     bool         `json:"show_popup"`
	LoggedIn      bool         `json:"logged_in"`
}

type FormView struct {
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Company string `json:"company,omitempty"`
	Loading bool   `json:"loading"`
}

type AnalyzeView struct {
	Filename       string                 `json:"filename,omitempty"`
	JobDescription string                 `json:"job_description"`
	Status         models.WorkflowStatus  `json:"status"`
	Loading        bool                   `json:"loading"`
	CanSubmit      bool                   `json:"can_submit"`
	Remaining      string                 `json:"remaining,omitempty"`
	Result         *models.AnalysisResult `json:"result,omitempty"`
	ShowSuccess    bool                   `json:"show_success"`
}

type RecentAnalysis struct {
	models.AnalysisSummary
	Band string `json:"band"`
}

type DashboardView struct {
	Name             string                 `json:"name"`
	Email            string                 `json:"email"`
	Company          string                 `json:"company,omitempty"`
	Plan             models.PlanKey         `json:"plan"`
	PlanName         string                 `json:"plan_name,omitempty"`
	AnalysesUsed     int                    `json:"analyses_used"`
	AnalysesLimit    string                 `json:"analyses_limit"`
	Remaining        string                 `json:"remaining"`
	UpgradeSuggested bool                   `json:"upgrade_suggested"`
	RecentAnalyses   []RecentAnalysis       `json:"recent_analyses"`
	Payments         []models.PaymentRecord `json:"payments"`
	Plans            []PlanOption           `json:"plans"`
}

// planOrder is the display order of the catalog
var planOrder = []models.PlanKey{
	models.PlanFree,
	models.PlanStarter,
	models.PlanProfessional,
	models.PlanEnterprise,
}

func planOptions(catalog models.PlanCatalog) []PlanOption {
	options := make([]PlanOption, 0, len(catalog))
	for _, key := range planOrder {
		p, ok := catalog[key]
		if !ok {
			continue
		}
		options = append(options, PlanOption{
			Key:         key,
			Name:        p.Name,
			Price:       p.Price,
			Analyses:    quotaLabel(p.Analyses),
			Description: p.Description,
		})
	}
	return options
}

func quotaLabel(n int) string {
	if n == models.UnlimitedAnalyses {
		return UnlimitedLabel
	}
	return strconv.Itoa(n)
}

func renderHome(s *State) View {
	return View{
		Error:  s.Error,
		Notice: s.Notice,
		Home: &HomeView{
			AnalysisCount: s.AnalysisCount,
			Plans:         planOptions(s.Plans),
			ShowPopup:     s.ShowPopup,
			LoggedIn:      s.Identity != nil,
		},
	}
}

func renderLogin(s *State) View {
	return View{
		Error:  s.Error,
		Notice: s.Notice,
		Login: &FormView{
			Email:   s.Email,
			Loading: s.Loading,
		},
	}
}

func renderRegister(s *State) View {
	return View{
		Error:  s.Error,
		Notice: s.Notice,
		Register: &FormView{
			Email:   s.Email,
			Name:    s.Name,
			Company: s.Company,
			Loading: s.Loading,
		},
	}
}

func renderAnalyze(s *State) View {
	av := &AnalyzeView{
		JobDescription: s.JobDescription,
		Status:         s.Status,
		Loading:        s.Loading,
		CanSubmit:      s.File != nil && !s.Loading,
		Result:         s.Analysis,
		ShowSuccess:    s.ShowSuccess,
	}
	if s.File != nil {
		av.Filename = s.File.Filename
	}
	if s.Identity != nil {
		if s.Identity.Unlimited() {
			av.Remaining = UnlimitedLabel
		} else {
			av.Remaining = strconv.Itoa(s.Identity.Remaining())
		}
	}
	return View{Error: s.Error, Notice: s.Notice, Analyze: av}
}

func renderDashboard(s *State) View {
	u := s.Identity
	dv := &DashboardView{
		Name:           u.Name,
		Email:          u.Email,
		Company:        u.Company,
		Plan:           u.Plan,
		AnalysesUsed:   u.AnalysesUsed,
		AnalysesLimit:  quotaLabel(u.AnalysesLimit),
		RecentAnalyses: []RecentAnalysis{},
		Payments:       s.UserPayments,
		Plans:          planOptions(s.Plans),
	}
	if p, ok := s.Plans[u.Plan]; ok {
		dv.PlanName = p.Name
	}
	if u.Unlimited() {
		dv.Remaining = UnlimitedLabel
	} else {
		dv.Remaining = strconv.Itoa(u.Remaining())
	}
	dv.UpgradeSuggested = u.QuotaExhausted() && u.Plan != models.PlanEnterprise

	for i, summary := range s.UserAnalyses {
		if i == RecentAnalysesShown {
			break
		}
		dv.RecentAnalyses = append(dv.RecentAnalyses, RecentAnalysis{
			AnalysisSummary: summary,
			Band:            summary.ScoreBand(),
		})
	}
	return View{Error: s.Error, Notice: s.Notice, Dashboard: dv}
}
