// Package service holds the client-side controller: one application state
// object and the components that read and write it.
package service

import (
	"context"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"selecionei-client/api"
	"selecionei-client/models"
)

const (
	PopupDelay          = 25 * time.Second
	CounterPeriod       = 45 * time.Second
	ScrollDelay         = 500 * time.Millisecond
	ResultAnchor        = "resultado"
	InitialAnalysisSeed = 4247
	RecentAnalysesShown = 5
)

// Backend is the set of HTTP endpoints the controller depends on
type Backend interface {
	Plans(ctx context.Context) (models.PlanCatalog, error)
	Stats(ctx context.Context) (*models.PlatformStats, error)
	Login(ctx context.Context, creds models.Credentials) (*models.Identity, error)
	Register(ctx context.Context, reg models.Registration) (*models.Identity, error)
	Analyze(ctx context.Context, sub models.AnalysisSubmission) (*models.AnalysisResult, error)
	UserAnalyses(ctx context.Context, userID int64) ([]models.AnalysisSummary, error)
	UserPayments(ctx context.Context, userID int64) ([]models.PaymentRecord, error)
	CreatePayment(ctx context.Context, req models.PaymentRequest) (string, error)
}

// Opener opens a URL in a new browsing context
type Opener interface {
	Open(url string) error
}

// Scroller brings an anchor of the current view into sight
type Scroller interface {
	ScrollIntoView(anchor string) error
}

type noopCues struct{}

func (noopCues) Open(string) error           { return nil }
func (noopCues) ScrollIntoView(string) error { return nil }

// State is the whole application state. Exactly one App owns it.
type State struct {
	Page           models.Page              `json:"page"`
	Identity       *models.Identity         `json:"user"`
	File           *models.SelectedFile     `json:"file"`
	JobDescription string                   `json:"job_description"`
	Analysis       *models.AnalysisResult   `json:"analysis"`
	Status         models.WorkflowStatus    `json:"status"`
	Loading        bool                     `json:"loading"`
	Error          string                   `json:"error"`
	Notice         string                   `json:"notice"`
	ShowPopup      bool                     `json:"show_popup"`
	ShowSuccess    bool                     `json:"show_success"`
	Email          string                   `json:"email"`
	Password       string                   `json:"-"`
	Name           string                   `json:"name"`
	Company        string                   `json:"company"`
	AnalysisCount  int                      `json:"analysis_count"`
	UserAnalyses   []models.AnalysisSummary `json:"user_analyses"`
	UserPayments   []models.PaymentRecord   `json:"user_payments"`
	Plans          models.PlanCatalog       `json:"plans"`
}

// clone copies everything a caller could otherwise mutate
func (s *State) clone() State {
	c := *s
	c.Identity = s.Identity.Clone()
	if s.File != nil {
		f := *s.File
		c.File = &f
	}
	if s.Analysis != nil {
		a := *s.Analysis
		a.Strengths = append([]string(nil), s.Analysis.Strengths...)
		a.TechnicalSkills = append([]string(nil), s.Analysis.TechnicalSkills...)
		a.InterviewQuestions = append([]string(nil), s.Analysis.InterviewQuestions...)
		c.Analysis = &a
	}
	c.UserAnalyses = append([]models.AnalysisSummary(nil), s.UserAnalyses...)
	c.UserPayments = append([]models.PaymentRecord(nil), s.UserPayments...)
	c.Plans = make(models.PlanCatalog, len(s.Plans))
	for k, v := range s.Plans {
		c.Plans[k] = v
	}
	return c
}

// App is the controller. All state changes go through its methods.
type App struct {
	backend   Backend
	sessions  *SessionStore
	opener    Opener
	scroller  Scroller
	lifecycle *Lifecycle
	baseURL   string
	randInt   func(n int) int

	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	state State

	// sessionEpoch changes whenever the identity is replaced or cleared;
	// workflowEpoch whenever the analysis workflow is reset
	sessionEpoch  uint64
	workflowEpoch uint64
	inFlight      bool

	popupCancel func()
	popupGen    uint64
	popupDone   bool
	popupKey    popupKey

	counterCancel func()
	started       bool
	closed        bool

	persistMu sync.Mutex
}

// AppOption is a functional option for App
type AppOption func(*App)

// WithBackend sets the HTTP backend
func WithBackend(b Backend) AppOption {
	return func(a *App) {
		a.backend = b
	}
}

// WithSessionStore sets the identity persistence
func WithSessionStore(s *SessionStore) AppOption {
	return func(a *App) {
		a.sessions = s
	}
}

// WithOpener sets how payment redirects are opened
func WithOpener(o Opener) AppOption {
	return func(a *App) {
		a.opener = o
	}
}

// WithScroller sets how the results region is brought into view
func WithScroller(s Scroller) AppOption {
	return func(a *App) {
		a.scroller = s
	}
}

// WithClock sets the clock behind every timer
func WithClock(c Clock) AppOption {
	return func(a *App) {
		a.lifecycle = NewLifecycle(c)
	}
}

// WithBaseURL sets the origin sent to the payment service for its return URLs
func WithBaseURL(u string) AppOption {
	return func(a *App) {
		a.baseURL = u
	}
}

// WithRand replaces the random source of the live counter
func WithRand(f func(n int) int) AppOption {
	return func(a *App) {
		a.randInt = f
	}
}

// NewApp creates the controller in its initial state: home page, no identity
func NewApp(opts ...AppOption) *App {
	a := &App{
		opener:   noopCues{},
		scroller: noopCues{},
		randInt:  rand.IntN,
		state: State{
			Page:          models.PageHome,
			Status:        models.WorkflowIdle,
			AnalysisCount: InitialAnalysisSeed,
			UserAnalyses:  []models.AnalysisSummary{},
			UserPayments:  []models.PaymentRecord{},
			Plans:         models.PlanCatalog{},
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.lifecycle == nil {
		a.lifecycle = NewLifecycle(RealClock)
	}
	if a.backend == nil {
		a.backend = api.NewClient(api.DefaultBaseURL)
	}
	if a.sessions == nil {
		a.sessions = NewSessionStore(nil)
	}
	a.ctx, a.cancel = context.WithCancel(context.Background())
	return a
}

// Start restores the saved identity, loads the plan catalog and starts the
// timers. It does not wait for the background fetches.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ErrClosed
	}
	if a.started {
		a.mu.Unlock()
		return nil
	}
	a.started = true
	a.mu.Unlock()

	a.Restore(ctx)

	a.lifecycle.Go(func() {
		a.FetchPlans(a.ctx)
	})
	a.lifecycle.Go(func() {
		a.seedCounter(a.ctx)
	})

	a.mu.Lock()
	a.startCounterLocked()
	a.reevaluatePopupLocked(true)
	a.mu.Unlock()

	return nil
}

// Close cancels every timer and background request and waits for them.
// No callback mutates state after Close returns.
func (a *App) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	a.mu.Unlock()

	a.cancel()
	a.lifecycle.Close()
}

// Wait blocks until background fetches and running timer callbacks finish
func (a *App) Wait() {
	a.lifecycle.Wait()
}

// Snapshot returns a copy of the current state
func (a *App) Snapshot() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.clone()
}

// SetCredentials fills the login/register form fields
func (a *App) SetCredentials(email, password, name, company string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.Email = email
	a.state.Password = password
	a.state.Name = name
	a.state.Company = company
}

// ClearError empties the error slot
func (a *App) ClearError() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.Error = ""
}

// ClearNotice empties the notice slot
func (a *App) ClearNotice() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.Notice = ""
}

// afterChangeLocked runs the reactions that depend on page and identity:
// popup re-evaluation and the dashboard history load
func (a *App) afterChangeLocked(prevPage models.Page, prevEpoch uint64) {
	a.reevaluatePopupLocked(false)

	enteredDashboard := a.state.Page == models.PageDashboard &&
		(prevPage != models.PageDashboard || prevEpoch != a.sessionEpoch)
	if enteredDashboard && a.state.Identity != nil {
		a.scheduleDashboardLoadLocked()
	}
}

func (a *App) scheduleDashboardLoadLocked() {
	if a.closed {
		return
	}
	a.lifecycle.Go(func() {
		a.LoadUserAnalyses(a.ctx)
	})
	a.lifecycle.Go(func() {
		a.LoadUserPayments(a.ctx)
	})
}

func (a *App) persistIdentity(ctx context.Context) {
	a.persistMu.Lock()
	defer a.persistMu.Unlock()

	a.mu.Lock()
	identity := a.state.Identity.Clone()
	a.mu.Unlock()

	if err := a.sessions.Save(ctx, identity); err != nil {
		log.Printf("Warning: Failed to persist session: %v", err)
	}
}
