package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"selecionei-client/models"
	"selecionei-client/storage"
)

// manualClock fires timers only when the test advances it
type manualClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer
}

type manualTimer struct {
	clock   *manualClock
	at      time.Time
	seq     int
	f       func()
	stopped bool
	fired   bool
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, at: c.now.Add(d), seq: len(c.timers), f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward, running every timer that comes due in order
func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var due []*manualTimer
		for _, t := range c.timers {
			if !t.stopped && !t.fired && !t.at.After(target) {
				due = append(due, t)
			}
		}
		if len(due) == 0 {
			c.now = target
			c.mu.Unlock()
			return
		}
		sort.Slice(due, func(i, j int) bool {
			if due[i].at.Equal(due[j].at) {
				return due[i].seq < due[j].seq
			}
			return due[i].at.Before(due[j].at)
		})
		next := due[0]
		next.fired = true
		c.now = next.at
		c.mu.Unlock()

		next.f()
	}
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) Plans(ctx context.Context) (models.PlanCatalog, error) {
	args := m.Called(ctx)
	catalog, _ := args.Get(0).(models.PlanCatalog)
	return catalog, args.Error(1)
}

func (m *mockBackend) Stats(ctx context.Context) (*models.PlatformStats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*models.PlatformStats)
	return stats, args.Error(1)
}

func (m *mockBackend) Login(ctx context.Context, creds models.Credentials) (*models.Identity, error) {
	args := m.Called(ctx, creds)
	identity, _ := args.Get(0).(*models.Identity)
	return identity, args.Error(1)
}

func (m *mockBackend) Register(ctx context.Context, reg models.Registration) (*models.Identity, error) {
	args := m.Called(ctx, reg)
	identity, _ := args.Get(0).(*models.Identity)
	return identity, args.Error(1)
}

func (m *mockBackend) Analyze(ctx context.Context, sub models.AnalysisSubmission) (*models.AnalysisResult, error) {
	args := m.Called(ctx, sub)
	result, _ := args.Get(0).(*models.AnalysisResult)
	return result, args.Error(1)
}

func (m *mockBackend) UserAnalyses(ctx context.Context, userID int64) ([]models.AnalysisSummary, error) {
	args := m.Called(ctx, userID)
	analyses, _ := args.Get(0).([]models.AnalysisSummary)
	return analyses, args.Error(1)
}

func (m *mockBackend) UserPayments(ctx context.Context, userID int64) ([]models.PaymentRecord, error) {
	args := m.Called(ctx, userID)
	payments, _ := args.Get(0).([]models.PaymentRecord)
	return payments, args.Error(1)
}

func (m *mockBackend) CreatePayment(ctx context.Context, req models.PaymentRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// expectStartup registers the background calls Start makes
func (m *mockBackend) expectStartup() {
	m.On("Plans", mock.Anything).Return(testCatalog(), nil).Maybe()
	m.On("Stats", mock.Anything).Return(&models.PlatformStats{TotalAnalyses: 100}, nil).Maybe()
}

// expectDashboard registers the history calls made when the dashboard opens
func (m *mockBackend) expectDashboard(userID int64) {
	m.On("UserAnalyses", mock.Anything, userID).Return([]models.AnalysisSummary{}, nil).Maybe()
	m.On("UserPayments", mock.Anything, userID).Return([]models.PaymentRecord{}, nil).Maybe()
}

// recorder captures view cues
type recorder struct {
	mu      sync.Mutex
	opened  []string
	scrolls []string
	err     error
}

func (r *recorder) Open(url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opened = append(r.opened, url)
	return r.err
}

func (r *recorder) ScrollIntoView(anchor string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scrolls = append(r.scrolls, anchor)
	return r.err
}

func (r *recorder) Opened() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.opened...)
}

func (r *recorder) Scrolls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.scrolls...)
}

type testEnv struct {
	app      *App
	backend  *mockBackend
	clock    *manualClock
	cues     *recorder
	sessions *SessionStore
	store    storage.Storage
}

func newTestEnv(t *testing.T, opts ...AppOption) *testEnv {
	t.Helper()

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	env := &testEnv{
		backend:  &mockBackend{},
		clock:    newManualClock(),
		cues:     &recorder{},
		sessions: NewSessionStore(store),
		store:    store,
	}
	base := []AppOption{
		WithBackend(env.backend),
		WithClock(env.clock),
		WithSessionStore(env.sessions),
		WithOpener(env.cues),
		WithScroller(env.cues),
		WithBaseURL("http://localhost:3000"),
		WithRand(func(int) int { return 1 }),
	}
	env.app = NewApp(append(base, opts...)...)
	t.Cleanup(env.app.Close)
	return env
}

// saveIdentity persists an identity as a previous session would have
func (e *testEnv) saveIdentity(t *testing.T, identity *models.Identity) {
	t.Helper()
	require.NoError(t, e.sessions.Save(context.Background(), identity))
}

func (e *testEnv) start(t *testing.T) {
	t.Helper()
	require.NoError(t, e.app.Start(context.Background()))
	e.app.Wait()
}

func testCatalog() models.PlanCatalog {
	return models.PlanCatalog{
		models.PlanFree:       {Name: "Gratuito", Price: 0, Analyses: 5, Description: "Para testar"},
		models.PlanStarter:    {Name: "Starter", Price: 49.9, Analyses: 50, Description: "Para pequenas empresas"},
		models.PlanEnterprise: {Name: "Enterprise", Price: 299.9, Analyses: models.UnlimitedAnalyses, Description: "Sem limites"},
	}
}

func testIdentity(used, limit int) *models.Identity {
	return &models.Identity{
		ID:            7,
		Name:          "Ana Souza",
		Email:         "ana@empresa.com.br",
		Company:       "Empresa",
		Plan:          models.PlanFree,
		AnalysesUsed:  used,
		AnalysesLimit: limit,
	}
}

func textResume() *models.SelectedFile {
	return models.NewSelectedFile("cv.txt", "text/plain", []byte("Desenvolvedora Go, 6 anos"))
}

func testResult() *models.AnalysisResult {
	return &models.AnalysisResult{
		OverallScore:    87,
		ExperienceYears: 6,
		SeniorityLevel:  "Sênior",
		Strengths:       []string{"Go"},
		Recommendation:  "Contratar",
	}
}
