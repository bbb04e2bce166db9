package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"selecionei-client/models"
	"selecionei-client/storage"
)

// SessionKey is the fixed key the identity record is persisted under
const SessionKey = "selecionei_user"

// SessionStore persists the current identity. Absence of the record is the
// canonical logged-out signal.
type SessionStore struct {
	store storage.Storage
}

// NewSessionStore creates a session store on the given backend.
// A nil backend keeps the session in memory only.
func NewSessionStore(store storage.Storage) *SessionStore {
	return &SessionStore{store: store}
}

// Load reads the persisted identity; (nil, nil) when there is none
func (s *SessionStore) Load(ctx context.Context) (*models.Identity, error) {
	if s.store == nil {
		return nil, nil
	}

	data, err := s.store.Get(ctx, SessionKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var identity models.Identity
	if err := json.Unmarshal(data, &identity); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	if identity.ID == 0 {
		log.Printf("Warning: Ignoring saved session without a user id")
		return nil, nil
	}
	return &identity, nil
}

// Save writes the identity, or removes the record when identity is nil
func (s *SessionStore) Save(ctx context.Context, identity *models.Identity) error {
	if s.store == nil {
		return nil
	}

	if identity == nil {
		return s.store.Delete(ctx, SessionKey)
	}

	data, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	return s.store.Put(ctx, SessionKey, data)
}

// Restore loads the persisted identity at startup. Any failure is logged
// and treated as no identity.
func (a *App) Restore(ctx context.Context) {
	identity, err := a.sessions.Load(ctx)
	if err != nil {
		log.Printf("Warning: Ignoring saved session: %v", err)
		return
	}
	if identity == nil {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	prevPage, prevEpoch := a.state.Page, a.sessionEpoch
	a.state.Identity = identity
	a.sessionEpoch++
	a.state.Page = models.PageDashboard
	a.afterChangeLocked(prevPage, prevEpoch)
}

// Login authenticates against POST /login
func (a *App) Login(ctx context.Context, email, password string) error {
	return a.authenticate(ctx, MsgLoginFailed, func(s *State) {
		s.Email = email
		s.Password = password
	}, func(ctx context.Context) (*models.Identity, error) {
		return a.backend.Login(ctx, models.Credentials{Email: email, Password: password})
	})
}

// Register creates an account through POST /register
func (a *App) Register(ctx context.Context, name, email, password, company string) error {
	return a.authenticate(ctx, MsgRegisterFailed, func(s *State) {
		s.Name = name
		s.Email = email
		s.Password = password
		s.Company = company
	}, func(ctx context.Context) (*models.Identity, error) {
		return a.backend.Register(ctx, models.Registration{
			Name:     name,
			Email:    email,
			Password: password,
			Company:  company,
		})
	})
}

// authenticate runs one login or register submission. On success the
// identity, the cleared form and the dashboard page are applied together.
func (a *App) authenticate(
	ctx context.Context,
	fallback string,
	fillForm func(*State),
	call func(context.Context) (*models.Identity, error),
) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ErrClosed
	}
	if a.state.Loading {
		a.mu.Unlock()
		return ErrBusy
	}
	fillForm(&a.state)
	a.state.Loading = true
	a.state.Error = ""
	epoch := a.sessionEpoch
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.state.Loading = false
		a.mu.Unlock()
	}()

	identity, err := call(ctx)

	a.mu.Lock()
	if epoch != a.sessionEpoch || a.closed {
		a.mu.Unlock()
		return ErrSuperseded
	}
	if err != nil {
		a.state.Error = userMessage(err, fallback)
		a.mu.Unlock()
		return err
	}

	prevPage, prevEpoch := a.state.Page, a.sessionEpoch
	a.state.Identity = identity
	a.sessionEpoch++
	a.state.Page = models.PageDashboard
	a.state.Email = ""
	a.state.Password = ""
	a.state.Name = ""
	a.state.Company = ""
	a.afterChangeLocked(prevPage, prevEpoch)
	a.mu.Unlock()

	a.persistIdentity(ctx)
	return nil
}

// Logout discards the identity and every piece of workflow state
func (a *App) Logout() {
	a.mu.Lock()
	prevPage, prevEpoch := a.state.Page, a.sessionEpoch

	a.state.Identity = nil
	a.sessionEpoch++
	a.workflowEpoch++
	a.state.Page = models.PageHome
	a.state.File = nil
	a.state.JobDescription = ""
	a.state.Analysis = nil
	a.state.Error = ""
	a.state.ShowSuccess = false
	a.state.Status = models.WorkflowIdle
	a.state.UserAnalyses = []models.AnalysisSummary{}
	a.state.UserPayments = []models.PaymentRecord{}
	a.afterChangeLocked(prevPage, prevEpoch)
	a.mu.Unlock()

	a.persistIdentity(a.ctx)
}
