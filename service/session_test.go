package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"selecionei-client/api"
	"selecionei-client/models"
	"selecionei-client/storage"
)

func TestStartRestoresSavedIdentity(t *testing.T) {
	env := newTestEnv(t)
	env.backend.expectStartup()
	env.backend.On("UserAnalyses", mock.Anything, int64(7)).
		Return([]models.AnalysisSummary{{ID: 1, Filename: "cv.pdf", Score: 90}}, nil).Once()
	env.backend.On("UserPayments", mock.Anything, int64(7)).
		Return([]models.PaymentRecord{{ID: 3, Plan: models.PlanStarter, Amount: 49.9}}, nil).Once()
	env.saveIdentity(t, testIdentity(1, 5))

	env.start(t)

	s := env.app.Snapshot()
	require.NotNil(t, s.Identity)
	assert.Equal(t, int64(7), s.Identity.ID)
	assert.Equal(t, 1, s.Identity.AnalysesUsed)
	assert.Equal(t, 5, s.Identity.AnalysesLimit)
	assert.Equal(t, models.PageDashboard, s.Page)
	assert.Len(t, s.UserAnalyses, 1)
	assert.Len(t, s.UserPayments, 1)
	assert.Len(t, s.Plans, 3)
	env.backend.AssertExpectations(t)
}

func TestStartIgnoresCorruptSession(t *testing.T) {
	env := newTestEnv(t)
	env.backend.expectStartup()
	require.NoError(t, env.store.Put(context.Background(), SessionKey, []byte("{not json")))

	env.start(t)

	s := env.app.Snapshot()
	assert.Nil(t, s.Identity)
	assert.Equal(t, models.PageHome, s.Page)
	env.backend.AssertNotCalled(t, "UserAnalyses", mock.Anything, mock.Anything)
}

func TestStartIgnoresSessionWithoutUserID(t *testing.T) {
	for _, raw := range []string{"null", "{}"} {
		t.Run(raw, func(t *testing.T) {
			env := newTestEnv(t)
			env.backend.expectStartup()
			require.NoError(t, env.store.Put(context.Background(), SessionKey, []byte(raw)))

			identity, err := env.sessions.Load(context.Background())
			require.NoError(t, err)
			assert.Nil(t, identity)

			env.start(t)

			s := env.app.Snapshot()
			assert.Nil(t, s.Identity)
			assert.Equal(t, models.PageHome, s.Page)
			env.backend.AssertNotCalled(t, "UserAnalyses", mock.Anything, mock.Anything)
		})
	}
}

func TestLoginAppliesIdentityInOneTransition(t *testing.T) {
	env := newTestEnv(t)
	env.backend.expectDashboard(7)
	creds := models.Credentials{Email: "ana@empresa.com.br", Password: "segredo"}
	env.backend.On("Login", mock.Anything, creds).
		Run(func(mock.Arguments) {
			s := env.app.Snapshot()
			assert.True(t, s.Loading)
			assert.Nil(t, s.Identity)
			assert.Equal(t, models.PageLogin, s.Page)
		}).
		Return(testIdentity(0, 5), nil).Once()

	require.NoError(t, env.app.Navigate(models.PageLogin))
	require.NoError(t, env.app.Login(context.Background(), creds.Email, creds.Password))
	env.app.Wait()

	s := env.app.Snapshot()
	require.NotNil(t, s.Identity)
	assert.Equal(t, models.PageDashboard, s.Page)
	assert.False(t, s.Loading)
	assert.Empty(t, s.Error)
	assert.Empty(t, s.Email)
	assert.Empty(t, s.Password)

	restored, err := env.sessions.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, restored)
	assert.Equal(t, int64(7), restored.ID)
}

func TestLoginFailures(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{
			name:    "server message",
			err:     &api.ResponseError{StatusCode: 401, Message: "Email ou senha incorretos"},
			message: "Email ou senha incorretos",
		},
		{
			name:    "empty server message",
			err:     &api.ResponseError{StatusCode: 500},
			message: MsgLoginFailed,
		},
		{
			name:    "transport",
			err:     fmt.Errorf("%w: connection refused", api.ErrTransport),
			message: MsgConnection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.backend.On("Login", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			err := env.app.Login(context.Background(), "ana@empresa.com.br", "errada")
			require.Error(t, err)

			s := env.app.Snapshot()
			assert.Equal(t, tt.message, s.Error)
			assert.False(t, s.Loading)
			assert.Nil(t, s.Identity)
			assert.Equal(t, "ana@empresa.com.br", s.Email)
		})
	}
}

func TestLoginRejectsReentry(t *testing.T) {
	env := newTestEnv(t)
	env.backend.expectDashboard(7)
	env.backend.On("Login", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			err := env.app.Login(context.Background(), "outra@empresa.com.br", "x")
			assert.ErrorIs(t, err, ErrBusy)
		}).
		Return(testIdentity(0, 5), nil).Once()

	require.NoError(t, env.app.Login(context.Background(), "ana@empresa.com.br", "segredo"))
	env.app.Wait()
	env.backend.AssertNumberOfCalls(t, "Login", 1)
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)
	env.backend.expectDashboard(7)
	reg := models.Registration{Name: "Ana Souza", Email: "ana@empresa.com.br", Password: "segredo", Company: "Empresa"}
	env.backend.On("Register", mock.Anything, reg).Return(testIdentity(0, 5), nil).Once()

	require.NoError(t, env.app.Register(context.Background(), reg.Name, reg.Email, reg.Password, reg.Company))
	env.app.Wait()

	s := env.app.Snapshot()
	require.NotNil(t, s.Identity)
	assert.Equal(t, models.PageDashboard, s.Page)
	assert.Empty(t, s.Name)
	assert.Empty(t, s.Company)
}

func TestRegisterFailureUsesFallback(t *testing.T) {
	env := newTestEnv(t)
	env.backend.On("Register", mock.Anything, mock.Anything).
		Return(nil, &api.ResponseError{StatusCode: 400}).Once()

	err := env.app.Register(context.Background(), "Ana", "ana@empresa.com.br", "x", "")
	var respErr *api.ResponseError
	require.True(t, errors.As(err, &respErr))
	assert.Equal(t, MsgRegisterFailed, env.app.Snapshot().Error)
}

func TestLogoutClearsEverything(t *testing.T) {
	env := newTestEnv(t)
	env.backend.expectStartup()
	env.backend.On("UserAnalyses", mock.Anything, int64(7)).
		Return([]models.AnalysisSummary{{ID: 1}}, nil).Maybe()
	env.backend.On("UserPayments", mock.Anything, int64(7)).
		Return([]models.PaymentRecord{{ID: 1}}, nil).Maybe()
	env.backend.On("Analyze", mock.Anything, mock.Anything).Return(testResult(), nil).Once()
	env.saveIdentity(t, testIdentity(1, 5))
	env.start(t)

	require.NoError(t, env.app.SelectFile(textResume()))
	env.app.SetJobDescription("Vaga Go")
	_, err := env.app.Analyze(context.Background())
	require.NoError(t, err)
	env.app.Wait()

	env.app.Logout()

	s := env.app.Snapshot()
	assert.Nil(t, s.Identity)
	assert.Equal(t, models.PageHome, s.Page)
	assert.Nil(t, s.File)
	assert.Empty(t, s.JobDescription)
	assert.Nil(t, s.Analysis)
	assert.Empty(t, s.Error)
	assert.False(t, s.ShowSuccess)
	assert.Equal(t, models.WorkflowIdle, s.Status)
	assert.Empty(t, s.UserAnalyses)
	assert.Empty(t, s.UserPayments)

	_, err = env.store.Get(context.Background(), SessionKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLoginDroppedAfterLogout(t *testing.T) {
	env := newTestEnv(t)
	env.backend.On("Login", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { env.app.Logout() }).
		Return(testIdentity(0, 5), nil).Once()

	err := env.app.Login(context.Background(), "ana@empresa.com.br", "segredo")
	require.ErrorIs(t, err, ErrSuperseded)

	s := env.app.Snapshot()
	assert.Nil(t, s.Identity)
	assert.Equal(t, models.PageHome, s.Page)
	assert.False(t, s.Loading)
}

func TestSessionStoreWithoutBackend(t *testing.T) {
	store := NewSessionStore(nil)
	require.NoError(t, store.Save(context.Background(), testIdentity(0, 5)))
	identity, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, identity)
}
