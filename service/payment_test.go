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
)

func TestCreatePaymentRequiresIdentity(t *testing.T) {
	env := newTestEnv(t)

	err := env.app.CreatePayment(context.Background(), models.PlanStarter)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))

	assert.Equal(t, MsgLoginRequired, env.app.Snapshot().Error)
	assert.Empty(t, env.cues.Opened())
	env.backend.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything)
}

func TestCreatePaymentOpensRedirect(t *testing.T) {
	env := newTestEnv(t)
	env.backend.expectStartup()
	env.backend.expectDashboard(7)
	env.saveIdentity(t, testIdentity(5, 5))
	env.backend.On("CreatePayment", mock.Anything, models.PaymentRequest{
		UserID:  7,
		Plan:    models.PlanProfessional,
		BaseURL: "http://localhost:3000",
	}).Return("https://checkout.example.com/s/abc", nil).Once()
	env.start(t)

	require.NoError(t, env.app.CreatePayment(context.Background(), models.PlanProfessional))
	assert.Equal(t, []string{"https://checkout.example.com/s/abc"}, env.cues.Opened())
	assert.Empty(t, env.app.Snapshot().Error)
}

func TestCreatePaymentFailures(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{name: "server message", err: &api.ResponseError{StatusCode: 400, Message: "Plano inválido"}, message: "Plano inválido"},
		{name: "no message", err: &api.ResponseError{StatusCode: 500}, message: MsgPaymentFailed},
		{name: "transport", err: fmt.Errorf("%w: reset by peer", api.ErrTransport), message: MsgConnection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.backend.expectStartup()
			env.backend.expectDashboard(7)
			env.saveIdentity(t, testIdentity(1, 5))
			env.backend.On("CreatePayment", mock.Anything, mock.Anything).Return("", tt.err).Once()
			env.start(t)

			require.Error(t, env.app.CreatePayment(context.Background(), models.PlanStarter))
			assert.Equal(t, tt.message, env.app.Snapshot().Error)
			assert.Empty(t, env.cues.Opened())

			// A successful retry leaves no stale error behind
			env.backend.On("CreatePayment", mock.Anything, mock.Anything).
				Return("https://checkout.example.com/s/abc", nil).Once()
			require.NoError(t, env.app.CreatePayment(context.Background(), models.PlanStarter))
			assert.Empty(t, env.app.Snapshot().Error)
			assert.Equal(t, []string{"https://checkout.example.com/s/abc"}, env.cues.Opened())
		})
	}
}
