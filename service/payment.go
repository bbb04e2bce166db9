package service

import (
	"context"
	"log"

	"selecionei-client/models"
)

// CreatePayment requests a checkout for the given plan and opens the returned
// redirect in a new browsing context. Requires an identity.
func (a *App) CreatePayment(ctx context.Context, plan models.PlanKey) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ErrClosed
	}
	if a.state.Identity == nil {
		a.state.Error = MsgLoginRequired
		a.mu.Unlock()
		return &ValidationError{Message: MsgLoginRequired}
	}
	a.state.Error = ""
	req := models.PaymentRequest{
		UserID:  a.state.Identity.ID,
		Plan:    plan,
		BaseURL: a.baseURL,
	}
	epoch := a.sessionEpoch
	a.mu.Unlock()

	redirectURL, err := a.backend.CreatePayment(ctx, req)

	a.mu.Lock()
	if epoch != a.sessionEpoch || a.closed {
		a.mu.Unlock()
		return ErrSuperseded
	}
	if err != nil {
		a.state.Error = userMessage(err, MsgPaymentFailed)
		a.mu.Unlock()
		return err
	}
	a.mu.Unlock()

	if err := a.opener.Open(redirectURL); err != nil {
		log.Printf("Warning: Failed to open payment page for user %d: %v", req.UserID, err)
		return err
	}
	return nil
}
