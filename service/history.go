package service

import (
	"context"
	"log"

	"selecionei-client/models"
)

// LoadUserAnalyses replaces the dashboard history with the backend's list.
// Without an identity it does nothing. Failures are logged and leave the
// previous list in place.
func (a *App) LoadUserAnalyses(ctx context.Context) {
	userID, epoch, ok := a.currentUser()
	if !ok {
		return
	}

	analyses, err := a.backend.UserAnalyses(ctx, userID)
	if err != nil {
		log.Printf("Warning: Failed to load analyses for user %d: %v", userID, err)
		return
	}
	if analyses == nil {
		analyses = []models.AnalysisSummary{}
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if epoch != a.sessionEpoch || a.closed {
		return
	}
	a.state.UserAnalyses = analyses
}

// LoadUserPayments replaces the dashboard payment list, under the same rules
// as LoadUserAnalyses
func (a *App) LoadUserPayments(ctx context.Context) {
	userID, epoch, ok := a.currentUser()
	if !ok {
		return
	}

	payments, err := a.backend.UserPayments(ctx, userID)
	if err != nil {
		log.Printf("Warning: Failed to load payments for user %d: %v", userID, err)
		return
	}
	if payments == nil {
		payments = []models.PaymentRecord{}
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if epoch != a.sessionEpoch || a.closed {
		return
	}
	a.state.UserPayments = payments
}

func (a *App) currentUser() (id int64, epoch uint64, ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state.Identity == nil {
		return 0, 0, false
	}
	return a.state.Identity.ID, a.sessionEpoch, true
}
