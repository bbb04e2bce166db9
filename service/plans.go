package service

import (
	"context"
	"log"
)

// FetchPlans loads the plan catalog. On failure the catalog stays empty.
func (a *App) FetchPlans(ctx context.Context) {
	plans, err := a.backend.Plans(ctx)
	if err != nil {
		log.Printf("Warning: Failed to load plans: %v", err)
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	for key, plan := range plans {
		a.state.Plans[key] = plan
	}
}
