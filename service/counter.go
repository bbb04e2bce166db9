package service

import (
	"context"
	"log"
)

// counterStep is the exclusive upper bound of one tick's increment
const counterStep = 3

// startCounterLocked starts the live counter ticker once
func (a *App) startCounterLocked() {
	if a.counterCancel != nil || a.closed {
		return
	}
	a.counterCancel = a.lifecycle.Every(CounterPeriod, a.tickCounter)
}

func (a *App) tickCounter() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.state.AnalysisCount += a.randInt(counterStep)
}

// seedCounter raises the counter to the platform total when the backend
// reports a larger number
func (a *App) seedCounter(ctx context.Context) {
	stats, err := a.backend.Stats(ctx)
	if err != nil {
		log.Printf("Warning: Failed to load platform stats: %v", err)
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed || stats == nil {
		return
	}
	if stats.TotalAnalyses > a.state.AnalysisCount {
		a.state.AnalysisCount = stats.TotalAnalyses
	}
}
