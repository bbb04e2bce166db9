package service

import (
	"context"
	"log"

	"selecionei-client/models"
)

// SelectFile validates the chosen résumé file. A nil file clears the selection.
func (a *App) SelectFile(file *models.SelectedFile) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if file == nil {
		a.state.File = nil
		a.state.Status = models.WorkflowIdle
		return nil
	}

	a.state.Status = models.WorkflowValidating
	if !file.Accepted() {
		a.state.File = nil
		a.state.Error = MsgUnsupportedFile
		a.state.Status = models.WorkflowRejected
		return &ValidationError{Message: MsgUnsupportedFile}
	}

	a.state.File = file
	a.state.Error = ""
	a.state.Status = models.WorkflowReady
	return nil
}

// SetJobDescription stores the optional job description text
func (a *App) SetJobDescription(text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.JobDescription = text
}

// Analyze submits the selected file. Local validation failures never reach
// the network. Only one submission may be in flight.
func (a *App) Analyze(ctx context.Context) (*models.AnalysisResult, error) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil, ErrClosed
	}
	if a.inFlight || a.state.Loading {
		a.mu.Unlock()
		return nil, ErrBusy
	}
	if a.state.File == nil {
		a.state.Error = MsgMissingFile
		a.mu.Unlock()
		return nil, &ValidationError{Message: MsgMissingFile}
	}
	if a.state.Identity != nil && a.state.Identity.QuotaExhausted() {
		a.state.Error = MsgQuotaReached
		a.mu.Unlock()
		return nil, &ValidationError{Message: MsgQuotaReached}
	}

	sub := models.AnalysisSubmission{
		File:           a.state.File,
		JobDescription: a.state.JobDescription,
	}
	if a.state.Identity != nil {
		id := a.state.Identity.ID
		sub.UserID = &id
	}
	sessionEpoch, workflowEpoch := a.sessionEpoch, a.workflowEpoch

	a.inFlight = true
	a.state.Loading = true
	a.state.Error = ""
	a.state.Status = models.WorkflowSubmitting
	a.mu.Unlock()

	result, err := a.backend.Analyze(ctx, sub)

	a.mu.Lock()
	a.inFlight = false
	a.state.Loading = false

	if sessionEpoch != a.sessionEpoch || workflowEpoch != a.workflowEpoch || a.closed {
		a.mu.Unlock()
		return nil, ErrSuperseded
	}
	if err != nil {
		a.state.Status = models.WorkflowFailed
		a.state.Error = userMessage(err, MsgAnalysisFailed)
		a.mu.Unlock()
		return nil, err
	}

	a.state.Analysis = result
	a.state.Status = models.WorkflowSucceeded
	a.state.ShowSuccess = true
	a.state.AnalysisCount++

	hasIdentity := a.state.Identity != nil
	if hasIdentity {
		a.state.Identity.RecordAnalysis()
		a.lifecycle.Go(func() {
			a.LoadUserAnalyses(a.ctx)
		})
	}
	a.reevaluatePopupLocked(false)
	a.lifecycle.AfterFunc(ScrollDelay, a.scrollToResult)
	a.mu.Unlock()

	if hasIdentity {
		a.persistIdentity(ctx)
	}
	return result, nil
}

func (a *App) scrollToResult() {
	if err := a.scroller.ScrollIntoView(ResultAnchor); err != nil {
		log.Printf("Warning: Failed to scroll to results: %v", err)
	}
}

// Reset returns the analysis workflow to idle. The identity is untouched.
func (a *App) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.workflowEpoch++
	a.state.File = nil
	a.state.JobDescription = ""
	a.state.Analysis = nil
	a.state.Error = ""
	a.state.ShowSuccess = false
	a.state.Status = models.WorkflowIdle
	a.reevaluatePopupLocked(false)
}
