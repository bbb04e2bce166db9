package service

import "selecionei-client/models"

// popupKey is the slice of state the lead-capture timer depends on
type popupKey struct {
	page        models.Page
	epoch       uint64
	hasIdentity bool
	showSuccess bool
	analysis    *models.AnalysisResult
}

func (a *App) currentPopupKeyLocked() popupKey {
	return popupKey{
		page:        a.state.Page,
		epoch:       a.sessionEpoch,
		hasIdentity: a.state.Identity != nil,
		showSuccess: a.state.ShowSuccess,
		analysis:    a.state.Analysis,
	}
}

// reevaluatePopupLocked cancels the pending timer and re-arms it when the
// home page is showing to a visitor without identity. The delay restarts
// from the latest change; it never accumulates.
func (a *App) reevaluatePopupLocked(force bool) {
	if !a.popupAllowedLocked() {
		a.state.ShowPopup = false
	}

	key := a.currentPopupKeyLocked()
	if !force && key == a.popupKey {
		return
	}
	a.popupKey = key

	if a.popupCancel != nil {
		a.popupCancel()
		a.popupCancel = nil
	}

	if !a.started || a.closed || a.popupDone {
		return
	}
	if a.state.Page != models.PageHome || a.state.Identity != nil {
		return
	}

	a.popupGen++
	gen := a.popupGen
	a.popupCancel = a.lifecycle.AfterFunc(PopupDelay, func() {
		a.firePopup(gen)
	})
}

// popupAllowedLocked reports whether the offer may be visible: home page,
// no identity, no result and no success banner
func (a *App) popupAllowedLocked() bool {
	return a.state.Page == models.PageHome &&
		a.state.Identity == nil &&
		!a.state.ShowSuccess &&
		a.state.Analysis == nil
}

func (a *App) firePopup(gen uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if gen != a.popupGen || a.closed || a.popupDone {
		return
	}
	a.popupCancel = nil

	if !a.popupAllowedLocked() {
		return
	}
	a.state.ShowPopup = true
	a.popupDone = true
}

// PopupArmed reports whether the lead-capture timer is pending
func (a *App) PopupArmed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.popupCancel != nil
}

// DismissPopup hides the lead-capture offer for the rest of the session
func (a *App) DismissPopup() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.state.ShowPopup = false
	a.popupDone = true
	if a.popupCancel != nil {
		a.popupCancel()
		a.popupCancel = nil
	}
}

// SubmitLeadEmail closes the offer after the visitor typed an email, clears
// the field and sends them to the register page
func (a *App) SubmitLeadEmail() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.state.ShowPopup = false
	a.popupDone = true
	if a.popupCancel != nil {
		a.popupCancel()
		a.popupCancel = nil
	}
	a.state.Email = ""
	a.state.Notice = MsgLeadThanks

	prevPage, prevEpoch := a.state.Page, a.sessionEpoch
	a.state.Page = models.PageRegister
	a.afterChangeLocked(prevPage, prevEpoch)
}
