package service

import (
	"fmt"

	"selecionei-client/models"
)

// pageHandler renders one page. guard decides whether the page has anything
// to show for the current state.
type pageHandler struct {
	guard  func(s *State) bool
	render func(s *State) View
}

var pageViews = map[models.Page]pageHandler{
	models.PageHome:      {guard: always, render: renderHome},
	models.PageLogin:     {guard: always, render: renderLogin},
	models.PageRegister:  {guard: always, render: renderRegister},
	models.PageAnalyze:   {guard: always, render: renderAnalyze},
	models.PageDashboard: {guard: canEnterDashboard, render: renderDashboard},
}

func always(*State) bool { return true }

// canEnterDashboard reports whether the dashboard has an identity to show
func canEnterDashboard(s *State) bool {
	return s.Identity != nil
}

// Navigate switches the current page. Navigating to the page already shown
// has no effect. The dashboard guard applies at render time, not here.
func (a *App) Navigate(page models.Page) error {
	if !page.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownPage, page)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state.Page == page {
		return nil
	}
	prevPage, prevEpoch := a.state.Page, a.sessionEpoch
	a.state.Page = page
	a.afterChangeLocked(prevPage, prevEpoch)
	return nil
}

// View renders the current page. A page whose guard fails renders empty.
func (a *App) View() View {
	a.mu.Lock()
	s := a.state.clone()
	a.mu.Unlock()

	h, ok := pageViews[s.Page]
	if !ok || !h.guard(&s) {
		return View{Page: s.Page}
	}
	v := h.render(&s)
	v.Page = s.Page
	v.Visible = true
	return v
}
