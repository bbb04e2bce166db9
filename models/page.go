package models

// Page names one of the views of the application
type Page string

const (
	PageHome      Page = "home"
	PageLogin     Page = "login"
	PageRegister  Page = "register"
	PageAnalyze   Page = "analyze"
	PageDashboard Page = "dashboard"
)

// Pages lists every page in display order
var Pages = []Page{PageHome, PageLogin, PageRegister, PageAnalyze, PageDashboard}

// Valid reports whether p is one of the known pages
func (p Page) Valid() bool {
	for _, known := range Pages {
		if p == known {
			return true
		}
	}
	return false
}
