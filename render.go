package gridplan

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/gridplan/planner"
	"github.com/eringen/gridplan/views"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

func (a *App) plannerView(c echo.Context, ws *Workspace) views.PlannerView {
	editing := make(map[planner.Field]bool)
	for _, f := range planner.Fields {
		if ws.Editing(f) {
			editing[f] = true
		}
	}
	return views.PlannerView{
		Title:     a.Config.Name,
		CSRFToken: CsrfToken(c),
		State:     ws.Planner.Snapshot(),
		Editing:   editing,
	}
}

// renderPlanner answers a mutation with the refreshed planner fragment.
func (a *App) renderPlanner(c echo.Context, ws *Workspace) error {
	return Render(c, a.Views.Planner(a.plannerView(c, ws)))
}
