package gridplan

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/gridplan/views"
)

func (a *App) handleFieldEdit(c echo.Context) error {
	ws := workspaceFrom(c)
	f, err := pathField(c)
	if err != nil {
		return err
	}
	value := ws.BeginEdit(f)
	return Render(c, a.Views.FieldEditor(views.FieldView{Field: f, Value: value}))
}

func (a *App) handleFieldCommit(c echo.Context) error {
	ws := workspaceFrom(c)
	f, err := pathField(c)
	if err != nil {
		return err
	}
	ws.CommitEdit(f, fieldValue(f, c.FormValue("value")))
	return Render(c, a.Views.FieldDisplay(views.FieldView{Field: f, Value: ws.Planner.Profile().Value(f)}))
}

func (a *App) handleFieldCancel(c echo.Context) error {
	ws := workspaceFrom(c)
	f, err := pathField(c)
	if err != nil {
		return err
	}
	value := ws.CancelEdit(f)
	return Render(c, a.Views.FieldDisplay(views.FieldView{Field: f, Value: value}))
}

func (a *App) handleHighlightEdit(c echo.Context) error {
	ws := workspaceFrom(c)
	if _, ok := ws.BeginHighlightEdit(c.Param("id")); !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown highlight")
	}
	return c.NoContent(http.StatusNoContent)
}

func (a *App) handleHighlightName(c echo.Context) error {
	ws := workspaceFrom(c)
	// Unknown ids are ignored.
	ws.CommitHighlightName(c.Param("id"), strings.TrimSpace(c.FormValue("name")))
	return a.renderPlanner(c, ws)
}

func (a *App) handleHighlightCancel(c echo.Context) error {
	ws := workspaceFrom(c)
	ws.CancelHighlightEdit(c.Param("id"))
	return a.renderPlanner(c, ws)
}
