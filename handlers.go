package gridplan

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/gridplan/planner"
)

func (a *App) handleHome(c echo.Context) error {
	ws := workspaceFrom(c)
	return Render(c, a.Views.Page(a.plannerView(c, ws)))
}

func (a *App) handleState(c echo.Context) error {
	return c.JSON(http.StatusOK, workspaceFrom(c).Planner.Snapshot())
}

func (a *App) handleDragStart(c echo.Context) error {
	ws := workspaceFrom(c)
	origin, err := planner.ParseOrigin(c.FormValue("origin"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var item planner.DragItem
	switch origin {
	case planner.OriginPanel:
		var ok bool
		item, ok = ws.Planner.PanelItem(c.FormValue("id"))
		if !ok {
			return echo.NewHTTPError(http.StatusNotFound, "image not in panel")
		}
	case planner.OriginGrid:
		i, err := formIndex(c.FormValue("index"))
		if err != nil {
			return err
		}
		var ok bool
		item, ok, err = ws.Planner.GridItem(i)
		if err != nil {
			return err
		}
		if !ok {
			return echo.NewHTTPError(http.StatusNotFound, "grid slot is empty")
		}
	}
	ws.Planner.DragStart(item)
	return c.NoContent(http.StatusNoContent)
}

func (a *App) handleDrop(c echo.Context) error {
	ws := workspaceFrom(c)
	i, err := formIndex(c.FormValue("index"))
	if err != nil {
		return err
	}
	if err := ws.Planner.Drop(i); err != nil {
		return err
	}
	return a.renderPlanner(c, ws)
}

func (a *App) handleDragEnd(c echo.Context) error {
	workspaceFrom(c).Planner.DragEnd()
	return c.NoContent(http.StatusNoContent)
}

func (a *App) handleGridDelete(c echo.Context) error {
	ws := workspaceFrom(c)
	i, err := formIndex(c.Param("index"))
	if err != nil {
		return err
	}
	if err := ws.Planner.DeleteFromGrid(i); err != nil {
		return err
	}
	return a.renderPlanner(c, ws)
}

func (a *App) handlePanelDelete(c echo.Context) error {
	ws := workspaceFrom(c)
	ws.Planner.DeleteFromPanel(c.Param("id"))
	return a.renderPlanner(c, ws)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var ie *planner.IndexError
	switch {
	case errors.As(err, &ie):
		_ = c.String(http.StatusBadRequest, ie.Error())
		return
	case errors.Is(err, planner.ErrNotDragging):
		_ = c.String(http.StatusConflict, err.Error())
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound && c.Request().Method == http.MethodGet {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.log.Error("server error", slog.String("path", c.Request().URL.Path), slog.Any("error", err))
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
