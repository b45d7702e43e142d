package httpserver

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/taskgate/internal/metrics"
	"github.com/Skotchmaster/taskgate/internal/service"
	"github.com/Skotchmaster/taskgate/pkg/logging"
)

const (
	msgNoData       = "No data found."
	msgQueryFailed  = "Something went wrong!"
	msgBadTaskID    = "taskid must be an integer"
	msgBadBrandPath = "invalid brand"
)

type TasksHTTP struct {
	Svc     *service.TaskService
	Metrics *metrics.Metrics
}

func (h *TasksHTTP) GetTasks(c echo.Context) error {
	raw := c.QueryParam("taskid")
	if raw == "" {
		return h.respond(c, "tasks_all", service.Filter{Kind: service.FilterAll})
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		logging.FromContext(c.Request().Context()).
			Warn("tasks_error", "handler", "tasks_by_id", "status", 400, "taskid", raw)
		h.Metrics.ObserveQuery(service.FilterTaskID.String(), "bad_request")
		return echo.NewHTTPError(http.StatusBadRequest, msgBadTaskID)
	}
	return h.respond(c, "tasks_by_id", service.Filter{Kind: service.FilterTaskID, TaskID: id})
}

func (h *TasksHTTP) GetFailed(c echo.Context) error {
	return h.respond(c, "tasks_failed", service.Filter{Kind: service.FilterFailed})
}

func (h *TasksHTTP) GetCompleted(c echo.Context) error {
	return h.respond(c, "tasks_completed", service.Filter{Kind: service.FilterCompleted})
}

func (h *TasksHTTP) GetByBrand(c echo.Context) error {
	brand, err := pathParam(c, "brand")
	if err != nil {
		h.Metrics.ObserveQuery(service.FilterBrand.String(), "bad_request")
		return echo.NewHTTPError(http.StatusBadRequest, msgBadBrandPath)
	}
	return h.respond(c, "tasks_by_brand", service.Filter{Kind: service.FilterBrand, Brand: brand})
}

// pathParam returns a path parameter decoded exactly once. echo routes on
// URL.RawPath when the request has one, leaving its params escaped; otherwise
// they come from the already decoded URL.Path.
func pathParam(c echo.Context, name string) (string, error) {
	v := c.Param(name)
	if c.Request().URL.RawPath == "" {
		return v, nil
	}
	return url.PathUnescape(v)
}

func (h *TasksHTTP) respond(c echo.Context, handler string, f service.Filter) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", handler)

	rows, err := h.Svc.Query(ctx, f)
	switch {
	case errors.Is(err, service.ErrNoData):
		h.Metrics.ObserveQuery(f.Kind.String(), "not_found")
		return echo.NewHTTPError(http.StatusNotFound, msgNoData)
	case errors.Is(err, service.ErrValidation):
		h.Metrics.ObserveQuery(f.Kind.String(), "bad_request")
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case err != nil:
		l.Error("tasks_error", "status", 500, "error", err)
		h.Metrics.ObserveQuery(f.Kind.String(), "error")
		return echo.NewHTTPError(http.StatusInternalServerError, msgQueryFailed)
	}

	h.Metrics.ObserveQuery(f.Kind.String(), "ok")
	return c.JSON(http.StatusOK, rows)
}
