package httpserver

import (
	"log/slog"
	"sort"

	"github.com/labstack/echo/v4"
)

var routeDescriptions = map[string]string{
	"/health/live":     "Liveness probe",
	"/health/ready":    "Readiness probe (store and directory)",
	"/metrics":         "Prometheus metrics",
	"/login":           "Authenticate user and return JWT token",
	"/users/login":     "Authenticate user and return JWT token",
	"/logout":          "Clear the session cookie",
	"/tasks":           "Get all data or filter by taskid",
	"/tasks/failed":    "Get tasks that have no status",
	"/tasks/completed": "Get tasks with status COMPLETED",
	"/tasks/:brand":    "Get tasks for a brand",
}

type RouteInfo struct {
	Method      string
	Path        string
	Description string
}

// RouteTable lists the registered routes once each, sorted by path.
func RouteTable(e *echo.Echo) []RouteInfo {
	seen := make(map[string]bool)
	var out []RouteInfo
	for _, r := range e.Routes() {
		key := r.Method + " " + r.Path
		if seen[key] {
			continue
		}
		seen[key] = true

		desc, ok := routeDescriptions[r.Path]
		if !ok {
			desc = "No description"
		}
		out = append(out, RouteInfo{Method: r.Method, Path: r.Path, Description: desc})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return out
}

func LogRoutes(e *echo.Echo, l *slog.Logger) {
	routes := RouteTable(e)
	l.Info("available_routes", "count", len(routes))
	for _, r := range routes {
		l.Info("route", "method", r.Method, "path", r.Path, "description", r.Description)
	}
}
