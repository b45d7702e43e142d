package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/taskgate/internal/middleware/auth"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	TasksHandler   *TasksHTTP
	Health         *HealthHTTP
	Guard          *auth.Guard
	LoginLimiter   echo.MiddlewareFunc
	MetricsHandler http.Handler
}

func Register(e *echo.Echo, d *Deps) {
	if e.Validator == nil {
		e.Validator = NewRequestValidator()
	}

	health := d.Health
	if health == nil {
		health = &HealthHTTP{}
	}
	e.GET("/health/live", health.Live)
	e.GET("/health/ready", health.Ready)
	if d.MetricsHandler != nil {
		e.GET("/metrics", echo.WrapHandler(d.MetricsHandler))
	}

	var loginMw []echo.MiddlewareFunc
	if d.LoginLimiter != nil {
		loginMw = append(loginMw, d.LoginLimiter)
	}
	e.POST("/login", d.AuthHandler.Login, loginMw...)
	e.POST("/users/login", d.AuthHandler.Login, loginMw...)
	e.POST("/logout", d.AuthHandler.LogOut)

	// Fixed paths go in before the brand parameter route.
	tasks := e.Group("/tasks")
	tasks.GET("", d.TasksHandler.GetTasks, d.Guard.RequireAuth)
	tasks.GET("/failed", d.TasksHandler.GetFailed, d.Guard.RequireAuth)
	tasks.GET("/completed", d.TasksHandler.GetCompleted, d.Guard.RequireAuth)
	tasks.GET("/:brand", d.TasksHandler.GetByBrand, d.Guard.RequireAuth)
}
