package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/taskgate/internal/models"
	"github.com/Skotchmaster/taskgate/pkg/logging"
)

type FilterKind int

const (
	FilterAll FilterKind = iota
	FilterTaskID
	FilterFailed
	FilterCompleted
	FilterBrand
)

func (k FilterKind) String() string {
	switch k {
	case FilterAll:
		return "all"
	case FilterTaskID:
		return "taskid"
	case FilterFailed:
		return "failed"
	case FilterCompleted:
		return "completed"
	case FilterBrand:
		return "brand"
	default:
		return fmt.Sprintf("filter(%d)", int(k))
	}
}

// Filter selects one of the fixed MonitorLog queries. TaskID is read only
// for FilterTaskID and Brand only for FilterBrand.
type Filter struct {
	Kind   FilterKind
	TaskID int64
	Brand  string
}

type TaskRepository interface {
	All(ctx context.Context) ([]models.Record, error)
	ByTaskID(ctx context.Context, taskID int64) ([]models.Record, error)
	WithoutStatus(ctx context.Context) ([]models.Record, error)
	ByStatus(ctx context.Context, status string) ([]models.Record, error)
	ByBrand(ctx context.Context, brand string) ([]models.Record, error)
}

type TaskService struct {
	Repo TaskRepository
}

// Query returns the matching rows in store order. An empty result is
// ErrNoData so callers never have to tell "nothing" from "failed".
func (s *TaskService) Query(ctx context.Context, f Filter) ([]models.Record, error) {
	l := logging.FromContext(ctx).With("svc", "tasks.query", "filter", f.Kind.String())

	var (
		rows []models.Record
		err  error
	)
	switch f.Kind {
	case FilterAll:
		rows, err = s.Repo.All(ctx)
	case FilterTaskID:
		rows, err = s.Repo.ByTaskID(ctx, f.TaskID)
	case FilterFailed:
		rows, err = s.Repo.WithoutStatus(ctx)
	case FilterCompleted:
		rows, err = s.Repo.ByStatus(ctx, models.StatusCompleted)
	case FilterBrand:
		if f.Brand == "" {
			l.Warn("query_rejected", "status", 400, "reason", "empty brand")
			return nil, fmt.Errorf("%w: empty brand", ErrValidation)
		}
		rows, err = s.Repo.ByBrand(ctx, f.Brand)
	default:
		l.Warn("query_rejected", "status", 400, "reason", "unknown filter")
		return nil, fmt.Errorf("%w: unknown filter %s", ErrValidation, f.Kind)
	}

	if err != nil {
		l.Error("query_failed", "status", 500, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	if len(rows) == 0 {
		l.Info("query_empty", "status", 404)
		return nil, ErrNoData
	}

	l.Debug("query_ok", "rows", len(rows))
	return rows, nil
}
