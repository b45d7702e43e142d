package repo

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/taskgate/internal/models"
)

// TaskRepo reads the log table. Every filter value goes to the driver as a
// bound argument.
type TaskRepo struct {
	DB           *gorm.DB
	Table        string
	QueryTimeout time.Duration
}

func (r *TaskRepo) All(ctx context.Context) ([]models.Record, error) {
	return r.find(ctx, "")
}

func (r *TaskRepo) ByTaskID(ctx context.Context, taskID int64) ([]models.Record, error) {
	return r.find(ctx, "taskid = ?", taskID)
}

func (r *TaskRepo) WithoutStatus(ctx context.Context) ([]models.Record, error) {
	return r.find(ctx, "status IS NULL")
}

func (r *TaskRepo) ByStatus(ctx context.Context, status string) ([]models.Record, error) {
	return r.find(ctx, "status = ?", status)
}

func (r *TaskRepo) ByBrand(ctx context.Context, brand string) ([]models.Record, error) {
	return r.find(ctx, "brand = ?", brand)
}

func (r *TaskRepo) find(ctx context.Context, cond string, args ...any) ([]models.Record, error) {
	if r.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.QueryTimeout)
		defer cancel()
	}

	q := r.DB.WithContext(ctx).Table(r.Table)
	if cond != "" {
		q = q.Where(cond, args...)
	}

	var rows []map[string]any
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query %s: %w", r.Table, err)
	}

	out := make([]models.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.Record(row))
	}
	return out, nil
}
