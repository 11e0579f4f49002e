package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/talent-matcher/internal/matching"
	"alfredoptarigan/talent-matcher/internal/models"
)

type MatchRunRepository interface {
	Create(ctx context.Context, run *models.MatchRun) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.MatchRun, error)
	// Claim moves a queued run to processing and reports whether this caller won it.
	Claim(ctx context.Context, id uuid.UUID) (bool, error)
	UpdateResult(ctx context.Context, id uuid.UUID, result *matching.MatchResponse) error
	UpdateError(ctx context.Context, id uuid.UUID, code matching.Code, errorMsg string) error
	// Requeue hands a processing run back to the pending queue.
	Requeue(ctx context.Context, id uuid.UUID) error
	FindPendingRuns(ctx context.Context, limit int) ([]models.MatchRun, error)
}

type matchRunRepository struct {
	db *gorm.DB
}

func NewMatchRunRepository(db *gorm.DB) MatchRunRepository {
	return &matchRunRepository{db: db}
}

func (r *matchRunRepository) Create(ctx context.Context, run *models.MatchRun) error {
	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to create match run: %w", err)
	}
	return nil
}

func (r *matchRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.MatchRun, error) {
	var run models.MatchRun
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("match run %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find match run: %w", err)
	}
	return &run, nil
}

func (r *matchRunRepository) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.MatchRun{}).
		Where("id = ? AND status = ?", id, models.StatusQueued).
		Updates(map[string]interface{}{
			"status":     models.StatusProcessing,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return false, fmt.Errorf("failed to claim match run: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}

func (r *matchRunRepository) UpdateResult(ctx context.Context, id uuid.UUID, result *matching.MatchResponse) error {
	// Updates with a map skips serializers, so the struct form is used here.
	run := models.MatchRun{
		Status:    models.StatusCompleted,
		Result:    result,
		UpdatedAt: time.Now(),
	}

	res := r.db.WithContext(ctx).Model(&models.MatchRun{}).
		Where("id = ?", id).
		Select("status", "result", "updated_at").
		Updates(&run)
	if res.Error != nil {
		return fmt.Errorf("failed to update result: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("match run %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *matchRunRepository) UpdateError(ctx context.Context, id uuid.UUID, code matching.Code, errorMsg string) error {
	return r.update(ctx, id, map[string]interface{}{
		"status":        models.StatusFailed,
		"error_code":    string(code),
		"error_message": errorMsg,
		"updated_at":    time.Now(),
	})
}

func (r *matchRunRepository) Requeue(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&models.MatchRun{}).
		Where("id = ? AND status = ?", id, models.StatusProcessing).
		Updates(map[string]interface{}{
			"status":     models.StatusQueued,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to requeue match run: %w", result.Error)
	}
	return nil
}

func (r *matchRunRepository) FindPendingRuns(ctx context.Context, limit int) ([]models.MatchRun, error) {
	var runs []models.MatchRun
	err := r.db.WithContext(ctx).
		Where("status = ?", models.StatusQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&runs).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find pending runs: %w", err)
	}

	return runs, nil
}

func (r *matchRunRepository) update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.MatchRun{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update match run: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("match run %s: %w", id, ErrNotFound)
	}

	return nil
}
