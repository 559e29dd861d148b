package storage

import (
	"context"
	"errors"
	"time"

	"phonics-audio/internal/types"
	"phonics-audio/log"
	apperrors "phonics-audio/pkg/errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SaveRecord upserts the row for the record's (job, accent, unit).
func (l *Ledger) SaveRecord(ctx context.Context, rec *types.AssetRecord) error {
	db := l.db.WithContext(ctx)
	var existing types.AssetRecord
	result := db.Where("job = ? AND accent = ? AND unit_id = ?", rec.Job, rec.Accent, rec.UnitID).First(&existing)

	switch {
	case result.Error == nil:
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
		return db.Save(rec).Error
	case errors.Is(result.Error, gorm.ErrRecordNotFound):
		return db.Create(rec).Error
	default:
		return result.Error
	}
}

func (l *Ledger) GetRecord(ctx context.Context, job, accent, unitID string) (*types.AssetRecord, error) {
	var rec types.AssetRecord
	err := l.db.WithContext(ctx).
		Where("job = ? AND accent = ? AND unit_id = ?", job, accent, unitID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDBError, "Query asset record failed", err)
	}
	return &rec, nil
}

type RecordFilter struct {
	Job    string
	Status string
	RunID  string
	Limit  int
}

// ListRecords returns the most recently updated rows first.
func (l *Ledger) ListRecords(ctx context.Context, f RecordFilter) ([]types.AssetRecord, error) {
	q := l.db.WithContext(ctx).Model(&types.AssetRecord{})
	if f.Job != "" {
		q = q.Where("job = ?", f.Job)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.RunID != "" {
		q = q.Where("run_id = ?", f.RunID)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var recs []types.AssetRecord
	if err := q.Order("updated_at desc").Order("id desc").Find(&recs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDBError, "List asset records failed", err)
	}
	return recs, nil
}

func (l *Ledger) StartRun(ctx context.Context, runID, job, provider string) error {
	return l.db.WithContext(ctx).Create(&types.AssetRun{
		RunID:     runID,
		Job:       job,
		Provider:  provider,
		StartedAt: time.Now(),
	}).Error
}

func (l *Ledger) FinishRun(ctx context.Context, runID string, generated, skipped, failed, unmapped int) error {
	now := time.Now()
	return l.db.WithContext(ctx).Model(&types.AssetRun{}).
		Where("run_id = ?", runID).
		Updates(map[string]interface{}{
			"generated":   generated,
			"skipped":     skipped,
			"failed":      failed,
			"unmapped":    unmapped,
			"finished_at": &now,
		}).Error
}

// Summary returns the run with its status counts.
func (l *Ledger) Summary(ctx context.Context, runID string) (*types.AssetRun, error) {
	var run types.AssetRun
	err := l.db.WithContext(ctx).Where("run_id = ?", runID).First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDBError, "Query run failed", err)
	}
	return &run, nil
}

func (l *Ledger) ListRuns(ctx context.Context, limit int) ([]types.AssetRun, error) {
	var runs []types.AssetRun
	q := l.db.WithContext(ctx).Order("started_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&runs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDBError, "List runs failed", err)
	}
	return runs, nil
}

// RunRecorder adapts the ledger to pipeline.Recorder for one run. Ledger
// errors are logged and never fail the pair.
type RunRecorder struct {
	Ledger *Ledger
	RunID  string
}

func (r RunRecorder) Record(ctx context.Context, job string, res types.Result) {
	rec := types.RecordFromResult(job, r.RunID, res)
	// the ledger outlives a cancelled run
	if err := r.Ledger.SaveRecord(context.WithoutCancel(ctx), &rec); err != nil {
		log.GetLogger().Warn("Ledger write failed",
			zap.String("job", job), zap.String("accent", res.Accent), zap.String("unit", res.UnitID), zap.Error(err))
	}
}
