package types

import "time"

// AssetRecord is the latest known outcome of one (job, accent, unit) pair.
type AssetRecord struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Job        string    `gorm:"size:32;not null;uniqueIndex:idx_asset_pair" json:"job"`
	Accent     string    `gorm:"size:16;not null;uniqueIndex:idx_asset_pair" json:"accent"`
	UnitID     string    `gorm:"size:128;not null;uniqueIndex:idx_asset_pair" json:"unit_id"`
	ParentID   string    `gorm:"size:128" json:"parent_id,omitempty"`
	RunID      string    `gorm:"size:36;index" json:"run_id"`
	Status     string    `gorm:"size:16;index" json:"status"`
	Error      string    `json:"error,omitempty"`
	Path       string    `json:"path"`
	PublicPath string    `json:"public_path"`
	Bytes      int       `json:"bytes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AssetRun is one invocation of a job.
type AssetRun struct {
	ID         uint       `gorm:"primaryKey" json:"-"`
	RunID      string     `gorm:"size:36;uniqueIndex" json:"run_id"`
	Job        string     `gorm:"size:32;index" json:"job"`
	Provider   string     `gorm:"size:32" json:"provider"`
	Generated  int        `json:"generated"`
	Skipped    int        `json:"skipped"`
	Failed     int        `json:"failed"`
	Unmapped   int        `json:"unmapped"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// RecordFromResult converts a pair outcome into its ledger row.
func RecordFromResult(job, runID string, res Result) AssetRecord {
	rec := AssetRecord{
		Job:        job,
		Accent:     res.Accent,
		UnitID:     res.UnitID,
		ParentID:   res.Parent,
		RunID:      runID,
		Status:     string(res.Status),
		Path:       res.Path,
		PublicPath: res.PublicPath,
		Bytes:      res.Bytes,
	}
	if res.Err != nil {
		rec.Error = res.Err.Error()
	}
	return rec
}
