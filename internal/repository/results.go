package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/immaturegutlab/wire-myography-analyzer/internal/models"
)

// Results is the query layer over the result store.
type Results struct {
	db *gorm.DB
}

// NewResults wraps a store connection.
func NewResults(db *gorm.DB) *Results {
	return &Results{db: db}
}

// SaveRun persists a run with its recording and bin rows in one
// transaction.
func (r *Results) SaveRun(ctx context.Context, run *models.AnalysisRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

// AddRecording attaches one recording result (with its bins) to a run.
func (r *Results) AddRecording(ctx context.Context, rec *models.RecordingResult) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

// ListRuns returns runs newest first.
func (r *Results) ListRuns(ctx context.Context, limit int) ([]models.AnalysisRun, error) {
	var runs []models.AnalysisRun
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&runs).Error
	return runs, err
}

// GetRun returns one run by ID.
func (r *Results) GetRun(ctx context.Context, id string) (*models.AnalysisRun, error) {
	var run models.AnalysisRun
	if err := r.db.WithContext(ctx).First(&run, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRecordings returns a run's recording rows ordered by file name, the
// same order as the workbook.
func (r *Results) ListRecordings(ctx context.Context, runID string) ([]models.RecordingResult, error) {
	var recs []models.RecordingResult
	err := r.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("file_name ASC").
		Find(&recs).Error
	return recs, err
}

// ListBins returns a recording's bin rows in bin order.
func (r *Results) ListBins(ctx context.Context, recordingID uint) ([]models.BinResult, error) {
	var bins []models.BinResult
	err := r.db.WithContext(ctx).
		Where("recording_id = ?", recordingID).
		Order("bin_index ASC").
		Find(&bins).Error
	return bins, err
}
