package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"alfredoptarigan/resume-checker/internal/models"
)

type AnalysisRepository interface {
	Create(analysis *models.Analysis) error
	FindByID(id uuid.UUID) (*models.Analysis, error)
	UpdateStatus(id uuid.UUID, status models.AnalysisStatus) error
	UpdateResult(id uuid.UUID, result *AnalysisUpdateData) error
	UpdateError(id uuid.UUID, errorMsg string) error
	FindPendingJobs(limit int) ([]models.Analysis, error)
	FindRecent(limit int) ([]models.Analysis, error)
}

type AnalysisUpdateData struct {
	JobTitle       string
	RelevanceScore float64
	Verdict        string
	ResultJSON     datatypes.JSON
}

type analysisRepository struct {
	db *gorm.DB
}

func NewAnalysisRepository(db *gorm.DB) AnalysisRepository {
	return &analysisRepository{db: db}
}

func (r *analysisRepository) Create(analysis *models.Analysis) error {
	if err := r.db.Create(analysis).Error; err != nil {
		return fmt.Errorf("failed to create analysis: %w", err)
	}
	return nil
}

func (r *analysisRepository) FindByID(id uuid.UUID) (*models.Analysis, error) {
	var analysis models.Analysis
	if err := r.db.Where("id = ?", id).First(&analysis).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("analysis %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find analysis: %w", err)
	}
	return &analysis, nil
}

func (r *analysisRepository) UpdateStatus(id uuid.UUID, status models.AnalysisStatus) error {
	return r.update(id, map[string]interface{}{
		"status": status,
	})
}

func (r *analysisRepository) UpdateResult(id uuid.UUID, data *AnalysisUpdateData) error {
	return r.update(id, map[string]interface{}{
		"status":          models.StatusCompleted,
		"job_title":       data.JobTitle,
		"relevance_score": data.RelevanceScore,
		"verdict":         data.Verdict,
		"result_json":     data.ResultJSON,
		"error_message":   nil,
	})
}

func (r *analysisRepository) UpdateError(id uuid.UUID, errorMsg string) error {
	return r.update(id, map[string]interface{}{
		"status":        models.StatusFailed,
		"error_message": errorMsg,
	})
}

func (r *analysisRepository) update(id uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result := r.db.Model(&models.Analysis{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update analysis: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("analysis %s: %w", id, ErrNotFound)
	}

	return nil
}

func (r *analysisRepository) FindPendingJobs(limit int) ([]models.Analysis, error) {
	var analyses []models.Analysis
	err := r.db.
		Where("status = ?", models.StatusQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&analyses).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find pending jobs: %w", err)
	}

	return analyses, nil
}

// FindRecent lists the newest analyses first without their result payload.
func (r *analysisRepository) FindRecent(limit int) ([]models.Analysis, error) {
	var analyses []models.Analysis
	err := r.db.
		Omit("result_json", "jd_text").
		Order("created_at DESC").
		Limit(limit).
		Find(&analyses).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find recent analyses: %w", err)
	}

	return analyses, nil
}
