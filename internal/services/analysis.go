package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"alfredoptarigan/resume-checker/internal/logger"
	"alfredoptarigan/resume-checker/internal/models"
	"alfredoptarigan/resume-checker/internal/parser"
	"alfredoptarigan/resume-checker/internal/repositories"
)

const (
	DefaultRecentLimit = 10
	MaxRecentLimit     = 100
)

// AnalysisService persists analyses around the pipeline. Synchronous runs are
// stored as completed records; queued runs are picked up by the worker.
type AnalysisService interface {
	AnalyzeAndStore(ctx context.Context, input AnalyzeInput, resumeFilename string) (*models.AnalysisResult, error)
	Submit(documentID uuid.UUID, jdText, jdTitle string) (*models.Analysis, error)
	ProcessAnalysis(ctx context.Context, id uuid.UUID) error
	GetResult(id uuid.UUID) (*models.ResultResponse, error)
	Recent(limit int) ([]models.AnalysisSummary, error)
}

type analysisService struct {
	analysisRepo repositories.AnalysisRepository
	docRepo      repositories.DocumentRepository
	storage      StorageService
	pipeline     Pipeline
}

func NewAnalysisService(
	analysisRepo repositories.AnalysisRepository,
	docRepo repositories.DocumentRepository,
	storage StorageService,
	pipeline Pipeline,
) AnalysisService {
	return &analysisService{
		analysisRepo: analysisRepo,
		docRepo:      docRepo,
		storage:      storage,
		pipeline:     pipeline,
	}
}

func jobTitleOrDefault(title string) string {
	if title == "" {
		return parser.UntitledPosition
	}
	return title
}

// AnalyzeAndStore implements AnalysisService.
func (s *analysisService) AnalyzeAndStore(ctx context.Context, input AnalyzeInput, resumeFilename string) (*models.AnalysisResult, error) {
	if input.AnalysisID == uuid.Nil {
		input.AnalysisID = uuid.New()
	}

	result, err := s.pipeline.Analyze(ctx, input)
	if err != nil {
		return nil, err
	}

	payload, err := encodeResult(result)
	if err != nil {
		return nil, err
	}

	// Written complete in one insert so the queue poller never sees the row.
	score, verdict := result.RelevanceScore, string(result.Verdict)
	analysis := &models.Analysis{
		ID:             input.AnalysisID,
		JobTitle:       result.JobTitle,
		JDText:         input.JobDescription,
		ResumeFilename: resumeFilename,
		Status:         models.StatusCompleted,
		RelevanceScore: &score,
		Verdict:        &verdict,
		ResultJSON:     payload,
		CreatedAt:      result.CreatedAt,
		UpdatedAt:      result.CreatedAt,
	}
	if err := s.analysisRepo.Create(analysis); err != nil {
		return nil, err
	}

	return result, nil
}

// Submit implements AnalysisService.
func (s *analysisService) Submit(documentID uuid.UUID, jdText, jdTitle string) (*models.Analysis, error) {
	doc, err := s.docRepo.FindByID(documentID)
	if err != nil {
		return nil, err
	}

	analysis := &models.Analysis{
		ID:               uuid.New(),
		JobTitle:         jobTitleOrDefault(jdTitle),
		JDText:           jdText,
		ResumeDocumentID: &doc.ID,
		ResumeFilename:   doc.OriginalFileName,
		Status:           models.StatusQueued,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := s.analysisRepo.Create(analysis); err != nil {
		return nil, err
	}

	return analysis, nil
}

// ProcessAnalysis implements AnalysisService. Analyses that are no longer
// queued are skipped. Failures are recorded on the analysis before being
// returned.
func (s *analysisService) ProcessAnalysis(ctx context.Context, id uuid.UUID) error {
	analysis, err := s.analysisRepo.FindByID(id)
	if err != nil {
		return fmt.Errorf("failed to get analysis: %w", err)
	}

	log := logger.Ctx(ctx).With().Str("analysis_id", id.String()).Logger()
	if analysis.Status != models.StatusQueued {
		log.Debug().Str("status", string(analysis.Status)).Msg("skipping analysis")
		return nil
	}

	if err := s.analysisRepo.UpdateStatus(id, models.StatusProcessing); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	log.Info().Msg("processing queued analysis")

	if err := s.process(ctx, analysis); err != nil {
		if updateErr := s.analysisRepo.UpdateError(id, err.Error()); updateErr != nil {
			log.Error().Err(updateErr).Msg("failed to record analysis error")
		}
		return err
	}

	return nil
}

func (s *analysisService) process(ctx context.Context, analysis *models.Analysis) error {
	if analysis.ResumeDocumentID == nil {
		return fmt.Errorf("analysis %s has no resume document", analysis.ID)
	}

	doc, err := s.docRepo.FindByID(*analysis.ResumeDocumentID)
	if err != nil {
		return fmt.Errorf("resume document not found: %w", err)
	}

	format, err := ParseFormat(doc.FileType)
	if err != nil {
		return err
	}

	data, err := s.storage.ReadFile(ctx, doc.FilePath)
	if err != nil {
		return fmt.Errorf("failed to load resume: %w", err)
	}

	// The placeholder title lets the title found in the text win.
	title := analysis.JobTitle
	if title == parser.UntitledPosition {
		title = ""
	}

	result, err := s.pipeline.Analyze(ctx, AnalyzeInput{
		AnalysisID:     analysis.ID,
		ResumeData:     data,
		ResumeFormat:   format,
		JobDescription: analysis.JDText,
		JobTitle:       title,
	})
	if err != nil {
		return err
	}

	return s.storeResult(analysis.ID, result)
}

func encodeResult(result *models.AnalysisResult) (datatypes.JSON, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return datatypes.JSON(payload), nil
}

func (s *analysisService) storeResult(id uuid.UUID, result *models.AnalysisResult) error {
	payload, err := encodeResult(result)
	if err != nil {
		return err
	}

	return s.analysisRepo.UpdateResult(id, &repositories.AnalysisUpdateData{
		JobTitle:       result.JobTitle,
		RelevanceScore: result.RelevanceScore,
		Verdict:        string(result.Verdict),
		ResultJSON:     payload,
	})
}

// GetResult implements AnalysisService.
func (s *analysisService) GetResult(id uuid.UUID) (*models.ResultResponse, error) {
	analysis, err := s.analysisRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	response := &models.ResultResponse{
		ID:     analysis.ID.String(),
		Status: string(analysis.Status),
	}

	if analysis.Status == models.StatusCompleted && len(analysis.ResultJSON) > 0 {
		var result models.AnalysisResult
		if err := json.Unmarshal(analysis.ResultJSON, &result); err != nil {
			return nil, fmt.Errorf("failed to decode stored result: %w", err)
		}
		response.Result = &result
	}

	if analysis.Status == models.StatusFailed {
		response.ErrorMessage = analysis.ErrorMessage
	}

	return response, nil
}

// Recent implements AnalysisService. The limit is clamped to
// [1, MaxRecentLimit]; zero or less means the default.
func (s *analysisService) Recent(limit int) ([]models.AnalysisSummary, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	limit = min(limit, MaxRecentLimit)

	analyses, err := s.analysisRepo.FindRecent(limit)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.AnalysisSummary, 0, len(analyses))
	for _, a := range analyses {
		summaries = append(summaries, models.AnalysisSummary{
			ID:             a.ID.String(),
			JobTitle:       a.JobTitle,
			ResumeFilename: a.ResumeFilename,
			Status:         string(a.Status),
			RelevanceScore: a.RelevanceScore,
			Verdict:        a.Verdict,
			CreatedAt:      a.CreatedAt,
		})
	}

	return summaries, nil
}
