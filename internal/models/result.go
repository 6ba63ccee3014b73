package models

import (
	"time"

	"alfredoptarigan/resume-checker/internal/analyzer"
	"alfredoptarigan/resume-checker/internal/scoring"
)

type UploadResponse struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	FileType     string `json:"file_type"`
}

type EvaluateRequest struct {
	ResumeDocumentID string `json:"resume_document_id" validate:"required,uuid"`
	JDText           string `json:"jd_text" validate:"required,min=20"`
	JDTitle          string `json:"jd_title" validate:"omitempty,max=200"`
}

type EvaluateResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type ResultResponse struct {
	ID           string          `json:"id"`
	Status       string          `json:"status"`
	Result       *AnalysisResult `json:"result,omitempty"`
	ErrorMessage *string         `json:"error_message,omitempty"`
}

// AnalysisResult is the full outcome of one resume/job comparison.
type AnalysisResult struct {
	ID                   string                        `json:"id"`
	JobTitle             string                        `json:"job_title"`
	RelevanceScore       float64                       `json:"relevance_score"`
	Verdict              scoring.Verdict               `json:"verdict"`
	MissingElements      scoring.MissingElements       `json:"missing_elements"`
	Suggestions          []string                      `json:"suggestions"`
	HardMatchDetails     *analyzer.HardMatchResult     `json:"hard_match_details"`
	SemanticMatchDetails *analyzer.SemanticMatchResult `json:"semantic_match_details"`
	CreatedAt            time.Time                     `json:"created_at"`
}

type AnalysisSummary struct {
	ID             string    `json:"id"`
	JobTitle       string    `json:"job_title"`
	ResumeFilename string    `json:"resume_filename"`
	Status         string    `json:"status"`
	RelevanceScore *float64  `json:"relevance_score,omitempty"`
	Verdict        *string   `json:"verdict,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}
