package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AnalysisStatus string

const (
	StatusQueued     AnalysisStatus = "queued"
	StatusProcessing AnalysisStatus = "processing"
	StatusCompleted  AnalysisStatus = "completed"
	StatusFailed     AnalysisStatus = "failed"
)

type Analysis struct {
	ID               uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	JobTitle         string         `gorm:"type:text;not null;default:'Untitled Position'" json:"job_title"`
	JDText           string         `gorm:"type:text;not null" json:"jd_text"`
	ResumeDocumentID *uuid.UUID     `gorm:"type:uuid" json:"resume_document_id,omitempty"`
	ResumeFilename   string         `gorm:"type:text" json:"resume_filename"`
	Status           AnalysisStatus `gorm:"not null;default:'queued';index" json:"status"`
	RelevanceScore   *float64       `gorm:"type:decimal(5,2)" json:"relevance_score,omitempty"`
	Verdict          *string        `gorm:"type:text" json:"verdict,omitempty"`
	ResultJSON       datatypes.JSON `gorm:"type:jsonb" json:"-"`
	ErrorMessage     *string        `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt        time.Time      `gorm:"default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	ResumeDocument *Document `gorm:"foreignKey:ResumeDocumentID" json:"-"`
}

func (Analysis) TableName() string {
	return "analyses"
}
