package models

import (
	"time"

	"github.com/google/uuid"
)

// Document is an uploaded resume. FilePath is the storage key, which is a
// local path or an object name depending on the storage driver.
type Document struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Filename         string    `gorm:"type:text" json:"filename"`
	OriginalFileName string    `gorm:"type:text" json:"original_filename"`
	FileType         string    `gorm:"type:text" json:"file_type"`
	FilePath         string    `gorm:"type:text" json:"file_path"`
	FileSize         int64     `gorm:"not null;default:0" json:"file_size"`
	CreatedAt        time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt        time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (d *Document) TableName() string {
	return "documents"
}
