package handlers

import (
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/resume-checker/internal/logger"
	"alfredoptarigan/resume-checker/internal/models"
	"alfredoptarigan/resume-checker/internal/repositories"
	"alfredoptarigan/resume-checker/internal/services"
)

type UploadHandler struct {
	docRepo        repositories.DocumentRepository
	storageService services.StorageService
}

func NewUploadHandler(
	docRepo repositories.DocumentRepository,
	storageService services.StorageService,
) *UploadHandler {
	return &UploadHandler{
		docRepo:        docRepo,
		storageService: storageService,
	}
}

// HandleUpload handles POST /upload.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("resume")
	if err != nil {
		return badRequest(c, "resume file is required")
	}

	stored, err := h.storageService.SaveFile(c.UserContext(), file)
	if err != nil {
		return err
	}

	// Content wins over a misleading extension, as in /analyze.
	fileType := strings.TrimPrefix(stored.Extension, ".")
	if sniffed, ok := sniffUpload(file); ok && string(sniffed) != fileType {
		logger.Ctx(c.UserContext()).Debug().
			Str("extension", fileType).
			Str("content", string(sniffed)).
			Msg("upload extension does not match content")
		fileType = string(sniffed)
	}

	doc := models.Document{
		ID:               uuid.New(),
		Filename:         stored.Key,
		OriginalFileName: stored.OriginalName,
		FileType:         fileType,
		FilePath:         stored.Key,
		FileSize:         stored.Size,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := h.docRepo.Create(&doc); err != nil {
		// Cleanup uploaded file if database insert fails
		if delErr := h.storageService.DeleteFile(c.UserContext(), stored.Key); delErr != nil {
			logger.Ctx(c.UserContext()).Warn().Err(delErr).Str("key", stored.Key).Msg("failed to remove orphaned upload")
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(models.UploadResponse{
		ID:           doc.ID.String(),
		Filename:     doc.Filename,
		OriginalName: doc.OriginalFileName,
		FileType:     doc.FileType,
	})
}

// sniffUpload reads just enough of the upload to recognise its magic bytes.
func sniffUpload(file *multipart.FileHeader) (services.Format, bool) {
	src, err := file.Open()
	if err != nil {
		return "", false
	}
	defer src.Close()

	head := make([]byte, 8)
	n, _ := io.ReadFull(src, head)
	return services.SniffFormat(head[:n])
}
