package handlers

import (
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-checker/internal/services"
)

type AnalyzeHandler struct {
	analysisService services.AnalysisService
	maxFileSize     int64
}

func NewAnalyzeHandler(analysisService services.AnalysisService, maxFileSize int64) *AnalyzeHandler {
	return &AnalyzeHandler{
		analysisService: analysisService,
		maxFileSize:     maxFileSize,
	}
}

// HandleAnalyze handles POST /analyze. The resume is analyzed in the request
// and the stored result is returned directly.
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	file, err := c.FormFile("resume_file")
	if err != nil {
		return badRequest(c, "resume_file is required")
	}

	jdText := c.FormValue("jd_text")
	if strings.TrimSpace(jdText) == "" {
		return badRequest(c, "jd_text is required")
	}

	format, err := services.ParseFormat(file.Filename)
	if err != nil {
		return err
	}

	if h.maxFileSize > 0 && file.Size > h.maxFileSize {
		return &services.FileRejectedError{
			Reason: fmt.Sprintf("resume file too large. Max size: %d bytes", h.maxFileSize),
		}
	}

	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("failed to read uploaded file: %w", err)
	}

	// Content wins over a misleading extension.
	if sniffed, ok := services.SniffFormat(data); ok {
		format = sniffed
	}

	result, err := h.analysisService.AnalyzeAndStore(c.UserContext(), services.AnalyzeInput{
		ResumeData:     data,
		ResumeFormat:   format,
		JobDescription: jdText,
		JobTitle:       c.FormValue("jd_title"),
	}, file.Filename)
	if err != nil {
		return err
	}

	return c.JSON(result)
}
