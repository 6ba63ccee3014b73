package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/resume-checker/internal/models"
	"alfredoptarigan/resume-checker/internal/services"
)

type EvaluationHandler struct {
	analysisService services.AnalysisService
	worker          services.Worker
	validator       *validator.Validate
}

func NewEvaluationHandler(analysisService services.AnalysisService, worker services.Worker) *EvaluationHandler {
	return &EvaluationHandler{
		analysisService: analysisService,
		worker:          worker,
		validator:       validator.New(),
	}
}

// HandleEvaluate handles POST /evaluate
func (h *EvaluationHandler) HandleEvaluate(c *fiber.Ctx) error {
	var req models.EvaluateRequest

	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	docID, err := uuid.Parse(req.ResumeDocumentID)
	if err != nil {
		return badRequest(c, "Invalid resume_document_id format")
	}

	analysis, err := h.analysisService.Submit(docID, req.JDText, req.JDTitle)
	if err != nil {
		return err
	}

	h.worker.EnqueueJob(analysis.ID)

	// Return job ID immediately
	return c.Status(fiber.StatusAccepted).JSON(models.EvaluateResponse{
		ID:     analysis.ID.String(),
		Status: string(analysis.Status),
	})
}
