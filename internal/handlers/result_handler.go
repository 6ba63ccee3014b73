package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/resume-checker/internal/services"
)

type ResultHandler struct {
	analysisService services.AnalysisService
}

func NewResultHandler(analysisService services.AnalysisService) *ResultHandler {
	return &ResultHandler{
		analysisService: analysisService,
	}
}

// HandleGetResult handles GET /result/:id.
func (h *ResultHandler) HandleGetResult(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid analysis ID format")
	}

	response, err := h.analysisService.GetResult(id)
	if err != nil {
		return err
	}

	return c.JSON(response)
}

// HandleRecent handles GET /analyses?limit=N.
func (h *ResultHandler) HandleRecent(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", services.DefaultRecentLimit)

	summaries, err := h.analysisService.Recent(limit)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"analyses": summaries,
		"count":    len(summaries),
	})
}
