package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-checker/internal/logger"
)

type Handlers struct {
	Analyze  *AnalyzeHandler
	Upload   *UploadHandler
	Evaluate *EvaluationHandler
	Result   *ResultHandler
}

// RegisterRoutes mounts the API on router, normally the /api/v1 group.
func RegisterRoutes(router fiber.Router, h Handlers) {
	router.Use(requestLogger)

	router.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	router.Post("/analyze", h.Analyze.HandleAnalyze)
	router.Post("/upload", h.Upload.HandleUpload)
	router.Post("/evaluate", h.Evaluate.HandleEvaluate)
	router.Get("/result/:id", h.Result.HandleGetResult)
	router.Get("/analyses", h.Result.HandleRecent)
}

// requestLogger scopes the logger of every downstream call to the request.
func requestLogger(c *fiber.Ctx) error {
	c.SetUserContext(logger.WithRequest(c.UserContext(), c.Method(), c.Path()))
	return c.Next()
}
