package routes

import (
	"experiment-funnel-service/internal/controller"

	"github.com/gofiber/fiber/v2"
)

// Register attaches all HTTP routes to the Fiber app.
func Register(app *fiber.App, analysisController controller.AnalysisController) {
	app.Get("/catalog", analysisController.GetCatalog)
	app.Get("/experiments", analysisController.ListExperiments)
	app.Get("/experiments/:id/variants", analysisController.GetVariants)
	app.Post("/analysis", analysisController.RunAnalysis)
	app.Post("/analysis/breakdown", analysisController.RunBreakdown)
	app.Post("/analysis/export", analysisController.ExportAnalysis)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}
