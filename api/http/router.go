package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vbncursed/talentgate/api/http/handlers"
)

// Register wires all HTTP routes onto given Fiber app.
func Register(
	app *fiber.App,
	auth fiber.Handler,
	health *handlers.HealthHandler,
	analyze *handlers.AnalyzeHandler,
	cand *handlers.CandidateHandler,
	stages *handlers.StageHandler,
) {
	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Health and readiness endpoints for probes/monitoring
	v1.Get("/health", health.Health)
	v1.Get("/ready", health.Ready)

	// Everything below requires a valid token
	rg := v1.Group("/resume", auth)
	rg.Post("/analyze", analyze.Analyze)

	cg := v1.Group("/candidates", auth)
	cg.Post("/", cand.Create)
	cg.Get("/", cand.List)
	cg.Get("/:id", cand.Get)
	cg.Put("/:id", cand.Update)
	cg.Delete("/:id", cand.Delete)
	cg.Post("/:id/stage", stages.Move)
	cg.Get("/:id/history", stages.History)
	cg.Get("/:id/resume-analysis", cand.ResumeAnalysis)

	sg := v1.Group("/stages", auth)
	sg.Get("/", stages.List)
	sg.Post("/rejection-types", stages.AddRejectionType)
}
