package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/vbncursed/talentgate/api/http/presenter"
	"github.com/vbncursed/talentgate/pkg/analysis"
)

// AnalyzeHandler serves standalone resume scoring without creating a
// candidate. Useful for trying a resume against a job description.
type AnalyzeHandler struct {
	analyzer *analysis.Analyzer
	maxBytes int64
}

func NewAnalyzeHandler(analyzer *analysis.Analyzer) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: analyzer, maxBytes: 15 << 20} // 15MB
}

// Analyze scores an uploaded resume against a job description.
// @Summary Analyze a resume against a job description
// @Description Accepts a PDF, DOCX or TXT resume, extracts its text and scores it. Falls back to keyword matching when the external scorer is unavailable.
// @Tags    resume
// @Accept  multipart/form-data
// @Produce json
// @Param   file formData file true "Resume file (PDF, DOCX or TXT)"
// @Param   jobDescription formData string true "Job description to match against"
// @Security BearerAuth
// @Success 200 {object} analysis.Result
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 500 {object} presenter.ErrorResponse
// @Router  /resume/analyze [post]
func (h *AnalyzeHandler) Analyze(c *fiber.Ctx) error {
	doc, err := documentFrom(c, h.maxBytes)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	if doc == nil {
		return presenter.Error(c, http.StatusBadRequest, "file is required (pdf, docx or txt)")
	}
	jobDescription := c.FormValue("jobDescription")
	if jobDescription == "" {
		return presenter.Error(c, http.StatusBadRequest, "jobDescription is required")
	}
	result, err := h.analyzer.Analyze(c.Context(), *doc, jobDescription)
	if err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, result)
}
