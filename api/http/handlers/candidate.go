package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/vbncursed/talentgate/api/http/presenter"
	"github.com/vbncursed/talentgate/pkg/candidate"
)

// CandidateHandler serves the candidate lifecycle: CRUD, stage transitions
// and the stored resume analysis.
type CandidateHandler struct {
	svc      candidate.UseCase
	maxBytes int64
}

func NewCandidateHandler(svc candidate.UseCase) *CandidateHandler {
	return &CandidateHandler{svc: svc, maxBytes: 15 << 20} // 15MB
}

// Create registers a new candidate, optionally with a resume file.
// @Summary Create a candidate
// @Description Creates a candidate from multipart form data. An attached resume is stored and scored against the referenced job's description.
// @Tags    candidates
// @Accept  multipart/form-data
// @Produce json
// @Param   firstName formData string true "First name"
// @Param   middleName formData string false "Middle name"
// @Param   lastName formData string true "Last name"
// @Param   email formData string true "Email"
// @Param   mobile formData string true "Mobile, 10-15 digits"
// @Param   sourceId formData string true "Source id"
// @Param   currentLocationId formData string false "Current location id"
// @Param   preferredLocationId formData string false "Preferred location id"
// @Param   jobId formData string false "Job id"
// @Param   ownerId formData string false "Owner user id (admins only)"
// @Param   file formData file false "Resume file (PDF, DOCX or TXT)"
// @Security BearerAuth
// @Success 201 {object} candidate.Candidate
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 403 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /candidates [post]
func (h *CandidateHandler) Create(c *fiber.Ctx) error {
	actor, ok := actorFrom(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "invalid token context")
	}
	doc, err := documentFrom(c, h.maxBytes)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	in := candidate.CreateInput{
		FirstName:           strings.TrimSpace(c.FormValue("firstName")),
		MiddleName:          strings.TrimSpace(c.FormValue("middleName")),
		LastName:            strings.TrimSpace(c.FormValue("lastName")),
		Email:               strings.TrimSpace(c.FormValue("email")),
		Mobile:              strings.TrimSpace(c.FormValue("mobile")),
		SourceID:            parseOptionalUUID(c.FormValue("sourceId")),
		CurrentLocationID:   parseOptionalUUID(c.FormValue("currentLocationId")),
		PreferredLocationID: parseOptionalUUID(c.FormValue("preferredLocationId")),
		JobID:               parseOptionalUUID(c.FormValue("jobId")),
		OwnerID:             parseOptionalUUID(c.FormValue("ownerId")),
		Document:            doc,
	}
	cand, err := h.svc.Create(c.Context(), actor, in)
	if err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.JSON(c, http.StatusCreated, cand)
}

// Get returns one candidate.
// @Summary Get a candidate
// @Tags    candidates
// @Produce json
// @Param   id path string true "Candidate id"
// @Security BearerAuth
// @Success 200 {object} candidate.Candidate
// @Failure 403 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /candidates/{id} [get]
func (h *CandidateHandler) Get(c *fiber.Ctx) error {
	actor, ok := actorFrom(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "invalid token context")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid candidate id")
	}
	cand, err := h.svc.Get(c.Context(), actor, id)
	if err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, cand)
}

type listResponse struct {
	Items []candidate.Candidate `json:"items"`
	Total int                   `json:"total"`
}

// List returns candidates visible to the caller.
// @Summary List candidates
// @Description Admins see the whole tenant; recruiters only their own candidates. Supports stage, job and text filters.
// @Tags    candidates
// @Produce json
// @Param   stageId query string false "Filter by stage id"
// @Param   jobId query string false "Filter by job id"
// @Param   search query string false "Match against name and email"
// @Param   limit query int false "Page size, max 200"
// @Param   offset query int false "Page offset"
// @Security BearerAuth
// @Success 200 {object} listResponse
// @Router  /candidates [get]
func (h *CandidateHandler) List(c *fiber.Ctx) error {
	actor, ok := actorFrom(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "invalid token context")
	}
	limit, offset := parseLimitOffset(c, 50)
	f := candidate.ListFilter{
		StageID: parseOptionalUUID(c.Query("stageId")),
		JobID:   parseOptionalUUID(c.Query("jobId")),
		Search:  strings.TrimSpace(c.Query("search")),
		Limit:   limit,
		Offset:  offset,
	}
	items, total, err := h.svc.List(c.Context(), actor, f)
	if err != nil {
		return presenter.FromError(c, err)
	}
	if items == nil {
		items = []candidate.Candidate{}
	}
	return presenter.JSON(c, http.StatusOK, listResponse{Items: items, Total: total})
}

// Update edits a candidate; form fields left out stay unchanged.
// @Summary Update a candidate
// @Description Partial update from multipart form data. A new resume file replaces the stored one.
// @Tags    candidates
// @Accept  multipart/form-data
// @Produce json
// @Param   id path string true "Candidate id"
// @Security BearerAuth
// @Success 200 {object} candidate.Candidate
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 403 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /candidates/{id} [put]
func (h *CandidateHandler) Update(c *fiber.Ctx) error {
	actor, ok := actorFrom(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "invalid token context")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid candidate id")
	}
	doc, err := documentFrom(c, h.maxBytes)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	in := candidate.UpdateInput{
		FirstName:           formString(c, "firstName"),
		MiddleName:          formString(c, "middleName"),
		LastName:            formString(c, "lastName"),
		Email:               formString(c, "email"),
		Mobile:              formString(c, "mobile"),
		SourceID:            parseOptionalUUID(c.FormValue("sourceId")),
		CurrentLocationID:   parseOptionalUUID(c.FormValue("currentLocationId")),
		PreferredLocationID: parseOptionalUUID(c.FormValue("preferredLocationId")),
		JobID:               parseOptionalUUID(c.FormValue("jobId")),
		Document:            doc,
	}
	cand, err := h.svc.Update(c.Context(), actor, id, in)
	if err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, cand)
}

// Delete removes a candidate and its stored resume.
// @Summary Delete a candidate
// @Tags    candidates
// @Param   id path string true "Candidate id"
// @Security BearerAuth
// @Success 204
// @Failure 403 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /candidates/{id} [delete]
func (h *CandidateHandler) Delete(c *fiber.Ctx) error {
	actor, ok := actorFrom(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "invalid token context")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid candidate id")
	}
	if err := h.svc.Delete(c.Context(), actor, id); err != nil {
		return presenter.FromError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// ResumeAnalysis returns the stored analysis for the candidate's resume.
// @Summary Get the stored resume analysis
// @Tags    candidates
// @Produce json
// @Param   id path string true "Candidate id"
// @Security BearerAuth
// @Success 200 {object} resume.Record
// @Failure 403 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /candidates/{id}/resume-analysis [get]
func (h *CandidateHandler) ResumeAnalysis(c *fiber.Ctx) error {
	actor, ok := actorFrom(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "invalid token context")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid candidate id")
	}
	rec, err := h.svc.ResumeAnalysis(c.Context(), actor, id)
	if err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, rec)
}

// formString distinguishes an absent field from an empty one so updates stay
// partial.
func formString(c *fiber.Ctx, key string) *string {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	vals, ok := form.Value[key]
	if !ok || len(vals) == 0 {
		return nil
	}
	v := strings.TrimSpace(vals[0])
	return &v
}
