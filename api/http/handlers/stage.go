package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/vbncursed/talentgate/api/http/presenter"
	"github.com/vbncursed/talentgate/pkg/candidate"
)

// StageHandler serves the pipeline: transitions, history and the stage
// catalog itself.
type StageHandler struct {
	svc candidate.UseCase
}

func NewStageHandler(svc candidate.UseCase) *StageHandler {
	return &StageHandler{svc: svc}
}

type moveStageRequest struct {
	StageID         string `json:"stageId"`
	Comment         string `json:"comment"`
	RejectionType   string `json:"rejectionType"`
	RejectionReason string `json:"rejectionReason"`
}

// Move transitions a candidate to another stage.
// @Summary Move a candidate to a stage
// @Description Records the transition in the audit trail. Moving into the rejection stage requires a known rejectionType; moving elsewhere clears rejection data. Moving to the current stage is rejected.
// @Tags    candidates
// @Accept  json
// @Produce json
// @Param   id path string true "Candidate id"
// @Param   request body moveStageRequest true "Target stage"
// @Security BearerAuth
// @Success 200 {object} candidate.Candidate
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 403 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /candidates/{id}/stage [post]
func (h *StageHandler) Move(c *fiber.Ctx) error {
	actor, ok := actorFrom(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "invalid token context")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid candidate id")
	}
	var req moveStageRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid request body")
	}
	stageID, err := uuid.Parse(strings.TrimSpace(req.StageID))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid stage id")
	}
	cand, err := h.svc.MoveStage(c.Context(), actor, id, candidate.MoveStageInput{
		StageID:         stageID,
		Comment:         strings.TrimSpace(req.Comment),
		RejectionType:   strings.TrimSpace(req.RejectionType),
		RejectionReason: strings.TrimSpace(req.RejectionReason),
	})
	if err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, cand)
}

// History returns the candidate's stage audit trail.
// @Summary Get a candidate's stage history
// @Tags    candidates
// @Produce json
// @Param   id path string true "Candidate id"
// @Security BearerAuth
// @Success 200 {object} candidate.StageHistoryView
// @Failure 403 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /candidates/{id}/history [get]
func (h *StageHandler) History(c *fiber.Ctx) error {
	actor, ok := actorFrom(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "invalid token context")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid candidate id")
	}
	view, err := h.svc.StageHistory(c.Context(), actor, id)
	if err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, view)
}

// List returns the stage catalog in funnel order.
// @Summary List pipeline stages
// @Tags    stages
// @Produce json
// @Security BearerAuth
// @Success 200 {array} stage.Stage
// @Router  /stages [get]
func (h *StageHandler) List(c *fiber.Ctx) error {
	return presenter.JSON(c, http.StatusOK, h.svc.Stages())
}

type addRejectionTypeRequest struct {
	Value string `json:"value"`
}

// AddRejectionType extends the shared rejection-type catalog.
// @Summary Add a rejection type
// @Description Admin only. Adding an existing value is a no-op.
// @Tags    stages
// @Accept  json
// @Produce json
// @Param   request body addRejectionTypeRequest true "New rejection type"
// @Security BearerAuth
// @Success 200 {array} string
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 403 {object} presenter.ErrorResponse
// @Router  /stages/rejection-types [post]
func (h *StageHandler) AddRejectionType(c *fiber.Ctx) error {
	actor, ok := actorFrom(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "invalid token context")
	}
	var req addRejectionTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid request body")
	}
	types, err := h.svc.ExtendRejectionTypes(c.Context(), actor, strings.TrimSpace(req.Value))
	if err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, types)
}
