package handler

import (
	"net/http"

	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/dto"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/service"

	"github.com/gin-gonic/gin"
)

// RecordsHandler covers processing records plus the intake/yield edges that
// hang off them.
type RecordsHandler struct {
	tree   service.TreeService
	intake service.IntakeService
}

func NewRecordsHandler(tree service.TreeService, intake service.IntakeService) *RecordsHandler {
	return &RecordsHandler{tree: tree, intake: intake}
}

// Create godoc
// @Summary      Create a processing record
// @Description  Adds a node to the production forest. Root records (no parent) take raw material inputs; child records consume parent outputs.
// @Tags         records
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateRecordRequest true "Record"
// @Success      201  {object} dto.RecordResponse
// @Failure      422  {object} apierror.APIError
// @Router       /v1/production-records [post]
func (h *RecordsHandler) Create(c *gin.Context) {
	var req dto.CreateRecordRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.tree.CreateRecord(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *RecordsHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.tree.GetRecord(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Delete a processing record
// @Description  Children are re-rooted, never cascade-deleted. Blocked (409) while the record holds inputs or its outputs are consumed downstream.
// @Tags         records
// @Security     BearerAuth
// @Param        id path string true "Record UUID"
// @Success      204
// @Failure      409 {object} apierror.APIError
// @Router       /v1/production-records/{id} [delete]
func (h *RecordsHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.tree.DeleteRecord(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Descendants godoc
// @Summary      List a record's subtree
// @Description  Breadth-first walk of the subtree, the record itself first.
// @Tags         records
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Record UUID"
// @Success      200 {object} dto.DescendantsResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/production-records/{id}/descendants [get]
func (h *RecordsHandler) Descendants(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.tree.ListDescendants(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AddInput godoc
// @Summary      Register a raw material box on a root record
// @Description  Boxes are single-use: a box already consumed anywhere in the forest is rejected with 409.
// @Tags         records
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string             true "Record UUID"
// @Param        body body dto.AddInputRequest true "Box reference"
// @Success      201  {object} dto.InputResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/production-records/{id}/inputs [post]
func (h *RecordsHandler) AddInput(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AddInputRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.intake.AddInput(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *RecordsHandler) ListInputs(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.intake.ListInputs(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AddOutput godoc
// @Summary      Register an output of a record
// @Description  Optionally accepts inline provenance sources, created in the same transaction.
// @Tags         records
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string              true "Record UUID"
// @Param        body body dto.AddOutputRequest true "Output"
// @Success      201  {object} dto.OutputResponse
// @Failure      422  {object} apierror.APIError
// @Router       /v1/production-records/{id}/outputs [post]
func (h *RecordsHandler) AddOutput(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AddOutputRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.intake.AddOutput(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *RecordsHandler) ListOutputs(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.intake.ListOutputs(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecordsHandler) ListConsumptions(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.intake.ListConsumptions(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
