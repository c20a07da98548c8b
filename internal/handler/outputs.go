package handler

import (
	"net/http"

	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/dto"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/service"

	"github.com/gin-gonic/gin"
)

// OutputsHandler covers consumption edges and the provenance ledger of
// outputs, including the recursive trace endpoint.
type OutputsHandler struct {
	intake     service.IntakeService
	provenance service.ProvenanceService
}

func NewOutputsHandler(intake service.IntakeService, provenance service.ProvenanceService) *OutputsHandler {
	return &OutputsHandler{intake: intake, provenance: provenance}
}

// RegisterConsumption godoc
// @Summary      Register consumption of a parent output
// @Description  Records how much of a parent output a child record consumes. The remaining weight check runs under a row lock — concurrent over-consumption is rejected with 409.
// @Tags         outputs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegisterConsumptionRequest true "Consumption"
// @Success      201  {object} dto.ConsumptionResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/output-consumptions [post]
func (h *OutputsHandler) RegisterConsumption(c *gin.Context) {
	var req dto.RegisterConsumptionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.intake.RegisterConsumption(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// UpdateConsumption godoc
// @Summary      Update a consumption's weight
// @Tags         outputs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                       true "Consumption UUID"
// @Param        body body dto.UpdateConsumptionRequest true "New weight"
// @Success      200  {object} dto.ConsumptionResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/output-consumptions/{id} [put]
func (h *OutputsHandler) UpdateConsumption(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateConsumptionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.intake.UpdateConsumption(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AddSource godoc
// @Summary      Add a provenance source to an output
// @Description  Exactly one of production_input_id / production_output_consumption_id, matching source_type. Weight is canonical; a percentage alone is converted.
// @Tags         outputs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string         true "Output UUID"
// @Param        body body dto.SourceSpec true "Source"
// @Success      201  {object} dto.SourceResponse
// @Failure      422  {object} apierror.APIError
// @Router       /v1/production-outputs/{id}/sources [post]
func (h *OutputsHandler) AddSource(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var spec dto.SourceSpec
	if !bindAndValidate(c, &spec) {
		return
	}
	resp, err := h.provenance.AddSource(c.Request.Context(), id, spec)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *OutputsHandler) ListSources(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.provenance.ListSources(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Trace godoc
// @Summary      Trace an output back to its raw material boxes
// @Description  Walks the provenance ledger recursively (falling back to implicit attribution where no sources exist) and returns per-box contributed weights summing to the output's weight.
// @Tags         outputs
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Output UUID"
// @Success      200 {object} dto.TraceResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/production-outputs/{id}/trace [get]
func (h *OutputsHandler) Trace(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.provenance.Trace(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
