package handler

import (
	"net/http"

	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/dto"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/service"

	"github.com/gin-gonic/gin"
)

type CostsHandler struct{ svc service.CostService }

func NewCostsHandler(svc service.CostService) *CostsHandler { return &CostsHandler{svc: svc} }

// ── Catalog ───────────────────────────────────────────────────────────────────

func (h *CostsHandler) CreateCatalogEntry(c *gin.Context) {
	var req dto.CostCatalogRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateCatalogEntry(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CostsHandler) ListCatalog(c *gin.Context) {
	resp, err := h.svc.ListCatalog(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Costs ─────────────────────────────────────────────────────────────────────

// CreateCost godoc
// @Summary      Attach a cost to a record or production
// @Description  Exactly one target (production_record_id XOR production_id) and exactly one amount (total_cost XOR cost_per_kg).
// @Tags         costs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateCostRequest true "Cost"
// @Success      201  {object} dto.CostResponse
// @Failure      422  {object} apierror.APIError
// @Router       /v1/costs [post]
func (h *CostsHandler) CreateCost(c *gin.Context) {
	var req dto.CreateCostRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateCost(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CostsHandler) DeleteCost(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteCost(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListProductionCosts returns production-level costs plus every record cost
// in the production's forest.
func (h *CostsHandler) ListProductionCosts(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListProductionCosts(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CostsHandler) ListRecordCosts(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListRecordCosts(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Allocation views ──────────────────────────────────────────────────────────

// Allocate godoc
// @Summary      Compute the allocation of one cost over its scope
// @Description  Weight-proportional distribution, computed on demand — never persisted. Rounded to 4 decimals, last entry absorbs the remainder.
// @Tags         costs
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Cost UUID"
// @Success      200 {object} dto.AllocationResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/costs/{id}/allocation [get]
func (h *CostsHandler) Allocate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Allocate(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AllocateProduction godoc
// @Summary      Aggregate every cost of a production into per-output totals
// @Tags         costs
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Production UUID"
// @Success      200 {object} dto.ProductionAllocationResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/productions/{id}/allocation [get]
func (h *CostsHandler) AllocateProduction(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.AllocateProduction(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
