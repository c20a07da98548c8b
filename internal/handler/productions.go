package handler

import (
	"net/http"

	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/apierror"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/dto"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductionsHandler struct{ svc service.TreeService }

func NewProductionsHandler(svc service.TreeService) *ProductionsHandler {
	return &ProductionsHandler{svc: svc}
}

// Create godoc
// @Summary      Open a new production lot
// @Tags         productions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateProductionRequest true "Production lot"
// @Success      201  {object} dto.ProductionResponse
// @Failure      422  {object} apierror.APIError
// @Router       /v1/productions [post]
func (h *ProductionsHandler) Create(c *gin.Context) {
	var req dto.CreateProductionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateProduction(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List production lots
// @Tags         productions
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "open | closed | all (default open)"
// @Param        lot    query string false "Lot label substring"
// @Param        page   query int    false "Page (default 1)"
// @Param        limit  query int    false "Per page (default 50)"
// @Success      200    {object} dto.ProductionListResponse
// @Router       /v1/productions [get]
func (h *ProductionsHandler) List(c *gin.Context) {
	var filter dto.ProductionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListProductions(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Get a production lot
// @Tags         productions
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Production UUID"
// @Success      200 {object} dto.ProductionResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/productions/{id} [get]
func (h *ProductionsHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetProduction(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Close godoc
// @Summary      Close a production lot
// @Description  A closed lot rejects new records, inputs, outputs and consumptions.
// @Tags         productions
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Production UUID"
// @Success      200 {object} dto.ProductionResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/productions/{id}/close [post]
func (h *ProductionsHandler) Close(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.CloseProduction(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Delete an empty production lot
// @Tags         productions
// @Security     BearerAuth
// @Param        id path string true "Production UUID"
// @Success      204
// @Failure      409 {object} apierror.APIError
// @Router       /v1/productions/{id} [delete]
func (h *ProductionsHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteProduction(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListRecords returns every record of the production's forest.
func (h *ProductionsHandler) ListRecords(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListRecords(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
