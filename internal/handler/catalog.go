package handler

import (
	"net/http"

	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/apierror"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/dto"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/model"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/repository"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the master catalogs (species, capture zones,
// processes, products). Pure reference data — thin enough to sit directly on
// the repository.
type CatalogHandler struct{ repo repository.MasterRepository }

func NewCatalogHandler(repo repository.MasterRepository) *CatalogHandler {
	return &CatalogHandler{repo: repo}
}

// ── Species ───────────────────────────────────────────────────────────────────

func (h *CatalogHandler) CreateSpecies(c *gin.Context) {
	var req dto.CreateSpeciesRequest
	if !bindAndValidate(c, &req) {
		return
	}
	species := &model.Species{Name: req.Name, FAOCode: req.FAOCode, Active: true}
	if err := h.repo.CreateSpecies(c.Request.Context(), species); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to create species"))
		return
	}
	c.JSON(http.StatusCreated, dto.SpeciesResponse{
		ID: species.ID.String(), Name: species.Name, FAOCode: species.FAOCode, Active: species.Active,
	})
}

func (h *CatalogHandler) ListSpecies(c *gin.Context) {
	species, err := h.repo.ListSpecies(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list species"))
		return
	}
	resp := make([]dto.SpeciesResponse, len(species))
	for i, s := range species {
		resp[i] = dto.SpeciesResponse{ID: s.ID.String(), Name: s.Name, FAOCode: s.FAOCode, Active: s.Active}
	}
	c.JSON(http.StatusOK, resp)
}

// ── Capture zones ─────────────────────────────────────────────────────────────

func (h *CatalogHandler) CreateCaptureZone(c *gin.Context) {
	var req dto.CreateCaptureZoneRequest
	if !bindAndValidate(c, &req) {
		return
	}
	zone := &model.CaptureZone{Code: req.Code, Name: req.Name, Active: true}
	if err := h.repo.CreateCaptureZone(c.Request.Context(), zone); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to create capture zone"))
		return
	}
	c.JSON(http.StatusCreated, dto.CaptureZoneResponse{
		ID: zone.ID.String(), Code: zone.Code, Name: zone.Name, Active: zone.Active,
	})
}

func (h *CatalogHandler) ListCaptureZones(c *gin.Context) {
	zones, err := h.repo.ListCaptureZones(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list capture zones"))
		return
	}
	resp := make([]dto.CaptureZoneResponse, len(zones))
	for i, z := range zones {
		resp[i] = dto.CaptureZoneResponse{ID: z.ID.String(), Code: z.Code, Name: z.Name, Active: z.Active}
	}
	c.JSON(http.StatusOK, resp)
}

// ── Processes ─────────────────────────────────────────────────────────────────

func (h *CatalogHandler) CreateProcess(c *gin.Context) {
	var req dto.CreateProcessRequest
	if !bindAndValidate(c, &req) {
		return
	}
	process := &model.Process{Name: req.Name, Active: true}
	if err := h.repo.CreateProcess(c.Request.Context(), process); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to create process"))
		return
	}
	c.JSON(http.StatusCreated, dto.ProcessResponse{ID: process.ID.String(), Name: process.Name, Active: process.Active})
}

func (h *CatalogHandler) ListProcesses(c *gin.Context) {
	processes, err := h.repo.ListProcesses(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list processes"))
		return
	}
	resp := make([]dto.ProcessResponse, len(processes))
	for i, p := range processes {
		resp[i] = dto.ProcessResponse{ID: p.ID.String(), Name: p.Name, Active: p.Active}
	}
	c.JSON(http.StatusOK, resp)
}

// ── Products ──────────────────────────────────────────────────────────────────

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	product := &model.Product{Code: req.Code, Name: req.Name, Active: true}
	if err := h.repo.CreateProduct(c.Request.Context(), product); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to create product"))
		return
	}
	c.JSON(http.StatusCreated, dto.ProductResponse{
		ID: product.ID.String(), Code: product.Code, Name: product.Name, Active: product.Active,
	})
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.repo.ListProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list products"))
		return
	}
	resp := make([]dto.ProductResponse, len(products))
	for i, p := range products {
		resp[i] = dto.ProductResponse{ID: p.ID.String(), Code: p.Code, Name: p.Name, Active: p.Active}
	}
	c.JSON(http.StatusOK, resp)
}
