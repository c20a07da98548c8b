package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/apierror"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/dto"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/model"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/repository"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/tenant"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const boxCacheTTL = 30 * time.Minute

// BoxesHandler serves the stock inventory (pallets and boxes) the production
// core consumes. Box lookups are cached in Redis: scanner stations hammer
// this endpoint while registering inputs.
type BoxesHandler struct {
	repo repository.BoxRepository
	rdb  *redis.Client
}

func NewBoxesHandler(repo repository.BoxRepository, rdb *redis.Client) *BoxesHandler {
	return &BoxesHandler{repo: repo, rdb: rdb}
}

// ── Boxes ─────────────────────────────────────────────────────────────────────

func (h *BoxesHandler) CreateBox(c *gin.Context) {
	var req dto.CreateBoxRequest
	if !bindAndValidate(c, &req) {
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid product_id"))
		return
	}

	box := &model.Box{ProductID: productID, LotCode: req.LotCode, WeightKg: req.WeightKg}
	if req.PalletID != nil {
		palletID, err := uuid.Parse(*req.PalletID)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("invalid pallet_id"))
			return
		}
		box.PalletID = &palletID
	}

	if err := h.repo.CreateBox(c.Request.Context(), box); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to create box"))
		return
	}
	c.JSON(http.StatusCreated, boxToResponse(box))
}

// GetBox godoc
// @Summary      Look up a stock box
// @Description  Cached in Redis per tenant for 30 minutes. Boxes are immutable once created, so the cache never serves stale weight or lot data.
// @Tags         boxes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Box UUID"
// @Success      200 {object} dto.BoxResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/boxes/{id} [get]
func (h *BoxesHandler) GetBox(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	// Cache keys carry the tenant: identical box ids in different tenant
	// databases must never collide.
	cacheKey := "box:" + tenant.KeyFromContext(ctx) + ":" + id.String()

	if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var resp dto.BoxResponse
		if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	box, err := h.repo.FindBoxByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("box not found"))
		return
	}
	resp := boxToResponse(box)

	// Best effort — a cache write failure must not fail the lookup
	if b, jsonErr := json.Marshal(resp); jsonErr == nil {
		_ = h.rdb.Set(context.Background(), cacheKey, b, boxCacheTTL).Err()
	}

	c.JSON(http.StatusOK, resp)
}

func (h *BoxesHandler) ListBoxes(c *gin.Context) {
	var filter dto.BoxFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	boxes, total, err := h.repo.ListBoxes(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list boxes"))
		return
	}
	resp := dto.BoxListResponse{
		Data:  make([]dto.BoxResponse, len(boxes)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range boxes {
		resp.Data[i] = *boxToResponse(&boxes[i])
	}
	c.JSON(http.StatusOK, resp)
}

// ── Pallets ───────────────────────────────────────────────────────────────────

func (h *BoxesHandler) CreatePallet(c *gin.Context) {
	var req dto.CreatePalletRequest
	if !bindAndValidate(c, &req) {
		return
	}
	pallet := &model.Pallet{Code: req.Code, Location: req.Location}
	if err := h.repo.CreatePallet(c.Request.Context(), pallet); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to create pallet"))
		return
	}
	c.JSON(http.StatusCreated, dto.PalletResponse{
		ID: pallet.ID.String(), Code: pallet.Code, Location: pallet.Location,
	})
}

func (h *BoxesHandler) ListPallets(c *gin.Context) {
	pallets, err := h.repo.ListPallets(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list pallets"))
		return
	}
	resp := make([]dto.PalletResponse, len(pallets))
	for i, p := range pallets {
		resp[i] = dto.PalletResponse{
			ID: p.ID.String(), Code: p.Code, Location: p.Location, Boxes: len(p.Boxes),
		}
	}
	c.JSON(http.StatusOK, resp)
}

func boxToResponse(box *model.Box) *dto.BoxResponse {
	resp := &dto.BoxResponse{
		ID:        box.ID.String(),
		ProductID: box.ProductID.String(),
		LotCode:   box.LotCode,
		WeightKg:  box.WeightKg,
		CreatedAt: box.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if box.PalletID != nil {
		id := box.PalletID.String()
		resp.PalletID = &id
	}
	if box.Product != nil {
		resp.Product = box.Product.Name
	}
	return resp
}
