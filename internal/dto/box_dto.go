package dto

import "github.com/shopspring/decimal"

type CreatePalletRequest struct {
	Code     string  `json:"code" validate:"required,min=1"`
	Location *string `json:"location"`
}

type PalletResponse struct {
	ID       string  `json:"id"`
	Code     string  `json:"code"`
	Location *string `json:"location"`
	Boxes    int     `json:"boxes"`
}

type CreateBoxRequest struct {
	PalletID  *string         `json:"pallet_id"  validate:"omitempty,uuid"`
	ProductID string          `json:"product_id" validate:"required,uuid"`
	LotCode   string          `json:"lot_code"   validate:"required,min=1"`
	WeightKg  decimal.Decimal `json:"weight_kg"  validate:"required"`
}

type BoxResponse struct {
	ID        string          `json:"id"`
	PalletID  *string         `json:"pallet_id"`
	ProductID string          `json:"product_id"`
	Product   string          `json:"product"`
	LotCode   string          `json:"lot_code"`
	WeightKg  decimal.Decimal `json:"weight_kg"`
	CreatedAt string          `json:"created_at"`
}

type BoxFilter struct {
	LotCode   string `form:"lot_code"`
	ProductID string `form:"product_id"`
	Page      int    `form:"page,default=1"    validate:"min=1"`
	Limit     int    `form:"limit,default=100" validate:"min=1,max=500"`
}

type BoxListResponse struct {
	Data  []BoxResponse `json:"data"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}
