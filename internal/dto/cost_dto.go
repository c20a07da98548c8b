package dto

import "github.com/shopspring/decimal"

// ─── Catalog ────────────────────────────────────────────────────────────────

type CostCatalogRequest struct {
	Name        string `json:"name"         validate:"required,min=1"`
	CostType    string `json:"cost_type"    validate:"required,oneof=production labor operational packaging"`
	DefaultUnit string `json:"default_unit" validate:"required,oneof=total per_kg"`
}

type CostCatalogResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CostType    string `json:"cost_type"`
	DefaultUnit string `json:"default_unit"`
	IsActive    bool   `json:"is_active"`
}

// ─── Costs ──────────────────────────────────────────────────────────────────

// CreateCostRequest attaches a cost to a record XOR a production, as a total
// XOR a per-kg rate. Both XORs are enforced by CostService, not by tags.
type CreateCostRequest struct {
	ProductionRecordID *string          `json:"production_record_id" validate:"omitempty,uuid"`
	ProductionID       *string          `json:"production_id"        validate:"omitempty,uuid"`
	CostCatalogID      *string          `json:"cost_catalog_id"      validate:"omitempty,uuid"`
	CostType           string           `json:"cost_type"            validate:"omitempty,oneof=production labor operational packaging"`
	Name               string           `json:"name"`
	Description        *string          `json:"description"`
	TotalCost          *decimal.Decimal `json:"total_cost"`
	CostPerKg          *decimal.Decimal `json:"cost_per_kg"`
	DistributionUnit   *string          `json:"distribution_unit" validate:"omitempty,oneof=total per_kg"`
	CostDate           string           `json:"cost_date"         validate:"omitempty,datetime=2006-01-02"`
}

type CostResponse struct {
	ID                 string           `json:"id"`
	ProductionRecordID *string          `json:"production_record_id"`
	ProductionID       *string          `json:"production_id"`
	CostCatalogID      *string          `json:"cost_catalog_id"`
	CostType           string           `json:"cost_type"`
	Name               string           `json:"name"`
	Description        *string          `json:"description"`
	TotalCost          *decimal.Decimal `json:"total_cost"`
	CostPerKg          *decimal.Decimal `json:"cost_per_kg"`
	CostDate           string           `json:"cost_date"`
}

// ─── Allocation views ───────────────────────────────────────────────────────

type AllocationEntry struct {
	OutputID string          `json:"output_id"`
	Product  string          `json:"product"`
	LotCode  *string         `json:"lot_code"`
	WeightKg decimal.Decimal `json:"weight_kg"`
	SharePct decimal.Decimal `json:"share_pct"`
	Amount   decimal.Decimal `json:"amount"`
}

// AllocationResponse is the computed view for one cost: never persisted,
// recomputed on demand.
type AllocationResponse struct {
	CostID            string            `json:"cost_id"`
	Amount            decimal.Decimal   `json:"amount"`
	ScopeWeightKg     decimal.Decimal   `json:"scope_weight_kg"`
	NothingToAllocate bool              `json:"nothing_to_allocate"`
	Entries           []AllocationEntry `json:"entries"`
}

// ProductionAllocationResponse aggregates every cost attached to a production
// or any of its records into per-output totals.
type ProductionAllocationResponse struct {
	ProductionID string            `json:"production_id"`
	TotalCost    decimal.Decimal   `json:"total_cost"`
	Entries      []AllocationEntry `json:"entries"`
}
