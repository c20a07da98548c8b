package service

import (
	"context"
	"time"

	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/dto"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/model"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// CostService manages the cost catalog, costs attached to records or
// productions, and the weight-proportional allocation views over outputs.
// Allocations are computed on demand and never persisted.
type CostService interface {
	CreateCatalogEntry(ctx context.Context, req dto.CostCatalogRequest) (*dto.CostCatalogResponse, error)
	ListCatalog(ctx context.Context) ([]dto.CostCatalogResponse, error)

	CreateCost(ctx context.Context, req dto.CreateCostRequest) (*dto.CostResponse, error)
	ListProductionCosts(ctx context.Context, productionID uuid.UUID) ([]dto.CostResponse, error)
	ListRecordCosts(ctx context.Context, recordID uuid.UUID) ([]dto.CostResponse, error)
	DeleteCost(ctx context.Context, id uuid.UUID) error

	Allocate(ctx context.Context, costID uuid.UUID) (*dto.AllocationResponse, error)
	AllocateProduction(ctx context.Context, productionID uuid.UUID) (*dto.ProductionAllocationResponse, error)
}

type costService struct {
	costs       repository.CostRepository
	outputs     repository.OutputRepository
	productions repository.ProductionRepository
	records     repository.RecordRepository
}

func NewCostService(
	costs repository.CostRepository,
	outputs repository.OutputRepository,
	productions repository.ProductionRepository,
	records repository.RecordRepository,
) CostService {
	return &costService{costs: costs, outputs: outputs, productions: productions, records: records}
}

// ── Catalog ───────────────────────────────────────────────────────────────────

func (s *costService) CreateCatalogEntry(ctx context.Context, req dto.CostCatalogRequest) (*dto.CostCatalogResponse, error) {
	entry := &model.CostCatalog{
		Name:        req.Name,
		CostType:    req.CostType,
		DefaultUnit: req.DefaultUnit,
		IsActive:    true,
	}
	if err := s.costs.CreateCatalog(ctx, entry); err != nil {
		return nil, err
	}
	return catalogToResponse(entry), nil
}

func (s *costService) ListCatalog(ctx context.Context) ([]dto.CostCatalogResponse, error) {
	entries, err := s.costs.ListCatalog(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CostCatalogResponse, len(entries))
	for i := range entries {
		resp[i] = *catalogToResponse(&entries[i])
	}
	return resp, nil
}

// ── Costs ─────────────────────────────────────────────────────────────────────

func (s *costService) CreateCost(ctx context.Context, req dto.CreateCostRequest) (*dto.CostResponse, error) {
	if (req.ProductionRecordID == nil) == (req.ProductionID == nil) {
		return nil, newValidation("exactly one of production_record_id or production_id must be set")
	}
	if (req.TotalCost == nil) == (req.CostPerKg == nil) {
		return nil, newValidation("exactly one of total_cost or cost_per_kg must be set")
	}
	if req.TotalCost != nil && req.TotalCost.IsNegative() {
		return nil, newValidation("total_cost cannot be negative")
	}
	if req.CostPerKg != nil && req.CostPerKg.IsNegative() {
		return nil, newValidation("cost_per_kg cannot be negative")
	}

	cost := &model.ProductionCost{
		CostType:         req.CostType,
		Name:             req.Name,
		Description:      req.Description,
		TotalCost:        req.TotalCost,
		CostPerKg:        req.CostPerKg,
		DistributionUnit: req.DistributionUnit,
		CostDate:         time.Now(),
	}

	if req.ProductionRecordID != nil {
		recordID, err := uuid.Parse(*req.ProductionRecordID)
		if err != nil {
			return nil, newValidation("invalid production_record_id")
		}
		if _, err := s.records.FindByID(ctx, recordID); err != nil {
			return nil, newNotFound("record %s not found", recordID)
		}
		cost.ProductionRecordID = &recordID
	} else {
		productionID, err := uuid.Parse(*req.ProductionID)
		if err != nil {
			return nil, newValidation("invalid production_id")
		}
		if _, err := s.productions.FindByID(ctx, productionID); err != nil {
			return nil, newNotFound("production %s not found", productionID)
		}
		cost.ProductionID = &productionID
	}

	if req.CostCatalogID != nil {
		catalogID, err := uuid.Parse(*req.CostCatalogID)
		if err != nil {
			return nil, newValidation("invalid cost_catalog_id")
		}
		entry, err := s.costs.FindCatalogByID(ctx, catalogID)
		if err != nil {
			return nil, newNotFound("cost catalog entry %s not found", catalogID)
		}
		cost.CostCatalogID = &catalogID
		if cost.Name == "" {
			cost.Name = entry.Name
		}
		if cost.CostType == "" {
			cost.CostType = entry.CostType
		}
		if cost.DistributionUnit == nil {
			unit := entry.DefaultUnit
			cost.DistributionUnit = &unit
		}
	}

	if cost.Name == "" {
		return nil, newValidation("name is required when no catalog entry is referenced")
	}
	if cost.CostType == "" {
		cost.CostType = model.CostTypeProduction
	}
	if cost.DistributionUnit == nil {
		unit := model.CostUnitTotal
		if cost.CostPerKg != nil {
			unit = model.CostUnitPerKg
		}
		cost.DistributionUnit = &unit
	}

	if req.CostDate != "" {
		date, err := time.Parse("2006-01-02", req.CostDate)
		if err != nil {
			return nil, newValidation("invalid cost_date, expected YYYY-MM-DD")
		}
		cost.CostDate = date
	}

	if err := s.costs.CreateCost(ctx, cost); err != nil {
		return nil, err
	}
	return costToResponse(cost), nil
}

func (s *costService) ListProductionCosts(ctx context.Context, productionID uuid.UUID) ([]dto.CostResponse, error) {
	if _, err := s.productions.FindByID(ctx, productionID); err != nil {
		return nil, newNotFound("production %s not found", productionID)
	}
	costs, err := s.costs.ListCostsForProduction(ctx, productionID)
	if err != nil {
		return nil, err
	}
	return costsToResponses(costs), nil
}

func (s *costService) ListRecordCosts(ctx context.Context, recordID uuid.UUID) ([]dto.CostResponse, error) {
	if _, err := s.records.FindByID(ctx, recordID); err != nil {
		return nil, newNotFound("record %s not found", recordID)
	}
	costs, err := s.costs.ListCostsByRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}
	return costsToResponses(costs), nil
}

func (s *costService) DeleteCost(ctx context.Context, id uuid.UUID) error {
	if _, err := s.costs.FindCostByID(ctx, id); err != nil {
		return newNotFound("cost %s not found", id)
	}
	return s.costs.DeleteCost(ctx, id)
}

// ── Allocation ────────────────────────────────────────────────────────────────

// Allocate computes the weight-proportional distribution of one cost over the
// outputs in its scope (the record's outputs for node costs, every output of
// the production for root costs).
func (s *costService) Allocate(ctx context.Context, costID uuid.UUID) (*dto.AllocationResponse, error) {
	cost, err := s.costs.FindCostByID(ctx, costID)
	if err != nil {
		return nil, newNotFound("cost %s not found", costID)
	}
	outputs, err := s.scopeOutputs(ctx, cost)
	if err != nil {
		return nil, err
	}
	alloc := buildAllocation(cost, outputs)
	if alloc.NothingToAllocate {
		log.Warn().Str("cost_id", costID.String()).Msg("cost scope has no allocatable weight")
	}
	return alloc, nil
}

// AllocateProduction aggregates every cost attached to the production or any
// of its records into per-output totals. Costs whose scope has no weight are
// skipped: they stay visible through the per-cost view.
func (s *costService) AllocateProduction(ctx context.Context, productionID uuid.UUID) (*dto.ProductionAllocationResponse, error) {
	if _, err := s.productions.FindByID(ctx, productionID); err != nil {
		return nil, newNotFound("production %s not found", productionID)
	}
	outputs, err := s.outputs.ListByProduction(ctx, productionID)
	if err != nil {
		return nil, err
	}
	costs, err := s.costs.ListCostsForProduction(ctx, productionID)
	if err != nil {
		return nil, err
	}

	perOutput := map[uuid.UUID]decimal.Decimal{}
	totalCost := decimal.Zero
	for i := range costs {
		cost := &costs[i]
		scope := outputs
		if cost.ProductionRecordID != nil {
			scope = nil
			for j := range outputs {
				if outputs[j].ProductionRecordID == *cost.ProductionRecordID {
					scope = append(scope, outputs[j])
				}
			}
		}
		alloc := buildAllocation(cost, scope)
		if alloc.NothingToAllocate {
			continue
		}
		totalCost = totalCost.Add(alloc.Amount)
		for _, entry := range alloc.Entries {
			outputID, err := uuid.Parse(entry.OutputID)
			if err != nil {
				continue
			}
			perOutput[outputID] = perOutput[outputID].Add(entry.Amount)
		}
	}

	totalWeight := decimal.Zero
	for i := range outputs {
		totalWeight = totalWeight.Add(outputs[i].WeightKg)
	}

	resp := &dto.ProductionAllocationResponse{
		ProductionID: productionID.String(),
		TotalCost:    totalCost,
		Entries:      make([]dto.AllocationEntry, len(outputs)),
	}
	for i := range outputs {
		out := &outputs[i]
		entry := dto.AllocationEntry{
			OutputID: out.ID.String(),
			LotCode:  out.LotCode,
			WeightKg: out.WeightKg,
			Amount:   perOutput[out.ID],
		}
		if out.Product != nil {
			entry.Product = out.Product.Name
		}
		if totalWeight.IsPositive() {
			entry.SharePct = out.WeightKg.Div(totalWeight).Mul(hundred).Round(4)
		}
		resp.Entries[i] = entry
	}
	return resp, nil
}

func (s *costService) scopeOutputs(ctx context.Context, cost *model.ProductionCost) ([]model.ProductionOutput, error) {
	if cost.ProductionRecordID != nil {
		return s.outputs.ListByRecord(ctx, *cost.ProductionRecordID)
	}
	return s.outputs.ListByProduction(ctx, *cost.ProductionID)
}

// buildAllocation distributes the cost amount over outputs proportionally to
// weight. Per-entry amounts are rounded to 4 decimals; the last entry absorbs
// the rounding remainder so the entries always sum to the cost amount.
// A zero-weight scope yields no entries and sets NothingToAllocate.
func buildAllocation(cost *model.ProductionCost, outputs []model.ProductionOutput) *dto.AllocationResponse {
	scopeWeight := decimal.Zero
	for i := range outputs {
		scopeWeight = scopeWeight.Add(outputs[i].WeightKg)
	}

	amount := decimal.Zero
	if cost.TotalCost != nil {
		amount = *cost.TotalCost
	} else if cost.CostPerKg != nil {
		amount = cost.CostPerKg.Mul(scopeWeight)
	}
	amount = amount.Round(4)

	resp := &dto.AllocationResponse{
		CostID:        cost.ID.String(),
		Amount:        amount,
		ScopeWeightKg: scopeWeight,
		Entries:       []dto.AllocationEntry{},
	}
	if !scopeWeight.IsPositive() {
		resp.NothingToAllocate = true
		return resp
	}

	allocated := decimal.Zero
	for i := range outputs {
		out := &outputs[i]
		var entryAmount decimal.Decimal
		if i == len(outputs)-1 {
			entryAmount = amount.Sub(allocated)
		} else {
			entryAmount = amount.Mul(out.WeightKg).Div(scopeWeight).Round(4)
			allocated = allocated.Add(entryAmount)
		}

		entry := dto.AllocationEntry{
			OutputID: out.ID.String(),
			LotCode:  out.LotCode,
			WeightKg: out.WeightKg,
			SharePct: out.WeightKg.Div(scopeWeight).Mul(hundred).Round(4),
			Amount:   entryAmount,
		}
		if out.Product != nil {
			entry.Product = out.Product.Name
		}
		resp.Entries = append(resp.Entries, entry)
	}
	return resp
}

// ── Mappers ───────────────────────────────────────────────────────────────────

func catalogToResponse(entry *model.CostCatalog) *dto.CostCatalogResponse {
	return &dto.CostCatalogResponse{
		ID:          entry.ID.String(),
		Name:        entry.Name,
		CostType:    entry.CostType,
		DefaultUnit: entry.DefaultUnit,
		IsActive:    entry.IsActive,
	}
}

func costToResponse(cost *model.ProductionCost) *dto.CostResponse {
	resp := &dto.CostResponse{
		ID:          cost.ID.String(),
		CostType:    cost.CostType,
		Name:        cost.Name,
		Description: cost.Description,
		TotalCost:   cost.TotalCost,
		CostPerKg:   cost.CostPerKg,
		CostDate:    cost.CostDate.Format("2006-01-02"),
	}
	if cost.ProductionRecordID != nil {
		id := cost.ProductionRecordID.String()
		resp.ProductionRecordID = &id
	}
	if cost.ProductionID != nil {
		id := cost.ProductionID.String()
		resp.ProductionID = &id
	}
	if cost.CostCatalogID != nil {
		id := cost.CostCatalogID.String()
		resp.CostCatalogID = &id
	}
	return resp
}

func costsToResponses(costs []model.ProductionCost) []dto.CostResponse {
	resp := make([]dto.CostResponse, len(costs))
	for i := range costs {
		resp[i] = *costToResponse(&costs[i])
	}
	return resp
}
