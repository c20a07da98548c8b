package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/dto"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/model"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildCostSvc(f *fixture) service.CostService {
	return service.NewCostService(f.costs, f.outputs, f.productions, f.records)
}

func TestCreateCost_TargetXOR(t *testing.T) {
	f := newFixture()
	svc := buildCostSvc(f)
	p := f.addProduction(false)
	rec := f.addRecord(p.ID, nil)

	var vErr *service.ValidationError

	// Both targets set.
	_, err := svc.CreateCost(context.Background(), dto.CreateCostRequest{
		ProductionRecordID: strPtr(rec.ID.String()),
		ProductionID:       strPtr(p.ID.String()),
		Name:               "ice",
		TotalCost:          decPtr("10"),
	})
	require.True(t, errors.As(err, &vErr))

	// No target at all.
	_, err = svc.CreateCost(context.Background(), dto.CreateCostRequest{
		Name:      "ice",
		TotalCost: decPtr("10"),
	})
	require.True(t, errors.As(err, &vErr))
}

func TestCreateCost_AmountXOR(t *testing.T) {
	f := newFixture()
	svc := buildCostSvc(f)
	p := f.addProduction(false)

	var vErr *service.ValidationError

	_, err := svc.CreateCost(context.Background(), dto.CreateCostRequest{
		ProductionID: strPtr(p.ID.String()),
		Name:         "ice",
		TotalCost:    decPtr("10"),
		CostPerKg:    decPtr("0.5"),
	})
	require.True(t, errors.As(err, &vErr))

	_, err = svc.CreateCost(context.Background(), dto.CreateCostRequest{
		ProductionID: strPtr(p.ID.String()),
		Name:         "ice",
	})
	require.True(t, errors.As(err, &vErr))
}

func TestCreateCost_CatalogDefaults(t *testing.T) {
	f := newFixture()
	svc := buildCostSvc(f)
	p := f.addProduction(false)

	entry, err := svc.CreateCatalogEntry(context.Background(), dto.CostCatalogRequest{
		Name:        "Night shift",
		CostType:    model.CostTypeLabor,
		DefaultUnit: model.CostUnitTotal,
	})
	require.NoError(t, err)

	resp, err := svc.CreateCost(context.Background(), dto.CreateCostRequest{
		ProductionID:  strPtr(p.ID.String()),
		CostCatalogID: strPtr(entry.ID),
		TotalCost:     decPtr("120"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Night shift", resp.Name)
	assert.Equal(t, model.CostTypeLabor, resp.CostType)
}

func TestAllocate_PerKgRate(t *testing.T) {
	f := newFixture()
	svc := buildCostSvc(f)
	p := f.addProduction(false)
	rec := f.addRecord(p.ID, nil)
	outA := f.addOutput(rec.ID, "25")
	f.addOutput(rec.ID, "75")

	resp, err := svc.CreateCost(context.Background(), dto.CreateCostRequest{
		ProductionRecordID: strPtr(rec.ID.String()),
		Name:               "freezing",
		CostPerKg:          decPtr("2.00"),
	})
	require.NoError(t, err)

	costID, err := uuid.Parse(resp.ID)
	require.NoError(t, err)
	alloc, err := svc.Allocate(context.Background(), costID)
	require.NoError(t, err)

	// 2.00/kg over a 100 kg scope → 200 total; the 25 kg output carries 50.
	assert.True(t, alloc.Amount.Equal(decimal.RequireFromString("200")))
	assert.True(t, alloc.ScopeWeightKg.Equal(decimal.RequireFromString("100")))
	assert.False(t, alloc.NothingToAllocate)
	require.Len(t, alloc.Entries, 2)
	for _, e := range alloc.Entries {
		if e.OutputID == outA.ID.String() {
			assert.True(t, e.Amount.Equal(decimal.RequireFromString("50")))
			assert.True(t, e.SharePct.Equal(decimal.RequireFromString("25")))
		} else {
			assert.True(t, e.Amount.Equal(decimal.RequireFromString("150")))
		}
	}
}

func TestAllocate_RemainderAbsorbedByLastEntry(t *testing.T) {
	f := newFixture()
	svc := buildCostSvc(f)
	p := f.addProduction(false)
	rec := f.addRecord(p.ID, nil)
	f.addOutput(rec.ID, "1")
	f.addOutput(rec.ID, "1")
	f.addOutput(rec.ID, "1")

	resp, err := svc.CreateCost(context.Background(), dto.CreateCostRequest{
		ProductionRecordID: strPtr(rec.ID.String()),
		Name:               "packaging",
		TotalCost:          decPtr("100"),
	})
	require.NoError(t, err)

	costID, _ := uuid.Parse(resp.ID)
	alloc, err := svc.Allocate(context.Background(), costID)
	require.NoError(t, err)
	require.Len(t, alloc.Entries, 3)

	sum := decimal.Zero
	for _, e := range alloc.Entries {
		sum = sum.Add(e.Amount)
	}
	// Rounded thirds do not sum to 100 — the last entry absorbs the difference.
	assert.True(t, sum.Equal(decimal.RequireFromString("100")), "entries sum to %s", sum)
	assert.True(t, alloc.Entries[0].Amount.Equal(decimal.RequireFromString("33.3333")))
	assert.True(t, alloc.Entries[2].Amount.Equal(decimal.RequireFromString("33.3334")))
}

func TestAllocate_EmptyScope(t *testing.T) {
	f := newFixture()
	svc := buildCostSvc(f)
	p := f.addProduction(false)
	rec := f.addRecord(p.ID, nil)

	resp, err := svc.CreateCost(context.Background(), dto.CreateCostRequest{
		ProductionRecordID: strPtr(rec.ID.String()),
		Name:               "ice",
		TotalCost:          decPtr("50"),
	})
	require.NoError(t, err)

	costID, _ := uuid.Parse(resp.ID)
	alloc, err := svc.Allocate(context.Background(), costID)
	require.NoError(t, err)
	assert.True(t, alloc.NothingToAllocate)
	assert.Empty(t, alloc.Entries)
	assert.True(t, alloc.Amount.Equal(decimal.RequireFromString("50")))
}

func TestAllocateProduction_AggregatesRecordAndProductionCosts(t *testing.T) {
	f := newFixture()
	svc := buildCostSvc(f)
	p := f.addProduction(false)
	recA := f.addRecord(p.ID, nil)
	recB := f.addRecord(p.ID, nil)
	outA := f.addOutput(recA.ID, "25")
	outB := f.addOutput(recB.ID, "75")

	// Production-wide rate: 2.00/kg × 100 kg = 200, split 50/150.
	_, err := svc.CreateCost(context.Background(), dto.CreateCostRequest{
		ProductionID: strPtr(p.ID.String()),
		Name:         "freezing",
		CostPerKg:    decPtr("2.00"),
	})
	require.NoError(t, err)

	// Node cost on record A only: +10 on its single output.
	_, err = svc.CreateCost(context.Background(), dto.CreateCostRequest{
		ProductionRecordID: strPtr(recA.ID.String()),
		Name:               "extra labor",
		TotalCost:          decPtr("10"),
	})
	require.NoError(t, err)

	alloc, err := svc.AllocateProduction(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, alloc.TotalCost.Equal(decimal.RequireFromString("210")))
	require.Len(t, alloc.Entries, 2)

	byOutput := map[string]decimal.Decimal{}
	for _, e := range alloc.Entries {
		byOutput[e.OutputID] = e.Amount
	}
	assert.True(t, byOutput[outA.ID.String()].Equal(decimal.RequireFromString("60")))
	assert.True(t, byOutput[outB.ID.String()].Equal(decimal.RequireFromString("150")))
}

func TestAllocateProduction_SkipsUnallocatableCosts(t *testing.T) {
	f := newFixture()
	svc := buildCostSvc(f)
	p := f.addProduction(false)
	recA := f.addRecord(p.ID, nil)
	recB := f.addRecord(p.ID, nil) // no outputs
	f.addOutput(recA.ID, "50")

	_, err := svc.CreateCost(context.Background(), dto.CreateCostRequest{
		ProductionRecordID: strPtr(recA.ID.String()),
		Name:               "ice",
		TotalCost:          decPtr("30"),
	})
	require.NoError(t, err)
	_, err = svc.CreateCost(context.Background(), dto.CreateCostRequest{
		ProductionRecordID: strPtr(recB.ID.String()),
		Name:               "stranded",
		TotalCost:          decPtr("99"),
	})
	require.NoError(t, err)

	alloc, err := svc.AllocateProduction(context.Background(), p.ID)
	require.NoError(t, err)
	// The stranded cost has no outputs in scope — it stays out of the total so
	// entry amounts and the total agree.
	assert.True(t, alloc.TotalCost.Equal(decimal.RequireFromString("30")))
}

func TestAllocate_Idempotent(t *testing.T) {
	f := newFixture()
	svc := buildCostSvc(f)
	p := f.addProduction(false)
	rec := f.addRecord(p.ID, nil)
	f.addOutput(rec.ID, "12.5")
	f.addOutput(rec.ID, "7.3")
	f.addOutput(rec.ID, "41.2")

	resp, err := svc.CreateCost(context.Background(), dto.CreateCostRequest{
		ProductionRecordID: strPtr(rec.ID.String()),
		Name:               "freezing",
		TotalCost:          decPtr("137.77"),
	})
	require.NoError(t, err)

	costID, _ := uuid.Parse(resp.ID)
	first, err := svc.Allocate(context.Background(), costID)
	require.NoError(t, err)
	second, err := svc.Allocate(context.Background(), costID)
	require.NoError(t, err)

	// Allocation is a pure view over stored costs and weights: recomputing
	// yields identical entries, order included.
	assert.Equal(t, first, second)

	sum := decimal.Zero
	for _, e := range second.Entries {
		sum = sum.Add(e.Amount)
	}
	assert.True(t, sum.Equal(decimal.RequireFromString("137.77")))
}

func TestDeleteCost_NotFound(t *testing.T) {
	f := newFixture()
	svc := buildCostSvc(f)

	err := svc.DeleteCost(context.Background(), uuid.New())
	var nfErr *service.NotFoundError
	require.True(t, errors.As(err, &nfErr))
}
