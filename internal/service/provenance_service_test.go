package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/dto"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildProvenanceSvc(f *fixture) service.ProvenanceService {
	return service.NewProvenanceService(f.outputs, f.inputs, f.boxes)
}

func TestAddSource_TypeReferenceMismatch(t *testing.T) {
	f := newFixture()
	svc := buildProvenanceSvc(f)
	p := f.addProduction(false)
	rec := f.addRecord(p.ID, nil)
	out := f.addOutput(rec.ID, "10")
	in := f.addInput(rec.ID, f.addBox("20"))

	var vErr *service.ValidationError

	// stock_box without an input reference
	_, err := svc.AddSource(context.Background(), out.ID, dto.SourceSpec{
		SourceType:          "stock_box",
		ContributedWeightKg: decPtr("10"),
	})
	require.True(t, errors.As(err, &vErr))

	// parent_output carrying an input reference
	_, err = svc.AddSource(context.Background(), out.ID, dto.SourceSpec{
		SourceType:          "parent_output",
		ProductionInputID:   strPtr(in.ID.String()),
		ContributedWeightKg: decPtr("10"),
	})
	require.True(t, errors.As(err, &vErr))

	// neither weight nor percentage
	_, err = svc.AddSource(context.Background(), out.ID, dto.SourceSpec{
		SourceType:        "stock_box",
		ProductionInputID: strPtr(in.ID.String()),
	})
	require.True(t, errors.As(err, &vErr))
}

func TestAddSource_CrossRecordInputRejected(t *testing.T) {
	f := newFixture()
	svc := buildProvenanceSvc(f)
	p := f.addProduction(false)
	recA := f.addRecord(p.ID, nil)
	recB := f.addRecord(p.ID, nil)
	out := f.addOutput(recA.ID, "10")
	foreignInput := f.addInput(recB.ID, f.addBox("20"))

	_, err := svc.AddSource(context.Background(), out.ID, dto.SourceSpec{
		SourceType:          "stock_box",
		ProductionInputID:   strPtr(foreignInput.ID.String()),
		ContributedWeightKg: decPtr("10"),
	})
	var vErr *service.ValidationError
	require.True(t, errors.As(err, &vErr))
}

func TestAddSource_PercentageConvertsToWeight(t *testing.T) {
	f := newFixture()
	svc := buildProvenanceSvc(f)
	p := f.addProduction(false)
	rec := f.addRecord(p.ID, nil)
	out := f.addOutput(rec.ID, "40")
	in := f.addInput(rec.ID, f.addBox("50"))

	resp, err := svc.AddSource(context.Background(), out.ID, dto.SourceSpec{
		SourceType:        "stock_box",
		ProductionInputID: strPtr(in.ID.String()),
		ContributionPct:   decPtr("25"),
	})
	require.NoError(t, err)
	// 25% of 40 kg = 10 kg, stored as the canonical weight.
	require.NotNil(t, resp.ContributedWeightKg)
	assert.True(t, resp.ContributedWeightKg.Equal(decimal.RequireFromString("10")))
	require.NotNil(t, resp.ContributionPct)
	assert.True(t, resp.ContributionPct.Equal(decimal.RequireFromString("25")))
}

func TestTrace_SingleLevel(t *testing.T) {
	f := newFixture()
	svc := buildProvenanceSvc(f)
	p := f.addProduction(false)
	rec := f.addRecord(p.ID, nil)
	boxA := f.addBox("20")
	boxB := f.addBox("10")
	inA := f.addInput(rec.ID, boxA)
	inB := f.addInput(rec.ID, boxB)
	out := f.addOutput(rec.ID, "30")

	for _, spec := range []dto.SourceSpec{
		{SourceType: "stock_box", ProductionInputID: strPtr(inA.ID.String()), ContributedWeightKg: decPtr("20")},
		{SourceType: "stock_box", ProductionInputID: strPtr(inB.ID.String()), ContributedWeightKg: decPtr("10")},
	} {
		_, err := svc.AddSource(context.Background(), out.ID, spec)
		require.NoError(t, err)
	}

	resp, err := svc.Trace(context.Background(), out.ID)
	require.NoError(t, err)
	require.Len(t, resp.Entries, 2)
	assert.True(t, resp.TotalWeightKg.Equal(decimal.RequireFromString("30")))

	byBox := map[string]decimal.Decimal{}
	for _, e := range resp.Entries {
		byBox[e.BoxID] = e.WeightKg
	}
	assert.True(t, byBox[boxA.ID.String()].Equal(decimal.RequireFromString("20")))
	assert.True(t, byBox[boxB.ID.String()].Equal(decimal.RequireFromString("10")))
}

func TestTrace_MultiLevel(t *testing.T) {
	f := newFixture()
	svc := buildProvenanceSvc(f)
	p := f.addProduction(false)
	root := f.addRecord(p.ID, nil)
	child := f.addRecord(p.ID, &root.ID)

	boxA := f.addBox("20")
	inA := f.addInput(root.ID, boxA)
	rootOut := f.addOutput(root.ID, "30")
	_, err := svc.AddSource(context.Background(), rootOut.ID, dto.SourceSpec{
		SourceType:          "stock_box",
		ProductionInputID:   strPtr(inA.ID.String()),
		ContributedWeightKg: decPtr("30"),
	})
	require.NoError(t, err)

	cons := f.addConsumption(child.ID, rootOut.ID, "10")
	childOut := f.addOutput(child.ID, "8.5")
	_, err = svc.AddSource(context.Background(), childOut.ID, dto.SourceSpec{
		SourceType:                    "parent_output",
		ProductionOutputConsumptionID: strPtr(cons.ID.String()),
		ContributedWeightKg:           decPtr("8.5"),
	})
	require.NoError(t, err)

	// The child's 8.5 kg traces fully back to box A through the parent output.
	resp, err := svc.Trace(context.Background(), childOut.ID)
	require.NoError(t, err)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, boxA.ID.String(), resp.Entries[0].BoxID)
	assert.True(t, resp.Entries[0].WeightKg.Equal(decimal.RequireFromString("8.5")))
	assert.True(t, resp.TotalWeightKg.Equal(decimal.RequireFromString("8.5")))
}

func TestTrace_ImplicitAttributionFallback(t *testing.T) {
	f := newFixture()
	svc := buildProvenanceSvc(f)
	p := f.addProduction(false)
	rec := f.addRecord(p.ID, nil)
	boxA := f.addBox("10")
	boxB := f.addBox("30")
	f.addInput(rec.ID, boxA)
	f.addInput(rec.ID, boxB)
	out := f.addOutput(rec.ID, "20")
	// No explicit sources: the 20 kg split 1:3 over the record's intake.

	resp, err := svc.Trace(context.Background(), out.ID)
	require.NoError(t, err)
	require.Len(t, resp.Entries, 2)

	byBox := map[string]decimal.Decimal{}
	for _, e := range resp.Entries {
		byBox[e.BoxID] = e.WeightKg
	}
	assert.True(t, byBox[boxA.ID.String()].Equal(decimal.RequireFromString("5")))
	assert.True(t, byBox[boxB.ID.String()].Equal(decimal.RequireFromString("15")))
	assert.True(t, resp.TotalWeightKg.Equal(decimal.RequireFromString("20")))
}
