package service

import (
	"context"
	"sort"

	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/dto"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/model"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ProvenanceService maintains the source ledger of each output (which box or
// parent output it came from, in what proportion) and answers the central
// traceability question: which raw-material boxes does a finished output
// ultimately come from, and how much did each contribute.
type ProvenanceService interface {
	AddSource(ctx context.Context, outputID uuid.UUID, spec dto.SourceSpec) (*dto.SourceResponse, error)
	ListSources(ctx context.Context, outputID uuid.UUID) ([]dto.SourceResponse, error)

	// PrepareSource validates a spec against its output and builds the ledger
	// row without persisting it. IntakeService uses it to create sources in
	// the same transaction as the output itself.
	PrepareSource(ctx context.Context, out *model.ProductionOutput, spec dto.SourceSpec) (*model.ProductionOutputSource, error)

	Trace(ctx context.Context, outputID uuid.UUID) (*dto.TraceResponse, error)
}

type provenanceService struct {
	outputs repository.OutputRepository
	inputs  repository.InputRepository
	boxes   repository.BoxRepository
}

func NewProvenanceService(
	outputs repository.OutputRepository,
	inputs repository.InputRepository,
	boxes repository.BoxRepository,
) ProvenanceService {
	return &provenanceService{outputs: outputs, inputs: inputs, boxes: boxes}
}

func (s *provenanceService) AddSource(ctx context.Context, outputID uuid.UUID, spec dto.SourceSpec) (*dto.SourceResponse, error) {
	out, err := s.outputs.FindByID(ctx, outputID)
	if err != nil {
		return nil, newNotFound("output %s not found", outputID)
	}
	src, err := s.PrepareSource(ctx, out, spec)
	if err != nil {
		return nil, err
	}
	db, err := s.outputs.DB(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.outputs.CreateSourceTx(db, src); err != nil {
		return nil, err
	}
	return sourceToResponse(src), nil
}

func (s *provenanceService) ListSources(ctx context.Context, outputID uuid.UUID) ([]dto.SourceResponse, error) {
	if _, err := s.outputs.FindByID(ctx, outputID); err != nil {
		return nil, newNotFound("output %s not found", outputID)
	}
	sources, err := s.outputs.ListSourcesByOutput(ctx, outputID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.SourceResponse, len(sources))
	for i := range sources {
		resp[i] = *sourceToResponse(&sources[i])
	}
	return resp, nil
}

func (s *provenanceService) PrepareSource(ctx context.Context, out *model.ProductionOutput, spec dto.SourceSpec) (*model.ProductionOutputSource, error) {
	src := &model.ProductionOutputSource{
		ProductionOutputID: out.ID,
		SourceType:         spec.SourceType,
		ContributedBoxes:   spec.ContributedBoxes,
	}

	switch spec.SourceType {
	case model.SourceStockBox:
		if spec.ProductionInputID == nil || spec.ProductionOutputConsumptionID != nil {
			return nil, newValidation("stock_box sources require production_input_id and no production_output_consumption_id")
		}
		inputID, err := uuid.Parse(*spec.ProductionInputID)
		if err != nil {
			return nil, newValidation("invalid production_input_id")
		}
		in, err := s.inputs.FindByID(ctx, inputID)
		if err != nil {
			return nil, newNotFound("input %s not found", inputID)
		}
		if in.ProductionRecordID != out.ProductionRecordID {
			return nil, newValidation("input %s belongs to a different record than output %s", inputID, out.ID)
		}
		src.ProductionInputID = &inputID

	case model.SourceParentOutput:
		if spec.ProductionOutputConsumptionID == nil || spec.ProductionInputID != nil {
			return nil, newValidation("parent_output sources require production_output_consumption_id and no production_input_id")
		}
		consumptionID, err := uuid.Parse(*spec.ProductionOutputConsumptionID)
		if err != nil {
			return nil, newValidation("invalid production_output_consumption_id")
		}
		cons, err := s.outputs.FindConsumptionByID(ctx, consumptionID)
		if err != nil {
			return nil, newNotFound("consumption %s not found", consumptionID)
		}
		if cons.ProductionRecordID != out.ProductionRecordID {
			return nil, newValidation("consumption %s belongs to a different record than output %s", consumptionID, out.ID)
		}
		src.ProductionOutputConsumptionID = &consumptionID

	default:
		return nil, newValidation("unknown source_type %q", spec.SourceType)
	}

	if spec.ContributedWeightKg == nil && spec.ContributionPct == nil {
		return nil, newValidation("either contributed_weight_kg or contribution_pct is required")
	}

	// Weight is canonical; when only a percentage is given, derive the weight
	// from the output's own weight, then recompute the stored percentage.
	weight := spec.ContributedWeightKg
	if weight == nil {
		w := out.WeightKg.Mul(*spec.ContributionPct).Div(hundred)
		weight = &w
	}
	if weight.IsNegative() {
		return nil, newValidation("contributed_weight_kg cannot be negative")
	}
	src.ContributedWeightKg = weight

	if out.WeightKg.IsPositive() {
		pct := weight.Div(out.WeightKg).Mul(hundred).Round(4)
		src.ContributionPct = &pct
	} else {
		src.ContributionPct = spec.ContributionPct
	}
	return src, nil
}

// Trace resolves an output back to its originating stock boxes. Explicit
// source ledger entries drive the attribution; a record without any sources
// falls back to implicit attribution over everything the record took in
// (its inputs and consumptions, weighted by weight). Shares are normalized
// so that the traced weights always sum to the output's own weight.
func (s *provenanceService) Trace(ctx context.Context, outputID uuid.UUID) (*dto.TraceResponse, error) {
	out, err := s.outputs.FindByID(ctx, outputID)
	if err != nil {
		return nil, newNotFound("output %s not found", outputID)
	}

	shares, err := s.traceShares(ctx, out, map[uuid.UUID]bool{})
	if err != nil {
		return nil, err
	}

	boxIDs := make([]uuid.UUID, 0, len(shares))
	for id := range shares {
		boxIDs = append(boxIDs, id)
	}
	sort.Slice(boxIDs, func(i, j int) bool { return boxIDs[i].String() < boxIDs[j].String() })

	resp := &dto.TraceResponse{
		OutputID: outputID.String(),
		Entries:  make([]dto.TraceEntry, 0, len(boxIDs)),
	}
	for _, boxID := range boxIDs {
		weight := shares[boxID].Round(3)
		entry := dto.TraceEntry{BoxID: boxID.String(), WeightKg: weight}
		if box, err := s.boxes.FindBoxByID(ctx, boxID); err == nil {
			entry.LotCode = box.LotCode
		}
		resp.Entries = append(resp.Entries, entry)
		resp.TotalWeightKg = resp.TotalWeightKg.Add(weight)
	}
	return resp, nil
}

// traceShares returns, per originating box, the weight it contributed to out.
// The returned weights sum to out.WeightKg (unless nothing at all feeds the
// output, in which case the map is empty). visited guards against cycles in
// corrupt data.
func (s *provenanceService) traceShares(ctx context.Context, out *model.ProductionOutput, visited map[uuid.UUID]bool) (map[uuid.UUID]decimal.Decimal, error) {
	result := map[uuid.UUID]decimal.Decimal{}
	if visited[out.ID] {
		return result, nil
	}
	visited[out.ID] = true
	defer delete(visited, out.ID)

	type share struct {
		boxID       *uuid.UUID
		consumption *model.ProductionOutputConsumption
		weight      decimal.Decimal
	}
	var shares []share

	sources, err := s.outputs.ListSourcesByOutput(ctx, out.ID)
	if err != nil {
		return nil, err
	}

	if len(sources) > 0 {
		for i := range sources {
			src := &sources[i]
			weight := decimal.Zero
			if src.ContributedWeightKg != nil {
				weight = *src.ContributedWeightKg
			} else if src.ContributionPct != nil {
				weight = out.WeightKg.Mul(*src.ContributionPct).Div(hundred)
			}

			switch src.SourceType {
			case model.SourceStockBox:
				if src.ProductionInputID == nil {
					continue
				}
				in, err := s.inputs.FindByID(ctx, *src.ProductionInputID)
				if err != nil {
					return nil, err
				}
				boxID := in.BoxID
				shares = append(shares, share{boxID: &boxID, weight: weight})
			case model.SourceParentOutput:
				if src.ProductionOutputConsumptionID == nil {
					continue
				}
				cons, err := s.outputs.FindConsumptionByID(ctx, *src.ProductionOutputConsumptionID)
				if err != nil {
					return nil, err
				}
				shares = append(shares, share{consumption: cons, weight: weight})
			}
		}
	} else {
		// Implicit attribution: split over the record's whole intake.
		inputs, err := s.inputs.ListByRecord(ctx, out.ProductionRecordID)
		if err != nil {
			return nil, err
		}
		for i := range inputs {
			boxID := inputs[i].BoxID
			weight := decimal.Zero
			if inputs[i].Box != nil {
				weight = inputs[i].Box.WeightKg
			}
			shares = append(shares, share{boxID: &boxID, weight: weight})
		}
		consumptions, err := s.outputs.ListConsumptionsByRecord(ctx, out.ProductionRecordID)
		if err != nil {
			return nil, err
		}
		for i := range consumptions {
			shares = append(shares, share{consumption: &consumptions[i], weight: consumptions[i].ConsumedWeightKg})
		}
	}

	total := decimal.Zero
	for _, sh := range shares {
		total = total.Add(sh.weight)
	}
	if total.IsZero() {
		return result, nil
	}

	for _, sh := range shares {
		allocated := out.WeightKg.Mul(sh.weight).Div(total)
		if sh.boxID != nil {
			result[*sh.boxID] = result[*sh.boxID].Add(allocated)
			continue
		}

		parent, err := s.outputs.FindByID(ctx, sh.consumption.ProductionOutputID)
		if err != nil {
			return nil, err
		}
		sub, err := s.traceShares(ctx, parent, visited)
		if err != nil {
			return nil, err
		}
		subTotal := decimal.Zero
		for _, w := range sub {
			subTotal = subTotal.Add(w)
		}
		if subTotal.IsZero() {
			continue
		}
		for boxID, w := range sub {
			result[boxID] = result[boxID].Add(allocated.Mul(w).Div(subTotal))
		}
	}
	return result, nil
}

func sourceToResponse(src *model.ProductionOutputSource) *dto.SourceResponse {
	resp := &dto.SourceResponse{
		ID:                  src.ID.String(),
		ProductionOutputID:  src.ProductionOutputID.String(),
		SourceType:          src.SourceType,
		ContributedWeightKg: src.ContributedWeightKg,
		ContributedBoxes:    src.ContributedBoxes,
		ContributionPct:     src.ContributionPct,
	}
	if src.ProductionInputID != nil {
		id := src.ProductionInputID.String()
		resp.ProductionInputID = &id
	}
	if src.ProductionOutputConsumptionID != nil {
		id := src.ProductionOutputConsumptionID.String()
		resp.ProductionOutputConsumptionID = &id
	}
	return resp
}
