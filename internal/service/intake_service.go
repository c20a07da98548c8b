package service

import (
	"context"

	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/dto"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/model"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// IntakeService registers what goes into and comes out of a processing
// record: raw-material boxes on roots, outputs on any record, and the
// consumption edges that link a child record to its parent's outputs.
type IntakeService interface {
	AddInput(ctx context.Context, recordID uuid.UUID, req dto.AddInputRequest) (*dto.InputResponse, error)
	ListInputs(ctx context.Context, recordID uuid.UUID) ([]dto.InputResponse, error)

	AddOutput(ctx context.Context, recordID uuid.UUID, req dto.AddOutputRequest) (*dto.OutputResponse, error)
	ListOutputs(ctx context.Context, recordID uuid.UUID) ([]dto.OutputResponse, error)

	RegisterConsumption(ctx context.Context, req dto.RegisterConsumptionRequest) (*dto.ConsumptionResponse, error)
	UpdateConsumption(ctx context.Context, id uuid.UUID, req dto.UpdateConsumptionRequest) (*dto.ConsumptionResponse, error)
	ListConsumptions(ctx context.Context, recordID uuid.UUID) ([]dto.ConsumptionResponse, error)
}

type intakeService struct {
	productions repository.ProductionRepository
	records     repository.RecordRepository
	inputs      repository.InputRepository
	outputs     repository.OutputRepository
	boxes       repository.BoxRepository
	masters     repository.MasterRepository
	provenance  ProvenanceService
}

func NewIntakeService(
	productions repository.ProductionRepository,
	records repository.RecordRepository,
	inputs repository.InputRepository,
	outputs repository.OutputRepository,
	boxes repository.BoxRepository,
	masters repository.MasterRepository,
	provenance ProvenanceService,
) IntakeService {
	return &intakeService{
		productions: productions,
		records:     records,
		inputs:      inputs,
		outputs:     outputs,
		boxes:       boxes,
		masters:     masters,
		provenance:  provenance,
	}
}

// openRecord fetches the record and rejects the operation when its production
// is already closed.
func (s *intakeService) openRecord(ctx context.Context, recordID uuid.UUID) (*model.ProductionRecord, error) {
	rec, err := s.records.FindByID(ctx, recordID)
	if err != nil {
		return nil, newNotFound("record %s not found", recordID)
	}
	production, err := s.productions.FindByID(ctx, rec.ProductionID)
	if err != nil {
		return nil, err
	}
	if production.IsClosed() {
		return nil, newConflict("production %s is closed", production.ID)
	}
	return rec, nil
}

// ── Inputs ────────────────────────────────────────────────────────────────────

func (s *intakeService) AddInput(ctx context.Context, recordID uuid.UUID, req dto.AddInputRequest) (*dto.InputResponse, error) {
	rec, err := s.openRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if !rec.IsRoot() {
		return nil, newValidation("raw material inputs are only allowed on root records")
	}

	boxID, err := uuid.Parse(req.BoxID)
	if err != nil {
		return nil, newValidation("invalid box_id")
	}
	box, err := s.boxes.FindBoxByID(ctx, boxID)
	if err != nil {
		return nil, newNotFound("box %s not found", boxID)
	}

	if exists, err := s.inputs.PairExists(ctx, recordID, boxID); err != nil {
		return nil, err
	} else if exists {
		return nil, newConflict("box %s is already registered on record %s", boxID, recordID)
	}
	// Single-use policy: a box enters the forest at most once.
	if used, err := s.inputs.BoxInUse(ctx, boxID); err != nil {
		return nil, err
	} else if used {
		return nil, newConflict("box %s is already consumed by another record", boxID)
	}

	in := &model.ProductionInput{
		ProductionRecordID: recordID,
		BoxID:              boxID,
		Box:                box,
	}
	db, err := s.inputs.DB(ctx)
	if err != nil {
		return nil, err
	}
	if err := runTx(ctx, db, func(tx *gorm.DB) error {
		return s.inputs.CreateTx(tx, in)
	}); err != nil {
		return nil, err
	}
	return inputToResponse(in), nil
}

func (s *intakeService) ListInputs(ctx context.Context, recordID uuid.UUID) ([]dto.InputResponse, error) {
	if _, err := s.records.FindByID(ctx, recordID); err != nil {
		return nil, newNotFound("record %s not found", recordID)
	}
	inputs, err := s.inputs.ListByRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.InputResponse, len(inputs))
	for i := range inputs {
		resp[i] = *inputToResponse(&inputs[i])
	}
	return resp, nil
}

// ── Outputs ───────────────────────────────────────────────────────────────────

func (s *intakeService) AddOutput(ctx context.Context, recordID uuid.UUID, req dto.AddOutputRequest) (*dto.OutputResponse, error) {
	if _, err := s.openRecord(ctx, recordID); err != nil {
		return nil, err
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, newValidation("invalid product_id")
	}
	product, err := s.masters.FindProductByID(ctx, productID)
	if err != nil {
		return nil, newNotFound("product %s not found", productID)
	}
	if req.WeightKg.IsNegative() {
		return nil, newValidation("weight_kg cannot be negative")
	}

	out := &model.ProductionOutput{
		ProductionRecordID: recordID,
		ProductID:          productID,
		LotCode:            req.LotCode,
		Boxes:              req.Boxes,
		WeightKg:           req.WeightKg,
		Product:            product,
	}

	db, err := s.outputs.DB(ctx)
	if err != nil {
		return nil, err
	}
	txErr := runTx(ctx, db, func(tx *gorm.DB) error {
		if err := s.outputs.CreateTx(tx, out); err != nil {
			return err
		}
		for _, spec := range req.Sources {
			src, err := s.provenance.PrepareSource(ctx, out, spec)
			if err != nil {
				return err
			}
			if err := s.outputs.CreateSourceTx(tx, src); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return outputToResponse(out), nil
}

func (s *intakeService) ListOutputs(ctx context.Context, recordID uuid.UUID) ([]dto.OutputResponse, error) {
	if _, err := s.records.FindByID(ctx, recordID); err != nil {
		return nil, newNotFound("record %s not found", recordID)
	}
	outputs, err := s.outputs.ListByRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.OutputResponse, len(outputs))
	for i := range outputs {
		resp[i] = *outputToResponse(&outputs[i])
	}
	return resp, nil
}

// ── Consumptions ──────────────────────────────────────────────────────────────

// RegisterConsumption creates the edge "child record consumed N kg of parent
// output". The remaining weight is computed inside a transaction holding a
// row lock on the output, so two concurrent registrations cannot both pass
// the availability check.
func (s *intakeService) RegisterConsumption(ctx context.Context, req dto.RegisterConsumptionRequest) (*dto.ConsumptionResponse, error) {
	recordID, err := uuid.Parse(req.ProductionRecordID)
	if err != nil {
		return nil, newValidation("invalid production_record_id")
	}
	outputID, err := uuid.Parse(req.ProductionOutputID)
	if err != nil {
		return nil, newValidation("invalid production_output_id")
	}
	if !req.ConsumedWeightKg.IsPositive() {
		return nil, newValidation("consumed_weight_kg must be positive")
	}

	rec, err := s.openRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}
	out, err := s.outputs.FindByID(ctx, outputID)
	if err != nil {
		return nil, newNotFound("output %s not found", outputID)
	}
	if rec.ParentRecordID == nil || *rec.ParentRecordID != out.ProductionRecordID {
		return nil, newValidation("output %s does not belong to the parent of record %s", outputID, recordID)
	}

	if exists, err := s.outputs.ConsumptionPairExists(ctx, recordID, outputID); err != nil {
		return nil, err
	} else if exists {
		return nil, newConflict("record %s already consumes output %s; update the existing consumption instead", recordID, outputID)
	}

	cons := &model.ProductionOutputConsumption{
		ProductionRecordID: recordID,
		ProductionOutputID: outputID,
		ConsumedWeightKg:   req.ConsumedWeightKg,
		ConsumedBoxes:      req.ConsumedBoxes,
		Notes:              req.Notes,
	}

	db, err := s.outputs.DB(ctx)
	if err != nil {
		return nil, err
	}
	var remaining decimal.Decimal
	txErr := runTx(ctx, db, func(tx *gorm.DB) error {
		locked, err := s.outputs.FindForUpdateTx(tx, outputID)
		if err != nil {
			return err
		}
		consumed, err := s.outputs.SumConsumedTx(tx, outputID, nil)
		if err != nil {
			return err
		}
		available := locked.WeightKg.Sub(consumed)
		if req.ConsumedWeightKg.GreaterThan(available) {
			return newConflict("consumption exceeds remaining weight of output %s: requested %s kg, remaining %s kg",
				outputID, req.ConsumedWeightKg, available)
		}
		remaining = available.Sub(req.ConsumedWeightKg)
		return s.outputs.CreateConsumptionTx(tx, cons)
	})
	if txErr != nil {
		return nil, txErr
	}
	return consumptionToResponse(cons, remaining), nil
}

func (s *intakeService) UpdateConsumption(ctx context.Context, id uuid.UUID, req dto.UpdateConsumptionRequest) (*dto.ConsumptionResponse, error) {
	cons, err := s.outputs.FindConsumptionByID(ctx, id)
	if err != nil {
		return nil, newNotFound("consumption %s not found", id)
	}
	if !req.ConsumedWeightKg.IsPositive() {
		return nil, newValidation("consumed_weight_kg must be positive")
	}
	if _, err := s.openRecord(ctx, cons.ProductionRecordID); err != nil {
		return nil, err
	}

	db, err := s.outputs.DB(ctx)
	if err != nil {
		return nil, err
	}
	var remaining decimal.Decimal
	txErr := runTx(ctx, db, func(tx *gorm.DB) error {
		locked, err := s.outputs.FindForUpdateTx(tx, cons.ProductionOutputID)
		if err != nil {
			return err
		}
		// Sum siblings only: this row is being replaced.
		consumed, err := s.outputs.SumConsumedTx(tx, cons.ProductionOutputID, &cons.ID)
		if err != nil {
			return err
		}
		available := locked.WeightKg.Sub(consumed)
		if req.ConsumedWeightKg.GreaterThan(available) {
			return newConflict("consumption exceeds remaining weight of output %s: requested %s kg, remaining %s kg",
				cons.ProductionOutputID, req.ConsumedWeightKg, available)
		}
		remaining = available.Sub(req.ConsumedWeightKg)

		cons.ConsumedWeightKg = req.ConsumedWeightKg
		cons.ConsumedBoxes = req.ConsumedBoxes
		if req.Notes != nil {
			cons.Notes = req.Notes
		}
		return s.outputs.SaveConsumptionTx(tx, cons)
	})
	if txErr != nil {
		return nil, txErr
	}
	return consumptionToResponse(cons, remaining), nil
}

func (s *intakeService) ListConsumptions(ctx context.Context, recordID uuid.UUID) ([]dto.ConsumptionResponse, error) {
	if _, err := s.records.FindByID(ctx, recordID); err != nil {
		return nil, newNotFound("record %s not found", recordID)
	}
	consumptions, err := s.outputs.ListConsumptionsByRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ConsumptionResponse, len(consumptions))
	for i := range consumptions {
		c := &consumptions[i]
		out, err := s.outputs.FindByID(ctx, c.ProductionOutputID)
		if err != nil {
			return nil, err
		}
		consumed, err := s.outputs.SumConsumed(ctx, c.ProductionOutputID)
		if err != nil {
			return nil, err
		}
		resp[i] = *consumptionToResponse(c, out.WeightKg.Sub(consumed))
	}
	return resp, nil
}

// ── Mappers ───────────────────────────────────────────────────────────────────

func inputToResponse(in *model.ProductionInput) *dto.InputResponse {
	resp := &dto.InputResponse{
		ID:        in.ID.String(),
		RecordID:  in.ProductionRecordID.String(),
		BoxID:     in.BoxID.String(),
		CreatedAt: in.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if in.Box != nil {
		resp.LotCode = in.Box.LotCode
		resp.WeightKg = in.Box.WeightKg
	}
	return resp
}

func outputToResponse(out *model.ProductionOutput) *dto.OutputResponse {
	resp := &dto.OutputResponse{
		ID:        out.ID.String(),
		RecordID:  out.ProductionRecordID.String(),
		ProductID: out.ProductID.String(),
		LotCode:   out.LotCode,
		Boxes:     out.Boxes,
		WeightKg:  out.WeightKg,
		CreatedAt: out.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if out.Product != nil {
		resp.Product = out.Product.Name
	}
	return resp
}

func consumptionToResponse(c *model.ProductionOutputConsumption, remaining decimal.Decimal) *dto.ConsumptionResponse {
	return &dto.ConsumptionResponse{
		ID:                 c.ID.String(),
		ProductionRecordID: c.ProductionRecordID.String(),
		ProductionOutputID: c.ProductionOutputID.String(),
		ConsumedWeightKg:   c.ConsumedWeightKg,
		ConsumedBoxes:      c.ConsumedBoxes,
		RemainingWeightKg:  remaining,
		Notes:              c.Notes,
		CreatedAt:          c.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
