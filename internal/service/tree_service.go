package service

import (
	"context"
	"time"

	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/dto"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/model"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TreeService manages production lots and the forest of processing records
// under them.
type TreeService interface {
	CreateProduction(ctx context.Context, req dto.CreateProductionRequest) (*dto.ProductionResponse, error)
	GetProduction(ctx context.Context, id uuid.UUID) (*dto.ProductionResponse, error)
	ListProductions(ctx context.Context, filter dto.ProductionFilter) (*dto.ProductionListResponse, error)
	CloseProduction(ctx context.Context, id uuid.UUID) (*dto.ProductionResponse, error)
	DeleteProduction(ctx context.Context, id uuid.UUID) error

	CreateRecord(ctx context.Context, req dto.CreateRecordRequest) (*dto.RecordResponse, error)
	GetRecord(ctx context.Context, id uuid.UUID) (*dto.RecordResponse, error)
	ListRecords(ctx context.Context, productionID uuid.UUID) ([]dto.RecordResponse, error)
	DeleteRecord(ctx context.Context, id uuid.UUID) error
	ListDescendants(ctx context.Context, rootID uuid.UUID) (*dto.DescendantsResponse, error)
}

type treeService struct {
	productions repository.ProductionRepository
	records     repository.RecordRepository
	masters     repository.MasterRepository
}

func NewTreeService(
	productions repository.ProductionRepository,
	records repository.RecordRepository,
	masters repository.MasterRepository,
) TreeService {
	return &treeService{productions: productions, records: records, masters: masters}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Productions ───────────────────────────────────────────────────────────────

func (s *treeService) CreateProduction(ctx context.Context, req dto.CreateProductionRequest) (*dto.ProductionResponse, error) {
	p := &model.Production{
		LotLabel: req.LotLabel,
		Notes:    req.Notes,
		OpenedAt: time.Now(),
	}

	if req.SpeciesID != nil {
		id, err := uuid.Parse(*req.SpeciesID)
		if err != nil {
			return nil, newValidation("invalid species_id")
		}
		sp, err := s.masters.FindSpeciesByID(ctx, id)
		if err != nil {
			return nil, newNotFound("species %s not found", id)
		}
		p.SpeciesID = &id
		p.Species = sp
	}
	if req.CaptureZoneID != nil {
		id, err := uuid.Parse(*req.CaptureZoneID)
		if err != nil {
			return nil, newValidation("invalid capture_zone_id")
		}
		zone, err := s.masters.FindCaptureZoneByID(ctx, id)
		if err != nil {
			return nil, newNotFound("capture zone %s not found", id)
		}
		p.CaptureZoneID = &id
		p.CaptureZone = zone
	}

	if err := s.productions.Create(ctx, p); err != nil {
		return nil, err
	}
	return productionToResponse(p), nil
}

func (s *treeService) GetProduction(ctx context.Context, id uuid.UUID) (*dto.ProductionResponse, error) {
	p, err := s.productions.FindByID(ctx, id)
	if err != nil {
		return nil, newNotFound("production %s not found", id)
	}
	return productionToResponse(p), nil
}

func (s *treeService) ListProductions(ctx context.Context, filter dto.ProductionFilter) (*dto.ProductionListResponse, error) {
	productions, total, err := s.productions.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.ProductionListResponse{
		Data:  make([]dto.ProductionResponse, len(productions)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range productions {
		resp.Data[i] = *productionToResponse(&productions[i])
	}
	return resp, nil
}

func (s *treeService) CloseProduction(ctx context.Context, id uuid.UUID) (*dto.ProductionResponse, error) {
	p, err := s.productions.FindByID(ctx, id)
	if err != nil {
		return nil, newNotFound("production %s not found", id)
	}
	if p.IsClosed() {
		return nil, newConflict("production %s is already closed", id)
	}
	now := time.Now()
	p.ClosedAt = &now
	if err := s.productions.Update(ctx, p); err != nil {
		return nil, err
	}
	return productionToResponse(p), nil
}

func (s *treeService) DeleteProduction(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productions.FindByID(ctx, id); err != nil {
		return newNotFound("production %s not found", id)
	}
	// Every record chain ends at a root, so an empty root set means an
	// empty production.
	roots, err := s.records.ListRoots(ctx, id)
	if err != nil {
		return err
	}
	if len(roots) > 0 {
		return newConflict("production %s still has records; delete them first", id)
	}
	return s.productions.Delete(ctx, id)
}

// ── Records ───────────────────────────────────────────────────────────────────

func (s *treeService) CreateRecord(ctx context.Context, req dto.CreateRecordRequest) (*dto.RecordResponse, error) {
	productionID, err := uuid.Parse(req.ProductionID)
	if err != nil {
		return nil, newValidation("invalid production_id")
	}
	processID, err := uuid.Parse(req.ProcessID)
	if err != nil {
		return nil, newValidation("invalid process_id")
	}

	production, err := s.productions.FindByID(ctx, productionID)
	if err != nil {
		return nil, newNotFound("production %s not found", productionID)
	}
	if production.IsClosed() {
		return nil, newConflict("production %s is closed", productionID)
	}

	process, err := s.masters.FindProcessByID(ctx, processID)
	if err != nil {
		return nil, newNotFound("process %s not found", processID)
	}

	rec := &model.ProductionRecord{
		ProductionID: productionID,
		ProcessID:    processID,
		StartedAt:    req.StartedAt,
		FinishedAt:   req.FinishedAt,
		Notes:        req.Notes,
		Process:      process,
	}

	if req.ParentRecordID != nil {
		parentID, err := uuid.Parse(*req.ParentRecordID)
		if err != nil {
			return nil, newValidation("invalid parent_record_id")
		}
		parent, err := s.records.FindByID(ctx, parentID)
		if err != nil {
			return nil, newValidation("parent record %s does not exist", parentID)
		}
		if parent.ProductionID != productionID {
			return nil, newValidation("parent record %s belongs to a different production", parentID)
		}
		rec.ParentRecordID = &parentID
	}

	if err := s.records.Create(ctx, rec); err != nil {
		return nil, err
	}
	return recordToResponse(rec), nil
}

func (s *treeService) GetRecord(ctx context.Context, id uuid.UUID) (*dto.RecordResponse, error) {
	rec, err := s.records.FindByID(ctx, id)
	if err != nil {
		return nil, newNotFound("record %s not found", id)
	}
	return recordToResponse(rec), nil
}

func (s *treeService) ListRecords(ctx context.Context, productionID uuid.UUID) ([]dto.RecordResponse, error) {
	if _, err := s.productions.FindByID(ctx, productionID); err != nil {
		return nil, newNotFound("production %s not found", productionID)
	}
	records, err := s.records.ListByProduction(ctx, productionID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.RecordResponse, len(records))
	for i := range records {
		resp[i] = *recordToResponse(&records[i])
	}
	return resp, nil
}

// DeleteRecord removes one node of the forest. Children are re-rooted
// (parent set to NULL) in the same transaction, never cascade-deleted.
// Deletion is blocked when it would destroy traceability: the record still
// holds raw-material inputs, or its outputs were consumed downstream.
func (s *treeService) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	if _, err := s.records.FindByID(ctx, id); err != nil {
		return newNotFound("record %s not found", id)
	}

	inputs, err := s.records.CountInputs(ctx, id)
	if err != nil {
		return err
	}
	if inputs > 0 {
		return newConflict("record %s has %d raw material inputs", id, inputs)
	}

	consumed, err := s.records.CountDownstreamConsumptions(ctx, id)
	if err != nil {
		return err
	}
	if consumed > 0 {
		return newConflict("outputs of record %s are consumed by other records", id)
	}

	db, err := s.records.DB(ctx)
	if err != nil {
		return err
	}
	return runTx(ctx, db, func(tx *gorm.DB) error {
		if err := s.records.ReparentChildrenTx(tx, id); err != nil {
			return err
		}
		return s.records.DeleteTx(tx, id)
	})
}

// ListDescendants walks the subtree under rootID breadth-first, the root
// itself first. The visited guard makes the walk terminate even on corrupt
// parent pointers.
func (s *treeService) ListDescendants(ctx context.Context, rootID uuid.UUID) (*dto.DescendantsResponse, error) {
	root, err := s.records.FindByID(ctx, rootID)
	if err != nil {
		return nil, newNotFound("record %s not found", rootID)
	}

	resp := &dto.DescendantsResponse{RootID: rootID.String()}
	visited := map[uuid.UUID]bool{}
	queue := []*model.ProductionRecord{root}

	for len(queue) > 0 {
		rec := queue[0]
		queue = queue[1:]
		if visited[rec.ID] {
			continue
		}
		visited[rec.ID] = true
		resp.Records = append(resp.Records, *recordToResponse(rec))

		children, err := s.records.ListChildren(ctx, rec.ID)
		if err != nil {
			return nil, err
		}
		for i := range children {
			queue = append(queue, &children[i])
		}
	}
	return resp, nil
}

// ── Mappers ───────────────────────────────────────────────────────────────────

func productionToResponse(p *model.Production) *dto.ProductionResponse {
	resp := &dto.ProductionResponse{
		ID:       p.ID.String(),
		LotLabel: p.LotLabel,
		Notes:    p.Notes,
		OpenedAt: p.OpenedAt.Format("2006-01-02T15:04:05Z"),
	}
	if p.SpeciesID != nil {
		id := p.SpeciesID.String()
		resp.SpeciesID = &id
	}
	if p.Species != nil {
		resp.Species = &p.Species.Name
	}
	if p.CaptureZone != nil {
		resp.CaptureZone = &p.CaptureZone.Name
	}
	if p.ClosedAt != nil {
		t := p.ClosedAt.Format("2006-01-02T15:04:05Z")
		resp.ClosedAt = &t
	}
	return resp
}

func recordToResponse(r *model.ProductionRecord) *dto.RecordResponse {
	resp := &dto.RecordResponse{
		ID:           r.ID.String(),
		ProductionID: r.ProductionID.String(),
		ProcessID:    r.ProcessID.String(),
		Notes:        r.Notes,
		CreatedAt:    r.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if r.ParentRecordID != nil {
		id := r.ParentRecordID.String()
		resp.ParentRecordID = &id
	}
	if r.Process != nil {
		resp.Process = r.Process.Name
	}
	if r.StartedAt != nil {
		t := r.StartedAt.Format("2006-01-02T15:04:05Z")
		resp.StartedAt = &t
	}
	if r.FinishedAt != nil {
		t := r.FinishedAt.Format("2006-01-02T15:04:05Z")
		resp.FinishedAt = &t
	}
	return resp
}
