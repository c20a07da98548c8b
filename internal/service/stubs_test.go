package service_test

import (
	"context"
	"errors"
	"time"

	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/dto"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/model"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var errNotFound = errors.New("not found")

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubProductionRepo is an in-memory ProductionRepository.
type stubProductionRepo struct {
	productions map[uuid.UUID]*model.Production
}

func (r *stubProductionRepo) Create(_ context.Context, p *model.Production) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productions[p.ID] = p
	return nil
}

func (r *stubProductionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Production, error) {
	p, ok := r.productions[id]
	if !ok {
		return nil, errNotFound
	}
	return p, nil
}

func (r *stubProductionRepo) List(_ context.Context, _ dto.ProductionFilter) ([]model.Production, int64, error) {
	var out []model.Production
	for _, p := range r.productions {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductionRepo) Update(_ context.Context, p *model.Production) error {
	if _, ok := r.productions[p.ID]; !ok {
		return errNotFound
	}
	r.productions[p.ID] = p
	return nil
}

func (r *stubProductionRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.productions, id)
	return nil
}

func (r *stubProductionRepo) DB(_ context.Context) (*gorm.DB, error) { return nil, nil }

var _ repository.ProductionRepository = (*stubProductionRepo)(nil)

// stubRecordRepo is an in-memory RecordRepository. Creation order is kept so
// list methods are deterministic.
type stubRecordRepo struct {
	records map[uuid.UUID]*model.ProductionRecord
	order   []uuid.UUID

	inputs  *stubInputRepo
	outputs *stubOutputRepo
}

func (r *stubRecordRepo) Create(_ context.Context, rec *model.ProductionRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	r.records[rec.ID] = rec
	r.order = append(r.order, rec.ID)
	return nil
}

func (r *stubRecordRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ProductionRecord, error) {
	rec, ok := r.records[id]
	if !ok {
		return nil, errNotFound
	}
	return rec, nil
}

func (r *stubRecordRepo) ListChildren(_ context.Context, parentID uuid.UUID) ([]model.ProductionRecord, error) {
	var out []model.ProductionRecord
	for _, id := range r.order {
		rec := r.records[id]
		if rec != nil && rec.ParentRecordID != nil && *rec.ParentRecordID == parentID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *stubRecordRepo) ListRoots(_ context.Context, productionID uuid.UUID) ([]model.ProductionRecord, error) {
	var out []model.ProductionRecord
	for _, id := range r.order {
		rec := r.records[id]
		if rec != nil && rec.ProductionID == productionID && rec.ParentRecordID == nil {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *stubRecordRepo) ListByProduction(_ context.Context, productionID uuid.UUID) ([]model.ProductionRecord, error) {
	var out []model.ProductionRecord
	for _, id := range r.order {
		rec := r.records[id]
		if rec != nil && rec.ProductionID == productionID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *stubRecordRepo) CountInputs(_ context.Context, recordID uuid.UUID) (int64, error) {
	var n int64
	for _, in := range r.inputs.items {
		if in.ProductionRecordID == recordID {
			n++
		}
	}
	return n, nil
}

func (r *stubRecordRepo) CountDownstreamConsumptions(_ context.Context, recordID uuid.UUID) (int64, error) {
	var n int64
	for _, out := range r.outputs.outputs {
		if out.ProductionRecordID != recordID {
			continue
		}
		for _, c := range r.outputs.consumptions {
			if c.ProductionOutputID == out.ID {
				n++
			}
		}
	}
	return n, nil
}

func (r *stubRecordRepo) ReparentChildrenTx(_ *gorm.DB, parentID uuid.UUID) error {
	for _, rec := range r.records {
		if rec.ParentRecordID != nil && *rec.ParentRecordID == parentID {
			rec.ParentRecordID = nil
		}
	}
	return nil
}

func (r *stubRecordRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.records, id)
	return nil
}

func (r *stubRecordRepo) DB(_ context.Context) (*gorm.DB, error) { return nil, nil }

var _ repository.RecordRepository = (*stubRecordRepo)(nil)

// stubInputRepo is an in-memory InputRepository.
type stubInputRepo struct {
	items []*model.ProductionInput
}

func (r *stubInputRepo) CreateTx(_ *gorm.DB, in *model.ProductionInput) error {
	if in.ID == uuid.Nil {
		in.ID = uuid.New()
	}
	r.items = append(r.items, in)
	return nil
}

func (r *stubInputRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ProductionInput, error) {
	for _, in := range r.items {
		if in.ID == id {
			return in, nil
		}
	}
	return nil, errNotFound
}

func (r *stubInputRepo) ListByRecord(_ context.Context, recordID uuid.UUID) ([]model.ProductionInput, error) {
	var out []model.ProductionInput
	for _, in := range r.items {
		if in.ProductionRecordID == recordID {
			out = append(out, *in)
		}
	}
	return out, nil
}

func (r *stubInputRepo) PairExists(_ context.Context, recordID, boxID uuid.UUID) (bool, error) {
	for _, in := range r.items {
		if in.ProductionRecordID == recordID && in.BoxID == boxID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubInputRepo) BoxInUse(_ context.Context, boxID uuid.UUID) (bool, error) {
	for _, in := range r.items {
		if in.BoxID == boxID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubInputRepo) DB(_ context.Context) (*gorm.DB, error) { return nil, nil }

var _ repository.InputRepository = (*stubInputRepo)(nil)

// stubOutputRepo is an in-memory OutputRepository covering outputs,
// consumptions and provenance sources.
type stubOutputRepo struct {
	outputs      []*model.ProductionOutput
	consumptions []*model.ProductionOutputConsumption
	sources      []*model.ProductionOutputSource

	records *stubRecordRepo
}

func (r *stubOutputRepo) CreateTx(_ *gorm.DB, out *model.ProductionOutput) error {
	if out.ID == uuid.Nil {
		out.ID = uuid.New()
	}
	r.outputs = append(r.outputs, out)
	return nil
}

func (r *stubOutputRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ProductionOutput, error) {
	for _, out := range r.outputs {
		if out.ID == id {
			return out, nil
		}
	}
	return nil, errNotFound
}

func (r *stubOutputRepo) ListByRecord(_ context.Context, recordID uuid.UUID) ([]model.ProductionOutput, error) {
	var out []model.ProductionOutput
	for _, o := range r.outputs {
		if o.ProductionRecordID == recordID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *stubOutputRepo) ListByProduction(_ context.Context, productionID uuid.UUID) ([]model.ProductionOutput, error) {
	var out []model.ProductionOutput
	for _, o := range r.outputs {
		rec, ok := r.records.records[o.ProductionRecordID]
		if ok && rec.ProductionID == productionID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *stubOutputRepo) FindForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.ProductionOutput, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubOutputRepo) SumConsumedTx(_ *gorm.DB, outputID uuid.UUID, exclude *uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, c := range r.consumptions {
		if c.ProductionOutputID != outputID {
			continue
		}
		if exclude != nil && c.ID == *exclude {
			continue
		}
		sum = sum.Add(c.ConsumedWeightKg)
	}
	return sum, nil
}

func (r *stubOutputRepo) SumConsumed(_ context.Context, outputID uuid.UUID) (decimal.Decimal, error) {
	return r.SumConsumedTx(nil, outputID, nil)
}

func (r *stubOutputRepo) CreateConsumptionTx(_ *gorm.DB, c *model.ProductionOutputConsumption) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.consumptions = append(r.consumptions, c)
	return nil
}

func (r *stubOutputRepo) SaveConsumptionTx(_ *gorm.DB, c *model.ProductionOutputConsumption) error {
	for i, existing := range r.consumptions {
		if existing.ID == c.ID {
			r.consumptions[i] = c
			return nil
		}
	}
	return errNotFound
}

func (r *stubOutputRepo) FindConsumptionByID(_ context.Context, id uuid.UUID) (*model.ProductionOutputConsumption, error) {
	for _, c := range r.consumptions {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, errNotFound
}

func (r *stubOutputRepo) ConsumptionPairExists(_ context.Context, recordID, outputID uuid.UUID) (bool, error) {
	for _, c := range r.consumptions {
		if c.ProductionRecordID == recordID && c.ProductionOutputID == outputID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubOutputRepo) ListConsumptionsByRecord(_ context.Context, recordID uuid.UUID) ([]model.ProductionOutputConsumption, error) {
	var out []model.ProductionOutputConsumption
	for _, c := range r.consumptions {
		if c.ProductionRecordID == recordID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubOutputRepo) CreateSourceTx(_ *gorm.DB, s *model.ProductionOutputSource) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sources = append(r.sources, s)
	return nil
}

func (r *stubOutputRepo) ListSourcesByOutput(_ context.Context, outputID uuid.UUID) ([]model.ProductionOutputSource, error) {
	var out []model.ProductionOutputSource
	for _, s := range r.sources {
		if s.ProductionOutputID == outputID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubOutputRepo) DB(_ context.Context) (*gorm.DB, error) { return nil, nil }

var _ repository.OutputRepository = (*stubOutputRepo)(nil)

// stubBoxRepo is an in-memory BoxRepository.
type stubBoxRepo struct {
	boxes   map[uuid.UUID]*model.Box
	pallets map[uuid.UUID]*model.Pallet
}

func (r *stubBoxRepo) CreateBox(_ context.Context, b *model.Box) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	r.boxes[b.ID] = b
	return nil
}

func (r *stubBoxRepo) FindBoxByID(_ context.Context, id uuid.UUID) (*model.Box, error) {
	b, ok := r.boxes[id]
	if !ok {
		return nil, errNotFound
	}
	return b, nil
}

func (r *stubBoxRepo) ListBoxes(_ context.Context, _ dto.BoxFilter) ([]model.Box, int64, error) {
	var out []model.Box
	for _, b := range r.boxes {
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func (r *stubBoxRepo) CreatePallet(_ context.Context, p *model.Pallet) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.pallets[p.ID] = p
	return nil
}

func (r *stubBoxRepo) ListPallets(_ context.Context) ([]model.Pallet, error) {
	var out []model.Pallet
	for _, p := range r.pallets {
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubBoxRepo) DB(_ context.Context) (*gorm.DB, error) { return nil, nil }

var _ repository.BoxRepository = (*stubBoxRepo)(nil)

// stubMasterRepo is an in-memory MasterRepository.
type stubMasterRepo struct {
	species   map[uuid.UUID]*model.Species
	zones     map[uuid.UUID]*model.CaptureZone
	processes map[uuid.UUID]*model.Process
	products  map[uuid.UUID]*model.Product
}

func (r *stubMasterRepo) CreateSpecies(_ context.Context, s *model.Species) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.species[s.ID] = s
	return nil
}

func (r *stubMasterRepo) FindSpeciesByID(_ context.Context, id uuid.UUID) (*model.Species, error) {
	s, ok := r.species[id]
	if !ok {
		return nil, errNotFound
	}
	return s, nil
}

func (r *stubMasterRepo) ListSpecies(_ context.Context) ([]model.Species, error) { return nil, nil }

func (r *stubMasterRepo) CreateCaptureZone(_ context.Context, z *model.CaptureZone) error {
	if z.ID == uuid.Nil {
		z.ID = uuid.New()
	}
	r.zones[z.ID] = z
	return nil
}

func (r *stubMasterRepo) FindCaptureZoneByID(_ context.Context, id uuid.UUID) (*model.CaptureZone, error) {
	z, ok := r.zones[id]
	if !ok {
		return nil, errNotFound
	}
	return z, nil
}

func (r *stubMasterRepo) ListCaptureZones(_ context.Context) ([]model.CaptureZone, error) {
	return nil, nil
}

func (r *stubMasterRepo) CreateProcess(_ context.Context, p *model.Process) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.processes[p.ID] = p
	return nil
}

func (r *stubMasterRepo) FindProcessByID(_ context.Context, id uuid.UUID) (*model.Process, error) {
	p, ok := r.processes[id]
	if !ok {
		return nil, errNotFound
	}
	return p, nil
}

func (r *stubMasterRepo) ListProcesses(_ context.Context) ([]model.Process, error) { return nil, nil }

func (r *stubMasterRepo) CreateProduct(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubMasterRepo) FindProductByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, errNotFound
	}
	return p, nil
}

func (r *stubMasterRepo) ListProducts(_ context.Context) ([]model.Product, error) { return nil, nil }

func (r *stubMasterRepo) DB(_ context.Context) (*gorm.DB, error) { return nil, nil }

var _ repository.MasterRepository = (*stubMasterRepo)(nil)

// stubCostRepo is an in-memory CostRepository.
type stubCostRepo struct {
	catalog map[uuid.UUID]*model.CostCatalog
	costs   []*model.ProductionCost

	records *stubRecordRepo
}

func (r *stubCostRepo) CreateCatalog(_ context.Context, c *model.CostCatalog) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.catalog[c.ID] = c
	return nil
}

func (r *stubCostRepo) FindCatalogByID(_ context.Context, id uuid.UUID) (*model.CostCatalog, error) {
	c, ok := r.catalog[id]
	if !ok {
		return nil, errNotFound
	}
	return c, nil
}

func (r *stubCostRepo) ListCatalog(_ context.Context) ([]model.CostCatalog, error) {
	var out []model.CostCatalog
	for _, c := range r.catalog {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCostRepo) UpdateCatalog(_ context.Context, c *model.CostCatalog) error {
	r.catalog[c.ID] = c
	return nil
}

func (r *stubCostRepo) CreateCost(_ context.Context, c *model.ProductionCost) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.costs = append(r.costs, c)
	return nil
}

func (r *stubCostRepo) FindCostByID(_ context.Context, id uuid.UUID) (*model.ProductionCost, error) {
	for _, c := range r.costs {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, errNotFound
}

func (r *stubCostRepo) ListCostsForProduction(_ context.Context, productionID uuid.UUID) ([]model.ProductionCost, error) {
	var out []model.ProductionCost
	for _, c := range r.costs {
		if c.ProductionID != nil && *c.ProductionID == productionID {
			out = append(out, *c)
			continue
		}
		if c.ProductionRecordID != nil {
			rec, ok := r.records.records[*c.ProductionRecordID]
			if ok && rec.ProductionID == productionID {
				out = append(out, *c)
			}
		}
	}
	return out, nil
}

func (r *stubCostRepo) ListCostsByRecord(_ context.Context, recordID uuid.UUID) ([]model.ProductionCost, error) {
	var out []model.ProductionCost
	for _, c := range r.costs {
		if c.ProductionRecordID != nil && *c.ProductionRecordID == recordID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubCostRepo) DeleteCost(_ context.Context, id uuid.UUID) error {
	for i, c := range r.costs {
		if c.ID == id {
			r.costs = append(r.costs[:i], r.costs[i+1:]...)
			return nil
		}
	}
	return errNotFound
}

func (r *stubCostRepo) DB(_ context.Context) (*gorm.DB, error) { return nil, nil }

var _ repository.CostRepository = (*stubCostRepo)(nil)

// stubUserRepo is an in-memory UserRepository.
type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, errNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, errNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	u, ok := r.users[id]
	if !ok {
		return errNotFound
	}
	u.Active = false
	return nil
}

func (r *stubUserRepo) DB(_ context.Context) (*gorm.DB, error) { return nil, nil }

var _ repository.UserRepository = (*stubUserRepo)(nil)

// ── Fixture ───────────────────────────────────────────────────────────────────

// fixture wires all stubs together the way the real repositories share one
// database.
type fixture struct {
	productions *stubProductionRepo
	records     *stubRecordRepo
	inputs      *stubInputRepo
	outputs     *stubOutputRepo
	boxes       *stubBoxRepo
	masters     *stubMasterRepo
	costs       *stubCostRepo
}

func newFixture() *fixture {
	inputs := &stubInputRepo{}
	records := &stubRecordRepo{records: map[uuid.UUID]*model.ProductionRecord{}, inputs: inputs}
	outputs := &stubOutputRepo{records: records}
	records.outputs = outputs
	return &fixture{
		productions: &stubProductionRepo{productions: map[uuid.UUID]*model.Production{}},
		records:     records,
		inputs:      inputs,
		outputs:     outputs,
		boxes:       &stubBoxRepo{boxes: map[uuid.UUID]*model.Box{}, pallets: map[uuid.UUID]*model.Pallet{}},
		masters: &stubMasterRepo{
			species:   map[uuid.UUID]*model.Species{},
			zones:     map[uuid.UUID]*model.CaptureZone{},
			processes: map[uuid.UUID]*model.Process{},
			products:  map[uuid.UUID]*model.Product{},
		},
		costs: &stubCostRepo{catalog: map[uuid.UUID]*model.CostCatalog{}, records: records},
	}
}

func (f *fixture) addProduction(closed bool) *model.Production {
	p := &model.Production{ID: uuid.New(), LotLabel: "LOT-1", OpenedAt: time.Now()}
	if closed {
		now := time.Now()
		p.ClosedAt = &now
	}
	f.productions.productions[p.ID] = p
	return p
}

func (f *fixture) addProcess(name string) *model.Process {
	p := &model.Process{ID: uuid.New(), Name: name, Active: true}
	f.masters.processes[p.ID] = p
	return p
}

func (f *fixture) addProduct(name string) *model.Product {
	p := &model.Product{ID: uuid.New(), Code: name, Name: name, Active: true}
	f.masters.products[p.ID] = p
	return p
}

func (f *fixture) addBox(weight string) *model.Box {
	product := f.addProduct("RAW")
	b := &model.Box{ID: uuid.New(), ProductID: product.ID, LotCode: "L-" + weight, WeightKg: decimal.RequireFromString(weight)}
	f.boxes.boxes[b.ID] = b
	return b
}

func (f *fixture) addRecord(productionID uuid.UUID, parentID *uuid.UUID) *model.ProductionRecord {
	process := f.addProcess("cut")
	rec := &model.ProductionRecord{
		ID:             uuid.New(),
		ProductionID:   productionID,
		ParentRecordID: parentID,
		ProcessID:      process.ID,
		Process:        process,
	}
	f.records.records[rec.ID] = rec
	f.records.order = append(f.records.order, rec.ID)
	return rec
}

func (f *fixture) addOutput(recordID uuid.UUID, weight string) *model.ProductionOutput {
	product := f.addProduct("OUT")
	out := &model.ProductionOutput{
		ID:                 uuid.New(),
		ProductionRecordID: recordID,
		ProductID:          product.ID,
		WeightKg:           decimal.RequireFromString(weight),
		Product:            product,
	}
	f.outputs.outputs = append(f.outputs.outputs, out)
	return out
}

func (f *fixture) addInput(recordID uuid.UUID, box *model.Box) *model.ProductionInput {
	in := &model.ProductionInput{
		ID:                 uuid.New(),
		ProductionRecordID: recordID,
		BoxID:              box.ID,
		Box:                box,
	}
	f.inputs.items = append(f.inputs.items, in)
	return in
}

func (f *fixture) addConsumption(recordID, outputID uuid.UUID, weight string) *model.ProductionOutputConsumption {
	c := &model.ProductionOutputConsumption{
		ID:                 uuid.New(),
		ProductionRecordID: recordID,
		ProductionOutputID: outputID,
		ConsumedWeightKg:   decimal.RequireFromString(weight),
	}
	f.outputs.consumptions = append(f.outputs.consumptions, c)
	return c
}

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
