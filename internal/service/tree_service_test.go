package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/dto"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTreeSvc(f *fixture) service.TreeService {
	return service.NewTreeService(f.productions, f.records, f.masters)
}

func TestCreateRecord_Root(t *testing.T) {
	f := newFixture()
	svc := buildTreeSvc(f)
	p := f.addProduction(false)
	process := f.addProcess("gutting")

	resp, err := svc.CreateRecord(context.Background(), dto.CreateRecordRequest{
		ProductionID: p.ID.String(),
		ProcessID:    process.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, p.ID.String(), resp.ProductionID)
	assert.Nil(t, resp.ParentRecordID)
	assert.Equal(t, "gutting", resp.Process)
}

func TestCreateRecord_MissingParentIsValidationError(t *testing.T) {
	f := newFixture()
	svc := buildTreeSvc(f)
	p := f.addProduction(false)
	process := f.addProcess("cut")

	_, err := svc.CreateRecord(context.Background(), dto.CreateRecordRequest{
		ProductionID:   p.ID.String(),
		ProcessID:      process.ID.String(),
		ParentRecordID: strPtr(uuid.NewString()),
	})
	var vErr *service.ValidationError
	require.True(t, errors.As(err, &vErr), "expected validation error, got %v", err)
}

func TestCreateRecord_ParentFromAnotherProduction(t *testing.T) {
	f := newFixture()
	svc := buildTreeSvc(f)
	p1 := f.addProduction(false)
	p2 := f.addProduction(false)
	parent := f.addRecord(p2.ID, nil)
	process := f.addProcess("cut")

	_, err := svc.CreateRecord(context.Background(), dto.CreateRecordRequest{
		ProductionID:   p1.ID.String(),
		ProcessID:      process.ID.String(),
		ParentRecordID: strPtr(parent.ID.String()),
	})
	var vErr *service.ValidationError
	require.True(t, errors.As(err, &vErr))
}

func TestCreateRecord_ClosedProduction(t *testing.T) {
	f := newFixture()
	svc := buildTreeSvc(f)
	p := f.addProduction(true)
	process := f.addProcess("cut")

	_, err := svc.CreateRecord(context.Background(), dto.CreateRecordRequest{
		ProductionID: p.ID.String(),
		ProcessID:    process.ID.String(),
	})
	var cErr *service.ConflictError
	require.True(t, errors.As(err, &cErr))
}

func TestCloseProduction_Twice(t *testing.T) {
	f := newFixture()
	svc := buildTreeSvc(f)
	p := f.addProduction(false)

	resp, err := svc.CloseProduction(context.Background(), p.ID)
	require.NoError(t, err)
	require.NotNil(t, resp.ClosedAt)

	_, err = svc.CloseProduction(context.Background(), p.ID)
	var cErr *service.ConflictError
	require.True(t, errors.As(err, &cErr))
}

func TestDeleteProduction_WithRecords(t *testing.T) {
	f := newFixture()
	svc := buildTreeSvc(f)
	p := f.addProduction(false)
	root := f.addRecord(p.ID, nil)
	child := f.addRecord(p.ID, &root.ID)

	err := svc.DeleteProduction(context.Background(), p.ID)
	var cErr *service.ConflictError
	require.True(t, errors.As(err, &cErr))

	// Still blocked while a nested record survives as a re-rooted orphan.
	require.NoError(t, svc.DeleteRecord(context.Background(), root.ID))
	err = svc.DeleteProduction(context.Background(), p.ID)
	require.True(t, errors.As(err, &cErr))

	require.NoError(t, svc.DeleteRecord(context.Background(), child.ID))
	require.NoError(t, svc.DeleteProduction(context.Background(), p.ID))
}

func TestDeleteRecord_BlockedByInputs(t *testing.T) {
	f := newFixture()
	svc := buildTreeSvc(f)
	p := f.addProduction(false)
	rec := f.addRecord(p.ID, nil)
	f.addInput(rec.ID, f.addBox("20"))

	err := svc.DeleteRecord(context.Background(), rec.ID)
	var cErr *service.ConflictError
	require.True(t, errors.As(err, &cErr))
}

func TestDeleteRecord_BlockedByDownstreamConsumption(t *testing.T) {
	f := newFixture()
	svc := buildTreeSvc(f)
	p := f.addProduction(false)
	parent := f.addRecord(p.ID, nil)
	child := f.addRecord(p.ID, &parent.ID)
	out := f.addOutput(parent.ID, "50")
	f.addConsumption(child.ID, out.ID, "10")

	err := svc.DeleteRecord(context.Background(), parent.ID)
	var cErr *service.ConflictError
	require.True(t, errors.As(err, &cErr))
}

func TestDeleteRecord_ReparentsChildren(t *testing.T) {
	f := newFixture()
	svc := buildTreeSvc(f)
	p := f.addProduction(false)
	parent := f.addRecord(p.ID, nil)
	child := f.addRecord(p.ID, &parent.ID)

	require.NoError(t, svc.DeleteRecord(context.Background(), parent.ID))

	// Child survives as a new root.
	got, err := svc.GetRecord(context.Background(), child.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ParentRecordID)

	_, err = svc.GetRecord(context.Background(), parent.ID)
	var nfErr *service.NotFoundError
	require.True(t, errors.As(err, &nfErr))
}

func TestListDescendants_BreadthFirst(t *testing.T) {
	f := newFixture()
	svc := buildTreeSvc(f)
	p := f.addProduction(false)
	root := f.addRecord(p.ID, nil)
	childA := f.addRecord(p.ID, &root.ID)
	childB := f.addRecord(p.ID, &root.ID)
	grandchild := f.addRecord(p.ID, &childA.ID)

	resp, err := svc.ListDescendants(context.Background(), root.ID)
	require.NoError(t, err)
	require.Len(t, resp.Records, 4)
	assert.Equal(t, root.ID.String(), resp.Records[0].ID)
	assert.Equal(t, childA.ID.String(), resp.Records[1].ID)
	assert.Equal(t, childB.ID.String(), resp.Records[2].ID)
	assert.Equal(t, grandchild.ID.String(), resp.Records[3].ID)
}
