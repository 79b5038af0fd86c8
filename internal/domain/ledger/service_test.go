package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "fieldstock/internal/core/context"
	"fieldstock/internal/core/entity"
	"fieldstock/internal/core/id"
	"fieldstock/internal/core/types"
)

type fakeRepo struct {
	appended  []entity.Movement
	appendErr error

	movements []entity.Movement
	listErr   error
}

func (f *fakeRepo) Append(ctx context.Context, m *entity.Movement) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, *m)
	return nil
}

func (f *fakeRepo) List(ctx context.Context, companyID id.ID, filter MovementFilter) ([]entity.Movement, error) {
	return f.movements, f.listErr
}

func (f *fakeRepo) ListByItemLocation(ctx context.Context, companyID, itemID, locationID id.ID) ([]entity.Movement, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []entity.Movement
	for _, m := range f.movements {
		if m.ItemID == itemID && m.LocationID == locationID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListAllocations(ctx context.Context, companyID id.ID) ([]entity.Movement, error) {
	var out []entity.Movement
	for _, m := range f.movements {
		if m.Type == entity.MovementAllocation {
			out = append(out, m)
		}
	}
	return out, f.listErr
}

func (f *fakeRepo) HasItemReferences(ctx context.Context, companyID, itemID id.ID) (bool, error) {
	return len(f.movements) > 0, nil
}

func (f *fakeRepo) DeleteItemReferences(ctx context.Context, companyID, itemID id.ID) error {
	return nil
}

var _ Repository = (*fakeRepo)(nil)

type fakeNotifier struct {
	calls []id.ID
	err   error
}

func (f *fakeNotifier) RecalculateItem(ctx context.Context, companyID, itemID id.ID) error {
	f.calls = append(f.calls, itemID)
	return f.err
}

func TestAppendFillsGeneratedFields(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, nil, nil)

	ctx := appctx.WithUser(context.Background(), &appctx.UserContext{UserID: "tech-7", CompanyID: id.New().String()})

	note := "van restock"
	m := &entity.Movement{
		CompanyID:  id.New(),
		ItemID:     id.New(),
		LocationID: id.New(),
		Type:       entity.MovementPurchase,
		Quantity:   types.NewQuantityFromInt(10),
		Note:       &note,
	}

	out, err := svc.Append(ctx, m)
	require.NoError(t, err)
	assert.False(t, id.IsNil(out.ID))
	assert.False(t, out.CreatedAt.IsZero())
	assert.Equal(t, "tech-7", out.CreatedBy)

	// Caller-set fields survive.
	require.NotNil(t, out.Note)
	assert.Equal(t, "van restock", *out.Note)

	require.Len(t, repo.appended, 1)
	assert.Equal(t, out.ID, repo.appended[0].ID)
}

func TestAppendRejectsInvalidMovement(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, nil, nil)

	m := &entity.Movement{
		CompanyID:  id.New(),
		ItemID:     id.New(),
		LocationID: id.New(),
		Type:       entity.MovementUsage,
		Quantity:   types.NewQuantityFromInt(-5),
	}

	_, err := svc.Append(context.Background(), m)
	require.Error(t, err)
	assert.Empty(t, repo.appended)
}

func TestAppendNotifierFailureDoesNotFailAppend(t *testing.T) {
	repo := &fakeRepo{}
	notifier := &fakeNotifier{err: errors.New("alert store down")}
	svc := NewService(repo, notifier, nil)

	m := entity.NewMovement(id.New(), id.New(), id.New(), entity.MovementUsage, types.NewQuantityFromInt(2))

	_, err := svc.Append(context.Background(), &m)
	require.NoError(t, err)
	require.Len(t, notifier.calls, 1)
	assert.Equal(t, m.ItemID, notifier.calls[0])
}

func TestAppendRepoFailure(t *testing.T) {
	repo := &fakeRepo{appendErr: errors.New("insert failed")}
	notifier := &fakeNotifier{}
	svc := NewService(repo, notifier, nil)

	m := entity.NewMovement(id.New(), id.New(), id.New(), entity.MovementReturn, types.NewQuantityFromInt(1))

	_, err := svc.Append(context.Background(), &m)
	require.Error(t, err)
	// No alert recompute for a movement that was never written.
	assert.Empty(t, notifier.calls)
}

func TestReleaseAllocation(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, nil, nil)

	companyID := id.New()
	itemID := id.New()
	locationID := id.New()
	workOrderID := id.New()

	out, err := svc.ReleaseAllocation(context.Background(), companyID, itemID, locationID,
		types.NewQuantityFromInt(4), &workOrderID, nil)
	require.NoError(t, err)

	assert.Equal(t, entity.MovementAllocation, out.Type)
	assert.Equal(t, types.NewQuantityFromInt(-4), out.Quantity)
	require.NotNil(t, out.WorkOrderID)
	assert.Equal(t, workOrderID, *out.WorkOrderID)

	_, err = svc.ReleaseAllocation(context.Background(), companyID, itemID, locationID,
		types.NewQuantityFromInt(-4), nil, nil)
	assert.Error(t, err)
	_, err = svc.ReleaseAllocation(context.Background(), companyID, itemID, locationID, 0, nil, nil)
	assert.Error(t, err)
}

func TestReplay(t *testing.T) {
	companyID := id.New()
	itemID := id.New()
	locationID := id.New()

	mk := func(mType entity.MovementType, units int64) entity.Movement {
		return entity.NewMovement(companyID, itemID, locationID, mType, types.NewQuantityFromInt(units))
	}

	repo := &fakeRepo{movements: []entity.Movement{
		mk(entity.MovementPurchase, 100),
		mk(entity.MovementAllocation, 95),
		mk(entity.MovementUsage, 20),
	}}
	svc := NewService(repo, nil, nil)

	onHand, err := svc.Replay(context.Background(), companyID, itemID, locationID)
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromInt(80), onHand)
}
