package alerts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldstock/internal/core/apperror"
	"fieldstock/internal/core/id"
	"fieldstock/internal/core/types"
	"fieldstock/internal/domain/stock"
)

type fakeAlertRepo struct {
	active  *Alert
	created []*Alert
	updated []*Alert
}

func (f *fakeAlertRepo) Create(ctx context.Context, a *Alert) error {
	f.created = append(f.created, a)
	f.active = a
	return nil
}

func (f *fakeAlertRepo) Update(ctx context.Context, a *Alert) error {
	f.updated = append(f.updated, a)
	return nil
}

func (f *fakeAlertRepo) ActiveByItem(ctx context.Context, companyID, itemID id.ID) (*Alert, error) {
	if f.active == nil || f.active.Resolved() {
		return nil, apperror.NewNotFound("alert", itemID.String())
	}
	return f.active, nil
}

func (f *fakeAlertRepo) List(ctx context.Context, companyID id.ID, filter ListFilter) ([]Alert, error) {
	if f.active == nil {
		return nil, nil
	}
	return []Alert{*f.active}, nil
}

var _ Repository = (*fakeAlertRepo)(nil)

type fakeAvailability struct {
	available types.Quantity
	err       error
}

func (f *fakeAvailability) Availability(ctx context.Context, companyID, itemID id.ID, locationID *id.ID) (types.Quantity, types.Quantity, types.Quantity, error) {
	return f.available, 0, f.available, f.err
}

type fakeItemReader struct {
	name    string
	reorder types.Quantity
	err     error
}

func (f *fakeItemReader) ReorderPoint(ctx context.Context, companyID, itemID id.ID) (string, types.Quantity, error) {
	return f.name, f.reorder, f.err
}

func TestRecalculateOpensAlertOnLowStock(t *testing.T) {
	repo := &fakeAlertRepo{}
	svc := NewService(repo,
		&fakeAvailability{available: types.NewQuantityFromInt(3)},
		&fakeItemReader{name: "Copper Pipe", reorder: types.NewQuantityFromInt(5)})

	err := svc.RecalculateItem(context.Background(), id.New(), id.New())
	require.NoError(t, err)
	require.Len(t, repo.created, 1)

	alert := repo.created[0]
	assert.Equal(t, stock.StatusLowStock, alert.Status)
	assert.Equal(t, types.NewQuantityFromInt(3), alert.Available)
	assert.Contains(t, alert.Message, "Copper Pipe")
	assert.Contains(t, alert.Message, "low on stock")
	assert.Nil(t, alert.ResolvedAt)
}

func TestRecalculateOpensAlertOnOutOfStock(t *testing.T) {
	repo := &fakeAlertRepo{}
	svc := NewService(repo,
		&fakeAvailability{available: 0},
		&fakeItemReader{name: "Breaker Panel", reorder: types.NewQuantityFromInt(5)})

	err := svc.RecalculateItem(context.Background(), id.New(), id.New())
	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	assert.Equal(t, stock.StatusOutOfStock, repo.created[0].Status)
	assert.Equal(t, "Breaker Panel is out of stock", repo.created[0].Message)
}

func TestRecalculateUpdatesOnLevelChange(t *testing.T) {
	itemID := id.New()
	companyID := id.New()
	repo := &fakeAlertRepo{active: &Alert{
		ID:        id.New(),
		CompanyID: companyID,
		ItemID:    itemID,
		Status:    stock.StatusLowStock,
		Available: types.NewQuantityFromInt(2),
	}}
	svc := NewService(repo,
		&fakeAvailability{available: 0},
		&fakeItemReader{name: "Copper Pipe", reorder: types.NewQuantityFromInt(5)})

	err := svc.RecalculateItem(context.Background(), companyID, itemID)
	require.NoError(t, err)
	assert.Empty(t, repo.created)
	require.Len(t, repo.updated, 1)
	assert.Equal(t, stock.StatusOutOfStock, repo.updated[0].Status)
	assert.Equal(t, types.Quantity(0), repo.updated[0].Available)
}

func TestRecalculateNoChangeNoWrite(t *testing.T) {
	itemID := id.New()
	companyID := id.New()
	repo := &fakeAlertRepo{active: &Alert{
		ID:        id.New(),
		CompanyID: companyID,
		ItemID:    itemID,
		Status:    stock.StatusLowStock,
		Available: types.NewQuantityFromInt(2),
	}}
	svc := NewService(repo,
		&fakeAvailability{available: types.NewQuantityFromInt(2)},
		&fakeItemReader{name: "Copper Pipe", reorder: types.NewQuantityFromInt(5)})

	require.NoError(t, svc.RecalculateItem(context.Background(), companyID, itemID))
	assert.Empty(t, repo.created)
	assert.Empty(t, repo.updated)
}

func TestRecalculateResolvesOnRecovery(t *testing.T) {
	itemID := id.New()
	companyID := id.New()
	repo := &fakeAlertRepo{active: &Alert{
		ID:        id.New(),
		CompanyID: companyID,
		ItemID:    itemID,
		Status:    stock.StatusLowStock,
		Available: types.NewQuantityFromInt(2),
	}}
	svc := NewService(repo,
		&fakeAvailability{available: types.NewQuantityFromInt(40)},
		&fakeItemReader{name: "Copper Pipe", reorder: types.NewQuantityFromInt(5)})

	require.NoError(t, svc.RecalculateItem(context.Background(), companyID, itemID))
	require.Len(t, repo.updated, 1)
	assert.True(t, repo.updated[0].Resolved())
}

func TestRecalculateHealthyItemWithoutAlertIsNoop(t *testing.T) {
	repo := &fakeAlertRepo{}
	svc := NewService(repo,
		&fakeAvailability{available: types.NewQuantityFromInt(40)},
		&fakeItemReader{name: "Copper Pipe", reorder: types.NewQuantityFromInt(5)})

	require.NoError(t, svc.RecalculateItem(context.Background(), id.New(), id.New()))
	assert.Empty(t, repo.created)
	assert.Empty(t, repo.updated)
}

func TestRecalculateDeletedItemIsNoop(t *testing.T) {
	repo := &fakeAlertRepo{}
	svc := NewService(repo,
		&fakeAvailability{available: 0},
		&fakeItemReader{err: apperror.NewNotFound("item", "gone")})

	require.NoError(t, svc.RecalculateItem(context.Background(), id.New(), id.New()))
	assert.Empty(t, repo.created)
}
