package stock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldstock/internal/core/entity"
	"fieldstock/internal/core/id"
	"fieldstock/internal/core/types"
	"fieldstock/internal/domain/catalogs/item"
	"fieldstock/internal/domain/catalogs/location"
)

type fakeRecords struct {
	records []entity.StockRecord
	err     error
}

func (f *fakeRecords) StockRecords(ctx context.Context, companyID id.ID, itemID *id.ID) ([]entity.StockRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	if itemID == nil {
		return f.records, nil
	}
	var out []entity.StockRecord
	for _, r := range f.records {
		if r.ItemID == *itemID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeAllocations struct {
	movements []entity.Movement
	err       error
}

func (f *fakeAllocations) ListAllocations(ctx context.Context, companyID id.ID) ([]entity.Movement, error) {
	return f.movements, f.err
}

type fakeItems struct {
	items []*item.Item
}

func (f *fakeItems) GetByID(ctx context.Context, companyID, itemID id.ID) (*item.Item, error) {
	for _, it := range f.items {
		if it.ID == itemID {
			return it, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeItems) List(ctx context.Context, companyID id.ID, filter item.ListFilter) ([]*item.Item, error) {
	return f.items, nil
}

type fakeLocations struct {
	locations []*location.Location
}

func (f *fakeLocations) List(ctx context.Context, companyID id.ID) ([]*location.Location, error) {
	return f.locations, nil
}

func newTestItem(name string, reorderUnits int64) *item.Item {
	companyID := id.New()
	it := item.NewItem(companyID, name)
	if reorderUnits > 0 {
		rp := types.NewQuantityFromInt(reorderUnits)
		it.ReorderPoint = &rp
	}
	return it
}

// brokenViews makes every view probe fail so the service takes the
// in-memory fallback path.
func brokenViews() *fakeReadModel {
	return &fakeReadModel{probeErrs: map[string]error{
		ViewItemSummary: errors.New("view missing"),
		ViewStockStatus: errors.New("view missing"),
	}}
}

func newFallbackService(items *fakeItems, records *fakeRecords, allocs *fakeAllocations) *Service {
	readModel := brokenViews()
	return NewService(readModel, records, allocs, items, &fakeLocations{}, NewProber(readModel))
}

func TestSummariesFallbackIncludesZeroStockItems(t *testing.T) {
	companyID := id.New()
	stocked := newTestItem("Copper Pipe", 5)
	unstocked := newTestItem("Rare Valve", 5)
	locationID := id.New()

	svc := newFallbackService(
		&fakeItems{items: []*item.Item{stocked, unstocked}},
		&fakeRecords{records: []entity.StockRecord{
			{CompanyID: companyID, ItemID: stocked.ID, LocationID: locationID, Quantity: types.NewQuantityFromInt(12), UpdatedAt: time.Now()},
		}},
		&fakeAllocations{},
	)

	rows, err := svc.Summaries(context.Background(), companyID, SummaryFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byName := map[string]ItemSummary{}
	for _, row := range rows {
		byName[row.Name] = row
	}

	assert.Equal(t, types.NewQuantityFromInt(12), byName["Copper Pipe"].OnHand)
	assert.Equal(t, StatusInStock, byName["Copper Pipe"].Status)
	assert.Equal(t, 1, byName["Copper Pipe"].LocationCount)

	// Items with no stock rows still appear, classified out of stock.
	assert.Equal(t, types.NewQuantityFromInt(0), byName["Rare Valve"].OnHand)
	assert.Equal(t, StatusOutOfStock, byName["Rare Valve"].Status)
}

func TestSummariesSubtractsReservations(t *testing.T) {
	companyID := id.New()
	it := newTestItem("Breaker Panel", 5)
	locationID := id.New()

	reserve := entity.NewMovement(companyID, it.ID, locationID, entity.MovementAllocation, types.NewQuantityFromInt(95))

	svc := newFallbackService(
		&fakeItems{items: []*item.Item{it}},
		&fakeRecords{records: []entity.StockRecord{
			{CompanyID: companyID, ItemID: it.ID, LocationID: locationID, Quantity: types.NewQuantityFromInt(100)},
		}},
		&fakeAllocations{movements: []entity.Movement{reserve}},
	)

	rows, err := svc.Summaries(context.Background(), companyID, SummaryFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, types.NewQuantityFromInt(100), rows[0].OnHand)
	assert.Equal(t, types.NewQuantityFromInt(95), rows[0].Reserved)
	assert.Equal(t, types.NewQuantityFromInt(5), rows[0].Available)
	assert.Equal(t, StatusLowStock, rows[0].Status)
}

func TestSummariesReleaseNetsOutReservation(t *testing.T) {
	companyID := id.New()
	it := newTestItem("Cable Drum", 5)
	locationID := id.New()

	reserve := entity.NewMovement(companyID, it.ID, locationID, entity.MovementAllocation, types.NewQuantityFromInt(40))
	release := entity.NewMovement(companyID, it.ID, locationID, entity.MovementAllocation, types.NewQuantityFromInt(-40))

	svc := newFallbackService(
		&fakeItems{items: []*item.Item{it}},
		&fakeRecords{records: []entity.StockRecord{
			{CompanyID: companyID, ItemID: it.ID, LocationID: locationID, Quantity: types.NewQuantityFromInt(50)},
		}},
		&fakeAllocations{movements: []entity.Movement{reserve, release}},
	)

	rows, err := svc.Summaries(context.Background(), companyID, SummaryFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, types.NewQuantityFromInt(0), rows[0].Reserved)
	assert.Equal(t, types.NewQuantityFromInt(50), rows[0].Available)
}

func TestSummariesReservedDegradesToZero(t *testing.T) {
	companyID := id.New()
	it := newTestItem("Fuse Box", 5)
	locationID := id.New()

	svc := newFallbackService(
		&fakeItems{items: []*item.Item{it}},
		&fakeRecords{records: []entity.StockRecord{
			{CompanyID: companyID, ItemID: it.ID, LocationID: locationID, Quantity: types.NewQuantityFromInt(30)},
		}},
		&fakeAllocations{err: errors.New("allocations table unreachable")},
	)

	// The read still succeeds; reserved is reported as zero.
	rows, err := svc.Summaries(context.Background(), companyID, SummaryFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, types.NewQuantityFromInt(0), rows[0].Reserved)
	assert.Equal(t, types.NewQuantityFromInt(30), rows[0].Available)
}

func TestSummariesStatusFilter(t *testing.T) {
	companyID := id.New()
	healthy := newTestItem("Conduit", 5)
	low := newTestItem("Junction Box", 5)
	locationID := id.New()

	svc := newFallbackService(
		&fakeItems{items: []*item.Item{healthy, low}},
		&fakeRecords{records: []entity.StockRecord{
			{CompanyID: companyID, ItemID: healthy.ID, LocationID: locationID, Quantity: types.NewQuantityFromInt(50)},
			{CompanyID: companyID, ItemID: low.ID, LocationID: locationID, Quantity: types.NewQuantityFromInt(2)},
		}},
		&fakeAllocations{},
	)

	rows, err := svc.Summaries(context.Background(), companyID, SummaryFilter{Status: StatusLowStock})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Junction Box", rows[0].Name)
}

func TestSummariesViewPathClassifiesIdentically(t *testing.T) {
	companyID := id.New()

	// The view returns raw totals; the service must classify them with the
	// same rule as the fallback path.
	readModel := &fakeReadModel{
		probeErrs: map[string]error{},
		summaries: []ItemSummary{
			{ItemID: id.New(), Name: "Sensor", ReorderPoint: types.NewQuantityFromInt(5),
				OnHand: types.NewQuantityFromInt(100), Reserved: types.NewQuantityFromInt(95)},
		},
	}
	svc := NewService(readModel, &fakeRecords{}, &fakeAllocations{}, &fakeItems{}, &fakeLocations{}, NewProber(readModel))

	rows, err := svc.Summaries(context.Background(), companyID, SummaryFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, types.NewQuantityFromInt(5), rows[0].Available)
	assert.Equal(t, StatusLowStock, rows[0].Status)
}

func TestSummariesViewFailureFallsBack(t *testing.T) {
	companyID := id.New()
	it := newTestItem("Relay", 5)
	locationID := id.New()

	// Probe succeeds but the actual read fails: the service must demote
	// the view and still answer from base tables.
	readModel := &fakeReadModel{
		probeErrs:    map[string]error{},
		summariesErr: errors.New("view query failed"),
	}
	svc := NewService(readModel,
		&fakeRecords{records: []entity.StockRecord{
			{CompanyID: companyID, ItemID: it.ID, LocationID: locationID, Quantity: types.NewQuantityFromInt(9)},
		}},
		&fakeAllocations{},
		&fakeItems{items: []*item.Item{it}},
		&fakeLocations{},
		NewProber(readModel))

	rows, err := svc.Summaries(context.Background(), companyID, SummaryFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, types.NewQuantityFromInt(9), rows[0].OnHand)

	verdicts, _ := svc.prober.Snapshot()
	assert.Equal(t, VerdictUnavailable, verdicts[ViewItemSummary])
}

func TestAvailabilityPerLocation(t *testing.T) {
	companyID := id.New()
	it := newTestItem("Valve", 5)
	vanID := id.New()
	warehouseID := id.New()

	reserve := entity.NewMovement(companyID, it.ID, vanID, entity.MovementAllocation, types.NewQuantityFromInt(3))

	svc := newFallbackService(
		&fakeItems{items: []*item.Item{it}},
		&fakeRecords{records: []entity.StockRecord{
			{CompanyID: companyID, ItemID: it.ID, LocationID: vanID, Quantity: types.NewQuantityFromInt(10)},
			{CompanyID: companyID, ItemID: it.ID, LocationID: warehouseID, Quantity: types.NewQuantityFromInt(20)},
		}},
		&fakeAllocations{movements: []entity.Movement{reserve}},
	)

	ctx := context.Background()

	onHand, reserved, available, err := svc.Availability(ctx, companyID, it.ID, &vanID)
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromInt(10), onHand)
	assert.Equal(t, types.NewQuantityFromInt(3), reserved)
	assert.Equal(t, types.NewQuantityFromInt(7), available)

	// Across all locations.
	onHand, reserved, available, err = svc.Availability(ctx, companyID, it.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromInt(30), onHand)
	assert.Equal(t, types.NewQuantityFromInt(3), reserved)
	assert.Equal(t, types.NewQuantityFromInt(27), available)
}

func TestDiagnoseReportsBrokenViews(t *testing.T) {
	readModel := &fakeReadModel{probeErrs: map[string]error{
		ViewStockStatus: errors.New("does not exist"),
	}}
	svc := NewService(readModel, &fakeRecords{}, &fakeAllocations{}, &fakeItems{}, &fakeLocations{}, NewProber(readModel))

	report := svc.Diagnose(context.Background(), id.New())
	require.NotNil(t, report)
	assert.Equal(t, "ok", report.Views[ViewItemSummary])
	assert.NotEqual(t, "ok", report.Views[ViewStockStatus])
	assert.True(t, report.Tables["inventory_items"])
	assert.NotEmpty(t, report.Recommendations)
}

func TestSummariesViewPathNormalizesDefaults(t *testing.T) {
	companyID := id.New()

	// The view emits an unset reorder point as zero and the raw allocation
	// sum, which can be negative after over-releases. Both must normalize
	// to the same values the fallback path produces.
	readModel := &fakeReadModel{
		probeErrs: map[string]error{},
		summaries: []ItemSummary{
			{ItemID: id.New(), Name: "Gasket", ReorderPoint: 0,
				OnHand: types.NewQuantityFromInt(3), Reserved: types.NewQuantityFromInt(-5)},
		},
	}
	svc := NewService(readModel, &fakeRecords{}, &fakeAllocations{}, &fakeItems{}, &fakeLocations{}, NewProber(readModel))

	rows, err := svc.Summaries(context.Background(), companyID, SummaryFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, DefaultReorderPoint, rows[0].ReorderPoint)
	assert.Equal(t, types.NewQuantityFromInt(0), rows[0].Reserved)
	assert.Equal(t, types.NewQuantityFromInt(3), rows[0].Available)
	assert.Equal(t, StatusLowStock, rows[0].Status)
}

// applyToRecords mirrors the repository contract: every movement that
// counts toward on-hand folds into the matching stock row.
func applyToRecords(records []entity.StockRecord, m entity.Movement) []entity.StockRecord {
	if !m.CountsTowardOnHand() {
		return records
	}
	for i := range records {
		if records[i].ItemID == m.ItemID && records[i].LocationID == m.LocationID {
			records[i].Quantity += m.SignedQuantity()
			return records
		}
	}
	return append(records, entity.StockRecord{
		CompanyID:  m.CompanyID,
		ItemID:     m.ItemID,
		LocationID: m.LocationID,
		Quantity:   m.SignedQuantity(),
	})
}

func TestOnHandMatchesLedgerFoldAtEveryPrefix(t *testing.T) {
	companyID := id.New()
	it := newTestItem("Copper Pipe", 5)
	locationID := id.New()

	history := []entity.Movement{
		entity.NewMovement(companyID, it.ID, locationID, entity.MovementPurchase, types.NewQuantityFromInt(100)),
		entity.NewMovement(companyID, it.ID, locationID, entity.MovementAllocation, types.NewQuantityFromInt(95)),
		entity.NewMovement(companyID, it.ID, locationID, entity.MovementUsage, types.NewQuantityFromInt(30)),
		entity.NewMovement(companyID, it.ID, locationID, entity.MovementReturn, types.NewQuantityFromInt(5)),
		entity.NewMovement(companyID, it.ID, locationID, entity.MovementAdjustment, types.NewQuantityFromInt(-2)),
		entity.NewMovement(companyID, it.ID, locationID, entity.MovementAllocation, types.NewQuantityFromInt(-95)),
	}

	var records []entity.StockRecord
	var allocations []entity.Movement
	ctx := context.Background()

	for i, m := range history {
		records = applyToRecords(records, m)
		if m.Type == entity.MovementAllocation {
			allocations = append(allocations, m)
		}

		svc := newFallbackService(
			&fakeItems{items: []*item.Item{it}},
			&fakeRecords{records: records},
			&fakeAllocations{movements: allocations},
		)

		prefix := history[:i+1]
		onHand, err := svc.OnHand(ctx, companyID, it.ID, &locationID)
		require.NoError(t, err, "prefix %d", i+1)
		assert.Equal(t, entity.FoldOnHand(prefix), onHand, "prefix %d", i+1)

		_, reserved, available, err := svc.Availability(ctx, companyID, it.ID, &locationID)
		require.NoError(t, err, "prefix %d", i+1)
		assert.Equal(t, Available(onHand, reserved), available, "prefix %d", i+1)
		assert.False(t, available.IsNegative(), "prefix %d", i+1)
	}
}

type fakeReplayer struct {
	folds map[ReservedKey]types.Quantity
	err   error
}

func (f *fakeReplayer) Replay(ctx context.Context, companyID, itemID, locationID id.ID) (types.Quantity, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.folds[ReservedKey{ItemID: itemID, LocationID: locationID}], nil
}

func TestDiagnoseFlagsLedgerDrift(t *testing.T) {
	companyID := id.New()
	itemID := id.New()
	locationID := id.New()

	readModel := &fakeReadModel{probeErrs: map[string]error{}}
	records := &fakeRecords{records: []entity.StockRecord{
		{CompanyID: companyID, ItemID: itemID, LocationID: locationID, Quantity: types.NewQuantityFromInt(10)},
	}}
	replayer := &fakeReplayer{folds: map[ReservedKey]types.Quantity{
		{ItemID: itemID, LocationID: locationID}: types.NewQuantityFromInt(7),
	}}

	svc := NewService(readModel, records, &fakeAllocations{}, &fakeItems{}, &fakeLocations{}, NewProber(readModel)).
		WithReplayer(replayer)

	report := svc.Diagnose(context.Background(), companyID)
	require.Len(t, report.LedgerChecks, 1)
	assert.False(t, report.LedgerChecks[0].Match)
	assert.Equal(t, types.NewQuantityFromInt(10), report.LedgerChecks[0].Recorded)
	assert.Equal(t, types.NewQuantityFromInt(7), report.LedgerChecks[0].Replayed)
	assert.NotEmpty(t, report.Recommendations)

	// A row whose replay matches is reported healthy.
	replayer.folds[ReservedKey{ItemID: itemID, LocationID: locationID}] = types.NewQuantityFromInt(10)
	report = svc.Diagnose(context.Background(), companyID)
	require.Len(t, report.LedgerChecks, 1)
	assert.True(t, report.LedgerChecks[0].Match)
}
