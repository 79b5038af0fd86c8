package stock

import (
	"context"
	"time"

	"fieldstock/internal/core/apperror"
	"fieldstock/internal/core/entity"
	"fieldstock/internal/core/id"
	"fieldstock/internal/core/types"
	"fieldstock/internal/domain/catalogs/item"
	"fieldstock/pkg/logger"
)

// Tables checked by Diagnose.
var diagnosticTables = []string{"inventory_items", "inventory_locations", "inventory_stock", "inventory_movements"}

// Service derives stock availability. Reads prefer the precomputed views;
// when a view is missing or broken the same numbers are folded in memory
// from items, stock rows and open allocations. Both paths feed Classify,
// so a caller cannot tell which one answered.
type Service struct {
	readModel   ReadModelRepository
	records     RecordSource
	allocations AllocationSource
	items       ItemSource
	locations   LocationSource
	prober      *Prober
	replayer    LedgerReplayer
}

func NewService(
	readModel ReadModelRepository,
	records RecordSource,
	allocations AllocationSource,
	items ItemSource,
	locations LocationSource,
	prober *Prober,
) *Service {
	return &Service{
		readModel:   readModel,
		records:     records,
		allocations: allocations,
		items:       items,
		locations:   locations,
		prober:      prober,
	}
}

// WithReplayer enables the ledger consistency checks in Diagnose. Wired
// after construction because the ledger service depends on this one.
func (s *Service) WithReplayer(r LedgerReplayer) *Service {
	s.replayer = r
	return s
}

// Summaries returns the company-wide stock overview, one row per item.
// Items without any stock rows are included with zero on-hand.
func (s *Service) Summaries(ctx context.Context, companyID id.ID, filter SummaryFilter) ([]ItemSummary, error) {
	if s.prober.IsAvailable(ctx, companyID, ViewItemSummary) {
		rows, err := s.readModel.ItemSummaries(ctx, companyID, filter)
		if err == nil {
			s.prober.MarkAvailable(ViewItemSummary)
			return s.finishSummaries(rows, filter), nil
		}
		s.prober.MarkUnavailable(ViewItemSummary)
		logger.Warn(ctx, "summary view read failed, using fallback",
			"view", ViewItemSummary, "error", err)
	}

	rows, err := s.foldSummaries(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	return s.finishSummaries(rows, filter), nil
}

// LocationDetails returns the per-location breakdown for one item.
func (s *Service) LocationDetails(ctx context.Context, companyID, itemID id.ID) ([]LocationDetail, error) {
	if _, err := s.items.GetByID(ctx, companyID, itemID); err != nil {
		return nil, err
	}

	if s.prober.IsAvailable(ctx, companyID, ViewStockStatus) {
		rows, err := s.readModel.LocationDetails(ctx, companyID, itemID)
		if err == nil {
			s.prober.MarkAvailable(ViewStockStatus)
			for i := range rows {
				rows[i].Reserved = rows[i].Reserved.FloorZero()
				rows[i].Available = Available(rows[i].OnHand, rows[i].Reserved)
			}
			return rows, nil
		}
		s.prober.MarkUnavailable(ViewStockStatus)
		logger.Warn(ctx, "status view read failed, using fallback",
			"view", ViewStockStatus, "error", err)
	}

	return s.foldLocationDetails(ctx, companyID, itemID)
}

// OnHand folds the item's stock rows. A location narrows to one row; items
// with no rows are simply zero, not an error.
func (s *Service) OnHand(ctx context.Context, companyID, itemID id.ID, locationID *id.ID) (types.Quantity, error) {
	records, err := s.records.StockRecords(ctx, companyID, &itemID)
	if err != nil {
		return 0, apperror.NewInternal(err)
	}

	var total types.Quantity
	for _, r := range records {
		if locationID != nil && r.LocationID != *locationID {
			continue
		}
		total += r.Quantity
	}
	return total, nil
}

// Availability returns on-hand, reserved and available for one item,
// optionally narrowed to a location. Used by the transfer guard.
func (s *Service) Availability(ctx context.Context, companyID, itemID id.ID, locationID *id.ID) (onHand, reserved, available types.Quantity, err error) {
	onHand, err = s.OnHand(ctx, companyID, itemID, locationID)
	if err != nil {
		return 0, 0, 0, err
	}

	for key, qty := range s.reservedTotals(ctx, companyID) {
		if key.ItemID != itemID {
			continue
		}
		if locationID != nil && key.LocationID != *locationID {
			continue
		}
		reserved += qty
	}
	return onHand, reserved, Available(onHand, reserved), nil
}

// maxReplayChecks bounds how many stock rows Diagnose replays against the
// ledger per call.
const maxReplayChecks = 20

// Diagnose probes every view and base table of the stock read path for the
// company and verifies a sample of its stock rows against the movement
// ledger. Always returns a report, never an error.
func (s *Service) Diagnose(ctx context.Context, companyID id.ID) *DiagnosticReport {
	report := &DiagnosticReport{
		GeneratedAt: time.Now().UTC(),
		Views:       make(map[string]string, 2),
		Tables:      make(map[string]bool, len(diagnosticTables)),
	}

	for _, view := range []string{ViewItemSummary, ViewStockStatus} {
		if err := s.readModel.ProbeView(ctx, companyID, view); err != nil {
			report.Views[view] = err.Error()
			report.Recommendations = append(report.Recommendations,
				"recreate view "+view+" from the schema migrations")
		} else {
			report.Views[view] = "ok"
		}
	}
	for _, table := range diagnosticTables {
		err := s.readModel.ProbeTable(ctx, companyID, table)
		report.Tables[table] = err == nil
		if err != nil {
			report.Recommendations = append(report.Recommendations,
				"base table "+table+" unreachable, run migrations")
		}
	}

	s.checkLedger(ctx, companyID, report)
	return report
}

// checkLedger replays a sample of the company's stock rows from the
// movement ledger and records any row that diverged from its fold.
func (s *Service) checkLedger(ctx context.Context, companyID id.ID, report *DiagnosticReport) {
	if s.replayer == nil {
		return
	}

	records, err := s.records.StockRecords(ctx, companyID, nil)
	if err != nil {
		report.Recommendations = append(report.Recommendations,
			"stock rows unreachable, ledger verification skipped")
		return
	}
	if len(records) > maxReplayChecks {
		records = records[:maxReplayChecks]
	}

	for _, rec := range records {
		replayed, err := s.replayer.Replay(ctx, companyID, rec.ItemID, rec.LocationID)
		if err != nil {
			logger.Warn(ctx, "ledger replay failed during diagnostics",
				"item_id", rec.ItemID, "location_id", rec.LocationID, "error", err)
			continue
		}
		check := StockCheck{
			ItemID:     rec.ItemID,
			LocationID: rec.LocationID,
			Recorded:   rec.Quantity,
			Replayed:   replayed,
			Match:      replayed == rec.Quantity,
		}
		report.LedgerChecks = append(report.LedgerChecks, check)
		if !check.Match {
			report.Recommendations = append(report.Recommendations,
				"stock row diverges from the movement ledger for item "+rec.ItemID.String())
		}
	}
}

// finishSummaries normalizes raw rows, applies the canonical classifier and
// the status filter. The view emits an unset reorder point as zero and a
// raw allocation sum; both are normalized here so the two read paths return
// identical values, and Status always comes from Classify.
func (s *Service) finishSummaries(rows []ItemSummary, filter SummaryFilter) []ItemSummary {
	out := rows[:0]
	for _, row := range rows {
		if row.ReorderPoint <= 0 {
			row.ReorderPoint = DefaultReorderPoint
		}
		row.Reserved = row.Reserved.FloorZero()
		row.Available = Available(row.OnHand, row.Reserved)
		row.Status = Classify(row.Available, row.ReorderPoint)
		if filter.Status != "" && row.Status != filter.Status {
			continue
		}
		out = append(out, row)
	}
	return out
}

// foldSummaries is the in-memory fallback: list items, fold stock rows and
// open allocations client-side.
func (s *Service) foldSummaries(ctx context.Context, companyID id.ID, filter SummaryFilter) ([]ItemSummary, error) {
	items, err := s.items.List(ctx, companyID, item.ListFilter{
		Search:   filter.Search,
		Category: filter.Category,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	})
	if err != nil {
		return nil, err
	}

	records, err := s.records.StockRecords(ctx, companyID, nil)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	type totals struct {
		onHand    types.Quantity
		locations map[id.ID]struct{}
	}
	byItem := make(map[id.ID]*totals, len(items))
	for _, r := range records {
		t, ok := byItem[r.ItemID]
		if !ok {
			t = &totals{locations: make(map[id.ID]struct{})}
			byItem[r.ItemID] = t
		}
		t.onHand += r.Quantity
		t.locations[r.LocationID] = struct{}{}
	}

	reserved := make(map[id.ID]types.Quantity)
	for key, qty := range s.reservedTotals(ctx, companyID) {
		reserved[key.ItemID] += qty
	}

	rows := make([]ItemSummary, 0, len(items))
	for _, it := range items {
		row := ItemSummary{
			ItemID:        it.ID,
			Name:          it.Name,
			Category:      it.Category,
			UnitOfMeasure: it.UnitOfMeasure,
			ReorderPoint:  EffectiveReorderPoint(it.ReorderPoint),
			Reserved:      reserved[it.ID].FloorZero(),
		}
		if it.SKU != nil {
			row.SKU = *it.SKU
		}
		if t, ok := byItem[it.ID]; ok {
			row.OnHand = t.onHand
			row.LocationCount = len(t.locations)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *Service) foldLocationDetails(ctx context.Context, companyID, itemID id.ID) ([]LocationDetail, error) {
	records, err := s.records.StockRecords(ctx, companyID, &itemID)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	names := make(map[id.ID]string)
	if locs, err := s.locations.List(ctx, companyID); err != nil {
		logger.Warn(ctx, "location names unavailable for stock detail", "error", err)
	} else {
		for _, loc := range locs {
			names[loc.ID] = loc.Name
		}
	}

	reserved := s.reservedTotals(ctx, companyID)

	details := make([]LocationDetail, 0, len(records))
	for _, r := range records {
		res := reserved[ReservedKey{ItemID: itemID, LocationID: r.LocationID}].FloorZero()
		updatedAt := r.UpdatedAt
		details = append(details, LocationDetail{
			LocationID:   r.LocationID,
			LocationName: names[r.LocationID],
			OnHand:       r.Quantity,
			Reserved:     res,
			Available:    Available(r.Quantity, res),
			UpdatedAt:    &updatedAt,
		})
	}
	return details, nil
}

// reservedTotals sums open ALLOCATION movements per (item, location).
// Release rows carry negative quantities and net out their reservations.
// On error it logs and returns an empty map: reservation data degrades to
// zero rather than failing the read.
func (s *Service) reservedTotals(ctx context.Context, companyID id.ID) map[ReservedKey]types.Quantity {
	allocations, err := s.allocations.ListAllocations(ctx, companyID)
	if err != nil {
		logger.Warn(ctx, "allocations unavailable, reserved degrades to zero", "error", err)
		return map[ReservedKey]types.Quantity{}
	}

	totals := make(map[ReservedKey]types.Quantity, len(allocations))
	for _, m := range allocations {
		if m.Type != entity.MovementAllocation {
			continue
		}
		totals[ReservedKey{ItemID: m.ItemID, LocationID: m.LocationID}] += m.Quantity
	}
	return totals
}
