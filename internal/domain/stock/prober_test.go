package stock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fieldstock/internal/core/id"
)

type fakeReadModel struct {
	mu         sync.Mutex
	probeErrs  map[string]error
	probeCalls int

	summaries    []ItemSummary
	summariesErr error
	details      []LocationDetail
	detailsErr   error
}

func (f *fakeReadModel) ProbeView(ctx context.Context, companyID id.ID, view string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probeCalls++
	return f.probeErrs[view]
}

func (f *fakeReadModel) ProbeTable(ctx context.Context, companyID id.ID, table string) error {
	return f.probeErrs[table]
}

func (f *fakeReadModel) ItemSummaries(ctx context.Context, companyID id.ID, filter SummaryFilter) ([]ItemSummary, error) {
	return f.summaries, f.summariesErr
}

func (f *fakeReadModel) LocationDetails(ctx context.Context, companyID, itemID id.ID) ([]LocationDetail, error) {
	return f.details, f.detailsErr
}

var _ ReadModelRepository = (*fakeReadModel)(nil)

func TestProberCachesVerdictsForTTL(t *testing.T) {
	repo := &fakeReadModel{probeErrs: map[string]error{}}
	now := time.Now()
	clock := func() time.Time { return now }
	p := NewProber(repo).WithTTL(5 * time.Minute).WithClock(clock)

	ctx := context.Background()
	companyID := id.New()
	assert.True(t, p.IsAvailable(ctx, companyID, ViewItemSummary))
	callsAfterFirst := repo.probeCalls

	// Within the window no new probes happen.
	for i := 0; i < 10; i++ {
		p.IsAvailable(ctx, companyID, ViewItemSummary)
		p.IsAvailable(ctx, companyID, ViewStockStatus)
	}
	assert.Equal(t, callsAfterFirst, repo.probeCalls)

	// After the window expires the views are probed again.
	now = now.Add(5*time.Minute + time.Second)
	p.IsAvailable(ctx, companyID, ViewItemSummary)
	assert.Greater(t, repo.probeCalls, callsAfterFirst)
}

func TestProberRecordsBrokenView(t *testing.T) {
	repo := &fakeReadModel{probeErrs: map[string]error{
		ViewItemSummary: errors.New(`relation "inventory_item_summary" does not exist`),
	}}
	p := NewProber(repo)

	ctx := context.Background()
	companyID := id.New()
	assert.False(t, p.IsAvailable(ctx, companyID, ViewItemSummary))
	assert.True(t, p.IsAvailable(ctx, companyID, ViewStockStatus))

	verdicts, checkedAt := p.Snapshot()
	assert.Equal(t, VerdictUnavailable, verdicts[ViewItemSummary])
	assert.Equal(t, VerdictAvailable, verdicts[ViewStockStatus])
	assert.False(t, checkedAt.IsZero())
}

func TestProberFastPathPromotionDemotion(t *testing.T) {
	repo := &fakeReadModel{probeErrs: map[string]error{}}
	p := NewProber(repo)
	ctx := context.Background()
	companyID := id.New()

	assert.True(t, p.IsAvailable(ctx, companyID, ViewItemSummary))

	// A failed read demotes immediately, without waiting for the window.
	p.MarkUnavailable(ViewItemSummary)
	assert.False(t, p.IsAvailable(ctx, companyID, ViewItemSummary))

	// A successful read promotes immediately.
	p.MarkAvailable(ViewItemSummary)
	assert.True(t, p.IsAvailable(ctx, companyID, ViewItemSummary))
}

func TestProberCoalescesConcurrentProbes(t *testing.T) {
	repo := &fakeReadModel{probeErrs: map[string]error{}}
	p := NewProber(repo)
	ctx := context.Background()
	companyID := id.New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.IsAvailable(ctx, companyID, ViewItemSummary)
		}()
	}
	wg.Wait()

	// One full probe touches both views; concurrent callers wait for it
	// rather than issuing their own.
	assert.Equal(t, 2, repo.probeCalls)
}
