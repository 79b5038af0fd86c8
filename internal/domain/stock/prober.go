package stock

import (
	"context"
	"sync"
	"time"

	"fieldstock/internal/core/id"
	"fieldstock/pkg/logger"
)

// Names of the precomputed read-model relations the prober watches.
const (
	ViewItemSummary = "inventory_item_summary"
	ViewStockStatus = "inventory_stock_status_v"
)

// Verdict is the cached health of one view.
type Verdict string

const (
	VerdictUnknown     Verdict = "unknown"
	VerdictAvailable   Verdict = "available"
	VerdictUnavailable Verdict = "unavailable"
)

// DefaultProbeTTL is how long probe verdicts are trusted before the views
// are re-checked.
const DefaultProbeTTL = 5 * time.Minute

// Prober caches the availability of the read-model views so every read does
// not pay a probe round-trip. A full probe runs at most once per TTL window;
// concurrent callers that arrive while one is in flight wait for its result
// instead of issuing their own.
type Prober struct {
	repo ReadModelRepository
	ttl  time.Duration
	now  func() time.Time

	mu        sync.RWMutex
	verdicts  map[string]Verdict
	checkedAt time.Time

	probeMu sync.Mutex // serializes full probes
}

// NewProber creates a prober with the default TTL.
func NewProber(repo ReadModelRepository) *Prober {
	return &Prober{
		repo:     repo,
		ttl:      DefaultProbeTTL,
		now:      time.Now,
		verdicts: make(map[string]Verdict),
	}
}

// WithTTL overrides the probe window. Zero or negative disables caching.
func (p *Prober) WithTTL(ttl time.Duration) *Prober {
	p.ttl = ttl
	return p
}

// WithClock overrides the time source, for tests.
func (p *Prober) WithClock(now func() time.Time) *Prober {
	p.now = now
	return p
}

// IsAvailable reports whether the named view should be used for reads on
// behalf of the company. It triggers a full probe when the cached verdicts
// have expired. Unknown verdicts (probe itself failed) count as available:
// the read path attempts the view and demotes on failure.
func (p *Prober) IsAvailable(ctx context.Context, companyID id.ID, view string) bool {
	if p.fresh() {
		return p.verdict(view) != VerdictUnavailable
	}

	p.probeMu.Lock()
	// Another caller may have finished the probe while we waited.
	if !p.fresh() {
		p.probeAll(ctx, companyID)
	}
	p.probeMu.Unlock()

	return p.verdict(view) != VerdictUnavailable
}

// MarkAvailable promotes a view without waiting for the next probe window.
// Called when a read against the view succeeded.
func (p *Prober) MarkAvailable(view string) {
	p.mu.Lock()
	p.verdicts[view] = VerdictAvailable
	p.mu.Unlock()
}

// MarkUnavailable demotes a view for the remainder of the current window,
// so a broken view is not re-hit on every read.
func (p *Prober) MarkUnavailable(view string) {
	p.mu.Lock()
	p.verdicts[view] = VerdictUnavailable
	p.mu.Unlock()
}

// Snapshot returns the current verdicts and when they were last probed.
func (p *Prober) Snapshot() (map[string]Verdict, time.Time) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make(map[string]Verdict, len(p.verdicts))
	for view, v := range p.verdicts {
		out[view] = v
	}
	return out, p.checkedAt
}

func (p *Prober) fresh() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return !p.checkedAt.IsZero() && p.now().Sub(p.checkedAt) < p.ttl
}

func (p *Prober) verdict(view string) Verdict {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.verdicts[view]; ok {
		return v
	}
	return VerdictUnknown
}

// probeAll checks every watched view. Probe failures are recorded as
// unavailable, never returned: availability degrades, reads do not fail.
func (p *Prober) probeAll(ctx context.Context, companyID id.ID) {
	results := make(map[string]Verdict, 2)
	for _, view := range []string{ViewItemSummary, ViewStockStatus} {
		if err := p.repo.ProbeView(ctx, companyID, view); err != nil {
			logger.Warn(ctx, "stock view unavailable, reads fall back to base tables",
				"view", view, "error", err)
			results[view] = VerdictUnavailable
		} else {
			results[view] = VerdictAvailable
		}
	}

	p.mu.Lock()
	p.verdicts = results
	p.checkedAt = p.now()
	p.mu.Unlock()
}
