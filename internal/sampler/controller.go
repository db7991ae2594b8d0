package sampler

import (
	"context"
	"math/rand"
	"time"

	"github.com/gamescope/gamescope-collector/internal/domain"
	"github.com/gamescope/gamescope-collector/internal/errors"
	"github.com/gamescope/gamescope-collector/internal/logger"
	"github.com/gamescope/gamescope-collector/internal/steam"
)

// CatalogSource lists candidate app IDs.
type CatalogSource interface {
	AppIDs(ctx context.Context, limit int) ([]int64, error)
}

// DetailFetcher fetches the storefront detail payload for one app.
// A (nil, nil) return means the app exists but is not a game.
type DetailFetcher interface {
	AppDetail(ctx context.Context, appID int64) (*steam.AppDetail, error)
}

// ReviewFetcher fetches the aggregate review summary for one app.
type ReviewFetcher interface {
	ReviewSummary(ctx context.Context, appID int64) (*steam.ReviewSummary, error)
}

// OwnersFetcher estimates the ownership proxy for one app.
type OwnersFetcher interface {
	OwnersMidpoint(ctx context.Context, appID int64) (*int64, error)
}

// Item outcome statuses.
const (
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
	StatusSkipped  = "skipped"
)

// ItemOutcome records what happened to one examined app. Skips cover both
// non-game entries and per-item fetch failures; a run never aborts on them.
type ItemOutcome struct {
	AppID  int64  `json:"app_id"`
	Status string `json:"status"`
	Reason string `json:"reason,omitzero"`
}

// Result is the output of one collection run.
type Result struct {
	Records  []domain.GameRecord `json:"records"`
	Outcomes []ItemOutcome       `json:"outcomes"`
	Examined int                 `json:"examined"`
}

// Collector drives the scan-filter-select pipeline over the app catalog.
type Collector struct {
	catalog CatalogSource
	details DetailFetcher
	reviews ReviewFetcher
	owners  OwnersFetcher
	logger  *logger.Logger

	rng *rand.Rand
	now func() time.Time
}

// NewCollector creates a collector over the given sources. owners may be nil
// when no ownership-proxy source is configured; records then carry a nil
// proxy and top-ranked runs fall back to review counts.
func NewCollector(catalog CatalogSource, details DetailFetcher, reviews ReviewFetcher, owners OwnersFetcher, log *logger.Logger) *Collector {
	return &Collector{
		catalog: catalog,
		details: details,
		reviews: reviews,
		owners:  owners,
		logger:  log,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
	}
}

// SelectFilteredSample normalizes a raw configuration and runs a full
// collection against it.
func (c *Collector) SelectFilteredSample(ctx context.Context, raw RawConfig, defaultTargetN int) (*Result, error) {
	cfg, criteria, err := Normalize(raw, defaultTargetN)
	if err != nil {
		return nil, err
	}
	return c.SampleFrom(ctx, cfg, criteria)
}

// SampleFrom collects a sample under the given parameters.
//
// A random run stops as soon as the target is met; a top-ranked run scans to
// exhaustion of the candidate frame, then ranks and truncates. In both modes
// the number of examined apps never exceeds the candidate cap when one is
// set, and reviews and ownership are only fetched for apps that already
// passed the filter.
func (c *Collector) SampleFrom(ctx context.Context, cfg domain.SamplingConfig, criteria domain.FilterCriteria) (*Result, error) {
	// The soft cap bounds the catalog request too; an unbounded scan asks
	// for as much of the catalog as the endpoint returns.
	limit := 0
	if cfg.Bounded() {
		limit = cfg.MaxCandidates
	}
	ids, err := c.catalog.AppIDs(ctx, limit)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "fetching app catalog")
	}
	if cfg.Mode == domain.SampleRandom {
		ids = shuffled(ids, c.rng)
	}

	c.logger.Info("starting sampling run",
		"mode", string(cfg.Mode),
		"target_n", cfg.TargetN,
		"max_candidates", cfg.MaxCandidates,
		"catalog_size", len(ids),
	)

	// One timestamp for the whole run; every record carries it.
	snapshotAt := c.now().UTC()

	res := &Result{Records: make([]domain.GameRecord, 0, cfg.TargetN)}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if cfg.Bounded() && res.Examined >= cfg.MaxCandidates {
			c.logger.Info("candidate cap reached", "examined", res.Examined)
			break
		}
		res.Examined++

		rec, outcome := c.examine(ctx, id, criteria, snapshotAt)
		res.Outcomes = append(res.Outcomes, outcome)
		if rec == nil {
			continue
		}
		res.Records = append(res.Records, *rec)

		if cfg.Mode == domain.SampleRandom && len(res.Records) >= cfg.TargetN {
			break
		}
	}

	if cfg.Mode == domain.SampleTop {
		res.Records = rankTop(res.Records, cfg.TargetN)
	} else if len(res.Records) > cfg.TargetN {
		res.Records = res.Records[:cfg.TargetN]
	}

	c.logger.Info("sampling run complete",
		"examined", res.Examined,
		"selected", len(res.Records),
	)
	return res, nil
}

// examine runs one app through the pipeline: fetch details, filter on the
// detail-derived fields, then enrich survivors with reviews and ownership.
func (c *Collector) examine(ctx context.Context, id int64, criteria domain.FilterCriteria, snapshotAt time.Time) (*domain.GameRecord, ItemOutcome) {
	detail, err := c.details.AppDetail(ctx, id)
	if err != nil {
		c.logger.Warn("skipping app: detail fetch failed", "app_id", id, "error", err)
		return nil, ItemOutcome{AppID: id, Status: StatusSkipped, Reason: "detail fetch failed: " + err.Error()}
	}
	if detail == nil {
		return nil, ItemOutcome{AppID: id, Status: StatusSkipped, Reason: "not a game"}
	}

	rec := buildRecord(detail, nil, nil, snapshotAt)
	if !matches(&rec, criteria) {
		return nil, ItemOutcome{AppID: id, Status: StatusRejected, Reason: "filtered out"}
	}

	reviews, err := c.reviews.ReviewSummary(ctx, id)
	if err != nil {
		c.logger.Warn("skipping app: review fetch failed", "app_id", id, "error", err)
		return nil, ItemOutcome{AppID: id, Status: StatusSkipped, Reason: "review fetch failed: " + err.Error()}
	}

	var owners *int64
	if c.owners != nil {
		owners, err = c.owners.OwnersMidpoint(ctx, id)
		if err != nil {
			// Ownership is an enrichment signal, not a record requirement.
			c.logger.Warn("owners lookup failed", "app_id", id, "error", err)
			owners = nil
		}
	}

	rec = buildRecord(detail, reviews, owners, snapshotAt)
	return &rec, ItemOutcome{AppID: id, Status: StatusAccepted}
}

// CollectRaw fetches unfiltered records for up to limit catalog entries
// (limit <= 0 means the whole catalog). Non-game entries and per-item
// failures are recorded as outcomes and skipped.
func (c *Collector) CollectRaw(ctx context.Context, limit int) (*Result, error) {
	ids, err := c.catalog.AppIDs(ctx, limit)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "fetching app catalog")
	}
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}

	c.logger.Info("starting raw collection", "apps", len(ids))

	snapshotAt := c.now().UTC()

	res := &Result{}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res.Examined++

		rec, outcome := c.examine(ctx, id, domain.FilterCriteria{}, snapshotAt)
		res.Outcomes = append(res.Outcomes, outcome)
		if rec != nil {
			res.Records = append(res.Records, *rec)
		}

		if res.Examined%50 == 0 {
			c.logger.Info("raw collection progress",
				"examined", res.Examined,
				"collected", len(res.Records),
			)
		}
	}

	c.logger.Info("raw collection complete",
		"examined", res.Examined,
		"collected", len(res.Records),
	)
	return res, nil
}
