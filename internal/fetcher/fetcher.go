// Package fetcher retrieves full indicator histories from SGS, merges the
// per-span responses into one series.Table and caches it per code.
//
// Fetch never fails: unknown codes, transport errors, bad rows and empty
// upstream responses all come back as an empty table. The distinction is
// only visible in logs and metrics.
package fetcher

import (
    "context"
    "errors"
    "fmt"
    "log/slog"
    "strings"
    "time"

    "golang.org/x/sync/errgroup"
    "golang.org/x/sync/singleflight"

    "bcbseries/internal/catalog"
    "bcbseries/internal/metrics"
    "bcbseries/internal/provider/cache"
    "bcbseries/internal/series"
)

// Config tunes the fetch policy. Zero values fall back to the defaults.
type Config struct {
    // ChunkYears is the maximum span of one request for daily series.
    ChunkYears int
    // MaxConcurrency bounds in-flight span requests for one code.
    // 1 fetches spans strictly in order.
    MaxConcurrency int
    // RequestTimeout bounds every upstream request.
    RequestTimeout time.Duration
    // CacheMaxItems is the number of codes kept before the oldest is evicted.
    CacheMaxItems int
}

const (
    DefaultChunkYears     = 10
    DefaultMaxConcurrency = 1
    DefaultRequestTimeout = 10 * time.Second
    DefaultCacheMaxItems  = 16
)

func (c Config) withDefaults() Config {
    if c.ChunkYears <= 0 { c.ChunkYears = DefaultChunkYears }
    if c.MaxConcurrency <= 0 { c.MaxConcurrency = DefaultMaxConcurrency }
    if c.RequestTimeout <= 0 { c.RequestTimeout = DefaultRequestTimeout }
    if c.CacheMaxItems <= 0 { c.CacheMaxItems = DefaultCacheMaxItems }
    return c
}

type Fetcher struct {
    catalog *catalog.Catalog
    client  Client
    cfg     Config
    now     func() time.Time
    log     *slog.Logger
    metrics *metrics.Metrics

    cache *cache.Bounded[string, *series.Table]
    // coalesce concurrent loads of the same code
    sf singleflight.Group
}

type Option func(*Fetcher)

// WithClock replaces time.Now as the source of "today".
func WithClock(now func() time.Time) Option {
    return func(f *Fetcher) { f.now = now }
}

func WithLogger(l *slog.Logger) Option {
    return func(f *Fetcher) { f.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
    return func(f *Fetcher) { f.metrics = m }
}

func New(cat *catalog.Catalog, client Client, cfg Config, opts ...Option) *Fetcher {
    f := &Fetcher{
        catalog: cat,
        client:  client,
        cfg:     cfg.withDefaults(),
        now:     time.Now,
        log:     slog.Default(),
    }
    for _, o := range opts {
        o(f)
    }
    f.cache = cache.New[string, *series.Table](f.cfg.CacheMaxItems,
        cache.WithEvictHook[string, *series.Table](func(code string) {
            f.log.Debug("evicted cached series", "code", code)
        }))
    return f
}

// Catalog returns the catalog the fetcher resolves codes against.
func (f *Fetcher) Catalog() *catalog.Catalog { return f.catalog }

// Fetch returns the full history of code. The result is a private copy the
// caller may modify.
func (f *Fetcher) Fetch(ctx context.Context, code string) *series.Table {
    code = strings.TrimSpace(code)
    ind, ok := f.catalog.Lookup(code)
    if !ok {
        f.log.Info("indicator not in catalog", "code", code)
        f.metrics.RecordFetch(OutcomeUnknown)
        return series.Empty("", "")
    }

    if t, ok := f.cache.Get(code); ok {
        f.metrics.RecordCacheLookup(true)
        f.metrics.RecordFetch(OutcomeCached)
        return clone(t)
    }
    f.metrics.RecordCacheLookup(false)

    if ctx.Err() != nil {
        f.metrics.RecordFetch(OutcomeCanceled)
        return series.Empty(ind.Column(), ind.Unit)
    }

    // The load is shared by every caller of code, so it must not inherit the
    // cancellation of the one that started it. Spans keep RequestTimeout.
    loadCtx := context.WithoutCancel(ctx)
    ch := f.sf.DoChan(code, func() (any, error) {
        // a flight that finished just before this one may have filled the cache
        if t, ok := f.cache.Get(code); ok {
            return t, nil
        }
        t, err := f.load(loadCtx, ind)
        f.metrics.RecordFetch(outcome(err))
        f.cache.Put(code, t)
        f.metrics.SetCacheEntries(f.cache.Len())
        return t, nil
    })

    select {
    case <-ctx.Done():
        f.log.Info("caller stopped waiting for fetch", "code", code, "err", ctx.Err())
        f.metrics.RecordFetch(OutcomeCanceled)
        return series.Empty(ind.Column(), ind.Unit)
    case res := <-ch:
        if res.Shared {
            f.log.Debug("joined in-flight fetch", "code", code)
        }
        return clone(res.Val.(*series.Table))
    }
}

// Range fetches the full history of code and slices it to [start, end].
func (f *Fetcher) Range(ctx context.Context, code string, start, end time.Time) *series.Table {
    return f.Fetch(ctx, code).Slice(start, end)
}

// Reset drops every cached table.
func (f *Fetcher) Reset() {
    f.cache.Clear()
    f.metrics.SetCacheEntries(0)
}

// Cached reports the cached codes from oldest to newest insertion.
func (f *Fetcher) Cached() []string { return f.cache.Keys() }

// load performs the upstream requests for ind and always returns a table
// (empty on error) together with the reason it is empty, if any.
func (f *Fetcher) load(ctx context.Context, ind catalog.Indicator) (*series.Table, error) {
    column := ind.Column()
    spans := PlanSpans(ind, f.now(), f.cfg.ChunkYears)
    log := f.log.With("code", ind.Code, "name", ind.Name)
    log.Info("fetching series", "frequency", ind.Frequency.String(), "spans", len(spans))

    started := time.Now()
    rows, err := f.fetchSpans(ctx, ind.Code, spans)
    if err == nil && len(rows) == 0 {
        err = ErrEmptyUpstream
    }
    if err != nil {
        if errors.Is(err, ErrEmptyUpstream) {
            log.Warn("no data returned", "spans", len(spans))
        } else {
            log.Error("fetch failed, discarding all spans", "reason", reason(err), "err", err)
        }
        return series.Empty(column, ind.Unit), err
    }

    t := series.Normalize(column, ind.Unit, rows)
    log.Info("fetch complete", "rows", t.Len(), "duration_ms", time.Since(started).Milliseconds())
    return t, nil
}

// fetchSpans requests every span and concatenates the rows in plan order.
// The first failure cancels the remaining spans and is returned.
func (f *Fetcher) fetchSpans(ctx context.Context, code string, spans []Span) ([]series.Point, error) {
    results := make([][]series.Point, len(spans))

    g, gctx := errgroup.WithContext(ctx)
    g.SetLimit(f.cfg.MaxConcurrency)
    for i, sp := range spans {
        g.Go(func() error {
            if err := gctx.Err(); err != nil {
                return err
            }
            pts, err := f.fetchSpan(gctx, code, sp)
            if err != nil {
                return fmt.Errorf("span %s: %w", sp, err)
            }
            results[i] = pts
            return nil
        })
    }
    if err := g.Wait(); err != nil {
        // prefer the caller's cancellation over the derived one
        if ctx.Err() != nil {
            return nil, ctx.Err()
        }
        return nil, err
    }

    n := 0
    for _, r := range results {
        n += len(r)
    }
    rows := make([]series.Point, 0, n)
    for _, r := range results {
        rows = append(rows, r...)
    }
    return rows, nil
}

func (f *Fetcher) fetchSpan(ctx context.Context, code string, sp Span) ([]series.Point, error) {
    ctx, cancel := context.WithTimeout(ctx, f.cfg.RequestTimeout)
    defer cancel()

    started := time.Now()
    pts, err := f.client.GetSeries(ctx, code, sp.Start, sp.End)
    f.metrics.ObserveUpstream(statusClass(err), time.Since(started).Seconds())
    f.log.Debug("span fetched", "code", code, "span", sp.String(), "rows", len(pts), "err", err)
    return pts, err
}

func clone(t *series.Table) *series.Table {
    out := &series.Table{Column: t.Column, Unit: t.Unit, Points: make([]series.Point, len(t.Points))}
    copy(out.Points, t.Points)
    return out
}
