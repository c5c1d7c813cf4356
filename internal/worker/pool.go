// Package worker implements the buffered worker pool used to load matches
// into the document store and the analytics table.
// - Bounded queue, Enqueue blocks when it is full
// - Batched pgx and ClickHouse writes, flushed concurrently
// - Graceful shutdown that drains the queue before returning

package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dotameta/metalab/internal/features"
	"github.com/dotameta/metalab/internal/models"
)

// ErrPoolStopped is returned by Enqueue once Stop has been called.
var ErrPoolStopped = errors.New("worker pool stopped")

// Prometheus metrics
var (
	jobsEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "metalab_loader_jobs_enqueued_total",
		Help: "Total number of matches queued for loading",
	})

	jobsStored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "metalab_loader_jobs_stored_total",
		Help: "Total number of matches written by the loader",
	})

	jobsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "metalab_loader_jobs_failed_total",
		Help: "Total number of matches in batches that failed to write",
	})

	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "metalab_loader_queue_depth",
		Help: "Current depth of the loader queue",
	})

	flushDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "metalab_loader_flush_duration_seconds",
		Help:    "Duration of batch writes per backend",
		Buckets: prometheus.DefBuckets,
	}, []string{"backend"})
)

const flushTimeout = 30 * time.Second

// Job represents one match to load. Features is nil when the extractor
// rejected the match; the raw document is still stored.
type Job struct {
	Match    *models.MatchRecord
	Features *features.Row
}

// PgBatcher is the subset of *pgxpool.Pool used by the loader.
type PgBatcher interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// CacheStore is the subset of *redis.Client used to drop stale API cache entries.
type CacheStore interface {
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// PoolConfig configures the worker pool. ClickHouse and Redis are optional.
type PoolConfig struct {
	WorkerCount   int
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration
	Postgres      PgBatcher
	ClickHouse    driver.Conn
	Redis         CacheStore
	CachePattern  string
	Logger        *zap.Logger
}

// Pool manages a pool of workers that write matches in batches
type Pool struct {
	config   PoolConfig
	jobQueue chan Job
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *zap.SugaredLogger
	stopped  atomic.Bool
	stored   atomic.Int64
	failed   atomic.Int64
}

// NewPool creates a new worker pool
func NewPool(cfg PoolConfig) *Pool {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 10000
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 500
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = time.Second
	}
	if cfg.CachePattern == "" {
		cfg.CachePattern = "metalab:*"
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Pool{
		config:   cfg,
		jobQueue: make(chan Job, cfg.QueueSize),
		logger:   cfg.Logger.Sugar(),
	}
}

// Start launches the worker goroutines
func (p *Pool) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(ctx)

	for i := 0; i < p.config.WorkerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	go p.reportQueueDepth()

	p.logger.Infow("Worker pool started",
		"workers", p.config.WorkerCount,
		"queueSize", p.config.QueueSize,
		"batchSize", p.config.BatchSize,
		"analytics", p.config.ClickHouse != nil,
	)
}

// Stop closes the queue, waits for every queued job to be flushed and then
// drops cached API responses that the new data made stale.
func (p *Pool) Stop() {
	if !p.stopped.CompareAndSwap(false, true) {
		return
	}
	p.logger.Info("Stopping worker pool...")

	close(p.jobQueue)
	p.wg.Wait()
	p.invalidateCache()
	if p.cancel != nil {
		p.cancel()
	}

	p.logger.Infow("Worker pool stopped", "stored", p.stored.Load(), "failed", p.failed.Load())
}

// Enqueue adds a job to the queue. Blocks while the queue is full until ctx
// or the pool context is done.
func (p *Pool) Enqueue(ctx context.Context, job Job) (err error) {
	if job.Match == nil {
		return fmt.Errorf("enqueue: nil match")
	}
	if p.stopped.Load() {
		return ErrPoolStopped
	}

	// Protect against sending on closed channel
	defer func() {
		if r := recover(); r != nil {
			err = ErrPoolStopped
		}
	}()

	select {
	case p.jobQueue <- job:
		jobsEnqueued.Inc()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.done():
		return p.ctx.Err()
	}
}

// done is nil, and never ready, until Start has run.
func (p *Pool) done() <-chan struct{} {
	if p.ctx == nil {
		return nil
	}
	return p.ctx.Done()
}

// QueueDepth returns current queue size
func (p *Pool) QueueDepth() int {
	return len(p.jobQueue)
}

// Stats returns the number of matches written and the number lost to failed batches.
func (p *Pool) Stats() (stored, failed int64) {
	return p.stored.Load(), p.failed.Load()
}

// worker processes jobs from the queue in batches
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	batch := make([]Job, 0, p.config.BatchSize)
	ticker := time.NewTicker(p.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		// Flushes outlive cancellation so a shutdown does not drop the tail of the queue
		ctx, cancel := context.WithTimeout(context.WithoutCancel(p.ctx), flushTimeout)
		defer cancel()

		start := time.Now()
		if err := p.processBatch(ctx, batch); err != nil {
			p.logger.Errorw("Batch processing failed",
				"worker", id,
				"batchSize", len(batch),
				"error", err,
			)
			jobsFailed.Add(float64(len(batch)))
			p.failed.Add(int64(len(batch)))
		} else {
			p.logger.Debugw("Batch stored", "worker", id, "batchSize", len(batch), "duration", time.Since(start))
			jobsStored.Add(float64(len(batch)))
			p.stored.Add(int64(len(batch)))
		}

		batch = batch[:0]
	}

	for {
		select {
		case job, ok := <-p.jobQueue:
			if !ok {
				flush()
				return
			}
			batch = append(batch, job)
			if len(batch) >= p.config.BatchSize {
				flush()
			}

		case <-ticker.C:
			flush()

		case <-p.ctx.Done():
			p.logger.Warnw("Context done, flushing final batch", "worker", id, "batchSize", len(batch))
			flush()
			return
		}
	}
}

// processBatch writes a batch to Postgres and, when configured, ClickHouse
func (p *Pool) processBatch(ctx context.Context, batch []Job) error {
	if len(batch) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.writeDocuments(gctx, batch)
	})
	if p.config.ClickHouse != nil {
		g.Go(func() error {
			return p.writeHeroPicks(gctx, batch)
		})
	}
	return g.Wait()
}

const (
	upsertMatchSQL = `
		INSERT INTO matches (match_id, radiant_win, doc)
		VALUES ($1, $2, $3)
		ON CONFLICT (match_id) DO UPDATE
		SET radiant_win = EXCLUDED.radiant_win, doc = EXCLUDED.doc, stored_at = now()`

	upsertFeaturesSQL = `
		INSERT INTO processed_features (match_id, radiant_win, doc)
		VALUES ($1, $2, $3)
		ON CONFLICT (match_id) DO UPDATE
		SET radiant_win = EXCLUDED.radiant_win, doc = EXCLUDED.doc, processed_at = now()`
)

// featureDoc is the processed_features document: the feature map keyed by
// schema name plus the label.
type featureDoc struct {
	MatchID    int64              `json:"match_id"`
	RadiantWin bool               `json:"radiant_win"`
	Features   map[string]float64 `json:"features"`
}

func (p *Pool) writeDocuments(ctx context.Context, batch []Job) error {
	start := time.Now()
	defer func() { flushDuration.WithLabelValues("postgres").Observe(time.Since(start).Seconds()) }()

	b := &pgx.Batch{}
	for _, job := range batch {
		doc, err := json.Marshal(job.Match)
		if err != nil {
			return fmt.Errorf("encode match %d: %w", job.Match.MatchID, err)
		}
		b.Queue(upsertMatchSQL, job.Match.MatchID, job.Match.RadiantWin, doc)

		if job.Features == nil {
			continue
		}
		fdoc, err := json.Marshal(featureDoc{
			MatchID:    job.Features.MatchID,
			RadiantWin: job.Features.Label == features.RadiantWin,
			Features:   job.Features.Vector.Map(),
		})
		if err != nil {
			return fmt.Errorf("encode features %d: %w", job.Features.MatchID, err)
		}
		b.Queue(upsertFeaturesSQL, job.Features.MatchID, job.Features.Label == features.RadiantWin, fdoc)
	}

	br := p.config.Postgres.SendBatch(ctx, b)
	for i := 0; i < b.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("postgres batch statement %d: %w", i, err)
		}
	}
	return br.Close()
}

func (p *Pool) writeHeroPicks(ctx context.Context, batch []Job) error {
	start := time.Now()
	defer func() { flushDuration.WithLabelValues("clickhouse").Observe(time.Since(start).Seconds()) }()

	chBatch, err := p.config.ClickHouse.PrepareBatch(ctx, `
		INSERT INTO metalab.hero_picks (
			match_id, hero_id, is_radiant, won, kills, deaths, assists, duration, start_time
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare hero_picks batch: %w", err)
	}

	for _, job := range batch {
		m := job.Match
		for _, pl := range m.Players {
			if pl.HeroID <= 0 {
				continue
			}
			radiant := pl.IsRadiant()
			err := chBatch.Append(
				uint64(m.MatchID),
				uint16(pl.HeroID),
				radiant,
				radiant == m.RadiantWin,
				uint16(pl.Kills),
				uint16(pl.Deaths),
				uint16(pl.Assists),
				uint32(m.Duration),
				time.Unix(m.StartTime, 0).UTC(),
			)
			if err != nil {
				p.logger.Warnw("Failed to append hero pick to batch", "error", err, "match_id", m.MatchID)
				continue
			}
		}
	}

	if err := chBatch.Send(); err != nil {
		return fmt.Errorf("send hero_picks batch: %w", err)
	}
	return nil
}

// invalidateCache removes cached API responses after a load.
func (p *Pool) invalidateCache() {
	if p.config.Redis == nil || p.stored.Load() == 0 || p.ctx == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(p.ctx), 5*time.Second)
	defer cancel()

	var keys []string
	iter := p.config.Redis.Scan(ctx, 0, p.config.CachePattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		p.logger.Warnw("Cache scan failed", "error", err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := p.config.Redis.Del(ctx, keys...).Err(); err != nil {
		p.logger.Warnw("Cache invalidation failed", "error", err)
		return
	}
	p.logger.Infow("Cache invalidated", "keys", len(keys))
}

func (p *Pool) reportQueueDepth() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			queueDepth.Set(float64(len(p.jobQueue)))
		case <-p.ctx.Done():
			return
		}
	}
}
