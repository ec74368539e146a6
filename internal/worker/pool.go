// Package worker implements the buffered worker pool that records settled
// predictions. Request handling never waits on the audit sink:
// - Load shedding when the queue is full
// - Batch writes flushed by size or interval
// - Graceful shutdown with a final flush

package worker

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Prometheus metrics
var (
	recordsEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matchdesk_audit_records_enqueued_total",
		Help: "Total number of audit records accepted",
	})

	recordsWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matchdesk_audit_records_written_total",
		Help: "Total number of audit records written to the sink",
	})

	recordsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matchdesk_audit_records_failed_total",
		Help: "Total number of audit records lost to sink errors",
	})

	recordsShed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matchdesk_audit_records_load_shed_total",
		Help: "Total number of audit records dropped because the queue was full",
	})

	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "matchdesk_audit_queue_depth",
		Help: "Current depth of the audit queue",
	})

	batchWriteDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "matchdesk_audit_batch_write_duration_seconds",
		Help:    "Duration of audit batch writes",
		Buckets: prometheus.DefBuckets,
	})
)

// Record describes one settled prediction request.
type Record struct {
	Timestamp    time.Time
	SessionID    string
	Seq          uint64
	Team1        string
	Team2        string
	Venue        string
	BattingFirst string
	Team1Players int
	Team2Players int
	Outcome      string
	Winner       string
	Probability  float64
	Latency      time.Duration
}

// Sink receives batches of records.
type Sink interface {
	WriteBatch(ctx context.Context, batch []Record) error
}

// NopSink discards records; used when no audit database is configured.
type NopSink struct{}

func (NopSink) WriteBatch(ctx context.Context, batch []Record) error { return nil }

// PoolConfig configures the worker pool
type PoolConfig struct {
	WorkerCount   int
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration
	Sink          Sink
	Logger        *zap.Logger
}

// Pool manages the audit workers
type Pool struct {
	config PoolConfig
	queue  chan Record
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.SugaredLogger

	mu      sync.RWMutex
	stopped bool
}

// NewPool creates a new worker pool
func NewPool(cfg PoolConfig) *Pool {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.Sink == nil {
		cfg.Sink = NopSink{}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Pool{
		config: cfg,
		queue:  make(chan Record, cfg.QueueSize),
		logger: cfg.Logger.Sugar(),
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

	p.logger.Infow("Audit pool started",
		"workers", p.config.WorkerCount,
		"queueSize", p.config.QueueSize,
		"batchSize", p.config.BatchSize,
	)
}

// Stop closes the queue and waits for the workers to flush what is left.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.queue)
	p.mu.Unlock()

	p.wg.Wait()
	if p.cancel != nil {
		p.cancel()
	}
	p.logger.Info("Audit pool stopped")
}

// Enqueue adds a record without blocking. It returns false when the record
// was shed because the queue is full or the pool is stopped.
func (p *Pool) Enqueue(rec Record) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		recordsShed.Inc()
		return false
	}

	select {
	case p.queue <- rec:
		recordsEnqueued.Inc()
		return true
	default:
		p.logger.Warnw("Audit queue full, dropping record", "session", rec.SessionID, "seq", rec.Seq)
		recordsShed.Inc()
		return false
	}
}

// QueueDepth returns current queue size
func (p *Pool) QueueDepth() int {
	return len(p.queue)
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	batch := make([]Record, 0, p.config.BatchSize)
	ticker := time.NewTicker(p.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		start := time.Now()
		// The pool context may already be canceled during shutdown.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := p.config.Sink.WriteBatch(ctx, batch)
		cancel()
		if err != nil {
			p.logger.Errorw("Audit batch write failed",
				"worker", id,
				"batchSize", len(batch),
				"error", err,
			)
			recordsFailed.Add(float64(len(batch)))
		} else {
			recordsWritten.Add(float64(len(batch)))
		}
		batchWriteDuration.Observe(time.Since(start).Seconds())

		batch = batch[:0]
	}

	for {
		select {
		case rec, ok := <-p.queue:
			if !ok {
				flush()
				return
			}
			batch = append(batch, rec)
			if len(batch) >= p.config.BatchSize {
				flush()
			}

		case <-ticker.C:
			flush()

		case <-p.ctx.Done():
			// Drain what is already queued, then exit.
			for {
				select {
				case rec, ok := <-p.queue:
					if !ok {
						flush()
						return
					}
					batch = append(batch, rec)
				default:
					flush()
					return
				}
			}
		}
	}
}

func (p *Pool) reportQueueDepth() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			queueDepth.Set(float64(len(p.queue)))
		case <-p.ctx.Done():
			return
		}
	}
}
