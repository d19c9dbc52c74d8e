package recorder

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edgex-Tech/edgex-sdk-go/quote"
)

// TickerSnapshot is one polled ticker plus its local receive time.
type TickerSnapshot struct {
	Ticker     quote.Ticker
	ReceivedAt time.Time
}

// WriterMetrics counts writer activity.
type WriterMetrics struct {
	Inserts   int64
	Conflicts int64
	Flushes   int64
	Errors    int64
}

// tickerRow is the flattened database representation of a snapshot.
type tickerRow struct {
	ReceivedAt   int64
	ContractID   string
	LastPrice    string
	IndexPrice   string
	OraclePrice  string
	FundingRate  string
	OpenInterest string
	Size         string
	Value        string
}

// TickerWriter batches ticker snapshots into the tickers table.
type TickerWriter struct {
	cfg    WriterConfig
	logger *slog.Logger

	input chan TickerSnapshot
	db    *pgxpool.Pool

	batch       []tickerRow
	batchMu     sync.Mutex
	flushTicker *time.Ticker

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	metrics WriterMetrics
}

// NewTickerWriter creates a TickerWriter.
func NewTickerWriter(cfg WriterConfig, db *pgxpool.Pool, logger *slog.Logger) *TickerWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &TickerWriter{
		cfg:    cfg,
		db:     db,
		logger: logger,
		input:  make(chan TickerSnapshot, cfg.BufferSize),
		batch:  make([]tickerRow, 0, cfg.BatchSize),
	}
}

// Input returns the channel snapshots are submitted on. Submissions block
// when the buffer is full, which backpressures the poller.
func (w *TickerWriter) Input() chan<- TickerSnapshot {
	return w.input
}

// Start begins consuming snapshots and writing to the database.
func (w *TickerWriter) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.flushTicker = time.NewTicker(w.cfg.FlushInterval)

	w.wg.Add(1)
	go w.consumeLoop()

	w.wg.Add(1)
	go w.flushLoop()

	w.logger.Info("ticker writer started",
		"batch_size", w.cfg.BatchSize,
		"flush_interval", w.cfg.FlushInterval,
	)
	return nil
}

// Stop drains the goroutines and performs a final flush.
func (w *TickerWriter) Stop(ctx context.Context) error {
	w.logger.Info("stopping ticker writer")

	if w.cancel != nil {
		w.cancel()
	}
	if w.flushTicker != nil {
		w.flushTicker.Stop()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("ticker writer stopped")
	case <-ctx.Done():
		w.logger.Warn("ticker writer stop timed out")
	}

	w.flush(context.Background())

	return nil
}

// Stats returns current metrics.
func (w *TickerWriter) Stats() WriterMetrics {
	w.batchMu.Lock()
	defer w.batchMu.Unlock()
	return w.metrics
}

func (w *TickerWriter) consumeLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case snap := <-w.input:
			w.handleSnapshot(snap)
		}
	}
}

func (w *TickerWriter) flushLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.flushTicker.C:
			w.flush(w.ctx)
		}
	}
}

func (w *TickerWriter) handleSnapshot(snap TickerSnapshot) {
	row := transform(snap)

	w.batchMu.Lock()
	w.batch = append(w.batch, row)
	shouldFlush := len(w.batch) >= w.cfg.BatchSize
	w.batchMu.Unlock()

	if shouldFlush {
		w.flush(w.ctx)
	}
}

func transform(snap TickerSnapshot) tickerRow {
	return tickerRow{
		ReceivedAt:   snap.ReceivedAt.UnixMicro(),
		ContractID:   snap.Ticker.ContractID,
		LastPrice:    snap.Ticker.LastPrice,
		IndexPrice:   snap.Ticker.IndexPrice,
		OraclePrice:  snap.Ticker.OraclePrice,
		FundingRate:  snap.Ticker.FundingRate,
		OpenInterest: snap.Ticker.OpenInterest,
		Size:         snap.Ticker.Size,
		Value:        snap.Ticker.Value,
	}
}

// flush writes the current batch to the database.
func (w *TickerWriter) flush(ctx context.Context) {
	w.batchMu.Lock()
	if len(w.batch) == 0 {
		w.batchMu.Unlock()
		return
	}

	// Take ownership of current batch
	batch := w.batch
	w.batch = make([]tickerRow, 0, w.cfg.BatchSize)
	w.batchMu.Unlock()

	start := time.Now()

	conflicts, err := w.batchInsert(ctx, batch)
	if err != nil {
		w.logger.Error("batch insert failed", "error", err, "count", len(batch))
		w.batchMu.Lock()
		w.metrics.Errors++
		w.batchMu.Unlock()
		return
	}

	w.batchMu.Lock()
	w.metrics.Inserts += int64(len(batch) - conflicts)
	w.metrics.Conflicts += int64(conflicts)
	w.metrics.Flushes++
	w.batchMu.Unlock()

	w.logger.Debug("flushed tickers",
		"count", len(batch),
		"conflicts", conflicts,
		"duration", time.Since(start),
	)
}

// batchInsert inserts rows using pgx.Batch with ON CONFLICT DO NOTHING.
func (w *TickerWriter) batchInsert(ctx context.Context, rows []tickerRow) (conflicts int, err error) {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
			INSERT INTO tickers (received_at, contract_id, last_price, index_price, oracle_price, funding_rate, open_interest, size, value)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (contract_id, received_at) DO NOTHING
		`, r.ReceivedAt, r.ContractID, r.LastPrice, r.IndexPrice, r.OraclePrice, r.FundingRate, r.OpenInterest, r.Size, r.Value)
	}

	results := w.db.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		ct, err := results.Exec()
		if err != nil {
			return 0, err
		}
		if ct.RowsAffected() == 0 {
			conflicts++
		}
	}

	return conflicts, nil
}
