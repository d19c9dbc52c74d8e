package recorder

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/edgex-Tech/edgex-sdk-go/quote"
)

// QuoteSource fetches the ticker snapshot for a contract. Satisfied by
// quote.Client.
type QuoteSource interface {
	Get24HourQuote(ctx context.Context, contractID string) ([]quote.Ticker, error)
}

// SnapshotHandler receives fetched snapshots.
type SnapshotHandler interface {
	HandleSnapshot(snap TickerSnapshot) error
}

// SnapshotHandlerFunc is a function adapter for SnapshotHandler.
type SnapshotHandlerFunc func(TickerSnapshot) error

func (f SnapshotHandlerFunc) HandleSnapshot(s TickerSnapshot) error {
	return f(s)
}

// Poller periodically snapshots tickers for a fixed set of contracts.
type Poller struct {
	cfg     PollConfig
	quotes  QuoteSource
	handler SnapshotHandler
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPoller creates a Poller.
func NewPoller(cfg PollConfig, quotes QuoteSource, handler SnapshotHandler, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		cfg:     cfg,
		quotes:  quotes,
		handler: handler,
		logger:  logger,
	}
}

// Start begins the polling loop.
func (p *Poller) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run()

	p.logger.Info("quote poller started",
		"contracts", len(p.cfg.ContractIDs),
		"interval", p.cfg.Interval,
		"concurrency", p.cfg.Concurrency,
	)

	return nil
}

// Stop gracefully shuts down the poller.
func (p *Poller) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("quote poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Poller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	// Poll immediately on start.
	p.pollAll()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.pollAll()
		}
	}
}

// pollAll fetches tickers for all configured contracts with bounded
// concurrency.
func (p *Poller) pollAll() {
	start := time.Now()

	if len(p.cfg.ContractIDs) == 0 {
		p.logger.Debug("no contracts to poll")
		return
	}

	sem := semaphore.NewWeighted(int64(p.cfg.Concurrency))
	var wg sync.WaitGroup
	var fetched, errCount atomic.Int64

	for _, contractID := range p.cfg.ContractIDs {
		wg.Add(1)
		go func(contractID string) {
			defer wg.Done()

			if err := sem.Acquire(p.ctx, 1); err != nil {
				return
			}
			defer sem.Release(1)

			if err := p.pollContract(contractID); err != nil {
				p.logger.Warn("failed to poll contract",
					"contract_id", contractID,
					"err", err,
				)
				errCount.Add(1)
				return
			}

			fetched.Add(1)
		}(contractID)
	}

	wg.Wait()

	p.logger.Info("poll cycle complete",
		"contracts", len(p.cfg.ContractIDs),
		"fetched", fetched.Load(),
		"errors", errCount.Load(),
		"duration", time.Since(start),
	)
}

func (p *Poller) pollContract(contractID string) error {
	ctx, cancel := context.WithTimeout(p.ctx, p.cfg.Timeout)
	defer cancel()

	tickers, err := p.quotes.Get24HourQuote(ctx, contractID)
	if err != nil {
		return err
	}

	receivedAt := time.Now()
	for _, t := range tickers {
		if p.handler == nil {
			continue
		}
		if err := p.handler.HandleSnapshot(TickerSnapshot{Ticker: t, ReceivedAt: receivedAt}); err != nil {
			return err
		}
	}

	return nil
}
