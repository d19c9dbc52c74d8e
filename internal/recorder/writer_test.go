package recorder

import (
	"testing"
	"time"

	"github.com/edgex-Tech/edgex-sdk-go/quote"
)

func TestTransform(t *testing.T) {
	receivedAt := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	snap := TickerSnapshot{
		Ticker: quote.Ticker{
			ContractID:   "10000001",
			LastPrice:    "30001.5",
			IndexPrice:   "30000.0",
			OraclePrice:  "30000.1",
			FundingRate:  "0.0001",
			OpenInterest: "125.5",
			Size:         "890.2",
			Value:        "26706000",
		},
		ReceivedAt: receivedAt,
	}

	row := transform(snap)

	if row.ContractID != "10000001" {
		t.Errorf("ContractID = %s, want 10000001", row.ContractID)
	}
	if row.ReceivedAt != receivedAt.UnixMicro() {
		t.Errorf("ReceivedAt = %d, want %d", row.ReceivedAt, receivedAt.UnixMicro())
	}
	if row.LastPrice != "30001.5" {
		t.Errorf("LastPrice = %s, want 30001.5", row.LastPrice)
	}
	if row.OraclePrice != "30000.1" {
		t.Errorf("OraclePrice = %s, want 30000.1", row.OraclePrice)
	}
	if row.FundingRate != "0.0001" {
		t.Errorf("FundingRate = %s, want 0.0001", row.FundingRate)
	}
	if row.OpenInterest != "125.5" {
		t.Errorf("OpenInterest = %s, want 125.5", row.OpenInterest)
	}
}

func TestWriterBatchAccumulation(t *testing.T) {
	cfg := WriterConfig{BatchSize: 100, FlushInterval: time.Hour, BufferSize: 10}
	w := NewTickerWriter(cfg, nil, nil)

	// Below the batch size nothing should reach the database, so a nil pool
	// is safe here.
	for i := 0; i < 5; i++ {
		w.handleSnapshot(TickerSnapshot{
			Ticker:     quote.Ticker{ContractID: "10000001"},
			ReceivedAt: time.Now(),
		})
	}

	w.batchMu.Lock()
	n := len(w.batch)
	w.batchMu.Unlock()
	if n != 5 {
		t.Errorf("batch length = %d, want 5", n)
	}

	stats := w.Stats()
	if stats.Flushes != 0 {
		t.Errorf("Flushes = %d, want 0", stats.Flushes)
	}
}
