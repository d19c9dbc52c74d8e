package ws

import (
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrNotConnected    = errors.New("not connected")
	ErrStaleConnection = errors.New("connection stale (no ping)")
	ErrAlreadyClosed   = errors.New("already closed")
)

// Message wraps raw frame data with the local receive timestamp.
type Message struct {
	Data       []byte
	ReceivedAt time.Time
}

// Frame is the envelope of every edgeX WebSocket message, client and server
// side alike.
type Frame struct {
	Type    string          `json:"type"`
	Channel string          `json:"channel,omitempty"`
	Time    string          `json:"time,omitempty"`
	Content json.RawMessage `json:"content,omitempty"`
}

// Handler consumes messages for one subscribed channel.
type Handler func(msg Message)

// Channel name builders for the public stream.

// TickerChannel is the 24-hour ticker stream for a contract.
func TickerChannel(contractID string) string {
	return "ticker." + contractID
}

// KLineChannel is the candlestick stream for a contract at an interval.
func KLineChannel(interval, contractID string) string {
	return "kline." + interval + "." + contractID
}

// DepthChannel is the order book stream for a contract at a depth level.
func DepthChannel(contractID, level string) string {
	return "depth." + contractID + "." + level
}

// TradesChannel is the public trade stream for a contract.
func TradesChannel(contractID string) string {
	return "trades." + contractID
}

// AccountUpdateChannel is the private account event stream.
const AccountUpdateChannel = "account-update"

// ConnConfig configures a single WebSocket connection.
type ConnConfig struct {
	URL          string
	PingTimeout  time.Duration // max silence before the connection counts as stale
	WriteTimeout time.Duration
	BufferSize   int
}

// DefaultConnConfig returns the defaults used by the Manager.
func DefaultConnConfig() ConnConfig {
	return ConnConfig{
		PingTimeout:  60 * time.Second,
		WriteTimeout: 5 * time.Second,
		BufferSize:   1024,
	}
}
