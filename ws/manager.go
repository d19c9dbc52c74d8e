package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/edgex-Tech/edgex-sdk-go/internal/rest"
	"github.com/edgex-Tech/edgex-sdk-go/starkex"
)

const (
	publicPath  = "/api/v1/public/ws"
	privatePath = "/api/v1/private/ws"
)

// ManagerConfig configures a Manager.
type ManagerConfig struct {
	// BaseURL is the WebSocket origin, e.g. wss://quote.edgex.exchange.
	BaseURL   string
	AccountID int64
	// Signer authenticates the private stream. Public streams work without
	// one.
	Signer *starkex.Signer

	ReconnectBaseWait time.Duration
	ReconnectMaxWait  time.Duration
	Conn              ConnConfig
}

// DefaultManagerConfig returns the defaults for everything but BaseURL.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		ReconnectBaseWait: time.Second,
		ReconnectMaxWait:  60 * time.Second,
		Conn:              DefaultConnConfig(),
	}
}

// managedConn is one connection plus the subscriptions riding on it.
type managedConn struct {
	conn          *Conn
	url           string
	headerFn      func() (http.Header, error)
	subscriptions map[string]bool
	done          chan struct{}
}

// Manager maintains the public and private streams, dispatches messages to
// per-channel handlers, and transparently reconnects and resubscribes.
type Manager struct {
	cfg    ManagerConfig
	logger *slog.Logger

	mu       sync.RWMutex
	public   *managedConn
	private  *managedConn
	handlers map[string]Handler
	closed   bool
}

// NewManager creates a Manager. Zero config durations fall back to the
// defaults.
func NewManager(cfg ManagerConfig, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultManagerConfig()
	if cfg.ReconnectBaseWait <= 0 {
		cfg.ReconnectBaseWait = def.ReconnectBaseWait
	}
	if cfg.ReconnectMaxWait <= 0 {
		cfg.ReconnectMaxWait = def.ReconnectMaxWait
	}

	return &Manager{
		cfg:      cfg,
		logger:   logger,
		handlers: make(map[string]Handler),
	}
}

// ConnectPublic dials the public market data stream.
func (m *Manager) ConnectPublic(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.public != nil {
		return nil
	}

	mc := &managedConn{
		url:           m.cfg.BaseURL + publicPath,
		subscriptions: make(map[string]bool),
		done:          make(chan struct{}),
	}
	if err := m.dial(ctx, mc); err != nil {
		return fmt.Errorf("connect public stream: %w", err)
	}
	m.public = mc
	return nil
}

// ConnectPrivate dials the account event stream with signed handshake
// headers.
func (m *Manager) ConnectPrivate(ctx context.Context) error {
	if m.cfg.Signer == nil {
		return errors.New("private stream requires a signer")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.private != nil {
		return nil
	}

	signer := m.cfg.Signer
	mc := &managedConn{
		url: fmt.Sprintf("%s%s?accountId=%d", m.cfg.BaseURL, privatePath, m.cfg.AccountID),
		headerFn: func() (http.Header, error) {
			return rest.SignatureHeaders(signer, http.MethodGet, privatePath, "")
		},
		subscriptions: make(map[string]bool),
		done:          make(chan struct{}),
	}
	if err := m.dial(ctx, mc); err != nil {
		return fmt.Errorf("connect private stream: %w", err)
	}
	m.private = mc
	return nil
}

// dial connects mc and starts its dispatch loop. Caller holds m.mu.
func (m *Manager) dial(ctx context.Context, mc *managedConn) error {
	if err := m.dialLocked(ctx, mc); err != nil {
		return err
	}
	go m.run(mc)
	return nil
}

// run dispatches messages until the connection dies, then reconnects.
func (m *Manager) run(mc *managedConn) {
	conn := mc.conn
	for {
		select {
		case <-mc.done:
			return
		case msg, ok := <-conn.Messages():
			if !ok {
				return
			}
			m.dispatch(msg)
		case err, ok := <-conn.Errors():
			if !ok {
				return
			}
			m.logger.Warn("websocket connection lost", "url", mc.url, "error", err)
			if !m.reconnect(mc) {
				return
			}
			conn = mc.conn
		}
	}
}

// dispatch routes a frame to the handler subscribed to its channel.
func (m *Manager) dispatch(msg Message) {
	var frame Frame
	if err := json.Unmarshal(msg.Data, &frame); err != nil {
		m.logger.Debug("unparseable frame", "error", err)
		return
	}
	if frame.Channel == "" {
		return
	}

	m.mu.RLock()
	handler := m.handlers[frame.Channel]
	m.mu.RUnlock()

	if handler != nil {
		handler(msg)
	}
}

// reconnect redials with exponential backoff and replays the connection's
// subscriptions. Returns false when the manager is closed.
func (m *Manager) reconnect(mc *managedConn) bool {
	mc.conn.Close()

	wait := m.cfg.ReconnectBaseWait
	for {
		select {
		case <-mc.done:
			return false
		case <-time.After(wait + time.Duration(rand.Int63n(int64(wait)))):
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := func() error {
			m.mu.Lock()
			defer m.mu.Unlock()
			if m.closed {
				return ErrAlreadyClosed
			}
			return m.dialLocked(ctx, mc)
		}()
		cancel()

		if errors.Is(err, ErrAlreadyClosed) {
			return false
		}
		if err == nil {
			m.resubscribe(mc)
			m.logger.Info("websocket reconnected", "url", mc.url)
			return true
		}

		m.logger.Warn("websocket reconnect failed", "url", mc.url, "error", err)
		wait *= 2
		if wait > m.cfg.ReconnectMaxWait {
			wait = m.cfg.ReconnectMaxWait
		}
	}
}

// dialLocked redials mc without starting a new dispatch loop; the caller's
// run loop keeps going with the fresh Conn. Caller holds m.mu.
func (m *Manager) dialLocked(ctx context.Context, mc *managedConn) error {
	var header http.Header
	if mc.headerFn != nil {
		var err error
		header, err = mc.headerFn()
		if err != nil {
			return fmt.Errorf("sign handshake: %w", err)
		}
	}

	cfg := m.cfg.Conn
	cfg.URL = mc.url
	conn := NewConn(cfg, header, m.logger)
	if err := conn.Connect(ctx); err != nil {
		return err
	}
	mc.conn = conn
	return nil
}

// resubscribe replays the subscribe frames of a reconnected connection.
func (m *Manager) resubscribe(mc *managedConn) {
	m.mu.RLock()
	channels := make([]string, 0, len(mc.subscriptions))
	for ch := range mc.subscriptions {
		channels = append(channels, ch)
	}
	m.mu.RUnlock()

	for _, ch := range channels {
		if err := m.sendSubscribe(mc, ch); err != nil {
			m.logger.Warn("resubscribe failed", "channel", ch, "error", err)
		}
	}
}

func (m *Manager) sendSubscribe(mc *managedConn, channel string) error {
	frame, err := json.Marshal(Frame{Type: "subscribe", Channel: channel})
	if err != nil {
		return err
	}

	// mc.conn is replaced under m.mu during reconnects; capture it under
	// the lock and send on the captured value. A frame that still lands on
	// a dying connection is replayed by resubscribe, since the channel was
	// already recorded in mc.subscriptions.
	m.mu.RLock()
	conn := mc.conn
	m.mu.RUnlock()
	return conn.Send(frame)
}

// subscribe registers a handler and sends the subscribe frame on mc.
func (m *Manager) subscribe(mc *managedConn, channel string, handler Handler) error {
	if mc == nil {
		return ErrNotConnected
	}

	m.mu.Lock()
	m.handlers[channel] = handler
	mc.subscriptions[channel] = true
	m.mu.Unlock()

	return m.sendSubscribe(mc, channel)
}

// SubscribeTicker subscribes to the 24-hour ticker stream of a contract.
func (m *Manager) SubscribeTicker(contractID string, handler Handler) error {
	return m.subscribe(m.publicConn(), TickerChannel(contractID), handler)
}

// SubscribeKLine subscribes to the candlestick stream of a contract at an
// interval such as "1m" or "1h".
func (m *Manager) SubscribeKLine(contractID, interval string, handler Handler) error {
	return m.subscribe(m.publicConn(), KLineChannel(interval, contractID), handler)
}

// SubscribeDepth subscribes to the order book stream of a contract at a
// depth level such as "15".
func (m *Manager) SubscribeDepth(contractID, level string, handler Handler) error {
	return m.subscribe(m.publicConn(), DepthChannel(contractID, level), handler)
}

// SubscribeTrades subscribes to the public trade stream of a contract.
func (m *Manager) SubscribeTrades(contractID string, handler Handler) error {
	return m.subscribe(m.publicConn(), TradesChannel(contractID), handler)
}

// SubscribeAccountUpdate subscribes to the private account event stream.
func (m *Manager) SubscribeAccountUpdate(handler Handler) error {
	return m.subscribe(m.privateConn(), AccountUpdateChannel, handler)
}

// Unsubscribe drops a channel's handler and tells the server to stop
// sending it.
func (m *Manager) Unsubscribe(channel string) error {
	m.mu.Lock()
	delete(m.handlers, channel)

	var conn *Conn
	for _, cand := range []*managedConn{m.public, m.private} {
		if cand != nil && cand.subscriptions[channel] {
			delete(cand.subscriptions, channel)
			conn = cand.conn
			break
		}
	}
	m.mu.Unlock()

	if conn == nil {
		return nil
	}

	frame, err := json.Marshal(Frame{Type: "unsubscribe", Channel: channel})
	if err != nil {
		return err
	}
	return conn.Send(frame)
}

// DisconnectAll closes both streams. The manager cannot be reused after.
func (m *Manager) DisconnectAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true

	for _, mc := range []*managedConn{m.public, m.private} {
		if mc == nil {
			continue
		}
		close(mc.done)
		mc.conn.Close()
	}
	m.public = nil
	m.private = nil
}

func (m *Manager) publicConn() *managedConn {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.public
}

func (m *Manager) privateConn() *managedConn {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.private
}
