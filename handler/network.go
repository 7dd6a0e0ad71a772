package handler

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/bitdabbler/backoff"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/j-raghavan/goguru/core"
	"github.com/j-raghavan/goguru/formatter"
)

// NetworkHandler ships records to a remote collector as msgpack arrays in
// the fluentd forward style: ["tag", ts, record] per record, or
// ["tag", [[ts, record], ...]] for batches. The connection is established
// lazily and re-established with exponential backoff after write
// failures. Delivery is best effort; a record that cannot be written
// after the configured attempts is dropped with an error.
type NetworkHandler struct {
	base
	mu   sync.Mutex
	conn net.Conn

	addr         string
	network      string
	tag          string
	dialTimeout  time.Duration
	writeTimeout time.Duration
	maxDialTries int
	skipVerify   bool
	closed       bool
}

// NetworkConfig holds configuration for the network handler
type NetworkConfig struct {
	// Addr is the collector address, host:port (required)
	Addr string
	// Network is one of "tcp", "tls", "udp" (default: tcp)
	Network string
	// Tag labels every payload (default: "goguru")
	Tag string
	// Level is the handler's threshold (default: InfoLevel)
	Level core.Level
	// DialTimeout bounds each connection attempt (default: 5s)
	DialTimeout time.Duration
	// WriteTimeout bounds each write; zero means no deadline
	WriteTimeout time.Duration
	// MaxDialTries bounds reconnect attempts per delivery (default: 3)
	MaxDialTries int
	// InsecureSkipVerify disables TLS certificate verification
	InsecureSkipVerify bool
}

// NewNetworkHandler creates a network handler. It does not dial; the
// first delivery establishes the connection.
func NewNetworkHandler(cfg NetworkConfig) (*NetworkHandler, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("network handler: addr required")
	}
	switch cfg.Network {
	case "":
		cfg.Network = "tcp"
	case "tcp", "tls", "udp":
	default:
		return nil, fmt.Errorf("network handler: unsupported network %q", cfg.Network)
	}
	if cfg.Tag == "" {
		cfg.Tag = "goguru"
	}
	if cfg.Level == 0 {
		cfg.Level = core.InfoLevel
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	if cfg.MaxDialTries == 0 {
		cfg.MaxDialTries = 3
	}

	return &NetworkHandler{
		base:         newBase(cfg.Level, formatter.NewTextFormatter(formatter.Config{})),
		addr:         cfg.Addr,
		network:      cfg.Network,
		tag:          cfg.Tag,
		dialTimeout:  cfg.DialTimeout,
		writeTimeout: cfg.WriteTimeout,
		maxDialTries: cfg.MaxDialTries,
		skipVerify:   cfg.InsecureSkipVerify,
	}, nil
}

// Handle encodes and ships one record.
func (h *NetworkHandler) Handle(rec *core.Record) error {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := enc.EncodeArrayLen(3); err != nil {
		return err
	}
	if err := enc.EncodeString(h.tag); err != nil {
		return err
	}
	if err := enc.EncodeInt(rec.Timestamp().Unix()); err != nil {
		return err
	}
	if err := encodeRecord(enc, rec); err != nil {
		return err
	}
	return h.send(buf.Bytes())
}

// HandleBatch encodes the whole batch as one forward-mode payload and
// ships it in a single write.
func (h *NetworkHandler) HandleBatch(recs []*core.Record) error {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := enc.EncodeArrayLen(2); err != nil {
		return err
	}
	if err := enc.EncodeString(h.tag); err != nil {
		return err
	}
	if err := enc.EncodeArrayLen(len(recs)); err != nil {
		return err
	}
	for _, rec := range recs {
		if err := enc.EncodeArrayLen(2); err != nil {
			return err
		}
		if err := enc.EncodeInt(rec.Timestamp().Unix()); err != nil {
			return err
		}
		if err := encodeRecord(enc, rec); err != nil {
			return err
		}
	}
	return h.send(buf.Bytes())
}

// encodeRecord writes the record fields and metadata as one msgpack map.
func encodeRecord(enc *msgpack.Encoder, rec *core.Record) error {
	md := rec.MetadataMap()
	if err := enc.EncodeMapLen(5 + len(md)); err != nil {
		return err
	}
	pairs := []struct {
		k, v string
	}{
		{"level", rec.Level().String()},
		{"message", rec.Message()},
		{"module", rec.Module()},
		{"file", rec.File()},
	}
	for _, p := range pairs {
		if err := enc.EncodeString(p.k); err != nil {
			return err
		}
		if err := enc.EncodeString(p.v); err != nil {
			return err
		}
	}
	if err := enc.EncodeString("line"); err != nil {
		return err
	}
	if err := enc.EncodeInt(int64(rec.Line())); err != nil {
		return err
	}
	for k, v := range md {
		if err := enc.EncodeString(k); err != nil {
			return err
		}
		if err := enc.EncodeString(v); err != nil {
			return err
		}
	}
	return nil
}

// send writes the payload, reconnecting once on a broken pipe.
func (h *NetworkHandler) send(payload []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return fmt.Errorf("network handler: closed")
	}

	if h.conn == nil {
		if err := h.connect(); err != nil {
			return err
		}
	}

	if err := h.writePayload(payload); err != nil {
		// Broken pipe: tear down and retry once on a fresh connection.
		h.conn.Close()
		h.conn = nil
		if err := h.connect(); err != nil {
			return err
		}
		if err := h.writePayload(payload); err != nil {
			h.conn.Close()
			h.conn = nil
			return fmt.Errorf("network handler: write to %s: %w", h.addr, err)
		}
	}
	return nil
}

func (h *NetworkHandler) writePayload(payload []byte) error {
	if h.writeTimeout > 0 {
		h.conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
	}
	_, err := h.conn.Write(payload)
	return err
}

// connect dials the collector, sleeping with exponential backoff between
// attempts.
func (h *NetworkHandler) connect() error {
	b, err := backoff.New(
		backoff.WithInitialDelay(0),
		backoff.WithExponentialLimit(20*time.Second),
	)
	if err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < h.maxDialTries; i++ {
		if i > 0 {
			b.Sleep()
		}
		conn, err := h.dial()
		if err == nil {
			h.conn = conn
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("network handler: dial %s after %d attempts: %w", h.addr, h.maxDialTries, lastErr)
}

func (h *NetworkHandler) dial() (net.Conn, error) {
	ctx, cancel := context.WithTimeout(context.Background(), h.dialTimeout)
	defer cancel()

	var d net.Dialer
	switch h.network {
	case "tls":
		tlsDialer := tls.Dialer{
			NetDialer: &d,
			Config:    &tls.Config{InsecureSkipVerify: h.skipVerify},
		}
		return tlsDialer.DialContext(ctx, "tcp", h.addr)
	default:
		return d.DialContext(ctx, h.network, h.addr)
	}
}

// Flush is a no-op; every delivery is written out immediately.
func (h *NetworkHandler) Flush() error { return nil }

// Close tears down the connection. Safe to call multiple times.
func (h *NetworkHandler) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	if h.conn != nil {
		err := h.conn.Close()
		h.conn = nil
		return err
	}
	return nil
}
