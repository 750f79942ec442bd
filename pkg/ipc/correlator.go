package ipc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/websocket"

	"github.com/rexliu/unityctl/pkg/core"
)

// DefaultTimeout bounds a call when the caller passes a non-positive timeout.
const DefaultTimeout = 10 * time.Second

const closedBeforeResponse = "connection closed before response"

// MaxFrameBytes caps a single inbound frame. Larger frames are skipped
// without closing the connection.
const MaxFrameBytes = websocket.DefaultMaxPayloadBytes

// Correlator issues one request over a fresh connection and waits for the
// reply carrying the same id.
type Correlator struct {
	logger   *slog.Logger
	newID    func() string
	dial     func(context.Context, Endpoint) (*websocket.Conn, error)
	maxFrame int
}

// NewCorrelator constructs a Correlator. A nil logger discards output.
func NewCorrelator(logger *slog.Logger) *Correlator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Correlator{
		logger: logger,
		newID:    core.NewRequestID,
		dial:     Dial,
		maxFrame: MaxFrameBytes,
	}
}

// Correlate sends method/params to endpoint and blocks until exactly one
// Outcome settles. The deadline starts when Correlate is entered and covers
// the handshake. Cancelling ctx settles the call as a transport error.
// The connection and timer are released before Correlate returns.
func (c *Correlator) Correlate(ctx context.Context, endpoint Endpoint, method string, params Params, timeout time.Duration) Outcome {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if params == nil {
		params = Params{}
	}
	req := Request{ID: c.newID(), Method: method, Params: params}
	logger := c.logger.With(
		slog.String("request_id", req.ID),
		slog.String("method", method),
		slog.String("endpoint", endpoint.URL()),
	)

	x := newExchange()
	start := time.Now()
	timer := time.AfterFunc(timeout, func() {
		if x.settle(TimeoutOutcome(timeout)) {
			logger.Debug("deadline expired", slog.Duration("timeout", timeout))
		}
	})

	runCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.exchange(runCtx, logger, x, endpoint, req)
	}()

	var out Outcome
	select {
	case out = <-x.done:
	case <-ctx.Done():
		x.settle(TransportErrorOutcome(fmt.Sprintf("request cancelled: %v", ctx.Err())))
		out = <-x.done
	}

	timer.Stop()
	cancel()
	x.closeConn()
	wg.Wait()

	logger.Debug("request settled",
		slog.String("outcome", out.Kind.String()),
		slog.Duration("elapsed", time.Since(start)),
	)
	return out
}

// exchange runs the dial/send/receive side of a call. Every exit settles
// the call or observes that it already settled.
func (c *Correlator) exchange(ctx context.Context, logger *slog.Logger, x *exchange, endpoint Endpoint, req Request) {
	conn, err := c.dial(ctx, endpoint)
	if err != nil {
		if x.settle(TransportErrorOutcome(dialFailure(endpoint, err))) {
			logger.Debug("dial failed", slog.Any("error", err))
		}
		return
	}
	if !x.attach(conn) {
		_ = conn.Close()
		return
	}
	conn.MaxPayloadBytes = c.maxFrame
	logger.Debug("connected")

	if err := WriteFrame(conn, req); err != nil {
		x.settle(TransportErrorOutcome(fmt.Sprintf("send request to %s: %v", endpoint.URL(), err)))
		return
	}

	for {
		payload, err := ReadFrame(conn)
		if errors.Is(err, websocket.ErrFrameTooLarge) {
			logger.Debug("ignoring oversized frame", slog.Int("limit", c.maxFrame))
			continue
		}
		if err != nil {
			if x.settle(TransportErrorOutcome(readFailure(endpoint, err))) {
				logger.Debug("connection lost", slog.Any("error", err))
			}
			return
		}
		resp, ok := decodeResponse(payload)
		if !ok {
			logger.Debug("ignoring malformed frame", slog.Int("bytes", len(payload)))
			continue
		}
		if resp.ID != req.ID {
			logger.Debug("ignoring unrelated frame", slog.String("frame_id", resp.ID))
			continue
		}
		if !x.settle(outcomeFor(resp)) {
			logger.Debug("reply arrived after settlement")
		}
		return
	}
}

func dialFailure(endpoint Endpoint, err error) string {
	url := endpoint.URL()
	msg := strings.TrimSpace(err.Error())
	switch {
	case msg == "":
		return "cannot connect to " + url
	case strings.Contains(msg, url):
		return msg
	default:
		return fmt.Sprintf("cannot connect to %s: %s", url, msg)
	}
}

func readFailure(endpoint Endpoint, err error) string {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return closedBeforeResponse
	}
	return fmt.Sprintf("%s: %s: %v", closedBeforeResponse, endpoint.URL(), err)
}
