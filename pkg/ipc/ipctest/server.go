// Package ipctest provides an in-process McpUnity websocket peer for tests.
package ipctest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"time"

	"golang.org/x/net/websocket"

	"github.com/rexliu/unityctl/pkg/ipc"
)

// HandlerFunc processes request params and returns a result or structured error.
type HandlerFunc func(context.Context, json.RawMessage) (any, *ipc.Error)

// StreamFunc gets full control over the connection for one request.
type StreamFunc func(context.Context, *Call)

// Call is one inbound request together with its connection.
type Call struct {
	ID     string
	Method string
	Params json.RawMessage

	conn *websocket.Conn
}

// Send writes v as a JSON text frame.
func (c *Call) Send(v any) error {
	return ipc.WriteFrame(c.conn, v)
}

// SendRaw writes payload verbatim as a text frame.
func (c *Call) SendRaw(payload string) error {
	return websocket.Message.Send(c.conn, payload)
}

// Reply answers the call with result.
func (c *Call) Reply(result any) error {
	return c.Send(map[string]any{"id": c.ID, "result": result})
}

// Fail answers the call with an error message.
func (c *Call) Fail(message string) error {
	return c.Send(map[string]any{"id": c.ID, "error": ipc.Error{Message: message}})
}

// Close drops the connection without replying.
func (c *Call) Close() error {
	return c.conn.Close()
}

// Server accepts websocket connections on the McpUnity path.
type Server struct {
	mu       sync.RWMutex
	handlers map[string]StreamFunc
	requests []ipc.Request
	opened   int
	closed   int
	logger   *slog.Logger
	srv      *httptest.Server
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewServer constructs and starts a server on a loopback port.
func NewServer(logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		handlers: make(map[string]StreamFunc),
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
	mux := http.NewServeMux()
	mux.Handle(ipc.EndpointPath, websocket.Handler(s.handleConn))
	s.srv = httptest.NewServer(mux)
	return s
}

// Register installs a handler for a method.
func (s *Server) Register(method string, handler HandlerFunc) {
	s.RegisterStream(method, func(ctx context.Context, call *Call) {
		result, rpcErr := handler(ctx, call.Params)
		if rpcErr != nil {
			_ = call.Send(map[string]any{"id": call.ID, "error": rpcErr})
			return
		}
		_ = call.Reply(result)
	})
}

// RegisterStream installs a handler that writes frames itself.
func (s *Server) RegisterStream(method string, handler StreamFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[method] = handler
}

// Endpoint returns the address clients should dial.
func (s *Server) Endpoint() ipc.Endpoint {
	u, err := url.Parse(s.srv.URL)
	if err != nil {
		return ipc.Endpoint{}
	}
	host, portStr, err := net.SplitHostPort(u.Host)
	if err != nil {
		return ipc.Endpoint{}
	}
	port, _ := strconv.Atoi(portStr)
	return ipc.Endpoint{Host: host, Port: port}
}

// Requests returns every request frame received so far.
func (s *Server) Requests() []ipc.Request {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ipc.Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Connections reports how many connections were opened and how many have
// finished.
func (s *Server) Connections() (opened, closed int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opened, s.closed
}

// WaitIdle blocks until every opened connection has finished or timeout
// elapses. It reports whether the server went idle.
func (s *Server) WaitIdle(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		opened, closed := s.Connections()
		if opened == closed {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// Close stops the listener and unblocks handlers.
func (s *Server) Close() {
	s.cancel()
	s.srv.CloseClientConnections()
	s.srv.Close()
}

func (s *Server) handleConn(conn *websocket.Conn) {
	s.mu.Lock()
	s.opened++
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.closed++
		s.mu.Unlock()
	}()
	defer conn.Close()

	for {
		payload, err := ipc.ReadFrame(conn)
		if err != nil {
			return
		}
		var raw struct {
			ID     string          `json:"id"`
			Method string          `json:"method"`
			Params json.RawMessage `json:"params"`
		}
		if err := json.Unmarshal(payload, &raw); err != nil {
			s.logger.Debug("invalid request frame", slog.Any("error", err))
			continue
		}
		var params ipc.Params
		_ = json.Unmarshal(raw.Params, &params)
		s.mu.Lock()
		s.requests = append(s.requests, ipc.Request{ID: raw.ID, Method: raw.Method, Params: params})
		s.mu.Unlock()

		call := &Call{ID: raw.ID, Method: raw.Method, Params: raw.Params, conn: conn}
		handler := s.lookupHandler(raw.Method)
		if handler == nil {
			_ = call.Fail("Unknown method: " + raw.Method)
			continue
		}
		handler(s.ctx, call)
	}
}

func (s *Server) lookupHandler(method string) StreamFunc {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.handlers[method]
}
