package ipc

import (
	"sync"

	"golang.org/x/net/websocket"
)

// exchange is the per-call settlement state. It moves from pending to settled
// exactly once; every later trigger is ignored.
type exchange struct {
	mu      sync.Mutex
	settled bool
	conn    *websocket.Conn
	done    chan Outcome
}

func newExchange() *exchange {
	return &exchange{done: make(chan Outcome, 1)}
}

// settle records o if nothing has settled yet and reports whether it won.
func (x *exchange) settle(o Outcome) bool {
	x.mu.Lock()
	if x.settled {
		x.mu.Unlock()
		return false
	}
	x.settled = true
	x.mu.Unlock()
	x.done <- o
	return true
}

// attach hands an open connection to the exchange. It returns false when the
// call already settled, in which case the caller owns closing conn.
func (x *exchange) attach(conn *websocket.Conn) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.settled {
		return false
	}
	x.conn = conn
	return true
}

// closeConn closes the attached connection at most once. Close errors are
// swallowed.
func (x *exchange) closeConn() {
	x.mu.Lock()
	conn := x.conn
	x.conn = nil
	x.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}
}
