package ipc

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"golang.org/x/net/websocket"
)

// EndpointPath is the websocket route served by the editor.
const EndpointPath = "/McpUnity"

// Endpoint identifies the editor's message socket.
type Endpoint struct {
	Host string
	Port int
}

// URL returns the websocket location for the endpoint.
func (e Endpoint) URL() string {
	return "ws://" + net.JoinHostPort(e.Host, strconv.Itoa(e.Port)) + EndpointPath
}

func (e Endpoint) origin() string {
	return "http://" + net.JoinHostPort(e.Host, strconv.Itoa(e.Port)) + "/"
}

func (e Endpoint) String() string {
	return e.URL()
}

// Dial opens a websocket connection to e. The handshake honours ctx.
func Dial(ctx context.Context, e Endpoint) (*websocket.Conn, error) {
	cfg, err := websocket.NewConfig(e.URL(), e.origin())
	if err != nil {
		return nil, fmt.Errorf("websocket config %s: %w", e.URL(), err)
	}
	return cfg.DialContext(ctx)
}
