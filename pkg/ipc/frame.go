package ipc

import (
	"encoding/json"
	"strings"

	"golang.org/x/net/websocket"
)

// fallbackRemoteMessage is used when the editor reports a failure without text.
const fallbackRemoteMessage = "Unity error"

// WriteFrame sends v as a single JSON text frame.
func WriteFrame(conn *websocket.Conn, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return websocket.Message.Send(conn, string(payload))
}

// ReadFrame blocks until the next text or binary frame arrives.
func ReadFrame(conn *websocket.Conn) ([]byte, error) {
	var payload []byte
	if err := websocket.Message.Receive(conn, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// decodeResponse parses payload and reports whether it is a usable reply.
func decodeResponse(payload []byte) (Response, bool) {
	var resp Response
	if err := json.Unmarshal(payload, &resp); err != nil {
		return Response{}, false
	}
	if resp.ID == "" {
		return Response{}, false
	}
	return resp, true
}

// outcomeFor maps a matching reply to its terminal Outcome.
func outcomeFor(resp Response) Outcome {
	if present(resp.Error) {
		return RemoteErrorOutcome(remoteMessage(resp.Error))
	}
	if resp.Result == nil {
		return RemoteErrorOutcome(fallbackRemoteMessage)
	}
	return SuccessOutcome(resp.Result)
}

func present(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed != "" && trimmed != "null"
}

func remoteMessage(raw json.RawMessage) string {
	var structured Error
	if err := json.Unmarshal(raw, &structured); err == nil {
		if msg := strings.TrimSpace(structured.Message); msg != "" {
			return msg
		}
		return fallbackRemoteMessage
	}
	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil && strings.TrimSpace(plain) != "" {
		return plain
	}
	return fallbackRemoteMessage
}
