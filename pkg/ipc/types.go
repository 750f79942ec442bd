package ipc

import "encoding/json"

// Params holds scalar request options keyed by option name.
type Params map[string]any

// Request is the single frame sent to the editor per call.
type Request struct {
	ID     string `json:"id"`
	Method string `json:"method"`
	Params Params `json:"params"`
}

// Response models a reply frame. Fields stay raw so a malformed error or
// result never prevents id matching.
type Response struct {
	ID     string          `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  json.RawMessage `json:"error,omitempty"`
}

// Error is the structured failure carried by a reply frame.
type Error struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
}
