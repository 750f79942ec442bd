package ipc

import (
	"encoding/json"
	"fmt"
	"time"
)

// OutcomeKind enumerates the terminal states of a call.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota + 1
	OutcomeRemoteError
	OutcomeTransportError
	OutcomeTimeout
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeRemoteError:
		return "remote_error"
	case OutcomeTransportError:
		return "transport_error"
	case OutcomeTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Outcome is the single terminal value produced by a Correlator call.
type Outcome struct {
	Kind    OutcomeKind
	Result  json.RawMessage
	Message string
	Elapsed time.Duration
}

// SuccessOutcome wraps the reply payload.
func SuccessOutcome(result json.RawMessage) Outcome {
	return Outcome{Kind: OutcomeSuccess, Result: result}
}

// RemoteErrorOutcome records a failure reported by the editor.
func RemoteErrorOutcome(message string) Outcome {
	return Outcome{Kind: OutcomeRemoteError, Message: message}
}

// TransportErrorOutcome records a connection level failure.
func TransportErrorOutcome(message string) Outcome {
	return Outcome{Kind: OutcomeTransportError, Message: message}
}

// TimeoutOutcome records a deadline expiry after elapsed.
func TimeoutOutcome(elapsed time.Duration) Outcome {
	return Outcome{
		Kind:    OutcomeTimeout,
		Message: fmt.Sprintf("request timed out after %d ms", elapsed.Milliseconds()),
		Elapsed: elapsed,
	}
}

// OK reports whether the call succeeded.
func (o Outcome) OK() bool {
	return o.Kind == OutcomeSuccess
}

// Err converts a failed outcome into a typed error; it is nil on success.
func (o Outcome) Err() error {
	switch o.Kind {
	case OutcomeSuccess:
		return nil
	case OutcomeRemoteError:
		return &RemoteError{Message: o.Message}
	case OutcomeTransportError:
		return &TransportError{Message: o.Message}
	case OutcomeTimeout:
		return &TimeoutError{Elapsed: o.Elapsed}
	default:
		return fmt.Errorf("unsettled outcome")
	}
}

type outcomeJSON struct {
	Success   bool            `json:"success"`
	Kind      string          `json:"kind,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	ElapsedMs int64           `json:"elapsedMs,omitempty"`
}

// MarshalJSON renders the outcome as written to stdout by the CLI.
func (o Outcome) MarshalJSON() ([]byte, error) {
	if o.OK() {
		result := o.Result
		if result == nil {
			result = json.RawMessage("null")
		}
		return json.Marshal(outcomeJSON{Success: true, Result: result})
	}
	out := outcomeJSON{Kind: o.Kind.String(), Error: o.Message}
	if o.Kind == OutcomeTimeout {
		out.ElapsedMs = o.Elapsed.Milliseconds()
	}
	return json.Marshal(out)
}

// RemoteError means the editor understood the request and reported failure.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return "unity error: " + e.Message
}

// TransportError means the connection could not be established or was lost.
type TransportError struct {
	Message string
}

func (e *TransportError) Error() string {
	return e.Message
}

// TimeoutError means no matching reply arrived within the deadline.
type TimeoutError struct {
	Elapsed time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out after %d ms", e.Elapsed.Milliseconds())
}
