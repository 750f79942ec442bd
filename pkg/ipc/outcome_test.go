package ipc

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestOutcomeJSON(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		data, err := json.Marshal(SuccessOutcome(json.RawMessage(`{"logs":[]}`)))
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(data) != `{"success":true,"result":{"logs":[]}}` {
			t.Fatalf("unexpected json %s", data)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		data, err := json.Marshal(TimeoutOutcome(10 * time.Second))
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var got map[string]any
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got["success"] != false || got["kind"] != "timeout" || got["elapsedMs"] != float64(10000) {
			t.Fatalf("unexpected json %s", data)
		}
	})

	t.Run("remote error", func(t *testing.T) {
		data, err := json.Marshal(RemoteErrorOutcome("X"))
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(data) != `{"success":false,"kind":"remote_error","error":"X"}` {
			t.Fatalf("unexpected json %s", data)
		}
	})
}

func TestOutcomeErr(t *testing.T) {
	if err := SuccessOutcome(nil).Err(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	var remote *RemoteError
	if err := RemoteErrorOutcome("X").Err(); !errors.As(err, &remote) || remote.Message != "X" {
		t.Fatalf("expected RemoteError X, got %v", err)
	}

	var transport *TransportError
	if err := TransportErrorOutcome("refused").Err(); !errors.As(err, &transport) {
		t.Fatalf("expected TransportError, got %v", err)
	}

	var timeout *TimeoutError
	err := TimeoutOutcome(250 * time.Millisecond).Err()
	if !errors.As(err, &timeout) || timeout.Elapsed != 250*time.Millisecond {
		t.Fatalf("expected TimeoutError, got %v", err)
	}
	if err.Error() != "request timed out after 250 ms" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
