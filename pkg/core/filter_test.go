package core

import (
	"encoding/json"
	"testing"
)

func TestFilterLogs(t *testing.T) {
	result := json.RawMessage(`{"logs":[
		{"type":"Error","message":"a"},
		{"type":"Warning","message":"b"},
		{"type":"Log","message":"c"},
		{"type":"Exception","message":"d"},
		{"type":"Assert","message":"e"},
		"garbage"
	],"_totalCount":6}`)

	t.Run("error keeps error exception assert", func(t *testing.T) {
		got := decodeLogs(t, mustFilter(t, result, "error"))
		want := []string{"a", "d", "e"}
		if len(got.Logs) != len(want) {
			t.Fatalf("expected %d logs, got %d", len(want), len(got.Logs))
		}
		for i, msg := range want {
			if got.Logs[i].Message != msg {
				t.Fatalf("entry %d: expected %q, got %q", i, msg, got.Logs[i].Message)
			}
		}
		if got.Total != 6 {
			t.Fatalf("expected other fields preserved, got total %d", got.Total)
		}
	})

	t.Run("warning", func(t *testing.T) {
		got := decodeLogs(t, mustFilter(t, result, "warning"))
		if len(got.Logs) != 1 || got.Logs[0].Message != "b" {
			t.Fatalf("unexpected logs %+v", got.Logs)
		}
	})

	t.Run("info is case insensitive", func(t *testing.T) {
		got := decodeLogs(t, mustFilter(t, result, "INFO"))
		if len(got.Logs) != 1 || got.Logs[0].Message != "c" {
			t.Fatalf("unexpected logs %+v", got.Logs)
		}
	})

	t.Run("empty type leaves result untouched", func(t *testing.T) {
		out := mustFilter(t, result, "")
		if string(out) != string(result) {
			t.Fatalf("expected untouched result")
		}
	})

	t.Run("result without logs untouched", func(t *testing.T) {
		raw := json.RawMessage(`{"success":true}`)
		if out := mustFilter(t, raw, "error"); string(out) != string(raw) {
			t.Fatalf("expected untouched result, got %s", out)
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		if _, err := FilterLogs(result, "verbose"); err == nil {
			t.Fatal("expected error for unknown log type")
		}
	})
}

func TestValidLogType(t *testing.T) {
	for _, v := range []string{"", "error", "Warning", "info"} {
		if !ValidLogType(v) {
			t.Fatalf("expected %q to be valid", v)
		}
	}
	if ValidLogType("debug") {
		t.Fatal("debug should not be a valid log type")
	}
}

type filteredLogs struct {
	Logs []struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"logs"`
	Total int `json:"_totalCount"`
}

func mustFilter(t *testing.T, result json.RawMessage, logType string) json.RawMessage {
	t.Helper()
	out, err := FilterLogs(result, logType)
	if err != nil {
		t.Fatalf("filter %q: %v", logType, err)
	}
	return out
}

func decodeLogs(t *testing.T, raw json.RawMessage) filteredLogs {
	t.Helper()
	var got filteredLogs
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("decode filtered result: %v", err)
	}
	return got
}
