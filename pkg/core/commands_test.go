package core

import (
	"testing"

	"github.com/oklog/ulid/v2"
)

func TestParseScalar(t *testing.T) {
	cases := []struct {
		raw  string
		want any
		keep bool
	}{
		{raw: "true", want: true, keep: true},
		{raw: "false", want: false, keep: true},
		{raw: "10", want: int64(10), keep: true},
		{raw: "-3", want: int64(-3), keep: true},
		{raw: "1.5", want: 1.5, keep: true},
		{raw: "null", want: nil, keep: false},
		{raw: "Assets/Scenes/Main.unity", want: "Assets/Scenes/Main.unity", keep: true},
		{raw: "", want: "", keep: true},
	}
	for _, tc := range cases {
		got, keep := ParseScalar(tc.raw)
		if keep != tc.keep || got != tc.want {
			t.Fatalf("ParseScalar(%q) = %v, %t; want %v, %t", tc.raw, got, keep, tc.want, tc.keep)
		}
	}
}

func TestParseParams(t *testing.T) {
	params, err := ParseParams([]string{"limit=10", "includeStackTrace=false", "logType=error", "offset=null", "menuPath=File/Save=As"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if params["limit"] != int64(10) || params["includeStackTrace"] != false || params["logType"] != "error" {
		t.Fatalf("unexpected params %v", params)
	}
	if _, ok := params["offset"]; ok {
		t.Fatal("null values should be omitted")
	}
	if params["menuPath"] != "File/Save=As" {
		t.Fatalf("value should keep everything after the first '=', got %v", params["menuPath"])
	}

	if _, err := ParseParams([]string{"novalue"}); err == nil {
		t.Fatal("expected error for missing '='")
	}
	if _, err := ParseParams([]string{"=x"}); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestCommandsCatalog(t *testing.T) {
	entry, ok := LookupCommand("logs")
	if !ok || entry.Method != "get_console_logs" {
		t.Fatalf("unexpected logs entry %+v", entry)
	}
	if _, ok := LookupCommand("missing"); ok {
		t.Fatal("unexpected entry for unknown command")
	}
	seen := map[string]bool{}
	for _, cmd := range Commands() {
		if seen[cmd.Method] {
			t.Fatalf("method %s mapped twice", cmd.Method)
		}
		seen[cmd.Method] = true
	}
}

func TestNewRequestID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		id := NewRequestID()
		if _, err := ulid.ParseStrict(id); err != nil {
			t.Fatalf("invalid ulid %q: %v", id, err)
		}
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}
