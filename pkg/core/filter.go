package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

var logTypeSets = map[string][]string{
	"error":   {"Error", "Exception", "Assert"},
	"warning": {"Warning"},
	"info":    {"Log"},
}

// LogTypes lists the accepted console log filters.
func LogTypes() []string {
	return []string{"error", "warning", "info"}
}

// ValidLogType reports whether logType is empty or a known filter.
func ValidLogType(logType string) bool {
	if logType == "" {
		return true
	}
	_, ok := logTypeSets[strings.ToLower(logType)]
	return ok
}

// FilterLogs keeps only result.logs entries whose type belongs to logType.
// Other result fields are preserved. An empty logType or a result without a
// logs array is returned unchanged.
func FilterLogs(result json.RawMessage, logType string) (json.RawMessage, error) {
	if logType == "" {
		return result, nil
	}
	allowed, ok := logTypeSets[strings.ToLower(logType)]
	if !ok {
		return nil, fmt.Errorf("unknown log type %q", logType)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(result, &fields); err != nil || fields == nil {
		return result, nil
	}
	rawLogs, ok := fields["logs"]
	if !ok {
		return result, nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(rawLogs, &entries); err != nil {
		return result, nil
	}

	kept := make([]json.RawMessage, 0, len(entries))
	for _, entry := range entries {
		var head struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(entry, &head); err != nil {
			continue
		}
		if containsFold(allowed, head.Type) {
			kept = append(kept, entry)
		}
	}

	encoded, err := json.Marshal(kept)
	if err != nil {
		return nil, err
	}
	fields["logs"] = encoded
	return json.Marshal(fields)
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}
