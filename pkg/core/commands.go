package core

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Command maps a CLI verb to the editor method it invokes.
type Command struct {
	Name    string
	Method  string
	Summary string
	// LongRunning commands use the long timeout by default.
	LongRunning bool
}

var commands = []Command{
	{Name: "logs", Method: "get_console_logs", Summary: "Fetch Unity console logs"},
	{Name: "menu", Method: "execute_menu_item", Summary: "Execute a Unity menu item by path"},
	{Name: "select", Method: "select_gameobject", Summary: "Select a GameObject in the hierarchy"},
	{Name: "object", Method: "get_gameobject", Summary: "Describe a GameObject by id, name or path"},
	{Name: "log", Method: "send_console_log", Summary: "Write a message to the Unity console"},
	{Name: "recompile", Method: "recompile_scripts", Summary: "Recompile project scripts", LongRunning: true},
	{Name: "test", Method: "run_tests", Summary: "Run tests through the Unity Test Runner", LongRunning: true},
	{Name: "package add", Method: "add_package", Summary: "Add a package through the Package Manager", LongRunning: true},
}

// Commands returns the catalog sorted by name.
func Commands() []Command {
	out := make([]Command, len(commands))
	copy(out, commands)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LookupCommand finds a catalog entry by CLI name.
func LookupCommand(name string) (Command, bool) {
	for _, cmd := range commands {
		if cmd.Name == name {
			return cmd, true
		}
	}
	return Command{}, false
}

// ParseScalar coerces a flag value into a bool, number or string. The second
// return is false for "null", meaning the option should be omitted.
func ParseScalar(raw string) (any, bool) {
	switch raw {
	case "null":
		return nil, false
	case "true":
		return true, true
	case "false":
		return false, true
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i, true
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f, true
	}
	return raw, true
}

// ParseParams turns key=value pairs into request params.
func ParseParams(pairs []string) (map[string]any, error) {
	params := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid param %q (want key=value)", pair)
		}
		if v, keep := ParseScalar(value); keep {
			params[key] = v
		} else {
			delete(params, key)
		}
	}
	return params, nil
}
