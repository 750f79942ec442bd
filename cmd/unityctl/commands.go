package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rexliu/unityctl/pkg/core"
	"github.com/rexliu/unityctl/pkg/ipc"
)

func catalogEntry(name string) core.Command {
	entry, ok := core.LookupCommand(name)
	if !ok {
		panic(fmt.Sprintf("command %q missing from catalog", name))
	}
	return entry
}

func newLogsCommand(ctx *commandContext) *cobra.Command {
	entry := catalogEntry("logs")
	var logType string
	var limit, offset int
	var stackTrace bool

	cmd := &cobra.Command{
		Use:   "logs",
		Short: entry.Summary,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !core.ValidLogType(logType) {
				return fmt.Errorf("--type must be one of %s", strings.Join(core.LogTypes(), ", "))
			}
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive, got %d", limit)
			}
			if offset < 0 {
				return fmt.Errorf("--offset must not be negative, got %d", offset)
			}
			params := ipc.Params{
				"offset":            offset,
				"limit":             limit,
				"includeStackTrace": stackTrace,
			}
			if logType != "" {
				params["logType"] = strings.ToLower(logType)
			}
			filter := func(result json.RawMessage) (json.RawMessage, error) {
				return core.FilterLogs(result, logType)
			}
			return ctx.call(cmd, entry, params, filter)
		},
	}
	cmd.Flags().StringVar(&logType, "type", "", "Only keep logs of this type (error, warning, info)")
	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum number of log entries")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of newest entries to skip")
	cmd.Flags().BoolVar(&stackTrace, "stack-trace", true, "Include stack traces")
	return cmd
}

func newMenuCommand(ctx *commandContext) *cobra.Command {
	entry := catalogEntry("menu")
	return &cobra.Command{
		Use:   "menu <menu-path>",
		Short: entry.Summary,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.call(cmd, entry, ipc.Params{"menuPath": args[0]}, nil)
		},
	}
}

func newSelectCommand(ctx *commandContext) *cobra.Command {
	entry := catalogEntry("select")
	return &cobra.Command{
		Use:   "select <object-path|instance-id>",
		Short: entry.Summary,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := ipc.Params{}
			if id, err := strconv.ParseInt(args[0], 10, 64); err == nil {
				params["instanceId"] = id
			} else {
				params["objectPath"] = args[0]
			}
			return ctx.call(cmd, entry, params, nil)
		},
	}
}

func newObjectCommand(ctx *commandContext) *cobra.Command {
	entry := catalogEntry("object")
	return &cobra.Command{
		Use:   "object <id-or-name>",
		Short: entry.Summary,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.call(cmd, entry, ipc.Params{"idOrName": args[0]}, nil)
		},
	}
}

func newLogCommand(ctx *commandContext) *cobra.Command {
	entry := catalogEntry("log")
	var logType string

	cmd := &cobra.Command{
		Use:   "log <message>",
		Short: entry.Summary,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if logType == "" || !core.ValidLogType(logType) {
				return fmt.Errorf("--type must be one of %s", strings.Join(core.LogTypes(), ", "))
			}
			params := ipc.Params{"message": args[0], "type": strings.ToLower(logType)}
			return ctx.call(cmd, entry, params, nil)
		},
	}
	cmd.Flags().StringVar(&logType, "type", "info", "Console log type (info, warning, error)")
	return cmd
}

func newRecompileCommand(ctx *commandContext) *cobra.Command {
	entry := catalogEntry("recompile")
	var withLogs bool
	var logsLimit int

	cmd := &cobra.Command{
		Use:   "recompile",
		Short: entry.Summary,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := ipc.Params{"returnWithLogs": withLogs, "logsLimit": logsLimit}
			return ctx.call(cmd, entry, params, nil)
		},
	}
	cmd.Flags().BoolVar(&withLogs, "with-logs", true, "Return compilation logs")
	cmd.Flags().IntVar(&logsLimit, "logs-limit", 100, "Maximum number of compilation logs")
	return cmd
}

func newTestCommand(ctx *commandContext) *cobra.Command {
	entry := catalogEntry("test")
	var mode, filter string
	var failuresOnly, withLogs bool

	cmd := &cobra.Command{
		Use:   "test",
		Short: entry.Summary,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch mode {
			case "EditMode", "PlayMode":
			default:
				return fmt.Errorf("--mode must be EditMode or PlayMode, got %q", mode)
			}
			params := ipc.Params{
				"testMode":           mode,
				"returnOnlyFailures": failuresOnly,
				"returnWithLogs":     withLogs,
			}
			if filter != "" {
				params["testFilter"] = filter
			}
			return ctx.call(cmd, entry, params, nil)
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "EditMode", "Test mode (EditMode or PlayMode)")
	cmd.Flags().StringVar(&filter, "filter", "", "Full name of the test, fixture or namespace to run")
	cmd.Flags().BoolVar(&failuresOnly, "failures-only", true, "Only report failing tests")
	cmd.Flags().BoolVar(&withLogs, "with-logs", false, "Include test logs")
	return cmd
}

func newPackageCommand(ctx *commandContext) *cobra.Command {
	packageCmd := &cobra.Command{
		Use:   "package",
		Short: "Package Manager operations",
	}
	packageCmd.AddCommand(newPackageAddCommand(ctx))
	return packageCmd
}

func newPackageAddCommand(ctx *commandContext) *cobra.Command {
	entry := catalogEntry("package add")
	var source, version string

	cmd := &cobra.Command{
		Use:   "add <package>",
		Short: entry.Summary,
		Long:  "Add a package. The argument is a package name for registry, a repository URL for github and a local path for disk.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := ipc.Params{"source": source}
			switch source {
			case "registry":
				params["packageName"] = args[0]
				if version != "" {
					params["version"] = version
				}
			case "github":
				params["repositoryUrl"] = args[0]
				if version != "" {
					params["branch"] = version
				}
			case "disk":
				params["path"] = args[0]
			default:
				return fmt.Errorf("--source must be registry, github or disk, got %q", source)
			}
			return ctx.call(cmd, entry, params, nil)
		},
	}
	cmd.Flags().StringVar(&source, "source", "registry", "Package source (registry, github, disk)")
	cmd.Flags().StringVar(&version, "version", "", "Package version (registry) or branch (github)")
	return cmd
}

func newCallCommand(ctx *commandContext) *cobra.Command {
	var pairs []string
	var long bool

	cmd := &cobra.Command{
		Use:   "call <method>",
		Short: "Invoke any editor method with key=value params",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := core.ParseParams(pairs)
			if err != nil {
				return err
			}
			entry := core.Command{Name: "call", Method: args[0], LongRunning: long}
			return ctx.call(cmd, entry, ipc.Params(params), nil)
		},
	}
	cmd.Flags().StringArrayVarP(&pairs, "param", "p", nil, "Request param as key=value (repeatable)")
	cmd.Flags().BoolVar(&long, "long", false, "Use the long request timeout")
	return cmd
}
