package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rexliu/unityctl/pkg/config"
	"github.com/rexliu/unityctl/pkg/core"
	"github.com/rexliu/unityctl/pkg/ipc"
	"github.com/rexliu/unityctl/pkg/logging"
)

type commandContext struct {
	configFlag  string
	hostFlag    string
	portFlag    int
	timeoutFlag int

	config    *config.Config
	configErr error
	loaded    bool

	logger    *slog.Logger
	logCloser io.Closer
}

func newCommandContext() *commandContext {
	return &commandContext{}
}

// ensureConfig loads the profile once and applies flag overrides.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.loaded {
		return c.config, c.configErr
	}
	c.loaded = true
	cfg, err := config.Load(config.ResolvePath(c.configFlag))
	if err != nil {
		c.configErr = fmt.Errorf("load config: %w", err)
		return nil, c.configErr
	}
	if h := strings.TrimSpace(c.hostFlag); h != "" {
		cfg.Unity.Host = h
	}
	if c.portFlag != 0 {
		cfg.Unity.Port = c.portFlag
	}
	if c.timeoutFlag < 0 {
		c.configErr = fmt.Errorf("--timeout must be positive, got %d", c.timeoutFlag)
		return nil, c.configErr
	}
	if err := cfg.Validate(); err != nil {
		c.configErr = fmt.Errorf("invalid config: %w", err)
		return nil, c.configErr
	}
	c.config = cfg
	return c.config, nil
}

func (c *commandContext) ensureLogger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, error) {
	if c.logger != nil {
		return c.logger, nil
	}
	opts := logging.OptionsFromConfig(cfg.Logging)
	opts.Output = cmd.ErrOrStderr()
	logger, closer, err := logging.New(opts)
	if err != nil {
		return nil, err
	}
	c.logger = logger
	c.logCloser = closer
	return logger, nil
}

func (c *commandContext) timeout(cfg *config.Config, longRunning bool) time.Duration {
	if c.timeoutFlag > 0 {
		return time.Duration(c.timeoutFlag) * time.Millisecond
	}
	return cfg.Timeout(longRunning)
}

func (c *commandContext) close() {
	if c.logCloser != nil {
		_ = c.logCloser.Close()
	}
}

// resultFilter post-processes a successful result before it is printed.
type resultFilter func(json.RawMessage) (json.RawMessage, error)

// call issues one request for entry and writes the outcome to stdout.
func (c *commandContext) call(cmd *cobra.Command, entry core.Command, params ipc.Params, filter resultFilter) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.ensureLogger(cmd, cfg)
	if err != nil {
		return err
	}
	endpoint := ipc.Endpoint{Host: cfg.Unity.Host, Port: cfg.Unity.Port}
	timeout := c.timeout(cfg, entry.LongRunning)
	logger.Info("sending request",
		slog.String("method", entry.Method),
		slog.String("endpoint", endpoint.URL()),
		slog.Duration("timeout", timeout),
	)

	out := ipc.NewCorrelator(logger).Correlate(cmd.Context(), endpoint, entry.Method, params, timeout)
	if out.OK() && filter != nil {
		filtered, err := filter(out.Result)
		if err != nil {
			logger.Warn("result filter failed", slog.Any("error", err))
		} else {
			out.Result = filtered
		}
	}
	if err := writeJSON(cmd, out); err != nil {
		return err
	}
	if err := out.Err(); err != nil {
		logger.Info("request failed", slog.String("outcome", out.Kind.String()), slog.Any("error", err))
		return &outcomeError{err: err}
	}
	return nil
}
