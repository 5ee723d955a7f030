package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"gopkg.in/yaml.v3"

	"github.com/dropDatabas3/pwfilter/internal/audit"
	"github.com/dropDatabas3/pwfilter/internal/config"
	"github.com/dropDatabas3/pwfilter/internal/metrics"
	"github.com/dropDatabas3/pwfilter/internal/observability/logger"
	"github.com/dropDatabas3/pwfilter/internal/security/password"
	"github.com/dropDatabas3/pwfilter/internal/security/wordlist"
	"github.com/dropDatabas3/pwfilter/internal/settings"
)

type rootOptions struct {
	configPath  string
	envFile     string
	printConfig bool
}

// app is what a subcommand gets after bootstrap. close releases every
// connection opened for it.
type app struct {
	cfg      *config.Config
	settings settings.Provider
	closers  []func() error
}

// errConfigPrinted stops a command after --print-config.
var errConfigPrinted = exitError(0)

// loadConfig: .env (si existe) → YAML o solo env → logger.
func loadConfig(opts *rootOptions, stdout io.Writer) (*config.Config, error) {
	dotenv := false
	if opts.envFile != "" {
		if err := godotenv.Load(opts.envFile); err == nil {
			dotenv = true
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("dotenv %s: %w", opts.envFile, err)
		}
	}

	var cfg *config.Config
	var err error
	if opts.configPath != "" {
		cfg, err = config.Load(opts.configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, err
	}

	logger.Init(logger.Config{
		Env:         cfg.Log.Env,
		Level:       cfg.Log.Level,
		Output:      cfg.Log.Output,
		ServiceName: "pwfilter",
		Version:     version,
	})
	if dotenv {
		logger.S().Debugf("dotenv: cargado %s", opts.envFile)
	}

	if opts.printConfig {
		b, err := yaml.Marshal(cfg.Redacted())
		if err != nil {
			return nil, err
		}
		_, _ = stdout.Write(b)
		return nil, errConfigPrinted
	}
	return cfg, nil
}

// openApp loads config and opens the settings backend.
func openApp(ctx context.Context, opts *rootOptions, stdout io.Writer) (*app, error) {
	cfg, err := loadConfig(opts, stdout)
	if err != nil {
		return nil, err
	}
	if err := metrics.Register(nil); err != nil {
		return nil, err
	}
	p, closeFn, err := settings.Open(ctx, cfg.SettingsConfig())
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, settings: p, closers: []func() error{closeFn}}, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.L().Warn("close failed", logger.Err(err))
		}
	}
	_ = logger.Sync()
}

func (a *app) engine() *password.Engine {
	return password.NewEngine(a.settings, password.Options{
		Scope:     a.cfg.Settings.Scope,
		Allocator: password.LimitAllocator(a.cfg.Password.MaxBytes),
		List:      wordlist.Options{MaxBytes: a.cfg.Wordlist.MaxFileBytes},
	})
}

func (a *app) listOptions() wordlist.Options {
	return wordlist.Options{MaxBytes: a.cfg.Wordlist.MaxFileBytes}
}

// auditSink builds the sinks named in audit.sinks.
func (a *app) auditSink() (audit.Sink, error) {
	var sinks audit.Multi
	if a.cfg.HasSink("log") {
		sinks = append(sinks, audit.LogSink{Logger: logger.Named("audit"), MaskAccounts: a.cfg.Audit.MaskAccounts})
	}
	if a.cfg.HasSink("nats") {
		nc, err := audit.ConnectNATS(a.cfg.Audit.NATS.URL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, drainer(nc))
		sinks = append(sinks, audit.NATSSink{Conn: nc, Subject: a.cfg.Audit.NATS.Subject, MaskAccounts: a.cfg.Audit.MaskAccounts})
	}
	switch len(sinks) {
	case 0:
		return audit.Discard, nil
	case 1:
		return sinks[0], nil
	}
	return sinks, nil
}

// drainer flushes buffered audit messages before closing.
func drainer(nc *nats.Conn) func() error {
	return func() error {
		if err := nc.Flush(); err != nil {
			nc.Close()
			return err
		}
		nc.Close()
		return nil
	}
}

// writeMetrics dumps the textfile when metrics.textfile is set.
func (a *app) writeMetrics() {
	if a.cfg.Metrics.Textfile == "" {
		return
	}
	if err := metrics.WriteTextfile(a.cfg.Metrics.Textfile, nil); err != nil {
		logger.L().Warn("metrics textfile", logger.Path(a.cfg.Metrics.Textfile), logger.Err(err))
	}
}
