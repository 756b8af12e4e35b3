package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/lite-lake/namesilo-ddns/internal/constants"
	"github.com/lite-lake/namesilo-ddns/internal/domain/entity"
	"github.com/lite-lake/namesilo-ddns/internal/domain/service"
	"github.com/lite-lake/namesilo-ddns/internal/infrastructure/logger"
	"github.com/lite-lake/namesilo-ddns/internal/infrastructure/persistence"
)

type session struct {
	cfg    *entity.Config
	log    *logger.Logger
	closer io.Closer
}

func (s *session) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// bootstrap loads the configuration, opens the log sinks it names and
// validates it. useLogFile selects the file sink; commands that only report
// to the console pass false unless --log-file was given.
func bootstrap(ctx context.Context, cctx *Context, useLogFile bool) (*session, error) {
	raw, err := persistence.NewConfigLoader(cctx.ConfigPath).Load(ctx)
	if err != nil {
		return nil, err
	}

	logFile := cctx.LogFile
	if logFile == "" && useLogFile {
		logFile = constants.DefaultLogFile
		if raw.LogFile != nil && *raw.LogFile != "" {
			logFile = *raw.LogFile
		}
	}
	var console io.Writer
	if logFile == "" || cctx.Verbose || (raw.Verbose != nil && *raw.Verbose) {
		console = cctx.Stderr
	}

	out, closer, err := logger.OpenSinks(logFile, console)
	if err != nil {
		return nil, err
	}

	level := slog.LevelInfo
	if cctx.Debug {
		level = slog.LevelDebug
	}
	logCfg := &logger.Config{
		Level:     level,
		Format:    cctx.LogFormat,
		Output:    out,
		AddSource: cctx.Debug,
		Name:      logger.RootName,
	}
	logger.Init(logCfg)
	log := logger.New(logCfg)

	cfg, err := service.NewConfigValidator(log).Validate(raw)
	if err != nil {
		log.Error("invalid configuration", "path", raw.Source, "error", err)
		_ = closer.Close()
		return nil, err
	}
	if cctx.Verbose {
		cfg.Verbose = true
	}
	if cctx.LogFile != "" {
		cfg.LogFile = cctx.LogFile
	}

	log.Debug("configuration validated", "path", cfg.Source, "domains", len(cfg.Domains))
	return &session{cfg: cfg, log: log, closer: closer}, nil
}
