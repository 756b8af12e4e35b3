package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

// NameKey carries the dotted component name. The pattern handler renders it
// in its own column instead of as an attribute.
const NameKey = "logger"

const RootName = "namesilo_ddns"

type Logger struct {
	*slog.Logger
	name string
}

var (
	defaultLogger *Logger
	once          sync.Once
)

type Config struct {
	Level     slog.Level
	Format    string
	Output    io.Writer
	AddSource bool
	Name      string
}

func DefaultConfig() *Config {
	return &Config{
		Level:     slog.LevelInfo,
		Format:    "pattern",
		Output:    os.Stderr,
		AddSource: false,
		Name:      RootName,
	}
}

// New builds a logger without touching the process default.
func New(cfg *Config) *Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	name := cfg.Name
	if name == "" {
		name = RootName
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
	}

	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(output, opts).WithAttrs([]slog.Attr{slog.String(NameKey, name)})
	case "text":
		handler = slog.NewTextHandler(output, opts).WithAttrs([]slog.Attr{slog.String(NameKey, name)})
	default:
		handler = NewPatternHandler(output, opts).WithAttrs([]slog.Attr{slog.String(NameKey, name)})
	}

	return &Logger{Logger: slog.New(handler), name: name}
}

func Init(cfg *Config) {
	once.Do(func() {
		defaultLogger = New(cfg)
	})
}

func L() *Logger {
	if defaultLogger == nil {
		Init(DefaultConfig())
	}
	return defaultLogger
}

func (l *Logger) Name() string { return l.name }

func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...), name: l.name}
}

// Named returns a child logger whose name is appended to the parent's with a dot.
func (l *Logger) Named(child string) *Logger {
	full := child
	if l.name != "" {
		full = l.name + "." + child
	}
	return &Logger{Logger: l.Logger.With(NameKey, full), name: full}
}

func Named(child string) *Logger { return L().Named(child) }
