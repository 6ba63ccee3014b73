package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is the process-wide logger. Init replaces it.
var Logger = log.Logger

type Config struct {
	Level        string
	Format       string // json or pretty
	TimeFormat   string
	ReportCaller bool
}

func Init(config Config) {
	InitWriter(os.Stdout, config)
}

// InitWriter is Init with an explicit destination, used by the CLI to keep
// stdout for results.
func InitWriter(out io.Writer, config Config) {
	level, err := zerolog.ParseLevel(config.Level)
	if err != nil || config.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if config.TimeFormat == "" {
		zerolog.TimeFieldFormat = time.RFC3339
	} else {
		zerolog.TimeFieldFormat = config.TimeFormat
	}

	Logger = New(out, config, level)
	log.Logger = Logger
}

// New builds a logger writing to out without touching the global one.
func New(out io.Writer, config Config, level zerolog.Level) zerolog.Logger {
	if config.Format == "pretty" {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: config.TimeFormat,
		}
	}

	ctx := zerolog.New(out).Level(level).With().Timestamp()
	if config.ReportCaller {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

func Debug() *zerolog.Event {
	return Logger.Debug()
}

func Info() *zerolog.Event {
	return Logger.Info()
}

func Warn() *zerolog.Event {
	return Logger.Warn()
}

func Error() *zerolog.Event {
	return Logger.Error()
}

func Fatal() *zerolog.Event {
	return Logger.Fatal()
}

// Ctx returns the logger stored in ctx, falling back to the global logger.
func Ctx(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &Logger
}

// WithRequest returns a context whose logger carries the request line.
func WithRequest(ctx context.Context, method, path string) context.Context {
	l := Ctx(ctx).With().Str("method", method).Str("path", path).Logger()
	return l.WithContext(ctx)
}

// WithAnalysis returns a context whose logger carries the analysis id.
func WithAnalysis(ctx context.Context, analysisID string) context.Context {
	l := Ctx(ctx).With().Str("analysis_id", analysisID).Logger()
	return l.WithContext(ctx)
}
