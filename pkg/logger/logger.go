package logger

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey string

const requestIDKey ctxKey = "request_id"

// Config mirrors config.LoggerConfig but avoids importing the config package here.
type Config struct {
	Level    string
	Encoding string
	// ErrorFile receives error-level entries as JSON. Empty disables it.
	ErrorFile string
	// CombinedFile receives every entry at Level as JSON. Empty disables it.
	CombinedFile string
}

// New builds a zap.Logger writing to stdout plus the configured files.
func New(cfg Config) (*zap.Logger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	level := zapcore.InfoLevel
	if err := level.Set(cfg.Level); err != nil {
		// fall back to info level if parsing fails
		level = zapcore.InfoLevel
	}

	var console zapcore.Encoder
	switch cfg.Encoding {
	case "json":
		console = zapcore.NewJSONEncoder(encoderCfg)
	default:
		consoleCfg := encoderCfg
		consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		console = zapcore.NewConsoleEncoder(consoleCfg)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(console, zapcore.Lock(os.Stdout), level),
	}

	var closers []func()
	closeAll := func() {
		for _, closeSink := range closers {
			closeSink()
		}
	}

	files := []struct {
		path  string
		level zapcore.LevelEnabler
	}{
		{cfg.ErrorFile, zapcore.ErrorLevel},
		{cfg.CombinedFile, level},
	}
	for _, f := range files {
		if f.path == "" {
			continue
		}
		sink, closeSink, err := zap.Open(f.path)
		if err != nil {
			closeAll()
			return nil, err
		}
		closers = append(closers, closeSink)
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), sink, f.level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

// ContextWithRequestID attaches a request ID to the provided context.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestID returns the request ID stored in ctx, if any.
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	reqID, _ := ctx.Value(requestIDKey).(string)
	return reqID
}

// WithRequestID enriches the logger with the request ID stored in the context.
func WithRequestID(ctx context.Context, base *zap.Logger) *zap.Logger {
	if base == nil {
		return base
	}
	if reqID := RequestID(ctx); reqID != "" {
		return base.With(zap.String("request_id", reqID))
	}
	return base
}
