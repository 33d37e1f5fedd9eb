package logger

import (
	"log"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerInstance menyimpan logger yang sudah diinisialisasi.
var (
	ErrorLogger    *zap.Logger
	AuditLogger    *zap.Logger
	RequestLogger  *zap.Logger
	SecurityLogger *zap.Logger
	SystemLogger   *zap.Logger
	ContextLogger  *zap.Logger
)

func newLogger(filePath string, level zapcore.Level) (*zap.Logger, error) {
	file, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	ws := zapcore.AddSync(file)

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		ws,
		level,
	)
	return zap.New(core), nil
}

// InitLoggers membuat semua logger file di dalam dir.
func InitLoggers(dir string) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Fatalf("Cannot create log directory: %v", err)
	}

	targets := []struct {
		dst   **zap.Logger
		file  string
		level zapcore.Level
	}{
		{&ErrorLogger, "errors.log", zapcore.ErrorLevel},
		{&AuditLogger, "audit.log", zapcore.InfoLevel},
		{&RequestLogger, "request.log", zapcore.InfoLevel},
		{&SecurityLogger, "security.log", zapcore.WarnLevel},
		{&SystemLogger, "system.log", zapcore.InfoLevel},
		{&ContextLogger, "context.log", zapcore.DebugLevel},
	}
	for _, t := range targets {
		l, err := newLogger(filepath.Join(dir, t.file), t.level)
		if err != nil {
			log.Fatalf("Cannot create %s logger: %v", t.file, err)
		}
		*t.dst = l
	}
}

// InitNopLoggers sets every logger to a no-op logger. Used by tests.
func InitNopLoggers() {
	nop := zap.NewNop()
	ErrorLogger = nop
	AuditLogger = nop
	RequestLogger = nop
	SecurityLogger = nop
	SystemLogger = nop
	ContextLogger = nop
}

func SyncLoggers() {
	for _, l := range []*zap.Logger{ErrorLogger, AuditLogger, RequestLogger, SecurityLogger, SystemLogger, ContextLogger} {
		if l != nil {
			_ = l.Sync()
		}
	}
}
