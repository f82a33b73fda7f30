package utils

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds the logging system. The returned logger is passed
// explicitly to each component; there is no package-level logger.
func NewLogger(level string) (*zap.SugaredLogger, error) {
	// Configure log rotation
	logRotation := &lumberjack.Logger{
		Filename:   filepath.Join("logs", "app.log"),
		MaxSize:    100, // megabytes
		MaxAge:     7,   // days
		MaxBackups: 5,
		Compress:   true,
		LocalTime:  true,
	}

	// Configure log levels and encoders
	config := zap.NewProductionEncoderConfig()
	config.TimeKey = "timestamp"
	config.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncodeLevel = zapcore.CapitalLevelEncoder
	config.StacktraceKey = "stacktrace"
	config.CallerKey = "caller"

	jsonEncoder := zapcore.NewJSONEncoder(config)

	minLevel := zapcore.InfoLevel
	if err := minLevel.Set(level); err != nil {
		minLevel = zapcore.InfoLevel
	}

	highPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= zapcore.ErrorLevel
	})
	lowPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= minLevel && lvl < zapcore.ErrorLevel
	})

	// Create core with multiple outputs
	core := zapcore.NewTee(
		// Error and above go to error log file
		zapcore.NewCore(jsonEncoder,
			zapcore.AddSync(&lumberjack.Logger{
				Filename:   "logs/error.log",
				MaxSize:    100,
				MaxBackups: 3,
				MaxAge:     7,
				Compress:   true,
			}),
			highPriority,
		),
		// Info and debug go to main log file
		zapcore.NewCore(jsonEncoder,
			zapcore.AddSync(logRotation),
			lowPriority,
		),
		// Everything at or above the configured level goes to console
		zapcore.NewCore(jsonEncoder,
			zapcore.AddSync(os.Stdout),
			minLevel,
		),
	)

	logger := zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)

	return logger.Sugar(), nil
}

// RequestLogger middleware for HTTP request logging
func RequestLogger(log *zap.SugaredLogger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.New().String()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)

		rw := &responseWriter{w, http.StatusOK}
		next.ServeHTTP(rw, r.WithContext(ctx))

		log.Infow("Request completed",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

type requestIDKey struct{}

// Custom response writer to capture status code
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
