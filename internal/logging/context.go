package logging

import (
	"context"
	"crypto/rand"
	"encoding/hex"
)

type contextKey string

const (
	loggerKey  contextKey = "logger"
	traceIDKey contextKey = "trace_id"
)

// GenerateTraceID generates a new trace ID
func GenerateTraceID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// FromContext retrieves the logger from context
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerKey).(*Logger); ok {
		return l
	}
	return Default()
}

// NewContext creates a new context with the logger
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// WithTraceContext adds a trace ID to the context and returns a logger with it
func WithTraceContext(ctx context.Context) (context.Context, *Logger) {
	traceID := GenerateTraceID()
	l := Default().WithTraceID(traceID)
	newCtx := context.WithValue(ctx, traceIDKey, traceID)
	newCtx = context.WithValue(newCtx, loggerKey, l)
	return newCtx, l
}

// AnalysisContext creates a logger context for one evaluation run
func AnalysisContext(symbol, timeframe string) *Logger {
	return Default().WithFields(map[string]interface{}{
		"symbol":    symbol,
		"timeframe": timeframe,
	}).WithComponent("analysis")
}

// SignalContext creates a logger context for emitted signals
func SignalContext(symbol, signalType string, score float64) *Logger {
	return Default().WithFields(map[string]interface{}{
		"symbol":        symbol,
		"signal_type":   signalType,
		"quality_score": score,
	}).WithComponent("signal")
}

// RiskContext creates a logger context for risk decisions
func RiskContext(symbol string, riskPercent, riskAmount float64) *Logger {
	return Default().WithFields(map[string]interface{}{
		"symbol":       symbol,
		"risk_percent": riskPercent,
		"risk_amount":  riskAmount,
	}).WithComponent("risk")
}

// DatabaseContext creates a logger context for database operations
func DatabaseContext(operation, table string) *Logger {
	return Default().WithFields(map[string]interface{}{
		"operation": operation,
		"table":     table,
	}).WithComponent("database")
}

// WebSocketContext creates a logger context for WebSocket operations
func WebSocketContext(remote string) *Logger {
	return Default().WithField("remote_addr", remote).WithComponent("websocket")
}
