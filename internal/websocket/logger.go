package websocket

import (
	"go.uber.org/zap"
)

// WebSocketLogger provides structured logging for relay events
type WebSocketLogger struct {
	logger *zap.Logger
}

// NewWebSocketLogger creates a logger on top of zap's global logger
func NewWebSocketLogger() *WebSocketLogger {
	return NewWebSocketLoggerWith(zap.L())
}

// NewWebSocketLoggerWith creates a logger on top of the given zap logger
func NewWebSocketLoggerWith(l *zap.Logger) *WebSocketLogger {
	return &WebSocketLogger{
		logger: l.With(zap.String("component", "websocket")),
	}
}

// Info logs info level event
func (l *WebSocketLogger) Info(event string, clientID string, fields ...zap.Field) {
	allFields := append([]zap.Field{
		zap.String("event", event),
		zap.String("client_id", clientID),
	}, fields...)
	l.logger.Info("websocket_event", allFields...)
}

// Debug logs debug level event
func (l *WebSocketLogger) Debug(event string, clientID string, err error, fields ...zap.Field) {
	allFields := append([]zap.Field{
		zap.String("event", event),
		zap.String("client_id", clientID),
		zap.Error(err),
	}, fields...)
	l.logger.Debug("websocket_debug", allFields...)
}

// Error logs error level event
func (l *WebSocketLogger) Error(event string, clientID string, err error, fields ...zap.Field) {
	allFields := append([]zap.Field{
		zap.String("event", event),
		zap.String("client_id", clientID),
		zap.Error(err),
	}, fields...)
	l.logger.Error("websocket_error", allFields...)
}

// Warn logs warning level event
func (l *WebSocketLogger) Warn(event string, clientID string, fields ...zap.Field) {
	allFields := append([]zap.Field{
		zap.String("event", event),
		zap.String("client_id", clientID),
	}, fields...)
	l.logger.Warn("websocket_warning", allFields...)
}
