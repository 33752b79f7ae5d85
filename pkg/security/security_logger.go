package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType represents the type of security event
type EventType string

const (
	EventSignup             EventType = "signup"
	EventLoginSuccess       EventType = "login_success"
	EventLoginFailed        EventType = "login_failed"
	EventLogout             EventType = "logout"
	EventProfileUpdated     EventType = "profile_updated"
	EventAccountDeleted     EventType = "account_deleted"
	EventRateLimitTriggered EventType = "rate_limit_triggered"
	EventUnauthorizedAccess EventType = "unauthorized_access"
	EventForbiddenAccess    EventType = "forbidden_access"
	EventUploadRejected     EventType = "upload_rejected"
	EventLoginBlocked       EventType = "login_blocked"
)

// SecurityEvent represents a security-related event to be logged
type SecurityEvent struct {
	Event        EventType
	SubjectType  string // "email", "ip", "user_id"
	SubjectValue string // masked or hashed for PII
	IP           string
	UserAgent    string
	RequestID    string
	Details      map[string]interface{}
}

// SecurityLogger writes security events as structured zap entries
type SecurityLogger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
}

var defaultLogger *SecurityLogger

// InitSecurityLogger builds the production zap logger and makes it the default
func InitSecurityLogger(serviceName, environment string) *SecurityLogger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.MessageKey = "message"
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		logger = zap.NewNop()
	}

	defaultLogger = NewSecurityLogger(logger, serviceName, environment)
	return defaultLogger
}

// NewSecurityLogger wraps an existing zap logger
func NewSecurityLogger(logger *zap.Logger, serviceName, environment string) *SecurityLogger {
	return &SecurityLogger{zapLogger: logger, serviceName: serviceName, environment: environment}
}

// DefaultLogger returns the logger set by InitSecurityLogger, or a no-op
// logger when none was initialized
func DefaultLogger() *SecurityLogger {
	if defaultLogger == nil {
		return NewSecurityLogger(zap.NewNop(), "jobboard-api", "development")
	}
	return defaultLogger
}

func levelFor(event EventType) zapcore.Level {
	switch event {
	case EventSignup, EventLoginSuccess, EventLogout, EventProfileUpdated, EventAccountDeleted:
		return zapcore.InfoLevel
	case EventUnauthorizedAccess, EventForbiddenAccess:
		return zapcore.ErrorLevel
	}
	return zapcore.WarnLevel
}

// Log logs a security event
func (sl *SecurityLogger) Log(_ context.Context, event SecurityEvent) {
	fields := []zap.Field{
		zap.String("service", sl.serviceName),
		zap.String("env", sl.environment),
		zap.String("event", string(event.Event)),
	}
	if event.SubjectType != "" {
		fields = append(fields, zap.String("subject_type", event.SubjectType))
	}
	if event.SubjectValue != "" {
		fields = append(fields, zap.String("subject_value", event.SubjectValue))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.UserAgent != "" {
		fields = append(fields, zap.String("user_agent", event.UserAgent))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		fields = append(fields, zap.Any("details", event.Details))
	}

	sl.zapLogger.Log(levelFor(event.Event), string(event.Event), fields...)
}

// LogAuth logs signup, signin and logout outcomes for an email
func (sl *SecurityLogger) LogAuth(ctx context.Context, event EventType, email, ip, requestID, reason string) {
	e := SecurityEvent{
		Event:        event,
		SubjectType:  "email",
		SubjectValue: MaskEmail(email),
		IP:           ip,
		RequestID:    requestID,
	}
	if reason != "" {
		e.Details = map[string]interface{}{"reason": reason}
	}
	sl.Log(ctx, e)
}

// LogAccountEvent logs a change to the account identified by userID
func (sl *SecurityLogger) LogAccountEvent(ctx context.Context, event EventType, userID int64, role string) {
	sl.Log(ctx, SecurityEvent{
		Event:        event,
		SubjectType:  "user_id",
		SubjectValue: HashValue(strconv.FormatInt(userID, 10)),
		Details:      map[string]interface{}{"role": role},
	})
}

// LogRateLimitTriggered logs when rate limiting is triggered
func (sl *SecurityLogger) LogRateLimitTriggered(ctx context.Context, ip, userAgent, requestID, endpoint string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventRateLimitTriggered,
		SubjectType:  "ip",
		SubjectValue: ip,
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
		Details:      map[string]interface{}{"endpoint": endpoint},
	})
}

// LogAccessDenied logs a 401 or 403 on endpoint
func (sl *SecurityLogger) LogAccessDenied(ctx context.Context, event EventType, ip, requestID, endpoint, reason string) {
	sl.Log(ctx, SecurityEvent{
		Event:        event,
		SubjectType:  "ip",
		SubjectValue: ip,
		IP:           ip,
		RequestID:    requestID,
		Details:      map[string]interface{}{"endpoint": endpoint, "reason": reason},
	})
}

// Sync flushes any buffered log entries
func (sl *SecurityLogger) Sync() error {
	return sl.zapLogger.Sync()
}

// MaskEmail masks an email for logging (e.g., "j***@example.com")
func MaskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if len(email) < 3 || at < 0 {
		return "***"
	}
	if at <= 1 {
		return "***" + email[at:]
	}
	return email[:1] + "***" + email[at:]
}

// HashValue creates a SHA256 hash of a value (for logging without PII)
func HashValue(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:8])
}
