package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeAI         ErrorType = "ai"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeInternal   ErrorType = "internal"
)

// ErrorKind classifies how callers should react to a failure. The analysis
// and generation pipelines branch on the kind, not on the concrete error:
// unavailable/transient failures route to the deterministic fallback path,
// bad-request failures stop retrying immediately, bad input surfaces to the
// caller untouched.
type ErrorKind string

const (
	KindNone ErrorKind = ""
	// KindBadInput: caller error (empty/too-short text, unknown analysis type).
	KindBadInput ErrorKind = "bad_input"
	// KindUnavailable: provider unconfigured, quota exhausted, or unreachable.
	KindUnavailable ErrorKind = "unavailable"
	// KindTransient: retryable provider failure (5xx, rate limited, timeout).
	KindTransient ErrorKind = "transient"
	// KindBadRequest: non-retryable provider rejection (400/401/403).
	KindBadRequest ErrorKind = "bad_request"
	// KindMalformedOutput: provider returned unparseable or invalid content.
	KindMalformedOutput ErrorKind = "malformed_output"
)

// AppError represents a structured application error
type AppError struct {
	Type    ErrorType      `json:"type"`
	Kind    ErrorKind      `json:"kind,omitempty"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Cause   error          `json:"cause,omitempty"`
	Context map[string]any `json:"context,omitempty"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// newAppError is an unexported helper to create AppError instances
func newAppError(typ ErrorType, code, message string, cause error) *AppError {
	return &AppError{
		Type:    typ,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Error constructors for different types
func NewValidationError(code, message string, cause error) *AppError {
	e := newAppError(ErrorTypeValidation, code, message, cause)
	e.Kind = KindBadInput
	return e
}

func NewIOError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeIO, code, message, cause)
}

func NewAIError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeAI, code, message, cause)
}

func NewNetworkError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeNetwork, code, message, cause)
}

func NewConfigError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeConfig, code, message, cause)
}

func NewInternalError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeInternal, code, message, cause)
}

// WithKind tags the error with a reaction class
func (e *AppError) WithKind(kind ErrorKind) *AppError {
	e.Kind = kind
	return e
}

// WithContext adds context to an error
func (e *AppError) WithContext(key string, value any) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// KindOf returns the reaction class of an error, walking the unwrap chain.
// Plain errors report KindNone.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindNone
}

// IsUnavailable reports whether the error should trigger the deterministic
// fallback path instead of being surfaced to the caller.
func IsUnavailable(err error) bool {
	k := KindOf(err)
	return k == KindUnavailable || k == KindTransient
}

// IsRetryable reports whether the error is worth another provider attempt.
func IsRetryable(err error) bool {
	return KindOf(err) == KindTransient
}

// IsBadInput reports a caller error: no retry, no fallback.
func IsBadInput(err error) bool {
	return KindOf(err) == KindBadInput
}

// Logger wraps slog with application-specific methods
type Logger struct {
	logger *slog.Logger
}

// NewLogger creates a new structured logger
func NewLogger(level slog.Level) *Logger {
	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewJSONHandler(os.Stdout, opts)
	logger := slog.New(handler)

	return &Logger{logger: logger}
}

// LogError logs an application error with appropriate level and context
func (l *Logger) LogError(err error, message string, args ...any) {
	if appErr, ok := err.(*AppError); ok {
		logArgs := []any{
			"error_type", appErr.Type,
			"error_code", appErr.Code,
			"error_message", appErr.Message,
		}
		if appErr.Kind != KindNone {
			logArgs = append(logArgs, "error_kind", appErr.Kind)
		}

		// Add context if available
		for key, value := range appErr.Context {
			logArgs = append(logArgs, key, value)
		}

		// Add additional args
		logArgs = append(logArgs, args...)

		l.logger.Error(message, logArgs...)
	} else {
		// Regular error
		logArgs := append([]any{"error", err.Error()}, args...)
		l.logger.Error(message, logArgs...)
	}
}

func (l *Logger) Info(message string, args ...any) {
	l.logger.Info(message, args...)
}

func (l *Logger) Debug(message string, args ...any) {
	l.logger.Debug(message, args...)
}

func (l *Logger) Warn(message string, args ...any) {
	l.logger.Warn(message, args...)
}

// New creates a new logger instance
func New(level string) (*Logger, error) {
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	return NewLogger(slogLevel), nil
}

// Common error codes
const (
	ErrCodeFileNotFound      = "FILE_NOT_FOUND"
	ErrCodeFileNotReadable   = "FILE_NOT_READABLE"
	ErrCodeInvalidFormat     = "INVALID_FORMAT"
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeTextTooShort      = "TEXT_TOO_SHORT"
	ErrCodeUnsupportedType   = "UNSUPPORTED_ANALYSIS_TYPE"
	ErrCodeAIServiceFailed   = "AI_SERVICE_FAILED"
	ErrCodeAIUnavailable     = "AI_UNAVAILABLE"
	ErrCodeAIQuotaExceeded   = "AI_QUOTA_EXCEEDED"
	ErrCodeAIBadRequest      = "AI_BAD_REQUEST"
	ErrCodeAIResponseInvalid = "AI_RESPONSE_INVALID"
	ErrCodeAITimeout         = "AI_TIMEOUT"
	ErrCodeMissingAPIKey     = "MISSING_API_KEY"
	ErrCodeCacheFailed       = "CACHE_FAILED"
	ErrCodeInvalidConfig     = "INVALID_CONFIG"
)
