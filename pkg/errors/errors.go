package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// ErrorCode represents a unique error code for categorizing errors
type ErrorCode string

const (
	// Warehouse connection errors (1xxx)
	ErrCodeConnectionFailed     ErrorCode = "SFRG1001"
	ErrCodeConnectionTimeout    ErrorCode = "SFRG1002"
	ErrCodeAuthenticationFailed ErrorCode = "SFRG1003"
	ErrCodeNetworkUnavailable   ErrorCode = "SFRG1004"

	// Configuration errors (2xxx)
	ErrCodeConfigNotFound ErrorCode = "SFRG2001"
	ErrCodeConfigInvalid  ErrorCode = "SFRG2002"
	ErrCodeConfigMissing  ErrorCode = "SFRG2003"

	// Extract errors (3xxx)
	ErrCodeExtractFailed ErrorCode = "SFRG3001"
	ErrCodeQueryFailed   ErrorCode = "SFRG3002"
	ErrCodeScanFailed    ErrorCode = "SFRG3003"

	// Transformation errors (4xxx)
	ErrCodeConformFailed    ErrorCode = "SFRG4001"
	ErrCodeProjectionFailed ErrorCode = "SFRG4002"

	// Load errors (5xxx)
	ErrCodeLoadFailed    ErrorCode = "SFRG5001"
	ErrCodeStagingFailed ErrorCode = "SFRG5002"
	ErrCodeSwapFailed    ErrorCode = "SFRG5003"

	// Validation errors (6xxx)
	ErrCodeValidationFailed ErrorCode = "SFRG6001"
	ErrCodeInvalidInput     ErrorCode = "SFRG6002"

	// System errors (9xxx)
	ErrCodeInternal           ErrorCode = "SFRG9001"
	ErrCodeTimeout            ErrorCode = "SFRG9002"
	ErrCodeResourceExhausted  ErrorCode = "SFRG9003"
	ErrCodeServiceUnavailable ErrorCode = "SFRG9004"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityCritical ErrorSeverity = "CRITICAL" // System failure, requires immediate attention
	SeverityError    ErrorSeverity = "ERROR"    // Operation failed, but system continues
	SeverityWarning  ErrorSeverity = "WARNING"  // Operation succeeded with issues
	SeverityInfo     ErrorSeverity = "INFO"     // Informational, not an error
)

// AppError represents a structured application error with context
type AppError struct {
	Code        ErrorCode
	Message     string
	Severity    ErrorSeverity
	Context     map[string]interface{}
	Cause       error
	Stack       string
	Timestamp   time.Time
	Recoverable bool
	Suggestions []string
}

// Error implements the error interface
func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s] %s: %s", e.Code, e.Severity, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\nCaused by: %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\nSuggestions:")
		for i, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  %d. %s", i+1, suggestion))
		}
	}

	return b.String()
}

// Unwrap returns the cause of the error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:        code,
		Message:     message,
		Severity:    SeverityError,
		Context:     make(map[string]interface{}),
		Stack:       captureStack(),
		Timestamp:   time.Now(),
		Recoverable: false,
	}
}

// Wrap wraps an existing error with AppError
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}

	appErr := New(code, message)
	appErr.Cause = err

	// If wrapping another AppError, inherit some properties
	if ae, ok := err.(*AppError); ok {
		for k, v := range ae.Context {
			appErr.Context[k] = v
		}
	}

	return appErr
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithSeverity sets the error severity
func (e *AppError) WithSeverity(severity ErrorSeverity) *AppError {
	e.Severity = severity
	return e
}

// WithSuggestions adds recovery suggestions
func (e *AppError) WithSuggestions(suggestions ...string) *AppError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// AsRecoverable marks the error as recoverable
func (e *AppError) AsRecoverable() *AppError {
	e.Recoverable = true
	return e
}

// captureStack captures the current stack trace
func captureStack() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])

	var b strings.Builder
	frames := runtime.CallersFrames(pcs[:n])

	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			b.WriteString(fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function))
		}
		if !more {
			break
		}
	}

	return b.String()
}

// Common error constructors

// ConnectionError creates a connection-related error
func ConnectionError(message string, cause error) *AppError {
	return Wrap(cause, ErrCodeConnectionFailed, message).
		WithSeverity(SeverityError).
		WithSuggestions(
			"Check your network connection",
			"Verify Snowflake endpoint is accessible",
			"Check firewall settings",
		)
}

// ConfigError creates a configuration-related error
func ConfigError(message string, field string) *AppError {
	return New(ErrCodeConfigInvalid, message).
		WithContext("field", field).
		WithSuggestions(
			fmt.Sprintf("Check the '%s' configuration value", field),
			"Run 'starforge setup' to reconfigure",
			"Refer to the configuration documentation",
		)
}

// QueryError creates a warehouse query error
func QueryError(message string, query string, cause error) *AppError {
	err := Wrap(cause, ErrCodeQueryFailed, message).
		WithContext("query", truncateString(query, 200))

	if cause != nil {
		errStr := cause.Error()
		if strings.Contains(errStr, "does not exist") || strings.Contains(errStr, "not found") {
			_ = err.WithSuggestions(
				"Verify the table exists in the configured schema",
				"Confirm the raw layer has been bulk-loaded for this batch",
			)
		} else if strings.Contains(errStr, "timeout") {
			err.Code = ErrCodeConnectionTimeout
			_ = err.WithSuggestions(
				"Increase the connection timeout setting",
				"Check Snowflake warehouse size",
			).AsRecoverable()
		}
	}

	return err
}

// StageError wraps a structural failure with the pipeline stage that caused
// it, so a failed run reports exactly where it broke
func StageError(stage string, cause error) *AppError {
	code := ErrCodeInternal
	switch stage {
	case "extract":
		code = ErrCodeExtractFailed
	case "conform":
		code = ErrCodeConformFailed
	case "project":
		code = ErrCodeProjectionFailed
	case "load":
		code = ErrCodeLoadFailed
	case "validate":
		code = ErrCodeValidationFailed
	}
	return Wrap(cause, code, fmt.Sprintf("Pipeline stage %q failed", stage)).
		WithContext("stage", stage)
}

// IsRecoverable checks if an error is recoverable
func IsRecoverable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Recoverable
	}
	return false
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// GetStage extracts the failing pipeline stage from an error, if recorded
func GetStage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if stage, ok := appErr.Context["stage"].(string); ok {
			return stage
		}
	}
	return ""
}

// truncateString truncates a string to maxLen characters
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
