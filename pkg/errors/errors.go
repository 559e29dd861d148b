// Package errors provides structured error handling for the application.
// It defines AppError type with error codes so batch reports and the
// preview API classify failures the same way.
package errors

import (
	"errors"
	"fmt"
)

// Error codes organized by category
const (
	// General errors (1000-1099)
	CodeSuccess       = 0
	CodeUnknown       = 1000
	CodeInvalidParams = 1001
	CodeNotFound      = 1002
	CodeConfigInvalid = 1003

	// Synthesis errors (1100-1199)
	CodeSynthesisFailed   = 1100
	CodeSynthesisQuota    = 1101
	CodeVoiceNotFound     = 1102
	CodeEmptyAudio        = 1103
	CodeMarksUnsupported  = 1104
	CodeProviderNotConfig = 1105

	// Content errors (1200-1299)
	CodeUnitUnmapped    = 1200
	CodeManifestInvalid = 1201
	CodeAnchorMissing   = 1202

	// Storage errors (1300-1399)
	CodeFileWriteError = 1300
	CodeFileNotFound   = 1301
	CodeDBError        = 1302
)

// AppError represents a structured application error
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	Cause   error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError
func Wrap(code int, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapWithDetail wraps an error with additional detail
func WrapWithDetail(code int, message string, detail string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Detail:  detail,
		Cause:   cause,
	}
}

// Is checks if the target error is an AppError with the specified code
func Is(err error, code int) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts error code from error, returns CodeUnknown if not AppError
func GetCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// GetMessage extracts message from error
func GetMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// Predefined common errors
var (
	ErrInvalidParams = New(CodeInvalidParams, "Invalid parameters")
	ErrNotFound      = New(CodeNotFound, "Resource not found")
	ErrConfigInvalid = New(CodeConfigInvalid, "Invalid configuration")

	// Synthesis
	ErrSynthesisFailed   = New(CodeSynthesisFailed, "Speech synthesis failed")
	ErrSynthesisQuota    = New(CodeSynthesisQuota, "Synthesis quota exceeded")
	ErrVoiceNotFound     = New(CodeVoiceNotFound, "Voice not found")
	ErrEmptyAudio        = New(CodeEmptyAudio, "Provider returned no audio")
	ErrMarksUnsupported  = New(CodeMarksUnsupported, "Provider cannot return SSML mark timepoints")
	ErrProviderNotConfig = New(CodeProviderNotConfig, "TTS provider is not configured")

	// Content
	ErrUnitUnmapped    = New(CodeUnitUnmapped, "Unit has no synthesizable form")
	ErrManifestInvalid = New(CodeManifestInvalid, "Manifest is not a JSON array of records")

	// Storage
	ErrFileWrite    = New(CodeFileWriteError, "Asset write failed")
	ErrFileNotFound = New(CodeFileNotFound, "File not found")
	ErrDBError      = New(CodeDBError, "Database error")
)
