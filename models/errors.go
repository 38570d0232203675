package models

import "fmt"

// Error codes used across the extraction pipeline.
const (
	ErrCodeModelNotFound = "MODEL_NOT_FOUND"
	ErrCodeNavigation    = "NAVIGATION_FAILED"
	ErrCodeTimeout       = "PAGE_TIMEOUT"
	ErrCodeExtraction    = "EXTRACTION_FAILED"
	ErrCodePersistence   = "PERSISTENCE_FAILED"
	ErrCodeBrowserCrash  = "BROWSER_CRASH"
)

// ExtractError is the internal error type carrying an error code.
// It implements the error interface and supports wrapping via Unwrap.
type ExtractError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *ExtractError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}

// NewExtractError creates a new ExtractError.
func NewExtractError(code, message string, err error) *ExtractError {
	return &ExtractError{Code: code, Message: message, Err: err}
}

// IsCode reports whether err is an ExtractError with the given code.
func IsCode(err error, code string) bool {
	for err != nil {
		if ee, ok := err.(*ExtractError); ok && ee.Code == code {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
