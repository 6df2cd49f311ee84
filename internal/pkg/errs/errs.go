package errs

import "fmt"

// ConfigurationError indicates a missing or invalid setting.
// It is raised at client construction time and never retried.
type ConfigurationError struct {
	Setting string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("no %s setting provided", e.Setting)
}

// NewConfiguration creates ConfigurationError for a setting key
func NewConfiguration(setting string) *ConfigurationError {
	return &ConfigurationError{Setting: setting}
}

// NotFoundError indicates a referenced entity or file is absent
type NotFoundError struct {
	What string
}

func (e *NotFoundError) Error() string {
	return e.What + " not found"
}

// NewNotFound creates NotFoundError
func NewNotFound(what string) *NotFoundError {
	return &NotFoundError{What: what}
}

// VendorError indicates a failure reported by an external ASR/LLM vendor
type VendorError struct {
	Code   int
	Detail string
}

func (e *VendorError) Error() string {
	if e.Code > 0 {
		return fmt.Sprintf("vendor error: %d - %s", e.Code, e.Detail)
	}
	return "vendor error: " + e.Detail
}

// NewVendor creates VendorError
func NewVendor(code int, detail string) *VendorError {
	return &VendorError{Code: code, Detail: detail}
}

// TimeoutError indicates a polling wall-clock budget was exceeded
type TimeoutError struct {
	Op      string
	Seconds int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %d seconds", e.Op, e.Seconds)
}

// NewTimeout creates TimeoutError
func NewTimeout(op string, seconds int) *TimeoutError {
	return &TimeoutError{Op: op, Seconds: seconds}
}

// ValidationError indicates a rejected precondition. Nothing was mutated.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// NewValidation creates ValidationError
func NewValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// SummarizationError indicates the LLM call failed or returned garbage
type SummarizationError struct {
	Msg string
}

func (e *SummarizationError) Error() string {
	return "summarization: " + e.Msg
}

// NewSummarization creates SummarizationError
func NewSummarization(format string, args ...interface{}) *SummarizationError {
	return &SummarizationError{Msg: fmt.Sprintf(format, args...)}
}
