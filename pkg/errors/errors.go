package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeFetch represents a failed or non-success document fetch
	ErrorTypeFetch ErrorType = "fetch"
	// ErrorTypeExtraction represents a field-level HTML extraction failure
	ErrorTypeExtraction ErrorType = "extraction"
	// ErrorTypePersistence represents snapshot store failures
	ErrorTypePersistence ErrorType = "persistence"
	// ErrorTypeConfiguration represents missing or invalid settings
	ErrorTypeConfiguration ErrorType = "configuration"
	// ErrorTypeNotification represents failures of the outbound chat channel
	ErrorTypeNotification ErrorType = "notification"
)

// Error is the structured failure surfaced by every stage of a run
type Error struct {
	Type    ErrorType
	Stage   string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Stage, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Stage, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error
func New(errType ErrorType, stage, message string, err error) *Error {
	return &Error{
		Type:    errType,
		Stage:   stage,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// FetchError is returned when the listing page could not be fetched
type FetchError struct {
	Base       *Error
	URL        string
	StatusCode int
}

// Error implements the error interface
func (e *FetchError) Error() string {
	return e.Base.Error()
}

// Unwrap exposes the base Error so errors.As finds both types
func (e *FetchError) Unwrap() error {
	return e.Base
}

// NewFetch creates a new fetch error. statusCode is 0 for transport failures.
func NewFetch(url string, statusCode int, message string, err error) *FetchError {
	return &FetchError{
		Base:       New(ErrorTypeFetch, "fetch", message, err),
		URL:        url,
		StatusCode: statusCode,
	}
}

// NewRateLimit creates a fetch error for a source that is currently blocked
func NewRateLimit(url string, duration time.Duration) *FetchError {
	message := fmt.Sprintf("rate limited for %v", duration)
	return NewFetch(url, 0, message, nil)
}

// ExtractionError is returned when any single offer field cannot be parsed.
// The whole batch is discarded.
type ExtractionError struct {
	Base       *Error
	OfferIndex int
	Field      string
}

// Error implements the error interface
func (e *ExtractionError) Error() string {
	return e.Base.Error()
}

// Unwrap exposes the base Error so errors.As finds both types
func (e *ExtractionError) Unwrap() error {
	return e.Base
}

// NewExtraction creates a new extraction error for the offer at index
func NewExtraction(offerIndex int, field, message string, err error) *ExtractionError {
	return &ExtractionError{
		Base:       New(ErrorTypeExtraction, fmt.Sprintf("offer[%d].%s", offerIndex, field), message, err),
		OfferIndex: offerIndex,
		Field:      field,
	}
}

// NewPersistence creates a new snapshot store error
func NewPersistence(stage, message string, err error) *Error {
	return New(ErrorTypePersistence, stage, message, err)
}

// NewConfiguration creates a new configuration error for a missing or broken setting
func NewConfiguration(variable, message string, err error) *Error {
	return New(ErrorTypeConfiguration, variable, message, err)
}

// NewNotification creates a new notification channel error
func NewNotification(channel, message string, err error) *Error {
	return New(ErrorTypeNotification, channel, message, err)
}

// TypeOf returns the ErrorType of the first *Error in err's chain, or "" if none
func TypeOf(err error) ErrorType {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ""
}

// IsFetch reports whether err is a fetch failure
func IsFetch(err error) bool {
	return TypeOf(err) == ErrorTypeFetch
}

// IsExtraction reports whether err is an extraction failure
func IsExtraction(err error) bool {
	return TypeOf(err) == ErrorTypeExtraction
}

// IsPersistence reports whether err is a snapshot store failure
func IsPersistence(err error) bool {
	return TypeOf(err) == ErrorTypePersistence
}

// IsConfiguration reports whether err is a configuration failure
func IsConfiguration(err error) bool {
	return TypeOf(err) == ErrorTypeConfiguration
}

// IsNotification reports whether err is a notification failure
func IsNotification(err error) bool {
	return TypeOf(err) == ErrorTypeNotification
}
