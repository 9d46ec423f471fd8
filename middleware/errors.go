/*
Package middleware provides error handling utilities and structured error responses.
*/
package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

// ErrorCode represents different types of application errors
type ErrorCode string

const (
	ErrCodeBadRequest         ErrorCode = "BAD_REQUEST"
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrCodeRateLimited        ErrorCode = "RATE_LIMITED"
	ErrCodeInternalError      ErrorCode = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeValidation         ErrorCode = "VALIDATION_ERROR"
	ErrCodeFeedParse          ErrorCode = "FEED_PARSE_ERROR"
)

// APIError is the JSON body of every error response
type APIError struct {
	Error string `json:"error"`
}

// ErrorHandler writes a structured error response.
// Client errors expose err's message. Server errors and feed parse failures
// expose the fixed message for their code; the cause is only logged.
func ErrorHandler(w http.ResponseWriter, err error, code ErrorCode, statusCode int, requestID string) {
	message := err.Error()
	if statusCode >= http.StatusInternalServerError || code == ErrCodeFeedParse {
		message = getErrorMessage(code)
	}

	logger().WithFields(logrus.Fields{
		"error_code":  code,
		"status_code": statusCode,
		"request_id":  requestID,
		"error":       err.Error(),
	}).Error("API error occurred")

	w.Header().Set("Content-Type", "application/json")
	if requestID != "" {
		w.Header().Set(RequestIDHeader, requestID)
	}
	w.WriteHeader(statusCode)

	if encodeErr := json.NewEncoder(w).Encode(APIError{Error: message}); encodeErr != nil {
		logger().WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      encodeErr.Error(),
		}).Warn("Failed to write error response")
	}
}

// getErrorMessage returns a user-friendly message for each error code
func getErrorMessage(code ErrorCode) string {
	switch code {
	case ErrCodeBadRequest:
		return "The request is invalid or malformed"
	case ErrCodeNotFound:
		return "The requested resource was not found"
	case ErrCodeRateLimited:
		return "Rate limit exceeded. Please try again later"
	case ErrCodeInternalError:
		return "An internal server error occurred"
	case ErrCodeServiceUnavailable:
		return "The service is temporarily unavailable"
	case ErrCodeValidation:
		return "Request validation failed"
	case ErrCodeFeedParse:
		return "Failed to parse RSS feed."
	default:
		return "An unknown error occurred"
	}
}

func logger() *logrus.Logger {
	if Logger != nil {
		return Logger
	}
	return logrus.StandardLogger()
}

// Common error response helpers
func RespondBadRequest(w http.ResponseWriter, err error, requestID string) {
	ErrorHandler(w, err, ErrCodeBadRequest, http.StatusBadRequest, requestID)
}

func RespondNotFound(w http.ResponseWriter, err error, requestID string) {
	ErrorHandler(w, err, ErrCodeNotFound, http.StatusNotFound, requestID)
}

func RespondRateLimited(w http.ResponseWriter, err error, requestID string) {
	ErrorHandler(w, err, ErrCodeRateLimited, http.StatusTooManyRequests, requestID)
}

func RespondInternalError(w http.ResponseWriter, err error, requestID string) {
	ErrorHandler(w, err, ErrCodeInternalError, http.StatusInternalServerError, requestID)
}

func RespondServiceUnavailable(w http.ResponseWriter, err error, requestID string) {
	ErrorHandler(w, err, ErrCodeServiceUnavailable, http.StatusServiceUnavailable, requestID)
}

func RespondValidationError(w http.ResponseWriter, err error, requestID string) {
	ErrorHandler(w, err, ErrCodeValidation, http.StatusBadRequest, requestID)
}

// RespondFeedParseError reports a feed that could not be fetched or parsed
func RespondFeedParseError(w http.ResponseWriter, err error, requestID string) {
	ErrorHandler(w, err, ErrCodeFeedParse, http.StatusBadRequest, requestID)
}
