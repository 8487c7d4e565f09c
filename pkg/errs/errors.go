package errs

import (
	"errors"
	"net/http"
)

const (
	ErrStatusInternalServer = http.StatusInternalServerError
	ErrStatusClient         = http.StatusBadRequest
	ErrStatusUnauthorized   = http.StatusUnauthorized
	ErrStatusNotFound       = http.StatusNotFound
	ErrStatusConflict       = http.StatusConflict
	ErrStatusTooLarge       = http.StatusRequestEntityTooLarge
)

var (
	ErrInternalServer    = errors.New("Internal server error")
	ErrClient            = errors.New("Bad request")
	ErrNotFound          = errors.New("Resource not found")
	ErrCategoryExists    = errors.New("Category already exists")
	ErrMissingTenant     = errors.New("Missing user DB (x-user-db)")
	ErrInvalidTenant     = errors.New("Invalid or expired user session")
	ErrUnauthorized      = errors.New("Unauthorized access")
	ErrInvalidIdentifier = errors.New("Invalid category name")
	ErrCartEmpty         = errors.New("Cart is empty")
	ErrNotAnImage        = errors.New("Uploaded file is not a supported image")
	ErrFileTooLarge      = errors.New("Uploaded file is too large")
	ErrNoFile            = errors.New("No files uploaded")
)

var errorMap = map[error]int{
	ErrInternalServer:    ErrStatusInternalServer,
	ErrClient:            ErrStatusClient,
	ErrNotFound:          ErrStatusNotFound,
	ErrCategoryExists:    ErrStatusConflict,
	ErrMissingTenant:     ErrStatusClient,
	ErrInvalidTenant:     ErrStatusUnauthorized,
	ErrUnauthorized:      ErrStatusUnauthorized,
	ErrInvalidIdentifier: ErrStatusClient,
	ErrCartEmpty:         ErrStatusClient,
	ErrNotAnImage:        ErrStatusClient,
	ErrFileTooLarge:      ErrStatusTooLarge,
	ErrNoFile:            ErrStatusClient,
}

// GetErrorStatusCode maps err, or any sentinel it wraps, to an HTTP status.
// Unknown errors are storage or programming failures and map to 500.
func GetErrorStatusCode(err error) int {
	if code, ok := errorMap[err]; ok {
		return code
	}
	for sentinel, code := range errorMap {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return ErrStatusInternalServer
}

// Sentinel returns the known error wrapped by err, or nil.
func Sentinel(err error) error {
	if _, ok := errorMap[err]; ok {
		return err
	}
	for sentinel := range errorMap {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}
	return nil
}
