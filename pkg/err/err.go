package errprocess

import (
	"errors"
	"fmt"
	"net/http"

	"todo_realtime_service/pkg/logger"
)

// 錯誤分類, 使用 errors.Is 判斷
var (
	// ErrPermissionDenied capability check failed, nothing was written
	ErrPermissionDenied = errors.New("permission denied")
	// ErrInvalidArgument malformed type or missing target field, nothing was written
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound referenced entity absent
	ErrNotFound = errors.New("not found")
	// ErrDeliveryFailure best-effort push/relay failed; logged, never returned to callers of the pipeline
	ErrDeliveryFailure = errors.New("delivery failure")
	// ErrStorage storage collaborator failure
	ErrStorage = errors.New("storage error")
)

// Set set err info
func Set(errMsg string) error {
	logger.Log.Error(errMsg)
	return errors.New(errMsg)
}

// PermissionDenied wrap ErrPermissionDenied with detail
func PermissionDenied(format string, a ...interface{}) error {
	return wrap(ErrPermissionDenied, format, a...)
}

// InvalidArgument wrap ErrInvalidArgument with detail
func InvalidArgument(format string, a ...interface{}) error {
	return wrap(ErrInvalidArgument, format, a...)
}

// NotFound wrap ErrNotFound with detail
func NotFound(format string, a ...interface{}) error {
	return wrap(ErrNotFound, format, a...)
}

// DeliveryFailure wrap a transport error
func DeliveryFailure(destination string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrDeliveryFailure, destination, err)
}

// Storage wrap a collaborator error
func Storage(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorage, op, err)
}

func wrap(kind error, format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, a...))
}

// HTTPStatus map an error to the http status returned at the REST boundary
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
