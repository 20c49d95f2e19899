// Package errors maps bridge failures onto HTTP facing service errors.
package errors

import (
	"context"
	"errors"
	"net/http"

	"github.com/chainsafe/bridge-claims/pkg/bridge"
)

// Category defines error category
type Category int

const (
	// CategoryGeneralError The service failed in an unexpected way
	CategoryGeneralError Category = iota
	// CategoryDataError The client sent invalid data in the payload or parameters
	CategoryDataError
	// CategoryUnauthorized The client did not authenticate the request
	CategoryUnauthorized
	// CategoryForbidden The request was authenticated but refused, e.g. the signer declined
	CategoryForbidden
	// CategoryResourceNotFound The client is attempting to access a resource that does not exist
	CategoryResourceNotFound
	// CategoryDataConflict The request conflicts with recorded state, e.g. an already claimed deposit
	CategoryDataConflict
	// CategoryPreconditionFailed The request needs a prior step, e.g. a token approval
	CategoryPreconditionFailed
	// CategoryDependencyFailure A chain node or validator is throwing errors
	CategoryDependencyFailure
	// CategoryRecovering The request may succeed later, e.g. attestations are still being produced
	CategoryRecovering
	// CategoryConnectionTimeout A dependency did not answer in time
	CategoryConnectionTimeout
)

var categoryStatus = map[Category]int{
	CategoryGeneralError:       http.StatusInternalServerError,
	CategoryDataError:          http.StatusBadRequest,
	CategoryUnauthorized:       http.StatusUnauthorized,
	CategoryForbidden:          http.StatusForbidden,
	CategoryResourceNotFound:   http.StatusNotFound,
	CategoryDataConflict:       http.StatusConflict,
	CategoryPreconditionFailed: http.StatusPreconditionFailed,
	CategoryDependencyFailure:  http.StatusBadGateway,
	CategoryRecovering:         http.StatusServiceUnavailable,
	CategoryConnectionTimeout:  http.StatusGatewayTimeout,
}

// ServiceError is an error that knows how it should be reported to an API client.
type ServiceError struct {
	Category Category
	// Message is returned to the client; Err is only logged.
	Message string
	// Reason is a machine readable failure kind, e.g. "already_claimed".
	Reason string
	Err    error
}

func (err *ServiceError) Error() string {
	if err.Err != nil {
		return err.Err.Error()
	}
	return err.Message
}

func (err *ServiceError) Unwrap() error {
	return err.Err
}

// StatusCode returns the HTTP status code for the error category
func (err *ServiceError) StatusCode() int {
	if code, ok := categoryStatus[err.Category]; ok {
		return code
	}
	return http.StatusInternalServerError
}

func newError(cat Category, err error, message, reason string) error {
	if err == nil {
		err = errors.New(message)
	}
	return &ServiceError{Category: cat, Message: message, Reason: reason, Err: err}
}

// GeneralError hides err behind "Internal Server Error"; err itself is only logged.
func GeneralError(err error) error {
	return newError(CategoryGeneralError, err, "Internal Server Error", string(bridge.KindInternal))
}

// BadRequestError returns a CategoryDataError carrying message to the client.
func BadRequestError(err error, message string) error {
	return newError(CategoryDataError, err, message, string(bridge.KindInvalidRequest))
}

// UnAuthorizedError returns a CategoryUnauthorized carrying message to the client.
func UnAuthorizedError(err error, message string) error {
	return newError(CategoryUnauthorized, err, message, "unauthorized")
}

var kindCategories = map[bridge.Kind]Category{
	bridge.KindInvalidRequest:           CategoryDataError,
	bridge.KindChainMismatch:            CategoryDataError,
	bridge.KindNotFound:                 CategoryResourceNotFound,
	bridge.KindAlreadyClaimed:           CategoryDataConflict,
	bridge.KindInvalidTransition:        CategoryDataConflict,
	bridge.KindUserRejected:             CategoryForbidden,
	bridge.KindAllowanceRequired:        CategoryPreconditionFailed,
	bridge.KindInsufficientAttestations: CategoryRecovering,
	bridge.KindValidatorUnavailable:     CategoryDependencyFailure,
	bridge.KindMalformedAttestation:     CategoryDependencyFailure,
	bridge.KindDivergentAttestations:    CategoryDependencyFailure,
	bridge.KindSubmissionFailed:         CategoryDependencyFailure,
}

// FromDomain converts a bridge error into a ServiceError carrying its kind as reason.
// Service errors pass through unchanged; unknown errors become general errors.
func FromDomain(err error) error {
	if err == nil {
		return nil
	}
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return newError(CategoryConnectionTimeout, err, "request timed out", "timeout")
	}

	kind := bridge.KindOf(err)
	cat, ok := kindCategories[kind]
	if !ok {
		return GeneralError(err)
	}
	return &ServiceError{
		Category: cat,
		Message:  err.Error(),
		Reason:   string(kind),
		Err:      err,
	}
}
