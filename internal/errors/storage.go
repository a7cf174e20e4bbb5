package errors

import (
	"context"
	stderrors "errors"

	"vending/internal/repositories"
)

var (
	ErrStorageTimeout = &DomainError{
		Kind:    KindStorageTimeout,
		Code:    "STORAGE_TIMEOUT",
		Message: "storage did not respond in time, retry later",
	}
	ErrStorageConflict = &DomainError{
		Kind:    KindStorageConflict,
		Code:    "STORAGE_CONFLICT",
		Message: "concurrent update conflict, retry the request",
	}
)

// FromStorage converts repository sentinels into domain errors. Domain errors
// pass through untouched and anything unrecognised is returned as is.
func FromStorage(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := As(err); ok {
		return err
	}
	switch {
	case stderrors.Is(err, repositories.ErrUserNotFound):
		return ErrUserNotFound.Wrap(err)
	case stderrors.Is(err, repositories.ErrProductNotFound):
		return ErrProductNotFound.Wrap(err)
	case stderrors.Is(err, repositories.ErrUsernameTaken):
		return ErrUsernameTaken.Wrap(err)
	case stderrors.Is(err, repositories.ErrStorageConflict):
		return ErrStorageConflict.Wrap(err)
	case stderrors.Is(err, repositories.ErrStorageTimeout),
		stderrors.Is(err, context.DeadlineExceeded),
		stderrors.Is(err, context.Canceled):
		return ErrStorageTimeout.Wrap(err)
	}
	return err
}
