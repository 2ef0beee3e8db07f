package services

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDateFormat = errors.New("invalid date format")
	ErrInvalidDateRange  = errors.New("end date cannot be before start date")
	ErrInvalidStatus     = errors.New("invalid commitment status")
	ErrAlreadyActive     = errors.New("practice is already being tracked")
	ErrNotFound          = errors.New("commitment not found")
	ErrStore             = errors.New("commitment store failure")
)

var (
	ErrPracticeNotFound    = errors.New("practice not found")
	ErrInvalidPractice     = errors.New("invalid practice")
	ErrPracticeInUse       = errors.New("practice has commitments")
	ErrPackageNotFound     = errors.New("package not found")
	ErrPackageNotPublished = errors.New("package is not published")
	ErrInvalidPackage      = errors.New("invalid package")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidRole         = errors.New("invalid role")
	ErrSelfModification    = errors.New("cannot change own account")
	ErrForbidden           = errors.New("forbidden")
	ErrDuplicate           = errors.New("duplicate record")
)

// storeError tags a persistence failure with ErrStore while keeping the cause
// reachable through errors.Is / errors.As.
func storeError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStore) || errors.Is(err, ErrAlreadyActive) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStore, err)
}
