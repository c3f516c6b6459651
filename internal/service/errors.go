package service

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrValidationFailed     = errors.New("validation failed")
	ErrMemberNotFound       = errors.New("member not found")
	ErrMemberEmailTaken     = errors.New("another member already uses this email")
	ErrPlanConflict         = errors.New("member already has a training plan in progress")
	ErrPlanNotFound         = errors.New("member has no active training plan")
	ErrDuplicateAttendance  = errors.New("attendance for this activity is already recorded on that day")
	ErrAttendanceNotFound   = errors.New("attendance record not found")
	ErrHistoryEntryNotFound = errors.New("plan history entry not found")
)

// ValidationError reports malformed input. It matches ErrValidationFailed with errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// StorageError wraps a failure of the member store. Nothing was persisted.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NotificationError is logged when a completion notice could not be delivered.
// It never reaches callers of the operation that triggered it.
type NotificationError struct {
	MemberID primitive.ObjectID
	Err      error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notify member %s: %v", e.MemberID.Hex(), e.Err)
}

func (e *NotificationError) Unwrap() error { return e.Err }
