package services

import (
	"errors"
	"fmt"

	"github.com/CareScope-Clinic/assessment-service/internal/validator"
)

// ValidationErrors re-exported so handlers only import the services package.
type ValidationErrors = validator.ValidationErrors

// ===== SENTINEL ERRORS =====

var (
	ErrTemplateNotFound   = errors.New("template not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrPatientNotFound    = errors.New("patient not found")
	ErrResultNotFound     = errors.New("result not found")
	ErrRecordNotFound     = errors.New("patient record not found")
	ErrUserNotFound       = errors.New("user not found")

	// ErrTemplateIncomplete marks a template that passed creation-time
	// validation but no longer has at least one question and one option.
	ErrTemplateIncomplete = errors.New("template has no questions or no options")

	ErrNoAnswers = errors.New("no answers supplied")
)

// ===== TYPED ERRORS =====

// ConflictError reports that an active assignment already exists for the
// requested (template, patient) pair. No mutation has been performed.
type ConflictError struct {
	TemplateID uint
	PatientID  uint
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("template %d is already assigned to patient %d", e.TemplateID, e.PatientID)
}

func NewConflictError(templateID, patientID uint) *ConflictError {
	return &ConflictError{TemplateID: templateID, PatientID: patientID}
}

// PermissionError reports that the acting user may not perform an
// operation on a resource.
type PermissionError struct {
	UserID     string
	ResourceID uint
	Resource   string
	Action     string
	Reason     string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %s cannot %s %s %d: %s", e.UserID, e.Action, e.Resource, e.ResourceID, e.Reason)
}

func NewPermissionError(userID string, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// StoreError wraps a store failure with the operation it occurred in.
// Multi-step protocols surface it after their compensating steps ran.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store operation %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

// IsConflictError reports whether err is an assignment uniqueness conflict.
func IsConflictError(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsNotFoundError reports whether err is any of the not-found sentinels.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrTemplateNotFound) ||
		errors.Is(err, ErrAssignmentNotFound) ||
		errors.Is(err, ErrPatientNotFound) ||
		errors.Is(err, ErrResultNotFound) ||
		errors.Is(err, ErrRecordNotFound) ||
		errors.Is(err, ErrUserNotFound)
}
