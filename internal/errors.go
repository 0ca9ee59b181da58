package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidStatus    ErrorCode = "INVALID_STATUS"
	ErrCodeInvalidStage     ErrorCode = "INVALID_STAGE"
	ErrCodeMissingDocType   ErrorCode = "MISSING_DOC_TYPE"
	ErrCodeMissingFile      ErrorCode = "MISSING_FILE"

	ErrCodeEquipmentNotFound      ErrorCode = "EQUIPMENT_NOT_FOUND"
	ErrCodeEquipmentNotAvailable  ErrorCode = "EQUIPMENT_NOT_AVAILABLE"
	ErrCodeAssignmentNotFound     ErrorCode = "ASSIGNMENT_NOT_FOUND"
	ErrCodeAssignmentReturned     ErrorCode = "ASSIGNMENT_ALREADY_RETURNED"
	ErrCodeNotAssignmentOwner     ErrorCode = "NOT_ASSIGNMENT_OWNER"
	ErrCodeChecklistItemNotFound  ErrorCode = "CHECKLIST_ITEM_NOT_FOUND"
	ErrCodeChecklistEntryNotFound ErrorCode = "CHECKLIST_ENTRY_NOT_FOUND"
	ErrCodeDocumentNotFound       ErrorCode = "DOCUMENT_NOT_FOUND"
	ErrCodeDocumentAlreadyReview  ErrorCode = "DOCUMENT_ALREADY_REVIEWED"
	ErrCodeNotDocumentOwner       ErrorCode = "NOT_DOCUMENT_OWNER"
	ErrCodeTrainingNotFound       ErrorCode = "TRAINING_NOT_FOUND"
	ErrCodeUserNotFound           ErrorCode = "USER_NOT_FOUND"
	ErrCodeEmailTaken             ErrorCode = "EMAIL_TAKEN"
	ErrCodeContentNotFound        ErrorCode = "CONTENT_NOT_FOUND"
	ErrCodeRoleRequired           ErrorCode = "ROLE_REQUIRED"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserInactive       ErrorCode = "USER_INACTIVE"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails returns a copy so shared sentinels are never mutated.
func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

var (
	ErrEquipmentNotFound     = NewNotFoundError("Equipment not found", ErrCodeEquipmentNotFound)
	ErrEquipmentNotAvailable = NewConflictError("Equipment is not available", ErrCodeEquipmentNotAvailable)
	ErrAssignmentNotFound    = NewNotFoundError("Assignment not found", ErrCodeAssignmentNotFound)
	ErrAssignmentReturned    = NewConflictError("Assignment has already been returned", ErrCodeAssignmentReturned)
	ErrNotAssignmentOwner    = NewForbiddenError("Assignment belongs to another employee", ErrCodeNotAssignmentOwner)

	ErrChecklistItemNotFound  = NewNotFoundError("Checklist item not found", ErrCodeChecklistItemNotFound)
	ErrChecklistEntryNotFound = NewNotFoundError("Checklist entry not found", ErrCodeChecklistEntryNotFound)
	ErrInvalidChecklistStatus = NewValidationError("status must be PENDING or DONE", ErrCodeInvalidStatus)
	ErrInvalidStage           = NewValidationError("stage must be DAY1, WEEK1 or MONTH1", ErrCodeInvalidStage)

	ErrDocumentNotFound      = NewNotFoundError("Document not found", ErrCodeDocumentNotFound)
	ErrDocumentAlreadyReview = NewConflictError("Document has already been reviewed", ErrCodeDocumentAlreadyReview)
	ErrInvalidReviewStatus   = NewValidationError("status must be APPROVED or REJECTED", ErrCodeInvalidStatus)
	ErrMissingDocType        = NewValidationError("docType is required", ErrCodeMissingDocType)
	ErrMissingFile           = NewValidationError("file is required", ErrCodeMissingFile)
	ErrNotDocumentOwner      = NewForbiddenError("Document belongs to another employee", ErrCodeNotDocumentOwner)
	ErrTrainingNotFound      = NewNotFoundError("Training not found", ErrCodeTrainingNotFound)
	ErrInvalidAttendance     = NewValidationError("attendance must be UPCOMING, GOING or NOT_GOING", ErrCodeInvalidStatus)
	ErrUserNotFound          = NewNotFoundError("User not found", ErrCodeUserNotFound)
	ErrEmailTaken            = NewConflictError("Email is already registered", ErrCodeEmailTaken)
	ErrAnnouncementNotFound  = NewNotFoundError("Announcement not found", ErrCodeContentNotFound)
	ErrFAQNotFound           = NewNotFoundError("FAQ not found", ErrCodeContentNotFound)
	ErrRoleRequired          = NewForbiddenError("Insufficient role for this operation", ErrCodeRoleRequired)
	ErrMissingIdentity       = NewUnauthorizedError("Authentication required", ErrCodeInvalidToken)
	ErrInvalidCredentials    = NewUnauthorizedError("Invalid email or password", ErrCodeInvalidCredentials)
	ErrUserInactive          = NewForbiddenError("User account is inactive", ErrCodeUserInactive)
	ErrInvalidToken          = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired          = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// AsAppError passes AppErrors through and wraps anything else as an internal error.
func AsAppError(err error, message string) error {
	if err == nil {
		return nil
	}
	if _, ok := IsAppError(err); ok {
		return err
	}
	return NewInternalError(message, err)
}

// IsKind reports whether err is an AppError of the given type.
func IsKind(err error, kind ErrorType) bool {
	appErr, ok := IsAppError(err)
	return ok && appErr.Type == kind
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.GetDetailedMessage(),
		Details: e.Details,
	})
}
