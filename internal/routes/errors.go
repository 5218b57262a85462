package routes

import (
	"errors"
	"net/http"

	jwt "building-access-control/internal/jwt"
)

// HTTPError represents an error with an associated HTTP status code and user message
type HTTPError struct {
	Err        error    // The underlying error
	StatusCode int      // HTTP status code
	Message    string   // User-friendly message
	StopCodes  []string // Optional stop codes for client-side handling
	Internal   bool     // Whether this is an internal error (hide details from user)
}

// ErrorInfo contains error metadata for user-facing errors
type ErrorInfo struct {
	Message   string   // User-friendly message
	StopCodes []string // Optional stop codes for client-side application
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// NewHTTPError creates a new HTTPError
func NewHTTPError(statusCode int, err error, message string, stopCodes ...string) *HTTPError {
	return &HTTPError{
		Err:        err,
		StatusCode: statusCode,
		Message:    message,
		StopCodes:  stopCodes,
		Internal:   statusCode >= 500,
	}
}

// Routes-specific errors (that don't conflict with other packages)
var (
	// Authentication errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrTokenExpired = errors.New("token expired")

	// Authorization errors
	ErrForbidden               = errors.New("forbidden")
	ErrInsufficientPermissions = errors.New("insufficient permissions")

	// Resource errors
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrBuildingNotFound     = errors.New("building not found")
	ErrFloorNotFound        = errors.New("floor not found")
	ErrOfficeSpaceNotFound  = errors.New("office space not found")
	ErrRoleNotFound         = errors.New("role not found")
	ErrDoorNotFound         = errors.New("door not found")
	ErrDoorGroupNotFound    = errors.New("door group not found")
	ErrEmployeeNotFound     = errors.New("employee not found")
	ErrCardNotFound         = errors.New("card not found")
	ErrPermissionNotFound   = errors.New("permission not found")
	ErrLeaseNotFound        = errors.New("lease not found")

	// Domain constraint errors
	ErrEmployeeHasCard     = errors.New("employee already has a card")
	ErrEmployeeHasNoCard   = errors.New("employee has no card")
	ErrSystemRoleImmutable = errors.New("system roles cannot be modified")
	ErrInvalidTimeWindow   = errors.New("invalid time window")

	// Reader provisioning errors
	ErrReaderIDRequired      = errors.New("reader_id is required")
	ErrReaderPendingApproval = errors.New("reader pending approval")
	ErrReaderRejected        = errors.New("reader rejected")
	ErrReaderNotFound        = errors.New("reader not found")
	ErrClientIPMismatch      = errors.New("client IP mismatch")

	// Validation errors
	ErrInvalidRequest   = errors.New("invalid request")
	ErrMissingParameter = errors.New("missing required parameter")
	ErrInvalidParameter = errors.New("invalid parameter")

	// Internal errors
	ErrInternalServer = errors.New("internal server error")
	ErrDatabaseError  = errors.New("database error")
)

// errorStatusMap maps errors to HTTP status codes
var errorStatusMap = map[error]int{
	// 400 Bad Request
	ErrInvalidRequest:    http.StatusBadRequest,
	ErrMissingParameter:  http.StatusBadRequest,
	ErrInvalidParameter:  http.StatusBadRequest,
	ErrInvalidTimeWindow: http.StatusBadRequest,
	ErrReaderIDRequired:  http.StatusBadRequest,

	// 401 Unauthorized
	ErrUnauthorized:      http.StatusUnauthorized,
	jwt.ErrNonValidToken: http.StatusUnauthorized,
	ErrTokenExpired:      http.StatusUnauthorized,

	// 403 Forbidden
	ErrForbidden:               http.StatusForbidden,
	ErrInsufficientPermissions: http.StatusForbidden,
	ErrSystemRoleImmutable:     http.StatusForbidden,
	ErrReaderRejected:          http.StatusForbidden,
	ErrClientIPMismatch:        http.StatusForbidden,

	// 404 Not Found
	ErrOrganizationNotFound: http.StatusNotFound,
	ErrBuildingNotFound:     http.StatusNotFound,
	ErrFloorNotFound:        http.StatusNotFound,
	ErrOfficeSpaceNotFound:  http.StatusNotFound,
	ErrRoleNotFound:         http.StatusNotFound,
	ErrDoorNotFound:         http.StatusNotFound,
	ErrDoorGroupNotFound:    http.StatusNotFound,
	ErrEmployeeNotFound:     http.StatusNotFound,
	ErrCardNotFound:         http.StatusNotFound,
	ErrPermissionNotFound:   http.StatusNotFound,
	ErrLeaseNotFound:        http.StatusNotFound,
	ErrReaderNotFound:       http.StatusNotFound,

	// 409 Conflict
	ErrEmployeeHasCard:   http.StatusConflict,
	ErrEmployeeHasNoCard: http.StatusConflict,

	// 202 Accepted (for pending operations)
	ErrReaderPendingApproval: http.StatusAccepted,

	// 500 Internal Server Error
	ErrInternalServer: http.StatusInternalServerError,
	ErrDatabaseError:  http.StatusInternalServerError,
}

// errorInfoMap maps errors to user-friendly messages and optional stop codes
var errorInfoMap = map[error]ErrorInfo{
	// Authentication
	ErrUnauthorized: {
		Message:   "Authentication required",
		StopCodes: []string{"AUTH_REQUIRED"},
	},
	jwt.ErrNonValidToken: {
		Message:   "Invalid or expired authentication token",
		StopCodes: []string{"AUTH_INVALID_TOKEN"},
	},
	ErrTokenExpired: {
		Message:   "Authentication token has expired",
		StopCodes: []string{"AUTH_TOKEN_EXPIRED"},
	},

	// Authorization
	ErrForbidden: {
		Message:   "Access denied",
		StopCodes: []string{"FORBIDDEN"},
	},
	ErrInsufficientPermissions: {
		Message:   "You don't have permission to perform this action",
		StopCodes: []string{"INSUFFICIENT_PERMISSIONS"},
	},

	// Resources
	ErrOrganizationNotFound: {Message: "Organization not found", StopCodes: []string{"ORGANIZATION_NOT_FOUND"}},
	ErrBuildingNotFound:     {Message: "Building not found", StopCodes: []string{"BUILDING_NOT_FOUND"}},
	ErrFloorNotFound:        {Message: "Floor not found", StopCodes: []string{"FLOOR_NOT_FOUND"}},
	ErrOfficeSpaceNotFound:  {Message: "Office space not found", StopCodes: []string{"OFFICE_SPACE_NOT_FOUND"}},
	ErrRoleNotFound:         {Message: "Role not found", StopCodes: []string{"ROLE_NOT_FOUND"}},
	ErrDoorNotFound:         {Message: "Door not found", StopCodes: []string{"DOOR_NOT_FOUND"}},
	ErrDoorGroupNotFound:    {Message: "Door group not found", StopCodes: []string{"DOOR_GROUP_NOT_FOUND"}},
	ErrEmployeeNotFound:     {Message: "Employee not found", StopCodes: []string{"EMPLOYEE_NOT_FOUND"}},
	ErrCardNotFound:         {Message: "Card not found", StopCodes: []string{"CARD_NOT_FOUND"}},
	ErrPermissionNotFound:   {Message: "Permission not found", StopCodes: []string{"PERMISSION_NOT_FOUND"}},
	ErrLeaseNotFound:        {Message: "Lease not found", StopCodes: []string{"LEASE_NOT_FOUND"}},
	ErrReaderNotFound:       {Message: "Reader not found", StopCodes: []string{"READER_NOT_FOUND"}},

	// Domain constraints
	ErrEmployeeHasCard: {
		Message:   "Employee already has an access card",
		StopCodes: []string{"EMPLOYEE_HAS_CARD"},
	},
	ErrEmployeeHasNoCard: {
		Message:   "Employee has no access card",
		StopCodes: []string{"EMPLOYEE_HAS_NO_CARD"},
	},
	ErrSystemRoleImmutable: {
		Message:   "System roles cannot be modified or deleted",
		StopCodes: []string{"SYSTEM_ROLE_IMMUTABLE"},
	},
	ErrInvalidTimeWindow: {
		Message:   "Time-bound permissions require start and end times in HH:mm:ss format",
		StopCodes: []string{"INVALID_TIME_WINDOW"},
	},

	// Reader provisioning
	ErrReaderIDRequired: {
		Message:   "Reader ID is required",
		StopCodes: []string{"READER_ID_REQUIRED"},
	},
	ErrReaderPendingApproval: {
		Message:   "Reader is pending approval",
		StopCodes: []string{"READER_PENDING"},
	},
	ErrReaderRejected: {
		Message:   "Reader access has been rejected",
		StopCodes: []string{"READER_REJECTED"},
	},
	ErrClientIPMismatch: {
		Message:   "Request from unauthorized IP address",
		StopCodes: []string{"IP_MISMATCH"},
	},

	// Validation
	ErrInvalidRequest: {
		Message:   "Invalid request format",
		StopCodes: []string{"INVALID_REQUEST"},
	},
	ErrMissingParameter: {
		Message:   "Required parameter is missing",
		StopCodes: []string{"MISSING_PARAMETER"},
	},
	ErrInvalidParameter: {
		Message:   "Invalid parameter value",
		StopCodes: []string{"INVALID_PARAMETER"},
	},

	// Internal (no stop codes for internal errors)
	ErrInternalServer: {
		Message: "An internal error occurred",
	},
	ErrDatabaseError: {
		Message: "Database operation failed",
	},
}

// GetErrorStatus returns the HTTP status code for an error
func GetErrorStatus(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}

	if status, ok := errorStatusMap[err]; ok {
		return status
	}

	// Check if error wraps a known error
	for knownErr, status := range errorStatusMap {
		if errors.Is(err, knownErr) {
			return status
		}
	}

	return http.StatusInternalServerError
}

// GetErrorInfo returns error information including message and stop codes
func GetErrorInfo(err error) ErrorInfo {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return ErrorInfo{
			Message:   httpErr.Message,
			StopCodes: httpErr.StopCodes,
		}
	}

	if info, ok := errorInfoMap[err]; ok {
		return info
	}

	// Check if error wraps a known error
	for knownErr, info := range errorInfoMap {
		if errors.Is(err, knownErr) {
			return info
		}
	}

	// For unknown errors, return a generic message for 5xx, specific for others
	status := GetErrorStatus(err)
	if status >= 500 {
		return ErrorInfo{Message: "An internal error occurred"}
	}
	return ErrorInfo{Message: err.Error()}
}

// GetErrorMessage returns a user-friendly message for an error
func GetErrorMessage(err error) string {
	return GetErrorInfo(err).Message
}
