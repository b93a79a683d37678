package response

// Error codes
const (
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeUnavailable  = "SERVICE_UNAVAILABLE"
)

// Response is the JSON envelope for every API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorData  `json:"error,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// ErrorData describes a failed request
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// PaginationMeta is attached to list responses
type PaginationMeta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// Success wraps data in a successful response
func Success(data interface{}) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// Paginated wraps a page of data with pagination meta
func Paginated(data interface{}, page, perPage int, total int64) Response {
	totalPages := 0
	if perPage > 0 {
		totalPages = int((total + int64(perPage) - 1) / int64(perPage))
	}
	return Response{
		Success: true,
		Data:    data,
		Meta: &PaginationMeta{
			Page:       page,
			PerPage:    perPage,
			Total:      total,
			TotalPages: totalPages,
		},
	}
}

// Error builds an error response
func Error(code, message string) Response {
	return Response{
		Success: false,
		Error: &ErrorData{
			Code:    code,
			Message: message,
		},
	}
}

// ErrorWithDetails builds an error response with details
func ErrorWithDetails(code, message, details string) Response {
	resp := Error(code, message)
	resp.Error.Details = details
	return resp
}

// BadRequest builds a 400 response body
func BadRequest(message string) Response {
	return Error(ErrCodeBadRequest, message)
}

// Unauthorized builds a 401 response body
func Unauthorized(message string) Response {
	return Error(ErrCodeUnauthorized, message)
}

// Forbidden builds a 403 response body
func Forbidden(message string) Response {
	return Error(ErrCodeForbidden, message)
}

// NotFound builds a 404 response body
func NotFound(message string) Response {
	return Error(ErrCodeNotFound, message)
}

// InternalError builds a 500 response body
func InternalError(message string) Response {
	return Error(ErrCodeInternal, message)
}
