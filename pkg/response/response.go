package response

import (
	"bizledger/internal/apperr"
)

// Response represents a standard API response format
type Response struct {
	Status     string      `json:"status"`      // "success" or "error"
	StatusCode int         `json:"status_code"` // HTTP status code
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
	Code       string      `json:"code,omitempty"`    // apperr code on failures
	Warning    string      `json:"warning,omitempty"` // non-fatal problem, e.g. audit write failed
}

// Success returns a standard success response wrapping the data
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// SuccessWithWarning is Success plus a warning when warn is non-nil
func SuccessWithWarning(statusCode int, data interface{}, warn error) Response {
	res := Success(statusCode, data)
	if warn != nil {
		res.Warning = warn.Error()
	}
	return res
}

// Error returns a standard error response wrapping the error message
func Error(statusCode int, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
	}
}

// Fail builds an error response from a domain error, deriving the status from its code
func Fail(err error) Response {
	res := Error(apperr.HTTPStatus(err), err.Error())
	res.Code = apperr.CodeOf(err)
	return res
}
