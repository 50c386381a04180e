package exceptions

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedResponse = errors.New("recipe API returned an unreadable response")
	ErrMissingRecipe     = errors.New("recipe API response did not contain a recipe")
)

type ServiceError struct {
	StatusCode int
	Cause      error
}

func (se *ServiceError) Error() string {
	return se.Cause.Error()
}

func (se *ServiceError) Unwrap() error {
	return se.Cause
}

type RequestError interface {
	ToServiceError() *ServiceError
	Error() string
}

// RemoteError is a non-200 answer from the recipe API.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (re *RemoteError) Error() string {
	if re.Message == "" {
		return fmt.Sprintf("recipe API responded with status %d", re.StatusCode)
	}
	return fmt.Sprintf("recipe API responded with status %d: %s", re.StatusCode, re.Message)
}

func (re *RemoteError) ToServiceError() *ServiceError {
	statusCode := 502
	if re.StatusCode == 404 {
		statusCode = 404
	}
	return &ServiceError{
		StatusCode: statusCode,
		Cause:      re,
	}
}

func Remote(statusCode int, message string) *RemoteError {
	return &RemoteError{
		StatusCode: statusCode,
		Message:    message,
	}
}

type NotFoundError struct {
	Resource string
	Id       string
}

func (nfe *NotFoundError) Error() string {
	return fmt.Sprintf("Could not find a %s with id: %s", nfe.Resource, nfe.Id)
}

func (nfe *NotFoundError) ToServiceError() *ServiceError {
	return &ServiceError{
		StatusCode: 404,
		Cause:      nfe,
	}
}

func NotFound(resource string, id string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Id:       id,
	}
}

type InvalidInputError struct {
	Message string
}

func (ie *InvalidInputError) Error() string {
	return ie.Message
}

func (ie *InvalidInputError) ToServiceError() *ServiceError {
	return &ServiceError{
		StatusCode: 400,
		Cause:      ie,
	}
}

func InvalidInput(message string) *InvalidInputError {
	return &InvalidInputError{
		Message: message,
	}
}

type MethodNotAllowedError struct {
	Method  string
	Path    string
	Allowed []string
}

func (me *MethodNotAllowedError) Error() string {
	return fmt.Sprintf("Method %s is not allowed on %s", me.Method, me.Path)
}

func (me *MethodNotAllowedError) ToServiceError() *ServiceError {
	return &ServiceError{
		StatusCode: 405,
		Cause:      me,
	}
}

func MethodNotAllowed(method string, path string, allowed []string) *MethodNotAllowedError {
	return &MethodNotAllowedError{
		Method:  method,
		Path:    path,
		Allowed: allowed,
	}
}

// StatusCode resolves the HTTP status an error should surface as.
func StatusCode(err error) int {
	var re RequestError
	if errors.As(err, &re) {
		return re.ToServiceError().StatusCode
	}
	var se *ServiceError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	if errors.Is(err, ErrMissingRecipe) || errors.Is(err, ErrMalformedResponse) {
		return 502
	}
	return 500
}
