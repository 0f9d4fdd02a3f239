package utils

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/exception"
)

var objectValidator = validator.New()

// ValidateObject runs struct tag validation and maps the first failure to
// a CustomError suitable for an HTTP 400 response.
func ValidateObject(obj interface{}) error {
	err := objectValidator.Struct(obj)
	if err == nil {
		return nil
	}
	if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
		fieldError := validationErrors[0]
		return &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.InvalidParameter,
			Message: exception.InvalidParameterMsg,
			Params:  map[string]interface{}{"param": fieldError.Namespace()},
			Debug:   fieldError.Error(),
		}
	}
	return &exception.CustomError{
		Status:  http.StatusBadRequest,
		Code:    exception.BadRequestBody,
		Message: exception.BadRequestBodyMsg,
		Debug:   err.Error(),
	}
}
