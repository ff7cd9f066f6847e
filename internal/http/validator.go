package http

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"readingtracker/internal/entity"
	"readingtracker/internal/httpx"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	_ = validate.RegisterValidation("owned", func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		return v == "" || entity.ValidOwned(v)
	})
	_ = validate.RegisterValidation("book_type", func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		return v == "" || v == entity.BookTypeFiction || v == entity.BookTypeNonFiction
	})
}

// ValidateStruct maps validator errors to response details.
func ValidateStruct(s any) []httpx.ErrorDetail {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var details []httpx.ErrorDetail
	for _, fe := range err.(validator.ValidationErrors) {
		var message string
		switch fe.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", fe.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
		case "owned":
			message = fmt.Sprintf("%s must be one of Physical, Kindle, Not Owned, Audible", fe.Field())
		case "book_type":
			message = fmt.Sprintf("%s must be Fiction or Non-Fiction", fe.Field())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", fe.Field())
		default:
			message = fmt.Sprintf("%s is invalid", fe.Field())
		}
		details = append(details, httpx.ErrorDetail{Field: fe.Field(), Message: message})
	}
	return details
}
