// internal/interfaces/http/handlers/validation.go
package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/your-org/storefront/internal/pkg/apperror"
)

var registerOnce sync.Once

// RegisterFormValidation makes validator report fields by their form name
func RegisterFormValidation() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(func(fld reflect.StructField) string {
				name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
				if name == "-" {
					return ""
				}
				return name
			})
		}
	})
}

var fieldMessages = map[string]string{
	"email.required":           "Please enter a valid email.",
	"email.email":              "Please enter a valid email.",
	"password.required":        "Please enter a password with at least 6 characters.",
	"password.min":             "Please enter a password with at least 6 characters.",
	"newPassword.required":     "Please enter a password with at least 6 characters.",
	"newPassword.min":          "Please enter a password with at least 6 characters.",
	"confirmPassword.eqfield":  "Passwords have to match!",
	"currentPassword.required": "Current password is incorrect.",
	"title.required":           "Title must be at least 3 characters long.",
	"title.min":                "Title must be at least 3 characters long.",
	"price.required":           "Price must be a positive number.",
	"description.required":     "Description must be at least 5 characters long.",
	"description.min":          "Description must be at least 5 characters long.",
}

func fieldMessage(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	return fmt.Sprintf("%s is invalid.", fe.Field())
}

// validationErrors maps form field names to messages
func validationErrors(err error) map[string]string {
	out := map[string]string{}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if _, seen := out[fe.Field()]; !seen {
				out[fe.Field()] = fieldMessage(fe)
			}
		}
		return out
	}

	var appErr *apperror.Error
	if errors.As(err, &appErr) && appErr.Field != "" {
		out[appErr.Field] = appErr.Message
	}
	return out
}

// validationMessage is the banner shown above an invalid form
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fieldMessage(verrs[0])
	}
	if apperror.Is(err, apperror.KindValidation) {
		return apperror.Message(err)
	}
	return "Invalid input."
}
