package validators

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report errors under the json field name, not the Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// CheckStruct runs the struct validators and returns field-scoped messages.
func CheckStruct(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	fieldErrors := make(map[string]string)
	for _, fe := range err.(validator.ValidationErrors) {
		fieldErrors[fe.Field()] = messageFor(fe)
	}
	return fieldErrors
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required!"
	case "email":
		return "Please enter a valid email address!"
	case "url":
		return "Please enter a valid URL!"
	case "min":
		return fmt.Sprintf("Must be at least %s characters long!", fe.Param())
	case "len", "numeric":
		return fmt.Sprintf("Must be exactly %s digits!", param6(fe))
	case "oneof":
		return fmt.Sprintf("Must be one of: %s!", fe.Param())
	}
	return "Invalid value!"
}

func param6(fe validator.FieldError) string {
	if fe.Tag() == "numeric" {
		return "6"
	}
	return fe.Param()
}
