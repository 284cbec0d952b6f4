package validator

import (
	stdErrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator implements echo.Validator using go-playground/validator
type CustomValidator struct {
	v *validator.Validate
}

// New creates a new CustomValidator instance. Field names in errors use the
// json tag so they match what the client sent.
func New() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &CustomValidator{v: v}
}

// Validate performs struct validation
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.v.Struct(i)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if stdErrors.As(err, &fieldErrs) {
		msgs := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
	}
	return err
}
