// Package validation registers the custom binding tags used by request DTOs.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/lfsdirectory/lfsdirectory-backend/pkg/util"
)

var registerOnce sync.Once

// Register installs json field naming and the zip5, usstate and lfsemail tags
// on gin's validator. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		Configure(v)
	})
}

// Configure applies the custom tags to v.
func Configure(v *validator.Validate) {
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			tag = strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		}
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	_ = v.RegisterValidation("zip5", func(fl validator.FieldLevel) bool {
		return util.IsValidZip(strings.TrimSpace(fl.Field().String()))
	})
	_ = v.RegisterValidation("usstate", func(fl validator.FieldLevel) bool {
		_, ok := util.LookupState(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("lfsemail", func(fl validator.FieldLevel) bool {
		return util.IsValidEmail(strings.TrimSpace(fl.Field().String()))
	})
}

// FieldErrors maps a binding error to per-field messages. ok is false when
// err is not a validation failure (for example malformed JSON).
func FieldErrors(err error) (map[string]string, bool) {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return nil, false
	}
	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		out[fe.Field()] = message(fe)
	}
	return out, true
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "email", "lfsemail":
		return "must be a valid email address"
	case "zip5":
		return "must be a 5-digit ZIP code"
	case "usstate":
		return "must be a US state"
	}
	return "is invalid"
}
