package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/scentory/scentory/internal/apiserver/database"
	"github.com/scentory/scentory/internal/common/cnst"
	"github.com/scentory/scentory/internal/i18n"
)

var registerOnce sync.Once

// RegisterValidators installs the domain tags on gin's validator engine
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(wireName)
		_ = v.RegisterValidation("concentration", func(fl validator.FieldLevel) bool {
			return database.Concentration(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("season", func(fl validator.FieldLevel) bool {
			return database.Season(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
			return cnst.Role(fl.Field().String()).Valid()
		})
	})
}

// wireName reports fields by their json or form name
func wireName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// bindError maps a binding failure to a 400. Validation failures name the
// offending fields; anything else becomes fallback.
func bindError(err error, fallback *i18n.ErrorWithCode) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fallback
	}
	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, describe(fe))
	}
	return i18n.ErrValidationFailed.WithParam("Detail", strings.Join(details, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "concentration":
		return fmt.Sprintf("%s must be one of EDC, EDT, EDP, PARFUM, OTHER", fe.Field())
	case "season":
		return fmt.Sprintf("%s must be one of SUMMER, WINTER, ALL, OTHER", fe.Field())
	case "role":
		return fmt.Sprintf("%s must be one of USER, ADMIN", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min", "max", "gte", "lte":
		return fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
