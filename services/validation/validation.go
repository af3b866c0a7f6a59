// Package validation wraps go-playground/validator with the domain tags used
// across request types and converts failures into apperr validation errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/civicfix/civicback/models"
	"github.com/civicfix/civicback/services/apperr"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	must(validate.RegisterValidation("skill", func(fl validator.FieldLevel) bool {
		return models.SkillCategory(fl.Field().String()).IsValid()
	}))
	must(validate.RegisterValidation("specialty", func(fl validator.FieldLevel) bool {
		return models.Field(fl.Field().String()).IsValid()
	}))
	must(validate.RegisterValidation("reportcategory", func(fl validator.FieldLevel) bool {
		return models.ReportCategory(fl.Field().String()).IsValid()
	}))
	must(validate.RegisterValidation("urgency", func(fl validator.FieldLevel) bool {
		return models.Urgency(fl.Field().String()).IsValid()
	}))
	must(validate.RegisterValidation("reportstatus", func(fl validator.FieldLevel) bool {
		return models.ReportStatus(fl.Field().String()).IsValid()
	}))
	must(validate.RegisterValidation("topic", func(fl validator.FieldLevel) bool {
		return models.DiscussionCategory(fl.Field().String()).IsValid()
	}))
	must(validate.RegisterValidation("entitytype", func(fl validator.FieldLevel) bool {
		return models.EntityType(fl.Field().String()).IsValid()
	}))
	must(validate.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	}))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Struct validates v and returns an *apperr.Error with one message per
// offending field, or nil.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Internal("validation failed", err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe)] = message(fe)
	}
	return apperr.Validation(fields)
}

// ParseDate accepts ISO-8601 dates with or without a time component.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// fieldPath drops the root struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "mongodb":
		return fmt.Sprintf("invalid %s", fe.Field())
	case "skill":
		return "invalid category"
	case "specialty":
		return "invalid field"
	case "reportcategory", "topic":
		return "invalid category"
	case "urgency":
		return "invalid urgency"
	case "reportstatus":
		return "invalid status"
	case "entitytype":
		return "invalid entity type"
	case "isodate":
		return "invalid date format"
	case "email":
		return "invalid email format"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s item(s)", fe.Field(), fe.Param())
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s cannot be empty", fe.Field())
		}
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at most %s item(s)", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "len":
		return fmt.Sprintf("%s must have length %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}
