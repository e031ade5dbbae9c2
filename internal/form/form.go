// Package form validates storefront form submissions before any request is
// sent to the backend.
package form

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/dukerupert/stride/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var expiryPattern = regexp.MustCompile(`^\d{2}/\d{2}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names so messages line up with the request body.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	must(v.RegisterValidation("mmyy", func(fl validator.FieldLevel) bool {
		return expiryPattern.MatchString(fl.Field().String())
	}))
	must(v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return domain.Category(fl.Field().String()).Valid()
	}))
	must(v.RegisterValidation("order_status", func(fl validator.FieldLevel) bool {
		return domain.OrderStatus(fl.Field().String()).Valid()
	}))
	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// messenger supplies user-facing messages keyed "field.tag". A "field"
// key is used for every tag of that field.
type messenger interface {
	messages() map[string]string
}

// normalizer returns a copy of the form with surrounding whitespace removed,
// which is what gets validated and what the projections send on.
type normalizer interface {
	normalized() any
}

// Validate checks v against its validate tags after trimming. Failures come
// back as a *domain.ValidationError mapping each offending field to its
// first message.
func Validate(op string, v any) error {
	target := v
	if n, ok := v.(normalizer); ok {
		target = n.normalized()
	}

	err := validate.Struct(target)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.Internal(err, op, "form validation failed")
	}

	var msgs map[string]string
	if m, ok := v.(messenger); ok {
		msgs = m.messages()
	}

	ve := &domain.ValidationError{Op: op, Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		field := fe.Field()
		if _, seen := ve.Fields[field]; seen {
			continue
		}
		ve.Fields[field] = message(msgs, fe)
	}
	return ve
}

func message(msgs map[string]string, fe validator.FieldError) string {
	if m, ok := msgs[fe.Field()+"."+fe.Tag()]; ok {
		return m
	}
	if m, ok := msgs[fe.Field()]; ok {
		return m
	}
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email address"
	case "min":
		return "Must be at least " + fe.Param() + " characters"
	case "max":
		return "Must be at most " + fe.Param() + " characters"
	case "oneof":
		return "Must be one of: " + fe.Param()
	default:
		return "Invalid value"
	}
}
