// Package validation checks request shapes with go-playground/validator and
// reports every failing field at once.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is one failing field. Field uses the JSON name.
type FieldError struct {
	Field   string
	Tag     string
	Message string
}

type Errors []FieldError

func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Message)
	}
	return strings.Join(msgs, "; ")
}

func Get() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// Struct returns nil or Errors.
func Struct(s any) error {
	err := Get().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Errors{{Field: "body", Tag: "invalid", Message: err.Error()}}
	}

	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fieldPath(fe),
			Tag:     fe.Tag(),
			Message: translate(fe),
		})
	}
	return out
}

// fieldPath drops the top-level struct name: "req.items[0].importance"
// becomes "items[0].importance".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

var messages = map[string]string{
	"required": "%s is required",
	"email":    "%s must be a valid email address",
}

var messagesWithParam = map[string]string{
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
	"gt":    "%s must be greater than %s",
	"oneof": "%s must be one of: %s",
}

func translate(fe validator.FieldError) string {
	field := fieldPath(fe)
	if tpl, ok := messages[fe.Tag()]; ok {
		return fmt.Sprintf(tpl, field)
	}
	if tpl, ok := messagesWithParam[fe.Tag()]; ok {
		return fmt.Sprintf(tpl, field, fe.Param())
	}

	isString := fe.Kind().String() == "string"
	switch fe.Tag() {
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must contain at least %s items", field, fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must contain at most %s items", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
