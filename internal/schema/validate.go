package schema

import (
	"errors"
	"net/url"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	inputValidator *validator.Validate
	validatorOnce  sync.Once
)

// V returns the shared validator with the json tag name func and the custom
// rules registered.
func V() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonFieldName)
		_ = v.RegisterValidation("absurl", absoluteURLValidator)
		inputValidator = v
	})
	return inputValidator
}

// absoluteURLValidator passes empty strings, which mean "no link".
func absoluteURLValidator(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}

	u, err := url.Parse(s)
	if err != nil {
		return false
	}

	return u.IsAbs() && u.Host != ""
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

func validateInput(in any, n *normalizer, mode Mode) error {
	skip := skippedFields(in, n, mode)

	err := V().StructFiltered(in, func(ns []byte) bool {
		field := string(ns)
		if i := strings.LastIndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		return skip[field]
	})

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			n.errs.Add(fieldPath(fe), message(fe))
		}
	} else if err != nil {
		n.errs.Add("", err.Error())
	}

	return n.errs.Err()
}

// skippedFields names the Go fields validation must not look at: those that
// already failed normalization and, in partial mode, those that were absent.
func skippedFields(in any, n *normalizer, mode Mode) map[string]bool {
	t := reflect.TypeOf(in)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	skip := make(map[string]bool)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		key := jsonFieldName(f)

		if n.failed[key] {
			skip[f.Name] = true
			continue
		}

		if _, present := n.fields[key]; mode == Update && !present {
			skip[f.Name] = true
		}
	}
	return skip
}

// fieldPath drops the struct name from the validator namespace, leaving the
// json path ("tags[1]").
func fieldPath(fe validator.FieldError) string {
	_, path, found := strings.Cut(fe.Namespace(), ".")
	if !found {
		return fe.Field()
	}
	return path
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required"
	case "min":
		if fe.Param() == "1" {
			return "Must not be empty"
		}
		return "Must be at least " + fe.Param() + " characters"
	case "max":
		return "Must be at most " + fe.Param() + " characters"
	case "email":
		return "Invalid email"
	case "absurl":
		return "Invalid url"
	case "gt":
		return "Must be a positive integer"
	default:
		return "Invalid value"
	}
}
