package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"hilltop/pkg/types"

	"github.com/go-playground/form/v4"
)

// Fields is an untrusted record as it arrived on the wire, keyed by JSON
// field name. Values are whatever the decoder produced: strings, json.Number,
// []any, nil or, for form bodies, int64 and []string.
type Fields map[string]any

var ErrMalformedBody = errors.New("malformed request body")

var formDecoder = form.NewDecoder()

// DecodeJSON reads a JSON object. Numbers are kept as json.Number so the
// normalization pass can tell integers apart from fractions.
func DecodeJSON(r io.Reader) (Fields, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return Fields{}, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}

	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after object", ErrMalformedBody)
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		verr := new(types.ValidationError)
		verr.Add("", "Expected object, received "+typeName(raw))
		return nil, verr
	}

	return Fields(obj), nil
}

// DecodeJSONBytes is DecodeJSON over an in-memory body.
func DecodeJSONBytes(b []byte) (Fields, error) {
	return DecodeJSON(bytes.NewReader(b))
}

type categoryForm struct {
	Name        *string `form:"name"`
	Description *string `form:"description"`
	Icon        *string `form:"icon"`
}

type resourceForm struct {
	Title       *string  `form:"title"`
	Description *string  `form:"description"`
	URL         *string  `form:"url"`
	CategoryID  *int64   `form:"categoryId"`
	Tags        []string `form:"tags"`
	ImageURL    *string  `form:"imageUrl"`
}

type contactForm struct {
	Name    *string `form:"name"`
	Email   *string `form:"email"`
	Contact *string `form:"contact"`
	Address *string `form:"address"`
	Subject *string `form:"subject"`
	Message *string `form:"message"`
}

// DecodeCategoryForm converts an admin form post into Fields.
func DecodeCategoryForm(values url.Values) (Fields, error) {
	var f categoryForm
	if err := decodeForm(&f, values); err != nil {
		return nil, err
	}

	out := Fields{}
	setString(out, "name", f.Name)
	setString(out, "description", f.Description)
	setString(out, "icon", f.Icon)
	return out, nil
}

// DecodeResourceForm converts an admin form post into Fields. A single tags
// value is kept as a string so it goes through comma splitting.
func DecodeResourceForm(values url.Values) (Fields, error) {
	var f resourceForm
	if err := decodeForm(&f, values); err != nil {
		return nil, err
	}

	out := Fields{}
	setString(out, "title", f.Title)
	setString(out, "description", f.Description)
	setString(out, "url", f.URL)
	setString(out, "imageUrl", f.ImageURL)
	if f.CategoryID != nil {
		out["categoryId"] = *f.CategoryID
	}

	switch len(f.Tags) {
	case 0:
		if values.Has("tags") {
			out["tags"] = ""
		}
	case 1:
		out["tags"] = f.Tags[0]
	default:
		out["tags"] = f.Tags
	}

	return out, nil
}

func DecodeContactForm(values url.Values) (Fields, error) {
	var f contactForm
	if err := decodeForm(&f, values); err != nil {
		return nil, err
	}

	out := Fields{}
	setString(out, "name", f.Name)
	setString(out, "email", f.Email)
	setString(out, "contact", f.Contact)
	setString(out, "address", f.Address)
	setString(out, "subject", f.Subject)
	setString(out, "message", f.Message)
	return out, nil
}

func decodeForm(dst any, values url.Values) error {
	err := formDecoder.Decode(dst, values)
	if err == nil {
		return nil
	}

	var decodeErrs form.DecodeErrors
	if !errors.As(err, &decodeErrs) {
		return fmt.Errorf("%w: %s", ErrMalformedBody, err.Error())
	}

	verr := new(types.ValidationError)
	for field := range decodeErrs {
		msg := "Invalid value"
		if field == "categoryId" {
			msg = "Expected integer"
		}
		verr.Add(field, msg)
	}
	return verr
}

func setString(out Fields, key string, v *string) {
	if v != nil {
		out[key] = *v
	}
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case json.Number, int64, float64:
		return "number"
	case bool:
		return "boolean"
	case []any, []string:
		return "array"
	case map[string]any:
		return "object"
	default:
		return strings.TrimPrefix(fmt.Sprintf("%T", v), "*")
	}
}
