package schema

import (
	"encoding/json"
	"strconv"
	"strings"

	"hilltop/pkg/types"
)

// normalizer turns loosely typed Fields into typed values, recording a field
// error for every value of the wrong shape. Keys that fail here are not
// validated again.
type normalizer struct {
	fields Fields
	errs   *types.ValidationError
	failed map[string]bool
}

func newNormalizer(f Fields) *normalizer {
	return &normalizer{
		fields: f,
		errs:   new(types.ValidationError),
		failed: make(map[string]bool),
	}
}

func (n *normalizer) fail(key, msg string) {
	n.failed[key] = true
	n.errs.Add(key, msg)
}

// text returns the trimmed string at key. A null value on a nullable field
// becomes the empty string, which the store persists as NULL.
func (n *normalizer) text(key string, nullable bool) *string {
	v, ok := n.fields[key]
	if !ok {
		return nil
	}

	switch t := v.(type) {
	case nil:
		if nullable {
			empty := ""
			return &empty
		}
		n.fail(key, "Expected string, received null")
	case string:
		s := strings.TrimSpace(t)
		return &s
	default:
		n.fail(key, "Expected string, received "+typeName(v))
	}

	return nil
}

func (n *normalizer) integer(key string) *int64 {
	v, ok := n.fields[key]
	if !ok {
		return nil
	}

	switch t := v.(type) {
	case int64:
		return &t
	case json.Number:
		i, err := strconv.ParseInt(t.String(), 10, 64)
		if err != nil {
			n.fail(key, "Expected integer, received "+t.String())
			return nil
		}
		return &i
	default:
		n.fail(key, "Expected integer, received "+typeName(v))
	}

	return nil
}

// tags accepts an array of strings or one comma separated string. Array
// entries are trimmed but kept, so an empty entry is reported by validation;
// empty pieces of a comma separated string are dropped.
func (n *normalizer) tags(key string) []string {
	v, ok := n.fields[key]
	if !ok {
		return nil
	}

	switch t := v.(type) {
	case nil:
		return []string{}
	case string:
		return SplitTags(t)
	case []string:
		out := make([]string, len(t))
		for i, s := range t {
			out[i] = strings.TrimSpace(s)
		}
		return out
	case []any:
		out := make([]string, 0, len(t))
		for i, item := range t {
			s, ok := item.(string)
			if !ok {
				n.fail(key, "Expected string at index "+strconv.Itoa(i)+", received "+typeName(item))
				return nil
			}
			out = append(out, strings.TrimSpace(s))
		}
		return out
	default:
		n.fail(key, "Expected array of strings, received "+typeName(v))
	}

	return nil
}

// SplitTags splits a comma separated tag string, trimming every entry and
// dropping the empty ones.
func SplitTags(s string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
