package utils

import "fmt"

func StringPtr(s string) *string {
	return &s
}

func Int64Ptr(i int64) *int64 {
	return &i
}

func PtrString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// NullableString returns nil for an empty string so it is stored as NULL.
func NullableString(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

const columnPrefixFmt = "%s.%s"

// PrefixSliceOfStrings qualifies every entry with prefix, leaving entries
// named in ignore untouched.
func PrefixSliceOfStrings(prefix string, input []string, ignore ...string) []string {
	out := make([]string, len(input))

inputloop:
	for i, v := range input {
		for _, ignored := range ignore {
			if v == ignored {
				out[i] = v
				continue inputloop
			}
		}

		out[i] = fmt.Sprintf(columnPrefixFmt, prefix, v)
	}
	return out
}

// AliasSliceOfStrings qualifies every entry with table and aliases it as
// "alias.column" so scany maps it onto a nested struct.
func AliasSliceOfStrings(table, alias string, input []string) []string {
	out := make([]string, len(input))
	for i, v := range input {
		out[i] = fmt.Sprintf(`%s.%s AS "%s.%s"`, table, v, alias, v)
	}
	return out
}
