package utils

import (
	"reflect"
)

var ColumnTag = "db"

// StructTagValues returns the column names of input in field order.
func StructTagValues(input any) []string {

	targetType := structType(reflect.TypeOf(input))

	result := make([]string, 0, targetType.NumField())

	for i := 0; i < targetType.NumField(); i++ {
		tagValue, ok := columnOf(targetType.Field(i))
		if !ok {
			continue
		}

		result = append(result, tagValue)
	}

	return result

}

// PresentFieldsToMap maps the columns of a patch struct whose pointer, slice
// or map field is non-nil. Pointers are dereferenced.
func PresentFieldsToMap(input any) map[string]any {

	result := make(map[string]any)

	itemValue := structValue(input)
	itemType := itemValue.Type()

	for i := 0; i < itemValue.NumField(); i++ {
		tagValue, ok := columnOf(itemType.Field(i))
		if !ok {
			continue
		}

		field := itemValue.Field(i)
		switch field.Kind() {
		case reflect.Ptr:
			if field.IsNil() {
				continue
			}
			result[tagValue] = field.Elem().Interface()
		case reflect.Slice, reflect.Map:
			if field.IsNil() {
				continue
			}
			result[tagValue] = field.Interface()
		default:
			result[tagValue] = field.Interface()
		}
	}

	return result

}

func columnOf(field reflect.StructField) (string, bool) {
	if field.PkgPath != "" {
		return "", false
	}

	tagValue := field.Tag.Get(ColumnTag)
	if tagValue == "" || tagValue == "-" {
		return "", false
	}

	return tagValue, true
}

func structType(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct {
		panic("input must be a pointer to a struct or a struct")
	}

	return t
}

func structValue(input any) reflect.Value {
	v := reflect.ValueOf(input)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		panic("input must be a pointer to a struct or a struct")
	}

	return v
}
