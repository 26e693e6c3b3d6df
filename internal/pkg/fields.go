package pkg

import (
	"reflect"
	"strings"
)

// QueryFields converts a bound query struct into equality filter fields
// keyed by form tag. Only fields with a non-zero value are returned;
// pointer fields are returned when non-nil so that false and 0 can be
// filtered on.
func QueryFields(obj any) map[string]any {
	return taggedFields(obj, "form")
}

// BodyFields converts a bound request body into update assignments keyed
// by json tag, using the same presence rules as QueryFields. Update
// requests declare pointer fields so that omitted keys are left untouched.
func BodyFields(obj any) map[string]any {
	return taggedFields(obj, "json")
}

func taggedFields(obj any, tag string) map[string]any {
	v := reflect.ValueOf(obj)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	fields := make(map[string]any)
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		name, _, _ := strings.Cut(sf.Tag.Get(tag), ",")
		if name == "" || name == "-" || !sf.IsExported() {
			continue
		}
		fv := v.Field(i)
		if fv.Kind() == reflect.Ptr {
			if fv.IsNil() {
				continue
			}
			fields[name] = fv.Elem().Interface()
			continue
		}
		if fv.IsZero() {
			continue
		}
		fields[name] = fv.Interface()
	}
	return fields
}
