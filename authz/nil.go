package authz

import "reflect"

// isNil catches typed nil pointers stored in the Subject interface.
func isNil(subject Subject) bool {
	if subject == nil {
		return true
	}
	v := reflect.ValueOf(subject)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
