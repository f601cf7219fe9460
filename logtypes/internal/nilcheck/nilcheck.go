// Package nilcheck reports values that carry no usable receiver.
package nilcheck

import "reflect"

// IsNil reports whether v is nil or only wraps a nil reference.
//
// An error holding (*T)(nil) compares non-nil against the error interface,
// yet calling Error, ErrorName or StackTrace on it usually dereferences nil.
// Callers treat such values as absent.
func IsNil(v any) bool {
	if v == nil {
		return true
	}

	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}

	return false
}
