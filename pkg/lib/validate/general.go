package validate

import (
	"fmt"
	"reflect"
	"strings"
)

// NotNil checks if the provided value is not nil.
// It returns an error if the value is nil or a typed nil (pointer, map, slice, channel, function
// or interface), using the provided message and arguments.
func NotNil(value any, msg string, args ...any) error {
	if value == nil {
		return createError(msg, args...)
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		if v.IsNil() {
			return createError(msg, args...)
		}
	}
	return nil
}

// NotBlank checks if the string contains more than whitespace.
func NotBlank(s string, msg string, args ...any) error {
	if strings.TrimSpace(s) == "" {
		return createError(msg, args...)
	}
	return nil
}

// MaxBytes checks that the string encodes to at most limit bytes.
func MaxBytes(s string, limit int, msg string, args ...any) error {
	if len(s) > limit {
		return createError(msg, args...)
	}
	return nil
}

func createError(msg string, args ...any) error {
	return fmt.Errorf(msg, args...)
}
