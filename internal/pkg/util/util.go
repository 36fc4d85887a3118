package util

import (
	"reflect"
)

// IsNil 介面內含 nil 指標也視為 nil
func IsNil(i interface{}) bool {
	if i == nil {
		return true
	}

	switch reflect.TypeOf(i).Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Slice, reflect.Func, reflect.Interface:
		return reflect.ValueOf(i).IsNil()
	}

	return false
}
