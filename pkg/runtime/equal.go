package runtime

import "reflect"

// Equal is the value equality used for prop diffing, dependency
// fingerprints, and the setter's equal-value skip.
//
// It behaves like reflect.DeepEqual except that function values compare by
// code pointer instead of always comparing unequal. Without this, any prop
// or dependency containing a callback would register as changed on every
// render, which would defeat UseCallback's stable handles.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	return valueEqual(reflect.ValueOf(a), reflect.ValueOf(b))
}

func valueEqual(a, b reflect.Value) bool {
	if !a.IsValid() || !b.IsValid() {
		return a.IsValid() == b.IsValid()
	}
	if a.Type() != b.Type() {
		return false
	}
	switch a.Kind() {
	case reflect.Func:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() && b.IsNil()
		}
		return a.Pointer() == b.Pointer()
	case reflect.Pointer:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() && b.IsNil()
		}
		if a.Pointer() == b.Pointer() {
			return true
		}
		return valueEqual(a.Elem(), b.Elem())
	case reflect.Interface:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() && b.IsNil()
		}
		return valueEqual(a.Elem(), b.Elem())
	case reflect.Struct:
		for i := 0; i < a.NumField(); i++ {
			if !valueEqual(a.Field(i), b.Field(i)) {
				return false
			}
		}
		return true
	case reflect.Slice:
		if a.IsNil() != b.IsNil() {
			return false
		}
		fallthrough
	case reflect.Array:
		if a.Len() != b.Len() {
			return false
		}
		for i := 0; i < a.Len(); i++ {
			if !valueEqual(a.Index(i), b.Index(i)) {
				return false
			}
		}
		return true
	case reflect.Map:
		if a.IsNil() != b.IsNil() || a.Len() != b.Len() {
			return false
		}
		iter := a.MapRange()
		for iter.Next() {
			bv := b.MapIndex(iter.Key())
			if !bv.IsValid() || !valueEqual(iter.Value(), bv) {
				return false
			}
		}
		return true
	default:
		// Basic kinds, channels and unsafe pointers. Value.Equal compares
		// without calling Interface, so values reached through unexported
		// struct fields (time.Time internals and the like) do not panic.
		if a.Comparable() {
			return a.Equal(b)
		}
		if !a.CanInterface() {
			return false
		}
		return reflect.DeepEqual(a.Interface(), b.Interface())
	}
}

// depsEqual compares dependency fingerprints element by element.
// A length change counts as changed.
func depsEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
