// Package patch provides a three-state field type for partial updates:
// a field is either absent from the update, set to a value, or cleared.
// It replaces ad hoc pointer/null juggling when building update payloads.
package patch

import (
	"bytes"
	"encoding/json"
)

// Field holds an optional update for a single column. The zero value is
// absent, meaning the update leaves the column untouched.
type Field[T any] struct {
	present bool
	clear   bool
	value   T
}

// Set returns a field that updates the column to v.
func Set[T any](v T) Field[T] {
	return Field[T]{present: true, value: v}
}

// Clear returns a field that nulls the column out.
func Clear[T any]() Field[T] {
	return Field[T]{present: true, clear: true}
}

// Absent returns a field that leaves the column untouched.
func Absent[T any]() Field[T] {
	return Field[T]{}
}

// IsAbsent reports whether the field carries no update at all.
func (f Field[T]) IsAbsent() bool {
	return !f.present
}

// IsSet reports whether the field updates the column to a value.
func (f Field[T]) IsSet() bool {
	return f.present && !f.clear
}

// IsClear reports whether the field nulls the column out.
func (f Field[T]) IsClear() bool {
	return f.present && f.clear
}

// Value returns the update value and whether one is set.
func (f Field[T]) Value() (T, bool) {
	if !f.IsSet() {
		var zero T
		return zero, false
	}
	return f.value, true
}

// MustValue returns the update value, panicking if the field is not set.
// Callers are expected to check IsSet first.
func (f Field[T]) MustValue() T {
	if !f.IsSet() {
		panic("patch: MustValue on a field that is not set")
	}
	return f.value
}

var nullLiteral = []byte("null")

// UnmarshalJSON maps a missing key to absent, an explicit null to clear,
// and any other JSON value to set. The distinction between missing and
// null is what makes clearable columns expressible over the wire.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.present = true
	if bytes.Equal(bytes.TrimSpace(data), nullLiteral) {
		f.clear = true
		return nil
	}
	f.clear = false
	return json.Unmarshal(data, &f.value)
}

// MarshalJSON renders set fields as their value and everything else as null.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.IsSet() {
		return nullLiteral, nil
	}
	return json.Marshal(f.value)
}
