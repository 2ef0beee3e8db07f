package services

import (
	"bytes"
	"encoding/json"
)

// Optional distinguishes an absent patch field from one explicitly set,
// including an explicit JSON null.
type Optional[T any] struct {
	Set   bool
	Value T
}

func Some[T any](value T) Optional[T] {
	return Optional[T]{Set: true, Value: value}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

func (optional Optional[T]) Get() (T, bool) {
	return optional.Value, optional.Set
}

func (optional *Optional[T]) UnmarshalJSON(data []byte) error {
	optional.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		optional.Value = zero
		return nil
	}
	return json.Unmarshal(data, &optional.Value)
}

func (optional Optional[T]) MarshalJSON() ([]byte, error) {
	if !optional.Set {
		return []byte("null"), nil
	}
	return json.Marshal(optional.Value)
}
