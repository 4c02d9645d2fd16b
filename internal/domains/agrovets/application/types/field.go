package types

import (
	"bytes"

	json "github.com/goccy/go-json"
)

// Field distinguishes an attribute the caller supplied from one it omitted.
// A JSON null counts as omitted.
type Field[T any] struct {
	Value T
	Set   bool
}

// Some marks v as supplied.
func Some[T any](v T) Field[T] {
	return Field[T]{Value: v, Set: true}
}

// Get returns the value and whether it was supplied.
func (f Field[T]) Get() (T, bool) {
	return f.Value, f.Set
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = Field[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Some(v)
	return nil
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}
