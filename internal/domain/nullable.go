package domain

import (
	"bytes"
	"encoding/json"
)

// Nullable distinguishes an absent field from an explicit null in partial
// updates. Present && Value == nil means "clear".
type Nullable[T any] struct {
	Present bool
	Value   *T
}

func Null[T any]() Nullable[T] {
	return Nullable[T]{Present: true}
}

func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Present: true, Value: &v}
}

func (n *Nullable[T]) UnmarshalJSON(b []byte) error {
	n.Present = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}
