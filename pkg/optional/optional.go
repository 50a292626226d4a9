// Package optional distingue en un JSON entre campo ausente, null explícito y valor.
package optional

import (
	"bytes"
	"encoding/json"
)

// Field es un campo de actualización parcial.
//
//	ausente  -> Set == false
//	null     -> Set == true, Null() == true
//	valor    -> Set == true, Value != nil
type Field[T any] struct {
	Set   bool
	Value *T
}

// Of construye un campo presente con valor.
func Of[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: &v}
}

// Null construye un campo presente con null explícito.
func Null[T any]() Field[T] {
	return Field[T]{Set: true}
}

// IsNull indica null explícito.
func (f Field[T]) IsNull() bool {
	return f.Set && f.Value == nil
}

// Get devuelve el valor y si está presente con valor no nulo.
func (f Field[T]) Get() (T, bool) {
	if f.Value == nil {
		var zero T
		return zero, false
	}
	return *f.Value, true
}

// UnmarshalJSON solo se invoca cuando la clave existe en el documento.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	f.Value = &v
	return nil
}

// MarshalJSON serializa el valor o null.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if f.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*f.Value)
}

// Apply sobrescribe dst cuando el campo trae valor; null y ausente no lo tocan.
func Apply[T any](dst *T, f Field[T]) {
	if v, ok := f.Get(); ok {
		*dst = v
	}
}

// ApplyNullable sobrescribe un puntero: valor -> nuevo puntero, null -> nil, ausente -> sin cambios.
func ApplyNullable[T any](dst **T, f Field[T]) {
	if !f.Set {
		return
	}
	if v, ok := f.Get(); ok {
		*dst = &v
		return
	}
	*dst = nil
}
