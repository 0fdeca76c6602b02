package dto

import (
	"bytes"
	"encoding/json"
)

// Opt campo opcional de un patch: Set distingue "omitido" de "enviado con valor cero".
// Un null explícito cuenta como omitido.
type Opt[T any] struct {
	Value T
	Set   bool
}

// Some construye un Opt presente.
func Some[T any](v T) Opt[T] {
	return Opt[T]{Value: v, Set: true}
}

// Get devuelve el valor y si estaba presente.
func (o Opt[T]) Get() (T, bool) {
	return o.Value, o.Set
}

// Or devuelve el valor si está presente, o def.
func (o Opt[T]) Or(def T) T {
	if o.Set {
		return o.Value
	}
	return def
}

// UnmarshalJSON marca el campo como presente salvo que llegue null.
func (o *Opt[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Opt[T]{}
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Set = true
	return nil
}

// MarshalJSON serializa el valor (null si no está presente).
func (o Opt[T]) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
