// Package storage define los errores que devuelven todos los adapters de persistencia
// (memory, postgres), para que los services los traduzcan sin importar el adapter.
package storage

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrVersionConflict = errors.New("version conflict")
)
