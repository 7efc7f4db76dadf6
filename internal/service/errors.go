package service

import "errors"

// Errores tipados que los handlers traducen a codigos HTTP:
// ErrValidacion → 400, ErrNoEncontrado → 404, ErrConflicto → 409.

var (
	ErrNoEncontrado = errors.New("recurso no encontrado")
	ErrConflicto    = errors.New("conflicto con el estado actual del recurso")
)

// ErrValidacion describe una regla de negocio incumplida.
type ErrValidacion struct {
	Motivo string
}

func (e *ErrValidacion) Error() string { return e.Motivo }

func validacion(motivo string) error { return &ErrValidacion{Motivo: motivo} }

// EsValidacion reporta si err es un error de validacion de negocio.
func EsValidacion(err error) bool {
	var ev *ErrValidacion
	return errors.As(err, &ev)
}
