package service

import (
	"errors"
	"fmt"

	"tiendaropa/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrNoEncontrado   = errors.New("recurso no encontrado")
	ErrDuplicado      = errors.New("el recurso ya existe")
	ErrYaAnulada      = errors.New("el documento ya se encuentra anulado")
	ErrCredenciales   = errors.New("credenciales invalidas")
	ErrInactivo       = errors.New("registro inactivo")
	ErrEnUso          = errors.New("el recurso esta en uso")
	ErrDatosInvalidos = errors.New("datos invalidos")
	// ErrStockInsuficiente is shared with the repository guard so callers can
	// match either layer with errors.Is.
	ErrStockInsuficiente = repository.ErrStockInsuficiente
)

// noEncontrado wraps gorm.ErrRecordNotFound as ErrNoEncontrado naming what was missing.
func noEncontrado(err error, que string) error {
	if repository.IsNotFound(err) {
		return fmt.Errorf("%s: %w", que, ErrNoEncontrado)
	}
	return err
}

// duplicado maps unique violations (TranslateError) to ErrDuplicado.
func duplicado(err error, que string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w", que, ErrDuplicado)
	}
	return err
}
