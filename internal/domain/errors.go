package domain

import "errors"

// Taxonomia de erros de negócio; o handler HTTP traduz cada um para o
// status correspondente.
var (
	ErrNotFound           = errors.New("usuario nao encontrado")
	ErrDuplicateEmail     = errors.New("email ja esta em uso")
	ErrDuplicateField     = errors.New("campo unico ja esta em uso")
	ErrInvalidInput       = errors.New("dados incompletos")
	ErrInvalidCredentials = errors.New("credenciais invalidas")
)
