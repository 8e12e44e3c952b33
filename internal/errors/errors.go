package errors

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// AppError é a interface comum de todos os erros tipados que o serviço retorna.
// Os handlers leem dela a categoria e o status para montar a resposta.
type AppError interface {
	Error() string
	Category() string
	HTTPStatus() int
	Unwrap() error
}

// --- Erros de cliente ---

// ValidationError indica um payload inválido. Fields mapeia o campo JSON
// problemático para um motivo legível.
type ValidationError struct {
	Msg    string
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Msg
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s: %s", e.Msg, strings.Join(parts, "; "))
}
func (e *ValidationError) Category() string { return "VALIDATION_ERROR" }
func (e *ValidationError) HTTPStatus() int  { return http.StatusBadRequest }
func (e *ValidationError) Unwrap() error    { return nil }

// NewValidationError cria um erro de validação sem detalhes por campo.
func NewValidationError(msg string) AppError {
	return &ValidationError{Msg: msg}
}

// NewFieldValidationError cria um erro de validação com motivos por campo.
func NewFieldValidationError(msg string, fields map[string]string) AppError {
	return &ValidationError{Msg: msg, Fields: fields}
}

// ConflictError indica uma requisição que conflita com o estado atual, ex.: um
// email já cadastrado. Os clientes esperam 400 aqui, não 409.
type ConflictError struct {
	Msg string
	Err error
}

func (e *ConflictError) Error() string    { return e.Msg }
func (e *ConflictError) Category() string { return "DUPLICATE_EMAIL" }
func (e *ConflictError) HTTPStatus() int  { return http.StatusBadRequest }
func (e *ConflictError) Unwrap() error    { return e.Err }

// NewConflictError cria um erro de conflito envolvendo a causa vinda do store.
func NewConflictError(msg string, err error) AppError {
	return &ConflictError{Msg: msg, Err: err}
}

// UnauthorizedError indica credenciais ausentes ou incorretas.
type UnauthorizedError struct {
	Msg string
}

func (e *UnauthorizedError) Error() string    { return e.Msg }
func (e *UnauthorizedError) Category() string { return "UNAUTHORIZED" }
func (e *UnauthorizedError) HTTPStatus() int  { return http.StatusUnauthorized }
func (e *UnauthorizedError) Unwrap() error    { return nil }

// NewUnauthorizedError cria um erro de autenticação.
func NewUnauthorizedError(msg string) AppError {
	return &UnauthorizedError{Msg: msg}
}

// NotFoundError indica um recurso inexistente.
type NotFoundError struct {
	Msg string
	Err error
}

func (e *NotFoundError) Error() string    { return e.Msg }
func (e *NotFoundError) Category() string { return "NOT_FOUND" }
func (e *NotFoundError) HTTPStatus() int  { return http.StatusNotFound }
func (e *NotFoundError) Unwrap() error    { return e.Err }

// NewNotFoundError cria um erro de recurso não encontrado.
func NewNotFoundError(msg string, err error) AppError {
	return &NotFoundError{Msg: msg, Err: err}
}

// --- Erros de servidor ---

// InternalError envolve uma falha inesperada (store fora do ar, timeout...).
type InternalError struct {
	Msg string
	Err error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return fmt.Sprintf("%s: %v", e.Msg, e.Err)
}
func (e *InternalError) Category() string { return "INTERNAL_ERROR" }
func (e *InternalError) HTTPStatus() int  { return http.StatusInternalServerError }
func (e *InternalError) Unwrap() error    { return e.Err }

// NewInternalError cria um erro genérico de servidor.
func NewInternalError(msg string, err error) AppError {
	return &InternalError{Msg: msg, Err: err}
}

// NewDBError é um atalho para falhas do store. O cliente só vê msg; a marca
// do store fica na causa encapsulada, para os logs.
func NewDBError(msg string, err error) AppError {
	if err != nil {
		err = fmt.Errorf("user store: %w", err)
	}
	return NewInternalError(msg, err)
}

// PersistenceError indica que o store aceitou o insert mas não retornou nenhuma linha.
type PersistenceError struct {
	Msg string
	Err error
}

func (e *PersistenceError) Error() string    { return e.Msg }
func (e *PersistenceError) Category() string { return "PERSISTENCE_FAILURE" }
func (e *PersistenceError) HTTPStatus() int  { return http.StatusInternalServerError }
func (e *PersistenceError) Unwrap() error    { return e.Err }

// NewPersistenceError cria um erro de persistência.
func NewPersistenceError(msg string, err error) AppError {
	return &PersistenceError{Msg: msg, Err: err}
}

// SigningError indica que um token não pôde ser assinado, o que sempre significa
// um deploy mal configurado.
type SigningError struct {
	Msg string
	Err error
}

func (e *SigningError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return fmt.Sprintf("%s: %v", e.Msg, e.Err)
}
func (e *SigningError) Category() string { return "SIGNING_ERROR" }
func (e *SigningError) HTTPStatus() int  { return http.StatusInternalServerError }
func (e *SigningError) Unwrap() error    { return e.Err }

// NewSigningError cria um erro de assinatura.
func NewSigningError(msg string, err error) AppError {
	return &SigningError{Msg: msg, Err: err}
}

// --- Helper para os Handlers ---

// MapToHTTPStatus traduz um erro em status, categoria e a mensagem que pode
// ser mostrada ao cliente. Mensagens 5xx nunca incluem a causa.
func MapToHTTPStatus(err error) (int, string, string) {
	if appErr, ok := err.(AppError); ok {
		status := appErr.HTTPStatus()
		if status >= http.StatusInternalServerError {
			switch e := appErr.(type) {
			case *InternalError:
				return status, e.Category(), e.Msg
			case *SigningError:
				return status, e.Category(), e.Msg
			}
		}
		return status, appErr.Category(), appErr.Error()
	}

	return http.StatusInternalServerError, "UNKNOWN_ERROR", "An unexpected error occurred."
}
