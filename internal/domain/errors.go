package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Code identifica la categoría estable de un error de dominio.
// Los clientes del bridge ramifican por Code, nunca por el texto del mensaje.
type Code string

// Conjunto cerrado de códigos de error.
const (
	CodeValidation         Code = "VALIDATION_ERROR"
	CodePasswordWeak       Code = "PASSWORD_WEAK"
	CodeUsernameTaken      Code = "USERNAME_TAKEN"
	CodeLastAdmin          Code = "LAST_ADMIN"
	CodeSetupNotAllowed    Code = "SETUP_NOT_ALLOWED"
	CodeLocked             Code = "LOCKED"
	CodeNotFound           Code = "NOT_FOUND"
	CodeStockNegative      Code = "STOCK_NEGATIVE"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodePersistence        Code = "PERSISTENCE_ERROR"
	CodeUnexpected         Code = "UNEXPECTED"
)

// Error es el único tipo de error que cruza la capa de aplicación.
// Fields solo aplica a VALIDATION_ERROR y RetryAfter (segundos) solo a LOCKED.
type Error struct {
	Code       Code
	Message    string
	Fields     []string
	RetryAfter int
	Err        error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

// Is compara por Code, de modo que errors.Is(err, domain.ErrNotFound) funciona
// aunque el error concreto tenga otro mensaje o payload.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Errores de dominio sin payload.
var (
	ErrNotFound           = &Error{Code: CodeNotFound, Message: "recurso no encontrado"}
	ErrPasswordWeak       = &Error{Code: CodePasswordWeak, Message: "La contraseña no cumple la política mínima."}
	ErrUsernameTaken      = &Error{Code: CodeUsernameTaken, Message: "El nombre de usuario ya existe."}
	ErrSetupNotAllowed    = &Error{Code: CodeSetupNotAllowed, Message: "Ya existe al menos un usuario."}
	ErrInvalidCredentials = &Error{Code: CodeInvalidCredentials, Message: "Usuario o contraseña inválidos."}
	ErrStockNegative      = &Error{Code: CodeStockNegative, Message: "Stock insuficiente"}
	ErrLastAdmin          = &Error{Code: CodeLastAdmin, Message: "debe existir al menos un administrador"}
	ErrValidation         = &Error{Code: CodeValidation, Message: "entrada inválida"}
	ErrLocked             = &Error{Code: CodeLocked, Message: "usuario bloqueado temporalmente"}
	ErrPersistence        = &Error{Code: CodePersistence, Message: "error de persistencia"}
)

// NewValidation construye un VALIDATION_ERROR con la lista de reglas violadas.
func NewValidation(fields ...string) *Error {
	return &Error{Code: CodeValidation, Message: strings.Join(fields, ","), Fields: fields}
}

// NewLocked construye un LOCKED con los segundos restantes de bloqueo.
func NewLocked(secondsRemaining int) *Error {
	return &Error{
		Code:       CodeLocked,
		Message:    fmt.Sprintf("Intentos excedidos. Intenta en %ds.", secondsRemaining),
		RetryAfter: secondsRemaining,
	}
}

// NewNotFound construye un NOT_FOUND con mensaje específico.
func NewNotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// NewLastAdmin construye un LAST_ADMIN con el motivo (degradar o eliminar).
func NewLastAdmin(msg string) *Error {
	return &Error{Code: CodeLastAdmin, Message: msg}
}

// NewPersistence envuelve un error del motor con un resumen de la sentencia
// que nunca incluye los parámetros enlazados.
func NewPersistence(err error, sqlSummary string) *Error {
	msg := "SQLite error: " + err.Error()
	if sqlSummary != "" {
		msg += " | SQL: " + sqlSummary + "…"
	}
	return &Error{Code: CodePersistence, Message: msg, Err: err}
}

// CodeOf devuelve el código estable de cualquier error (UNEXPECTED si no es de dominio).
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeUnexpected
}
