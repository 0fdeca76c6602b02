// Package account reúne las reglas de validación de cuentas de usuario
// compartidas por el bootstrap del administrador y la administración de usuarios.
package account

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"
)

// Códigos de regla violada reportados en VALIDATION_ERROR.
const (
	FieldNameInvalid     = "NAME_INVALID"
	FieldUsernameInvalid = "USERNAME_INVALID"
	FieldRoleInvalid     = "ROLE_INVALID"
	FieldPasswordWeak    = "PASSWORD_WEAK"
	FieldIDRequired      = "ID_REQUIRED"
)

// MinPasswordLength longitud mínima de contraseña (en caracteres).
const MinPasswordLength = 8

// MaxPasswordKeyBytes bytes de la contraseña que entran a bcrypt; el resto se ignora.
const MaxPasswordKeyBytes = 72

var usernameRE = regexp.MustCompile(`^[a-zA-Z0-9._-]{3,32}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRE.MatchString(fl.Field().String())
	})
	return v
}

// userFields reglas de campo; el orden de los campos define el orden de los códigos.
type userFields struct {
	Name     string `validate:"min=2,max=80"`
	Username string `validate:"username"`
	Role     string `validate:"oneof=ADMIN WORKER"`
}

var fieldCodes = map[string]string{
	"Name":     FieldNameInvalid,
	"Username": FieldUsernameInvalid,
	"Role":     FieldRoleInvalid,
}

// NormalizeUsername aplica trim y minúsculas; se usa para búsqueda, unicidad y clave de bloqueo.
func NormalizeUsername(u string) string {
	return strings.ToLower(strings.TrimSpace(u))
}

// NormalizeName aplica trim y composición NFC para que la longitud cuente caracteres visibles.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// ValidPassword exige al menos MinPasswordLength caracteres.
func ValidPassword(pw string) bool {
	return utf8.RuneCountInString(pw) >= MinPasswordLength
}

// PasswordKey devuelve la clave que se hashea y se compara: los primeros 72 bytes de pw.
// Contraseñas más largas se aceptan y solo cuenta su prefijo.
func PasswordKey(pw string) []byte {
	key := []byte(pw)
	if len(key) > MaxPasswordKeyBytes {
		key = key[:MaxPasswordKeyBytes]
	}
	return key
}

// ValidName valida la longitud del nombre normalizado (2..80).
func ValidName(name string) bool {
	return validate.Var(NormalizeName(name), "min=2,max=80") == nil
}

// ValidRole acepta solo ADMIN o WORKER (sensible a mayúsculas).
func ValidRole(role string) bool {
	return validate.Var(role, "oneof=ADMIN WORKER") == nil
}

// ValidateUser devuelve los códigos de las reglas violadas en orden name, username, role.
// El username se valida ya normalizado.
func ValidateUser(name, username, role string) []string {
	err := validate.Struct(userFields{
		Name:     NormalizeName(name),
		Username: NormalizeUsername(username),
		Role:     role,
	})
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{FieldNameInvalid, FieldUsernameInvalid, FieldRoleInvalid}
	}
	codes := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if code, ok := fieldCodes[fe.StructField()]; ok {
			codes = append(codes, code)
		}
	}
	return codes
}
