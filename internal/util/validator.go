package util

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

var colorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ValidateName requires a non-blank name of at most max runes.
func ValidateName(name string, max int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return Invalid("Nome é obrigatório")
	}
	if utf8.RuneCountInString(name) > max {
		return Invalid("Nome muito longo")
	}
	return nil
}

// ValidateColor accepts an empty value or a #RRGGBB hex color.
func ValidateColor(color string) error {
	if color == "" || colorRe.MatchString(color) {
		return nil
	}
	return Invalid("Cor inválida, use o formato #RRGGBB")
}

// ValidatePassword requires 8-72 bytes with upper and lower case letters and a digit.
func ValidatePassword(pwd string) error {
	// bcrypt ignores bytes past 72
	if len(pwd) < 8 || len(pwd) > 72 {
		return Invalid("A senha deve ter entre 8 e 72 caracteres")
	}
	var hasUpper, hasLower, hasDigit bool
	for _, ch := range pwd {
		switch {
		case ch >= 'A' && ch <= 'Z':
			hasUpper = true
		case ch >= 'a' && ch <= 'z':
			hasLower = true
		case ch >= '0' && ch <= '9':
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return Invalid("A senha deve conter letras maiúsculas, minúsculas e números")
	}
	return nil
}

// ValidateDateRange requires due to be on or after start when both are set.
func ValidateDateRange(start, due time.Time) error {
	if start.IsZero() || due.IsZero() {
		return nil
	}
	if due.Before(start) {
		return Invalid("A data de entrega não pode ser anterior à data de início")
	}
	return nil
}

// ValidateNonNegative rejects negative counters and durations.
func ValidateNonNegative(field string, v int) error {
	if v < 0 {
		return Invalid(field + " não pode ser negativo")
	}
	return nil
}
