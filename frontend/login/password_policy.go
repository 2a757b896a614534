package login

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const minPasswordRunes = 12

// ValidatePasswordPolicy names every rule the password misses so the admin
// form can show them together.
func ValidatePasswordPolicy(password string) error {
	var missing []string
	if utf8.RuneCountInString(password) < minPasswordRunes {
		missing = append(missing, fmt.Sprintf("at least %d characters", minPasswordRunes))
	}
	classes := []struct {
		name string
		in   func(rune) bool
	}{
		{"an upper-case letter", unicode.IsUpper},
		{"a lower-case letter", unicode.IsLower},
		{"a digit", unicode.IsDigit},
		{"a symbol", func(r rune) bool { return unicode.IsPunct(r) || unicode.IsSymbol(r) }},
	}
	for _, class := range classes {
		if strings.IndexFunc(password, class.in) < 0 {
			missing = append(missing, class.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("password needs %s", strings.Join(missing, ", "))
	}
	return nil
}
