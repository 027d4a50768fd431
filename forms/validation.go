package forms

import (
	"regexp"
	"sort"
	"strings"
)

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nonDigit   = regexp.MustCompile(`\D`)
)

const (
	phoneMinDigits = 10
	phoneMaxDigits = 15
)

// ValidationErrors maps a form field to its message.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Err returns nil when there are no field errors.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

func ValidEmail(email string) bool {
	return emailRegex.MatchString(strings.TrimSpace(email))
}

// ValidPhone accepts 10 to 15 digits, ignoring spaces, dashes and a leading "+".
func ValidPhone(phone string) bool {
	n := len(nonDigit.ReplaceAllString(phone, ""))
	return n >= phoneMinDigits && n <= phoneMaxDigits
}
