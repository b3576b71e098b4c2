package validators

import (
	"net/mail"
	"strings"
)

// IsEmail accepts a bare address (no display name) with a dotted domain.
func IsEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	domain := email[strings.LastIndex(email, "@")+1:]
	return strings.Contains(domain, ".")
}
