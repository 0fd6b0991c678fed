package security

import "strings"

const bearerScheme = "bearer "

// BearerToken returns the token of an Authorization value of the form
// "Bearer <token>". The scheme is case-insensitive. Any other value yields "".
func BearerToken(authorization string) string {
	v := strings.TrimSpace(authorization)
	if len(v) < len(bearerScheme) || !strings.EqualFold(v[:len(bearerScheme)], bearerScheme) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerScheme):])
}
