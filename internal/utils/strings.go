package utils

import "strings"

// NormalizeString trims surrounding whitespace. Emails are intentionally not
// lowercased: the account identifier is case-sensitive.
func NormalizeString(s string) string {
	return strings.TrimSpace(s)
}

// IsValidEmail performs basic email validation
func IsValidEmail(email string) bool {
	email = NormalizeString(email)
	if email == "" {
		return false
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}

	local, domain := parts[0], parts[1]
	return len(local) > 0 && len(domain) > 2 && strings.Contains(domain, ".")
}
