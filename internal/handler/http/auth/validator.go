package auth

import (
	"fmt"
	"strings"
)

// MinJWTSecretLength is the shortest HS256 secret accepted at startup.
const MinJWTSecretLength = 32

// PasswordPolicy describes what an admin password must satisfy.
type PasswordPolicy struct {
	MinLength     int
	WeakPasswords []string
}

var defaultWeakPasswords = []string{
	"admin",
	"password",
	"123456",
	"secret",
	"admin123",
	"password123",
	"qwerty",
	"abc123",
	"letmein",
	"welcome",
	"contact",
	"test",
	"default",
	"root",
}

// DefaultPasswordPolicy requires 12 characters and rejects common
// passwords.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{MinLength: 12, WeakPasswords: defaultWeakPasswords}
}

var keyboardPatterns = []string{
	"qwertyuiop",
	"asdfghjkl",
	"zxcvbnm",
	"qwerty",
	"asdfgh",
	"zxcvb",
}

// ValidateAdminCredentials refuses to start the admin API with empty or
// guessable credentials. The error never contains the password.
func ValidateAdminCredentials(user, pass string, policy PasswordPolicy) error {
	const prefix = "admin credentials validation failed: "

	if user == "" {
		return fmt.Errorf(prefix + "ADMIN_USER must not be empty")
	}
	if pass == "" {
		return fmt.Errorf(prefix + "ADMIN_USER_PASSWORD must not be empty")
	}
	if len(pass) < policy.MinLength {
		return fmt.Errorf(prefix+"ADMIN_USER_PASSWORD must be at least %d characters (current length: %d)", policy.MinLength, len(pass))
	}
	if isSimpleNumericPattern(pass) {
		return fmt.Errorf(prefix + "ADMIN_USER_PASSWORD must not be a simple numeric pattern")
	}
	if isKeyboardPattern(pass) {
		return fmt.Errorf(prefix + "ADMIN_USER_PASSWORD must not be a keyboard pattern")
	}

	lower := strings.ToLower(pass)
	for _, weak := range policy.WeakPasswords {
		weak = strings.ToLower(weak)
		if lower == weak {
			return fmt.Errorf(prefix + "ADMIN_USER_PASSWORD must not be a weak password")
		}
		// "admin1234567890" のような派生パターン
		if strings.HasPrefix(lower, weak) && len(pass) < policy.MinLength+5 {
			return fmt.Errorf(prefix + "ADMIN_USER_PASSWORD must not be based on common weak passwords")
		}
	}
	return nil
}

// ValidateJWTSecret rejects secrets too short for HS256.
func ValidateJWTSecret(secret string) error {
	if secret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if len(secret) < MinJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters (current length: %d)", MinJWTSecretLength, len(secret))
	}
	return nil
}

// isSimpleNumericPattern matches repeated characters and ascending or
// descending digit runs such as "123456789012".
func isSimpleNumericPattern(pass string) bool {
	if isRepeatedChar(pass) {
		return true
	}
	for _, ch := range pass {
		if ch < '0' || ch > '9' {
			return false
		}
	}

	ascending, descending := true, true
	for i := 1; i < len(pass); i++ {
		diff := int(pass[i]) - int(pass[i-1])
		if diff != 1 && diff != -9 {
			ascending = false
		}
		if diff != -1 && diff != 9 {
			descending = false
		}
	}
	return ascending || descending
}

func isRepeatedChar(pass string) bool {
	if pass == "" {
		return false
	}
	return strings.Count(pass, pass[:1]) == len(pass)
}

func isKeyboardPattern(pass string) bool {
	lower := strings.ToLower(pass)
	for _, pattern := range keyboardPatterns {
		if strings.Contains(lower, pattern) || strings.Contains(lower, reverse(pattern)) {
			return true
		}
	}
	return false
}

func reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
