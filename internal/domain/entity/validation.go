package entity

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Field limits for contact submissions.
const (
	MinNameLength    = 2
	MinMessageLength = 10
	maxEmailLength   = 254
)

// User-facing validation messages.
const (
	MsgNameTooShort    = "Name must be at least 2 characters."
	MsgInvalidEmail    = "Please enter a valid email address."
	MsgMessageTooShort = "Message must be at least 10 characters long."
)

// ValidateName checks the submitter name.
func ValidateName(name string) error {
	if utf8.RuneCountInString(name) < MinNameLength {
		return &ValidationError{Field: "name", Message: MsgNameTooShort}
	}
	return nil
}

// ValidateEmail checks that email is a bare address whose domain ends in an
// alphabetic top-level label of two or more letters.
// Display-name forms such as "Jo <jo@x.com>" are rejected.
func ValidateEmail(email string) error {
	if !isEmail(email) {
		return &ValidationError{Field: "email", Message: MsgInvalidEmail}
	}
	return nil
}

// ValidateMessage checks the message body.
func ValidateMessage(message string) error {
	if utf8.RuneCountInString(message) < MinMessageLength {
		return &ValidationError{Field: "message", Message: MsgMessageTooShort}
	}
	return nil
}

func isEmail(s string) bool {
	if s == "" || len(s) > maxEmailLength || strings.ContainsAny(s, " \t\r\n[]") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	if at <= 0 {
		return false
	}
	domain := s[at+1:]
	dot := strings.LastIndexByte(domain, '.')
	if dot <= 0 {
		return false
	}
	return isTLD(domain[dot+1:])
}

// isTLD reports whether label is at least two ASCII letters.
func isTLD(label string) bool {
	if len(label) < 2 {
		return false
	}
	for _, r := range label {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
