package respond

import (
	"regexp"
)

// 順序重要: より具体的なパターンから適用する
var redactions = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`sk-ant-[a-zA-Z0-9\-_]+`), "sk-ant-****"},
	{regexp.MustCompile(`sk-[a-zA-Z0-9]{10,}`), "sk-****"},
	{regexp.MustCompile(`SG\.[a-zA-Z0-9\-_]{10,}\.[a-zA-Z0-9\-_]{10,}`), "SG.****"},
	{regexp.MustCompile(`AIza[0-9A-Za-z\-_]{20,}`), "AIza****"},
	{regexp.MustCompile(`(A3T[A-Z0-9]|AKIA|ASIA)[A-Z0-9]{16}`), "AKIA****"},
	{regexp.MustCompile(`hooks\.slack\.com/services/[^\s"']+`), "hooks.slack.com/services/****"},
	{regexp.MustCompile(`(discord(?:app)?\.com/api/webhooks/)[^\s"']+`), "${1}****"},
	{regexp.MustCompile(`://([^:/@\s]*):([^@\s]+)@`), "://$1:****@"},
}

// SanitizeError masks API keys, webhook URLs and DSN passwords in err's
// message so it can be logged.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return Sanitize(err.Error())
}

// Sanitize applies the same masking to an arbitrary string.
func Sanitize(msg string) string {
	for _, r := range redactions {
		msg = r.pattern.ReplaceAllString(msg, r.replacement)
	}
	return msg
}
