package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain passes through", "Hello there,\n\n  testing.", "Hello there, testing."},
		{"tags stripped", "<p>Hello <b>there</b></p>\n<p>testing.</p>", "Hello there testing."},
		{"script removed", "Hi<script>alert(1)</script> you", "Hi you"},
		{"entities decoded", "Fish &amp; chips", "Fish & chips"},
		{"empty", "", ""},
		{"comparison in prose", "Is x<y and a & b<c true for your pricing tier?", "Is x<y and a & b<c true for your pricing tier?"},
		{"arrow and ampersand", "A & B <3 your product -> more please", "A & B <3 your product -> more please"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlainText(tt.input))
		})
	}
}

func TestLooksLikeMarkup(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"<p>hi</p>", true},
		{"line<br/>break", true},
		{`<a href="x">link</a>`, true},
		{"Fish &amp; chips", true},
		{"&#39;quoted&#39;", true},
		{"<!-- note -->", true},
		{"x<y and a & b<c", false},
		{"1 < 2 > 0", false},
		{"R&D budget", false},
		{"plain text", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, LooksLikeMarkup(tt.input))
		})
	}
}

func TestFirstSentence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"single", "Jo wants a quote.", "Jo wants a quote."},
		{"two sentences", "Jo wants a quote. They are in Tokyo.", "Jo wants a quote."},
		{"question", "Is Jo hiring? Maybe.", "Is Jo hiring?"},
		{"decimal kept", "Jo asks about Go 1.25 support. Thanks.", "Jo asks about Go 1.25 support."},
		{"no terminator", "  Jo says hi  ", "Jo says hi"},
		{"japanese", "ジョーから問い合わせ。詳細あり。", "ジョーから問い合わせ。"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FirstSentence(tt.input))
		})
	}
}
