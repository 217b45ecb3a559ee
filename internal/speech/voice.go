package speech

import "strings"

// Voice is what a synthesis engine needs to pick a locale variant.
type Voice struct {
	Lang         string // "en" or "hi"
	IndianAccent bool
}

// Language is the reply voice chosen in the UI.
type Language string

const (
	LanguageEnglishIndia Language = "en-IN"
	LanguageHindi        Language = "hi"
)

var Languages = []Language{LanguageEnglishIndia, LanguageHindi}

// ParseLanguage accepts the select value or label; anything that is not Hindi is English (India).
func ParseLanguage(s string) Language {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == string(LanguageHindi) || strings.HasPrefix(s, "hindi") {
		return LanguageHindi
	}
	return LanguageEnglishIndia
}

func (l Language) Voice() Voice {
	if l == LanguageHindi {
		return Voice{Lang: "hi"}
	}
	return Voice{Lang: "en", IndianAccent: true}
}

func (l Language) Label() string {
	if l == LanguageHindi {
		return "Hindi"
	}
	return "English (India)"
}
