// Package language resolves the response locale for a chat exchange and owns
// the localized user-facing strings for the three supported locales.
package language

import "github.com/abadojack/whatlanggo"

// Locale identifies a supported response language.
type Locale string

const (
	Uzbek   Locale = "uz"
	Russian Locale = "ru"
	English Locale = "en"
)

// Default is used when nothing was requested and detection fails or finds an
// unsupported language.
const Default = Uzbek

// Supported reports whether code names a supported locale.
func Supported(code string) bool {
	switch Locale(code) {
	case Uzbek, Russian, English:
		return true
	}
	return false
}

// Resolve picks the locale for a response. An explicit supported locale wins;
// otherwise the question text is auto-detected, and anything undetectable or
// unsupported falls back to the default.
func Resolve(explicit string, question string) Locale {
	if Supported(explicit) {
		return Locale(explicit)
	}
	return Detect(question)
}

// Detect auto-detects the question's language, falling back to the default.
func Detect(question string) Locale {
	if question == "" {
		return Default
	}

	info := whatlanggo.Detect(question)
	switch info.Lang {
	case whatlanggo.Uzb:
		return Uzbek
	case whatlanggo.Rus:
		return Russian
	case whatlanggo.Eng:
		return English
	default:
		return Default
	}
}
