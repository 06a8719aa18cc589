package soaprouter

import "strings"

// Language is a closed vocabulary of the ISO-639 languages a SoapFault
// reason may be written in. golang.org/x/text/language models BCP-47
// tags, not this closed three-letter vocabulary, so it does not fit
// here cleanly; this table is the hand-rolled equivalent of the
// reference implementation's isolang crate (see
// original_source/soap-router/src/fault.rs).
type Language string

const (
	LanguageEnglish    Language = "en"
	LanguageFrench     Language = "fr"
	LanguagePortuguese Language = "pt"
	LanguageSpanish    Language = "es"
	LanguageGerman     Language = "de"
)

var iso6393 = map[Language]string{
	LanguageEnglish:    "eng",
	LanguageFrench:     "fra",
	LanguagePortuguese: "por",
	LanguageSpanish:    "spa",
	LanguageGerman:     "deu",
}

// ISO6393 returns the three-letter ISO-639-3 code for the language,
// falling back to a lower-cased copy of the raw value for languages
// outside the built-in table so callers are never handed an empty
// xml:lang attribute.
func (l Language) ISO6393() string {
	if code, ok := iso6393[l]; ok {
		return code
	}
	return strings.ToLower(string(l))
}
