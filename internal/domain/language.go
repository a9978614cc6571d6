package domain

// Supported content languages. Content rows carry a language code so the
// same project or post can exist in several translations.
const (
	LanguageEnglish    = "en"
	LanguageChinese    = "zh"
	LanguageHindi      = "hi"
	LanguageSpanish    = "es"
	LanguageFrench     = "fr"
	LanguageArabic     = "ar"
	LanguagePortuguese = "pt"
)

// ValidLanguages returns the set of supported language codes.
func ValidLanguages() []string {
	return []string{
		LanguageEnglish,
		LanguageChinese,
		LanguageHindi,
		LanguageSpanish,
		LanguageFrench,
		LanguageArabic,
		LanguagePortuguese,
	}
}

// NormalizeLanguage maps an arbitrary language code to a supported one,
// falling back to English for anything unrecognized.
func NormalizeLanguage(code string) string {
	for _, l := range ValidLanguages() {
		if l == code {
			return code
		}
	}
	return LanguageEnglish
}
