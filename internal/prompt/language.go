package prompt

import (
	"unicode"

	"golang.org/x/text/language"
)

// DetectLanguage returns English only for text written in Latin script.
// Arabic, mixed and empty input all resolve to Arabic.
func DetectLanguage(text string) language.Tag {
	var arabic, latin int
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Arabic, r):
			arabic++
		case unicode.Is(unicode.Latin, r):
			latin++
		}
	}
	if latin > 0 && arabic == 0 {
		return language.English
	}
	return language.Arabic
}

// Base reduces tag to ar or en, the two languages prompts exist for.
func Base(tag language.Tag) language.Tag {
	if base, _ := tag.Base(); base.String() == "en" {
		return language.English
	}
	return language.Arabic
}
