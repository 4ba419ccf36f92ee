// Package prompt turns a user question into the text sent to the provider.
package prompt

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/language"

	"muin/internal/domain"
)

var legacyIdentifierTag = regexp.MustCompile(`\[معرف المستخدم:.*?\]`)

var aboutPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bwho\s+(built|made|created|developed|designed|programmed)\s+(this|the|you)\b`),
	regexp.MustCompile(`(?i)\bwho\s+(is|are)\s+(the\s+)?(developer|creator|maker)s?\b`),
	regexp.MustCompile(`من\s+(الذي\s+)?(صنع|صمم|طور|برمج|أنشأ|انشأ)\s*(هذا\s+)?(التطبيق|البرنامج|الموقع|ك)`),
	regexp.MustCompile(`(مطور|صانع|مبرمج)\s*(هذا\s*)?(التطبيق|البرنامج|الموقع)`),
}

// Composer builds provider prompts. Now decides whether an entitlement is
// active.
type Composer struct {
	Now func() time.Time
}

func NewComposer() *Composer {
	return &Composer{Now: time.Now}
}

// CleanQuestion strips the legacy identifier tag some clients still append.
func CleanQuestion(question string) string {
	return strings.TrimSpace(legacyIdentifierTag.ReplaceAllString(question, ""))
}

// IsAboutQuestion reports whether question asks who built the app.
func IsAboutQuestion(question string) bool {
	for _, re := range aboutPatterns {
		if re.MatchString(question) {
			return true
		}
	}
	return false
}

// Compose returns the user prompt for question. The selected style is always
// used; an active entitlement adds the subscriber detail block on top.
func (c *Composer) Compose(question string, style domain.ResponseStyle, ent *domain.Entitlement, lang language.Tag) string {
	lang = Base(lang)
	question = CleanQuestion(question)
	t := textsFor(lang)

	if IsAboutQuestion(question) {
		return fmt.Sprintf(t.about, question)
	}

	now := time.Now
	if c != nil && c.Now != nil {
		now = c.Now
	}

	sb := &strings.Builder{}
	sb.WriteString(t.intro)
	sb.WriteString("\n\n")
	sb.WriteString(question)
	sb.WriteString("\n\n")
	sb.WriteString(t.styleInstruction(style))
	if ent.ActiveAt(now()) {
		sb.WriteString("\n\n")
		sb.WriteString(t.subscriber)
	}
	sb.WriteString("\n\n")
	sb.WriteString(t.safety)
	return sb.String()
}

// SystemPrompt is sent as the system role where the provider supports one.
func SystemPrompt(lang language.Tag) string {
	return textsFor(Base(lang)).system
}
