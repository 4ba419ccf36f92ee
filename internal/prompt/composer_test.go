package prompt

import (
	"strings"
	"testing"
	"time"

	"golang.org/x/text/language"

	"muin/internal/domain"
)

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		in   string
		want language.Tag
	}{
		{"ما حكم صلاة الجماعة؟", language.Arabic},
		{"What is the ruling on fasting while travelling?", language.English},
		{"ما معنى zakat؟", language.Arabic},
		{"", language.Arabic},
		{"12345 ?!", language.Arabic},
	}
	for _, tt := range tests {
		if got := DetectLanguage(tt.in); got != tt.want {
			t.Errorf("DetectLanguage(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestComposeHonoursStyleForSubscribers(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := &Composer{Now: func() time.Time { return now }}
	active := &domain.Entitlement{IsActive: true, EndDate: now.Add(time.Hour)}

	free := c.Compose("ما حكم الوتر؟", domain.StyleBrief, nil, language.Arabic)
	paid := c.Compose("ما حكم الوتر؟", domain.StyleBrief, active, language.Arabic)

	brief := arabic.styles[domain.StyleBrief]
	if !strings.Contains(free, brief) || !strings.Contains(paid, brief) {
		t.Fatal("brief instruction must be present for both tiers")
	}
	if strings.Contains(paid, arabic.styles[domain.StyleDetailed]) {
		t.Fatal("subscriber prompt must not switch to the detailed style")
	}
	if strings.Contains(free, arabic.subscriber) || !strings.Contains(paid, arabic.subscriber) {
		t.Fatal("subscriber block only for active entitlements")
	}
}

func TestComposeExpiredEntitlementIsFreeTier(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := &Composer{Now: func() time.Time { return now }}
	expired := &domain.Entitlement{IsActive: true, EndDate: now.Add(-time.Minute)}

	if strings.Contains(c.Compose("q", domain.StyleDetailed, expired, language.English), english.subscriber) {
		t.Fatal("expired entitlement should not get the subscriber block")
	}
}

func TestComposeUnknownStyleFallsBackToDetailed(t *testing.T) {
	out := NewComposer().Compose("What is wudu?", domain.ResponseStyle("poetic"), nil, language.English)
	if !strings.Contains(out, english.styles[domain.StyleDetailed]) {
		t.Fatalf("expected detailed instruction, got %q", out)
	}
}

func TestComposeAlwaysCarriesSafety(t *testing.T) {
	for _, lang := range []language.Tag{language.Arabic, language.English} {
		for _, style := range []domain.ResponseStyle{domain.StyleBrief, domain.StyleDetailed, domain.StyleScholarly, domain.StyleBeginner} {
			out := NewComposer().Compose("question", style, nil, lang)
			if !strings.Contains(out, textsFor(lang).safety) {
				t.Errorf("%v/%s missing safety instructions", lang, style)
			}
		}
	}
}

func TestComposeAboutQuestion(t *testing.T) {
	tests := []struct {
		q    string
		lang language.Tag
	}{
		{"Who built this app?", language.English},
		{"who made you", language.English},
		{"من صنع هذا التطبيق؟", language.Arabic},
		{"من هو مطور التطبيق", language.Arabic},
	}
	for _, tt := range tests {
		out := NewComposer().Compose(tt.q, domain.StyleDetailed, nil, tt.lang)
		if strings.Contains(out, textsFor(tt.lang).safety) {
			t.Errorf("%q: about prompt should replace the religious instructions", tt.q)
		}
		if !strings.Contains(out, tt.q) {
			t.Errorf("%q: question missing from about prompt", tt.q)
		}
	}
	for _, q := range []string{"Who is allowed to break the fast?", "ما جزاء من عمل صالحاً؟", "من صنع معروفاً فكافئوه"} {
		if IsAboutQuestion(q) {
			t.Errorf("ordinary question %q matched about pattern", q)
		}
	}
}

func TestComposeStripsLegacyIdentifierTag(t *testing.T) {
	out := NewComposer().Compose("ما حكم الصيام [معرف المستخدم: user_1_abc]", domain.StyleBrief, nil, language.Arabic)
	if strings.Contains(out, "معرف المستخدم") {
		t.Fatalf("legacy tag leaked: %q", out)
	}
	if !strings.Contains(out, "ما حكم الصيام") {
		t.Fatal("question text lost")
	}
}

func TestBase(t *testing.T) {
	if Base(language.MustParse("en-GB")) != language.English {
		t.Fatal("en-GB should map to English")
	}
	if Base(language.Indonesian) != language.Arabic {
		t.Fatal("unsupported languages map to Arabic")
	}
}
