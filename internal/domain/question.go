package domain

import "time"

// ResponseStyle controls the verbosity and register of the requested answer.
type ResponseStyle string

const (
	StyleBrief     ResponseStyle = "brief"
	StyleDetailed  ResponseStyle = "detailed"
	StyleScholarly ResponseStyle = "scholarly"
	StyleBeginner  ResponseStyle = "beginner"
)

// DefaultStyle is used when the client sends no style.
const DefaultStyle = StyleDetailed

// ParseStyle validates a client supplied style. Empty input maps to DefaultStyle.
func ParseStyle(raw string) (ResponseStyle, error) {
	switch s := ResponseStyle(raw); s {
	case "":
		return DefaultStyle, nil
	case StyleBrief, StyleDetailed, StyleScholarly, StyleBeginner:
		return s, nil
	default:
		return "", ErrInvalidStyle
	}
}

// QuestionRecord is a stored question/answer pair. Only the engagement
// counters change after creation.
type QuestionRecord struct {
	ID           string
	Identifier   string
	Question     string
	Answer       string
	SourceTag    string
	Style        ResponseStyle
	HelpfulCount int
	ReportCount  int
	CreatedAt    time.Time
}

// DailyStats is the observational per-day aggregate.
type DailyStats struct {
	Date           string
	TotalQuestions int
	DailyUsers     int
	CreatedAt      time.Time
}

// QuotaState is the free-tier counter for one identifier and local day.
type QuotaState struct {
	Date      string `json:"date"`
	Remaining int    `json:"remaining"`
}

// DayKey formats t as the YYYY-MM-DD key in loc.
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("2006-01-02")
}
