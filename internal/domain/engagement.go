package domain

import "time"

// Feedback is a helpful/not-helpful vote on an answer.
type Feedback struct {
	ID            string
	QuestionID    string
	Identifier    string
	IsHelpful     bool
	Comment       string
	AnswerExcerpt string
	CreatedAt     time.Time
}

// Favorite links an identifier to a saved question.
type Favorite struct {
	ID         string
	Identifier string
	QuestionID string
	CreatedAt  time.Time
	Question   *QuestionRecord
}

// QuizQuestion is the multiple choice question of a given day.
type QuizQuestion struct {
	ID            string
	Date          string
	Question      string
	Options       []string
	CorrectAnswer int
	Explanation   string
	Source        string
}

// QuizAnswer is one identifier's answer for a day.
type QuizAnswer struct {
	ID             string
	Identifier     string
	QuestionID     string
	SelectedAnswer int
	IsCorrect      bool
	Date           string
	CreatedAt      time.Time
}

// Setting keys read by the service.
const (
	SettingDailyQuestionLimit = "daily_question_limit"
	SettingBackgroundImage    = "background_image"
)

// Setting is a key/value row of app_settings.
type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
