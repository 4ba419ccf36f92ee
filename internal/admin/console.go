package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"muin/internal/domain"
	"muin/pkg/zip"
)

const exportLimit = 50000

// Stats is the dashboard summary.
type Stats struct {
	TotalQuestions  int                     `json:"totalQuestions"`
	TotalFavorites  int                     `json:"totalFavorites"`
	Daily           []domain.DailyStats     `json:"daily"`
	RecentQuestions []domain.QuestionRecord `json:"recentQuestions"`
}

// Console runs admin operations against the stores.
type Console struct {
	questions  domain.QuestionRepository
	engagement domain.EngagementRepository
	stats      domain.StatsRepository
	settings   domain.SettingsRepository
	now        func() time.Time
}

func NewConsole(q domain.QuestionRepository, e domain.EngagementRepository, s domain.StatsRepository, settings domain.SettingsRepository) *Console {
	return &Console{questions: q, engagement: e, stats: s, settings: settings, now: time.Now}
}

func (c *Console) Stats(ctx context.Context) (*Stats, error) {
	total, err := c.questions.CountQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}
	favs, err := c.engagement.CountFavorites(ctx)
	if err != nil {
		return nil, fmt.Errorf("count favorites: %w", err)
	}
	daily, err := c.stats.Latest(ctx, 30)
	if err != nil {
		return nil, fmt.Errorf("load daily stats: %w", err)
	}
	recent, err := c.questions.ListRecent(ctx, 10)
	if err != nil {
		return nil, fmt.Errorf("load recent questions: %w", err)
	}
	return &Stats{TotalQuestions: total, TotalFavorites: favs, Daily: daily, RecentQuestions: recent}, nil
}

// PutSetting validates and stores one of the known settings.
func (c *Console) PutSetting(ctx context.Context, key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case domain.SettingDailyQuestionLimit:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 || n > 1000 {
			return domain.ErrInvalidSetting
		}
		value = strconv.Itoa(n)
	case domain.SettingBackgroundImage:
		if value != "" {
			u, err := url.Parse(value)
			if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
				return domain.ErrInvalidSetting
			}
		}
	default:
		return domain.ErrInvalidSetting
	}
	return c.settings.PutSetting(ctx, key, value)
}

// Setting returns the value of key, or "" when unset.
func (c *Console) Setting(ctx context.Context, key string) (string, error) {
	s, err := c.settings.GetSetting(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return s.Value, nil
}

func (c *Console) DeleteQuestion(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}
	return c.questions.DeleteQuestion(ctx, id)
}

type exportRow struct {
	ID           string    `json:"id"`
	Identifier   string    `json:"identifier"`
	Question     string    `json:"question"`
	Answer       string    `json:"answer"`
	Source       string    `json:"source,omitempty"`
	Style        string    `json:"style,omitempty"`
	HelpfulCount int       `json:"helpfulCount"`
	ReportCount  int       `json:"reportCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Export writes a zip with questions.jsonl and stats.jsonl to w.
func (c *Console) Export(ctx context.Context, w io.Writer) error {
	questions, err := c.questions.ListRecent(ctx, exportLimit)
	if err != nil {
		return fmt.Errorf("list questions: %w", err)
	}
	daily, err := c.stats.Latest(ctx, 366)
	if err != nil {
		return fmt.Errorf("list stats: %w", err)
	}

	var qbuf bytes.Buffer
	enc := json.NewEncoder(&qbuf)
	enc.SetEscapeHTML(false)
	for _, q := range questions {
		if err := enc.Encode(exportRow{
			ID:           q.ID,
			Identifier:   q.Identifier,
			Question:     q.Question,
			Answer:       q.Answer,
			Source:       q.SourceTag,
			Style:        string(q.Style),
			HelpfulCount: q.HelpfulCount,
			ReportCount:  q.ReportCount,
			CreatedAt:    q.CreatedAt,
		}); err != nil {
			return err
		}
	}

	var sbuf bytes.Buffer
	enc = json.NewEncoder(&sbuf)
	for _, d := range daily {
		if err := enc.Encode(map[string]any{
			"date":           d.Date,
			"totalQuestions": d.TotalQuestions,
			"dailyUsers":     d.DailyUsers,
		}); err != nil {
			return err
		}
	}

	now := c.now()
	return zip.Write(w, []zip.File{
		{Name: "questions.jsonl", Data: qbuf.Bytes(), Modified: now},
		{Name: "stats.jsonl", Data: sbuf.Bytes(), Modified: now},
	})
}
