// Package i18n holds the user-visible strings of the statistics views.
package i18n

import (
	"fmt"
	"log"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/ja"
	ut "github.com/go-playground/universal-translator"
)

// Message keys.
const (
	Stats          = "statistics_stats"
	Saved          = "statistics_saved"
	SavePDF        = "statistics_save_pdf"
	CardInfo       = "card_info_title"
	Added          = "card_stats_added"
	FirstReview    = "card_stats_first_review"
	LatestReview   = "card_stats_latest_review"
	Due            = "card_stats_due"
	Interval       = "card_stats_interval"
	Ease           = "card_stats_ease"
	Reviews        = "card_stats_reviews"
	Lapses         = "card_stats_lapses"
	AverageTime    = "card_stats_average_time"
	TotalTime      = "card_stats_total_time"
	CardType       = "card_stats_card_type"
	NoteType       = "card_stats_note_type"
	Deck           = "card_stats_deck"
	CardID         = "card_stats_card_id"
	NoteID         = "card_stats_note_id"
	ReviewHistory  = "card_stats_review_history"
	Browse         = "card_stats_browse"
	DeckStats      = "statistics_deck"
	CollectionStat = "statistics_collection"
	PeriodMonth    = "statistics_period_month"
	PeriodYear     = "statistics_period_year"
	PeriodLife     = "statistics_period_life"
	NewCards       = "statistics_new_cards"
	Learning       = "statistics_learning"
	Young          = "statistics_review_cards"
	Suspended      = "statistics_suspended"
	DaysStudied    = "statistics_days_studied"
	CurrentStreak  = "statistics_current_streak"
	LongestStreak  = "statistics_longest_streak"
	Retention      = "statistics_retention"
	PerDay         = "statistics_per_day"
	ReviewsPerDay  = "statistics_reviews_per_day"
	MinutesPerDay  = "statistics_minutes_per_day"
	Answers        = "statistics_answers"
	Days           = "statistics_days"
	Never          = "statistics_never"
	Again          = "answer_again"
	Hard           = "answer_hard"
	Good           = "answer_good"
	Easy           = "answer_easy"
)

var catalog = map[string]map[string]string{
	"en": {
		Stats:          "Stats",
		Saved:          "Saved.",
		SavePDF:        "Save PDF",
		CardInfo:       "Card Info",
		Added:          "Added",
		FirstReview:    "First Review",
		LatestReview:   "Latest Review",
		Due:            "Due",
		Interval:       "Interval",
		Ease:           "Ease",
		Reviews:        "Reviews",
		Lapses:         "Lapses",
		AverageTime:    "Average Time",
		TotalTime:      "Total Time",
		CardType:       "Card Type",
		NoteType:       "Note Type",
		Deck:           "Deck",
		CardID:         "Card ID",
		NoteID:         "Note ID",
		ReviewHistory:  "Review History",
		Browse:         "Browse",
		DeckStats:      "Deck: {0}",
		CollectionStat: "Whole collection",
		PeriodMonth:    "1 month",
		PeriodYear:     "1 year",
		PeriodLife:     "deck life",
		NewCards:       "New",
		Learning:       "Learning",
		Young:          "Review",
		Suspended:      "Suspended",
		DaysStudied:    "Days studied",
		CurrentStreak:  "Current streak",
		LongestStreak:  "Longest streak",
		Retention:      "Retention",
		PerDay:         "Reviews per day",
		ReviewsPerDay:  "Reviews",
		MinutesPerDay:  "Minutes",
		Answers:        "Answer Buttons",
		Days:           "{0} days",
		Never:          "(new)",
		Again:          "Again",
		Hard:           "Hard",
		Good:           "Good",
		Easy:           "Easy",
	},
	"ja": {
		Stats:          "統計",
		Saved:          "保存しました。",
		SavePDF:        "PDFを保存",
		CardInfo:       "カード情報",
		Added:          "追加日",
		FirstReview:    "最初の復習",
		LatestReview:   "最新の復習",
		Due:            "期日",
		Interval:       "間隔",
		Ease:           "易しさ",
		Reviews:        "復習回数",
		Lapses:         "失敗回数",
		AverageTime:    "平均時間",
		TotalTime:      "合計時間",
		CardType:       "カードの種類",
		NoteType:       "ノートタイプ",
		Deck:           "デッキ",
		CardID:         "カードID",
		NoteID:         "ノートID",
		ReviewHistory:  "復習履歴",
		Browse:         "ブラウズ",
		DeckStats:      "デッキ: {0}",
		CollectionStat: "コレクション全体",
		PeriodMonth:    "1ヶ月",
		PeriodYear:     "1年",
		PeriodLife:     "デッキの全期間",
		NewCards:       "新規",
		Learning:       "学習中",
		Young:          "復習",
		Suspended:      "保留",
		DaysStudied:    "学習日数",
		CurrentStreak:  "現在の連続日数",
		LongestStreak:  "最長の連続日数",
		Retention:      "定着率",
		PerDay:         "1日あたりの復習",
		ReviewsPerDay:  "復習",
		MinutesPerDay:  "分",
		Answers:        "解答ボタン",
		Days:           "{0}日",
		Never:          "(新規)",
		Again:          "もう一度",
		Hard:           "難しい",
		Good:           "普通",
		Easy:           "簡単",
	},
}

// Translator resolves message keys for one language.
type Translator struct {
	trans ut.Translator
}

// New returns a translator for lang ("en" or "ja"). Unknown languages fall
// back to English.
func New(lang string) (*Translator, error) {
	uni := ut.New(en.New(), en.New(), ja.New())
	trans, found := uni.GetTranslator(lang)
	if !found {
		log.Printf("[I18n] Unknown language %q, using en", lang)
	}

	messages, ok := catalog[trans.Locale()]
	if !ok {
		messages = catalog["en"]
	}
	for key, text := range messages {
		if err := trans.Add(key, text, false); err != nil {
			return nil, fmt.Errorf("failed to add message %s: %w", key, err)
		}
	}
	return &Translator{trans: trans}, nil
}

// MustNew is New for static languages, panicking on a broken catalog.
func MustNew(lang string) *Translator {
	t, err := New(lang)
	if err != nil {
		panic(err)
	}
	return t
}

// Locale returns the translator's locale name.
func (t *Translator) Locale() string {
	return t.trans.Locale()
}

// T returns the message for key with {0}, {1}... replaced by params.
// Unknown keys are returned unchanged.
func (t *Translator) T(key string, params ...string) string {
	s, err := t.trans.T(key, params...)
	if err != nil {
		return key
	}
	return s
}

// Languages lists the supported languages.
func Languages() []string {
	return []string{"en", "ja"}
}
