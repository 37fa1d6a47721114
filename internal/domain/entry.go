package domain

import "time"

type JournalEntry struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Text      string          `json:"text"`
	Analysis  *AnalysisResult `json:"analysis,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
