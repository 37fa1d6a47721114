package domain

// Severidad de una distorsión cognitiva.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// EmotionNeutral es la emoción por defecto cuando no hay señal.
const EmotionNeutral = "neutral"

type EmotionResult struct {
	Emotion    string  `json:"emotion"`
	Confidence float64 `json:"confidence"` // 0.1 - 1.0
	Emoji      string  `json:"emoji"`
}

// CognitiveDistortion describe un patrón de pensamiento detectado en la entrada.
// UserQuotes siempre son fragmentos literales del texto original.
type CognitiveDistortion struct {
	Type            string   `json:"type"`
	Description     string   `json:"description"`
	DetectedText    []string `json:"detected_text"`
	UserQuotes      []string `json:"user_quotes"`
	Evidence        []string `json:"evidence"`
	ReframingPrompt string   `json:"reframing_prompt"`
	Severity        string   `json:"severity"`
}

type ActivitySuggestion struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
	Category    string `json:"category"`
}

// AnalysisResult es el resultado completo de analizar una entrada del diario.
type AnalysisResult struct {
	Emotion        EmotionResult         `json:"emotion"`
	Distortions    []CognitiveDistortion `json:"distortions"`
	Activities     []ActivitySuggestion  `json:"activities"`
	SuggestedEmoji string                `json:"suggested_emoji"`
	Reflection     string                `json:"reflection"`
}
