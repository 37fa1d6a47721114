package service

import (
	"math"
	"strings"

	"journal-insight/internal/config"
	"journal-insight/internal/domain"
)

// ScoringConfig agrupa las constantes empíricas de los detectores.
type ScoringConfig struct {
	KeywordWeight       float64
	PhraseWeight        float64
	BaseConfidence      float64
	ConfidenceStep      float64
	MaxConfidence       float64
	HighSeverityMatches int
}

func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		KeywordWeight:       2,
		PhraseWeight:        5,
		BaseConfidence:      0.7,
		ConfidenceStep:      0.05,
		MaxConfidence:       0.95,
		HighSeverityMatches: 4,
	}
}

// ScoringFromConfig toma los pesos de las variables ANALYSIS_* / DISTORTION_*.
func ScoringFromConfig(cfg *config.Config) ScoringConfig {
	if cfg == nil {
		return DefaultScoringConfig()
	}
	return ScoringConfig{
		KeywordWeight:       cfg.KeywordWeight,
		PhraseWeight:        cfg.PhraseWeight,
		BaseConfidence:      cfg.BaseConfidence,
		ConfidenceStep:      cfg.ConfidenceStep,
		MaxConfidence:       cfg.MaxConfidence,
		HighSeverityMatches: cfg.HighSeverityMatches,
	}.withDefaults()
}

// withDefaults completa los campos en cero con los valores por defecto.
func (c ScoringConfig) withDefaults() ScoringConfig {
	d := DefaultScoringConfig()
	if c.KeywordWeight <= 0 {
		c.KeywordWeight = d.KeywordWeight
	}
	if c.PhraseWeight <= 0 {
		c.PhraseWeight = d.PhraseWeight
	}
	if c.BaseConfidence <= 0 {
		c.BaseConfidence = d.BaseConfidence
	}
	if c.ConfidenceStep <= 0 {
		c.ConfidenceStep = d.ConfidenceStep
	}
	if c.MaxConfidence <= 0 || c.MaxConfidence > 1 {
		c.MaxConfidence = d.MaxConfidence
	}
	if c.HighSeverityMatches <= 0 {
		c.HighSeverityMatches = d.HighSeverityMatches
	}
	return c
}

const (
	neutralConfidence   = 0.6
	defaultAIConfidence = 0.7
	minConfidence       = 0.1
	maxConfidence       = 1.0
	neutralEmoji        = "😐"
)

type emotionProfile struct {
	emotion  string
	emoji    string
	keywords keywordSet
}

// emotionTable está ordenada: ante empate gana la emoción evaluada primero.
var emotionTable = []emotionProfile{
	{
		emotion: "anxious",
		emoji:   "😰",
		keywords: newKeywordSet(
			"anxious", "anxiety", "worried", "worry", "worrying", "nervous", "panic", "panicking",
			"stressed", "stress", "scared", "afraid", "fear", "uneasy", "tense",
			"on edge", "can't stop thinking", "what if", "heart racing", "can't relax", "freaking out",
		),
	},
	{
		emotion: "sad",
		emoji:   "😢",
		keywords: newKeywordSet(
			"sad", "unhappy", "depressed", "down", "cry", "crying", "cried", "hopeless",
			"miserable", "heartbroken", "grief", "grieving", "loss",
			"feel empty", "feeling down", "miss them", "lost someone", "want to cry",
		),
	},
	{
		emotion: "angry",
		emoji:   "😠",
		keywords: newKeywordSet(
			"angry", "mad", "furious", "rage", "annoyed", "irritated", "hate", "resent", "livid",
			"so angry", "fed up", "pissed off", "lost my temper", "makes me mad",
		),
	},
	{
		emotion: "frustrated",
		emoji:   "😤",
		keywords: newKeywordSet(
			"frustrated", "frustrating", "stuck", "blocked", "pointless", "annoying", "fail", "failed", "failing",
			"nothing works", "not working", "keep failing", "give up", "going nowhere",
		),
	},
	{
		emotion: "overwhelmed",
		emoji:   "😵",
		keywords: newKeywordSet(
			"overwhelmed", "overloaded", "swamped", "drowning", "overworked", "busy",
			"too much", "can't keep up", "so much to do", "falling behind", "no time",
		),
	},
	{
		emotion: "lonely",
		emoji:   "😔",
		keywords: newKeywordSet(
			"lonely", "alone", "isolated", "abandoned", "excluded", "disconnected",
			"no one cares", "nobody understands", "by myself", "left out", "no friends",
		),
	},
	{
		emotion: "happy",
		emoji:   "😊",
		keywords: newKeywordSet(
			"happy", "glad", "joy", "joyful", "great", "good", "wonderful", "amazing", "fun",
			"smile", "smiled", "laughed", "cheerful",
			"feel good", "great day", "had fun", "so happy", "best day",
		),
	},
	{
		emotion: "excited",
		emoji:   "🤩",
		keywords: newKeywordSet(
			"excited", "thrilled", "eager", "pumped", "ecstatic",
			"looking forward", "can't wait", "so excited", "big news",
		),
	},
	{
		emotion: "grateful",
		emoji:   "🙏",
		keywords: newKeywordSet(
			"grateful", "thankful", "thanks", "appreciate", "appreciated", "blessed", "fortunate",
			"thank you", "so lucky", "grateful for", "means a lot",
		),
	},
	{
		emotion: "calm",
		emoji:   "😌",
		keywords: newKeywordSet(
			"calm", "peaceful", "relaxed", "content", "serene", "rested", "centered", "quiet",
			"at peace", "feel calm", "slow morning", "deep breath",
		),
	},
}

// emotionEmojis traduce etiquetas del modelo remoto a emoji.
var emotionEmojis = map[string]string{
	"anxious":     "😰",
	"sad":         "😢",
	"angry":       "😠",
	"frustrated":  "😤",
	"overwhelmed": "😵",
	"lonely":      "😔",
	"happy":       "😊",
	"excited":     "🤩",
	"grateful":    "🙏",
	"calm":        "😌",
	"neutral":     neutralEmoji,
	"stressed":    "😣",
	"nervous":     "😬",
	"tired":       "😴",
	"hopeful":     "🌱",
	"proud":       "💪",
	"content":     "🙂",
}

// EmotionDetector puntúa texto contra tablas de palabras y frases por emoción.
type EmotionDetector struct {
	cfg ScoringConfig
}

func NewEmotionDetector(cfg ScoringConfig) *EmotionDetector {
	return &EmotionDetector{cfg: cfg.withDefaults()}
}

// DetectEmotion devuelve la emoción con mayor puntaje; auxiliaryText suma contexto (p. ej. texto del modelo).
func (d *EmotionDetector) DetectEmotion(text, auxiliaryText string) domain.EmotionResult {
	combined := normalize(strings.TrimSpace(text + " " + auxiliaryText))
	tokens := tokenize(combined)

	best := -1
	bestScore := 0.0
	for i, p := range emotionTable {
		words, phrases := p.keywords.matchCounts(combined, tokens)
		score := d.cfg.KeywordWeight*float64(words) + d.cfg.PhraseWeight*float64(phrases)
		if score > bestScore {
			bestScore = score
			best = i
		}
	}

	if best < 0 {
		return domain.EmotionResult{
			Emotion:    domain.EmotionNeutral,
			Confidence: neutralConfidence,
			Emoji:      neutralEmoji,
		}
	}

	confidence := math.Min(d.cfg.MaxConfidence, d.cfg.BaseConfidence+d.cfg.ConfidenceStep*bestScore)
	return domain.EmotionResult{
		Emotion:    emotionTable[best].emotion,
		Confidence: clampConfidence(confidence),
		Emoji:      emotionTable[best].emoji,
	}
}

// ParseEmotionFromAI acepta un objeto {"emotion","confidence"} o una etiqueta suelta.
func (d *EmotionDetector) ParseEmotionFromAI(raw any) domain.EmotionResult {
	var (
		label      string
		confidence = defaultAIConfidence
	)

	switch v := raw.(type) {
	case string:
		label = v
	case map[string]any:
		label = fieldString(v, "emotion", "primary", "label", "name")
		if c, ok := fieldFloat(v, "confidence", "score"); ok {
			confidence = c
		}
	}

	label = strings.ToLower(strings.TrimSpace(label))
	if !isKnownEmotion(label) {
		label = domain.EmotionNeutral
	}

	return domain.EmotionResult{
		Emotion:    label,
		Confidence: clampConfidence(confidence),
		Emoji:      emojiForEmotion(label),
	}
}

// isKnownEmotion acepta etiquetas de la tabla de emoji, directas o por alias.
func isKnownEmotion(label string) bool {
	if _, ok := emotionEmojis[label]; ok {
		return true
	}
	_, ok := emotionEmojis[CanonicalEmotion(label)]
	return ok
}

func emojiForEmotion(label string) string {
	if e, ok := emotionEmojis[label]; ok {
		return e
	}
	if e, ok := emotionEmojis[CanonicalEmotion(label)]; ok {
		return e
	}
	return neutralEmoji
}

func clampConfidence(c float64) float64 {
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return defaultAIConfidence
	}
	if c < minConfidence {
		return minConfidence
	}
	if c > maxConfidence {
		return maxConfidence
	}
	return c
}
