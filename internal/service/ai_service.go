package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"journal-insight/internal/domain"
	"journal-insight/internal/llm"
)

const (
	defaultAnalysisTimeout = 30 * time.Second
	defaultAnalysisTokens  = 1000
	maxSalvagedSentences   = 2
)

var empatheticMarkers = []string{"feel", "understand", "valid", "natural", "okay", "normal", "hear"}

// AIServiceOptions controla la llamada remota del análisis.
type AIServiceOptions struct {
	Timeout     time.Duration
	Temperature float64
	MaxTokens   int
	// Structured pide al proveedor salida json_schema estricta.
	Structured bool
}

// AIService orquesta el análisis de una entrada: intenta el modelo remoto y
// cae al pipeline local ante cualquier fallo. No guarda estado entre llamadas.
type AIService struct {
	llmClient   llm.LLMClient
	emotions    *EmotionDetector
	distortions *DistortionDetector
	activities  *ActivityGenerator
	reflections *ReflectionGenerator
	limiter     RemoteCallLimiter
	opts        AIServiceOptions
	logger      *zap.Logger
}

// NewAIService acepta llmClient y limiter nil. Sin cliente todo el análisis es local.
func NewAIService(
	llmClient llm.LLMClient,
	emotions *EmotionDetector,
	distortions *DistortionDetector,
	activities *ActivityGenerator,
	reflections *ReflectionGenerator,
	limiter RemoteCallLimiter,
	opts AIServiceOptions,
	logger *zap.Logger,
) *AIService {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultAnalysisTimeout
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = defaultAnalysisTokens
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if emotions == nil {
		emotions = NewEmotionDetector(DefaultScoringConfig())
	}
	if distortions == nil {
		distortions = NewDistortionDetector(DefaultScoringConfig(), logger)
	}
	if activities == nil {
		activities = NewActivityGenerator()
	}
	if reflections == nil {
		reflections = NewReflectionGenerator(nil)
	}
	return &AIService{
		llmClient:   llmClient,
		emotions:    emotions,
		distortions: distortions,
		activities:  activities,
		reflections: reflections,
		limiter:     limiter,
		opts:        opts,
		logger:      logger,
	}
}

// AnalyzeEntry analiza una entrada anónima.
func (s *AIService) AnalyzeEntry(ctx context.Context, entryText string, toolkit []domain.EmotionalToolkitItem, aiEnabled bool) domain.AnalysisResult {
	return s.AnalyzeEntryForUser(ctx, "", entryText, toolkit, aiEnabled)
}

// AnalyzeEntryForUser siempre devuelve un resultado completo; userID solo se usa para el presupuesto remoto.
func (s *AIService) AnalyzeEntryForUser(
	ctx context.Context,
	userID, entryText string,
	toolkit []domain.EmotionalToolkitItem,
	aiEnabled bool,
) (result domain.AnalysisResult) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("analysis panic recovered", zap.Any("panic", r))
			result = s.safeLocalAnalysis(entryText, toolkit, aiEnabled)
		}
	}()

	if !aiEnabled {
		return s.localAnalysis(entryText, "", toolkit, aiEnabled)
	}
	if s.llmClient == nil {
		s.logger.Info("remote analysis not configured, using local pipeline")
		return s.localAnalysis(entryText, "", toolkit, aiEnabled)
	}
	if s.limiter != nil && !s.limiter.Allow(userID) {
		s.logger.Info("remote analysis budget exhausted, using local pipeline", zap.String("user_id", userID))
		return s.localAnalysis(entryText, "", toolkit, aiEnabled)
	}

	start := time.Now()
	raw, err := s.callRemote(ctx, entryText)
	if err != nil {
		s.logger.Warn("remote analysis failed, salvaging locally",
			zap.Error(err),
			zap.Duration("latency", time.Since(start)),
		)
		return s.salvageAnalysis(entryText, "", toolkit, aiEnabled)
	}

	obj, ok := decodeLLMObject(raw)
	if !ok {
		s.logger.Warn("remote analysis returned no parseable JSON, salvaging text",
			zap.Int("response_len", len(raw)),
		)
		return s.salvageAnalysis(entryText, raw, toolkit, aiEnabled)
	}

	s.logger.Debug("remote analysis parsed", zap.Duration("latency", time.Since(start)))
	return s.remoteAnalysis(entryText, raw, obj, toolkit, aiEnabled)
}

func (s *AIService) callRemote(ctx context.Context, entryText string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	req := llm.CompletionRequest{
		System:      analysisSystemPrompt,
		Prompt:      buildAnalysisPrompt(entryText),
		Temperature: s.opts.Temperature,
		MaxTokens:   s.opts.MaxTokens,
	}
	if s.opts.Structured {
		req.Schema = analysisSchema
		req.SchemaName = analysisSchemaName
	}
	return s.llmClient.Generate(ctx, req)
}

// localAnalysis es el pipeline sin red. Las distorsiones solo se calculan con IA habilitada.
func (s *AIService) localAnalysis(entryText, auxiliaryText string, toolkit []domain.EmotionalToolkitItem, aiEnabled bool) domain.AnalysisResult {
	emotion := s.emotions.DetectEmotion(entryText, auxiliaryText)

	distortions := []domain.CognitiveDistortion{}
	if aiEnabled {
		distortions = s.distortions.DetectCognitiveDistortions(entryText)
	}

	return domain.AnalysisResult{
		Emotion:        emotion,
		Distortions:    distortions,
		Activities:     s.activities.GenerateContextualActivities(entryText, emotion.Emotion, auxiliaryText, toolkit, aiEnabled),
		SuggestedEmoji: emotion.Emoji,
		Reflection:     s.reflections.GenerateContentBasedReflection(entryText, emotion.Emotion),
	}
}

func (s *AIService) remoteAnalysis(
	entryText, raw string,
	obj map[string]any,
	toolkit []domain.EmotionalToolkitItem,
	aiEnabled bool,
) domain.AnalysisResult {
	// Una etiqueta ausente o fuera de la tabla se resuelve con la detección local.
	var emotion domain.EmotionResult
	if emotionRaw, ok := fieldValue(obj, "emotion", "primary_emotion"); ok {
		if label := remoteEmotionLabel(emotionRaw); isKnownEmotion(label) {
			m := map[string]any{"emotion": label}
			if inner, isObject := asObject(emotionRaw); isObject {
				if c, ok := fieldValue(inner, "confidence", "score"); ok {
					m["confidence"] = c
				}
			}
			if _, has := m["confidence"]; !has {
				if c, ok := fieldValue(obj, "confidence"); ok {
					m["confidence"] = c
				}
			}
			emotion = s.emotions.ParseEmotionFromAI(m)
		}
	}
	if emotion.Emotion == "" {
		emotion = s.emotions.DetectEmotion(entryText, raw)
	}

	distortions := []domain.CognitiveDistortion{}
	if aiEnabled {
		if d, ok := fieldValue(obj, "cognitive_distortions", "distortions"); ok {
			distortions = s.distortions.ParseDistortionsFromAI(d, entryText)
		}
	}

	local := s.activities.GenerateContextualActivities(entryText, emotion.Emotion, raw, toolkit, aiEnabled)
	var remote []domain.ActivitySuggestion
	if a, ok := fieldValue(obj, "suggested_activities", "activities"); ok {
		remote = s.activities.ParseActivitiesFromAI(a)
	}

	reflection := fieldString(obj, "reflection")
	if reflection == "" {
		reflection = s.reflections.GenerateContentBasedReflection(entryText, emotion.Emotion)
	}

	return domain.AnalysisResult{
		Emotion:        emotion,
		Distortions:    distortions,
		Activities:     s.activities.MergeActivities(local, remote),
		SuggestedEmoji: emotion.Emoji,
		Reflection:     reflection,
	}
}

func remoteEmotionLabel(v any) string {
	switch t := v.(type) {
	case string:
		return strings.ToLower(strings.TrimSpace(t))
	case map[string]any:
		return strings.ToLower(strings.TrimSpace(fieldString(t, "emotion", "primary", "label", "name")))
	}
	return ""
}

// salvageAnalysis rescata lo posible de una respuesta sin JSON válido.
func (s *AIService) salvageAnalysis(entryText, raw string, toolkit []domain.EmotionalToolkitItem, aiEnabled bool) domain.AnalysisResult {
	result := s.localAnalysis(entryText, raw, toolkit, aiEnabled)
	if r := salvageReflection(raw); r != "" {
		result.Reflection = r
	}
	return result
}

func salvageReflection(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	if r, ok := ExtractStringFieldByRegex(raw, "reflection"); ok {
		return r
	}

	var picked []string
	for _, span := range sentenceSpans(CleanLLMJSONResponse(raw)) {
		if len(picked) >= maxSalvagedSentences {
			break
		}
		span = strings.TrimSpace(span)
		body := strings.TrimSpace(strings.TrimRightFunc(span, isSentenceEnd))
		if utf8.RuneCountInString(body) < minSentenceRunes || strings.ContainsAny(body, "{}[]\"") {
			continue
		}
		if !containsAny(strings.ToLower(body), empatheticMarkers) {
			continue
		}
		if body == span {
			span += "."
		}
		picked = append(picked, span)
	}
	return strings.Join(picked, " ")
}

// safeLocalAnalysis se usa tras un panic; si el pipeline local también falla devuelve un resultado mínimo.
func (s *AIService) safeLocalAnalysis(entryText string, toolkit []domain.EmotionalToolkitItem, aiEnabled bool) (result domain.AnalysisResult) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("local analysis panic recovered", zap.Any("panic", r))
			result = domain.AnalysisResult{
				Emotion:        domain.EmotionResult{Emotion: domain.EmotionNeutral, Confidence: neutralConfidence, Emoji: neutralEmoji},
				Distortions:    []domain.CognitiveDistortion{},
				Activities:     dedupeActivities(activityCatalog[defaultCatalogEmotion], maxActivities),
				SuggestedEmoji: neutralEmoji,
				Reflection:     lastResortReflection,
			}
		}
	}()
	return s.localAnalysis(entryText, "", toolkit, aiEnabled)
}
