package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"journal-insight/internal/llm"
)

const (
	defaultReframeTimeout = 15 * time.Second
	reframeTemperature    = 0.7
	reframeMaxTokens      = 100
)

const reframeSystemPrompt = `You are a compassionate cognitive behavioral therapy assistant.
You help people restate distorted thoughts as balanced, realistic alternatives.
Answer with ONE sentence written in the first person. No quotes, no lists, no explanations.`

var reframeTemplates = map[string][]string{
	"catastrophizing": {
		"This is hard, but I have handled difficult things before and I can take this one step at a time.",
		"The worst case is not the most likely case, and even if things go wrong I can find a way through.",
		"I am imagining the worst right now, but I can focus on what is actually happening and what I can do next.",
	},
	"mind reading": {
		"I can't know what others are thinking, and they may not be judging me at all.",
		"I am guessing at other people's thoughts; I could ask them or wait for real evidence.",
		"Other people are busy with their own lives, and my assumption about their opinion might be wrong.",
	},
	"all or nothing": {
		"It doesn't have to be perfect to be worthwhile; there is a lot of middle ground here.",
		"Some parts went well and some didn't, and both can be true at the same time.",
		"One setback doesn't make the whole thing a failure; I am still making progress.",
	},
	"fortune telling": {
		"I can't predict the future, and things might turn out better than I expect.",
		"I am treating a guess as a fact; there are several ways this could go.",
		"Instead of predicting the outcome, I can focus on what I can prepare for today.",
	},
	"overgeneralization": {
		"This happened once, but that doesn't mean it will always happen.",
		"One experience doesn't define every experience I will have.",
		"There have been times when things went differently, and there will be again.",
	},
	"should statements": {
		"I would like things to be different, but I can be kind to myself about how they are.",
		"Instead of telling myself what I should do, I can ask what would actually help right now.",
		"I am doing my best with what I have, and that is enough for today.",
	},
	"labeling": {
		"I made a mistake, but a mistake is something I did, not who I am.",
		"I am more than one moment or one outcome.",
		"I can describe what happened without putting a harsh label on myself.",
	},
	"personalization": {
		"Many things contributed to this, and not all of them were in my control.",
		"I can take responsibility for my part without blaming myself for everything.",
		"This situation has many causes, and I am only one piece of it.",
	},
}

var genericReframes = []string{
	"This thought feels true right now, but I can look at the situation from a more balanced angle.",
	"I can acknowledge how I feel while remembering that my thoughts are not always facts.",
	"There may be another way to see this that is kinder and just as realistic.",
}

// ReframingService genera un pensamiento alternativo, vía LLM o plantilla.
type ReframingService struct {
	llmClient llm.LLMClient
	timeout   time.Duration
	pick      Picker
	logger    *zap.Logger
}

// NewReframingService acepta llmClient nil: en ese caso solo usa plantillas.
func NewReframingService(llmClient llm.LLMClient, timeout time.Duration, pick Picker, logger *zap.Logger) *ReframingService {
	if timeout <= 0 {
		timeout = defaultReframeTimeout
	}
	if pick == nil {
		pick = RandomPicker()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReframingService{
		llmClient: llmClient,
		timeout:   timeout,
		pick:      pick,
		logger:    logger,
	}
}

// GenerateReframedThought nunca falla: cualquier error remoto cae en una plantilla.
func (s *ReframingService) GenerateReframedThought(ctx context.Context, originalThought, distortionType, userContext string) string {
	if s.llmClient != nil {
		out, err := s.remoteReframe(ctx, originalThought, distortionType, userContext)
		if err == nil {
			return out
		}
		s.logger.Warn("reframe remote call failed, using template", zap.Error(err), zap.String("distortion", distortionType))
	}
	return s.templateReframe(distortionType)
}

func (s *ReframingService) remoteReframe(ctx context.Context, originalThought, distortionType, userContext string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.llmClient.Generate(ctx, llm.CompletionRequest{
		System:      reframeSystemPrompt,
		Prompt:      buildReframePrompt(originalThought, distortionType, userContext),
		Temperature: reframeTemperature,
		MaxTokens:   reframeMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("llm generate: %w", err)
	}
	out := cleanSentenceResponse(raw)
	if out == "" {
		return "", fmt.Errorf("empty reframe")
	}
	return out, nil
}

func (s *ReframingService) templateReframe(distortionType string) string {
	templates, ok := reframeTemplates[normalizeDistortionType(distortionType)]
	if !ok {
		templates = genericReframes
	}
	return pickOne(s.pick, templates)
}

func buildReframePrompt(originalThought, distortionType, userContext string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Original thought: %q\n", strings.TrimSpace(originalThought))
	fmt.Fprintf(&b, "Thinking pattern: %s\n", strings.TrimSpace(distortionType))
	if c := strings.TrimSpace(userContext); c != "" {
		fmt.Fprintf(&b, "Context from the journal entry: %s\n", c)
	}
	b.WriteString("\nWrite one balanced, compassionate alternative to this thought, in the first person.")
	return b.String()
}
