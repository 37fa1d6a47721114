package service

import (
	"strings"

	"go.uber.org/zap"

	"journal-insight/internal/domain"
)

const (
	maxDistortions     = 3
	maxQuotesPerResult = 2
)

const (
	DistortionCatastrophizing = "Catastrophizing"
	DistortionMindReading     = "Mind Reading"
	DistortionAllOrNothing    = "All-or-Nothing Thinking"
	DistortionFortuneTelling  = "Fortune Telling"
)

type distortionRule struct {
	distortionType  string
	keywords        keywordSet
	minMatches      int
	description     string
	evidence        []string
	reframingPrompt string
}

// distortionRules se evalúa en este orden; se emiten como máximo las tres primeras que disparan.
var distortionRules = []distortionRule{
	{
		distortionType: DistortionCatastrophizing,
		keywords: newKeywordSet(
			"disaster", "terrible", "horrible", "awful", "worst", "ruined", "catastrophe", "unbearable",
			"always", "never",
			"end of the world", "can't handle", "can't cope", "falling apart",
		),
		minMatches:  2,
		description: "Expecting the worst possible outcome or treating a setback as a disaster.",
		evidence: []string{
			"Past situations you worried about often turned out more manageable than expected.",
			"One setback rarely decides the whole outcome.",
			"You have coped with difficult moments before.",
		},
		reframingPrompt: "What is the most likely outcome, and how would you cope if the worst did happen?",
	},
	{
		distortionType: DistortionMindReading,
		keywords: newKeywordSet(
			"they think", "he thinks", "she thinks", "everyone thinks", "they must think", "probably thinks",
			"judging me", "hate me", "doesn't like me", "don't like me", "thinks i'm", "think i'm", "laughing at me",
		),
		minMatches:  1,
		description: "Assuming you know what others are thinking, usually something negative about you.",
		evidence: []string{
			"You have no direct access to other people's thoughts.",
			"People are usually more focused on themselves than on judging others.",
			"There may be other explanations for how they acted.",
		},
		reframingPrompt: "What evidence do you have for what they think, and what else might they be thinking?",
	},
	{
		distortionType: DistortionAllOrNothing,
		keywords: newKeywordSet(
			"completely", "totally", "perfect", "perfectly", "entirely", "useless", "worthless",
			"complete failure", "total failure", "nothing ever", "nothing good", "100%",
		),
		minMatches:  2,
		description: "Seeing things in black-and-white categories with no middle ground.",
		evidence: []string{
			"Most situations fall somewhere between total success and total failure.",
			"Partial progress still counts as progress.",
			"One flaw does not cancel out everything that went well.",
		},
		reframingPrompt: "What would a more balanced, in-between description of this look like?",
	},
	{
		distortionType: DistortionFortuneTelling,
		keywords: newKeywordSet(
			"going to fail", "will fail", "will never", "never going to", "won't work", "bound to",
			"i just know", "is going to go wrong", "will go wrong", "won't ever",
		),
		minMatches:  1,
		description: "Predicting that things will turn out badly as if it were an established fact.",
		evidence: []string{
			"The future has not happened yet and depends on many factors.",
			"Predictions made while anxious tend to be darker than reality.",
			"You have been wrong about negative predictions before.",
		},
		reframingPrompt: "What are some other ways this could turn out?",
	},
}

// extraDistortionKeywords cubre tipos que el modelo remoto puede reportar y no tienen regla local.
var extraDistortionKeywords = map[string]keywordSet{
	"overgeneralization":  newKeywordSet("always", "never", "every time", "everyone", "nobody", "nothing"),
	"should statements":   newKeywordSet("should", "shouldn't", "must", "ought to", "have to"),
	"labeling":            newKeywordSet("i'm a failure", "i'm stupid", "i'm an idiot", "i'm worthless", "loser", "i'm useless"),
	"personalization":     newKeywordSet("my fault", "because of me", "i caused", "i'm to blame", "blame myself"),
	"emotional reasoning": newKeywordSet("i feel like", "feel like a", "because i feel", "i feel so"),
	"mental filter":       newKeywordSet("only thing", "nothing good", "all i can think about", "just the bad"),
}

const (
	genericDistortionDescription = "A thinking pattern that may be making this situation feel heavier than it is."
	genericReframingPrompt       = "Is there another way to look at this situation?"
)

var genericDistortionEvidence = []string{
	"Thoughts are not facts, even when they feel convincing.",
	"A friend in the same situation might see it differently.",
}

// DistortionDetector detecta patrones de pensamiento distorsionado por palabras clave.
type DistortionDetector struct {
	cfg    ScoringConfig
	logger *zap.Logger
}

func NewDistortionDetector(cfg ScoringConfig, logger *zap.Logger) *DistortionDetector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DistortionDetector{cfg: cfg.withDefaults(), logger: logger}
}

// DetectCognitiveDistortions evalúa las reglas en orden fijo y devuelve hasta tres distorsiones.
func (d *DistortionDetector) DetectCognitiveDistortions(text string) []domain.CognitiveDistortion {
	normalized := normalize(text)
	tokens := tokenize(normalized)

	out := make([]domain.CognitiveDistortion, 0, maxDistortions)
	for _, rule := range distortionRules {
		if len(out) >= maxDistortions {
			break
		}
		words, phrases := rule.keywords.matchCounts(normalized, tokens)
		matches := words + phrases
		if matches < rule.minMatches {
			continue
		}

		sentences := sentencesMatching(text, rule.keywords, maxQuotesPerResult)
		if len(sentences) == 0 {
			continue
		}

		severity := domain.SeverityMedium
		if matches >= d.cfg.HighSeverityMatches {
			severity = domain.SeverityHigh
		}

		out = append(out, domain.CognitiveDistortion{
			Type:            rule.distortionType,
			Description:     rule.description,
			DetectedText:    sentences,
			UserQuotes:      append([]string(nil), sentences...),
			Evidence:        append([]string(nil), rule.evidence...),
			ReframingPrompt: rule.reframingPrompt,
			Severity:        severity,
		})
	}
	return out
}

// ParseDistortionsFromAI valida las distorsiones del modelo contra el texto original.
// Las citas que no aparecen literalmente se descartan; nunca se inventan.
func (d *DistortionDetector) ParseDistortionsFromAI(raw any, originalText string) []domain.CognitiveDistortion {
	items, ok := asArray(raw)
	if !ok {
		return []domain.CognitiveDistortion{}
	}

	out := make([]domain.CognitiveDistortion, 0, maxDistortions)
	dropped := 0
	for _, item := range items {
		if len(out) >= maxDistortions {
			break
		}
		obj, ok := asObject(item)
		if !ok {
			continue
		}
		distortionType := fieldString(obj, "type", "name", "distortion")
		if distortionType == "" {
			continue
		}

		var quotes []string
		for _, q := range fieldStrings(obj, "user_quotes", "quotes", "detected_text", "evidence_text") {
			if !IsVerbatimSubstring(originalText, q) {
				dropped++
				continue
			}
			if len(quotes) < maxQuotesPerResult {
				quotes = append(quotes, strings.TrimSpace(q))
			}
		}
		if len(quotes) == 0 {
			quotes = d.quotesForType(distortionType, originalText)
		}
		if len(quotes) == 0 {
			continue
		}

		rule, known := lookupDistortionRule(distortionType)

		description := fieldString(obj, "description", "explanation")
		if description == "" {
			description = genericDistortionDescription
			if known {
				description = rule.description
			}
		}
		evidence := fieldStrings(obj, "evidence", "challenging_evidence", "counter_evidence")
		if len(evidence) == 0 {
			evidence = append([]string(nil), genericDistortionEvidence...)
			if known {
				evidence = append([]string(nil), rule.evidence...)
			}
		}
		prompt := fieldString(obj, "reframing_prompt", "reframe_prompt", "question")
		if prompt == "" {
			prompt = genericReframingPrompt
			if known {
				prompt = rule.reframingPrompt
			}
		}

		out = append(out, domain.CognitiveDistortion{
			Type:            distortionType,
			Description:     description,
			DetectedText:    quotes,
			UserQuotes:      append([]string(nil), quotes...),
			Evidence:        evidence,
			ReframingPrompt: prompt,
			Severity:        normalizeSeverity(fieldString(obj, "severity")),
		})
	}

	if dropped > 0 {
		d.logger.Debug("discarded unverifiable quotes", zap.Int("count", dropped))
	}
	return out
}

// quotesForType busca oraciones del texto que respalden el tipo indicado por el modelo.
func (d *DistortionDetector) quotesForType(distortionType, text string) []string {
	ks, ok := keywordsForType(distortionType)
	if !ok {
		return nil
	}
	return sentencesMatching(text, ks, maxQuotesPerResult)
}

// normalizeDistortionType lleva "All_or_Nothing thinking" a "all or nothing".
func normalizeDistortionType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	t = strings.NewReplacer("-", " ", "_", " ").Replace(t)
	t = strings.Join(strings.Fields(t), " ")
	t = strings.TrimSuffix(t, " thinking")
	return t
}

func lookupDistortionRule(distortionType string) (distortionRule, bool) {
	key := normalizeDistortionType(distortionType)
	for _, r := range distortionRules {
		if normalizeDistortionType(r.distortionType) == key {
			return r, true
		}
	}
	return distortionRule{}, false
}

func keywordsForType(distortionType string) (keywordSet, bool) {
	if r, ok := lookupDistortionRule(distortionType); ok {
		return r.keywords, true
	}
	key := normalizeDistortionType(distortionType)
	if ks, ok := extraDistortionKeywords[key]; ok && !ks.empty() {
		return ks, true
	}
	switch key {
	case "overgeneralizing", "over generalization":
		return extraDistortionKeywords["overgeneralization"], true
	case "should statement", "shoulds":
		return extraDistortionKeywords["should statements"], true
	case "labelling", "mislabeling":
		return extraDistortionKeywords["labeling"], true
	}
	return keywordSet{}, false
}

func normalizeSeverity(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case domain.SeverityLow, "mild", "minor":
		return domain.SeverityLow
	case domain.SeverityHigh, "severe", "strong":
		return domain.SeverityHigh
	default:
		return domain.SeverityMedium
	}
}
