package service

import (
	"fmt"
	"strings"

	"journal-insight/internal/domain"
)

const (
	maxActivities         = 6
	maxRemoteActivities   = 4
	defaultCatalogEmotion = "anxious"
	userActivityPrefix    = "user-"
)

// emotionAliases unifica las etiquetas libres del toolkit con el vocabulario del detector.
var emotionAliases = map[string]string{
	"anxiety":     "anxious",
	"anxiousness": "anxious",
	"worried":     "anxious",
	"worry":       "anxious",
	"nervous":     "anxious",
	"stressed":    "anxious",
	"stress":      "anxious",
	"sadness":     "sad",
	"down":        "sad",
	"depressed":   "sad",
	"unhappy":     "sad",
	"anger":       "angry",
	"mad":         "angry",
	"happiness":   "happy",
	"joy":         "happy",
	"joyful":      "happy",
	"gratitude":   "grateful",
	"thankful":    "grateful",
	"frustration": "frustrated",
	"loneliness":  "lonely",
	"alone":       "lonely",
	"excitement":  "excited",
	"calmness":    "calm",
	"peaceful":    "calm",
	"relaxed":     "calm",
	"overwhelm":   "overwhelmed",
}

// CanonicalEmotion normaliza una etiqueta de emoción: trim, minúsculas y alias.
// Se aplica igual a la etiqueta del toolkit y a la emoción detectada.
func CanonicalEmotion(label string) string {
	l := strings.ToLower(strings.TrimSpace(label))
	if c, ok := emotionAliases[l]; ok {
		return c
	}
	return l
}

var activityCatalog = map[string][]domain.ActivitySuggestion{
	"anxious": {
		{ID: "anxious-box-breathing", Title: "Box Breathing", Description: "Inhale for 4, hold for 4, exhale for 4, hold for 4. Repeat for a few rounds to settle your nervous system.", Duration: "4 min", Category: "breathing"},
		{ID: "anxious-grounding", Title: "5-4-3-2-1 Grounding", Description: "Name 5 things you see, 4 you can touch, 3 you hear, 2 you smell and 1 you taste.", Duration: "5 min", Category: "mindfulness"},
	},
	"sad": {
		{ID: "sad-gentle-walk", Title: "Gentle Walk Outside", Description: "Take a slow walk and notice the light, sounds and air around you.", Duration: "15 min", Category: "movement"},
		{ID: "sad-self-compassion", Title: "Self-Compassion Letter", Description: "Write a few kind lines to yourself, the way you would to a close friend.", Duration: "10 min", Category: "journaling"},
	},
	"angry": {
		{ID: "angry-cool-down", Title: "Cool-Down Pause", Description: "Step away, splash cold water on your face and take ten slow breaths before responding.", Duration: "5 min", Category: "breathing"},
		{ID: "angry-physical-release", Title: "Physical Release", Description: "Go for a brisk walk or do a short workout to release the tension in your body.", Duration: "15 min", Category: "movement"},
	},
	"frustrated": {
		{ID: "frustrated-reset", Title: "Five-Minute Reset", Description: "Pause the task, stretch, and come back with one small next step in mind.", Duration: "5 min", Category: "mindfulness"},
		{ID: "frustrated-brain-dump", Title: "Brain Dump", Description: "Write down everything that is bothering you without editing, then circle what you can control.", Duration: "10 min", Category: "journaling"},
	},
	"overwhelmed": {
		{ID: "overwhelmed-one-thing", Title: "Pick One Thing", Description: "List what is on your plate and choose the single most important item for the next hour.", Duration: "10 min", Category: "planning"},
		{ID: "overwhelmed-body-scan", Title: "Body Scan", Description: "Slowly move your attention from head to toe, relaxing each area as you go.", Duration: "8 min", Category: "mindfulness"},
	},
	"lonely": {
		{ID: "lonely-reach-out", Title: "Send a Message", Description: "Send a short note to someone you have not talked to in a while.", Duration: "5 min", Category: "social"},
		{ID: "lonely-community", Title: "Find a Shared Space", Description: "Spend some time somewhere with other people around, like a cafe, library or park.", Duration: "30 min", Category: "social"},
	},
	"happy": {
		{ID: "happy-savor", Title: "Savor the Moment", Description: "Write down what made today good so you can come back to it later.", Duration: "5 min", Category: "journaling"},
		{ID: "happy-share", Title: "Share the Good News", Description: "Tell someone you care about what went well today.", Duration: "5 min", Category: "social"},
	},
	"excited": {
		{ID: "excited-channel", Title: "Channel the Energy", Description: "Turn your excitement into a concrete first step toward what you are looking forward to.", Duration: "15 min", Category: "planning"},
	},
	"grateful": {
		{ID: "grateful-three-things", Title: "Three Good Things", Description: "List three things you are grateful for and why each one matters to you.", Duration: "5 min", Category: "journaling"},
		{ID: "grateful-thank-you", Title: "Thank-You Note", Description: "Send a short message thanking someone who made a difference recently.", Duration: "5 min", Category: "social"},
	},
	"calm": {
		{ID: "calm-mindful-minute", Title: "Mindful Minute", Description: "Sit quietly and notice your breath to anchor this sense of calm.", Duration: "3 min", Category: "mindfulness"},
	},
}

type contextualTrigger struct {
	keywords []string
	activity domain.ActivitySuggestion
}

var contextualTriggers = []contextualTrigger{
	{
		keywords: []string{"work", "working", "job", "boss", "deadline", "deadlines", "office", "meeting", "meetings"},
		activity: domain.ActivitySuggestion{ID: "context-work", Title: "Break Tasks Into Steps", Description: "Split the work on your mind into small steps and schedule just the first one.", Duration: "10 min", Category: "planning"},
	},
	{
		keywords: []string{"relationship", "relationships", "friend", "friends", "partner", "family"},
		activity: domain.ActivitySuggestion{ID: "context-relationships", Title: "Reach Out to Someone", Description: "Message or call someone you trust and share how you are doing.", Duration: "10 min", Category: "social"},
	},
	{
		keywords: []string{"sleep", "sleeping", "slept", "tired", "exhausted", "insomnia"},
		activity: domain.ActivitySuggestion{ID: "context-sleep", Title: "Wind-Down Routine", Description: "Dim the lights, put your phone away and do something quiet for the last half hour before bed.", Duration: "30 min", Category: "rest"},
	},
}

// ActivityGenerator combina acciones del usuario con el catálogo y extras contextuales.
type ActivityGenerator struct{}

func NewActivityGenerator() *ActivityGenerator {
	return &ActivityGenerator{}
}

// GenerateContextualActivities prioriza el toolkit del usuario, luego el catálogo de la emoción
// y finalmente extras disparados por palabras clave. Sin títulos repetidos y como máximo seis.
func (g *ActivityGenerator) GenerateContextualActivities(
	entryText, emotion, auxiliaryText string,
	toolkit []domain.EmotionalToolkitItem,
	aiEnabled bool,
) []domain.ActivitySuggestion {
	user := g.userActivities(emotion, toolkit)

	catalog, ok := activityCatalog[CanonicalEmotion(emotion)]
	if !ok {
		catalog = activityCatalog[defaultCatalogEmotion]
	}

	haystack := normalize(entryText)
	if aiEnabled && auxiliaryText != "" {
		haystack += " " + normalize(auxiliaryText)
	}
	tokens := tokenize(haystack)
	var extras []domain.ActivitySuggestion
	for _, trig := range contextualTriggers {
		if containsAnyWord(tokens, trig.keywords) {
			extras = append(extras, trig.activity)
		}
	}

	all := make([]domain.ActivitySuggestion, 0, len(user)+len(catalog)+len(extras))
	all = append(all, user...)
	all = append(all, catalog...)
	all = append(all, extras...)
	return dedupeActivities(all, maxActivities)
}

func (g *ActivityGenerator) userActivities(emotion string, toolkit []domain.EmotionalToolkitItem) []domain.ActivitySuggestion {
	target := CanonicalEmotion(emotion)
	if target == "" {
		return nil
	}
	var out []domain.ActivitySuggestion
	for _, item := range toolkit {
		if CanonicalEmotion(item.Emotion) != target {
			continue
		}
		for _, action := range item.Actions {
			action = strings.TrimSpace(action)
			if action == "" {
				continue
			}
			out = append(out, domain.ActivitySuggestion{
				ID:          fmt.Sprintf("%s%d", userActivityPrefix, len(out)+1),
				Title:       action,
				Description: fmt.Sprintf("Your personal strategy for when you feel %s.", target),
				Duration:    "5-15 min",
				Category:    "personal",
			})
		}
	}
	return out
}

// ParseActivitiesFromAI mapea las actividades del modelo; cualquier entrada que no sea lista da vacío.
func (g *ActivityGenerator) ParseActivitiesFromAI(raw any) []domain.ActivitySuggestion {
	items, ok := asArray(raw)
	if !ok {
		return []domain.ActivitySuggestion{}
	}

	out := make([]domain.ActivitySuggestion, 0, len(items))
	for _, item := range items {
		a := domain.ActivitySuggestion{
			ID:          fmt.Sprintf("ai-%d", len(out)+1),
			Title:       "Mindful Moment",
			Description: "Take a few minutes to check in with yourself.",
			Duration:    "5 min",
			Category:    "wellness",
		}
		switch v := item.(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				a.Title = s
			}
		case map[string]any:
			if s := fieldString(v, "title", "name", "activity"); s != "" {
				a.Title = s
			}
			if s := fieldString(v, "description", "details"); s != "" {
				a.Description = s
			}
			if s := fieldString(v, "duration", "time"); s != "" {
				a.Duration = s
			}
			if s := fieldString(v, "category", "type"); s != "" {
				a.Category = strings.ToLower(s)
			}
		default:
			continue
		}
		out = append(out, a)
	}
	return dedupeActivities(out, maxRemoteActivities)
}

// MergeActivities intercala las sugerencias remotas después de las del usuario y antes del catálogo.
func (g *ActivityGenerator) MergeActivities(local, remote []domain.ActivitySuggestion) []domain.ActivitySuggestion {
	all := make([]domain.ActivitySuggestion, 0, len(local)+len(remote))
	for _, a := range local {
		if strings.HasPrefix(a.ID, userActivityPrefix) {
			all = append(all, a)
		}
	}
	all = append(all, remote...)
	for _, a := range local {
		if !strings.HasPrefix(a.ID, userActivityPrefix) {
			all = append(all, a)
		}
	}
	return dedupeActivities(all, maxActivities)
}

// dedupeActivities elimina títulos repetidos (sin distinguir mayúsculas) conservando el primero.
func dedupeActivities(in []domain.ActivitySuggestion, limit int) []domain.ActivitySuggestion {
	seen := make(map[string]struct{}, len(in))
	out := make([]domain.ActivitySuggestion, 0, limit)
	for _, a := range in {
		if len(out) >= limit {
			break
		}
		key := strings.ToLower(strings.TrimSpace(a.Title))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, a)
	}
	return out
}
