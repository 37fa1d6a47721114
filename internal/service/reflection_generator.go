package service

import (
	"fmt"
	"strings"
)

type toneGroup int

const (
	toneNeutral toneGroup = iota
	toneDifficult
	tonePositive
)

var difficultEmotions = []string{"anxious", "stressed", "nervous", "overwhelmed", "frustrated", "sad", "angry", "lonely", "tired"}
var positiveEmotions = []string{"happy", "excited", "grateful", "calm", "proud", "hopeful", "content"}

func toneOf(emotion string) toneGroup {
	e := strings.ToLower(strings.TrimSpace(emotion))
	c := CanonicalEmotion(e)
	for _, x := range difficultEmotions {
		if x == e || x == c {
			return toneDifficult
		}
	}
	for _, x := range positiveEmotions {
		if x == e || x == c {
			return tonePositive
		}
	}
	return toneNeutral
}

type subjectCluster struct {
	name      string
	keywords  []string
	templates map[toneGroup][]string
}

// subjectClusters en orden de prioridad.
var subjectClusters = []subjectCluster{
	{
		name:     "meetings",
		keywords: []string{"meeting", "meetings", "presentation", "presentations", "interview", "interviews", "pitch", "speech"},
		templates: map[toneGroup][]string{
			toneDifficult: {
				"It makes sense to feel on edge before being in front of others; that pressure shows how much you care about doing well.",
				"Getting ready for a meeting or presentation can stir up a lot, and noticing those nerves is already a step toward handling them.",
				"Feeling uneasy about speaking up is very common, and it says nothing about how capable you actually are.",
			},
			tonePositive: {
				"It sounds like that meeting went well for you, and it is worth pausing to recognize the effort you put into it.",
				"Feeling good after presenting is something to hold on to; you showed up and it paid off.",
			},
		},
	},
	{
		name:     "work",
		keywords: []string{"work", "working", "job", "deadline", "deadlines", "boss", "project", "office", "coworker", "coworkers", "colleague", "colleagues"},
		templates: map[toneGroup][]string{
			toneDifficult: {
				"Work pressure can pile up quickly, and it is understandable that it is weighing on you right now.",
				"Deadlines and expectations at work can feel relentless; your reaction is a natural response to that load.",
				"It sounds like work is asking a lot of you lately, and it is okay to acknowledge how draining that is.",
			},
			tonePositive: {
				"It is great to hear that work is going well; moments like this are worth noticing.",
				"Progress at work deserves to be celebrated, and you are allowed to feel proud of it.",
			},
		},
	},
	{
		name:     "relationships",
		keywords: []string{"partner", "friend", "family", "mom", "dad", "mother", "father", "relationship", "boyfriend", "girlfriend", "husband", "wife", "sister", "brother", "friends", "parents"},
		templates: map[toneGroup][]string{
			toneDifficult: {
				"Relationships matter deeply, so it makes sense that tension with someone close to you affects you this much.",
				"When things feel off with people we care about, it can color everything else; your feelings here are valid.",
				"It is clear you care about the people in your life, and that is exactly why this situation hurts.",
			},
			tonePositive: {
				"It sounds like the people around you brought something good into your day, and that connection is worth treasuring.",
				"Moments of closeness with the people we love are precious, and it is lovely that you took the time to notice this one.",
			},
		},
	},
	{
		name:     "sleep",
		keywords: []string{"sleep", "slept", "sleeping", "tired", "exhausted", "insomnia", "rest", "awake"},
		templates: map[toneGroup][]string{
			toneDifficult: {
				"Being short on rest makes everything feel harder, so be gentle with yourself while your body catches up.",
				"Exhaustion has a way of amplifying every worry, and it is understandable that you feel worn down.",
			},
			tonePositive: {
				"Good rest can change how a whole day feels, and it sounds like you are feeling the benefit of it.",
			},
		},
	},
	{
		name:     "routine",
		keywords: []string{"routine", "habit", "habits", "progress", "goal", "goals", "workout", "exercise", "practice"},
		templates: map[toneGroup][]string{
			tonePositive: {
				"Sticking with your routine is a real achievement, and the progress you describe is worth celebrating.",
				"Small consistent steps add up, and it sounds like yours are starting to pay off.",
			},
			toneDifficult: {
				"Keeping up a routine is hard when you are not feeling your best, and any step you take still counts.",
			},
		},
	},
}

// subjectPhrases deriva un sujeto genérico para las plantillas de respaldo.
var subjectPhrases = []struct {
	keywords []string
	subject  string
}{
	{[]string{"exam", "test", "school", "class", "study", "university"}, "your studies"},
	{[]string{"money", "rent", "bills", "debt", "finances"}, "your finances"},
	{[]string{"health", "doctor", "sick", "pain", "illness"}, "your health"},
	{[]string{"work", "job", "boss", "career"}, "your work"},
	{[]string{"family", "mom", "dad", "parents", "kids"}, "your family"},
	{[]string{"friend", "friends"}, "your friendships"},
	{[]string{"partner", "relationship", "dating", "boyfriend", "girlfriend"}, "your relationship"},
	{[]string{"future", "plans", "tomorrow", "next year"}, "what lies ahead"},
	{[]string{"move", "moving", "home", "house"}, "the changes at home"},
}

const defaultSubject = "this situation"

var genericReflections = map[string][]string{
	"anxious": {
		"It sounds like your thoughts about %s have been weighing on you, and feeling anxious about it is understandable.",
		"Worrying about %s shows how much it matters to you; try to take it one step at a time.",
	},
	"sad": {
		"It sounds like things around %s have been really hard, and it is okay to let yourself feel sad about it.",
		"The sadness you feel about %s deserves space and kindness, especially from yourself.",
	},
	"angry": {
		"Feeling angry about %s makes sense; that anger may be pointing at something important to you.",
		"It is understandable to feel angry when things with %s do not go the way they should.",
	},
	"frustrated": {
		"It sounds like dealing with %s has been frustrating, and it is okay to step back before trying again.",
		"Hitting walls with %s is exhausting, and your frustration is a natural response.",
	},
	"overwhelmed": {
		"There seems to be a lot going on with %s, and feeling overwhelmed is a natural response to that.",
		"When everything around %s feels like too much, breaking it into smaller pieces can make it lighter.",
	},
	"lonely": {
		"Feeling alone with %s is painful, and reaching out, even a little, can help.",
		"It sounds like dealing with %s has left you feeling disconnected; that feeling is valid and you deserve support.",
	},
	"happy": {
		"It is wonderful to hear that things around %s are bringing you joy; take a moment to savor it.",
		"It sounds like things with %s are going well, and you deserve to enjoy this feeling.",
	},
	"excited": {
		"Your excitement about %s really comes through, and it is great to have something to look forward to.",
		"It is lovely to feel this energized about %s.",
	},
	"grateful": {
		"Noticing what you are grateful for in %s is a meaningful practice.",
		"It is beautiful that you found something to appreciate in %s.",
	},
	"calm": {
		"It sounds like you found some calm around %s, and that steadiness is worth holding on to.",
		"Feeling at peace with %s is something to appreciate.",
	},
	"neutral": {
		"Thank you for taking the time to reflect on %s; writing it down is a meaningful step.",
		"Putting your thoughts about %s into words can help bring some clarity.",
	},
}

const lastResortReflection = "Thank you for taking a moment to reflect on your day; writing it down is a meaningful step."

// ReflectionGenerator produce una frase empática según emoción y tema del texto.
type ReflectionGenerator struct {
	pick Picker
}

func NewReflectionGenerator(pick Picker) *ReflectionGenerator {
	if pick == nil {
		pick = RandomPicker()
	}
	return &ReflectionGenerator{pick: pick}
}

// GenerateContentBasedReflection nunca devuelve un string vacío.
func (g *ReflectionGenerator) GenerateContentBasedReflection(entryText, emotion string) string {
	lower := normalize(entryText)
	tokens := tokenize(lower)
	tone := toneOf(emotion)

	for _, cluster := range subjectClusters {
		if !containsAnyWord(tokens, cluster.keywords) {
			continue
		}
		if templates, ok := cluster.templates[tone]; ok && len(templates) > 0 {
			return pickOne(g.pick, templates)
		}
	}

	templates, ok := genericReflections[CanonicalEmotion(emotion)]
	if !ok {
		templates = genericReflections["neutral"]
	}
	out := strings.TrimSpace(fmt.Sprintf(pickOne(g.pick, templates), extractSubject(lower, tokens)))
	if out == "" {
		return lastResortReflection
	}
	return out
}

func extractSubject(lower string, tokens map[string]struct{}) string {
	for _, sp := range subjectPhrases {
		for _, kw := range sp.keywords {
			if strings.Contains(kw, " ") {
				if strings.Contains(lower, kw) {
					return sp.subject
				}
				continue
			}
			if containsAnyWord(tokens, []string{kw}) {
				return sp.subject
			}
		}
	}
	return defaultSubject
}
