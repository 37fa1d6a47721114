package service

import (
	"strings"
	"testing"

	"journal-insight/internal/domain"
)

func activityTitles(in []domain.ActivitySuggestion) []string {
	out := make([]string, 0, len(in))
	for _, a := range in {
		out = append(out, a.Title)
	}
	return out
}

func TestCanonicalEmotion(t *testing.T) {
	cases := map[string]string{
		"Anxiety":   "anxious",
		" anxious ": "anxious",
		"SADNESS":   "sad",
		"Hopeful":   "hopeful",
		"":          "",
	}
	for in, want := range cases {
		if got := CanonicalEmotion(in); got != want {
			t.Fatalf("CanonicalEmotion(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGenerateContextualActivities_CatalogOnlyWithoutToolkit(t *testing.T) {
	g := NewActivityGenerator()

	got := g.GenerateContextualActivities("I keep worrying about tomorrow.", "anxious", "", nil, true)
	titles := activityTitles(got)
	if len(titles) != 2 || titles[0] != "Box Breathing" || titles[1] != "5-4-3-2-1 Grounding" {
		t.Fatalf("expected anxious catalog, got %v", titles)
	}
	for _, a := range got {
		if strings.HasPrefix(a.ID, userActivityPrefix) {
			t.Fatalf("unexpected user activity %+v", a)
		}
	}
}

func TestGenerateContextualActivities_ToolkitFirstWithAliasMatch(t *testing.T) {
	g := NewActivityGenerator()
	toolkit := []domain.EmotionalToolkitItem{
		{Emotion: "Anxiety", Actions: []string{"Call mom", "  ", "box breathing"}},
		{Emotion: "happy", Actions: []string{"Dance"}},
	}

	got := g.GenerateContextualActivities("Big day tomorrow.", "anxious", "", toolkit, false)
	titles := activityTitles(got)
	want := []string{"Call mom", "box breathing", "5-4-3-2-1 Grounding"}
	if strings.Join(titles, "|") != strings.Join(want, "|") {
		t.Fatalf("expected %v, got %v", want, titles)
	}
	if got[0].ID != "user-1" || got[1].ID != "user-2" {
		t.Fatalf("expected sequential user ids, got %q and %q", got[0].ID, got[1].ID)
	}
	if got[0].Category != "personal" || got[0].Description != "Your personal strategy for when you feel anxious." {
		t.Fatalf("unexpected user activity fields: %+v", got[0])
	}
}

func TestGenerateContextualActivities_UnknownEmotionUsesDefaultCatalog(t *testing.T) {
	g := NewActivityGenerator()

	got := g.GenerateContextualActivities("Nothing in particular.", "bewildered", "", nil, false)
	titles := activityTitles(got)
	if len(titles) != 2 || titles[0] != "Box Breathing" {
		t.Fatalf("expected anxious catalog fallback, got %v", titles)
	}
}

func TestGenerateContextualActivities_TriggersAndCap(t *testing.T) {
	g := NewActivityGenerator()
	toolkit := []domain.EmotionalToolkitItem{
		{Emotion: "sad", Actions: []string{"Journal", "Call a friend", "Make tea"}},
	}
	text := "My boss yelled at me, my partner is away and I'm too tired to sleep."

	got := g.GenerateContextualActivities(text, "sad", "", toolkit, false)
	if len(got) != maxActivities {
		t.Fatalf("expected cap of %d, got %d: %v", maxActivities, len(got), activityTitles(got))
	}
	titles := activityTitles(got)
	want := []string{"Journal", "Call a friend", "Make tea", "Gentle Walk Outside", "Self-Compassion Letter", "Break Tasks Into Steps"}
	if strings.Join(titles, "|") != strings.Join(want, "|") {
		t.Fatalf("expected %v, got %v", want, titles)
	}
}

func TestGenerateContextualActivities_TriggersMatchWholeWords(t *testing.T) {
	g := NewActivityGenerator()

	got := activityTitles(g.GenerateContextualActivities("Fixed the home network and finished homework.", "calm", "", nil, false))
	if strings.Join(got, "|") != "Mindful Minute" {
		t.Fatalf("expected no trigger inside longer words, got %v", got)
	}
	got = activityTitles(g.GenerateContextualActivities("Working late again.", "calm", "", nil, false))
	if len(got) != 2 || got[1] != "Break Tasks Into Steps" {
		t.Fatalf("expected work trigger, got %v", got)
	}
}

func TestGenerateContextualActivities_AuxiliaryTextOnlyWhenAIEnabled(t *testing.T) {
	g := NewActivityGenerator()
	aux := `{"reflection":"It sounds like sleep has been hard lately"}`

	off := activityTitles(g.GenerateContextualActivities("Today was long.", "calm", aux, nil, false))
	if len(off) != 1 {
		t.Fatalf("expected auxiliary text ignored when disabled, got %v", off)
	}
	on := activityTitles(g.GenerateContextualActivities("Today was long.", "calm", aux, nil, true))
	if len(on) != 2 || on[1] != "Wind-Down Routine" {
		t.Fatalf("expected sleep trigger from auxiliary text, got %v", on)
	}
}

func TestParseActivitiesFromAI(t *testing.T) {
	g := NewActivityGenerator()

	t.Run("defaults and strings", func(t *testing.T) {
		raw := []any{
			map[string]any{"title": "Stretch", "category": "Movement"},
			"Drink water",
			map[string]any{},
			42.0,
		}
		got := g.ParseActivitiesFromAI(raw)
		if len(got) != 3 {
			t.Fatalf("expected 3 activities, got %+v", got)
		}
		if got[0].Title != "Stretch" || got[0].Category != "movement" || got[0].Duration != "5 min" {
			t.Fatalf("unexpected first activity %+v", got[0])
		}
		if got[0].ID != "ai-1" || got[1].ID != "ai-2" {
			t.Fatalf("unexpected ids %q %q", got[0].ID, got[1].ID)
		}
		if got[1].Title != "Drink water" || got[1].Description != "Take a few minutes to check in with yourself." {
			t.Fatalf("unexpected string activity %+v", got[1])
		}
		if got[2].Title != "Mindful Moment" || got[2].Category != "wellness" {
			t.Fatalf("expected defaults for empty object, got %+v", got[2])
		}
	})

	t.Run("cap", func(t *testing.T) {
		raw := []any{"a", "b", "c", "d", "e", "f"}
		if got := g.ParseActivitiesFromAI(raw); len(got) != maxRemoteActivities {
			t.Fatalf("expected %d activities, got %d", maxRemoteActivities, len(got))
		}
	})

	t.Run("non array", func(t *testing.T) {
		for _, raw := range []any{nil, "walk", map[string]any{"title": "walk"}} {
			got := g.ParseActivitiesFromAI(raw)
			if got == nil || len(got) != 0 {
				t.Fatalf("expected empty slice for %v, got %#v", raw, got)
			}
		}
	})
}

func TestMergeActivities(t *testing.T) {
	g := NewActivityGenerator()
	local := []domain.ActivitySuggestion{
		{ID: "user-1", Title: "Call mom"},
		{ID: "anxious-box-breathing", Title: "Box Breathing"},
		{ID: "anxious-grounding", Title: "5-4-3-2-1 Grounding"},
	}
	remote := []domain.ActivitySuggestion{
		{ID: "ai-1", Title: "Short walk"},
		{ID: "ai-2", Title: "box breathing"},
	}

	got := activityTitles(g.MergeActivities(local, remote))
	want := []string{"Call mom", "Short walk", "box breathing", "5-4-3-2-1 Grounding"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
