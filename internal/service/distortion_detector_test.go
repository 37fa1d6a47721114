package service

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	"journal-insight/internal/domain"
)

func newTestDistortionDetector() *DistortionDetector {
	return NewDistortionDetector(DefaultScoringConfig(), zap.NewNop())
}

func assertQuotesVerbatim(t *testing.T, original string, distortions []domain.CognitiveDistortion) {
	t.Helper()
	for _, d := range distortions {
		if len(d.DetectedText) == 0 {
			t.Fatalf("distortion %q emitted without detected text", d.Type)
		}
		if len(d.UserQuotes) > 2 || len(d.DetectedText) > 2 {
			t.Fatalf("distortion %q has too many quotes: %+v", d.Type, d.UserQuotes)
		}
		for _, q := range d.UserQuotes {
			if !strings.Contains(strings.ToLower(original), strings.ToLower(q)) {
				t.Fatalf("quote %q is not part of the original text", q)
			}
		}
	}
}

func TestDetectCognitiveDistortions_CatastrophizingOnly(t *testing.T) {
	d := newTestDistortionDetector()
	text := "I always fail at everything and it's a complete disaster"

	got := d.DetectCognitiveDistortions(text)
	if len(got) != 1 {
		t.Fatalf("expected only catastrophizing, got %+v", got)
	}
	if got[0].Type != DistortionCatastrophizing {
		t.Fatalf("expected %s, got %s", DistortionCatastrophizing, got[0].Type)
	}
	if got[0].Severity != domain.SeverityMedium {
		t.Fatalf("expected medium severity with two matches, got %s", got[0].Severity)
	}
	if len(got[0].UserQuotes) != 1 || got[0].UserQuotes[0] != text {
		t.Fatalf("expected the whole sentence as quote, got %+v", got[0].UserQuotes)
	}
	if len(got[0].Evidence) == 0 || got[0].ReframingPrompt == "" || got[0].Description == "" {
		t.Fatalf("expected catalog fields to be filled, got %+v", got[0])
	}
	assertQuotesVerbatim(t, text, got)
}

func TestDetectCognitiveDistortions_MindReadingHighSeverity(t *testing.T) {
	d := newTestDistortionDetector()
	text := "I think everyone thinks I'm boring at work. They must think I'm useless."

	got := d.DetectCognitiveDistortions(text)
	if len(got) != 1 || got[0].Type != DistortionMindReading {
		t.Fatalf("expected mind reading only, got %+v", got)
	}
	if got[0].Severity != domain.SeverityHigh {
		t.Fatalf("expected high severity with four matches, got %s", got[0].Severity)
	}
	if len(got[0].DetectedText) != 2 {
		t.Fatalf("expected two sentences, got %+v", got[0].DetectedText)
	}
	assertQuotesVerbatim(t, text, got)
}

func TestDetectCognitiveDistortions_OrderAndCap(t *testing.T) {
	d := newTestDistortionDetector()
	text := "This is a total disaster and the worst day ever. My boss probably thinks I'm lazy. " +
		"I'm completely useless at this job. I'm going to fail the review tomorrow."

	got := d.DetectCognitiveDistortions(text)
	if len(got) != 3 {
		t.Fatalf("expected cap of 3 distortions, got %d", len(got))
	}
	want := []string{DistortionCatastrophizing, DistortionMindReading, DistortionAllOrNothing}
	for i, w := range want {
		if got[i].Type != w {
			t.Fatalf("expected %s at position %d, got %s", w, i, got[i].Type)
		}
	}
	assertQuotesVerbatim(t, text, got)
}

func TestDetectCognitiveDistortions_FortuneTelling(t *testing.T) {
	d := newTestDistortionDetector()
	text := "The interview is on Friday. I just know it won't work out for me."

	got := d.DetectCognitiveDistortions(text)
	if len(got) != 1 || got[0].Type != DistortionFortuneTelling {
		t.Fatalf("expected fortune telling, got %+v", got)
	}
	if got[0].UserQuotes[0] != "I just know it won't work out for me" {
		t.Fatalf("unexpected quote %q", got[0].UserQuotes[0])
	}
}

func TestDetectCognitiveDistortions_SkipsShortFragments(t *testing.T) {
	d := newTestDistortionDetector()

	if got := d.DetectCognitiveDistortions("Never. Always."); len(got) != 0 {
		t.Fatalf("expected no distortion without a quotable sentence, got %+v", got)
	}
	if got := d.DetectCognitiveDistortions(""); len(got) != 0 {
		t.Fatalf("expected no distortion for empty text, got %+v", got)
	}
}

func TestDetectCognitiveDistortions_PhrasesRespectWordBoundaries(t *testing.T) {
	d := newTestDistortionDetector()
	if got := d.DetectCognitiveDistortions("I really hate meetings that run over time."); len(got) != 0 {
		t.Fatalf("expected no distortion inside a longer word, got %+v", got)
	}
}

func TestParseDistortionsFromAI_DropsHallucinatedQuotes(t *testing.T) {
	d := newTestDistortionDetector()
	original := "I bombed the presentation. Everyone thinks I'm a joke now."
	raw := []any{
		map[string]any{
			"type":        "Mind Reading",
			"user_quotes": []any{"They all laugh at me behind my back"},
			"severity":    "SEVERE",
		},
	}

	got := d.ParseDistortionsFromAI(raw, original)
	if len(got) != 1 {
		t.Fatalf("expected distortion recovered from keyword extraction, got %+v", got)
	}
	if got[0].UserQuotes[0] != "Everyone thinks I'm a joke now" {
		t.Fatalf("expected fallback sentence from the entry, got %+v", got[0].UserQuotes)
	}
	if got[0].Severity != domain.SeverityHigh {
		t.Fatalf("expected severe to normalize to high, got %s", got[0].Severity)
	}
	if got[0].Description == "" || len(got[0].Evidence) == 0 || got[0].ReframingPrompt == "" {
		t.Fatalf("expected catalog defaults, got %+v", got[0])
	}
	assertQuotesVerbatim(t, original, got)
}

func TestParseDistortionsFromAI_KeepsVerbatimQuotesCaseInsensitive(t *testing.T) {
	d := newTestDistortionDetector()
	original := "I bombed the presentation. Everyone thinks I'm a joke now."
	raw := []any{
		map[string]any{
			"type":             "mind-reading",
			"description":      "Assuming the audience judged you.",
			"user_quotes":      []any{"  everyone THINKS i'm a joke ", "invented sentence", "I bombed the presentation", "a joke now"},
			"evidence":         []any{"Nobody said anything negative."},
			"reframing_prompt": "What did people actually say?",
			"severity":         "low",
		},
	}

	got := d.ParseDistortionsFromAI(raw, original)
	if len(got) != 1 {
		t.Fatalf("expected one distortion, got %+v", got)
	}
	q := got[0].UserQuotes
	if len(q) != 2 || q[0] != "everyone THINKS i'm a joke" || q[1] != "I bombed the presentation" {
		t.Fatalf("expected the first two verbatim quotes, got %+v", q)
	}
	if got[0].Description != "Assuming the audience judged you." || got[0].Severity != domain.SeverityLow {
		t.Fatalf("expected remote fields to be kept, got %+v", got[0])
	}
	if len(got[0].Evidence) != 1 || got[0].ReframingPrompt != "What did people actually say?" {
		t.Fatalf("unexpected evidence or prompt: %+v", got[0])
	}
}

func TestParseDistortionsFromAI_DiscardsUnsupported(t *testing.T) {
	d := newTestDistortionDetector()
	original := "Work was fine today and dinner was nice."
	raw := []any{
		map[string]any{"type": "Magnification", "user_quotes": []any{"everything is ruined"}},
		map[string]any{"type": "Catastrophizing", "user_quotes": []any{"it is the end"}},
		map[string]any{"type": "", "user_quotes": []any{"Work was fine today"}},
		"not an object",
	}

	if got := d.ParseDistortionsFromAI(raw, original); len(got) != 0 {
		t.Fatalf("expected all distortions discarded, got %+v", got)
	}
}

func TestParseDistortionsFromAI_ExtraTypesAndCap(t *testing.T) {
	d := newTestDistortionDetector()
	original := "I should have known better. It's my fault the project slipped. I'm a failure at this. Nobody ever helps me out."
	raw := []any{
		map[string]any{"type": "Should Statements"},
		map[string]any{"type": "Personalization"},
		map[string]any{"type": "Labeling"},
		map[string]any{"type": "Overgeneralization"},
	}

	got := d.ParseDistortionsFromAI(raw, original)
	if len(got) != 3 {
		t.Fatalf("expected cap of 3, got %d", len(got))
	}
	if got[0].UserQuotes[0] != "I should have known better" {
		t.Fatalf("unexpected should-statement quote %q", got[0].UserQuotes[0])
	}
	if got[1].UserQuotes[0] != "It's my fault the project slipped" {
		t.Fatalf("unexpected personalization quote %q", got[1].UserQuotes[0])
	}
	if got[0].Severity != domain.SeverityMedium {
		t.Fatalf("expected default medium severity, got %s", got[0].Severity)
	}
	assertQuotesVerbatim(t, original, got)
}

func TestParseDistortionsFromAI_NonArrayInput(t *testing.T) {
	d := newTestDistortionDetector()
	for _, raw := range []any{nil, "Catastrophizing", map[string]any{"type": "Catastrophizing"}, 42.0} {
		got := d.ParseDistortionsFromAI(raw, "some text here")
		if got == nil || len(got) != 0 {
			t.Fatalf("expected empty non-nil slice for %v, got %#v", raw, got)
		}
	}
}

func TestIsVerbatimSubstring(t *testing.T) {
	cases := []struct {
		haystack, needle string
		want             bool
	}{
		{"I Feel Lost Today", "feel lost", true},
		{"I feel lost today", "  FEEL LOST  ", true},
		{"I feel lost today", "feeling lost", false},
		{"I feel lost today", "", false},
		{"I feel lost today", "   ", false},
		{"", "anything", false},
	}
	for _, tc := range cases {
		if got := IsVerbatimSubstring(tc.haystack, tc.needle); got != tc.want {
			t.Fatalf("IsVerbatimSubstring(%q, %q) = %v, want %v", tc.haystack, tc.needle, got, tc.want)
		}
	}
}
