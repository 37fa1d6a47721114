package main

import (
	"fmt"
	"strings"

	"journal-insight/internal/domain"
	"journal-insight/internal/service"
)

const (
	maxDistortions = 3
	maxQuotes      = 2
	maxActivities  = 6
)

var validSeverities = map[string]bool{
	domain.SeverityLow:    true,
	domain.SeverityMedium: true,
	domain.SeverityHigh:   true,
}

// checkInvariants devuelve una descripción por cada regla que el resultado no cumple.
func checkInvariants(entry string, r domain.AnalysisResult) []string {
	var out []string

	if r.Emotion.Emotion == "" || r.Emotion.Emoji == "" {
		out = append(out, "emotion or emoji empty")
	}
	if r.Emotion.Confidence < 0.1 || r.Emotion.Confidence > 1.0 {
		out = append(out, fmt.Sprintf("confidence %.2f out of [0.1, 1.0]", r.Emotion.Confidence))
	}
	if r.SuggestedEmoji != r.Emotion.Emoji {
		out = append(out, fmt.Sprintf("suggested emoji %q differs from emotion emoji %q", r.SuggestedEmoji, r.Emotion.Emoji))
	}

	if r.Distortions == nil {
		out = append(out, "distortions is nil")
	}
	if len(r.Distortions) > maxDistortions {
		out = append(out, fmt.Sprintf("%d distortions (max %d)", len(r.Distortions), maxDistortions))
	}
	for _, d := range r.Distortions {
		if len(d.DetectedText) == 0 {
			out = append(out, fmt.Sprintf("%s without detected text", d.Type))
		}
		if len(d.UserQuotes) > maxQuotes || len(d.DetectedText) > maxQuotes {
			out = append(out, fmt.Sprintf("%s has more than %d quotes", d.Type, maxQuotes))
		}
		for _, q := range append(append([]string(nil), d.UserQuotes...), d.DetectedText...) {
			if !service.IsVerbatimSubstring(entry, q) {
				out = append(out, fmt.Sprintf("%s quote not in entry: %q", d.Type, q))
			}
		}
		if !validSeverities[d.Severity] {
			out = append(out, fmt.Sprintf("%s has invalid severity %q", d.Type, d.Severity))
		}
	}

	if len(r.Activities) > maxActivities {
		out = append(out, fmt.Sprintf("%d activities (max %d)", len(r.Activities), maxActivities))
	}
	seen := make(map[string]bool, len(r.Activities))
	for _, a := range r.Activities {
		key := strings.ToLower(strings.TrimSpace(a.Title))
		if key == "" {
			out = append(out, fmt.Sprintf("activity %q without title", a.ID))
			continue
		}
		if seen[key] {
			out = append(out, fmt.Sprintf("duplicated activity title %q", a.Title))
		}
		seen[key] = true
	}

	if strings.TrimSpace(r.Reflection) == "" {
		out = append(out, "empty reflection")
	}
	return out
}

// checkExpectations compara el resultado con lo esperado para un escenario fijo.
func checkExpectations(sc Scenario, r domain.AnalysisResult) []string {
	var out []string

	if sc.ExpectEmotion != "" && r.Emotion.Emotion != sc.ExpectEmotion {
		out = append(out, fmt.Sprintf("emotion %q, expected %q", r.Emotion.Emotion, sc.ExpectEmotion))
	}
	if sc.ExpectDistortions != nil {
		got := make([]string, 0, len(r.Distortions))
		for _, d := range r.Distortions {
			got = append(got, d.Type)
		}
		if strings.Join(got, "|") != strings.Join(sc.ExpectDistortions, "|") {
			out = append(out, fmt.Sprintf("distortions %v, expected %v", got, sc.ExpectDistortions))
		}
	}
	if sc.ExpectFirstActivity != "" {
		if len(r.Activities) == 0 || r.Activities[0].Title != sc.ExpectFirstActivity {
			out = append(out, fmt.Sprintf("first activity is not %q", sc.ExpectFirstActivity))
		}
	}
	for _, title := range sc.ExpectActivities {
		found := false
		for _, a := range r.Activities {
			if a.Title == title {
				found = true
				break
			}
		}
		if !found {
			out = append(out, fmt.Sprintf("missing activity %q", title))
		}
	}
	if sc.ForbidUserActivities {
		for _, a := range r.Activities {
			if strings.HasPrefix(a.ID, "user-") {
				out = append(out, fmt.Sprintf("unexpected toolkit activity %q", a.Title))
			}
		}
	}
	return out
}
