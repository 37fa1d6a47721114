package service

import (
	"sort"
	"strings"
	"testing"
)

func TestAnalysisSchemaIsStrict(t *testing.T) {
	if analysisSchema["type"] != "object" || analysisSchema["additionalProperties"] != false {
		t.Fatalf("expected strict root object, got %v", analysisSchema)
	}
	required, ok := analysisSchema["required"].([]string)
	if !ok {
		t.Fatalf("expected required list, got %T", analysisSchema["required"])
	}
	sort.Strings(required)
	want := "cognitive_distortions,confidence,emotion,key_themes,reflection,suggested_activities"
	if strings.Join(required, ",") != want {
		t.Fatalf("expected every field required, got %v", required)
	}

	props := analysisSchema["properties"].(map[string]any)
	distortions := props["cognitive_distortions"].(map[string]any)
	items := distortions["items"].(map[string]any)
	if items["additionalProperties"] != false {
		t.Fatalf("expected nested objects to be strict, got %v", items)
	}
}

func TestBuildAnalysisPrompt(t *testing.T) {
	p := buildAnalysisPrompt("  I slept badly again.  ")
	if !strings.Contains(p, "\"\"\"\nI slept badly again.\n\"\"\"") {
		t.Fatalf("expected trimmed entry between delimiters, got %q", p)
	}
	if strings.Contains(p, "%!") {
		t.Fatalf("prompt has formatting artifacts: %q", p)
	}
}
