package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
)

const analysisSystemPrompt = `You are an empathetic journaling assistant trained in cognitive behavioral therapy.
You read a person's journal entry and answer ONLY with a JSON object. Never invent quotes.`

const analysisPromptTemplate = `Analyze the following journal entry and return ONLY a JSON object with this shape:
{
  "emotion": "one of: anxious, sad, angry, frustrated, overwhelmed, lonely, happy, excited, grateful, calm, neutral",
  "confidence": 0.0-1.0,
  "cognitive_distortions": [
    {
      "type": "Catastrophizing | Mind Reading | All-or-Nothing Thinking | Fortune Telling | Overgeneralization | Should Statements | Labeling | Personalization",
      "description": "short explanation of the pattern in this entry",
      "user_quotes": ["exact words copied from the entry"],
      "evidence": ["facts that challenge the thought"],
      "reframing_prompt": "a question that helps the writer reconsider",
      "severity": "low | medium | high"
    }
  ],
  "key_themes": ["work", "sleep"],
  "reflection": "one or two warm, validating sentences addressed to the writer",
  "suggested_activities": [
    {"title": "...", "description": "...", "duration": "5 min", "category": "breathing | movement | social | journaling | mindfulness | rest | planning"}
  ]
}

Rules:
- "user_quotes" must be copied EXACTLY from the entry, word for word. If you cannot quote it, do not report the distortion.
- Report at most 3 cognitive distortions, and none if the entry does not show any.
- Suggest at most 4 activities.

Journal entry:
"""
%s
"""`

// analysisPayload describe la respuesta esperada; solo se usa para generar el JSON schema.
type analysisPayload struct {
	Emotion              string              `json:"emotion" jsonschema:"required"`
	Confidence           float64             `json:"confidence" jsonschema:"required"`
	CognitiveDistortions []distortionPayload `json:"cognitive_distortions" jsonschema:"required"`
	KeyThemes            []string            `json:"key_themes" jsonschema:"required"`
	Reflection           string              `json:"reflection" jsonschema:"required"`
	SuggestedActivities  []activityPayload   `json:"suggested_activities" jsonschema:"required"`
}

type distortionPayload struct {
	Type            string   `json:"type" jsonschema:"required"`
	Description     string   `json:"description" jsonschema:"required"`
	UserQuotes      []string `json:"user_quotes" jsonschema:"required"`
	Evidence        []string `json:"evidence" jsonschema:"required"`
	ReframingPrompt string   `json:"reframing_prompt" jsonschema:"required"`
	Severity        string   `json:"severity" jsonschema:"required,enum=low,enum=medium,enum=high"`
}

type activityPayload struct {
	Title       string `json:"title" jsonschema:"required"`
	Description string `json:"description" jsonschema:"required"`
	Duration    string `json:"duration" jsonschema:"required"`
	Category    string `json:"category" jsonschema:"required"`
}

const analysisSchemaName = "JournalAnalysis"

var analysisSchema = generateSchema[analysisPayload]()

func buildAnalysisPrompt(entryText string) string {
	return fmt.Sprintf(analysisPromptTemplate, strings.TrimSpace(entryText))
}

func generateSchema[T any]() map[string]any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	schema := reflector.Reflect(v)
	b, err := schema.MarshalJSON()
	if err != nil {
		panic(err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		panic(err)
	}
	ensureStrictSchema(m)
	return m
}

// ensureStrictSchema fuerza additionalProperties=false y todos los campos requeridos (modo strict).
func ensureStrictSchema(schema map[string]any) {
	if t, ok := schema["type"].(string); ok && t == "object" {
		schema["additionalProperties"] = false
		if props, ok := schema["properties"].(map[string]any); ok {
			required := make([]string, 0, len(props))
			for name := range props {
				required = append(required, name)
			}
			if len(required) > 0 {
				schema["required"] = required
			}
		}
	}
	if props, ok := schema["properties"].(map[string]any); ok {
		for _, p := range props {
			if pm, ok := p.(map[string]any); ok {
				ensureStrictSchema(pm)
			}
		}
	}
	if items, ok := schema["items"].(map[string]any); ok {
		ensureStrictSchema(items)
	}
}
