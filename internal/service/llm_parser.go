package service

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// decodeLLMObject intenta obtener un objeto JSON de una respuesta del modelo con texto extra.
// Primero prueba el tramo entre la primera '{' y la última '}', luego el primer objeto balanceado.
func decodeLLMObject(raw string) (map[string]any, bool) {
	cleaned := CleanLLMJSONResponse(raw)

	candidates := []string{
		extractJSONSpan(cleaned),
		extractFirstJSONObject(cleaned),
		extractFirstJSONObject(raw),
	}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		var out map[string]any
		if err := json.Unmarshal([]byte(c), &out); err == nil && out != nil {
			return out, true
		}
	}
	return nil, false
}

// ExtractStringFieldByRegex intenta extraer el valor string de field aunque el JSON esté sucio.
func ExtractStringFieldByRegex(s, field string) (string, bool) {
	re, err := regexp.Compile(`(?is)"` + regexp.QuoteMeta(field) + `"\s*:\s*"((?:\\.|[^"\\])*)"`)
	if err != nil {
		return "", false
	}
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return "", false
	}

	raw := m[1]
	unq, err := strconv.Unquote(`"` + raw + `"`)
	if err != nil {
		unq = unescapeMinimalEscapes(raw)
	}
	unq = strings.TrimSpace(UnescapeMaybeDoubleEscaped(unq))
	if unq == "" {
		return "", false
	}
	return unq, true
}

// UnescapeMaybeDoubleEscaped intenta arreglar casos donde el modelo manda texto doble-escapado.
func UnescapeMaybeDoubleEscaped(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}

	if !strings.Contains(s, `\`) {
		return s
	}

	quoted := `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	if unq, err := strconv.Unquote(quoted); err == nil {
		return strings.TrimSpace(unq)
	}

	return unescapeMinimalEscapes(s)
}

func unescapeMinimalEscapes(s string) string {
	replacer := strings.NewReplacer(
		`\\`, `\`,
		`\"`, `"`,
		`\n`, "\n",
		`\r`, "\r",
		`\t`, "\t",
	)
	return replacer.Replace(s)
}

/*
========================
 Acceso tolerante a campos
========================
*/

func asObject(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok && m != nil
}

func asArray(v any) ([]any, bool) {
	a, ok := v.([]any)
	return a, ok
}

// fieldValue devuelve el primer campo presente entre keys.
func fieldValue(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func fieldString(m map[string]any, keys ...string) string {
	v, ok := fieldValue(m, keys...)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

func fieldFloat(m map[string]any, keys ...string) (float64, bool) {
	v, ok := fieldValue(m, keys...)
	if !ok {
		return 0, false
	}
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// fieldStrings acepta una lista de strings o un string suelto.
func fieldStrings(m map[string]any, keys ...string) []string {
	v, ok := fieldValue(m, keys...)
	if !ok {
		return nil
	}
	var out []string
	switch t := v.(type) {
	case string:
		if s := strings.TrimSpace(t); s != "" {
			out = append(out, s)
		}
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
	}
	return out
}
