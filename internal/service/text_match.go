package service

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const minSentenceRunes = 10

// normalize baja a minúsculas y unifica apóstrofes tipográficos.
// Ej: "Can’t" -> "can't"
func normalize(s string) string {
	s = strings.ToLower(s)
	return strings.NewReplacer("’", "'", "‘", "'").Replace(s)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\''
}

// tokenize devuelve el conjunto de palabras completas del texto normalizado.
func tokenize(normalized string) map[string]struct{} {
	words := strings.FieldsFunc(normalized, func(r rune) bool { return !isWordRune(r) })
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.Trim(w, "'")] = struct{}{}
	}
	return set
}

func containsAny(s string, list []string) bool {
	for _, x := range list {
		if strings.Contains(s, x) {
			return true
		}
	}
	return false
}

// containsPhrase busca la frase sin cortar palabras en sus extremos.
// Ej: "hate me" no dispara en "hate meetings".
func containsPhrase(s, phrase string) bool {
	first, _ := utf8.DecodeRuneInString(phrase)
	last, _ := utf8.DecodeLastRuneInString(phrase)
	for from := 0; from <= len(s)-len(phrase); {
		i := strings.Index(s[from:], phrase)
		if i < 0 {
			return false
		}
		start, end := from+i, from+i+len(phrase)
		before, _ := utf8.DecodeLastRuneInString(s[:start])
		after, _ := utf8.DecodeRuneInString(s[end:])
		okStart := start == 0 || !isWordRune(first) || !isWordRune(before)
		okEnd := end == len(s) || !isWordRune(last) || !isWordRune(after)
		if okStart && okEnd {
			return true
		}
		_, size := utf8.DecodeRuneInString(s[start:])
		from = start + size
	}
	return false
}

func containsAnyWord(tokens map[string]struct{}, words []string) bool {
	for _, w := range words {
		if _, ok := tokens[w]; ok {
			return true
		}
	}
	return false
}

// keywordSet separa palabras sueltas (match de palabra completa) de frases (match por substring).
type keywordSet struct {
	words   []string
	phrases []string
}

func newKeywordSet(terms ...string) keywordSet {
	var ks keywordSet
	for _, t := range terms {
		t = normalize(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if strings.IndexFunc(t, func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsDigit(r) }) >= 0 {
			ks.phrases = append(ks.phrases, t)
			continue
		}
		ks.words = append(ks.words, t)
	}
	return ks
}

// matchCounts devuelve cuántas palabras y frases distintas aparecen en el texto.
func (k keywordSet) matchCounts(normalized string, tokens map[string]struct{}) (words, phrases int) {
	for _, w := range k.words {
		if _, ok := tokens[w]; ok {
			words++
		}
	}
	for _, p := range k.phrases {
		if containsPhrase(normalized, p) {
			phrases++
		}
	}
	return words, phrases
}

func (k keywordSet) matches(normalized string) int {
	w, p := k.matchCounts(normalized, tokenize(normalized))
	return w + p
}

func (k keywordSet) empty() bool {
	return len(k.words) == 0 && len(k.phrases) == 0
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// sentenceSpans corta por . ! ? y conserva la puntuación final de cada oración.
func sentenceSpans(text string) []string {
	var out []string
	start := 0
	inEnd := false
	for i, r := range text {
		switch {
		case isSentenceEnd(r):
			inEnd = true
		case inEnd:
			out = append(out, text[start:i])
			start = i
			inEnd = false
		}
	}
	if start < len(text) {
		out = append(out, text[start:])
	}
	return out
}

// splitSentences corta por . ! ? y descarta fragmentos cortos.
// Cada oración devuelta es un substring literal del texto original.
func splitSentences(text string) []string {
	spans := sentenceSpans(text)
	out := make([]string, 0, len(spans))
	for _, p := range spans {
		p = strings.TrimSpace(strings.TrimRightFunc(strings.TrimSpace(p), isSentenceEnd))
		if utf8.RuneCountInString(p) < minSentenceRunes {
			continue
		}
		out = append(out, p)
	}
	return out
}

// sentencesMatching devuelve hasta limit oraciones que contienen algún término del set.
func sentencesMatching(text string, ks keywordSet, limit int) []string {
	var out []string
	for _, s := range splitSentences(text) {
		if len(out) >= limit {
			break
		}
		if ks.matches(normalize(s)) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// IsVerbatimSubstring indica si needle aparece literalmente (sin distinguir mayúsculas) en haystack.
// Es la frontera de confianza entre lo que devuelve el modelo y lo que se atribuye al usuario.
func IsVerbatimSubstring(haystack, needle string) bool {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return false
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
