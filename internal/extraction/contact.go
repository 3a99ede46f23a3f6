package extraction

import (
	"regexp"
	"strings"

	"github.com/mkarlsson/cvscreen/internal/ner"
)

var (
	emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	// Phone patterns are tried in order: international/US punctuated first so
	// country codes survive, then parenthesized US, then bare 10 digits.
	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\+?\d{1,3}[-.\s]?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`),
		regexp.MustCompile(`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`),
		regexp.MustCompile(`\d{10}`),
	}
	phoneLikeRe   = regexp.MustCompile(`\d{3}[-.\s]?\d{3}[-.\s]?\d{4}`)
	nonPhoneChars = regexp.MustCompile(`[^\d+]`)

	nameLabelRe = regexp.MustCompile(`(?i)(?:name|candidate)[\s:]+([A-Z][a-zA-Z\s.]+?)(?:\n|email|phone|$)`)
)

// headerScanSkipWords disqualify a line from being a name during the header
// scan fallback.
var headerScanSkipWords = []string{
	"curriculum", "vitae", "resume", "cv", "email", "phone",
	"address", "objective", "summary", "professional", "profile",
	"contact", "personal", "information",
}

// nameNoiseWords are stripped from entity-derived names.
var nameNoiseWords = map[string]bool{
	"email": true, "phone": true, "tel": true, "fax": true,
	"mobile": true, "address": true, "cv": true, "resume": true,
}

func extractEmail(text string) string {
	if m := emailRe.FindString(text); m != "" {
		return strings.ToLower(m)
	}
	return ""
}

func extractPhone(text string) string {
	for _, pattern := range phonePatterns {
		if m := pattern.FindString(text); m != "" {
			return nonPhoneChars.ReplaceAllString(m, "")
		}
	}
	return ""
}

// nameStrategy is one step in the name-extraction cascade. The first
// strategy returning a non-empty name wins.
type nameStrategy func(e *Extractor, text string, lines []string) string

var nameStrategies = []nameStrategy{
	nameFromSimpleLine,
	nameFromAllCapsLine,
	nameFromEntities,
	nameFromHeaderScan,
	nameFromLabel,
}

func (e *Extractor) extractName(text string) string {
	lines := strings.Split(text, "\n")
	for _, strategy := range nameStrategies {
		if name := strategy(e, text, lines); name != "" {
			return name
		}
	}
	return ""
}

// nameFromSimpleLine accepts the first of the first three non-empty lines
// that is 2-4 alphabetic tokens (dots/commas tolerated) and at most 50 chars.
func nameFromSimpleLine(_ *Extractor, _ string, lines []string) string {
	for _, line := range firstNonEmpty(lines, 3) {
		words := strings.Fields(line)
		if len(words) < 2 || len(words) > 4 || len(line) > 50 {
			continue
		}
		if allAlphaWords(words) {
			return strings.Join(words, " ")
		}
	}
	return ""
}

// nameFromAllCapsLine accepts a fully upper-case line of two or more
// alphabetic tokens within the first five non-empty lines.
func nameFromAllCapsLine(_ *Extractor, _ string, lines []string) string {
	for _, line := range firstNonEmpty(lines, 5) {
		words := strings.Fields(line)
		if len(words) < 2 || !isAllUpper(line) {
			continue
		}
		if allAlphaWords(words) {
			return strings.Join(words, " ")
		}
	}
	return ""
}

// nameFromEntities takes the first PERSON entity in the document header and
// strips trailing non-name words from it.
func nameFromEntities(e *Extractor, text string, _ []string) string {
	header := text
	if len(header) > 500 {
		header = header[:500]
	}
	for _, ent := range e.recognizer.Recognize(header) {
		if ent.Label != ner.Person {
			continue
		}
		words := strings.Fields(ent.Text)
		filtered := make([]string, 0, len(words))
		for _, w := range words {
			if !nameNoiseWords[strings.ToLower(w)] {
				filtered = append(filtered, w)
			}
		}
		if len(filtered) >= 2 {
			return strings.Join(filtered, " ")
		}
		if len(filtered) == 1 && len(words) == 1 {
			return filtered[0]
		}
		return ""
	}
	return ""
}

// nameFromHeaderScan walks the first ten lines, skipping header-like and
// contact lines, and accepts 1-4 mostly-alphabetic tokens. A single token is
// accepted only on the very first line.
func nameFromHeaderScan(_ *Extractor, _ string, lines []string) string {
	limit := len(lines)
	if limit > 10 {
		limit = 10
	}
	for i := 0; i < limit; i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || len(line) > 60 {
			continue
		}
		lower := strings.ToLower(line)
		if containsAny(lower, headerScanSkipWords) {
			continue
		}
		if strings.Contains(line, "@") || phoneLikeRe.MatchString(line) {
			continue
		}

		words := strings.Fields(line)
		if len(words) < 1 || len(words) > 4 {
			continue
		}
		var valid []string
		for _, word := range words {
			clean := cleanWord(word)
			if clean == "" {
				continue
			}
			if isAlpha(clean) || (len(clean) <= 3 && hasAlpha(clean)) {
				valid = append(valid, word)
			}
		}

		if len(valid) >= 2 {
			var filtered []string
			for _, w := range valid {
				if !nameNoiseWords[strings.ToLower(w)] {
					filtered = append(filtered, w)
				}
			}
			if len(filtered) >= 2 {
				return strings.Join(filtered, " ")
			}
			return strings.Join(valid[:2], " ")
		}
		if i == 0 && len(valid) >= 1 {
			return strings.Join(valid, " ")
		}
	}
	return ""
}

// nameFromLabel matches an explicit "Name: ..." or "Candidate: ..." label in
// the document header.
func nameFromLabel(_ *Extractor, text string, _ []string) string {
	header := text
	if len(header) > 500 {
		header = header[:500]
	}
	m := nameLabelRe.FindStringSubmatch(header)
	if m == nil {
		return ""
	}
	name := strings.TrimSpace(m[1])
	if n := len(strings.Fields(name)); n >= 2 && n <= 4 {
		return name
	}
	return ""
}

func firstNonEmpty(lines []string, n int) []string {
	var out []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
		if len(out) == n {
			break
		}
	}
	return out
}

func cleanWord(word string) string {
	return strings.NewReplacer(".", "", ",", "", "'", "").Replace(word)
}

func allAlphaWords(words []string) bool {
	for _, word := range words {
		clean := cleanWord(word)
		if clean == "" || !isAlpha(clean) {
			return false
		}
	}
	return true
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
			return false
		}
	}
	return s != ""
}

func hasAlpha(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}

func isAllUpper(s string) bool {
	return hasAlpha(s) && s == strings.ToUpper(s)
}

func containsAny(s string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}
