package ner

import (
	"regexp"
	"strings"
)

// phraseRe matches runs of capitalized tokens, optionally joined by a single
// lowercase connective ("University of California", "Bank of America").
var phraseRe = regexp.MustCompile(`[A-Z][A-Za-z.&'-]*(?:[ \t]+(?:(?:of|and|the|for|de)[ \t]+)?[A-Z][A-Za-z.&'-]*){0,5}`)

// orgKeywords mark a capitalized phrase as an organization.
var orgKeywords = map[string]bool{
	"university": true, "universitas": true, "institute": true, "institut": true,
	"college": true, "school": true, "academy": true,
	"inc": true, "llc": true, "ltd": true, "corp": true, "corporation": true,
	"company": true, "technologies": true, "technology": true, "solutions": true,
	"systems": true, "labs": true, "laboratories": true, "group": true,
	"software": true, "consulting": true, "bank": true, "media": true,
	"partners": true, "ventures": true, "agency": true,
}

// notPersonWords are capitalized words that start resumes but are never names:
// section headers, document labels, months, and role words.
var notPersonWords = map[string]bool{
	"resume": true, "cv": true, "curriculum": true, "vitae": true,
	"summary": true, "objective": true, "profile": true, "contact": true,
	"education": true, "experience": true, "skills": true, "projects": true,
	"references": true, "certifications": true, "employment": true,
	"professional": true, "career": true, "personal": true,
	"january": true, "february": true, "march": true, "april": true,
	"may": true, "june": true, "july": true, "august": true,
	"september": true, "october": true, "november": true, "december": true,
	"engineer": true, "developer": true, "manager": true, "analyst": true,
	"designer": true, "consultant": true, "architect": true, "scientist": true,
	"director": true, "specialist": true, "senior": true, "junior": true,
	"lead": true, "intern": true,
}

// Heuristic is a rule-based Recognizer for English text. It classifies
// capitalized phrases as ORG when they contain an organization keyword and as
// PERSON when they look like a short run of name tokens.
type Heuristic struct{}

// NewHeuristic returns a ready-to-use heuristic recognizer.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// Recognize implements Recognizer.
func (h *Heuristic) Recognize(text string) []Entity {
	var entities []Entity
	for _, loc := range phraseRe.FindAllStringIndex(text, -1) {
		phrase := text[loc[0]:loc[1]]
		label, ok := classify(phrase)
		if !ok {
			continue
		}
		entities = append(entities, Entity{
			Text:  phrase,
			Label: label,
			Start: loc[0],
			End:   loc[1],
		})
	}
	return entities
}

func classify(phrase string) (Label, bool) {
	tokens := strings.Fields(phrase)
	if len(tokens) == 0 {
		return "", false
	}

	for _, tok := range tokens {
		if orgKeywords[normalizeToken(tok)] {
			return Org, true
		}
	}

	// Person candidates: 1-4 alphabetic tokens, none of which is a known
	// non-name word.
	if len(tokens) > 4 {
		return "", false
	}
	for _, tok := range tokens {
		clean := normalizeToken(tok)
		if clean == "" || notPersonWords[clean] {
			return "", false
		}
		for _, r := range clean {
			if r < 'a' || r > 'z' {
				return "", false
			}
		}
	}
	if len(tokens) == 1 && len(normalizeToken(tokens[0])) < 3 {
		return "", false
	}
	return Person, true
}

// normalizeToken lowercases a token and strips punctuation that the phrase
// regex tolerates inside words.
func normalizeToken(tok string) string {
	return strings.Trim(strings.ToLower(tok), ".,&'-")
}
