package extraction

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mkarlsson/cvscreen/internal/ner"
	"github.com/mkarlsson/cvscreen/internal/taxonomy"
	"github.com/mkarlsson/cvscreen/internal/types"
)

// degreeContextRadius is how far around a degree mention the institution,
// year and field are searched for.
const degreeContextRadius = 200

var educationKeywords = []string{"education", "academic", "qualification"}

// degreePatterns are tried independently; all matches of every pattern
// produce an entry candidate.
var degreePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(Ph\.?D\.?|Doctor of Philosophy|Doctorate)\b`),
	regexp.MustCompile(`(?i)\b(Master(?:'?s)?|M\.?S\.?|M\.?A\.?|MBA|M\.?Tech|M\.?Eng)\b`),
	regexp.MustCompile(`(?i)\b(Bachelor(?:'?s)?|B\.?S\.?|B\.?A\.?|B\.?Tech|B\.?Eng|Undergraduate)\b`),
	regexp.MustCompile(`(?i)\b(Associate(?:'?s)?|A\.?S\.?|A\.?A\.?)\b`),
	regexp.MustCompile(`(?i)\b(Diploma|Certificate)\b`),
}

// institutionPatterns match explicit university/institute/college naming
// shapes; tried before falling back to ORG entities.
var institutionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(Universitas\s+[A-Za-z]+(?:\s+[A-Z][a-zA-Z]+)?)`),
	regexp.MustCompile(`(?i)(University\s+of\s+[A-Za-z]+(?:\s+[A-Z][a-zA-Z]+)?)`),
	regexp.MustCompile(`(?i)([A-Za-z]+\s+University)`),
	regexp.MustCompile(`(?i)(Institut\s+[A-Za-z]+(?:\s+[A-Z][a-zA-Z]+)?)`),
	regexp.MustCompile(`(?i)([A-Za-z]+\s+Institute)`),
	regexp.MustCompile(`(?i)([A-Za-z]+\s+College)`),
}

var (
	yearDigitsRe       = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)
	fieldAfterInOfRe   = regexp.MustCompile(`(?i)(?:in|of)\s+([A-Z][a-zA-Z\s]+?)(?:\s*,|\s*\n|\s+at|\s+from|\s+-)`)
	fieldNoiseRe       = regexp.MustCompile(`(?i)\b(degree|program|major|concentration|specialization|science)\b`)
	trailingPunctRe    = regexp.MustCompile(`[\s\-–,;.]+$`)
	collapseSpaceRe    = regexp.MustCompile(`\s+`)
	newlineRe          = regexp.MustCompile(`[\n\r]+`)
)

// degreeProgramWords disqualify an ORG entity from being an institution:
// they indicate the entity is really a program or student body.
var degreeProgramWords = []string{
	"undergraduate", "bachelor", "master", "phd", "informatics",
	"engineering", "science", "student", "association",
}

// institutionKeywords disqualify a candidate field of study.
var institutionKeywords = []string{
	"university", "universitas", "institute", "institut", "college", "school",
}

func (e *Extractor) extractEducation(text string) []types.EducationEntry {
	section, ok := FindSection(text, educationKeywords, commonSections)
	if !ok {
		return nil
	}

	var entries []types.EducationEntry
	for _, pattern := range degreePatterns {
		for _, loc := range pattern.FindAllStringIndex(section, -1) {
			degree := section[loc[0]:loc[1]]
			context := Window(section, loc[0], loc[1], degreeContextRadius, degreeContextRadius)

			entry := types.EducationEntry{
				Degree:      degree,
				Field:       e.fieldOfStudy(degree, context),
				Institution: e.institution(context),
				Year:        maxYear(context),
				Level:       taxonomy.LevelForDegree(degree),
			}
			if !containsEntry(entries, entry) {
				entries = append(entries, entry)
			}
		}
	}
	return entries
}

// institution finds the awarding institution in a degree's context window:
// explicit naming patterns first, then a filtered ORG entity.
func (e *Extractor) institution(context string) string {
	for _, pattern := range institutionPatterns {
		if m := pattern.FindString(context); m != "" {
			m = newlineRe.ReplaceAllString(m, " ")
			m = collapseSpaceRe.ReplaceAllString(m, " ")
			return trailingPunctRe.ReplaceAllString(strings.TrimSpace(m), "")
		}
	}

	for _, ent := range e.recognizer.Recognize(context) {
		if ent.Label != ner.Org {
			continue
		}
		lower := strings.ToLower(ent.Text)
		if containsAny(lower, degreeProgramWords) {
			continue
		}
		if len(strings.Fields(ent.Text)) < 2 {
			continue
		}
		return ent.Text
	}
	return ""
}

// fieldOfStudy derives the field either from the degree's own line
// ("Bachelor Computer Science") or from an "in/of <Phrase>" pattern in the
// context.
func (e *Extractor) fieldOfStudy(degree, context string) string {
	if field := fieldFromDegreeLine(degree, context); field != "" {
		return field
	}

	m := fieldAfterInOfRe.FindStringSubmatch(context)
	if m == nil {
		return ""
	}
	field := strings.TrimSpace(m[1])
	field = strings.TrimSpace(fieldNoiseRe.ReplaceAllString(field, ""))
	field = trailingPunctRe.ReplaceAllString(field, "")
	if len(field) > 2 && len(field) < 50 {
		return field
	}
	return ""
}

func fieldFromDegreeLine(degree, context string) string {
	degreeLower := strings.ToLower(degree)
	for _, line := range strings.Split(context, "\n") {
		if !strings.Contains(strings.ToLower(line), degreeLower) {
			continue
		}
		// Case-insensitivity is scoped to the degree: the field itself must
		// be capitalized or "bachelor in something" would capture prose.
		pattern := regexp.MustCompile(`\b(?i:` + regexp.QuoteMeta(degree) + `)\s+([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)?)\b`)
		m := pattern.FindStringSubmatch(line)
		if m == nil {
			return ""
		}
		candidate := strings.TrimSpace(m[1])
		if containsAny(strings.ToLower(candidate), institutionKeywords) {
			return ""
		}
		return candidate
	}
	return ""
}

// maxYear returns the latest plausible 4-digit year in the context, or 0.
func maxYear(context string) int {
	year := 0
	for _, m := range yearDigitsRe.FindAllString(context, -1) {
		if y, err := strconv.Atoi(m); err == nil && y > year {
			year = y
		}
	}
	return year
}

func containsEntry(entries []types.EducationEntry, entry types.EducationEntry) bool {
	for _, existing := range entries {
		if existing == entry {
			return true
		}
	}
	return false
}

// Window returns the slice of text around [start,end) padded by before and
// after characters, clamped to the text bounds. Every context-sensitive
// heuristic goes through it so their notion of "nearby" cannot drift apart.
func Window(text string, start, end, before, after int) string {
	lo := start - before
	if lo < 0 {
		lo = 0
	}
	hi := end + after
	if hi > len(text) {
		hi = len(text)
	}
	return text[lo:hi]
}
