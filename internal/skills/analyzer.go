// Package skills detects taxonomy skills in resume text and scores each one
// by the context it appears in.
package skills

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mkarlsson/cvscreen/internal/extraction"
	"github.com/mkarlsson/cvscreen/internal/taxonomy"
	"github.com/mkarlsson/cvscreen/internal/types"
)

const baseScore = 50.0

// Context radii, in characters, for the score factors.
const (
	proficiencyRadius = 100
	actionVerbRadius  = 150
	yearsRadius       = 200
)

// proficiencyKeywords adjust a skill's score when found near a mention.
// Checked in order; only the first hit per mention counts.
var proficiencyKeywords = []struct {
	keyword string
	points  float64
}{
	{"expert", 20},
	{"advanced", 18},
	{"proficient", 15},
	{"experienced", 12},
	{"skilled", 10},
	{"strong", 8},
	{"solid", 6},
	{"familiar", 3},
	{"basic", -5},
	{"beginner", -10},
	{"learning", -5},
}

// actionVerbs preceding a mention indicate the skill was actively used, not
// just listed.
var actionVerbs = []string{
	"developed", "built", "created", "designed", "implemented",
	"architected", "led", "managed", "optimized", "deployed",
	"maintained", "integrated", "automated", "configured",
}

var skillsSectionKeywords = []string{
	"skills", "technical skills", "competencies", "expertise",
}

var skillsSectionStops = []string{
	"experience", "work", "employment", "professional", "education",
	"projects", "certifications", "awards", "publications", "references",
	"interests",
}

var (
	yearsMentionRe = regexp.MustCompile(`(\d+)\+?\s*(?:years?|yrs?)`)
	yearsParenRe   = regexp.MustCompile(`[(\[](\d+)\+?\s*(?:years?|yrs?)[)\]]`)
)

// Analyzer detects and scores skills. It precompiles a whole-word pattern per
// taxonomy entry and alias, so construct it once and share it.
type Analyzer struct {
	logger   *zap.Logger
	patterns map[string]*regexp.Regexp // lowercased term -> whole-word pattern
	aliases  []string                  // alias keys in deterministic order
}

// NewAnalyzer builds an Analyzer over the full skill taxonomy.
func NewAnalyzer(logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Analyzer{
		logger:   logger,
		patterns: make(map[string]*regexp.Regexp),
	}
	for _, skill := range taxonomy.All() {
		a.compile(strings.ToLower(skill.Name))
	}
	for alias := range taxonomy.Aliases() {
		a.aliases = append(a.aliases, alias)
		a.compile(alias)
	}
	sort.Strings(a.aliases)
	return a
}

func (a *Analyzer) compile(term string) {
	if _, ok := a.patterns[term]; ok {
		return
	}
	a.patterns[term] = regexp.MustCompile(`\b` + regexp.QuoteMeta(term) + `\b`)
}

// Analyze detects every taxonomy skill and alias present in the text and
// returns one scored record per canonical skill, sorted by score descending.
// Ties keep taxonomy declaration order.
func (a *Analyzer) Analyze(text string) []types.SkillRecord {
	lower := strings.ToLower(text)
	skillsSection, _ := extraction.FindSection(lower, skillsSectionKeywords, skillsSectionStops)

	found := make(map[string]types.SkillRecord)
	order := make(map[string]int)

	record := func(skill taxonomy.Skill) {
		key := strings.ToLower(skill.Name)
		if _, seen := found[key]; seen {
			return
		}
		years := a.experienceYears(lower, key)
		found[key] = types.SkillRecord{
			Name:     skill.Name,
			Category: string(skill.Category),
			Score:    a.score(key, lower, skillsSection, years),
			Years:    years,
		}
		order[key] = skill.Order
	}

	for _, skill := range taxonomy.All() {
		if a.patterns[strings.ToLower(skill.Name)].MatchString(lower) {
			record(skill)
		}
	}
	for _, alias := range a.aliases {
		if !a.patterns[alias].MatchString(lower) {
			continue
		}
		if skill, ok := taxonomy.ResolveAlias(alias); ok {
			record(skill)
		}
	}

	records := make([]types.SkillRecord, 0, len(found))
	for _, r := range found {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Score != records[j].Score {
			return records[i].Score > records[j].Score
		}
		return order[strings.ToLower(records[i].Name)] < order[strings.ToLower(records[j].Name)]
	})

	a.logger.Debug("skill analysis complete", zap.Int("skills", len(records)))
	return records
}

// score computes the contextual proficiency score for one skill, clamped to
// [0, 100] and rounded to one decimal.
func (a *Analyzer) score(key, lower, skillsSection string, years *int) float64 {
	score := baseScore
	pattern := a.patterns[key]
	mentions := pattern.FindAllStringIndex(lower, -1)

	switch {
	case len(mentions) >= 5:
		score += 20
	case len(mentions) >= 3:
		score += 15
	case len(mentions) >= 2:
		score += 10
	case len(mentions) >= 1:
		score += 5
	}

	for _, loc := range mentions {
		context := extraction.Window(lower, loc[0], loc[1], proficiencyRadius, proficiencyRadius)
		for _, pk := range proficiencyKeywords {
			if strings.Contains(context, pk.keyword) {
				score += pk.points
				break
			}
		}
	}

	if years != nil {
		switch {
		case *years >= 5:
			score += 15
		case *years >= 3:
			score += 10
		case *years >= 1:
			score += 5
		}
	}

	if skillsSection != "" && strings.Contains(skillsSection, key) {
		score += 10
	}

	// Active-use bonus is awarded at most once, however many bullet points
	// open with an action verb.
	for _, loc := range mentions {
		context := extraction.Window(lower, loc[0], loc[1], actionVerbRadius, 0)
		if containsAnyWord(context, actionVerbs) {
			score += 10
			break
		}
	}

	score = math.Max(0, math.Min(100, score))
	return math.Round(score*10) / 10
}

// experienceYears finds per-skill tenure like "5 years of Python" or
// "Python (3 years)" near any mention, returning the largest figure seen.
func (a *Analyzer) experienceYears(lower, key string) *int {
	pattern := a.patterns[key]
	best := 0
	for _, loc := range pattern.FindAllStringIndex(lower, -1) {
		context := extraction.Window(lower, loc[0], loc[1], yearsRadius, yearsRadius)
		for _, m := range yearsMentionRe.FindAllStringSubmatch(context, -1) {
			if y, err := strconv.Atoi(m[1]); err == nil && y > best {
				best = y
			}
		}
		for _, m := range yearsParenRe.FindAllStringSubmatch(context, -1) {
			if y, err := strconv.Atoi(m[1]); err == nil && y > best {
				best = y
			}
		}
	}
	if best == 0 {
		return nil
	}
	return &best
}

func containsAnyWord(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
