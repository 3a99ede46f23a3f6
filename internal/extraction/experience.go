package extraction

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mkarlsson/cvscreen/internal/ner"
	"github.com/mkarlsson/cvscreen/internal/types"
)

var experienceKeywords = []string{"experience", "work", "employment", "career", "professional"}

// experienceStopSections terminate the experience section; the experience
// keywords themselves are excluded so a "Work Experience" header does not end
// its own section.
var experienceStopSections = []string{
	"education", "skills", "projects", "certifications",
	"awards", "publications", "references",
}

// titleKeywords mark a line as a probable job title and therefore the start
// of a new experience entry.
var titleKeywords = []string{
	"engineer", "developer", "manager", "analyst", "consultant",
	"director", "lead", "architect", "specialist", "coordinator",
	"intern", "designer", "scientist", "administrator", "officer",
}

var (
	// rangeRe matches "2019 - 2022", "2020 to present" and similar spans. The
	// separator class deliberately also eats stray "t"/"o" characters so
	// "2019-to-2022" style noise still parses.
	rangeRe = regexp.MustCompile(`(?i)\b(19\d{2}|20\d{2})\s*[-–to]+\s*(19\d{2}|20\d{2}|present|current)\b`)

	yearTokenRe      = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)
	trailingYearsRe  = regexp.MustCompile(`[\s,|-]*(19\d{2}|20\d{2}).*$`)
	parentheticalRe  = regexp.MustCompile(`\([^)]*\)`)
	titleSeparatorRe = regexp.MustCompile(`(?i)\s+(?:at|@)\s+`)
)

// yearRange is a [start, end] employment span in calendar years.
type yearRange struct {
	start int
	end   int
}

func (e *Extractor) extractExperience(text string) []types.ExperienceEntry {
	section, ok := FindSection(text, experienceKeywords, experienceStopSections)
	if !ok {
		return nil
	}

	lines := strings.Split(section, "\n")
	if len(lines) <= 1 {
		return nil
	}
	// Drop the header line itself.
	lines = lines[1:]

	orgLines := e.orgLines(strings.Join(lines, "\n"))

	var entries []types.ExperienceEntry
	var current []string
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if e.startsNewEntry(line, orgLines) {
			if entry, ok := buildEntry(current); ok {
				entries = append(entries, entry)
			}
			current = current[:0]
		} else if len(current) == 0 {
			// Prose before the first boundary has no entry to attach to.
			continue
		}
		current = append(current, line)
	}
	if entry, ok := buildEntry(current); ok {
		entries = append(entries, entry)
	}
	return entries
}

// orgLines collects the set of lines that contain an ORG entity, so entry
// boundary detection can treat a company line as the start of a new role.
func (e *Extractor) orgLines(section string) map[string]bool {
	out := make(map[string]bool)
	for _, ent := range e.recognizer.Recognize(section) {
		if ent.Label != ner.Org {
			continue
		}
		for _, line := range strings.Split(section, "\n") {
			if strings.Contains(line, ent.Text) {
				out[strings.TrimSpace(line)] = true
			}
		}
	}
	return out
}

// startsNewEntry reports whether a line opens a new experience entry: it
// names an organization, carries a year, or looks like a job title.
func (e *Extractor) startsNewEntry(line string, orgLines map[string]bool) bool {
	if orgLines[line] {
		return true
	}
	if yearTokenRe.MatchString(line) {
		return true
	}
	lower := strings.ToLower(line)
	for _, keyword := range titleKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// buildEntry assembles an ExperienceEntry from one entry's buffered lines.
// The first line supplies the title and company; the rest become the
// description.
func buildEntry(lines []string) (types.ExperienceEntry, bool) {
	if len(lines) == 0 {
		return types.ExperienceEntry{}, false
	}
	head := lines[0]

	entry := types.ExperienceEntry{
		Title:    extractJobTitle(head),
		Company:  extractCompany(head),
		Duration: extractDuration(strings.Join(lines, "\n")),
	}
	if len(lines) > 1 {
		entry.Description = strings.Join(lines[1:], " ")
	}
	if entry.Title == "" && entry.Company == "" {
		return types.ExperienceEntry{}, false
	}
	return entry, true
}

// extractJobTitle takes the part of the head line before an "at"/"@"
// separator and strips years and parentheticals from it.
func extractJobTitle(line string) string {
	title := titleSeparatorRe.Split(line, 2)[0]
	title = trailingYearsRe.ReplaceAllString(title, "")
	title = parentheticalRe.ReplaceAllString(title, "")
	title = strings.Trim(title, " ,-–|")
	if len(title) < 3 || len(title) > 80 {
		return ""
	}
	return title
}

// extractCompany takes the part of the head line after an "at"/"@" separator.
func extractCompany(line string) string {
	parts := titleSeparatorRe.Split(line, 2)
	if len(parts) < 2 {
		return ""
	}
	company := trailingYearsRe.ReplaceAllString(parts[1], "")
	company = parentheticalRe.ReplaceAllString(company, "")
	return strings.Trim(company, " ,-–|")
}

// extractDuration renders the first year range found in the entry text as
// "2019 - 2022" or "2020 - Present", falling back to a lone year.
func extractDuration(text string) string {
	if m := rangeRe.FindStringSubmatch(text); m != nil {
		end := m[2]
		if lower := strings.ToLower(end); lower == "present" || lower == "current" {
			end = "Present"
		}
		return m[1] + " - " + end
	}
	if m := yearTokenRe.FindString(text); m != "" {
		return m
	}
	return ""
}

// extractTotalYears sums the employment spans found in the experience
// section after merging overlaps, so concurrent roles are not double
// counted. Ranges outside the section (graduation spans, project dates) are
// ignored. Open-ended ranges run to the current year.
func extractTotalYears(text string) int {
	section, ok := FindSection(text, experienceKeywords, experienceStopSections)
	if !ok {
		return 0
	}
	currentYear := time.Now().Year()

	var ranges []yearRange
	for _, m := range rangeRe.FindAllStringSubmatch(section, -1) {
		start, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		end := currentYear
		if lower := strings.ToLower(m[2]); lower != "present" && lower != "current" {
			end, err = strconv.Atoi(m[2])
			if err != nil {
				continue
			}
		}
		if end < start {
			continue
		}
		ranges = append(ranges, yearRange{start: start, end: end})
	}
	if len(ranges) == 0 {
		return 0
	}

	sort.Slice(ranges, func(i, j int) bool { return ranges[i].start < ranges[j].start })

	merged := []yearRange{ranges[0]}
	for _, r := range ranges[1:] {
		last := &merged[len(merged)-1]
		if r.start <= last.end {
			if r.end > last.end {
				last.end = r.end
			}
			continue
		}
		merged = append(merged, r)
	}

	total := 0
	for _, r := range merged {
		total += r.end - r.start
	}
	return total
}
