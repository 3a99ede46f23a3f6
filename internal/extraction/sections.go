package extraction

import "strings"

// maxHeaderLen is the longest a line can be and still count as a section
// header.
const maxHeaderLen = 50

// commonSections are the headers that terminate another section. The
// education/experience/skills locators pass the subset that excludes their
// own keywords.
var commonSections = []string{
	"experience", "work", "employment", "professional", "skills",
	"projects", "certifications", "awards", "publications", "references",
}

// FindSection locates a resume subsection: it starts at the first short line
// containing one of keywords (case-insensitive) and ends before the next
// short line that names one of stopSections near its start. Returns the
// section text including its header line, and whether a section was found.
func FindSection(text string, keywords, stopSections []string) (string, bool) {
	lines := strings.Split(text, "\n")

	start := -1
	for i, line := range lines {
		lower := strings.ToLower(strings.TrimSpace(line))
		if len(lower) >= maxHeaderLen {
			continue
		}
		for _, keyword := range keywords {
			if strings.Contains(lower, keyword) {
				start = i
				break
			}
		}
		if start != -1 {
			break
		}
	}
	if start == -1 {
		return "", false
	}

	end := len(lines)
	for i := start + 1; i < len(lines) && end == len(lines); i++ {
		lower := strings.ToLower(strings.TrimSpace(lines[i]))
		if len(lower) >= maxHeaderLen {
			continue
		}
		for _, section := range stopSections {
			// The section name must appear near the start of the line to be
			// a header rather than prose.
			if idx := strings.Index(lower, section); idx >= 0 && idx < 5 {
				end = i
				break
			}
		}
	}

	return strings.Join(lines[start:end], "\n"), true
}
