// Package ingestion retrieves job postings from the web and drafts job
// requirements out of them.
package ingestion

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/mkarlsson/cvscreen/internal/skills"
	"github.com/mkarlsson/cvscreen/internal/taxonomy"
	"github.com/mkarlsson/cvscreen/internal/types"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; cvscreen/1.0)"

// postingSelectors are tried in order to find the posting body; generic
// content containers come last.
var postingSelectors = []string{
	".job-description",
	".job-content",
	"#job-description",
	"#job-content",
	".posting-content",
	".job-details",
	"main",
	"article",
	".content",
	"#content",
}

var (
	minYearsRe   = regexp.MustCompile(`(?i)(\d+)\+?\s*(?:years?|yrs?)(?:\s+of)?\s+experience`)
	whitespaceRe = regexp.MustCompile(`[ \t]+`)
	blankLinesRe = regexp.MustCompile(`\n{3,}`)
)

// educationKeywords map posting phrasing to requirement levels, most
// demanding first.
var educationKeywords = []struct {
	keyword string
	level   string
}{
	{"phd", "PhD"},
	{"doctorate", "PhD"},
	{"master", "Master's"},
	{"mba", "Master's"},
	{"bachelor", "Bachelor's"},
	{"degree", "Bachelor's"},
}

// Error represents a failure retrieving a posting.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("ingestion error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("ingestion error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Posting is a fetched job posting reduced to text.
type Posting struct {
	URL   string
	Title string
	Text  string
}

// FetchPosting retrieves a job posting URL and extracts its title and body
// text.
func FetchPosting(ctx context.Context, urlStr string) (*Posting, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	client := &http.Client{Timeout: DefaultTimeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", DefaultUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{URL: urlStr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to read response body", Cause: err}
	}

	return ParsePosting(urlStr, string(body))
}

// ParsePosting extracts the title and main text from posting HTML.
func ParsePosting(urlStr, html string) (*Posting, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to parse HTML", Cause: err}
	}

	doc.Find("nav, footer, header, script, style, noscript, .ad, .sidebar, .cookie-banner").Remove()

	title := strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	var content *goquery.Selection
	for _, selector := range postingSelectors {
		if selection := doc.Find(selector); selection.Length() > 0 {
			content = selection.First()
			break
		}
	}
	if content == nil {
		content = doc.Find("body")
	}

	text := cleanWhitespace(content.Text())
	if text == "" {
		return nil, &Error{URL: urlStr, Message: "no text content found"}
	}
	return &Posting{URL: urlStr, Title: title, Text: text}, nil
}

// DraftRequirement derives a job requirement from a posting: detected
// taxonomy skills become required skills, and experience and education
// requirements are read from the posting text.
func DraftRequirement(analyzer *skills.Analyzer, posting *Posting) *types.JobRequirement {
	job := &types.JobRequirement{
		Title:           posting.Title,
		RequiredSkills:  []string{},
		PreferredSkills: []string{},
	}

	for _, record := range analyzer.Analyze(posting.Text) {
		// Soft skills in a posting are usually boilerplate, not requirements.
		if record.Category == string(taxonomy.SoftSkills) {
			continue
		}
		job.RequiredSkills = append(job.RequiredSkills, record.Name)
	}

	if m := minYearsRe.FindStringSubmatch(posting.Text); m != nil {
		if years, err := strconv.Atoi(m[1]); err == nil {
			job.MinExperienceYears = years
		}
	}

	lower := strings.ToLower(posting.Text)
	for _, entry := range educationKeywords {
		if strings.Contains(lower, entry.keyword) {
			job.EducationLevel = entry.level
			break
		}
	}
	return job
}

func cleanWhitespace(text string) string {
	text = whitespaceRe.ReplaceAllString(text, " ")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")
	text = blankLinesRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
