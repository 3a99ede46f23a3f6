package ingestion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarlsson/cvscreen/internal/skills"
)

const postingHTML = `<!DOCTYPE html>
<html>
<head><title>Careers at Acme</title></head>
<body>
<nav>Home | Jobs | About</nav>
<h1>Senior Backend Engineer</h1>
<div class="job-description">
<p>We are looking for a backend engineer with 5+ years of experience.</p>
<p>You will build Python services on PostgreSQL and deploy with Docker.</p>
<p>Bachelor's degree in a technical field required.</p>
<p>Strong communication skills expected.</p>
</div>
<footer>Copyright Acme</footer>
</body>
</html>`

func TestParsePosting_TitleAndBody(t *testing.T) {
	posting, err := ParsePosting("https://example.com/jobs/1", postingHTML)
	require.NoError(t, err)

	assert.Equal(t, "Senior Backend Engineer", posting.Title)
	assert.Contains(t, posting.Text, "5+ years of experience")
	// Chrome is stripped before text extraction.
	assert.NotContains(t, posting.Text, "Home | Jobs")
	assert.NotContains(t, posting.Text, "Copyright Acme")
}

func TestParsePosting_TitleFallsBackToTitleTag(t *testing.T) {
	posting, err := ParsePosting("https://example.com/jobs/2", `<html>
		<head><title>Data Engineer - Acme</title></head>
		<body><div class="job-description">Build pipelines.</div></body>
	</html>`)
	require.NoError(t, err)
	assert.Equal(t, "Data Engineer - Acme", posting.Title)
}

func TestParsePosting_FallsBackToBody(t *testing.T) {
	posting, err := ParsePosting("https://example.com/jobs/3", `<html><body>
		<p>Plain posting with no recognizable container.</p>
	</body></html>`)
	require.NoError(t, err)
	assert.Contains(t, posting.Text, "no recognizable container")
}

func TestParsePosting_EmptyContent(t *testing.T) {
	_, err := ParsePosting("https://example.com/jobs/4", `<html><body><script>var x;</script></body></html>`)

	var ierr *Error
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, "https://example.com/jobs/4", ierr.URL)
}

func TestParsePosting_CollapsesWhitespace(t *testing.T) {
	posting, err := ParsePosting("https://example.com/jobs/5", `<html><body><main>
		<p>First   paragraph</p>


		<p>Second paragraph</p>
	</main></body></html>`)
	require.NoError(t, err)
	assert.Contains(t, posting.Text, "First paragraph")
	assert.NotContains(t, posting.Text, "\n\n\n")
}

func TestFetchPosting_InvalidURL(t *testing.T) {
	for _, raw := range []string{"", "not-a-url", "example.com/jobs"} {
		_, err := FetchPosting(context.Background(), raw)

		var ierr *Error
		assert.ErrorAs(t, err, &ierr, "url %q", raw)
	}
}

func TestFetchPosting_RoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(postingHTML))
	}))
	defer srv.Close()

	posting, err := FetchPosting(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Senior Backend Engineer", posting.Title)
	assert.Equal(t, srv.URL, posting.URL)
}

func TestFetchPosting_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := FetchPosting(context.Background(), srv.URL)

	var ierr *Error
	require.ErrorAs(t, err, &ierr)
	assert.Contains(t, ierr.Error(), "404")
}

func TestDraftRequirement_SkillsYearsAndEducation(t *testing.T) {
	posting, err := ParsePosting("https://example.com/jobs/1", postingHTML)
	require.NoError(t, err)

	job := DraftRequirement(skills.NewAnalyzer(nil), posting)

	assert.Equal(t, "Senior Backend Engineer", job.Title)
	assert.Contains(t, job.RequiredSkills, "Python")
	assert.Contains(t, job.RequiredSkills, "PostgreSQL")
	assert.Contains(t, job.RequiredSkills, "Docker")
	assert.Equal(t, 5, job.MinExperienceYears)
	assert.Equal(t, "Bachelor's", job.EducationLevel)
}

func TestDraftRequirement_SkipsSoftSkills(t *testing.T) {
	job := DraftRequirement(skills.NewAnalyzer(nil), &Posting{
		Title: "Engineering Manager",
		Text:  "Leadership and Communication are essential. Python is a plus.",
	})

	assert.Contains(t, job.RequiredSkills, "Python")
	assert.NotContains(t, job.RequiredSkills, "Leadership")
	assert.NotContains(t, job.RequiredSkills, "Communication")
}

func TestDraftRequirement_EducationPrecedence(t *testing.T) {
	job := DraftRequirement(skills.NewAnalyzer(nil), &Posting{
		Text: "Master's degree preferred, Bachelor's degree required.",
	})
	// The most demanding keyword wins regardless of order in the text.
	assert.Equal(t, "Master's", job.EducationLevel)
}

func TestDraftRequirement_NoSignals(t *testing.T) {
	job := DraftRequirement(skills.NewAnalyzer(nil), &Posting{
		Title: "Barista",
		Text:  "Pull espresso shots all day.",
	})

	assert.Empty(t, job.RequiredSkills)
	assert.Zero(t, job.MinExperienceYears)
	assert.Empty(t, job.EducationLevel)
}
