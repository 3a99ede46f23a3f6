package matching

import (
	"fmt"
	"strings"

	"github.com/mkarlsson/cvscreen/internal/types"
)

// buildNotes writes the human-readable screening explanation: a status
// summary followed by strengths, considerations and gaps, and the overall
// score.
func buildNotes(candidate *types.CandidateProfile, job *types.JobRequirement, result *types.MatchResult) string {
	var strengths, considerations, gaps []string

	switch {
	case result.SkillMatchScore >= 70:
		strengths = append(strengths, fmt.Sprintf("Strong skill match (%.1f%%)", result.SkillMatchScore))
	case result.SkillMatchScore >= 50:
		considerations = append(considerations, fmt.Sprintf("Moderate skill match (%.1f%%)", result.SkillMatchScore))
	default:
		gaps = append(gaps, fmt.Sprintf("Low skill match (%.1f%%)", result.SkillMatchScore))
	}

	if len(job.RequiredSkills) > 0 {
		matched := countCovered(lowerAll(job.RequiredSkills), lowerAll(candidate.SkillNames()))
		total := len(job.RequiredSkills)
		switch {
		case matched == total:
			strengths = append(strengths, "Has all required skills")
		case float64(matched) >= float64(total)*0.7:
			considerations = append(considerations, fmt.Sprintf("Has %d/%d required skills", matched, total))
		default:
			gaps = append(gaps, fmt.Sprintf("Missing key skills (%d/%d required skills)", matched, total))
		}
	}

	if job.MinExperienceYears > 0 {
		switch {
		case result.ExperienceMatchScore >= 100:
			strengths = append(strengths, fmt.Sprintf("Meets experience requirement (%d+ years)", candidate.TotalExperienceYears))
		case result.ExperienceMatchScore >= 80:
			considerations = append(considerations, fmt.Sprintf("Close to experience requirement (%d/%d years)", candidate.TotalExperienceYears, job.MinExperienceYears))
		default:
			gaps = append(gaps, fmt.Sprintf("Below experience requirement (%d/%d years required)", candidate.TotalExperienceYears, job.MinExperienceYears))
		}
	}

	if job.EducationLevel != "" {
		switch {
		case result.EducationMatchScore >= 100:
			strengths = append(strengths, "Meets education requirement")
		case result.EducationMatchScore >= 70:
			considerations = append(considerations, "Education level close to requirement")
		default:
			gaps = append(gaps, "Does not meet education requirement")
		}
	}

	var b strings.Builder
	b.WriteString(statusSummary(result.Status))
	writeSection(&b, "Strengths", strengths)
	writeSection(&b, "Considerations", considerations)
	writeSection(&b, "Gaps", gaps)
	fmt.Fprintf(&b, "\n\nOverall Match Score: %.1f%%", result.MatchScore)
	return b.String()
}

func statusSummary(status types.QualificationStatus) string {
	switch status {
	case types.Qualified:
		return "Candidate meets the job requirements and is recommended for interview."
	case types.PotentiallyQualified:
		return "Candidate shows potential but may need further evaluation."
	default:
		return "Candidate does not meet minimum requirements for this position."
	}
}

func writeSection(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString("\n\n")
	b.WriteString(title)
	b.WriteString(":\n- ")
	b.WriteString(strings.Join(items, "\n- "))
}
