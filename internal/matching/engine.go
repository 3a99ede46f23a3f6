// Package matching scores candidates against job requirements and decides
// their qualification status.
package matching

import (
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/mkarlsson/cvscreen/internal/taxonomy"
	"github.com/mkarlsson/cvscreen/internal/types"
)

// Component weights of the overall match score.
const (
	skillWeight      = 0.5
	experienceWeight = 0.3
	educationWeight  = 0.2
)

// Engine combines skill, experience and education comparisons into one
// weighted match score. It is stateless and safe for concurrent use.
type Engine struct {
	logger *zap.Logger
}

// NewEngine returns a scoring engine.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Match scores a candidate against a job and attaches the qualification
// verdict and screening notes.
func (e *Engine) Match(candidate *types.CandidateProfile, job *types.JobRequirement) types.MatchResult {
	skillScore := e.skillMatch(candidate.SkillNames(), job.RequiredSkills, job.PreferredSkills)
	experienceScore := experienceMatch(candidate.TotalExperienceYears, job.MinExperienceYears)
	educationScore := educationMatch(candidate.Education, job.EducationLevel)

	overall := round2(skillScore*skillWeight + experienceScore*experienceWeight + educationScore*educationWeight)

	result := types.MatchResult{
		CandidateID:          candidate.ID,
		JobID:                job.ID,
		MatchScore:           overall,
		SkillMatchScore:      skillScore,
		ExperienceMatchScore: experienceScore,
		EducationMatchScore:  educationScore,
	}
	result.Status = classify(overall, skillScore)
	result.ScreeningNotes = buildNotes(candidate, job, &result)

	e.logger.Debug("match scored",
		zap.Float64("overall", overall),
		zap.Float64("skills", skillScore),
		zap.Float64("experience", experienceScore),
		zap.Float64("education", educationScore),
		zap.String("status", string(result.Status)))
	return result
}

// classify applies the qualification thresholds to the overall and skill
// scores.
func classify(overall, skill float64) types.QualificationStatus {
	switch {
	case overall >= 70 && skill >= 60:
		return types.Qualified
	case overall >= 50 || (overall >= 40 && skill >= 50):
		return types.PotentiallyQualified
	default:
		return types.NotQualified
	}
}

// skillMatch blends exact coverage of the job's skill lists (70% of the
// weight) with TF-IDF cosine similarity of the two skill sets (30%).
func (e *Engine) skillMatch(candidateSkills, required, preferred []string) float64 {
	if len(candidateSkills) == 0 {
		return 0.0
	}
	if len(required) == 0 && len(preferred) == 0 {
		// Nothing to compare against; neutral score.
		return 50.0
	}

	candidateLower := lowerAll(candidateSkills)
	requiredLower := lowerAll(required)
	preferredLower := lowerAll(preferred)

	score := 0.0
	if len(requiredLower) > 0 {
		rate := float64(countCovered(requiredLower, candidateLower)) / float64(len(requiredLower))
		score += rate * 50
	}
	if len(preferredLower) > 0 {
		rate := float64(countCovered(preferredLower, candidateLower)) / float64(len(preferredLower))
		score += rate * 20
	}

	score += e.semanticScore(candidateLower, append(requiredLower, preferredLower...))

	return round2(math.Max(0, math.Min(100, score)))
}

// semanticScore is the cosine similarity of the candidate and job skill
// texts scaled to [0, 30]. Vectorization failures degrade to 0 so exact
// coverage alone decides.
func (e *Engine) semanticScore(candidateSkills, jobSkills []string) float64 {
	candidateText := strings.Join(candidateSkills, " ")
	jobText := strings.Join(jobSkills, " ")
	if candidateText == "" || jobText == "" {
		return 0.0
	}

	var v Vectorizer
	vectors, err := v.FitTransform([]string{candidateText, jobText})
	if err != nil {
		e.logger.Debug("semantic similarity unavailable", zap.Error(err))
		return 0.0
	}
	return Cosine(vectors[0], vectors[1]) * 30
}

// countCovered counts the job skills that overlap a candidate skill in
// either direction, so "react" covers "react native" and vice versa.
func countCovered(jobSkills, candidateSkills []string) int {
	covered := 0
	for _, job := range jobSkills {
		for _, cand := range candidateSkills {
			if strings.Contains(cand, job) || strings.Contains(job, cand) {
				covered++
				break
			}
		}
	}
	return covered
}

// experienceMatch compares total experience years against the job minimum.
// Meeting the bar scores 100; from 80% of it the score ramps steeply from 80
// toward 100; below that it is proportional.
func experienceMatch(candidateYears, requiredYears int) float64 {
	if requiredYears <= 0 {
		return 100.0
	}
	if candidateYears <= 0 {
		return 0.0
	}

	ratio := float64(candidateYears) / float64(requiredYears)
	if ratio >= 1.0 {
		return 100.0
	}
	if ratio >= 0.8 {
		return round2(math.Min(100, 80+(ratio-0.8)*95))
	}
	return round2(math.Max(0, ratio*100))
}

// educationMatch compares the candidate's highest recognized degree against
// the required level using the education ordinal hierarchy.
func educationMatch(education []types.EducationEntry, requiredLevel string) float64 {
	if requiredLevel == "" {
		return 100.0
	}
	if len(education) == 0 {
		return 0.0
	}

	required := taxonomy.EducationRank(requiredLevel)
	if required == 0 {
		// Requirement not in the hierarchy; neutral score.
		return 50.0
	}

	candidateMax := 0
	for _, entry := range education {
		if rank := taxonomy.EducationRank(entry.Degree); rank > candidateMax {
			candidateMax = rank
		}
	}
	if candidateMax == 0 {
		// Education present but unrecognized still counts for something.
		return 20.0
	}

	switch {
	case candidateMax >= required:
		return 100.0
	case candidateMax == required-1:
		return 70.0
	case candidateMax == required-2:
		return 40.0
	default:
		return 20.0
	}
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
