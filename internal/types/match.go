package types

import "github.com/google/uuid"

// QualificationStatus is the screening verdict for a (candidate, job) pair.
type QualificationStatus string

const (
	Qualified            QualificationStatus = "Qualified"
	PotentiallyQualified QualificationStatus = "Potentially Qualified"
	NotQualified         QualificationStatus = "Not Qualified"
)

// MatchResult is the score breakdown and verdict for one (candidate, job)
// pair. All scores are in [0,100]; MatchScore is rounded to 2 decimals and
// equals 0.5*skill + 0.3*experience + 0.2*education.
type MatchResult struct {
	CandidateID          uuid.UUID           `json:"candidate_id,omitempty"`
	JobID                uuid.UUID           `json:"job_id,omitempty"`
	MatchScore           float64             `json:"match_score"`
	SkillMatchScore      float64             `json:"skill_match_score"`
	ExperienceMatchScore float64             `json:"experience_match_score"`
	EducationMatchScore  float64             `json:"education_match_score"`
	Status               QualificationStatus `json:"status"`
	ScreeningNotes       string              `json:"screening_notes"`
}
