// Package types defines the data model shared across the screening pipeline.
package types

import "github.com/google/uuid"

// ExtractionStatus describes how much of a profile could be extracted.
type ExtractionStatus string

const (
	ExtractionSuccess ExtractionStatus = "success"
	ExtractionPartial ExtractionStatus = "partial"
	ExtractionFailed  ExtractionStatus = "failed"
)

// Education levels in descending order of attainment.
const (
	LevelPhD         = "PhD"
	LevelMasters     = "Master's"
	LevelBachelors   = "Bachelor's"
	LevelAssociates  = "Associate's"
	LevelDiploma     = "Diploma"
	LevelCertificate = "Certificate"
	LevelOther       = "Other"
)

// EducationEntry is one detected degree mention.
type EducationEntry struct {
	Degree      string `json:"degree"`
	Field       string `json:"field,omitempty"`
	Institution string `json:"institution,omitempty"`
	Year        int    `json:"year,omitempty"`
	Level       string `json:"level"`
}

// ExperienceEntry is one detected work-history entry. Description accumulates
// the non-header lines that follow the entry's first line.
type ExperienceEntry struct {
	Title       string `json:"title,omitempty"`
	Company     string `json:"company,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Description string `json:"description"`
}

// SkillRecord is a detected skill with its taxonomy category and a contextual
// proficiency score. Years is nil when no per-skill tenure was found.
type SkillRecord struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Score    float64 `json:"score"`
	Years    *int    `json:"years"`
}

// CandidateProfile is the structured result of screening one resume.
// There is at most one SkillRecord per canonical skill name.
type CandidateProfile struct {
	ID                   uuid.UUID         `json:"id,omitempty"`
	Name                 string            `json:"name,omitempty"`
	Email                string            `json:"email,omitempty"`
	Phone                string            `json:"phone,omitempty"`
	Education            []EducationEntry  `json:"education"`
	Experience           []ExperienceEntry `json:"experience"`
	Skills               []SkillRecord     `json:"skills"`
	TotalExperienceYears int               `json:"total_experience_years"`
	ExtractionStatus     ExtractionStatus  `json:"extraction_status"`
	ExtractionErrors     []string          `json:"extraction_errors,omitempty"`
}

// SkillNames returns the candidate's skill names in record order.
func (p *CandidateProfile) SkillNames() []string {
	names := make([]string, len(p.Skills))
	for i, s := range p.Skills {
		names[i] = s.Name
	}
	return names
}

// HighestEducationLevel returns the level string of the candidate's most
// advanced education entry, or empty when there is none.
func (p *CandidateProfile) HighestEducationLevel() string {
	best := ""
	bestRank := -1
	for _, e := range p.Education {
		if r := levelRank(e.Level); r > bestRank {
			bestRank = r
			best = e.Level
		}
	}
	return best
}

func levelRank(level string) int {
	switch level {
	case LevelPhD:
		return 6
	case LevelMasters:
		return 5
	case LevelBachelors:
		return 4
	case LevelAssociates:
		return 3
	case LevelDiploma:
		return 2
	case LevelCertificate:
		return 1
	default:
		return 0
	}
}
