package types

import "github.com/google/uuid"

// JobRequirement describes what a position asks for. EducationLevel is a
// free-text level name ("Bachelor's", "master", ...) matched against the
// education ordinal table by the scoring engine; empty means no requirement.
type JobRequirement struct {
	ID                 uuid.UUID `json:"id,omitempty"`
	Title              string    `json:"title,omitempty" validate:"max=200"`
	RequiredSkills     []string  `json:"required_skills" validate:"dive,min=1,max=100"`
	PreferredSkills    []string  `json:"preferred_skills" validate:"dive,min=1,max=100"`
	MinExperienceYears int       `json:"min_experience_years" validate:"min=0,max=60"`
	EducationLevel     string    `json:"education_level,omitempty" validate:"max=100"`
}
