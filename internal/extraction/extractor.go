// Package extraction turns raw resume text into a structured candidate
// profile. Every field is extracted independently: a failure in one step is
// recorded on the profile and the remaining steps still run.
package extraction

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mkarlsson/cvscreen/internal/ner"
	"github.com/mkarlsson/cvscreen/internal/types"
)

// maxStepErrors is the number of recorded step failures at which a profile is
// considered failed rather than partial.
const maxStepErrors = 3

// Extractor runs the field-extraction cascade over resume text.
type Extractor struct {
	recognizer ner.Recognizer
	logger     *zap.Logger
}

// New returns an Extractor backed by the given entity recognizer.
func New(recognizer ner.Recognizer, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{recognizer: recognizer, logger: logger}
}

// Extract builds a candidate profile from resume text. It never returns an
// error for malformed input: failures are recorded in the profile's
// ExtractionErrors and reflected in its ExtractionStatus.
func (e *Extractor) Extract(text string) types.CandidateProfile {
	profile := types.CandidateProfile{
		Education:  []types.EducationEntry{},
		Experience: []types.ExperienceEntry{},
		Skills:     []types.SkillRecord{},
	}

	e.step(&profile, "name", func() {
		profile.Name = e.extractName(text)
	})
	e.step(&profile, "email", func() {
		profile.Email = extractEmail(text)
	})
	e.step(&profile, "phone", func() {
		profile.Phone = extractPhone(text)
	})
	e.step(&profile, "education", func() {
		if entries := e.extractEducation(text); entries != nil {
			profile.Education = entries
		}
	})
	e.step(&profile, "experience", func() {
		if entries := e.extractExperience(text); entries != nil {
			profile.Experience = entries
		}
	})
	e.step(&profile, "total experience", func() {
		profile.TotalExperienceYears = extractTotalYears(text)
	})

	profile.ExtractionStatus = statusFor(&profile)
	return profile
}

// step runs one sub-extraction, converting a panic into a recorded StepError
// so one bad field cannot abort the whole profile.
func (e *Extractor) step(profile *types.CandidateProfile, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			stepErr := &StepError{Step: name, Message: fmt.Sprint(r)}
			profile.ExtractionErrors = append(profile.ExtractionErrors, stepErr.Error())
			e.logger.Warn("extraction step failed",
				zap.String("step", name),
				zap.Any("cause", r))
		}
	}()
	fn()
}

// statusFor classifies a finished profile: failed when the candidate cannot
// be identified at all or too many steps broke, partial when some errors were
// recorded, success otherwise.
func statusFor(profile *types.CandidateProfile) types.ExtractionStatus {
	if profile.Name == "" && profile.Email == "" {
		return types.ExtractionFailed
	}
	if len(profile.ExtractionErrors) >= maxStepErrors {
		return types.ExtractionFailed
	}
	if len(profile.ExtractionErrors) > 0 {
		return types.ExtractionPartial
	}
	return types.ExtractionSuccess
}
