package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateJobRequirement_Valid(t *testing.T) {
	err := ValidateJobRequirement(`{
		"title": "Backend Engineer",
		"required_skills": ["Go", "PostgreSQL"],
		"preferred_skills": ["Kubernetes"],
		"min_experience_years": 3,
		"education_level": "Bachelor's"
	}`)
	assert.NoError(t, err)
}

func TestValidateJobRequirement_MinimalDocument(t *testing.T) {
	assert.NoError(t, ValidateJobRequirement(`{}`))
}

func TestValidateJobRequirement_EmptySkillName(t *testing.T) {
	err := ValidateJobRequirement(`{"required_skills": [""]}`)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.NotEmpty(t, ve.Errors)
	assert.Contains(t, ve.Errors[0].Field, "required_skills")
}

func TestValidateJobRequirement_NegativeExperience(t *testing.T) {
	err := ValidateJobRequirement(`{"min_experience_years": -1}`)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "min_experience_years", ve.Errors[0].Field)
}

func TestValidateJobRequirement_UnknownField(t *testing.T) {
	err := ValidateJobRequirement(`{"salary": 100000}`)

	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestValidateJobRequirement_WrongType(t *testing.T) {
	err := ValidateJobRequirement(`{"required_skills": "Go"}`)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "required_skills", ve.Errors[0].Field)
}

func TestValidateJobRequirement_MalformedJSON(t *testing.T) {
	err := ValidateJobRequirement(`{not json`)

	var le *SchemaLoadError
	assert.ErrorAs(t, err, &le)
}

func TestValidationError_MessageListsFields(t *testing.T) {
	err := ValidateJobRequirement(`{"min_experience_years": -1, "salary": 1}`)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Error(), "validation failed")
}
