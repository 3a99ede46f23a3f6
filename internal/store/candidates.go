package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mkarlsson/cvscreen/internal/types"
)

// SaveCandidate inserts a screened profile and returns its ID. Structured
// fields are stored as JSONB so the profile round-trips exactly.
func (s *Store) SaveCandidate(ctx context.Context, profile *types.CandidateProfile) (uuid.UUID, error) {
	education, err := json.Marshal(profile.Education)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal education: %w", err)
	}
	experience, err := json.Marshal(profile.Experience)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal experience: %w", err)
	}
	skills, err := json.Marshal(profile.Skills)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal skills: %w", err)
	}
	extractionErrors, err := json.Marshal(profile.ExtractionErrors)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal extraction errors: %w", err)
	}

	var id uuid.UUID
	err = s.pool.QueryRow(ctx,
		`INSERT INTO candidates
			(name, email, phone, education, experience, skills,
			 total_experience_years, extraction_status, extraction_errors)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		profile.Name, profile.Email, profile.Phone,
		education, experience, skills,
		profile.TotalExperienceYears, string(profile.ExtractionStatus), extractionErrors,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save candidate: %w", err)
	}
	return id, nil
}

// GetCandidate retrieves a candidate profile by ID. Returns (nil, nil) when
// no candidate exists.
func (s *Store) GetCandidate(ctx context.Context, id uuid.UUID) (*types.CandidateProfile, error) {
	var (
		profile          types.CandidateProfile
		status           string
		education        []byte
		experience       []byte
		skills           []byte
		extractionErrors []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, COALESCE(name, ''), COALESCE(email, ''), COALESCE(phone, ''),
			education, experience, skills,
			total_experience_years, extraction_status, extraction_errors
		 FROM candidates WHERE id = $1`,
		id,
	).Scan(&profile.ID, &profile.Name, &profile.Email, &profile.Phone,
		&education, &experience, &skills,
		&profile.TotalExperienceYears, &status, &extractionErrors)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}

	profile.ExtractionStatus = types.ExtractionStatus(status)
	if err := json.Unmarshal(education, &profile.Education); err != nil {
		return nil, fmt.Errorf("failed to unmarshal education: %w", err)
	}
	if err := json.Unmarshal(experience, &profile.Experience); err != nil {
		return nil, fmt.Errorf("failed to unmarshal experience: %w", err)
	}
	if err := json.Unmarshal(skills, &profile.Skills); err != nil {
		return nil, fmt.Errorf("failed to unmarshal skills: %w", err)
	}
	if err := json.Unmarshal(extractionErrors, &profile.ExtractionErrors); err != nil {
		return nil, fmt.Errorf("failed to unmarshal extraction errors: %w", err)
	}
	return &profile, nil
}

// CandidateSummary is a lightweight view of a candidate for listing.
type CandidateSummary struct {
	ID                   uuid.UUID              `json:"id"`
	Name                 string                 `json:"name"`
	Email                string                 `json:"email"`
	TotalExperienceYears int                    `json:"total_experience_years"`
	ExtractionStatus     types.ExtractionStatus `json:"extraction_status"`
	SkillCount           int                    `json:"skill_count"`
}

// ListCandidates retrieves recent candidates, newest first.
func (s *Store) ListCandidates(ctx context.Context, limit int) ([]CandidateSummary, error) {
	if limit == 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, COALESCE(name, ''), COALESCE(email, ''),
			total_experience_years, extraction_status,
			jsonb_array_length(skills)
		 FROM candidates ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	var out []CandidateSummary
	for rows.Next() {
		var c CandidateSummary
		var status string
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.TotalExperienceYears, &status, &c.SkillCount); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		c.ExtractionStatus = types.ExtractionStatus(status)
		out = append(out, c)
	}
	return out, rows.Err()
}

// DeleteCandidate deletes a candidate and its match results via cascade.
func (s *Store) DeleteCandidate(ctx context.Context, id uuid.UUID) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete candidate: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("candidate not found: %s", id)
	}
	return nil
}
