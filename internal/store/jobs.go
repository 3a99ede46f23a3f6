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

// CreateJob inserts a job requirement and returns its ID.
func (s *Store) CreateJob(ctx context.Context, job *types.JobRequirement) (uuid.UUID, error) {
	required, err := json.Marshal(emptyIfNil(job.RequiredSkills))
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal required skills: %w", err)
	}
	preferred, err := json.Marshal(emptyIfNil(job.PreferredSkills))
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal preferred skills: %w", err)
	}

	var id uuid.UUID
	err = s.pool.QueryRow(ctx,
		`INSERT INTO jobs (title, required_skills, preferred_skills, min_experience_years, education_level)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		job.Title, required, preferred, job.MinExperienceYears, job.EducationLevel,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create job: %w", err)
	}
	return id, nil
}

// GetJob retrieves a job requirement by ID. Returns (nil, nil) when no job
// exists.
func (s *Store) GetJob(ctx context.Context, id uuid.UUID) (*types.JobRequirement, error) {
	var (
		job       types.JobRequirement
		required  []byte
		preferred []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, title, required_skills, preferred_skills, min_experience_years, education_level
		 FROM jobs WHERE id = $1`,
		id,
	).Scan(&job.ID, &job.Title, &required, &preferred, &job.MinExperienceYears, &job.EducationLevel)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	if err := json.Unmarshal(required, &job.RequiredSkills); err != nil {
		return nil, fmt.Errorf("failed to unmarshal required skills: %w", err)
	}
	if err := json.Unmarshal(preferred, &job.PreferredSkills); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preferred skills: %w", err)
	}
	return &job, nil
}

// ListJobs retrieves recent jobs, newest first.
func (s *Store) ListJobs(ctx context.Context, limit int) ([]types.JobRequirement, error) {
	if limit == 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, title, required_skills, preferred_skills, min_experience_years, education_level
		 FROM jobs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []types.JobRequirement
	for rows.Next() {
		var (
			job       types.JobRequirement
			required  []byte
			preferred []byte
		)
		if err := rows.Scan(&job.ID, &job.Title, &required, &preferred, &job.MinExperienceYears, &job.EducationLevel); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		if err := json.Unmarshal(required, &job.RequiredSkills); err != nil {
			return nil, fmt.Errorf("failed to unmarshal required skills: %w", err)
		}
		if err := json.Unmarshal(preferred, &job.PreferredSkills); err != nil {
			return nil, fmt.Errorf("failed to unmarshal preferred skills: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// UpdateJob replaces a job's requirement fields.
func (s *Store) UpdateJob(ctx context.Context, job *types.JobRequirement) error {
	required, err := json.Marshal(emptyIfNil(job.RequiredSkills))
	if err != nil {
		return fmt.Errorf("failed to marshal required skills: %w", err)
	}
	preferred, err := json.Marshal(emptyIfNil(job.PreferredSkills))
	if err != nil {
		return fmt.Errorf("failed to marshal preferred skills: %w", err)
	}

	result, err := s.pool.Exec(ctx,
		`UPDATE jobs
		 SET title = $1, required_skills = $2, preferred_skills = $3,
			 min_experience_years = $4, education_level = $5
		 WHERE id = $6`,
		job.Title, required, preferred, job.MinExperienceYears, job.EducationLevel, job.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("job not found: %s", job.ID)
	}
	return nil
}

// DeleteJob deletes a job and its match results via cascade.
func (s *Store) DeleteJob(ctx context.Context, id uuid.UUID) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("job not found: %s", id)
	}
	return nil
}

func emptyIfNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
