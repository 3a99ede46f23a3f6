package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mkarlsson/cvscreen/internal/types"
)

// UpsertMatch stores a match result, replacing any earlier result for the
// same (candidate, job) pair so re-screening stays idempotent.
func (s *Store) UpsertMatch(ctx context.Context, m *types.MatchResult) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO matches
			(candidate_id, job_id, match_score, skill_match_score,
			 experience_match_score, education_match_score, status, screening_notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (candidate_id, job_id) DO UPDATE SET
			match_score = $3, skill_match_score = $4,
			experience_match_score = $5, education_match_score = $6,
			status = $7, screening_notes = $8, created_at = NOW()`,
		m.CandidateID, m.JobID, m.MatchScore, m.SkillMatchScore,
		m.ExperienceMatchScore, m.EducationMatchScore, string(m.Status), m.ScreeningNotes,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert match: %w", err)
	}
	return nil
}

// ListMatchesForJob retrieves a job's match results ordered by score, best
// first.
func (s *Store) ListMatchesForJob(ctx context.Context, jobID uuid.UUID, limit int) ([]types.MatchResult, error) {
	if limit == 0 {
		limit = 100
	}

	rows, err := s.pool.Query(ctx,
		`SELECT candidate_id, job_id, match_score, skill_match_score,
			experience_match_score, education_match_score, status, screening_notes
		 FROM matches WHERE job_id = $1
		 ORDER BY match_score DESC LIMIT $2`,
		jobID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var matches []types.MatchResult
	for rows.Next() {
		var m types.MatchResult
		var status string
		if err := rows.Scan(&m.CandidateID, &m.JobID, &m.MatchScore, &m.SkillMatchScore,
			&m.ExperienceMatchScore, &m.EducationMatchScore, &status, &m.ScreeningNotes); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		m.Status = types.QualificationStatus(status)
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// DashboardStats aggregates counts for the overview endpoint.
type DashboardStats struct {
	Candidates           int `json:"candidates"`
	Jobs                 int `json:"jobs"`
	Matches              int `json:"matches"`
	Qualified            int `json:"qualified"`
	PotentiallyQualified int `json:"potentially_qualified"`
	NotQualified         int `json:"not_qualified"`
}

// GetDashboardStats returns aggregate counts across the whole store.
func (s *Store) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	err := s.pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM candidates),
			(SELECT COUNT(*) FROM jobs),
			(SELECT COUNT(*) FROM matches),
			(SELECT COUNT(*) FROM matches WHERE status = 'Qualified'),
			(SELECT COUNT(*) FROM matches WHERE status = 'Potentially Qualified'),
			(SELECT COUNT(*) FROM matches WHERE status = 'Not Qualified')`,
	).Scan(&stats.Candidates, &stats.Jobs, &stats.Matches,
		&stats.Qualified, &stats.PotentiallyQualified, &stats.NotQualified)
	if err != nil {
		return nil, fmt.Errorf("failed to get dashboard stats: %w", err)
	}
	return &stats, nil
}
