// Package pipeline provides the high-level orchestration for resume
// screening: text extraction, field extraction, skill analysis and match
// scoring behind one façade.
package pipeline

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mkarlsson/cvscreen/internal/extraction"
	"github.com/mkarlsson/cvscreen/internal/matching"
	"github.com/mkarlsson/cvscreen/internal/ner"
	"github.com/mkarlsson/cvscreen/internal/skills"
	"github.com/mkarlsson/cvscreen/internal/textextract"
	"github.com/mkarlsson/cvscreen/internal/types"
)

// matchConcurrency bounds the parallel match workers in MatchAll.
const matchConcurrency = 8

// Screener wires the screening stages together. Construct once and share;
// all stages are safe for concurrent use.
type Screener struct {
	extractor *extraction.Extractor
	analyzer  *skills.Analyzer
	engine    *matching.Engine
	logger    *zap.Logger
}

// New builds a Screener with the heuristic entity recognizer.
func New(logger *zap.Logger) *Screener {
	if logger == nil {
		logger = zap.NewNop()
	}
	recognizer := ner.NewHeuristic()
	return &Screener{
		extractor: extraction.New(recognizer, logger),
		analyzer:  skills.NewAnalyzer(logger),
		engine:    matching.NewEngine(logger),
		logger:    logger,
	}
}

// Screen extracts a full candidate profile from an uploaded resume file.
// The returned profile is valid even on error; the error is non-nil only
// when the file is unreadable or extraction failed outright.
func (s *Screener) Screen(ctx context.Context, filename string, data []byte) (types.CandidateProfile, error) {
	if err := ctx.Err(); err != nil {
		return types.CandidateProfile{}, err
	}

	text, err := textextract.FromFile(filename, data)
	if err != nil {
		return types.CandidateProfile{}, fmt.Errorf("extract text from %s: %w", filename, err)
	}
	return s.ScreenText(text)
}

// ScreenText runs field extraction and skill analysis over cleaned resume
// text.
func (s *Screener) ScreenText(text string) (types.CandidateProfile, error) {
	profile := s.extractor.Extract(text)
	profile.Skills = s.analyzer.Analyze(text)

	s.logger.Info("resume screened",
		zap.String("status", string(profile.ExtractionStatus)),
		zap.Int("skills", len(profile.Skills)),
		zap.Int("experience_years", profile.TotalExperienceYears))

	if profile.ExtractionStatus == types.ExtractionFailed {
		if profile.Name == "" && profile.Email == "" {
			return profile, &extraction.ErrProfileIncomplete{}
		}
		return profile, fmt.Errorf("extraction failed: %d errors", len(profile.ExtractionErrors))
	}
	return profile, nil
}

// Match scores one candidate against one job.
func (s *Screener) Match(candidate *types.CandidateProfile, job *types.JobRequirement) types.MatchResult {
	return s.engine.Match(candidate, job)
}

// MatchAll scores every candidate against the job concurrently and returns
// the results ordered by match score, best first.
func (s *Screener) MatchAll(ctx context.Context, candidates []types.CandidateProfile, job *types.JobRequirement) ([]types.MatchResult, error) {
	results := make([]types.MatchResult, len(candidates))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(matchConcurrency)
	for i := range candidates {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = s.engine.Match(&candidates[i], job)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchScore > results[j].MatchScore
	})
	return results, nil
}
