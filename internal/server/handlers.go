package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mkarlsson/cvscreen/internal/schemas"
	"github.com/mkarlsson/cvscreen/internal/store"
	"github.com/mkarlsson/cvscreen/internal/textextract"
	"github.com/mkarlsson/cvscreen/internal/types"
)

// screeningStore is the persistence surface the API handlers need. *store.Store
// implements it; tests substitute a fake.
type screeningStore interface {
	SaveCandidate(ctx context.Context, profile *types.CandidateProfile) (uuid.UUID, error)
	GetCandidate(ctx context.Context, id uuid.UUID) (*types.CandidateProfile, error)
	ListCandidates(ctx context.Context, limit int) ([]store.CandidateSummary, error)
	DeleteCandidate(ctx context.Context, id uuid.UUID) error

	CreateJob(ctx context.Context, job *types.JobRequirement) (uuid.UUID, error)
	GetJob(ctx context.Context, id uuid.UUID) (*types.JobRequirement, error)
	ListJobs(ctx context.Context, limit int) ([]types.JobRequirement, error)
	UpdateJob(ctx context.Context, job *types.JobRequirement) error
	DeleteJob(ctx context.Context, id uuid.UUID) error

	UpsertMatch(ctx context.Context, m *types.MatchResult) error
	ListMatchesForJob(ctx context.Context, jobID uuid.UUID, limit int) ([]types.MatchResult, error)
	GetDashboardStats(ctx context.Context) (*store.DashboardStats, error)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, HTTPStatus(err), map[string]string{"error": err.Error()})
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: name, Message: "must be a UUID"}
	}
	return id, nil
}

// readUpload pulls the resume file out of a multipart form, enforcing the
// configured size cap.
func (s *Server) readUpload(r *http.Request) (string, []byte, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		return "", nil, &ErrValidation{Field: "file", Message: "invalid or oversized multipart form"}
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, &ErrValidation{Field: "file", Message: "missing file field"}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, &ErrValidation{Field: "file", Message: "unreadable upload"}
	}
	return header.Filename, data, nil
}

// handleScreen parses a resume upload and returns the profile without
// persisting it.
func (s *Server) handleScreen(w http.ResponseWriter, r *http.Request) {
	filename, data, err := s.readUpload(r)
	if err != nil {
		writeError(w, err)
		return
	}

	profile, err := s.screener.Screen(r.Context(), filename, data)
	if err != nil {
		if errors.Is(err, textextract.ErrUnsupportedType) {
			writeError(w, &ErrUnsupportedMedia{Filename: filename})
			return
		}
		// No status at all means text extraction never ran: the file itself
		// is unreadable.
		if profile.ExtractionStatus == "" {
			writeError(w, &ErrValidation{Field: "file", Message: err.Error()})
			return
		}
	}
	// A failed profile is still a result; the status field carries the verdict.
	writeJSON(w, http.StatusOK, profile)
}

// handleUploadCandidate parses a resume upload, stores the profile and
// returns it with its new ID.
func (s *Server) handleUploadCandidate(w http.ResponseWriter, r *http.Request) {
	filename, data, err := s.readUpload(r)
	if err != nil {
		writeError(w, err)
		return
	}

	profile, err := s.screener.Screen(r.Context(), filename, data)
	if err != nil {
		if errors.Is(err, textextract.ErrUnsupportedType) {
			writeError(w, &ErrUnsupportedMedia{Filename: filename})
			return
		}
		if profile.ExtractionStatus == "" {
			writeError(w, &ErrValidation{Field: "file", Message: err.Error()})
			return
		}
	}

	id, err := s.store.SaveCandidate(r.Context(), &profile)
	if err != nil {
		s.logger.Error("candidate save failed", zap.Error(err))
		writeError(w, err)
		return
	}
	profile.ID = id
	writeJSON(w, http.StatusCreated, profile)
}

func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	profile, err := s.store.GetCandidate(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if profile == nil {
		writeError(w, &ErrNotFound{Resource: "candidate", ID: id})
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	candidates, err := s.store.ListCandidates(r.Context(), 0)
	if err != nil {
		writeError(w, err)
		return
	}
	if candidates == nil {
		candidates = []store.CandidateSummary{}
	}
	writeJSON(w, http.StatusOK, candidates)
}

func (s *Server) handleDeleteCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.DeleteCandidate(r.Context(), id); err != nil {
		writeError(w, &ErrNotFound{Resource: "candidate", ID: id})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeJob validates a job payload against the JSON schema and the struct
// tags before accepting it.
func (s *Server) decodeJob(r *http.Request) (*types.JobRequirement, error) {
	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, 1<<20))
	if err != nil {
		return nil, &ErrValidation{Field: "body", Message: "unreadable body"}
	}
	if err := schemas.ValidateJobRequirement(string(body)); err != nil {
		var verr *schemas.ValidationError
		if errors.As(err, &verr) && len(verr.Errors) > 0 {
			return nil, &ErrValidation{Field: verr.Errors[0].Field, Message: verr.Errors[0].Message}
		}
		return nil, err
	}

	var job types.JobRequirement
	if err := json.Unmarshal(body, &job); err != nil {
		return nil, &ErrValidation{Field: "body", Message: "invalid JSON"}
	}
	if err := s.validate.Struct(&job); err != nil {
		return nil, validationError(err)
	}
	return &job, nil
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.decodeJob(r)
	if err != nil {
		writeError(w, err)
		return
	}

	id, err := s.store.CreateJob(r.Context(), job)
	if err != nil {
		s.logger.Error("job creation failed", zap.Error(err))
		writeError(w, err)
		return
	}
	job.ID = id
	writeJSON(w, http.StatusCreated, job)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	job, err := s.store.GetJob(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if job == nil {
		writeError(w, &ErrNotFound{Resource: "job", ID: id})
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.store.ListJobs(r.Context(), 0)
	if err != nil {
		writeError(w, err)
		return
	}
	if jobs == nil {
		jobs = []types.JobRequirement{}
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	job, err := s.decodeJob(r)
	if err != nil {
		writeError(w, err)
		return
	}
	job.ID = id
	if err := s.store.UpdateJob(r.Context(), job); err != nil {
		writeError(w, &ErrNotFound{Resource: "job", ID: id})
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.DeleteJob(r.Context(), id); err != nil {
		writeError(w, &ErrNotFound{Resource: "job", ID: id})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleMatchCandidate scores one stored candidate against one stored job
// and persists the result.
func (s *Server) handleMatchCandidate(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	candidateID, err := pathUUID(r, "candidate_id")
	if err != nil {
		writeError(w, err)
		return
	}

	job, err := s.store.GetJob(r.Context(), jobID)
	if err != nil {
		writeError(w, err)
		return
	}
	if job == nil {
		writeError(w, &ErrNotFound{Resource: "job", ID: jobID})
		return
	}
	candidate, err := s.store.GetCandidate(r.Context(), candidateID)
	if err != nil {
		writeError(w, err)
		return
	}
	if candidate == nil {
		writeError(w, &ErrNotFound{Resource: "candidate", ID: candidateID})
		return
	}

	result := s.screener.Match(candidate, job)
	if err := s.store.UpsertMatch(r.Context(), &result); err != nil {
		s.logger.Error("match save failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleMatchAll scores every stored candidate against the job, persists the
// results and returns them ranked.
func (s *Server) handleMatchAll(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	job, err := s.store.GetJob(r.Context(), jobID)
	if err != nil {
		writeError(w, err)
		return
	}
	if job == nil {
		writeError(w, &ErrNotFound{Resource: "job", ID: jobID})
		return
	}

	summaries, err := s.store.ListCandidates(r.Context(), 0)
	if err != nil {
		writeError(w, err)
		return
	}
	candidates := make([]types.CandidateProfile, 0, len(summaries))
	for _, summary := range summaries {
		profile, err := s.store.GetCandidate(r.Context(), summary.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		if profile != nil {
			candidates = append(candidates, *profile)
		}
	}

	results, err := s.screener.MatchAll(r.Context(), candidates, job)
	if err != nil {
		s.logger.Error("match-all failed", zap.Error(err))
		writeError(w, err)
		return
	}
	for i := range results {
		if err := s.store.UpsertMatch(r.Context(), &results[i]); err != nil {
			s.logger.Error("match save failed", zap.Error(err))
			writeError(w, err)
			return
		}
	}
	if results == nil {
		results = []types.MatchResult{}
	}
	writeJSON(w, http.StatusOK, results)
}

// handleJobMatches returns a job's stored match results, best first.
func (s *Server) handleJobMatches(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	matches, err := s.store.ListMatchesForJob(r.Context(), jobID, 0)
	if err != nil {
		writeError(w, err)
		return
	}
	if matches == nil {
		matches = []types.MatchResult{}
	}
	writeJSON(w, http.StatusOK, matches)
}

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetDashboardStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
