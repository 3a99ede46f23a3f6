package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mkarlsson/cvscreen/internal/config"
	"github.com/mkarlsson/cvscreen/internal/pipeline"
	"github.com/mkarlsson/cvscreen/internal/store"
	"github.com/mkarlsson/cvscreen/internal/types"
)

// fakeStore is an in-memory screeningStore.
type fakeStore struct {
	mu         sync.Mutex
	candidates map[uuid.UUID]types.CandidateProfile
	jobs       map[uuid.UUID]types.JobRequirement
	matches    map[string]types.MatchResult
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		candidates: make(map[uuid.UUID]types.CandidateProfile),
		jobs:       make(map[uuid.UUID]types.JobRequirement),
		matches:    make(map[string]types.MatchResult),
	}
}

func (f *fakeStore) SaveCandidate(_ context.Context, profile *types.CandidateProfile) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	stored := *profile
	stored.ID = id
	f.candidates[id] = stored
	return id, nil
}

func (f *fakeStore) GetCandidate(_ context.Context, id uuid.UUID) (*types.CandidateProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if profile, ok := f.candidates[id]; ok {
		return &profile, nil
	}
	return nil, nil
}

func (f *fakeStore) ListCandidates(_ context.Context, _ int) ([]store.CandidateSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []store.CandidateSummary
	for id, c := range f.candidates {
		out = append(out, store.CandidateSummary{ID: id, Name: c.Name, Email: c.Email})
	}
	return out, nil
}

func (f *fakeStore) DeleteCandidate(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.candidates[id]; !ok {
		return fmt.Errorf("candidate %s not found", id)
	}
	delete(f.candidates, id)
	return nil
}

func (f *fakeStore) CreateJob(_ context.Context, job *types.JobRequirement) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	stored := *job
	stored.ID = id
	f.jobs[id] = stored
	return id, nil
}

func (f *fakeStore) GetJob(_ context.Context, id uuid.UUID) (*types.JobRequirement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if job, ok := f.jobs[id]; ok {
		return &job, nil
	}
	return nil, nil
}

func (f *fakeStore) ListJobs(_ context.Context, _ int) ([]types.JobRequirement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []types.JobRequirement
	for _, job := range f.jobs {
		out = append(out, job)
	}
	return out, nil
}

func (f *fakeStore) UpdateJob(_ context.Context, job *types.JobRequirement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.jobs[job.ID]; !ok {
		return fmt.Errorf("job %s not found", job.ID)
	}
	f.jobs[job.ID] = *job
	return nil
}

func (f *fakeStore) DeleteJob(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.jobs[id]; !ok {
		return fmt.Errorf("job %s not found", id)
	}
	delete(f.jobs, id)
	return nil
}

func (f *fakeStore) UpsertMatch(_ context.Context, m *types.MatchResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.matches[m.CandidateID.String()+"/"+m.JobID.String()] = *m
	return nil
}

func (f *fakeStore) ListMatchesForJob(_ context.Context, jobID uuid.UUID, _ int) ([]types.MatchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []types.MatchResult
	for _, m := range f.matches {
		if m.JobID == jobID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MatchScore > out[j].MatchScore })
	return out, nil
}

func (f *fakeStore) GetDashboardStats(_ context.Context) (*store.DashboardStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &store.DashboardStats{
		Candidates: len(f.candidates),
		Jobs:       len(f.jobs),
		Matches:    len(f.matches),
	}, nil
}

// fakeUserStore is an in-memory userStore.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]store.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]store.User)}
}

func (f *fakeUserStore) CreateUser(_ context.Context, name, email, passwordHash string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[email]; ok {
		return uuid.Nil, store.ErrEmailTaken
	}
	id := uuid.New()
	f.users[email] = store.User{ID: id, Name: name, Email: email, PasswordHash: passwordHash}
	return id, nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.users[email]; ok {
		return &user, nil
	}
	return nil, nil
}

type testEnv struct {
	handler http.Handler
	store   *fakeStore
	users   *fakeUserStore
	jwt     *JWTService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	fs := newFakeStore()
	users := newFakeUserStore()
	logger := zap.NewNop()

	jwtService := NewJWTService(&config.JWTConfig{
		Secret:          "test-secret",
		Issuer:          "cvscreen",
		ExpirationHours: 1,
	})
	passwords := &config.PasswordConfig{BcryptCost: 10}

	s := &Server{
		store:          fs,
		screener:       pipeline.New(logger),
		jwtService:     jwtService,
		authHandler:    NewAuthHandler(users, passwords, jwtService, logger),
		validate:       validator.New(),
		logger:         logger,
		maxUploadBytes: 10 << 20,
	}
	return &testEnv{handler: s.routes(), store: fs, users: users, jwt: jwtService}
}

func (e *testEnv) token(t *testing.T) string {
	t.Helper()
	token, err := e.jwt.GenerateToken(uuid.New())
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body []byte, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func multipartResume(t *testing.T, filename, content string) ([]byte, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes(), w.FormDataContentType()
}

const testResume = `Jane Smith
jane.smith@example.com

Experience
Software Engineer at Acme Corp, 2018 - 2022
- Built Python services backed by PostgreSQL

Skills
Python, PostgreSQL, Docker
`

func TestHealth_NoAuthRequired(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/health", "", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPI_RequiresToken(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/jobs", "", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_RejectsGarbageToken(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/jobs", "not-a-jwt", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegister_IssuesToken(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/auth/register", "", []byte(`{
		"name": "Jane Smith",
		"email": "jane@example.com",
		"password": "hunter2hunter2"
	}`), "application/json")
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)

	userID, err := env.jwt.ValidateUserID(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.UserID, userID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	body := []byte(`{"name": "Jane", "email": "jane@example.com", "password": "hunter2hunter2"}`)

	rec := env.do(t, http.MethodPost, "/auth/register", "", body, "application/json")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/auth/register", "", body, "application/json")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegister_ValidationFailures(t *testing.T) {
	env := newTestEnv(t)
	for name, body := range map[string]string{
		"bad email":      `{"name": "Jane", "email": "not-an-email", "password": "hunter2hunter2"}`,
		"short password": `{"name": "Jane", "email": "jane@example.com", "password": "short"}`,
		"missing name":   `{"email": "jane@example.com", "password": "hunter2hunter2"}`,
		"bad json":       `{`,
	} {
		rec := env.do(t, http.MethodPost, "/auth/register", "", []byte(body), "application/json")
		assert.Equal(t, http.StatusBadRequest, rec.Code, name)
	}
}

func TestLogin_RoundTrip(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/auth/register", "", []byte(`{
		"name": "Jane", "email": "jane@example.com", "password": "hunter2hunter2"
	}`), "application/json")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/auth/login", "", []byte(`{
		"email": "jane@example.com", "password": "hunter2hunter2"
	}`), "application/json")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/auth/register", "", []byte(`{
		"name": "Jane", "email": "jane@example.com", "password": "hunter2hunter2"
	}`), "application/json")

	rec := env.do(t, http.MethodPost, "/auth/login", "", []byte(`{
		"email": "jane@example.com", "password": "wrong-password"
	}`), "application/json")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_UnknownEmail(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/auth/login", "", []byte(`{
		"email": "nobody@example.com", "password": "hunter2hunter2"
	}`), "application/json")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateJob_Valid(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/jobs", env.token(t), []byte(`{
		"title": "Backend Engineer",
		"required_skills": ["Python", "PostgreSQL"],
		"preferred_skills": ["Docker"],
		"min_experience_years": 3,
		"education_level": "Bachelor's"
	}`), "application/json")
	require.Equal(t, http.StatusCreated, rec.Code)

	var job types.JobRequirement
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &job))
	assert.NotEqual(t, uuid.Nil, job.ID)
	assert.Equal(t, "Backend Engineer", job.Title)
}

func TestCreateJob_SchemaViolations(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t)
	for name, body := range map[string]string{
		"unknown field":  `{"salary": 100000}`,
		"negative years": `{"min_experience_years": -1}`,
		"empty skill":    `{"required_skills": [""]}`,
		"wrong type":     `{"required_skills": "Python"}`,
	} {
		rec := env.do(t, http.MethodPost, "/jobs", token, []byte(body), "application/json")
		assert.Equal(t, http.StatusBadRequest, rec.Code, name)
	}
}

func TestGetJob_NotFound(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/jobs/"+uuid.NewString(), env.token(t), nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetJob_InvalidID(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/jobs/abc", env.token(t), nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListJobs_EmptyIsArray(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/jobs", env.token(t), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestUpdateJob_RoundTrip(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t)

	rec := env.do(t, http.MethodPost, "/jobs", token, []byte(`{"title": "Old Title"}`), "application/json")
	require.Equal(t, http.StatusCreated, rec.Code)
	var job types.JobRequirement
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &job))

	rec = env.do(t, http.MethodPut, "/jobs/"+job.ID.String(), token, []byte(`{"title": "New Title"}`), "application/json")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/jobs/"+job.ID.String(), token, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var updated types.JobRequirement
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "New Title", updated.Title)
}

func TestDeleteJob_ThenGone(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t)

	rec := env.do(t, http.MethodPost, "/jobs", token, []byte(`{"title": "Doomed"}`), "application/json")
	require.Equal(t, http.StatusCreated, rec.Code)
	var job types.JobRequirement
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &job))

	rec = env.do(t, http.MethodDelete, "/jobs/"+job.ID.String(), token, nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/jobs/"+job.ID.String(), token, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScreen_ReturnsProfileWithoutPersisting(t *testing.T) {
	env := newTestEnv(t)
	body, contentType := multipartResume(t, "resume.txt", testResume)

	rec := env.do(t, http.MethodPost, "/screen", env.token(t), body, contentType)
	require.Equal(t, http.StatusOK, rec.Code)

	var profile types.CandidateProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, "Jane Smith", profile.Name)
	assert.Empty(t, env.store.candidates)
}

func TestScreen_UnsupportedFileType(t *testing.T) {
	env := newTestEnv(t)
	body, contentType := multipartResume(t, "resume.png", "binary gunk")

	rec := env.do(t, http.MethodPost, "/screen", env.token(t), body, contentType)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestScreen_UnreadableFileRejected(t *testing.T) {
	env := newTestEnv(t)
	// The extension is supported but the bytes are not a PDF.
	body, contentType := multipartResume(t, "resume.pdf", "not a real pdf")

	rec := env.do(t, http.MethodPost, "/screen", env.token(t), body, contentType)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScreen_FailedExtractionStillReturnsProfile(t *testing.T) {
	env := newTestEnv(t)
	body, contentType := multipartResume(t, "resume.txt", ".....\n.....")

	rec := env.do(t, http.MethodPost, "/screen", env.token(t), body, contentType)
	require.Equal(t, http.StatusOK, rec.Code)

	var profile types.CandidateProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, types.ExtractionFailed, profile.ExtractionStatus)
}

func TestUploadCandidate_UnreadableFileRejected(t *testing.T) {
	env := newTestEnv(t)
	body, contentType := multipartResume(t, "resume.pdf", "not a real pdf")

	rec := env.do(t, http.MethodPost, "/candidates", env.token(t), body, contentType)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, env.store.candidates)
}

func TestScreen_MissingFileField(t *testing.T) {
	env := newTestEnv(t)
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("note", "no file here"))
	require.NoError(t, w.Close())

	rec := env.do(t, http.MethodPost, "/screen", env.token(t), buf.Bytes(), w.FormDataContentType())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadCandidate_Persists(t *testing.T) {
	env := newTestEnv(t)
	body, contentType := multipartResume(t, "resume.txt", testResume)

	rec := env.do(t, http.MethodPost, "/candidates", env.token(t), body, contentType)
	require.Equal(t, http.StatusCreated, rec.Code)

	var profile types.CandidateProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.NotEqual(t, uuid.Nil, profile.ID)
	assert.Len(t, env.store.candidates, 1)
}

func TestGetCandidate_AfterUpload(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t)
	body, contentType := multipartResume(t, "resume.txt", testResume)

	rec := env.do(t, http.MethodPost, "/candidates", token, body, contentType)
	require.Equal(t, http.StatusCreated, rec.Code)
	var uploaded types.CandidateProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &uploaded))

	rec = env.do(t, http.MethodGet, "/candidates/"+uploaded.ID.String(), token, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched types.CandidateProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, "Jane Smith", fetched.Name)
}

func TestDeleteCandidate_Gone(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t)
	body, contentType := multipartResume(t, "resume.txt", testResume)

	rec := env.do(t, http.MethodPost, "/candidates", token, body, contentType)
	require.Equal(t, http.StatusCreated, rec.Code)
	var uploaded types.CandidateProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &uploaded))

	rec = env.do(t, http.MethodDelete, "/candidates/"+uploaded.ID.String(), token, nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/candidates/"+uploaded.ID.String(), token, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMatchCandidate_PersistsResult(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t)

	body, contentType := multipartResume(t, "resume.txt", testResume)
	rec := env.do(t, http.MethodPost, "/candidates", token, body, contentType)
	require.Equal(t, http.StatusCreated, rec.Code)
	var candidate types.CandidateProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &candidate))

	rec = env.do(t, http.MethodPost, "/jobs", token, []byte(`{
		"title": "Backend Engineer",
		"required_skills": ["Python", "PostgreSQL"],
		"min_experience_years": 2
	}`), "application/json")
	require.Equal(t, http.StatusCreated, rec.Code)
	var job types.JobRequirement
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &job))

	rec = env.do(t, http.MethodPost, "/jobs/"+job.ID.String()+"/match/"+candidate.ID.String(), token, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var result types.MatchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, candidate.ID, result.CandidateID)
	assert.Equal(t, job.ID, result.JobID)
	assert.Greater(t, result.MatchScore, 0.0)
	assert.Len(t, env.store.matches, 1)

	// The stored result is visible through the matches listing.
	rec = env.do(t, http.MethodGet, "/jobs/"+job.ID.String()+"/matches", token, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []types.MatchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, result.MatchScore, listed[0].MatchScore)
}

func TestMatchAll_RanksStoredCandidates(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t)

	for _, resume := range []string{
		testResume,
		"John Weak\njohn.weak@example.com\n\nSkills\nPhotoshop\n",
	} {
		body, contentType := multipartResume(t, "resume.txt", resume)
		rec := env.do(t, http.MethodPost, "/candidates", token, body, contentType)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := env.do(t, http.MethodPost, "/jobs", token, []byte(`{
		"title": "Backend Engineer",
		"required_skills": ["Python", "PostgreSQL"]
	}`), "application/json")
	require.Equal(t, http.StatusCreated, rec.Code)
	var job types.JobRequirement
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &job))

	rec = env.do(t, http.MethodPost, "/jobs/"+job.ID.String()+"/match", token, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var results []types.MatchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	require.Len(t, results, 2)
	assert.GreaterOrEqual(t, results[0].MatchScore, results[1].MatchScore)
	assert.Len(t, env.store.matches, 2)
}

func TestDashboardStats(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t)

	rec := env.do(t, http.MethodPost, "/jobs", token, []byte(`{"title": "Backend Engineer"}`), "application/json")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/dashboard/stats", token, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats store.DashboardStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.Jobs)
	assert.Equal(t, 0, stats.Candidates)
}
