package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-jobboard-backend/config"
	v1 "go-jobboard-backend/internal/delivery/http/v1"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/internal/usecase"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAuthUC struct{ mock.Mock }

func (m *MockAuthUC) SignupEmployer(ctx context.Context, req *domain.EmployerSignup) (*domain.AuthResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*domain.AuthResult)
	return res, args.Error(1)
}
func (m *MockAuthUC) SignupJobseeker(ctx context.Context, req *domain.JobseekerSignup) (*domain.AuthResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*domain.AuthResult)
	return res, args.Error(1)
}
func (m *MockAuthUC) Signin(ctx context.Context, email, password, role string) (*domain.AuthResult, error) {
	args := m.Called(ctx, email, password, role)
	res, _ := args.Get(0).(*domain.AuthResult)
	return res, args.Error(1)
}
func (m *MockAuthUC) Logout(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

type MockProfileUC struct{ mock.Mock }

func (m *MockProfileUC) GetProfile(ctx context.Context, userID int64, role string) (interface{}, error) {
	args := m.Called(ctx, userID, role)
	return args.Get(0), args.Error(1)
}
func (m *MockProfileUC) UpdateProfile(ctx context.Context, userID int64, role, email string, fields map[string]interface{}) error {
	return m.Called(ctx, userID, role, email, fields).Error(0)
}
func (m *MockProfileUC) DeleteAccount(ctx context.Context, userID int64, role string) error {
	return m.Called(ctx, userID, role).Error(0)
}
func (m *MockProfileUC) UploadProfileImage(ctx context.Context, userID int64, role string, file *domain.UploadedFile) (string, error) {
	args := m.Called(ctx, userID, role, file)
	return args.String(0), args.Error(1)
}

type MockJobUC struct{ mock.Mock }

func (m *MockJobUC) CreateJob(ctx context.Context, employerID int64, job *domain.Job) error {
	return m.Called(ctx, employerID, job).Error(0)
}
func (m *MockJobUC) GetJob(ctx context.Context, id int64) (*domain.Job, error) {
	args := m.Called(ctx, id)
	job, _ := args.Get(0).(*domain.Job)
	return job, args.Error(1)
}
func (m *MockJobUC) ListJobs(ctx context.Context, page, pageSize int) ([]domain.JobWithDetails, int64, error) {
	args := m.Called(ctx, page, pageSize)
	jobs, _ := args.Get(0).([]domain.JobWithDetails)
	return jobs, args.Get(1).(int64), args.Error(2)
}
func (m *MockJobUC) ListJobsByEmployer(ctx context.Context, employerID int64) ([]domain.JobWithDetails, error) {
	args := m.Called(ctx, employerID)
	jobs, _ := args.Get(0).([]domain.JobWithDetails)
	return jobs, args.Error(1)
}
func (m *MockJobUC) SearchJobs(ctx context.Context, filter domain.JobSearch) ([]domain.JobWithDetails, error) {
	args := m.Called(ctx, filter)
	jobs, _ := args.Get(0).([]domain.JobWithDetails)
	return jobs, args.Error(1)
}
func (m *MockJobUC) UpdateJob(ctx context.Context, employerID int64, job *domain.Job) error {
	return m.Called(ctx, employerID, job).Error(0)
}
func (m *MockJobUC) DeleteJob(ctx context.Context, employerID, id int64) error {
	return m.Called(ctx, employerID, id).Error(0)
}
func (m *MockJobUC) ListCategories(ctx context.Context) ([]domain.JobCategory, error) {
	args := m.Called(ctx)
	cats, _ := args.Get(0).([]domain.JobCategory)
	return cats, args.Error(1)
}
func (m *MockJobUC) ListLocations(ctx context.Context) ([]domain.JobLocation, error) {
	args := m.Called(ctx)
	locs, _ := args.Get(0).([]domain.JobLocation)
	return locs, args.Error(1)
}

type MockSavedJobUC struct{ mock.Mock }

func (m *MockSavedJobUC) SaveJob(ctx context.Context, jobseekerID, jobID int64) (*domain.SavedJob, error) {
	args := m.Called(ctx, jobseekerID, jobID)
	saved, _ := args.Get(0).(*domain.SavedJob)
	return saved, args.Error(1)
}
func (m *MockSavedJobUC) ListSavedJobs(ctx context.Context, callerID, jobseekerID int64) ([]domain.SavedJobDetail, error) {
	args := m.Called(ctx, callerID, jobseekerID)
	saved, _ := args.Get(0).([]domain.SavedJobDetail)
	return saved, args.Error(1)
}
func (m *MockSavedJobUC) RemoveSavedJob(ctx context.Context, jobseekerID, jobID int64) error {
	return m.Called(ctx, jobseekerID, jobID).Error(0)
}

type MockApplicationUC struct{ mock.Mock }

func (m *MockApplicationUC) Apply(ctx context.Context, jobseekerID, jobID int64, in *domain.ApplicationInput, resume *domain.UploadedFile) (*domain.Application, error) {
	args := m.Called(ctx, jobseekerID, jobID, in, resume)
	app, _ := args.Get(0).(*domain.Application)
	return app, args.Error(1)
}
func (m *MockApplicationUC) ListReceived(ctx context.Context, callerID, employerID int64) ([]domain.ReceivedApplication, error) {
	args := m.Called(ctx, callerID, employerID)
	apps, _ := args.Get(0).([]domain.ReceivedApplication)
	return apps, args.Error(1)
}
func (m *MockApplicationUC) ExportReceived(ctx context.Context, callerID, employerID int64) ([]byte, string, error) {
	args := m.Called(ctx, callerID, employerID)
	data, _ := args.Get(0).([]byte)
	return data, args.String(1), args.Error(2)
}
func (m *MockApplicationUC) ListSubmitted(ctx context.Context, callerID, jobseekerID int64) ([]domain.SubmittedApplication, error) {
	args := m.Called(ctx, callerID, jobseekerID)
	apps, _ := args.Get(0).([]domain.SubmittedApplication)
	return apps, args.Error(1)
}
func (m *MockApplicationUC) UpdateApplication(ctx context.Context, jobseekerID, id int64, in *domain.ApplicationInput, resume *domain.UploadedFile) error {
	return m.Called(ctx, jobseekerID, id, in, resume).Error(0)
}
func (m *MockApplicationUC) DeleteApplication(ctx context.Context, jobseekerID, id int64) error {
	return m.Called(ctx, jobseekerID, id).Error(0)
}

type testEnv struct {
	router  *gin.Engine
	tokens  *auth.TokenManager
	revoked auth.RevocationStore
	auth    *MockAuthUC
	profile *MockProfileUC
	jobs    *MockJobUC
	saved   *MockSavedJobUC
	apps    *MockApplicationUC
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		tokens:  auth.NewTokenManager("handler-test-secret", time.Hour),
		revoked: auth.NewMemoryRevocationStore(),
		auth:    new(MockAuthUC),
		profile: new(MockProfileUC),
		jobs:    new(MockJobUC),
		saved:   new(MockSavedJobUC),
		apps:    new(MockApplicationUC),
	}
	cfg := &config.Config{
		FrontendURL:              "http://localhost:5173",
		StorageDriver:            "s3",
		MaxUploadMB:              1,
		RateLimitWindowSeconds:   60,
		RateLimitGlobalThreshold: 10000,
		RateLimitAuthThreshold:   10000,
		RateLimitUploadThreshold: 10000,
	}
	env.router = v1.NewRouter(v1.RouterDeps{
		AuthUC:        env.auth,
		ProfileUC:     env.profile,
		JobUC:         env.jobs,
		SavedJobUC:    env.saved,
		ApplicationUC: env.apps,
		HealthUC: usecase.NewHealthUsecase(map[string]usecase.HealthCheck{
			"database": func(context.Context) error { return nil },
		}, nil),
		Tokens:  env.tokens,
		Revoked: env.revoked,
		Config:  cfg,
	})
	return env
}

func (e *testEnv) token(t *testing.T, id int64, role domain.Role) string {
	t.Helper()
	tok, err := e.tokens.Issue(id, "user@example.com", string(role))
	require.NoError(t, err)
	return tok
}

func (e *testEnv) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func jsonRequest(method, path string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	RequestID string          `json:"request_id"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestAuthMiddleware(t *testing.T) {
	env := newTestEnv(t)

	t.Run("missing token", func(t *testing.T) {
		w := env.do(httptest.NewRequest(http.MethodGet, "/api/profile", nil), "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, decode(t, w).Success)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := env.do(httptest.NewRequest(http.MethodGet, "/api/profile", nil), "nope")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("revoked token", func(t *testing.T) {
		tok := env.token(t, 3, domain.RoleEmployer)
		claims, err := env.tokens.Parse(tok)
		require.NoError(t, err)
		require.NoError(t, env.revoked.Revoke(context.Background(), claims.ID, claims.ExpiresAt.Time))

		w := env.do(httptest.NewRequest(http.MethodGet, "/api/profile", nil), tok)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestProfileUpdateHandler(t *testing.T) {
	t.Run("identity comes from the token", func(t *testing.T) {
		env := newTestEnv(t)
		env.profile.On("UpdateProfile", mock.Anything, int64(3), "employer", "new@acme.test", mock.Anything).Return(nil)

		w := env.do(jsonRequest(http.MethodPut, "/api/profile", map[string]interface{}{
			"email":    "new@acme.test",
			"industry": "Finance",
		}), env.token(t, 3, domain.RoleEmployer))

		assert.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, "Profile updated successfully", body.Message)
		assert.NotEmpty(t, body.RequestID)
		env.profile.AssertExpectations(t)
	})

	t.Run("foreign userId is forbidden", func(t *testing.T) {
		env := newTestEnv(t)
		w := env.do(jsonRequest(http.MethodPut, "/api/profile", map[string]interface{}{
			"userId": 99,
			"email":  "new@acme.test",
		}), env.token(t, 3, domain.RoleEmployer))

		assert.Equal(t, http.StatusForbidden, w.Code)
		env.profile.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("foreign role is forbidden", func(t *testing.T) {
		env := newTestEnv(t)
		w := env.do(jsonRequest(http.MethodPut, "/api/profile", map[string]interface{}{
			"role":  "jobseeker",
			"email": "new@acme.test",
		}), env.token(t, 3, domain.RoleEmployer))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("usecase errors keep their status", func(t *testing.T) {
		env := newTestEnv(t)
		env.profile.On("UpdateProfile", mock.Anything, int64(3), "employer", "taken@acme.test", mock.Anything).
			Return(apperror.Conflict("Email already registered"))

		w := env.do(jsonRequest(http.MethodPut, "/api/profile", map[string]interface{}{"email": "taken@acme.test"}),
			env.token(t, 3, domain.RoleEmployer))
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "Email already registered", decode(t, w).Message)
	})

	t.Run("internal errors are opaque", func(t *testing.T) {
		env := newTestEnv(t)
		env.profile.On("DeleteAccount", mock.Anything, int64(3), "employer").
			Return(apperror.Internal(assert.AnError))

		w := env.do(httptest.NewRequest(http.MethodDelete, "/api/profile", nil), env.token(t, 3, domain.RoleEmployer))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), assert.AnError.Error())
	})
}

func TestJobHandlers(t *testing.T) {
	t.Run("jobseekers cannot create jobs", func(t *testing.T) {
		env := newTestEnv(t)
		w := env.do(jsonRequest(http.MethodPost, "/api/jobs", map[string]interface{}{"title": "x"}),
			env.token(t, 5, domain.RoleJobseeker))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("employer creates job", func(t *testing.T) {
		env := newTestEnv(t)
		env.jobs.On("CreateJob", mock.Anything, int64(3), mock.AnythingOfType("*domain.Job")).Return(nil)

		w := env.do(jsonRequest(http.MethodPost, "/api/jobs", map[string]interface{}{
			"category_id": 1, "location_id": 2, "title": "Go dev", "description": "d",
			"requirements": "r", "salary_range": "1-2", "job_type": "full-time", "deadline": "2030-01-01",
		}), env.token(t, 3, domain.RoleEmployer))
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("empty search is a 200 with an empty list", func(t *testing.T) {
		env := newTestEnv(t)
		env.jobs.On("SearchJobs", mock.Anything, domain.JobSearch{Query: "rust", JobTypes: []string{"contract", "internship"}}).
			Return(nil, nil)

		w := env.do(httptest.NewRequest(http.MethodGet, "/api/jobs/search?query=rust&job_type=contract&job_type=internship", nil),
			env.token(t, 5, domain.RoleJobseeker))
		assert.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, "No jobs found.", body.Message)
		assert.JSONEq(t, "[]", string(body.Data))
	})

	t.Run("invalid id", func(t *testing.T) {
		env := newTestEnv(t)
		w := env.do(httptest.NewRequest(http.MethodGet, "/api/jobs/abc", nil), env.token(t, 5, domain.RoleJobseeker))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSavedJobHandler(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, 5, domain.RoleJobseeker)
	env.saved.On("SaveJob", mock.Anything, int64(5), int64(8)).Return(nil, apperror.Conflict("Job already saved"))

	w := env.do(jsonRequest(http.MethodPost, "/api/saved", map[string]interface{}{"job_id": 8, "jobseeker_id": 5}), tok)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(jsonRequest(http.MethodPost, "/api/saved", map[string]interface{}{"job_id": 8, "jobseeker_id": 6}), tok)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestApplicationHandlers(t *testing.T) {
	t.Run("multipart apply with resume", func(t *testing.T) {
		env := newTestEnv(t)
		env.apps.On("Apply", mock.Anything, int64(5), int64(10), mock.AnythingOfType("*domain.ApplicationInput"), mock.AnythingOfType("*domain.UploadedFile")).
			Return(&domain.Application{ID: 1, JobID: 10, JobseekerID: 5}, nil).Run(func(args mock.Arguments) {
			in := args.Get(3).(*domain.ApplicationInput)
			assert.Equal(t, "Jo", in.FullName)
			file := args.Get(4).(*domain.UploadedFile)
			assert.Equal(t, "cv.pdf", file.Filename)
		})

		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		_ = mw.WriteField("job_id", "10")
		_ = mw.WriteField("full_name", "Jo")
		_ = mw.WriteField("email", "jo@example.com")
		_ = mw.WriteField("phone", "+15550001")
		fw, err := mw.CreateFormFile("resume", "cv.pdf")
		require.NoError(t, err)
		_, _ = fw.Write([]byte("%PDF-1.4\n%%EOF\n"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/job-applications/upload", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := env.do(req, env.token(t, 5, domain.RoleJobseeker))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "Application submitted successfully", decode(t, w).Message)
	})

	t.Run("export sets attachment headers", func(t *testing.T) {
		env := newTestEnv(t)
		env.apps.On("ExportReceived", mock.Anything, int64(3), int64(3)).Return([]byte("xlsx"), "applications_3.xlsx", nil)

		w := env.do(httptest.NewRequest(http.MethodGet, "/api/job-applications/employer/3/export", nil),
			env.token(t, 3, domain.RoleEmployer))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "attachment; filename=applications_3.xlsx", w.Header().Get("Content-Disposition"))
		assert.Equal(t, "xlsx", w.Body.String())
	})
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(httptest.NewRequest(http.MethodGet, "/api/health", nil), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}
