package usecase_test

import (
	"context"
	"sync"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/security"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// Mock Repositories
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) CreateEmployer(ctx context.Context, user *domain.User, profile *domain.EmployerProfile) error {
	return m.Called(ctx, user, profile).Error(0)
}

func (m *MockUserRepo) CreateJobseeker(ctx context.Context, user *domain.User, profile *domain.JobseekerProfile) error {
	return m.Called(ctx, user, profile).Error(0)
}

type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) GetEmployer(ctx context.Context, userID int64) (*domain.EmployerProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EmployerProfile), args.Error(1)
}

func (m *MockProfileRepo) GetJobseeker(ctx context.Context, userID int64) (*domain.JobseekerProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobseekerProfile), args.Error(1)
}

func (m *MockProfileRepo) Update(ctx context.Context, upd *domain.ProfileUpdate) error {
	return m.Called(ctx, upd).Error(0)
}

func (m *MockProfileRepo) Delete(ctx context.Context, userID int64, role domain.Role) (*string, error) {
	args := m.Called(ctx, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*string), args.Error(1)
}

func (m *MockProfileRepo) SetProfileImage(ctx context.Context, userID int64, role domain.Role, url string) (*string, error) {
	args := m.Called(ctx, userID, role, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*string), args.Error(1)
}

type MockJobRepo struct {
	mock.Mock
}

func (m *MockJobRepo) Create(ctx context.Context, job *domain.Job) error {
	return m.Called(ctx, job).Error(0)
}

func (m *MockJobRepo) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *MockJobRepo) Fetch(ctx context.Context, limit, offset int) ([]domain.JobWithDetails, int64, error) {
	args := m.Called(ctx, limit, offset)
	jobs, _ := args.Get(0).([]domain.JobWithDetails)
	return jobs, args.Get(1).(int64), args.Error(2)
}

func (m *MockJobRepo) FetchByEmployer(ctx context.Context, employerID int64) ([]domain.JobWithDetails, error) {
	args := m.Called(ctx, employerID)
	jobs, _ := args.Get(0).([]domain.JobWithDetails)
	return jobs, args.Error(1)
}

func (m *MockJobRepo) Search(ctx context.Context, filter domain.JobSearch) ([]domain.JobWithDetails, error) {
	args := m.Called(ctx, filter)
	jobs, _ := args.Get(0).([]domain.JobWithDetails)
	return jobs, args.Error(1)
}

func (m *MockJobRepo) Update(ctx context.Context, job *domain.Job) error {
	return m.Called(ctx, job).Error(0)
}

func (m *MockJobRepo) Delete(ctx context.Context, id, employerID int64) error {
	return m.Called(ctx, id, employerID).Error(0)
}

func (m *MockJobRepo) ListCategories(ctx context.Context) ([]domain.JobCategory, error) {
	args := m.Called(ctx)
	cats, _ := args.Get(0).([]domain.JobCategory)
	return cats, args.Error(1)
}

func (m *MockJobRepo) ListLocations(ctx context.Context) ([]domain.JobLocation, error) {
	args := m.Called(ctx)
	locs, _ := args.Get(0).([]domain.JobLocation)
	return locs, args.Error(1)
}

type MockSavedJobRepo struct {
	mock.Mock
}

func (m *MockSavedJobRepo) Create(ctx context.Context, saved *domain.SavedJob) error {
	return m.Called(ctx, saved).Error(0)
}

func (m *MockSavedJobRepo) ListByJobseeker(ctx context.Context, jobseekerID int64) ([]domain.SavedJobDetail, error) {
	args := m.Called(ctx, jobseekerID)
	saved, _ := args.Get(0).([]domain.SavedJobDetail)
	return saved, args.Error(1)
}

func (m *MockSavedJobRepo) Delete(ctx context.Context, jobseekerID, jobID int64) error {
	return m.Called(ctx, jobseekerID, jobID).Error(0)
}

type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) Create(ctx context.Context, app *domain.Application) error {
	return m.Called(ctx, app).Error(0)
}

func (m *MockApplicationRepo) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationRepo) ListByEmployer(ctx context.Context, employerID int64) ([]domain.ReceivedApplication, error) {
	args := m.Called(ctx, employerID)
	apps, _ := args.Get(0).([]domain.ReceivedApplication)
	return apps, args.Error(1)
}

func (m *MockApplicationRepo) ListByJobseeker(ctx context.Context, jobseekerID int64) ([]domain.SubmittedApplication, error) {
	args := m.Called(ctx, jobseekerID)
	apps, _ := args.Get(0).([]domain.SubmittedApplication)
	return apps, args.Error(1)
}

func (m *MockApplicationRepo) Update(ctx context.Context, id, jobseekerID int64, in *domain.ApplicationInput, resumeLink *string) error {
	return m.Called(ctx, id, jobseekerID, in, resumeLink).Error(0)
}

func (m *MockApplicationRepo) Delete(ctx context.Context, id, jobseekerID int64) error {
	return m.Called(ctx, id, jobseekerID).Error(0)
}

// fakeFiles is an in-memory FileStorage keyed by URL
type fakeFiles struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
	saveErr error
}

func newFakeFiles() *fakeFiles {
	return &fakeFiles{objects: make(map[string][]byte)}
}

func (f *fakeFiles) Save(_ context.Context, name, _ string, data []byte) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	url := "http://files.test/uploads/" + name
	f.objects[url] = data
	return url, nil
}

func (f *fakeFiles) Delete(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, url)
	f.deleted = append(f.deleted, url)
	return nil
}

func (f *fakeFiles) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

func nopSecurityLogger() *security.SecurityLogger {
	return security.NewSecurityLogger(zap.NewNop(), "jobboard-test", "test")
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }
