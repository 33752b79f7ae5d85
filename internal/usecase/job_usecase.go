package usecase

import (
	"context"
	"errors"
	"strings"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type jobUsecase struct {
	jobRepo  domain.JobRepository
	validate *validator.Validate
}

func NewJobUsecase(jobRepo domain.JobRepository, validate *validator.Validate) domain.JobUsecase {
	return &jobUsecase{jobRepo: jobRepo, validate: validate}
}

// checkJob enforces the fields every posting must carry
func (u *jobUsecase) checkJob(job *domain.Job) error {
	job.Title = strings.TrimSpace(job.Title)
	if job.CategoryID == nil || job.LocationID == nil || job.Title == "" || job.Description == "" ||
		job.Requirements == "" || job.SalaryRange == "" || job.JobType == "" || job.Deadline == "" {
		return apperror.BadRequest("All Fields are required.")
	}
	if err := u.validate.Var(job.JobType, "job_type"); err != nil {
		return apperror.BadRequest("Job type must be one of: full-time, part-time, contract, internship")
	}
	if err := u.validate.Var(job.Deadline, "date_ymd"); err != nil {
		return apperror.BadRequest("Deadline must be a date in YYYY-MM-DD format")
	}
	if len(job.Title) > 100 || len(job.SalaryRange) > 50 {
		return apperror.BadRequest("Title or salary range is too long")
	}
	return nil
}

func (u *jobUsecase) CreateJob(ctx context.Context, employerID int64, job *domain.Job) error {
	if err := u.checkJob(job); err != nil {
		return err
	}
	job.EmployerID = &employerID

	if err := u.jobRepo.Create(ctx, job); err != nil {
		if errors.Is(err, domain.ErrInvalidField) {
			return apperror.BadRequest("Unknown category or location")
		}
		return internalError(ctx, "create job", err)
	}
	return nil
}

func (u *jobUsecase) GetJob(ctx context.Context, id int64) (*domain.Job, error) {
	job, err := u.jobRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job not found.")
		}
		return nil, internalError(ctx, "get job", err)
	}
	return job, nil
}

func (u *jobUsecase) ListJobs(ctx context.Context, page, pageSize int) ([]domain.JobWithDetails, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	offset := (page - 1) * pageSize

	jobs, total, err := u.jobRepo.Fetch(ctx, pageSize, offset)
	if err != nil {
		return nil, 0, internalError(ctx, "list jobs", err)
	}
	return jobs, total, nil
}

func (u *jobUsecase) ListJobsByEmployer(ctx context.Context, employerID int64) ([]domain.JobWithDetails, error) {
	jobs, err := u.jobRepo.FetchByEmployer(ctx, employerID)
	if err != nil {
		return nil, internalError(ctx, "list employer jobs", err)
	}
	if len(jobs) == 0 {
		return nil, apperror.NotFound("No jobs found for this employer.")
	}
	return jobs, nil
}

func (u *jobUsecase) SearchJobs(ctx context.Context, filter domain.JobSearch) ([]domain.JobWithDetails, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	for _, t := range filter.JobTypes {
		if err := u.validate.Var(t, "job_type"); err != nil {
			return nil, apperror.BadRequest("Unknown job type: " + t)
		}
	}

	jobs, err := u.jobRepo.Search(ctx, filter)
	if err != nil {
		return nil, internalError(ctx, "search jobs", err)
	}
	return jobs, nil
}

func (u *jobUsecase) UpdateJob(ctx context.Context, employerID int64, job *domain.Job) error {
	if err := u.checkJob(job); err != nil {
		return err
	}
	job.EmployerID = &employerID

	if err := u.jobRepo.Update(ctx, job); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return apperror.NotFound("Job not found.")
		case errors.Is(err, domain.ErrInvalidField):
			return apperror.BadRequest("Unknown category or location")
		}
		return internalError(ctx, "update job", err)
	}
	return nil
}

func (u *jobUsecase) DeleteJob(ctx context.Context, employerID, id int64) error {
	if err := u.jobRepo.Delete(ctx, id, employerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Job not found.")
		}
		return internalError(ctx, "delete job", err)
	}
	return nil
}

func (u *jobUsecase) ListCategories(ctx context.Context) ([]domain.JobCategory, error) {
	categories, err := u.jobRepo.ListCategories(ctx)
	if err != nil {
		return nil, internalError(ctx, "list categories", err)
	}
	if len(categories) == 0 {
		return nil, apperror.NotFound("categories not found.")
	}
	return categories, nil
}

func (u *jobUsecase) ListLocations(ctx context.Context) ([]domain.JobLocation, error) {
	locations, err := u.jobRepo.ListLocations(ctx)
	if err != nil {
		return nil, internalError(ctx, "list locations", err)
	}
	if len(locations) == 0 {
		return nil, apperror.NotFound("location not found.")
	}
	return locations, nil
}
