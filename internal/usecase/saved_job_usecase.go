package usecase

import (
	"context"
	"errors"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
)

type savedJobUsecase struct {
	repo domain.SavedJobRepository
}

func NewSavedJobUsecase(repo domain.SavedJobRepository) domain.SavedJobUsecase {
	return &savedJobUsecase{repo: repo}
}

func (u *savedJobUsecase) SaveJob(ctx context.Context, jobseekerID, jobID int64) (*domain.SavedJob, error) {
	if jobID <= 0 {
		return nil, apperror.BadRequest("job_id is required")
	}

	saved := &domain.SavedJob{JobseekerID: jobseekerID, JobID: jobID}
	if err := u.repo.Create(ctx, saved); err != nil {
		switch {
		case errors.Is(err, domain.ErrConflict):
			return nil, apperror.Conflict("Job already saved")
		case errors.Is(err, domain.ErrNotFound):
			return nil, apperror.NotFound("Job not found")
		}
		return nil, internalError(ctx, "save job", err)
	}
	return saved, nil
}

// ListSavedJobs only lists the caller's own saved jobs
func (u *savedJobUsecase) ListSavedJobs(ctx context.Context, callerID, jobseekerID int64) ([]domain.SavedJobDetail, error) {
	if callerID != jobseekerID {
		return nil, apperror.Forbidden("You can only view your own saved jobs")
	}
	saved, err := u.repo.ListByJobseeker(ctx, jobseekerID)
	if err != nil {
		return nil, internalError(ctx, "list saved jobs", err)
	}
	return saved, nil
}

func (u *savedJobUsecase) RemoveSavedJob(ctx context.Context, jobseekerID, jobID int64) error {
	if err := u.repo.Delete(ctx, jobseekerID, jobID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Job not found")
		}
		return internalError(ctx, "remove saved job", err)
	}
	return nil
}
