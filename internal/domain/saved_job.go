package domain

import (
	"context"
	"time"
)

type SavedJob struct {
	ID          int64     `json:"saved_id"`
	JobseekerID int64     `json:"jobseeker_id"`
	JobID       int64     `json:"job_id"`
	SavedAt     time.Time `json:"saved_at"`
}

// SavedJobDetail is a saved job joined with the job and its catalog data
type SavedJobDetail struct {
	JobseekerID int64     `json:"jobseeker_id"`
	SavedAt     time.Time `json:"saved_at"`
	JobWithDetails
}

type SavedJobRepository interface {
	// Create fails with ErrConflict when the pair is already saved
	Create(ctx context.Context, saved *SavedJob) error
	ListByJobseeker(ctx context.Context, jobseekerID int64) ([]SavedJobDetail, error)
	Delete(ctx context.Context, jobseekerID, jobID int64) error
}

type SavedJobUsecase interface {
	SaveJob(ctx context.Context, jobseekerID, jobID int64) (*SavedJob, error)
	ListSavedJobs(ctx context.Context, callerID, jobseekerID int64) ([]SavedJobDetail, error)
	RemoveSavedJob(ctx context.Context, jobseekerID, jobID int64) error
}
