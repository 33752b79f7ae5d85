package domain

import (
	"context"
	"time"
)

// Job types accepted by the jobs.job_type check constraint
const (
	JobTypeFullTime   = "full-time"
	JobTypePartTime   = "part-time"
	JobTypeContract   = "contract"
	JobTypeInternship = "internship"
)

var JobTypes = []string{JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship}

// DateLayout is the wire and storage format of job deadlines
const DateLayout = "2006-01-02"

type Job struct {
	ID           int64     `json:"job_id"`
	EmployerID   *int64    `json:"employer_id"`
	CategoryID   *int64    `json:"category_id"`
	LocationID   *int64    `json:"location_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Requirements string    `json:"requirements"`
	SalaryRange  string    `json:"salary_range"`
	JobType      string    `json:"job_type"`
	PostedAt     time.Time `json:"posted_at"`
	Deadline     string    `json:"deadline"` // YYYY-MM-DD
}

// JobWithDetails extends Job with category, location and company information
type JobWithDetails struct {
	Job
	CategoryName   *string `json:"category_name"`
	City           *string `json:"city"`
	State          *string `json:"state"`
	Country        *string `json:"country"`
	CompanyName    *string `json:"company_name"`
	CompanyWebsite *string `json:"website"`
}

type JobCategory struct {
	ID   int64  `json:"category_id"`
	Name string `json:"category_name"`
}

type JobLocation struct {
	ID      int64   `json:"location_id"`
	City    *string `json:"city"`
	State   *string `json:"state"`
	Country *string `json:"country"`
}

// JobSearch filters the job search. Query matches title, category, city,
// country and company name case-insensitively.
type JobSearch struct {
	Query    string
	JobTypes []string
}

type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, id int64) (*Job, error)
	Fetch(ctx context.Context, limit, offset int) ([]JobWithDetails, int64, error)
	FetchByEmployer(ctx context.Context, employerID int64) ([]JobWithDetails, error)
	Search(ctx context.Context, filter JobSearch) ([]JobWithDetails, error)
	// Update and Delete only touch jobs owned by employerID
	Update(ctx context.Context, job *Job) error
	Delete(ctx context.Context, id, employerID int64) error
	ListCategories(ctx context.Context) ([]JobCategory, error)
	ListLocations(ctx context.Context) ([]JobLocation, error)
}

type JobUsecase interface {
	CreateJob(ctx context.Context, employerID int64, job *Job) error
	GetJob(ctx context.Context, id int64) (*Job, error)
	ListJobs(ctx context.Context, page, pageSize int) ([]JobWithDetails, int64, error)
	ListJobsByEmployer(ctx context.Context, employerID int64) ([]JobWithDetails, error)
	SearchJobs(ctx context.Context, filter JobSearch) ([]JobWithDetails, error)
	UpdateJob(ctx context.Context, employerID int64, job *Job) error
	DeleteJob(ctx context.Context, employerID, id int64) error
	ListCategories(ctx context.Context) ([]JobCategory, error)
	ListLocations(ctx context.Context) ([]JobLocation, error)
}
