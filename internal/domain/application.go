package domain

import (
	"context"
	"time"
)

// Application represents a jobseeker's application to a job
type Application struct {
	ID              int64     `json:"id"`
	JobID           int64     `json:"job_id"`
	JobseekerID     int64     `json:"jobseeker_id"`
	EmployerID      int64     `json:"employer_id"`
	FullName        string    `json:"full_name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	CoverLetter     *string   `json:"cover_letter"`
	ResumeLink      *string   `json:"resume_link"`
	ApplicationDate time.Time `json:"application_date"`
}

// ApplicationInput is the applicant-editable part of an application
type ApplicationInput struct {
	FullName    string  `validate:"required,max=255"`
	Email       string  `validate:"required,email,max=255"`
	Phone       string  `validate:"required,max=20"`
	CoverLetter *string `validate:"omitempty"`
}

// ReceivedApplication is an application seen by the employer, with the
// job and the applicant's profile
type ReceivedApplication struct {
	ID                int64     `json:"id"`
	CoverLetter       *string   `json:"cover_letter"`
	ResumeLink        *string   `json:"resume_link"`
	ApplicationDate   time.Time `json:"application_date"`
	JobID             int64     `json:"job_id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Requirements      string    `json:"requirements"`
	SalaryRange       string    `json:"salary_range"`
	JobType           string    `json:"job_type"`
	PostedAt          time.Time `json:"posted_at"`
	Deadline          string    `json:"deadline"`
	JobseekerID       int64     `json:"jobseeker_id"`
	FullName          string    `json:"full_name"`
	Phone             *string   `json:"phone"`
	JobseekerLocation *string   `json:"jobseeker_location"`
	Skills            *string   `json:"skills"`
	ExperienceLevel   *string   `json:"experience_level"`
	DesiredJobTitles  *string   `json:"desired_job_titles"`
	Education         *string   `json:"education"`
	Email             string    `json:"email"`
}

// SubmittedApplication is an application seen by the jobseeker, with the
// job's catalog and company data
type SubmittedApplication struct {
	ID              int64     `json:"id"`
	JobID           int64     `json:"job_id"`
	FullName        string    `json:"full_name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	CoverLetter     *string   `json:"cover_letter"`
	ResumeLink      *string   `json:"resume_link"`
	ApplicationDate time.Time `json:"application_date"`
	Title           string    `json:"title"`
	CategoryName    *string   `json:"category_name"`
	City            *string   `json:"city"`
	State           *string   `json:"state"`
	Country         *string   `json:"country"`
	CompanyName     *string   `json:"company_name"`
	CompanyWebsite  *string   `json:"website"`
}

type ApplicationRepository interface {
	// Create fails with ErrConflict when the jobseeker already applied
	Create(ctx context.Context, app *Application) error
	GetByID(ctx context.Context, id int64) (*Application, error)
	ListByEmployer(ctx context.Context, employerID int64) ([]ReceivedApplication, error)
	ListByJobseeker(ctx context.Context, jobseekerID int64) ([]SubmittedApplication, error)
	// Update keeps the stored resume link when resumeLink is nil
	Update(ctx context.Context, id, jobseekerID int64, in *ApplicationInput, resumeLink *string) error
	Delete(ctx context.Context, id, jobseekerID int64) error
}

type ApplicationUsecase interface {
	Apply(ctx context.Context, jobseekerID, jobID int64, in *ApplicationInput, resume *UploadedFile) (*Application, error)
	ListReceived(ctx context.Context, callerID, employerID int64) ([]ReceivedApplication, error)
	ExportReceived(ctx context.Context, callerID, employerID int64) ([]byte, string, error)
	ListSubmitted(ctx context.Context, callerID, jobseekerID int64) ([]SubmittedApplication, error)
	UpdateApplication(ctx context.Context, jobseekerID, id int64, in *ApplicationInput, resume *UploadedFile) error
	DeleteApplication(ctx context.Context, jobseekerID, id int64) error
}
