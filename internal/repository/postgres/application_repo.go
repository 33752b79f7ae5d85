package postgres

import (
	"context"
	"errors"

	"go-jobboard-backend/internal/domain"

	"github.com/jackc/pgx/v5"
)

type applicationRepo struct {
	db DB
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db DB) domain.ApplicationRepository {
	return &applicationRepo{db: db}
}

// Create inserts an application for app.JobID. The employer is copied from
// the job row in the same statement. A second application for the same
// (job_id, jobseeker_id) pair is rejected by the unique constraint.
func (r *applicationRepo) Create(ctx context.Context, app *domain.Application) error {
	query := `
		INSERT INTO job_applications
			(job_id, jobseeker_id, employer_id, full_name, email, phone, cover_letter, resume_link)
		SELECT j.job_id, $2, j.employer_id, $3, $4, $5, $6, $7
		FROM jobs j
		WHERE j.job_id = $1 AND j.employer_id IS NOT NULL
		RETURNING application_id, employer_id, application_date`

	err := r.db.QueryRow(ctx, query,
		app.JobID,
		app.JobseekerID,
		app.FullName,
		app.Email,
		app.Phone,
		app.CoverLetter,
		app.ResumeLink,
	).Scan(&app.ID, &app.EmployerID, &app.ApplicationDate)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return domain.ErrNotFound
		case isUniqueViolation(err):
			return domain.ErrConflict
		case isForeignKeyViolation(err):
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

// GetByID retrieves an application by ID
func (r *applicationRepo) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	query := `
		SELECT application_id, job_id, jobseeker_id, employer_id, full_name, email, phone,
			cover_letter, resume_link, application_date
		FROM job_applications
		WHERE application_id = $1`

	var app domain.Application
	err := r.db.QueryRow(ctx, query, id).Scan(
		&app.ID, &app.JobID, &app.JobseekerID, &app.EmployerID, &app.FullName, &app.Email, &app.Phone,
		&app.CoverLetter, &app.ResumeLink, &app.ApplicationDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &app, nil
}

// ListByEmployer returns applications to the employer's jobs with the
// applicant's profile
func (r *applicationRepo) ListByEmployer(ctx context.Context, employerID int64) ([]domain.ReceivedApplication, error) {
	query := `
		SELECT
			ja.application_id, ja.cover_letter, ja.resume_link, ja.application_date,
			j.job_id, COALESCE(j.title, ''), COALESCE(j.description, ''), COALESCE(j.requirements, ''),
			COALESCE(j.salary_range, ''), COALESCE(j.job_type, ''), j.posted_at,
			COALESCE(to_char(j.deadline, 'YYYY-MM-DD'), ''),
			js.user_id, js.full_name, js.phone, js.location, js.skills,
			js.experience_level, js.desired_job_titles, js.education, u.email
		FROM job_applications ja
		JOIN jobs j ON j.job_id = ja.job_id
		JOIN job_seekers js ON js.user_id = ja.jobseeker_id
		JOIN users u ON u.user_id = ja.jobseeker_id
		WHERE j.employer_id = $1
		ORDER BY ja.application_date DESC`

	rows, err := r.db.Query(ctx, query, employerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := make([]domain.ReceivedApplication, 0)
	for rows.Next() {
		var a domain.ReceivedApplication
		if err := rows.Scan(
			&a.ID, &a.CoverLetter, &a.ResumeLink, &a.ApplicationDate,
			&a.JobID, &a.Title, &a.Description, &a.Requirements,
			&a.SalaryRange, &a.JobType, &a.PostedAt, &a.Deadline,
			&a.JobseekerID, &a.FullName, &a.Phone, &a.JobseekerLocation, &a.Skills,
			&a.ExperienceLevel, &a.DesiredJobTitles, &a.Education, &a.Email,
		); err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

// ListByJobseeker returns the jobseeker's applications with job and company data
func (r *applicationRepo) ListByJobseeker(ctx context.Context, jobseekerID int64) ([]domain.SubmittedApplication, error) {
	query := `
		SELECT
			ja.application_id, ja.job_id, ja.full_name, ja.email, ja.phone,
			ja.cover_letter, ja.resume_link, ja.application_date,
			COALESCE(j.title, ''), c.category_name, l.city, l.state, l.country,
			e.company_name, e.website
		FROM job_applications ja
		JOIN jobs j ON j.job_id = ja.job_id
		LEFT JOIN job_categories c ON c.category_id = j.category_id
		LEFT JOIN job_locations l ON l.location_id = j.location_id
		LEFT JOIN employers e ON e.user_id = j.employer_id
		WHERE ja.jobseeker_id = $1
		ORDER BY ja.application_date DESC`

	rows, err := r.db.Query(ctx, query, jobseekerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := make([]domain.SubmittedApplication, 0)
	for rows.Next() {
		var a domain.SubmittedApplication
		if err := rows.Scan(
			&a.ID, &a.JobID, &a.FullName, &a.Email, &a.Phone,
			&a.CoverLetter, &a.ResumeLink, &a.ApplicationDate,
			&a.Title, &a.CategoryName, &a.City, &a.State, &a.Country,
			&a.CompanyName, &a.CompanyWebsite,
		); err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

// Update rewrites the applicant fields of the jobseeker's own application.
// A nil resumeLink keeps the stored link.
func (r *applicationRepo) Update(ctx context.Context, id, jobseekerID int64, in *domain.ApplicationInput, resumeLink *string) error {
	query := `
		UPDATE job_applications SET
			full_name = $3,
			email = $4,
			phone = $5,
			cover_letter = $6,
			resume_link = COALESCE($7, resume_link)
		WHERE application_id = $1 AND jobseeker_id = $2`

	result, err := r.db.Exec(ctx, query, id, jobseekerID, in.FullName, in.Email, in.Phone, in.CoverLetter, resumeLink)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *applicationRepo) Delete(ctx context.Context, id, jobseekerID int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM job_applications WHERE application_id = $1 AND jobseeker_id = $2`, id, jobseekerID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
