package postgres

import (
	"context"

	"go-jobboard-backend/internal/domain"
)

type savedJobRepo struct {
	db DB
}

func NewSavedJobRepository(db DB) domain.SavedJobRepository {
	return &savedJobRepo{db: db}
}

// Create relies on the unique (jobseeker_id, job_id) constraint to reject
// duplicates, so concurrent saves of the same pair leave one row.
func (r *savedJobRepo) Create(ctx context.Context, saved *domain.SavedJob) error {
	query := `INSERT INTO saved_jobs (jobseeker_id, job_id) VALUES ($1, $2) RETURNING saved_id, saved_at`
	err := r.db.QueryRow(ctx, query, saved.JobseekerID, saved.JobID).Scan(&saved.ID, &saved.SavedAt)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrConflict
		case isForeignKeyViolation(err):
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *savedJobRepo) ListByJobseeker(ctx context.Context, jobseekerID int64) ([]domain.SavedJobDetail, error) {
	query := `SELECT s.jobseeker_id, s.saved_at, ` + jobDetailColumns + `
		FROM saved_jobs s
		JOIN jobs j ON j.job_id = s.job_id
		LEFT JOIN job_categories c ON c.category_id = j.category_id
		LEFT JOIN job_locations l ON l.location_id = j.location_id
		LEFT JOIN employers e ON e.user_id = j.employer_id
		WHERE s.jobseeker_id = $1
		ORDER BY s.saved_at DESC`

	rows, err := r.db.Query(ctx, query, jobseekerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	saved := make([]domain.SavedJobDetail, 0)
	for rows.Next() {
		var s domain.SavedJobDetail
		targets := append([]any{&s.JobseekerID, &s.SavedAt}, jobDetailScanTargets(&s.JobWithDetails)...)
		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}
		saved = append(saved, s)
	}
	return saved, rows.Err()
}

func (r *savedJobRepo) Delete(ctx context.Context, jobseekerID, jobID int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM saved_jobs WHERE jobseeker_id = $1 AND job_id = $2`, jobseekerID, jobID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

