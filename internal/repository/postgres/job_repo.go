package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-jobboard-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
)

// jobColumns selects a job row in the order scanJob expects. Nullable text
// columns are read as empty strings.
const jobColumns = `j.job_id, j.employer_id, j.category_id, j.location_id,
	COALESCE(j.title, ''), COALESCE(j.description, ''), COALESCE(j.requirements, ''),
	COALESCE(j.salary_range, ''), COALESCE(j.job_type, ''), j.posted_at,
	COALESCE(to_char(j.deadline, 'YYYY-MM-DD'), '')`

const jobDetailColumns = jobColumns + `,
	c.category_name, l.city, l.state, l.country, e.company_name, e.website`

const jobDetailJoins = `FROM jobs j
	LEFT JOIN job_categories c ON c.category_id = j.category_id
	LEFT JOIN job_locations l ON l.location_id = j.location_id
	LEFT JOIN employers e ON e.user_id = j.employer_id`

type jobRepo struct {
	db DB
}

func NewJobRepository(db DB) domain.JobRepository {
	return &jobRepo{db: db}
}

func jobScanTargets(job *domain.Job) []any {
	return []any{
		&job.ID, &job.EmployerID, &job.CategoryID, &job.LocationID,
		&job.Title, &job.Description, &job.Requirements,
		&job.SalaryRange, &job.JobType, &job.PostedAt, &job.Deadline,
	}
}

func jobDetailScanTargets(job *domain.JobWithDetails) []any {
	return append(jobScanTargets(&job.Job),
		&job.CategoryName, &job.City, &job.State, &job.Country, &job.CompanyName, &job.CompanyWebsite,
	)
}

func collectJobDetails(rows pgx.Rows) ([]domain.JobWithDetails, error) {
	defer rows.Close()

	jobs := make([]domain.JobWithDetails, 0)
	for rows.Next() {
		var job domain.JobWithDetails
		if err := rows.Scan(jobDetailScanTargets(&job)...); err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func (r *jobRepo) Create(ctx context.Context, job *domain.Job) error {
	query := `INSERT INTO jobs (employer_id, category_id, location_id, title, description, requirements,
		salary_range, job_type, deadline)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::date)
		RETURNING job_id, posted_at`
	err := r.db.QueryRow(ctx, query,
		job.EmployerID, job.CategoryID, job.LocationID, job.Title, job.Description, job.Requirements,
		job.SalaryRange, job.JobType, job.Deadline,
	).Scan(&job.ID, &job.PostedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: unknown category, location or employer", domain.ErrInvalidField)
		}
		return err
	}
	return nil
}

func (r *jobRepo) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs j WHERE j.job_id = $1`
	var job domain.Job
	if err := r.db.QueryRow(ctx, query, id).Scan(jobScanTargets(&job)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *jobRepo) Fetch(ctx context.Context, limit, offset int) ([]domain.JobWithDetails, int64, error) {
	query := `SELECT ` + jobDetailColumns + ` ` + jobDetailJoins + `
		ORDER BY j.posted_at DESC, j.job_id DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	jobs, err := collectJobDetails(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&total); err != nil {
		return nil, 0, err
	}

	return jobs, total, nil
}

func (r *jobRepo) FetchByEmployer(ctx context.Context, employerID int64) ([]domain.JobWithDetails, error) {
	query := `SELECT ` + jobDetailColumns + ` ` + jobDetailJoins + `
		WHERE j.employer_id = $1
		ORDER BY j.posted_at DESC, j.job_id DESC`

	rows, err := r.db.Query(ctx, query, employerID)
	if err != nil {
		return nil, err
	}
	return collectJobDetails(rows)
}

func (r *jobRepo) Search(ctx context.Context, filter domain.JobSearch) ([]domain.JobWithDetails, error) {
	query := `SELECT ` + jobDetailColumns + ` ` + jobDetailJoins + `
		WHERE (j.title ILIKE $1 ESCAPE '\'
			OR c.category_name ILIKE $1 ESCAPE '\'
			OR l.city ILIKE $1 ESCAPE '\'
			OR l.country ILIKE $1 ESCAPE '\'
			OR e.company_name ILIKE $1 ESCAPE '\')`
	args := []any{containsPattern(filter.Query)}

	if len(filter.JobTypes) > 0 {
		query += ` AND j.job_type = ANY($2::text[])`
		args = append(args, pq.Array(filter.JobTypes))
	}
	query += ` ORDER BY j.posted_at DESC, j.job_id DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectJobDetails(rows)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern matches term literally anywhere in a column
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// Update replaces every editable column of a job owned by job.EmployerID
func (r *jobRepo) Update(ctx context.Context, job *domain.Job) error {
	query := `UPDATE jobs SET
		category_id = $3,
		location_id = $4,
		title = $5,
		description = $6,
		requirements = $7,
		salary_range = $8,
		job_type = $9,
		deadline = $10::date
	WHERE job_id = $1 AND employer_id = $2`
	result, err := r.db.Exec(ctx, query,
		job.ID, job.EmployerID, job.CategoryID, job.LocationID, job.Title, job.Description,
		job.Requirements, job.SalaryRange, job.JobType, job.Deadline,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: unknown category or location", domain.ErrInvalidField)
		}
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *jobRepo) Delete(ctx context.Context, id, employerID int64) error {
	query := `DELETE FROM jobs WHERE job_id = $1 AND employer_id = $2`
	result, err := r.db.Exec(ctx, query, id, employerID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *jobRepo) ListCategories(ctx context.Context) ([]domain.JobCategory, error) {
	rows, err := r.db.Query(ctx, `SELECT category_id, category_name FROM job_categories ORDER BY category_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]domain.JobCategory, 0)
	for rows.Next() {
		var c domain.JobCategory
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *jobRepo) ListLocations(ctx context.Context) ([]domain.JobLocation, error) {
	rows, err := r.db.Query(ctx, `SELECT location_id, city, state, country FROM job_locations ORDER BY location_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	locations := make([]domain.JobLocation, 0)
	for rows.Next() {
		var l domain.JobLocation
		if err := rows.Scan(&l.ID, &l.City, &l.State, &l.Country); err != nil {
			return nil, err
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}
