package postgres

import (
	"context"
	"errors"
	"fmt"

	"go-jobboard-backend/internal/domain"

	"github.com/jackc/pgx/v5"
)

type userRepo struct {
	db DB
}

func NewUserRepository(db DB) domain.UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT user_id, email, password_hash, role, created_at FROM users WHERE user_id = $1`
	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT user_id, email, password_hash, role, created_at FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *userRepo) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	var role string
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &role, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	user.Role = domain.Role(role)
	return &user, nil
}

// CreateEmployer inserts the users row and the employers row in one
// transaction. On success user.ID, user.CreatedAt and profile.UserID are set.
func (r *userRepo) CreateEmployer(ctx context.Context, user *domain.User, profile *domain.EmployerProfile) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := insertUser(ctx, tx, user); err != nil {
			return err
		}
		profile.UserID = user.ID

		query := `INSERT INTO employers (user_id, company_name, industry, website) VALUES ($1, $2, $3, $4)`
		if _, err := tx.Exec(ctx, query, profile.UserID, profile.CompanyName, profile.Industry, profile.Website); err != nil {
			return fmt.Errorf("insert employer: %w", err)
		}
		return nil
	})
}

// CreateJobseeker is CreateEmployer for the job_seekers table
func (r *userRepo) CreateJobseeker(ctx context.Context, user *domain.User, profile *domain.JobseekerProfile) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := insertUser(ctx, tx, user); err != nil {
			return err
		}
		profile.UserID = user.ID

		query := `INSERT INTO job_seekers
			(user_id, full_name, phone, location, skills, experience_level, desired_job_titles, education)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
		_, err := tx.Exec(ctx, query,
			profile.UserID, profile.FullName, profile.Phone, profile.Location, profile.Skills,
			profile.ExperienceLevel, profile.DesiredJobTitles, profile.Education,
		)
		if err != nil {
			return fmt.Errorf("insert job seeker: %w", err)
		}
		return nil
	})
}

func insertUser(ctx context.Context, tx pgx.Tx, user *domain.User) error {
	query := `INSERT INTO users (email, password_hash, role) VALUES ($1, $2, $3) RETURNING user_id, created_at`
	err := tx.QueryRow(ctx, query, user.Email, user.PasswordHash, string(user.Role)).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}
