package postgres

import (
	"context"
	"errors"
	"fmt"

	"go-jobboard-backend/internal/domain"

	"github.com/jackc/pgx/v5"
)

const (
	updateUserEmailQuery = `UPDATE users SET email = $2 WHERE user_id = $1 AND role = $3`

	// The last parameter lists the nullable columns to set to NULL
	updateEmployerQuery = `UPDATE employers SET
		company_name = COALESCE($2, company_name),
		website = CASE WHEN 'website' = ANY($5::text[]) THEN NULL ELSE COALESCE($3, website) END,
		industry = COALESCE($4, industry)
		WHERE user_id = $1`

	updateJobseekerQuery = `UPDATE job_seekers SET
		full_name = COALESCE($2, full_name),
		phone = CASE WHEN 'phone' = ANY($9::text[]) THEN NULL ELSE COALESCE($3, phone) END,
		location = CASE WHEN 'location' = ANY($9::text[]) THEN NULL ELSE COALESCE($4, location) END,
		skills = CASE WHEN 'skills' = ANY($9::text[]) THEN NULL ELSE COALESCE($5, skills) END,
		experience_level = CASE WHEN 'experience_level' = ANY($9::text[]) THEN NULL ELSE COALESCE($6, experience_level) END,
		desired_job_titles = CASE WHEN 'desired_job_titles' = ANY($9::text[]) THEN NULL ELSE COALESCE($7, desired_job_titles) END,
		education = CASE WHEN 'education' = ANY($9::text[]) THEN NULL ELSE COALESCE($8, education) END
		WHERE user_id = $1`

	deleteEmployerQuery  = `DELETE FROM employers WHERE user_id = $1 RETURNING profile_image`
	deleteJobseekerQuery = `DELETE FROM job_seekers WHERE user_id = $1 RETURNING profile_image`
	deleteUserQuery      = `DELETE FROM users WHERE user_id = $1`
)

type profileRepo struct {
	db DB
}

func NewProfileRepository(db DB) domain.ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) GetEmployer(ctx context.Context, userID int64) (*domain.EmployerProfile, error) {
	query := `SELECT e.user_id, u.email, e.company_name, e.industry, e.website, e.profile_image
		FROM employers e JOIN users u ON u.user_id = e.user_id
		WHERE e.user_id = $1`
	var p domain.EmployerProfile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.UserID, &p.Email, &p.CompanyName, &p.Industry, &p.Website, &p.ProfileImage,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *profileRepo) GetJobseeker(ctx context.Context, userID int64) (*domain.JobseekerProfile, error) {
	query := `SELECT j.user_id, u.email, j.full_name, j.phone, j.location, j.skills,
		j.experience_level, j.desired_job_titles, j.education, j.profile_image
		FROM job_seekers j JOIN users u ON u.user_id = j.user_id
		WHERE j.user_id = $1`
	var p domain.JobseekerProfile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.UserID, &p.Email, &p.FullName, &p.Phone, &p.Location, &p.Skills,
		&p.ExperienceLevel, &p.DesiredJobTitles, &p.Education, &p.ProfileImage,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Update writes the email to users, then the changed profile columns to the
// role table, in one transaction. A missing user or profile row rolls the
// whole update back with ErrNotFound.
func (r *profileRepo) Update(ctx context.Context, upd *domain.ProfileUpdate) error {
	if !upd.Role.Valid() {
		return domain.ErrInvalidRole
	}

	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, updateUserEmailQuery, upd.UserID, upd.Email, string(upd.Role))
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrEmailTaken
			}
			return fmt.Errorf("update user email: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}

		if !upd.HasProfileChanges() {
			return nil
		}

		switch upd.Role {
		case domain.RoleEmployer:
			e := upd.Employer
			tag, err = tx.Exec(ctx, updateEmployerQuery, upd.UserID, e.CompanyName, e.Website, e.Industry, clearedColumns(e.Cleared))
		case domain.RoleJobseeker:
			j := upd.Jobseeker
			tag, err = tx.Exec(ctx, updateJobseekerQuery, upd.UserID,
				j.FullName, j.Phone, j.Location, j.Skills, j.ExperienceLevel, j.DesiredJobTitles, j.Education,
				clearedColumns(j.Cleared))
		}
		if err != nil {
			return fmt.Errorf("update %s profile: %w", upd.Role, err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

// clearedColumns never binds NULL so ANY() always yields true or false
func clearedColumns(cols []string) []string {
	if cols == nil {
		return []string{}
	}
	return cols
}

// Delete removes the role profile row first and the users row second. When
// no profile row exists nothing is deleted.
func (r *profileRepo) Delete(ctx context.Context, userID int64, role domain.Role) (*string, error) {
	var query string
	switch role {
	case domain.RoleEmployer:
		query = deleteEmployerQuery
	case domain.RoleJobseeker:
		query = deleteJobseekerQuery
	default:
		return nil, domain.ErrInvalidRole
	}

	var image *string
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, query, userID).Scan(&image); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("delete %s profile: %w", role, err)
		}

		tag, err := tx.Exec(ctx, deleteUserQuery, userID)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return image, nil
}

func (r *profileRepo) SetProfileImage(ctx context.Context, userID int64, role domain.Role, url string) (*string, error) {
	var table string
	switch role {
	case domain.RoleEmployer:
		table = "employers"
	case domain.RoleJobseeker:
		table = "job_seekers"
	default:
		return nil, domain.ErrInvalidRole
	}

	// The previous value is read in the same statement through a self join so
	// the caller can remove the replaced file.
	query := `UPDATE ` + table + ` AS t SET profile_image = $2
		FROM ` + table + ` AS old
		WHERE t.user_id = $1 AND old.user_id = t.user_id
		RETURNING old.profile_image`

	var previous *string
	if err := r.db.QueryRow(ctx, query, userID, url).Scan(&previous); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return previous, nil
}
