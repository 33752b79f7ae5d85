package domain

import (
	"context"
	"fmt"
)

// EmployerProfile is the employer row of the role profile store
type EmployerProfile struct {
	UserID       int64   `json:"user_id"`
	Email        string  `json:"email,omitempty"` // joined from users
	CompanyName  string  `json:"company_name"`
	Industry     string  `json:"industry"`
	Website      *string `json:"website"`
	ProfileImage *string `json:"profile_image"`
}

// JobseekerProfile is the jobseeker row of the role profile store
type JobseekerProfile struct {
	UserID           int64   `json:"user_id"`
	Email            string  `json:"email,omitempty"` // joined from users
	FullName         string  `json:"full_name"`
	Phone            *string `json:"phone"`
	Location         *string `json:"location"`
	Skills           *string `json:"skills"`
	ExperienceLevel  *string `json:"experience_level"`
	DesiredJobTitles *string `json:"desired_job_titles"`
	Education        *string `json:"education"`
	ProfileImage     *string `json:"profile_image"`
}

// Mutable profile columns per role. Nothing outside these lists may reach a
// profile-table write.
var (
	EmployerUpdateFields  = []string{"company_name", "website", "industry"}
	JobseekerUpdateFields = []string{"full_name", "phone", "location", "skills", "experience_level", "desired_job_titles", "education"}
)

// AllowedProfileFields returns the canonical mutable field names for role
func AllowedProfileFields(role Role) []string {
	switch role {
	case RoleEmployer:
		return EmployerUpdateFields
	case RoleJobseeker:
		return JobseekerUpdateFields
	}
	return nil
}

// FilterProfileFields keeps the entries of raw whose key is a mutable field
// of role. Values are passed through unchanged. An unknown role yields an
// empty map.
func FilterProfileFields(role Role, raw map[string]interface{}) map[string]interface{} {
	filtered := make(map[string]interface{})
	for _, field := range AllowedProfileFields(role) {
		if field == "email" {
			continue
		}
		if v, ok := raw[field]; ok {
			filtered[field] = v
		}
	}
	return filtered
}

// Profile columns that may be cleared to NULL. The other mutable columns are
// NOT NULL and reject a null value.
var nullableProfileFields = map[string]bool{
	"website":            true,
	"phone":              true,
	"location":           true,
	"skills":             true,
	"experience_level":   true,
	"desired_job_titles": true,
	"education":          true,
}

// EmployerProfileUpdate is a partial update of the employers row. Nil
// fields keep their stored value; columns named in Cleared are set to NULL.
type EmployerProfileUpdate struct {
	CompanyName *string `validate:"omitempty,min=1,max=255"`
	Website     *string `validate:"omitempty,max=255"`
	Industry    *string `validate:"omitempty,min=1,max=255"`
	Cleared     []string
}

func (u *EmployerProfileUpdate) IsEmpty() bool {
	return u == nil || (u.CompanyName == nil && u.Website == nil && u.Industry == nil && len(u.Cleared) == 0)
}

// JobseekerProfileUpdate is a partial update of the job_seekers row. Nil
// fields keep their stored value; columns named in Cleared are set to NULL.
type JobseekerProfileUpdate struct {
	FullName         *string `validate:"omitempty,min=1,max=255"`
	Phone            *string `validate:"omitempty,max=20"`
	Location         *string `validate:"omitempty,max=255"`
	Skills           *string
	ExperienceLevel  *string `validate:"omitempty,max=100"`
	DesiredJobTitles *string
	Education        *string
	Cleared          []string
}

func (u *JobseekerProfileUpdate) IsEmpty() bool {
	return u == nil || (u.FullName == nil && u.Phone == nil && u.Location == nil && u.Skills == nil &&
		u.ExperienceLevel == nil && u.DesiredJobTitles == nil && u.Education == nil && len(u.Cleared) == 0)
}

// ProfileUpdate is the input of the profile update transaction. Exactly one
// of Employer / Jobseeker is used, selected by Role.
type ProfileUpdate struct {
	UserID    int64
	Role      Role
	Email     string
	Employer  *EmployerProfileUpdate
	Jobseeker *JobseekerProfileUpdate
}

// HasProfileChanges reports whether the role profile row needs a write
func (p *ProfileUpdate) HasProfileChanges() bool {
	switch p.Role {
	case RoleEmployer:
		return !p.Employer.IsEmpty()
	case RoleJobseeker:
		return !p.Jobseeker.IsEmpty()
	}
	return false
}

// NewProfileUpdate builds the typed update for role from raw request fields.
// raw is filtered through the role allowlist first. A kept string is
// written as is, a kept null clears a nullable column, and anything else is
// rejected with ErrInvalidField.
func NewProfileUpdate(userID int64, role Role, email string, raw map[string]interface{}) (*ProfileUpdate, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	fields := FilterProfileFields(role, raw)
	values := make(map[string]*string, len(fields))
	var cleared []string
	for _, k := range AllowedProfileFields(role) {
		v, ok := fields[k]
		if !ok {
			continue
		}
		switch val := v.(type) {
		case nil:
			if !nullableProfileFields[k] {
				return nil, fmt.Errorf("%w: field %s cannot be null", ErrInvalidField, k)
			}
			cleared = append(cleared, k)
		case string:
			s := val
			values[k] = &s
		default:
			return nil, fmt.Errorf("%w: field %s must be a string", ErrInvalidField, k)
		}
	}

	upd := &ProfileUpdate{UserID: userID, Role: role, Email: email}
	switch role {
	case RoleEmployer:
		upd.Employer = &EmployerProfileUpdate{
			CompanyName: values["company_name"],
			Website:     values["website"],
			Industry:    values["industry"],
			Cleared:     cleared,
		}
	case RoleJobseeker:
		upd.Jobseeker = &JobseekerProfileUpdate{
			FullName:         values["full_name"],
			Phone:            values["phone"],
			Location:         values["location"],
			Skills:           values["skills"],
			ExperienceLevel:  values["experience_level"],
			DesiredJobTitles: values["desired_job_titles"],
			Education:        values["education"],
			Cleared:          cleared,
		}
	}
	return upd, nil
}

type ProfileRepository interface {
	GetEmployer(ctx context.Context, userID int64) (*EmployerProfile, error)
	GetJobseeker(ctx context.Context, userID int64) (*JobseekerProfile, error)
	// Update applies the email change and the role profile change atomically.
	Update(ctx context.Context, upd *ProfileUpdate) error
	// Delete removes the role profile row and then the user row atomically.
	// It returns the profile image reference of the removed profile, if any.
	Delete(ctx context.Context, userID int64, role Role) (*string, error)
	// SetProfileImage stores url and returns the previous value
	SetProfileImage(ctx context.Context, userID int64, role Role, url string) (*string, error)
}

type ProfileUsecase interface {
	GetProfile(ctx context.Context, userID int64, role string) (interface{}, error)
	UpdateProfile(ctx context.Context, userID int64, role, email string, fields map[string]interface{}) error
	DeleteAccount(ctx context.Context, userID int64, role string) error
	UploadProfileImage(ctx context.Context, userID int64, role string, file *UploadedFile) (string, error)
}
