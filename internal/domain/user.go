package domain

import (
	"context"
	"strings"
	"time"
)

// Role identifies which profile table a user owns
type Role string

const (
	RoleEmployer  Role = "employer"
	RoleJobseeker Role = "jobseeker"
)

// ParseRole normalizes a caller-supplied role. ok is false for anything
// other than employer or jobseeker.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleEmployer:
		return RoleEmployer, true
	case RoleJobseeker:
		return RoleJobseeker, true
	}
	return "", false
}

func (r Role) Valid() bool {
	return r == RoleEmployer || r == RoleJobseeker
}

// User is a row of the credential store. Role never changes after signup.
type User struct {
	ID           int64     `json:"user_id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// EmployerSignup carries the fields collected by the employer signup form
type EmployerSignup struct {
	CompanyName string  `validate:"required,max=255"`
	Email       string  `validate:"required,email,max=255"`
	Password    string  `validate:"required,min=6,max=72"`
	Industry    string  `validate:"required,max=255"`
	Website     *string `validate:"omitempty,max=255"`
}

// JobseekerSignup carries the fields collected by the jobseeker signup form
type JobseekerSignup struct {
	FullName         string  `validate:"required,max=255"`
	Email            string  `validate:"required,email,max=255"`
	Password         string  `validate:"required,min=6,max=72"`
	Phone            *string `validate:"omitempty,max=20"`
	Location         *string `validate:"omitempty,max=255"`
	Skills           *string
	ExperienceLevel  *string `validate:"omitempty,max=100"`
	DesiredJobTitles *string
	Education        *string
}

// AuthResult is returned by signup and signin
type AuthResult struct {
	Token   string      `json:"token"`
	User    *User       `json:"user"`
	Details interface{} `json:"details,omitempty"`
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// CreateEmployer inserts the credential row and the employer profile row
	// in one transaction and returns the new user id.
	CreateEmployer(ctx context.Context, user *User, profile *EmployerProfile) error
	CreateJobseeker(ctx context.Context, user *User, profile *JobseekerProfile) error
}

type AuthUsecase interface {
	SignupEmployer(ctx context.Context, req *EmployerSignup) (*AuthResult, error)
	SignupJobseeker(ctx context.Context, req *JobseekerSignup) (*AuthResult, error)
	Signin(ctx context.Context, email, password, role string) (*AuthResult, error)
	Logout(ctx context.Context, token string) error
}
