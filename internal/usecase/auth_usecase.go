package usecase

import (
	"context"
	"errors"
	"strings"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/auth"
	"go-jobboard-backend/pkg/logger"
	"go-jobboard-backend/pkg/security"

	"github.com/go-playground/validator/v10"
)

type authUsecase struct {
	userRepo    domain.UserRepository
	profileRepo domain.ProfileRepository
	tokens      *auth.TokenManager
	revoked     auth.RevocationStore
	validate    *validator.Validate
	secLog      *security.SecurityLogger
	logins      *security.LoginTracker
}

func NewAuthUsecase(
	userRepo domain.UserRepository,
	profileRepo domain.ProfileRepository,
	tokens *auth.TokenManager,
	revoked auth.RevocationStore,
	validate *validator.Validate,
	secLog *security.SecurityLogger,
	logins *security.LoginTracker,
) domain.AuthUsecase {
	return &authUsecase{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		tokens:      tokens,
		revoked:     revoked,
		validate:    validate,
		secLog:      secLog,
		logins:      logins,
	}
}

func (u *authUsecase) SignupEmployer(ctx context.Context, req *domain.EmployerSignup) (*domain.AuthResult, error) {
	req.Email = normalizeEmail(req.Email)
	if err := u.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, internalError(ctx, "hash password", err)
	}

	user := &domain.User{Email: req.Email, PasswordHash: hash, Role: domain.RoleEmployer}
	profile := &domain.EmployerProfile{
		CompanyName: req.CompanyName,
		Industry:    req.Industry,
		Website:     req.Website,
	}
	if err := u.userRepo.CreateEmployer(ctx, user, profile); err != nil {
		return nil, u.signupError(ctx, err)
	}
	profile.Email = user.Email

	return u.issue(ctx, user, profile, security.EventSignup)
}

func (u *authUsecase) SignupJobseeker(ctx context.Context, req *domain.JobseekerSignup) (*domain.AuthResult, error) {
	req.Email = normalizeEmail(req.Email)
	if err := u.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, internalError(ctx, "hash password", err)
	}

	user := &domain.User{Email: req.Email, PasswordHash: hash, Role: domain.RoleJobseeker}
	profile := &domain.JobseekerProfile{
		FullName:         req.FullName,
		Phone:            req.Phone,
		Location:         req.Location,
		Skills:           req.Skills,
		ExperienceLevel:  req.ExperienceLevel,
		DesiredJobTitles: req.DesiredJobTitles,
		Education:        req.Education,
	}
	if err := u.userRepo.CreateJobseeker(ctx, user, profile); err != nil {
		return nil, u.signupError(ctx, err)
	}
	profile.Email = user.Email

	return u.issue(ctx, user, profile, security.EventSignup)
}

func (u *authUsecase) signupError(ctx context.Context, err error) error {
	if errors.Is(err, domain.ErrEmailTaken) {
		return apperror.BadRequest("Email already registered")
	}
	return internalError(ctx, "signup", err)
}

// Signin checks the credentials against the selected role and returns a
// token together with the role profile
func (u *authUsecase) Signin(ctx context.Context, email, password, role string) (*domain.AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" || role == "" {
		return nil, apperror.BadRequest("Email, password, and role are required.")
	}
	r, ok := domain.ParseRole(role)
	if !ok {
		return nil, apperror.BadRequest("Invalid role")
	}

	blocked, err := u.logins.IsBlocked(ctx, email)
	if err != nil {
		logger.Log.WarnContext(ctx, "login tracker unavailable", "error", err, "request_id", requestID(ctx))
	}
	if blocked {
		u.secLog.LogAuth(ctx, security.EventLoginFailed, email, "", requestID(ctx), "blocked")
		return nil, apperror.TooManyRequests("Too many failed login attempts. Please try again later.")
	}

	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			u.secLog.LogAuth(ctx, security.EventLoginFailed, email, "", requestID(ctx), "unknown email")
			return nil, apperror.NotFound("User not found")
		}
		return nil, internalError(ctx, "get user by email", err)
	}

	if user.Role != r {
		u.secLog.LogAuth(ctx, security.EventLoginFailed, email, "", requestID(ctx), "role mismatch")
		u.recordFailure(ctx, email)
		return nil, apperror.Unauthorized("Role mismatch. Incorrect role selected.")
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		u.secLog.LogAuth(ctx, security.EventLoginFailed, email, "", requestID(ctx), "incorrect password")
		u.recordFailure(ctx, email)
		return nil, apperror.Unauthorized("Incorrect password")
	}

	if err := u.logins.ClearAttempts(ctx, email); err != nil {
		logger.Log.WarnContext(ctx, "failed to clear login attempts", "error", err, "request_id", requestID(ctx))
	}

	var details interface{}
	switch r {
	case domain.RoleEmployer:
		details, err = u.profileRepo.GetEmployer(ctx, user.ID)
	case domain.RoleJobseeker:
		details, err = u.profileRepo.GetJobseeker(ctx, user.ID)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("User details not found")
		}
		return nil, internalError(ctx, "get profile", err)
	}

	return u.issue(ctx, user, details, security.EventLoginSuccess)
}

func (u *authUsecase) recordFailure(ctx context.Context, email string) {
	if _, _, err := u.logins.RecordFailedAttempt(ctx, email, requestID(ctx)); err != nil {
		logger.Log.WarnContext(ctx, "failed to record login attempt", "error", err, "request_id", requestID(ctx))
	}
}

// Logout revokes the token's id until the token expires
func (u *authUsecase) Logout(ctx context.Context, token string) error {
	if token == "" {
		return apperror.BadRequest("No token provided")
	}
	claims, err := u.tokens.Parse(token)
	if err != nil {
		return apperror.Unauthorized("Invalid or expired token")
	}

	if err := u.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return internalError(ctx, "revoke token", err)
	}
	u.secLog.LogAuth(ctx, security.EventLogout, claims.Email, "", requestID(ctx), "")
	return nil
}

func (u *authUsecase) issue(ctx context.Context, user *domain.User, details interface{}, event security.EventType) (*domain.AuthResult, error) {
	token, err := u.tokens.Issue(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, internalError(ctx, "issue token", err)
	}
	u.secLog.LogAuth(ctx, event, user.Email, "", requestID(ctx), "")
	return &domain.AuthResult{Token: token, User: user, Details: details}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
