package usecase_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/internal/usecase"
	"go-jobboard-backend/pkg/auth"
	"go-jobboard-backend/pkg/security"
	"go-jobboard-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	users    *MockUserRepo
	profiles *MockProfileRepo
	tokens   *auth.TokenManager
	revoked  auth.RevocationStore
	logins   *security.LoginTracker
	uc       domain.AuthUsecase
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:    new(MockUserRepo),
		profiles: new(MockProfileRepo),
		tokens:   auth.NewTokenManager("test-secret", time.Hour),
		revoked:  auth.NewMemoryRevocationStore(),
		logins:   security.NewLoginTracker(security.LoginTrackerConfig{MaxAttempts: 3}, nil),
	}
	f.uc = usecase.NewAuthUsecase(f.users, f.profiles, f.tokens, f.revoked, validation.New(), nopSecurityLogger(), f.logins)
	return f
}

func TestSignupEmployer(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user and profile and issues a token", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("CreateEmployer", ctx, mock.AnythingOfType("*domain.User"), mock.AnythingOfType("*domain.EmployerProfile")).
			Return(nil).Run(func(args mock.Arguments) {
			u := args.Get(1).(*domain.User)
			assert.Equal(t, "boss@acme.test", u.Email)
			assert.Equal(t, domain.RoleEmployer, u.Role)
			assert.True(t, auth.CheckPassword(u.PasswordHash, "secret1"))
			u.ID = 77
		})

		res, err := f.uc.SignupEmployer(ctx, &domain.EmployerSignup{
			CompanyName: "Acme",
			Email:       "Boss@Acme.test",
			Password:    "secret1",
			Industry:    "Retail",
		})
		require.NoError(t, err)

		claims, err := f.tokens.Parse(res.Token)
		require.NoError(t, err)
		id, _ := claims.UserID()
		assert.Equal(t, int64(77), id)
		assert.Equal(t, "employer", claims.Role)
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("CreateEmployer", ctx, mock.Anything, mock.Anything).Return(domain.ErrEmailTaken)

		_, err := f.uc.SignupEmployer(ctx, &domain.EmployerSignup{
			CompanyName: "Acme", Email: "boss@acme.test", Password: "secret1", Industry: "Retail",
		})
		assertAppError(t, err, http.StatusBadRequest, "Email already registered")
	})

	t.Run("missing fields fail validation", func(t *testing.T) {
		f := newAuthFixture()
		_, err := f.uc.SignupEmployer(ctx, &domain.EmployerSignup{Email: "boss@acme.test"})
		assertAppError(t, err, http.StatusBadRequest, "")
		f.users.AssertNotCalled(t, "CreateEmployer", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSignin(t *testing.T) {
	ctx := context.Background()
	hash, err := auth.HashPassword("secret1")
	require.NoError(t, err)
	user := &domain.User{ID: 5, Email: "jo@example.com", PasswordHash: hash, Role: domain.RoleJobseeker}

	t.Run("success returns profile details", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("GetByEmail", ctx, "jo@example.com").Return(user, nil)
		f.profiles.On("GetJobseeker", ctx, int64(5)).Return(&domain.JobseekerProfile{UserID: 5, FullName: "Jo"}, nil)

		res, err := f.uc.Signin(ctx, "jo@example.com", "secret1", "jobseeker")
		require.NoError(t, err)
		assert.NotEmpty(t, res.Token)
		assert.Equal(t, "Jo", res.Details.(*domain.JobseekerProfile).FullName)
	})

	cases := []struct {
		name     string
		email    string
		password string
		role     string
		code     int
		msg      string
	}{
		{"missing fields", "", "x", "jobseeker", http.StatusBadRequest, "Email, password, and role are required."},
		{"bad role", "jo@example.com", "secret1", "admin", http.StatusBadRequest, "Invalid role"},
		{"role mismatch", "jo@example.com", "secret1", "employer", http.StatusUnauthorized, "Role mismatch. Incorrect role selected."},
		{"wrong password", "jo@example.com", "nope", "jobseeker", http.StatusUnauthorized, "Incorrect password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newAuthFixture()
			f.users.On("GetByEmail", ctx, "jo@example.com").Return(user, nil)

			_, err := f.uc.Signin(ctx, tc.email, tc.password, tc.role)
			assertAppError(t, err, tc.code, tc.msg)
		})
	}

	t.Run("unknown user", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("GetByEmail", ctx, "ghost@example.com").Return(nil, domain.ErrNotFound)

		_, err := f.uc.Signin(ctx, "ghost@example.com", "secret1", "jobseeker")
		assertAppError(t, err, http.StatusNotFound, "User not found")
	})

	t.Run("missing profile row", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("GetByEmail", ctx, "jo@example.com").Return(user, nil)
		f.profiles.On("GetJobseeker", ctx, int64(5)).Return(nil, domain.ErrNotFound)

		_, err := f.uc.Signin(ctx, "jo@example.com", "secret1", "jobseeker")
		assertAppError(t, err, http.StatusNotFound, "User details not found")
	})
}

func TestSigninLockout(t *testing.T) {
	ctx := context.Background()
	hash, err := auth.HashPassword("secret1")
	require.NoError(t, err)
	user := &domain.User{ID: 5, Email: "jo@example.com", PasswordHash: hash, Role: domain.RoleJobseeker}

	f := newAuthFixture()
	f.users.On("GetByEmail", ctx, "jo@example.com").Return(user, nil)

	for i := 0; i < 3; i++ {
		_, err := f.uc.Signin(ctx, "jo@example.com", "nope", "jobseeker")
		assertAppError(t, err, http.StatusUnauthorized, "Incorrect password")
	}

	_, err = f.uc.Signin(ctx, "jo@example.com", "secret1", "jobseeker")
	assertAppError(t, err, http.StatusTooManyRequests, "Too many failed login attempts. Please try again later.")
	f.profiles.AssertNotCalled(t, "GetJobseeker", mock.Anything, mock.Anything)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	token, err := f.tokens.Issue(5, "jo@example.com", "jobseeker")
	require.NoError(t, err)

	require.NoError(t, f.uc.Logout(ctx, token))

	claims, err := f.tokens.Parse(token)
	require.NoError(t, err)
	revoked, err := f.revoked.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	assertAppError(t, f.uc.Logout(ctx, ""), http.StatusBadRequest, "No token provided")
	assertAppError(t, f.uc.Logout(ctx, "garbage"), http.StatusUnauthorized, "Invalid or expired token")
}
