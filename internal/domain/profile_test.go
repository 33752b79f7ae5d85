package domain_test

import (
	"errors"
	"testing"

	"go-jobboard-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mixedFields() map[string]interface{} {
	return map[string]interface{}{
		"company_name":       "Acme",
		"website":            "https://acme.test",
		"industry":           "Retail",
		"full_name":          "Jane Doe",
		"phone":              "+15550001",
		"location":           "Berlin",
		"skills":             "go, sql",
		"experience_level":   "senior",
		"desired_job_titles": "backend engineer",
		"education":          "BSc",
		"email":              "evil@example.com",
		"user_id":            42,
		"userId":             42,
		"role":               "employer",
		"profile_image":      "http://x/evil.png",
	}
}

func TestFilterProfileFields(t *testing.T) {
	t.Run("employer keeps only employer columns", func(t *testing.T) {
		got := domain.FilterProfileFields(domain.RoleEmployer, mixedFields())
		assert.Equal(t, map[string]interface{}{
			"company_name": "Acme",
			"website":      "https://acme.test",
			"industry":     "Retail",
		}, got)
	})

	t.Run("jobseeker keeps only jobseeker columns", func(t *testing.T) {
		got := domain.FilterProfileFields(domain.RoleJobseeker, mixedFields())
		assert.Len(t, got, len(domain.JobseekerUpdateFields))
		for _, k := range domain.EmployerUpdateFields {
			assert.NotContains(t, got, k)
		}
		assert.Equal(t, "Jane Doe", got["full_name"])
	})

	t.Run("identity keys never pass", func(t *testing.T) {
		for _, role := range []domain.Role{domain.RoleEmployer, domain.RoleJobseeker} {
			got := domain.FilterProfileFields(role, mixedFields())
			for _, k := range []string{"email", "user_id", "userId", "role", "profile_image"} {
				assert.NotContains(t, got, k, "role %s", role)
			}
		}
	})

	t.Run("unknown role yields nothing", func(t *testing.T) {
		assert.Empty(t, domain.FilterProfileFields(domain.Role("admin"), mixedFields()))
	})

	t.Run("values pass through unchanged", func(t *testing.T) {
		raw := map[string]interface{}{"skills": nil, "phone": 12}
		got := domain.FilterProfileFields(domain.RoleJobseeker, raw)
		assert.Equal(t, raw, got)
	})
}

func TestNewProfileUpdate(t *testing.T) {
	t.Run("rejects invalid role", func(t *testing.T) {
		_, err := domain.NewProfileUpdate(1, domain.Role("admin"), "a@b.c", nil)
		assert.True(t, errors.Is(err, domain.ErrInvalidRole))
	})

	t.Run("email only update has no profile changes", func(t *testing.T) {
		upd, err := domain.NewProfileUpdate(1, domain.RoleJobseeker, "a@b.c", map[string]interface{}{"company_name": "x"})
		require.NoError(t, err)
		assert.False(t, upd.HasProfileChanges())
		assert.Nil(t, upd.Employer)
	})

	t.Run("maps employer fields to typed update", func(t *testing.T) {
		upd, err := domain.NewProfileUpdate(7, domain.RoleEmployer, "a@b.c", map[string]interface{}{
			"industry":  "Finance",
			"full_name": "ignored",
		})
		require.NoError(t, err)
		require.NotNil(t, upd.Employer)
		assert.True(t, upd.HasProfileChanges())
		assert.Equal(t, "Finance", *upd.Employer.Industry)
		assert.Nil(t, upd.Employer.CompanyName)
		assert.Nil(t, upd.Jobseeker)
	})

	t.Run("null clears a nullable column", func(t *testing.T) {
		upd, err := domain.NewProfileUpdate(7, domain.RoleEmployer, "a@b.c", map[string]interface{}{"website": nil})
		require.NoError(t, err)
		assert.True(t, upd.HasProfileChanges())
		assert.Equal(t, []string{"website"}, upd.Employer.Cleared)
		assert.Nil(t, upd.Employer.Website)
	})

	t.Run("jobseeker nulls are listed in column order", func(t *testing.T) {
		upd, err := domain.NewProfileUpdate(7, domain.RoleJobseeker, "a@b.c", map[string]interface{}{
			"education": nil,
			"phone":     nil,
			"skills":    "go",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"phone", "education"}, upd.Jobseeker.Cleared)
		assert.Equal(t, "go", *upd.Jobseeker.Skills)
	})

	t.Run("null on a required column is rejected", func(t *testing.T) {
		for role, field := range map[domain.Role]string{
			domain.RoleEmployer:  "company_name",
			domain.RoleJobseeker: "full_name",
		} {
			_, err := domain.NewProfileUpdate(7, role, "a@b.c", map[string]interface{}{field: nil})
			assert.ErrorIs(t, err, domain.ErrInvalidField, field)
		}
		_, err := domain.NewProfileUpdate(7, domain.RoleEmployer, "a@b.c", map[string]interface{}{"industry": nil})
		assert.ErrorIs(t, err, domain.ErrInvalidField)
	})

	t.Run("absent fields are neither set nor cleared", func(t *testing.T) {
		upd, err := domain.NewProfileUpdate(7, domain.RoleJobseeker, "a@b.c", map[string]interface{}{"skills": "go"})
		require.NoError(t, err)
		assert.Empty(t, upd.Jobseeker.Cleared)
		assert.Nil(t, upd.Jobseeker.Phone)
	})

	t.Run("non string value is rejected", func(t *testing.T) {
		_, err := domain.NewProfileUpdate(7, domain.RoleJobseeker, "a@b.c", map[string]interface{}{"phone": 5550001})
		assert.True(t, errors.Is(err, domain.ErrInvalidField))
	})
}

func TestParseRole(t *testing.T) {
	r, ok := domain.ParseRole(" Employer ")
	assert.True(t, ok)
	assert.Equal(t, domain.RoleEmployer, r)

	_, ok = domain.ParseRole("candidate")
	assert.False(t, ok)
}
