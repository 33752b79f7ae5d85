package postgres

import (
	"context"
	"errors"
	"testing"

	"go-jobboard-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errInjected = errors.New("injected fault")

type fakeUser struct {
	email string
	role  domain.Role
}

// fakeStore is the committed state seen by fakeDB
type fakeStore struct {
	users      map[int64]*fakeUser
	employers  map[int64]map[string]*string
	jobseekers map[int64]map[string]*string
}

func (s *fakeStore) clone() *fakeStore {
	c := &fakeStore{
		users:      make(map[int64]*fakeUser),
		employers:  make(map[int64]map[string]*string),
		jobseekers: make(map[int64]map[string]*string),
	}
	for id, u := range s.users {
		cp := *u
		c.users[id] = &cp
	}
	copyRows := func(dst, src map[int64]map[string]*string) {
		for id, row := range src {
			r := make(map[string]*string, len(row))
			for k, v := range row {
				r[k] = v
			}
			dst[id] = r
		}
	}
	copyRows(c.employers, s.employers)
	copyRows(c.jobseekers, s.jobseekers)
	return c
}

// fakeDB hands out transactions that work on a copy of the store and publish
// it only on Commit. failOn makes the statement with that exact SQL fail.
type fakeDB struct {
	store     *fakeStore
	failOn    string
	executed  []string
	begins    int
	commits   int
	rollbacks int
}

func newFakeDB() *fakeDB {
	s := func(v string) *string { return &v }
	return &fakeDB{store: &fakeStore{
		users: map[int64]*fakeUser{
			1: {email: "acme@example.com", role: domain.RoleEmployer},
			2: {email: "jane@example.com", role: domain.RoleJobseeker},
			3: {email: "orphan@example.com", role: domain.RoleEmployer},
		},
		employers: map[int64]map[string]*string{
			1: {"company_name": s("Acme"), "website": s("https://acme.test"), "industry": s("Retail"), "profile_image": s("/uploads/acme.jpg")},
		},
		jobseekers: map[int64]map[string]*string{
			2: {"full_name": s("Jane Doe"), "phone": s("555"), "skills": s("go")},
		},
	}}
}

func (f *fakeDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	panic("statement outside transaction")
}

func (f *fakeDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	panic("statement outside transaction")
}

func (f *fakeDB) QueryRow(context.Context, string, ...any) pgx.Row {
	panic("statement outside transaction")
}

func (f *fakeDB) Begin(context.Context) (pgx.Tx, error) {
	f.begins++
	return &fakeTx{db: f, work: f.store.clone()}, nil
}

type fakeTx struct {
	pgx.Tx
	db   *fakeDB
	work *fakeStore
	done bool
}

type fakeRow func(dest ...any) error

func (r fakeRow) Scan(dest ...any) error { return r(dest...) }

func (t *fakeTx) Commit(context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.db.commits++
	t.db.store = t.work
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.db.rollbacks++
	return nil
}

// setColumns applies the typed column args followed by the cleared column list
func setColumns(row map[string]*string, cols []string, args []any) {
	for i, col := range cols {
		if v := args[i].(*string); v != nil {
			row[col] = v
		}
	}
	for _, col := range args[len(cols)].([]string) {
		row[col] = nil
	}
}

func (t *fakeTx) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	t.db.executed = append(t.db.executed, sql)
	if sql == t.db.failOn {
		return pgconn.CommandTag{}, errInjected
	}

	id := args[0].(int64)
	switch sql {
	case updateUserEmailQuery:
		email, role := args[1].(string), domain.Role(args[2].(string))
		u, ok := t.work.users[id]
		if !ok || u.role != role {
			return pgconn.NewCommandTag("UPDATE 0"), nil
		}
		for other, ou := range t.work.users {
			if other != id && ou.email == email {
				return pgconn.CommandTag{}, &pgconn.PgError{Code: pgUniqueViolation}
			}
		}
		u.email = email
		return pgconn.NewCommandTag("UPDATE 1"), nil
	case updateEmployerQuery:
		row, ok := t.work.employers[id]
		if !ok {
			return pgconn.NewCommandTag("UPDATE 0"), nil
		}
		setColumns(row, domain.EmployerUpdateFields, args[1:])
		return pgconn.NewCommandTag("UPDATE 1"), nil
	case updateJobseekerQuery:
		row, ok := t.work.jobseekers[id]
		if !ok {
			return pgconn.NewCommandTag("UPDATE 0"), nil
		}
		setColumns(row, domain.JobseekerUpdateFields, args[1:])
		return pgconn.NewCommandTag("UPDATE 1"), nil
	case deleteUserQuery:
		if _, ok := t.work.users[id]; !ok {
			return pgconn.NewCommandTag("DELETE 0"), nil
		}
		if _, ok := t.work.employers[id]; ok {
			return pgconn.CommandTag{}, &pgconn.PgError{Code: pgForeignKeyViolation}
		}
		if _, ok := t.work.jobseekers[id]; ok {
			return pgconn.CommandTag{}, &pgconn.PgError{Code: pgForeignKeyViolation}
		}
		delete(t.work.users, id)
		return pgconn.NewCommandTag("DELETE 1"), nil
	}
	panic("unexpected statement: " + sql)
}

func (t *fakeTx) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	t.db.executed = append(t.db.executed, sql)
	if sql == t.db.failOn {
		return fakeRow(func(...any) error { return errInjected })
	}

	id := args[0].(int64)
	var table map[int64]map[string]*string
	switch sql {
	case deleteEmployerQuery:
		table = t.work.employers
	case deleteJobseekerQuery:
		table = t.work.jobseekers
	default:
		panic("unexpected query: " + sql)
	}

	return fakeRow(func(dest ...any) error {
		row, ok := table[id]
		if !ok {
			return pgx.ErrNoRows
		}
		delete(table, id)
		*dest[0].(**string) = row["profile_image"]
		return nil
	})
}

func strPtr(s string) *string { return &s }

func TestProfileRepo_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("email and employer fields commit together", func(t *testing.T) {
		db := newFakeDB()
		repo := NewProfileRepository(db)

		err := repo.Update(ctx, &domain.ProfileUpdate{
			UserID:   1,
			Role:     domain.RoleEmployer,
			Email:    "hr@acme.test",
			Employer: &domain.EmployerProfileUpdate{Industry: strPtr("Finance")},
		})
		require.NoError(t, err)

		assert.Equal(t, "hr@acme.test", db.store.users[1].email)
		assert.Equal(t, "Finance", *db.store.employers[1]["industry"])
		assert.Equal(t, "Acme", *db.store.employers[1]["company_name"])
		assert.Equal(t, 1, db.commits)
	})

	t.Run("email only update skips the profile table", func(t *testing.T) {
		db := newFakeDB()
		repo := NewProfileRepository(db)

		err := repo.Update(ctx, &domain.ProfileUpdate{
			UserID:    2,
			Role:      domain.RoleJobseeker,
			Email:     "jane.doe@example.com",
			Jobseeker: &domain.JobseekerProfileUpdate{},
		})
		require.NoError(t, err)

		assert.Equal(t, []string{updateUserEmailQuery}, db.executed)
		assert.Equal(t, "jane.doe@example.com", db.store.users[2].email)
		assert.Equal(t, "Jane Doe", *db.store.jobseekers[2]["full_name"])
	})

	t.Run("unknown user rolls back", func(t *testing.T) {
		db := newFakeDB()
		repo := NewProfileRepository(db)

		err := repo.Update(ctx, &domain.ProfileUpdate{
			UserID:   99,
			Role:     domain.RoleEmployer,
			Email:    "x@example.com",
			Employer: &domain.EmployerProfileUpdate{Industry: strPtr("Finance")},
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Equal(t, []string{updateUserEmailQuery}, db.executed)
		assert.Equal(t, 0, db.commits)
		assert.Equal(t, 1, db.rollbacks)
	})

	t.Run("role mismatch is not found", func(t *testing.T) {
		db := newFakeDB()
		repo := NewProfileRepository(db)

		err := repo.Update(ctx, &domain.ProfileUpdate{UserID: 2, Role: domain.RoleEmployer, Email: "x@example.com"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Equal(t, "jane@example.com", db.store.users[2].email)
	})

	t.Run("profile write failure leaves email unchanged", func(t *testing.T) {
		db := newFakeDB()
		db.failOn = updateEmployerQuery
		repo := NewProfileRepository(db)

		err := repo.Update(ctx, &domain.ProfileUpdate{
			UserID:   1,
			Role:     domain.RoleEmployer,
			Email:    "hr@acme.test",
			Employer: &domain.EmployerProfileUpdate{CompanyName: strPtr("Acme Corp")},
		})
		assert.ErrorIs(t, err, errInjected)
		assert.Equal(t, "acme@example.com", db.store.users[1].email)
		assert.Equal(t, "Acme", *db.store.employers[1]["company_name"])
		assert.Equal(t, 1, db.rollbacks)
	})

	t.Run("email write failure leaves profile unchanged", func(t *testing.T) {
		db := newFakeDB()
		db.failOn = updateUserEmailQuery
		repo := NewProfileRepository(db)

		err := repo.Update(ctx, &domain.ProfileUpdate{
			UserID:    2,
			Role:      domain.RoleJobseeker,
			Email:     "jane.doe@example.com",
			Jobseeker: &domain.JobseekerProfileUpdate{Skills: strPtr("rust")},
		})
		assert.ErrorIs(t, err, errInjected)
		assert.Equal(t, "go", *db.store.jobseekers[2]["skills"])
	})

	t.Run("missing profile row undoes the email change", func(t *testing.T) {
		db := newFakeDB()
		repo := NewProfileRepository(db)

		err := repo.Update(ctx, &domain.ProfileUpdate{
			UserID:   3,
			Role:     domain.RoleEmployer,
			Email:    "new@example.com",
			Employer: &domain.EmployerProfileUpdate{Website: strPtr("https://x.test")},
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Equal(t, "orphan@example.com", db.store.users[3].email)
	})

	t.Run("cleared columns are written as null", func(t *testing.T) {
		db := newFakeDB()
		repo := NewProfileRepository(db)

		err := repo.Update(ctx, &domain.ProfileUpdate{
			UserID:   1,
			Role:     domain.RoleEmployer,
			Email:    "acme@example.com",
			Employer: &domain.EmployerProfileUpdate{Cleared: []string{"website"}},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{updateUserEmailQuery, updateEmployerQuery}, db.executed)
		assert.Nil(t, db.store.employers[1]["website"])
		assert.Equal(t, "Acme", *db.store.employers[1]["company_name"])
	})

	t.Run("jobseeker clears one column and sets another", func(t *testing.T) {
		db := newFakeDB()
		repo := NewProfileRepository(db)

		err := repo.Update(ctx, &domain.ProfileUpdate{
			UserID:    2,
			Role:      domain.RoleJobseeker,
			Email:     "jane@example.com",
			Jobseeker: &domain.JobseekerProfileUpdate{Skills: strPtr("rust"), Cleared: []string{"phone"}},
		})
		require.NoError(t, err)
		assert.Nil(t, db.store.jobseekers[2]["phone"])
		assert.Equal(t, "rust", *db.store.jobseekers[2]["skills"])
	})

	t.Run("taken email is reported", func(t *testing.T) {
		db := newFakeDB()
		repo := NewProfileRepository(db)

		err := repo.Update(ctx, &domain.ProfileUpdate{
			UserID:    2,
			Role:      domain.RoleJobseeker,
			Email:     "acme@example.com",
			Jobseeker: &domain.JobseekerProfileUpdate{Phone: strPtr("777")},
		})
		assert.ErrorIs(t, err, domain.ErrEmailTaken)
		assert.Equal(t, "555", *db.store.jobseekers[2]["phone"])
	})

	t.Run("invalid role never opens a transaction", func(t *testing.T) {
		db := newFakeDB()
		repo := NewProfileRepository(db)

		err := repo.Update(ctx, &domain.ProfileUpdate{UserID: 1, Role: "admin", Email: "x@example.com"})
		assert.ErrorIs(t, err, domain.ErrInvalidRole)
		assert.Zero(t, db.begins)
	})
}

func TestProfileRepo_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("profile row goes before the user row", func(t *testing.T) {
		db := newFakeDB()
		repo := NewProfileRepository(db)

		image, err := repo.Delete(ctx, 1, domain.RoleEmployer)
		require.NoError(t, err)
		require.NotNil(t, image)
		assert.Equal(t, "/uploads/acme.jpg", *image)

		assert.Equal(t, []string{deleteEmployerQuery, deleteUserQuery}, db.executed)
		assert.NotContains(t, db.store.users, int64(1))
		assert.NotContains(t, db.store.employers, int64(1))
		assert.Equal(t, 1, db.commits)
	})

	t.Run("jobseeker without image", func(t *testing.T) {
		db := newFakeDB()
		repo := NewProfileRepository(db)

		image, err := repo.Delete(ctx, 2, domain.RoleJobseeker)
		require.NoError(t, err)
		assert.Nil(t, image)
		assert.NotContains(t, db.store.users, int64(2))
	})

	t.Run("missing profile leaves the user row", func(t *testing.T) {
		db := newFakeDB()
		repo := NewProfileRepository(db)

		_, err := repo.Delete(ctx, 3, domain.RoleEmployer)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Equal(t, []string{deleteEmployerQuery}, db.executed)
		assert.Contains(t, db.store.users, int64(3))
		assert.Equal(t, 1, db.rollbacks)
	})

	t.Run("wrong role table is not found", func(t *testing.T) {
		db := newFakeDB()
		repo := NewProfileRepository(db)

		_, err := repo.Delete(ctx, 1, domain.RoleJobseeker)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Contains(t, db.store.employers, int64(1))
	})

	t.Run("user delete failure restores the profile", func(t *testing.T) {
		db := newFakeDB()
		db.failOn = deleteUserQuery
		repo := NewProfileRepository(db)

		_, err := repo.Delete(ctx, 1, domain.RoleEmployer)
		assert.ErrorIs(t, err, errInjected)
		assert.Contains(t, db.store.employers, int64(1))
		assert.Contains(t, db.store.users, int64(1))
	})

	t.Run("invalid role", func(t *testing.T) {
		db := newFakeDB()
		repo := NewProfileRepository(db)

		_, err := repo.Delete(ctx, 1, "admin")
		assert.ErrorIs(t, err, domain.ErrInvalidRole)
		assert.Zero(t, db.begins)
	})
}
