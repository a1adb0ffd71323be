package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-user-api/internal/apperr"
	"go-user-api/internal/domain"
)

// fakeRepo is an in-memory stand-in for the GORM repository. It mimics
// store behavior the service relies on: assigned IDs, timestamps and
// created_at descending ordering.
type fakeRepo struct {
	mu    sync.Mutex
	users map[string]domain.User
	now   time.Time
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[string]domain.User), now: time.Now()}
}

func (f *fakeRepo) tick() time.Time {
	f.now = f.now.Add(time.Second)
	return f.now
}

func (f *fakeRepo) Create(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	ts := f.tick()
	u.CreatedAt, u.UpdatedAt = ts, ts
	f.users[u.ID] = *u
	return nil
}

func (f *fakeRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (f *fakeRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) ordered() []domain.User {
	all := make([]domain.User, 0, len(f.users))
	for _, u := range f.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return all
}

func (f *fakeRepo) List(_ context.Context, offset, limit int) ([]domain.User, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := f.ordered()
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (f *fakeRepo) Search(_ context.Context, query string) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q := strings.ToLower(query)
	var out []domain.User
	for _, u := range f.ordered() {
		if strings.Contains(strings.ToLower(u.Name), q) || strings.Contains(strings.ToLower(u.Email), q) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u.UpdatedAt = f.tick()
	f.users[u.ID] = *u
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return false, nil
	}
	delete(f.users, id)
	return true, nil
}

func newSvc() (*UserService, *fakeRepo) {
	r := newFakeRepo()
	return NewUserService(r), r
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns id and timestamps", func(t *testing.T) {
		svc, _ := newSvc()
		u, err := svc.Create(ctx, CreateInput{Name: "Alice", Email: "Alice@Example.COM"})
		require.NoError(t, err)
		assert.NotEmpty(t, u.ID)
		assert.Equal(t, "Alice", u.Name)
		assert.Equal(t, "alice@example.com", u.Email, "email is lowercased")
		assert.False(t, u.CreatedAt.IsZero())
		assert.False(t, u.UpdatedAt.IsZero())
	})

	t.Run("duplicate email is rejected and nothing is stored", func(t *testing.T) {
		svc, repo := newSvc()
		_, err := svc.Create(ctx, CreateInput{Name: "Alice", Email: "alice@example.com"})
		require.NoError(t, err)

		_, err = svc.Create(ctx, CreateInput{Name: "Impostor", Email: "ALICE@example.com"})
		require.Error(t, err)
		assert.Equal(t, apperr.KindDuplicateEmail, apperr.From(err).Kind)
		assert.Len(t, repo.users, 1)
	})

	t.Run("missing fields", func(t *testing.T) {
		svc, repo := newSvc()
		for _, in := range []CreateInput{
			{Name: "", Email: "a@b.co"},
			{Name: "   ", Email: "a@b.co"},
			{Name: "Bob", Email: ""},
			{Name: "Bob", Email: "  "},
		} {
			_, err := svc.Create(ctx, in)
			require.Error(t, err)
			assert.Equal(t, apperr.KindMissingField, apperr.From(err).Kind)
		}
		assert.Empty(t, repo.users)
	})

	t.Run("malformed email", func(t *testing.T) {
		svc, repo := newSvc()
		for _, email := range []string{"plainaddress", "no@tld", "spaces in@mail.com", "@missing.local"} {
			_, err := svc.Create(ctx, CreateInput{Name: "Bob", Email: email})
			require.Error(t, err, "email %q", email)
			assert.Equal(t, apperr.KindValidation, apperr.From(err).Kind)
		}
		assert.Empty(t, repo.users)
	})

	t.Run("name over 100 chars", func(t *testing.T) {
		svc, _ := newSvc()
		_, err := svc.Create(ctx, CreateInput{Name: strings.Repeat("x", 101), Email: "long@name.io"})
		require.Error(t, err)
		e := apperr.From(err)
		assert.Equal(t, apperr.KindValidation, e.Kind)
		assert.Contains(t, e.Details, "name: must be at most 100 characters long")
	})
}

func TestList(t *testing.T) {
	ctx := context.Background()
	svc, _ := newSvc()
	for _, n := range []string{"one", "two", "three"} {
		_, err := svc.Create(ctx, CreateInput{Name: n, Email: n + "@list.io"})
		require.NoError(t, err)
	}

	t.Run("page 2 limit 1 returns the second most recent", func(t *testing.T) {
		page, err := svc.List(ctx, 2, 1)
		require.NoError(t, err)
		require.Len(t, page.Users, 1)
		assert.Equal(t, "two", page.Users[0].Name)
		assert.Equal(t, Pagination{Page: 2, Limit: 1, Total: 3, Pages: 3}, page.Pagination)
	})

	t.Run("non-positive values coerce to defaults", func(t *testing.T) {
		page, err := svc.List(ctx, -5, 0)
		require.NoError(t, err)
		assert.Equal(t, DefaultPage, page.Pagination.Page)
		assert.Equal(t, DefaultLimit, page.Pagination.Limit)
		assert.Len(t, page.Users, 3)
	})

	t.Run("page past the end is empty but keeps totals", func(t *testing.T) {
		page, err := svc.List(ctx, 9, 10)
		require.NoError(t, err)
		assert.Empty(t, page.Users)
		assert.Equal(t, int64(3), page.Pagination.Total)
	})
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	svc, _ := newSvc()
	created, err := svc.Create(ctx, CreateInput{Name: "Gina", Email: "gina@get.io"})
	require.NoError(t, err)

	t.Run("found", func(t *testing.T) {
		u, err := svc.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, u.ID)
	})

	t.Run("absent id is 404", func(t *testing.T) {
		_, err := svc.Get(ctx, uuid.NewString())
		require.Error(t, err)
		e := apperr.From(err)
		assert.Equal(t, apperr.KindNotFound, e.Kind)
		assert.Equal(t, "User not found", e.Message)
	})

	t.Run("malformed id collapses to the same 404", func(t *testing.T) {
		_, err := svc.Get(ctx, "not-a-uuid")
		require.Error(t, err)
		e := apperr.From(err)
		assert.Equal(t, apperr.KindNotFound, e.Kind)
		assert.Equal(t, "User not found", e.Message)
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("partial update keeps omitted fields", func(t *testing.T) {
		svc, _ := newSvc()
		created, err := svc.Create(ctx, CreateInput{Name: "Uma", Email: "uma@old.io"})
		require.NoError(t, err)

		u, err := svc.Update(ctx, created.ID, UpdateInput{Email: "uma@new.io"})
		require.NoError(t, err)
		assert.Equal(t, "Uma", u.Name, "name unchanged")
		assert.Equal(t, "uma@new.io", u.Email)
		assert.True(t, u.UpdatedAt.After(created.UpdatedAt))
	})

	t.Run("empty string behaves like omitted", func(t *testing.T) {
		svc, _ := newSvc()
		created, err := svc.Create(ctx, CreateInput{Name: "Keep", Email: "keep@me.io"})
		require.NoError(t, err)

		u, err := svc.Update(ctx, created.ID, UpdateInput{Name: "", Email: ""})
		require.NoError(t, err)
		assert.Equal(t, "Keep", u.Name)
		assert.Equal(t, "keep@me.io", u.Email)
	})

	t.Run("changing to a taken email is rejected", func(t *testing.T) {
		svc, _ := newSvc()
		_, err := svc.Create(ctx, CreateInput{Name: "First", Email: "first@dup.io"})
		require.NoError(t, err)
		second, err := svc.Create(ctx, CreateInput{Name: "Second", Email: "second@dup.io"})
		require.NoError(t, err)

		_, err = svc.Update(ctx, second.ID, UpdateInput{Email: "first@dup.io"})
		require.Error(t, err)
		assert.Equal(t, apperr.KindDuplicateEmail, apperr.From(err).Kind)
	})

	t.Run("keeping the current email is not a conflict", func(t *testing.T) {
		svc, _ := newSvc()
		created, err := svc.Create(ctx, CreateInput{Name: "Same", Email: "same@mail.io"})
		require.NoError(t, err)

		u, err := svc.Update(ctx, created.ID, UpdateInput{Name: "Renamed", Email: "same@mail.io"})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", u.Name)
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		svc, _ := newSvc()
		_, err := svc.Update(ctx, uuid.NewString(), UpdateInput{Name: "Ghost"})
		require.Error(t, err)
		assert.Equal(t, apperr.KindNotFound, apperr.From(err).Kind)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newSvc()
	created, err := svc.Create(ctx, CreateInput{Name: "Gone", Email: "gone@soon.io"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.From(err).Kind)

	err = svc.Delete(ctx, created.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.From(err).Kind)

	assert.Equal(t, apperr.KindNotFound, apperr.From(svc.Delete(ctx, "bogus-id")).Kind)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	svc, _ := newSvc()
	for _, u := range []CreateInput{
		{Name: "Ann", Email: "ann@acme.com"},
		{Name: "Ben", Email: "ben@ACME.com"},
		{Name: "Cara", Email: "cara@other.org"},
	} {
		_, err := svc.Create(ctx, u)
		require.NoError(t, err)
	}

	t.Run("matches email domain case-insensitively", func(t *testing.T) {
		got, err := svc.Search(ctx, "AcMe")
		require.NoError(t, err)
		require.Len(t, got, 2)
		// created_at descending
		assert.Equal(t, "Ben", got[0].Name)
		assert.Equal(t, "Ann", got[1].Name)
	})

	t.Run("matches name substring", func(t *testing.T) {
		got, err := svc.Search(ctx, "car")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Cara", got[0].Name)
	})

	t.Run("no match returns empty slice", func(t *testing.T) {
		got, err := svc.Search(ctx, "zzz")
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}
