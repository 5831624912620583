package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picshare/picshare-api/internal/domain/entity"
	"github.com/picshare/picshare-api/internal/domain/repository"
)

func newUser(fullName, username, email string) *entity.User {
	return &entity.User{
		FullName:     fullName,
		Username:     username,
		Email:        email,
		PasswordHash: "hash",
	}
}

func TestCreate_AssignsSequentialIDs(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()

	u1 := newUser("João Silva", "joao123", "joao@email.com")
	u2 := newUser("Maria Souza", "maria99", "maria@email.com")
	require.NoError(t, r.Create(ctx, u1))
	require.NoError(t, r.Create(ctx, u2))

	assert.Equal(t, int64(1), u1.ID)
	assert.Equal(t, int64(2), u2.ID)
	assert.False(t, u1.CreatedAt.IsZero())
}

func TestFindByID(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()
	u := newUser("João Silva", "joao123", "joao@email.com")
	require.NoError(t, r.Create(ctx, u))

	got, err := r.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "joao123", got.Username)

	_, err = r.FindByID(ctx, 999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestFindByUsername(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()
	require.NoError(t, r.Create(ctx, newUser("João Silva", "joao123", "joao@email.com")))

	got, err := r.FindByUsername(ctx, "joao123")
	require.NoError(t, err)
	assert.Equal(t, "joao@email.com", got.Email)

	_, err = r.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestFindAll_ReturnsInsertionOrder(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()

	all, err := r.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	require.NoError(t, r.Create(ctx, newUser("João Silva", "joao123", "joao@email.com")))
	require.NoError(t, r.Create(ctx, newUser("Maria Souza", "maria99", "maria@email.com")))

	all, err = r.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "joao123", all[0].Username)
	assert.Equal(t, "maria99", all[1].Username)
}

func TestExists(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()
	u := newUser("João Silva", "joao123", "joao@email.com")
	require.NoError(t, r.Create(ctx, u))

	for _, tc := range []struct {
		name string
		got  func() (bool, error)
		want bool
	}{
		{"id present", func() (bool, error) { return r.ExistsByID(ctx, u.ID) }, true},
		{"id absent", func() (bool, error) { return r.ExistsByID(ctx, 999) }, false},
		{"email present", func() (bool, error) { return r.ExistsByEmail(ctx, "joao@email.com") }, true},
		{"email absent", func() (bool, error) { return r.ExistsByEmail(ctx, "other@email.com") }, false},
		{"username present", func() (bool, error) { return r.ExistsByUsername(ctx, "joao123") }, true},
		{"username absent", func() (bool, error) { return r.ExistsByUsername(ctx, "other") }, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.got()
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestUpdate(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()
	u := newUser("João Silva", "joao123", "joao@email.com")
	require.NoError(t, r.Create(ctx, u))

	u.FullName = "João Pereira"
	u.Email = "joaop@email.com"
	require.NoError(t, r.Update(ctx, u))

	got, err := r.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "João Pereira", got.FullName)
	assert.Equal(t, "joaop@email.com", got.Email)

	ghost := newUser("Ghost", "ghost", "ghost@email.com")
	ghost.ID = 999
	assert.ErrorIs(t, r.Update(ctx, ghost), repository.ErrNotFound)
}

func TestDelete(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()
	u := newUser("João Silva", "joao123", "joao@email.com")
	require.NoError(t, r.Create(ctx, u))

	require.NoError(t, r.Delete(ctx, u.ID))
	_, err := r.FindByID(ctx, u.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, r.Delete(ctx, u.ID), repository.ErrNotFound)
}

func TestCopySemantics_MutatingResultDoesNotLeakIntoStore(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()
	u := newUser("João Silva", "joao123", "joao@email.com")
	require.NoError(t, r.Create(ctx, u))

	got, err := r.FindByID(ctx, u.ID)
	require.NoError(t, err)
	got.Username = "mutated"

	fresh, err := r.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "joao123", fresh.Username)
}
