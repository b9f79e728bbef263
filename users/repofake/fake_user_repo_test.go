package fakeuserrepo_test

import (
	"testing"

	"github.com/jrsteele09/go-assoc-admin/users"
	fakeuserrepo "github.com/jrsteele09/go-assoc-admin/users/repofake"
	"github.com/stretchr/testify/require"
)

func TestUpsertAndLookup(t *testing.T) {
	repo := fakeuserrepo.NewFakeUserRepo()
	u := &users.User{Email: "Admin@Example.com", Name: "Admin", Role: users.RoleAdmin}
	require.NoError(t, repo.Upsert(u))
	require.NotEmpty(t, u.ID)

	byEmail, err := repo.GetByEmail("admin@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)

	byEmail.Name = "mutated"
	byID, err := repo.GetByID(u.ID)
	require.NoError(t, err)
	require.Equal(t, "Admin", byID.Name)
}

func TestEmailChangeMovesIndex(t *testing.T) {
	repo := fakeuserrepo.NewFakeUserRepo()
	u := &users.User{Email: "old@example.com"}
	require.NoError(t, repo.Upsert(u))

	u.Email = "new@example.com"
	require.NoError(t, repo.Upsert(u))

	_, err := repo.GetByEmail("old@example.com")
	require.ErrorIs(t, err, fakeuserrepo.ErrNotFound)
	_, err = repo.GetByEmail("new@example.com")
	require.NoError(t, err)

	require.Error(t, repo.Upsert(&users.User{Email: "new@example.com"}))
}

func TestListAndDelete(t *testing.T) {
	repo := fakeuserrepo.NewFakeUserRepo()
	for _, e := range []string{"c@example.com", "a@example.com", "b@example.com"} {
		require.NoError(t, repo.Upsert(&users.User{Email: e}))
	}

	list, err := repo.List(1, 5)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "b@example.com", list[0].Email)

	require.NoError(t, repo.Delete("a@example.com"))
	require.ErrorIs(t, repo.Delete("a@example.com"), fakeuserrepo.ErrNotFound)

	list, err = repo.List(5, 5)
	require.NoError(t, err)
	require.Empty(t, list)
}
