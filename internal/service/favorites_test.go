package service

import (
	"testing"

	"ismartshop/shop-api/internal/model"
	"ismartshop/shop-api/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFavorites(t *testing.T) (*Favorites, store.Store) {
	t.Helper()

	s, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)

	return &Favorites{Store: s}, s
}

func TestToggleAnonymous(t *testing.T) {
	f, s := newFavorites(t)

	set := f.Toggle("", nil, "p1")
	assert.Equal(t, []string{"p1"}, set)

	set = f.Toggle("", set, "p2")
	assert.Equal(t, []string{"p1", "p2"}, set)

	// toggling twice round-trips back
	set = f.Toggle("", set, "p1")
	assert.Equal(t, []string{"p2"}, set)

	// nothing reached the server without a user
	c, err := s.Counts()
	require.NoError(t, err)
	assert.Zero(t, c.Favorites)
}

func TestToggleAuthenticatedWritesThrough(t *testing.T) {
	f, s := newFavorites(t)

	set := f.Toggle("u1", nil, "p1")
	assert.Equal(t, []string{"p1"}, set)

	ids, err := s.Favorites("u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, ids)

	set = f.Toggle("u1", set, "p1")
	assert.Empty(t, set)

	ids, err = s.Favorites("u1")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestMigratePushesThenPulls(t *testing.T) {
	f, s := newFavorites(t)

	require.NoError(t, s.CreateProduct(&model.Product{ID: "p1", Title: "Lamp", Status: model.StatusApproved}))
	require.NoError(t, s.CreateProduct(&model.Product{ID: "p2", Title: "Desk", Status: model.StatusApproved}))
	require.NoError(t, s.CreateProduct(&model.Product{ID: "p3", Title: "Sofa", Status: model.StatusApproved}))

	// picks the user already made on another device
	require.NoError(t, s.AddFavorite("u1", "p3"))

	set, err := f.Migrate("u1", []string{"p1", "p2"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"p1", "p2", "p3"}, set, "server picks merge with anonymous ones")
}

func TestMigrateDropsDeletedProducts(t *testing.T) {
	f, s := newFavorites(t)

	require.NoError(t, s.CreateProduct(&model.Product{ID: "p1", Title: "Lamp", Status: model.StatusApproved}))

	set, err := f.Migrate("u1", []string{"p1", "ghost"})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, set)
}

func TestMigrateIsIdempotent(t *testing.T) {
	f, s := newFavorites(t)

	require.NoError(t, s.CreateProduct(&model.Product{ID: "p1", Title: "Lamp", Status: model.StatusApproved}))

	set, err := f.Migrate("u1", []string{"p1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, set)

	set, err = f.Migrate("u1", []string{"p1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, set)
}

func TestPullNeverReturnsNil(t *testing.T) {
	f, _ := newFavorites(t)

	set, err := f.Pull("nobody")
	require.NoError(t, err)
	assert.NotNil(t, set)
	assert.Empty(t, set)
}
