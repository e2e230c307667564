package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"ismartshop/shop-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()

	f, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	return f
}

func TestFileStoreUserLifecycle(t *testing.T) {
	f := newTestFileStore(t)

	u := &model.User{ID: "u1", Email: "alice@example.com", Name: "Alice", PasswordHash: "x", Verified: true, Role: model.RoleUser}
	require.NoError(t, f.CreateUser(u))

	got, err := f.UserByID("u1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)

	// lookups normalize the address
	got, err = f.UserByEmail("  ALICE@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	_, err = f.UserByID("nope")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, f.SetUserRole("u1", model.RoleAdmin))
	got, err = f.UserByID("u1")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, got.Role)

	assert.ErrorIs(t, f.SetUserRole("nope", model.RoleAdmin), ErrNotFound)

	require.NoError(t, f.DeleteUser("u1"))
	assert.ErrorIs(t, f.DeleteUser("u1"), ErrNotFound)
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	f, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, f.CreateUser(&model.User{ID: "u1", Email: "a@b.com", PasswordHash: "x"}))
	require.NoError(t, f.CreateProduct(&model.Product{ID: "p1", Title: "Lamp", Status: model.StatusApproved}))
	require.NoError(t, f.AddFavorite("u1", "p1"))

	reopened, err := NewFileStore(dir)
	require.NoError(t, err)

	u, err := reopened.UserByID("u1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", u.Email)

	ids, err := reopened.Favorites("u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, ids)

	// no stray temp files left behind by the atomic writes
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.Equal(t, ".json", filepath.Ext(e.Name()), "unexpected file %s", e.Name())
	}
}

func TestFileStorePendingUpsert(t *testing.T) {
	f := newTestFileStore(t)

	require.NoError(t, f.SavePending(&model.PendingVerification{Email: "Bob@Example.com", Code: "111111", CreatedAt: time.Now()}))
	require.NoError(t, f.SavePending(&model.PendingVerification{Email: "bob@example.com", Code: "222222", CreatedAt: time.Now()}))

	p, err := f.PendingByEmail("bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, "222222", p.Code)

	c, err := f.Counts()
	require.NoError(t, err)
	assert.EqualValues(t, 1, c.Pending)
}

func TestFileStorePurgePendingBoundary(t *testing.T) {
	f := newTestFileStore(t)
	now := time.Now()

	require.NoError(t, f.SavePending(&model.PendingVerification{Email: "fresh@example.com", Code: "111111", CreatedAt: now.Add(-23*time.Hour - 59*time.Minute)}))
	require.NoError(t, f.SavePending(&model.PendingVerification{Email: "stale@example.com", Code: "222222", CreatedAt: now.Add(-24*time.Hour - time.Minute)}))

	require.NoError(t, f.PurgePendingBefore(now.Add(-24*time.Hour)))

	_, err := f.PendingByEmail("fresh@example.com")
	assert.NoError(t, err)

	_, err = f.PendingByEmail("stale@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStorePromote(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, f.SavePending(&model.PendingVerification{Email: "carol@example.com", Code: "123456", PasswordHash: "h", CreatedAt: time.Now()}))

	u := &model.User{ID: "u1", Email: "carol@example.com", PasswordHash: "h", Verified: true, Role: model.RoleUser}
	require.NoError(t, f.Promote(u, "Carol@Example.COM"))

	got, err := f.UserByEmail("carol@example.com")
	require.NoError(t, err)
	assert.True(t, got.Verified)

	_, err = f.PendingByEmail("carol@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	// both sides of the promotion reached disk
	reopened, err := NewFileStore(dir)
	require.NoError(t, err)

	_, err = reopened.UserByID("u1")
	assert.NoError(t, err)
	_, err = reopened.PendingByEmail("carol@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreFavoritesIdempotent(t *testing.T) {
	f := newTestFileStore(t)

	require.NoError(t, f.AddFavorite("u1", "p1"))
	require.NoError(t, f.AddFavorite("u1", "p1"))
	require.NoError(t, f.AddFavorite("u1", "p2"))

	ids, err := f.Favorites("u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, ids)

	require.NoError(t, f.RemoveFavorite("u1", "p1"))
	require.NoError(t, f.RemoveFavorite("u1", "p1"))

	ids, err = f.Favorites("u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p2"}, ids)
}

func TestFileStoreDeleteUserCascadesFavorites(t *testing.T) {
	f := newTestFileStore(t)

	require.NoError(t, f.CreateUser(&model.User{ID: "u1", Email: "a@b.com"}))
	require.NoError(t, f.AddFavorite("u1", "p1"))
	require.NoError(t, f.AddFavorite("u2", "p1"))

	require.NoError(t, f.DeleteUser("u1"))

	ids, err := f.Favorites("u1")
	require.NoError(t, err)
	assert.Empty(t, ids)

	ids, err = f.Favorites("u2")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, ids)
}

func TestFileStoreDeleteProductCascadesFavorites(t *testing.T) {
	f := newTestFileStore(t)

	require.NoError(t, f.CreateProduct(&model.Product{ID: "p1", Title: "Lamp"}))
	require.NoError(t, f.AddFavorite("u1", "p1"))
	require.NoError(t, f.AddFavorite("u1", "p2"))

	require.NoError(t, f.DeleteProduct("p1"))

	ids, err := f.Favorites("u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p2"}, ids)
}

func TestFileStoreCategories(t *testing.T) {
	f := newTestFileStore(t)

	require.NoError(t, f.CreateCategory(&model.Category{ID: "c1", Name: "Chairs"}))
	assert.ErrorIs(t, f.CreateCategory(&model.Category{ID: "c2", Name: "chairs"}), ErrDuplicate)

	require.NoError(t, f.CreateProduct(&model.Product{ID: "p1", Title: "Stool", Category: "c1"}))
	require.NoError(t, f.CreateProduct(&model.Product{ID: "p2", Title: "Lamp", Category: "c9"}))

	require.NoError(t, f.DeleteCategory("c1"))
	assert.ErrorIs(t, f.DeleteCategory("c1"), ErrNotFound)

	_, err := f.ProductByID("p1")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.ProductByID("p2")
	assert.NoError(t, err)
}

func TestFileStoreProductsFilterAndUpdate(t *testing.T) {
	f := newTestFileStore(t)

	require.NoError(t, f.CreateProduct(&model.Product{ID: "p1", Title: "Lamp", Status: model.StatusApproved}))
	require.NoError(t, f.CreateProduct(&model.Product{ID: "p2", Title: "Desk", Status: model.StatusPending}))

	visible, err := f.Products(false)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "p1", visible[0].ID)

	all, err := f.Products(true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	p, err := f.UpdateProduct("p2", map[string]any{
		"title":  "Standing Desk",
		"price":  249.99,
		"status": model.StatusApproved,
		"colors": model.StringSlice{"oak", "white"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Standing Desk", p.Title)
	assert.Equal(t, 249.99, p.Price)
	assert.Equal(t, model.StatusApproved, p.Status)
	assert.Equal(t, model.StringSlice{"oak", "white"}, p.Colors)

	_, err = f.UpdateProduct("nope", map[string]any{"title": "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreCounts(t *testing.T) {
	f := newTestFileStore(t)

	require.NoError(t, f.CreateUser(&model.User{ID: "u1", Email: "a@b.com"}))
	require.NoError(t, f.CreateProduct(&model.Product{ID: "p1", Title: "Lamp"}))
	require.NoError(t, f.AddFavorite("u1", "p1"))
	require.NoError(t, f.SavePending(&model.PendingVerification{Email: "x@y.com", CreatedAt: time.Now()}))

	c, err := f.Counts()
	require.NoError(t, err)
	assert.Equal(t, Counts{Users: 1, Products: 1, Favorites: 1, Pending: 1}, c)
}
