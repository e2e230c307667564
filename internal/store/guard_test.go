package store

import (
	"errors"
	"testing"

	"ismartshop/shop-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSchemaMismatch(t *testing.T) {
	assert.False(t, isSchemaMismatch(nil))
	assert.False(t, isSchemaMismatch(ErrNotFound))
	assert.False(t, isSchemaMismatch(errors.New("connection refused")))

	assert.True(t, isSchemaMismatch(errors.New("no such column: user_id")))
	assert.True(t, isSchemaMismatch(errors.New(`ERROR: column "owner_id" does not exist (SQLSTATE 42703)`)))
	assert.True(t, isSchemaMismatch(errors.New("Unknown column 'status' in 'field list'")))
}

// A table that drifted behind the code, missing a column the queries name,
// heals on the first access: one repair pass, then the retried operation
// succeeds. Subsequent calls run clean without repairing again.
func TestGuardRepairsMissingColumn(t *testing.T) {
	r := newTestRelational(t)

	require.NoError(t, r.AddFavorite("u1", "p1"))

	m := r.db.Migrator()
	require.NoError(t, m.DropIndex(&model.Favorite{}, "idx_favorites_user_product"))
	require.NoError(t, m.DropColumn(&model.Favorite{}, "UserID"))

	// trips "no such column: user_id", repairs, retries
	ids, err := r.Favorites("u1")
	require.NoError(t, err)
	assert.Empty(t, ids, "the re-added column starts out empty")
	assert.Equal(t, 1, r.guard.repairRuns)

	require.True(t, m.HasColumn(&model.Favorite{}, "UserID"))
	require.True(t, m.HasIndex(&model.Favorite{}, "idx_favorites_user_product"))

	require.NoError(t, r.AddFavorite("u1", "p2"))
	ids, err = r.Favorites("u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p2"}, ids)
	assert.Equal(t, 1, r.guard.repairRuns, "a healthy schema must not trigger more repairs")
}

// Errors that merely mention nothing schema-shaped pass through untouched
func TestGuardLeavesOtherErrorsAlone(t *testing.T) {
	r := newTestRelational(t)

	_, err := r.UserByID("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, r.guard.repairRuns)
}

func TestGuardRepairIsIdempotent(t *testing.T) {
	r := newTestRelational(t)

	require.NoError(t, r.guard.repair())
	require.NoError(t, r.guard.repair())
	assert.Equal(t, 2, r.guard.repairRuns)

	// nothing was altered on a schema that was already complete
	m := r.db.Migrator()
	assert.True(t, m.HasColumn(&model.Product{}, "OwnerID"))
	assert.True(t, m.HasColumn(&model.Product{}, "Status"))
}
