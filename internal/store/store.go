// Package store decides once at startup whether records live in a relational
// database or in flat JSON files, and hides the choice behind a single
// interface. Business code never branches on "is the DB configured".
package store

import (
	"errors"
	"fmt"
	"time"

	"ismartshop/shop-api/internal/model"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned for lookups that match no record
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a uniqueness rule would be violated
	ErrDuplicate = errors.New("record already exists")

	// ErrStorageUnavailable means the relational store is configured but
	// can't be reached. This is fatal at startup, there is no per-request
	// fallback to the flat-file store.
	ErrStorageUnavailable = errors.New("relational store unavailable")
)

// Counts holds the admin dashboard totals
type Counts struct {
	Users     int64 `json:"users"`
	Products  int64 `json:"products"`
	Favorites int64 `json:"favorites"`
	Pending   int64 `json:"pending"`
}

// Store is the logical persistence contract. Both backends implement every
// operation; the mode is fixed for the process lifetime.
type Store interface {
	UserByID(id string) (*model.User, error)
	UserByEmail(email string) (*model.User, error)
	CreateUser(u *model.User) error
	DeleteUser(id string) error
	Users() ([]model.User, error)
	SetUserRole(id, role string) error

	PendingByEmail(email string) (*model.PendingVerification, error)
	SavePending(p *model.PendingVerification) error
	PurgePendingBefore(cutoff time.Time) error

	// Promote creates u and deletes the pending entry for email as one
	// unit. Relational mode runs both in a transaction; file mode writes
	// the user first and deletes the pending entry only after that write
	// is confirmed.
	Promote(u *model.User, email string) error

	Products(includeUnapproved bool) ([]model.Product, error)
	ProductByID(id string) (*model.Product, error)
	CreateProduct(p *model.Product) error
	UpdateProduct(id string, changes map[string]any) (*model.Product, error)
	DeleteProduct(id string) error

	Categories() ([]model.Category, error)
	CreateCategory(ct *model.Category) error
	DeleteCategory(id string) error

	Favorites(userID string) ([]string, error)
	AddFavorite(userID, productID string) error
	RemoveFavorite(userID, productID string) error

	Counts() (Counts, error)
}

// New selects the backing store. A configured but unreachable database is an
// error, not a reason to silently fall back to files.
func New() (Store, error) {
	dsn := viper.GetString("database.url")
	if dsn == "" {
		zap.L().Info("No database.url configured, using flat-file store",
			zap.String("dir", viper.GetString("data.dir")))

		return NewFileStore(viper.GetString("data.dir"))
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	zap.L().Info("Connected to Postgres")

	return NewRelational(db)
}

func normEmail(e string) string {
	return model.NormalizeEmail(e)
}
