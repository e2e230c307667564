package store

import (
	"errors"
	"time"

	"ismartshop/shop-api/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Relational stores every collection in a gorm-managed database. All calls
// go through the schema guard so drifted deployments heal themselves on the
// first query that trips over a missing column.
type Relational struct {
	db    *gorm.DB
	guard *schemaGuard
}

func NewRelational(db *gorm.DB) (*Relational, error) {
	err := db.AutoMigrate(
		model.User{},
		model.PendingVerification{},
		model.Product{},
		model.Category{},
		model.Favorite{},
	)
	if err != nil {
		return nil, err
	}

	return &Relational{db: db, guard: newSchemaGuard(db)}, nil
}

func (r *Relational) UserByID(id string) (*model.User, error) {
	var u model.User

	err := r.guard.run(func(db *gorm.DB) error {
		return db.Where("id = ?", id).First(&u).Error
	})
	if err != nil {
		return nil, mapErr(err)
	}

	return &u, nil
}

func (r *Relational) UserByEmail(email string) (*model.User, error) {
	var u model.User

	err := r.guard.run(func(db *gorm.DB) error {
		return db.Where("email = ?", normEmail(email)).First(&u).Error
	})
	if err != nil {
		return nil, mapErr(err)
	}

	return &u, nil
}

func (r *Relational) CreateUser(u *model.User) error {
	return mapErr(r.guard.run(func(db *gorm.DB) error {
		return db.Create(u).Error
	}))
}

// DeleteUser removes the user and everything they favorited
func (r *Relational) DeleteUser(id string) error {
	return r.guard.run(func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("user_id = ?", id).Delete(&model.Favorite{}).Error; err != nil {
				return err
			}

			res := tx.Where("id = ?", id).Delete(&model.User{})
			if res.Error != nil {
				return res.Error
			}

			if res.RowsAffected == 0 {
				return ErrNotFound
			}

			return nil
		})
	})
}

func (r *Relational) Users() ([]model.User, error) {
	var users []model.User

	err := r.guard.run(func(db *gorm.DB) error {
		return db.Order("created_at").Find(&users).Error
	})

	return users, err
}

func (r *Relational) SetUserRole(id, role string) error {
	return r.guard.run(func(db *gorm.DB) error {
		res := db.Model(&model.User{}).Where("id = ?", id).Update("role", role)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		return nil
	})
}

func (r *Relational) PendingByEmail(email string) (*model.PendingVerification, error) {
	var p model.PendingVerification

	err := r.guard.run(func(db *gorm.DB) error {
		return db.Where("email = ?", normEmail(email)).First(&p).Error
	})
	if err != nil {
		return nil, mapErr(err)
	}

	return &p, nil
}

// SavePending upserts by email, so re-registering an unverified address
// rotates the stored code instead of growing a second row
func (r *Relational) SavePending(p *model.PendingVerification) error {
	p.Email = normEmail(p.Email)

	return r.guard.run(func(db *gorm.DB) error {
		return db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			UpdateAll: true,
		}).Create(p).Error
	})
}

func (r *Relational) PurgePendingBefore(cutoff time.Time) error {
	return r.guard.run(func(db *gorm.DB) error {
		return db.Where("created_at < ?", cutoff).Delete(&model.PendingVerification{}).Error
	})
}

func (r *Relational) Promote(u *model.User, email string) error {
	email = normEmail(email)

	return r.guard.run(func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(u).Error; err != nil {
				return err
			}

			return tx.Where("email = ?", email).Delete(&model.PendingVerification{}).Error
		})
	})
}

func (r *Relational) Products(includeUnapproved bool) ([]model.Product, error) {
	var products []model.Product

	err := r.guard.run(func(db *gorm.DB) error {
		q := db.Order("created_at desc")
		if !includeUnapproved {
			q = q.Where("status = ?", model.StatusApproved)
		}

		return q.Find(&products).Error
	})

	return products, err
}

func (r *Relational) ProductByID(id string) (*model.Product, error) {
	var p model.Product

	err := r.guard.run(func(db *gorm.DB) error {
		return db.Where("id = ?", id).First(&p).Error
	})
	if err != nil {
		return nil, mapErr(err)
	}

	return &p, nil
}

func (r *Relational) CreateProduct(p *model.Product) error {
	return r.guard.run(func(db *gorm.DB) error {
		return db.Create(p).Error
	})
}

func (r *Relational) UpdateProduct(id string, changes map[string]any) (*model.Product, error) {
	var p model.Product

	err := r.guard.run(func(db *gorm.DB) error {
		if len(changes) > 0 {
			res := db.Model(&model.Product{}).Where("id = ?", id).Updates(changes)
			if res.Error != nil {
				return res.Error
			}

			if res.RowsAffected == 0 {
				return ErrNotFound
			}
		}

		return db.Where("id = ?", id).First(&p).Error
	})
	if err != nil {
		return nil, mapErr(err)
	}

	return &p, nil
}

func (r *Relational) DeleteProduct(id string) error {
	return r.guard.run(func(db *gorm.DB) error {
		res := db.Where("id = ?", id).Delete(&model.Product{})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		return db.Where("product_id = ?", id).Delete(&model.Favorite{}).Error
	})
}

func (r *Relational) Categories() ([]model.Category, error) {
	var cats []model.Category

	err := r.guard.run(func(db *gorm.DB) error {
		return db.Order("name").Find(&cats).Error
	})

	return cats, err
}

// CreateCategory enforces the case-insensitive name uniqueness the unique
// index alone can't express
func (r *Relational) CreateCategory(ct *model.Category) error {
	return mapErr(r.guard.run(func(db *gorm.DB) error {
		var n int64
		err := db.Model(&model.Category{}).
			Where("LOWER(name) = LOWER(?)", ct.Name).
			Count(&n).
			Error
		if err != nil {
			return err
		}

		if n > 0 {
			return ErrDuplicate
		}

		return db.Create(ct).Error
	}))
}

// DeleteCategory cascades to every product in the category
func (r *Relational) DeleteCategory(id string) error {
	return r.guard.run(func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			res := tx.Where("id = ?", id).Delete(&model.Category{})
			if res.Error != nil {
				return res.Error
			}

			if res.RowsAffected == 0 {
				return ErrNotFound
			}

			return tx.Where("category = ?", id).Delete(&model.Product{}).Error
		})
	})
}

func (r *Relational) Favorites(userID string) ([]string, error) {
	var ids []string

	err := r.guard.run(func(db *gorm.DB) error {
		return db.Model(&model.Favorite{}).
			Where("user_id = ?", userID).
			Order("created_at").
			Pluck("product_id", &ids).
			Error
	})

	return ids, err
}

// AddFavorite is idempotent: the unique (user, product) index absorbs
// duplicate adds
func (r *Relational) AddFavorite(userID, productID string) error {
	return r.guard.run(func(db *gorm.DB) error {
		return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&model.Favorite{
			UserID:    userID,
			ProductID: productID,
			CreatedAt: time.Now(),
		}).Error
	})
}

func (r *Relational) RemoveFavorite(userID, productID string) error {
	return r.guard.run(func(db *gorm.DB) error {
		return db.Where("user_id = ? AND product_id = ?", userID, productID).
			Delete(&model.Favorite{}).
			Error
	})
}

func (r *Relational) Counts() (Counts, error) {
	var c Counts

	err := r.guard.run(func(db *gorm.DB) error {
		if err := db.Model(&model.User{}).Count(&c.Users).Error; err != nil {
			return err
		}

		if err := db.Model(&model.Product{}).Count(&c.Products).Error; err != nil {
			return err
		}

		if err := db.Model(&model.Favorite{}).Count(&c.Favorites).Error; err != nil {
			return err
		}

		return db.Model(&model.PendingVerification{}).Count(&c.Pending).Error
	})

	return c, err
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}
