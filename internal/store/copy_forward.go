package store

import (
	"errors"

	"ismartshop/shop-api/internal/model"

	"go.uber.org/zap"
)

// CopyForward transfers every flat-file record into the relational store,
// skipping anything already present there. It is a manually triggered
// one-shot job, safe to re-run, and it never touches the flat-file source:
// the JSON documents stay behind as a readable backup until an operator
// removes them deliberately.
func CopyForward(src *FileStore, dst *Relational) error {
	users, err := src.Users()
	if err != nil {
		return err
	}

	var copied, skipped int

	for i := range users {
		if _, err := dst.UserByEmail(users[i].Email); err == nil {
			skipped++
			continue
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}

		if err := dst.CreateUser(&users[i]); err != nil {
			return err
		}
		copied++
	}

	zap.L().Info("Copied users", zap.Int("copied", copied), zap.Int("skipped", skipped))

	copied, skipped = 0, 0
	src.mu.Lock()
	pending := make([]model.PendingVerification, len(src.pending))
	copy(pending, src.pending)
	src.mu.Unlock()

	for i := range pending {
		if _, err := dst.PendingByEmail(pending[i].Email); err == nil {
			skipped++
			continue
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}

		if err := dst.SavePending(&pending[i]); err != nil {
			return err
		}
		copied++
	}

	zap.L().Info("Copied pending verifications", zap.Int("copied", copied), zap.Int("skipped", skipped))

	if err := copyCatalog(src, dst); err != nil {
		return err
	}

	return copyFavorites(src, dst)
}

// copyCatalog seeds categories and products. Products are only seeded when
// the destination table is still empty, matching how the original deployment
// bootstrapped its catalog.
func copyCatalog(src *FileStore, dst *Relational) error {
	cats, err := src.Categories()
	if err != nil {
		return err
	}

	existing, err := dst.Categories()
	if err != nil {
		return err
	}

	have := make(map[string]bool, len(existing))
	for _, c := range existing {
		have[c.ID] = true
	}

	for i := range cats {
		if have[cats[i].ID] {
			continue
		}

		if err := dst.CreateCategory(&cats[i]); err != nil && !errors.Is(err, ErrDuplicate) {
			return err
		}
	}

	counts, err := dst.Counts()
	if err != nil {
		return err
	}

	if counts.Products > 0 {
		zap.L().Info("Products table already has data, skipping product seed")
		return nil
	}

	products, err := src.Products(true)
	if err != nil {
		return err
	}

	for i := range products {
		if err := dst.CreateProduct(&products[i]); err != nil {
			return err
		}
	}

	zap.L().Info("Seeded products", zap.Int("copied", len(products)))
	return nil
}

func copyFavorites(src *FileStore, dst *Relational) error {
	src.mu.Lock()
	favs := make([]model.Favorite, len(src.favorites))
	copy(favs, src.favorites)
	src.mu.Unlock()

	// AddFavorite is existence-checked by the unique pair index, so
	// re-runs are no-ops
	for _, fav := range favs {
		if err := dst.AddFavorite(fav.UserID, fav.ProductID); err != nil {
			return err
		}
	}

	zap.L().Info("Copied favorites", zap.Int("count", len(favs)))
	return nil
}
