package service

import (
	"errors"
	"slices"

	"ismartshop/shop-api/internal/store"

	"go.uber.org/zap"
)

// Favorites reconciles the client-held favorite set with the server's. An
// anonymous visitor only has the client set; once a session exists the
// server set is the source of truth and the client copy trails it.
type Favorites struct {
	Store store.Store
}

// Toggle flips productID in the client set and returns the new set. The
// client-side flip always happens first so the UI stays responsive; when a
// user is attached the matching server add/remove runs too, and a server
// failure is logged rather than rolled back. The two sets converge on the
// next Pull.
func (f *Favorites) Toggle(userID string, clientSet []string, productID string) []string {
	added := true

	if i := slices.Index(clientSet, productID); i >= 0 {
		clientSet = slices.Delete(clientSet, i, i+1)
		added = false
	} else {
		clientSet = append(clientSet, productID)
	}

	if userID == "" {
		return clientSet
	}

	var err error
	if added {
		err = f.Store.AddFavorite(userID, productID)
	} else {
		err = f.Store.RemoveFavorite(userID, productID)
	}

	if err != nil {
		zap.L().Warn("Favorite sync failed, client and server sets will reconcile on next pull",
			zap.String("productID", productID),
			zap.Error(err))
	}

	return clientSet
}

// Migrate pushes every anonymous pick to the server set, then pulls the
// server set back as the new client truth. Push-before-pull is deliberate:
// it keeps a second device's anonymous picks from silently vanishing, while
// products that no longer exist are dropped on the way.
func (f *Favorites) Migrate(userID string, clientSet []string) ([]string, error) {
	for _, productID := range clientSet {
		if _, err := f.Store.ProductByID(productID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				// Stale pick, the product was deleted since
				continue
			}

			return nil, err
		}

		if err := f.Store.AddFavorite(userID, productID); err != nil {
			return nil, err
		}
	}

	return f.Pull(userID)
}

// Pull returns the server set, the reconciliation point after login.
func (f *Favorites) Pull(userID string) ([]string, error) {
	ids, err := f.Store.Favorites(userID)
	if err != nil {
		return nil, err
	}

	if ids == nil {
		ids = []string{}
	}

	return ids, nil
}
