package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"ismartshop/shop-api/internal/model"

	"go.uber.org/zap"
)

// FileStore keeps one human-readable JSON document per collection and
// rewrites the whole document on every mutation. The in-memory copy is the
// last-known-good state: when a write to disk fails the mutation still
// lands in memory and keeps being served, which is lossy across a restart
// and therefore logged loudly every time it happens.
type FileStore struct {
	dir string
	mu  sync.Mutex

	users      []model.User
	pending    []model.PendingVerification
	products   []model.Product
	categories []model.Category
	favorites  []model.Favorite
}

const (
	usersFile      = "users.json"
	pendingFile    = "pending.json"
	productsFile   = "products.json"
	categoriesFile = "categories.json"
	favoritesFile  = "favorites.json"
)

func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = "data"
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir, %w", err)
	}

	f := &FileStore{dir: dir}

	if err := loadColl(filepath.Join(dir, usersFile), &f.users); err != nil {
		return nil, err
	}
	if err := loadColl(filepath.Join(dir, pendingFile), &f.pending); err != nil {
		return nil, err
	}
	if err := loadColl(filepath.Join(dir, productsFile), &f.products); err != nil {
		return nil, err
	}
	if err := loadColl(filepath.Join(dir, categoriesFile), &f.categories); err != nil {
		return nil, err
	}
	if err := loadColl(filepath.Join(dir, favoritesFile), &f.favorites); err != nil {
		return nil, err
	}

	return f, nil
}

func loadColl(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return fmt.Errorf("failed to read %s, %w", path, err)
	}

	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("failed to parse %s, %w", path, err)
	}

	return nil
}

// flush writes a collection atomically: serialize to a temp file in the
// same directory, then rename over the real one. Readers never observe a
// half-written document.
func (f *FileStore) flush(name string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.dir, name+".tmp-*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), filepath.Join(f.dir, name))
}

// save is flush with degrade-to-cache semantics: on failure the in-memory
// state already holds the mutation, so we log and carry on serving it
func (f *FileStore) save(name string, v any) {
	if err := f.flush(name, v); err != nil {
		zap.L().Warn("Flat-file write failed, serving from in-memory cache; this update will be lost on restart",
			zap.String("collection", name),
			zap.Error(err))
	}
}

func (f *FileStore) UserByID(id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.users {
		if f.users[i].ID == id {
			u := f.users[i]
			return &u, nil
		}
	}

	return nil, ErrNotFound
}

func (f *FileStore) UserByEmail(email string) (*model.User, error) {
	email = normEmail(email)

	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.users {
		if normEmail(f.users[i].Email) == email {
			u := f.users[i]
			return &u, nil
		}
	}

	return nil, ErrNotFound
}

func (f *FileStore) CreateUser(u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.users = append(f.users, *u)
	f.save(usersFile, f.users)

	return nil
}

func (f *FileStore) DeleteUser(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	kept := f.users[:0:0]
	for _, u := range f.users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}

	if len(kept) == len(f.users) {
		return ErrNotFound
	}

	f.users = kept
	f.save(usersFile, f.users)

	keptFavs := f.favorites[:0:0]
	for _, fav := range f.favorites {
		if fav.UserID != id {
			keptFavs = append(keptFavs, fav)
		}
	}

	if len(keptFavs) != len(f.favorites) {
		f.favorites = keptFavs
		f.save(favoritesFile, f.favorites)
	}

	return nil
}

func (f *FileStore) Users() ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]model.User, len(f.users))
	copy(out, f.users)

	return out, nil
}

func (f *FileStore) SetUserRole(id, role string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.users {
		if f.users[i].ID == id {
			f.users[i].Role = role
			f.save(usersFile, f.users)
			return nil
		}
	}

	return ErrNotFound
}

func (f *FileStore) PendingByEmail(email string) (*model.PendingVerification, error) {
	email = normEmail(email)

	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.pending {
		if f.pending[i].Email == email {
			p := f.pending[i]
			return &p, nil
		}
	}

	return nil, ErrNotFound
}

func (f *FileStore) SavePending(p *model.PendingVerification) error {
	p.Email = normEmail(p.Email)

	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.pending {
		if f.pending[i].Email == p.Email {
			f.pending[i] = *p
			f.save(pendingFile, f.pending)
			return nil
		}
	}

	f.pending = append(f.pending, *p)
	f.save(pendingFile, f.pending)

	return nil
}

func (f *FileStore) PurgePendingBefore(cutoff time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	kept := f.pending[:0:0]
	for _, p := range f.pending {
		if !p.CreatedAt.Before(cutoff) {
			kept = append(kept, p)
		}
	}

	if len(kept) == len(f.pending) {
		return nil
	}

	f.pending = kept
	f.save(pendingFile, f.pending)

	return nil
}

// Promote appends the user and only removes the pending entry once the
// users document actually reached disk. A crash between the two writes
// leaves both records present, which is the one accepted inconsistency
// window of file mode.
func (f *FileStore) Promote(u *model.User, email string) error {
	email = normEmail(email)

	f.mu.Lock()
	defer f.mu.Unlock()

	f.users = append(f.users, *u)
	if err := f.flush(usersFile, f.users); err != nil {
		f.users = f.users[:len(f.users)-1]
		return err
	}

	kept := f.pending[:0:0]
	for _, p := range f.pending {
		if p.Email != email {
			kept = append(kept, p)
		}
	}

	f.pending = kept
	f.save(pendingFile, f.pending)

	return nil
}

func (f *FileStore) Products(includeUnapproved bool) ([]model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]model.Product, 0, len(f.products))
	for _, p := range f.products {
		if includeUnapproved || p.Status == model.StatusApproved {
			out = append(out, p)
		}
	}

	return out, nil
}

func (f *FileStore) ProductByID(id string) (*model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.products {
		if f.products[i].ID == id {
			p := f.products[i]
			return &p, nil
		}
	}

	return nil, ErrNotFound
}

func (f *FileStore) CreateProduct(p *model.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.products = append(f.products, *p)
	f.save(productsFile, f.products)

	return nil
}

func (f *FileStore) UpdateProduct(id string, changes map[string]any) (*model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.products {
		if f.products[i].ID != id {
			continue
		}

		applyProductChanges(&f.products[i], changes)
		f.save(productsFile, f.products)

		p := f.products[i]
		return &p, nil
	}

	return nil, ErrNotFound
}

// applyProductChanges mirrors the column map the relational backend feeds
// straight into gorm
func applyProductChanges(p *model.Product, changes map[string]any) {
	for k, v := range changes {
		switch k {
		case "title":
			if s, ok := v.(string); ok {
				p.Title = s
			}
		case "price":
			switch n := v.(type) {
			case float64:
				p.Price = n
			case int:
				p.Price = float64(n)
			}
		case "image":
			if s, ok := v.(string); ok {
				p.Image = s
			}
		case "category":
			if s, ok := v.(string); ok {
				p.Category = s
			}
		case "description":
			if s, ok := v.(string); ok {
				p.Description = s
			}
		case "colors":
			if cs, ok := v.(model.StringSlice); ok {
				p.Colors = cs
			}
		case "status":
			if s, ok := v.(string); ok {
				p.Status = s
			}
		}
	}
}

func (f *FileStore) DeleteProduct(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	kept := f.products[:0:0]
	for _, p := range f.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}

	if len(kept) == len(f.products) {
		return ErrNotFound
	}

	f.products = kept
	f.save(productsFile, f.products)

	keptFavs := f.favorites[:0:0]
	for _, fav := range f.favorites {
		if fav.ProductID != id {
			keptFavs = append(keptFavs, fav)
		}
	}

	if len(keptFavs) != len(f.favorites) {
		f.favorites = keptFavs
		f.save(favoritesFile, f.favorites)
	}

	return nil
}

func (f *FileStore) Categories() ([]model.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]model.Category, len(f.categories))
	copy(out, f.categories)

	return out, nil
}

func (f *FileStore) CreateCategory(ct *model.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, c := range f.categories {
		if strings.EqualFold(c.Name, ct.Name) {
			return ErrDuplicate
		}
	}

	f.categories = append(f.categories, *ct)
	f.save(categoriesFile, f.categories)

	return nil
}

func (f *FileStore) DeleteCategory(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	kept := f.categories[:0:0]
	for _, c := range f.categories {
		if c.ID != id {
			kept = append(kept, c)
		}
	}

	if len(kept) == len(f.categories) {
		return ErrNotFound
	}

	f.categories = kept
	f.save(categoriesFile, f.categories)

	keptProducts := f.products[:0:0]
	for _, p := range f.products {
		if p.Category != id {
			keptProducts = append(keptProducts, p)
		}
	}

	if len(keptProducts) != len(f.products) {
		f.products = keptProducts
		f.save(productsFile, f.products)
	}

	return nil
}

func (f *FileStore) Favorites(userID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var ids []string
	for _, fav := range f.favorites {
		if fav.UserID == userID {
			ids = append(ids, fav.ProductID)
		}
	}

	return ids, nil
}

func (f *FileStore) AddFavorite(userID, productID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, fav := range f.favorites {
		if fav.UserID == userID && fav.ProductID == productID {
			return nil
		}
	}

	f.favorites = append(f.favorites, model.Favorite{
		UserID:    userID,
		ProductID: productID,
		CreatedAt: time.Now(),
	})
	f.save(favoritesFile, f.favorites)

	return nil
}

func (f *FileStore) RemoveFavorite(userID, productID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	kept := f.favorites[:0:0]
	for _, fav := range f.favorites {
		if fav.UserID != userID || fav.ProductID != productID {
			kept = append(kept, fav)
		}
	}

	if len(kept) == len(f.favorites) {
		return nil
	}

	f.favorites = kept
	f.save(favoritesFile, f.favorites)

	return nil
}

func (f *FileStore) Counts() (Counts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return Counts{
		Users:     int64(len(f.users)),
		Products:  int64(len(f.products)),
		Favorites: int64(len(f.favorites)),
		Pending:   int64(len(f.pending)),
	}, nil
}
