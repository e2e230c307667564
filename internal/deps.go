package internal

import (
	"ismartshop/shop-api/internal/service"
	"ismartshop/shop-api/internal/store"
	"ismartshop/shop-api/pkg/security"
)

// Deps carries everything handlers need. Built once in the router and
// passed down, never global.
type Deps struct {
	Store     store.Store
	Hasher    *security.Hasher
	Sessions  *security.Sessions
	Reg       *service.Registration
	Favorites *service.Favorites
}
