// Package app wires every endpoint to its handler
package app

import (
	"fmt"
	"time"

	"ismartshop/shop-api/app/admin"
	"ismartshop/shop-api/app/auth"
	"ismartshop/shop-api/app/category"
	"ismartshop/shop-api/app/favorite"
	"ismartshop/shop-api/app/product"
	"ismartshop/shop-api/app/root"
	"ismartshop/shop-api/internal"
	"ismartshop/shop-api/internal/service"
	"ismartshop/shop-api/internal/store"
	"ismartshop/shop-api/pkg/middleware"
	"ismartshop/shop-api/pkg/security"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	ginzap "github.com/gin-contrib/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var cacheStore = persist.NewMemoryStore(time.Minute)

func NewRouter() (*gin.Engine, error) {
	SetupLogger()

	d := &internal.Deps{}

	s, err := store.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage, %w", err)
	}

	d.Store = s
	d.Hasher = security.NewHasher()
	d.Hasher.ForceLegacy = viper.GetBool("security.legacy_hash")
	d.Sessions = security.NewSessions(viper.GetString("jwt.secret"))
	d.Reg = &service.Registration{
		Store:  s,
		Hasher: d.Hasher,
		Mailer: service.NewMailer(),
	}
	d.Favorites = &service.Favorites{Store: s}

	router := gin.New()

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     viper.GetStringSlice("host.cors"),
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "TurnstileToken"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("requestID", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true

	jwt := middleware.NewAuthMiddleware(d.Sessions)
	adminOnly := middleware.AdminOnly()
	turnstile := middleware.NewTurnstileMiddleware()
	rateLimit := viper.GetInt("security.rate_limit")
	rateLimiter := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: rateLimit,
		Burst:             rateLimit * 2,
	})

	a := router.Group("/auth", rateLimiter, middleware.NoStore(), middleware.BodySizeLimiter(1<<20))
	{
		// POST /auth/register		-> Stores a pending registration and mails its code
		a.POST("/register", turnstile, func(c *gin.Context) { auth.Register(c, d) })

		// POST /auth/verify		-> Redeems a code, promoting the registration to a user
		a.POST("/verify", func(c *gin.Context) { auth.Verify(c, d) })

		// POST /auth/resend		-> Rotates and re-sends the code
		a.POST("/resend", func(c *gin.Context) { auth.Resend(c, d) })

		// POST /auth/login 		-> Checks credentials and issues a session token
		a.POST("/login", func(c *gin.Context) { auth.Login(c, d) })

		// POST /auth/admin-login	-> Operator login from config credentials
		a.POST("/admin-login", func(c *gin.Context) { auth.AdminLogin(c, d) })

		// POST /auth/logout		-> Clears the session cookie
		a.POST("/logout", func(c *gin.Context) { auth.Logout(c, d) })

		// GET /auth/me			-> Current user, or null when anonymous
		a.GET("/me", func(c *gin.Context) { auth.Me(c, d) })
	}

	m := router.Group("/api", rateLimiter)
	{
		// GET /api/health		-> Used to check if the server is alive
		m.GET("/health", root.Health)
	}

	p := m.Group("/products", middleware.BodySizeLimiter(1<<20))
	{
		// GET /api/products		-> Approved products, ?all=1 for admins.
		// Not cached: the admin variant must never leak into the shared cache
		p.GET("", func(c *gin.Context) { product.List(c, d) })

		// GET /api/products/moderation	-> Products awaiting a decision
		p.GET("/moderation", jwt, adminOnly, func(c *gin.Context) { product.Moderation(c, d) })

		// GET /api/products/:id	-> A single product
		p.GET("/:id", cacheFor(15), func(c *gin.Context) { product.Fetch(c, d) })

		// POST /api/products		-> Creates a product owned by the caller
		p.POST("", jwt, func(c *gin.Context) { product.Create(c, d) })

		// PUT /api/products/:id	-> Edits a product (owner or admin)
		p.PUT("/:id", jwt, func(c *gin.Context) { product.Edit(c, d) })

		// DELETE /api/products/:id	-> Deletes a product (owner or admin)
		p.DELETE("/:id", jwt, func(c *gin.Context) { product.Delete(c, d) })

		// POST /api/products/:id/approve -> Approves a pending product
		p.POST("/:id/approve", jwt, adminOnly, func(c *gin.Context) { product.Approve(c, d) })

		// POST /api/products/:id/reject -> Rejects a pending product
		p.POST("/:id/reject", jwt, adminOnly, func(c *gin.Context) { product.Reject(c, d) })
	}

	ct := m.Group("/categories", middleware.BodySizeLimiter(1<<20))
	{
		// GET /api/categories		-> All categories
		ct.GET("", cacheFor(30), func(c *gin.Context) { category.List(c, d) })

		// POST /api/categories		-> Creates a category
		ct.POST("", jwt, adminOnly, func(c *gin.Context) { category.Create(c, d) })

		// DELETE /api/categories/:id	-> Deletes a category and its products
		ct.DELETE("/:id", jwt, adminOnly, func(c *gin.Context) { category.Delete(c, d) })
	}

	f := m.Group("/favorites", middleware.BodySizeLimiter(1<<20))
	{
		// GET /api/favorites		-> The caller's server-side favorite set
		f.GET("", jwt, func(c *gin.Context) { favorite.List(c, d) })

		// POST /api/favorites		-> Adds a favorite (idempotent)
		f.POST("", jwt, func(c *gin.Context) { favorite.Add(c, d) })

		// DELETE /api/favorites/:id	-> Removes a favorite
		f.DELETE("/:id", jwt, func(c *gin.Context) { favorite.Remove(c, d) })

		// POST /api/favorites/toggle	-> Flips a product in the client set, anonymous OK
		f.POST("/toggle", func(c *gin.Context) { favorite.Toggle(c, d) })

		// POST /api/favorites/migrate	-> Pushes anonymous picks into the server set
		f.POST("/migrate", jwt, func(c *gin.Context) { favorite.Migrate(c, d) })
	}

	ad := m.Group("/admin", jwt, adminOnly)
	{
		// GET /api/admin/stats		-> Record counts for the dashboard
		ad.GET("/stats", func(c *gin.Context) { admin.Stats(c, d) })

		// POST /api/admin/users/:id/promote -> Grants the admin role
		ad.POST("/users/:id/promote", func(c *gin.Context) { admin.Promote(c, d) })

		// DELETE /api/admin/users/:id	-> Deletes an account and its favorites
		ad.DELETE("/users/:id", func(c *gin.Context) { admin.UserDelete(c, d) })
	}

	return router, nil
}

// SetupLogger replaces the global zap logger with the colored development
// logger at app.log_level. Exported so one-shot jobs that never build a
// router still log.
func SetupLogger() {
	cfg := zap.NewDevelopmentConfig()

	var lvl zapcore.Level
	if err := lvl.Set(viper.GetString("app.log_level")); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(cacheStore, time.Second*time.Duration(sec))
}
