package main

import (
	"fmt"

	"ismartshop/shop-api/app"
	"ismartshop/shop-api/config"
	"ismartshop/shop-api/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	gin.SetMode(gin.ReleaseMode)

	err := config.Setup()
	if err != nil {
		panic(err)
	}

	if *config.CopyForward {
		app.SetupLogger()

		if err := runCopyForward(); err != nil {
			panic(err)
		}
		return
	}

	router, err := app.NewRouter()
	if err != nil {
		panic(err)
	}

	zap.L().Info("Server starting", zap.Int("port", viper.GetInt("host.port")))

	err = router.Run(fmt.Sprintf(":%d", viper.GetInt("host.port")))
	if err != nil {
		panic(err)
	}
}

// runCopyForward moves flat-file records into the configured database and
// leaves the JSON files untouched as a backup
func runCopyForward() error {
	if viper.GetString("database.url") == "" {
		return fmt.Errorf("--copy-forward requires database.url to be configured")
	}

	src, err := store.NewFileStore(viper.GetString("data.dir"))
	if err != nil {
		return err
	}

	dst, err := store.New()
	if err != nil {
		return err
	}

	rel, ok := dst.(*store.Relational)
	if !ok {
		return fmt.Errorf("--copy-forward requires the relational store")
	}

	return store.CopyForward(src, rel)
}
