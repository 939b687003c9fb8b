// cmd/server/main.go
package main

import (
	"net/http"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/eatup-app/eatup/internal/auth"
	"github.com/eatup-app/eatup/internal/cache"
	"github.com/eatup-app/eatup/internal/catalog"
	"github.com/eatup-app/eatup/internal/config"
	"github.com/eatup-app/eatup/internal/database"
	"github.com/eatup-app/eatup/internal/handlers"
	"github.com/eatup-app/eatup/internal/spin"
)

func main() {
	logger := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	auth.Init(cfg.TokenExpireTime)
	database.ConnectDB(cfg.DatabaseURL())

	// Redis backs the spin ledger queue and the presence cache; the service
	// still runs without it, just with those features degraded.
	var recorder spin.Recorder
	if err := cache.ConnectRedis(cfg.RedisAddr, cfg.RedisDB); err != nil {
		logger.Warnf("redis unavailable, spins will not be queued: %v", err)
	} else {
		recorder = &cache.SpinQueue{}
	}

	offers := catalog.Seed(cfg.CatalogSeed)
	engine := spin.NewEngine(offers, recorder)
	engine.SetDelay(cfg.SpinDelay)

	srv := handlers.NewApiServer(logger, offers, engine)

	addr := ":" + cfg.Port
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, srv.Routes()); err != nil {
		logger.Fatalf("server exited: %v", err)
	}
}
