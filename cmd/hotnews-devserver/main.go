package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/abelbrown/hotnews/internal/config"
	"github.com/abelbrown/hotnews/internal/devserver"
	"github.com/abelbrown/hotnews/internal/logging"
)

func main() {
	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		log.Fatal("load config", "err", err)
	}
	logging.InitWriter(os.Stderr, cfg.LogLevel)

	catalog, err := devserver.LoadCatalog(cfg.DevServer.Fixture)
	if err != nil {
		log.Fatal("load catalog", "err", err)
	}

	r := gin.Default()
	srv := devserver.NewServer(catalog, devserver.NewLimiter(cfg.DevServer.RatePerSecond, cfg.DevServer.Burst))
	srv.RegisterRoutes(r)

	logging.Info("starting dev server", "addr", cfg.DevServer.Addr, "sources", len(catalog.Sources))
	if err := r.Run(cfg.DevServer.Addr); err != nil {
		log.Fatal("server exit", "err", err)
	}
}
