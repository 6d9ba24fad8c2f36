package main

import (
	"github.com/sirupsen/logrus"

	"vehicle-dismantling/backend/internal/api"
	"vehicle-dismantling/backend/internal/config"
)

func main() {
	cfg := config.Load()
	logrus.SetLevel(cfg.LogLevel)

	server, err := api.NewServer(api.Config{
		DBPath:         cfg.DBPath,
		SilentDB:       cfg.SilentDB,
		LogosDir:       cfg.LogosDir,
		AllowedOrigins: cfg.AllowedOrigins,
		Decision:       cfg.Decision,
		RestoreLatest:  cfg.RestoreLatest,
	})
	if err != nil {
		logrus.Fatalf("create server: %v", err)
	}
	defer func() {
		if cerr := server.Close(); cerr != nil {
			logrus.WithError(cerr).Warn("close database")
		}
	}()

	router, err := server.Router()
	if err != nil {
		logrus.Fatalf("configure router: %v", err)
	}

	logrus.Infof("starting vehicle dismantling backend on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logrus.Fatalf("server exited: %v", err)
	}
}
