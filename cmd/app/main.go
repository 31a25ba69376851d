package main

import (
	"croisiere/config"
	"croisiere/di"
	"croisiere/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	http := di.InitializeService()
	http.Serve()
}
