package main

import (
	"gatepass/config"
	"gatepass/di"
	"gatepass/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	http := di.InitializeService()
	http.Serve()
}
