package main

import (
	"homefix/config"
	"homefix/di"
	"homefix/shared/logger"
)

// @title HomeFix Booking API
// @version 1.0
// @description Booking lifecycle, pricing and discount management for home appliance services.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	cfg := config.Get()

	logger.InitLogger(cfg)

	logger.SetLogLevel(cfg)

	http := di.InitializeService()
	http.Serve()
}
