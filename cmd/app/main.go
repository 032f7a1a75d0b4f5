package main

import (
	"hostel/config"
	"hostel/di"
	"hostel/shared/logger"
	"hostel/shared/timezone"
)

// @title Hostel Desk API
// @version 1.0
// @description Front-desk booking, payment and check-in orchestration over the hostel backend.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)
	logger.UseJSON(cfg)

	timezone.Init(cfg.App.Timezone)

	http := di.InitializeService()
	http.Serve()
}
