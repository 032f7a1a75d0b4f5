package handler

import (
	"hostel/config"
	"hostel/di"
	"hostel/shared/logger"
	"hostel/shared/timezone"
	"net/http"
	"sync"
)

var (
	once    sync.Once
	handler http.Handler
)

// Handler is the serverless entry point. The service is built once per
// instance so the desk workspaces survive between invocations.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger()

		logger.SetLogLevel(cfg)
		logger.UseJSON(cfg)

		timezone.Init(cfg.App.Timezone)

		handler = di.InitializeService().Handler()
	})

	handler.ServeHTTP(w, r)
}
