package testtool

import (
	"net/http"
	_ "net/http/pprof" // 匯入後會自動註冊 pprof endpoint

	"todo_realtime_service/pkg/config"
	"todo_realtime_service/pkg/logger"

	"go.uber.org/zap"
)

// StartPprof start the pprof server on :6060 outside production
func StartPprof(enabled bool) {
	if !enabled || config.IsProduction() {
		logger.Log.Info("pprof is disabled")
		return
	}

	go func() {
		logger.Log.Info("Starting pprof server on :6060")
		if err := http.ListenAndServe(":6060", nil); err != nil {
			logger.Log.Error("pprof server failed", zap.Error(err))
		}
	}()
}
