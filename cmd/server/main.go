// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tuanphong15032005/WebTruyen-sub000/internal/api"
	"github.com/tuanphong15032005/WebTruyen-sub000/internal/app"
	"github.com/tuanphong15032005/WebTruyen-sub000/internal/config"
	"github.com/tuanphong15032005/WebTruyen-sub000/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logFile := fmt.Sprintf("%s/server_%s.log", cfg.LogDir, time.Now().Format("2006-01-02"))
	if err := utils.InitLogger(logFile); err != nil {
		log.Fatalf("failed to initialize logging: %v", err)
	}
	logger := utils.GetLogger()
	if cfg.DebugMode {
		logger.SetLogLevel(utils.DEBUG)
	}

	if err := app.InitServices(cfg); err != nil {
		logger.Errorf("failed to initialize services: %v", err)
		os.Exit(1)
	}
	defer app.Cleanup()

	router, err := api.SetupRouter(cfg)
	if err != nil {
		logger.Errorf("failed to set up router: %v", err)
		os.Exit(1)
	}

	logger.Info("chapter draft service starting", map[string]interface{}{
		"port":    cfg.Port,
		"storage": cfg.StorageType,
	})

	runWithGracefulShutdown(router, cfg.Port)
}

func runWithGracefulShutdown(router *gin.Engine, port string) {
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.GetLogger().Info("shutting down", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
}
