package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tommasoguidi/doctori.github.io/internal/cache"
	"github.com/tommasoguidi/doctori.github.io/internal/club"
	"github.com/tommasoguidi/doctori.github.io/internal/config"
	"github.com/tommasoguidi/doctori.github.io/internal/notify"
	"github.com/tommasoguidi/doctori.github.io/internal/server"
	"github.com/tommasoguidi/doctori.github.io/internal/sheets"
	"github.com/tommasoguidi/doctori.github.io/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		logger.New("info").Fatalf("config: %v", err)
	}
	log := logger.New(cfg.LogLevel)

	ctx := context.Background()
	sheetsClient, err := sheets.New(ctx, cfg.GoogleServiceAccountJSON, cfg.SpreadsheetID)
	if err != nil {
		log.Fatalf("sheets: %v", err)
	}

	var announcer club.Announcer
	if cfg.TelegramToken != "" && cfg.TelegramChatID != "" {
		tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Fatalf("telegram: %v", err)
		}
		announcer = tg
		log.Info("annunci Telegram attivi")
	}

	svc := club.New(cfg, sheetsClient, cache.New(), log, announcer)
	httpSrv := server.New(cfg, svc, log)

	go func() {
		log.Infof("HTTP in ascolto su %s", cfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("arresto in corso...")

	ctxTimeout, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(ctxTimeout)

	log.Info("bye")
}
