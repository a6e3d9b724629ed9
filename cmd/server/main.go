package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookshop/internal/app"
	"bookshop/internal/config"
	"bookshop/internal/mail"
	"bookshop/internal/ratelimit"
	"bookshop/internal/server"
	"bookshop/internal/store"
	"bookshop/internal/util"
	"bookshop/pkg/auth"
	"bookshop/pkg/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the yaml configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger := util.InitLogger(cfg.LogLevel)

	st, err := store.NewGormStore(cfg.DatabaseURL)
	if err != nil {
		logger.Error("open store", "error", err)
		os.Exit(1)
	}

	tokens, err := auth.NewTokens(cfg.JWTSecret, auth.TokenOptions{TTL: cfg.SessionTTL})
	if err != nil {
		logger.Error("init session tokens", "error", err)
		os.Exit(1)
	}

	var mailer mail.Mailer
	if cfg.SMTPConfigured() {
		mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	} else {
		logger.Warn("smtp not configured, reset mails are logged only")
		mailer = mail.NewLogMailer(logger)
	}

	application, err := app.New(app.Config{
		Store:       st,
		Tokens:      tokens,
		Mailer:      mailer,
		Logger:      logger,
		FrontendURL: cfg.FrontendURL,
	})
	if err != nil {
		logger.Error("init app", "error", err)
		os.Exit(1)
	}

	var limiter server.Limiter
	if cfg.AuthRateLimit > 0 {
		l, err := ratelimit.NewRedisFixedWindowLimiter(
			cfg.RedisAddr, cfg.RedisPassword, "bookshop:auth",
			cfg.AuthRateLimit, cfg.AuthRateWindow,
		)
		if err != nil {
			logger.Error("init rate limiter", "error", err)
			os.Exit(1)
		}
		limiter = l
	}

	var uploads storage.ObjectStore
	if cfg.MinioConfigured() {
		uploads, err = storage.NewMinioStore(
			cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey,
			cfg.Minio.Bucket, cfg.Minio.UseSSL,
		)
		if err != nil {
			logger.Error("init object store", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Warn("minio not configured, image uploads are disabled")
	}

	srv, err := server.New(server.Config{
		App:               application,
		Logger:            logger,
		AuthLimiter:       limiter,
		Uploads:           uploads,
		MaxUploadBytes:    cfg.MaxUploadBytes,
		AllowedExtensions: cfg.AllowedExtensions,
		RequestTimeout:    cfg.RequestTimeout,
	})
	if err != nil {
		logger.Error("init server", "error", err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      srv.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("serve", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}
