package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"genesis-api/internal/config"
	"genesis-api/internal/email"
	apihttp "genesis-api/internal/http"
	"genesis-api/internal/service"
	"genesis-api/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := newLogger(cfg)
	defer logger.Sync()

	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("store connect", zap.Error(err), zap.String("driver", cfg.StoreDriver))
	}
	defer st.Close()

	configSvc := service.NewProjectConfigService(logger, st.ProjectConfig, !cfg.IsProduction())
	if err := configSvc.EnsureDefault(ctx); err != nil {
		logger.Fatal("seed project config", zap.Error(err))
	}

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory rate limits", zap.Error(err))
			_ = redisClient.Close()
			redisClient = nil
		}
		cancel()
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	if cfg.MockUsersEnabled {
		logger.Warn("mock users enabled")
	}

	jwtSvc := service.NewJWTService(cfg.JWTSecret, cfg.TokenTTL())
	authSvc := service.NewAuthService(logger, st.Users, newEmailSender(cfg, logger), jwtSvc, cfg.MockUsersEnabled)
	customerSvc := service.NewCustomerService(logger, st.Customers)
	postSvc := service.NewPostService(logger, st.Posts)

	handlers := apihttp.Handlers{
		Auth:      apihttp.NewAuthHandler(logger, authSvc, jwtSvc, cfg.IsProduction()),
		Config:    apihttp.NewConfigHandler(logger, configSvc),
		Customers: apihttp.NewCustomerHandler(logger, customerSvc),
		Posts:     apihttp.NewPostHandler(logger, postSvc),
		Health:    apihttp.NewHealthHandler(logger, st),
	}
	router := apihttp.NewRouter(logger, handlers, apihttp.NewAccessGuard(logger, jwtSvc, authSvc), newRateLimits(redisClient))

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           apihttp.WithCORS(router, cfg.CORSOrigins, !cfg.IsProduction()),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.HTTPPort), zap.String("env", cfg.AppEnv))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	return logger
}

// newEmailSender elige el driver de correo; si no se puede construir, deja uno deshabilitado.
func newEmailSender(cfg *config.Config, logger *zap.Logger) email.Sender {
	switch cfg.MailDriver {
	case config.MailResend:
		sender, err := email.NewResendSender(cfg.ResendBaseURL, cfg.ResendAPIKey, cfg.ResendFromEmail)
		if err != nil {
			logger.Warn("resend sender init failed", zap.Error(err))
			return email.NewDisabledSender("resend sender not configured")
		}
		return sender
	case config.MailSMTP:
		if cfg.SMTPHost == "" {
			logger.Warn("smtp host not configured, email disabled")
			return email.NewDisabledSender("email sender not configured")
		}
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
			return email.NewDisabledSender("smtp sender not configured")
		}
		return sender
	default:
		return email.NewDisabledSender("email disabled by configuration")
	}
}

// newRateLimits usa Redis si hay cliente; si no, ventanas en memoria por proceso.
// Las rutas sin limite propio reciben 10/min cada una.
func newRateLimits(client *redis.Client) apihttp.RateLimits {
	limiter := func(prefix string, max int) service.RateLimiter {
		if client != nil {
			return service.NewRedisRateLimiter(client, prefix, time.Minute, max)
		}
		return service.NewMemoryRateLimiter(time.Minute, max)
	}
	return apihttp.RateLimits{
		Global: func(route string) service.RateLimiter {
			return limiter("global:"+route, 10)
		},
		Register: limiter("register", 3),
		Login:    limiter("login", 5),
		Verify:   limiter("verify", 5),
	}
}
