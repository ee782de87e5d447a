package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"admithub/internal/app"
	"admithub/internal/config"
	"admithub/internal/database"
	apphttp "admithub/internal/http"
	"admithub/internal/http/handlers"
	"admithub/internal/http/metrics"
	httpmw "admithub/internal/http/middleware"
	"admithub/internal/integration/mailer"
	"admithub/internal/observability"
	"admithub/internal/repository/postgres"
	"admithub/internal/security"
)

func main() {
	cfg := config.Load()
	logger := observability.NewLogger()
	db := database.NewPostgres(database.PostgresConfig{
		DSN:             cfg.PostgresDSN,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxIdle:     cfg.DBConnMaxIdle,
		ConnMaxLifetime: cfg.DBConnMaxLife,
	})
	defer db.Close()

	cfaRepo := postgres.NewCFARepository(db)
	stageRepo := postgres.NewStageRepository(db)
	applicantRepo := postgres.NewApplicantRepository(db)
	programmeRepo := postgres.NewProgrammeRepository(db)
	formRepo := postgres.NewFormRepository(db)
	userRepo := postgres.NewUserRepository(db)
	enrollmentRepo := postgres.NewEnrollmentRepository(db)
	tokenRepo := postgres.NewTokenRepository(db)
	auditRepo := postgres.NewAuditRepository(db)
	txRunner := postgres.NewTxRunner(db)

	tokenProvider := security.NewTokenProvider(cfg.JWTSecret)
	mailClient := mailer.NewClient(cfg.MailerBaseURL, cfg.MailerInternalKey, &http.Client{Timeout: 5 * time.Second})

	accountService := app.NewAccountService(userRepo, enrollmentRepo, tokenRepo, auditRepo, mailClient, cfg.TempPassword, cfg.AppBaseURL, cfg.InviteTokenTTL)
	cfaService := app.NewCFAService(cfaRepo, stageRepo, programmeRepo, formRepo, auditRepo, txRunner)
	stageService := app.NewStageService(cfaRepo, stageRepo, applicantRepo)
	transitionService := app.NewTransitionService(applicantRepo, stageRepo, auditRepo, mailClient, txRunner, logger)
	approvalService := app.NewApprovalService(applicantRepo, cfaRepo, programmeRepo, userRepo, accountService, auditRepo, mailClient, txRunner, logger)

	var limiter httpmw.Limiter
	if cfg.RedisAddr != "" {
		limiter = httpmw.NewRedisLimiter(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	} else {
		limiter = httpmw.NewRateLimiter()
	}

	cfaHandler := handlers.NewCFAHandler(cfaService, stageService)
	applicantHandler := handlers.NewApplicantHandler(transitionService, approvalService, stageService, applicantRepo, limiter)
	middleware := httpmw.NewAuthMiddleware(tokenProvider)
	collector := metrics.NewCollector()

	router := apphttp.NewRouter(apphttp.RouterDependencies{
		CFAHandler:       cfaHandler,
		ApplicantHandler: applicantHandler,
		AuthMiddleware:   middleware,
		Metrics:          collector,
		RequestTimeout:   cfg.RequestTimeout,
	})
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("API started on :" + cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
