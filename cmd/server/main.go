package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/progitek/parabellum/config"
	"github.com/progitek/parabellum/handlers"
	"github.com/progitek/parabellum/logger"
	"github.com/progitek/parabellum/mailer"
	"github.com/progitek/parabellum/middleware"
	"github.com/progitek/parabellum/repository"
	"github.com/progitek/parabellum/service"
	"github.com/progitek/parabellum/supabase"
)

func main() {
	// .env is optional; real deployments use environment variables.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zlog.Sync() //nolint:errcheck

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.NewDB(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := repository.Migrate(cfg.Database.URL); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	zlog.Info("database ready")

	sb, err := supabase.New(supabase.Config{
		URL:        cfg.Supabase.URL,
		ServiceKey: cfg.Supabase.ServiceKey,
		Timeout:    cfg.Supabase.Timeout,
	})
	if err != nil {
		return fmt.Errorf("supabase client: %w", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	clientRepo := repository.NewClientRepository(db)
	technicienRepo := repository.NewTechnicienRepository(db)
	missionRepo := repository.NewMissionRepository(db)
	interventionRepo := repository.NewInterventionRepository(db)
	reportRepo := repository.NewReportRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)
	notificationRepo := repository.NewNotificationRepository(sb)
	auditRepo := repository.NewAuditRepository(sb)

	// Services
	recorder := service.NewRecorder(auditRepo, zlog)
	mail := mailer.New(cfg.Email, zlog)
	authService := service.NewAuthService(userRepo, recorder, mail, cfg.JWT, cfg.Security.BCryptCost, zlog)
	reportService := service.NewReportService(reportRepo, zlog)

	h := &handlers.Handlers{
		Health:        handlers.NewHealthHandler(),
		Auth:          handlers.NewAuthHandler(authService, userRepo, recorder),
		Users:         handlers.NewUserHandler(userRepo, authService, recorder),
		Clients:       handlers.NewClientHandler(clientRepo, recorder),
		Techniciens:   handlers.NewTechnicienHandler(technicienRepo, recorder),
		Missions:      handlers.NewMissionHandler(missionRepo, clientRepo, recorder),
		Interventions: handlers.NewInterventionHandler(interventionRepo, missionRepo, technicienRepo, recorder),
		Notifications: handlers.NewNotificationHandler(notificationRepo, userRepo),
		Reports:       handlers.NewReportHandler(reportService),
		Audit:         handlers.NewAuditHandler(auditRepo),
		Dashboard:     handlers.NewDashboardHandler(dashboardRepo),
	}

	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	rl := middleware.NewRateLimiter(cfg.Security.RateLimitRequests, cfg.Security.RateLimitWindow)
	r.Use(rl.Handler())

	handlers.RegisterRoutes(r, h, userRepo, cfg.JWT.Secret, zlog)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		zlog.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zlog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
