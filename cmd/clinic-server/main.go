package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/clinica/clinica/internal/config"
	"github.com/clinica/clinica/internal/domain/admin"
	"github.com/clinica/clinica/internal/domain/billing"
	"github.com/clinica/clinica/internal/domain/identity"
	"github.com/clinica/clinica/internal/domain/scheduling"
	"github.com/clinica/clinica/internal/platform/auth"
	"github.com/clinica/clinica/internal/platform/db"
	"github.com/clinica/clinica/internal/platform/middleware"
)

// appointmentDirectory adapts the scheduling repository to the
// billing.AppointmentDirectory interface, avoiding a circular import
// between the two domains.
type appointmentDirectory struct {
	repo scheduling.AppointmentRepository
}

func (d *appointmentDirectory) Exists(ctx context.Context, id, establishmentID uuid.UUID) (bool, error) {
	_, err := d.repo.GetByID(ctx, id, establishmentID)
	if errors.Is(err, scheduling.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-server",
		Short: "Clinic administration API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(establishmentCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the clinic API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func establishmentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "establishment",
		Short: "Manage establishments",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new establishment",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			if name == "" {
				return fmt.Errorf("--name is required")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			svc := admin.NewService(admin.NewEstablishmentRepoPG(pool), admin.NewStaffUserRepoPG(pool))
			e := &admin.Establishment{Name: name}
			if err := svc.CreateEstablishment(ctx, e); err != nil {
				return err
			}
			fmt.Printf("Establishment created: %s\n", e.ID)
			return nil
		},
	}
	createCmd.Flags().String("name", "", "Establishment name")

	cmd.AddCommand(createCmd)
	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID", "X-Establishment-ID"},
	}))

	// Health check stays outside the authenticated groups so probes work
	// without a token or tenant.
	e.GET("/health", db.HealthHandler(pool))

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}

	var authMw echo.MiddlewareFunc
	if cfg.IsDev() {
		authMw = auth.DevAuthMiddleware()
	} else {
		authMw = auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			Audience:   cfg.AuthAudience,
			JWKSURL:    cfg.AuthJWKSURL,
			SigningKey: []byte(cfg.AuthSigningKey),
		})
	}

	// Login group: establishment-scoped and rate limited, but no token yet.
	authGroup := e.Group("/api/v1/auth")
	authGroup.Use(db.EstablishmentMiddleware(cfg.DefaultEstablishmentID))
	authGroup.Use(middleware.RateLimit(rateLimitCfg))

	// API group
	apiV1 := e.Group("/api/v1")
	apiV1.Use(authMw)
	apiV1.Use(db.EstablishmentMiddleware(cfg.DefaultEstablishmentID))
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	// Repositories
	establishmentRepo := admin.NewEstablishmentRepoPG(pool)
	staffRepo := admin.NewStaffUserRepoPG(pool)
	patientRepo := identity.NewPatientRepoPG(pool)
	professionalRepo := identity.NewProfessionalRepoPG(pool)
	appointmentRepo := scheduling.NewAppointmentRepoPG(pool)
	tariffRepo := billing.NewTariffRepoPG(pool)
	procedureRepo := billing.NewProcedureRepoPG(pool)

	// Services
	adminSvc := admin.NewService(establishmentRepo, staffRepo)
	identitySvc := identity.NewService(patientRepo, professionalRepo)
	schedulingSvc := scheduling.NewService(appointmentRepo, patientRepo, professionalRepo).
		WithTxRunner(func(ctx context.Context, fn func(ctx context.Context) error) error {
			return db.WithTx(ctx, pool, fn)
		})
	billingSvc := billing.NewService(tariffRepo, procedureRepo, &appointmentDirectory{repo: appointmentRepo})

	// Handlers
	admin.NewAuthHandler(adminSvc, []byte(cfg.AuthSigningKey), cfg.AuthIssuer, logger).RegisterRoutes(authGroup)
	admin.NewHandler(adminSvc, logger).RegisterRoutes(apiV1)
	identity.NewHandler(identitySvc, logger).RegisterRoutes(apiV1)
	scheduling.NewHandler(schedulingSvc, logger).RegisterRoutes(apiV1)
	billing.NewHandler(billingSvc, logger).RegisterRoutes(apiV1)

	// Start server with graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
		return err
	}

	logger.Info().Msg("server stopped")
	return nil
}
