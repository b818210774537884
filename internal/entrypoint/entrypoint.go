package entrypoint

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

	"github.com/mrlokans/registrar/internal/audit"
	"github.com/mrlokans/registrar/internal/auth"
	"github.com/mrlokans/registrar/internal/config"
	"github.com/mrlokans/registrar/internal/database"
	dbaudit "github.com/mrlokans/registrar/internal/database/audit"
	"github.com/mrlokans/registrar/internal/database/courses"
	"github.com/mrlokans/registrar/internal/database/enrolments"
	"github.com/mrlokans/registrar/internal/database/students"
	"github.com/mrlokans/registrar/internal/database/users"
	http_controllers "github.com/mrlokans/registrar/internal/http"
	"github.com/mrlokans/registrar/internal/scheduler"
	"github.com/mrlokans/registrar/internal/services"
	"github.com/mrlokans/registrar/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop accepting requests before background workers go away
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server Shutdown: %v", err)
	}

	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
}

// Build opens the database and wires every component into a router.
// The returned ShutdownFunc stops background work and closes the database.
func Build(cfg *config.Config, version string) (*gin.Engine, ShutdownFunc, error) {
	if cfg.HTTP.GinMode != "" {
		gin.SetMode(cfg.HTTP.GinMode)
	}

	db, err := database.Open(cfg.Database.Path, database.Options{
		LogLevel: database.ParseLogLevel(cfg.Database.LogLevel),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	var cleanups []func(ctx context.Context)
	closeAll := func(ctx context.Context) {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i](ctx)
		}
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}
	fail := func(err error) (*gin.Engine, ShutdownFunc, error) {
		closeAll(context.Background())
		return nil, nil, err
	}

	studentRepo := students.NewRepository(db.DB)
	courseRepo := courses.NewRepository(db.DB)
	enrolmentRepo := enrolments.NewRepository(db.DB)

	// The audit service always backs the retention task; recording is optional.
	auditService := audit.NewService(dbaudit.NewRepository(db.DB))
	cleanups = append(cleanups, func(context.Context) { auditService.Wait() })

	var auditor services.Auditor
	var authAuditor auth.Auditor
	var exportAuditor http_controllers.ExportAuditor
	var auditReader http_controllers.AuditReader
	var reporter tasks.Reporter
	if cfg.Audit.Enabled {
		auditor = auditService
		authAuditor = auditService
		exportAuditor = auditService
		auditReader = auditService
		reporter = auditService
	} else {
		log.Printf("Audit log disabled")
	}

	studentService := services.NewStudentService(studentRepo, auditor)
	courseService := services.NewCourseService(courseRepo, auditor)
	enrolmentService := services.NewEnrolmentService(studentRepo, courseRepo, enrolmentRepo, auditor)

	routerCfg := http_controllers.RouterConfig{
		Students:      studentService,
		Courses:       courseService,
		Enrolments:    enrolmentService,
		Database:      db,
		Version:       version,
		AuditReader:   auditReader,
		ExportAuditor: exportAuditor,
		RetentionDays: cfg.Audit.RetentionDays,
	}

	// Initialize task queue if enabled
	if cfg.Tasks.Enabled {
		taskClient, err := tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		})
		if err != nil {
			return fail(fmt.Errorf("failed to initialize task queue: %w", err))
		}

		taskClient.Register(
			tasks.NewCleanupAuditEventsQueue(auditService, reporter),
			tasks.NewCleanupOrphanEnrolmentsQueue(enrolmentService, reporter),
		)
		cleanups = append(cleanups, func(context.Context) {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		})
		routerCfg.TaskQueue = taskClient

		if cfg.Maintenance.Enabled {
			maintenance := scheduler.NewMaintenanceScheduler(taskClient, cfg.Maintenance.Schedule, cfg.Audit.RetentionDays)
			if err := maintenance.Start(context.Background()); err != nil {
				return fail(err)
			}
			cleanups = append(cleanups, func(context.Context) { maintenance.Stop() })
			routerCfg.Maintenance = maintenance
		}

		// Workers start after every step that can fail
		taskCtx, taskCancel := context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
		cleanups = append(cleanups, func(ctx context.Context) {
			taskClient.Stop(ctx)
			taskCancel()
		})
	} else if cfg.Maintenance.Enabled {
		log.Printf("WARNING: maintenance schedule ignored because the task queue is disabled")
	}

	// Initialize authentication if enabled
	switch cfg.Auth.Mode {
	case config.AuthModeLocal:
		log.Printf("Authentication mode: local")

		authService := auth.NewService(users.NewRepository(db.DB), cfg.Auth)

		sqlDB, err := db.DB.DB()
		if err != nil {
			return fail(fmt.Errorf("failed to get SQL DB for sessions: %w", err))
		}
		sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
		if err != nil {
			return fail(fmt.Errorf("failed to initialize session manager: %w", err))
		}
		cleanups = append(cleanups, func(context.Context) { sessionManager.Close() })

		if cfg.Auth.SessionSecret == "" {
			log.Printf("Generated CSRF key (set AUTH_SESSION_SECRET to persist)")
		}
		csrfKey, err := auth.CSRFKey(cfg.Auth.SessionSecret)
		if err != nil {
			return fail(fmt.Errorf("failed to derive CSRF key: %w", err))
		}

		authController := auth.NewAuthController(authService, sessionManager, cfg.Auth, authAuditor)
		cleanups = append(cleanups, func(context.Context) { authController.Stop() })

		routerCfg.AuthMiddleware = auth.NewMiddleware(authService, sessionManager, cfg.Auth)
		routerCfg.AuthController = authController
		routerCfg.SessionManager = sessionManager
		routerCfg.CSRFKey = csrfKey
		routerCfg.SecureCookies = cfg.Auth.SecureCookies

		if hasUsers, _ := authService.HasUsers(); !hasUsers {
			log.Printf("No users found. POST /api/auth/setup or run 'create-user' to create an administrator.")
		}
	case config.AuthModeNone, "":
		log.Printf("Authentication mode: none (no authentication required)")
	default:
		return fail(fmt.Errorf("unknown AUTH_MODE %q", cfg.Auth.Mode))
	}

	return http_controllers.NewRouter(routerCfg), closeAll, nil
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Registrar v%s", version)

	router, shutdown, err := Build(cfg, version)
	if err != nil {
		log.Fatalf("%v", err)
	}

	Serve(router, cfg, shutdown)
}
