package main

import (
	"context"
	"fmt"
	"log"
	"net/http/pprof"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/melsoft/timegrid/api/swagger"
	internalhandler "github.com/melsoft/timegrid/internal/handler"
	internalmiddleware "github.com/melsoft/timegrid/internal/middleware"
	"github.com/melsoft/timegrid/internal/repository"
	"github.com/melsoft/timegrid/internal/service"
	"github.com/melsoft/timegrid/internal/timetable"
	"github.com/melsoft/timegrid/pkg/cache"
	"github.com/melsoft/timegrid/pkg/config"
	"github.com/melsoft/timegrid/pkg/database"
	"github.com/melsoft/timegrid/pkg/logger"
	corsmiddleware "github.com/melsoft/timegrid/pkg/middleware/cors"
	reqidmiddleware "github.com/melsoft/timegrid/pkg/middleware/requestid"
)

// @title TimeGrid Scheduling API
// @version 0.1.0
// @description Weekly timetable solver: slot generation, constraint-based
// @description generation, manual move validation, and conflict reporting.
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metricsSvc := service.NewMetricsService()
	metricsHandler := internalhandler.NewMetricsHandler(metricsSvc)

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to initialise database", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to initialise redis", "error", err)
	}
	defer redisClient.Close()

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Scheduler.SolveLockTTL, logr, true)

	timeSlotRepo := repository.NewTimeSlotRepository(db)
	classGroupRepo := repository.NewClassGroupRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	allocationRepo := repository.NewAllocationRepository(db)
	entryRepo := repository.NewTimetableEntryRepository(db)
	conflictReportRepo := repository.NewConflictReportRepository(db)
	schoolConfigRepo := repository.NewSchoolConfigRepository(db)
	requiredSubjectRepo := repository.NewRequiredSubjectRepository(db)

	driver := timetable.NewDriver(
		timeSlotRepo,
		classGroupRepo,
		teacherRepo,
		roomRepo,
		subjectRepo,
		allocationRepo,
		entryRepo,
		conflictReportRepo,
		requiredSubjectRepo,
		logr,
	)
	editValidator := timetable.NewEditValidator(
		entryRepo,
		teacherRepo,
		roomRepo,
		classGroupRepo,
		subjectRepo,
		timeSlotRepo,
	)

	timetableSvc := service.NewTimetableService(
		driver,
		editValidator,
		schoolConfigRepo,
		timeSlotRepo,
		conflictReportRepo,
		redisClient,
		cacheSvc,
		metricsSvc,
		logr,
		cfg.Scheduler.SolveLockTTL,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	timetableSvc.Start(ctx)
	defer timetableSvc.Stop()

	timetableHandler := internalhandler.NewTimetableHandler(timetableSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		registerPprof(r)
	}

	api := r.Group(cfg.APIPrefix)

	timetableGroup := api.Group("/timetable")
	timetableGroup.POST("/slots/generate", timetableHandler.GenerateSlots)
	timetableGroup.POST("/generate", timetableHandler.Generate)
	timetableGroup.POST("/entries/:id/validate-move", timetableHandler.ValidateMove)
	timetableGroup.GET("/conflicts", timetableHandler.Conflicts)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func registerPprof(r *gin.Engine) {
	group := r.Group("/debug/pprof")
	group.GET("/", gin.WrapF(pprof.Index))
	group.GET("/cmdline", gin.WrapF(pprof.Cmdline))
	group.GET("/profile", gin.WrapF(pprof.Profile))
	group.POST("/symbol", gin.WrapF(pprof.Symbol))
	group.GET("/symbol", gin.WrapF(pprof.Symbol))
	group.GET("/trace", gin.WrapF(pprof.Trace))
	group.GET("/allocs", gin.WrapH(pprof.Handler("allocs")))
	group.GET("/block", gin.WrapH(pprof.Handler("block")))
	group.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
	group.GET("/heap", gin.WrapH(pprof.Handler("heap")))
	group.GET("/mutex", gin.WrapH(pprof.Handler("mutex")))
	group.GET("/threadcreate", gin.WrapH(pprof.Handler("threadcreate")))
}
