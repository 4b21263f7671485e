package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/melodia-app/melodia-go-api/internal/config"
	"github.com/melodia-app/melodia-go-api/internal/database"
	"github.com/melodia-app/melodia-go-api/internal/handler"
	"github.com/melodia-app/melodia-go-api/internal/middleware"
	"github.com/melodia-app/melodia-go-api/internal/models"
	"github.com/melodia-app/melodia-go-api/internal/repository"
	"github.com/melodia-app/melodia-go-api/internal/router"
	"github.com/melodia-app/melodia-go-api/internal/service"
	cloud "github.com/melodia-app/melodia-go-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Course{},
		&models.ClassType{},
		&models.AvailabilitySlot{},
		&models.ActivityLog{},
		&models.Skill{},
		&models.TeacherSkill{},
		&models.Lead{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var natsConn *nats.Conn
	if cfg.NatsURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NatsURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	} else {
		logger.Warn().Msg("nats url not configured, cross-node events disabled")
	}

	storage, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	courseRepo := repository.NewCourseRepository(db)
	classTypeRepo := repository.NewClassTypeRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)
	teacherSkillRepo := repository.NewTeacherSkillRepository(db)
	leadRepo := repository.NewLeadRepository(db)

	capabilities := service.NewCapabilityService()
	deduper := service.NewActivityDeduper(service.ActivityDebounceWindow, service.ActivityDeduperMaxEntries)

	eventService := service.NewEventService(redisClient, natsConn, cfg.EventChannel, logger)
	scheduleService := service.NewScheduleService(courseRepo, classTypeRepo, logger)
	enrollmentService := service.NewEnrollmentService(courseRepo, logger)
	availabilityService := service.NewAvailabilityService(availabilityRepo, capabilities, logger)
	activityService := service.NewActivityService(activityRepo, deduper, logger)
	filterStore := service.NewFilterStateStore(redisClient, cfg.FilterStateTTL, logger)
	staffResolver := service.NewStaffResolver(courseRepo, teacherSkillRepo, logger)
	calendarService := service.NewCalendarService(filterStore, staffResolver, availabilityService, scheduleService, logger)
	bookingService := service.NewBookingService(scheduleService, enrollmentService, availabilityService, activityService, eventService, logger)
	courseService := service.NewCourseService(courseRepo, validate, eventService, logger)
	leadService := service.NewLeadService(leadRepo, redisClient, validate, cfg.LeadDedupeTTL, logger)
	uploadService := service.NewUploadService(storage, courseRepo, cfg.UploadMaxSizeMB, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eventService.Start(ctx)

	courseHandler := handler.NewCourseHandler(courseService, enrollmentService, activityService, logger)
	calendarHandler := handler.NewCalendarHandler(calendarService, logger)
	availabilityHandler := handler.NewAvailabilityHandler(availabilityService, activityService, logger)
	bookingHandler := handler.NewBookingHandler(bookingService, logger)
	activityHandler := handler.NewActivityHandler(activityService, logger)
	leadHandler := handler.NewLeadHandler(leadService, logger)
	eventsHandler := handler.NewEventsHandler(eventService, logger, 30*time.Second)
	uploadHandler := handler.NewUploadHandler(uploadService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		CourseHandler:       courseHandler,
		CalendarHandler:     calendarHandler,
		AvailabilityHandler: availabilityHandler,
		BookingHandler:      bookingHandler,
		ActivityHandler:     activityHandler,
		LeadHandler:         leadHandler,
		EventsHandler:       eventsHandler,
		UploadHandler:       uploadHandler,
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
		DB:                  db,
		Redis:               redisClient,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
