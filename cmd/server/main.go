package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fadilmartias/career-compass/internal/config"
	"github.com/fadilmartias/career-compass/internal/domain/fiber/handler"
	"github.com/fadilmartias/career-compass/internal/logger"
	"github.com/fadilmartias/career-compass/internal/middleware"
	"github.com/fadilmartias/career-compass/internal/model"
	"github.com/fadilmartias/career-compass/internal/repository"
	"github.com/fadilmartias/career-compass/internal/service"
	"github.com/fadilmartias/career-compass/internal/usecase"
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	ctx := context.Background()
	if err := godotenv.Load(); err != nil {
		fmt.Println("Could not load .env file")
	}

	appConfig := config.LoadAppConfig()
	log := logger.Init(appConfig.Env, appConfig.LogLevel)

	app := fiber.New(fiber.Config{
		AppName: appConfig.Name,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError

			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}

			message := err.Error()
			if message == "" {
				message = "Internal Server Error"
			}

			return ctx.Status(code).JSON(fiber.Map{"error": message})
		},
	})
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: appConfig.Env != "production",
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed, // 1
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return appConfig.Env == "production"
		},
	}))
	app.Use(healthcheck.New())
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.RateLimiter(50, 1*time.Minute))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	db := ConnectDB()
	rdb := ConnectRedis()

	userRepo := repository.NewUserRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	referralRepo := repository.NewReferralRepository(db)
	profileRepo := repository.NewCareerProfileRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	openRouter := service.NewOpenRouterService()
	gemini, err := service.NewGeminiService(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init Gemini client")
	}
	mail := service.NewMailService()
	cache := service.NewAnalyticsCache(rdb)

	authUC := usecase.NewAuthUsecase(userRepo, referralRepo, mail)
	assessmentUC := usecase.NewAssessmentUsecase(assessmentRepo, profileRepo, userRepo, gemini, openRouter, mail)
	paymentUC := usecase.NewPaymentUsecase(paymentRepo, assessmentRepo, referralRepo)
	affiliateUC := usecase.NewAffiliateUsecase(referralRepo)
	adminUC := usecase.NewAdminUsecase(userRepo, assessmentRepo, paymentRepo, analyticsRepo, cache)
	clerkUC := usecase.NewClerkUsecase(assessmentRepo)

	handler.NewAuthHandler(authUC).RegisterRoutes(app)
	handler.NewAssessmentHandler(assessmentUC).RegisterRoutes(app)
	handler.NewPaymentHandler(paymentUC).RegisterRoutes(app)
	handler.NewAffiliateHandler(affiliateUC).RegisterRoutes(app)
	handler.NewAdminHandler(adminUC, paymentUC, assessmentUC).RegisterRoutes(app)
	handler.NewClerkHandler(clerkUC).RegisterRoutes(app)

	log.Info().Str("port", appConfig.Port).Msg("server running")
	if err := app.Listen(appConfig.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func ConnectDB() *gorm.DB {
	dbConfig := config.LoadDBConfig()
	appConfig := config.LoadAppConfig()
	log := logger.Get()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		dbConfig.Host,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.Name,
		dbConfig.Port,
		dbConfig.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to database")
	}
	pgDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("could not get database instance")
	}
	if appConfig.Env != "production" {
		pgDB.SetMaxIdleConns(5)
		pgDB.SetMaxOpenConns(10)
		pgDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		pgDB.SetMaxIdleConns(20)
		pgDB.SetMaxOpenConns(200)
		pgDB.SetConnMaxLifetime(time.Hour)
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Assessment{},
		&model.Payment{},
		&model.Referral{},
		&model.CareerProfile{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	return db
}

func ConnectRedis() *redis.Client {
	redisConfig := config.LoadRedisConfig()
	log := logger.Get()

	rdb := redis.NewClient(&redis.Options{
		Addr: redisConfig.Addr,
		DB:   redisConfig.DB,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		// analytics caching degrades gracefully without Redis
		log.Warn().Err(err).Msg("redis unreachable, analytics cache disabled")
		return nil
	}
	return rdb
}
