package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	billingapp "github.com/haulstack/tms/internal/application/billing"
	documentapp "github.com/haulstack/tms/internal/application/document"
	fleetapp "github.com/haulstack/tms/internal/application/fleet"
	freightapp "github.com/haulstack/tms/internal/application/freight"
	identityapp "github.com/haulstack/tms/internal/application/identity"
	notificationapp "github.com/haulstack/tms/internal/application/notification"
	partnerapp "github.com/haulstack/tms/internal/application/partner"
	"github.com/haulstack/tms/internal/infrastructure/auth"
	"github.com/haulstack/tms/internal/infrastructure/config"
	"github.com/haulstack/tms/internal/infrastructure/logger"
	infranotification "github.com/haulstack/tms/internal/infrastructure/notification"
	"github.com/haulstack/tms/internal/infrastructure/pdf"
	"github.com/haulstack/tms/internal/infrastructure/persistence"
	"github.com/haulstack/tms/internal/infrastructure/storage"
	"github.com/haulstack/tms/internal/interfaces/http/handler"
	"github.com/haulstack/tms/internal/interfaces/http/middleware"
	"github.com/haulstack/tms/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting HaulStack TMS",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, gormlogger.Warn)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	if cfg.Tracing.Enabled {
		if err := db.EnableTracing(cfg.Database.DBName); err != nil {
			log.Fatal("Failed to enable database tracing", zap.Error(err))
		}
		log.Info("Tracing enabled", zap.String("service", cfg.Tracing.ServiceName))
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	companyRepo := persistence.NewGormCompanyRepository(db.DB)
	tokenRepo := persistence.NewGormVerificationTokenRepository(db.DB)
	regStore := persistence.NewGormRegistrationStore(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	driverRepo := persistence.NewGormDriverRepository(db.DB)
	truckRepo := persistence.NewGormTruckRepository(db.DB)
	loadRepo := persistence.NewGormLoadRepository(db.DB)
	shipperRepo := persistence.NewGormShipperRepository(db.DB)
	receiverRepo := persistence.NewGormReceiverRepository(db.DB)
	laneRepo := persistence.NewGormLaneRepository(db.DB)
	rateconRepo := persistence.NewGormRateconRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(db.DB)
	fuelRepo := persistence.NewGormFuelRepository(db.DB)
	payrollRepo := persistence.NewGormPayrollRepository(db.DB)

	// Token handling and revocation
	jwtService := auth.NewJWTService(cfg.JWT)
	var blacklist auth.TokenBlacklist
	if cfg.Redis.Enabled {
		redisBlacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer func() {
			_ = redisBlacklist.Close()
		}()
		blacklist = redisBlacklist
		log.Info("Redis token blacklist enabled")
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
		log.Warn("Using in-memory token blacklist, revocations do not survive restarts")
	}

	// Object storage
	var store storage.ObjectStorage
	switch cfg.Storage.Driver {
	case "s3":
		store, err = storage.NewS3Storage(&cfg.Storage, log)
		if err != nil {
			log.Fatal("Failed to initialize S3 storage", zap.Error(err))
		}
	default:
		store, err = storage.NewLocalStorage(cfg.Storage.LocalDir)
		if err != nil {
			log.Fatal("Failed to initialize local storage", zap.Error(err))
		}
	}

	// Outbound channels
	var mailer infranotification.EmailSender
	if cfg.Email.Enabled {
		mailer, err = infranotification.NewSMTPEmailSender(&cfg.Email, log)
		if err != nil {
			log.Fatal("Failed to initialize mailer", zap.Error(err))
		}
	} else {
		mailer = infranotification.NewNoopEmailSender(log)
		log.Warn("Email sending disabled")
	}

	var smsSender infranotification.SMSSender
	if cfg.SMS.Enabled {
		smsSender, err = infranotification.NewTwilioSMSSender(&cfg.SMS, log)
		if err != nil {
			log.Fatal("Failed to initialize SMS sender", zap.Error(err))
		}
	} else {
		smsSender = infranotification.NoopSMSSender{}
		log.Warn("SMS sending disabled")
	}

	renderer := pdf.NewMarotoInvoiceRenderer()

	// Application services
	authService := identityapp.NewAuthService(userRepo, tokenRepo, regStore, jwtService, blacklist, mailer, cfg.App, log)
	userService := identityapp.NewUserService(userRepo, mailer, cfg.App, log)
	companyService := identityapp.NewCompanyService(companyRepo, log)
	customerService := partnerapp.NewCustomerService(customerRepo, log)
	driverService := fleetapp.NewDriverService(driverRepo, truckRepo, log)
	truckService := fleetapp.NewTruckService(truckRepo, log)
	loadService := freightapp.NewLoadService(loadRepo, customerRepo, driverRepo, truckRepo, log)
	shipperService := freightapp.NewShipperService(shipperRepo, log)
	receiverService := freightapp.NewReceiverService(receiverRepo, log)
	laneService := freightapp.NewLaneService(laneRepo, log)
	rateconService := freightapp.NewRateconService(rateconRepo, loadRepo, log)
	invoiceService := billingapp.NewInvoiceService(invoiceRepo, loadRepo, customerRepo, companyRepo, renderer, store, log)
	expenseService := billingapp.NewExpenseService(expenseRepo, log)
	fuelService := billingapp.NewFuelService(fuelRepo, log)
	payrollService := billingapp.NewPayrollService(payrollRepo, driverRepo, loadRepo, log)
	notificationService := notificationapp.NewService(smsSender, driverRepo, loadRepo, log)
	documentService := documentapp.NewService(store, log)

	// HTTP surface
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()
	engine.Use(gin.Recovery())
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	}

	if cfg.Tracing.Enabled {
		engine.Use(middleware.Tracing(cfg.Tracing.ServiceName))
	}
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: cfg.HTTP.CORSAllowMethods,
		AllowHeaders: cfg.HTTP.CORSAllowHeaders,
	}))
	if cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer limiter.Stop()
		engine.Use(middleware.RateLimit(limiter))
	}

	base := handler.NewBaseHandler(log)
	authHandler := handler.NewAuthHandler(base, authService)
	authMiddleware := middleware.Auth(middleware.AuthConfig{
		JWTService: jwtService,
		Blacklist:  blacklist,
		Logger:     log,
	})

	r := router.New(engine,
		router.WithAPIVersion("v1"),
		router.WithAuthChain(authMiddleware, middleware.TraceCaller()),
	)

	// Credential endpoints get a stricter limiter than the global one.
	r.RegisterPublic(router.RegistrarFunc(func(rg *gin.RouterGroup) {
		group := rg
		if cfg.HTTP.AuthRateLimitEnabled {
			authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
			group = rg.Group("", middleware.RateLimit(authLimiter))
		}
		authHandler.RegisterPublicRoutes(group)
	}))
	r.RegisterPublic(handler.NewSystemHandler(version))

	r.RegisterProtected(
		authHandler,
		handler.NewUserHandler(base, userService),
		handler.NewCompanyHandler(base, companyService),
		handler.NewCustomerHandler(base, customerService),
		handler.NewDriverHandler(base, driverService),
		handler.NewTruckHandler(base, truckService),
		handler.NewLoadHandler(base, loadService),
		handler.NewShipperHandler(base, shipperService),
		handler.NewReceiverHandler(base, receiverService),
		handler.NewLaneHandler(base, laneService),
		handler.NewRateconHandler(base, rateconService),
		handler.NewInvoiceHandler(base, invoiceService),
		handler.NewExpenseHandler(base, expenseService),
		handler.NewFuelHandler(base, fuelService),
		handler.NewPayrollHandler(base, payrollService),
		handler.NewNotificationHandler(base, notificationService),
		handler.NewUploadHandler(base, documentService),
	)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
