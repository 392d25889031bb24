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

	"github.com/ferrigb/sistema-nota/internal/application/service"
	"github.com/ferrigb/sistema-nota/internal/config"
	"github.com/ferrigb/sistema-nota/internal/infrastructure/database"
	"github.com/ferrigb/sistema-nota/internal/infrastructure/receipt"
	"github.com/ferrigb/sistema-nota/internal/infrastructure/repository"
	"github.com/ferrigb/sistema-nota/internal/presentation/http/handler"
	"github.com/ferrigb/sistema-nota/internal/presentation/http/middleware"
	"github.com/ferrigb/sistema-nota/internal/presentation/http/routes"
	"github.com/ferrigb/sistema-nota/pkg/logger"
	"github.com/ferrigb/sistema-nota/pkg/printer"
	"github.com/ferrigb/sistema-nota/pkg/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zl, err := logger.New(cfg.App.Env, cfg.App.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.Open(&cfg.Database, zl)
	if err != nil {
		zl.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db, zl); err != nil {
		zl.Fatal("failed to run migrations", zap.Error(err))
	}

	// Seed the operator account
	if err := database.SeedDefaultData(ctx, db, &cfg.Auth, zl); err != nil {
		zl.Warn("failed to seed default data", zap.Error(err))
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Initialize repositories
	saleRepo := repository.NewSaleRepository(db)
	storeRepo := repository.NewStoreRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	userRepo := repository.NewUserRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager, zl.Named("auth"))
	saleService := service.NewSaleService(saleRepo, zl.Named("sales"))
	storeService := service.NewStoreService(storeRepo)
	noteService := service.NewNoteService(noteRepo)
	ticketService := service.NewTicketService(saleRepo, storeService, ticketRenderers(&cfg.Ticket, zl), cfg.Ticket.Format, zl.Named("tickets"))

	// Initialize thermal printer
	thermalPrinter, err := printer.New(printer.Config{
		Type:    cfg.Printer.Type,
		USBPath: cfg.Printer.USBPath,
		Address: cfg.Printer.Address,
	})
	if err != nil {
		zl.Warn("failed to initialize printer, printing disabled", zap.Error(err))
		thermalPrinter = printer.NewNullPrinter()
	}
	printerService := service.NewPrinterService(
		thermalPrinter,
		receipt.NewESCPOSRenderer(cfg.Printer.CharWidth),
		saleRepo,
		storeService,
		zl.Named("printer"),
	)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth: handler.NewAuthHandler(authService, handler.SessionCookie{
			Name:   cfg.Auth.CookieName,
			Secure: cfg.Auth.CookieSecure,
			MaxAge: jwtManager.Expiry(),
		}),
		Sale:    handler.NewSaleHandler(saleService, ticketService),
		Store:   handler.NewStoreHandler(storeService),
		Note:    handler.NewNoteHandler(noteService),
		Printer: handler.NewPrinterHandler(printerService),
		Static:  handler.NewStaticHandler(cfg.Static.Dir),
	}

	rateLimiter := middleware.NewClientRateLimiter(middleware.NewRateLimiterConfig(cfg.RateLimit.Requests, cfg.RateLimit.Duration))
	defer rateLimiter.Stop()

	go middleware.PurgeExpiredKeys(ctx, idempotencyRepo, time.Hour, zl.Named("idempotency"))

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
		Logger:          zl.Named("http"),
	})

	port := cfg.App.Port
	if port == "" {
		port = "5000"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("starting server",
			zap.String("service", cfg.App.Name),
			zap.String("port", port),
			zap.String("env", cfg.App.Env),
			zap.String("db_driver", cfg.Database.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// ticketRenderers maps download formats to renderers. TICKET_PDF_ENGINE=chrome
// prints the HTML receipt through headless Chrome instead of fpdf.
func ticketRenderers(cfg *config.TicketConfig, zl *zap.Logger) map[string]service.TicketRenderer {
	var pdf service.TicketRenderer = receipt.NewPDFRenderer()
	if cfg.PDFEngine == "chrome" {
		pdf = receipt.NewChromeRenderer(cfg.ChromePath, cfg.Timeout)
		zl.Info("ticket PDFs rendered with headless Chrome")
	}
	return map[string]service.TicketRenderer{
		service.TicketFormatPDF:  pdf,
		service.TicketFormatText: receipt.NewTextRenderer(),
	}
}
