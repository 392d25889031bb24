package routes

import (
	"github.com/ferrigb/sistema-nota/internal/config"
	domainRepo "github.com/ferrigb/sistema-nota/internal/domain/repository"
	"github.com/ferrigb/sistema-nota/internal/presentation/http/handler"
	"github.com/ferrigb/sistema-nota/internal/presentation/http/middleware"
	"github.com/ferrigb/sistema-nota/pkg/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth    *handler.AuthHandler
	Sale    *handler.SaleHandler
	Store   *handler.StoreHandler
	Note    *handler.NoteHandler
	Printer *handler.PrinterHandler
	Static  *handler.StaticHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.ClientRateLimiter
	Logger          *zap.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.Recovery(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))
	if deps.RateLimiter != nil {
		router.Use(deps.RateLimiter.Middleware())
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	requireSession := middleware.AuthMiddleware(deps.JWTManager, deps.Cfg.Auth.CookieName, "/login")

	registerAuthRoutes(router, h, requireSession)

	api := router.Group("/api")
	api.POST("/login", h.Auth.Login)
	{
		protected := api.Group("")
		protected.Use(requireSession)
		registerProtectedRoutes(protected, h, deps)
	}

	// Everything else is the single page app
	router.NoRoute(requireSession, h.Static.Serve)

	return router
}

func registerAuthRoutes(router *gin.Engine, h *Handlers, requireSession gin.HandlerFunc) {
	router.GET("/login", h.Auth.LoginPage)
	router.POST("/login", h.Auth.Login)
	router.GET("/logout", h.Auth.Logout)
	router.POST("/logout", h.Auth.Logout)
	router.GET("/api/user", requireSession, h.Auth.Me)
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Sales
	registerSaleRoutes(protected, h, deps)

	// Printer
	printer := protected.Group("/printer")
	{
		printer.GET("/status", h.Printer.GetStatus)
		printer.POST("/test", h.Printer.TestPrint)
	}

	// Store
	protected.GET("/loja", h.Store.Get)
	protected.POST("/loja", h.Store.Configure)

	// Notes
	registerNoteRoutes(protected, h)
}

func registerSaleRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	idempotency := middleware.Idempotency(middleware.IdempotencyConfig{
		Repo:   deps.IdempotencyRepo,
		Logger: deps.Logger,
	})

	sales := protected.Group("/vendas")
	{
		sales.GET("", h.Sale.List)
		sales.POST("", h.Sale.Create)
		sales.GET("/todas", h.Sale.ListAll)
		sales.GET("/atual", h.Sale.Current)
		sales.POST("/limpar-atual", h.Sale.ClearCurrent)
		sales.GET("/:id", h.Sale.Get)
		sales.DELETE("/:id", h.Sale.Delete)
		sales.POST("/:id/itens", idempotency, h.Sale.AddItem)
		sales.PUT("/:id/itens/:item_id", h.Sale.UpdateItem)
		sales.DELETE("/:id/itens/:item_id", h.Sale.RemoveItem)
		sales.PUT("/:id/finalizar", h.Sale.Finalize)
		sales.GET("/:id/ticket", h.Sale.Ticket)
		sales.POST("/:id/imprimir", h.Printer.PrintSale)
	}
}

func registerNoteRoutes(protected *gin.RouterGroup, h *Handlers) {
	notes := protected.Group("/notas")
	{
		notes.GET("", h.Note.List)
		notes.POST("", h.Note.Create)
		notes.GET("/:id", h.Note.Get)
		notes.PUT("/:id", h.Note.Update)
		notes.DELETE("/:id", h.Note.Delete)
	}
}
