package router

import (
	"time"

	"github.com/SuperAJ1/CAPSTONE-sub000/internal/checkout"
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/config"
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/handler"
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/infra"
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/middleware"
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Deps are the infrastructure pieces built by main.
type Deps struct {
	Backend  service.Backend
	Breaker  *infra.CircuitBreaker
	Redis    *redis.Client // nil when the lookup cache is disabled
	Notifier service.Notifier
	Receipts service.ReceiptService
	// Done stops background janitors when closed. Nil runs none.
	Done <-chan struct{}
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Session / Backend client
func New(cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	if deps.Done != nil {
		go limiter.PurgeEvery(5*time.Minute, deps.Done)
	}

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigin))
	r.Use(middleware.ErrorHandler())
	r.Use(limiter.Handler())

	// ── Session ──────────────────────────────────────────────────────────────
	session := checkout.NewSession()
	gate := checkout.NewScanGate(cfg.ScanCooldown())
	catalog := service.NewCatalog()
	userID := ResolveUserID(cfg)

	// ── Services ─────────────────────────────────────────────────────────────
	checkoutSvc := service.NewCheckoutService(deps.Backend, session, gate, catalog, deps.Notifier, deps.Receipts, userID)
	reconcileSvc := service.NewReconciliationService(deps.Backend, catalog, userID)

	// ── Handlers ─────────────────────────────────────────────────────────────
	checkoutH := handler.NewCheckoutHandler(checkoutSvc)
	transactionsH := handler.NewTransactionsHandler(reconcileSvc)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(deps.Breaker, deps.Redis))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	{
		v1.GET("/products", checkoutH.SearchProducts)
		v1.POST("/scan", checkoutH.Scan)
		v1.POST("/purchase", checkoutH.Purchase)

		cart := v1.Group("/cart")
		{
			cart.GET("", checkoutH.GetCart)
			cart.DELETE("", checkoutH.ClearCart)
			cart.POST("/items", checkoutH.AddItem)
			cart.DELETE("/items/:id", checkoutH.RemoveItem)
			cart.PUT("/items/:id/total", checkoutH.UpdateItemTotal)
			cart.PUT("/cash", checkoutH.SetCashTendered)
			cart.PUT("/total", checkoutH.SetTotalOverride)
			cart.PUT("/pick-quantity", checkoutH.SetPickQuantity)
			cart.PUT("/selection", checkoutH.SelectProduct)
		}

		v1.GET("/transactions", transactionsH.ListTransactions)
		v1.POST("/transactions/:id/reconciliation", transactionsH.Open)

		rec := v1.Group("/reconciliation")
		{
			rec.GET("", transactionsH.Current)
			rec.DELETE("", transactionsH.Cancel)
			rec.POST("/edit", transactionsH.BeginEdit)
			rec.POST("/units", transactionsH.AddUnit)
			rec.PUT("/units/:index", transactionsH.ReplaceUnit)
			rec.DELETE("/units/:index", transactionsH.RemoveUnit)
			rec.PUT("/units/:index/discount", transactionsH.SetUnitDiscount)
			rec.PUT("/discount", transactionsH.SetGlobalDiscount)
			rec.POST("/save", transactionsH.Save)
			rec.POST("/payment", transactionsH.SubmitPayment)
			rec.DELETE("/payment", transactionsH.ReturnToEdit)
		}
	}

	// Swagger UI, only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}

// ResolveUserID picks the id sent with purchases and history requests:
// USER_ID when set, else the claim inside ACCESS_TOKEN.
func ResolveUserID(cfg *config.Config) string {
	if cfg.UserID != "" {
		return cfg.UserID
	}
	if cfg.AccessToken == "" {
		log.Warn().Msg("no USER_ID or ACCESS_TOKEN configured; sales will carry an empty user id")
		return ""
	}
	id, err := infra.UserIDFromToken(cfg.AccessToken)
	if err != nil {
		log.Warn().Err(err).Msg("could not read user id from ACCESS_TOKEN")
		return ""
	}
	return id
}
