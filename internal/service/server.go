// Package service exposes the ledger, cart, reports and sync operations over
// HTTP with gin.
package service

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mmynk/glasspos/internal/auth"
	"github.com/mmynk/glasspos/internal/cart"
	"github.com/mmynk/glasspos/internal/cloudsync"
	"github.com/mmynk/glasspos/internal/export"
	"github.com/mmynk/glasspos/internal/ledger"
	"github.com/mmynk/glasspos/internal/metrics"
	"github.com/mmynk/glasspos/internal/middleware"
	"github.com/mmynk/glasspos/internal/models"
)

// Server wires the HTTP surface to the domain packages.
type Server struct {
	ledger        *ledger.Store
	carts         *cart.Registry
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	sync          *cloudsync.Adapter
	loc           *time.Location
	logger        *slog.Logger
}

// Deps are the collaborators a Server needs.
type Deps struct {
	Ledger        *ledger.Store
	Carts         *cart.Registry
	Authenticator auth.Authenticator
	JWTManager    *auth.JWTManager
	Sync          *cloudsync.Adapter
	Location      *time.Location
	Logger        *slog.Logger
}

// NewServer creates a Server. A nil Carts, Location or Logger gets a default.
func NewServer(d Deps) *Server {
	s := &Server{
		ledger:        d.Ledger,
		carts:         d.Carts,
		authenticator: d.Authenticator,
		jwtManager:    d.JWTManager,
		sync:          d.Sync,
		loc:           d.Location,
		logger:        d.Logger,
	}
	if s.carts == nil {
		s.carts = cart.NewRegistry()
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Routes builds the gin engine with every endpoint registered.
func (s *Server) Routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(s.logger), cors())

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	api.POST("/auth/login", s.login)

	authed := api.Group("", middleware.RequireAuth(s.jwtManager))
	authed.POST("/auth/logout", s.logout)
	authed.GET("/auth/me", s.me)

	authed.GET("/products", s.listProducts)
	authed.GET("/profile", s.getProfile)
	authed.GET("/cart", s.getCart)
	authed.POST("/cart/items", s.addToCart)
	authed.PATCH("/cart/items/:id", s.updateCartLine)
	authed.DELETE("/cart/items/:id", s.removeCartLine)
	authed.DELETE("/cart", s.clearCart)
	authed.POST("/checkout", s.checkout)
	authed.GET("/sales/:id/receipt", s.receipt)

	admin := authed.Group("", middleware.RequireRole(models.RoleAdmin))
	admin.POST("/products", s.createProduct)
	admin.PUT("/products/:id", s.updateProduct)
	admin.DELETE("/products/:id", s.deleteProduct)
	admin.POST("/products/:id/adjust", s.adjustStock)
	admin.GET("/inventory/export", s.exportInventory)
	admin.POST("/inventory/import", s.importInventory)

	admin.GET("/sales", s.listSales)
	admin.GET("/reports/summary", s.salesSummary)
	admin.GET("/reports/sales.xlsx", s.exportSales)
	admin.GET("/reports/stock-log", s.stockLog)
	admin.GET("/reports/stock.csv", s.stockReport)

	admin.GET("/users", s.listUsers)
	admin.POST("/users", s.createUser)
	admin.DELETE("/users/:id", s.deleteUser)
	admin.PUT("/profile", s.updateProfile)

	admin.GET("/sync", s.syncStatus)
	admin.PUT("/sync/config", s.configureSync)
	admin.POST("/sync/remote", s.createRemote)
	admin.POST("/sync/push", s.pushNow)
	admin.POST("/sync/pull", s.pull)
	admin.POST("/sync/import-inventory", s.importRemoteInventory)

	return r
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var parseErr *export.ParseError
	switch {
	case errors.Is(err, ledger.ErrProductNotFound),
		errors.Is(err, ledger.ErrUserNotFound),
		errors.Is(err, cart.ErrLineNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrNegativeStock),
		errors.Is(err, ledger.ErrInsufficientStock),
		errors.Is(err, ledger.ErrCheckoutFinished),
		errors.Is(err, ledger.ErrUsernameTaken),
		errors.Is(err, ledger.ErrLastAdmin),
		errors.Is(err, cart.ErrOutOfStock),
		errors.Is(err, cloudsync.ErrNotConfigured):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrInvalidDelta),
		errors.Is(err, ledger.ErrInvalidProduct),
		errors.Is(err, ledger.ErrInvalidUser),
		errors.Is(err, ledger.ErrInvalidField),
		errors.Is(err, ledger.ErrEmptyCart),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, cloudsync.ErrConfirmationRequired),
		errors.Is(err, cloudsync.ErrUnsupported):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden
	case errors.As(err, &parseErr),
		errors.Is(err, models.ErrCorruptData):
		return http.StatusUnprocessableEntity
	case errors.Is(err, cloudsync.ErrRemoteRejected):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request error", "route", c.FullPath(), "error", err)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func intParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		badRequest(c, errors.New("invalid "+name))
		return 0, false
	}
	return v, true
}
