package server

import (
	"context"
	"net/http"

	"storefront-api/internal/auth"
	"storefront-api/internal/config"
	"storefront-api/internal/handler"
	"storefront-api/internal/logger"
	"storefront-api/internal/metrics"
	authmw "storefront-api/internal/middleware"
	"storefront-api/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const serviceName = "storefront-api"

type Services struct {
	User    service.UserService
	Cart    service.CartService
	Order   service.OrderService
	Product service.ProductService
}

type Server struct {
	echo           *echo.Echo
	logger         *zap.Logger
	requireUser    echo.MiddlewareFunc
	requireAdmin   echo.MiddlewareFunc
	userHandler    *handler.UserHandler
	cartHandler    *handler.CartHandler
	orderHandler   *handler.OrderHandler
	productHandler *handler.ProductHandler
}

func NewServer(cfg *config.Config, log *zap.Logger, tokens *auth.TokenManager, services Services) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.ErrorHandler()

	s := &Server{
		echo:           e,
		logger:         log,
		requireUser:    authmw.RequireUser(tokens),
		requireAdmin:   authmw.RequireAdmin(tokens, cfg.Auth.AdminEmail),
		userHandler:    handler.NewUserHandler(services.User),
		cartHandler:    handler.NewCartHandler(services.Cart),
		orderHandler:   handler.NewOrderHandler(services.Order),
		productHandler: handler.NewProductHandler(services.Product),
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(s.contextLogger)
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			l := logger.FromContext(c.Request().Context())
			if v.Error != nil {
				l.Warn("request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			l.Info("request", fields...)
			return nil
		},
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization, "token"},
	}))
	e.Use(middleware.BodyLimit("20M"))
	e.Use(metrics.Middleware(serviceName))

	s.setupRoutes()
	return s
}

// contextLogger puts a request-scoped logger on the request context.
func (s *Server) contextLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		l := s.logger.With(zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)))
		c.SetRequest(req.WithContext(logger.WithContext(req.Context(), l)))
		return next(c)
	}
}

func (s *Server) setupRoutes() {
	s.echo.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// -------- users --------
	users := api.Group("/users")
	users.POST("/register", s.userHandler.Register)
	users.POST("/login", s.userHandler.Login)
	users.POST("/admin", s.userHandler.AdminLogin)

	// -------- cart --------
	cart := api.Group("/cart", s.requireUser)
	cart.POST("/add", s.cartHandler.Add)
	cart.GET("/get", s.cartHandler.Get)
	cart.DELETE("/remove", s.cartHandler.Remove)
	cart.DELETE("/clear", s.cartHandler.Clear)

	// -------- orders --------
	order := api.Group("/order")
	order.POST("/place", s.orderHandler.PlaceCOD, s.requireUser)
	order.POST("/razorpay", s.orderHandler.PlaceGateway, s.requireUser)
	order.POST("/verify", s.orderHandler.Verify, s.requireUser)
	order.POST("/userorders", s.orderHandler.UserOrders, s.requireUser)
	order.GET("/allorders", s.orderHandler.AllOrders, s.requireAdmin)
	order.POST("/status", s.orderHandler.UpdateStatus, s.requireAdmin)

	// -------- catalog --------
	products := api.Group("/products")
	products.GET("/list", s.productHandler.List)
	products.GET("/:id", s.productHandler.Get)
	products.POST("/add", s.productHandler.Add, s.requireAdmin)
	products.POST("/remove", s.productHandler.Remove, s.requireAdmin)
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
