package api

import (
	"log"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"marquee/internal/cache"
	"marquee/internal/cart"
	"marquee/internal/config"
	"marquee/internal/database"
	"marquee/internal/handlers"
	"marquee/internal/lock"
	"marquee/internal/messaging"
	"marquee/internal/metrics"
	"marquee/internal/middleware"
	"marquee/internal/notifier"
	"marquee/internal/repository"
	"marquee/internal/search"
	"marquee/internal/service"
)

type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB
	nats     *messaging.NATSClient
	valkey   *cache.ValkeyClient
	services *service.Services
	repos    *repository.Repositories
	metrics  *metrics.Metrics
}

func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}

	// Valkey and Elasticsearch are accelerators, not dependencies: the
	// API serves everything from Postgres when either is down.
	valkeyClient, err := cache.NewValkeyClient(cfg.Valkey)
	if err != nil {
		slog.Warn("Valkey unavailable, caching disabled", "error", err)
		valkeyClient = nil
	}

	var orderSearch service.OrderSearch
	esClient, err := search.NewElasticsearchClient(cfg.Elasticsearch)
	if err != nil {
		slog.Warn("Elasticsearch unavailable, snapshots served from database", "error", err)
	} else {
		orderSearch = esClient
	}

	repos := repository.NewRepositories(db)
	carts := cart.NewStore(cfg.Booking.SeatPrice)
	locks := lock.NewShowLocks()
	m := metrics.New()
	changeNotifier := notifier.New(natsClient, slog.Default())

	var seatCache service.SeatCache
	if valkeyClient != nil {
		seatCache = valkeyClient
	}

	services := service.NewServices(repos, carts, locks, changeNotifier, seatCache, orderSearch, m, cfg.Booking)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.Prometheus(m))

	server := &Server{
		router:   router,
		config:   cfg,
		db:       db,
		nats:     natsClient,
		valkey:   valkeyClient,
		services: services,
		repos:    repos,
		metrics:  m,
	}

	server.setupRoutes(carts)

	return server
}

func (s *Server) setupRoutes(carts *cart.Store) {
	h := handlers.NewHandlers(s.services, carts, s.valkey, s.config.Booking)

	api := s.router.Group("/api")
	api.Use(middleware.BasicAuth(s.repos.Users, s.valkey))
	{
		// Catalog endpoints
		api.GET("/shows", h.ListShows)
		api.GET("/shows/:id", h.GetShow)
		api.GET("/shows/:id/seats", h.ListSeats)
		api.GET("/snacks", h.ListSnacks)
		api.GET("/users/me", h.Me)

		// Cart endpoints, keyed by X-Session-ID
		cartGroup := api.Group("/cart")
		{
			cartGroup.GET("", h.GetCart)
			cartGroup.DELETE("", h.ClearCart)
			cartGroup.POST("/show", h.SelectShow)
			cartGroup.POST("/seats", h.ToggleSeat)
			cartGroup.POST("/snacks", h.SetSnack)
		}

		// Order endpoints
		orders := api.Group("/orders")
		{
			orders.POST("", h.CreateOrder)
			orders.GET("/:id", h.GetOrder)
		}

		// Staff endpoints
		admin := api.Group("/admin")
		{
			admin.GET("/orders", h.ListOrders)
			admin.PATCH("/orders/status", h.AdvanceOrder)
			admin.POST("/users", h.CreateUser)
		}
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (s *Server) healthCheck(c *gin.Context) {
	health := s.db.HealthCheck(c.Request.Context())
	status := http.StatusOK
	if health.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":   health.Status,
		"service":  "marquee-api",
		"database": health,
	})
}


// GetRouter exposes the router for tests.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			log.Printf("Error closing NATS connection: %v", err)
		}
	}

	if s.valkey != nil {
		if err := s.valkey.Close(); err != nil {
			log.Printf("Error closing Valkey connection: %v", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
			return err
		}
	}

	return nil
}
