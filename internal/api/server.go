package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/azizrestaurant/restaurant-platform/internal/config"
	"github.com/azizrestaurant/restaurant-platform/internal/database"
	"github.com/azizrestaurant/restaurant-platform/internal/notifier"
	"github.com/azizrestaurant/restaurant-platform/internal/realtime"
	"github.com/azizrestaurant/restaurant-platform/internal/repository"
	"github.com/azizrestaurant/restaurant-platform/internal/service"
	"github.com/azizrestaurant/restaurant-platform/pkg/circuitbreaker"
	"github.com/azizrestaurant/restaurant-platform/pkg/kafka"
	"github.com/azizrestaurant/restaurant-platform/pkg/logger"
	"github.com/azizrestaurant/restaurant-platform/pkg/middleware"
)

// Server wires the repositories, services, realtime hub and notification
// pipeline behind the HTTP router.
type Server struct {
	config     *config.Config
	logger     logger.Logger
	router     *mux.Router
	httpServer *http.Server
	validate   *validator.Validate
	db         *database.Database

	orderRepo       *repository.OrderRepository
	historyRepo     *repository.StatusHistoryRepository
	reservationRepo *repository.ReservationRepository
	customerRepo    *repository.CustomerRepository
	menuRepo        *repository.MenuRepository

	orderService       *service.OrderService
	reservationService *service.ReservationService
	trackingService    *service.TrackingService
	menuService        *service.MenuService

	hub           *realtime.Hub
	kafkaProducer *kafka.Producer
	kafkaConsumer *kafka.Consumer
	emailBreaker  *circuitbreaker.CircuitBreaker
	rateLimiter   *middleware.RateLimiter
}

// NewServer builds the full server. It connects to the database, runs
// migrations, and starts the notification consumer when Kafka is enabled.
func NewServer(cfg *config.Config, log logger.Logger) (*Server, error) {
	db, err := database.New(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := db.RunMigrations(); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	orderRepo := repository.NewOrderRepository(db, log)
	historyRepo := repository.NewStatusHistoryRepository(db, log)
	reservationRepo := repository.NewReservationRepository(db, log)
	customerRepo := repository.NewCustomerRepository(db, log)
	menuRepo := repository.NewMenuRepository(db, log)

	hub := realtime.NewHub(log)

	// Email delivery is guarded by a circuit breaker shared between the
	// consumer and the ops endpoint.
	emailBreaker := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: 5,
		ResetTimeout:     60 * time.Second,
		HalfOpenMaxCalls: 2,
	})

	var (
		producer   *kafka.Producer
		consumer   *kafka.Consumer
		dispatcher notifier.Dispatcher
	)
	if cfg.Kafka.Enabled {
		producer, err = kafka.NewProducer(cfg.Kafka.Brokers, log)
		if err != nil {
			return nil, fmt.Errorf("create Kafka producer: %w", err)
		}
		dispatcher = notifier.NewKafkaDispatcher(producer, cfg.Kafka.NotificationsTopic, log)

		mailer := notifier.NewSMTPMailer(cfg.SMTP, log)
		emailHandler := notifier.NewEmailHandler(mailer, emailBreaker, log)
		consumer, err = kafka.NewConsumer(&kafka.ConsumerConfig{
			Brokers:       cfg.Kafka.Brokers,
			Topic:         cfg.Kafka.NotificationsTopic,
			ConsumerGroup: cfg.Kafka.ConsumerGroup,
		}, emailHandler, log)
		if err != nil {
			return nil, fmt.Errorf("create Kafka consumer: %w", err)
		}
	} else {
		dispatcher = &notifier.NopDispatcher{Logger: log}
	}

	statusManager := service.NewStatusManager(orderRepo, historyRepo, customerRepo, hub, dispatcher, log)
	orderService := service.NewOrderService(orderRepo, historyRepo, customerRepo, statusManager, dispatcher, log)
	reservationService := service.NewReservationService(reservationRepo, customerRepo, hub, dispatcher, log)
	trackingService := service.NewTrackingService(orderRepo, historyRepo, statusManager, log)
	menuService := service.NewMenuService(menuRepo, log)

	rateLimiter := middleware.NewRateLimiter(&middleware.RateLimiterConfig{
		GlobalBurst:       cfg.Rate.GlobalBurst,
		GlobalRate:        cfg.Rate.GlobalRate,
		IPBurst:           cfg.Rate.IPBurst,
		IPRate:            cfg.Rate.IPRate,
		TrustForwardedFor: cfg.Rate.TrustForwardedFor,
	}, log)

	r := mux.NewRouter()
	server := &Server{
		config:   cfg,
		logger:   log,
		router:   r,
		validate: validator.New(),
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      r,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		db:                 db,
		orderRepo:          orderRepo,
		historyRepo:        historyRepo,
		reservationRepo:    reservationRepo,
		customerRepo:       customerRepo,
		menuRepo:           menuRepo,
		orderService:       orderService,
		reservationService: reservationService,
		trackingService:    trackingService,
		menuService:        menuService,
		hub:                hub,
		kafkaProducer:      producer,
		kafkaConsumer:      consumer,
		emailBreaker:       emailBreaker,
		rateLimiter:        rateLimiter,
	}

	server.setupRoutes()

	if consumer != nil {
		if err := consumer.Start(); err != nil {
			// Orders still work without email; keep serving.
			log.Error("Failed to start notification consumer", "error", err)
		}
	}

	return server, nil
}

// Start starts the HTTP server
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server and its background work
func (s *Server) Shutdown(ctx context.Context) error {
	s.rateLimiter.Stop()
	s.hub.Shutdown()

	if s.kafkaConsumer != nil {
		if err := s.kafkaConsumer.Stop(); err != nil {
			s.logger.Error("Error stopping Kafka consumer", "error", err)
		}
	}
	if s.kafkaProducer != nil {
		if err := s.kafkaProducer.Close(); err != nil {
			s.logger.Error("Error closing Kafka producer", "error", err)
		}
	}
	if err := s.db.Close(); err != nil {
		s.logger.Error("Error closing database connection", "error", err)
	}

	return s.httpServer.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.rateLimiter.Middleware)

	s.router.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/ws", s.websocketHandler)

	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/orders", s.createOrderHandler).Methods(http.MethodPost)
	api.HandleFunc("/orders/tracking/{trackingId}", s.getOrderByTrackingHandler).Methods(http.MethodGet)
	api.HandleFunc("/orders/customer/{customerId}", s.getOrdersByCustomerHandler).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id}", s.getOrderHandler).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id}", s.updateOrderHandler).Methods(http.MethodPut)
	api.HandleFunc("/orders/{id}/status", s.updateOrderStatusHandler).Methods(http.MethodPatch)
	api.HandleFunc("/orders/{id}/items", s.addOrderItemHandler).Methods(http.MethodPost)
	api.HandleFunc("/orders/{id}/items/{itemId}", s.removeOrderItemHandler).Methods(http.MethodDelete)

	api.HandleFunc("/reservations", s.createReservationHandler).Methods(http.MethodPost)
	api.HandleFunc("/reservations/availability/check", s.checkAvailabilityHandler).Methods(http.MethodGet)
	api.HandleFunc("/reservations/availability/slots", s.availableSlotsHandler).Methods(http.MethodGet)
	api.HandleFunc("/reservations/customer/{customerId}", s.getReservationsByCustomerHandler).Methods(http.MethodGet)
	api.HandleFunc("/reservations/{id}", s.getReservationHandler).Methods(http.MethodGet)
	api.HandleFunc("/reservations/{id}", s.updateReservationHandler).Methods(http.MethodPut)
	api.HandleFunc("/reservations/{id}/cancel", s.cancelReservationHandler).Methods(http.MethodPatch)

	api.HandleFunc("/status/orders/{orderId}/history", s.getStatusHistoryHandler).Methods(http.MethodGet)
	api.HandleFunc("/status/orders/{orderId}/current", s.getCurrentStatusHandler).Methods(http.MethodGet)
	api.HandleFunc("/status/orders/{orderId}/estimate", s.getStatusEstimateHandler).Methods(http.MethodGet)
	api.HandleFunc("/status/orders/{orderId}/status", s.trackingUpdateStatusHandler).Methods(http.MethodPut)

	api.HandleFunc("/menu", s.getMenuHandler).Methods(http.MethodGet)
	api.HandleFunc("/menu", s.createMenuItemHandler).Methods(http.MethodPost)
	api.HandleFunc("/menu/featured", s.getFeaturedMenuHandler).Methods(http.MethodGet)
	api.HandleFunc("/menu/categories", s.getMenuCategoriesHandler).Methods(http.MethodGet)
	api.HandleFunc("/menu/{id}", s.getMenuItemHandler).Methods(http.MethodGet)
	api.HandleFunc("/menu/{id}", s.updateMenuItemHandler).Methods(http.MethodPut)
	api.HandleFunc("/menu/{id}", s.deleteMenuItemHandler).Methods(http.MethodDelete)
	api.HandleFunc("/menu/{id}/availability", s.setMenuAvailabilityHandler).Methods(http.MethodPatch)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/orders", s.adminListOrdersHandler).Methods(http.MethodGet)
	admin.HandleFunc("/reservations", s.adminListReservationsHandler).Methods(http.MethodGet)
	admin.HandleFunc("/ops", s.adminOpsHandler).Methods(http.MethodGet)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("Request processed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
			"remoteAddr", r.RemoteAddr,
		)
	})
}
