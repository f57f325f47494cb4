package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/aidar/member-service/internal/config"
	"github.com/aidar/member-service/internal/enrichment"
	"github.com/aidar/member-service/internal/handler"
	"github.com/aidar/member-service/internal/notify"
	"github.com/aidar/member-service/internal/repository/postgres"
	"github.com/aidar/member-service/internal/service"
)

// App представляет приложение со всеми зависимостями
type App struct {
	config    *config.Config
	db        *pgxpool.Pool
	mongo     *mongo.Client
	publisher *notify.KafkaEventPublisher
	registry  *prometheus.Registry
	server    *http.Server
	logger    *slog.Logger
}

// New создает новый экземпляр приложения
func New(cfg *config.Config) (*App, error) {
	// Инициализируем структурированный логгер (JSON формат)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))

	app := &App{
		config: cfg,
		logger: logger,
	}

	return app, nil
}

// Initialize инициализирует все компоненты приложения
func (a *App) Initialize(ctx context.Context) error {
	// Подключаемся к PostgreSQL
	if err := a.connectDB(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Подключаемся к MongoDB
	if err := a.connectMongo(ctx); err != nil {
		return fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Публикатор событий буферизует локально, брокер проверяется
	// только при первой публикации
	a.publisher = notify.NewKafkaEventPublisher(
		a.config.Kafka.Server,
		a.config.Kafka.Topic,
		a.logger,
	)

	// Реестр метрик процесса, без глобального состояния
	a.setupMetrics()

	// Настраиваем HTTP сервер и роутинг
	a.setupServer()

	a.logger.Info("Application initialized successfully")
	return nil
}

// connectDB устанавливает подключение к PostgreSQL с connection pool
func (a *App) connectDB(ctx context.Context) error {
	poolConfig, err := pgxpool.ParseConfig(a.config.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to parse database config: %w", err)
	}

	// Настраиваем размеры connection pool
	poolConfig.MaxConns = a.config.Database.MaxConns
	poolConfig.MinConns = a.config.Database.MinConns

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Проверяем подключение к БД
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	a.db = pool
	a.logger.Info("Connected to database")
	return nil
}

// connectMongo устанавливает подключение к документному хранилищу
func (a *App) connectMongo(ctx context.Context) error {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(a.config.Mongo.URI()))
	if err != nil {
		return fmt.Errorf("failed to create mongo client: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("failed to ping mongodb: %w", err)
	}

	a.mongo = client
	a.logger.Info("Connected to mongodb")
	return nil
}

// setupMetrics создает реестр метрик и стандартные коллекторы процесса
func (a *App) setupMetrics() {
	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// setupServer инициализирует HTTP роутер и обработчики
func (a *App) setupServer() {
	// Счетчик новых участников, инкрементируется оркестратором
	newMembers := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "new_member_total",
		Help: "Number of new registered members",
	})
	a.registry.MustRegister(newMembers)

	// Инициализируем адаптеры хранилищ и внешних систем
	memberRepo := postgres.NewMemberRepository(a.db)
	processStore := notify.NewMongoProcessStore(
		a.mongo.Database(a.config.Mongo.Database).Collection(a.config.Mongo.Collection),
		a.logger,
	)
	factClient := enrichment.NewCatFactClient(a.config.Enrichment.FactURL, a.logger)

	// Инициализируем слой сервисов (бизнес-логика)
	memberService := service.NewMemberService(
		memberRepo,
		processStore,
		a.publisher,
		factClient,
		newMembers,
		a.logger,
	)

	// Инициализируем HTTP обработчики
	memberHandler := handler.NewMemberHandler(memberService, a.logger)

	// Настраиваем роутер
	r := chi.NewRouter()

	// Глобальные middleware (применяются ко всем запросам)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// Два параллельных маршрута: расширенный и упрощенный варианты
	r.Post("/members", memberHandler.Members)
	r.Post("/member", memberHandler.Member)

	// Health check для мониторинга
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			a.logger.Error("Failed to write health check response", "error", err)
		}
	})

	// Метрики процесса и счетчик новых участников
	r.Get("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}).ServeHTTP)

	// Создаем HTTP сервер с настройками таймаутов
	addr := fmt.Sprintf("%s:%s", a.config.Server.Host, a.config.Server.Port)
	a.server = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	a.logger.Info("HTTP server configured", "addr", addr)
}

// Run запускает HTTP сервер
func (a *App) Run() error {
	a.logger.Info("Starting HTTP server", "addr", a.server.Addr)
	return a.server.ListenAndServe()
}

// Shutdown корректно останавливает приложение
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down application")

	// Останавливаем HTTP сервер (ждем завершения текущих запросов)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	// Сбрасываем буфер публикатора
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error("Failed to close kafka publisher", "error", err)
		}
	}

	// Отключаемся от документного хранилища
	if a.mongo != nil {
		if err := a.mongo.Disconnect(ctx); err != nil {
			a.logger.Error("Failed to disconnect from mongodb", "error", err)
		}
	}

	// Закрываем подключения к базе данных
	if a.db != nil {
		a.db.Close()
	}

	a.logger.Info("Application stopped gracefully")
	return nil
}
