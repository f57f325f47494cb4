package integration

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/aidar/member-service/internal/domain"
	"github.com/aidar/member-service/internal/enrichment"
	"github.com/aidar/member-service/internal/handler"
	pgrepo "github.com/aidar/member-service/internal/repository/postgres"
	"github.com/aidar/member-service/internal/service"
)

// TestEnvironment содержит все ресурсы необходимые для интеграционных тестов
type TestEnvironment struct {
	PostgresContainer *postgres.PostgresContainer
	DB                *pgxpool.Pool
	Server            *httptest.Server
	FactServer        *httptest.Server
	Processes         *recordingProcessStore
	Events            *recordingEventPublisher
	Counter           prom.Counter
	ctx               context.Context
}

// recordingProcessStore считает вызовы записи в документное хранилище
type recordingProcessStore struct {
	calls atomic.Int64
}

func (s *recordingProcessStore) Record(_ context.Context, _ string, _ *domain.Member) {
	s.calls.Add(1)
}

func (s *recordingProcessStore) Calls() int64 { return s.calls.Load() }

// recordingEventPublisher считает публикации в очередь
type recordingEventPublisher struct {
	calls atomic.Int64
}

func (p *recordingEventPublisher) Publish(_ context.Context, _ string, _ *domain.Member, _ string) {
	p.calls.Add(1)
}

func (p *recordingEventPublisher) Calls() int64 { return p.calls.Load() }

// SetupTestEnvironment создает тестовое окружение: контейнер PostgreSQL
// со схемой, реальные репозиторий и клиент обогащения, записывающие
// заглушки для документного хранилища и очереди
func SetupTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()
	ctx := context.Background()

	// Запускаем PostgreSQL контейнер
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("member_service_test"),
		postgres.WithUsername("test_user"),
		postgres.WithPassword("test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")

	// Получаем строку подключения
	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get connection string")

	// Применяем миграции
	applyMigrations(t, connStr)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err, "Failed to create connection pool")

	// Локальный сервер фактов вместо внешнего API
	factServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"fact": "a group of cats is called a clowder", "length": 35}`)); err != nil {
			t.Errorf("write fact response: %v", err)
		}
	}))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	processes := &recordingProcessStore{}
	events := &recordingEventPublisher{}
	counter := prom.NewCounter(prom.CounterOpts{Name: "new_member_total"})

	memberService := service.NewMemberService(
		pgrepo.NewMemberRepository(pool),
		processes,
		events,
		enrichment.NewCatFactClient(factServer.URL, logger),
		counter,
		logger,
	)
	memberHandler := handler.NewMemberHandler(memberService, logger)

	r := chi.NewRouter()
	r.Post("/members", memberHandler.Members)
	r.Post("/member", memberHandler.Member)
	server := httptest.NewServer(r)

	return &TestEnvironment{
		PostgresContainer: pgContainer,
		DB:                pool,
		Server:            server,
		FactServer:        factServer,
		Processes:         processes,
		Events:            events,
		Counter:           counter,
		ctx:               ctx,
	}
}

// Cleanup освобождает все ресурсы тестового окружения
func (env *TestEnvironment) Cleanup(t *testing.T) {
	t.Helper()

	env.Server.Close()
	env.FactServer.Close()
	env.DB.Close()

	if err := env.PostgresContainer.Terminate(env.ctx); err != nil {
		t.Logf("Failed to terminate container: %v", err)
	}
}

// MakeRequest выполняет HTTP запрос к тестовому серверу
func (env *TestEnvironment) MakeRequest(t *testing.T, method, path string, body io.Reader) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, env.Server.URL+path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	return resp
}

// applyMigrations применяет миграции БД
func applyMigrations(t *testing.T, connStr string) {
	t.Helper()

	// Открываем подключение к БД
	db, err := sql.Open("pgx/v5", connStr)
	require.NoError(t, err, "Failed to open database connection")
	defer db.Close()

	// Читаем файл миграции
	projectRoot := getProjectRoot(t)
	migrationPath := filepath.Join(projectRoot, "migrations", "000001_init_schema.up.sql")

	migrationSQL, err := os.ReadFile(migrationPath)
	require.NoError(t, err, "Failed to read migration file")

	// Выполняем миграцию
	_, err = db.Exec(string(migrationSQL))
	require.NoError(t, err, "Failed to apply migration")

	t.Log("Migrations applied successfully")
}

// getProjectRoot возвращает корневую директорию проекта
func getProjectRoot(t *testing.T) string {
	t.Helper()

	// Поднимаемся по директориям пока не найдем go.mod
	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("Failed to locate project root (go.mod not found)")
		}
		dir = parent
	}
}
