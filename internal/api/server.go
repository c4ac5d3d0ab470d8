package api

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/GoFutureTeam/gofomentos/internal/auth"
	"github.com/GoFutureTeam/gofomentos/internal/chat"
	"github.com/GoFutureTeam/gofomentos/internal/db"
	"github.com/GoFutureTeam/gofomentos/internal/match"
	"github.com/GoFutureTeam/gofomentos/internal/models"
	"github.com/GoFutureTeam/gofomentos/internal/upstream"
)

// Storage is the catalog surface the handlers depend on. The pgx
// implementation lives in internal/db; tests provide their own.
type Storage interface {
	ListEditais(ctx context.Context, params db.ListParams) (*db.ListResult, error)
	GetEdital(ctx context.Context, id uuid.UUID) (*models.Edital, error)
	GetFilterOptions(ctx context.Context) (map[match.FilterCategory][]match.FilterOption, error)
	GetStats(ctx context.Context) (*db.Stats, error)

	CreateProjeto(ctx context.Context, p *models.Projeto) error
	GetProjeto(ctx context.Context, id, userID uuid.UUID) (*models.Projeto, error)
	ListProjetos(ctx context.Context, userID uuid.UUID) ([]models.Projeto, error)
	DeleteProjeto(ctx context.Context, id, userID uuid.UUID) error

	SaveEdital(ctx context.Context, userID, editalID uuid.UUID) error
	UnsaveEdital(ctx context.Context, userID, editalID uuid.UUID) error
	ListEditaisSalvos(ctx context.Context, userID uuid.UUID) ([]models.Edital, error)
}

// Authenticator abstracts the auth service for handler tests.
type Authenticator interface {
	Signup(ctx context.Context, req auth.SignupRequest) (*auth.AuthResponse, error)
	Login(ctx context.Context, req auth.LoginRequest) (*auth.AuthResponse, error)
}

// ChatClient is the conversational backend surface.
type ChatClient interface {
	Ask(ctx context.Context, question, noticeContext string) (string, error)
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type Server struct {
	Store   Storage
	Auth    Authenticator
	Chat    ChatClient
	Matcher *match.Matcher
	Echo    *echo.Echo
	Logger  *zap.Logger

	registry *upstream.Registry
	catalog  upstream.Catalog

	syncMu      sync.Mutex
	syncRunning bool
}

var (
	adminSecretOnce    sync.Once
	adminSecretRuntime string
	adminSecretErr     error
)

func NewServer(pool *pgxpool.Pool, logger *zap.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// CORS: allow frontend origins from env or default to localhost
	allowedOrigins := []string{"http://localhost:5173"}
	if extra := os.Getenv("CORS_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				allowedOrigins = append(allowedOrigins, o)
			}
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "X-Admin-Secret"},
	}))

	if logger == nil {
		logger = zap.NewNop()
	}

	chatHost := os.Getenv("CHAT_HOST")
	chatClient := chat.NewClient(chatHost, os.Getenv("CHAT_EMBED_MODEL"), os.Getenv("CHAT_GEN_MODEL"))

	registry, err := upstream.LoadRegistry(os.Getenv("SOURCES_FILE"))
	if err != nil {
		logger.Warn("failed to load source registry", zap.Error(err))
		registry = &upstream.Registry{}
	}

	store := db.NewStore(pool)
	s := &Server{
		Store:    store,
		Auth:     auth.NewService(pool),
		Chat:     chatClient,
		Matcher:  match.NewMatcher(0),
		Echo:     e,
		Logger:   logger,
		registry: registry,
		catalog:  store,
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.Echo.GET("/health", s.handleHealth)

	api := s.Echo.Group("/api/v1")
	api.GET("/editais", s.handleListEditais)
	api.GET("/editais/:id", s.handleGetEdital)
	api.GET("/editais/:id/pdf", s.handleGetEditalPDF)
	api.GET("/filters", s.handleGetFilters)
	api.POST("/match", s.handleMatch)
	api.GET("/stats", s.handleGetStats)
	api.POST("/chat", s.handleChat)

	api.POST("/auth/signup", s.handleSignup)
	api.POST("/auth/login", s.handleLogin)

	projects := api.Group("/projects")
	projects.Use(auth.Middleware)
	projects.POST("", s.handleCreateProjeto)
	projects.GET("", s.handleListProjetos)
	projects.GET("/:id", s.handleGetProjeto)
	projects.DELETE("/:id", s.handleDeleteProjeto)

	saved := api.Group("/saved")
	saved.Use(auth.Middleware)
	saved.POST("/:id", s.handleSaveEdital)
	saved.DELETE("/:id", s.handleUnsaveEdital)
	saved.GET("", s.handleListSalvos)

	admin := api.Group("")
	admin.Use(s.adminMiddleware)
	admin.POST("/sync", s.handleSync)
	admin.POST("/sync/:source", s.handleSyncSource)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (s *Server) Start(port string) error {
	return s.Echo.Start(":" + port)
}

func (s *Server) adminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		secret, err := adminSecret()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Server admin configuration error"})
		}

		authHeader := c.Request().Header.Get("Authorization")
		adminHeader := c.Request().Header.Get("X-Admin-Secret")

		if adminHeader == secret {
			return next(c)
		}
		if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
			if authHeader[7:] == secret {
				return next(c)
			}
		}

		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized admin access"})
	}
}

func adminSecret() (string, error) {
	adminSecretOnce.Do(func() {
		secret := strings.TrimSpace(os.Getenv("ADMIN_SECRET"))
		if secret != "" {
			adminSecretRuntime = secret
			return
		}

		buf := make([]byte, 48)
		if _, err := rand.Read(buf); err != nil {
			adminSecretErr = fmt.Errorf("failed to generate ADMIN_SECRET fallback: %w", err)
			return
		}

		adminSecretRuntime = base64.RawURLEncoding.EncodeToString(buf)
		log.Print("ADMIN_SECRET is not set; using ephemeral in-memory fallback secret")
	})

	if adminSecretErr != nil {
		return "", adminSecretErr
	}
	if adminSecretRuntime == "" {
		return "", fmt.Errorf("admin secret unavailable")
	}

	return adminSecretRuntime, nil
}
