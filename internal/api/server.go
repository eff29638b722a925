package api

import (
	"context"
	"file-panel/internal/config"
	"file-panel/internal/database"
	"file-panel/internal/models"
	"file-panel/internal/storage"
	"file-panel/internal/websocket"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// Repository is the persistence surface the handlers depend on.
type Repository interface {
	CreateFiles(ctx context.Context, args []database.CreateFileParams) ([]models.UploadedFile, error)
	GetFileByID(ctx context.Context, id int64) (*models.UploadedFile, error)
	ListFiles(ctx context.Context, limit int) ([]models.UploadedFile, error)
	TouchFile(ctx context.Context, id int64) (*models.UploadedFile, error)
	ReplaceFileContent(ctx context.Context, id int64, arg database.CreateFileParams) (*models.UploadedFile, string, error)
	DeleteFile(ctx context.Context, id int64, release func(ctx context.Context, key string) error) (*models.UploadedFile, error)

	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	CreateSession(ctx context.Context, arg database.CreateSessionParams) error
	GetSessionUser(ctx context.Context, token string) (*models.Session, *models.User, error)
	GetSessionUserByID(ctx context.Context, sessionID uuid.UUID) (*models.Session, *models.User, error)
	DeleteSessionByToken(ctx context.Context, token string) error
	DeleteAllSessionsForUser(ctx context.Context, userID int64) error

	LogEvent(ctx context.Context, userID int64, eventType string, payload interface{}) (*database.Event, error)
	GetEventsSince(ctx context.Context, sinceID int64) ([]database.Event, error)
	Ping(ctx context.Context) error
}

var _ Repository = (*database.Store)(nil)

type Server struct {
	config    *config.Config
	store     Repository
	storage   storage.Blob
	sessions  sessions.Store
	wsHub     *websocket.Hub
	templates *template.Template
	logger    *zap.Logger
}

func NewServer(cfg *config.Config, store Repository, blobs storage.Blob, sessionStore sessions.Store, wsHub *websocket.Hub, templates *template.Template, logger *zap.Logger) *Server {
	return &Server{
		config:    cfg,
		store:     store,
		storage:   blobs,
		sessions:  sessionStore,
		wsHub:     wsHub,
		templates: templates,
		logger:    logger,
	}
}

// Routes builds the HTTP surface of the panel.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)

	if len(s.config.CORS.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.config.CORS.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-HTTP-Method-Override"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Get("/health", s.HealthCheckHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", s.IndexHandler)
	r.Get("/media/{fileID}", s.MediaHandler)

	r.Get("/login/", s.LoginPageHandler)
	r.With(httprate.LimitByIP(s.config.Auth.LoginRatePerMinute, time.Minute)).Post("/login/", s.LoginHandler)
	r.Get("/logout/", s.LogoutHandler)
	r.HandleFunc("/unauth/", s.UnauthorizedHandler)

	r.Route("/admin", func(r chi.Router) {
		r.Use(s.RequireSession)
		r.HandleFunc("/", s.AdminHandler)
		r.Get("/ws", s.ServeWsHandler)
		r.Get("/events", s.GetEventsHandler)
	})

	return r
}
