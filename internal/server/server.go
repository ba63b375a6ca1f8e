// internal/server/server.go
package server

import (
	"context"
	"net/http"

	"ats-notifications/internal/common/auth"
	"ats-notifications/internal/common/config"
	"ats-notifications/internal/common/logger"
	"ats-notifications/internal/models"
	"ats-notifications/internal/notify/dispatch"
	"ats-notifications/pkg/catalog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Narrow views of the stores the handlers touch. Concrete implementations
// live in internal/notify; handler tests substitute fakes.
type Dispatcher interface {
	Send(ctx context.Context, opts dispatch.SendOptions) (*dispatch.SendResult, error)
}

type ContextSource interface {
	Build(ctx context.Context, orgID, eventCode string, data map[string]interface{}) (*dispatch.SendOptions, error)
}

type EventCatalog interface {
	GetByCode(ctx context.Context, code string) (*models.NotificationEvent, error)
}

type SettingsStore interface {
	Upsert(ctx context.Context, setting *models.OrgNotificationSetting) error
	List(ctx context.Context, orgID string) ([]models.OrgNotificationSetting, error)
}

type TemplateStore interface {
	Upsert(ctx context.Context, tmpl *models.EmailTemplate) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies wires the notification stores into the HTTP surface.
type Dependencies struct {
	Dispatcher Dispatcher
	Contexts   ContextSource
	Events     EventCatalog
	Settings   SettingsStore
	Templates  TemplateStore
	Catalog    *catalog.EventCatalog
	DB         Pinger
	Cache      Pinger
}

// Server is the HTTP front of the dispatch subsystem.
type Server struct {
	cfg    *config.Config
	engine *gin.Engine
	logger logger.Logger

	dispatcher Dispatcher
	contexts   ContextSource
	events     EventCatalog
	settings   SettingsStore
	templates  TemplateStore
	catalog    *catalog.EventCatalog
	db         Pinger
	cache      Pinger

	httpServer *http.Server
}

func NewServer(cfg *config.Config, deps Dependencies, log logger.Logger) *Server {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:        cfg,
		logger:     log,
		dispatcher: deps.Dispatcher,
		contexts:   deps.Contexts,
		events:     deps.Events,
		settings:   deps.Settings,
		templates:  deps.Templates,
		catalog:    deps.Catalog,
		db:         deps.DB,
		cache:      deps.Cache,
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestLogger(log))
	s.engine = engine
	s.registerRoutes()

	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.handleHealth)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	verifier := auth.NewTokenVerifier(s.cfg.Auth.JWTSecret, s.cfg.Auth.Issuer)

	api := s.engine.Group("/api", Auth(verifier))
	api.POST("/notifications/send", RequireRoles(s.cfg.Auth.AllowedRoles...), s.handleSend)
	api.GET("/notification-events", s.handleEventCatalog)

	admin := api.Group("/orgs/:orgId", RequireRoles(models.RoleAdmin))
	admin.PUT("/notification-settings/:eventCode", s.handleSettingUpsert)
	admin.GET("/notification-settings", s.handleSettingList)
	admin.PUT("/email-templates/:eventCode", s.handleTemplateUpsert)
}

func (s *Server) handleHealth(c *gin.Context) {
	status := http.StatusOK
	checks := gin.H{}

	if s.db != nil {
		if err := s.db.Ping(c.Request.Context()); err != nil {
			status = http.StatusServiceUnavailable
			checks["postgres"] = err.Error()
		} else {
			checks["postgres"] = "ok"
		}
	}
	if s.cache != nil {
		if err := s.cache.Ping(c.Request.Context()); err != nil {
			status = http.StatusServiceUnavailable
			checks["redis"] = err.Error()
		} else {
			checks["redis"] = "ok"
		}
	}

	c.JSON(status, gin.H{
		"service": s.cfg.App.Name,
		"version": s.cfg.App.Version,
		"checks":  checks,
	})
}

// handleEventCatalog serves the event catalog so admin UIs can render
// settings screens without hardcoding the event list.
func (s *Server) handleEventCatalog(c *gin.Context) {
	if s.catalog == nil {
		c.JSON(http.StatusOK, &catalog.EventCatalog{Events: []catalog.Event{}})
		return
	}
	c.JSON(http.StatusOK, s.catalog)
}

// Engine exposes the router for handler tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run blocks serving HTTP until the listener fails or Shutdown is called.
func (s *Server) Run() error {
	s.httpServer = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.GetRequestTimeout(),
		WriteTimeout: s.cfg.Server.GetRequestTimeout(),
	}

	s.logger.Info("http server listening", map[string]interface{}{
		"addr": s.cfg.Server.Addr(),
	})

	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
