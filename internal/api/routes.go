package api

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"vehicle-dismantling/backend/internal/decision"
	"vehicle-dismantling/backend/internal/session"
	"vehicle-dismantling/backend/internal/store"
)

const defaultLogoFile = "default.png"

// Config defines server dependencies.
type Config struct {
	DBPath         string
	SilentDB       bool
	LogosDir       string
	AllowedOrigins []string
	Decision       decision.Config
	// Planner overrides the HTTP decision client, mainly for tests.
	Planner decision.Planner
	// RestoreLatest preloads the slot with the newest stored plan.
	RestoreLatest bool
}

// Server wires HTTP handlers with the decision client, the current-plan slot
// and submission history.
type Server struct {
	db             *store.Database
	planner        decision.Planner
	decisionBase   string
	slot           *session.Slot
	notifier       *DashboardNotifier
	logosDir       string
	allowedOrigins []string
}

// NewServer constructs the API server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.DBPath == "" {
		return nil, errors.New("db path required")
	}
	if dir := filepath.Dir(cfg.DBPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}
	db, err := store.Open(cfg.DBPath, cfg.SilentDB)
	if err != nil {
		return nil, err
	}

	planner := cfg.Planner
	decisionBase := strings.TrimSpace(cfg.Decision.BaseURL)
	if planner == nil {
		client := decision.NewClient(cfg.Decision)
		planner = client
		decisionBase = client.BaseURL()
	}

	logosDir := cfg.LogosDir
	if logosDir == "" {
		logosDir = filepath.Join("public", "logos")
	}

	server := &Server{
		db:             db,
		planner:        planner,
		decisionBase:   decisionBase,
		slot:           &session.Slot{},
		notifier:       NewDashboardNotifier(),
		logosDir:       logosDir,
		allowedOrigins: cfg.AllowedOrigins,
	}

	if cfg.RestoreLatest {
		server.restoreLatest()
	}

	logrus.WithFields(logrus.Fields{
		"decision_base": decisionBase,
		"logos_dir":     logosDir,
	}).Info("plan dashboard server configured")
	return server, nil
}

// Close releases the database handle.
func (s *Server) Close() error {
	return s.db.Close()
}

// Router configures gin routes.
func (s *Server) Router() (*gin.Engine, error) {
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	if len(s.allowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowCredentials = true
		corsCfg.AllowOrigins = s.allowedOrigins
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	r.Use(cors.New(corsCfg))

	r.GET("/api/healthz", s.handleHealth)
	r.GET("/api/config", s.handleConfig)
	r.GET("/logos/:file", s.handleLogo)

	api := r.Group("/api")
	{
		api.POST("/submit", s.handleSubmit)
		api.POST("/present", s.handlePresent)
		api.GET("/dashboard", s.handleDashboard)
		api.GET("/dashboard/stream", s.handleDashboardStream)
		api.GET("/submissions", s.handleListSubmissions)
		api.GET("/submissions/:id", s.handleGetSubmission)
		api.POST("/test-connection", s.handleTestConnection)
	}

	return r, nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleConfig(c *gin.Context) {
	count, err := s.db.CountSubmissions()
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	state, _ := s.slot.Current()
	c.JSON(http.StatusOK, gin.H{
		"decision_base":   s.decisionBase,
		"logos_dir":       s.logosDir,
		"submissions":     count,
		"dashboard_state": state,
	})
}

func (s *Server) handleListSubmissions(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	if page < 0 {
		page = 0
	}
	pageSize, _ := strconv.Atoi(c.Query("pageSize"))
	if pageSize <= 0 {
		pageSize = 25
	}

	rows, total, err := s.db.ListSubmissions(store.SubmissionQuery{
		Brand:  c.Query("brand"),
		Status: c.Query("status"),
		Offset: page * pageSize,
		Limit:  pageSize,
	})
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	dtos := make([]SubmissionDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, SubmissionFromModel(row, false))
	}
	c.JSON(http.StatusOK, SubmissionsResponse{Items: dtos, Total: total})
}

func (s *Server) handleGetSubmission(c *gin.Context) {
	sub, err := s.db.GetSubmission(c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.renderError(c, http.StatusNotFound, fmt.Errorf("submission %s not found", c.Param("id")))
		} else {
			s.renderError(c, http.StatusInternalServerError, err)
		}
		return
	}
	c.JSON(http.StatusOK, SubmissionFromModel(*sub, true))
}

// handleLogo serves a brand logo, substituting the default image when the
// requested one is missing.
func (s *Server) handleLogo(c *gin.Context) {
	name := filepath.Base("/" + strings.TrimSpace(c.Param("file")))
	candidates := make([]string, 0, 2)
	if strings.EqualFold(filepath.Ext(name), ".png") {
		candidates = append(candidates, filepath.Join(s.logosDir, name))
	}
	candidates = append(candidates, filepath.Join(s.logosDir, defaultLogoFile))

	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			c.Header("Cache-Control", "public, max-age=86400")
			c.File(path)
			return
		}
	}
	s.renderError(c, http.StatusNotFound, fmt.Errorf("logo %s not found", name))
}

func (s *Server) handleDashboardStream(c *gin.Context) {
	upgrader := websocket.Upgrader{
		HandshakeTimeout:  5 * time.Second,
		EnableCompression: true,
		CheckOrigin: func(r *http.Request) bool {
			if len(s.allowedOrigins) == 0 {
				return true
			}
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" {
				return true
			}
			for _, allowed := range s.allowedOrigins {
				if strings.EqualFold(origin, allowed) {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("upgrade websocket")
		return
	}

	client := s.notifier.Register(conn)
	logrus.WithField("remote", conn.RemoteAddr().String()).Info("dashboard websocket connected")
	defer s.notifier.Unregister(client)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithField("remote", conn.RemoteAddr().String()).Info("dashboard websocket closed")
			} else {
				logrus.WithError(err).Warn("dashboard websocket unexpected close")
			}
			break
		}
	}
}

func (s *Server) renderError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}
