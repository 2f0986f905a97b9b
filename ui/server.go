package ui

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"time"

	"evaldash/internal/config"
	"evaldash/ui/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFiles embed.FS

// Server is the dashboard web server.
type Server struct {
	router    *gin.Engine
	templates *template.Template
	data      *services.DataService
	render    *services.RenderService
}

// NewServer creates a server reading datasets from cfg.Dir.
func NewServer(cfg config.DataConfig) (*Server, error) {
	s := &Server{
		router: gin.Default(),
		data:   services.NewDataService(cfg.Dir, cfg.PreviewRows),
		render: services.NewRenderService(),
	}

	if err := s.parseTemplates(); err != nil {
		return nil, err
	}
	s.setupRoutes()
	return s, nil
}

// Handler exposes the router for http.Server and tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) parseTemplates() error {
	funcMap := template.FuncMap{
		"markdown": s.render.Markdown,
		"svg":      s.render.SVG,
		"add":      func(a, b int) int { return a + b },
	}

	templatesFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		return fmt.Errorf("failed to create templates filesystem: %w", err)
	}

	files, err := fs.Glob(templatesFS, "*.html")
	if err != nil {
		return fmt.Errorf("failed to glob templates: %w", err)
	}
	log.Printf("[TemplateInit] Found %d template files: %v", len(files), files)

	s.templates, err = template.New("").Funcs(funcMap).ParseFS(templatesFS, files...)
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	s.render.SetTemplates(s.templates)
	return nil
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleDashboard)
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api")
	api.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET"},
		MaxAge:          12 * time.Hour,
	}))
	{
		api.GET("/datasets", s.handleListDatasets)
		api.GET("/datasets/:name/summary", s.handleDatasetSummary)
	}
}

// Start serves the dashboard until the listener fails.
func (s *Server) Start(cfg config.ServerConfig) error {
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	log.Printf("Starting evaluation dashboard on http://localhost:%s", cfg.Port)
	return srv.ListenAndServe()
}
