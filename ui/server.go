// Package ui serves the CCD Visualizer dashboard: a login-gated page with
// two upload tabs, one per report section.
package ui

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"

	"ccdviz/internal/config"
	"ccdviz/internal/report"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
)

//go:embed templates/* static/* help.md
var embeddedFiles embed.FS

// Server represents the dashboard web server
type Server struct {
	router    *gin.Engine
	templates *template.Template
	builder   *report.Builder
	auth      config.AuthConfig
	helpHTML  template.HTML
}

// NewServer creates the server, parses the embedded templates and renders
// the help document.
func NewServer(cfg *config.Config) (*Server, error) {
	if cfg.Server.GinMode != "" {
		gin.SetMode(cfg.Server.GinMode)
	}

	templates, err := template.ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	helpSource, err := embeddedFiles.ReadFile("help.md")
	if err != nil {
		return nil, fmt.Errorf("failed to read help document: %w", err)
	}

	s := &Server{
		router:    gin.Default(),
		templates: templates,
		builder:   report.NewBuilder(cfg.Data.HeaderRows),
		auth:      cfg.Auth,
		helpHTML:  template.HTML(markdown.ToHTML(helpSource, nil, nil)),
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// setupMiddleware configures static file serving from the embedded FS
func (s *Server) setupMiddleware() {
	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		log.Printf("[setupMiddleware] Error creating static filesystem: %v", err)
		return
	}
	s.router.StaticFS("/static", http.FS(staticFS))
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleLoginPage)
	s.router.POST("/login", s.handleLogin)
	s.router.GET("/help", s.handleHelp)

	// Report build endpoint, one invocation per upload event
	s.router.POST("/api/reports/:section", s.handleBuildReport)
}

// Start starts the web server
func (s *Server) Start(addr string) error {
	log.Printf("Starting CCD Visualizer on http://%s", addr)
	return s.router.Run(addr)
}

func (s *Server) renderTemplate(c *gin.Context, templateName string, data interface{}) {
	c.Header("Content-Type", "text/html")
	if err := s.templates.ExecuteTemplate(c.Writer, templateName, data); err != nil {
		log.Printf("Template error: %v", err)
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}
