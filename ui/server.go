package ui

import (
	"embed"
	"html/template"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"visareq/app"
	"visareq/domain/core"
	"visareq/domain/run"
	"visareq/ports"
)

//go:embed templates/*
var embeddedFiles embed.FS

// Server is the operator dashboard: submit a policy document, watch runs,
// and inspect the generated artifacts.
type Server struct {
	router   *gin.Engine
	pipeline *app.Pipeline
	repo     ports.RunRepository
}

// NewServer creates the dashboard server.
func NewServer(pipeline *app.Pipeline, repo ports.RunRepository, ginMode string) (*Server, error) {
	if ginMode != "" {
		gin.SetMode(ginMode)
	}
	router := gin.Default()

	funcMap := template.FuncMap{
		"markdown": renderMarkdown,
		"statusClass": func(s run.Status) string {
			switch s {
			case run.StatusSucceeded:
				return "ok"
			case run.StatusPartiallySucceeded:
				return "warn"
			case run.StatusFailed:
				return "fail"
			}
			return ""
		},
		"shortID": func(id core.RunID) string {
			s := id.String()
			if len(s) > 8 {
				return s[:8]
			}
			return s
		},
	}
	tmpl, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, err
	}
	router.SetHTMLTemplate(tmpl)

	s := &Server{router: router, pipeline: pipeline, repo: repo}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.POST("/runs", s.handleSubmit)
	s.router.GET("/runs/:id", s.handleRunDetail)
}

// Start starts the dashboard server.
func (s *Server) Start(port string) error {
	addr := ":" + port
	log.Printf("[UI] Starting dashboard on %s", addr)
	return s.router.Run(addr)
}

func (s *Server) handleIndex(c *gin.Context) {
	runs, err := s.repo.List(c.Request.Context(), 20)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Error": err.Error()})
		return
	}
	c.HTML(http.StatusOK, "index.html", gin.H{"Runs": runs})
}

func (s *Server) handleSubmit(c *gin.Context) {
	policyText := c.PostForm("policy_text")
	visaTypeHint := c.PostForm("visa_type_hint")
	if strings.TrimSpace(policyText) == "" {
		c.HTML(http.StatusBadRequest, "error.html", gin.H{"Error": "policy text is required"})
		return
	}

	r, err := s.pipeline.Run(c.Request.Context(), policyText, visaTypeHint)
	if err != nil {
		log.Printf("[UI] Run %s failed: %v", r.RunID, err)
	}
	c.Redirect(http.StatusSeeOther, "/runs/"+r.RunID.String())
}

func (s *Server) handleRunDetail(c *gin.Context) {
	id, err := core.ParseRunID(c.Param("id"))
	if err != nil {
		c.HTML(http.StatusBadRequest, "error.html", gin.H{"Error": "invalid run id"})
		return
	}
	r, err := s.repo.Get(c.Request.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if core.IsNotFoundError(err) {
			status = http.StatusNotFound
		}
		c.HTML(status, "error.html", gin.H{"Error": err.Error()})
		return
	}
	c.HTML(http.StatusOK, "run.html", gin.H{"Run": r})
}
