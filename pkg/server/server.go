// Package server exposes the routing operations over HTTP for the chat and
// evaluation frontends.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sable-systems/caseroute/pkg/evalnorm"
	"github.com/sable-systems/caseroute/pkg/llm"
	"github.com/sable-systems/caseroute/pkg/position"
)

// LLMService is the slice of the router the server needs.
type LLMService interface {
	Chat(ctx context.Context, modelID, systemPrompt string, history []llm.ChatMessage, message string, cfg llm.RouteConfig) (*llm.Result, error)
	Evaluate(ctx context.Context, modelID, prompt string, cfg llm.RouteConfig) (*llm.Result, error)
	GenerateOutline(ctx context.Context, modelID, prompt string, cfg llm.RouteConfig) (*llm.Result, error)
}

// PositionService runs stance classification.
type PositionService interface {
	Infer(ctx context.Context, transcript string, caseData position.CaseData, options []string, modelID string) *position.Result
	InferBatch(ctx context.Context, conversations []position.Conversation, caseData position.CaseData, options []string, modelID string) map[string]*position.Result
}

// Server wires the HTTP routes to the routing layer.
type Server struct {
	engine    *gin.Engine
	llm       LLMService
	positions PositionService
	norm      *evalnorm.Normalizer
	server    *http.Server
	log       *zap.Logger
}

// New creates a Server listening on addr.
func New(llmSvc LLMService, positions PositionService, log *zap.Logger, addr string) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(log))

	s := &Server{
		engine:    engine,
		llm:       llmSvc,
		positions: positions,
		norm:      evalnorm.New(log),
		log:       log,
	}
	s.registerRoutes()

	s.server = &http.Server{
		Addr:           addr,
		Handler:        engine,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}
	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.health)

	v1 := s.engine.Group("/v1")
	{
		v1.POST("/chat", s.chat)
		v1.POST("/evaluate", s.evaluate)
		v1.POST("/outline", s.outline)
		v1.POST("/positions/infer", s.inferPositions)
	}
}

// Run starts the HTTP server and blocks until it stops.
func (s *Server) Run() error {
	s.log.Info("http server starting", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler returns the underlying HTTP handler. Test seam.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
