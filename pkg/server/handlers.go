package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sable-systems/caseroute/pkg/llm"
	"github.com/sable-systems/caseroute/pkg/position"
)

type chatRequest struct {
	Model           string            `json:"model" binding:"required"`
	SystemPrompt    string            `json:"system_prompt"`
	History         []llm.ChatMessage `json:"history"`
	Message         string            `json:"message" binding:"required"`
	Temperature     *float64          `json:"temperature"`
	ReasoningEffort string            `json:"reasoning_effort"`
	CaseID          string            `json:"case_id"`
}

type promptRequest struct {
	Model           string   `json:"model" binding:"required"`
	Prompt          string   `json:"prompt" binding:"required"`
	Temperature     *float64 `json:"temperature"`
	ReasoningEffort string   `json:"reasoning_effort"`
	CaseID          string   `json:"case_id"`
}

type inferRequest struct {
	Model         string                  `json:"model" binding:"required"`
	Transcript    string                  `json:"transcript"`
	Conversations []position.Conversation `json:"conversations"`
	Case          caseData                `json:"case"`
	Options       []string                `json:"options"`
}

type caseData struct {
	Title            string `json:"title"`
	CentralQuestion  string `json:"central_question"`
	ArgumentsFor     string `json:"arguments_for"`
	ArgumentsAgainst string `json:"arguments_against"`
}

func (c caseData) toPosition() position.CaseData {
	return position.CaseData{
		Title:            c.Title,
		CentralQuestion:  c.CentralQuestion,
		ArgumentsFor:     c.ArgumentsFor,
		ArgumentsAgainst: c.ArgumentsAgainst,
	}
}

func (s *Server) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := s.llm.Chat(c.Request.Context(), req.Model, req.SystemPrompt, req.History, req.Message, llm.RouteConfig{
		Temperature:     req.Temperature,
		ReasoningEffort: req.ReasoningEffort,
		CaseID:          req.CaseID,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) evaluate(c *gin.Context) {
	var req promptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := s.llm.Evaluate(c.Request.Context(), req.Model, req.Prompt, llm.RouteConfig{
		Temperature:     req.Temperature,
		ReasoningEffort: req.ReasoningEffort,
		CaseID:          req.CaseID,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	eval, err := s.norm.Parse(res.Text)
	if err != nil {
		// The provider answered but not with usable JSON.
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "raw": res.Text})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"evaluation": eval,
		"raw":        res.Text,
		"meta":       res.Meta,
	})
}

func (s *Server) outline(c *gin.Context) {
	var req promptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := s.llm.GenerateOutline(c.Request.Context(), req.Model, req.Prompt, llm.RouteConfig{
		Temperature:     req.Temperature,
		ReasoningEffort: req.ReasoningEffort,
		CaseID:          req.CaseID,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) inferPositions(c *gin.Context) {
	var req inferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(req.Conversations) > 0 {
		results := s.positions.InferBatch(c.Request.Context(), req.Conversations, req.Case.toPosition(), req.Options, req.Model)
		c.JSON(http.StatusOK, gin.H{"results": results})
		return
	}

	res := s.positions.Infer(c.Request.Context(), req.Transcript, req.Case.toPosition(), req.Options, req.Model)
	c.JSON(http.StatusOK, gin.H{"result": res})
}

func (s *Server) writeError(c *gin.Context, err error) {
	var missing *llm.MissingKeyError
	var provErr *llm.ProviderError

	switch {
	case errors.As(err, &missing):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.As(err, &provErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
