package http

import (
	"net/http"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"journal-insight/internal/domain"
	"journal-insight/internal/repository"
	"journal-insight/internal/service"
)

const minTextRunes = 3

// AnalysisHandler expone el análisis de entradas y el reencuadre de pensamientos.
type AnalysisHandler struct {
	logger   *zap.Logger
	analyzer *service.AIService
	reframer *service.ReframingService
	toolkits repository.ToolkitRepository
}

func NewAnalysisHandler(
	logger *zap.Logger,
	analyzer *service.AIService,
	reframer *service.ReframingService,
	toolkits repository.ToolkitRepository,
) *AnalysisHandler {
	return &AnalysisHandler{
		logger:   logger,
		analyzer: analyzer,
		reframer: reframer,
		toolkits: toolkits,
	}
}

// Analyze maneja POST /analyze.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req struct {
		UserID    string `json:"user_id"`
		Text      string `json:"text" binding:"required"`
		AIEnabled bool   `json:"ai_enabled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || !hasMinText(req.Text) {
		h.logger.Warn("invalid analyze request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "text must have at least 3 characters"})
		return
	}

	toolkit, err := loadToolkit(c, h.toolkits, req.UserID)
	if err != nil {
		h.logger.Error("load toolkit failed", zap.Error(err), zap.String("user_id", req.UserID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load toolkit"})
		return
	}

	analysis := h.analyzer.AnalyzeEntryForUser(c.Request.Context(), req.UserID, req.Text, toolkit, req.AIEnabled)
	c.JSON(http.StatusOK, gin.H{"analysis": analysis})
}

// Reframe maneja POST /reframe.
func (h *AnalysisHandler) Reframe(c *gin.Context) {
	var req struct {
		Thought        string `json:"thought" binding:"required"`
		DistortionType string `json:"distortion_type" binding:"required"`
		Context        string `json:"context"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || !hasMinText(req.Thought) {
		h.logger.Warn("invalid reframe request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	reframe := h.reframer.GenerateReframedThought(c.Request.Context(), req.Thought, req.DistortionType, req.Context)
	c.JSON(http.StatusOK, gin.H{"reframe": reframe})
}

// hasMinText cuenta solo caracteres visibles.
func hasMinText(s string) bool {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n >= minTextRunes
}

func loadToolkit(c *gin.Context, repo repository.ToolkitRepository, userID string) ([]domain.EmotionalToolkitItem, error) {
	if repo == nil || strings.TrimSpace(userID) == "" {
		return nil, nil
	}
	return repo.Get(c.Request.Context(), userID)
}
