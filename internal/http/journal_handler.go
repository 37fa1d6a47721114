package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"journal-insight/internal/domain"
	"journal-insight/internal/repository"
	"journal-insight/internal/service"
)

// JournalHandler mantiene dependencias para toolkit y entradas persistidas.
type JournalHandler struct {
	logger   *zap.Logger
	analyzer *service.AIService
	toolkits repository.ToolkitRepository
	entries  repository.EntryRepository
}

func NewJournalHandler(
	logger *zap.Logger,
	analyzer *service.AIService,
	toolkits repository.ToolkitRepository,
	entries repository.EntryRepository,
) *JournalHandler {
	return &JournalHandler{
		logger:   logger,
		analyzer: analyzer,
		toolkits: toolkits,
		entries:  entries,
	}
}

// GetToolkit maneja GET /toolkit?user_id=.
func (h *JournalHandler) GetToolkit(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("user_id"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	items, err := h.toolkits.Get(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("get toolkit failed", zap.Error(err), zap.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load toolkit"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// PutToolkit maneja PUT /toolkit.
func (h *JournalHandler) PutToolkit(c *gin.Context) {
	var req struct {
		UserID string                        `json:"user_id" binding:"required"`
		Items  []domain.EmotionalToolkitItem `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid toolkit request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	items := make([]domain.EmotionalToolkitItem, 0, len(req.Items))
	for _, it := range req.Items {
		if strings.TrimSpace(it.Emotion) == "" {
			continue
		}
		items = append(items, it)
	}

	if err := h.toolkits.Save(c.Request.Context(), req.UserID, items); err != nil {
		h.logger.Error("save toolkit failed", zap.Error(err), zap.String("user_id", req.UserID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save toolkit"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// CreateEntry maneja POST /entries: analiza y persiste la entrada.
func (h *JournalHandler) CreateEntry(c *gin.Context) {
	var req struct {
		UserID    string `json:"user_id" binding:"required"`
		Text      string `json:"text" binding:"required"`
		AIEnabled bool   `json:"ai_enabled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || !hasMinText(req.Text) {
		h.logger.Warn("invalid create entry request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	ctx := c.Request.Context()
	toolkit, err := loadToolkit(c, h.toolkits, req.UserID)
	if err != nil {
		h.logger.Error("load toolkit failed", zap.Error(err), zap.String("user_id", req.UserID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load toolkit"})
		return
	}

	analysis := h.analyzer.AnalyzeEntryForUser(ctx, req.UserID, req.Text, toolkit, req.AIEnabled)
	entry, err := h.entries.Create(ctx, domain.JournalEntry{
		UserID:   req.UserID,
		Text:     req.Text,
		Analysis: &analysis,
	})
	if err != nil {
		h.logger.Error("create entry failed", zap.Error(err), zap.String("user_id", req.UserID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save entry"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}

// ListEntries maneja GET /entries?user_id=.
func (h *JournalHandler) ListEntries(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("user_id"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	entries, err := h.entries.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("list entries failed", zap.Error(err), zap.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load entries"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
