package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lifeops/internal/agent"
	"lifeops/internal/models"
	"lifeops/internal/transcribe"
)

// Handler bundles the HTTP endpoint handlers for the agent service.
type Handler struct {
	svc         *agent.Service
	transcriber *transcribe.Transcriber
	defaultUser string
}

// NewHandler creates a Handler. defaultUser identifies the user context
// requests operate on until the boundary grows real identity handling.
func NewHandler(svc *agent.Service, transcriber *transcribe.Transcriber, defaultUser string) *Handler {
	return &Handler{svc: svc, transcriber: transcriber, defaultUser: defaultUser}
}

// Root reports service liveness.
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "LifeOps Agent Backend Running"})
}

// Transcribe accepts an audio upload and returns its transcript. A
// missing provider credential is the only hard failure; provider
// problems degrade to the fallback transcript with status "degraded".
func (h *Handler) Transcribe(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "audio file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.transcriber.Transcribe(c.Request.Context(), audio, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		if errors.Is(err, models.ErrMissingCredential) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		return
	}

	resp := gin.H{"text": result.Text, "status": "success"}
	if !result.Succeeded {
		resp["status"] = "degraded"
		resp["error"] = result.ErrDetail
	}
	c.JSON(http.StatusOK, resp)
}

type processRequest struct {
	Text string `json:"text"`
}

// ProcessInput runs the inference pipeline on the submitted text. The
// text is read from the JSON body, falling back to a query parameter
// for compatibility with simple clients.
func (h *Handler) ProcessInput(c *gin.Context) {
	var req processRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		req.Text = c.Query("text")
	}
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	result, err := h.svc.RunInference(c.Request.Context(), h.defaultUser, req.Text)
	if err != nil {
		if errors.Is(err, models.ErrStorageUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         "Agent reasoning complete",
		"context_facts":  result.Facts,
		"tasks_inferred": result.TaskCount,
	})
}

// GetState returns the aggregated user state for the UI to render.
func (h *Handler) GetState(c *gin.Context) {
	state, err := h.svc.GetState(c.Request.Context(), h.defaultUser)
	if err != nil {
		if errors.Is(err, models.ErrStorageUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"context_facts":  orEmptyFacts(state.Facts),
		"inferred_tasks": orEmptyTasks(state.Tasks),
		"activity_logs":  orEmptyStrings(state.Activities),
		"api_calls":      orEmptyEntries(state.Ledger),
	})
}

// The UI expects arrays, never null.

func orEmptyFacts(v []models.Fact) []models.Fact {
	if v == nil {
		return []models.Fact{}
	}
	return v
}

func orEmptyTasks(v []models.Task) []models.Task {
	if v == nil {
		return []models.Task{}
	}
	return v
}

func orEmptyStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func orEmptyEntries(v []models.LedgerEntry) []models.LedgerEntry {
	if v == nil {
		return []models.LedgerEntry{}
	}
	return v
}
