package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/browsim/internal/domain/history"
	"github.com/GriffinCanCode/browsim/internal/domain/navigation"
	"github.com/GriffinCanCode/browsim/internal/domain/tabs"
	"github.com/GriffinCanCode/browsim/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/browsim/internal/shared/utils"
)

// Version is reported by the root endpoint
const Version = "0.1.0"

// Handlers contains all HTTP handlers
type Handlers struct {
	coordinator *navigation.Coordinator
	formatter   *history.Formatter
	metrics     *monitoring.Metrics
	logger      *zap.Logger
	now         func() time.Time
}

// NewHandlers creates a new handler set. metrics may be nil.
func NewHandlers(
	coordinator *navigation.Coordinator,
	formatter *history.Formatter,
	metrics *monitoring.Metrics,
	logger *zap.Logger,
) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		coordinator: coordinator,
		formatter:   formatter,
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
	}
}

// inputRequest is the body of PUT /api/input and POST /api/navigate
type inputRequest struct {
	Text string `json:"text"`
}

// HistoryItem is a history entry decorated for display
type HistoryItem struct {
	history.Entry
	Relative string `json:"relative"`
}

// Root reports service identity
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "browsim",
		"version": Version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	state := h.coordinator.State()
	resp := gin.H{
		"status":          "healthy",
		"tabs_open":       len(state.Tabs),
		"history_entries": len(state.History),
	}
	if h.metrics != nil {
		resp["metrics"] = h.metrics.Snapshot()
	}
	c.JSON(http.StatusOK, resp)
}

// GetState returns the current navigation state
func (h *Handlers) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.coordinator.State())
}

// SetInput records address bar edits
func (h *Handlers) SetInput(c *gin.Context) {
	req, ok := h.bindInput(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.coordinator.SetInput(req.Text))
}

// Navigate submits the address bar text. Blank text returns the unchanged state.
func (h *Handlers) Navigate(c *gin.Context) {
	req, ok := h.bindInput(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.coordinator.Submit(c.Request.Context(), req.Text))
}

// NewTab opens a blank tab
func (h *Handlers) NewTab(c *gin.Context) {
	c.JSON(http.StatusCreated, h.coordinator.NewTab())
}

// ActivateTab switches to a tab
func (h *Handlers) ActivateTab(c *gin.Context) {
	tabID, err := utils.ValidateTabID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, err := h.coordinator.SwitchTab(tabID)
	h.respond(c, state, err)
}

// CloseTab closes a tab. Closing the only tab returns the unchanged state.
func (h *Handlers) CloseTab(c *gin.Context) {
	tabID, err := utils.ValidateTabID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, err := h.coordinator.CloseTab(tabID)
	h.respond(c, state, err)
}

// ListHistory returns history newest first with relative visit times
func (h *Handlers) ListHistory(c *gin.Context) {
	entries := h.coordinator.State().History
	now := h.now()

	items := make([]HistoryItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, HistoryItem{
			Entry:    e,
			Relative: h.formatter.Format(e.VisitedAt, now),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": items,
		"count":   len(items),
		"locale":  h.formatter.Locale().String(),
	})
}

// OpenHistory replays a history entry in the active tab
func (h *Handlers) OpenHistory(c *gin.Context) {
	entryID, err := utils.ValidateEntryID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, err := h.coordinator.OpenHistoryByID(entryID)
	h.respond(c, state, err)
}

// ClearHistory empties the history log
func (h *Handlers) ClearHistory(c *gin.Context) {
	c.JSON(http.StatusOK, h.coordinator.ClearHistory(c.Request.Context()))
}

func (h *Handlers) bindInput(c *gin.Context) (inputRequest, bool) {
	var req inputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return req, false
	}
	if err := utils.ValidateInput(req.Text); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return req, false
	}
	return req, true
}

func (h *Handlers) respond(c *gin.Context, state navigation.State, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, state)
	case errors.Is(err, tabs.ErrTabNotFound), errors.Is(err, history.ErrEntryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Intent failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
