package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/waste3d/pianoplatform-api/internal/application/usecase"
	"github.com/waste3d/pianoplatform-api/internal/domain"
	"github.com/waste3d/pianoplatform-api/internal/infrastructure/logger"
	"github.com/waste3d/pianoplatform-api/internal/middleware"
)

type SessionHandler struct {
	sessions *usecase.Manager
	reviews  *usecase.ReviewAggregator
	log      *logger.Logger
}

func NewSessionHandler(sessions *usecase.Manager, reviews *usecase.ReviewAggregator, log *logger.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, reviews: reviews, log: log}
}

type submitReviewRequest struct {
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Feedback string `json:"feedback" binding:"max=2000"`
}

type reviewDialogRequest struct {
	Open *bool `json:"open" binding:"required"`
}

// GET /api/v1/reviews
func (h *SessionHandler) ListReviews(c *gin.Context) {
	summary, err := h.reviews.Summary(c)
	if err != nil {
		h.log.Error("review summary unavailable", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Reviews temporarily unavailable"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// POST /api/v1/sessions and POST /api/v1/admin/sessions
func (h *SessionHandler) Open(c *gin.Context) {
	admin := domain.IsAdminPath(c.FullPath())
	s := h.sessions.Open(c, middleware.CurrentUser(c), admin)

	st := s.State()
	if !st.Access.Granted() {
		// the session stays open so the client can follow the redirect events
		c.JSON(http.StatusForbidden, gin.H{
			"error":     "Access denied",
			"sessionId": st.ID,
			"actions":   []string{domain.PricingPath, domain.HomePath},
		})
		return
	}
	c.JSON(http.StatusCreated, st)
}

// GET /api/v1/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.State())
}

// POST /api/v1/sessions/:id/sections/:section/complete
func (h *SessionHandler) CompleteSection(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	section, err := domain.ParseSection(c.Param("section"))
	if err != nil {
		h.fail(c, err)
		return
	}
	res, err := s.MarkCompleted(c, section)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /api/v1/sessions/:id/reviews
func (h *SessionHandler) SubmitReview(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req submitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	summary, err := s.SubmitReview(c, req.Rating, req.Feedback)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, summary)
}

// PUT /api/v1/sessions/:id/review-dialog
func (h *SessionHandler) SetReviewDialog(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req reviewDialogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st, err := s.SetReviewDialogOpen(*req.Open)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// DELETE /api/v1/sessions/:id
func (h *SessionHandler) Close(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	h.sessions.Close(s.ID)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GET /api/v1/sessions/:id/events
//
// Streams session events as server-sent events. A redirect ends the stream,
// and so does the client going away; either way the session is torn down.
func (h *SessionHandler) Events(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	defer h.sessions.Close(s.ID)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	for {
		select {
		case <-c.Request.Context().Done():
			h.log.Debug("event stream disconnected", "session_id", s.ID.String())
			return
		case ev, open := <-s.Events():
			if !open {
				return
			}
			c.SSEvent(ev.Type, ev)
			c.Writer.Flush()
			if ev.Type == usecase.EventRedirect {
				return
			}
		}
	}
}

func (h *SessionHandler) session(c *gin.Context) (*usecase.Session, bool) {
	s, err := h.sessions.Get(c.Param("id"), middleware.CurrentUser(c))
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return s, true
}

func (h *SessionHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrSessionOwner):
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
	case errors.Is(err, domain.ErrSessionClosed):
		c.JSON(http.StatusGone, gin.H{"error": "Session closed"})
	case errors.Is(err, domain.ErrAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "Access denied",
			"actions": []string{domain.PricingPath, domain.HomePath},
		})
	case errors.Is(err, domain.ErrUnknownSection), errors.Is(err, domain.ErrRatingRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrSubmitFailed):
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "failed to submit, please retry",
			"dialogOpen": true,
		})
	default:
		h.log.Error("unhandled session error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}
