// Package ntfystub is an in-process stand-in for an ntfy server. It accepts
// JSON publishes and keeps them per topic so tests can assert on the
// notifications a tick produced.
package ntfystub

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	storage *Storage
}

func NewHandler(storage *Storage) *Handler {
	return &Handler{storage: storage}
}

func (h *Handler) HandlePublish(c *gin.Context) {
	if status := h.storage.nextFailure(); status != 0 {
		c.JSON(status, gin.H{"error": "injected failure"})
		return
	}

	var msg Message
	if err := c.ShouldBindJSON(&msg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if msg.Topic == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "topic is required"})
		return
	}

	msg.Auth = c.GetHeader("Authorization")
	msg.ReceivedAt = time.Now()
	h.storage.Add(msg)

	slog.Debug("stub publish received",
		slog.String("topic", msg.Topic),
		slog.String("title", msg.Title),
	)

	c.JSON(http.StatusOK, gin.H{"id": msg.ReceivedAt.Format(time.RFC3339Nano), "topic": msg.Topic})
}

func (h *Handler) HandleMessages(c *gin.Context) {
	messages := h.storage.Messages(c.Param("topic"))
	c.JSON(http.StatusOK, MessagesResponse{Messages: messages, Count: len(messages)})
}

func (h *Handler) HandleReset(c *gin.Context) {
	if topic := c.Query("topic"); topic != "" {
		h.storage.Reset(topic)
	} else {
		h.storage.ResetAll()
	}
	c.JSON(http.StatusOK, gin.H{"status": "reset complete"})
}

func (h *Handler) HandleFail(c *gin.Context) {
	var req FailRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Count <= 0 || req.Status < 400 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "count > 0 and status >= 400 are required"})
		return
	}
	h.storage.FailNext(req.Count, req.Status)
	c.JSON(http.StatusOK, gin.H{"queued": req.Count})
}

func (h *Handler) Router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/", h.HandlePublish)
	r.GET("/_stub/messages/:topic", h.HandleMessages)
	r.POST("/_stub/reset", h.HandleReset)
	r.POST("/_stub/fail", h.HandleFail)
	return r
}

// Server is a running stub. URL is the ntfy base URL to configure clients with.
type Server struct {
	*Storage
	URL string
	srv *httptest.Server
}

func NewServer() *Server {
	storage := NewStorage()
	srv := httptest.NewServer(NewHandler(storage).Router())
	return &Server{
		Storage: storage,
		URL:     srv.URL,
		srv:     srv,
	}
}

func (s *Server) Close() {
	s.srv.Close()
}
