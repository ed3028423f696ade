package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"finance-dashboard/api/logger"
	"finance-dashboard/api/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HandleEvents streams dashboard change events over SSE. EventSource cannot
// set headers, so the token rides in the query string.
func (h *Handlers) HandleEvents(c *gin.Context) {
	tokenString := c.DefaultQuery("token", "")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid token"})
		return
	}

	claims, err := middleware.ParseToken(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: " + err.Error()})
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.String(http.StatusInternalServerError, "Streaming unsupported!")
		return
	}

	ch, cancel := h.Broker.Subscribe(claims.UserID)
	defer cancel()

	logger.Get().Info("SSE connection established",
		zap.String("user_id", claims.UserID))
	defer logger.Get().Info("SSE connection closed",
		zap.String("user_id", claims.UserID))

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				logger.Get().Error("error marshaling event", zap.Error(err))
				return true
			}
			c.Writer.Write([]byte("data: " + string(payload) + "\n\n"))
			flusher.Flush()
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
