package handlers

import (
	"errors"
	"net/http"

	"finance-dashboard/api/events"
	"finance-dashboard/api/logger"
	"finance-dashboard/api/models"
	"finance-dashboard/api/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GetDashboard returns the user's full aggregate document.
func (h *Handlers) GetDashboard(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	doc, err := h.Store.Find(c, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			logger.Get().Error("dashboard not provisioned",
				zap.String("user_id", claims.UserID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Dashboard not provisioned"})
			return
		}
		logger.Get().Error("error fetching dashboard",
			zap.String("user_id", claims.UserID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, doc)
}

// UpdateOverview handles PUT /api/dashboard/overview. The route is declared
// as /dashboard/:list so it cannot collide with the entry routes; any other
// list name here is a client error.
func (h *Handlers) UpdateOverview(c *gin.Context) {
	if c.Param("list") != "overview" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown resource"})
		return
	}

	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	var ov models.Overview
	if err := c.ShouldBindJSON(&ov); err != nil {
		logger.Get().Error("error binding JSON", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Store.SetOverview(c, claims.UserID, ov); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Dashboard not provisioned"})
			return
		}
		logger.Get().Error("error updating overview",
			zap.String("user_id", claims.UserID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.Broker.Publish(claims.UserID, events.Event{Type: events.TypeDashboardUpdated, List: "overview"})
	c.JSON(http.StatusOK, ov)
}
