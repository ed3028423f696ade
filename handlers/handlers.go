package handlers

import (
	"net/http"

	"finance-dashboard/api/events"
	"finance-dashboard/api/logger"
	"finance-dashboard/api/models"
	"finance-dashboard/api/store"

	"github.com/gin-gonic/gin"
)

// UserStore is the account-row surface the auth handlers need, satisfied by
// db.Users.
type UserStore interface {
	CreateUser(email, passwordHash string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	EmailTaken(email string) (bool, error)
	DeleteUser(id string) error
}

// Handlers holds the collaborators every endpoint needs. Wiring them through
// a struct instead of package globals keeps the stores swappable in tests.
type Handlers struct {
	Store  store.Store
	Users  UserStore
	Broker *events.Broker
}

func New(st store.Store, users UserStore, broker *events.Broker) *Handlers {
	return &Handlers{Store: st, Users: users, Broker: broker}
}

// currentClaims pulls the authenticated user's claims out of the gin context.
// Responds 401 and returns false when the auth middleware did not run.
func currentClaims(c *gin.Context) (*models.UserClaims, bool) {
	user, exists := c.Get("user")
	if !exists {
		logger.Get().Error("user not authenticated")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil, false
	}

	claims, ok := user.(*models.UserClaims)
	if !ok {
		logger.Get().Error("invalid user claims")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user claims"})
		return nil, false
	}
	return claims, true
}
