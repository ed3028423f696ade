package handlers

import (
	"net/http"
	"os"
	"time"

	"finance-dashboard/api/db"
	"finance-dashboard/api/logger"
	"finance-dashboard/api/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 7 * 24 * time.Hour

type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Signup creates the account row and provisions the user's empty dashboard
// aggregate. The aggregate must exist before any dashboard call, so a
// provisioning failure here fails the whole signup.
func (h *Handlers) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Get().Error("error binding JSON", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	taken, err := h.Users.EmailTaken(req.Email)
	if err != nil {
		logger.Get().Error("error checking email", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if taken {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		logger.Get().Error("error hashing password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	user, err := h.Users.CreateUser(req.Email, string(hash))
	if err != nil {
		logger.Get().Error("error creating user",
			zap.String("email", req.Email),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.Store.Provision(c, user.ID); err != nil {
		logger.Get().Error("error provisioning dashboard",
			zap.String("user_id", user.ID),
			zap.Error(err))
		// The account row without an aggregate would wedge the email: 409 on
		// retry, 404 on every dashboard read. Remove it so signup can retry.
		if delErr := h.Users.DeleteUser(user.ID); delErr != nil {
			logger.Get().Error("error removing user after failed provisioning",
				zap.String("user_id", user.ID),
				zap.Error(delErr))
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	token, err := issueToken(user)
	if err != nil {
		logger.Get().Error("error signing token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	logger.Get().Info("user signed up",
		zap.String("user_id", user.ID))
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Get().Error("error binding JSON", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Users.GetUserByEmail(req.Email)
	if err != nil {
		if err == db.ErrNoUser {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		logger.Get().Error("error fetching user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := issueToken(user)
	if err != nil {
		logger.Get().Error("error signing token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	logger.Get().Info("user logged in",
		zap.String("user_id", user.ID))
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

func issueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &models.UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
		UserID: user.ID,
		Email:  user.Email,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
