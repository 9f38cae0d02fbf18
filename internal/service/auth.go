package service

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mmynk/glasspos/internal/middleware"
	"github.com/mmynk/glasspos/internal/models"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userView struct {
	ID       int         `json:"id"`
	Username string      `json:"username"`
	Name     string      `json:"name"`
	Role     models.Role `json:"role"`
}

func viewUser(u models.User) userView {
	return userView{ID: u.ID, Username: u.Username, Name: u.Name, Role: u.Role}
}

// login authenticates a user and returns a session token.
func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	s.logger.Info("Login request", "username", req.Username)

	user, err := s.authenticator.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		s.logger.Warn("Login failed", "username", req.Username, "error", err)
		s.writeError(c, err)
		return
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		s.writeError(c, err)
		return
	}

	s.logger.Info("User logged in", "user_id", user.ID, "role", user.Role)
	c.JSON(http.StatusOK, gin.H{"token": token, "user": viewUser(*user)})
}

// logout discards the caller's cart session.
func (s *Server) logout(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	s.carts.Drop(claims.UserID)
	s.logger.Info("User logged out", "user_id", claims.UserID)
	c.Status(http.StatusNoContent)
}

func (s *Server) me(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	user, ok := s.ledger.User(claims.UserID)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user no longer exists"})
		return
	}
	c.JSON(http.StatusOK, viewUser(user))
}
