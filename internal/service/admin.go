package service

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mmynk/glasspos/internal/models"
)

type userRequest struct {
	Username string      `json:"username" binding:"required"`
	Password string      `json:"password" binding:"required"`
	Name     string      `json:"name"`
	Role     models.Role `json:"role" binding:"required,oneof=Admin Staff"`
}

func (s *Server) listUsers(c *gin.Context) {
	users := s.ledger.Users()
	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, viewUser(u))
	}
	c.JSON(http.StatusOK, gin.H{"users": views})
}

func (s *Server) createUser(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.authenticator.ValidateCredential(req.Password); err != nil {
		s.writeError(c, err)
		return
	}
	user, err := s.ledger.AddUser(c.Request.Context(), req.Username, req.Password, req.Name, req.Role)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, viewUser(user))
}

func (s *Server) deleteUser(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	if err := s.ledger.RemoveUser(c.Request.Context(), id); err != nil {
		s.writeError(c, err)
		return
	}
	s.carts.Drop(id)
	c.Status(http.StatusNoContent)
}

func (s *Server) updateProfile(c *gin.Context) {
	var profile models.BusinessProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.ledger.UpdateProfile(c.Request.Context(), profile); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.ledger.Profile())
}
