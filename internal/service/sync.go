package service

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mmynk/glasspos/internal/cloudsync"
	"github.com/mmynk/glasspos/internal/models"
)

type syncView struct {
	Config models.RemoteSyncConfig `json:"config"`
	Status cloudsync.Status        `json:"status"`
}

type createRemoteRequest struct {
	Token string `json:"token" binding:"required"`
}

type pullRequest struct {
	Confirm bool `json:"confirm"`
}

func maskToken(token string) string {
	if len(token) <= 4 {
		return token
	}
	return "****" + token[len(token)-4:]
}

func (s *Server) currentSync() syncView {
	cfg := s.sync.Config()
	cfg.Token = maskToken(cfg.Token)
	return syncView{Config: cfg, Status: s.sync.Status()}
}

func (s *Server) syncStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.currentSync())
}

func (s *Server) configureSync(c *gin.Context) {
	var cfg models.RemoteSyncConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.sync.Configure(c.Request.Context(), cfg); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.currentSync())
}

func (s *Server) createRemote(c *gin.Context) {
	var req createRemoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	id, err := s.sync.CreateRemote(c.Request.Context(), req.Token)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.logger.Info("Remote created", "gist_id", id)
	c.JSON(http.StatusCreated, s.currentSync())
}

func (s *Server) pushNow(c *gin.Context) {
	if err := s.sync.PushNow(c.Request.Context()); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.currentSync())
}

// pull overwrites local data with the remote copy. The body must carry
// {"confirm": true}.
func (s *Server) pull(c *gin.Context) {
	var req pullRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.sync.Pull(c.Request.Context(), req.Confirm); err != nil {
		s.writeError(c, err)
		return
	}
	// every cart may reference products that no longer exist
	s.carts.Reset()
	c.JSON(http.StatusOK, s.currentSync())
}

func (s *Server) importRemoteInventory(c *gin.Context) {
	n, err := s.sync.ImportInventory(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"imported": n})
}
