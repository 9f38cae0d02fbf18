package service

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/mmynk/glasspos/internal/auth"
	"github.com/mmynk/glasspos/internal/export"
	"github.com/mmynk/glasspos/internal/ledger"
	"github.com/mmynk/glasspos/internal/middleware"
	"github.com/mmynk/glasspos/internal/models"
)

type cartView struct {
	Items     []models.CartLine `json:"items"`
	Total     decimal.Decimal   `json:"total"`
	ItemCount int               `json:"itemCount"`
}

type cartAddRequest struct {
	ProductID int `json:"productId" binding:"required"`
}

type cartUpdateRequest struct {
	Delta int `json:"delta" binding:"required"`
}

type saleView struct {
	models.Sale
	BillNo string `json:"billNo"`
}

func (s *Server) listProducts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"products": s.ledger.Products()})
}

func (s *Server) getProfile(c *gin.Context) {
	c.JSON(http.StatusOK, s.ledger.Profile())
}

func (s *Server) currentCart(c *gin.Context) cartView {
	session := s.carts.Get(middleware.CurrentClaims(c).UserID)
	return cartView{
		Items:     session.Lines(),
		Total:     session.Total(),
		ItemCount: session.ItemCount(),
	}
}

func (s *Server) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, s.currentCart(c))
}

func (s *Server) addToCart(c *gin.Context) {
	var req cartAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	product, ok := s.ledger.Product(req.ProductID)
	if !ok {
		s.writeError(c, ledger.ErrProductNotFound)
		return
	}
	session := s.carts.Get(middleware.CurrentClaims(c).UserID)
	if err := session.AddOrIncrement(product); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.currentCart(c))
}

func (s *Server) updateCartLine(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	var req cartUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	session := s.carts.Get(middleware.CurrentClaims(c).UserID)
	if err := session.UpdateQuantity(id, req.Delta); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.currentCart(c))
}

func (s *Server) removeCartLine(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	session := s.carts.Get(middleware.CurrentClaims(c).UserID)
	if err := session.Remove(id); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.currentCart(c))
}

func (s *Server) clearCart(c *gin.Context) {
	s.carts.Get(middleware.CurrentClaims(c).UserID).Clear()
	c.JSON(http.StatusOK, s.currentCart(c))
}

// checkout commits the caller's cart as one sale.
func (s *Server) checkout(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	session := s.carts.Get(claims.UserID)

	sale, err := s.ledger.Checkout(c.Request.Context(), session, ledger.Cashier{UserID: claims.UserID, Name: claims.Name})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saleView{Sale: *sale, BillNo: sale.BillNo()})
}

// receipt renders a text receipt. Staff may only print sales they rang up;
// sales without a recorded cashier ID are visible to admins only.
func (s *Server) receipt(c *gin.Context) {
	sale, ok := s.ledger.Sale(c.Param("id"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "sale not found"})
		return
	}
	claims := middleware.CurrentClaims(c)
	if !claims.HasRole(models.RoleAdmin) && sale.CashierID != claims.UserID {
		s.writeError(c, auth.ErrForbidden)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteReceipt(&buf, sale, s.ledger.Profile(), s.loc); err != nil {
		s.writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", buf.Bytes())
}
