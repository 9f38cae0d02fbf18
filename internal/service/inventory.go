package service

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/mmynk/glasspos/internal/export"
	"github.com/mmynk/glasspos/internal/ledger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type productRequest struct {
	Name     string          `json:"name" binding:"required"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	Image    string          `json:"image"`
	Stock    int             `json:"stock" binding:"gte=0"`
}

func (r productRequest) input() ledger.ProductInput {
	return ledger.ProductInput{Name: r.Name, Price: r.Price, Category: r.Category, Image: r.Image}
}

type adjustRequest struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason"`
}

func (s *Server) createProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	product, err := s.ledger.AddProduct(c.Request.Context(), req.input(), req.Stock)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// updateProduct edits descriptive fields; stock in the body is ignored.
func (s *Server) updateProduct(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	product, err := s.ledger.UpdateProduct(c.Request.Context(), id, req.input())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (s *Server) deleteProduct(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	if err := s.ledger.DeleteProduct(c.Request.Context(), id); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) adjustStock(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	var req adjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	entry, err := s.ledger.AdjustStock(c.Request.Context(), id, req.Delta, req.Reason)
	if err != nil {
		s.writeError(c, err)
		return
	}
	product, _ := s.ledger.Product(id)
	c.JSON(http.StatusOK, gin.H{"product": product, "entry": entry})
}

func (s *Server) exportInventory(c *gin.Context) {
	var buf bytes.Buffer
	if err := export.WriteInventory(&buf, s.ledger.Products()); err != nil {
		s.writeError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="inventory.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// importInventory upserts products from an uploaded workbook. A malformed
// sheet is rejected as a whole.
func (s *Server) importInventory(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		badRequest(c, fmt.Errorf("file is required: %w", err))
		return
	}
	f, err := header.Open()
	if err != nil {
		s.writeError(c, err)
		return
	}
	defer f.Close()

	products, err := export.ReadInventory(f)
	if err != nil {
		s.writeError(c, err)
		return
	}
	n, err := s.ledger.ImportProducts(c.Request.Context(), products, ledger.ReasonImport)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.logger.Info("Inventory imported", "file", header.Filename, "products", n)
	c.JSON(http.StatusOK, gin.H{"imported": n})
}
