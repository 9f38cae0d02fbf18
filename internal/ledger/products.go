package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/glasspos/internal/models"
)

// ProductInput carries the editable fields of a product.
type ProductInput struct {
	Name     string
	Price    decimal.Decimal
	Category string
	Image    string
}

func (in ProductInput) validate() error {
	p := models.Product{ID: 1, Name: strings.TrimSpace(in.Name), Price: in.Price, Image: in.Image}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, err)
	}
	return nil
}

// AddProduct creates a product with the next free ID. A positive
// initialStock is seeded through a stock adjustment with reason "New Item".
func (s *Store) AddProduct(ctx context.Context, in ProductInput, initialStock int) (models.Product, error) {
	if err := in.validate(); err != nil {
		return models.Product{}, err
	}
	if initialStock < 0 {
		return models.Product{}, fmt.Errorf("%w: initial stock must not be negative", ErrInvalidProduct)
	}
	category := in.Category
	if category == "" {
		category = "General"
	}

	var created models.Product
	err := s.mutate(ctx, "add_product", func(next *models.Snapshot) error {
		created = models.Product{
			ID:       next.NextProductID(),
			Name:     strings.TrimSpace(in.Name),
			Price:    in.Price,
			Category: category,
			Image:    in.Image,
		}
		next.Products = append(next.Products, created)
		if initialStock > 0 {
			if _, err := s.applyAdjustment(next, len(next.Products)-1, initialStock, ReasonNewItem); err != nil {
				return err
			}
			created.Stock = initialStock
		}
		return nil
	}, nil)
	if err != nil {
		return models.Product{}, err
	}

	s.logger.Info("Product added", "product_id", created.ID, "name", created.Name, "stock", created.Stock)
	return created, nil
}

// UpdateProduct edits descriptive fields. Stock is left alone; it only
// moves through AdjustStock and checkout.
func (s *Store) UpdateProduct(ctx context.Context, id int, in ProductInput) (models.Product, error) {
	if err := in.validate(); err != nil {
		return models.Product{}, err
	}

	var updated models.Product
	err := s.mutate(ctx, "update_product", func(next *models.Snapshot) error {
		i := next.ProductIndex(id)
		if i < 0 {
			return ErrProductNotFound
		}
		p := &next.Products[i]
		p.Name = strings.TrimSpace(in.Name)
		p.Price = in.Price
		if in.Category != "" {
			p.Category = in.Category
		}
		p.Image = in.Image
		updated = *p
		return nil
	}, nil)
	return updated, err
}

// DeleteProduct removes a product from the catalog. Sales and log entries
// that mention it are kept.
func (s *Store) DeleteProduct(ctx context.Context, id int) error {
	return s.mutate(ctx, "delete_product", func(next *models.Snapshot) error {
		i := next.ProductIndex(id)
		if i < 0 {
			return ErrProductNotFound
		}
		next.Products = append(next.Products[:i], next.Products[i+1:]...)
		return nil
	}, nil)
}

// ImportProducts upserts products by ID; ID 0 means "new". Stock
// differences against the current catalog are recorded as IN/OUT entries
// with the given reason. Any invalid row aborts the whole import.
// It returns the number of products created or changed.
func (s *Store) ImportProducts(ctx context.Context, products []models.Product, reason string) (int, error) {
	if reason == "" {
		reason = ReasonImport
	}
	for i, p := range products {
		if err := (ProductInput{Name: p.Name, Price: p.Price, Image: p.Image}).validate(); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+1, err)
		}
		if p.Stock < 0 || p.ID < 0 {
			return 0, fmt.Errorf("row %d: %w: negative id or stock", i+1, ErrInvalidProduct)
		}
	}

	changed := 0
	err := s.mutate(ctx, "import_products", func(next *models.Snapshot) error {
		changed = 0
		for _, in := range products {
			if in.Category == "" {
				in.Category = "General"
			}
			i := -1
			if in.ID > 0 {
				i = next.ProductIndex(in.ID)
			}
			if i < 0 {
				if in.ID == 0 {
					in.ID = next.NextProductID()
				}
				stock := in.Stock
				in.Stock = 0
				next.Products = append(next.Products, in)
				if stock > 0 {
					if _, err := s.applyAdjustment(next, len(next.Products)-1, stock, reason); err != nil {
						return err
					}
				}
				changed++
				continue
			}

			cur := &next.Products[i]
			delta := in.Stock - cur.Stock
			same := cur.Name == in.Name && cur.Price.Equal(in.Price) &&
				cur.Category == in.Category && cur.Image == in.Image
			if same && delta == 0 {
				continue
			}
			cur.Name, cur.Price, cur.Category, cur.Image = in.Name, in.Price, in.Category, in.Image
			if delta != 0 {
				if _, err := s.applyAdjustment(next, i, delta, reason); err != nil {
					return err
				}
			}
			changed++
		}
		return nil
	}, nil)
	if err != nil {
		return 0, err
	}

	s.logger.Info("Products imported", "rows", len(products), "changed", changed)
	return changed, nil
}
