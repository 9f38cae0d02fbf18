package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestDefaultSnapshot(t *testing.T) {
	s := DefaultSnapshot()
	if len(s.Products) != 4 {
		t.Fatalf("seeded %d products, want 4", len(s.Products))
	}
	if s.Products[0].Name != "Masala Chai" || !s.Products[0].Price.Equal(decimal.NewFromInt(15)) || s.Products[0].Stock != 100 {
		t.Errorf("first product = %+v", s.Products[0])
	}
	if s.AdminCount() != 1 {
		t.Errorf("AdminCount() = %d, want 1", s.AdminCount())
	}
	if s.Profile.Name != "Prasad coffee shop" {
		t.Errorf("profile name = %q", s.Profile.Name)
	}
}

func TestUpgradeCredentials(t *testing.T) {
	s := DefaultSnapshot()

	changed, err := s.UpgradeCredentials()
	if err != nil {
		t.Fatalf("UpgradeCredentials() error = %v", err)
	}
	if !changed {
		t.Fatal("expected seeded plaintext passwords to be upgraded")
	}
	for _, u := range s.Users {
		if u.Password != "" {
			t.Errorf("user %s still carries a plaintext password", u.Username)
		}
		if !CheckPassword(u.PasswordHash, "123") {
			t.Errorf("user %s hash does not match seeded password", u.Username)
		}
	}

	changed, err = s.UpgradeCredentials()
	if err != nil || changed {
		t.Errorf("second UpgradeCredentials() = %v, %v; want false, nil", changed, err)
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := DefaultSnapshot()
	s.Sales = []Sale{{ID: "S1", Items: []CartLine{LineFromProduct(s.Products[0], 1)}, Total: decimal.NewFromInt(15)}}

	c := s.Clone()
	c.Products[0].Stock = 0
	c.Sales[0].Items[0].Quantity = 9
	c.Users[0].Name = "changed"

	if s.Products[0].Stock != 100 {
		t.Error("clone shares products with original")
	}
	if s.Sales[0].Items[0].Quantity != 1 {
		t.Error("clone shares sale items with original")
	}
	if s.Users[0].Name != "Super Admin" {
		t.Error("clone shares users with original")
	}
}

func TestNextIDs(t *testing.T) {
	s := &Snapshot{
		Products: []Product{{ID: 3}, {ID: 9}, {ID: 4}},
		Users:    []User{{ID: 2}},
	}
	if got := s.NextProductID(); got != 10 {
		t.Errorf("NextProductID() = %d, want 10", got)
	}
	if got := s.NextUserID(); got != 3 {
		t.Errorf("NextUserID() = %d, want 3", got)
	}
	if got := (&Snapshot{}).NextProductID(); got != 1 {
		t.Errorf("NextProductID() on empty = %d, want 1", got)
	}
}

func TestSaleHelpers(t *testing.T) {
	sale := Sale{
		ID: "1H2J3K4L5M6N",
		Items: []CartLine{
			{ProductID: 1, Name: "Masala Chai", Price: decimal.NewFromInt(15), Quantity: 2},
			{ProductID: 2, Name: "Filter Coffee", Price: decimal.NewFromInt(25), Quantity: 1},
		},
	}
	if got := sale.BillNo(); got != "4L5M6N" {
		t.Errorf("BillNo() = %q, want 4L5M6N", got)
	}
	if got := (Sale{ID: "ABC"}).BillNo(); got != "ABC" {
		t.Errorf("short BillNo() = %q, want ABC", got)
	}
	if got := sale.ItemCount(); got != 3 {
		t.Errorf("ItemCount() = %d, want 3", got)
	}
	if got := sale.Items[0].Amount(); !got.Equal(decimal.NewFromInt(30)) {
		t.Errorf("Amount() = %s, want 30", got)
	}
}

func TestMovementFor(t *testing.T) {
	if MovementFor(5) != MovementIn {
		t.Error("positive delta should be IN")
	}
	if MovementFor(-5) != MovementOut {
		t.Error("negative delta should be OUT")
	}
}
