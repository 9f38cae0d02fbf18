package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Snapshot is the complete ledger document: the unit of persistence and
// replication. Sales and StockLog are ordered most-recent-first.
type Snapshot struct {
	Products []Product       `json:"products" validate:"dive"`
	Users    []User          `json:"users" validate:"dive"`
	Sales    []Sale          `json:"sales" validate:"dive"`
	StockLog []StockLogEntry `json:"stockLog" validate:"dive"`
	Profile  BusinessProfile `json:"profile"`
}

// DefaultSnapshot returns the seeded document used when no local data exists.
// Seed users carry legacy plaintext passwords; UpgradeCredentials must run
// before the snapshot is persisted.
func DefaultSnapshot() *Snapshot {
	return &Snapshot{
		Products: []Product{
			{ID: 1, Name: "Masala Chai", Price: decimal.NewFromInt(15), Category: "Tea", Stock: 100},
			{ID: 2, Name: "Filter Coffee", Price: decimal.NewFromInt(25), Category: "Coffee", Stock: 80},
			{ID: 3, Name: "Samosa", Price: decimal.NewFromInt(20), Category: "Snacks", Stock: 24},
			{ID: 4, Name: "Vada Pav", Price: decimal.NewFromInt(30), Category: "Snacks", Stock: 50},
		},
		Users: []User{
			{ID: 1, Username: "admin", Password: "123", Role: RoleAdmin, Name: "Super Admin"},
			{ID: 2, Username: "staff", Password: "123", Role: RoleStaff, Name: "Staff Member"},
		},
		Sales:    []Sale{},
		StockLog: []StockLogEntry{},
		Profile: BusinessProfile{
			Name:     "Prasad coffee shop",
			Address:  "Raichur",
			Phone:    "9353437302",
			Type:     "Coffee Shop",
			Location: "RAICHUR",
			GST:      "0001111",
		},
	}
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{
		Products: append(make([]Product, 0, len(s.Products)), s.Products...),
		Users:    append(make([]User, 0, len(s.Users)), s.Users...),
		Sales:    make([]Sale, len(s.Sales)),
		StockLog: append(make([]StockLogEntry, 0, len(s.StockLog)), s.StockLog...),
		Profile:  s.Profile,
	}
	for i, sale := range s.Sales {
		sale.Items = append(make([]CartLine, 0, len(sale.Items)), sale.Items...)
		out.Sales[i] = sale
	}
	return out
}

// normalize replaces nil collections with empty ones so the encoded form
// always carries arrays.
func (s *Snapshot) normalize() {
	if s.Products == nil {
		s.Products = []Product{}
	}
	if s.Users == nil {
		s.Users = []User{}
	}
	if s.Sales == nil {
		s.Sales = []Sale{}
	}
	if s.StockLog == nil {
		s.StockLog = []StockLogEntry{}
	}
}

// ProductIndex returns the slice index of the product with the given ID, or -1.
func (s *Snapshot) ProductIndex(id int) int {
	for i := range s.Products {
		if s.Products[i].ID == id {
			return i
		}
	}
	return -1
}

// UserIndex returns the slice index of the user with the given ID, or -1.
func (s *Snapshot) UserIndex(id int) int {
	for i := range s.Users {
		if s.Users[i].ID == id {
			return i
		}
	}
	return -1
}

// NextProductID returns max(product IDs)+1.
func (s *Snapshot) NextProductID() int {
	next := 1
	for _, p := range s.Products {
		if p.ID >= next {
			next = p.ID + 1
		}
	}
	return next
}

// NextUserID returns max(user IDs)+1.
func (s *Snapshot) NextUserID() int {
	next := 1
	for _, u := range s.Users {
		if u.ID >= next {
			next = u.ID + 1
		}
	}
	return next
}

// AdminCount returns the number of users holding the Admin role.
func (s *Snapshot) AdminCount() int {
	n := 0
	for _, u := range s.Users {
		if u.IsAdmin() {
			n++
		}
	}
	return n
}

// UpgradeCredentials hashes any legacy plaintext passwords in place.
// It reports whether anything changed.
func (s *Snapshot) UpgradeCredentials() (bool, error) {
	changed := false
	for i := range s.Users {
		u := &s.Users[i]
		if u.Password == "" {
			continue
		}
		if u.PasswordHash == "" {
			hash, err := HashPassword(u.Password)
			if err != nil {
				return false, fmt.Errorf("failed to hash password for %s: %w", u.Username, err)
			}
			u.PasswordHash = hash
		}
		u.Password = ""
		changed = true
	}
	return changed, nil
}
