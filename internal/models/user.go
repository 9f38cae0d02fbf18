package models

import "golang.org/x/crypto/bcrypt"

// Role is the access level of a user.
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleStaff Role = "Staff"
)

// User represents an operator account.
type User struct {
	// ID is the unique numeric identifier of the user.
	ID int `json:"id" validate:"gt=0"`

	// Username is the login name. Unique across users.
	Username string `json:"username" validate:"required"`

	// PasswordHash is the bcrypt hash of the password.
	PasswordHash string `json:"passwordHash,omitempty"`

	// Password is a legacy plaintext credential. Documents carrying it are
	// upgraded to PasswordHash on load and the field is cleared.
	Password string `json:"password,omitempty"`

	// Role decides which screens the user can reach.
	Role Role `json:"role" validate:"oneof=Admin Staff"`

	// Name is the display name printed as the cashier on sales.
	Name string `json:"name"`
}

// IsAdmin reports whether the user holds the Admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HashPassword turns a plaintext password into a bcrypt hash.
func HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(hash), err
}

// CheckPassword compares a bcrypt hash with a plaintext password.
func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
