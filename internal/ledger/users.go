package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmynk/glasspos/internal/models"
)

// Users returns the user table.
func (s *Store) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(make([]models.User, 0, len(s.snap.Users)), s.snap.Users...)
}

// User looks up a user by ID.
func (s *Store) User(id int) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.snap.UserIndex(id); i >= 0 {
		return s.snap.Users[i], true
	}
	return models.User{}, false
}

// UserByUsername looks up a user by exact username.
func (s *Store) UserByUsername(username string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.snap.Users {
		if u.Username == username {
			return u, true
		}
	}
	return models.User{}, false
}

// AddUser creates a user with a bcrypt-hashed password.
func (s *Store) AddUser(ctx context.Context, username, password, name string, role models.Role) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return models.User{}, fmt.Errorf("%w: username and password are required", ErrInvalidUser)
	}
	if role != models.RoleAdmin && role != models.RoleStaff {
		return models.User{}, fmt.Errorf("%w: unknown role %q", ErrInvalidUser, role)
	}
	if name == "" {
		name = username
	}
	hash, err := models.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	var created models.User
	err = s.mutate(ctx, "add_user", func(next *models.Snapshot) error {
		for _, u := range next.Users {
			if u.Username == username {
				return ErrUsernameTaken
			}
		}
		created = models.User{
			ID:           next.NextUserID(),
			Username:     username,
			PasswordHash: hash,
			Role:         role,
			Name:         name,
		}
		next.Users = append(next.Users, created)
		return nil
	}, nil)
	if err != nil {
		return models.User{}, err
	}

	s.logger.Info("User added", "user_id", created.ID, "username", created.Username, "role", created.Role)
	return created, nil
}

// RemoveUser deletes a user. The last Admin cannot be removed.
func (s *Store) RemoveUser(ctx context.Context, id int) error {
	return s.mutate(ctx, "remove_user", func(next *models.Snapshot) error {
		i := next.UserIndex(id)
		if i < 0 {
			return ErrUserNotFound
		}
		if next.Users[i].IsAdmin() && next.AdminCount() == 1 {
			return ErrLastAdmin
		}
		next.Users = append(next.Users[:i], next.Users[i+1:]...)
		return nil
	}, nil)
}

// UpdateProfile replaces the business profile.
func (s *Store) UpdateProfile(ctx context.Context, profile models.BusinessProfile) error {
	return s.Replace(ctx, FieldProfile, profile)
}
