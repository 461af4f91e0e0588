package store

import (
	"context"
	"fmt"

	"github.com/Ramsey-B/clover/pkg/metrics"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// AddUser creates an operator account. Duplicate usernames are rejected
// against the mirror; there is no database constraint backing this.
func (s *Store) AddUser(ctx context.Context, req models.CreateUserRequest) (models.User, error) {
	ctx, span := tracing.StartSpan(ctx, "Store.AddUser")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == req.Username {
			return models.User{}, &DeniedError{
				Reason: fmt.Sprintf("username %q is already taken", req.Username),
			}
		}
	}

	u := models.User{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	}

	id, err := s.gateway.Users.Add(ctx, u)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to add user: %w", err)
	}

	u.ID = id
	s.users = append(s.users, u)

	return u, nil
}

// UpdateUser applies a partial update to one user.
func (s *Store) UpdateUser(ctx context.Context, id string, update models.UserUpdate) (models.User, error) {
	ctx, span := tracing.StartSpan(ctx, "Store.UpdateUser")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, u := range s.users {
		if u.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return models.User{}, &NotFoundError{Entity: "user", ID: id}
	}

	if update.Username != nil {
		for i, u := range s.users {
			if i != idx && u.Username == *update.Username {
				return models.User{}, &DeniedError{
					Reason: fmt.Sprintf("username %q is already taken", *update.Username),
				}
			}
		}
	}

	if err := s.gateway.Users.Update(ctx, id, update); err != nil {
		return models.User{}, fmt.Errorf("failed to update user: %w", err)
	}

	update.Apply(&s.users[idx])

	return s.users[idx], nil
}

// DeleteUser removes a user account.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, "Store.DeleteUser")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, u := range s.users {
		if u.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return &NotFoundError{Entity: "user", ID: id}
	}

	if err := s.gateway.Users.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.users = append(s.users[:idx], s.users[idx+1:]...)

	return nil
}

// Authenticate checks a username and plaintext password against persistence.
// It returns (nil, nil) on a credential mismatch so the caller cannot tell a
// wrong password from an unknown username. Login reads through to the gateway
// rather than the mirror so a stale mirror never locks an operator out.
func (s *Store) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	ctx, span := tracing.StartSpan(ctx, "Store.Authenticate")
	defer span.End()

	u, err := s.gateway.Users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}
	if u == nil || u.Password != password {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		return nil, nil
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	return u, nil
}
