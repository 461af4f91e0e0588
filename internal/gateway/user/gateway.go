package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/clover/pkg/database"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
	"github.com/google/uuid"
)

const tableName = "users"

// Gateway persists users in PostgreSQL.
type Gateway struct {
	db     database.DB
	logger ectologger.Logger
}

func NewGateway(db database.DB, logger ectologger.Logger) *Gateway {
	return &Gateway{
		db:     db,
		logger: logger,
	}
}

// GetAll returns every user.
func (g *Gateway) GetAll(ctx context.Context) ([]models.User, error) {
	ctx, span := tracing.StartSpan(ctx, "UserGateway.GetAll")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("id", "username", "password", "role")
	sb.From(tableName)
	sb.OrderBy("seq ASC")

	query, args := sb.Build()

	items := []models.User{}
	if err := g.db.SelectContext(ctx, &items, query, args...); err != nil {
		g.logger.WithContext(ctx).WithError(err).Error("failed to list users")
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return items, nil
}

// GetByUsername returns the first user with the given username, or nil when
// none matches. Username uniqueness is not enforced by a constraint, so first
// match wins.
func (g *Gateway) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	ctx, span := tracing.StartSpan(ctx, "UserGateway.GetByUsername")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("id", "username", "password", "role")
	sb.From(tableName)
	sb.Where(sb.Equal("username", username))
	sb.OrderBy("seq ASC")
	sb.Limit(1)

	query, args := sb.Build()

	var u models.User
	err := g.db.GetContext(ctx, &u, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		g.logger.WithContext(ctx).WithError(err).Error("failed to get user by username")
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return &u, nil
}

// Add inserts a user and returns the assigned id.
func (g *Gateway) Add(ctx context.Context, u models.User) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "UserGateway.Add")
	defer span.End()

	id := uuid.New().String()

	ib := database.NewInsertBuilder()
	ib.InsertInto(tableName)
	ib.Cols("id", "username", "password", "role")
	ib.Values(id, u.Username, u.Password, u.Role)

	query, args := ib.Build()

	if _, err := g.db.ExecContext(ctx, query, args...); err != nil {
		g.logger.WithContext(ctx).WithError(err).Error("failed to add user")
		return "", fmt.Errorf("failed to add user: %w", err)
	}

	g.logger.WithContext(ctx).WithFields(map[string]any{
		"id":       id,
		"username": u.Username,
		"role":     u.Role,
	}).Info("added user")

	return id, nil
}

// Update applies the set fields of the update to one user.
func (g *Gateway) Update(ctx context.Context, id string, update models.UserUpdate) error {
	ctx, span := tracing.StartSpan(ctx, "UserGateway.Update")
	defer span.End()

	if update.IsEmpty() {
		return nil
	}

	ub := database.NewUpdateBuilder()
	ub.Update(tableName)

	if update.Username != nil {
		ub.SetMore(ub.Assign("username", *update.Username))
	}
	if update.Password != nil {
		ub.SetMore(ub.Assign("password", *update.Password))
	}
	if update.Role != nil {
		ub.SetMore(ub.Assign("role", *update.Role))
	}

	ub.Where(ub.Equal("id", id))

	query, args := ub.Build()

	if _, err := g.db.ExecContext(ctx, query, args...); err != nil {
		g.logger.WithContext(ctx).WithError(err).Error("failed to update user")
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}

// Delete removes one user.
func (g *Gateway) Delete(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, "UserGateway.Delete")
	defer span.End()

	db := database.NewDeleteBuilder()
	db.DeleteFrom(tableName)
	db.Where(db.Equal("id", id))

	query, args := db.Build()

	if _, err := g.db.ExecContext(ctx, query, args...); err != nil {
		g.logger.WithContext(ctx).WithError(err).Error("failed to delete user")
		return fmt.Errorf("failed to delete user: %w", err)
	}

	g.logger.WithContext(ctx).WithField("id", id).Info("deleted user")

	return nil
}
