package storage

import (
	"context"
	"errors"

	"github.com/hongminglow/auth-smoke/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// PlayerStore captures persistence operations needed by handlers.
type PlayerStore interface {
	CreatePlayer(ctx context.Context, user models.User) (models.User, error)
	FindByID(ctx context.Context, id int64) (models.User, error)
	FindByNick(ctx context.Context, nick string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByIdentifier(ctx context.Context, identifier string) (models.User, error)
	Close()
}
