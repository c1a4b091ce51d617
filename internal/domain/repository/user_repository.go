package repository

import (
	"context"

	"github.com/jhoicas/Salon-api/internal/domain/entity"
)

// UserRepository persistencia del personal. El email se guarda ya normalizado y es único.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetByEmail devuelve nil, nil si no existe.
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
}
