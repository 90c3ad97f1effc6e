package repository

import (
	"context"

	"github.com/jhoicas/wms-api/internal/domain/entity"
)

// UserRepository puerto de persistencia de usuarios.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// UpsertByEmail crea el usuario o actualiza hash, rol y nombre si el email ya existe.
	UpsertByEmail(ctx context.Context, user *entity.User) error
}
