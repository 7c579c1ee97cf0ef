package admin

import (
	"context"

	"mediavault/internal/domain"
)

// UserRepository — only the methods the admin service uses
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	List(ctx context.Context) ([]*domain.User, error)
	CountByRole(ctx context.Context, role domain.UserRole) (int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
