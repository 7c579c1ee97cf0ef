package admin

import (
	"context"
	"errors"
	"strings"

	"mediavault/internal/domain"
	"mediavault/internal/repository"

	"gorm.io/gorm"
)

type Service struct {
	users UserRepository
}

func NewService(users UserRepository) *Service {
	return &Service{users: users}
}

func (s *Service) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		u.PasswordHash = ""
	}
	return users, nil
}

// UpdateUser edits profile fields and, optionally, the role. Role changes
// are held to the same guards as Demote: no self-demotion and the last
// remaining admin stays an admin.
func (s *Service) UpdateUser(ctx context.Context, actingID, id int64, req UpdateUserRequest) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		newEmail := strings.ToLower(strings.TrimSpace(*req.Email))
		if newEmail != user.Email {
			exists, err := s.users.ExistsByEmail(ctx, newEmail)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, ErrEmailAlreadyExists
			}
			user.Email = newEmail
		}
	}
	if req.Role != nil {
		role := domain.UserRole(*req.Role)
		if role != domain.RoleUser && role != domain.RoleAdmin {
			return nil, errors.New("invalid role")
		}
		if user.Role == domain.RoleAdmin && role == domain.RoleUser {
			if id == actingID {
				return nil, ErrSelfDemotion
			}
			adminCount, err := s.users.CountByRole(ctx, domain.RoleAdmin)
			if err != nil {
				return nil, err
			}
			if adminCount <= 1 {
				return nil, ErrLastAdminProtected
			}
		}
		user.Role = role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

// DeactivateUser logically retires an account. Records are never physically
// deleted.
func (s *Service) DeactivateUser(ctx context.Context, id int64) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	user.IsActive = false
	return s.users.Update(ctx, user)
}

func (s *Service) Promote(ctx context.Context, targetID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if user.Role == domain.RoleAdmin {
		return nil, ErrAlreadyAdmin
	}

	user.Role = domain.RoleAdmin
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

// Demote flips an admin back to a regular user. The acting admin cannot
// demote themselves, and the last remaining admin is protected.
func (s *Service) Demote(ctx context.Context, actingID, targetID int64) (*domain.User, error) {
	if actingID == targetID {
		return nil, ErrSelfDemotion
	}

	user, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if user.Role != domain.RoleAdmin {
		return nil, ErrNotAnAdmin
	}

	adminCount, err := s.users.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if adminCount <= 1 {
		return nil, ErrLastAdminProtected
	}

	user.Role = domain.RoleUser
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}
