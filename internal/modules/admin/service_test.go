package admin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"mediavault/internal/domain"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *mockUserRepo) CountByRole(ctx context.Context, role domain.UserRole) (int64, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func TestService_Promote_Success(t *testing.T) {
	repo := new(mockUserRepo)
	target := &domain.User{ID: 2, Role: domain.RoleUser, PasswordHash: "hash"}

	repo.On("GetByID", mock.Anything, int64(2)).Return(target, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Role == domain.RoleAdmin
	})).Return(nil)

	service := NewService(repo)

	user, err := service.Promote(context.Background(), 2)

	assert.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)
	assert.Empty(t, user.PasswordHash)
	repo.AssertExpectations(t)
}

func TestService_Promote_AlreadyAdmin(t *testing.T) {
	repo := new(mockUserRepo)
	target := &domain.User{ID: 2, Role: domain.RoleAdmin}

	repo.On("GetByID", mock.Anything, int64(2)).Return(target, nil)

	service := NewService(repo)

	_, err := service.Promote(context.Background(), 2)

	assert.ErrorIs(t, err, ErrAlreadyAdmin)
}

func TestService_Promote_NotFound(t *testing.T) {
	repo := new(mockUserRepo)

	repo.On("GetByID", mock.Anything, int64(99)).Return(nil, gorm.ErrRecordNotFound)

	service := NewService(repo)

	_, err := service.Promote(context.Background(), 99)

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestService_Demote_Success(t *testing.T) {
	repo := new(mockUserRepo)
	target := &domain.User{ID: 3, Role: domain.RoleAdmin}

	repo.On("GetByID", mock.Anything, int64(3)).Return(target, nil)
	repo.On("CountByRole", mock.Anything, domain.RoleAdmin).Return(int64(2), nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Role == domain.RoleUser
	})).Return(nil)

	service := NewService(repo)

	user, err := service.Demote(context.Background(), 1, 3)

	assert.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)
	repo.AssertExpectations(t)
}

func TestService_Demote_Self(t *testing.T) {
	repo := new(mockUserRepo)
	service := NewService(repo)

	_, err := service.Demote(context.Background(), 1, 1)

	assert.ErrorIs(t, err, ErrSelfDemotion)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestService_Demote_NotAnAdmin(t *testing.T) {
	repo := new(mockUserRepo)
	target := &domain.User{ID: 3, Role: domain.RoleUser}

	repo.On("GetByID", mock.Anything, int64(3)).Return(target, nil)

	service := NewService(repo)

	_, err := service.Demote(context.Background(), 1, 3)

	assert.ErrorIs(t, err, ErrNotAnAdmin)
}

func TestService_Demote_LastAdminProtected(t *testing.T) {
	repo := new(mockUserRepo)
	target := &domain.User{ID: 3, Role: domain.RoleAdmin}

	repo.On("GetByID", mock.Anything, int64(3)).Return(target, nil)
	repo.On("CountByRole", mock.Anything, domain.RoleAdmin).Return(int64(1), nil)

	service := NewService(repo)

	_, err := service.Demote(context.Background(), 1, 3)

	assert.ErrorIs(t, err, ErrLastAdminProtected)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestService_UpdateUser_EmailTaken(t *testing.T) {
	repo := new(mockUserRepo)
	target := &domain.User{ID: 4, Email: "old@example.com"}

	newEmail := "taken@example.com"
	repo.On("GetByID", mock.Anything, int64(4)).Return(target, nil)
	repo.On("ExistsByEmail", mock.Anything, "taken@example.com").Return(true, nil)

	service := NewService(repo)

	_, err := service.UpdateUser(context.Background(), 1, 4, UpdateUserRequest{Email: &newEmail})

	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestService_UpdateUser_InvalidRole(t *testing.T) {
	repo := new(mockUserRepo)
	target := &domain.User{ID: 4, Role: domain.RoleUser}

	badRole := "superuser"
	repo.On("GetByID", mock.Anything, int64(4)).Return(target, nil)

	service := NewService(repo)

	_, err := service.UpdateUser(context.Background(), 1, 4, UpdateUserRequest{Role: &badRole})

	assert.Error(t, err)
}

func TestService_UpdateUser_SelfDemotionBlocked(t *testing.T) {
	repo := new(mockUserRepo)
	target := &domain.User{ID: 1, Role: domain.RoleAdmin}

	role := "user"
	repo.On("GetByID", mock.Anything, int64(1)).Return(target, nil)

	service := NewService(repo)

	_, err := service.UpdateUser(context.Background(), 1, 1, UpdateUserRequest{Role: &role})

	assert.ErrorIs(t, err, ErrSelfDemotion)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestService_UpdateUser_LastAdminProtected(t *testing.T) {
	repo := new(mockUserRepo)
	target := &domain.User{ID: 3, Role: domain.RoleAdmin}

	role := "user"
	repo.On("GetByID", mock.Anything, int64(3)).Return(target, nil)
	repo.On("CountByRole", mock.Anything, domain.RoleAdmin).Return(int64(1), nil)

	service := NewService(repo)

	_, err := service.UpdateUser(context.Background(), 1, 3, UpdateUserRequest{Role: &role})

	assert.ErrorIs(t, err, ErrLastAdminProtected)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestService_UpdateUser_RoleDemotionAllowedWithSpareAdmin(t *testing.T) {
	repo := new(mockUserRepo)
	target := &domain.User{ID: 3, Role: domain.RoleAdmin}

	role := "user"
	repo.On("GetByID", mock.Anything, int64(3)).Return(target, nil)
	repo.On("CountByRole", mock.Anything, domain.RoleAdmin).Return(int64(2), nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Role == domain.RoleUser
	})).Return(nil)

	service := NewService(repo)

	user, err := service.UpdateUser(context.Background(), 1, 3, UpdateUserRequest{Role: &role})

	assert.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)
	repo.AssertExpectations(t)
}

func TestService_DeactivateUser(t *testing.T) {
	repo := new(mockUserRepo)
	target := &domain.User{ID: 5, IsActive: true}

	repo.On("GetByID", mock.Anything, int64(5)).Return(target, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return !u.IsActive
	})).Return(nil)

	service := NewService(repo)

	err := service.DeactivateUser(context.Background(), 5)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestService_ListUsers_ClearsHashes(t *testing.T) {
	repo := new(mockUserRepo)
	repo.On("List", mock.Anything).Return([]*domain.User{
		{ID: 1, PasswordHash: "a"},
		{ID: 2, PasswordHash: "b"},
	}, nil)

	service := NewService(repo)

	users, err := service.ListUsers(context.Background())

	assert.NoError(t, err)
	for _, u := range users {
		assert.Empty(t, u.PasswordHash)
	}
}
