package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"mediavault/internal/domain"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	args := m.Called(ctx, googleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockJWTService struct {
	mock.Mock
}

func (m *mockJWTService) GenerateToken(userID int64, role string) (string, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Error(1)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendOTP(ctx context.Context, email, code string) error {
	args := m.Called(ctx, email, code)
	return args.Error(0)
}

func newTestService(users *mockUserRepo, jwtSvc *mockJWTService, mailer *mockMailer) *Service {
	return NewService(users, jwtSvc, mailer, 10*time.Minute, "super-secret-admin-code")
}

func TestService_Register_FirstUserBecomesAdmin(t *testing.T) {
	userRepo := new(mockUserRepo)
	jwtSvc := new(mockJWTService)
	mailer := new(mockMailer)

	userRepo.On("ExistsByEmail", mock.Anything, "first@example.com").Return(false, nil)
	userRepo.On("Count", mock.Anything).Return(int64(0), nil)
	userRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	mailer.On("SendOTP", mock.Anything, "first@example.com", mock.Anything).Return(nil)

	service := newTestService(userRepo, jwtSvc, mailer)

	user, err := service.Register(context.Background(), RegisterRequest{
		Name:     "First User",
		Email:    "first@example.com",
		Password: "securepass123",
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)
	assert.False(t, user.IsVerified)
	assert.Empty(t, user.PasswordHash)

	userRepo.AssertExpectations(t)
	mailer.AssertExpectations(t)
}

func TestService_Register_SubsequentUserIsRegular(t *testing.T) {
	userRepo := new(mockUserRepo)
	jwtSvc := new(mockJWTService)
	mailer := new(mockMailer)

	userRepo.On("ExistsByEmail", mock.Anything, "second@example.com").Return(false, nil)
	userRepo.On("Count", mock.Anything).Return(int64(3), nil)
	userRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	mailer.On("SendOTP", mock.Anything, "second@example.com", mock.Anything).Return(nil)

	service := newTestService(userRepo, jwtSvc, mailer)

	user, err := service.Register(context.Background(), RegisterRequest{
		Name:     "Second User",
		Email:    "Second@Example.com",
		Password: "securepass123",
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.Equal(t, "second@example.com", user.Email)
}

func TestService_Register_EmailExists(t *testing.T) {
	userRepo := new(mockUserRepo)
	jwtSvc := new(mockJWTService)
	mailer := new(mockMailer)

	userRepo.On("ExistsByEmail", mock.Anything, "exists@example.com").Return(true, nil)

	service := newTestService(userRepo, jwtSvc, mailer)

	_, err := service.Register(context.Background(), RegisterRequest{
		Email:    "exists@example.com",
		Password: "securepass123",
	})

	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestService_AdminRegister_WrongCode(t *testing.T) {
	userRepo := new(mockUserRepo)
	jwtSvc := new(mockJWTService)
	mailer := new(mockMailer)

	service := newTestService(userRepo, jwtSvc, mailer)

	_, _, err := service.AdminRegister(context.Background(), AdminRegisterRequest{
		Email:     "admin@example.com",
		Password:  "securepass123",
		AdminCode: "wrong",
	})

	assert.ErrorIs(t, err, ErrInvalidAdminCode)
}

func TestService_AdminRegister_DisabledWhenNoCodeConfigured(t *testing.T) {
	userRepo := new(mockUserRepo)
	jwtSvc := new(mockJWTService)
	mailer := new(mockMailer)

	service := NewService(userRepo, jwtSvc, mailer, 10*time.Minute, "")

	_, _, err := service.AdminRegister(context.Background(), AdminRegisterRequest{
		Email:     "admin@example.com",
		Password:  "securepass123",
		AdminCode: "",
	})

	assert.ErrorIs(t, err, ErrInvalidAdminCode)
}

func TestService_VerifyEmail_Success(t *testing.T) {
	userRepo := new(mockUserRepo)
	jwtSvc := new(mockJWTService)
	mailer := new(mockMailer)

	expires := time.Now().Add(5 * time.Minute)
	pending := &domain.User{
		ID:           7,
		Email:        "pending@example.com",
		Role:         domain.RoleUser,
		IsActive:     true,
		OTPCode:      "123456",
		OTPExpiresAt: &expires,
	}

	userRepo.On("GetByEmail", mock.Anything, "pending@example.com").Return(pending, nil)
	userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.IsVerified && u.OTPCode == "" && u.OTPExpiresAt == nil
	})).Return(nil)
	jwtSvc.On("GenerateToken", int64(7), "user").Return("verified-token", nil)

	service := newTestService(userRepo, jwtSvc, mailer)

	user, token, err := service.VerifyEmail(context.Background(), "pending@example.com", "123456")

	assert.NoError(t, err)
	assert.True(t, user.IsVerified)
	assert.Equal(t, "verified-token", token)

	userRepo.AssertExpectations(t)
}

func TestService_VerifyEmail_ExpiredCode(t *testing.T) {
	userRepo := new(mockUserRepo)
	jwtSvc := new(mockJWTService)
	mailer := new(mockMailer)

	expires := time.Now().Add(-time.Minute)
	pending := &domain.User{
		Email:        "pending@example.com",
		OTPCode:      "123456",
		OTPExpiresAt: &expires,
	}

	userRepo.On("GetByEmail", mock.Anything, "pending@example.com").Return(pending, nil)

	service := newTestService(userRepo, jwtSvc, mailer)

	_, _, err := service.VerifyEmail(context.Background(), "pending@example.com", "123456")

	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestService_VerifyEmail_SingleUse(t *testing.T) {
	userRepo := new(mockUserRepo)
	jwtSvc := new(mockJWTService)
	mailer := new(mockMailer)

	// Already consumed: no pending code on the row.
	consumed := &domain.User{
		Email:      "pending@example.com",
		IsVerified: true,
	}

	userRepo.On("GetByEmail", mock.Anything, "pending@example.com").Return(consumed, nil)

	service := newTestService(userRepo, jwtSvc, mailer)

	_, _, err := service.VerifyEmail(context.Background(), "pending@example.com", "123456")

	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestService_Login_Success(t *testing.T) {
	userRepo := new(mockUserRepo)
	jwtSvc := new(mockJWTService)
	mailer := new(mockMailer)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	existing := &domain.User{
		ID:           10,
		Email:        "user@example.com",
		PasswordHash: string(hashed),
		Role:         domain.RoleUser,
		IsActive:     true,
		IsVerified:   true,
	}

	userRepo.On("GetByEmail", mock.Anything, "user@example.com").Return(existing, nil)
	jwtSvc.On("GenerateToken", int64(10), "user").Return("login-token", nil)

	service := newTestService(userRepo, jwtSvc, mailer)

	user, token, err := service.Login(context.Background(), LoginRequest{
		Email:    "user@example.com",
		Password: "password123",
	})

	assert.NoError(t, err)
	assert.Equal(t, "login-token", token)
	assert.Empty(t, user.PasswordHash)
}

func TestService_Login_WrongPassword(t *testing.T) {
	userRepo := new(mockUserRepo)
	jwtSvc := new(mockJWTService)
	mailer := new(mockMailer)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	existing := &domain.User{
		Email:        "user@example.com",
		PasswordHash: string(hashed),
		IsActive:     true,
		IsVerified:   true,
	}

	userRepo.On("GetByEmail", mock.Anything, "user@example.com").Return(existing, nil)

	service := newTestService(userRepo, jwtSvc, mailer)

	_, _, err := service.Login(context.Background(), LoginRequest{
		Email:    "user@example.com",
		Password: "nope",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Login_Deactivated(t *testing.T) {
	userRepo := new(mockUserRepo)
	jwtSvc := new(mockJWTService)
	mailer := new(mockMailer)

	existing := &domain.User{
		Email:      "user@example.com",
		IsActive:   false,
		IsVerified: true,
	}

	userRepo.On("GetByEmail", mock.Anything, "user@example.com").Return(existing, nil)

	service := newTestService(userRepo, jwtSvc, mailer)

	_, _, err := service.Login(context.Background(), LoginRequest{
		Email:    "user@example.com",
		Password: "password123",
	})

	assert.ErrorIs(t, err, ErrAccountDeactivated)
}

func TestService_Login_Unverified(t *testing.T) {
	userRepo := new(mockUserRepo)
	jwtSvc := new(mockJWTService)
	mailer := new(mockMailer)

	existing := &domain.User{
		Email:    "user@example.com",
		IsActive: true,
	}

	userRepo.On("GetByEmail", mock.Anything, "user@example.com").Return(existing, nil)

	service := newTestService(userRepo, jwtSvc, mailer)

	_, _, err := service.Login(context.Background(), LoginRequest{
		Email:    "user@example.com",
		Password: "password123",
	})

	assert.ErrorIs(t, err, ErrEmailNotVerified)
}

func TestService_Login_OAuthOnlyAccount(t *testing.T) {
	userRepo := new(mockUserRepo)
	jwtSvc := new(mockJWTService)
	mailer := new(mockMailer)

	existing := &domain.User{
		Email:      "user@example.com",
		GoogleID:   "google-123",
		IsActive:   true,
		IsVerified: true,
	}

	userRepo.On("GetByEmail", mock.Anything, "user@example.com").Return(existing, nil)

	service := newTestService(userRepo, jwtSvc, mailer)

	_, _, err := service.Login(context.Background(), LoginRequest{
		Email:    "user@example.com",
		Password: "anything",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_ForgotPassword_UnknownEmailSilent(t *testing.T) {
	userRepo := new(mockUserRepo)
	jwtSvc := new(mockJWTService)
	mailer := new(mockMailer)

	userRepo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

	service := newTestService(userRepo, jwtSvc, mailer)

	err := service.ForgotPassword(context.Background(), "ghost@example.com")

	assert.NoError(t, err)
	mailer.AssertNotCalled(t, "SendOTP", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_ResetPassword_Success(t *testing.T) {
	userRepo := new(mockUserRepo)
	jwtSvc := new(mockJWTService)
	mailer := new(mockMailer)

	expires := time.Now().Add(5 * time.Minute)
	existing := &domain.User{
		Email:        "user@example.com",
		PasswordHash: "old-hash",
		OTPCode:      "654321",
		OTPExpiresAt: &expires,
	}

	userRepo.On("GetByEmail", mock.Anything, "user@example.com").Return(existing, nil)
	userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.OTPCode == "" && u.PasswordHash != "old-hash" &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("newpass123")) == nil
	})).Return(nil)

	service := newTestService(userRepo, jwtSvc, mailer)

	err := service.ResetPassword(context.Background(), ResetPasswordRequest{
		Email:       "user@example.com",
		Code:        "654321",
		NewPassword: "newpass123",
	})

	assert.NoError(t, err)
	userRepo.AssertExpectations(t)
}

func TestService_LoginWithGoogle_ProvisionsNewUser(t *testing.T) {
	userRepo := new(mockUserRepo)
	jwtSvc := new(mockJWTService)
	mailer := new(mockMailer)

	userRepo.On("GetByGoogleID", mock.Anything, "gid-1").Return(nil, gorm.ErrRecordNotFound)
	userRepo.On("GetByEmail", mock.Anything, "new@example.com").Return(nil, gorm.ErrRecordNotFound)
	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.GoogleID == "gid-1" && u.IsVerified && u.PasswordHash == ""
	})).Return(nil)
	jwtSvc.On("GenerateToken", mock.Anything, "user").Return("google-token", nil)

	service := newTestService(userRepo, jwtSvc, mailer)

	user, token, err := service.LoginWithGoogle(context.Background(), "gid-1", "new@example.com", "New User")

	assert.NoError(t, err)
	assert.Equal(t, "google-token", token)
	assert.True(t, user.IsVerified)
}

func TestService_LoginWithGoogle_LinksExistingEmail(t *testing.T) {
	userRepo := new(mockUserRepo)
	jwtSvc := new(mockJWTService)
	mailer := new(mockMailer)

	existing := &domain.User{
		ID:       4,
		Email:    "linked@example.com",
		Role:     domain.RoleUser,
		IsActive: true,
	}

	userRepo.On("GetByGoogleID", mock.Anything, "gid-2").Return(nil, gorm.ErrRecordNotFound)
	userRepo.On("GetByEmail", mock.Anything, "linked@example.com").Return(existing, nil)
	userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.GoogleID == "gid-2" && u.IsVerified
	})).Return(nil)
	jwtSvc.On("GenerateToken", int64(4), "user").Return("linked-token", nil)

	service := newTestService(userRepo, jwtSvc, mailer)

	_, token, err := service.LoginWithGoogle(context.Background(), "gid-2", "linked@example.com", "Linked")

	assert.NoError(t, err)
	assert.Equal(t, "linked-token", token)
}

func TestService_LoginWithGoogle_DeactivatedAccount(t *testing.T) {
	userRepo := new(mockUserRepo)
	jwtSvc := new(mockJWTService)
	mailer := new(mockMailer)

	existing := &domain.User{
		ID:       5,
		GoogleID: "gid-3",
		IsActive: false,
	}

	userRepo.On("GetByGoogleID", mock.Anything, "gid-3").Return(existing, nil)

	service := newTestService(userRepo, jwtSvc, mailer)

	_, _, err := service.LoginWithGoogle(context.Background(), "gid-3", "off@example.com", "Off")

	assert.ErrorIs(t, err, ErrAccountDeactivated)
}

func TestService_UpdateProfile_EmailTaken(t *testing.T) {
	userRepo := new(mockUserRepo)
	jwtSvc := new(mockJWTService)
	mailer := new(mockMailer)

	existing := &domain.User{
		ID:    9,
		Email: "me@example.com",
	}

	newEmail := "taken@example.com"
	userRepo.On("GetByID", mock.Anything, int64(9)).Return(existing, nil)
	userRepo.On("ExistsByEmail", mock.Anything, "taken@example.com").Return(true, nil)

	service := newTestService(userRepo, jwtSvc, mailer)

	_, err := service.UpdateProfile(context.Background(), 9, UpdateProfileRequest{Email: &newEmail})

	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}
