package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"mediavault/internal/domain"
	"mediavault/internal/mail"
	"mediavault/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service contains all business logic for identity and session issuing.
type Service struct {
	users     UserRepositoryInterface
	jwt       jwtService
	mailer    mail.Mailer
	otpTTL    time.Duration
	adminCode string
}

func NewService(users UserRepositoryInterface, jwt jwtService, mailer mail.Mailer, otpTTL time.Duration, adminCode string) *Service {
	return &Service{
		users:     users,
		jwt:       jwt,
		mailer:    mailer,
		otpTTL:    otpTTL,
		adminCode: adminCode,
	}
}

// Register creates an unverified account and mails a one-time code. The very
// first account ever created becomes an admin. No token is issued until the
// code is confirmed.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	if err := s.validateEmailUnique(ctx, req.Email); err != nil {
		return nil, err
	}

	hashedPassword, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	role := domain.RoleUser
	count, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		role = domain.RoleAdmin
	}

	code, expiresAt, err := s.newOTP()
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         req.Name,
		Email:        normalizeEmail(req.Email),
		PasswordHash: hashedPassword,
		Role:         role,
		IsActive:     true,
		IsVerified:   false,
		OTPCode:      code,
		OTPExpiresAt: &expiresAt,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	if err := s.mailer.SendOTP(ctx, user.Email, code); err != nil {
		return nil, fmt.Errorf("deliver verification code: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}

// AdminRegister creates a verified admin account, gated by the configured
// registration code. It bypasses the first-user rule and OTP delivery.
func (s *Service) AdminRegister(ctx context.Context, req AdminRegisterRequest) (*domain.User, string, error) {
	if s.adminCode == "" || req.AdminCode != s.adminCode {
		return nil, "", ErrInvalidAdminCode
	}

	if err := s.validateEmailUnique(ctx, req.Email); err != nil {
		return nil, "", err
	}

	hashedPassword, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		Name:         req.Name,
		Email:        normalizeEmail(req.Email),
		PasswordHash: hashedPassword,
		Role:         domain.RoleAdmin,
		IsActive:     true,
		IsVerified:   true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", ErrEmailAlreadyExists
		}
		return nil, "", err
	}

	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, "", err
	}

	user.PasswordHash = ""
	return user, token, nil
}

// VerifyEmail confirms a pending one-time code, marks the account verified
// and issues the session token. Codes are single use: both the code and its
// expiry are cleared on success.
func (s *Service) VerifyEmail(ctx context.Context, email, code string) (*domain.User, string, error) {
	user, err := s.consumeOTP(ctx, email, code)
	if err != nil {
		return nil, "", err
	}

	user.IsVerified = true
	if err := s.users.Update(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, "", err
	}

	user.PasswordHash = ""
	return user, token, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !user.IsActive {
		return nil, "", ErrAccountDeactivated
	}
	if !user.IsVerified {
		return nil, "", ErrEmailNotVerified
	}
	if user.PasswordHash == "" {
		// OAuth-only account
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, "", err
	}

	user.PasswordHash = ""
	return user, token, nil
}

// ForgotPassword always reports acceptance so callers cannot probe which
// emails exist. When the account is real, a reset code is mailed.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	code, expiresAt, err := s.newOTP()
	if err != nil {
		return err
	}
	user.OTPCode = code
	user.OTPExpiresAt = &expiresAt
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	return s.mailer.SendOTP(ctx, user.Email, code)
}

func (s *Service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	user, err := s.consumeOTP(ctx, req.Email, req.Code)
	if err != nil {
		return err
	}

	hashedPassword, err := s.hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hashedPassword
	return s.users.Update(ctx, user)
}

// LoginWithGoogle resolves or provisions an account for a verified Google
// identity: by provider id first, then by linking an existing email, else a
// fresh verified user with no password credential.
func (s *Service) LoginWithGoogle(ctx context.Context, googleID, email, name string) (*domain.User, string, error) {
	user, err := s.users.GetByGoogleID(ctx, googleID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		user, err = s.users.GetByEmail(ctx, normalizeEmail(email))
		switch {
		case err == nil:
			user.GoogleID = googleID
			user.IsVerified = true
			if updateErr := s.users.Update(ctx, user); updateErr != nil {
				return nil, "", updateErr
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			user = &domain.User{
				Name:       name,
				Email:      normalizeEmail(email),
				GoogleID:   googleID,
				Role:       domain.RoleUser,
				IsActive:   true,
				IsVerified: true,
			}
			if createErr := s.users.Create(ctx, user); createErr != nil {
				return nil, "", createErr
			}
		default:
			return nil, "", err
		}
	}

	if !user.IsActive {
		return nil, "", ErrAccountDeactivated
	}

	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, "", err
	}

	user.PasswordHash = ""
	return user, token, nil
}

func (s *Service) GetCurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != "" {
		user.Name = *req.Name
	}
	if req.Email != nil && *req.Email != "" {
		newEmail := normalizeEmail(*req.Email)
		if newEmail != user.Email {
			if err := s.validateEmailUnique(ctx, newEmail); err != nil {
				return nil, err
			}
			user.Email = newEmail
		}
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

// consumeOTP validates a pending code and clears it, enforcing single use.
func (s *Service) consumeOTP(ctx context.Context, email, code string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidOTP
		}
		return nil, err
	}

	if user.OTPCode == "" || user.OTPExpiresAt == nil {
		return nil, ErrInvalidOTP
	}
	if user.OTPCode != code || !user.OTPExpiresAt.After(time.Now()) {
		return nil, ErrInvalidOTP
	}

	user.OTPCode = ""
	user.OTPExpiresAt = nil
	return user, nil
}

func (s *Service) newOTP() (string, time.Time, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", time.Time{}, err
	}
	code := fmt.Sprintf("%06d", n.Int64()+100000)
	return code, time.Now().Add(s.otpTTL), nil
}

func (s *Service) validateEmailUnique(ctx context.Context, email string) error {
	exists, err := s.users.ExistsByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	if exists {
		return ErrEmailAlreadyExists
	}
	return nil
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
