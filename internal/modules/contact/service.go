package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"mediavault/internal/domain"

	"gorm.io/gorm"
)

// ContactRepositoryInterface is the persistence surface the service needs.
type ContactRepositoryInterface interface {
	Create(ctx context.Context, msg *domain.ContactMessage) error
	GetOwned(ctx context.Context, id, ownerID int64) (*domain.ContactMessage, error)
	ListByUser(ctx context.Context, ownerID int64) ([]domain.ContactMessage, error)
	Save(ctx context.Context, msg *domain.ContactMessage) error
	DeleteOwned(ctx context.Context, id, ownerID int64) (int64, error)
	ListAll(ctx context.Context) ([]domain.ContactMessage, error)
	DeleteAny(ctx context.Context, id int64) (int64, error)
}

type Service struct {
	messages ContactRepositoryInterface
}

func NewService(messages ContactRepositoryInterface) *Service {
	return &Service{messages: messages}
}

// Create stores a message from sender, defaulting name and email to the
// sender's profile when the request leaves them blank.
func (s *Service) Create(ctx context.Context, sender *domain.User, req CreateRequest) (*domain.ContactMessage, error) {
	subject := strings.TrimSpace(req.Subject)
	body := strings.TrimSpace(req.Body)
	if err := validateLengths(subject, body); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = sender.Name
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		email = sender.Email
	}

	msg := &domain.ContactMessage{
		UserID:  sender.ID,
		Name:    name,
		Email:   email,
		Subject: subject,
		Body:    body,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("create contact message: %w", err)
	}
	return msg, nil
}

func (s *Service) ListMine(ctx context.Context, ownerID int64) ([]domain.ContactMessage, error) {
	return s.messages.ListByUser(ctx, ownerID)
}

func (s *Service) GetMine(ctx context.Context, ownerID, id int64) (*domain.ContactMessage, error) {
	msg, err := s.messages.GetOwned(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return msg, nil
}

func (s *Service) UpdateMine(ctx context.Context, ownerID, id int64, req UpdateRequest) (*domain.ContactMessage, error) {
	msg, err := s.GetMine(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	subject := msg.Subject
	body := msg.Body
	if req.Subject != nil {
		subject = strings.TrimSpace(*req.Subject)
	}
	if req.Body != nil {
		body = strings.TrimSpace(*req.Body)
	}
	if err := validateLengths(subject, body); err != nil {
		return nil, err
	}

	msg.Subject = subject
	msg.Body = body
	if err := s.messages.Save(ctx, msg); err != nil {
		return nil, fmt.Errorf("update contact message: %w", err)
	}
	return msg, nil
}

func (s *Service) DeleteMine(ctx context.Context, ownerID, id int64) error {
	affected, err := s.messages.DeleteOwned(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) AdminList(ctx context.Context) ([]domain.ContactMessage, error) {
	return s.messages.ListAll(ctx)
}

func (s *Service) AdminDelete(ctx context.Context, id int64) error {
	affected, err := s.messages.DeleteAny(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func validateLengths(subject, body string) error {
	if subject == "" || utf8.RuneCountInString(subject) > domain.ContactSubjectMaxLen {
		return fmt.Errorf("%w: subject must be 1-%d characters", ErrValidation, domain.ContactSubjectMaxLen)
	}
	if body == "" || utf8.RuneCountInString(body) > domain.ContactBodyMaxLen {
		return fmt.Errorf("%w: body must be 1-%d characters", ErrValidation, domain.ContactBodyMaxLen)
	}
	return nil
}
