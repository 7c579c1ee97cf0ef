package domain

import "time"

const (
	ContactSubjectMaxLen = 200
	ContactBodyMaxLen    = 2000
)

// ContactMessage is a message a user sent to the administrators.
type ContactMessage struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"not null;index"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject" gorm:"size:200;not null"`
	Body      string    `json:"body" gorm:"size:2000;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ContactMessage) TableName() string { return "contact_messages" }
