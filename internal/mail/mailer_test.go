package mail

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSMTPMailer_MessageCarriesConfiguredTTL(t *testing.T) {
	m := NewSMTPMailer("smtp.example.com", "587", "relay@example.com", "secret", "noreply@example.com", 15*time.Minute)

	body := string(m.message("user@example.com", "123456"))

	assert.Contains(t, body, "Your code is 123456.")
	assert.Contains(t, body, "expires in 15 minutes")
	assert.Contains(t, body, "From: noreply@example.com")
	assert.Contains(t, body, "To: user@example.com")
}

func TestSMTPMailer_MessageFloorsSubMinuteTTL(t *testing.T) {
	m := NewSMTPMailer("smtp.example.com", "587", "relay@example.com", "secret", "", 30*time.Second)

	body := string(m.message("user@example.com", "654321"))

	assert.Contains(t, body, "expires in 1 minutes")
	assert.Contains(t, body, "From: relay@example.com")
}
