package contact

// CreateRequest carries a new message; name/email default to the sender's
// profile when omitted.
type CreateRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject" binding:"required"`
	Body    string `json:"body" binding:"required"`
}

// UpdateRequest supports partial edits of an owned message.
type UpdateRequest struct {
	Subject *string `json:"subject"`
	Body    *string `json:"body"`
}
