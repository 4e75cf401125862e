package models

// Contact message statuses
const (
	MessageStatusNew     = "new"
	MessageStatusRead    = "read"
	MessageStatusReplied = "replied"
)

// ContactMessage is a message left through the storefront contact form
type ContactMessage struct {
	Meta    `yaml:",inline"`
	Name    string `json:"name" yaml:"name"`
	Email   string `json:"email" yaml:"email"`
	Message string `json:"message" yaml:"message"`
	Status  string `json:"status" yaml:"status"`
}

// ValidMessageStatus reports whether status is one of the known message statuses
func ValidMessageStatus(status string) bool {
	switch status {
	case MessageStatusNew, MessageStatusRead, MessageStatusReplied:
		return true
	}
	return false
}

// ContactStatusRequest represents the request body for a status change
type ContactStatusRequest struct {
	Status string `json:"status"`
}
