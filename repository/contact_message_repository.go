package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"catalog-console/models"
)

// ContactMessageRepository handles storage of contact form messages
type ContactMessageRepository struct {
	*DocumentCollection[models.ContactMessage, *models.ContactMessage]
}

// NewContactMessageRepository creates a new ContactMessageRepository
func NewContactMessageRepository(conn *sql.DB, logger *zap.Logger) *ContactMessageRepository {
	return &ContactMessageRepository{
		DocumentCollection: NewDocumentCollection[models.ContactMessage](conn, "contact_messages", logger),
	}
}

// Ensure ContactMessageRepository implements ContactMessageRepositoryInterface
var _ ContactMessageRepositoryInterface = (*ContactMessageRepository)(nil)

// Create stores a new message; incoming messages always start as new
func (r *ContactMessageRepository) Create(ctx context.Context, msg *models.ContactMessage) (string, error) {
	msg.Status = models.MessageStatusNew
	return r.DocumentCollection.Create(ctx, msg)
}

// UpdateStatus moves a message to new, read or replied
func (r *ContactMessageRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	if !models.ValidMessageStatus(status) {
		return fmt.Errorf("invalid message status %q", status)
	}
	return r.Update(ctx, id, map[string]any{"status": status})
}
