package repository

import (
	"context"
	"database/sql"
	"strings"

	"go.uber.org/zap"

	"catalog-console/models"
)

// AdminRepository handles storage of console administrators
type AdminRepository struct {
	*DocumentCollection[models.Admin, *models.Admin]
}

// NewAdminRepository creates a new AdminRepository
func NewAdminRepository(conn *sql.DB, logger *zap.Logger) *AdminRepository {
	return &AdminRepository{
		DocumentCollection: NewDocumentCollection[models.Admin](conn, "admins", logger),
	}
}

// Ensure AdminRepository implements AdminRepositoryInterface
var _ AdminRepositoryInterface = (*AdminRepository)(nil)

// GetByEmail returns the administrator with the given email, compared case-insensitively
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	admins, err := r.list(ctx, `WHERE lower(data->>'email') = $1`, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if len(admins) == 0 {
		return nil, ErrNotFound
	}
	return &admins[0], nil
}
