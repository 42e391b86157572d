package repositories

import (
	"context"

	"github.com/CareScope-Clinic/assessment-service/internal/models"
)

// UserFilters defines filters for user queries
type UserFilters struct {
	Query  string // Search query for name or email
	Limit  int    // Page size
	Offset int    // Offset for pagination
}

// UserRepository interface for identity lookups (this service is not the
// owner of user data; all operations are read-only against the identity
// collaborator).
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.User, error)

	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)

	// Validation and checks
	ExistsByID(ctx context.Context, id string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	HasRole(ctx context.Context, id string, role models.UserRole) (bool, error)
}
